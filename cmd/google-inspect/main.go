package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bionicotaku/lingo-utils-claimset"
	"google.golang.org/api/idtoken"
)

func main() {
	envPath := defaultEnvPath()
	if err := loadEnvFile(envPath); err != nil {
		log.Printf("warning: load %s: %v", envPath, err)
	}

	var (
		defaultToken    = os.Getenv("GOOGLE_ID_TOKEN")
		defaultAudience = os.Getenv("GOOGLE_AUDIENCE")
	)

	token := flag.String("token", defaultToken, "Google ID token to verify (env GOOGLE_ID_TOKEN)")
	audience := flag.String("audience", defaultAudience, "Expected audience (env GOOGLE_AUDIENCE)")
	timeout := flag.Duration("timeout", 10*time.Second, "Timeout for certificate fetch")
	envFlag := flag.String("env", envPath, "Optional path to .env file (default .env)")
	flag.Parse()

	if *envFlag != "" && *envFlag != envPath {
		if err := loadEnvFile(*envFlag); err != nil {
			log.Printf("warning: load %s: %v", *envFlag, err)
		}
		reloadDefaults(token, audience)
	}

	if *token == "" || *audience == "" {
		flag.Usage()
		log.Fatal("token and audience are required (via flag, .env, or environment variables)")
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	payload, err := idtoken.Validate(ctx, *token, *audience)
	if err != nil {
		log.Fatalf("validate token: %v", err)
	}

	claims, err := claimset.FromIDTokenPayload(payload)
	if err != nil {
		log.Fatalf("extract claim set: %v", err)
	}

	fmt.Println("== Google Identity Token Verified ==")
	if claims.HasIssuer() {
		iss, _ := claims.Issuer()
		fmt.Printf("issuer       : %s\n", iss)
	}
	if claims.HasSubject() {
		sub, _ := claims.Subject()
		fmt.Printf("subject      : %s\n", sub)
	}
	if claims.HasAudiences() {
		aud, _ := claims.Audiences()
		fmt.Printf("audience     : %s\n", aud)
	}
	if claims.HasExpiration() {
		exp, _ := claims.Expiration()
		fmt.Printf("expires_at   : %s\n", exp.Format(time.RFC3339))
	}
	if claims.HasIssuedAt() {
		iat, _ := claims.IssuedAt()
		fmt.Printf("issued_at    : %s\n", iat.Format(time.RFC3339))
	}
	if names := claims.CustomClaimNames(); len(names) > 0 {
		fmt.Println("custom_claims:")
		for _, name := range names {
			value, err := claims.CustomClaim(name)
			if err != nil {
				continue
			}
			fmt.Printf("  %s: %v\n", name, value)
		}
	}
}

func defaultEnvPath() string {
	if path := os.Getenv("CLAIMSET_ENV_FILE"); path != "" {
		return path
	}
	return ".env"
}

func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, ";") {
			continue
		}
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			log.Printf("warning: invalid line %d in %s", lineNum, filepath.Base(path))
			continue
		}
		key := strings.TrimSpace(parts[0])
		value := strings.Trim(strings.TrimSpace(parts[1]), `"'`)
		if key == "" {
			continue
		}
		if _, exists := os.LookupEnv(key); exists {
			continue
		}
		if err := os.Setenv(key, value); err != nil {
			log.Printf("warning: set env %s: %v", key, err)
		}
	}
	return scanner.Err()
}

func reloadDefaults(token, audience *string) {
	if token != nil && *token == "" {
		*token = os.Getenv("GOOGLE_ID_TOKEN")
	}
	if audience != nil && *audience == "" {
		*audience = os.Getenv("GOOGLE_AUDIENCE")
	}
}
