package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bionicotaku/lingo-utils-claimset"
)

func main() {
	envPath := defaultEnvPath()
	if err := loadEnvFile(envPath); err != nil {
		log.Printf("warning: load %s: %v", envPath, err)
	}

	var (
		defaultToken   = os.Getenv("CLAIMSET_TOKEN")
		defaultPayload = os.Getenv("CLAIMSET_PAYLOAD")
	)

	token := flag.String("token", defaultToken, "Compact JWT whose payload should be decoded (env CLAIMSET_TOKEN)")
	payload := flag.String("payload", defaultPayload, "Raw JSON payload to validate directly (env CLAIMSET_PAYLOAD)")
	envFlag := flag.String("env", envPath, "Optional path to .env file (default .env)")
	flag.Parse()

	if *envFlag != "" && *envFlag != envPath {
		if err := loadEnvFile(*envFlag); err != nil {
			log.Printf("warning: load %s: %v", *envFlag, err)
		}
		reloadDefaults(token, payload)
	}

	var (
		claims *claimset.ClaimSet
		err    error
	)
	switch {
	case *payload != "":
		claims, err = claimset.FromJSONPayload([]byte(*payload))
	case *token != "":
		claims, err = claimset.FromSignedToken([]byte(*token))
	default:
		flag.Usage()
		log.Fatal("either -token or -payload is required (via flag, .env, or environment variables)")
	}
	if err != nil {
		log.Fatalf("decode claim set: %v", err)
	}

	if *payload == "" {
		fmt.Println("== Claim Set (signature NOT verified) ==")
	} else {
		fmt.Println("== Claim Set ==")
	}
	printClaimSet(claims)
}

func printClaimSet(claims *claimset.ClaimSet) {
	if claims.HasIssuer() {
		iss, _ := claims.Issuer()
		fmt.Printf("issuer       : %s\n", iss)
	}
	if claims.HasSubject() {
		sub, _ := claims.Subject()
		fmt.Printf("subject      : %s\n", sub)
	}
	if claims.HasJWTID() {
		jti, _ := claims.JWTID()
		fmt.Printf("jwt_id       : %s\n", jti)
	}
	if claims.HasAudiences() {
		aud, _ := claims.Audiences()
		fmt.Printf("audience     : %s\n", aud)
	}
	if claims.HasExpiration() {
		exp, _ := claims.Expiration()
		fmt.Printf("expires_at   : %s\n", exp.Format(time.RFC3339))
	}
	if claims.HasNotBefore() {
		nbf, _ := claims.NotBefore()
		fmt.Printf("not_before   : %s\n", nbf.Format(time.RFC3339))
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

func reloadDefaults(token, payload *string) {
	if token != nil && *token == "" {
		*token = os.Getenv("CLAIMSET_TOKEN")
	}
	if payload != nil && *payload == "" {
		*payload = os.Getenv("CLAIMSET_PAYLOAD")
	}
}
