package token

import "os"

const devSecret = "dev-secret-change-me"

// Secret returns the HMAC signing key for JWTs. Issuer and verifier must
// read it from the same place; the fallback keeps local development
// working when JWT_SECRET is unset.
func Secret() string {
	if s := os.Getenv("JWT_SECRET"); s != "" {
		return s
	}
	return devSecret
}
