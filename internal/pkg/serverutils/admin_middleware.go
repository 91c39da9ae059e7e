package serverutils

import (
	"crypto/subtle"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	AdminTokenHeader = "X-Admin-Token"
	AdminTokenTTL    = 24 * time.Hour
	adminSubject     = "admin"
)

var ErrJWTDisabled = errors.New("serverutils: ADMIN_JWT_SECRET not configured")

// AdminCredentials are checked in order: bearer JWT, static token, bcrypt
// hash of the token.
type AdminCredentials struct {
	Token     string
	TokenHash string
	JWTSecret string
}

func (c AdminCredentials) Configured() bool {
	return c.Token != "" || c.TokenHash != "" || c.JWTSecret != ""
}

func AdminMiddleware(creds AdminCredentials) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		if !creds.Configured() {
			return fiber.NewError(fiber.StatusInternalServerError, "Admin credentials not configured")
		}

		if auth := ctx.Get(fiber.HeaderAuthorization); strings.HasPrefix(auth, "Bearer ") {
			if creds.JWTSecret != "" && validAdminJWT(strings.TrimPrefix(auth, "Bearer "), creds.JWTSecret) {
				ctx.Locals("admin", true)
				return ctx.Next()
			}
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid token")
		}

		token := ctx.Get(AdminTokenHeader)
		if token == "" {
			// browsers cannot set headers on websocket upgrades
			token = ctx.Query("token")
		}
		if token == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Missing token")
		}
		if creds.matches(token) {
			ctx.Locals("admin", true)
			return ctx.Next()
		}
		return fiber.NewError(fiber.StatusUnauthorized, "Invalid token")
	}
}

func (c AdminCredentials) matches(token string) bool {
	if c.Token != "" && subtle.ConstantTimeCompare([]byte(token), []byte(c.Token)) == 1 {
		return true
	}
	if c.TokenHash != "" && bcrypt.CompareHashAndPassword([]byte(c.TokenHash), []byte(token)) == nil {
		return true
	}
	return c.JWTSecret != "" && validAdminJWT(token, c.JWTSecret)
}

// IssueAdminToken signs a short lived HS256 token for the admin surface.
func IssueAdminToken(secret string, now time.Time) (string, time.Time, error) {
	if secret == "" {
		return "", time.Time{}, ErrJWTDisabled
	}
	exp := now.Add(AdminTokenTTL)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   adminSubject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	})
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

func validAdminJWT(tokenStr, secret string) bool {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return false
	}
	return claims.Subject == adminSubject
}
