// internals/middlewares/auth/auth_middleware.go
package auth

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"

	"github.com/iamanishx/talawa-api/internals/configs"
	helper "github.com/iamanishx/talawa-api/internals/helpers"
)

// AuthMiddleware memverifikasi JWT dan mengisi Locals:
// - user_id   (string uuid)
// - user_role (role global: user/owner)
// Validasi "user masih ada di DB" terjadi di service (AuthCheck), bukan di sini.
func AuthMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, err := extractBearerToken(c)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, err.Error())
		}

		secretKey := configs.JWTSecret
		if secretKey == "" {
			log.Println("[ERROR] JWT_SECRET kosong")
			return fiber.NewError(fiber.StatusInternalServerError, "Missing JWT Secret")
		}

		claims := jwt.MapClaims{}
		parser := jwt.Parser{SkipClaimsValidation: true}
		if _, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(secretKey), nil
		}); err != nil {
			log.Println("[ERROR] Gagal parse token:", err)
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - Token parse error")
		}

		if err := validateTokenExpiry(claims, 30*time.Second); err != nil {
			log.Println("[ERROR] Exp validation:", err)
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - Token expired")
		}

		userID, ok := claims["user_id"].(string)
		if !ok || strings.TrimSpace(userID) == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - Invalid or missing user ID")
		}
		c.Locals(helper.LocUserID, strings.TrimSpace(userID))

		if role, ok := claims["role"].(string); ok && strings.TrimSpace(role) != "" {
			c.Locals(helper.LocUserRole, strings.ToLower(strings.TrimSpace(role)))
		}

		return c.Next()
	}
}

func extractBearerToken(c *fiber.Ctx) (string, error) {
	// 1) Cookie (SPA)
	if v := strings.TrimSpace(c.Cookies("access_token")); v != "" {
		return v, nil
	}
	// 2) Authorization: Bearer <token>
	auth := strings.TrimSpace(c.Get("Authorization"))
	if auth == "" {
		return "", errors.New("Unauthorized - No token provided")
	}
	const p = "Bearer "
	if !strings.HasPrefix(auth, p) {
		return "", errors.New("Unauthorized - Invalid authorization format")
	}
	token := strings.TrimSpace(auth[len(p):])
	if token == "" {
		return "", errors.New("Unauthorized - No token provided")
	}
	return token, nil
}

// validateTokenExpiry mengecek claim exp dengan sedikit leeway untuk clock skew.
func validateTokenExpiry(claims jwt.MapClaims, leeway time.Duration) error {
	expRaw, ok := claims["exp"]
	if !ok {
		return errors.New("missing exp claim")
	}
	var exp time.Time
	switch v := expRaw.(type) {
	case float64:
		exp = time.Unix(int64(v), 0)
	case int64:
		exp = time.Unix(v, 0)
	default:
		return errors.New("invalid exp claim")
	}
	if time.Now().After(exp.Add(leeway)) {
		return fmt.Errorf("token expired at %s", exp.Format(time.RFC3339))
	}
	return nil
}
