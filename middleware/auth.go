package middleware

import (
	"os"
	"strings"
	"time"

	"TapirTwins/Models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

const defaultSecretKey = "tapir_twins_secret_key"

const TokenExpiration = 24 * time.Hour

// SecretKey returns the JWT signing key, overridable via JWT_SECRET
func SecretKey() []byte {
	if key := os.Getenv("JWT_SECRET"); key != "" {
		return []byte(key)
	}
	return []byte(defaultSecretKey)
}

// GenerateToken issues a signed bearer token for the user
func GenerateToken(userId string) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   userId,
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(TokenExpiration)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(SecretKey())
}

// Verify authenticates the Authorization: Bearer header and stores the
// resolved user in the request context
func Verify() fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Not logged in",
			})
		}

		tokenString := strings.TrimPrefix(header, "Bearer ")

		token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
			return SecretKey(), nil
		})
		if err != nil || !token.Valid {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired token",
			})
		}

		claims, ok := token.Claims.(*jwt.RegisteredClaims)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid token claims",
			})
		}

		// Get user from database
		var user Models.User
		if err := Models.DB.Where("id = ?", claims.Subject).First(&user).Error; err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "User not found",
			})
		}

		// Store user in context for later use in handlers
		c.Locals("user", user)

		return c.Next()
	}
}

// CurrentUser pulls the authenticated user stored by Verify
func CurrentUser(c *fiber.Ctx) (Models.User, bool) {
	user, ok := c.Locals("user").(Models.User)
	return user, ok
}
