package middleware

import (
	"strings"

	"go-farmbasket/internal/repository"
	"go-farmbasket/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

// Locals keys set by RequireAuth for downstream handlers.
const (
	LocalUserID = "user_id"
	LocalEmail  = "user_email"
	LocalName   = "user_name"
	LocalRole   = "user_role"
)

// RequireAuth validates the session token (HttpOnly cookie or Bearer
// header) and sets user info in the request context. The role is re-read
// from the database rather than trusted from the token, so a demoted
// account loses access as soon as the row changes.
func RequireAuth(secret []byte, userRepo repository.UserRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := c.Cookies(jwt.SessionCookie)
		if tokenString == "" {
			authHeader := c.Get("Authorization")
			if authHeader == "" {
				return c.Status(401).JSON(fiber.Map{"error": "Missing authorization token"})
			}
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				return c.Status(401).JSON(fiber.Map{"error": "Invalid authorization format. Use: Bearer <token>"})
			}
			tokenString = parts[1]
		}

		claims, err := jwt.ValidateToken(secret, tokenString)
		if err != nil {
			return c.Status(401).JSON(fiber.Map{"error": "Invalid or expired token"})
		}

		user, err := userRepo.FindByID(claims.UserID)
		if err != nil {
			return c.Status(401).JSON(fiber.Map{"error": "User not found"})
		}
		if !user.IsActive {
			return c.Status(401).JSON(fiber.Map{"error": "Account is inactive"})
		}

		c.Locals(LocalUserID, user.ID.String())
		c.Locals(LocalEmail, user.Email)
		c.Locals(LocalName, user.FullName)
		c.Locals(LocalRole, user.Role)

		return c.Next()
	}
}

// RequireRole checks that the authenticated user holds one of the given
// roles. The single guard replaces per-handler role checks.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals(LocalRole).(string)
		if !ok {
			return c.Status(403).JSON(fiber.Map{"error": "No role found"})
		}

		for _, allowed := range roles {
			if role == allowed {
				return c.Next()
			}
		}

		return c.Status(403).JSON(fiber.Map{
			"error": "Forbidden: requires one of " + strings.Join(roles, ", ") + " roles",
		})
	}
}
