package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/sdsameer16/Alfitra-Fees/app/models"
)

// SetupAuthRoutes mounts the authentication endpoints.
func SetupAuthRoutes(app *fiber.App) {
	api := app.Group("/api/v1/auth")

	api.Post("/login", LoginAPI)

	api.Use(AuthMiddleware)
	api.Get("/me", MeAPI)
	api.Post("/change-password", ChangePasswordAPI)
}

// AuthMiddleware validates the bearer token (or cookie) and stores the
// caller's identity on the request context.
func AuthMiddleware(c *fiber.Ctx) error {
	var tokenString string

	auth := c.Get("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		tokenString = strings.TrimPrefix(auth, "Bearer ")
	}
	if tokenString == "" {
		tokenString = c.Cookies("jwt_token")
	}

	if tokenString == "" {
		return c.Status(401).JSON(fiber.Map{"success": false, "error": "Not authorized to access this route"})
	}

	claims, err := ValidateJWT(tokenString)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"success": false, "error": "Not authorized to access this route"})
	}

	c.Locals("user_id", claims.UserID)
	c.Locals("user_email", claims.Email)
	c.Locals("user_role", claims.Role)

	return c.Next()
}

// RequireAdmin gates an endpoint to admin users; AuthMiddleware must run
// first.
func RequireAdmin(c *fiber.Ctx) error {
	role, _ := c.Locals("user_role").(models.Role)
	if role != models.RoleAdmin {
		return c.Status(403).JSON(fiber.Map{"success": false, "error": "Admin role required"})
	}
	return c.Next()
}

// CurrentActor returns the authenticated identity for ledger operations.
func CurrentActor(c *fiber.Ctx) (string, models.Role) {
	userID, _ := c.Locals("user_id").(string)
	role, _ := c.Locals("user_role").(models.Role)
	return userID, role
}
