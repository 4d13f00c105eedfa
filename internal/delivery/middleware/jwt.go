package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/smartshelfx/restock-backend/internal/usecase/order"
)

type JWTConfig struct {
	Secret string
}

// RequireStaffJWT admits only ADMIN and MANAGER tokens and stashes the
// decoded actor in the request locals.
func RequireStaffJWT(cfg JWTConfig) fiber.Handler {
	secret := []byte(cfg.Secret)

	return func(c *fiber.Ctx) error {
		auth := c.Get("Authorization")
		if auth == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing authorization header")
		}

		parts := strings.SplitN(auth, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid authorization header")
		}

		token, err := jwt.Parse(parts[1], func(t *jwt.Token) (any, error) {
			if t.Method != jwt.SigningMethodHS256 {
				return nil, fiber.NewError(fiber.StatusUnauthorized, "invalid token signing method")
			}
			return secret, nil
		})
		if err != nil || token == nil || !token.Valid {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid token")
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid token claims")
		}

		role, _ := claims["role"].(string)
		if role != string(order.RoleAdmin) && role != string(order.RoleManager) {
			return fiber.NewError(fiber.StatusForbidden, "insufficient role")
		}

		actor := order.Actor{Role: order.Role(role)}
		if sub, _ := claims["sub"].(string); sub != "" {
			actor.UserID = sub
		}
		// numeric claims decode as float64
		if wh, ok := claims["warehouseId"].(float64); ok && wh > 0 {
			id := int64(wh)
			actor.WarehouseID = &id
		}

		c.Locals("actor", actor)
		return c.Next()
	}
}

// ActorFromCtx returns the actor stashed by RequireStaffJWT.
func ActorFromCtx(c *fiber.Ctx) (order.Actor, bool) {
	a, ok := c.Locals("actor").(order.Actor)
	return a, ok
}
