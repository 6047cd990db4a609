package user

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v2"

	"github.com/wichananm65/kunapet-backend/internal/apperrors"
)

// Middleware validates the bearer token and rejects tokens revoked by sign-out.
func Middleware(issuer *Issuer, revoker Revoker) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:    issuer.Secret(),
		SigningMethod: "HS256",
		ContextKey:    "user",
		SuccessHandler: func(c *fiber.Ctx) error {
			claims, ok := claimsFromCtx(c.Locals("user"))
			if !ok {
				return apperrors.Respond(c, apperrors.Unauthorized("invalid token"))
			}
			jti, _ := tokenID(claims)
			if jti != "" {
				revoked, err := revoker.IsRevoked(c.UserContext(), jti)
				if err != nil {
					return apperrors.Respond(c, apperrors.Unavailable("session store unavailable"))
				}
				if revoked {
					return apperrors.Respond(c, apperrors.Unauthorized("session has ended"))
				}
			}
			return c.Next()
		},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return apperrors.Respond(c, apperrors.Unauthorized("missing or invalid token"))
		},
	})
}

// GetUserIDFromCtx extracts the user_id claim from the JWT token stored
// in `c.Locals("user")`.
func GetUserIDFromCtx(c *fiber.Ctx) (int, error) {
	claims, ok := claimsFromCtx(c.Locals("user"))
	if !ok {
		return 0, fiber.ErrUnauthorized
	}
	switch v := claims["user_id"].(type) {
	case float64:
		return int(v), nil
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case string:
		id, err := strconv.Atoi(v)
		if err != nil {
			return 0, fiber.ErrUnauthorized
		}
		return id, nil
	default:
		return 0, fiber.ErrUnauthorized
	}
}
