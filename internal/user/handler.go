package user

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/wichananm65/kunapet-backend/internal/validate"
)

type Handler struct {
	service *Service
}

type signInRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type signUpRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
	FullName string `json:"fullName" validate:"required,max=120"`
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Post("/api/v1/sign-in", h.signIn)
	app.Post("/api/v1/sign-up", h.signUp)
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Post("/api/v1/sign-out", h.signOut)
	app.Get("/api/v1/session", h.getSession)
}

func (h *Handler) signIn(c *fiber.Ctx) error {
	payload := new(signInRequest)
	if err := validate.ParseBody(c, payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Email and password are required"})
	}

	session, err := h.service.SignIn(c.UserContext(), payload.Email, payload.Password)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid email or password"})
	}

	return c.JSON(fiber.Map{
		"message":   "Login successful",
		"user":      session.User,
		"token":     session.Token,
		"expiresAt": session.ExpiresAt,
	})
}

func (h *Handler) signUp(c *fiber.Ctx) error {
	payload := new(signUpRequest)
	if err := validate.ParseBody(c, payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Missing required fields"})
	}

	session, err := h.service.SignUp(c.UserContext(), payload.Email, payload.Password, payload.FullName)
	if err != nil {
		status, msg := signUpFailure(err)
		return c.Status(status).JSON(fiber.Map{"message": msg})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"user":      session.User,
		"token":     session.Token,
		"expiresAt": session.ExpiresAt,
	})
}

func signUpFailure(err error) (int, string) {
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		return fiber.StatusBadRequest, "Invalid email address"
	case errors.Is(err, ErrWeakPassword):
		return fiber.StatusBadRequest, "Password must be at least 6 characters"
	case errors.Is(err, ErrEmailExists):
		return fiber.StatusConflict, "Email already exists"
	default:
		return fiber.StatusInternalServerError, "Could not create account"
	}
}

func (h *Handler) signOut(c *fiber.Ctx) error {
	claims, ok := claimsFromCtx(c.Locals("user"))
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	jti, exp := tokenID(claims)
	if err := h.service.SignOut(c.UserContext(), jti, exp); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"message": "Could not sign out"})
	}
	return c.JSON(fiber.Map{"message": "Signed out"})
}

func (h *Handler) getSession(c *fiber.Ctx) error {
	userID, err := GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	user, err := h.service.GetByID(c.UserContext(), userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "session user no longer exists"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Could not load session"})
	}
	return c.JSON(fiber.Map{"user": sanitizeUser(user)})
}
