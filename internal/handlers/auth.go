package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/lofreports/internal/middleware"
	"github.com/localnerve/lofreports/internal/store"
	"github.com/localnerve/lofreports/internal/types"
	"github.com/localnerve/lofreports/internal/utils"
)

// AuthHandler handles sign in, sign out and password changes
type AuthHandler struct {
	Store *store.Store
	Auth  *middleware.Auth
}

type loginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type passwordInput struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// Login handles POST /api/auth/login
// @Summary Sign in
// @Description Match a username (any case) and password against the user directory and start a session
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body loginInput true "Credentials"
// @Success 200 {object} models.User
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var body loginInput
	if err := c.BodyParser(&body); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, string(types.KindValidation))
	}

	user, err := h.Store.Authenticate(body.Username, body.Password)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}

	if err := h.Auth.Login(c, user); err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "login")
	}

	return utils.SuccessResponse(c, user.Public(), fiber.StatusOK)
}

// Logout handles POST /api/auth/logout
// @Summary Sign out
// @Tags Auth
// @Produce json
// @Success 200 {object} utils.SuccessResponseStruct
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := h.Auth.Logout(c); err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "logout")
	}
	return utils.MutationSuccessResponse(c, h.Store.Version(), nil)
}

// Me handles GET /api/auth/me
// @Summary Current user
// @Tags Auth
// @Produce json
// @Success 200 {object} models.User
// @Failure 401 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	return utils.SuccessResponse(c, user.Public(), fiber.StatusOK)
}

// ChangePassword handles POST /api/auth/password
// @Summary Change password
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body passwordInput true "Current and new password"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /auth/password [post]
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var body passwordInput
	if err := c.BodyParser(&body); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, string(types.KindValidation))
	}

	if err := h.Store.ChangePassword(c.UserContext(), user.ID, body.CurrentPassword, body.NewPassword); err != nil {
		return utils.DomainErrorResponse(c, err)
	}

	return utils.MutationSuccessResponse(c, h.Store.Version(), nil)
}
