package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"fintrack/internal/config"
	apperrors "fintrack/internal/errors"
	"fintrack/internal/middleware"
	"fintrack/internal/pagination"
	"fintrack/internal/response"
	"fintrack/internal/services"
)

// UserHandler handles registration, authentication, and user administration.
type UserHandler struct {
	userService  services.UserServicer
	auditService services.AuditServicer
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService services.UserServicer, auditService services.AuditServicer) *UserHandler {
	return &UserHandler{userService: userService, auditService: auditService}
}

// RegisterRequest represents the registration request payload
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=1,max=64"`
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=6,max=128"`
}

// LoginRequest represents the login request payload
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// ChangePasswordRequest represents the change-password request payload
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=6,max=128"`
}

// UpdateBudgetRequest represents the update-budget request payload
type UpdateBudgetRequest struct {
	Budget *float64 `json:"budget" binding:"required,gte=0"`
}

// Register handles user registration
// @Summary     Register a new user
// @Description Register a new user with username, email and password
// @Tags        users
// @Accept      json
// @Produce     json
// @Param       request body RegisterRequest true "User registration data"
// @Success     201 {object} response.Success "User created"
// @Failure     400 {object} response.Failure "Missing fields or duplicate email"
// @Router      /users/register [post]
func (h *UserHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	user, err := h.userService.Register(req.Username, req.Email, req.Password)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(user.ID, "REGISTER", "user", user.ID, c.ClientIP(), nil)

	response.OK(c, http.StatusCreated, "User created successfully", user)
}

// Login handles user login
// @Summary     Login user
// @Description Authenticate a user and issue a signed, time-limited token
// @Tags        users
// @Accept      json
// @Produce     json
// @Param       request body LoginRequest true "User login credentials"
// @Success     200 {object} response.Success "Token issued"
// @Failure     400 {object} response.Failure "Invalid credentials"
// @Router      /users/login [post]
func (h *UserHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	user, err := h.userService.AttemptLogin(req.Email, req.Password)
	if err != nil {
		respondWithError(c, err)
		return
	}

	token, err := middleware.GenerateToken(user)
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}

	// The issued token joins the user's active set so logout can revoke it.
	expiresAt := time.Now().Add(config.Get().JWTExpirationDur)
	if err := h.userService.StoreToken(user.ID, middleware.HashToken(token), expiresAt); err != nil {
		respondWithError(c, err)
		return
	}

	response.OK(c, http.StatusOK, "Login successful", gin.H{"token": token})
}

// Logout invalidates exactly the presented token
// @Summary     Logout user
// @Description Remove the presented token from the user's active-token set
// @Tags        users
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} response.Success "Logged out"
// @Failure     401 {object} response.Failure "Unauthorized"
// @Router      /users/logout [get]
func (h *UserHandler) Logout(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	tokenHash, err := getTokenHash(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.userService.RevokeToken(userID, tokenHash); err != nil {
		respondWithError(c, err)
		return
	}

	response.OK(c, http.StatusOK, "Logout successful", nil)
}

// ChangePassword handles password changes for the authenticated user
// @Summary     Change password
// @Description Verify the old password and store the new one
// @Tags        users
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body ChangePasswordRequest true "Old and new password"
// @Success     200 {object} response.Success "Password changed"
// @Failure     400 {object} response.Failure "Invalid credentials or input"
// @Router      /users/change-password [patch]
func (h *UserHandler) ChangePassword(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	if err := h.userService.ChangePassword(userID, req.OldPassword, req.NewPassword); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CHANGE_PASSWORD", "user", userID, c.ClientIP(), nil)

	response.OK(c, http.StatusOK, "Password changed successfully", nil)
}

// DeleteUser removes a user account (admin only)
// @Summary     Delete a user
// @Description Delete a user by ID; administrator only
// @Tags        users
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "User ID"
// @Success     200 {object} response.Success "User deleted"
// @Failure     403 {object} response.Failure "Not an administrator"
// @Failure     404 {object} response.Failure "User not found"
// @Router      /users/delete/{id} [delete]
func (h *UserHandler) DeleteUser(c *gin.Context) {
	adminID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	targetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.userService.DeleteUser(targetID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(adminID, "DELETE_USER", "user", targetID, c.ClientIP(), nil)

	response.OK(c, http.StatusOK, "User deleted successfully", nil)
}

// UpdateBudget sets the caller's budget ceiling
// @Summary     Update budget
// @Description Set the authenticated user's budget ceiling
// @Tags        users
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body UpdateBudgetRequest true "New budget ceiling"
// @Success     200 {object} response.Success "Budget updated"
// @Failure     400 {object} response.Failure "Budget missing"
// @Router      /users/update-budget [patch]
func (h *UserHandler) UpdateBudget(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrBudgetMissing, "Budget is required"))
		return
	}

	user, err := h.userService.UpdateBudget(userID, *req.Budget)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_BUDGET", "user", userID, c.ClientIP(),
		map[string]interface{}{"budget": *req.Budget})

	response.OK(c, http.StatusOK, "Budget updated successfully", gin.H{"budget": user.Budget})
}

// GetAllUsers lists every user (admin only)
// @Summary     List all users
// @Description Get a paginated list of all users; administrator only
// @Tags        users
// @Produce     json
// @Security    BearerAuth
// @Param       page  query int false "Page number (default 1)"
// @Param       limit query int false "Items per page (default 10)"
// @Success     200 {object} response.Success "Users fetched"
// @Failure     403 {object} response.Failure "Not an administrator"
// @Router      /users/get-all-users [get]
func (h *UserHandler) GetAllUsers(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	users, err := h.userService.GetAllUsers(page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	response.OK(c, http.StatusOK, "Users fetched successfully", users)
}
