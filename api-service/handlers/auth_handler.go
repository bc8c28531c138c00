package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"auditgate-backend/api-service/middleware"
	"auditgate-backend/shared/database"
	"auditgate-backend/shared/database/models"
	utils "auditgate-backend/shared/utils/auth"
)

// LoginRequest represents login credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"admin@auditgate.com"`
	Password string `json:"password" binding:"required" example:"admin123"`
}

// LoginResponse represents a successful login
type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
	User        UserInfo  `json:"user"`
}

// UserInfo is the user summary embedded in auth responses
type UserInfo struct {
	ID             uuid.UUID       `json:"id"`
	Email          string          `json:"email"`
	FullName       string          `json:"full_name"`
	Role           models.UserRole `json:"role"`
	OrganizationID *uuid.UUID      `json:"organization_id"`
	IsActive       bool            `json:"is_active"`
}

// ChangePasswordRequest represents a password change for the current user
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
}

func userInfo(user *models.User) UserInfo {
	return UserInfo{
		ID:             user.ID,
		Email:          user.Email,
		FullName:       user.FullName,
		Role:           user.Role,
		OrganizationID: user.OrganizationID,
		IsActive:       user.IsActive,
	}
}

// Login authenticates a user and returns a JWT token
// @Summary User login
// @Description Authenticate a user and return a JWT bearer token
// @Tags auth
// @Accept json
// @Produce json
// @Param login body LoginRequest true "Login credentials"
// @Success 200 {object} handlers.LoginResponse "Successful login"
// @Failure 400 {object} map[string]string "Invalid request format"
// @Failure 401 {object} map[string]string "Invalid credentials"
// @Router /auth/login [post]
func Login(ctx *gin.Context) {
	var req LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	db := database.DB

	var user models.User
	if err := db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	if !utils.VerifyPassword(req.Password, user.HashedPassword) {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	if !user.IsActive {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Account is inactive"})
		return
	}

	token, err := utils.GenerateJWT(user.ID, user.Email)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	ctx.JSON(http.StatusOK, LoginResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresAt:   time.Now().Add(utils.GetJWTExpireDuration()),
		User:        userInfo(&user),
	})
}

// GetMe returns the authenticated user
// @Summary Current user
// @Description Get the authenticated user's profile
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} handlers.UserInfo
// @Failure 401 {object} map[string]string "Unauthorized"
// @Router /auth/me [get]
func GetMe(ctx *gin.Context) {
	user := middleware.CurrentUser(ctx)
	respondSuccess(ctx, http.StatusOK, userInfo(user))
}

// ChangePassword changes the authenticated user's password
// @Summary Change own password
// @Description Change the authenticated user's password after verifying the current one
// @Tags auth
// @Accept json
// @Produce json
// @Param password body ChangePasswordRequest true "Password change"
// @Security BearerAuth
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Router /users/me/change-password [post]
func ChangePassword(ctx *gin.Context) {
	var req ChangePasswordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user := middleware.CurrentUser(ctx)
	db := database.DB

	if !utils.VerifyPassword(req.CurrentPassword, user.HashedPassword) {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Current password is incorrect"})
		return
	}
	if len(req.NewPassword) < 6 {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "New password must be at least 6 characters long"})
		return
	}
	if utils.VerifyPassword(req.NewPassword, user.HashedPassword) {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "New password must be different from current password"})
		return
	}

	hashed, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	if err := db.Model(user).Update("hashed_password", hashed).Error; err != nil {
		respondError(ctx, err, "User not found")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Password changed successfully"})
}
