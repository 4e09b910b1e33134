package auth

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yuelin-lee/mentorhub/pkg/mentorhub/mail"
	"github.com/yuelin-lee/mentorhub/pkg/mentorhub/models"
	"gorm.io/gorm"
)

// Handler handles authentication requests
type Handler struct {
	db             *gorm.DB
	sender         mail.Sender
	signupsEnabled bool
}

// NewHandler creates a new auth handler. When signupsEnabled is false,
// verification still works for existing accounts but no new ones are created.
func NewHandler(db *gorm.DB, sender mail.Sender, signupsEnabled bool) *Handler {
	return &Handler{db: db, sender: sender, signupsEnabled: signupsEnabled}
}

// SendCodeRequest represents the request to email a verification code
type SendCodeRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// VerifyRequest represents the code verification request body
type VerifyRequest struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required,len=6,numeric"`
}

// AuthResponse represents the authentication response
type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// UserResponse represents user data in responses
type UserResponse struct {
	ID    uint   `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// SendCode emails a verification code to the given address
// @Summary Request a verification code
// @Description Email a 6-digit login code valid for five minutes
// @Tags auth
// @Accept json
// @Produce json
// @Param request body SendCodeRequest true "Email address"
// @Success 200 {object} map[string]string "Code sent"
// @Failure 400 {object} map[string]string "Validation error"
// @Router /auth/code [post]
func (h *Handler) SendCode(c *gin.Context) {
	var req SendCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	email := strings.ToLower(req.Email)

	code, err := GenerateCode()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate code"})
		return
	}

	// One active code per address: replace anything outstanding
	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("email = ?", email).Delete(&models.VerificationToken{}).Error; err != nil {
			return err
		}
		token := models.VerificationToken{
			Email:     email,
			CodeHash:  HashCode(code),
			ExpiresAt: time.Now().Add(CodeTTL),
		}
		return tx.Create(&token).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store code"})
		return
	}

	if err := h.sender.SendVerificationCode(c.Request.Context(), email, code, CodeTTL); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send code"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Verification code sent"})
}

// Verify exchanges a verification code for a session token
// @Summary Verify a code
// @Description Exchange an emailed code for a JWT session token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body VerifyRequest true "Email and code"
// @Success 200 {object} AuthResponse
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 401 {object} map[string]string "Invalid or expired code"
// @Failure 403 {object} map[string]string "Signups disabled"
// @Router /auth/verify [post]
func (h *Handler) Verify(c *gin.Context) {
	var req VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	email := strings.ToLower(req.Email)

	var token models.VerificationToken
	if err := h.db.Where("email = ? AND code_hash = ?", email, HashCode(req.Code)).First(&token).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired code"})
		return
	}
	if time.Now().After(token.ExpiresAt) {
		h.db.Delete(&token)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired code"})
		return
	}

	// Single use: consume the code before issuing a session
	if err := h.db.Delete(&token).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to consume code"})
		return
	}

	// Upsert the user by email; first login creates the account
	var user models.User
	if err := h.db.Where("email = ?", email).First(&user).Error; err != nil {
		if !h.signupsEnabled {
			c.JSON(http.StatusForbidden, gin.H{"error": "Signups are disabled"})
			return
		}
		name := email
		if i := strings.Index(email, "@"); i > 0 {
			name = email[:i]
		}
		user = models.User{
			Email: email,
			Name:  name,
			Role:  models.UserRoleUser,
		}
		if err := h.db.Create(&user).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
			return
		}
	}

	sessionToken, err := GenerateToken(user.ID, user.Email, string(user.Role))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, AuthResponse{
		Token: sessionToken,
		User: UserResponse{
			ID:    user.ID,
			Email: user.Email,
			Name:  user.Name,
			Role:  string(user.Role),
		},
	})
}

// Me returns the current authenticated user
// @Summary Get current user
// @Description Get the authenticated user's profile
// @Tags auth
// @Produce json
// @Success 200 {object} UserResponse
// @Failure 401 {object} map[string]string "Authentication required"
// @Security BearerAuth
// @Router /auth/me [get]
func (h *Handler) Me(c *gin.Context) {
	userID, exists := GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var user models.User
	if err := h.db.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, UserResponse{
		ID:    user.ID,
		Email: user.Email,
		Name:  user.Name,
		Role:  string(user.Role),
	})
}

// Logout handles user logout (client-side token invalidation)
// @Summary Logout
// @Description Logout the current user (client-side token invalidation)
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]string "Logged out successfully"
// @Router /auth/logout [post]
func (h *Handler) Logout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

// ListUsers returns all users (admin only)
// @Summary List users
// @Description List all user accounts
// @Tags admin
// @Produce json
// @Success 200 {array} UserResponse
// @Security BearerAuth
// @Router /admin/users [get]
func (h *Handler) ListUsers(c *gin.Context) {
	var users []models.User
	if err := h.db.Order("created_at DESC").Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
		return
	}

	responses := make([]UserResponse, len(users))
	for i, u := range users {
		responses[i] = UserResponse{
			ID:    u.ID,
			Email: u.Email,
			Name:  u.Name,
			Role:  string(u.Role),
		}
	}

	c.JSON(http.StatusOK, responses)
}

// RegisterRoutes registers auth routes on the given router group
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/code", h.SendCode)
	rg.POST("/verify", h.Verify)
	rg.POST("/logout", h.Logout)
	rg.GET("/me", AuthMiddleware(), h.Me)
}

// RegisterAdminRoutes registers admin-only user routes
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.GET("/users", h.ListUsers)
}
