// auth.go implements the login endpoint and the current-user endpoint.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/asset-inventory/asset-inventory/internal/auth"
	"github.com/asset-inventory/asset-inventory/internal/config"
	"github.com/asset-inventory/asset-inventory/internal/db/models"
	"github.com/asset-inventory/asset-inventory/internal/db/repositories"
)

// AuthHandlers handles authentication endpoints
type AuthHandlers struct {
	cfg      *config.Config
	userRepo *repositories.UserRepository
	recorder AuditRecorder
}

func NewAuthHandlers(cfg *config.Config, userRepo *repositories.UserRepository, recorder AuditRecorder) *AuthHandlers {
	return &AuthHandlers{
		cfg:      cfg,
		userRepo: userRepo,
		recorder: recorder,
	}
}

// LoginRequest represents the credentials submitted to the login endpoint
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// @Summary      Log in
// @Description  Authenticate with username and password and receive a session token.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        body  body  LoginRequest  true  "Credentials"
// @Success      200  {object}  map[string]interface{}  "token, user"
// @Failure      400  {object}  map[string]interface{}  "Invalid request"
// @Failure      401  {object}  map[string]interface{}  "Invalid credentials"
// @Router       /api/auth/login [post]
// LoginHandler authenticates a user and issues a JWT
// POST /api/auth/login
func (h *AuthHandlers) LoginHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid request: " + err.Error(),
			})
			return
		}

		user, err := h.userRepo.GetUserByUsername(c.Request.Context(), req.Username)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to look up user",
			})
			return
		}

		// Same response for unknown user and wrong password
		if user == nil || !auth.CheckPassword(req.Password, user.PasswordHash) {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid credentials",
			})
			return
		}

		token, err := auth.GenerateJWT(user.ID, user.Username, user.Role, h.cfg.Auth.TokenExpiry)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to issue token",
			})
			return
		}

		h.recorder.RecordUser(user, models.ActionLogin, "auth", nil, map[string]interface{}{
			"username": user.Username,
		})

		c.JSON(http.StatusOK, gin.H{
			"token": token,
			"user":  userView(user),
		})
	}
}

// @Summary      Current user
// @Description  Returns the authenticated user's account.
// @Tags         Auth
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "user"
// @Failure      401  {object}  map[string]interface{}  "Unauthorized"
// @Router       /api/auth/me [get]
// MeHandler returns the user loaded by the auth middleware
// GET /api/auth/me
func (h *AuthHandlers) MeHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userVal, exists := c.Get("user")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "User not authenticated",
			})
			return
		}

		user, ok := userVal.(*models.User)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Invalid user context",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"user": userView(user),
		})
	}
}
