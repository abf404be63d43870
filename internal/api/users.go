// users.go implements user management endpoints. All routes in this file are
// admin-only; the router mounts them behind RequireAdmin.
package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/asset-inventory/asset-inventory/internal/auth"
	"github.com/asset-inventory/asset-inventory/internal/db/models"
	"github.com/asset-inventory/asset-inventory/internal/db/repositories"
)

// UserHandlers handles user management endpoints
type UserHandlers struct {
	userRepo *repositories.UserRepository
	recorder AuditRecorder
}

func NewUserHandlers(userRepo *repositories.UserRepository, recorder AuditRecorder) *UserHandlers {
	return &UserHandlers{
		userRepo: userRepo,
		recorder: recorder,
	}
}

// UserView is the API representation of a user account. The password hash is
// never serialized.
type UserView struct {
	ID        string  `json:"id"`
	Username  string  `json:"username"`
	Role      string  `json:"role"`
	Email     *string `json:"email"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt string  `json:"updated_at"`
}

func userView(u *models.User) UserView {
	return UserView{
		ID:        u.ID,
		Username:  u.Username,
		Role:      u.Role,
		Email:     u.Email,
		CreatedAt: u.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt: u.UpdatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}

// CreateUserRequest represents a user creation request
type CreateUserRequest struct {
	Username string  `json:"username" binding:"required"`
	Password string  `json:"password" binding:"required"`
	Role     string  `json:"role" binding:"required"`
	Email    *string `json:"email"`
}

// UpdateUserRequest represents a user update request. Empty fields are left
// unchanged.
type UpdateUserRequest struct {
	Password string  `json:"password"`
	Role     string  `json:"role"`
	Email    *string `json:"email"`
}

// @Summary      List users
// @Description  Returns user accounts with pagination.
// @Tags         Users
// @Security     Bearer
// @Produce      json
// @Param        page      query  int  false  "Page number (default 1)"
// @Param        per_page  query  int  false  "Items per page (default 20, max 100)"
// @Success      200  {object}  map[string]interface{}  "users, pagination"
// @Failure      403  {object}  map[string]interface{}  "Forbidden"
// @Router       /api/users [get]
// ListUsersHandler returns users with pagination
// GET /api/users
func (h *UserHandlers) ListUsersHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		page, perPage := paginationParams(c)

		users, total, err := h.userRepo.ListUsers(c.Request.Context(), perPage, (page-1)*perPage)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to list users",
			})
			return
		}

		views := make([]UserView, 0, len(users))
		for _, u := range users {
			views = append(views, userView(u))
		}

		c.JSON(http.StatusOK, gin.H{
			"users": views,
			"pagination": gin.H{
				"page":     page,
				"per_page": perPage,
				"total":    total,
			},
		})
	}
}

// @Summary      Get user
// @Tags         Users
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "User ID"
// @Success      200  {object}  map[string]interface{}  "user"
// @Failure      404  {object}  map[string]interface{}  "User not found"
// @Router       /api/users/{id} [get]
// GetUserHandler returns a single user
// GET /api/users/:id
func (h *UserHandlers) GetUserHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Param("id")

		user, err := h.userRepo.GetUserByID(c.Request.Context(), userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to get user",
			})
			return
		}
		if user == nil {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "User not found",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"user": userView(user),
		})
	}
}

// @Summary      Create user
// @Description  Creates a user account with the given role.
// @Tags         Users
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  CreateUserRequest  true  "User"
// @Success      201  {object}  map[string]interface{}  "user"
// @Failure      400  {object}  map[string]interface{}  "Invalid request"
// @Failure      409  {object}  map[string]interface{}  "Username already exists"
// @Router       /api/users [post]
// CreateUserHandler creates a new user account
// POST /api/users
func (h *UserHandlers) CreateUserHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateUserRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid request: " + err.Error(),
			})
			return
		}

		if !models.ValidRole(req.Role) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid role: must be admin, editor, or viewer",
			})
			return
		}

		if len(req.Password) < auth.MinPasswordLength {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Password must be at least " + strconv.Itoa(auth.MinPasswordLength) + " characters",
			})
			return
		}

		existing, err := h.userRepo.GetUserByUsername(c.Request.Context(), req.Username)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to check username",
			})
			return
		}
		if existing != nil {
			c.JSON(http.StatusConflict, gin.H{
				"error": "Username already exists",
			})
			return
		}

		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to hash password",
			})
			return
		}

		user := &models.User{
			Username:     req.Username,
			PasswordHash: hash,
			Role:         req.Role,
			Email:        req.Email,
		}

		if err := h.userRepo.CreateUser(c.Request.Context(), user); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to create user",
			})
			return
		}

		h.recorder.RecordUser(actor(c), models.ActionCreate, "user", &user.ID, map[string]interface{}{
			"username": user.Username,
			"role":     user.Role,
		})

		c.JSON(http.StatusCreated, gin.H{
			"user": userView(user),
		})
	}
}

// @Summary      Update user
// @Description  Updates a user's password, role, or email. Empty fields are unchanged.
// @Tags         Users
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string             true  "User ID"
// @Param        body  body  UpdateUserRequest  true  "Fields to update"
// @Success      200  {object}  map[string]interface{}  "user"
// @Failure      400  {object}  map[string]interface{}  "Invalid request"
// @Failure      404  {object}  map[string]interface{}  "User not found"
// @Failure      409  {object}  map[string]interface{}  "Cannot demote last admin"
// @Router       /api/users/{id} [put]
// UpdateUserHandler updates an existing user
// PUT /api/users/:id
func (h *UserHandlers) UpdateUserHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Param("id")

		var req UpdateUserRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid request: " + err.Error(),
			})
			return
		}

		user, err := h.userRepo.GetUserByID(c.Request.Context(), userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to get user",
			})
			return
		}
		if user == nil {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "User not found",
			})
			return
		}

		before := map[string]interface{}{
			"role":  user.Role,
			"email": user.Email,
		}

		if req.Role != "" && req.Role != user.Role {
			if !models.ValidRole(req.Role) {
				c.JSON(http.StatusBadRequest, gin.H{
					"error": "Invalid role: must be admin, editor, or viewer",
				})
				return
			}
			// Demoting the last admin would lock everyone out of user management
			if user.Role == models.RoleAdmin {
				admins, err := h.userRepo.CountAdmins(c.Request.Context())
				if err != nil {
					c.JSON(http.StatusInternalServerError, gin.H{
						"error": "Failed to count admins",
					})
					return
				}
				if admins <= 1 {
					c.JSON(http.StatusConflict, gin.H{
						"error": "Cannot demote the last admin",
					})
					return
				}
			}
			user.Role = req.Role
		}

		if req.Password != "" {
			if len(req.Password) < auth.MinPasswordLength {
				c.JSON(http.StatusBadRequest, gin.H{
					"error": "Password must be at least " + strconv.Itoa(auth.MinPasswordLength) + " characters",
				})
				return
			}
			hash, err := auth.HashPassword(req.Password)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{
					"error": "Failed to hash password",
				})
				return
			}
			user.PasswordHash = hash
		}

		if req.Email != nil {
			user.Email = req.Email
		}

		if err := h.userRepo.UpdateUser(c.Request.Context(), user); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to update user",
			})
			return
		}

		details := updateDetails(map[string]interface{}{
			"username": user.Username,
			"role":     user.Role,
		}, before, map[string]interface{}{
			"role":  user.Role,
			"email": user.Email,
		})
		// Never diff the hash itself; just note that it changed.
		if req.Password != "" {
			details["password_changed"] = true
		}
		h.recorder.RecordUser(actor(c), models.ActionUpdate, "user", &user.ID, details)

		c.JSON(http.StatusOK, gin.H{
			"user": userView(user),
		})
	}
}

// @Summary      Delete user
// @Description  Deletes a user account. The last admin cannot be deleted.
// @Tags         Users
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "User ID"
// @Success      200  {object}  map[string]interface{}  "message"
// @Failure      404  {object}  map[string]interface{}  "User not found"
// @Failure      409  {object}  map[string]interface{}  "Cannot delete last admin"
// @Router       /api/users/{id} [delete]
// DeleteUserHandler deletes a user account
// DELETE /api/users/:id
func (h *UserHandlers) DeleteUserHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Param("id")

		user, err := h.userRepo.GetUserByID(c.Request.Context(), userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to get user",
			})
			return
		}
		if user == nil {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "User not found",
			})
			return
		}

		if user.Role == models.RoleAdmin {
			admins, err := h.userRepo.CountAdmins(c.Request.Context())
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{
					"error": "Failed to count admins",
				})
				return
			}
			if admins <= 1 {
				c.JSON(http.StatusConflict, gin.H{
					"error": "Cannot delete the last admin",
				})
				return
			}
		}

		if err := h.userRepo.DeleteUser(c.Request.Context(), userID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to delete user",
			})
			return
		}

		h.recorder.RecordUser(actor(c), models.ActionDelete, "user", &userID, map[string]interface{}{
			"username": user.Username,
		})

		c.JSON(http.StatusOK, gin.H{
			"message": "User deleted",
		})
	}
}

// actor returns the authenticated user from the request context, or nil when
// the request is unauthenticated.
func actor(c *gin.Context) *models.User {
	if v, ok := c.Get("user"); ok {
		if u, ok := v.(*models.User); ok {
			return u
		}
	}
	return nil
}

// paginationParams parses page and per_page query parameters with defaults
// page=1 and per_page=20 (capped at 100).
func paginationParams(c *gin.Context) (page, perPage int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	perPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))
	if perPage < 1 {
		perPage = 20
	}
	if perPage > 100 {
		perPage = 100
	}
	return page, perPage
}
