package handlers

import (
	"errors"
	"net/http"

	"remindcall/services/user"
	"remindcall/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UserHandler serves the user registration and listing endpoints.
type UserHandler struct {
	Service user.UserService
}

func NewUserHandler(svc user.UserService) *UserHandler {
	return &UserHandler{Service: svc}
}

// CreateUserHandler handles POST /api/users.
func (h *UserHandler) CreateUserHandler(c *gin.Context) {
	logger := utils.GetLogger()

	var req struct {
		Email string `json:"email" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email is required"})
		return
	}

	usr, err := h.Service.RegisterUser(req.Email)
	if err != nil {
		var ie user.InvalidEmailError
		switch {
		case errors.As(err, &ie):
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid email format"})
		case errors.Is(err, user.ErrEmailTaken):
			c.JSON(http.StatusBadRequest, gin.H{"error": "email already exists"})
		default:
			logger.Error("create user failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		}
		return
	}

	c.JSON(http.StatusCreated, usr)
}

// GetUserHandler handles GET /api/users/:userId.
func (h *UserHandler) GetUserHandler(c *gin.Context) {
	logger := utils.GetLogger()

	usr, err := h.Service.GetUserByID(c.Param("userId"))
	if err != nil {
		logger.Error("get user failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	if usr == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, usr)
}

// ListUsersHandler handles GET /api/users.
func (h *UserHandler) ListUsersHandler(c *gin.Context) {
	logger := utils.GetLogger()

	users, err := h.Service.GetAllUsers()
	if err != nil {
		logger.Error("list users failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, users)
}
