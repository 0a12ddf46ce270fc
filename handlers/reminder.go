package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"remindcall/models"
	"remindcall/services/reminder"
	"remindcall/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ReminderHandler serves the reminder CRUD endpoints.
type ReminderHandler struct {
	Service reminder.ReminderService
}

func NewReminderHandler(svc reminder.ReminderService) *ReminderHandler {
	return &ReminderHandler{Service: svc}
}

// CreateReminderHandler handles POST /api/reminders.
func (h *ReminderHandler) CreateReminderHandler(c *gin.Context) {
	logger := utils.GetLogger()

	var req struct {
		UserID      string `json:"user_id" binding:"required"`
		PhoneNumber string `json:"phone_number" binding:"required"`
		Message     string `json:"message" binding:"required"`
		ScheduledAt string `json:"scheduled_at" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing fields"})
		return
	}

	rem, err := h.Service.CreateReminder(reminder.CreateReminderInput{
		UserID:      req.UserID,
		PhoneNumber: req.PhoneNumber,
		Message:     req.Message,
		ScheduledAt: req.ScheduledAt,
	})
	if err != nil {
		var ve reminder.ValidationError
		if errors.As(err, &ve) {
			c.JSON(http.StatusBadRequest, gin.H{"error": ve.Error()})
			return
		}
		logger.Error("create reminder failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusCreated, rem)
}

// GetReminderHandler handles GET /api/reminders/:id.
func (h *ReminderHandler) GetReminderHandler(c *gin.Context) {
	logger := utils.GetLogger()

	detail, err := h.Service.GetReminderDetail(c.Param("id"))
	if err != nil {
		logger.Error("get reminder failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	if detail == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, detail)
}

// ListUserRemindersHandler handles GET /api/users/:userId/reminders.
func (h *ReminderHandler) ListUserRemindersHandler(c *gin.Context) {
	logger := utils.GetLogger()

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "25"))

	reminders, err := h.Service.ListUserReminders(c.Param("userId"), c.Query("status"), page, pageSize)
	if err != nil {
		var ve reminder.ValidationError
		if errors.As(err, &ve) {
			c.JSON(http.StatusBadRequest, gin.H{"error": ve.Error()})
			return
		}
		logger.Error("list reminders failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	if reminders == nil {
		reminders = []models.Reminder{}
	}
	c.JSON(http.StatusOK, reminders)
}
