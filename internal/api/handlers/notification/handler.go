package notification

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/wb-go/wbf/ginext"
	"github.com/wb-go/wbf/retry"
	"github.com/wb-go/wbf/zlog"

	"github.com/edupulse/deadline-reminder/internal/api/respond"
	"github.com/edupulse/deadline-reminder/internal/config"
	"github.com/edupulse/deadline-reminder/internal/middlewares"
	"github.com/edupulse/deadline-reminder/internal/model"
	"github.com/edupulse/deadline-reminder/internal/repository/notification"
)

// notificationService defines the interface that the Handler depends on.
//
//go:generate mockgen -source=handler.go -destination=../../../mocks/api/handlers/notification/mock.go -package=mocks
type notificationService interface {
	ListForStudent(ctx context.Context, studentID uuid.UUID) ([]model.Notification, error)
	GetStatusByID(ctx context.Context, strategy retry.Strategy, id uuid.UUID) (string, error)
	MarkRead(ctx context.Context, strategy retry.Strategy, id, studentID uuid.UUID) error
}

// Handler handles HTTP requests related to a student's notifications.
type Handler struct {
	service notificationService
	cfg     *config.Config
}

// NewHandler creates a new Handler instance.
func NewHandler(s notificationService, cfg *config.Config) *Handler {
	return &Handler{service: s, cfg: cfg}
}

// List handles HTTP GET requests for the student's notification feed.
// Due reminders for the student are swept before the read, so freshly
// due milestones show up on the same request.
func (h *Handler) List(c *ginext.Context) {
	studentID := middlewares.StudentID(c)

	notifications, err := h.service.ListForStudent(c.Request.Context(), studentID)
	if err != nil {
		zlog.Logger.Error().Err(err).Str("student_id", studentID.String()).Msg("failed to list notifications")
		respond.Fail(c.Writer, http.StatusInternalServerError, fmt.Errorf("internal server error"))
		return
	}

	if notifications == nil {
		notifications = []model.Notification{}
	}

	respond.OK(c.Writer, notifications)
}

// GetStatus handles HTTP GET requests for a notification's read status.
func (h *Handler) GetStatus(c *ginext.Context) {
	idStr := c.Param("id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		zlog.Logger.Error().Err(err).Str("id", idStr).Msg("failed to parse id")
		respond.Fail(c.Writer, http.StatusBadRequest, fmt.Errorf("invalid id"))
		return
	}

	status, err := h.service.GetStatusByID(c.Request.Context(), h.cfg.Retry, id)
	if err != nil {
		if errors.Is(err, notification.ErrNotificationNotFound) {
			zlog.Logger.Warn().Str("id", id.String()).Err(err).Msg("notification not found")
			respond.Fail(c.Writer, http.StatusNotFound, fmt.Errorf("notification not found"))
			return
		}

		zlog.Logger.Error().Err(err).Str("id", id.String()).Msg("failed to get notification status")
		respond.Fail(c.Writer, http.StatusInternalServerError, fmt.Errorf("internal server error"))
		return
	}

	respond.OK(c.Writer, status)
}

// MarkRead handles HTTP PUT requests acknowledging a notification.
func (h *Handler) MarkRead(c *ginext.Context) {
	idStr := c.Param("id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		zlog.Logger.Error().Err(err).Str("id", idStr).Msg("failed to parse id")
		respond.Fail(c.Writer, http.StatusBadRequest, fmt.Errorf("invalid id"))
		return
	}

	studentID := middlewares.StudentID(c)

	err = h.service.MarkRead(c.Request.Context(), h.cfg.Retry, id, studentID)
	if err != nil {
		if errors.Is(err, notification.ErrNotificationNotFound) {
			zlog.Logger.Warn().Str("id", id.String()).Err(err).Msg("notification not found")
			respond.Fail(c.Writer, http.StatusNotFound, fmt.Errorf("notification not found"))
			return
		}

		zlog.Logger.Error().Err(err).Str("id", id.String()).Msg("failed to mark notification read")
		respond.Fail(c.Writer, http.StatusInternalServerError, fmt.Errorf("internal server error"))
		return
	}

	respond.OK(c.Writer, "notification marked as read")
}
