package reminder

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/wb-go/wbf/ginext"
	"github.com/wb-go/wbf/zlog"

	"github.com/edupulse/deadline-reminder/internal/api/respond"
	"github.com/edupulse/deadline-reminder/internal/deadline"
	"github.com/edupulse/deadline-reminder/internal/middlewares"
	"github.com/edupulse/deadline-reminder/internal/model"
	"github.com/edupulse/deadline-reminder/internal/repository/item"
)

// scheduleService defines the interface that the Handler depends on.
//
//go:generate mockgen -source=handler.go -destination=../../../mocks/api/handlers/reminder/mock.go -package=mocks
type scheduleService interface {
	CreateSchedule(ctx context.Context, studentID, itemID uuid.UUID, kind model.ItemKind, now time.Time) ([]model.ScheduledReminder, error)
}

// Handler handles HTTP requests for reminder schedules.
type Handler struct {
	service   scheduleService
	validator *validator.Validate
}

// NewHandler creates a new Handler instance.
func NewHandler(s scheduleService, v *validator.Validate) *Handler {
	return &Handler{service: s, validator: v}
}

// CreateRequest represents the JSON body of a schedule creation request.
type CreateRequest struct {
	ItemID   string `json:"item_id" validate:"required,uuid"`
	ItemKind string `json:"item_kind" validate:"required,oneof=project task"`
}

// Create handles HTTP POST requests to create a milestone reminder
// schedule for the calling student and the given item.
func (h *Handler) Create(c *ginext.Context) {
	var req CreateRequest

	if err := json.NewDecoder(c.Request.Body).Decode(&req); err != nil {
		zlog.Logger.Error().Err(err).Msg("failed to decode request body")
		respond.Fail(c.Writer, http.StatusBadRequest, fmt.Errorf("invalid request body"))
		return
	}

	if err := h.validator.Struct(req); err != nil {
		zlog.Logger.Warn().Err(err).Msg("failed to validate request body")
		respond.Fail(c.Writer, http.StatusBadRequest, fmt.Errorf("validation error: %s", err.Error()))
		return
	}

	itemID, err := uuid.Parse(req.ItemID)
	if err != nil {
		zlog.Logger.Error().Err(err).Str("item_id", req.ItemID).Msg("failed to parse item id")
		respond.Fail(c.Writer, http.StatusBadRequest, fmt.Errorf("invalid item id"))
		return
	}

	studentID := middlewares.StudentID(c)

	reminders, err := h.service.CreateSchedule(
		c.Request.Context(), studentID, itemID, model.ItemKind(req.ItemKind), time.Now(),
	)
	if err != nil {
		if errors.Is(err, item.ErrItemNotFound) {
			zlog.Logger.Warn().Str("item_id", req.ItemID).Err(err).Msg("item not found")
			respond.Fail(c.Writer, http.StatusNotFound, fmt.Errorf("item not found"))
			return
		}

		if errors.Is(err, deadline.ErrInvalidDeadline) {
			zlog.Logger.Warn().Str("item_id", req.ItemID).Err(err).Msg("invalid deadline")
			respond.Fail(c.Writer, http.StatusBadRequest, fmt.Errorf("invalid deadline"))
			return
		}

		zlog.Logger.Error().Err(err).Str("item_id", req.ItemID).Msg("failed to create schedule")
		respond.Fail(c.Writer, http.StatusInternalServerError, fmt.Errorf("internal server error"))
		return
	}

	// Items without a deadline concept get no schedule.
	if len(reminders) == 0 {
		respond.OK(c.Writer, []model.ScheduledReminder{})
		return
	}

	respond.Created(c.Writer, reminders)
}
