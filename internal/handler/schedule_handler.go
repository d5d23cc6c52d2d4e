package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/KasumiMercury/primind-remind-scheduling/internal/service/dispatcher"
	"github.com/KasumiMercury/primind-remind-scheduling/internal/service/schedule"
)

type ScheduleHandler struct {
	dispatcher *dispatcher.Dispatcher
	calculator *schedule.Calculator
}

func NewScheduleHandler(d *dispatcher.Dispatcher, calc *schedule.Calculator) *ScheduleHandler {
	return &ScheduleHandler{
		dispatcher: d,
		calculator: calc,
	}
}

// HandleSweep runs a full sweep on demand. The "from" query parameter
// sets a virtual now for replaying historical or future states.
func (h *ScheduleHandler) HandleSweep(c *gin.Context) {
	ctx := c.Request.Context()

	now := time.Now()
	if fromStr := c.Query("from"); fromStr != "" {
		parsed, err := time.Parse(time.RFC3339, fromStr)
		if err != nil {
			respondError(c, http.StatusBadRequest, "validation_error", "invalid from time format, expected RFC3339")
			return
		}
		now = parsed
		slog.InfoContext(ctx, "using virtual time for sweep",
			slog.Time("virtual_now", now),
		)
	}

	result, err := h.dispatcher.SweepAll(ctx, now)
	if err != nil {
		slog.ErrorContext(ctx, "sweep failed",
			slog.String("error", err.Error()),
		)
		respondError(c, http.StatusInternalServerError, "processing_error", "sweep failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"run_id":          result.RunID,
		"sweep_time":      result.SweepTime,
		"user_count":      result.UserCount,
		"task_count":      result.TaskCount,
		"scheduled_count": result.ScheduledCount,
		"cancelled_count": result.CancelledCount,
		"failed_count":    result.FailedCount,
	})
}

type previewRequest struct {
	Task                 taskRequest        `json:"task" binding:"required"`
	Profile              profileRequest     `json:"profile"`
	Preferences          preferencesPayload `json:"preferences"`
	Now                  *time.Time         `json:"now,omitempty"`
	OverdueReminderCount int                `json:"overdue_reminder_count"`
}

type previewNotification struct {
	Time     time.Time `json:"time"`
	Reason   string    `json:"reason"`
	Type     string    `json:"type"`
	Priority string    `json:"priority"`
	Title    string    `json:"title"`
	Body     string    `json:"body"`
	Urgency  string    `json:"urgency"`
}

// HandlePreview computes a schedule without touching the delivery sink
// or any stored state. The same request always yields the same
// response.
func (h *ScheduleHandler) HandlePreview(c *gin.Context) {
	ctx := c.Request.Context()

	var req previewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.WarnContext(ctx, "preview request binding failed",
			slog.String("error", err.Error()),
		)
		respondError(c, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	task, err := req.Task.toDomain()
	if err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	prefs, err := req.Preferences.toDomain()
	if err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	now := time.Now()
	if req.Now != nil {
		now = *req.Now
	}

	sched, stats := h.calculator.CalculateWithStats(task, req.Profile.toDomain(), req.OverdueReminderCount, prefs, now)

	notifications := make([]previewNotification, 0, len(sched.Notifications))
	for _, n := range sched.Notifications {
		notifications = append(notifications, previewNotification{
			Time:     n.Time,
			Reason:   n.Reason,
			Type:     n.Type.String(),
			Priority: n.Priority.String(),
			Title:    n.Content.Title,
			Body:     n.Content.Body,
			Urgency:  n.Content.Urgency.String(),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"task_id":                sched.TaskID,
		"task_title":             sched.TaskTitle,
		"notifications":          notifications,
		"suppressed_quiet_hours": stats.SuppressedQuietHours,
		"suppressed_lead_time":   stats.SuppressedLeadTime,
	})
}
