package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/KasumiMercury/primind-remind-scheduling/internal/service/dispatcher"
)

type TaskEventHandler struct {
	dispatcher *dispatcher.Dispatcher
}

func NewTaskEventHandler(d *dispatcher.Dispatcher) *TaskEventHandler {
	return &TaskEventHandler{
		dispatcher: d,
	}
}

type taskEventRequest struct {
	UserID string      `json:"user_id" binding:"required"`
	Task   taskRequest `json:"task" binding:"required"`
}

type taskEventResponse struct {
	TaskID         string `json:"task_id"`
	Action         string `json:"action"`
	ScheduledCount int    `json:"scheduled_count"`
	CancelledCount int    `json:"cancelled_count"`
	FailedCount    int    `json:"failed_count"`
}

// HandleTaskEvent reschedules one task after the task service reports
// a change. Completed tasks have their pending notifications cleared.
func (h *TaskEventHandler) HandleTaskEvent(c *gin.Context) {
	ctx := c.Request.Context()

	var req taskEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.WarnContext(ctx, "task event request binding failed",
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

	slog.InfoContext(ctx, "processing task event",
		slog.String("user_id", req.UserID),
		slog.String("task_id", task.ID),
		slog.String("status", task.Status.String()),
		slog.String("priority", task.Priority.String()),
	)

	result, err := h.dispatcher.ApplyTaskEvent(ctx, req.UserID, task, time.Now())
	if err != nil {
		slog.ErrorContext(ctx, "failed to apply task event",
			slog.String("user_id", req.UserID),
			slog.String("task_id", task.ID),
			slog.String("error", err.Error()),
		)
		respondError(c, http.StatusInternalServerError, "processing_error", "failed to process task event")
		return
	}

	c.JSON(http.StatusOK, taskEventResponse{
		TaskID:         result.TaskID,
		Action:         string(result.Action),
		ScheduledCount: result.ScheduledCount,
		CancelledCount: result.CancelledCount,
		FailedCount:    result.FailedCount,
	})
}

type dismissRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

// HandleDismiss suppresses a task's notifications for the rest of the
// day at the user's request.
func (h *TaskEventHandler) HandleDismiss(c *gin.Context) {
	ctx := c.Request.Context()

	taskID := c.Param("taskID")
	if taskID == "" {
		respondError(c, http.StatusBadRequest, "validation_error", "task ID is required")
		return
	}

	var req dismissRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	if err := h.dispatcher.DismissTask(ctx, req.UserID, taskID, time.Now()); err != nil {
		slog.ErrorContext(ctx, "failed to dismiss task",
			slog.String("user_id", req.UserID),
			slog.String("task_id", taskID),
			slog.String("error", err.Error()),
		)
		respondError(c, http.StatusInternalServerError, "processing_error", "failed to dismiss task")
		return
	}

	c.Status(http.StatusNoContent)
}
