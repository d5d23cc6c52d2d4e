package stub

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	storage *TaskStorage
}

func NewHandler(storage *TaskStorage) *Handler {
	return &Handler{storage: storage}
}

func (h *Handler) HandleReset(c *gin.Context) {
	userID := c.Query("user_id")

	if userID == "" {
		h.storage.ResetAll()
	} else {
		h.storage.Reset(userID)
	}

	slog.Info("reset data", slog.String("user_id", userID))

	c.JSON(http.StatusOK, gin.H{
		"status":  "reset complete",
		"user_id": userID,
	})
}

func (h *Handler) HandleSeed(c *gin.Context) {
	var req SeedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	totalCount := 0
	for _, user := range req.Users {
		if user.UserID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
			return
		}

		if user.Profile != nil {
			h.storage.SetProfile(user.UserID, *user.Profile)
		}

		for _, sb := range user.Buckets {
			dueStart, err := time.Parse(time.RFC3339, sb.DueStart)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid due_start: " + sb.DueStart})
				return
			}
			dueEnd, err := time.Parse(time.RFC3339, sb.DueEnd)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid due_end: " + sb.DueEnd})
				return
			}

			priority := sb.Priority
			if priority == "" {
				priority = "medium"
			}

			h.storage.AddBucket(user.UserID, &Bucket{
				DueStart:         dueStart,
				DueEnd:           dueEnd,
				Count:            sb.Count,
				Priority:         priority,
				Category:         sb.Category,
				EstimatedMinutes: sb.EstimatedMinutes,
			})

			totalCount += sb.Count
		}
	}

	slog.Info("seeded data",
		slog.Int("user_count", len(req.Users)),
		slog.Int("total_task_count", totalCount),
	)

	c.JSON(http.StatusOK, gin.H{
		"status":      "seeded",
		"user_count":  len(req.Users),
		"total_count": totalCount,
	})
}

// GET /api/v1/users
func (h *Handler) HandleGetUsers(c *gin.Context) {
	userIDs := h.storage.UserIDs()

	c.JSON(http.StatusOK, UserIDsResponse{
		UserIDs: userIDs,
		Count:   len(userIDs),
	})
}

// GET /api/v1/users/:userID/tasks
func (h *Handler) HandleGetTasks(c *gin.Context) {
	userID := c.Param("userID")

	tasks := h.storage.GetTasks(userID)

	slog.Debug("get tasks",
		slog.String("user_id", userID),
		slog.Int("count", len(tasks)),
	)

	c.JSON(http.StatusOK, TasksResponse{
		Tasks: tasks,
		Count: len(tasks),
	})
}

// GET /api/v1/users/:userID/profile
func (h *Handler) HandleGetProfile(c *gin.Context) {
	userID := c.Param("userID")

	profile, ok := h.storage.GetProfile(userID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
		return
	}

	c.JSON(http.StatusOK, profile)
}

// POST /api/v1/users/:userID/tasks/:id/status
func (h *Handler) HandleUpdateStatus(c *gin.Context) {
	userID := c.Param("userID")
	id := c.Param("id")

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.storage.SetStatus(userID, id, req.Status)

	slog.Debug("update status",
		slog.String("user_id", userID),
		slog.String("task_id", id),
		slog.String("status", req.Status),
	)

	c.Status(http.StatusNoContent)
}

// Routes attaches the stub endpoints to the router.
func (h *Handler) Routes(r *gin.Engine) {
	r.POST("/admin/reset", h.HandleReset)
	r.POST("/admin/seed", h.HandleSeed)

	v1 := r.Group("/api/v1")
	{
		v1.GET("/users", h.HandleGetUsers)
		v1.GET("/users/:userID/tasks", h.HandleGetTasks)
		v1.GET("/users/:userID/profile", h.HandleGetProfile)
		v1.POST("/users/:userID/tasks/:id/status", h.HandleUpdateStatus)
	}
}
