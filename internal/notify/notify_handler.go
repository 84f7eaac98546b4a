package notify

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/rthunborg/Masterdata-sub001/internal/shared/apperror"
	"github.com/rthunborg/Masterdata-sub001/internal/shared/response"
)

type RegisterSessionRequest struct {
	SessionID         string   `json:"session_id"`
	VisibleIDs        []string `json:"visible_ids"`
	Search            string   `json:"search"`
	IncludeArchived   bool     `json:"include_archived"`
	IncludeTerminated bool     `json:"include_terminated"`
}

type Handler struct {
	rdb    *redis.Client
	logger *zap.Logger
}

func NewHandler(rdb *redis.Client, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("notify.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notify.handler")
	}
	return &Handler{rdb: rdb, logger: l}
}

// RegisterSession reports the caller's current list view. The consumer picks
// it up over pub/sub and classifies subsequent change events against it.
func (h *Handler) RegisterSession(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		response.Error(c, http.StatusUnauthorized, apperror.CodeUnauthorized, "Unauthorized", nil)
		return
	}

	var req RegisterSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		mapped := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, mapped.Status, mapped.Code, mapped.Message, nil)
		return
	}
	if req.SessionID == "" {
		req.SessionID = uuid.NewString()
	}

	update := SessionUpdate{
		SessionID: req.SessionID,
		UserID:    userID,
		View: ViewWire{
			VisibleIDs:        req.VisibleIDs,
			Search:            req.Search,
			IncludeArchived:   req.IncludeArchived,
			IncludeTerminated: req.IncludeTerminated,
		},
	}
	if err := h.publishUpdate(c, update); err != nil {
		return
	}

	response.Success(c, http.StatusOK, gin.H{"session_id": req.SessionID}, nil)
}

func (h *Handler) RemoveSession(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		response.Error(c, http.StatusUnauthorized, apperror.CodeUnauthorized, "Unauthorized", nil)
		return
	}

	update := SessionUpdate{
		SessionID: c.Param("sessionId"),
		UserID:    userID,
		Removed:   true,
	}
	if err := h.publishUpdate(c, update); err != nil {
		return
	}

	response.Success(c, http.StatusOK, gin.H{"removed": true}, nil)
}

// Stream delivers the caller's notifications over server-sent events.
func (h *Handler) Stream(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		response.Error(c, http.StatusUnauthorized, apperror.CodeUnauthorized, "Unauthorized", nil)
		return
	}

	pubsub := h.rdb.Subscribe(c.Request.Context(), UserChannel(userID))
	defer pubsub.Close()

	ch := pubsub.Channel()
	c.Stream(func(w io.Writer) bool {
		select {
		case msg, ok := <-ch:
			if !ok {
				return false
			}
			c.SSEvent("notification", msg.Payload)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

func (h *Handler) publishUpdate(c *gin.Context, update SessionUpdate) error {
	payload, err := json.Marshal(update)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, apperror.CodeInternalError, "Internal server error", nil)
		return err
	}
	if err := h.rdb.Publish(c.Request.Context(), SessionUpdatesChannel, payload).Err(); err != nil {
		h.logger.Error("publish session update failed", zap.Error(err))
		response.Error(c, http.StatusServiceUnavailable, apperror.CodeServiceUnavailable, "Notification service unavailable", nil)
		return err
	}
	return nil
}
