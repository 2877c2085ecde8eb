package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/socialgram-api/internal/application"
	"github.com/oksasatya/socialgram-api/internal/domain/entity"
	"github.com/oksasatya/socialgram-api/internal/interface/middleware"
	"github.com/oksasatya/socialgram-api/pkg/response"
	"github.com/oksasatya/socialgram-api/pkg/validation"
)

type CommentHandler struct {
	Svc    *application.CommentService
	Logger *logrus.Logger
}

func NewCommentHandler(svc *application.CommentService, logger *logrus.Logger) *CommentHandler {
	return &CommentHandler{Svc: svc, Logger: logger}
}

type createCommentRequest struct {
	Content string `json:"content" binding:"required"`
}

type commentPayload struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"author_id"`
	Username  string    `json:"username,omitempty"`
	PostID    string    `json:"post_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toCommentPayload(c *entity.Comment) commentPayload {
	return commentPayload{
		ID:        c.ID,
		AuthorID:  c.AuthorID,
		Username:  c.Username,
		PostID:    c.PostID,
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// Create POST /api/v1/comments/:postId (auth required)
func (h *CommentHandler) Create(c *gin.Context) {
	var req createCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "comment content is required", validation.ToDetails(err))
		return
	}

	uid := c.GetString(middleware.CtxUserIDKey)
	cm, err := h.Svc.Create(c.Request.Context(), uid, c.Param("postId"), req.Content)
	if err != nil {
		if errors.Is(err, application.ErrEmptyComment) {
			response.Error[any](c, http.StatusBadRequest, "comment content is required", nil)
			return
		}
		h.Logger.WithError(err).Error("create comment failed")
		response.Error[any](c, http.StatusInternalServerError, "failed to create comment", nil)
		return
	}
	response.Success(c, http.StatusCreated, toCommentPayload(cm), "comment created successfully")
}

// List GET /api/v1/comments/:postId
func (h *CommentHandler) List(c *gin.Context) {
	comments, err := h.Svc.ListByPost(c.Request.Context(), c.Param("postId"))
	if err != nil {
		h.Logger.WithError(err).Error("list comments failed")
		response.Error[any](c, http.StatusInternalServerError, "failed to fetch comments", nil)
		return
	}
	out := make([]commentPayload, 0, len(comments))
	for _, cm := range comments {
		out = append(out, toCommentPayload(cm))
	}
	response.Success(c, http.StatusOK, out, "comments")
}
