package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/socialgram-api/internal/application"
	"github.com/oksasatya/socialgram-api/internal/interface/middleware"
	"github.com/oksasatya/socialgram-api/pkg/response"
	"github.com/oksasatya/socialgram-api/pkg/validation"
)

type PostHandler struct {
	Svc    *application.PostService
	Logger *logrus.Logger
}

func NewPostHandler(svc *application.PostService, logger *logrus.Logger) *PostHandler {
	return &PostHandler{Svc: svc, Logger: logger}
}

type createPostRequest struct {
	Caption  string `json:"caption"`
	ImageKey string `json:"image_key"`
}

type presignRequest struct {
	FileName string `json:"file_name" binding:"required"`
	FileType string `json:"file_type" binding:"required"`
}

// Create POST /api/v1/posts (auth required)
func (h *PostHandler) Create(c *gin.Context) {
	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	uid := c.GetString(middleware.CtxUserIDKey)
	payload, err := h.Svc.Publish(c.Request.Context(), uid, req.Caption, req.ImageKey)
	if err != nil {
		if errors.Is(err, application.ErrEmptyPost) {
			response.Error[any](c, http.StatusBadRequest, "caption or image_key is required", nil)
			return
		}
		h.Logger.WithError(err).Error("create post failed")
		response.Error[any](c, http.StatusInternalServerError, "failed to create post", nil)
		return
	}
	response.Success(c, http.StatusCreated, payload, "post created successfully")
}

// List GET /api/v1/posts (auth required)
func (h *PostHandler) List(c *gin.Context) {
	posts, err := h.Svc.List(c.Request.Context())
	if err != nil {
		h.Logger.WithError(err).Error("list posts failed")
		response.Error[any](c, http.StatusInternalServerError, "failed to fetch posts", nil)
		return
	}
	response.Success(c, http.StatusOK, posts, "posts")
}

// PresignUpload POST /api/v1/posts/upload-presign
func (h *PostHandler) PresignUpload(c *gin.Context) {
	var req presignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	res, err := h.Svc.PresignUpload(req.FileName, req.FileType)
	if err != nil {
		h.Logger.WithError(err).Error("presign failed")
		response.Error[any](c, http.StatusInternalServerError, "failed to sign upload url", nil)
		return
	}
	response.Success(c, http.StatusOK, res, "upload url signed")
}
