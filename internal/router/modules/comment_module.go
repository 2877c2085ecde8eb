package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/socialgram-api/internal/interface/http"
	"github.com/oksasatya/socialgram-api/internal/interface/middleware"
	"github.com/oksasatya/socialgram-api/pkg/helpers"
)

// CommentModule wires comment creation and listing.
// Public: GET /comments/:postId
// Protected: POST /comments/:postId
type CommentModule struct {
	Handler *handlers.CommentHandler
	JWT     *helpers.JWTManager
}

func NewCommentModule(h *handlers.CommentHandler, jwt *helpers.JWTManager) *CommentModule {
	return &CommentModule{Handler: h, JWT: jwt}
}

func (m *CommentModule) Register(rg *gin.RouterGroup) {
	rg.GET("/comments/:postId", m.Handler.List)

	auth := rg.Group("/")
	auth.Use(middleware.Auth(m.JWT))
	{
		auth.POST("/comments/:postId", m.Handler.Create)
	}
}
