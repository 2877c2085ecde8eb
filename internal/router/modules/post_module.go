package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/socialgram-api/internal/interface/http"
	"github.com/oksasatya/socialgram-api/internal/interface/middleware"
	"github.com/oksasatya/socialgram-api/pkg/helpers"
)

// PostModule wires post publication and listing.
// Public: POST /posts/upload-presign
// Protected: POST /posts, GET /posts
type PostModule struct {
	Handler *handlers.PostHandler
	JWT     *helpers.JWTManager
}

func NewPostModule(h *handlers.PostHandler, jwt *helpers.JWTManager) *PostModule {
	return &PostModule{Handler: h, JWT: jwt}
}

func (m *PostModule) Register(rg *gin.RouterGroup) {
	rg.POST("/posts/upload-presign", m.Handler.PresignUpload)

	auth := rg.Group("/")
	auth.Use(middleware.Auth(m.JWT))
	{
		auth.POST("/posts", m.Handler.Create)
		auth.GET("/posts", m.Handler.List)
	}
}
