package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/socialgram-api/internal/interface/http"
	"github.com/oksasatya/socialgram-api/internal/interface/middleware"
	"github.com/oksasatya/socialgram-api/pkg/helpers"
)

// AuthModule wires registration, login, and user search.
// Public: POST /auth/register, POST /auth/login
// Protected: GET /users/search
type AuthModule struct {
	Handler *handlers.AuthHandler
	JWT     *helpers.JWTManager
}

func NewAuthModule(h *handlers.AuthHandler, jwt *helpers.JWTManager) *AuthModule {
	return &AuthModule{Handler: h, JWT: jwt}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	rg.POST("/auth/register", m.Handler.Register)
	rg.POST("/auth/login", m.Handler.Login)

	auth := rg.Group("/")
	auth.Use(middleware.Auth(m.JWT))
	{
		auth.GET("/users/search", m.Handler.Search)
	}
}
