package router

import (
	"github.com/oksasatya/socialgram-api/internal/application"
	"github.com/oksasatya/socialgram-api/internal/container"
	"github.com/oksasatya/socialgram-api/internal/infrastructure/gcs"
	pginfra "github.com/oksasatya/socialgram-api/internal/infrastructure/postgres"
	handlers "github.com/oksasatya/socialgram-api/internal/interface/http"
	"github.com/oksasatya/socialgram-api/internal/router/modules"
)

// InitModules builds every feature module from the container singletons and
// registers it with the router registry. Called once during startup.
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	pool := container.GetPGPool()

	users := pginfra.NewUserRepository(pool)
	posts := pginfra.NewPostRepository(pool)
	comments := pginfra.NewCommentRepository(pool)

	signer := gcs.NewSigner(container.GetGCS(), cfg.GCSBucket, cfg.UploadURLTTL, cfg.DownloadURLTTL)

	authSvc := application.NewAuthService(users, container.GetJWT(), logger, container.GetES(), cfg.ESUsersIndex)
	postSvc := application.NewPostService(posts, users, signer, container.GetBroker(), logger)
	commentSvc := application.NewCommentService(comments)

	r.Add(modules.NewAuthModule(handlers.NewAuthHandler(authSvc, logger), container.GetJWT()))
	r.Add(modules.NewPostModule(handlers.NewPostHandler(postSvc, logger), container.GetJWT()))
	r.Add(modules.NewCommentModule(handlers.NewCommentHandler(commentSvc, logger), container.GetJWT()))
}
