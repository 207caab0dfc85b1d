package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/everkind/backend/internal/handler/chat"
	"github.com/everkind/backend/internal/handler/docs"
	"github.com/everkind/backend/internal/handler/system"
	middlewarePkg "github.com/everkind/backend/internal/middleware"
	"github.com/everkind/backend/internal/observability"
)

// Options 描述路由所需的依赖与开关
type Options struct {
	Chat    chat.ChatService
	Logger  zerolog.Logger
	Metrics *observability.Metrics

	AllowedOrigins []string
	// TrustedHosts is enforced only when EnforceHosts is set (production).
	TrustedHosts []string
	EnforceHosts bool
	// EnableDocs exposes /docs and /openapi.json (development).
	EnableDocs bool
}

// NewRouter wires HTTP routes to core services.
func NewRouter(opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middlewarePkg.AccessLog(opts.Logger, opts.Metrics))
	r.Use(middlewarePkg.Recover(opts.Logger))
	r.Use(middlewarePkg.CORS(opts.AllowedOrigins))
	if opts.EnforceHosts {
		r.Use(middlewarePkg.TrustedHosts(opts.TrustedHosts))
	}

	chatHandler := chat.New(opts.Chat, opts.Logger)
	systemHandler := system.New(opts.Chat, opts.Logger)

	r.Route("/api/v1", func(api chi.Router) {
		chatHandler.RegisterRoutes(api)
		systemHandler.RegisterAPIRoutes(api)
	})

	systemHandler.RegisterAppRoutes(r)

	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics.Handler())
	}
	if opts.EnableDocs {
		docs.New().RegisterRoutes(r)
	}

	return r
}
