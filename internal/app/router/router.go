package router

import (
	"log/slog"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	usersgql "usergraph/internal/feature/users/transport/gql"
	"usergraph/internal/platform/http/handler"
	"usergraph/internal/platform/http/middleware"
	"usergraph/internal/platform/metrics"
)

// Options はルーター生成時の設定です。
type Options struct {
	GraphQLPath      string
	Playground       bool
	CORSAllowOrigins []string
	Pingers          map[string]handler.Pinger
	Logger           *slog.Logger
}

func NewRouter(gql *usersgql.Handler, opts Options) *gin.Engine {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.GraphQLPath == "" {
		opts.GraphQLPath = "/graphql"
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(opts.Logger))
	r.Use(metrics.Middleware())
	r.Use(cors.New(corsConfig(opts.CORSAllowOrigins)))

	// 導通確認用
	r.GET("/healthz", handler.Health)
	r.HEAD("/healthz", handler.Health)
	// ストアへの疎通確認
	r.GET("/readyz", handler.Ready(opts.Pingers))
	// Prometheus
	r.GET("/metrics", metrics.Handler())

	// GraphQL（認証なし）
	r.POST(opts.GraphQLPath, gql.Query)
	if opts.Playground {
		r.GET(opts.GraphQLPath, gql.Playground)
	}

	return r
}

// corsConfig は許可オリジンから CORS 設定を作ります。"*" を含む場合は全オリジンを許可します。
func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
		MaxAge:       12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	return cfg
}
