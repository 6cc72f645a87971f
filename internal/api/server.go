// Package api exposes the public-offer intake service over HTTP: application
// submission and retrieval, filled-form downloads, review status updates and
// admin authentication.
package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/apelng/offerintake/internal/model"
	"github.com/apelng/offerintake/internal/store"
)

// Renderer produces a filled offer form for an application.
type Renderer interface {
	Render(app *model.Application) ([]byte, error)
}

// Uploader moves inline data-URI artifacts to hosted storage and returns
// the hosted URL.
type Uploader interface {
	UploadDataURL(ctx context.Context, dataURL, publicID string) (string, error)
}

// Notifier dispatches submission emails. Implementations must not block.
type Notifier interface {
	DispatchSubmissionEmails(app *model.Application, pdf []byte)
}

// Server wires the HTTP routes to the store, renderer and side services.
// Uploader and Notifier may be nil when the corresponding credentials are
// not configured; the server degrades gracefully.
type Server struct {
	applications *store.Applications
	brokers      *store.Stockbrokers
	admins       *store.Admins
	renderer     Renderer
	uploader     Uploader
	notifier     Notifier
	jwtSecret    []byte
	corsOrigins  []string
	logger       *zap.Logger
}

// Options collects the dependencies of a Server.
type Options struct {
	Applications *store.Applications
	Brokers      *store.Stockbrokers
	Admins       *store.Admins
	Renderer     Renderer
	Uploader     Uploader
	Notifier     Notifier
	JWTSecret    string
	CORSOrigins  []string
	Logger       *zap.Logger
}

// New builds a Server from its dependencies.
func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		applications: opts.Applications,
		brokers:      opts.Brokers,
		admins:       opts.Admins,
		renderer:     opts.Renderer,
		uploader:     opts.Uploader,
		notifier:     opts.Notifier,
		jwtSecret:    []byte(opts.JWTSecret),
		corsOrigins:  opts.CORSOrigins,
		logger:       logger,
	}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(s.corsMiddleware())

	r.GET("/api/health", s.health)

	offers := r.Group("/api/public-offers")
	{
		offers.POST("/applications", s.createApplication)
		offers.GET("/applications", s.requireAuth(), s.listApplications)
		offers.GET("/applications/:id", s.requireAuth(), s.getApplication)
		offers.GET("/applications/:id/pdf", s.downloadApplicationPDF)
		offers.GET("/applications/:id/download", s.downloadApplicationPDF)
		offers.PATCH("/applications/:id/status", s.updateApplicationStatus)
		offers.GET("/statistics", s.getStatistics)
		offers.GET("/stockbrokers", s.getStockbrokers)
	}

	admin := r.Group("/api/admin")
	{
		admin.POST("/register", s.registerAdmin)
		admin.POST("/login", s.loginAdmin)
	}

	return r
}

// corsMiddleware allows the configured origins plus any localhost origin,
// so local frontends work without extra configuration.
func (s *Server) corsMiddleware() gin.HandlerFunc {
	allowed := make(map[string]bool, len(s.corsOrigins))
	for _, o := range s.corsOrigins {
		allowed[o] = true
	}
	return cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool {
			return allowed[origin] || strings.Contains(origin, "localhost")
		},
		AllowMethods:     []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "OK",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "message": message})
}
