package inventoryd

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/probelab/invctl/pkg/schema"
	"gorm.io/gorm"
)

// Server exposes the inventory REST API over a Store.
type Server struct {
	store            *Store
	token            string
	defaultContainer int64
	logger           *slog.Logger
}

// Config holds server settings.
type Config struct {
	// Token is the bearer token every request must carry.
	Token string

	// DefaultContainer is returned by /api/v1/containers/default.
	DefaultContainer int64

	// Registry expands collector configs on read.
	Registry schema.Registry

	Logger *slog.Logger
}

// NewServer creates a server over db and migrates the inventory tables.
func NewServer(db *gorm.DB, cfg Config) (*Server, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	store := NewStore(db, cfg.Registry)
	if err := store.AutoMigrate(); err != nil {
		return nil, err
	}
	return &Server{
		store:            store,
		token:            cfg.Token,
		defaultContainer: cfg.DefaultContainer,
		logger:           logger,
	}, nil
}

// Router returns the API routes with auth applied.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(s.authMiddleware)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/containers/default", s.defaultContainerHandler)

		r.Route("/assets", func(r chi.Router) {
			r.Get("/", s.listAssetsHandler)
			r.Post("/", s.createAssetHandler)
			r.Route("/{assetID}", func(r chi.Router) {
				r.Get("/", s.getAssetHandler)
				r.Patch("/", s.patchAssetHandler)
				r.Put("/collectors/{key}", s.putCollectorHandler)
				r.Delete("/collectors/{key}", s.deleteCollectorHandler)
				r.Put("/labels/{labelID}", s.putAssetLabelHandler)
				r.Delete("/labels/{labelID}", s.deleteAssetLabelHandler)
			})
		})

		r.Route("/labels/{labelID}", func(r chi.Router) {
			r.Get("/", s.getLabelHandler)
			r.Put("/", s.putLabelHandler)
		})
	})

	return r
}

// authMiddleware enforces the static bearer token.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(auth, "Bearer ")
		if !ok || token != s.token {
			s.logger.Warn("unauthorized request", "method", r.Method, "path", r.URL.Path)
			writeError(w, http.StatusUnauthorized, "missing or invalid bearer token")
			return
		}
		next.ServeHTTP(w, r)
	})
}
