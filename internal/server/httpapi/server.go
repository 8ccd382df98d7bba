// Package httpapi exposes the place and user services over a JSON HTTP API.
package httpapi

import (
	"context"
	"database/sql"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/dmitrijs2005/placekeeper/internal/logging"
	"github.com/dmitrijs2005/placekeeper/internal/server/models"
	"github.com/dmitrijs2005/placekeeper/internal/server/services"
)

type PlaceService interface {
	Create(ctx context.Context, in services.CreatePlaceInput) (*models.Place, error)
	Delete(ctx context.Context, placeID string) error
	GetByID(ctx context.Context, placeID string) (*models.Place, error)
	ListByUser(ctx context.Context, userID string) ([]*models.Place, error)
	Update(ctx context.Context, placeID, title, description string) (*models.Place, error)
}

type UserService interface {
	Signup(ctx context.Context, in services.SignupInput) (*models.User, error)
	Login(ctx context.Context, email, password string) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
}

type ImageService interface {
	PresignUpload(ctx context.Context, kind string) (*services.UploadTarget, error)
}

// Pinger reports database liveness for /healthz. *sql.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

var _ Pinger = (*sql.DB)(nil)

type HTTPServer struct {
	address         string
	places          PlaceService
	users           UserService
	images          ImageService
	db              Pinger
	logger          logging.Logger
	shutdownTimeout time.Duration
}

func NewHTTPServer(a string, l logging.Logger, ps PlaceService, us UserService, is ImageService, db Pinger, shutdownTimeout time.Duration) *HTTPServer {
	return &HTTPServer{
		address:         a,
		logger:          l.With("module", "http_server"),
		places:          ps,
		users:           us,
		images:          is,
		db:              db,
		shutdownTimeout: shutdownTimeout,
	}
}

// Handler builds the routed, instrumented handler tree.
func (s *HTTPServer) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(s.recoverer)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeMessage(r.Context(), s.logger, w, http.StatusNotFound, msgRouteNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeMessage(r.Context(), s.logger, w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.Get("/healthz", s.health)

	r.Route("/api", func(r chi.Router) {
		r.Route("/places", func(r chi.Router) {
			r.Post("/", s.createPlace)
			r.Get("/user/{uid}", s.listPlacesByUser)
			r.Get("/{pid}", s.getPlace)
			r.Patch("/{pid}", s.updatePlace)
			r.Delete("/{pid}", s.deletePlace)
		})
		r.Route("/users", func(r chi.Router) {
			r.Get("/", s.listUsers)
			r.Post("/signup", s.signup)
			r.Post("/login", s.login)
		})
		r.Post("/uploads/images", s.presignImage)
	})

	return otelhttp.NewHandler(r, "placekeeper.http",
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}))
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *HTTPServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

func (s *HTTPServer) Serve(ctx context.Context, listen net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	done := make(chan error, 1)
	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.shutdownTimeout)
		defer cancel()
		done <- srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return <-done
}
