package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"github.com/KaramelBytes/sheetdash/internal/dataset"
)

// DefaultMaxUpload caps multipart uploads when the server is built without a limit.
const DefaultMaxUpload int64 = 10 << 20

// Server exposes a Session over HTTP.
type Server struct {
	Session   *Session
	Logger    *slog.Logger
	MaxUpload int64
}

// NewServer returns a Server for sess. maxUpload <= 0 uses DefaultMaxUpload.
func NewServer(sess *Session, logger *slog.Logger, maxUpload int64) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if maxUpload <= 0 {
		maxUpload = DefaultMaxUpload
	}
	return &Server{Session: sess, Logger: logger, MaxUpload: maxUpload}
}

// Routes builds the router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.Logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, map[string]string{"status": "ok"})
	})

	r.Route("/api/dataset", func(r chi.Router) {
		r.Get("/", s.handleCurrent)
		r.Post("/sample", s.handleSample)
		r.Post("/url", s.handleURL)
		r.Post("/file", s.handleFile)
	})
	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.Logger.Info("listening", slog.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}

func (s *Server) handleCurrent(w http.ResponseWriter, r *http.Request) {
	snap := s.Session.Current()
	if snap == nil {
		s.fail(w, r, newProblem(http.StatusNotFound, "No Dataset", "no dataset has been loaded yet"))
		return
	}
	render.JSON(w, r, NewView(snap))
}

func (s *Server) handleSample(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, NewView(s.Session.LoadSample()))
}

type urlRequest struct {
	URL string `json:"url"`
}

func (s *Server) handleURL(w http.ResponseWriter, r *http.Request) {
	var req urlRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.fail(w, r, newProblem(http.StatusBadRequest, "Invalid Request", "body must be a JSON object with a url field"))
		return
	}
	snap, err := s.Session.LoadURL(r.Context(), req.URL)
	if err != nil {
		s.fail(w, r, errorToProblem(err))
		return
	}
	render.JSON(w, r, NewView(snap))
}

func (s *Server) handleFile(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.MaxUpload)
	f, hdr, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.fail(w, r, newProblem(http.StatusRequestEntityTooLarge, "Upload Too Large",
				fmt.Sprintf("uploads are limited to %d bytes", s.MaxUpload)))
			return
		}
		s.fail(w, r, newProblem(http.StatusBadRequest, "Invalid Request", "multipart form with a file field is required"))
		return
	}
	defer f.Close()

	snap, err := s.Session.LoadUpload(r.Context(), hdr.Filename, f)
	if err != nil {
		s.fail(w, r, errorToProblem(err))
		return
	}
	render.JSON(w, r, NewView(snap))
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, p *Problem) {
	p.Instance = r.URL.Path
	lvl := slog.LevelWarn
	if p.Status >= http.StatusInternalServerError {
		lvl = slog.LevelError
	}
	s.Logger.Log(r.Context(), lvl, "request failed",
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.Int("status", p.Status),
		slog.String("detail", p.Detail))
	_ = render.Render(w, r, p)
}

// errorToProblem maps load failures to HTTP problems.
func errorToProblem(err error) *Problem {
	var (
		unsupported *dataset.UnsupportedExtensionError
		invalid     *dataset.InvalidInputError
		network     *dataset.NetworkError
		decode      *dataset.DecodeError
		empty       *dataset.EmptyDatasetError
		ioRead      *dataset.IOReadError
	)
	switch {
	case errors.As(err, &unsupported):
		return newProblem(http.StatusUnsupportedMediaType, "Unsupported File Type", err.Error())
	case errors.As(err, &invalid):
		return newProblem(http.StatusBadRequest, "Invalid Input", err.Error())
	case errors.As(err, &decode):
		return newProblem(http.StatusUnprocessableEntity, "Unreadable Data", err.Error())
	case errors.As(err, &empty):
		return newProblem(http.StatusUnprocessableEntity, "Empty Dataset", err.Error())
	case errors.As(err, &network):
		return newProblem(http.StatusBadGateway, "Fetch Failed", err.Error())
	case errors.As(err, &ioRead):
		return newProblem(http.StatusInternalServerError, "Read Failed", err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return newProblem(http.StatusGatewayTimeout, "Request Timeout", err.Error())
	default:
		return newProblem(http.StatusInternalServerError, "Internal Error", err.Error())
	}
}

// Problem is an RFC 7807 problem document.
type Problem struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`
}

func newProblem(status int, title, detail string) *Problem {
	slug := strings.ToLower(strings.ReplaceAll(title, " ", "-"))
	return &Problem{Type: "/errors/" + slug, Title: title, Status: status, Detail: detail}
}

// Render implements render.Renderer.
func (p *Problem) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, p.Status)
	return nil
}

func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Debug("http request",
				slog.String("request_id", middleware.GetReqID(r.Context())),
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.Status()),
				slog.Int("bytes", ww.BytesWritten()),
				slog.Duration("duration", time.Since(start)))
		})
	}
}
