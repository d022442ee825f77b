package http

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/fwojciec/horizon"
)

// ShutdownTimeout is the time given for outstanding requests to finish
// before the server is closed.
const ShutdownTimeout = 5 * time.Second

// Server serves the JSON API, the unsubscribe page and crawler files.
type Server struct {
	ln     net.Listener
	server *http.Server
	mux    *http.ServeMux

	// Addr is the bind address, e.g. ":8080".
	Addr string

	// BaseURL is the public origin used in sitemap and robots output.
	BaseURL string

	// CronSecret, if set, must be presented as a bearer token to trigger
	// the digest.
	CronSecret string

	// Location is the time zone the digest decides due subscribers in.
	// Defaults to UTC.
	Location *time.Location

	Logger *slog.Logger

	News        horizon.NewsSource
	Headlines   horizon.HeadlineService
	Articles    horizon.ArticleService
	Reader      horizon.ArticleReader
	Renderer    horizon.Renderer
	Subscribers horizon.SubscriberService
	Digests     horizon.DigestService
}

// NewServer returns a new Server with routes registered.
func NewServer() *Server {
	s := &Server{
		mux:    http.NewServeMux(),
		Logger: slog.Default(),
	}
	s.server = &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.mux.HandleFunc("GET /api/news", s.handleNews)
	s.mux.HandleFunc("GET /api/news/search", s.handleNewsSearch)
	s.mux.HandleFunc("GET /api/article", s.handleArticle)
	s.mux.HandleFunc("POST /api/newsletter/subscribe", s.handleSubscribe)
	s.mux.HandleFunc("GET /api/newsletter/unsubscribe", s.handleUnsubscribe)
	s.mux.HandleFunc("GET /api/cron/newsletter", s.handleCronNewsletter)
	s.mux.HandleFunc("POST /api/cron/newsletter", s.handleCronNewsletter)
	s.mux.HandleFunc("GET /sitemap.xml", s.handleSitemap)
	s.mux.HandleFunc("GET /robots.txt", s.handleRobots)
	return s
}

// Open binds to Addr and serves in a background goroutine.
func (s *Server) Open() (err error) {
	if s.ln, err = net.Listen("tcp", s.Addr); err != nil {
		return err
	}
	go func() {
		if err := s.server.Serve(s.ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.Logger.Error("http server", "err", err)
		}
	}()
	return nil
}

// URL returns the local address the server is listening on.
func (s *Server) URL() string {
	if s.ln == nil {
		return ""
	}
	return "http://" + s.ln.Addr().String()
}

// Close gracefully shuts down the server.
func (s *Server) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// ServeHTTP logs each request and dispatches it to the router.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
	defer func(begin time.Time) {
		s.Logger.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(begin),
		)
	}(time.Now())
	s.mux.ServeHTTP(rec, r)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) now() time.Time {
	if s.Location == nil {
		return time.Now().UTC()
	}
	return time.Now().In(s.Location)
}

// authorizeCron reports whether r carries the cron bearer token.
// Every request is authorized when no secret is configured.
func (s *Server) authorizeCron(r *http.Request) bool {
	if s.CronSecret == "" {
		return true
	}
	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	return ok && subtle.ConstantTimeCompare([]byte(token), []byte(s.CronSecret)) == 1
}

// errorResponse is the body of every JSON error.
type errorResponse struct {
	Error string `json:"error"`
}

// Error writes err as JSON with a status derived from its code. Internal
// errors are logged and their details withheld from the client.
func (s *Server) Error(w http.ResponseWriter, r *http.Request, err error) {
	code, message := horizon.ErrorCode(err), horizon.ErrorMessage(err)
	if code == horizon.EINTERNAL {
		s.Logger.Error("http error", "method", r.Method, "path", r.URL.Path, "err", err)
	}
	writeJSON(w, ErrorStatusCode(code), &errorResponse{Error: message})
}

var codes = map[string]int{
	horizon.ECONFLICT:     http.StatusConflict,
	horizon.EINVALID:      http.StatusBadRequest,
	horizon.ENOTFOUND:     http.StatusNotFound,
	horizon.EUNAUTHORIZED: http.StatusUnauthorized,
	horizon.EINTERNAL:     http.StatusInternalServerError,
}

// ErrorStatusCode returns the HTTP status code for an application error code.
func ErrorStatusCode(code string) int {
	if v, ok := codes[code]; ok {
		return v
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
