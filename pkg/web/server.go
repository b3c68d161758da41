package web

import (
	"bytes"
	"context"
	"html/template"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	playform "github.com/go-playground/form"
	"github.com/gorilla/websocket"
	"github.com/jmhodges/clock"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/datedmemo/datedmemo/pkg/memo"
	"github.com/datedmemo/datedmemo/pkg/middleware"
)

// Server serves the memo pages and binder sessions.
type Server struct {
	store  memo.Store
	clock  clock.Clock
	loc    *time.Location
	logger *slog.Logger
	debug  bool

	metrics     *middleware.Metrics
	metricsPath string
	tracing     []middleware.OTelOption
	traced      bool

	pages    map[string]*template.Template
	decoder  *playform.Decoder
	markdown goldmark.Markdown
	upgrader websocket.Upgrader
}

// Option configures a Server.
type Option func(*Server)

// WithClock sets the clock used for new memos and relative dates.
func WithClock(c clock.Clock) Option {
	return func(s *Server) {
		s.clock = c
	}
}

// WithLocation sets the zone memo dates are listed in. Default: time.Local.
func WithLocation(loc *time.Location) Option {
	return func(s *Server) {
		s.loc = loc
	}
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		s.logger = l
	}
}

// WithDebug enables request logging.
func WithDebug(debug bool) Option {
	return func(s *Server) {
		s.debug = debug
	}
}

// WithMetrics records request and binder metrics and serves them at path.
func WithMetrics(m *middleware.Metrics, path string) Option {
	return func(s *Server) {
		s.metrics = m
		s.metricsPath = path
	}
}

// WithTracing opens an OpenTelemetry span per request.
func WithTracing(opts ...middleware.OTelOption) Option {
	return func(s *Server) {
		s.traced = true
		s.tracing = opts
	}
}

// New returns a Server over store.
func New(store memo.Store, opts ...Option) (*Server, error) {
	s := &Server{
		store:   store,
		clock:   clock.New(),
		loc:     time.Local,
		logger:  slog.Default(),
		decoder: playform.NewDecoder(),
		markdown: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(html.WithHardWraps()),
		),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
	for _, opt := range opts {
		opt(s)
	}

	pages, err := s.parsePages()
	if err != nil {
		return nil, err
	}
	s.pages = pages
	return s, nil
}

// pageNames are the templates rendered inside layout.html.
var pageNames = []string{"index", "create", "page_not_found", "bad_request", "server_error"}

func (s *Server) parsePages() (map[string]*template.Template, error) {
	layout, err := template.New("layout.html").Funcs(template.FuncMap{
		"fmtdate": func(t time.Time) string {
			return memo.FormatDate(t, s.loc)
		},
		"humanize": func(t time.Time) string {
			return memo.Humanize(t, s.clock.Now(), s.loc)
		},
		"markdown": s.renderMarkdown,
	}).ParseFS(assetsFS, "templates/layout.html")
	if err != nil {
		return nil, err
	}

	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		t, err := template.Must(layout.Clone()).ParseFS(assetsFS, "templates/"+name+".html")
		if err != nil {
			return nil, err
		}
		pages[name] = t
	}
	return pages, nil
}

// renderMarkdown renders memo text. Raw HTML in the source is escaped.
func (s *Server) renderMarkdown(src string) template.HTML {
	src = strings.TrimSpace(src)
	if src == "" {
		return ""
	}
	var b bytes.Buffer
	if err := s.markdown.Convert([]byte(src), &b); err != nil {
		return template.HTML("<pre>" + template.HTMLEscapeString(src) + "</pre>")
	}
	return template.HTML(b.String())
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	if s.debug {
		r.Use(chimw.Logger)
	}
	if s.traced {
		r.Use(middleware.OpenTelemetry(s.tracing...))
	}
	if s.metrics != nil {
		r.Use(s.metrics.Handler)
		r.Handle(s.metricsPath, s.metrics.Exposition())
	}

	r.Get("/", s.handleIndex)
	r.Get("/index", s.handleIndex)
	r.Get("/create", s.handleCreatePage)
	r.Get("/_create", s.handleCreate)
	r.Get("/_delete", s.handleDelete)
	r.Get("/_binder", s.handleBinder)
	r.Get("/healthz", s.handleHealth)
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS()))))
	r.NotFound(s.handleNotFound)

	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully within timeout.
func (s *Server) ListenAndServe(ctx context.Context, addr string, timeout time.Duration) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln, timeout)
}

// Serve is ListenAndServe on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener, timeout time.Duration) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down", "timeout", timeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != http.ErrServerClosed {
		return err
	}
	return nil
}
