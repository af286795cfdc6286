package cli

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/matzehuels/bottleneck/pkg/config"
	"github.com/matzehuels/bottleneck/pkg/cycle"
	"github.com/matzehuels/bottleneck/pkg/diagram"
	"github.com/matzehuels/bottleneck/pkg/errors"
	"github.com/matzehuels/bottleneck/pkg/render/nodelink"
	"github.com/matzehuels/bottleneck/pkg/render/sink"
	"github.com/matzehuels/bottleneck/pkg/schedule"
)

const (
	defaultAddr     = "localhost:8080"
	shutdownTimeout = 5 * time.Second
)

const indexHTML = `<!doctype html>
<html>
<head>
  <meta charset="utf-8">
  <title>bottleneck</title>
  <style>
    body { font-family: ui-sans-serif, system-ui, sans-serif; margin: 2rem; background: #f1f5f9; }
    nav button { margin-right: 0.5rem; }
    #frame { margin-top: 1rem; }
  </style>
</head>
<body>
  <nav>
    <button onclick="hot('top')">top</button>
    <button onclick="hot('middle')">middle</button>
    <button onclick="hot('bottom')">bottom</button>
  </nav>
  <div id="frame"></div>
  <script>
    async function refresh() {
      const res = await fetch('/frame.svg', { cache: 'no-store' });
      if (res.ok) document.getElementById('frame').innerHTML = await res.text();
    }
    async function hot(b) { await fetch('/hot/' + b, { method: 'POST' }); refresh(); }
    setInterval(refresh, 250);
    refresh();
  </script>
</body>
</html>
`

// serveCommand creates the serve command for the live HTTP preview.
func (c *CLI) serveCommand() *cobra.Command {
	var addr, hot, style string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a live diagram over HTTP",
		Long: `Serve runs the diagram on a real-time frame loop and exposes it over HTTP:

  GET  /            preview page
  GET  /frame.svg   current frame as SVG
  GET  /frame.json  current frame as JSON
  GET  /frame.dot   current topology as Graphviz DOT
  POST /hot/{branch}           select top, middle or bottom
  POST /viewport?width=&height= resize the container`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if err := applyFlags(cmd, &cfg, hot, style, 0, 0); err != nil {
				return err
			}
			return c.runServe(cmd.Context(), cfg, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", defaultAddr, "listen address")
	cmd.Flags().StringVar(&hot, "hot", "", "initial hot branch: top, middle, bottom")
	cmd.Flags().StringVar(&style, "style", "", "visual style: flat (default), outline")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, cfg config.Config, addr string) error {
	logger := loggerFromContext(ctx)

	loop := schedule.NewLoop(schedule.WithLoopLogger(logger))
	d := diagram.New(loop, append(cfg.DiagramOptions(), diagram.WithLogger(logger))...)
	srv, err := newPreviewServer(loop, d, cfg, logger)
	if err != nil {
		return err
	}

	loopCtx, stopLoop := context.WithCancel(context.Background())
	defer stopLoop()
	loop.Post(d.Mount)
	go loop.Run(loopCtx)

	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("shutdown", "err", err)
		}
	}()

	printSuccess(c.out, "Serving diagram %s", StyleLink.Render("http://"+displayAddr(addr)))
	printKeyValue(c.out, "instance", d.ID())
	printKeyValue(c.out, "hot", cfg.Hot.String())

	err = httpSrv.ListenAndServe()
	disposeCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_ = loop.Do(disposeCtx, d.Dispose)

	if err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(errors.ErrCodeInternal, err, "listen on %s", addr)
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return nil
}

func displayAddr(addr string) string {
	if strings.HasPrefix(addr, ":") {
		return "localhost" + addr
	}
	return addr
}

// =============================================================================
// Preview Server
// =============================================================================

// previewServer serves one diagram. Every diagram access is handed to the
// loop goroutine with Loop.Do.
type previewServer struct {
	loop    *schedule.Loop
	diagram *diagram.Diagram
	svgOpts []sink.SVGOption
	logger  *log.Logger
}

func newPreviewServer(loop *schedule.Loop, d *diagram.Diagram, cfg config.Config, logger *log.Logger) (*previewServer, error) {
	style, err := sink.StyleByName(cfg.Style)
	if err != nil {
		return nil, err
	}
	return &previewServer{
		loop:    loop,
		diagram: d,
		svgOpts: []sink.SVGOption{
			sink.WithStyle(style),
			sink.WithAnimation(),
			sink.WithMinSize(cfg.Container.Width, cfg.Container.Height),
		},
		logger: logger.WithPrefix("serve"),
	}, nil
}

// Router returns the HTTP handler.
func (s *previewServer) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/", s.handleIndex)
	r.Get("/frame.svg", s.handleFrameSVG)
	r.Get("/frame.json", s.handleFrameJSON)
	r.Get("/frame.dot", s.handleFrameDOT)
	r.Get("/frame.graph.svg", s.handleFrameGraph)
	r.Post("/hot/{branch}", s.handleHot)
	r.Post("/viewport", s.handleViewport)
	return r
}

func (s *previewServer) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start).Round(time.Microsecond),
			"id", middleware.GetReqID(r.Context()),
		)
	})
}

func (s *previewServer) frame(ctx context.Context) (diagram.Frame, error) {
	var f diagram.Frame
	err := s.loop.Do(ctx, func() { f = s.diagram.Frame() })
	return f, err
}

func (s *previewServer) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	io.WriteString(w, indexHTML)
}

func (s *previewServer) handleFrameSVG(w http.ResponseWriter, r *http.Request) {
	f, err := s.frame(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(sink.RenderSVG(f, s.svgOpts...))
}

func (s *previewServer) handleFrameJSON(w http.ResponseWriter, r *http.Request) {
	f, err := s.frame(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	data, err := sink.RenderJSON(f)
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(data)
}

func (s *previewServer) handleFrameDOT(w http.ResponseWriter, r *http.Request) {
	f, err := s.frame(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/vnd.graphviz")
	io.WriteString(w, nodelink.ToDOT(f))
}

func (s *previewServer) handleFrameGraph(w http.ResponseWriter, r *http.Request) {
	f, err := s.frame(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	svg, err := nodelink.Layout(r.Context(), f)
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(svg)
}

func (s *previewServer) handleHot(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "branch")
	b, ok := cycle.ParseBranch(name)
	if !ok {
		s.writeError(w, errors.New(errors.ErrCodeInvalidBranch, "unknown branch %q (want top, middle or bottom)", name))
		return
	}
	var st cycle.State
	if err := s.loop.Do(r.Context(), func() {
		s.diagram.Select(b)
		st = s.diagram.State()
	}); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, st)
}

func (s *previewServer) handleViewport(w http.ResponseWriter, r *http.Request) {
	width, err := parseDimension(r, "width")
	if err != nil {
		s.writeError(w, err)
		return
	}
	height, err := parseDimension(r, "height")
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.loop.Do(r.Context(), func() { s.diagram.Resize(width, height) }); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func parseDimension(r *http.Request, key string) (float64, error) {
	raw := r.URL.Query().Get(key)
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, errors.New(errors.ErrCodeInvalidSize, "%s must be a number, got %q", key, raw)
	}
	if err := errors.ValidateDimension(key, v); err != nil {
		return 0, err
	}
	return v, nil
}

func (s *previewServer) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("encode response", "err", err)
	}
}

func (s *previewServer) writeError(w http.ResponseWriter, err error) {
	status := errors.HTTPStatus(err)
	if stderrors.Is(err, schedule.ErrStopped) {
		status = http.StatusServiceUnavailable
	}
	if status >= 500 {
		s.logger.Error("request failed", "err", err)
	}
	http.Error(w, errors.UserMessage(err), status)
}
