package cli

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	pkgerrors "github.com/calloway/intertext/pkg/errors"
	"github.com/calloway/intertext/pkg/graph"
	"github.com/calloway/intertext/pkg/pipeline"
)

// serveCommand creates the serve command for previewing rendered output.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve [dir]",
		Short: "Serve rendered output over HTTP for local preview",
		Long: `Serve rendered output over HTTP for local preview.

The serve command serves the output directory so the interactive HTML page
can be opened in a browser. The root path redirects to network.html when it
exists. When the directory contains a graph.json, the server also exposes
/api/graph and /api/themes as JSON endpoints.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := c.Config.OutputDir
			if len(args) > 0 {
				dir = args[0]
			}
			if dir == "" {
				dir = pipeline.DefaultOutputDir
			}
			return c.runServe(cmd.Context(), dir, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "localhost:8173", "listen address")

	return cmd
}

// runServe starts the preview server and blocks until the context is cancelled.
func (c *CLI) runServe(ctx context.Context, dir, addr string) error {
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return pkgerrors.New(pkgerrors.ErrCodeInvalidPath, "output directory %q does not exist, run 'intertext build' first", dir)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{Logger: chiLogger{c.Logger}}))
	r.Use(middleware.Recoverer)

	fs := http.FileServer(http.Dir(dir))
	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		if _, err := os.Stat(dir + "/network.html"); err == nil {
			http.Redirect(w, req, "/network.html", http.StatusFound)
			return
		}
		fs.ServeHTTP(w, req)
	})
	r.Get("/api/graph", func(w http.ResponseWriter, req *http.Request) {
		g, err := graph.ReadFile(filepath.Join(dir, "graph.json"))
		if err != nil {
			http.Error(w, "no graph.json in output directory, run 'intertext load' first", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = graph.Write(g, w)
	})
	r.Get("/api/themes", func(w http.ResponseWriter, req *http.Request) {
		g, err := graph.ReadFile(filepath.Join(dir, "graph.json"))
		if err != nil {
			http.Error(w, "no graph.json in output directory, run 'intertext load' first", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(g.Themes())
	})
	r.Handle("/*", fs)

	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	printSuccess("Serving %s", dir)
	printDetail("http://%s/", addr)
	printDetail("Press Ctrl+C to stop")

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		return ctx.Err()
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// chiLogger adapts the structured logger to chi's request logging interface.
type chiLogger struct {
	logger interface{ Info(msg any, kv ...any) }
}

func (l chiLogger) Print(v ...any) {
	if len(v) == 1 {
		l.logger.Info(v[0])
		return
	}
	l.logger.Info(v)
}
