package cli

import (
	"context"
	"html/template"
	"io/fs"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/kando-menu/design/pkg/errors"
)

// previewCommand serves the output directory with an HTML gallery.
func (c *CLI) previewCommand() *cobra.Command {
	var manifestPath, output, addr string

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Serve the built icons as an HTML gallery",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := output
			if dir == "" {
				m, err := c.loadManifest(manifestPath)
				if err != nil {
					return err
				}
				dir = m.OutputRoot()
			}
			if info, err := os.Stat(dir); err != nil || !info.IsDir() {
				printError("Nothing built in %s", dir)
				printNextStep("Build the icons first", appName+" build")
				return errors.New(errors.ErrCodeFileNotFound, "output directory %s does not exist", dir)
			}
			return c.servePreview(cmd.Context(), addr, dir)
		},
	}

	cmd.Flags().StringVarP(&manifestPath, "manifest", "m", "", "manifest file (default: ./icons.toml or built-in)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "directory to serve (default: the manifest output directory)")
	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8080", "listen address")
	return cmd
}

func (c *CLI) servePreview(ctx context.Context, addr, dir string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	srv := &http.Server{
		Handler:           newPreviewRouter(dir, c.Logger),
		ReadHeaderTimeout: 5 * time.Second,
	}

	printSuccess("Serving %s", dir)
	printKeyValue("url", StyleLink.Render("http://"+ln.Addr().String()+"/"))

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// previewEntry is one image in the gallery.
type previewEntry struct {
	Path string // slash separated, relative to the served directory
	Kind string // "svg" or "png"
}

// previewGroup collects the images of one subdirectory.
type previewGroup struct {
	Dir     string
	Entries []previewEntry
}

var previewPage = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>kando-icons</title>
<style>
body { font-family: sans-serif; background: #f4f4f6; margin: 2em; }
h2 { font-size: 1em; color: #555; }
.grid { display: flex; flex-wrap: wrap; gap: 1em; align-items: flex-end; }
figure { margin: 0; padding: 0.5em; background: repeating-conic-gradient(#ddd 0 25%, #fff 0 50%) 0 0 / 16px 16px; }
figcaption { font-size: 0.75em; background: #fff; padding-top: 0.25em; }
img.svg { width: 128px; height: 128px; }
</style>
</head>
<body>
{{range .}}<h2>{{if .Dir}}{{.Dir}}{{else}}.{{end}}</h2>
<div class="grid">
{{range .Entries}}<figure><a href="/files/{{.Path}}"><img class="{{.Kind}}" src="/files/{{.Path}}"></a><figcaption>{{.Path}}</figcaption></figure>
{{end}}</div>
{{else}}<p>No icons found.</p>
{{end}}</body>
</html>
`))

// newPreviewRouter serves the gallery at / and the raw files below /files/.
func newPreviewRouter(dir string, logger *log.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(logger))

	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		groups, err := scanPreview(dir)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := previewPage.Execute(w, groups); err != nil {
			logger.Warn("render gallery", "err", err)
		}
	})
	r.Handle("/files/*", http.StripPrefix("/files/", http.FileServer(http.Dir(dir))))

	return r
}

func requestLogger(logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Debug("request", "method", r.Method, "path", r.URL.Path,
				"status", ww.Status(), "took", time.Since(start).Round(time.Microsecond))
		})
	}
}

// scanPreview lists the SVG and PNG files below dir grouped by directory.
func scanPreview(dir string) ([]previewGroup, error) {
	byDir := map[string][]previewEntry{}
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		kind := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
		if kind != "svg" && kind != "png" {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		sub := filepath.ToSlash(filepath.Dir(rel))
		if sub == "." {
			sub = ""
		}
		byDir[sub] = append(byDir[sub], previewEntry{Path: rel, Kind: kind})
		return nil
	})
	if err != nil {
		return nil, err
	}

	groups := make([]previewGroup, 0, len(byDir))
	for sub, entries := range byDir {
		sort.Slice(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })
		groups = append(groups, previewGroup{Dir: sub, Entries: entries})
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Dir < groups[j].Dir })
	return groups, nil
}
