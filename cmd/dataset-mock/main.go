package main

import (
	"flag"
	"net/http"
	"os"
	"path/filepath"
	"sort"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/Clark-Hu/ratings-dashboard/internal/logging"
	"github.com/Clark-Hu/ratings-dashboard/internal/remote"
)

func main() {
	var (
		port   = flag.String("port", "9099", "port to listen on")
		dir    = flag.String("dir", "data", "directory holding the dataset files")
		apiKey = flag.String("api-key", "", "require this X-API-Key value when set")
		format = flag.String("log-format", "console", "log format: json or console")
	)
	flag.Parse()

	logger := logging.New(logging.Config{Level: "info", Format: *format})

	if _, err := os.Stat(*dir); err != nil {
		logger.Fatal().Err(err).Str("dir", *dir).Msg("dataset directory unavailable")
	}

	addr := ":" + *port
	logger.Info().Str("addr", addr).Str("dir", *dir).Msg("mock dataset host listening")
	if err := http.ListenAndServe(addr, newRouter(*dir, *apiKey, logger)); err != nil {
		logger.Fatal().Err(err).Msg("server error")
	}
}

func newRouter(dir, apiKey string, logger zerolog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(logging.RequestLogger(logger))
	if apiKey != "" {
		r.Use(requireKey(apiKey))
	}

	r.Get("/datasets", func(w http.ResponseWriter, _ *http.Request) {
		m, err := manifest(dir)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(m)
	})
	r.Get("/datasets/{name}", func(w http.ResponseWriter, req *http.Request) {
		name := chi.URLParam(req, "name")
		if name != filepath.Base(name) || name == "." || name == ".." {
			http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
			return
		}
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err != nil || info.IsDir() {
			http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
			return
		}
		http.ServeFile(w, req, path)
	})
	return r
}

func requireKey(key string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("X-API-Key") != key {
				http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func manifest(dir string) (remote.Manifest, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return remote.Manifest{}, err
	}
	m := remote.Manifest{Files: []remote.ManifestFile{}}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return remote.Manifest{}, err
		}
		m.Files = append(m.Files, remote.ManifestFile{Name: e.Name(), Size: info.Size()})
	}
	sort.Slice(m.Files, func(i, j int) bool { return m.Files[i].Name < m.Files[j].Name })
	return m, nil
}
