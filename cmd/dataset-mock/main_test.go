package main

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/Clark-Hu/ratings-dashboard/internal/remote"
)

func newMockHost(t *testing.T, apiKey string) *httptest.Server {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "movies.dat"), []byte("1::Toy Story (1995)::Animation\n"), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	srv := httptest.NewServer(newRouter(dir, apiKey, zerolog.Nop()))
	t.Cleanup(srv.Close)
	return srv
}

func TestMockServesFilesAndManifest(t *testing.T) {
	srv := newMockHost(t, "secret")
	client, err := remote.NewHTTPClient(srv.URL, "secret", time.Second, zerolog.Nop())
	if err != nil {
		t.Fatalf("client: %v", err)
	}

	rc, err := client.Fetch(context.Background(), "movies.dat")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	body, _ := io.ReadAll(rc)
	rc.Close()
	if string(body) != "1::Toy Story (1995)::Animation\n" {
		t.Fatalf("unexpected body %q", body)
	}

	m, err := client.Manifest(context.Background())
	if err != nil {
		t.Fatalf("manifest: %v", err)
	}
	if len(m.Files) != 1 || m.Files[0].Name != "movies.dat" {
		t.Fatalf("unexpected manifest %+v", m)
	}

	if _, err := client.Fetch(context.Background(), "users.dat"); !errors.Is(err, remote.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMockRejectsWrongKey(t *testing.T) {
	srv := newMockHost(t, "secret")
	client, err := remote.NewHTTPClient(srv.URL, "wrong", time.Second, zerolog.Nop())
	if err != nil {
		t.Fatalf("client: %v", err)
	}
	if _, err := client.Fetch(context.Background(), "movies.dat"); err == nil {
		t.Fatal("expected error for wrong api key")
	}
}
