package dataset

import (
	"context"
	"io"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Clark-Hu/ratings-dashboard/internal/remote"
)

var datFixture = map[string]string{
	"ratings.dat": "1::1::5::978300760\n1::2::3::978302109\n2::1::4::978298413\n3::2::2::978298500\n",
	"movies.dat":  "1::Toy Story (1995)::Animation|Children's|Comedy\n2::Jumanji (1995)::Adventure|Children's|Fantasy\n",
	"users.dat":   "1::F::1::10::48067\n2::M::56::16::70072\n3::M::25::15::55117\n",
}

func writeFixture(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600))
	}
	return dir
}

func TestFileSourceLoad(t *testing.T) {
	dir := writeFixture(t, datFixture)

	tables, err := NewFileSource(dir, FormatDat, zerolog.Nop()).Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, tables.Ratings, 4)
	assert.Len(t, tables.Movies, 2)
	assert.Len(t, tables.Users, 3)
	assert.Equal(t, "Jumanji (1995)", tables.Movies[1].Title)
}

func TestFileSourceMissingFile(t *testing.T) {
	files := map[string]string{
		"ratings.dat": datFixture["ratings.dat"],
		"movies.dat":  datFixture["movies.dat"],
	}
	dir := writeFixture(t, files)

	_, err := NewFileSource(dir, FormatDat, zerolog.Nop()).Load(context.Background())
	require.ErrorIs(t, err, fs.ErrNotExist)
	assert.Contains(t, err.Error(), "users.dat")
}

func TestFileSourceCanceled(t *testing.T) {
	dir := writeFixture(t, datFixture)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewFileSource(dir, FormatDat, zerolog.Nop()).Load(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestRemoteSourceLoad(t *testing.T) {
	dir := writeFixture(t, datFixture)
	srv := httptest.NewServer(http.StripPrefix("/datasets/", http.FileServer(http.Dir(dir))))
	t.Cleanup(srv.Close)

	client, err := remote.NewHTTPClient(srv.URL, "", time.Second, zerolog.Nop())
	require.NoError(t, err)

	tables, err := NewRemoteSource(client, FormatDat, zerolog.Nop()).Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, tables.Ratings, 4)
	assert.Len(t, tables.Users, 3)
}

func TestRemoteSourceNotFound(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	t.Cleanup(srv.Close)

	client, err := remote.NewHTTPClient(srv.URL, "", time.Second, zerolog.Nop())
	require.NoError(t, err)

	_, err = NewRemoteSource(client, FormatDat, zerolog.Nop()).Load(context.Background())
	require.ErrorIs(t, err, remote.ErrNotFound)
}

func TestRemoteSourceChecksManifest(t *testing.T) {
	var fetches atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/datasets", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"files":[{"name":"ratings.dat"},{"name":"movies.dat"}]}`)
	})
	mux.HandleFunc("/datasets/", func(w http.ResponseWriter, _ *http.Request) {
		fetches.Add(1)
		http.NotFound(w, nil)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	client, err := remote.NewHTTPClient(srv.URL, "", time.Second, zerolog.Nop())
	require.NoError(t, err)

	_, err = NewRemoteSource(client, FormatDat, zerolog.Nop()).Load(context.Background())
	require.ErrorIs(t, err, remote.ErrNotFound)
	assert.Contains(t, err.Error(), "users.dat")
	assert.Zero(t, fetches.Load(), "no table should be downloaded when the manifest is incomplete")
}

func TestRemoteSourceWithManifest(t *testing.T) {
	dir := writeFixture(t, datFixture)
	mux := http.NewServeMux()
	mux.HandleFunc("/datasets", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"files":[{"name":"ratings.dat"},{"name":"movies.dat"},{"name":"users.dat"}]}`)
	})
	mux.Handle("/datasets/", http.StripPrefix("/datasets/", http.FileServer(http.Dir(dir))))
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	client, err := remote.NewHTTPClient(srv.URL, "", time.Second, zerolog.Nop())
	require.NoError(t, err)

	tables, err := NewRemoteSource(client, FormatDat, zerolog.Nop()).Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, tables.Movies, 2)
}
