package api_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tayloree/storefront/internal/api"
)

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newCatalogServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, r.URL.Query().Get("cache"), "cache param required")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchCatalog_FirstSourceWins(t *testing.T) {
	future := newCatalogServer(t, http.StatusOK, `[{"name":"Future Rice"}]`)
	stable := newCatalogServer(t, http.StatusOK, `[{"name":"Stable Rice"}]`)

	client := api.NewClientWithSources(future.URL, stable.URL).WithLogger(quietLogger())
	catalog, err := client.FetchCatalog(context.Background())

	require.NoError(t, err)
	assert.Equal(t, future.URL, catalog.Source)
	require.Len(t, catalog.Products, 1)
	assert.Equal(t, "Future Rice", catalog.Products[0].Name)
}

func TestFetchCatalog_FallsBackOnMissingFuture(t *testing.T) {
	future := newCatalogServer(t, http.StatusNotFound, `not here`)
	stable := newCatalogServer(t, http.StatusOK, `{"products":[{"name":"Stable Rice"}]}`)

	client := api.NewClientWithSources(future.URL, stable.URL).WithLogger(quietLogger())
	catalog, err := client.FetchCatalog(context.Background())

	require.NoError(t, err)
	assert.Equal(t, stable.URL, catalog.Source)
	require.Len(t, catalog.Products, 1)
	assert.Equal(t, "Stable Rice", catalog.Products[0].Name)
}

func TestFetchCatalog_FallsBackOnInvalidJSON(t *testing.T) {
	future := newCatalogServer(t, http.StatusOK, `[{"name":`)
	stable := newCatalogServer(t, http.StatusOK, `[]`)

	client := api.NewClientWithSources(future.URL, stable.URL).WithLogger(quietLogger())
	catalog, err := client.FetchCatalog(context.Background())

	require.NoError(t, err)
	assert.Equal(t, stable.URL, catalog.Source)
	assert.Empty(t, catalog.Products)
}

func TestFetchCatalog_AllSourcesFail(t *testing.T) {
	broken := newCatalogServer(t, http.StatusInternalServerError, ``)
	missing := filepath.Join(t.TempDir(), "missing.json")

	client := api.NewClientWithSources(broken.URL, missing).WithLogger(quietLogger())
	_, err := client.FetchCatalog(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "all 2 sources failed")
	assert.Contains(t, err.Error(), "500")
	assert.Contains(t, err.Error(), "missing.json")

	var srcErr *api.SourceError
	assert.ErrorAs(t, err, &srcErr)
}

func TestFetchCatalog_LocalFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "products.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"name":"Dates","price":12}]`), 0o600))

	client := api.NewClientWithSources("file://" + path).WithLogger(quietLogger())
	catalog, err := client.FetchCatalog(context.Background())

	require.NoError(t, err)
	require.Len(t, catalog.Products, 1)
	assert.Equal(t, 12.0, catalog.Products[0].Price)
}

func TestFetchCatalog_NoSources(t *testing.T) {
	_, err := api.NewClientWithSources().FetchCatalog(context.Background())

	assert.ErrorIs(t, err, api.ErrNoSources)
}

func TestFetchCatalog_CancelledContext(t *testing.T) {
	srv := newCatalogServer(t, http.StatusOK, `[]`)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := api.NewClientWithSources(srv.URL, srv.URL).WithLogger(quietLogger())
	_, err := client.FetchCatalog(ctx)

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewClient_DefaultSources(t *testing.T) {
	assert.Equal(t, api.DefaultSources, api.NewClient().Sources())
}
