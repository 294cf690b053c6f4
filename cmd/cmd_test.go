package cmd

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)
	for _, key := range []string{"CONCERTCLOUD_API_URL", "CONCERTCLOUD_TIMEOUT", "CONCERTCLOUD_LOG_FILE", "CONCERTCLOUD_LOG_LEVEL"} {
		t.Setenv(key, "")
	}
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestListingsCmd_PrintsTable(t *testing.T) {
	isolate(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/events/3/listings", r.URL.Path)
		assert.Equal(t, "sort=cheapest&qty=2&max_price=120&verified_only=true", r.URL.RawQuery)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":9,"event_id":3,"section":"Floor","row":"A","seat":"12","price":45,"is_verified":true}]`))
	}))
	defer server.Close()

	out, err := run(t, "listings", "--api-url", server.URL, "--event", "3",
		"--sort", "cheapest", "--qty", "2", "--max-price", "120", "--verified-only")

	require.NoError(t, err)
	assert.Contains(t, out, "Floor")
	assert.Contains(t, out, "$45.00")
}

func TestListingsCmd_EmptyResult(t *testing.T) {
	isolate(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	out, err := run(t, "listings", "--api-url", server.URL)

	require.NoError(t, err)
	assert.Equal(t, "No listings match your filters.\n", out)
}

func TestListingsCmd_QueryOnly(t *testing.T) {
	isolate(t)

	out, err := run(t, "listings", "--query", "--together", "--section", "B2", "--qty", "0")

	require.NoError(t, err)
	assert.Equal(t, "sort=best&qty=1&section_id=B2&together=true\n", out)
}

func TestListingsCmd_HTTPError(t *testing.T) {
	isolate(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := run(t, "listings", "--api-url", server.URL)

	require.Error(t, err)
	assert.Equal(t, "Listings error: 500 Internal Server Error", err.Error())
}

func TestMapCmd_PrintsSectionsAndMarks(t *testing.T) {
	isolate(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/events/1/map", r.URL.Path)
		_, _ = w.Write([]byte(`{
			"venue": {"name": "Arena", "width": 1000, "height": 700, "stage_x": 500, "stage_y": 80},
			"sections": [{"id": 1, "name": "Lower 101", "cx": 200, "cy": 400, "base_closeness": 3}],
			"cheapest": {"listing_id": 4, "price": 20, "section_id": 99},
			"best": [{"listing_id": 5, "price": 80, "section_id": 1}]
		}`))
	}))
	defer server.Close()

	out, err := run(t, "map", "--api-url", server.URL)

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "Arena (1000x700, stage at 500,80)\n"), out)
	assert.Contains(t, out, "Lower 101")
	assert.Contains(t, out, "♥ best")
	assert.Contains(t, out, "cheapest: listing 4 at $20.00 in section 99 (not on map)")
	assert.Contains(t, out, "best: listing 5 at $80.00 in section 1\n")
}

func TestMapCmd_NotFound(t *testing.T) {
	isolate(t)
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	_, err := run(t, "map", "--api-url", server.URL, "-e", "42")

	require.Error(t, err)
	assert.Equal(t, "Map error: 404 Not Found", err.Error())
}

func TestInvalidAPIURL(t *testing.T) {
	isolate(t)

	_, err := run(t, "listings", "--api-url", "not a url")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}

func TestVersionCmd(t *testing.T) {
	Version, Commit = "1.2.3", "abc123"
	t.Cleanup(func() { Version, Commit = "dev", "none" })

	out, err := run(t, "version")

	require.NoError(t, err)
	assert.Equal(t, "concertcloud-cli 1.2.3 (abc123)\n", out)
}
