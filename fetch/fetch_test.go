package fetch

import (
	"archive/zip"
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func homusZip(t *testing.T) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, content := range map[string]string{
		"HOMUS/W-01_Flat_1.txt":  "Flat\n10,10;12,30;\n",
		"HOMUS/W-01_Sharp_1.txt": "Sharp\n1,1;20,20;\n",
	} {
		f, err := w.Create(name)
		require.NoError(t, err)
		_, err = f.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func serve(t *testing.T, body []byte) (*httptest.Server, *int) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Header().Set("Content-Length", strconv.Itoa(len(body)))
		w.Write(body)
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func TestLookup(t *testing.T) {
	for _, id := range []string{"HOMUS_V2", "homus-v2", " Homus_V2 "} {
		ds, err := Lookup(id)
		require.NoError(t, err, id)
		assert.Equal(t, HomusV2, ds.ID)
	}

	_, err := Lookup("MUSCIMA")
	assert.Error(t, err)
	assert.Equal(t, []string{HomusV1, HomusV2}, IDs())
}

func TestFetch(t *testing.T) {
	srv, _ := serve(t, homusZip(t))

	dest := filepath.Join(t.TempDir(), "data")
	f := New(Options{URL: srv.URL + "/HOMUS-2.0.zip"})

	root, err := f.Fetch(context.Background(), HomusV2, dest)
	require.NoError(t, err)
	assert.Equal(t, dest, root)
	assert.FileExists(t, filepath.Join(dest, "HOMUS", "W-01_Flat_1.txt"))
	assert.FileExists(t, filepath.Join(dest, "HOMUS", "W-01_Sharp_1.txt"))

	// the downloaded archive does not stay behind
	entries, err := os.ReadDir(dest)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "HOMUS", entries[0].Name())
}

func TestFetchUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	dest := filepath.Join(t.TempDir(), "data")
	_, err := New(Options{URL: url}).Fetch(context.Background(), HomusV2, dest)
	require.Error(t, err)

	var netErr *NetworkError
	require.True(t, errors.As(err, &netErr))
	assert.Equal(t, url, netErr.URL)

	entries, err := os.ReadDir(dest)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestFetchStatus(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	_, err := New(Options{URL: srv.URL}).Fetch(context.Background(), HomusV1, t.TempDir())

	var netErr *NetworkError
	require.True(t, errors.As(err, &netErr))
	assert.Equal(t, http.StatusNotFound, netErr.StatusCode)
}

func TestFetchCorruptArchive(t *testing.T) {
	srv, _ := serve(t, []byte("<html>not a zip</html>"))

	_, err := New(Options{URL: srv.URL}).Fetch(context.Background(), HomusV2, t.TempDir())

	var extErr *ExtractionError
	require.True(t, errors.As(err, &extErr))
}

func TestFetchChecksumMismatch(t *testing.T) {
	srv, _ := serve(t, homusZip(t))
	dest := t.TempDir()

	_, err := New(Options{URL: srv.URL, SHA256: "00"}).Fetch(context.Background(), HomusV2, dest)

	var extErr *ExtractionError
	require.True(t, errors.As(err, &extErr))

	entries, err := os.ReadDir(dest)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestFetchCache(t *testing.T) {
	body := homusZip(t)
	sum := sha256.Sum256(body)
	srv, hits := serve(t, body)

	cache := t.TempDir()
	f := New(Options{URL: srv.URL, SHA256: hex.EncodeToString(sum[:]), CacheDir: cache})

	_, err := f.Fetch(context.Background(), HomusV2, filepath.Join(t.TempDir(), "a"))
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(cache, "HOMUS-2.0.zip"))

	dest := filepath.Join(t.TempDir(), "b")
	_, err = f.Fetch(context.Background(), HomusV2, dest)
	require.NoError(t, err)
	assert.Equal(t, 1, *hits)
	assert.FileExists(t, filepath.Join(dest, "HOMUS", "W-01_Flat_1.txt"))
}
