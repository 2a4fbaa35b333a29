package pipeline

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/juruen/homus/config"
	"github.com/juruen/homus/fetch"
)

func datasetZip(t *testing.T, files map[string]string) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, content := range files {
		f, err := w.Create(name)
		require.NoError(t, err)
		_, err = f.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func testConfig(t *testing.T, url string) config.Config {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.RawDir = filepath.Join(dir, "data")
	cfg.OutputDir = filepath.Join(dir, "homus_data")
	cfg.Fetch.URL = url
	return cfg
}

func TestRun(t *testing.T) {
	body := datasetZip(t, map[string]string{
		"HOMUS/1/W-01_A_1.txt": "A\n10,10;20,40;\n",
		"HOMUS/1/W-01_B_1.txt": "B\n0,0;30,30;\n",
		"HOMUS/1/W-01_C_1.txt": "C\nbroken\n",
	})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(body)
	}))
	defer srv.Close()

	cfg := testConfig(t, srv.URL)
	report, err := Run(context.Background(), cfg)
	require.NoError(t, err)

	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, cfg.RawDir, report.RawRoot)
	assert.Equal(t, 3, report.Records)
	assert.Equal(t, 2, report.Written)
	assert.Equal(t, 1, report.Skipped)
	assert.FileExists(t, filepath.Join(cfg.OutputDir, "A", "HOMUS_1_W-01_A_1_3.png"))
	assert.FileExists(t, filepath.Join(cfg.OutputDir, "B", "HOMUS_1_W-01_B_1_3.png"))
}

func TestRunUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	cfg := testConfig(t, url)
	_, err := Run(context.Background(), cfg)
	require.Error(t, err)

	var netErr *fetch.NetworkError
	assert.True(t, errors.As(err, &netErr))

	_, statErr := os.Stat(cfg.OutputDir)
	assert.True(t, os.IsNotExist(statErr))
}

func TestRunSkipFetch(t *testing.T) {
	cfg := testConfig(t, "")
	cfg.Fetch.Skip = true
	require.NoError(t, os.MkdirAll(cfg.RawDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(cfg.RawDir, "x.txt"), []byte("Flat\n1,1;5,9;\n"), 0644))

	report, err := Run(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Written)
	assert.FileExists(t, filepath.Join(cfg.OutputDir, "Flat", "x_3.png"))
}
