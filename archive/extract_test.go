package archive

import (
	"archive/zip"
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildZip(t *testing.T, files map[string]string) []byte {
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

func TestExtract(t *testing.T) {
	data := buildZip(t, map[string]string{
		"HOMUS/1/W-01_C-Clef_1.txt": "C-Clef\n1,2;3,4;\n",
		"HOMUS/2/W-02_Flat_1.txt":   "Flat\n5,6;\n",
		"HOMUS/":                    "",
	})

	dest := filepath.Join(t.TempDir(), "data")
	z, err := NewZip(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"HOMUS/1/W-01_C-Clef_1.txt", "HOMUS/2/W-02_Flat_1.txt", "HOMUS/"}, z.Entries())

	n, err := z.Extract(dest)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	content, err := os.ReadFile(filepath.Join(dest, "HOMUS", "1", "W-01_C-Clef_1.txt"))
	require.NoError(t, err)
	assert.Equal(t, "C-Clef\n1,2;3,4;\n", string(content))
	assert.FileExists(t, filepath.Join(dest, "HOMUS", "2", "W-02_Flat_1.txt"))
}

func TestExtractKeepsUnrelatedFiles(t *testing.T) {
	dest := t.TempDir()
	unrelated := filepath.Join(dest, "notes.md")
	require.NoError(t, os.WriteFile(unrelated, []byte("keep me"), 0644))

	archivePath := filepath.Join(t.TempDir(), "set.zip")
	require.NoError(t, os.WriteFile(archivePath, buildZip(t, map[string]string{"a.txt": "A\n1,1;\n"}), 0644))

	n, err := ExtractFile(archivePath, dest)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	content, err := os.ReadFile(unrelated)
	require.NoError(t, err)
	assert.Equal(t, "keep me", string(content))
}

func TestExtractRejectsTraversal(t *testing.T) {
	data := buildZip(t, map[string]string{"../evil.txt": "x"})
	z, err := NewZip(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	dest := t.TempDir()
	_, err = z.Extract(dest)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsafePath))
	assert.NoFileExists(t, filepath.Join(filepath.Dir(dest), "evil.txt"))
}

func TestNewZipCorrupt(t *testing.T) {
	data := []byte("this is not a zip archive")
	_, err := NewZip(bytes.NewReader(data), int64(len(data)))
	assert.Error(t, err)
}
