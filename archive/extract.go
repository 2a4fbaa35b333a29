// Package archive unpacks downloaded dataset archives.
package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/juruen/homus/log"
)

// ErrUnsafePath is returned for entries that would land outside the
// destination directory.
var ErrUnsafePath = errors.New("entry escapes destination")

// Zip is an opened dataset archive.
type Zip struct {
	reader *zip.Reader
	closer io.Closer
}

// Open opens the zip file at name.
func Open(name string) (*Zip, error) {
	rc, err := zip.OpenReader(name)
	if err != nil {
		return nil, errors.Wrapf(err, "can't open archive %s", name)
	}
	return &Zip{reader: &rc.Reader, closer: rc}, nil
}

// NewZip reads an archive of the given size from r.
func NewZip(r io.ReaderAt, size int64) (*Zip, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, errors.Wrap(err, "can't read archive")
	}
	return &Zip{reader: zr}, nil
}

func (z *Zip) Close() error {
	if z.closer == nil {
		return nil
	}
	return z.closer.Close()
}

// Entries lists the names of the archive members in archive order.
func (z *Zip) Entries() []string {
	names := make([]string, 0, len(z.reader.File))
	for _, f := range z.reader.File {
		names = append(names, f.Name)
	}
	return names
}

// Extract writes every member under dest, creating dest if needed.
// It returns the number of regular files written. Existing files in dest
// that are not archive members are left alone.
func (z *Zip) Extract(dest string) (int, error) {
	if err := os.MkdirAll(dest, 0755); err != nil {
		return 0, errors.Wrapf(err, "can't create %s", dest)
	}

	written := 0
	for _, f := range z.reader.File {
		target, err := entryPath(dest, f.Name)
		if err != nil {
			return written, err
		}

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0755); err != nil {
				return written, errors.Wrapf(err, "can't create %s", target)
			}
			continue
		}

		if !f.Mode().IsRegular() {
			log.Trace.Printf("skipping non regular entry %s", f.Name)
			continue
		}

		if err := extractFile(f, target); err != nil {
			return written, err
		}
		written++
	}

	log.Trace.Printf("extracted %d files into %s", written, dest)
	return written, nil
}

// ExtractFile is a shortcut for Open, Extract and Close.
func ExtractFile(name, dest string) (int, error) {
	z, err := Open(name)
	if err != nil {
		return 0, err
	}
	defer z.Close()

	log.Trace.Printf("%s holds %d entries", name, len(z.Entries()))
	return z.Extract(dest)
}

func entryPath(dest, name string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(name))
	if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", errors.Wrap(ErrUnsafePath, name)
	}
	return filepath.Join(dest, clean), nil
}

func extractFile(f *zip.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return errors.Wrapf(err, "can't create %s", filepath.Dir(target))
	}

	rc, err := f.Open()
	if err != nil {
		return errors.Wrapf(err, "can't open entry %s", f.Name)
	}
	defer rc.Close()

	out, err := os.Create(target)
	if err != nil {
		return errors.Wrapf(err, "can't create %s", target)
	}

	n, err := io.Copy(out, rc)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return errors.Wrapf(err, "can't extract %s", f.Name)
	}

	if uint64(n) != f.UncompressedSize64 {
		return fmt.Errorf("entry %s: wrote %d of %d bytes", f.Name, n, f.UncompressedSize64)
	}
	return nil
}
