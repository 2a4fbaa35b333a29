package raster

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// ExportPath is the location of one rendered variant:
// <dest>/<label>/<record>_<thickness>[_offset_<n>].<ext>
func ExportPath(dest, label, recordID string, v Variant, f Format) (string, error) {
	ext, err := f.ext()
	if err != nil {
		return "", err
	}

	name := fmt.Sprintf("%s_%d", recordID, v.Thickness)
	if v.Staff {
		name = fmt.Sprintf("%s_offset_%d", name, v.StaffOffset)
	}
	return filepath.Join(dest, LabelDir(label), name+"."+ext), nil
}

// LabelDir maps a symbol class to a single safe directory name.
func LabelDir(label string) string {
	clean := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', 0:
			return '_'
		}
		return r
	}, strings.TrimSpace(label))

	if clean == "" || clean == "." || clean == ".." {
		return "_" + clean
	}
	return clean
}

// RecordID derives a stable identifier from the record path relative to
// the raw directory: "1/W-01_Flat_1.txt" becomes "1_W-01_Flat_1".
func RecordID(rel string) string {
	rel = strings.TrimSuffix(filepath.ToSlash(rel), filepath.Ext(rel))
	return strings.ReplaceAll(rel, "/", "_")
}

// Encode writes img in format f.
func Encode(w io.Writer, img image.Image, f Format) error {
	ext, err := f.ext()
	if err != nil {
		return err
	}

	switch ext {
	case "bmp":
		return bmp.Encode(w, img)
	case "tiff":
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		enc := png.Encoder{CompressionLevel: png.DefaultCompression}
		return enc.Encode(w, img)
	}
}

// writeImage stores img at path, creating parent directories.
func writeImage(path string, img image.Image, f Format) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return &IOError{Path: filepath.Dir(path), Err: err}
	}

	out, err := os.Create(path)
	if err != nil {
		return &IOError{Path: path, Err: err}
	}

	err = Encode(out, img, f)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		return &IOError{Path: path, Err: err}
	}
	return nil
}
