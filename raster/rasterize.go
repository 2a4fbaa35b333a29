// Package raster turns HOMUS stroke records into labeled images.
package raster

import (
	"context"
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/juruen/homus/encoding/homus"
	"github.com/juruen/homus/log"
)

// BoundingBoxesFile is written to the destination when Config.BoundingBoxes
// is set.
const BoundingBoxesFile = "bounding_boxes.json"

// Report summarises a Rasterize run.
type Report struct {
	// Records is the number of record files found.
	Records int
	// Written counts images, one per (record, variant).
	Written int
	// Skipped counts malformed records.
	Skipped int
	// SkippedRecords holds the paths of the malformed records, sorted.
	SkippedRecords []string
}

// Box is a symbol bounding box in canvas pixels, right and bottom
// exclusive.
type Box struct {
	Left   int `json:"left"`
	Top    int `json:"top"`
	Right  int `json:"right"`
	Bottom int `json:"bottom"`
}

// Record is a raw record file found under the raw directory.
type Record struct {
	Path string
	ID   string
}

// FindRecords lists every *.txt file under rawDir in lexical order.
func FindRecords(rawDir string) ([]Record, error) {
	fi, err := os.Stat(rawDir)
	if err != nil {
		return nil, &IOError{Path: rawDir, Err: err}
	}
	if !fi.IsDir() {
		return nil, &IOError{Path: rawDir, Err: errors.New("not a directory")}
	}

	var records []Record
	err = filepath.WalkDir(rawDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".txt") {
			return nil
		}
		rel, err := filepath.Rel(rawDir, path)
		if err != nil {
			return err
		}
		records = append(records, Record{Path: path, ID: RecordID(rel)})
		return nil
	})
	if err != nil {
		return nil, &IOError{Path: rawDir, Err: err}
	}

	sort.Slice(records, func(i, j int) bool { return records[i].Path < records[j].Path })
	return records, nil
}

// LoadRecord parses the record at path.
func LoadRecord(path string) (*homus.Symbol, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &MalformedRecordError{Path: path, Err: err}
	}
	s, err := homus.Parse(data)
	if err != nil {
		return nil, &MalformedRecordError{Path: path, Err: err}
	}
	return s, nil
}

type batch struct {
	cfg     Config
	destDir string

	mu      sync.Mutex
	written int
	skipped []string
	boxes   map[string]Box
}

// Rasterize renders every record under rawDir into destDir. Malformed
// records are skipped and counted; an IOError stops the run.
func Rasterize(ctx context.Context, rawDir, destDir string, cfg Config) (Report, error) {
	if err := cfg.Validate(); err != nil {
		return Report{}, errors.Wrap(err, "invalid render configuration")
	}

	records, err := FindRecords(rawDir)
	if err != nil {
		return Report{}, err
	}

	if err := os.MkdirAll(destDir, 0755); err != nil {
		return Report{Records: len(records)}, &IOError{Path: destDir, Err: err}
	}

	b := &batch{cfg: cfg, destDir: destDir}
	if cfg.BoundingBoxes {
		b.boxes = make(map[string]Box)
	}

	log.Info.Printf("rendering %d records from %s into %s", len(records), rawDir, destDir)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for _, rec := range records {
		if gctx.Err() != nil {
			break
		}
		rec := rec
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return b.process(rec)
		})
	}
	err = g.Wait()
	if err == nil {
		err = ctx.Err()
	}

	report := b.report(len(records))
	if err != nil {
		return report, err
	}

	if cfg.BoundingBoxes {
		if err := b.writeBoxes(); err != nil {
			return report, err
		}
	}

	if report.Skipped > 0 {
		log.Warning.Printf("skipped %d malformed records", report.Skipped)
	}
	log.Info.Printf("wrote %d images", report.Written)
	return report, nil
}

func (b *batch) process(rec Record) error {
	s, err := LoadRecord(rec.Path)
	if err != nil {
		log.Warning.Println(err)
		b.mu.Lock()
		b.skipped = append(b.skipped, rec.Path)
		b.mu.Unlock()
		return nil
	}

	p := Place(s, b.cfg, rec.ID)
	for _, v := range b.cfg.Variants() {
		path, err := ExportPath(b.destDir, s.Label, rec.ID, v, b.cfg.Format)
		if err != nil {
			return err
		}

		img := Render(s, b.cfg, v, p)
		if err := writeImage(path, img, b.cfg.Format); err != nil {
			return err
		}
		log.Trace.Printf("wrote %s", path)

		b.mu.Lock()
		b.written++
		if b.boxes != nil {
			rel, _ := filepath.Rel(b.destDir, path)
			b.boxes[filepath.ToSlash(rel)] = Box{
				Left: p.Box.Min.X, Top: p.Box.Min.Y,
				Right: p.Box.Max.X, Bottom: p.Box.Max.Y,
			}
		}
		b.mu.Unlock()
	}
	return nil
}

func (b *batch) report(records int) Report {
	b.mu.Lock()
	defer b.mu.Unlock()

	skipped := append([]string(nil), b.skipped...)
	sort.Strings(skipped)
	return Report{
		Records:        records,
		Written:        b.written,
		Skipped:        len(skipped),
		SkippedRecords: skipped,
	}
}

func (b *batch) writeBoxes() error {
	// map keys are marshaled in sorted order
	data, err := json.MarshalIndent(b.boxes, "", "  ")
	if err != nil {
		return err
	}
	path := filepath.Join(b.destDir, BoundingBoxesFile)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return &IOError{Path: path, Err: err}
	}
	return nil
}
