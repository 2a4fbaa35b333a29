package fetch

import (
	"fmt"
	"sort"
	"strings"
)

// Dataset describes a downloadable archive.
type Dataset struct {
	ID       string
	URL      string
	Filename string
	// Size and SHA256 are checked after download when set.
	Size   int64
	SHA256 string
}

const (
	HomusV1 = "HOMUS_V1"
	HomusV2 = "HOMUS_V2"
)

var datasets = map[string]Dataset{
	HomusV1: {
		ID:       HomusV1,
		URL:      "https://grfia.dlsi.ua.es/homus/HOMUS.zip",
		Filename: "HOMUS.zip",
	},
	HomusV2: {
		ID:       HomusV2,
		URL:      "https://github.com/apacha/OMR-Datasets/releases/download/datasets/HOMUS-2.0.zip",
		Filename: "HOMUS-2.0.zip",
	},
}

// normalizeID maps "homus-v2", "Homus_V2" etc. to the registry key.
func normalizeID(id string) string {
	return strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(id), "-", "_"))
}

// Lookup returns the dataset registered under id.
func Lookup(id string) (Dataset, error) {
	ds, ok := datasets[normalizeID(id)]
	if !ok {
		return Dataset{}, fmt.Errorf("unknown dataset %q, known: %s", id, strings.Join(IDs(), ", "))
	}
	return ds, nil
}

// IDs lists the registered dataset identifiers, sorted.
func IDs() []string {
	ids := make([]string, 0, len(datasets))
	for id := range datasets {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
