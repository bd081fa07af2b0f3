package footprinter

import (
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/FredworkLemmas/ozwald-sub000/internal/catalog"
	"github.com/FredworkLemmas/ozwald-sub000/internal/model"
)

// UsageFile manages the §6.2 usage-record YAML file at a fixed path
// (OZWALD_FOOTPRINT_DATA). A missing file reads as an empty list; the
// parent directory's writability is checked once at daemon startup, not on
// every write here.
type UsageFile struct {
	Path string
}

// NewUsageFile returns a UsageFile rooted at path.
func NewUsageFile(path string) *UsageFile {
	return &UsageFile{Path: path}
}

// Load reads the usage-record file. A missing file is not an error.
func (u *UsageFile) Load() ([]model.UsageRecord, error) {
	data, err := os.ReadFile(u.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, catalog.NewConfigErrorWithCause(u.Path, "failed to read usage-record file", err)
	}

	var records []model.UsageRecord
	if err := yaml.Unmarshal(data, &records); err != nil {
		return nil, catalog.NewConfigErrorWithCause(u.Path, "failed to parse usage-record file", err)
	}
	return records, nil
}

// Upsert merges rec into the file's records, keyed by (service, profile,
// variety), and writes the result back sorted by that same key.
func (u *UsageFile) Upsert(rec model.UsageRecord) error {
	records, err := u.Load()
	if err != nil {
		return err
	}

	replaced := false
	for i := range records {
		if records[i].Key() == rec.Key() {
			records[i] = rec
			replaced = true
			break
		}
	}
	if !replaced {
		records = append(records, rec)
	}

	sort.Slice(records, func(i, j int) bool {
		return lessKey(records[i].Key(), records[j].Key())
	})

	data, err := yaml.Marshal(records)
	if err != nil {
		return catalog.NewConfigErrorWithCause(u.Path, "failed to encode usage-record file", err)
	}

	if err := os.WriteFile(u.Path, data, 0o644); err != nil {
		return catalog.NewConfigErrorWithCause(u.Path, "failed to write usage-record file", err)
	}
	return nil
}

func lessKey(a, b [3]string) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}
