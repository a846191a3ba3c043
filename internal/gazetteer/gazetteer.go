// Package gazetteer holds the reference dataset of place names: an immutable
// index from normalized name to canonical record, loaded once at startup.
package gazetteer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

type Record struct {
	Name      string // canonical display form, as it appears in the dataset
	Latitude  float64
	Longitude float64
}

type Index struct {
	byKey  map[string]Record
	byName map[string]Record
	keys   []string // insertion order, for deterministic best-match ties
}

// Normalize maps a raw spelling to its lookup key.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// New builds an index from records. Multiple records normalizing to the same
// key keep the first key position; the last record wins.
func New(records []Record) *Index {
	ix := &Index{
		byKey:  make(map[string]Record, len(records)),
		byName: make(map[string]Record, len(records)),
	}
	for _, rec := range records {
		ix.add(rec)
	}
	return ix
}

func (ix *Index) add(rec Record) {
	key := Normalize(rec.Name)
	if key == "" {
		return
	}
	if _, ok := ix.byKey[key]; !ok {
		ix.keys = append(ix.keys, key)
	}
	ix.byKey[key] = rec
	ix.byName[rec.Name] = rec
}

func (ix *Index) Lookup(key string) (Record, bool) {
	rec, ok := ix.byKey[key]
	return rec, ok
}

// LookupCanonical resolves an already-accepted canonical name back to its
// record, used to rebuild map markers for late joiners.
func (ix *Index) LookupCanonical(name string) (Record, bool) {
	rec, ok := ix.byName[name]
	return rec, ok
}

// Keys returns every normalized key in insertion order. Callers must not
// mutate the returned slice.
func (ix *Index) Keys() []string { return ix.keys }

func (ix *Index) Len() int { return len(ix.keys) }

// Load reads the dataset CSV. The header must contain name, latitude and
// longitude columns; anything else is ignored. Rows with unparseable
// coordinates are skipped rather than failing the whole load.
func Load(path string) (*Index, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()
	ix, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("read dataset %s: %w", path, err)
	}
	return ix, nil
}

func Read(r io.Reader) (*Index, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	nameCol, latCol, lngCol := -1, -1, -1
	for i, col := range header {
		switch Normalize(col) {
		case "name":
			nameCol = i
		case "latitude":
			latCol = i
		case "longitude":
			lngCol = i
		}
	}
	if nameCol == -1 || latCol == -1 || lngCol == -1 {
		return nil, fmt.Errorf("header missing name/latitude/longitude: %v", header)
	}

	ix := New(nil)
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		if nameCol >= len(row) || latCol >= len(row) || lngCol >= len(row) {
			continue
		}
		lat, latErr := strconv.ParseFloat(strings.TrimSpace(row[latCol]), 64)
		lng, lngErr := strconv.ParseFloat(strings.TrimSpace(row[lngCol]), 64)
		if latErr != nil || lngErr != nil {
			continue
		}
		ix.add(Record{Name: row[nameCol], Latitude: lat, Longitude: lng})
	}
	return ix, nil
}
