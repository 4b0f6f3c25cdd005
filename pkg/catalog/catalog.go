// Package catalog lists the replaceable assets of a project and resolves
// node and material names to them.
//
// A catalog is an ordered list of entries, each pairing a short name with
// the asset it identifies. Entries come from a directory listing sorted by
// file name, so the order (and with it every tie-break) is stable across
// runs and platforms.
package catalog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrCatalog is returned when a catalog directory cannot be listed.
var ErrCatalog = errors.New("catalog: cannot list directory")

// importSuffix marks host-generated sidecar files that describe an asset
// but are not assets themselves.
const importSuffix = ".import"

// Entry is one replaceable asset.
type Entry struct {
	ShortName string // file name without extension
	AssetID   string // path handed to the Loader
}

// Catalog is an ordered set of entries plus its matching policy.
type Catalog struct {
	entries  []Entry
	foldCase bool
}

// New returns a catalog over entries in the given order. When foldCase is
// set, matching ignores letter case.
func New(entries []Entry, foldCase bool) *Catalog {
	return &Catalog{entries: append([]Entry(nil), entries...), foldCase: foldCase}
}

// Entries returns a copy of the entries in catalog order.
func (c *Catalog) Entries() []Entry {
	if c == nil {
		return nil
	}
	return append([]Entry(nil), c.entries...)
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.entries)
}

// FoldCase reports whether matching ignores letter case.
func (c *Catalog) FoldCase() bool { return c != nil && c.foldCase }

// LoadScenes lists the packaged scenes in dir. Every regular file is an
// entry named after its base name without extension; import sidecars and
// subdirectories are skipped. Scene matching ignores case.
func LoadScenes(dir string) (*Catalog, error) {
	names, err := list(dir)
	if err != nil {
		return nil, err
	}
	var entries []Entry
	for _, name := range names {
		if strings.HasSuffix(name, importSuffix) {
			continue
		}
		entries = append(entries, Entry{
			ShortName: strings.TrimSuffix(name, filepath.Ext(name)),
			AssetID:   filepath.Join(dir, name),
		})
	}
	return New(entries, true), nil
}

// LoadMaterials lists the files in dir ending in ext. Material matching is
// case-sensitive.
func LoadMaterials(dir, ext string) (*Catalog, error) {
	names, err := list(dir)
	if err != nil {
		return nil, err
	}
	var entries []Entry
	for _, name := range names {
		if !strings.HasSuffix(name, ext) {
			continue
		}
		entries = append(entries, Entry{
			ShortName: strings.TrimSuffix(name, ext),
			AssetID:   filepath.Join(dir, name),
		})
	}
	return New(entries, false), nil
}

// list returns the sorted names of the regular files in dir.
func list(dir string) ([]string, error) {
	des, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrCatalog, dir, err)
	}
	var names []string
	for _, de := range des {
		if de.IsDir() {
			continue
		}
		names = append(names, de.Name())
	}
	sort.Strings(names)
	return names, nil
}
