// Package catalog holds the per-locale ARB dictionaries for one run.
//
// A Catalog is opened once at the start of a command, handed by pointer to
// the steps that read or change it, and saved once at the end. Only files
// whose serialised form changed are written back.
package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/minios-linux/arbkit/arbfile"
)

// DefaultPattern is the Flutter gen-l10n file naming convention.
const DefaultPattern = "app_{lang}.arb"

// Layout describes where the ARB files live.
type Layout struct {
	// Dir is the ARB directory, e.g. lib/l10n.
	Dir string
	// Pattern is the file name with a {lang} placeholder.
	Pattern string
	// SourceLocale is the language the UI was written in (zh).
	SourceLocale string
	// TargetLocale is the translation language (en).
	TargetLocale string
}

// Path returns the ARB path for lang.
func (l Layout) Path(lang string) string {
	pattern := l.Pattern
	if pattern == "" {
		pattern = DefaultPattern
	}
	return filepath.Join(l.Dir, strings.ReplaceAll(pattern, "{lang}", lang))
}

type dict struct {
	path   string
	file   *arbfile.File
	loaded []byte // serialised form at load time; nil if the file did not exist
}

// Catalog is the dictionary store for one run.
type Catalog struct {
	layout Layout
	dicts  map[string]*dict
	order  []string
}

// Open loads the source and target locale files. A missing file yields an
// empty dictionary that is created on Save; a malformed one is an error.
func Open(layout Layout) (*Catalog, error) {
	if layout.SourceLocale == "" || layout.TargetLocale == "" {
		return nil, fmt.Errorf("catalog: source and target locales are required")
	}
	if layout.SourceLocale == layout.TargetLocale {
		return nil, fmt.Errorf("catalog: source and target locale are both %q", layout.SourceLocale)
	}

	c := &Catalog{layout: layout, dicts: make(map[string]*dict)}
	for _, lang := range []string{layout.SourceLocale, layout.TargetLocale} {
		d, err := load(layout.Path(lang), lang)
		if err != nil {
			return nil, err
		}
		c.dicts[lang] = d
		c.order = append(c.order, lang)
	}
	return c, nil
}

func load(path, lang string) (*dict, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &dict{path: path, file: arbfile.New(lang)}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	f, err := arbfile.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if f.Locale() == "" {
		f.SetLocale(lang)
	}
	loaded, err := f.Marshal()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &dict{path: path, file: f, loaded: loaded}, nil
}

// Locales returns the loaded locales, source first.
func (c *Catalog) Locales() []string { return append([]string(nil), c.order...) }

// File returns the dictionary for lang, or nil if lang is not loaded.
func (c *Catalog) File(lang string) *arbfile.File {
	if d, ok := c.dicts[lang]; ok {
		return d.file
	}
	return nil
}

// Path returns the file path for lang.
func (c *Catalog) Path(lang string) string {
	if d, ok := c.dicts[lang]; ok {
		return d.path
	}
	return c.layout.Path(lang)
}

// Source returns the source locale dictionary.
func (c *Catalog) Source() *arbfile.File { return c.File(c.layout.SourceLocale) }

// Target returns the target locale dictionary.
func (c *Catalog) Target() *arbfile.File { return c.File(c.layout.TargetLocale) }

// Dirty returns the locales whose content differs from what was loaded.
func (c *Catalog) Dirty() ([]string, error) {
	var dirty []string
	for _, lang := range c.order {
		d := c.dicts[lang]
		data, err := d.file.Marshal()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", d.path, err)
		}
		if d.loaded == nil || !bytes.Equal(data, d.loaded) {
			dirty = append(dirty, lang)
		}
	}
	return dirty, nil
}

// Save writes every changed dictionary in full and returns the paths
// written.
func (c *Catalog) Save() ([]string, error) {
	var written []string
	for _, lang := range c.order {
		d := c.dicts[lang]
		data, err := d.file.Marshal()
		if err != nil {
			return written, fmt.Errorf("%s: %w", d.path, err)
		}
		if d.loaded != nil && bytes.Equal(data, d.loaded) {
			continue
		}
		if err := d.file.WriteFile(d.path); err != nil {
			return written, err
		}
		d.loaded = data
		written = append(written, d.path)
	}
	return written, nil
}

// ---------------------------------------------------------------------------
// Reverse lookup
// ---------------------------------------------------------------------------

// Index maps a source-locale string to the key that translates it.
type Index map[string]string

// KeyFor returns the key for literal.
func (ix Index) KeyFor(literal string) (string, bool) {
	k, ok := ix[literal]
	return k, ok
}

// Collision is a source string shared by more than one key.
type Collision struct {
	Value string
	// Keys in document order; the last one wins in the Index.
	Keys []string
}

// Winner returns the key the Index resolves Value to.
func (c Collision) Winner() string { return c.Keys[len(c.Keys)-1] }

// BuildIndex inverts f. Metadata keys and empty values are skipped. Values
// shared by several keys are reported as collisions, sorted by value, and
// resolved to the last key in document order.
func BuildIndex(f *arbfile.File) (Index, []Collision) {
	multi := make(map[string][]string)
	for _, k := range f.Keys() {
		v, _ := f.Get(k)
		if v == "" {
			continue
		}
		multi[v] = append(multi[v], k)
	}

	idx := make(Index, len(multi))
	var collisions []Collision
	for v, keys := range multi {
		idx[v] = keys[len(keys)-1]
		if len(keys) > 1 {
			collisions = append(collisions, Collision{Value: v, Keys: keys})
		}
	}
	sort.Slice(collisions, func(i, j int) bool { return collisions[i].Value < collisions[j].Value })
	return idx, collisions
}

// ReverseIndex inverts the source locale dictionary.
func (c *Catalog) ReverseIndex() (Index, []Collision) {
	return BuildIndex(c.Source())
}

// ---------------------------------------------------------------------------
// Coverage
// ---------------------------------------------------------------------------

// Coverage compares the target dictionary against the source.
type Coverage struct {
	Total int
	// Missing are source keys absent or empty in the target.
	Missing []string
	// Extra are target keys the source does not define.
	Extra []string
	// Empty are source keys with an empty value; rewrite never reaches them.
	Empty []string
}

// Complete reports whether the two locales carry the same key set with no
// empty translations.
func (cv Coverage) Complete() bool {
	return len(cv.Missing) == 0 && len(cv.Extra) == 0 && len(cv.Empty) == 0
}

// Percent returns the share of source keys translated in the target.
func (cv Coverage) Percent() float64 {
	if cv.Total == 0 {
		return 100
	}
	return float64(cv.Total-len(cv.Missing)) / float64(cv.Total) * 100
}

// Coverage reports how completely the target locale covers the source.
func (c *Catalog) Coverage() Coverage {
	src, tgt := c.Source(), c.Target()
	cv := Coverage{
		Total:   src.Len(),
		Missing: arbfile.Missing(src, tgt),
		Empty:   src.UntranslatedKeys(),
	}
	for _, k := range tgt.Keys() {
		if !src.Has(k) {
			cv.Extra = append(cv.Extra, k)
		}
	}
	return cv
}
