// Package arbfile implements reading and writing of Flutter ARB (Application
// Resource Bundle) files.
//
// ARB files are JSON files with a specific structure:
//
//   - "@@locale" holds the BCP-47 language code (e.g. "zh", "en").
//   - Keys starting with "@" (other than "@@locale") are metadata entries
//     (e.g. "@greeting") and are preserved verbatim.
//   - All other string values are translatable.
//
// File naming convention: app_LANG.arb (e.g. app_zh.arb, app_en.arb) stored
// in a single directory (e.g. lib/l10n/).
//
// Round-trip fidelity: key order from the source file is preserved, new keys
// are appended at the end, and non-ASCII text is written unescaped.
package arbfile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ---------------------------------------------------------------------------
// File model
// ---------------------------------------------------------------------------

// entry is a single key in the ARB file.
type entry struct {
	key      string
	value    string // decoded string value (translatable keys only)
	isMeta   bool   // true for @-keys (metadata / @@locale)
	rawValue []byte // original JSON value bytes (preserved for meta)
}

// File represents a parsed ARB file.
type File struct {
	// locale is the value of @@locale.
	locale string
	// entries stores all keys in document order.
	entries []entry
	// index maps key → index in entries.
	index map[string]int
}

// New returns an empty file for locale.
func New(locale string) *File {
	return &File{locale: locale, index: make(map[string]int)}
}

// IsMetaKey reports whether key is an ARB metadata key.
func IsMetaKey(key string) bool { return strings.HasPrefix(key, "@") }

// ---------------------------------------------------------------------------
// Parsing
// ---------------------------------------------------------------------------

// ParseFile reads and parses an ARB file from disk.
func ParseFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Parse parses ARB content from a byte slice. A duplicated key keeps its
// first position and its last value, as encoding/json would.
func Parse(data []byte) (*File, error) {
	f := New("")

	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("parsing ARB: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("parsing ARB: expected '{', got %v", tok)
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("parsing ARB key: %w", err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("parsing ARB: expected string key, got %T", keyTok)
		}

		var rawVal json.RawMessage
		if err := dec.Decode(&rawVal); err != nil {
			return nil, fmt.Errorf("parsing ARB value for %q: %w", key, err)
		}

		e := entry{key: key, isMeta: IsMetaKey(key), rawValue: rawVal}
		if key == "@@locale" {
			if err := json.Unmarshal(rawVal, &f.locale); err != nil {
				return nil, fmt.Errorf("parsing ARB: @@locale must be a string")
			}
		}
		if !e.isMeta {
			if err := json.Unmarshal(rawVal, &e.value); err != nil {
				return nil, fmt.Errorf("parsing ARB: value for %q is not a string", key)
			}
		}

		if idx, dup := f.index[key]; dup {
			f.entries[idx] = e
			continue
		}
		f.index[key] = len(f.entries)
		f.entries = append(f.entries, e)
	}

	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("parsing ARB: %w", err)
	}
	if dec.More() {
		return nil, fmt.Errorf("parsing ARB: trailing data after object")
	}

	return f, nil
}

// ---------------------------------------------------------------------------
// Accessors
// ---------------------------------------------------------------------------

// Locale returns the @@locale value.
func (f *File) Locale() string { return f.locale }

// SetLocale sets the @@locale value.
func (f *File) SetLocale(locale string) { f.locale = locale }

// Keys returns all translatable (non-metadata) keys in document order.
func (f *File) Keys() []string {
	var keys []string
	for _, e := range f.entries {
		if !e.isMeta {
			keys = append(keys, e.key)
		}
	}
	return keys
}

// Len returns the number of translatable keys.
func (f *File) Len() int {
	n := 0
	for _, e := range f.entries {
		if !e.isMeta {
			n++
		}
	}
	return n
}

// UntranslatedKeys returns translatable keys whose value is empty.
func (f *File) UntranslatedKeys() []string {
	var keys []string
	for _, e := range f.entries {
		if !e.isMeta && e.value == "" {
			keys = append(keys, e.key)
		}
	}
	return keys
}

// Get returns the string value for a translatable key.
func (f *File) Get(key string) (string, bool) {
	if idx, ok := f.index[key]; ok && !f.entries[idx].isMeta {
		return f.entries[idx].value, true
	}
	return "", false
}

// Has reports whether a translatable key is present.
func (f *File) Has(key string) bool {
	_, ok := f.Get(key)
	return ok
}

// Set sets the value of an existing translatable key.
// Returns true on success, false if the key is not found or is metadata.
func (f *File) Set(key, value string) bool {
	idx, ok := f.index[key]
	if !ok || f.entries[idx].isMeta {
		return false
	}
	f.entries[idx].value = value
	f.entries[idx].rawValue = marshalString(value)
	return true
}

// Add appends a new translatable key. It returns false if the key already
// exists or is a metadata key.
func (f *File) Add(key, value string) bool {
	if IsMetaKey(key) {
		return false
	}
	if _, ok := f.index[key]; ok {
		return false
	}
	f.index[key] = len(f.entries)
	f.entries = append(f.entries, entry{key: key, value: value, rawValue: marshalString(value)})
	return true
}

// Stats returns (total, translated, percentTranslated).
func (f *File) Stats() (int, int, float64) {
	total, translated := 0, 0
	for _, e := range f.entries {
		if !e.isMeta {
			total++
			if e.value != "" {
				translated++
			}
		}
	}
	pct := 0.0
	if total > 0 {
		pct = float64(translated) / float64(total) * 100
	}
	return total, translated, pct
}

// Missing returns the keys of src that are absent from target or have an
// empty value there, in src order.
func Missing(src, target *File) []string {
	var keys []string
	for _, k := range src.Keys() {
		if v, ok := target.Get(k); !ok || v == "" {
			keys = append(keys, k)
		}
	}
	return keys
}

// ---------------------------------------------------------------------------
// Serialization
// ---------------------------------------------------------------------------

// Marshal serialises the ARB file to JSON with 2-space indentation.
// The @@locale key is always written first.
func (f *File) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("{")

	first := true
	sep := func() {
		if !first {
			buf.WriteString(",")
		}
		buf.WriteString("\n  ")
		first = false
	}

	if f.locale != "" {
		sep()
		buf.WriteString(`"@@locale": `)
		buf.Write(marshalString(f.locale))
	}

	for _, e := range f.entries {
		if e.key == "@@locale" {
			continue
		}
		sep()
		buf.Write(marshalString(e.key))
		buf.WriteString(": ")
		if e.isMeta {
			// Pretty-print metadata objects.
			var pretty bytes.Buffer
			if err := json.Indent(&pretty, e.rawValue, "  ", "  "); err != nil {
				return nil, fmt.Errorf("metadata %q: %w", e.key, err)
			}
			buf.Write(pretty.Bytes())
		} else {
			buf.Write(marshalString(e.value))
		}
	}

	if first {
		buf.WriteString("}\n")
	} else {
		buf.WriteString("\n}\n")
	}
	return buf.Bytes(), nil
}

// WriteFile serialises and writes to path.
func (f *File) WriteFile(path string) error {
	data, err := f.Marshal()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("mkdir %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// MarshalString encodes s as a JSON string without HTML escaping, so
// "<", ">" and "&" stay readable in resource files.
func MarshalString(s string) []byte { return marshalString(s) }

func marshalString(s string) []byte {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(s)
	return bytes.TrimRight(buf.Bytes(), "\n")
}
