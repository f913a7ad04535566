package extract

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/minios-linux/arbkit/arbfile"
)

// Entry is one row of the candidate dictionary:
//
//	"保存修改": {"key": "saveChanges", "en": "Save Changes"}
type Entry struct {
	Literal     string
	Key         string
	Translation string
}

// Known resolves a literal to a key and translation already present in
// the ARB files.
type Known func(literal string) (key, translation string, ok bool)

// BuildOptions controls how placeholder rows are filled.
type BuildOptions struct {
	// Previous rows from an earlier run; non-empty fields win.
	Previous map[string]Entry
	// Known fills rows for literals the ARB files already cover.
	Known Known
	// Keys, when set, proposes a key for rows that still have none.
	Keys *KeySuggester
}

// BuildEntries turns candidates into dictionary rows sorted by literal.
func BuildEntries(cands []Candidate, opts BuildOptions) []Entry {
	entries := make([]Entry, 0, len(cands))
	for _, c := range cands {
		e := Entry{Literal: c.Literal}
		if prev, ok := opts.Previous[c.Literal]; ok {
			e.Key, e.Translation = prev.Key, prev.Translation
		}
		if opts.Known != nil && (e.Key == "" || e.Translation == "") {
			if k, tr, ok := opts.Known(c.Literal); ok {
				if e.Key == "" {
					e.Key = k
				}
				if e.Translation == "" {
					e.Translation = tr
				}
			}
		}
		if e.Key != "" && opts.Keys != nil {
			opts.Keys.Reserve(e.Key)
		}
		entries = append(entries, e)
	}
	if opts.Keys != nil {
		for i := range entries {
			if entries[i].Key == "" {
				entries[i].Key = opts.Keys.Suggest(entries[i].Literal)
			}
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Literal < entries[j].Literal })
	return entries
}

// MarshalDictionary renders rows as pretty-printed JSON with 2-space
// indentation. Non-ASCII text is written as-is. target names the
// translation field.
func MarshalDictionary(entries []Entry, target string) []byte {
	var buf bytes.Buffer
	if len(entries) == 0 {
		buf.WriteString("{}\n")
		return buf.Bytes()
	}
	buf.WriteString("{")
	for i, e := range entries {
		if i > 0 {
			buf.WriteString(",")
		}
		buf.WriteString("\n  ")
		buf.Write(arbfile.MarshalString(e.Literal))
		buf.WriteString(": {\n    \"key\": ")
		buf.Write(arbfile.MarshalString(e.Key))
		buf.WriteString(",\n    ")
		buf.Write(arbfile.MarshalString(target))
		buf.WriteString(": ")
		buf.Write(arbfile.MarshalString(e.Translation))
		buf.WriteString("\n  }")
	}
	buf.WriteString("\n}\n")
	return buf.Bytes()
}

// WriteDictionary writes rows to path.
func WriteDictionary(path string, entries []Entry, target string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, MarshalDictionary(entries, target), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// ReadDictionary loads rows written by an earlier run. A missing file
// yields an empty map.
func ReadDictionary(path, target string) (map[string]Entry, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]Entry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var raw map[string]map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	out := make(map[string]Entry, len(raw))
	for lit, fields := range raw {
		out[lit] = Entry{Literal: lit, Key: fields["key"], Translation: fields[target]}
	}
	return out, nil
}
