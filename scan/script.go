package scan

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/rangetable"
)

// Range is an inclusive code point range.
type Range struct {
	Lo, Hi rune
}

// CJK is the unified ideograph block used by the original tooling,
// U+4E00 to U+9FA5.
var CJK = Range{Lo: 0x4E00, Hi: 0x9FA5}

// Script classifies text by the code points it contains.
type Script struct {
	name  string
	table *unicode.RangeTable
}

// NewScript builds a Script from one or more ranges.
func NewScript(ranges ...Range) *Script {
	tables := make([]*unicode.RangeTable, 0, len(ranges))
	names := make([]string, 0, len(ranges))
	for _, r := range ranges {
		tables = append(tables, rangeTable(r))
		names = append(names, fmt.Sprintf("U+%04X-U+%04X", r.Lo, r.Hi))
	}
	return &Script{name: strings.Join(names, ","), table: rangetable.Merge(tables...)}
}

// DefaultScript matches the CJK range.
func DefaultScript() *Script {
	s := NewScript(CJK)
	s.name = "CJK"
	return s
}

// ParseScript parses a comma-separated list of script names and ranges:
//
//	CJK               U+4E00-U+9FA5
//	Han, Hiragana...  any unicode.Scripts name
//	U+3040-U+30FF     explicit range
func ParseScript(spec string) (*Script, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return DefaultScript(), nil
	}

	var tables []*unicode.RangeTable
	for _, item := range strings.Split(spec, ",") {
		item = strings.TrimSpace(item)
		switch {
		case item == "":
			continue
		case strings.EqualFold(item, "cjk"):
			tables = append(tables, rangeTable(CJK))
		case strings.HasPrefix(strings.ToUpper(item), "U+"):
			r, err := parseRange(item)
			if err != nil {
				return nil, err
			}
			tables = append(tables, rangeTable(r))
		default:
			t, ok := unicode.Scripts[item]
			if !ok {
				return nil, fmt.Errorf("unknown script %q", item)
			}
			tables = append(tables, t)
		}
	}
	if len(tables) == 0 {
		return nil, fmt.Errorf("empty script spec %q", spec)
	}
	return &Script{name: spec, table: rangetable.Merge(tables...)}, nil
}

// String returns the spec the script was built from.
func (s *Script) String() string { return s.name }

// Match reports whether any rune of text falls in the script.
func (s *Script) Match(text string) bool {
	for _, r := range text {
		if unicode.Is(s.table, r) {
			return true
		}
	}
	return false
}

func parseRange(item string) (Range, error) {
	lo, hi, found := strings.Cut(item, "-")
	if !found {
		hi = lo
	}
	l, err := parseCodePoint(lo)
	if err != nil {
		return Range{}, fmt.Errorf("range %q: %w", item, err)
	}
	h, err := parseCodePoint(hi)
	if err != nil {
		return Range{}, fmt.Errorf("range %q: %w", item, err)
	}
	if h < l {
		return Range{}, fmt.Errorf("range %q: high bound below low bound", item)
	}
	return Range{Lo: l, Hi: h}, nil
}

func parseCodePoint(s string) (rune, error) {
	s = strings.TrimSpace(s)
	if len(s) < 3 || !strings.EqualFold(s[:2], "U+") {
		return 0, fmt.Errorf("code point %q must look like U+4E00", s)
	}
	n, err := strconv.ParseUint(s[2:], 16, 32)
	if err != nil {
		return 0, fmt.Errorf("code point %q: %w", s, err)
	}
	if n > unicode.MaxRune {
		return 0, fmt.Errorf("code point %q out of range", s)
	}
	return rune(n), nil
}

func rangeTable(r Range) *unicode.RangeTable {
	t := &unicode.RangeTable{}
	if r.Hi <= 0xFFFF {
		t.R16 = []unicode.Range16{{Lo: uint16(r.Lo), Hi: uint16(r.Hi), Stride: 1}}
		return t
	}
	if r.Lo <= 0xFFFF {
		t.R16 = []unicode.Range16{{Lo: uint16(r.Lo), Hi: 0xFFFF, Stride: 1}}
		t.R32 = []unicode.Range32{{Lo: 0x10000, Hi: uint32(r.Hi), Stride: 1}}
		return t
	}
	t.R32 = []unicode.Range32{{Lo: uint32(r.Lo), Hi: uint32(r.Hi), Stride: 1}}
	return t
}
