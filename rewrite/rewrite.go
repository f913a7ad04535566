// Package rewrite replaces string literals with localization lookups.
//
// The document is tokenised once (scan.Tokens), so only real literal
// tokens are touched: text inside comments and inside longer literals is
// left alone. Every literal whose body equals a dictionary value is
// replaced in place, by its recorded span, with a lookup expression that
// falls back to the original literal when the lookup yields null.
package rewrite

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/minios-linux/arbkit/scan"
)

// DefaultTemplate is the Flutter gen-l10n lookup with a literal fallback.
// {{key}} is the ARB key, {{literal}} the original quoted token and
// {{raw}} its body without quotes.
const DefaultTemplate = "AppLocalizations.of(context)?.{{key}} ?? {{literal}}"

// Lookup resolves a literal body to a dictionary key.
type Lookup interface {
	KeyFor(literal string) (key string, ok bool)
}

// Rewriter holds the substitution settings.
type Rewriter struct {
	// Template is the replacement expression; DefaultTemplate if empty.
	Template string
	// Import is the declaration that makes the lookup resolvable, e.g.
	// import 'package:app/l10n/app_localizations.dart';
	// Empty disables import insertion.
	Import string
}

// Replacement records one substitution.
type Replacement struct {
	Key     string
	Literal string
	Line    int
}

// Result is the outcome of rewriting one document.
type Result struct {
	Output       string
	Replacements []Replacement
	// ImportAdded is set when the import declaration was inserted.
	ImportAdded bool
	// PartOf names the owning library when src is a part file. Part files
	// cannot import, so the owner needs the declaration instead.
	PartOf string
}

// Changed reports whether Output differs from the input.
func (r Result) Changed() bool { return len(r.Replacements) > 0 || r.ImportAdded }

// Validate checks that the template references the key.
func (rw *Rewriter) Validate() error {
	if !strings.Contains(rw.template(), "{{key}}") {
		return fmt.Errorf("rewrite template %q has no {{key}} placeholder", rw.template())
	}
	return nil
}

func (rw *Rewriter) template() string {
	if rw.Template == "" {
		return DefaultTemplate
	}
	return rw.Template
}

func (rw *Rewriter) expand(key string, lit scan.Literal) string {
	return strings.NewReplacer(
		"{{key}}", key,
		"{{literal}}", lit.Quoted(),
		"{{raw}}", lit.Raw,
	).Replace(rw.template())
}

// Rewrite substitutes every dictionary literal in src.
func (rw *Rewriter) Rewrite(src string, lookup Lookup) (Result, error) {
	if err := rw.Validate(); err != nil {
		return Result{}, err
	}

	var (
		b    strings.Builder
		res  Result
		last int
	)
	b.Grow(len(src))
	for lit := range scan.Tokens(src) {
		if lit.Raw == "" {
			continue
		}
		key, ok := lookup.KeyFor(lit.Raw)
		if !ok {
			continue
		}
		exp := rw.expand(key, lit)
		if withinExpansion(src, lit, exp) {
			continue
		}
		b.WriteString(src[last:lit.Start])
		b.WriteString(exp)
		last = lit.End
		res.Replacements = append(res.Replacements, Replacement{
			Key:     key,
			Literal: lit.Raw,
			Line:    scan.LineAt(src, lit.Start),
		})
	}
	b.WriteString(src[last:])
	res.Output = b.String()

	if len(res.Replacements) > 0 && rw.Import != "" {
		if owner, ok := PartOf(res.Output); ok {
			res.PartOf = owner
		} else {
			res.Output, res.ImportAdded = EnsureImport(res.Output, rw.Import)
		}
	}
	return res, nil
}

// withinExpansion reports whether lit is the fallback inside an earlier
// expansion exp, so rewriting the same document twice is a no-op.
func withinExpansion(src string, lit scan.Literal, exp string) bool {
	quoted := lit.Quoted()
	for p := 0; ; p++ {
		i := strings.Index(exp[p:], quoted)
		if i < 0 {
			return false
		}
		p += i
		if start := lit.Start - p; start >= 0 && strings.HasPrefix(src[start:], exp) {
			return true
		}
	}
}

// RewriteFile rewrites path in place unless dryRun is set. The file is
// read and written whole.
func (rw *Rewriter) RewriteFile(path string, lookup Lookup, dryRun bool) (Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Result{}, fmt.Errorf("reading %s: %w", path, err)
	}
	res, err := rw.Rewrite(string(data), lookup)
	if err != nil {
		return Result{}, err
	}
	if !res.Changed() || dryRun {
		return res, nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return Result{}, fmt.Errorf("stat %s: %w", path, err)
	}
	if err := os.WriteFile(path, []byte(res.Output), info.Mode().Perm()); err != nil {
		return Result{}, fmt.Errorf("writing %s: %w", path, err)
	}
	return res, nil
}

// ---------------------------------------------------------------------------
// Import insertion
// ---------------------------------------------------------------------------

var (
	importDecl  = regexp.MustCompile(`(?m)^[ \t]*import\s+[^;]*;`)
	importURI   = regexp.MustCompile(`['"]([^'"]+)['"]`)
	libraryDecl = regexp.MustCompile(`(?m)^[ \t]*library\b[^;]*;`)
	partOfDecl  = regexp.MustCompile(`(?m)^[ \t]*part\s+of\s+([^;]+);`)
)

// PartOf reports whether src is a part file and returns the library it
// belongs to, as written in the directive.
func PartOf(src string) (string, bool) {
	masked := maskComments(src)
	loc := partOfDecl.FindStringSubmatchIndex(masked)
	if loc == nil {
		return "", false
	}
	owner := strings.TrimSpace(src[loc[2]:loc[3]])
	return strings.Trim(owner, `'"`), true
}

// EnsureImport inserts decl on its own line right after the first import
// declaration of src, unless src already imports the same URI. Import
// lines inside comments do not count. Without any import, decl follows
// the library directive, or opens the file when there is none. Part
// files are returned unchanged.
func EnsureImport(src, decl string) (string, bool) {
	decl = strings.TrimSpace(decl)
	if hasImport(src, decl) {
		return src, false
	}
	if _, ok := PartOf(src); ok {
		return src, false
	}

	masked := maskComments(src)
	loc := importDecl.FindStringIndex(masked)
	if loc == nil {
		loc = libraryDecl.FindStringIndex(masked)
	}
	if loc == nil {
		return decl + "\n" + src, true
	}
	return src[:loc[1]] + "\n" + decl + src[loc[1]:], true
}

func hasImport(src, decl string) bool {
	masked := maskComments(src)
	m := importURI.FindStringSubmatch(decl)
	if m == nil {
		return strings.Contains(masked, decl)
	}
	for _, loc := range importDecl.FindAllStringIndex(masked, -1) {
		if u := importURI.FindStringSubmatch(src[loc[0]:loc[1]]); u != nil && u[1] == m[1] {
			return true
		}
	}
	return false
}

// maskComments blanks comment bytes outside literals, keeping newlines and
// offsets, so line-anchored patterns skip commented-out code.
func maskComments(src string) string {
	buf := []byte(src)
	pos := 0
	blank := func(from, to int) {
		for i := from; i < to; i++ {
			if buf[i] != '\n' {
				buf[i] = ' '
			}
		}
	}
	for lit := range scan.Tokens(src) {
		blankComments(src[pos:lit.Start], pos, blank)
		pos = lit.End
	}
	blankComments(src[pos:], pos, blank)
	return string(buf)
}

// blankComments blanks comments in a literal-free stretch of text that
// starts at offset base.
func blankComments(text string, base int, blank func(from, to int)) {
	for i := 0; i < len(text); {
		j := strings.IndexByte(text[i:], '/')
		if j < 0 || i+j+1 >= len(text) {
			return
		}
		i += j
		switch text[i+1] {
		case '/':
			end := len(text)
			if nl := strings.IndexByte(text[i:], '\n'); nl >= 0 {
				end = i + nl
			}
			blank(base+i, base+end)
			i = end
		case '*':
			end := len(text)
			if e := strings.Index(text[i+2:], "*/"); e >= 0 {
				end = i + 2 + e + 2
			}
			blank(base+i, base+end)
			i = end
		default:
			i++
		}
	}
}
