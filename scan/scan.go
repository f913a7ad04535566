// Package scan finds quoted string literals in source text.
//
// Two passes are offered:
//
//   - StripComments + Literals: the extraction path. Comments are removed
//     first and the remaining text is scanned for quoted runs. Comment
//     markers that happen to sit inside a literal ("http://...") are
//     stripped as well; extraction tolerates that.
//   - Tokens: the rewriting path. Comments and literals are recognised in
//     a single left-to-right pass over the original text, so every
//     Literal carries a span that can be spliced back into the document.
//
// Neither pass understands triple-quoted or raw strings.
package scan

import (
	"iter"
	"strings"
)

// Literal is a quote-delimited run in a document.
type Literal struct {
	// Quote is the delimiter, ' or ".
	Quote byte
	// Raw is the body between the delimiters, escapes left as written.
	Raw string
	// Start and End are byte offsets of the whole token, delimiters
	// included: text[Start:End] == Quote + Raw + Quote.
	Start, End int
}

// Content returns the literal body as it appears in source.
func (l Literal) Content() string { return l.Raw }

// Quoted returns the literal with its delimiters.
func (l Literal) Quoted() string {
	return string(l.Quote) + l.Raw + string(l.Quote)
}

// ---------------------------------------------------------------------------
// Comment stripping
// ---------------------------------------------------------------------------

// StripComments removes // line comments (up to, not including, the
// newline) and /* */ block comments (to the nearest close marker, across
// lines). An unterminated block comment is left alone.
//
// Removing a block comment can glue two slashes into a fresh "//", so the
// pass is repeated until the text stops changing. The result is therefore
// stable under a second call.
func StripComments(src string) string {
	for {
		out := stripOnce(src)
		if out == src {
			return out
		}
		src = out
	}
}

func stripOnce(src string) string {
	if !strings.Contains(src, "/") {
		return src
	}
	var b strings.Builder
	b.Grow(len(src))
	for i := 0; i < len(src); {
		if src[i] == '/' && i+1 < len(src) {
			switch src[i+1] {
			case '/':
				i = lineCommentEnd(src, i)
				continue
			case '*':
				if end, ok := blockCommentEnd(src, i); ok {
					i = end
					continue
				}
			}
		}
		b.WriteByte(src[i])
		i++
	}
	return b.String()
}

// lineCommentEnd returns the offset of the newline ending the comment
// that starts at i, or len(src).
func lineCommentEnd(src string, i int) int {
	if nl := strings.IndexByte(src[i:], '\n'); nl >= 0 {
		return i + nl
	}
	return len(src)
}

// blockCommentEnd returns the offset just past the "*/" closing the
// comment that starts at i.
func blockCommentEnd(src string, i int) (int, bool) {
	if end := strings.Index(src[i+2:], "*/"); end >= 0 {
		return i + 2 + end + 2, true
	}
	return 0, false
}

// ---------------------------------------------------------------------------
// Literal scanning
// ---------------------------------------------------------------------------

// Literals yields every quoted run in src, left to right. The body of a
// literal is any run of characters other than the delimiter or a
// backslash, where a backslash always consumes the character after it, so
// \' and \" never close a literal. A quote with no closing partner is
// skipped and scanning resumes on the next byte.
//
// The sequence holds no state between iterations and can be ranged over
// any number of times.
func Literals(src string) iter.Seq[Literal] {
	return func(yield func(Literal) bool) {
		for i := 0; i < len(src); {
			q := src[i]
			if q != '\'' && q != '"' {
				i++
				continue
			}
			end, ok := literalEnd(src, i)
			if !ok {
				i++
				continue
			}
			if !yield(Literal{Quote: q, Raw: src[i+1 : end-1], Start: i, End: end}) {
				return
			}
			i = end
		}
	}
}

// Tokens yields the literals of src that lie outside comments. Comments
// are recognised only where a literal is not open, so "//" inside a
// string is text and a quote inside a comment is ignored. Offsets refer
// to src itself.
func Tokens(src string) iter.Seq[Literal] {
	return func(yield func(Literal) bool) {
		for i := 0; i < len(src); {
			c := src[i]
			switch {
			case c == '/' && i+1 < len(src) && src[i+1] == '/':
				i = lineCommentEnd(src, i)
			case c == '/' && i+1 < len(src) && src[i+1] == '*':
				end, ok := blockCommentEnd(src, i)
				if !ok {
					// Unterminated: the rest of the document is comment.
					return
				}
				i = end
			case c == '\'' || c == '"':
				end, ok := literalEnd(src, i)
				if !ok {
					i++
					continue
				}
				if !yield(Literal{Quote: c, Raw: src[i+1 : end-1], Start: i, End: end}) {
					return
				}
				i = end
			default:
				i++
			}
		}
	}
}

// Collect gathers Literals(src) into a slice.
func Collect(src string) []Literal {
	var out []Literal
	for lit := range Literals(src) {
		out = append(out, lit)
	}
	return out
}

// literalEnd returns the offset just past the delimiter closing the
// literal opened at src[start].
func literalEnd(src string, start int) (int, bool) {
	q := src[start]
	for j := start + 1; j < len(src); j++ {
		switch src[j] {
		case '\\':
			// Continuation bytes of a multi-byte rune never equal a quote
			// or a backslash, so skipping a single byte is safe.
			j++
		case q:
			return j + 1, true
		}
	}
	return 0, false
}

// Scan strips comments from src and returns the literals whose content
// matches script. A nil script matches everything.
func Scan(src string, script *Script) []Literal {
	var out []Literal
	for lit := range Literals(StripComments(src)) {
		if script == nil || script.Match(lit.Raw) {
			out = append(out, lit)
		}
	}
	return out
}

// LineAt returns the 1-based line number of offset off in src.
func LineAt(src string, off int) int {
	if off > len(src) {
		off = len(src)
	}
	return strings.Count(src[:off], "\n") + 1
}
