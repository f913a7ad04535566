package extract

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/mozillazg/go-pinyin"
)

// maxKeyWords caps the number of words a suggested key is built from.
const maxKeyWords = 6

// KeySuggester proposes lowerCamel ARB keys from literal text. Han
// characters are spelled in toneless pinyin, ASCII words are kept, and
// everything else separates words. Keys are unique per suggester.
type KeySuggester struct {
	taken map[string]bool
	args  pinyin.Args
}

// NewKeySuggester returns a suggester that avoids the given keys.
func NewKeySuggester(existing []string) *KeySuggester {
	args := pinyin.NewArgs()
	args.Style = pinyin.Normal
	ks := &KeySuggester{taken: make(map[string]bool), args: args}
	for _, k := range existing {
		ks.taken[k] = true
	}
	return ks
}

// Reserve marks key as used.
func (ks *KeySuggester) Reserve(key string) { ks.taken[key] = true }

// Suggest returns an unused key for literal.
func (ks *KeySuggester) Suggest(literal string) string {
	base := ks.base(literal)
	key := base
	for n := 2; ks.taken[key]; n++ {
		key = base + strconv.Itoa(n)
	}
	ks.taken[key] = true
	return key
}

func (ks *KeySuggester) base(literal string) string {
	var words []string
	var ascii strings.Builder
	flush := func() {
		if ascii.Len() > 0 {
			words = append(words, strings.ToLower(ascii.String()))
			ascii.Reset()
		}
	}

	for _, r := range literal {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			ascii.WriteRune(r)
		case unicode.Is(unicode.Han, r):
			flush()
			if py := pinyin.SinglePinyin(r, ks.args); len(py) > 0 && py[0] != "" {
				if w := asciiWord(py[0]); w != "" {
					words = append(words, w)
				}
			}
		default:
			flush()
		}
	}
	flush()

	if len(words) > maxKeyWords {
		words = words[:maxKeyWords]
	}

	var b strings.Builder
	for i, w := range words {
		if i == 0 {
			b.WriteString(w)
			continue
		}
		b.WriteString(strings.ToUpper(w[:1]) + w[1:])
	}
	key := b.String()
	if key == "" {
		return "text"
	}
	if key[0] >= '0' && key[0] <= '9' {
		return "n" + key
	}
	return key
}

// asciiWord folds a pinyin syllable to a-z, writing ü as v.
func asciiWord(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r == 'ü':
			b.WriteByte('v')
		case r >= 'a' && r <= 'z':
			b.WriteRune(r)
		}
	}
	return b.String()
}
