package extract

import (
	"fmt"
	"regexp"
	"strings"
)

// Rule excludes literals that cannot be moved into a flat key/value
// dictionary as-is: interpolated text, asset paths, escape sequences.
type Rule struct {
	Name     string
	contains string
	re       *regexp.Regexp
}

// Match reports whether the rule excludes literal.
func (r Rule) Match(literal string) bool {
	if r.re != nil {
		return r.re.MatchString(literal)
	}
	return strings.Contains(literal, r.contains)
}

// String returns the rule in the form ParseRule accepts.
func (r Rule) String() string {
	if r.re != nil {
		return "re:" + r.re.String()
	}
	if strings.Contains(r.contains, "=") {
		return "=" + r.contains
	}
	return r.contains
}

// DefaultRules returns the built-in exclusions.
func DefaultRules() []Rule {
	return []Rule{
		{Name: "interpolation", contains: "$"},
		{Name: "asset-path", contains: "assets/"},
		{Name: "newline-escape", contains: `\n`},
		{Name: "backslash", contains: `\`},
	}
}

// ParseRule parses a rule spec. "re:<expr>" is a regular expression, any
// other text is a plain substring. An optional "name=" prefix labels the
// rule in reports: text up to the first "=" is taken as the name whenever
// it is a plain word, so "lang=zh" is rule "lang" matching "zh". A leading
// "=" marks an unnamed rule and keeps the rest verbatim ("=lang=zh").
func ParseRule(spec string) (Rule, error) {
	name, body := "", spec
	if rest, ok := strings.CutPrefix(spec, "="); ok {
		body = rest
	} else if i := strings.Index(spec, "="); i > 0 && !strings.HasPrefix(spec, "re:") && isRuleName(spec[:i]) {
		name, body = spec[:i], spec[i+1:]
	}
	if body == "" {
		return Rule{}, fmt.Errorf("empty exclusion rule %q", spec)
	}
	if expr, ok := strings.CutPrefix(body, "re:"); ok {
		re, err := regexp.Compile(expr)
		if err != nil {
			return Rule{}, fmt.Errorf("exclusion rule %q: %w", spec, err)
		}
		if name == "" {
			name = body
		}
		return Rule{Name: name, re: re}, nil
	}
	if name == "" {
		name = body
	}
	return Rule{Name: name, contains: body}, nil
}

func isRuleName(s string) bool {
	for _, r := range s {
		if !(r == '-' || r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return false
		}
	}
	return true
}

// Rules builds the rule list: the defaults unless disabled, followed by the
// user specs.
func Rules(withDefaults bool, specs []string) ([]Rule, error) {
	var rules []Rule
	if withDefaults {
		rules = DefaultRules()
	}
	for _, s := range specs {
		r, err := ParseRule(s)
		if err != nil {
			return nil, err
		}
		rules = append(rules, r)
	}
	return rules, nil
}
