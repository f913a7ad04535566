package merge

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Additions is one batch of new strings for every locale, usually one
// screen's worth. The file form is YAML (or JSON, which YAML accepts):
//
//	name: add_item
//	policy: overwrite
//	locales:
//	  zh:
//	    basicInfo: 基础信息
//	  en:
//	    basicInfo: Basic Information
//
// Key order inside each locale is kept.
type Additions struct {
	Name string
	// Policy is empty when the file does not pin one.
	Policy  string
	Locales map[string][]Pair
	order   []string
}

// Languages returns the locales in file order.
func (a *Additions) Languages() []string { return append([]string(nil), a.order...) }

// For returns the pairs for lang.
func (a *Additions) For(lang string) []Pair { return a.Locales[lang] }

// Len returns the number of pairs across all locales.
func (a *Additions) Len() int {
	n := 0
	for _, p := range a.Locales {
		n += len(p)
	}
	return n
}

// LoadAdditions reads an additions file.
func LoadAdditions(path string) (*Additions, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	a, err := ParseAdditions(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return a, nil
}

// ParseAdditions decodes additions from YAML or JSON.
func ParseAdditions(data []byte) (*Additions, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing additions: %w", err)
	}
	a := &Additions{Locales: make(map[string][]Pair)}
	if len(doc.Content) == 0 {
		return a, nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("parsing additions: expected a mapping at the top level")
	}

	for i := 0; i+1 < len(root.Content); i += 2 {
		k, v := root.Content[i], root.Content[i+1]
		switch k.Value {
		case "name":
			a.Name = v.Value
		case "policy":
			if _, err := ParsePolicy(v.Value); err != nil {
				return nil, err
			}
			a.Policy = v.Value
		case "locales":
			if err := a.decodeLocales(v); err != nil {
				return nil, err
			}
		default:
			return nil, fmt.Errorf("line %d: unknown field %q", k.Line, k.Value)
		}
	}
	return a, nil
}

func (a *Additions) decodeLocales(n *yaml.Node) error {
	if n.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: locales must be a mapping", n.Line)
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		lang, body := n.Content[i].Value, n.Content[i+1]
		if body.Kind != yaml.MappingNode {
			return fmt.Errorf("line %d: locale %q must map keys to strings", body.Line, lang)
		}
		if _, dup := a.Locales[lang]; dup {
			return fmt.Errorf("line %d: locale %q listed twice", n.Content[i].Line, lang)
		}
		a.order = append(a.order, lang)
		seen := make(map[string]bool)
		pairs := []Pair{}
		for j := 0; j+1 < len(body.Content); j += 2 {
			kn, vn := body.Content[j], body.Content[j+1]
			if vn.Kind != yaml.ScalarNode {
				return fmt.Errorf("line %d: %s.%s must be a string", vn.Line, lang, kn.Value)
			}
			if seen[kn.Value] {
				return fmt.Errorf("line %d: %s.%s defined twice", kn.Line, lang, kn.Value)
			}
			seen[kn.Value] = true
			pairs = append(pairs, Pair{Key: kn.Value, Value: vn.Value})
		}
		a.Locales[lang] = pairs
	}
	return nil
}

// CheckParity returns the keys present for one of the two locales but not
// the other, sorted. Such keys leave the dictionaries with uneven coverage.
func CheckParity(a *Additions, src, tgt string) []string {
	in := func(lang string) map[string]bool {
		m := make(map[string]bool)
		for _, p := range a.For(lang) {
			m[p.Key] = true
		}
		return m
	}
	s, t := in(src), in(tgt)
	var out []string
	for k := range s {
		if !t[k] {
			out = append(out, k)
		}
	}
	for k := range t {
		if !s[k] {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}
