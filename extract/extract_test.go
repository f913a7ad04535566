package extract

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/minios-linux/arbkit/scan"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
			t.Fatalf("mkdir %s: %v", name, err)
		}
		if err := os.WriteFile(p, []byte(content), 0644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
}

func TestFindSources(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"lib/main.dart":                 "",
		"lib/pages/home.dart":           "",
		"lib/pages/home.g.dart":         "",
		"lib/widgets/card.DART":         "",
		"lib/l10n/app_zh.arb":           "{}",
		"lib/generated/intl.dart":       "",
		"lib/.dart_tool/cache.dart":     "",
		"lib/pages/build/artifact.dart": "",
		"test/widget_test.dart":         "",
	})

	ex, err := NewMatcher([]string{"**/*.g.dart", "lib/generated/**"})
	if err != nil {
		t.Fatalf("NewMatcher: %v", err)
	}

	lib := filepath.Join(root, "lib")
	got, err := FindSources(root, []string{lib, lib, filepath.Join(root, "missing")}, []string{"dart"}, ex)
	if err != nil {
		t.Fatalf("FindSources: %v", err)
	}
	want := []string{
		filepath.Join(root, "lib", "main.dart"),
		filepath.Join(root, "lib", "pages", "home.dart"),
		filepath.Join(root, "lib", "widgets", "card.DART"),
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("FindSources() = %#v, want %#v", got, want)
	}
}

func TestMatcher(t *testing.T) {
	t.Parallel()

	m, err := NewMatcher([]string{"**/*.freezed.dart", "lib/l10n/*", " "})
	if err != nil {
		t.Fatalf("NewMatcher: %v", err)
	}
	tests := map[string]bool{
		"lib/models/user.freezed.dart":    true,
		"user.freezed.dart":               false,
		"lib/l10n/app_localizations.dart": true,
		"lib/l10n/sub/x.dart":             false,
		"lib/main.dart":                   false,
	}
	for path, want := range tests {
		if got := m.Match(path); got != want {
			t.Fatalf("Match(%q) = %v, want %v", path, got, want)
		}
	}
	if len(m.Patterns()) != 2 {
		t.Fatalf("Patterns() = %v, blank pattern should be ignored", m.Patterns())
	}

	var nilMatcher *Matcher
	if nilMatcher.Match("anything") {
		t.Fatal("nil matcher should match nothing")
	}
}

func TestDescribeFiles(t *testing.T) {
	t.Parallel()

	got := DescribeFiles([]string{"a.dart", "b.dart", "c.kt"})
	if got != "2 .dart, 1 .kt" {
		t.Fatalf("DescribeFiles() = %q", got)
	}
}

func TestRules(t *testing.T) {
	t.Parallel()

	rules, err := Rules(true, []string{"re:^[A-Z_]+$", "route=/pages/"})
	if err != nil {
		t.Fatalf("Rules: %v", err)
	}
	if len(rules) != 6 {
		t.Fatalf("len(rules) = %d, want 6", len(rules))
	}

	matchedBy := func(lit string) string {
		for _, r := range rules {
			if r.Match(lit) {
				return r.Name
			}
		}
		return ""
	}

	tests := []struct {
		lit  string
		rule string
	}{
		{lit: "价格: $price", rule: "interpolation"},
		{lit: "assets/图标.png", rule: "asset-path"},
		{lit: `第一行\n第二行`, rule: "newline-escape"},
		{lit: `制表\t符`, rule: "backslash"},
		{lit: "OK_CANCEL", rule: "re:^[A-Z_]+$"},
		{lit: "/pages/首页", rule: "route"},
		{lit: "保存修改", rule: ""},
	}
	for _, tc := range tests {
		if got := matchedBy(tc.lit); got != tc.rule {
			t.Fatalf("rule for %q = %q, want %q", tc.lit, got, tc.rule)
		}
	}

	if r, _ := ParseRule("route=/pages/"); r.String() != "/pages/" {
		t.Fatalf("String() = %q", r.String())
	}

	none, err := Rules(false, nil)
	if err != nil || len(none) != 0 {
		t.Fatalf("Rules(false, nil) = %v, %v", none, err)
	}

	if _, err := ParseRule("re:("); err == nil {
		t.Fatal("ParseRule accepted a bad regexp")
	}
	if _, err := ParseRule("name="); err == nil {
		t.Fatal("ParseRule accepted an empty body")
	}
	if _, err := ParseRule("="); err == nil {
		t.Fatal("ParseRule accepted a bare separator")
	}
}

func TestParseRuleEquals(t *testing.T) {
	t.Parallel()

	tests := []struct {
		spec    string
		name    string
		matches string
		misses  string
	}{
		{spec: "lang=zh", name: "lang", matches: "zh_CN", misses: "lang=en"},
		{spec: "=lang=zh", name: "lang=zh", matches: "?lang=zh", misses: "zh"},
		{spec: "query=lang=zh", name: "query", matches: "?lang=zh", misses: "zh"},
		{spec: "a b=c", name: "a b=c", matches: "a b=c", misses: "c"},
	}
	for _, tc := range tests {
		r, err := ParseRule(tc.spec)
		if err != nil {
			t.Fatalf("ParseRule(%q): %v", tc.spec, err)
		}
		if r.Name != tc.name || !r.Match(tc.matches) || r.Match(tc.misses) {
			t.Fatalf("ParseRule(%q) = %+v; want name %q matching %q but not %q", tc.spec, r, tc.name, tc.matches, tc.misses)
		}
		if back, err := ParseRule(r.String()); err != nil || !back.Match(tc.matches) || back.Match(tc.misses) {
			t.Fatalf("ParseRule(%q.String() = %q) does not round-trip", tc.spec, r.String())
		}
	}
}

func TestSinkDeduplicatesAndExcludes(t *testing.T) {
	t.Parallel()

	s := NewSink(DefaultRules())
	src := strings.Join([]string{
		`Text("保存修改"),`,
		`Text('保存修改'),`,
		`Text("保存修改 "),`,
		`Text("价格: $price"),`,
		`Image.asset('assets/默认.png'),`,
		`// Text("注释")`,
		`print("debug");`,
	}, "\n")

	kept, dropped := s.AddSource("lib/a.dart", src, scan.DefaultScript())
	if kept != 3 || dropped != 2 {
		t.Fatalf("AddSource kept %d dropped %d, want 3/2", kept, dropped)
	}
	s.AddSource("lib/b.dart", `Text('保存修改')`, scan.DefaultScript())

	cands := s.Candidates()
	if s.Len() != 2 || len(cands) != 2 {
		t.Fatalf("Candidates() = %#v, want 2 distinct", cands)
	}
	if cands[0].Literal != "保存修改" || cands[0].Count != 3 {
		t.Fatalf("first candidate = %#v", cands[0])
	}
	if !reflect.DeepEqual(cands[0].Files, []string{"lib/a.dart", "lib/b.dart"}) {
		t.Fatalf("Files = %v", cands[0].Files)
	}
	if cands[1].Literal != "保存修改 " {
		t.Fatalf("whitespace variant should be its own entry, got %q", cands[1].Literal)
	}

	if got := s.Excluded(); !reflect.DeepEqual(got, map[string]int{"interpolation": 1, "asset-path": 1}) {
		t.Fatalf("Excluded() = %v", got)
	}
}

func TestSinkAddFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "home.dart")
	if err := os.WriteFile(path, []byte("Text('取消'); Text('$n 项');\n"), 0644); err != nil {
		t.Fatal(err)
	}

	s := NewSink(DefaultRules())
	kept, dropped, err := s.AddFile(path, "lib/home.dart", scan.DefaultScript())
	if err != nil || kept != 1 || dropped != 1 {
		t.Fatalf("AddFile = %d, %d, %v; want 1, 1, nil", kept, dropped, err)
	}
	if _, _, err := s.AddFile(path, "", scan.DefaultScript()); err != nil {
		t.Fatal(err)
	}
	cands := s.Candidates()
	if len(cands) != 1 || !reflect.DeepEqual(cands[0].Files, []string{"lib/home.dart", path}) {
		t.Fatalf("Candidates() = %+v", cands)
	}

	if _, _, err := s.AddFile(filepath.Join(dir, "nope.dart"), "", scan.DefaultScript()); err == nil {
		t.Fatal("AddFile on a missing file succeeded")
	}
}

func TestReport(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"a.dart": "Text('你好'); Text(\"你好\"); Text('价格: $p'); /* '注释' */",
		"b.dart": "print('hello');",
	})
	a, b := filepath.Join(root, "a.dart"), filepath.Join(root, "b.dart")
	missing := filepath.Join(root, "missing.dart")

	reports, errs := Report([]string{a, b, missing}, scan.DefaultScript())
	if len(errs) != 1 {
		t.Fatalf("errs = %v, want one read error", errs)
	}
	want := []FileReport{{Path: a, Literals: []string{"你好", "价格: $p"}}}
	if !reflect.DeepEqual(reports, want) {
		t.Fatalf("Report() = %#v, want %#v", reports, want)
	}
}
