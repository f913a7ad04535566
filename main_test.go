package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"

	"github.com/minios-linux/arbkit/arbfile"
	"github.com/minios-linux/arbkit/config"
	"github.com/minios-linux/arbkit/extract"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	logger = newLogger(io.Discard, true)
	os.Exit(m.Run())
}

const homePage = `import 'package:flutter/material.dart';

// 取消
class Home extends StatelessWidget {
  Widget build(BuildContext context) {
    return Column(children: [Text('取消'), Text("保存"), Text('价格: $price'), Text('你好')]);
  }
}
`

func newProject(t *testing.T) *config.Project {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"pubspec.yaml":                         "name: demo\n",
		"lib/l10n/app_zh.arb":                  "{\n  \"@@locale\": \"zh\",\n  \"cancel\": \"取消\",\n  \"save\": \"保存\"\n}\n",
		"lib/l10n/app_en.arb":                  "{\n  \"@@locale\": \"en\",\n  \"cancel\": \"Cancel\"\n}\n",
		"lib/l10n/app_localizations_zh.dart":   "String get cancel => '取消';\n",
		"lib/pages/home.dart":                  homePage,
		"lib/main.dart":                        "void main() {}\n",
		"android/app/src/main/Strings.dart":    "const s = '取消';\n",
		"lib/pages/generated/home.g.dart":      "const s = '取消';\n",
		"lib/widgets/.keep":                    "",
		"lib/pages/readme.txt":                 "取消",
		"lib/pages/empty.dart":                 "",
		"lib/pages/comment_only.dart":          "/* '取消' */\n",
		"lib/pages/unrelated.dart":             "const a = 'hello';\n",
		"lib/pages/longer.dart":                "const a = '取消订单';\n",
		"lib/pages/dup.dart":                   "const a = \"保存\";\n",
		"lib/pages/nested/deep/settings.dart":  "const a = '你好';\n",
		"lib/pages/nested/deep/settings2.dart": "const a = '你好';\n",
	}
	for name, content := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(dir, config.ArbkitFileName), []byte("exclude: ['**/*.g.dart']\n"), 0644); err != nil {
		t.Fatal(err)
	}
	proj, err := config.Load(dir, "")
	if err != nil {
		t.Fatalf("config.Load: %v", err)
	}
	return proj
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestRunScan(t *testing.T) {
	proj := newProject(t)

	var out bytes.Buffer
	if err := runScan(&out, proj, proj.AbsSourceDirs(), ""); err != nil {
		t.Fatalf("runScan: %v", err)
	}
	got := out.String()
	for _, want := range []string{"--- lib/pages/home.dart ---", "  取消\n", "  保存\n", "  价格: $price\n", "--- lib/pages/longer.dart ---"} {
		if !strings.Contains(got, want) {
			t.Fatalf("scan output lacks %q:\n%s", want, got)
		}
	}
	for _, unwanted := range []string{"app_localizations_zh.dart", "home.g.dart", "comment_only.dart", "unrelated.dart"} {
		if strings.Contains(got, unwanted) {
			t.Fatalf("scan output should not mention %s:\n%s", unwanted, got)
		}
	}
}

func TestRunExtract(t *testing.T) {
	proj := newProject(t)

	if err := runExtract(proj, extractArgs{keep: true}); err != nil {
		t.Fatalf("runExtract: %v", err)
	}
	dict, err := extract.ReadDictionary(proj.AbsOutput(), "en")
	if err != nil {
		t.Fatal(err)
	}
	if len(dict) != 4 {
		t.Fatalf("dictionary has %d rows, want 4: %v", len(dict), dict)
	}
	if _, ok := dict["价格: $price"]; ok {
		t.Fatal("interpolated literal was extracted")
	}
	if e := dict["取消"]; e.Key != "cancel" || e.Translation != "Cancel" {
		t.Fatalf("取消 row = %#v, want pre-filled from ARB", e)
	}
	if e := dict["保存"]; e.Key != "save" || e.Translation != "" {
		t.Fatalf("保存 row = %#v", e)
	}

	// Hand edits survive a second run.
	edited := strings.Replace(readFile(t, proj.AbsOutput()), `"key": "",`, `"key": "orderCancel",`, 1)
	if err := os.WriteFile(proj.AbsOutput(), []byte(edited), 0644); err != nil {
		t.Fatal(err)
	}
	if err := runExtract(proj, extractArgs{keep: true}); err != nil {
		t.Fatalf("second runExtract: %v", err)
	}
	if got := readFile(t, proj.AbsOutput()); got != edited {
		t.Fatalf("second run changed hand edits:\n%s\nwant\n%s", got, edited)
	}

	if err := runExtract(proj, extractArgs{keep: false, suggestKeys: true, output: "out/keys.json"}); err != nil {
		t.Fatalf("runExtract(suggest): %v", err)
	}
	suggested, err := extract.ReadDictionary(filepath.Join(proj.Root, "out", "keys.json"), "en")
	if err != nil {
		t.Fatal(err)
	}
	if suggested["你好"].Key != "niHao" {
		t.Fatalf("suggested key for 你好 = %q", suggested["你好"].Key)
	}
}

func TestRunRewrite(t *testing.T) {
	proj := newProject(t)
	home := filepath.Join(proj.Root, "lib", "pages", "home.dart")
	generated := filepath.Join(proj.Root, "lib", "l10n", "app_localizations_zh.dart")

	if err := runRewrite(proj, nil, rewriteArgs{dryRun: true}); err != nil {
		t.Fatalf("runRewrite(dry run): %v", err)
	}
	if readFile(t, home) != homePage {
		t.Fatal("dry run modified home.dart")
	}

	if err := runRewrite(proj, nil, rewriteArgs{}); err != nil {
		t.Fatalf("runRewrite: %v", err)
	}
	got := readFile(t, home)
	for _, want := range []string{
		"import 'package:flutter/material.dart';\nimport 'package:demo/l10n/app_localizations.dart';\n",
		"\n// 取消\n",
		"Text(AppLocalizations.of(context)?.cancel ?? '取消')",
		`Text(AppLocalizations.of(context)?.save ?? "保存")`,
		"Text('价格: $price')",
		"Text('你好')",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("home.dart lacks %q:\n%s", want, got)
		}
	}
	if readFile(t, generated) != "String get cancel => '取消';\n" {
		t.Fatal("generated localization file was rewritten")
	}
	if longer := readFile(t, filepath.Join(proj.Root, "lib", "pages", "longer.dart")); longer != "const a = '取消订单';\n" {
		t.Fatalf("longer literal was rewritten: %q", longer)
	}
	if dup := readFile(t, filepath.Join(proj.Root, "lib", "pages", "dup.dart")); !strings.HasPrefix(dup, "import 'package:demo/l10n/app_localizations.dart';\n") {
		t.Fatalf("import missing at top of a file without imports: %q", dup)
	}

	part := filepath.Join(proj.Root, "lib", "pages", "home_title.dart")
	partSrc := "part of 'home.dart';\n\nWidget title() => Text('取消');\n"
	if err := os.WriteFile(part, []byte(partSrc), 0644); err != nil {
		t.Fatal(err)
	}
	if err := runRewrite(proj, []string{part}, rewriteArgs{}); err != nil {
		t.Fatalf("runRewrite(part file): %v", err)
	}
	if got := readFile(t, part); got != "part of 'home.dart';\n\nWidget title() => Text(AppLocalizations.of(context)?.cancel ?? '取消');\n" {
		t.Fatalf("part file rewritten to %q", got)
	}

	if err := runRewrite(proj, nil, rewriteArgs{}); err != nil {
		t.Fatalf("second runRewrite: %v", err)
	}
	if again := readFile(t, home); again != got {
		t.Fatalf("second run changed home.dart:\n%s", again)
	}

	if err := runRewrite(proj, []string{filepath.Join(proj.Root, "missing.dart")}, rewriteArgs{}); err != nil {
		t.Fatalf("missing explicit file should be skipped, got %v", err)
	}
	if err := runRewrite(proj, nil, rewriteArgs{template: "tr()"}); err == nil {
		t.Fatal("runRewrite accepted a template without {{key}}")
	}
}

func TestRunMerge(t *testing.T) {
	proj := newProject(t)
	adds := filepath.Join(proj.Root, "share.yaml")
	content := "name: share page\n" +
		"policy: add-if-absent\n" +
		"locales:\n" +
		"  zh:\n" +
		"    cancel: 取消了\n" +
		"    share: 分享\n" +
		"  en:\n" +
		"    share: Share\n" +
		"  ja:\n" +
		"    share: 共有\n"
	if err := os.WriteFile(adds, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	if err := runMerge(proj, []string{adds}, "", false); err != nil {
		t.Fatalf("runMerge: %v", err)
	}
	zh, err := arbfile.ParseFile(filepath.Join(proj.Root, "lib", "l10n", "app_zh.arb"))
	if err != nil {
		t.Fatal(err)
	}
	if v, _ := zh.Get("cancel"); v != "取消" {
		t.Fatalf("add-if-absent overwrote cancel with %q", v)
	}
	if v, _ := zh.Get("share"); v != "分享" {
		t.Fatalf("zh share = %q", v)
	}
	en, err := arbfile.ParseFile(filepath.Join(proj.Root, "lib", "l10n", "app_en.arb"))
	if err != nil {
		t.Fatal(err)
	}
	if keys := strings.Join(en.Keys(), ","); keys != "cancel,share" {
		t.Fatalf("en keys = %s", keys)
	}
	if fileExists(filepath.Join(proj.Root, "lib", "l10n", "app_ja.arb")) {
		t.Fatal("unmanaged locale was written")
	}

	if err := runMerge(proj, []string{adds}, "overwrite", false); err != nil {
		t.Fatalf("runMerge(overwrite): %v", err)
	}
	zh, _ = arbfile.ParseFile(filepath.Join(proj.Root, "lib", "l10n", "app_zh.arb"))
	if v, _ := zh.Get("cancel"); v != "取消了" {
		t.Fatalf("overwrite left cancel = %q", v)
	}

	noPolicy := filepath.Join(proj.Root, "nopolicy.yaml")
	if err := os.WriteFile(noPolicy, []byte("locales:\n  zh:\n    x: 一\n"), 0644); err != nil {
		t.Fatal(err)
	}
	before := readFile(t, filepath.Join(proj.Root, "lib", "l10n", "app_zh.arb"))
	if err := runMerge(proj, []string{noPolicy}, "", false); err == nil || !strings.Contains(err.Error(), "policy") {
		t.Fatalf("runMerge without policy = %v, want policy error", err)
	}
	if after := readFile(t, filepath.Join(proj.Root, "lib", "l10n", "app_zh.arb")); after != before {
		t.Fatal("failed merge modified the ARB file")
	}
}

func TestRunMergeMalformedARB(t *testing.T) {
	proj := newProject(t)
	if err := os.WriteFile(filepath.Join(proj.Root, "lib", "l10n", "app_en.arb"), []byte("{\"cancel\": "), 0644); err != nil {
		t.Fatal(err)
	}
	adds := filepath.Join(proj.Root, "a.yaml")
	if err := os.WriteFile(adds, []byte("policy: overwrite\nlocales:\n  zh:\n    x: 一\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := runMerge(proj, []string{adds}, "", false); err == nil {
		t.Fatal("runMerge accepted a malformed ARB file")
	}
}

func TestRunStatus(t *testing.T) {
	proj := newProject(t)
	zh := filepath.Join(proj.Root, "lib", "l10n", "app_zh.arb")
	if err := os.WriteFile(zh, []byte(`{"@@locale": "zh", "cancel": "取消", "save": "保存", "dismiss": "取消"}`), 0644); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	if err := runStatus(&out, proj); err != nil {
		t.Fatalf("runStatus: %v", err)
	}
	got := out.String()
	for _, want := range []string{
		"Name:      demo",
		"Locales:   zh (中文) -> en (English)",
		"en coverage of zh: 33%",
		"Missing in en (2): dismiss, save",
		`"取消": cancel, dismiss (rewrite uses dismiss)`,
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("status output lacks %q:\n%s", want, got)
		}
	}
}

func TestRunStatusEmptySource(t *testing.T) {
	proj := newProject(t)
	l10n := filepath.Join(proj.Root, "lib", "l10n")
	if err := os.WriteFile(filepath.Join(l10n, "app_zh.arb"), []byte(`{"@@locale": "zh", "cancel": "取消", "todo": ""}`), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(l10n, "app_en.arb"), []byte(`{"@@locale": "en", "cancel": "Cancel", "todo": "Todo"}`), 0644); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	if err := runStatus(&out, proj); err != nil {
		t.Fatalf("runStatus: %v", err)
	}
	got := out.String()
	if !strings.Contains(got, "Empty in zh (1): todo") {
		t.Fatalf("status output lacks empty source keys:\n%s", got)
	}
	if strings.Contains(got, "Dictionaries are complete.") {
		t.Fatalf("status reports complete with an empty source value:\n%s", got)
	}
}

func TestProgressBar(t *testing.T) {
	tests := []struct {
		name    string
		percent float64
		width   int
		want    string
	}{
		{"clamps below zero", -10, 4, "░░░░   0%"},
		{"mid range", 50, 4, "██░░  50%"},
		{"clamps above hundred", 120, 4, "████ 100%"},
	}

	for _, tc := range tests {
		if got := progressBar(tc.percent, tc.width); got != tc.want {
			t.Fatalf("%s: progressBar() = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestRelPath(t *testing.T) {
	root := t.TempDir()
	if got := relPath(root, filepath.Join(root, "lib", "a.dart")); got != "lib/a.dart" {
		t.Fatalf("relPath(inside) = %q", got)
	}
	outside := filepath.Join(filepath.Dir(root), "other.dart")
	if got := relPath(root, outside); got != outside {
		t.Fatalf("relPath(outside) = %q, want %q", got, outside)
	}
}

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	filePath := filepath.Join(dir, "file.txt")
	if err := os.WriteFile(filePath, []byte("ok"), 0644); err != nil {
		t.Fatalf("os.WriteFile() error: %v", err)
	}

	if !fileExists(filePath) {
		t.Fatalf("fileExists(file) = false, want true")
	}
	if fileExists(dir) {
		t.Fatalf("fileExists(directory) = true, want false")
	}
	if fileExists(filepath.Join(dir, "missing.txt")) {
		t.Fatalf("fileExists(missing) = true, want false")
	}
}
