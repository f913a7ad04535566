// Package config implements auto-detection of Flutter project settings
// from pubspec.yaml and l10n.yaml.
package config

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Defaults for a Flutter app written with Chinese UI strings.
const (
	DefaultSourceLocale = "zh"
	DefaultTargetLocale = "en"
	DefaultL10nDir      = "lib/l10n"
	DefaultARBPattern   = "app_{lang}.arb"
	DefaultScript       = "CJK"
	DefaultOutput       = "chinese_strings_static.json"
	DefaultOutputClass  = "AppLocalizations"
	DefaultOutputFile   = "app_localizations.dart"
)

// Project holds the resolved settings for one run. Paths are relative
// to Root unless noted otherwise.
type Project struct {
	// Root is the absolute project directory.
	Root string
	// Name is the Dart package name from pubspec.yaml.
	Name string
	// ConfigFile is the .arbkit.yaml that was applied, if any.
	ConfigFile string

	// SourceDirs are scanned for Dart sources.
	SourceDirs []string
	// Extensions select source files (".dart").
	Extensions []string
	// Exclude holds path globs matched against root-relative paths.
	Exclude []string

	// L10nDir contains the ARB files.
	L10nDir string
	// ARBPattern names ARB files; {lang} is replaced by the locale.
	ARBPattern   string
	SourceLocale string
	TargetLocale string
	// Script selects which literals are candidates ("CJK", "Han", ranges).
	Script string

	Extract ExtractSettings
	Rewrite RewriteSettings
}

// ExtractSettings configures the extract command.
type ExtractSettings struct {
	// Output is the candidate dictionary path.
	Output string
	// Dirs narrows extraction to these directories. Empty means SourceDirs.
	Dirs []string
	// ExcludeLiterals are extra exclusion rules ("name=substring", "re:...").
	ExcludeLiterals []string
}

// RewriteSettings configures the rewrite command.
type RewriteSettings struct {
	// Files lists the documents to rewrite. Empty means all sources.
	Files    []string
	Template string
	// Import is the declaration inserted into rewritten documents.
	Import string
}

// pubspec is the part of pubspec.yaml arbkit reads.
type pubspec struct {
	Name string `yaml:"name"`
}

// l10nConfig mirrors the flutter gen-l10n options in l10n.yaml.
type l10nConfig struct {
	ArbDir                 string `yaml:"arb-dir"`
	TemplateArbFile        string `yaml:"template-arb-file"`
	OutputDir              string `yaml:"output-dir"`
	OutputLocalizationFile string `yaml:"output-localization-file"`
	OutputClass            string `yaml:"output-class"`
}

// Detect auto-detects project settings from the project directory. It
// never fails: unreadable or missing files leave the defaults in place.
func Detect(rootDir string) *Project {
	absRoot, err := filepath.Abs(rootDir)
	if err != nil {
		absRoot = rootDir
	}

	p := &Project{
		Root:         absRoot,
		SourceDirs:   []string{"lib"},
		Extensions:   []string{".dart"},
		L10nDir:      DefaultL10nDir,
		ARBPattern:   DefaultARBPattern,
		SourceLocale: DefaultSourceLocale,
		TargetLocale: DefaultTargetLocale,
		Script:       DefaultScript,
		Extract: ExtractSettings{
			Output: DefaultOutput,
			Dirs:   []string{"lib/pages", "lib/widgets"},
		},
	}

	if name, err := parsePubspec(filepath.Join(absRoot, "pubspec.yaml")); err == nil {
		p.Name = name
	}
	if p.Name == "" {
		p.Name = filepath.Base(absRoot)
	}

	l10n, _ := parseL10nConfig(filepath.Join(absRoot, "l10n.yaml"))
	p.applyL10n(l10n)
	return p
}

func (p *Project) applyL10n(c l10nConfig) {
	if c.ArbDir != "" {
		p.L10nDir = filepath.ToSlash(filepath.Clean(c.ArbDir))
	}
	if pat := patternFromTemplate(c.TemplateArbFile); pat != "" {
		p.ARBPattern = pat
	}

	class := c.OutputClass
	if class == "" {
		class = DefaultOutputClass
	}
	p.Rewrite.Template = class + ".of(context)?.{{key}} ?? {{literal}}"

	outDir := c.OutputDir
	if outDir == "" {
		outDir = p.L10nDir
	}
	outFile := c.OutputLocalizationFile
	if outFile == "" {
		outFile = DefaultOutputFile
	}
	p.Rewrite.Import = importFor(p.Name, outDir, outFile)
}

// importFor builds the package import for a generated localization file
// under lib/. Files outside lib/ cannot be imported by package URI.
func importFor(pkg, dir, file string) string {
	dir = filepath.ToSlash(filepath.Clean(dir))
	rest, ok := strings.CutPrefix(dir, "lib")
	if !ok || (rest != "" && rest[0] != '/') {
		return ""
	}
	rest = strings.TrimPrefix(rest, "/")
	uri := "package:" + pkg + "/"
	if rest != "" {
		uri += rest + "/"
	}
	return "import '" + uri + file + "';"
}

// patternFromTemplate turns "app_zh.arb" into "app_{lang}.arb".
func patternFromTemplate(name string) string {
	base, ok := strings.CutSuffix(filepath.Base(name), ".arb")
	if !ok {
		return ""
	}
	// The locale may itself contain one underscore (zh_CN).
	for i, n := len(base), 0; n < 2; n++ {
		i = strings.LastIndexByte(base[:i], '_')
		if i < 0 {
			return ""
		}
		if isLangCode(base[i+1:]) {
			return base[:i+1] + "{lang}.arb"
		}
	}
	return ""
}

func parsePubspec(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	var ps pubspec
	if err := yaml.Unmarshal(data, &ps); err != nil {
		return "", err
	}
	return strings.TrimSpace(ps.Name), nil
}

func parseL10nConfig(path string) (l10nConfig, error) {
	var c l10nConfig
	data, err := os.ReadFile(path)
	if err != nil {
		return c, err
	}
	err = yaml.Unmarshal(data, &c)
	return c, err
}

// isLangCode accepts "zh", "en", "zh_CN" and "zh_Hant".
func isLangCode(s string) bool {
	lang, region, hasRegion := strings.Cut(s, "_")
	if len(lang) != 2 && len(lang) != 3 {
		return false
	}
	for _, r := range lang {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	if !hasRegion {
		return true
	}
	if len(region) < 2 {
		return false
	}
	for _, r := range region {
		if !(r >= 'A' && r <= 'Z' || r >= 'a' && r <= 'z' || r >= '0' && r <= '9') {
			return false
		}
	}
	return true
}

// Abs resolves a project-relative path.
func (p *Project) Abs(rel string) string {
	if filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(p.Root, filepath.FromSlash(rel))
}

func (p *Project) absAll(rels []string) []string {
	out := make([]string, len(rels))
	for i, r := range rels {
		out[i] = p.Abs(r)
	}
	return out
}

// AbsL10nDir returns the absolute ARB directory.
func (p *Project) AbsL10nDir() string { return p.Abs(p.L10nDir) }

// AbsSourceDirs returns the absolute source directories.
func (p *Project) AbsSourceDirs() []string { return p.absAll(p.SourceDirs) }

// AbsExtractDirs returns the directories extract scans.
func (p *Project) AbsExtractDirs() []string {
	if len(p.Extract.Dirs) == 0 {
		return p.AbsSourceDirs()
	}
	return p.absAll(p.Extract.Dirs)
}

// AbsOutput returns the absolute candidate dictionary path.
func (p *Project) AbsOutput() string { return p.Abs(p.Extract.Output) }

// AbsRewriteFiles returns the absolute rewrite targets.
func (p *Project) AbsRewriteFiles() []string { return p.absAll(p.Rewrite.Files) }

// ARBLocales lists the locales that have an ARB file in the l10n
// directory, sorted.
func (p *Project) ARBLocales() []string {
	prefix, suffix, ok := strings.Cut(p.ARBPattern, "{lang}")
	if !ok {
		return nil
	}
	entries, err := os.ReadDir(p.AbsL10nDir())
	if err != nil {
		return nil
	}
	var langs []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, suffix) {
			continue
		}
		if len(name) <= len(prefix)+len(suffix) {
			continue
		}
		if lang := name[len(prefix) : len(name)-len(suffix)]; isLangCode(lang) {
			langs = append(langs, lang)
		}
	}
	sort.Strings(langs)
	return langs
}
