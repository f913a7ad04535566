// .arbkit.yaml configuration file support.
//
// Settings are layered: auto-detected defaults, then .arbkit.yaml, then
// ARBKIT_* variables from the environment or a .env file in the project
// root. The process environment wins over .env.

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/minios-linux/arbkit/scan"
)

// ---------------------------------------------------------------------------
// YAML schema
// ---------------------------------------------------------------------------

// ArbkitFile is the top-level .arbkit.yaml structure. Empty fields keep
// the detected value.
type ArbkitFile struct {
	SourceDirs   []string    `yaml:"source_dirs,omitempty"`
	Extensions   []string    `yaml:"extensions,omitempty"`
	Exclude      []string    `yaml:"exclude,omitempty"`
	L10nDir      string      `yaml:"l10n_dir,omitempty"`
	ARBPattern   string      `yaml:"arb_pattern,omitempty"`
	SourceLocale string      `yaml:"source_locale,omitempty"`
	TargetLocale string      `yaml:"target_locale,omitempty"`
	Script       string      `yaml:"script,omitempty"`
	Extract      ExtractFile `yaml:"extract,omitempty"`
	Rewrite      RewriteFile `yaml:"rewrite,omitempty"`
}

// ExtractFile is the extract: section.
type ExtractFile struct {
	Output          string   `yaml:"output,omitempty"`
	Dirs            []string `yaml:"dirs,omitempty"`
	ExcludeLiterals []string `yaml:"exclude_literals,omitempty"`
}

// RewriteFile is the rewrite: section.
type RewriteFile struct {
	Files    []string `yaml:"files,omitempty"`
	Template string   `yaml:"template,omitempty"`
	Import   string   `yaml:"import,omitempty"`
}

// ---------------------------------------------------------------------------
// Loading
// ---------------------------------------------------------------------------

// ArbkitFileName is the default config file name.
const ArbkitFileName = ".arbkit.yaml"

// Environment overrides.
const (
	EnvSourceLocale = "ARBKIT_SOURCE_LOCALE"
	EnvTargetLocale = "ARBKIT_TARGET_LOCALE"
	EnvL10nDir      = "ARBKIT_L10N_DIR"
)

// LoadArbkitFile loads .arbkit.yaml from path. Returns nil if the file
// does not exist. Unknown keys are errors.
func LoadArbkitFile(path string) (*ArbkitFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var af ArbkitFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&af); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &af, nil
}

// Load detects the project at rootDir and applies the config file and
// environment overrides. configPath may be empty to use
// rootDir/.arbkit.yaml; an explicit path must exist.
func Load(rootDir, configPath string) (*Project, error) {
	p := Detect(rootDir)

	explicit := configPath != ""
	if !explicit {
		configPath = filepath.Join(p.Root, ArbkitFileName)
	}
	af, err := LoadArbkitFile(configPath)
	if err != nil {
		return nil, err
	}
	if af == nil && explicit {
		return nil, fmt.Errorf("config file %s does not exist", configPath)
	}
	if af != nil {
		p.ConfigFile = configPath
		p.apply(af)
	}

	env, err := readDotEnv(filepath.Join(p.Root, ".env"))
	if err != nil {
		return nil, err
	}
	p.applyEnv(env)

	if err := p.Validate(); err != nil {
		if p.ConfigFile != "" {
			return nil, fmt.Errorf("%s: %w", p.ConfigFile, err)
		}
		return nil, err
	}
	return p, nil
}

func (p *Project) apply(af *ArbkitFile) {
	setList(&p.SourceDirs, af.SourceDirs)
	setList(&p.Extensions, af.Extensions)
	setList(&p.Exclude, af.Exclude)
	setString(&p.L10nDir, af.L10nDir)
	setString(&p.ARBPattern, af.ARBPattern)
	setString(&p.SourceLocale, af.SourceLocale)
	setString(&p.TargetLocale, af.TargetLocale)
	setString(&p.Script, af.Script)

	setString(&p.Extract.Output, af.Extract.Output)
	setList(&p.Extract.Dirs, af.Extract.Dirs)
	setList(&p.Extract.ExcludeLiterals, af.Extract.ExcludeLiterals)

	setList(&p.Rewrite.Files, af.Rewrite.Files)
	setString(&p.Rewrite.Template, af.Rewrite.Template)
	setString(&p.Rewrite.Import, af.Rewrite.Import)
}

// readDotEnv returns the variables of a .env file; a missing file is
// not an error.
func readDotEnv(path string) (map[string]string, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	env, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return env, nil
}

func (p *Project) applyEnv(dotenv map[string]string) {
	lookup := func(key string) string {
		if v, ok := os.LookupEnv(key); ok {
			return strings.TrimSpace(v)
		}
		return strings.TrimSpace(dotenv[key])
	}
	setString(&p.SourceLocale, lookup(EnvSourceLocale))
	setString(&p.TargetLocale, lookup(EnvTargetLocale))
	setString(&p.L10nDir, lookup(EnvL10nDir))
}

// Validate checks the resolved settings.
func (p *Project) Validate() error {
	if !isLangCode(p.SourceLocale) {
		return fmt.Errorf("invalid source locale %q", p.SourceLocale)
	}
	if !isLangCode(p.TargetLocale) {
		return fmt.Errorf("invalid target locale %q", p.TargetLocale)
	}
	if p.SourceLocale == p.TargetLocale {
		return fmt.Errorf("source and target locale are both %q", p.SourceLocale)
	}
	if strings.Count(p.ARBPattern, "{lang}") != 1 {
		return fmt.Errorf("arb_pattern %q must contain {lang} exactly once", p.ARBPattern)
	}
	if len(p.SourceDirs) == 0 {
		return errors.New("no source_dirs configured")
	}
	if _, err := scan.ParseScript(p.Script); err != nil {
		return fmt.Errorf("script: %w", err)
	}
	if p.Rewrite.Template != "" && !strings.Contains(p.Rewrite.Template, "{{key}}") {
		return fmt.Errorf("rewrite.template %q has no {{key}} placeholder", p.Rewrite.Template)
	}
	return nil
}

func setString(dst *string, v string) {
	if v = strings.TrimSpace(v); v != "" {
		*dst = v
	}
}

func setList(dst *[]string, v []string) {
	if len(v) > 0 {
		*dst = v
	}
}
