// arbkit: localization helper for Flutter apps whose UI strings were
// written in Chinese. Scans Dart sources, extracts candidate strings,
// rewrites literals into AppLocalizations lookups, and merges additions
// into the ARB files.
package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/minios-linux/arbkit/catalog"
	"github.com/minios-linux/arbkit/config"
	"github.com/minios-linux/arbkit/extract"
	"github.com/minios-linux/arbkit/i18n"
	"github.com/minios-linux/arbkit/langmeta"
	"github.com/minios-linux/arbkit/merge"
	"github.com/minios-linux/arbkit/rewrite"
	"github.com/minios-linux/arbkit/scan"
)

// Version information (set via -ldflags during build)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// ---------------------------------------------------------------------------
// Logging
// ---------------------------------------------------------------------------

var logger = newLogger(os.Stderr, color.NoColor)

func newLogger(w io.Writer, noColor bool) zerolog.Logger {
	cw := zerolog.ConsoleWriter{
		Out:          w,
		NoColor:      noColor,
		PartsExclude: []string{zerolog.TimestampFieldName},
	}
	return zerolog.New(cw).Level(zerolog.InfoLevel)
}

func setLogLevel(verbose, quiet bool) {
	switch {
	case verbose:
		logger = logger.Level(zerolog.DebugLevel)
	case quiet:
		logger = logger.Level(zerolog.WarnLevel)
	default:
		logger = logger.Level(zerolog.InfoLevel)
	}
}

func logDebug(format string, args ...any) {
	logger.Debug().Msgf(format, args...)
}

func logInfo(format string, args ...any) {
	logger.Info().Msgf(format, args...)
}

func logSuccess(format string, args ...any) {
	logger.Info().Str("status", "ok").Msgf(format, args...)
}

func logWarning(format string, args ...any) {
	logger.Warn().Msgf(format, args...)
}

func logError(format string, args ...any) {
	logger.Error().Msgf(format, args...)
}

// ---------------------------------------------------------------------------
// Global flags
// ---------------------------------------------------------------------------

var (
	rootDir    string
	configPath string
	verbose    bool
	quiet      bool
)

// errFailed is returned after per-file failures were already reported.
var errFailed = errors.New("some files could not be processed")

// ---------------------------------------------------------------------------
// Root command
// ---------------------------------------------------------------------------

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "arbkit",
		Short: i18n.T("Localization helper for Flutter ARB projects"),
		Long: `arbkit: localization helper for Flutter apps with Chinese UI strings.

Finds quoted Chinese literals in Dart sources, collects them into a
candidate dictionary, replaces them with AppLocalizations lookups that
fall back to the original text, and merges new keys into app_zh.arb and
app_en.arb.

Commands:
  scan      Report Chinese literals per file
  extract   Write the candidate dictionary (chinese_strings_static.json)
  rewrite   Replace literals with localization lookups
  merge     Merge an additions file into the ARB files
  status    Show ARB coverage and duplicate source strings

Settings are auto-detected from pubspec.yaml and l10n.yaml and can be
overridden in .arbkit.yaml or with ARBKIT_* environment variables.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setLogLevel(verbose, quiet)
		},
	}

	root.PersistentFlags().StringVar(&rootDir, "root", ".", i18n.T("Project root directory"))
	root.PersistentFlags().StringVar(&configPath, "config", "", i18n.T("Config file (default <root>/.arbkit.yaml)"))
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, i18n.T("Show debug output"))
	root.PersistentFlags().BoolVar(&quiet, "quiet", false, i18n.T("Only show warnings and errors"))
	root.MarkFlagsMutuallyExclusive("verbose", "quiet")

	root.AddCommand(
		newScanCmd(),
		newExtractCmd(),
		newRewriteCmd(),
		newMergeCmd(),
		newStatusCmd(),
		newVersionCmd(),
	)

	return root
}

func main() {
	i18n.Init("")
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errFailed) {
			logError("%v", err)
		}
		os.Exit(1)
	}
}

// ---------------------------------------------------------------------------
// version (display version information)
// ---------------------------------------------------------------------------

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: i18n.T("Show version information"),
		Long:  `Display version, commit hash, and build date.`,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("arbkit version %s\n", version)
			fmt.Printf("  commit:    %s\n", commit)
			fmt.Printf("  built:     %s\n", date)
		},
	}
}

// ---------------------------------------------------------------------------
// Shared helpers
// ---------------------------------------------------------------------------

func loadProject() (*config.Project, error) {
	proj, err := config.Load(rootDir, configPath)
	if err != nil {
		return nil, err
	}
	if proj.ConfigFile != "" {
		logDebug(i18n.T("Using config %s"), proj.ConfigFile)
	}
	return proj, nil
}

func openCatalog(proj *config.Project) (*catalog.Catalog, error) {
	return catalog.Open(catalog.Layout{
		Dir:          proj.AbsL10nDir(),
		Pattern:      proj.ARBPattern,
		SourceLocale: proj.SourceLocale,
		TargetLocale: proj.TargetLocale,
	})
}

func parseScript(proj *config.Project, override string) (*scan.Script, error) {
	if override != "" {
		return scan.ParseScript(override)
	}
	return scan.ParseScript(proj.Script)
}

// sourceFiles finds the sources under dirs, leaving out the ARB directory
// where the generated localization classes live.
func sourceFiles(proj *config.Project, dirs []string) ([]string, error) {
	exclude, err := extract.NewMatcher(proj.Exclude)
	if err != nil {
		return nil, err
	}
	if globs := exclude.Patterns(); len(globs) > 0 {
		logger.Debug().Strs("exclude", globs).Msg("Source filters")
	}
	files, err := extract.FindSources(proj.Root, dirs, proj.Extensions, exclude)
	if err != nil {
		return nil, err
	}
	l10n := proj.AbsL10nDir() + string(filepath.Separator)
	kept := files[:0]
	for _, f := range files {
		if !strings.HasPrefix(f, l10n) {
			kept = append(kept, f)
		}
	}
	return kept, nil
}

// resolveDirs turns --dir values into absolute paths, falling back to def.
func resolveDirs(proj *config.Project, flagDirs, def []string) []string {
	if len(flagDirs) == 0 {
		return def
	}
	out := make([]string, len(flagDirs))
	for i, d := range flagDirs {
		out[i] = proj.Abs(d)
	}
	return out
}

// absArg resolves a command-line path against the working directory.
func absArg(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}

func relPath(root, path string) string {
	if rel, err := filepath.Rel(root, path); err == nil && !strings.HasPrefix(rel, "..") {
		return filepath.ToSlash(rel)
	}
	return path
}

// fileExists returns true if the file exists and is not a directory.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func warnCollisions(collisions []catalog.Collision, lang string) {
	for _, c := range collisions {
		logger.Warn().
			Str("value", c.Value).
			Strs("keys", c.Keys).
			Str("using", c.Winner()).
			Msgf(i18n.T("Duplicate value in %s dictionary"), lang)
	}
}

// ---------------------------------------------------------------------------
// scan (read-only: per-file report)
// ---------------------------------------------------------------------------

func newScanCmd() *cobra.Command {
	var (
		dirs   []string
		script string
	)

	cmd := &cobra.Command{
		Use:   "scan",
		Short: i18n.T("Report Chinese literals per file"),
		Long: `List the unique string literals containing target-script characters,
grouped by file. Comments are stripped first. Nothing is written.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			proj, err := loadProject()
			if err != nil {
				return err
			}
			return runScan(cmd.OutOrStdout(), proj, resolveDirs(proj, dirs, proj.AbsSourceDirs()), script)
		},
	}

	cmd.Flags().StringSliceVar(&dirs, "dir", nil, i18n.T("Directories to scan (default: source_dirs)"))
	cmd.Flags().StringVar(&script, "script", "", i18n.T("Script filter, e.g. CJK, Han or U+4E00-U+9FA5"))

	return cmd
}

func runScan(w io.Writer, proj *config.Project, dirs []string, scriptSpec string) error {
	script, err := parseScript(proj, scriptSpec)
	if err != nil {
		return err
	}
	files, err := sourceFiles(proj, dirs)
	if err != nil {
		return fmt.Errorf("scanning sources: %w", err)
	}
	logInfo(i18n.T("Scanning %d files (%s)"), len(files), extract.DescribeFiles(files))

	reports, errs := extract.Report(files, script)
	for _, r := range reports {
		fmt.Fprintf(w, "--- %s ---\n", relPath(proj.Root, r.Path))
		for _, lit := range r.Literals {
			fmt.Fprintf(w, "  %s\n", lit)
		}
	}
	for _, e := range errs {
		logError("%v", e)
	}

	total := 0
	for _, r := range reports {
		total += len(r.Literals)
	}
	logInfo(i18n.N("Found %d literal in %d files", "Found %d literals in %d files", total), total, len(reports))
	if len(errs) > 0 {
		return errFailed
	}
	return nil
}

// ---------------------------------------------------------------------------
// extract (writes the candidate dictionary)
// ---------------------------------------------------------------------------

type extractArgs struct {
	output         string
	dirs           []string
	excludeLits    []string
	noDefaultRules bool
	suggestKeys    bool
	keep           bool
	script         string
}

func newExtractCmd() *cobra.Command {
	var a extractArgs

	cmd := &cobra.Command{
		Use:   "extract",
		Short: i18n.T("Write the candidate dictionary"),
		Long: `Collect every distinct Chinese literal into a JSON dictionary of
placeholder rows:

  "保存修改": {"key": "", "en": ""}

Literals that look dynamic are excluded: interpolation ($), asset paths
(assets/), newline escapes and other backslash sequences. Extend the list
with --exclude-literal or extract.exclude_literals; use "re:" for regular
expressions. A leading word and "=" names a rule ("route=/pages/"); start
the rule with "=" when the text itself contains "=" ("=lang=zh"). Rows filled in by hand are kept when the file is regenerated,
and rows for strings already in the ARB files are pre-filled.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			proj, err := loadProject()
			if err != nil {
				return err
			}
			return runExtract(proj, a)
		},
	}

	cmd.Flags().StringVarP(&a.output, "output", "o", "", i18n.T("Output file (default: extract.output)"))
	cmd.Flags().StringSliceVar(&a.dirs, "dir", nil, i18n.T("Directories to scan (default: extract.dirs)"))
	cmd.Flags().StringArrayVar(&a.excludeLits, "exclude-literal", nil, i18n.T("Extra exclusion rule (substring, name=substring, =text-with-= or re:pattern)"))
	cmd.Flags().BoolVar(&a.noDefaultRules, "no-default-rules", false, i18n.T("Disable the built-in exclusion rules"))
	cmd.Flags().BoolVar(&a.suggestKeys, "suggest-keys", false, i18n.T("Fill empty keys with pinyin-based suggestions"))
	cmd.Flags().BoolVar(&a.keep, "keep", true, i18n.T("Keep keys and translations from the existing output file"))
	cmd.Flags().StringVar(&a.script, "script", "", i18n.T("Script filter, e.g. CJK, Han or U+4E00-U+9FA5"))

	return cmd
}

func runExtract(proj *config.Project, a extractArgs) error {
	script, err := parseScript(proj, a.script)
	if err != nil {
		return err
	}
	rules, err := extract.Rules(!a.noDefaultRules, append(append([]string(nil), proj.Extract.ExcludeLiterals...), a.excludeLits...))
	if err != nil {
		return err
	}
	output := proj.AbsOutput()
	if a.output != "" {
		output = proj.Abs(a.output)
	}

	dirs := resolveDirs(proj, a.dirs, proj.AbsExtractDirs())
	files, err := sourceFiles(proj, dirs)
	if err != nil {
		return fmt.Errorf("scanning sources: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("no source files found in %s", strings.Join(dirs, ", "))
	}
	logInfo(i18n.T("Found %d source files (%s)"), len(files), extract.DescribeFiles(files))

	sink := extract.NewSink(rules)
	failed := 0
	for _, f := range files {
		rel := relPath(proj.Root, f)
		kept, dropped, err := sink.AddFile(f, rel, script)
		if err != nil {
			logError("%v", err)
			failed++
			continue
		}
		logDebug("%s: %d kept, %d excluded", rel, kept, dropped)
	}
	for name, n := range sink.Excluded() {
		logger.Info().Str("rule", name).Int("literals", n).Msg(i18n.T("Excluded dynamic literals"))
	}

	cat, err := openCatalog(proj)
	if err != nil {
		return err
	}
	idx, collisions := cat.ReverseIndex()
	warnCollisions(collisions, proj.SourceLocale)

	opts := extract.BuildOptions{
		Known: func(lit string) (string, string, bool) {
			key, ok := idx.KeyFor(lit)
			if !ok {
				return "", "", false
			}
			tr, _ := cat.Target().Get(key)
			return key, tr, true
		},
	}
	if a.keep {
		prev, err := extract.ReadDictionary(output, proj.TargetLocale)
		if err != nil {
			return err
		}
		opts.Previous = prev
	}
	if a.suggestKeys {
		opts.Keys = extract.NewKeySuggester(cat.Source().Keys())
	}

	entries := extract.BuildEntries(sink.Candidates(), opts)
	if err := extract.WriteDictionary(output, entries, proj.TargetLocale); err != nil {
		return err
	}

	known := 0
	for _, e := range entries {
		if _, ok := idx.KeyFor(e.Literal); ok {
			known++
		}
	}
	logSuccess(i18n.T("Extracted %d unique strings to %s (%d already in %s)"),
		len(entries), relPath(proj.Root, output), known, filepath.Base(cat.Path(proj.SourceLocale)))

	if failed > 0 {
		logError(i18n.N("%d file could not be read", "%d files could not be read", failed), failed)
		return errFailed
	}
	return nil
}

// ---------------------------------------------------------------------------
// rewrite (replaces literals in place)
// ---------------------------------------------------------------------------

type rewriteArgs struct {
	dryRun   bool
	template string
	imp      string
	noImport bool
}

func newRewriteCmd() *cobra.Command {
	var a rewriteArgs

	cmd := &cobra.Command{
		Use:   "rewrite [files...]",
		Short: i18n.T("Replace literals with localization lookups"),
		Long: `Replace every string literal whose text equals a value of the source
ARB file with a lookup of the matching key that falls back to the literal:

  Text('取消')  ->  Text(AppLocalizations.of(context)?.cancel ?? '取消')

Only real literal tokens are replaced: comments and longer literals that
merely contain the text are left alone. The localization import is added
after the first import of each changed file, or after its library
directive. Part files get no import; the owning library is named
instead. Running rewrite twice is safe. Files default to rewrite.files,
then to every source file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			proj, err := loadProject()
			if err != nil {
				return err
			}
			return runRewrite(proj, args, a)
		},
	}

	cmd.Flags().BoolVarP(&a.dryRun, "dry-run", "n", false, i18n.T("Show what would change without writing"))
	cmd.Flags().StringVar(&a.template, "template", "", i18n.T("Replacement template with {{key}}, {{literal}} and {{raw}}"))
	cmd.Flags().StringVar(&a.imp, "import", "", i18n.T("Import declaration to insert"))
	cmd.Flags().BoolVar(&a.noImport, "no-import", false, i18n.T("Do not insert the import declaration"))

	return cmd
}

func runRewrite(proj *config.Project, args []string, a rewriteArgs) error {
	rw := &rewrite.Rewriter{Template: proj.Rewrite.Template, Import: proj.Rewrite.Import}
	if a.template != "" {
		rw.Template = a.template
	}
	if a.imp != "" {
		rw.Import = a.imp
	}
	if a.noImport {
		rw.Import = ""
	} else if rw.Import == "" {
		logWarning(i18n.T("No import declaration configured; set rewrite.import"))
	}
	if err := rw.Validate(); err != nil {
		return err
	}

	var files []string
	explicit := true
	switch {
	case len(args) > 0:
		for _, f := range args {
			files = append(files, absArg(f))
		}
	case len(proj.Rewrite.Files) > 0:
		files = proj.AbsRewriteFiles()
	default:
		explicit = false
		found, err := sourceFiles(proj, proj.AbsSourceDirs())
		if err != nil {
			return fmt.Errorf("scanning sources: %w", err)
		}
		files = found
	}

	cat, err := openCatalog(proj)
	if err != nil {
		return err
	}
	idx, collisions := cat.ReverseIndex()
	warnCollisions(collisions, proj.SourceLocale)
	if len(idx) == 0 {
		logWarning(i18n.T("%s has no entries; nothing to rewrite"), relPath(proj.Root, cat.Path(proj.SourceLocale)))
		return nil
	}

	changed, replaced, failed := 0, 0, 0
	for _, f := range files {
		rel := relPath(proj.Root, f)
		if _, err := os.Stat(f); explicit && errors.Is(err, fs.ErrNotExist) {
			logWarning(i18n.T("Skipping %s: file not found"), rel)
			continue
		}
		res, err := rw.RewriteFile(f, idx, a.dryRun)
		if err != nil {
			logError("%v", err)
			failed++
			continue
		}
		if !res.Changed() {
			logDebug(i18n.T("Unchanged: %s"), rel)
			continue
		}
		for _, r := range res.Replacements {
			logger.Debug().Str("file", rel).Int("line", r.Line).Str("key", r.Key).Msg(r.Literal)
		}
		if res.PartOf != "" && rw.Import != "" {
			logger.Warn().Str("file", rel).Str("library", res.PartOf).
				Msgf(i18n.T("%s is a part file; add the import to %s"), rel, res.PartOf)
		}
		changed++
		replaced += len(res.Replacements)
		if a.dryRun {
			logInfo(i18n.T("Would update %s (%d replacements)"), rel, len(res.Replacements))
		} else {
			logSuccess(i18n.T("Updated %s (%d replacements)"), rel, len(res.Replacements))
		}
	}

	logInfo(i18n.T("Summary: %d files changed, %d literals replaced"), changed, replaced)
	if failed > 0 {
		logError(i18n.N("%d file could not be processed", "%d files could not be processed", failed), failed)
		return errFailed
	}
	return nil
}

// ---------------------------------------------------------------------------
// merge (additions -> ARB files)
// ---------------------------------------------------------------------------

func newMergeCmd() *cobra.Command {
	var (
		policy string
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "merge <additions.yaml>...",
		Short: i18n.T("Merge an additions file into the ARB files"),
		Long: `Merge key/value additions into the source and target ARB files.

An additions file lists the new strings per locale:

  name: add item page
  policy: overwrite
  locales:
    zh:
      basicInfo: 基本信息
    en:
      basicInfo: Basic Information

Policies:
  overwrite      every addition replaces the existing value
  add-if-absent  an addition is applied only when the key is missing

The policy must come from the file or from --policy. Keys are never
deleted. Both ARB files are loaded once and written once at the end.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			proj, err := loadProject()
			if err != nil {
				return err
			}
			return runMerge(proj, args, policy, dryRun)
		},
	}

	cmd.Flags().StringVarP(&policy, "policy", "p", "", i18n.T("Merge policy: overwrite or add-if-absent"))
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, i18n.T("Show what would change without writing"))

	return cmd
}

func runMerge(proj *config.Project, paths []string, policyFlag string, dryRun bool) error {
	var override *merge.Policy
	if policyFlag != "" {
		p, err := merge.ParsePolicy(policyFlag)
		if err != nil {
			return err
		}
		override = &p
	}

	type job struct {
		path   string
		adds   *merge.Additions
		policy merge.Policy
	}
	var jobs []job
	for _, path := range paths {
		adds, err := merge.LoadAdditions(absArg(path))
		if err != nil {
			return err
		}
		j := job{path: path, adds: adds}
		switch {
		case override != nil:
			j.policy = *override
		case adds.Policy != "":
			if j.policy, err = merge.ParsePolicy(adds.Policy); err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
		default:
			return fmt.Errorf("%s: no merge policy; set policy: in the file or pass --policy", path)
		}
		jobs = append(jobs, j)
	}

	cat, err := openCatalog(proj)
	if err != nil {
		return err
	}

	for _, j := range jobs {
		name := j.adds.Name
		if name == "" {
			name = filepath.Base(j.path)
		}
		logInfo(i18n.T("Merging %s (%d strings, policy %s)"), name, j.adds.Len(), j.policy)

		if uneven := merge.CheckParity(j.adds, proj.SourceLocale, proj.TargetLocale); len(uneven) > 0 {
			logger.Warn().Strs("keys", uneven).Msg(i18n.T("Keys added for only one locale"))
		}

		for _, lang := range j.adds.Languages() {
			f := cat.File(lang)
			if f == nil {
				logWarning(i18n.T("Skipping locale %s: not managed (source %s, target %s)"), lang, proj.SourceLocale, proj.TargetLocale)
				continue
			}
			res, err := merge.Apply(f, j.adds.For(lang), j.policy)
			if err != nil {
				return fmt.Errorf("%s: %s: %w", j.path, lang, err)
			}
			logInfo("  %s: %s", lang, res)
			for _, k := range res.Skipped {
				logDebug(i18n.T("Kept existing %s.%s"), lang, k)
			}
		}
	}

	if dryRun {
		dirty, err := cat.Dirty()
		if err != nil {
			return err
		}
		for _, lang := range dirty {
			logInfo(i18n.T("Would write %s"), relPath(proj.Root, cat.Path(lang)))
		}
		return nil
	}

	written, err := cat.Save()
	for _, p := range written {
		logSuccess(i18n.T("Written: %s"), relPath(proj.Root, p))
	}
	if err != nil {
		return err
	}
	if len(written) == 0 {
		logInfo(i18n.T("ARB files already up to date"))
	}
	return nil
}

// ---------------------------------------------------------------------------
// status (read-only: project info + coverage)
// ---------------------------------------------------------------------------

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: i18n.T("Show ARB coverage and duplicate source strings"),
		Long: `Show the detected project settings, how many source keys the target
ARB file translates, keys present in only one file, and source strings
shared by several keys. Does not modify any files.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			proj, err := loadProject()
			if err != nil {
				return err
			}
			return runStatus(cmd.OutOrStdout(), proj)
		},
	}
}

var (
	heading = color.New(color.FgBlue, color.Bold)
	faint   = color.New(color.Faint)
)

func runStatus(w io.Writer, proj *config.Project) error {
	cat, err := openCatalog(proj)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "\n%s\n", heading.Sprint(i18n.T("Project")))
	fmt.Fprintln(w, strings.Repeat("─", 60))
	fmt.Fprintf(w, "  %-10s %s\n", "Name:", proj.Name)
	fmt.Fprintf(w, "  %-10s %s\n", "Root:", proj.Root)
	cfg := faint.Sprint(i18n.T("auto-detected"))
	if proj.ConfigFile != "" {
		cfg = relPath(proj.Root, proj.ConfigFile)
	}
	fmt.Fprintf(w, "  %-10s %s\n", "Config:", cfg)
	fmt.Fprintf(w, "  %-10s %s\n", "Sources:", strings.Join(proj.SourceDirs, ", "))
	fmt.Fprintf(w, "  %-10s %s\n", "ARB dir:", proj.L10nDir)
	fmt.Fprintf(w, "  %-10s %s -> %s\n", "Locales:", langmeta.Label(proj.SourceLocale), langmeta.Label(proj.TargetLocale))
	if others := otherLocales(proj); len(others) > 0 {
		fmt.Fprintf(w, "  %-10s %s\n", "Also:", faint.Sprint(strings.Join(others, ", ")))
	}
	if proj.Rewrite.Import != "" {
		fmt.Fprintf(w, "  %-10s %s\n", "Import:", proj.Rewrite.Import)
	}

	fmt.Fprintf(w, "\n%s\n", heading.Sprint(i18n.T("Dictionaries")))
	fmt.Fprintln(w, strings.Repeat("─", 60))
	fmt.Fprintf(w, "%-8s %-8s %-12s %s\n", "Lang", "Keys", "Translated", "Progress")
	for _, lang := range cat.Locales() {
		f := cat.File(lang)
		total, translated, pct := f.Stats()
		name := lang
		if !fileExists(cat.Path(lang)) {
			name += "*"
		}
		fmt.Fprintf(w, "%-8s %-8d %-12d %s\n", name, total, translated, progressBar(pct, 20))
	}

	cv := cat.Coverage()
	fmt.Fprintln(w, strings.Repeat("─", 60))
	fmt.Fprintf(w, "%s: %.0f%%\n", fmt.Sprintf(i18n.T("%s coverage of %s"), proj.TargetLocale, proj.SourceLocale), cv.Percent())
	printKeyList(w, fmt.Sprintf(i18n.T("Missing in %s"), proj.TargetLocale), cv.Missing)
	printKeyList(w, fmt.Sprintf(i18n.T("Only in %s"), proj.TargetLocale), cv.Extra)
	printKeyList(w, fmt.Sprintf(i18n.T("Empty in %s"), proj.SourceLocale), cv.Empty)

	_, collisions := cat.ReverseIndex()
	if len(collisions) > 0 {
		fmt.Fprintf(w, "\n%s\n", color.YellowString(i18n.T("Source strings shared by several keys:")))
		for _, c := range collisions {
			fmt.Fprintf(w, "  %q: %s (%s %s)\n", c.Value, strings.Join(c.Keys, ", "), i18n.T("rewrite uses"), c.Winner())
		}
	}
	if cv.Complete() && len(collisions) == 0 {
		fmt.Fprintf(w, "\n%s\n", color.GreenString(i18n.T("Dictionaries are complete.")))
	}
	fmt.Fprintln(w)
	return nil
}

// otherLocales lists ARB locales present on disk besides the two managed ones.
func otherLocales(proj *config.Project) []string {
	var out []string
	for _, l := range proj.ARBLocales() {
		if l != proj.SourceLocale && l != proj.TargetLocale {
			out = append(out, l)
		}
	}
	return out
}

const maxListedKeys = 10

func printKeyList(w io.Writer, label string, keys []string) {
	if len(keys) == 0 {
		return
	}
	sorted := append([]string(nil), keys...)
	sort.Strings(sorted)
	shown := sorted
	if len(shown) > maxListedKeys && !verbose {
		shown = shown[:maxListedKeys]
	}
	fmt.Fprintf(w, "%s (%d): %s", color.YellowString(label), len(keys), strings.Join(shown, ", "))
	if len(shown) < len(sorted) {
		fmt.Fprintf(w, ", … (+%d)", len(sorted)-len(shown))
	}
	fmt.Fprintln(w)
}

// progressBar renders percent as a bar of width cells followed by the
// number, colored red below 50, yellow below 100 and green at 100.
func progressBar(percent float64, width int) string {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	filled := int(percent / 100 * float64(width))
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)

	c := color.New(color.FgGreen)
	switch {
	case percent < 50:
		c = color.New(color.FgRed)
	case percent < 100:
		c = color.New(color.FgYellow)
	}
	return c.Sprint(bar) + fmt.Sprintf(" %3d%%", int(percent))
}
