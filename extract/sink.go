package extract

import (
	"fmt"
	"os"
	"sort"

	"github.com/minios-linux/arbkit/scan"
)

// Candidate is one distinct literal awaiting a key and a translation.
type Candidate struct {
	Literal string
	// Files lists every file the literal appears in, in first-seen order.
	Files []string
	Count int
}

// Sink collects literals from many files, de-duplicated by exact string.
type Sink struct {
	rules      []Rule
	candidates map[string]*Candidate
	excluded   map[string]map[string]bool // rule name -> literals
}

// NewSink returns a sink that drops literals matched by any of rules.
func NewSink(rules []Rule) *Sink {
	return &Sink{
		rules:      rules,
		candidates: make(map[string]*Candidate),
		excluded:   make(map[string]map[string]bool),
	}
}

// Add offers one literal found in file. It returns false when an exclusion
// rule rejected it.
func (s *Sink) Add(file, literal string) bool {
	for _, r := range s.rules {
		if r.Match(literal) {
			if s.excluded[r.Name] == nil {
				s.excluded[r.Name] = make(map[string]bool)
			}
			s.excluded[r.Name][literal] = true
			return false
		}
	}
	c, ok := s.candidates[literal]
	if !ok {
		c = &Candidate{Literal: literal}
		s.candidates[literal] = c
	}
	c.Count++
	if !contains(c.Files, file) {
		c.Files = append(c.Files, file)
	}
	return true
}

// AddSource scans src and adds every literal matching script.
func (s *Sink) AddSource(file, src string, script *scan.Script) (kept, dropped int) {
	for _, lit := range scan.Scan(src, script) {
		if s.Add(file, lit.Content()) {
			kept++
		} else {
			dropped++
		}
	}
	return kept, dropped
}

// AddFile reads path and adds its literals, recording them under name
// (path itself when name is empty). Read failures are returned to the
// caller, which decides whether to continue with the next file.
func (s *Sink) AddFile(path, name string, script *scan.Script) (kept, dropped int, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, 0, fmt.Errorf("reading %s: %w", path, err)
	}
	if name == "" {
		name = path
	}
	kept, dropped = s.AddSource(name, string(data), script)
	return kept, dropped, nil
}

// Len returns the number of distinct candidates.
func (s *Sink) Len() int { return len(s.candidates) }

// Candidates returns the collected literals sorted by text.
func (s *Sink) Candidates() []Candidate {
	out := make([]Candidate, 0, len(s.candidates))
	for _, c := range s.candidates {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Literal < out[j].Literal })
	return out
}

// Excluded returns, per rule name, how many distinct literals the rule
// rejected.
func (s *Sink) Excluded() map[string]int {
	out := make(map[string]int, len(s.excluded))
	for name, lits := range s.excluded {
		out[name] = len(lits)
	}
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// ---------------------------------------------------------------------------
// Per-file report
// ---------------------------------------------------------------------------

// FileReport lists the distinct matching literals of one file in order of
// first appearance.
type FileReport struct {
	Path     string
	Literals []string
}

// Report scans each file and returns the files that contain at least one
// literal matching script. No exclusion rules apply. Files that cannot be
// read are returned in errs and do not stop the scan.
func Report(files []string, script *scan.Script) (reports []FileReport, errs []error) {
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			errs = append(errs, fmt.Errorf("reading %s: %w", path, err))
			continue
		}
		seen := make(map[string]bool)
		var lits []string
		for _, lit := range scan.Scan(string(data), script) {
			if !seen[lit.Raw] {
				seen[lit.Raw] = true
				lits = append(lits, lit.Raw)
			}
		}
		if len(lits) > 0 {
			reports = append(reports, FileReport{Path: path, Literals: lits})
		}
	}
	return reports, errs
}
