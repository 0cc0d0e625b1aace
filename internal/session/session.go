// Package session drives header scanning for one run: it deduplicates
// headers, applies the ignore list and accumulates the run's outputs.
package session

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"declscan/internal/safeio"
	"declscan/internal/scan"
	"declscan/internal/scanner"
	"declscan/internal/sections"
)

// Options configures a Session.
type Options struct {
	Scanner scanner.Options
	// IgnoreHeaders holds header basenames ("foo.h"), header paths as given
	// on the command line, and directory names to skip while walking.
	IgnoreHeaders []string
	Logger        *log.Logger
	// Warnings receives missing-file warnings; nil means the standard logger.
	Warnings *log.Logger
}

// Session owns the state shared by all headers of one run.
type Session struct {
	scanner *scanner.Scanner
	ignore  []string
	log     *log.Logger
	warn    *log.Logger

	seen     map[string]bool
	decls    []string
	sections map[string]string
	getTypes []string
	scanned  int
}

func New(opts Options) (*Session, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if opts.Scanner.Logger == nil {
		opts.Scanner.Logger = logger
	}
	warn := opts.Warnings
	if warn == nil {
		warn = log.Default()
	}
	sc, err := scanner.New(opts.Scanner)
	if err != nil {
		return nil, err
	}
	return &Session{
		scanner:  sc,
		ignore:   opts.IgnoreHeaders,
		log:      logger,
		warn:     warn,
		seen:     make(map[string]bool),
		sections: make(map[string]string),
	}, nil
}

// ScanHeaders scans every header below dir, see scan.Walk for the order.
func (s *Session) ScanHeaders(dir string) error {
	s.log.Printf("scanning source directory %s", dir)
	fsys, err := safeio.NewSafeFS(dir)
	if err != nil {
		return fmt.Errorf("session: source dir %s: %w", dir, err)
	}
	return scan.Walk(fsys, scan.Options{IgnoreDirs: s.ignore}, func(f scan.FileVisit) error {
		rel := filepath.FromSlash(f.Path)
		return s.scanFile(fsys, rel, filepath.Join(dir, rel), f.Basename)
	})
}

// ScanHeader scans a single header. Missing files are reported and skipped.
func (s *Session) ScanHeader(path string) error {
	fsys, err := safeio.ForFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.warn.Printf("warning: file does not exist: %s", path)
			return nil
		}
		return fmt.Errorf("session: %s: %w", path, err)
	}
	name := filepath.Base(path)
	return s.scanFile(fsys, name, path, strings.TrimSuffix(name, filepath.Ext(name)))
}

// scanFile scans rel, a path under fsys; path is the spelling used for the
// ignore list and messages, basename keys the section.
func (s *Session) scanFile(fsys *safeio.SafeFS, rel, path, basename string) error {
	name := filepath.Base(rel)
	canonical, err := fsys.Canonical(rel)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.warn.Printf("warning: file does not exist: %s", path)
			return nil
		}
		return fmt.Errorf("session: %s: %w", path, err)
	}
	if s.seen[canonical] {
		s.log.Printf("already scanned %s", path)
		return nil
	}
	s.seen[canonical] = true

	if slices.Contains(s.ignore, name) || slices.Contains(s.ignore, path) {
		s.log.Printf("ignored %s", path)
		return nil
	}

	text, err := fsys.SafeReadText(rel)
	if err != nil {
		return fmt.Errorf("session: read %s: %w", path, err)
	}
	s.log.Printf("scanning %s", path)
	res := s.scanner.ScanString(text)
	s.scanned++
	s.decls = append(s.decls, res.Blocks()...)
	s.getTypes = append(s.getTypes, res.GetTypes...)
	if res.Private {
		s.log.Printf("%s is a private header", path)
		return nil
	}

	sec := sections.Classify(basename, res.Title, res.Symbols, res.DocComments, s.log)
	if sec.Empty() {
		return nil
	}
	s.sections[basename] += sec.String()
	return nil
}

// Output is the accumulated result of a run.
type Output struct {
	// DeclList holds the SECTION blocks ordered by header basename.
	DeclList string
	// Decls holds the declaration blocks in scan order.
	Decls string
	// GetTypes is sorted.
	GetTypes []string
}

func (s *Session) Output() Output {
	keys := make([]string, 0, len(s.sections))
	for k := range s.sections {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var list strings.Builder
	for _, k := range keys {
		list.WriteString(s.sections[k])
	}
	types := slices.Clone(s.getTypes)
	sort.Strings(types)
	return Output{
		DeclList: list.String(),
		Decls:    strings.Join(s.decls, ""),
		GetTypes: types,
	}
}

// Scanned returns how many headers were actually scanned.
func (s *Session) Scanned() int { return s.scanned }
