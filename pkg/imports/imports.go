// Package imports helps combining multiple GraphQL schema files into one schema using import comments.
//
// A schema file may pull in other files with a comment of the form:
//
//	#import "types/*.graphqls"
//
// The path is relative to the importing file and may contain doublestar globs.
package imports

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

var (
	importStatementRegex = regexp.MustCompile(`(#import "[^";]+")`)
	pathStatementRegex   = regexp.MustCompile(`"(.*?)"`)
)

type Scanner struct {
	// BaseDir is the directory paths are made relative to. Defaults to the working directory.
	BaseDir string

	knownFiles map[string]struct{}
	visiting   map[string]struct{}
}

func (s *Scanner) ScanFile(inputFilePath string) (*GraphQLFile, error) {
	s.reset()
	return s.scanFile(inputFilePath)
}

// ScanPatterns resolves every pattern and returns a root file (without a path of its own)
// importing all matches in pattern order.
func (s *Scanner) ScanPatterns(patterns ...string) (*GraphQLFile, error) {
	s.reset()
	file := &GraphQLFile{}
	for _, pattern := range patterns {
		imports, err := s.fileImportsForPattern(pattern)
		if err != nil {
			return nil, err
		}
		if len(imports) == 0 {
			return nil, fmt.Errorf("pattern matches no files: %s", pattern)
		}
		file.Imports = append(file.Imports, imports...)
	}
	return file, nil
}

func (s *Scanner) reset() {
	s.knownFiles = map[string]struct{}{}
	s.visiting = map[string]struct{}{}
}

func (s *Scanner) baseDir() (string, error) {
	if s.BaseDir != "" {
		return filepath.Abs(s.BaseDir)
	}
	return os.Getwd()
}

func (s *Scanner) scanFile(inputFilePath string) (*GraphQLFile, error) {
	basePath, err := s.baseDir()
	if err != nil {
		return nil, err
	}

	absoluteFilePath, err := filepath.Abs(inputFilePath)
	if err != nil {
		return nil, err
	}

	relativeFilePath, err := filepath.Rel(basePath, absoluteFilePath)
	if err != nil {
		return nil, err
	}
	relativeFilePath = filepath.ToSlash(relativeFilePath)

	if _, inProgress := s.visiting[relativeFilePath]; inProgress {
		return nil, fmt.Errorf("file forms import cycle: %s", relativeFilePath)
	}
	// diamond imports are fine, a file is only emitted once
	if _, exists := s.knownFiles[relativeFilePath]; exists {
		return nil, nil
	}

	s.visiting[relativeFilePath] = struct{}{}
	defer delete(s.visiting, relativeFilePath)
	s.knownFiles[relativeFilePath] = struct{}{}

	content, err := os.ReadFile(absoluteFilePath)
	if err != nil {
		return nil, err
	}

	file := &GraphQLFile{
		RelativePath: relativeFilePath,
		absolutePath: absoluteFilePath,
	}

	fileDir := filepath.ToSlash(filepath.Dir(absoluteFilePath))
	for _, statement := range importStatementRegex.FindAll(content, -1) {
		importFilePath := s.importFilePath(string(statement))
		if importFilePath == "" {
			continue
		}
		imports, err := s.fileImportsForPattern(path.Join(fileDir, importFilePath))
		if err != nil {
			return nil, err
		}
		file.Imports = append(file.Imports, imports...)
	}

	return file, nil
}

func (s *Scanner) importFilePath(importStatement string) string {
	out := pathStatementRegex.FindString(importStatement)
	out = strings.TrimLeft(out, "\"")
	out = strings.TrimRight(out, "\"")
	return out
}

func (s *Scanner) fileImportsForPattern(pattern string) ([]GraphQLFile, error) {
	if !filepath.IsAbs(pattern) {
		basePath, err := s.baseDir()
		if err != nil {
			return nil, err
		}
		pattern = filepath.Join(basePath, pattern)
	}

	matches, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}
	sort.Strings(matches)

	out := make([]GraphQLFile, 0, len(matches))
	for _, match := range matches {
		importFile, err := s.scanFile(match)
		if err != nil {
			return nil, err
		}
		if importFile == nil {
			continue
		}
		out = append(out, *importFile)
	}
	return out, nil
}

// StripImports removes all import statements from a schema file.
func StripImports(content []byte) []byte {
	return importStatementRegex.ReplaceAll(content, nil)
}
