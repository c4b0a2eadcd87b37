package lib

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/denormal/go-gitignore"
)

// IgnoreFileName is an optional file in the base directory listing extra
// exclude patterns, one per line. It is never published itself.
const IgnoreFileName = ".ghpagesignore"

// RemoveEmpties drops blank patterns and trims the rest.
func RemoveEmpties(patterns []string) []string {
	var out []string
	for _, p := range patterns {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// normalizePattern converts separators to forward slashes, which the
// matcher expects even on Windows, and expands a bare directory to
// everything below it.
func normalizePattern(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	if strings.HasSuffix(p, "/") && !strings.HasSuffix(p, "**/") {
		p = p + "**"
	}
	return p
}

func compileLines(baseDir string, lines []string) (gitignore.GitIgnore, error) {
	var parseErr error
	matcher := gitignore.New(
		strings.NewReader(strings.Join(lines, "\n")),
		baseDir,
		func(e gitignore.Error) bool {
			if parseErr == nil {
				parseErr = e
			}
			return false
		},
	)
	if parseErr != nil {
		return nil, ConfigError("invalid path pattern: %v", parseErr)
	}
	if matcher == nil {
		return nil, ConfigError("invalid path patterns %v", lines)
	}
	return matcher, nil
}

// compileIgnoreFile turns the lines of an ignore file into a matcher with
// plain gitignore semantics. A nil matcher is returned for an empty list.
func compileIgnoreFile(baseDir string, lines []string) (gitignore.GitIgnore, error) {
	var patterns []string
	for _, p := range RemoveEmpties(lines) {
		if strings.HasPrefix(p, "#") {
			continue
		}
		patterns = append(patterns, normalizePattern(p))
	}
	if len(patterns) == 0 {
		return nil, nil
	}
	return compileLines(baseDir, patterns)
}

// anchoredPattern is an include or exclude glob relative to the base
// directory: '*' stays within one path segment and '**' spans any number.
type anchoredPattern struct {
	matcher gitignore.GitIgnore
	// rootOnly is set for patterns without a separator, which the matcher
	// would otherwise test against the file name at any depth.
	rootOnly bool
}

func (p anchoredPattern) match(slashedPath string) bool {
	if p.rootOnly && strings.Contains(slashedPath, "/") {
		return false
	}
	return matches(p.matcher, slashedPath)
}

type patternSet []anchoredPattern

// compilePatterns compiles include or exclude globs, one matcher each.
func compilePatterns(baseDir string, patterns []string) (patternSet, error) {
	var set patternSet
	for _, p := range RemoveEmpties(patterns) {
		if strings.HasPrefix(p, "#") {
			continue
		}
		p = strings.TrimPrefix(normalizePattern(p), "/")
		matcher, err := compileLines(baseDir, []string{"/" + p})
		if err != nil {
			return nil, err
		}
		set = append(set, anchoredPattern{
			matcher:  matcher,
			rootOnly: !strings.Contains(p, "/") && !strings.Contains(p, "**"),
		})
	}
	return set, nil
}

func (s patternSet) match(slashedPath string) bool {
	for _, p := range s {
		if p.match(slashedPath) {
			return true
		}
	}
	return false
}

// ignoreFilePatterns reads IgnoreFileName from baseDir. A missing file
// yields no patterns.
func ignoreFilePatterns(baseDir string) ([]string, error) {
	content, err := os.ReadFile(filepath.Join(baseDir, IgnoreFileName))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, FilesystemError("error reading "+IgnoreFileName, err)
	}
	return strings.Split(strings.ReplaceAll(string(content), "\r\n", "\n"), "\n"), nil
}

func matches(matcher gitignore.GitIgnore, slashedPath string) bool {
	match := matcher.Relative(slashedPath, false)
	return match != nil && match.Ignore()
}

// MatchingPaths walks baseDir and returns the relative paths of the regular
// files selected by includes and not selected by excludes. Include and
// exclude globs are anchored at baseDir, so "*.html" selects root files only
// and "**/*.html" selects them at any depth. An empty include list selects
// every file. Lines of IgnoreFileName are matched like a .gitignore and
// exclude too. The result is sorted by its slash form so repeated runs over
// the same tree produce the same list.
func MatchingPaths(baseDir string, includes, excludes []string) ([]string, error) {
	info, err := os.Stat(baseDir)
	if err != nil {
		return nil, FilesystemError("error reading base directory", err)
	}
	if !info.IsDir() {
		return nil, ConfigError("base directory %s is not a directory", baseDir)
	}

	include, err := compilePatterns(baseDir, includes)
	if err != nil {
		return nil, err
	}
	exclude, err := compilePatterns(baseDir, excludes)
	if err != nil {
		return nil, err
	}
	lines, err := ignoreFilePatterns(baseDir)
	if err != nil {
		return nil, err
	}
	ignored, err := compileIgnoreFile(baseDir, lines)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	var paths []string
	err = filepath.WalkDir(baseDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == baseDir || !d.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(baseDir, path)
		if err != nil {
			return err
		}
		slashed := filepath.ToSlash(rel)
		if slashed == IgnoreFileName {
			return nil
		}
		if len(include) > 0 && !include.match(slashed) {
			return nil
		}
		if exclude.match(slashed) || (ignored != nil && matches(ignored, slashed)) {
			return nil
		}
		if _, dup := seen[slashed]; dup {
			return nil
		}
		seen[slashed] = struct{}{}
		paths = append(paths, rel)
		return nil
	})
	if err != nil {
		return nil, FilesystemError("error scanning "+baseDir, err)
	}

	sort.Slice(paths, func(i, j int) bool {
		return filepath.ToSlash(paths[i]) < filepath.ToSlash(paths[j])
	})
	return paths, nil
}
