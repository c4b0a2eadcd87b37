package lib

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupSite creates a small generated site and returns its root.
func setupSite(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	files := map[string]string{
		"index.html":         "<html></html>",
		"about.html":         "<html>about</html>",
		"css/site.css":       "body{}",
		"apidocs/index.html": "<html>api</html>",
		"apidocs/pkg/a.html": "<html>a</html>",
		"build.log":          "ignored",
	}
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	// Directories never show up in the result, even empty ones.
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "empty"), 0755))
	return dir
}

func slashed(paths []string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = filepath.ToSlash(p)
	}
	return out
}

func TestMatchingPaths(t *testing.T) {
	dir := setupSite(t)

	tests := []struct {
		name     string
		includes []string
		excludes []string
		want     []string
	}{
		{
			name: "everything by default",
			want: []string{
				"about.html",
				"apidocs/index.html",
				"apidocs/pkg/a.html",
				"build.log",
				"css/site.css",
				"index.html",
			},
		},
		{
			name:     "blank patterns are ignored",
			includes: []string{"", "  "},
			excludes: []string{""},
			want: []string{
				"about.html",
				"apidocs/index.html",
				"apidocs/pkg/a.html",
				"build.log",
				"css/site.css",
				"index.html",
			},
		},
		{
			name:     "single star stays at the base directory",
			includes: []string{"*.html"},
			want: []string{
				"about.html",
				"index.html",
			},
		},
		{
			name:     "double star reaches any depth",
			includes: []string{"**/*.html"},
			want: []string{
				"about.html",
				"apidocs/index.html",
				"apidocs/pkg/a.html",
				"index.html",
			},
		},
		{
			name:     "path pattern with a single star",
			includes: []string{"apidocs/*.html"},
			want: []string{
				"apidocs/index.html",
			},
		},
		{
			name:     "root file exclude keeps nested files",
			excludes: []string{"*.html", "/css/"},
			want: []string{
				"apidocs/index.html",
				"apidocs/pkg/a.html",
				"build.log",
			},
		},
		{
			name:     "exclude a file pattern and a directory",
			excludes: []string{"*.log", "apidocs/"},
			want: []string{
				"about.html",
				"css/site.css",
				"index.html",
			},
		},
		{
			name:     "include and exclude together",
			includes: []string{"**/*.html", "css/*.css"},
			excludes: []string{"apidocs/"},
			want: []string{
				"about.html",
				"css/site.css",
				"index.html",
			},
		},
		{
			name:     "nothing matches",
			includes: []string{"*.png"},
			want:     nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MatchingPaths(dir, tt.includes, tt.excludes)
			require.NoError(t, err)
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, slashed(got))
		})
	}

	t.Run("repeated scans are identical", func(t *testing.T) {
		first, err := MatchingPaths(dir, nil, []string{"*.log"})
		require.NoError(t, err)
		second, err := MatchingPaths(dir, nil, []string{"*.log"})
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("missing base directory", func(t *testing.T) {
		_, err := MatchingPaths(filepath.Join(dir, "nope"), nil, nil)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrFilesystem))
	})

	t.Run("base directory is a file", func(t *testing.T) {
		_, err := MatchingPaths(filepath.Join(dir, "index.html"), nil, nil)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrConfiguration))
	})
}

func TestRemoveEmpties(t *testing.T) {
	assert.Nil(t, RemoveEmpties(nil))
	assert.Nil(t, RemoveEmpties([]string{"", " ", "\t"}))
	assert.Equal(t, []string{"*.html", "docs/"}, RemoveEmpties([]string{" *.html ", "", "docs/"}))
}

func TestMatchingPathsIgnoreFile(t *testing.T) {
	dir := setupSite(t)
	ignore := "# generated reports\r\napidocs/\n\n*.log\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, IgnoreFileName), []byte(ignore), 0644))

	got, err := MatchingPaths(dir, nil, []string{"about.html"})
	require.NoError(t, err)
	assert.Equal(t, []string{"css/site.css", "index.html"}, slashed(got))
}

func TestMatchingPathsIgnoreFileMatchesAtAnyDepth(t *testing.T) {
	dir := setupSite(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, IgnoreFileName), []byte("index.html\n"), 0644))

	got, err := MatchingPaths(dir, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"about.html", "apidocs/pkg/a.html", "build.log", "css/site.css"}, slashed(got))
}
