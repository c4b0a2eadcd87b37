package lib

import (
	"net/url"
	"strings"

	"github.com/gingerrexayers/ghpages-go/internal/ghpages/types"
	"github.com/go-git/go-git/v5"
)

const hostDefault = "github.com"

// ProjectMetadata is the source-control metadata a repository id can be
// inferred from when no explicit owner and name are configured.
type ProjectMetadata struct {
	// Dir is a directory inside the project's git working copy, if any.
	Dir                    string
	URL                    string
	SCMURL                 string
	SCMConnection          string
	SCMDeveloperConnection string
}

// ResolveRepository returns the destination repository: the explicit owner
// and name when both are set, otherwise the first id found in the SCM URL,
// SCM connection, SCM developer connection, project URL, and finally the
// origin remote of the project's git repository.
func ResolveRepository(owner, name string, project ProjectMetadata) (types.RepositoryID, error) {
	owner, name = strings.TrimSpace(owner), strings.TrimSpace(name)
	if owner != "" && name != "" {
		return types.RepositoryID{Owner: owner, Name: name}, nil
	}

	candidates := []func() (types.RepositoryID, bool){
		func() (types.RepositoryID, bool) { return RepositoryFromURL(project.SCMURL) },
		func() (types.RepositoryID, bool) { return RepositoryFromSCMURL(project.SCMConnection) },
		func() (types.RepositoryID, bool) { return RepositoryFromSCMURL(project.SCMDeveloperConnection) },
		func() (types.RepositoryID, bool) { return RepositoryFromURL(project.URL) },
		func() (types.RepositoryID, bool) { return repositoryFromOrigin(project.Dir) },
	}
	for _, candidate := range candidates {
		if repo, ok := candidate(); ok {
			return repo, nil
		}
	}
	return types.RepositoryID{}, ConfigError("no GitHub repository (owner and name) configured")
}

// RepositoryFromID parses "owner/name".
func RepositoryFromID(id string) (types.RepositoryID, bool) {
	owner, name, ok := strings.Cut(strings.TrimSpace(id), "/")
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return types.RepositoryID{}, false
	}
	return types.RepositoryID{Owner: owner, Name: name}, true
}

// RepositoryFromSCMURL extracts the id from SCM connection strings such as
// "scm:git:git@github.com:owner/name.git" or
// "scm:git:git://github.com/owner/name.git". The ".git" suffix is required.
func RepositoryFromSCMURL(raw string) (types.RepositoryID, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return types.RepositoryID{}, false
	}
	idx := strings.Index(raw, hostDefault)
	if idx == -1 || idx+len(hostDefault)+1 >= len(raw) {
		return types.RepositoryID{}, false
	}
	if !strings.HasSuffix(raw, ".git") {
		return types.RepositoryID{}, false
	}
	return RepositoryFromID(raw[idx+len(hostDefault)+1 : len(raw)-len(".git")])
}

// RepositoryFromURL extracts the id from the first two path segments of an
// http(s) URL such as "https://github.com/owner/name".
func RepositoryFromURL(raw string) (types.RepositoryID, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return types.RepositoryID{}, false
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return types.RepositoryID{}, false
	}
	var segments []string
	for _, s := range strings.Split(u.Path, "/") {
		if s != "" {
			segments = append(segments, s)
		}
	}
	if len(segments) < 2 {
		return types.RepositoryID{}, false
	}
	return types.RepositoryID{
		Owner: segments[0],
		Name:  strings.TrimSuffix(segments[1], ".git"),
	}, true
}

// repositoryFromOrigin reads the origin remote of the git repository that
// contains dir.
func repositoryFromOrigin(dir string) (types.RepositoryID, bool) {
	if dir == "" {
		return types.RepositoryID{}, false
	}
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return types.RepositoryID{}, false
	}
	remote, err := repo.Remote(git.DefaultRemoteName)
	if err != nil {
		return types.RepositoryID{}, false
	}
	for _, u := range remote.Config().URLs {
		if repoID, ok := RepositoryFromURL(u); ok {
			return repoID, true
		}
		// scp-like ssh form: git@github.com:owner/name.git
		if _, path, ok := strings.Cut(u, ":"); ok && !strings.Contains(u, "://") {
			if repoID, ok := RepositoryFromID(strings.TrimSuffix(path, ".git")); ok {
				return repoID, true
			}
		}
	}
	return types.RepositoryID{}, false
}
