// Package remote talks to the repository host's git data API.
package remote

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gingerrexayers/ghpages-go/internal/ghpages/types"
)

// DataService is the part of the host API the publisher needs. Create and
// Edit calls mutate the repository; everything else is read-only.
type DataService interface {
	CreateBlob(ctx context.Context, repo types.RepositoryID, blob types.Blob) (string, error)
	GetReference(ctx context.Context, repo types.RepositoryID, ref string) (*types.Reference, error)
	GetCommit(ctx context.Context, repo types.RepositoryID, sha string) (*types.Commit, error)
	CreateTree(ctx context.Context, repo types.RepositoryID, baseTree string, entries []types.TreeEntry) (*types.Tree, error)
	CreateCommit(ctx context.Context, repo types.RepositoryID, commit types.Commit) (*types.Commit, error)
	CreateReference(ctx context.Context, repo types.RepositoryID, ref types.Reference) (*types.Reference, error)
	EditReference(ctx context.Context, repo types.RepositoryID, ref types.Reference, force bool) (*types.Reference, error)
	CurrentUser(ctx context.Context) (*types.User, error)
	Quota(ctx context.Context) (types.Quota, error)
}

// RequestError is a failed host call. StatusCode is zero when no response
// was received.
type RequestError struct {
	Method     string
	Path       string
	StatusCode int
	Err        error
}

func (e *RequestError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
	}
	return fmt.Sprintf("%s %s: %d %s: %v", e.Method, e.Path, e.StatusCode, http.StatusText(e.StatusCode), e.Err)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err is a host 404.
func IsNotFound(err error) bool {
	var reqErr *RequestError
	return errors.As(err, &reqErr) && reqErr.StatusCode == http.StatusNotFound
}
