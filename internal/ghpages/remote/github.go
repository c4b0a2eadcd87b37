package remote

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gingerrexayers/ghpages-go/internal/ghpages/types"
	"github.com/google/go-github/v48/github"
)

// GitHubService implements DataService on top of go-github.
type GitHubService struct {
	client *github.Client
}

// NewGitHubService wraps an already authenticated go-github client.
func NewGitHubService(client *github.Client) *GitHubService {
	return &GitHubService{client: client}
}

func requestError(method, path string, resp *github.Response, err error) error {
	reqErr := &RequestError{Method: method, Path: path, Err: err}
	if resp != nil && resp.Response != nil {
		reqErr.StatusCode = resp.StatusCode
	}
	return reqErr
}

func gitPath(repo types.RepositoryID, format string, args ...any) string {
	return fmt.Sprintf("repos/%s/%s/git/", repo.Owner, repo.Name) + fmt.Sprintf(format, args...)
}

func (s *GitHubService) CreateBlob(ctx context.Context, repo types.RepositoryID, blob types.Blob) (string, error) {
	created, resp, err := s.client.Git.CreateBlob(ctx, repo.Owner, repo.Name, &github.Blob{
		Content:  github.String(blob.Content),
		Encoding: github.String(blob.Encoding),
	})
	if err != nil {
		return "", requestError(http.MethodPost, gitPath(repo, "blobs"), resp, err)
	}
	return created.GetSHA(), nil
}

func (s *GitHubService) GetReference(ctx context.Context, repo types.RepositoryID, ref string) (*types.Reference, error) {
	found, resp, err := s.client.Git.GetRef(ctx, repo.Owner, repo.Name, ref)
	if err != nil {
		return nil, requestError(http.MethodGet, gitPath(repo, "ref/%s", ref), resp, err)
	}
	return &types.Reference{
		Ref: found.GetRef(),
		Object: types.TypedObject{
			Type: found.GetObject().GetType(),
			SHA:  found.GetObject().GetSHA(),
		},
	}, nil
}

func (s *GitHubService) GetCommit(ctx context.Context, repo types.RepositoryID, sha string) (*types.Commit, error) {
	commit, resp, err := s.client.Git.GetCommit(ctx, repo.Owner, repo.Name, sha)
	if err != nil {
		return nil, requestError(http.MethodGet, gitPath(repo, "commits/%s", sha), resp, err)
	}
	out := &types.Commit{
		SHA:     commit.GetSHA(),
		Message: commit.GetMessage(),
		Tree:    types.Tree{SHA: commit.GetTree().GetSHA()},
	}
	for _, parent := range commit.Parents {
		out.Parents = append(out.Parents, parent.GetSHA())
	}
	return out, nil
}

func (s *GitHubService) CreateTree(ctx context.Context, repo types.RepositoryID, baseTree string, entries []types.TreeEntry) (*types.Tree, error) {
	ghEntries := make([]*github.TreeEntry, 0, len(entries))
	for _, e := range entries {
		ghEntries = append(ghEntries, &github.TreeEntry{
			Path: github.String(e.Path),
			Mode: github.String(e.Mode),
			Type: github.String(e.Type),
			SHA:  github.String(e.SHA),
		})
	}
	tree, resp, err := s.client.Git.CreateTree(ctx, repo.Owner, repo.Name, baseTree, ghEntries)
	if err != nil {
		return nil, requestError(http.MethodPost, gitPath(repo, "trees"), resp, err)
	}
	return &types.Tree{SHA: tree.GetSHA(), Entries: entries}, nil
}

func commitAuthor(user *types.CommitUser) *github.CommitAuthor {
	if user == nil {
		return nil
	}
	date := user.Date
	return &github.CommitAuthor{
		Name:  github.String(user.Name),
		Email: github.String(user.Email),
		Date:  &date,
	}
}

func (s *GitHubService) CreateCommit(ctx context.Context, repo types.RepositoryID, commit types.Commit) (*types.Commit, error) {
	ghCommit := &github.Commit{
		Message:   github.String(commit.Message),
		Tree:      &github.Tree{SHA: github.String(commit.Tree.SHA)},
		Author:    commitAuthor(commit.Author),
		Committer: commitAuthor(commit.Committer),
	}
	for _, parent := range commit.Parents {
		ghCommit.Parents = append(ghCommit.Parents, &github.Commit{SHA: github.String(parent)})
	}

	created, resp, err := s.client.Git.CreateCommit(ctx, repo.Owner, repo.Name, ghCommit)
	if err != nil {
		return nil, requestError(http.MethodPost, gitPath(repo, "commits"), resp, err)
	}
	out := commit
	out.SHA = created.GetSHA()
	return &out, nil
}

func (s *GitHubService) CreateReference(ctx context.Context, repo types.RepositoryID, ref types.Reference) (*types.Reference, error) {
	created, resp, err := s.client.Git.CreateRef(ctx, repo.Owner, repo.Name, &github.Reference{
		Ref:    github.String(ref.Ref),
		Object: &github.GitObject{SHA: github.String(ref.Object.SHA)},
	})
	if err != nil {
		return nil, requestError(http.MethodPost, gitPath(repo, "refs"), resp, err)
	}
	return &types.Reference{
		Ref:    created.GetRef(),
		Object: types.TypedObject{Type: created.GetObject().GetType(), SHA: created.GetObject().GetSHA()},
	}, nil
}

func (s *GitHubService) EditReference(ctx context.Context, repo types.RepositoryID, ref types.Reference, force bool) (*types.Reference, error) {
	updated, resp, err := s.client.Git.UpdateRef(ctx, repo.Owner, repo.Name, &github.Reference{
		Ref:    github.String(ref.Ref),
		Object: &github.GitObject{SHA: github.String(ref.Object.SHA)},
	}, force)
	if err != nil {
		return nil, requestError(http.MethodPatch, gitPath(repo, "refs/%s", ref.Ref), resp, err)
	}
	return &types.Reference{
		Ref:    updated.GetRef(),
		Object: types.TypedObject{Type: updated.GetObject().GetType(), SHA: updated.GetObject().GetSHA()},
	}, nil
}

func (s *GitHubService) CurrentUser(ctx context.Context) (*types.User, error) {
	user, resp, err := s.client.Users.Get(ctx, "")
	if err != nil {
		return nil, requestError(http.MethodGet, "user", resp, err)
	}
	return &types.User{Login: user.GetLogin(), Name: user.GetName(), Email: user.GetEmail()}, nil
}

func (s *GitHubService) Quota(ctx context.Context) (types.Quota, error) {
	limits, resp, err := s.client.RateLimits(ctx)
	if err != nil {
		return types.Quota{}, requestError(http.MethodGet, "rate_limit", resp, err)
	}
	core := limits.GetCore()
	if core == nil {
		return types.Quota{}, &RequestError{Method: http.MethodGet, Path: "rate_limit", Err: fmt.Errorf("response has no core rate")}
	}
	return types.Quota{Limit: core.Limit, Remaining: core.Remaining, Reset: core.Reset.Time}, nil
}
