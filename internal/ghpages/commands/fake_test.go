package commands_test

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gingerrexayers/ghpages-go/internal/ghpages/lib"
	"github.com/gingerrexayers/ghpages-go/internal/ghpages/remote"
	"github.com/gingerrexayers/ghpages-go/internal/ghpages/types"
)

type treeCall struct {
	Base    string
	Entries []types.TreeEntry
}

type refCall struct {
	Ref   types.Reference
	Force bool
}

// fakeService is an in-memory host. Object ids are sequential except for
// blobs, which get their real git id.
type fakeService struct {
	mu sync.Mutex

	refs    map[string]types.Reference
	commits map[string]types.Commit
	blobs   map[string][]byte
	user    types.User

	refErr  error
	blobErr error
	treeErr error

	calls   map[string]int
	trees   []treeCall
	created []types.Commit
	edits   []refCall
	creates []types.Reference
}

func newFakeService() *fakeService {
	return &fakeService{
		refs:    map[string]types.Reference{},
		commits: map[string]types.Commit{},
		blobs:   map[string][]byte{},
		user:    types.User{Login: "octocat", Name: "The Octocat", Email: "octocat@example.com"},
		calls:   map[string]int{},
	}
}

// withHead seeds an existing branch whose head commit has the given tree.
func (f *fakeService) withHead(ref, commit, tree string) *fakeService {
	f.refs[ref] = types.Reference{Ref: ref, Object: types.TypedObject{Type: types.TypeCommit, SHA: commit}}
	f.commits[commit] = types.Commit{SHA: commit, Tree: types.Tree{SHA: tree}}
	return f
}

func (f *fakeService) record(method string) {
	f.calls[method]++
}

func (f *fakeService) count(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method]
}

// mutations counts every call that would change the repository.
func (f *fakeService) mutations() int {
	return f.count("CreateBlob") + f.count("CreateTree") + f.count("CreateCommit") +
		f.count("CreateReference") + f.count("EditReference")
}

func notFound(path string) error {
	return &remote.RequestError{Method: http.MethodGet, Path: path, StatusCode: http.StatusNotFound, Err: errors.New("404 Not Found")}
}

func (f *fakeService) CreateBlob(_ context.Context, _ types.RepositoryID, blob types.Blob) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("CreateBlob")
	if f.blobErr != nil {
		return "", f.blobErr
	}
	content, err := base64.StdEncoding.DecodeString(blob.Content)
	if err != nil {
		return "", err
	}
	sha := lib.GitBlobHash(content)
	f.blobs[sha] = content
	return sha, nil
}

func (f *fakeService) GetReference(_ context.Context, _ types.RepositoryID, ref string) (*types.Reference, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("GetReference")
	if f.refErr != nil {
		return nil, f.refErr
	}
	found, ok := f.refs[ref]
	if !ok {
		return nil, notFound("git/ref/" + ref)
	}
	return &found, nil
}

func (f *fakeService) GetCommit(_ context.Context, _ types.RepositoryID, sha string) (*types.Commit, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("GetCommit")
	commit, ok := f.commits[sha]
	if !ok {
		return nil, notFound("git/commits/" + sha)
	}
	return &commit, nil
}

func (f *fakeService) CreateTree(_ context.Context, _ types.RepositoryID, baseTree string, entries []types.TreeEntry) (*types.Tree, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("CreateTree")
	if f.treeErr != nil {
		return nil, f.treeErr
	}
	f.trees = append(f.trees, treeCall{Base: baseTree, Entries: append([]types.TreeEntry(nil), entries...)})
	return &types.Tree{SHA: fmt.Sprintf("tree-%d", len(f.trees)), Entries: entries}, nil
}

func (f *fakeService) CreateCommit(_ context.Context, _ types.RepositoryID, commit types.Commit) (*types.Commit, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("CreateCommit")
	commit.SHA = fmt.Sprintf("commit-%d", len(f.created)+1)
	f.created = append(f.created, commit)
	f.commits[commit.SHA] = commit
	return &commit, nil
}

func (f *fakeService) CreateReference(_ context.Context, _ types.RepositoryID, ref types.Reference) (*types.Reference, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("CreateReference")
	if _, exists := f.refs[ref.Ref]; exists {
		return nil, &remote.RequestError{Method: http.MethodPost, Path: "git/refs", StatusCode: http.StatusUnprocessableEntity, Err: errors.New("reference already exists")}
	}
	f.creates = append(f.creates, ref)
	f.refs[ref.Ref] = ref
	return &ref, nil
}

func (f *fakeService) EditReference(_ context.Context, _ types.RepositoryID, ref types.Reference, force bool) (*types.Reference, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("EditReference")
	if _, exists := f.refs[ref.Ref]; !exists {
		return nil, notFound("git/refs/" + ref.Ref)
	}
	f.edits = append(f.edits, refCall{Ref: ref, Force: force})
	f.refs[ref.Ref] = ref
	return &ref, nil
}

func (f *fakeService) CurrentUser(context.Context) (*types.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("CurrentUser")
	user := f.user
	return &user, nil
}

func (f *fakeService) Quota(context.Context) (types.Quota, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("Quota")
	return types.Quota{Limit: 5000, Remaining: 5000, Reset: time.Now().Add(time.Second)}, nil
}
