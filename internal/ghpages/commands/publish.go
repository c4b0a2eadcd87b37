// Package commands implements the ghpages operations behind the CLI.
package commands

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/gingerrexayers/ghpages-go/internal/ghpages/lib"
	"github.com/gingerrexayers/ghpages-go/internal/ghpages/remote"
	"github.com/gingerrexayers/ghpages-go/internal/ghpages/types"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// NoJekyllPath is the sentinel file that disables Jekyll processing of the site.
const NoJekyllPath = ".nojekyll"

// DefaultUploadConcurrency bounds the parallel blob uploads of one batch.
const DefaultUploadConcurrency = 4

// PublishOptions describes one publish run. Paths are relative to BaseDir,
// in the order they will be committed.
type PublishOptions struct {
	Repo    types.RepositoryID
	BaseDir string
	Paths   []string

	Ref     string
	Prefix  string
	Message string

	Force    bool
	NoJekyll bool
	Merge    bool
	DryRun   bool

	Concurrency int
	BatchSize   int

	Log *zap.SugaredLogger
	// Out receives the dry-run file tree. Nil discards it.
	Out io.Writer
	Now func() time.Time
}

// publisher carries the state that links consecutive batches of a run.
type publisher struct {
	svc    remote.DataService
	opts   PublishOptions
	log    *zap.SugaredLogger
	prefix string

	// placeholder commit of the previous dry-run batch
	prevCommit string
}

// Publish sends opts.Paths to opts.Ref, one commit per batch. Batches run
// strictly in order and the first failure aborts the run.
func Publish(ctx context.Context, svc remote.DataService, opts PublishOptions) ([]types.BatchResult, error) {
	if opts.Log == nil {
		opts.Log = zap.NewNop().Sugar()
	}
	if opts.Out == nil {
		opts.Out = io.Discard
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultUploadConcurrency
	}

	p := &publisher{
		svc:    svc,
		opts:   opts,
		log:    opts.Log,
		prefix: lib.NormalizePrefix(opts.Prefix),
	}

	if opts.DryRun {
		p.log.Info("Dry run mode, repository will not be modified")
	}

	batches := lib.SplitBatches(opts.Paths, opts.BatchSize)
	results := make([]types.BatchResult, 0, len(batches))
	for i, batch := range batches {
		p.log.Infof("Sending batch: [%d - %d)", batch.Start, batch.End)
		res, err := p.publishBatch(ctx, i+1, batch)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}

func (p *publisher) publishBatch(ctx context.Context, n int, batch lib.Batch) (types.BatchResult, error) {
	res := types.BatchResult{Start: batch.Start, End: batch.End}

	ref, err := p.reference(ctx)
	if err != nil {
		return res, err
	}

	entries, err := p.uploadBlobs(ctx, batch.Paths)
	if err != nil {
		return res, err
	}

	if p.opts.NoJekyll && !hasPath(entries, NoJekyllPath) {
		sha, err := p.createEmptyBlob(ctx)
		if err != nil {
			return res, lib.RemoteError("error creating .nojekyll empty blob", err)
		}
		entries = append(entries, types.TreeEntry{Path: NoJekyllPath, Mode: types.ModeBlob, Type: types.TypeBlob, SHA: sha})
	}
	res.Entries = len(entries)

	baseTree, err := p.baseTree(ctx, ref)
	if err != nil {
		return res, err
	}

	p.log.Infof("Creating tree with %d blob entries", len(entries))
	tree, err := p.createTree(ctx, n, baseTree, entries)
	if err != nil {
		return res, lib.RemoteError("error creating tree", err)
	}
	res.Tree = tree

	if p.opts.DryRun {
		printTree(p.opts.Out, p.opts.Repo.String(), entries)
	}

	user, err := p.svc.CurrentUser(ctx)
	if err != nil {
		return res, lib.RemoteError("error retrieving user info", err)
	}

	parent := p.parent(ref)
	res.Parent = parent
	commit, err := p.createCommit(ctx, n, tree, parent, user)
	if err != nil {
		return res, lib.RemoteError("error creating commit", err)
	}
	p.log.Infof("Creating commit with SHA-1: %s", commit)
	res.Commit = commit

	if parent != "" {
		p.log.Infof("Updating reference %s from %s to %s", p.opts.Ref, parent, commit)
		if err := p.editReference(ctx, commit); err != nil {
			return res, lib.RemoteError("error editing reference", err)
		}
	} else {
		p.log.Infof("Creating reference %s starting at commit %s", p.opts.Ref, commit)
		if err := p.createReference(ctx, commit); err != nil {
			return res, lib.RemoteError("error creating reference", err)
		}
		res.Created = true
	}

	p.prevCommit = commit
	return res, nil
}

// reference returns the current branch head, or nil when the branch does
// not exist. An existing reference must point at a commit.
func (p *publisher) reference(ctx context.Context) (*types.Reference, error) {
	ref, err := p.svc.GetReference(ctx, p.opts.Repo, p.opts.Ref)
	if err != nil {
		if remote.IsNotFound(err) {
			return nil, nil
		}
		return nil, lib.RemoteError("error getting reference", err)
	}
	if ref.Object.Type != types.TypeCommit {
		return nil, &lib.Error{
			Kind: lib.ErrInvalidReferenceTarget,
			Op: fmt.Sprintf("existing ref %s points to a %s (%s) instead of a commit",
				ref.Ref, ref.Object.Type, ref.Object.SHA),
		}
	}
	return ref, nil
}

// parent is the commit the new commit builds on. In a dry run nothing was
// written, so later batches chain on the previous placeholder.
func (p *publisher) parent(ref *types.Reference) string {
	if p.opts.DryRun && p.prevCommit != "" {
		return p.prevCommit
	}
	if ref == nil {
		return ""
	}
	return ref.Object.SHA
}

// baseTree is the head commit's tree in merge mode. Otherwise the tree is
// built from this batch's entries alone.
func (p *publisher) baseTree(ctx context.Context, ref *types.Reference) (string, error) {
	if !p.opts.Merge || ref == nil {
		return "", nil
	}
	commit, err := p.svc.GetCommit(ctx, p.opts.Repo, ref.Object.SHA)
	if err != nil {
		return "", lib.RemoteError("error getting commit", err)
	}
	p.log.Infof("Merging with tree %s", commit.Tree.SHA)
	return commit.Tree.SHA, nil
}

// uploadBlobs reads and uploads every file of the batch. Entries keep the
// order of paths whatever order the uploads finish in.
func (p *publisher) uploadBlobs(ctx context.Context, paths []string) ([]types.TreeEntry, error) {
	entries := make([]types.TreeEntry, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.opts.Concurrency)
	for i, path := range paths {
		g.Go(func() error {
			encoded, raw, err := lib.ReadBlob(p.opts.BaseDir, path)
			if err != nil {
				return lib.FilesystemError("error reading file "+path, err)
			}

			sha := lib.GitBlobHash(raw)
			if !p.opts.DryRun {
				sha, err = p.svc.CreateBlob(gctx, p.opts.Repo, types.Blob{Content: encoded, Encoding: types.EncodingBase64})
				if err != nil {
					return lib.RemoteError("error creating blob "+path, err)
				}
			}
			p.log.Debugf("Created blob %s for %s", sha, path)

			entries[i] = types.TreeEntry{
				Path: lib.TreePath(p.prefix, path),
				Mode: types.ModeBlob,
				Type: types.TypeBlob,
				SHA:  sha,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return entries, nil
}

func (p *publisher) createEmptyBlob(ctx context.Context) (string, error) {
	if p.opts.DryRun {
		return lib.EmptyBlobHash, nil
	}
	return p.svc.CreateBlob(ctx, p.opts.Repo, types.Blob{Content: "", Encoding: types.EncodingBase64})
}

func (p *publisher) createTree(ctx context.Context, n int, baseTree string, entries []types.TreeEntry) (string, error) {
	if p.opts.DryRun {
		return fmt.Sprintf("dry-run-tree-%d", n), nil
	}
	tree, err := p.svc.CreateTree(ctx, p.opts.Repo, baseTree, entries)
	if err != nil {
		return "", err
	}
	return tree.SHA, nil
}

func (p *publisher) createCommit(ctx context.Context, n int, tree, parent string, user *types.User) (string, error) {
	if p.opts.DryRun {
		return fmt.Sprintf("dry-run-commit-%d", n), nil
	}

	signature := &types.CommitUser{Name: user.Name, Email: user.Email, Date: p.opts.Now()}
	commit := types.Commit{
		Message:   p.opts.Message,
		Tree:      types.Tree{SHA: tree},
		Author:    signature,
		Committer: signature,
	}
	if parent != "" {
		commit.Parents = []string{parent}
	}

	created, err := p.svc.CreateCommit(ctx, p.opts.Repo, commit)
	if err != nil {
		return "", err
	}
	return created.SHA, nil
}

func (p *publisher) headAt(sha string) types.Reference {
	return types.Reference{Ref: p.opts.Ref, Object: types.TypedObject{Type: types.TypeCommit, SHA: sha}}
}

func (p *publisher) editReference(ctx context.Context, sha string) error {
	if p.opts.DryRun {
		return nil
	}
	_, err := p.svc.EditReference(ctx, p.opts.Repo, p.headAt(sha), p.opts.Force)
	return err
}

func (p *publisher) createReference(ctx context.Context, sha string) error {
	if p.opts.DryRun {
		return nil
	}
	_, err := p.svc.CreateReference(ctx, p.opts.Repo, p.headAt(sha))
	return err
}

func hasPath(entries []types.TreeEntry, path string) bool {
	for _, e := range entries {
		if e.Path == path {
			return true
		}
	}
	return false
}
