package commands

import (
	"io"
	"path"
	"sort"
	"strings"

	"github.com/gingerrexayers/ghpages-go/internal/ghpages/types"
	"github.com/xlab/treeprint"
)

// printTree writes the destination layout of entries, one branch per
// directory, each file annotated with its blob id.
func printTree(w io.Writer, root string, entries []types.TreeEntry) {
	sorted := make([]types.TreeEntry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Path < sorted[j].Path })

	tree := treeprint.New()
	tree.SetValue(root)
	branches := map[string]treeprint.Tree{"": tree}

	var branchFor func(dir string) treeprint.Tree
	branchFor = func(dir string) treeprint.Tree {
		if b, ok := branches[dir]; ok {
			return b
		}
		parent, name := path.Split(dir)
		b := branchFor(strings.TrimSuffix(parent, "/")).AddBranch(name)
		branches[dir] = b
		return b
	}

	for _, e := range sorted {
		dir, name := path.Split(e.Path)
		branchFor(strings.TrimSuffix(dir, "/")).AddMetaNode(shortSHA(e.SHA), name)
	}

	_, _ = io.WriteString(w, tree.String())
}
