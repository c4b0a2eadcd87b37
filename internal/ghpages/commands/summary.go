package commands

import (
	"fmt"
	"io"

	"github.com/gingerrexayers/ghpages-go/internal/ghpages/types"
	"github.com/jedib0t/go-pretty/v6/table"
)

// shortSHA abbreviates an object id the way git does. Placeholders and
// other short values are returned as is.
func shortSHA(sha string) string {
	if len(sha) == 40 {
		return sha[:7]
	}
	return sha
}

// RenderSummary prints one row per published batch.
func RenderSummary(out io.Writer, repo types.RepositoryID, ref string, results []types.BatchResult) {
	if len(results) == 0 {
		fmt.Fprintf(out, "Nothing published to %s %s.\n", repo, ref)
		return
	}

	fmt.Fprintf(out, "Published to %s %s:\n", repo, ref)
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.AppendHeader(table.Row{"BATCH", "FILES", "ENTRIES", "TREE", "COMMIT", "PARENT", "REFERENCE"})

	total := 0
	for i, res := range results {
		action := "updated"
		if res.Created {
			action = "created"
		}
		parent := shortSHA(res.Parent)
		if parent == "" {
			parent = "-"
		}
		t.AppendRow(table.Row{
			i + 1,
			fmt.Sprintf("[%d - %d)", res.Start, res.End),
			res.Entries,
			shortSHA(res.Tree),
			shortSHA(res.Commit),
			parent,
			action,
		})
		total += res.End - res.Start
	}
	t.AppendSeparator()
	t.AppendFooter(table.Row{"", total, "", "", "", "", ""})
	t.Render()
}
