package main

import (
	"strings"

	"github.com/gingerrexayers/ghpages-go/internal/ghpages/config"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/spf13/cobra"
)

// refCompletions suggests the default pages branch plus the local branches
// of the repository containing the working directory.
func refCompletions(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	suggestions := []string{config.DefaultBranch}

	repo, err := git.PlainOpenWithOptions(".", &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return suggestions, cobra.ShellCompDirectiveNoFileComp
	}
	branches, err := repo.Branches()
	if err != nil {
		return suggestions, cobra.ShellCompDirectiveNoFileComp
	}
	_ = branches.ForEach(func(ref *plumbing.Reference) error {
		name := ref.Name().String()
		if name != config.DefaultBranch && strings.HasPrefix(name, toComplete) {
			suggestions = append(suggestions, name)
		}
		return nil
	})
	return suggestions, cobra.ShellCompDirectiveNoFileComp
}
