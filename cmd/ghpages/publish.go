package main

import (
	"github.com/gingerrexayers/ghpages-go/internal/ghpages/commands"
	"github.com/gingerrexayers/ghpages-go/internal/ghpages/config"
	"github.com/gingerrexayers/ghpages-go/internal/ghpages/lib"
	"github.com/gingerrexayers/ghpages-go/internal/ghpages/remote"
	"github.com/spf13/cobra"
)

func NewPublishCommand() *cobra.Command {
	var configFile string

	cmd := &cobra.Command{
		Use:   "publish [directory]",
		Short: "Publish a directory to a branch of a GitHub repository.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v := config.New()
			if err := config.BindFlags(v, cmd.Flags()); err != nil {
				return err
			}
			if err := config.ReadFile(v, configFile); err != nil {
				return err
			}
			if len(args) > 0 {
				v.Set(config.KeyOutputDirectory, args[0])
			}

			cfg := config.Load(v)
			log := lib.NewLogger(cfg.Debug)
			defer func() { _ = log.Sync() }()

			_, err := commands.Run(cmd.Context(), cfg, remote.NewClient, cmd.OutOrStdout(), log)
			return err
		},
	}

	f := cmd.Flags()
	f.StringVar(&configFile, "config", "", "Config file (default .ghpages.yaml in the working directory)")
	f.StringP("message", "m", "", "Commit message (required)")
	f.String("branch", config.DefaultBranch, "Reference to update")
	f.String("path", "", "Destination directory inside the branch")
	f.String("repository-owner", "", "Owner of the target repository")
	f.String("repository-name", "", "Name of the target repository")
	f.StringSlice("include", nil, "Glob of files to include, relative to the output directory; '*' stays in one directory, '**' spans any (repeatable)")
	f.StringSlice("exclude", nil, "Glob of files to exclude, relative to the output directory (repeatable)")
	f.String("output-directory", config.DefaultOutputDirectory, "Directory to publish")
	f.Bool("force", false, "Force the reference update")
	f.Bool("no-jekyll", false, "Add a .nojekyll file at the root of the branch")
	f.Bool("merge", false, "Merge with the existing branch content")
	f.Bool("dry-run", false, "Show what would be published without modifying the repository")
	f.Bool("skip", false, "Skip publishing")
	f.Int("upload-concurrency", config.DefaultConcurrency, "Parallel blob uploads per batch")
	f.String("username", "", "User name for basic authentication")
	f.String("password", "", "Password for basic authentication")
	f.String("oauth2-token", "", "OAuth2 access token")
	f.String("host", "", "API host for GitHub Enterprise")
	f.String("server", "", "Server id in the settings file holding credentials")
	f.String("project-url", "", "Project URL used to infer the repository")
	f.String("scm-url", "", "SCM URL used to infer the repository")
	f.String("scm-connection", "", "SCM connection used to infer the repository")
	f.String("scm-developer-connection", "", "SCM developer connection used to infer the repository")
	f.String("settings", "", "Settings file (default ~/.ghpages/settings.yaml)")
	f.String("master-password", "", "Master password for encrypted settings values")

	_ = cmd.RegisterFlagCompletionFunc("branch", refCompletions)
	return cmd
}
