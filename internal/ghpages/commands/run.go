package commands

import (
	"context"
	"io"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/gingerrexayers/ghpages-go/internal/ghpages/auth"
	"github.com/gingerrexayers/ghpages-go/internal/ghpages/config"
	"github.com/gingerrexayers/ghpages-go/internal/ghpages/lib"
	"github.com/gingerrexayers/ghpages-go/internal/ghpages/remote"
	"github.com/gingerrexayers/ghpages-go/internal/ghpages/types"
	"go.uber.org/zap"
)

// Run is the main function for the 'publish' command. It resolves the
// target repository and credentials, builds the client through factory and
// publishes the output directory. The summary table is written to out.
func Run(ctx context.Context, cfg config.Config, factory remote.Factory, out io.Writer, log *zap.SugaredLogger) ([]types.BatchResult, error) {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	if cfg.Skip {
		log.Info("Site publishing skipped")
		return nil, nil
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if factory == nil {
		factory = remote.NewClient
	}

	repo, err := lib.ResolveRepository(cfg.RepositoryOwner, cfg.RepositoryName, cfg.Project)
	if err != nil {
		return nil, err
	}
	log.Debugf("Publishing to repository %s", repo)

	settings, err := loadSettings(cfg)
	if err != nil {
		return nil, err
	}

	creds, err := auth.Resolve(auth.Source{
		Username:    cfg.Username,
		Password:    cfg.Password,
		OAuth2Token: cfg.OAuth2Token,
		ServerID:    cfg.Server,
	}, settings, log)
	if err != nil {
		return nil, err
	}

	proxy, err := selectProxy(settings, cfg)
	if err != nil {
		return nil, err
	}

	svc, err := factory(ctx, remote.ClientConfig{
		Host:        cfg.Host,
		Credentials: creds,
		Proxy:       proxy,
		Logger:      log,
	})
	if err != nil {
		return nil, err
	}
	limited := remote.NewRateLimitedService(svc, log)

	baseDir, err := filepath.Abs(cfg.OutputDirectory)
	if err != nil {
		return nil, lib.FilesystemError("could not resolve output directory "+cfg.OutputDirectory, err)
	}
	log.Debugf("Scanning %s and including %v and excluding %v", baseDir, cfg.Includes, cfg.Excludes)

	paths, err := lib.MatchingPaths(baseDir, cfg.Includes, cfg.Excludes)
	if err != nil {
		return nil, err
	}
	if len(paths) == 1 {
		log.Info("Creating 1 blob")
	} else {
		log.Infof("Creating %d blobs", len(paths))
	}
	log.Debugf("Scanned files to include: %v", paths)

	results, err := Publish(ctx, limited, PublishOptions{
		Repo:        repo,
		BaseDir:     baseDir,
		Paths:       paths,
		Ref:         cfg.Branch,
		Prefix:      cfg.Path,
		Message:     cfg.Message,
		Force:       cfg.Force,
		NoJekyll:    cfg.NoJekyll,
		Merge:       cfg.Merge,
		DryRun:      cfg.DryRun,
		Concurrency: cfg.UploadConcurrency,
		BatchSize:   lib.DefaultBatchSize,
		Log:         log,
		Out:         out,
	})
	if err != nil {
		return results, err
	}

	RenderSummary(out, repo, cfg.Branch, results)
	return results, nil
}

// loadSettings reads the settings store and attaches the master password
// cipher. A missing default store yields nil settings.
func loadSettings(cfg config.Config) (*auth.Settings, error) {
	path := cfg.SettingsPath
	if path == "" {
		path = auth.DefaultSettingsPath()
	}
	if path == "" {
		return nil, nil
	}

	settings, err := auth.LoadSettings(path, cfg.SettingsRequired)
	if err != nil || settings == nil {
		return nil, err
	}
	settings.Decrypter = auth.SecretCipher{MasterPassword: cfg.MasterPassword}
	return settings, nil
}

// proxyHost is the hostname requests will go to, used for non-proxy matching.
func proxyHost(host string) string {
	host = strings.TrimSpace(host)
	if host == "" {
		return auth.DefaultHost
	}
	if strings.Contains(host, "://") {
		if u, err := url.Parse(host); err == nil && u.Hostname() != "" {
			return u.Hostname()
		}
	}
	return host
}

func selectProxy(settings *auth.Settings, cfg config.Config) (*auth.Proxy, error) {
	proxy := auth.SelectProxy(settings, cfg.Server, proxyHost(cfg.Host))
	if proxy == nil {
		return nil, nil
	}
	decrypted, err := settings.DecryptProxy(*proxy)
	if err != nil {
		return nil, err
	}
	return &decrypted, nil
}
