// Package config binds the publish settings from flags, environment
// variables and an optional config file.
package config

import (
	"errors"
	"os"
	"strings"

	"github.com/gingerrexayers/ghpages-go/internal/ghpages/lib"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// EnvPrefix prefixes every environment variable, e.g. GHPAGES_SITE_MESSAGE.
	EnvPrefix = "GHPAGES"

	// DefaultConfigName is looked up in the working directory.
	DefaultConfigName = ".ghpages"

	DefaultBranch          = "refs/heads/gh-pages"
	DefaultOutputDirectory = "target/site"
	DefaultConcurrency     = 4
)

// Config keys.
const (
	KeyBranch            = "site.branch"
	KeyPath              = "site.path"
	KeyMessage           = "site.message"
	KeyRepositoryOwner   = "site.repositoryowner"
	KeyRepositoryName    = "site.repositoryname"
	KeyIncludes          = "site.includes"
	KeyExcludes          = "site.excludes"
	KeyOutputDirectory   = "site.outputdirectory"
	KeyForce             = "site.force"
	KeyNoJekyll          = "site.nojekyll"
	KeyMerge             = "site.merge"
	KeyDryRun            = "site.dryrun"
	KeySkip              = "site.skip"
	KeyUploadConcurrency = "site.uploadconcurrency"

	KeyProjectURL              = "project.url"
	KeyProjectSCMURL           = "project.scm.url"
	KeyProjectSCMConnection    = "project.scm.connection"
	KeyProjectSCMDevConnection = "project.scm.developerconnection"
	KeySettings                = "settings"
	KeyMasterPassword          = "masterpassword"
	KeyDebug                   = "debug"
)

// Config is the fully resolved configuration of one publish run.
type Config struct {
	Branch          string
	Path            string
	Message         string
	RepositoryOwner string
	RepositoryName  string

	Username    string
	Password    string
	OAuth2Token string
	Host        string
	Server      string

	Includes        []string
	Excludes        []string
	OutputDirectory string

	Force    bool
	NoJekyll bool
	Merge    bool
	DryRun   bool
	Skip     bool

	UploadConcurrency int

	Project lib.ProjectMetadata

	SettingsPath     string
	SettingsRequired bool
	MasterPassword   string
	Debug            bool
}

// flagKeys maps CLI flag names to config keys.
var flagKeys = map[string]string{
	"branch":                   KeyBranch,
	"path":                     KeyPath,
	"message":                  KeyMessage,
	"repository-owner":         KeyRepositoryOwner,
	"repository-name":          KeyRepositoryName,
	"include":                  KeyIncludes,
	"exclude":                  KeyExcludes,
	"output-directory":         KeyOutputDirectory,
	"force":                    KeyForce,
	"no-jekyll":                KeyNoJekyll,
	"merge":                    KeyMerge,
	"dry-run":                  KeyDryRun,
	"skip":                     KeySkip,
	"upload-concurrency":       KeyUploadConcurrency,
	"username":                 "site.username",
	"password":                 "site.password",
	"oauth2-token":             "site.oauth2token",
	"host":                     "site.host",
	"server":                   "site.server",
	"project-url":              KeyProjectURL,
	"scm-url":                  KeyProjectSCMURL,
	"scm-connection":           KeyProjectSCMConnection,
	"scm-developer-connection": KeyProjectSCMDevConnection,
	"settings":                 KeySettings,
	"master-password":          KeyMasterPassword,
	"debug":                    KeyDebug,
}

// New returns a viper instance with defaults and environment binding set up.
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv(KeyMasterPassword, EnvPrefix+"_MASTER_PASSWORD", EnvPrefix+"_MASTERPASSWORD")

	v.SetDefault(KeyBranch, DefaultBranch)
	v.SetDefault(KeyOutputDirectory, DefaultOutputDirectory)
	v.SetDefault(KeyUploadConcurrency, DefaultConcurrency)
	return v
}

// BindFlags binds every known flag present in flags to its config key.
func BindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for name, key := range flagKeys {
		if f := flags.Lookup(name); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return err
			}
		}
	}
	return nil
}

// ReadFile loads path, or ./.ghpages.{yaml,toml,json} when path is empty.
// A missing default file is not an error.
func ReadFile(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return lib.ConfigError("could not read config %s: %v", path, err)
		}
		return nil
	}

	v.SetConfigName(DefaultConfigName)
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return lib.ConfigError("could not read config: %v", err)
	}
	return nil
}

// siteOrGlobal reads "site.<name>" and falls back to "global.<name>".
func siteOrGlobal(v *viper.Viper, name string) string {
	if value := v.GetString("site." + name); value != "" {
		return value
	}
	return v.GetString("global." + name)
}

// Load resolves a Config. Validation of required values is left to
// Validate so that a skipped run needs nothing else.
func Load(v *viper.Viper) Config {
	cfg := Config{
		Branch:            v.GetString(KeyBranch),
		Path:              v.GetString(KeyPath),
		Message:           v.GetString(KeyMessage),
		RepositoryOwner:   v.GetString(KeyRepositoryOwner),
		RepositoryName:    v.GetString(KeyRepositoryName),
		Username:          siteOrGlobal(v, "username"),
		Password:          siteOrGlobal(v, "password"),
		OAuth2Token:       siteOrGlobal(v, "oauth2token"),
		Host:              siteOrGlobal(v, "host"),
		Server:            siteOrGlobal(v, "server"),
		Includes:          lib.RemoveEmpties(v.GetStringSlice(KeyIncludes)),
		Excludes:          lib.RemoveEmpties(v.GetStringSlice(KeyExcludes)),
		OutputDirectory:   v.GetString(KeyOutputDirectory),
		Force:             v.GetBool(KeyForce),
		NoJekyll:          v.GetBool(KeyNoJekyll),
		Merge:             v.GetBool(KeyMerge),
		DryRun:            v.GetBool(KeyDryRun),
		Skip:              v.GetBool(KeySkip),
		UploadConcurrency: v.GetInt(KeyUploadConcurrency),
		Project: lib.ProjectMetadata{
			URL:                    v.GetString(KeyProjectURL),
			SCMURL:                 v.GetString(KeyProjectSCMURL),
			SCMConnection:          v.GetString(KeyProjectSCMConnection),
			SCMDeveloperConnection: v.GetString(KeyProjectSCMDevConnection),
		},
		SettingsPath:   v.GetString(KeySettings),
		MasterPassword: v.GetString(KeyMasterPassword),
		Debug:          v.GetBool(KeyDebug),
	}
	cfg.SettingsRequired = cfg.SettingsPath != ""
	if cfg.Branch == "" {
		cfg.Branch = DefaultBranch
	}
	if cfg.UploadConcurrency <= 0 {
		cfg.UploadConcurrency = 1
	}
	if dir, err := os.Getwd(); err == nil {
		cfg.Project.Dir = dir
	}
	return cfg
}

// Validate checks the values a non-skipped run cannot do without.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Message) == "" {
		return lib.ConfigError("a commit message is required (--message)")
	}
	if strings.TrimSpace(c.OutputDirectory) == "" {
		return lib.ConfigError("an output directory is required")
	}
	return nil
}
