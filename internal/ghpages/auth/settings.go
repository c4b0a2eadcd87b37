// Package auth resolves how ghpages authenticates against the host: the
// settings store, encrypted secrets, credentials and the outbound proxy.
package auth

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gingerrexayers/ghpages-go/internal/ghpages/lib"
	"gopkg.in/yaml.v3"
)

// SettingsDirName and SettingsFilename locate the default settings store
// under the user's home directory.
const (
	SettingsDirName  = ".ghpages"
	SettingsFilename = "settings.yaml"
)

// Server is a named credential entry.
type Server struct {
	ID       string `yaml:"id"`
	Username string `yaml:"username,omitempty"`
	Password string `yaml:"password,omitempty"`
}

// Proxy is an outbound HTTP proxy definition.
type Proxy struct {
	ID            string `yaml:"id,omitempty"`
	Active        bool   `yaml:"active"`
	Protocol      string `yaml:"protocol"`
	Host          string `yaml:"host"`
	Port          int    `yaml:"port"`
	Username      string `yaml:"username,omitempty"`
	Password      string `yaml:"password,omitempty"`
	NonProxyHosts string `yaml:"nonProxyHosts,omitempty"`
}

// Settings is the credential store. Secrets may be encrypted; Decrypter,
// when set, is used to reveal them.
type Settings struct {
	Servers []Server `yaml:"servers"`
	Proxies []Proxy  `yaml:"proxies"`

	Decrypter Decrypter `yaml:"-"`
}

// DefaultSettingsPath returns ~/.ghpages/settings.yaml.
func DefaultSettingsPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, SettingsDirName, SettingsFilename)
}

// LoadSettings reads the settings store at path. When the file does not
// exist and required is false, it returns nil settings and no error.
func LoadSettings(path string, required bool) (*Settings, error) {
	if path == "" {
		if required {
			return nil, lib.ConfigError("no settings file given")
		}
		return nil, nil
	}
	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !required {
			return nil, nil
		}
		return nil, lib.ConfigError("could not read settings %s: %v", path, err)
	}

	var settings Settings
	if err := yaml.Unmarshal(content, &settings); err != nil {
		return nil, lib.ConfigError("could not parse settings %s: %v", path, err)
	}
	return &settings, nil
}

// Server returns the server with the given id, or nil.
func (s *Settings) Server(id string) *Server {
	if s == nil {
		return nil
	}
	for i := range s.Servers {
		if s.Servers[i].ID == id {
			return &s.Servers[i]
		}
	}
	return nil
}

func (s *Settings) decrypt(value string) (string, error) {
	if s == nil || s.Decrypter == nil {
		return value, nil
	}
	return s.Decrypter.Decrypt(value)
}

// DecryptServer returns a copy of server with its password revealed.
func (s *Settings) DecryptServer(server Server) (Server, error) {
	password, err := s.decrypt(server.Password)
	if err != nil {
		return Server{}, lib.ConfigError("could not decrypt password of server '%s': %v", server.ID, err)
	}
	server.Password = password
	return server, nil
}

// DecryptProxy returns a copy of proxy with its password revealed.
func (s *Settings) DecryptProxy(proxy Proxy) (Proxy, error) {
	password, err := s.decrypt(proxy.Password)
	if err != nil {
		return Proxy{}, lib.ConfigError("could not decrypt password of proxy '%s': %v", proxy.ID, err)
	}
	proxy.Password = password
	return proxy, nil
}
