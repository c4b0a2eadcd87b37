package auth

import (
	"strings"

	"github.com/gingerrexayers/ghpages-go/internal/ghpages/lib"
	"go.uber.org/zap"
)

// Method is how requests are authenticated.
type Method int

const (
	MethodNone Method = iota
	MethodBasic
	MethodToken
)

func (m Method) String() string {
	switch m {
	case MethodBasic:
		return "basic"
	case MethodToken:
		return "oauth2-token"
	default:
		return "none"
	}
}

// Credentials is the single authentication method chosen for a run.
type Credentials struct {
	Method   Method
	Username string
	Password string
	Token    string
}

// Source holds every configured credential candidate. Any field may be empty.
type Source struct {
	Username    string
	Password    string
	OAuth2Token string
	ServerID    string
}

// Resolve picks credentials in strict priority order: explicit username and
// password, explicit OAuth2 token, then the settings server named by
// ServerID. A server entry with a password but no username is treated as
// an OAuth2 token.
func Resolve(src Source, settings *Settings, log *zap.SugaredLogger) (Credentials, error) {
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	if src.Username != "" && src.Password != "" {
		log.Debugf("Using basic authentication with username: %s", src.Username)
		return Credentials{Method: MethodBasic, Username: src.Username, Password: src.Password}, nil
	}

	if src.OAuth2Token != "" {
		log.Debug("Using OAuth2 access token authentication")
		return Credentials{Method: MethodToken, Token: src.OAuth2Token}, nil
	}

	if strings.TrimSpace(src.ServerID) != "" {
		creds, ok, err := serverCredentials(src.ServerID, settings, log)
		if err != nil {
			return Credentials{}, err
		}
		if ok {
			return creds, nil
		}
	}

	return Credentials{}, lib.ConfigError("no authentication credentials configured")
}

func serverCredentials(serverID string, settings *Settings, log *zap.SugaredLogger) (Credentials, bool, error) {
	server := settings.Server(serverID)
	if server == nil {
		return Credentials{}, false, lib.ConfigError("server '%s' not found in settings", serverID)
	}
	log.Debugf("Using '%s' server credentials", serverID)

	decrypted, err := settings.DecryptServer(*server)
	if err != nil {
		return Credentials{}, false, err
	}

	if decrypted.Username != "" && decrypted.Password != "" {
		log.Debugf("Using basic authentication with username: %s", decrypted.Username)
		return Credentials{Method: MethodBasic, Username: decrypted.Username, Password: decrypted.Password}, true, nil
	}
	if decrypted.Password != "" {
		log.Debug("Using OAuth2 access token authentication")
		return Credentials{Method: MethodToken, Token: decrypted.Password}, true, nil
	}

	log.Debugf("Server '%s' is missing username/password credentials", serverID)
	return Credentials{}, false, nil
}
