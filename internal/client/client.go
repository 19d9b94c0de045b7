package client

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"bridgelog-cli/pkg/models"
)

// Default EEN hosts. The login host serves the two-step auth handshake;
// the resolver (Nexus) host serves EsnDetails; each archiver is addressed
// by DNS using its own id.
const (
	DefaultLoginBaseURL    = "https://login.eagleeyenetworks.com"
	DefaultResolverBaseURL = "https://nexus.aus1hub1.eencloud.com"
	DefaultLogURLFormat    = "http://{archiver}.eagleeyenetworks.com:28080/query/camera_logs"
)

// Timeouts sized to the expected payload of each call. Log pulls can
// stream tens of MB, hence the much larger budget.
const (
	authenticateTimeout = 15 * time.Second
	authorizeTimeout    = 30 * time.Second
	resolveTimeout      = 30 * time.Second
	retrieveTimeout     = 240 * time.Second
)

type EENClient struct {
	HTTP   *resty.Client
	Config ClientConfig
}

type ClientConfig struct {
	LoginBaseURL    string
	ResolverBaseURL string
	LogURLFormat    string // "{archiver}" is replaced with the archiver id
}

func New(cfg ClientConfig) *EENClient {
	if cfg.LoginBaseURL == "" {
		cfg.LoginBaseURL = DefaultLoginBaseURL
	}
	if cfg.ResolverBaseURL == "" {
		cfg.ResolverBaseURL = DefaultResolverBaseURL
	}
	if cfg.LogURLFormat == "" {
		cfg.LogURLFormat = DefaultLogURLFormat
	}

	r := resty.New()
	r.SetHeader("Accept", "application/json")

	return &EENClient{
		HTTP:   r,
		Config: cfg,
	}
}

// logURL resolves the camera_logs endpoint for one archiver.
func (c *EENClient) logURL(archiver string) string {
	return strings.Replace(c.Config.LogURLFormat, "{archiver}", archiver, 1)
}

// sessionCookies builds the cookie pair Nexus and the archivers expect.
// Both cookies carry the same auth_key value.
func sessionCookies(sess models.Session) []*http.Cookie {
	return []*http.Cookie{
		{Name: "auth_key", Value: sess.AuthKey},
		{Name: "vbsadmin_sessionid", Value: sess.AuthKey},
	}
}
