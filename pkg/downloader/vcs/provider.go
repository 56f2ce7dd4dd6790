package vcs

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/drupalprojects/composer/pkg/session"
)

// DefaultHost is the hosting provider recognized when none is configured.
const DefaultHost = "github.com"

// Provider recognizes the repository URLs of one hosting service.
type Provider struct {
	host    string
	repoURL *regexp.Regexp
	sshURL  *regexp.Regexp
	pushURL *regexp.Regexp
}

// NewProvider creates a provider for host, e.g. "github.com".
func NewProvider(host string) *Provider {
	host = strings.ToLower(strings.TrimSpace(host))
	h := regexp.QuoteMeta(host)
	return &Provider{
		host:    host,
		repoURL: regexp.MustCompile(`^(?:https?|git)(://` + h + `/.*)`),
		sshURL:  regexp.MustCompile(`(?i)^git@` + h + `:(.+?)\.git$`),
		pushURL: regexp.MustCompile(`^(?:https?|git)://` + h + `/([^/]+)/([^/]+?)(?:\.git)?$`),
	}
}

// Providers builds providers for hosts, defaulting to DefaultHost.
func Providers(hosts ...string) []*Provider {
	if len(hosts) == 0 {
		hosts = []string{DefaultHost}
	}
	out := make([]*Provider, 0, len(hosts))
	for _, h := range hosts {
		if strings.TrimSpace(h) != "" {
			out = append(out, NewProvider(h))
		}
	}
	return out
}

// Host returns the provider's host name.
func (p *Provider) Host() string { return p.host }

// MatchRepoURL reports whether rawURL is a repository URL of this provider
// over git, http or https, and returns everything from "://" on, ready to be
// prefixed with another protocol.
func (p *Provider) MatchRepoURL(rawURL string) (string, bool) {
	m := p.repoURL.FindStringSubmatch(rawURL)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// MatchSSH reports whether rawURL is an SSH repository URL of this provider
// ("git@host:owner/repo.git") and returns the "owner/repo" part.
func (p *Provider) MatchSSH(rawURL string) (string, bool) {
	m := p.sshURL.FindStringSubmatch(rawURL)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// PushURL returns the SSH push URL for a public repository URL of this
// provider.
func (p *Provider) PushURL(rawURL string) (string, bool) {
	m := p.pushURL.FindStringSubmatch(rawURL)
	if m == nil {
		return "", false
	}
	return "git@" + p.host + ":" + m[1] + "/" + m[2] + ".git", true
}

// AuthenticatedURL returns the HTTPS URL of repo with cred embedded.
func (p *Provider) AuthenticatedURL(repo string, cred session.Credential) string {
	u := url.URL{
		Scheme: "https",
		User:   url.UserPassword(cred.Username, cred.Password),
		Host:   p.host,
		Path:   "/" + repo + ".git",
	}
	return u.String()
}
