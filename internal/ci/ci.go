// Package ci provides helpers for discovering CI metadata.
package ci

import (
	"fmt"
	"net/url"
	"os"
	"strings"
)

// CIKind represents the type of CI, which is also the tracker the CI hosts.
type CIKind int

const (
	// CIUnknown indicates the CI provider could not be identified.
	CIUnknown CIKind = iota
	// CIGitHub identifies GitHub Actions environments.
	CIGitHub
	// CIGitLab identifies GitLab CI environments.
	CIGitLab
)

// LookupFunc fetches environment variables and defaults to os.Getenv.
type LookupFunc func(string) string

// CIEnvironment captures canonical CI metadata derived from environment variables.
type CIEnvironment struct {
	Kind               CIKind // Kind identifies the CI provider.
	VCSServerURL       string // VCSServerURL is the scheme and host of the VCS server (e.g. https://vcs.domain).
	RepositoryName     string // RepositoryName is the repository slug without namespace.
	RepositoryFullName string // RepositoryFullName is the namespace-qualified repository name.
	Namespace          string // Namespace is the owner or project namespace.
	Token              string // Token is the job token exposed by the CI, if any.
}

// String returns the human-readable string representation of a CIKind.
func (c CIKind) String() string {
	switch c {
	case CIGitHub:
		return "github"
	case CIGitLab:
		return "gitlab"
	default:
		return "unknown"
	}
}

// ParseCIKind converts a string identifier into a CIKind value.
func ParseCIKind(raw string) (CIKind, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "github":
		return CIGitHub, nil
	case "gitlab":
		return CIGitLab, nil
	default:
		return CIUnknown, fmt.Errorf("unsupported ci kind %q", raw)
	}
}

// KindFromHost guesses the provider from a VCS host name.
func KindFromHost(host string) CIKind {
	host = strings.ToLower(host)
	switch {
	case strings.Contains(host, "github"):
		return CIGitHub
	case strings.Contains(host, "gitlab"):
		return CIGitLab
	default:
		return CIUnknown
	}
}

// DetectCIKind attempts to infer the CI provider from well-known environment variables.
func DetectCIKind() CIKind {
	return detectCIKindWithLookup(os.Getenv)
}

func detectCIKindWithLookup(lookup LookupFunc) CIKind {
	if lookup == nil {
		lookup = os.Getenv
	}

	if lookup("GITHUB_REPOSITORY") != "" || lookup("GITHUB_ACTIONS") != "" {
		return CIGitHub
	}
	if strings.EqualFold(lookup("GITLAB_CI"), "true") || lookup("CI_PROJECT_PATH") != "" {
		return CIGitLab
	}
	return CIUnknown
}

// GetCIDefaultEnvVars returns CI environment variables for the provided kind using the process environment.
func GetCIDefaultEnvVars(kind CIKind) (CIEnvironment, error) {
	return getCIDefaultEnvVars(kind, os.Getenv)
}

func getCIDefaultEnvVars(kind CIKind, lookup LookupFunc) (CIEnvironment, error) {
	if lookup == nil {
		lookup = os.Getenv
	}

	switch kind {
	case CIGitHub:
		return extractGitHubVariables(lookup), nil
	case CIGitLab:
		return extractGitLabVariables(lookup), nil
	default:
		return CIEnvironment{}, fmt.Errorf("unsupported ci kind: %s", kind)
	}
}

// extractGitHubVariables builds the CIEnvironment from GitHub-specific variables.
// See https://docs.github.com/en/actions/reference/workflows-and-actions/variables.
func extractGitHubVariables(lookup LookupFunc) CIEnvironment {
	fullName := lookup("GITHUB_REPOSITORY")
	namespace := lookup("GITHUB_REPOSITORY_OWNER")
	repoName := ""
	if i := strings.LastIndex(fullName, "/"); i >= 0 && i < len(fullName)-1 {
		repoName = fullName[i+1:]
		if namespace == "" {
			namespace = fullName[:i]
		}
	}

	return CIEnvironment{
		Kind:               CIGitHub,
		VCSServerURL:       lookup("GITHUB_SERVER_URL"),
		RepositoryName:     repoName,
		RepositoryFullName: fullName,
		Namespace:          namespace,
		Token:              lookup("GITHUB_TOKEN"),
	}
}

// extractGitLabVariables builds the CIEnvironment from GitLab-specific variables.
// See https://docs.gitlab.com/ci/variables/predefined_variables/.
func extractGitLabVariables(lookup LookupFunc) CIEnvironment {
	return CIEnvironment{
		Kind:               CIGitLab,
		VCSServerURL:       lookup("CI_SERVER_URL"),
		RepositoryName:     lookup("CI_PROJECT_NAME"),
		RepositoryFullName: lookup("CI_PROJECT_PATH"),
		Namespace:          lookup("CI_PROJECT_NAMESPACE"),
		Token:              lookup("GITLAB_TOKEN"),
	}
}

// isPublicHost reports whether serverURL points at github.com or gitlab.com,
// which need no custom API base URL.
func isPublicHost(serverURL string) bool {
	u, err := url.Parse(serverURL)
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Hostname())
	return host == "github.com" || host == "gitlab.com"
}
