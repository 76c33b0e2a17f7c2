package tracker

import (
	"fmt"
	"net/http"
	"strings"
)

// New returns the backend named by kind ("github" or "gitlab").
func New(kind string, httpClient *http.Client, baseURL, token, namespace, repo string) (Tracker, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "", "github":
		gh, err := NewGitHub(httpClient, baseURL, token, namespace, repo)
		if err != nil {
			return nil, err
		}
		return gh, nil
	case "gitlab":
		gl, err := NewGitLab(httpClient, baseURL, token, namespace, repo)
		if err != nil {
			return nil, err
		}
		return gl, nil
	default:
		return nil, fmt.Errorf("unsupported tracker %q", kind)
	}
}
