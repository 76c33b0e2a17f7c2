package ci

import (
	"strings"

	"github.com/hashicorp/go-hclog"
)

// Resolution contains CI environment metadata resolved for an import run.
type Resolution struct {
	Kind       CIKind
	ServerURL  string // empty for github.com and gitlab.com
	Namespace  string
	Repository string
	Token      string
	Hydrated   bool
}

// ResolveFromEnvironment collects tracker coordinates from the process
// environment. providedKind, when set, wins over detection; a mismatch with
// the detected CI is only logged.
func ResolveFromEnvironment(log hclog.Logger, providedKind string) Resolution {
	return resolveWithLookup(log, providedKind, nil)
}

func resolveWithLookup(log hclog.Logger, providedKind string, lookup LookupFunc) Resolution {
	if log == nil {
		log = hclog.NewNullLogger()
	}

	kind := CIUnknown
	if strings.TrimSpace(providedKind) != "" {
		parsed, err := ParseCIKind(providedKind)
		if err != nil {
			log.Warn("unable to interpret tracker option; falling back to CI detection", "tracker", providedKind, "error", err)
		} else {
			kind = parsed
		}
	}

	detected := detectCIKindWithLookup(lookup)
	switch {
	case kind == CIUnknown:
		kind = detected
	case detected != CIUnknown && detected != kind:
		log.Warn("provided tracker differs from detected CI environment", "detected", detected.String(), "provided", kind.String())
		return Resolution{Kind: kind}
	}
	if kind == CIUnknown {
		return Resolution{}
	}

	env, err := getCIDefaultEnvVars(kind, lookup)
	if err != nil {
		log.Debug("unable to hydrate from ci environment", "kind", kind.String(), "error", err)
		return Resolution{Kind: kind}
	}

	res := Resolution{
		Kind:       kind,
		Namespace:  env.Namespace,
		Repository: env.RepositoryName,
		Token:      env.Token,
		Hydrated:   env.Namespace != "" || env.RepositoryName != "",
	}
	if env.VCSServerURL != "" && !isPublicHost(env.VCSServerURL) {
		res.ServerURL = strings.TrimSuffix(env.VCSServerURL, "/")
	}
	if res.Hydrated {
		log.Debug("hydrated repository from CI environment", "kind", kind.String(),
			"namespace", res.Namespace, "repository", res.Repository)
	}
	return res
}
