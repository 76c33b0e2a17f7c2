package importflaws

import (
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scan-io-git/flaw-importer/pkg/shared/config"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"GITHUB_ACTIONS", "GITHUB_REPOSITORY", "GITHUB_REPOSITORY_OWNER", "GITHUB_SERVER_URL",
		"GITHUB_OWNER", "GITHUB_REPO", "GITHUB_TOKEN",
		"GITLAB_CI", "CI_PROJECT_PATH", "CI_PROJECT_NAMESPACE", "CI_PROJECT_NAME", "CI_SERVER_URL", "GITLAB_TOKEN",
	} {
		t.Setenv(k, "")
	}
}

func TestApplyURL(t *testing.T) {
	testCases := []struct {
		name string
		in   RunOptions
		want RunOptions
	}{
		{
			name: "github.com",
			in:   RunOptions{URL: "https://github.com/octo/app"},
			want: RunOptions{URL: "https://github.com/octo/app", Namespace: "octo", Repository: "app", Tracker: "github"},
		},
		{
			name: "self hosted gitlab",
			in:   RunOptions{URL: "git@gitlab.example.com:team/svc.git"},
			want: RunOptions{URL: "git@gitlab.example.com:team/svc.git", Namespace: "team", Repository: "svc", Tracker: "gitlab", TrackerURL: "https://gitlab.example.com"},
		},
		{
			name: "flags win",
			in:   RunOptions{URL: "https://github.com/octo/app", Namespace: "other", Tracker: "gitlab"},
			want: RunOptions{URL: "https://github.com/octo/app", Namespace: "other", Repository: "app", Tracker: "gitlab"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.in
			require.NoError(t, ApplyURL(&got))
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestApplyURLInvalid(t *testing.T) {
	o := RunOptions{URL: "https://github.com/"}
	assert.Error(t, ApplyURL(&o))
}

func TestApplyEnvironmentFallbacks(t *testing.T) {
	t.Run("github actions", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("GITHUB_ACTIONS", "true")
		t.Setenv("GITHUB_REPOSITORY", "octo/app")
		t.Setenv("GITHUB_REPOSITORY_OWNER", "octo")
		t.Setenv("GITHUB_TOKEN", "ghs_x")

		o := RunOptions{}
		ApplyEnvironmentFallbacks(&o, hclog.NewNullLogger())
		assert.Equal(t, RunOptions{Namespace: "octo", Repository: "app", Token: "ghs_x", Tracker: "github"}, o)
	})

	t.Run("legacy variables win over actions", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("GITHUB_REPOSITORY", "octo/app")
		t.Setenv("GITHUB_OWNER", "legacy-owner")
		t.Setenv("GITHUB_REPO", "legacy-repo")

		o := RunOptions{}
		ApplyEnvironmentFallbacks(&o, hclog.NewNullLogger())
		assert.Equal(t, "legacy-owner", o.Namespace)
		assert.Equal(t, "legacy-repo", o.Repository)
	})

	t.Run("flags win", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("GITHUB_OWNER", "legacy-owner")

		o := RunOptions{Namespace: "flag"}
		ApplyEnvironmentFallbacks(&o, hclog.NewNullLogger())
		assert.Equal(t, "flag", o.Namespace)
	})

	t.Run("gitlab ci", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("GITLAB_CI", "true")
		t.Setenv("CI_PROJECT_NAMESPACE", "group/sub")
		t.Setenv("CI_PROJECT_NAME", "svc")
		t.Setenv("CI_SERVER_URL", "https://gitlab.corp.example")
		t.Setenv("GITHUB_OWNER", "ignored")

		o := RunOptions{}
		ApplyEnvironmentFallbacks(&o, hclog.NewNullLogger())
		assert.Equal(t, RunOptions{Namespace: "group/sub", Repository: "svc", Tracker: "gitlab", TrackerURL: "https://gitlab.corp.example"}, o)
	})
}

func TestApplyGitMetadataFallbacks(t *testing.T) {
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	_, err = repo.CreateRemote(&gitconfig.RemoteConfig{Name: "origin", URLs: []string{"https://gitlab.com/group/app.git"}})
	require.NoError(t, err)

	o := RunOptions{Repository: "explicit"}
	applyGitMetadataFrom(&o, dir, hclog.NewNullLogger())
	assert.Equal(t, "group", o.Namespace)
	assert.Equal(t, "explicit", o.Repository)
	assert.Equal(t, "gitlab", o.Tracker)
	assert.Empty(t, o.TrackerURL)
}

func TestApplyConfigDefaults(t *testing.T) {
	cfg := &config.Config{
		Tracker:  config.Tracker{Kind: "GitLab", BaseURL: "https://gitlab.corp.example"},
		Importer: config.Importer{WaitTime: 3 * time.Second, RateLimitRetries: 2},
	}
	notChanged := func(string) bool { return false }

	o := RunOptions{}
	ApplyConfigDefaults(&o, cfg, notChanged)
	assert.Equal(t, RunOptions{Tracker: "gitlab", TrackerURL: "https://gitlab.corp.example", WaitTime: 3, RateLimitRetries: 2}, o)

	flagged := RunOptions{WaitTime: 0}
	ApplyConfigDefaults(&flagged, cfg, func(name string) bool { return name == "wait-time" })
	assert.Equal(t, 0, flagged.WaitTime)

	none := RunOptions{}
	ApplyConfigDefaults(&none, nil, notChanged)
	assert.Equal(t, "github", none.Tracker)
}

func TestApplyTokenFallback(t *testing.T) {
	clearEnv(t)
	t.Setenv("GITHUB_TOKEN", "gh")
	t.Setenv("GITLAB_TOKEN", "gl")

	gh := RunOptions{Tracker: "github"}
	ApplyTokenFallback(&gh)
	assert.Equal(t, "gh", gh.Token)

	gl := RunOptions{Tracker: "gitlab"}
	ApplyTokenFallback(&gl)
	assert.Equal(t, "gl", gl.Token)

	flag := RunOptions{Tracker: "gitlab", Token: "flag"}
	ApplyTokenFallback(&flag)
	assert.Equal(t, "flag", flag.Token)
}

func TestImporterOptions(t *testing.T) {
	o := RunOptions{ResultsFile: "r.json", Namespace: "n", Repository: "r", Token: "t", WaitTime: 2, RateLimitRetries: 1}
	cfg := &config.Config{Importer: config.Importer{RateLimitBackoff: time.Minute}}

	got := o.importerOptions(cfg)
	assert.Equal(t, 2*time.Second, got.WaitTime)
	assert.Equal(t, time.Minute, got.RateLimitBackoff)
	assert.Equal(t, 1, got.RateLimitRetries)
}
