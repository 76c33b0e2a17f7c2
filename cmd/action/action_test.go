package action

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scan-io-git/flaw-importer/pkg/shared/errors"
)

func lookupFrom(env map[string]string) func(string) string {
	return func(k string) string { return env[k] }
}

func TestReadInputs(t *testing.T) {
	opts, err := readInputs(lookupFrom(map[string]string{
		"INPUT_PIPELINE-RESULTS-JSON": "filtered_results.json",
		"INPUT_GITHUB-TOKEN":          "ghs_x",
		"INPUT_WAIT-TIME":             "2",
		"GITHUB_REPOSITORY":           "octo/app",
	}))
	require.NoError(t, err)
	assert.Equal(t, "filtered_results.json", opts.ResultsFile)
	assert.Equal(t, "ghs_x", opts.Token)
	assert.Equal(t, 2, opts.WaitTime)
	assert.Equal(t, "octo", opts.Namespace)
	assert.Equal(t, "app", opts.Repository)
	assert.Equal(t, "github", opts.Tracker)
}

func TestReadInputsErrors(t *testing.T) {
	base := map[string]string{
		"INPUT_PIPELINE-RESULTS-JSON": "r.json",
		"INPUT_GITHUB-TOKEN":          "t",
		"GITHUB_REPOSITORY":           "octo/app",
	}

	tests := []struct {
		name    string
		key     string
		value   string
		wantErr string
	}{
		{name: "missing results", key: "INPUT_PIPELINE-RESULTS-JSON", value: "", wantErr: "pipeline-results-json"},
		{name: "missing token", key: "INPUT_GITHUB-TOKEN", value: "", wantErr: "github-token"},
		{name: "bad wait time", key: "INPUT_WAIT-TIME", value: "soon", wantErr: "wait-time"},
		{name: "negative wait time", key: "INPUT_WAIT-TIME", value: "-3", wantErr: "wait-time"},
		{name: "bad repository", key: "GITHUB_REPOSITORY", value: "octo", wantErr: "GITHUB_REPOSITORY"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := map[string]string{}
			for k, v := range base {
				env[k] = v
			}
			env[tt.key] = tt.value

			_, err := readInputs(lookupFrom(env))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.Equal(t, errors.KindConfiguration, errors.KindOf(err))
		})
	}
}

func TestServerURL(t *testing.T) {
	assert.Empty(t, serverURL(lookupFrom(map[string]string{"GITHUB_SERVER_URL": "https://github.com"})))
	assert.Equal(t, "https://ghe.example.com", serverURL(lookupFrom(map[string]string{"GITHUB_SERVER_URL": "https://ghe.example.com/"})))
}
