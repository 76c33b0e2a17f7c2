package flaws

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectScanType(t *testing.T) {
	testCases := []struct {
		name    string
		input   string
		want    ScanType
		wantErr bool
	}{
		{name: "pipeline", input: `{"pipeline_scan": "21.3.2", "findings": []}`, want: ScanTypePipeline},
		{name: "policy", input: `{"_embedded": {"findings": []}}`, want: ScanTypePolicy},
		{name: "both keys prefer pipeline", input: `{"_embedded": {}, "pipeline_scan": {}}`, want: ScanTypePipeline},
		{name: "empty object", input: `{}`, wantErr: true},
		{name: "array", input: `[]`, wantErr: true},
		{name: "not json", input: `pipeline_scan`, wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := DetectScanType([]byte(tc.input))
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestDecodePipelineFinding(t *testing.T) {
	raw := `{
		"pipeline_scan": "21.3.2",
		"findings": [{
			"issue_id": 1000,
			"cwe_id": "89",
			"issue_type": "SQL Injection",
			"severity": 4,
			"display_text": "%3Cspan%3EUnsafe query%3C%2Fspan%3E",
			"files": {"source_file": {"file": "a.php", "line": 42}}
		}]
	}`

	var report PipelineReport
	require.NoError(t, json.Unmarshal([]byte(raw), &report))
	require.Len(t, report.Findings, 1)

	f := report.Findings[0]
	assert.Equal(t, ID("1000"), f.IssueID)
	assert.Equal(t, ID("89"), f.CWEID)
	assert.Equal(t, "a.php", f.File())
	assert.Equal(t, 42, f.Line())
	assert.Equal(t, "<span>Unsafe query<%2Fspan>", DecodeText(f.DisplayText))
}

func TestDecodePolicyFinding(t *testing.T) {
	raw := `{
		"_embedded": {"findings": [{
			"issue_id": 17,
			"description": "Call to unsafe API",
			"finding_details": {
				"severity": 3,
				"file_name": "Login.java",
				"file_line_number": 88,
				"cwe": {"id": 80, "name": "Improper Neutralization"},
				"finding_category": {"name": "Cross-Site Scripting"}
			}
		}]}
	}`

	var report PolicyReport
	require.NoError(t, json.Unmarshal([]byte(raw), &report))
	require.Len(t, report.Embedded.Findings, 1)

	f := report.Embedded.Findings[0]
	assert.Equal(t, ID("17"), f.IssueID)
	assert.Equal(t, ID("80"), f.FindingDetails.CWE.ID)
	assert.Equal(t, "Login.java", f.FindingDetails.FileName)
	assert.Equal(t, 88, f.FindingDetails.FileLineNumber)
}

func TestIDUnmarshal(t *testing.T) {
	var id ID
	assert.Error(t, json.Unmarshal([]byte(`{"a":1}`), &id))
	require.NoError(t, json.Unmarshal([]byte(`null`), &id))
	assert.Equal(t, ID(""), id)
}

func TestDecodeTextInvalidEscape(t *testing.T) {
	assert.Equal(t, "100% safe", DecodeText("100% safe"))
}

func TestDecodeTextKeepsReservedEscapes(t *testing.T) {
	testCases := []struct {
		in   string
		want string
	}{
		{in: "a%2Fb", want: "a%2Fb"},
		{in: "host%3A8080%23frag", want: "host%3A8080%23frag"},
		{in: "%3cb%3ex%2f%3C/b%3E", want: "<b>x%2f</b>"},
		{in: "caf%C3%A9%20%26%20tea", want: "café %26 tea"},
		{in: "plain text", want: "plain text"},
	}
	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, DecodeText(tc.in))
		})
	}
}
