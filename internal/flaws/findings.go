// Package flaws models scan findings and the identity tokens used to
// recognise findings that were already imported as issues.
package flaws

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

// ScanType identifies which results-file shape is being processed.
type ScanType string

const (
	ScanTypePipeline ScanType = "pipeline"
	ScanTypePolicy   ScanType = "policy"
)

// ID is a scanner identifier that may be encoded as a JSON number or string.
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("identifier must be a string or number: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// Int returns the identifier as an integer.
func (id ID) Int() (int, error) {
	return strconv.Atoi(string(id))
}

// PipelineReport is the subset of a pipeline scan results file the importer reads.
type PipelineReport struct {
	PipelineScan json.RawMessage   `json:"pipeline_scan"`
	Findings     []PipelineFinding `json:"findings"`
}

// PipelineFinding is one entry of findings[] in a pipeline scan results file.
type PipelineFinding struct {
	IssueID     ID     `json:"issue_id"`
	CWEID       ID     `json:"cwe_id"`
	IssueType   string `json:"issue_type"`
	Severity    int    `json:"severity"`
	DisplayText string `json:"display_text"`
	Files       struct {
		SourceFile struct {
			File string `json:"file"`
			Line int    `json:"line"`
		} `json:"source_file"`
	} `json:"files"`
}

// File returns the source file the finding was reported in.
func (f PipelineFinding) File() string { return f.Files.SourceFile.File }

// Line returns the source line the finding was reported on.
func (f PipelineFinding) Line() int { return f.Files.SourceFile.Line }

// PolicyReport is the subset of a policy or sandbox scan results file the importer reads.
type PolicyReport struct {
	Embedded struct {
		Findings []PolicyFinding `json:"findings"`
	} `json:"_embedded"`
}

// PolicyFinding is one entry of _embedded.findings[] in a policy scan results file.
type PolicyFinding struct {
	IssueID        ID     `json:"issue_id"`
	Description    string `json:"description"`
	FindingDetails struct {
		Severity       int    `json:"severity"`
		FileName       string `json:"file_name"`
		FileLineNumber int    `json:"file_line_number"`
		CWE            struct {
			ID   ID     `json:"id"`
			Name string `json:"name"`
		} `json:"cwe"`
		FindingCategory struct {
			Name string `json:"name"`
		} `json:"finding_category"`
	} `json:"finding_details"`
}

// DetectScanType inspects the top-level keys of a results document.
// pipeline_scan takes precedence over _embedded.
func DetectScanType(data []byte) (ScanType, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return "", fmt.Errorf("results file is not a JSON object: %w", err)
	}
	if _, ok := top["pipeline_scan"]; ok {
		return ScanTypePipeline, nil
	}
	if _, ok := top["_embedded"]; ok {
		return ScanTypePolicy, nil
	}
	return "", fmt.Errorf("unknown file type for input file")
}

// reservedEscape matches escapes of URI reserved characters and '#'.
var reservedEscape = regexp.MustCompile(`(?i)%(23|24|26|2B|2C|2F|3A|3B|3D|3F|40)`)

// DecodeText undoes the percent-encoding the scanner applies to descriptions.
// Escapes of reserved characters such as %2F stay encoded. Text that is not
// valid percent-encoding is returned unchanged.
func DecodeText(s string) string {
	var b strings.Builder
	last := 0
	for _, m := range reservedEscape.FindAllStringIndex(s, -1) {
		part, err := url.PathUnescape(s[last:m[0]])
		if err != nil {
			return s
		}
		b.WriteString(part)
		b.WriteString(s[m[0]:m[1]])
		last = m[1]
	}
	tail, err := url.PathUnescape(s[last:])
	if err != nil {
		return s
	}
	b.WriteString(tail)
	return b.String()
}
