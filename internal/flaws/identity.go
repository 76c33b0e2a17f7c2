package flaws

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	identityPrefix = "[VID"
	identityOpen   = "[VID:"
	identityClose  = "]"
)

// ExtractIdentity returns the [VID...] token embedded in an issue title.
// ok is false for titles that were not created by the importer.
func ExtractIdentity(title string) (string, bool) {
	start := strings.Index(title, identityPrefix)
	if start == -1 {
		return "", false
	}
	end := strings.Index(title[start:], identityClose)
	if end == -1 {
		return "", false
	}
	return title[start : start+end+1], true
}

// tokenBody strips the [VID: and ] delimiters.
func tokenBody(token string) (string, error) {
	if !strings.HasPrefix(token, identityOpen) || !strings.HasSuffix(token, identityClose) {
		return "", fmt.Errorf("malformed identity token %q", token)
	}
	return token[len(identityOpen) : len(token)-len(identityClose)], nil
}

// PipelineIdentity identifies a pipeline finding by weakness class and location.
type PipelineIdentity struct {
	CWE  string
	File string
	Line int
}

// NewPipelineIdentity derives the identity of a pipeline finding.
func NewPipelineIdentity(f PipelineFinding) PipelineIdentity {
	return PipelineIdentity{CWE: string(f.CWEID), File: f.File(), Line: f.Line()}
}

// String renders the token as [VID:<cwe>:<file>:<line>].
func (id PipelineIdentity) String() string {
	return fmt.Sprintf("%s%s:%s:%d%s", identityOpen, id.CWE, id.File, id.Line, identityClose)
}

// ParsePipelineIdentity parses a [VID:<cwe>:<file>:<line>] token. The cwe ends
// at the first colon and the line starts after the last one, so file paths
// containing colons survive the round trip.
func ParsePipelineIdentity(token string) (PipelineIdentity, error) {
	body, err := tokenBody(token)
	if err != nil {
		return PipelineIdentity{}, err
	}
	first := strings.Index(body, ":")
	last := strings.LastIndex(body, ":")
	if first == -1 || first == last {
		return PipelineIdentity{}, fmt.Errorf("pipeline identity %q needs cwe, file and line", token)
	}
	line, err := strconv.Atoi(body[last+1:])
	if err != nil {
		return PipelineIdentity{}, fmt.Errorf("pipeline identity %q has an invalid line: %w", token, err)
	}
	return PipelineIdentity{
		CWE:  body[:first],
		File: body[first+1 : last],
		Line: line,
	}, nil
}

// PolicyIdentity identifies a policy finding by the scanner's own issue id.
type PolicyIdentity struct {
	IssueID int
}

// NewPolicyIdentity derives the identity of a policy finding.
func NewPolicyIdentity(f PolicyFinding) (PolicyIdentity, error) {
	id, err := f.IssueID.Int()
	if err != nil {
		return PolicyIdentity{}, fmt.Errorf("finding has a non-numeric issue_id %q", f.IssueID)
	}
	return PolicyIdentity{IssueID: id}, nil
}

// String renders the token as [VID:<issue_id>].
func (id PolicyIdentity) String() string {
	return fmt.Sprintf("%s%d%s", identityOpen, id.IssueID, identityClose)
}

// ParsePolicyIdentity parses a [VID:<issue_id>] token.
func ParsePolicyIdentity(token string) (PolicyIdentity, error) {
	body, err := tokenBody(token)
	if err != nil {
		return PolicyIdentity{}, err
	}
	id, err := strconv.Atoi(body)
	if err != nil {
		return PolicyIdentity{}, fmt.Errorf("policy identity %q has an invalid issue id: %w", token, err)
	}
	return PolicyIdentity{IssueID: id}, nil
}
