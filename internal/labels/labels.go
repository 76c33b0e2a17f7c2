// Package labels holds the label taxonomy applied to imported flaws and
// makes sure it exists in the destination project.
package labels

import (
	"github.com/scan-io-git/flaw-importer/internal/flaws"
	"github.com/scan-io-git/flaw-importer/internal/tracker"
)

// Severity is one entry of the severity label table.
type Severity struct {
	Value int
	tracker.Label
}

var severities = []Severity{
	{Value: 5, Label: tracker.Label{Name: "VeracodeFlaw: Very High", Color: "d92b85", Description: "A Veracode Flaw, Very High severity"}},
	{Value: 4, Label: tracker.Label{Name: "VeracodeFlaw: High", Color: "e61f25", Description: "A Veracode Flaw, High severity"}},
	{Value: 3, Label: tracker.Label{Name: "VeracodeFlaw: Medium", Color: "fd7333", Description: "A Veracode Flaw, Medium severity"}},
	{Value: 2, Label: tracker.Label{Name: "VeracodeFlaw: Low", Color: "ffcc33", Description: "A Veracode Flaw, Low severity"}},
	{Value: 1, Label: tracker.Label{Name: "VeracodeFlaw: Very Low", Color: "c9da2c", Description: "A Veracode Flaw, Very Low severity"}},
	{Value: 0, Label: tracker.Label{Name: "VeracodeFlaw: Informational", Color: "8dbd3e", Description: "A Veracode Flaw, Informational severity"}},
}

var (
	pipelineScan = tracker.Label{Name: "Veracode Pipeline Scan", Color: "76a6b6", Description: "A Veracode Flaw found during a Pipeline Scan"}
	policyScan   = tracker.Label{Name: "Veracode Policy Scan", Color: "666698", Description: "A Veracode Flaw found during a Policy or Sandbox Scan"}
)

// Severities returns the severity label table, highest severity first.
func Severities() []Severity {
	out := make([]Severity, len(severities))
	copy(out, severities)
	return out
}

// ScanTypeLabel returns the label attached to every issue of a scan type.
func ScanTypeLabel(scanType flaws.ScanType) tracker.Label {
	if scanType == flaws.ScanTypePolicy {
		return policyScan
	}
	return pipelineScan
}

// All returns every label the importer uses: severities then scan types.
func All() []tracker.Label {
	out := make([]tracker.Label, 0, len(severities)+2)
	for _, s := range severities {
		out = append(out, s.Label)
	}
	return append(out, pipelineScan, policyScan)
}

// SeverityMapper maps a finding severity to its label name.
type SeverityMapper struct {
	names map[int]string
}

// NewSeverityMapper builds a mapper from the severity table.
func NewSeverityMapper() *SeverityMapper {
	m := &SeverityMapper{names: make(map[int]string, len(severities))}
	for _, s := range severities {
		m.names[s.Value] = s.Name
	}
	return m
}

// Label returns the label name for severity, false when it is out of range.
func (m *SeverityMapper) Label(severity int) (string, bool) {
	name, ok := m.names[severity]
	return name, ok
}
