package importer

import (
	"context"
	"fmt"

	"github.com/scan-io-git/flaw-importer/internal/flaws"
	"github.com/scan-io-git/flaw-importer/internal/labels"
	"github.com/scan-io-git/flaw-importer/internal/tracker"
	errs "github.com/scan-io-git/flaw-importer/pkg/shared/errors"
)

// PolicyProcessor imports policy and sandbox scan findings, matching existing
// issues by finding id.
type PolicyProcessor struct {
	findings []flaws.PolicyFinding
	ids      []flaws.PolicyIdentity
	severity []string
	tracker  tracker.Tracker
	run      *runner
}

// newPolicyProcessor checks that every finding has a numeric id and a mapped severity.
func newPolicyProcessor(findings []flaws.PolicyFinding, t tracker.Tracker, mapper *labels.SeverityMapper, run *runner) (*PolicyProcessor, error) {
	p := &PolicyProcessor{
		findings: findings,
		ids:      make([]flaws.PolicyIdentity, len(findings)),
		severity: make([]string, len(findings)),
		tracker:  t,
		run:      run,
	}
	for i, f := range findings {
		id, err := flaws.NewPolicyIdentity(f)
		if err != nil {
			return nil, errs.Wrap(errs.KindInput, 0, err, "flaw %s has an invalid issue_id", findingRef(i, f.IssueID))
		}
		name, ok := mapper.Label(f.FindingDetails.Severity)
		if !ok {
			return nil, errs.New(errs.KindInput, "flaw %s has unknown severity %d", findingRef(i, f.IssueID), f.FindingDetails.Severity)
		}
		p.ids[i] = id
		p.severity[i] = name
	}
	return p, nil
}

// Process lists existing policy issues then imports each finding in order.
func (p *PolicyProcessor) Process(ctx context.Context) (Summary, error) {
	scanLabel := labels.ScanTypeLabel(flaws.ScanTypePolicy).Name

	idx := flaws.NewPolicyIndex()
	var filters [][]string
	for _, s := range labels.Severities() {
		filters = append(filters, []string{s.Name, scanLabel})
	}
	if err := populateIndex(ctx, p.tracker, idx, filters, p.run.logger); err != nil {
		return Summary{ScanType: flaws.ScanTypePolicy}, err
	}

	return p.run.run(ctx, flaws.ScanTypePolicy, len(p.findings), func(i int) step {
		f := p.findings[i]
		return step{
			ref:       findingRef(i, f.IssueID),
			duplicate: idx.Exists(p.ids[i]),
			issue: Issue{
				Heading: policyHeading(f),
				Token:   p.ids[i].String(),
				Body:    policyBody(f),
				Labels:  []string{p.severity[i], scanLabel},
			},
		}
	})
}

// policyHeading renders "<cwe name> ('<category>')".
func policyHeading(f flaws.PolicyFinding) string {
	return fmt.Sprintf("%s ('%s')", f.FindingDetails.CWE.Name, f.FindingDetails.FindingCategory.Name)
}

func policyBody(f flaws.PolicyFinding) string {
	d := f.FindingDetails
	return fmt.Sprintf("**Filename:** %s\n\n**Line:** %d\n\n**CWE:** %s (%s)\n\n%s",
		d.FileName, d.FileLineNumber, d.CWE.ID, policyHeading(f), flaws.DecodeText(f.Description))
}
