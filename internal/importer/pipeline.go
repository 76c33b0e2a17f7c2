package importer

import (
	"context"
	"fmt"

	"github.com/scan-io-git/flaw-importer/internal/flaws"
	"github.com/scan-io-git/flaw-importer/internal/labels"
	"github.com/scan-io-git/flaw-importer/internal/tracker"
	errs "github.com/scan-io-git/flaw-importer/pkg/shared/errors"
)

// PipelineProcessor imports pipeline scan findings, matching existing issues
// by file, weakness class and a line window.
type PipelineProcessor struct {
	findings []flaws.PipelineFinding
	severity []string
	tracker  tracker.Tracker
	run      *runner
}

// newPipelineProcessor checks that every finding has a mapped severity.
func newPipelineProcessor(findings []flaws.PipelineFinding, t tracker.Tracker, mapper *labels.SeverityMapper, run *runner) (*PipelineProcessor, error) {
	names := make([]string, len(findings))
	for i, f := range findings {
		name, ok := mapper.Label(f.Severity)
		if !ok {
			return nil, errs.New(errs.KindInput, "flaw %s has unknown severity %d", findingRef(i, f.IssueID), f.Severity)
		}
		names[i] = name
	}
	return &PipelineProcessor{findings: findings, severity: names, tracker: t, run: run}, nil
}

// Process lists existing pipeline issues then imports each finding in order.
func (p *PipelineProcessor) Process(ctx context.Context) (Summary, error) {
	idx := flaws.NewPipelineIndex()
	var filters [][]string
	for _, s := range labels.Severities() {
		filters = append(filters, []string{s.Name})
	}
	if err := populateIndex(ctx, p.tracker, idx, filters, p.run.logger); err != nil {
		return Summary{ScanType: flaws.ScanTypePipeline}, err
	}

	scanLabel := labels.ScanTypeLabel(flaws.ScanTypePipeline).Name
	return p.run.run(ctx, flaws.ScanTypePipeline, len(p.findings), func(i int) step {
		f := p.findings[i]
		id := flaws.NewPipelineIdentity(f)
		return step{
			ref:       findingRef(i, f.IssueID),
			duplicate: idx.Exists(id),
			issue: Issue{
				Heading: f.IssueType,
				Token:   id.String(),
				Body:    pipelineBody(f),
				Labels:  []string{p.severity[i], scanLabel},
			},
		}
	})
}

func pipelineBody(f flaws.PipelineFinding) string {
	return fmt.Sprintf("**Filename:** %s\n\n**Line:** %d\n\n**CWE:** %s (%s)\n\n%s",
		f.File(), f.Line(), f.CWEID, f.IssueType, flaws.DecodeText(f.DisplayText))
}
