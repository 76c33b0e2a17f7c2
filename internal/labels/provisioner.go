package labels

import (
	"context"
	"errors"

	"github.com/hashicorp/go-hclog"

	"github.com/scan-io-git/flaw-importer/internal/tracker"
	errs "github.com/scan-io-git/flaw-importer/pkg/shared/errors"
)

// Provisioner creates the label set in the destination project.
type Provisioner struct {
	tracker tracker.Tracker
	logger  hclog.Logger
}

// NewProvisioner returns a Provisioner that creates labels through t.
func NewProvisioner(t tracker.Tracker, logger hclog.Logger) *Provisioner {
	return &Provisioner{tracker: t, logger: logger}
}

// EnsureLabels creates every label. A label that already exists counts as
// created; any other failure stops provisioning.
func (p *Provisioner) EnsureLabels(ctx context.Context) error {
	for _, label := range All() {
		err := p.tracker.CreateLabel(ctx, label)
		switch {
		case err == nil:
			p.logger.Debug("label created", "label", label.Name)
		case errors.Is(err, tracker.ErrLabelExists):
			p.logger.Warn("label already exists", "label", label.Name)
		default:
			return errs.Wrap(errs.KindProvisioning, tracker.StatusCode(err), err, "failed to create label %q", label.Name)
		}
	}
	return nil
}
