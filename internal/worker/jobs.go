package worker

import (
	"context"
	"time"

	"github.com/pvieira/flashdeck/internal/logger"
	"github.com/pvieira/flashdeck/internal/repository"
)

// DraftExpiryJob sweeps generated drafts whose expiry has passed. The
// janitor ticker submits one per interval; the sweep is idempotent so an
// overlapping run is harmless.
type DraftExpiryJob struct {
	DraftRepo repository.DraftRepository
}

func (j *DraftExpiryJob) Name() string { return "draft_expiry" }

func (j *DraftExpiryJob) Run(ctx context.Context) error {
	log := logger.FromContext(ctx)

	n, err := j.DraftRepo.DeleteExpired(ctx, time.Now())
	if err != nil {
		log.Error("draft expiry sweep failed: %v", err)
		return err
	}
	if n > 0 {
		log.Info("swept %d expired drafts", n)
	}
	return nil
}
