package sync

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Aiducco/aftermarketmonkey-be/internal/domain/catalog"
	"github.com/Aiducco/aftermarketmonkey-be/internal/domain/destination"
	"github.com/Aiducco/aftermarketmonkey-be/internal/domain/shared"
)

// Change is one part the detector found out of date, bundled with its
// snapshot row and the pending history entry.
type Change struct {
	Part     catalog.Part
	Snapshot *destination.DestinationPart
	History  *destination.PartHistory
	Diff     map[string]catalog.FieldChange
}

// IsCreate reports whether the part has never been pushed to the
// storefront.
func (c *Change) IsCreate() bool {
	return c.Snapshot.ExternalID == 0
}

// ChangeDetector diffs merged candidates against their last-synced
// snapshots and records pending history rows for everything that
// moved.
type ChangeDetector struct {
	destParts destination.DestinationPartRepository
	histories destination.PartHistoryRepository
	logger    *zap.Logger
}

// NewChangeDetector creates a change detector.
func NewChangeDetector(
	destParts destination.DestinationPartRepository,
	histories destination.PartHistoryRepository,
	logger *zap.Logger,
) *ChangeDetector {
	return &ChangeDetector{
		destParts: destParts,
		histories: histories,
		logger:    logger.Named("detector"),
	}
}

// Detect returns the changed subset of the candidates. Snapshot rows
// are created for first-seen SKUs so the history has something to hang
// off; an existing unsynced history row is refreshed in place rather
// than duplicated when a part changes again before it syncs.
func (d *ChangeDetector) Detect(ctx context.Context, destinationID, brandID uuid.UUID, candidates []catalog.Part) ([]Change, error) {
	var changes []Change
	for _, part := range candidates {
		snapshot, err := d.destParts.FindBySKU(ctx, destinationID, part.SKU)
		if errors.Is(err, shared.ErrNotFound) {
			snapshot = &destination.DestinationPart{
				BaseEntity:    shared.NewBaseEntity(),
				DestinationID: destinationID,
				BrandID:       brandID,
				SKU:           part.SKU,
			}
			if err := d.destParts.Save(ctx, snapshot); err != nil {
				return nil, err
			}
		} else if err != nil {
			return nil, err
		}

		diff, changed := catalog.Diff(part, snapshot.SourceData)
		if !changed {
			continue
		}

		history, err := d.histories.FindLatestUnsynced(ctx, snapshot.ID)
		if errors.Is(err, shared.ErrNotFound) {
			history = destination.NewPartHistory(snapshot.ID, diff)
		} else if err != nil {
			return nil, err
		} else {
			history.Changes = diff
		}
		if err := d.histories.Save(ctx, history); err != nil {
			return nil, err
		}

		changes = append(changes, Change{
			Part:     part,
			Snapshot: snapshot,
			History:  history,
			Diff:     diff,
		})
	}

	d.logger.Info("change detection finished",
		zap.Int("candidates", len(candidates)),
		zap.Int("changed", len(changes)),
	)
	return changes, nil
}
