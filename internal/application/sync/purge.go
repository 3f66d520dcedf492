package sync

import (
	"context"

	"go.uber.org/zap"

	"github.com/Aiducco/aftermarketmonkey-be/internal/domain/destination"
)

// PurgeProducts bulk-deletes storefront products by external id and
// drops the matching local snapshots. Maintenance operation, run
// outside the normal sync cycle.
func (s *Service) PurgeProducts(ctx context.Context, dest *destination.Destination, externalIDs []int64) error {
	if len(externalIDs) == 0 {
		return nil
	}
	if err := s.api.DeleteProducts(ctx, externalIDs); err != nil {
		return err
	}
	if err := s.destParts.DeleteByExternalIDs(ctx, dest.ID, externalIDs); err != nil {
		return err
	}
	s.logger.Info("purged products",
		zap.String("destination", dest.Name),
		zap.Int("count", len(externalIDs)),
	)
	return nil
}
