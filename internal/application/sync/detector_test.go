package sync

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Aiducco/aftermarketmonkey-be/internal/domain/catalog"
)

func TestChangeDetector_Detect(t *testing.T) {
	ctx := context.Background()
	destID := uuid.New()
	brandID := uuid.New()

	newPart := func(sku string, price string) catalog.Part {
		p := decimal.RequireFromString(price)
		return catalog.Part{
			SKU:   sku,
			Title: "Widget " + sku,
			Price: &p,
		}
	}

	t.Run("first-seen part creates snapshot and history", func(t *testing.T) {
		destParts := newMemDestParts()
		histories := newMemHistories()
		detector := NewChangeDetector(destParts, histories, zap.NewNop())

		changes, err := detector.Detect(ctx, destID, brandID, []catalog.Part{newPart("SKU-1", "19.99")})
		require.NoError(t, err)
		require.Len(t, changes, 1)

		assert.True(t, changes[0].IsCreate())
		assert.False(t, changes[0].History.Synced)

		snapshot, err := destParts.FindBySKU(ctx, destID, "SKU-1")
		require.NoError(t, err)
		assert.Equal(t, brandID, snapshot.BrandID)
		assert.Nil(t, snapshot.SourceData, "source data is only written after a successful push")
	})

	t.Run("unchanged part is skipped", func(t *testing.T) {
		destParts := newMemDestParts()
		histories := newMemHistories()
		detector := NewChangeDetector(destParts, histories, zap.NewNop())

		part := newPart("SKU-2", "10.00")
		changes, err := detector.Detect(ctx, destID, brandID, []catalog.Part{part})
		require.NoError(t, err)
		require.Len(t, changes, 1)

		// Simulate a successful push.
		changes[0].Snapshot.MarkSynced(part, 500, nil)
		require.NoError(t, destParts.Save(ctx, changes[0].Snapshot))
		changes[0].History.MarkSynced(uuid.New())
		require.NoError(t, histories.Save(ctx, changes[0].History))

		again, err := detector.Detect(ctx, destID, brandID, []catalog.Part{part})
		require.NoError(t, err)
		assert.Empty(t, again)
	})

	t.Run("price move within tolerance is not a change", func(t *testing.T) {
		destParts := newMemDestParts()
		histories := newMemHistories()
		detector := NewChangeDetector(destParts, histories, zap.NewNop())

		part := newPart("SKU-3", "10.00")
		changes, err := detector.Detect(ctx, destID, brandID, []catalog.Part{part})
		require.NoError(t, err)
		changes[0].Snapshot.MarkSynced(part, 501, nil)
		require.NoError(t, destParts.Save(ctx, changes[0].Snapshot))
		changes[0].History.MarkSynced(uuid.New())
		require.NoError(t, histories.Save(ctx, changes[0].History))

		nudged := newPart("SKU-3", "10.005")
		again, err := detector.Detect(ctx, destID, brandID, []catalog.Part{nudged})
		require.NoError(t, err)
		assert.Empty(t, again)
	})

	t.Run("pending history row is refreshed not duplicated", func(t *testing.T) {
		destParts := newMemDestParts()
		histories := newMemHistories()
		detector := NewChangeDetector(destParts, histories, zap.NewNop())

		first, err := detector.Detect(ctx, destID, brandID, []catalog.Part{newPart("SKU-4", "10.00")})
		require.NoError(t, err)
		require.Len(t, first, 1)

		// Part changes again before anything syncs.
		second, err := detector.Detect(ctx, destID, brandID, []catalog.Part{newPart("SKU-4", "12.00")})
		require.NoError(t, err)
		require.Len(t, second, 1)

		assert.Equal(t, first[0].History.ID, second[0].History.ID)
		rows, err := histories.FindForPart(ctx, first[0].Snapshot.ID, 10)
		require.NoError(t, err)
		assert.Len(t, rows, 1)
	})

	t.Run("changed field lands in the diff", func(t *testing.T) {
		destParts := newMemDestParts()
		histories := newMemHistories()
		detector := NewChangeDetector(destParts, histories, zap.NewNop())

		part := newPart("SKU-5", "10.00")
		changes, err := detector.Detect(ctx, destID, brandID, []catalog.Part{part})
		require.NoError(t, err)
		changes[0].Snapshot.MarkSynced(part, 502, nil)
		require.NoError(t, destParts.Save(ctx, changes[0].Snapshot))
		changes[0].History.MarkSynced(uuid.New())
		require.NoError(t, histories.Save(ctx, changes[0].History))

		repriced := newPart("SKU-5", "12.50")
		again, err := detector.Detect(ctx, destID, brandID, []catalog.Part{repriced})
		require.NoError(t, err)
		require.Len(t, again, 1)

		assert.False(t, again[0].IsCreate())
		assert.Contains(t, again[0].Diff, catalog.FieldPrice)
	})
}
