package stashforge

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestShopSystem(t *testing.T, config *ShopConfig) *NakamaShopSystem {
	t.Helper()
	templates := NewTemplateCache(&StaticTemplateSource{Templates: testTemplates()}, time.Minute)
	system, err := NewNakamaShopSystem(config, templates)
	require.NoError(t, err)
	return system
}

func TestShopRoll_DeterministicWithinWindow(t *testing.T) {
	system := newTestShopSystem(t, nil)
	logger := &mockLogger{}
	nk := newTestNakama()
	ctx := context.Background()

	base := time.Date(2026, 8, 31, 14, 10, 0, 0, time.UTC)
	system.now = func() time.Time { return base }

	first, err := system.Roll(ctx, logger, nk, "user1")
	require.NoError(t, err)

	// Later in the same hourly window, any player sees the identical roll.
	system.now = func() time.Time { return base.Add(30 * time.Minute) }
	second, err := system.Roll(ctx, logger, nk, "user2")
	require.NoError(t, err)

	assert.Equal(t, first.WindowStartSec, second.WindowStartSec)
	assert.Equal(t, first.Offers, second.Offers)
}

func TestShopRoll_ChangesAcrossWindows(t *testing.T) {
	system := newTestShopSystem(t, &ShopConfig{SlotCount: 3})
	logger := &mockLogger{}
	nk := newTestNakama()
	ctx := context.Background()

	base := time.Date(2026, 8, 31, 14, 10, 0, 0, time.UTC)
	system.now = func() time.Time { return base }
	first, err := system.Roll(ctx, logger, nk, "user1")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 8, 31, 14, 0, 0, 0, time.UTC).Unix(), first.WindowStartSec)
	assert.Equal(t, time.Date(2026, 8, 31, 15, 0, 0, 0, time.UTC).Unix(), first.NextRollSec)

	system.now = func() time.Time { return base.Add(time.Hour) }
	second, err := system.Roll(ctx, logger, nk, "user1")
	require.NoError(t, err)
	assert.NotEqual(t, first.WindowStartSec, second.WindowStartSec)
}

func TestShopRoll_OnlySellableTemplates(t *testing.T) {
	system := newTestShopSystem(t, &ShopConfig{SlotCount: 10})
	logger := &mockLogger{}
	nk := newTestNakama()

	roll, err := system.Roll(context.Background(), logger, nk, "user1")
	require.NoError(t, err)

	sellable := 0
	for _, template := range testTemplates() {
		if template.SellPrice > 0 {
			sellable++
		}
	}
	require.Len(t, roll.Offers, sellable)
	for _, offer := range roll.Offers {
		template := testTemplates()[offer.Template]
		require.NotNil(t, template)
		assert.Equal(t, template.SellPrice, offer.Price)
		assert.Positive(t, offer.Price)
	}
}
