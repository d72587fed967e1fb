package stashforge

import (
	"context"
	"math/rand"
	"sort"
	"time"

	"github.com/heroiclabs/nakama-common/runtime"
	"github.com/robfig/cron/v3"
)

// ShopOffer is one purchasable entry in the current shop rotation.
type ShopOffer struct {
	Template string `json:"template"`
	Count    int64  `json:"count"`
	Price    int64  `json:"price"`
}

// ShopRoll is the shop contents for one rotation window. All players see the
// same roll within a window.
type ShopRoll struct {
	WindowStartSec int64        `json:"window_start_sec"`
	NextRollSec    int64        `json:"next_roll_sec"`
	Offers         []*ShopOffer `json:"offers"`
}

// ShopConfig is the data definition for the ShopSystem type.
type ShopConfig struct {
	// RotationSchedule is a standard cron expression marking when the shop
	// re-rolls. Defaults to the top of every hour.
	RotationSchedule string `json:"rotation_schedule,omitempty"`
	SlotCount        int    `json:"slot_count,omitempty"`
}

func (c *ShopConfig) applyDefaults() {
	if c.RotationSchedule == "" {
		c.RotationSchedule = "0 * * * *"
	}
	if c.SlotCount <= 0 {
		c.SlotCount = 6
	}
}

// The ShopSystem produces the rotating random shop. Rolls are derived from
// the rotation window, not stored, so serving the shop costs no writes.
type ShopSystem interface {
	System

	// Roll returns the shop contents for the current rotation window.
	Roll(ctx context.Context, logger runtime.Logger, nk runtime.NakamaModule, userID string) (*ShopRoll, error)
}

// NakamaShopSystem implements the ShopSystem interface using Nakama as the backend.
type NakamaShopSystem struct {
	config    *ShopConfig
	templates *TemplateCache
	schedule  cron.Schedule
	now       func() time.Time
}

func NewNakamaShopSystem(config *ShopConfig, templates *TemplateCache) (*NakamaShopSystem, error) {
	if config == nil {
		config = &ShopConfig{}
	}
	config.applyDefaults()

	schedule, err := cron.ParseStandard(config.RotationSchedule)
	if err != nil {
		return nil, err
	}

	return &NakamaShopSystem{
		config:    config,
		templates: templates,
		schedule:  schedule,
		now:       time.Now,
	}, nil
}

func (s *NakamaShopSystem) GetType() SystemType {
	return SystemTypeShop
}

func (s *NakamaShopSystem) GetConfig() any {
	return s.config
}

// rotationWindowStart finds the most recent schedule activation at or before
// now. The search walks forward from one week back, which bounds the work for
// any standard cron expression.
func (s *NakamaShopSystem) rotationWindowStart(now time.Time) time.Time {
	probe := now.AddDate(0, 0, -7)
	start := probe
	for {
		next := s.schedule.Next(probe)
		if next.After(now) {
			return start
		}
		start = next
		probe = next
	}
}

func (s *NakamaShopSystem) Roll(ctx context.Context, logger runtime.Logger, nk runtime.NakamaModule, userID string) (*ShopRoll, error) {
	if userID == "" {
		return nil, ErrNoSessionUser
	}

	templates, err := s.templates.Catalog(ctx, logger, nk)
	if err != nil {
		return nil, err
	}

	// Sellable templates, sorted so the seeded shuffle is deterministic.
	keys := make([]string, 0, len(templates))
	for key, template := range templates {
		if template.SellPrice > 0 {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	now := s.now()
	windowStart := s.rotationWindowStart(now)
	rng := rand.New(rand.NewSource(windowStart.Unix()))

	slots := s.config.SlotCount
	if slots > len(keys) {
		slots = len(keys)
	}
	offers := make([]*ShopOffer, 0, slots)
	for _, i := range rng.Perm(len(keys))[:slots] {
		template := templates[keys[i]]
		offers = append(offers, &ShopOffer{
			Template: keys[i],
			Count:    1,
			Price:    template.SellPrice,
		})
	}

	return &ShopRoll{
		WindowStartSec: windowStart.Unix(),
		NextRollSec:    s.schedule.Next(now).Unix(),
		Offers:         offers,
	}, nil
}
