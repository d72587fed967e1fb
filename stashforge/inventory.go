package stashforge

import (
	"context"

	"github.com/heroiclabs/nakama-common/runtime"
)

const (
	stashStorageCollection      = "stash"
	expeditionStorageCollection = "expedition"
	equipmentStorageCollection  = "equipment"
	inventoryStorageKey         = "items"
)

// InventoryItemInput is the wire shape of one submitted item. Clients send
// loosely typed JSON; decoding into this struct rejects malformed field types
// before any domain validation runs. Numeric fields stay float64 here and are
// truncated during sanitization.
type InventoryItemInput struct {
	Template  string                `json:"template"`
	Count     float64               `json:"count"`
	X         *float64              `json:"x,omitempty"`
	Y         *float64              `json:"y,omitempty"`
	Rotated   *bool                 `json:"rotated,omitempty"`
	Slot      string                `json:"slot,omitempty"`
	Condition *float64              `json:"condition,omitempty"`
	Contents  []*InventoryItemInput `json:"contents,omitempty"`
}

// InventoryItem is the canonical persisted shape of one inventory item.
// Rotation is only stored when true and condition only when below full, so
// the default-state encoding stays compact.
type InventoryItem struct {
	Template  string           `json:"template"`
	Count     int64            `json:"count"`
	X         *int32           `json:"x,omitempty"`
	Y         *int32           `json:"y,omitempty"`
	Rotated   bool             `json:"rotated,omitempty"`
	Slot      string           `json:"slot,omitempty"`
	Condition *float64         `json:"condition,omitempty"`
	Contents  []*InventoryItem `json:"contents,omitempty"`
}

// inventorySection is the persisted document for one inventory section.
type inventorySection struct {
	Items []*InventoryItem `json:"items"`
}

// InventoryUpdateRequest is a full replacement snapshot of all three
// inventory sections. Missing sections default to empty.
type InventoryUpdateRequest struct {
	Stash      []*InventoryItemInput `json:"stash,omitempty"`
	Expedition []*InventoryItemInput `json:"expedition,omitempty"`
	Equipment  []*InventoryItemInput `json:"equipment,omitempty"`
}

// InventoryItemCounts reports the number of top-level items per section.
type InventoryItemCounts struct {
	Stash      int `json:"stash"`
	Expedition int `json:"expedition"`
	Equipment  int `json:"equipment"`
}

// InventoryUpdateAck is the success response for an accepted snapshot.
type InventoryUpdateAck struct {
	Success    bool                `json:"success"`
	ItemCounts InventoryItemCounts `json:"item_counts"`
}

// InventorySnapshot is the persisted state of all three inventory sections.
type InventorySnapshot struct {
	Stash      []*InventoryItem `json:"stash"`
	Expedition []*InventoryItem `json:"expedition"`
	Equipment  []*InventoryItem `json:"equipment"`
}

// GridConfig describes one rectangular inventory grid.
type GridConfig struct {
	Width    int32 `json:"width"`
	Height   int32 `json:"height"`
	MaxItems int   `json:"max_items"`
}

// InventoryConfig is the data definition for the InventorySystem type. Zero
// values are filled with the stock loot-game constants.
type InventoryConfig struct {
	Stash             GridConfig               `json:"stash"`
	Expedition        GridConfig               `json:"expedition"`
	MaxNestingDepth   int                      `json:"max_nesting_depth,omitempty"`
	SubmitCooldownSec int64                    `json:"submit_cooldown_sec,omitempty"`
	TemplateTtlSec    int64                    `json:"template_ttl_sec,omitempty"`
	Templates         map[string]*ItemTemplate `json:"templates,omitempty"`
}

func (c *InventoryConfig) applyDefaults() {
	if c.Stash.Width <= 0 {
		c.Stash = GridConfig{Width: 10, Height: 10, MaxItems: 100}
	}
	if c.Expedition.Width <= 0 {
		c.Expedition = GridConfig{Width: 4, Height: 4, MaxItems: 16}
	}
	if c.MaxNestingDepth <= 0 {
		c.MaxNestingDepth = 2
	}
	if c.SubmitCooldownSec <= 0 {
		c.SubmitCooldownSec = 5
	}
	if c.TemplateTtlSec <= 0 {
		c.TemplateTtlSec = 60
	}
}

// The InventorySystem validates client-submitted inventory snapshots and
// commits accepted ones as the new authoritative state.
type InventorySystem interface {
	System

	// Update validates a full snapshot of the user's stash, expedition loadout
	// and worn equipment, and atomically replaces the persisted state.
	Update(ctx context.Context, logger runtime.Logger, nk runtime.NakamaModule, userID string, req *InventoryUpdateRequest) (*InventoryUpdateAck, error)

	// Get returns the persisted snapshot of all three inventory sections.
	Get(ctx context.Context, logger runtime.Logger, nk runtime.NakamaModule, userID string) (*InventorySnapshot, error)

	// Templates exposes the item template cache shared with other systems.
	Templates() *TemplateCache
}
