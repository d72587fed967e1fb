package stashforge

import (
	"context"
	"encoding/json"
	"time"

	"github.com/heroiclabs/nakama-common/runtime"
)

// NakamaInventorySystem implements the InventorySystem interface using Nakama as the backend.
type NakamaInventorySystem struct {
	config    *InventoryConfig
	templates *TemplateCache
	limiter   *submitLimiter
	now       func() time.Time
}

// NewNakamaInventorySystem creates a new instance of the inventory system with
// the given configuration. Templates embedded in the config take precedence
// over the storage-backed catalog.
func NewNakamaInventorySystem(config *InventoryConfig) *NakamaInventorySystem {
	if config == nil {
		config = &InventoryConfig{}
	}
	config.applyDefaults()

	var source TemplateSource
	if len(config.Templates) > 0 {
		source = &StaticTemplateSource{Templates: config.Templates}
	} else {
		source = &StorageTemplateSource{}
	}

	return &NakamaInventorySystem{
		config:    config,
		templates: NewTemplateCache(source, time.Duration(config.TemplateTtlSec)*time.Second),
		limiter:   newSubmitLimiter(time.Duration(config.SubmitCooldownSec) * time.Second),
		now:       time.Now,
	}
}

// GetType provides the runtime type of the gameplay system.
func (s *NakamaInventorySystem) GetType() SystemType {
	return SystemTypeInventory
}

// GetConfig returns the configuration type of the gameplay system.
func (s *NakamaInventorySystem) GetConfig() any {
	return s.config
}

// Templates exposes the item template cache shared with other systems.
func (s *NakamaInventorySystem) Templates() *TemplateCache {
	return s.templates
}

// Update runs the full commit pipeline for a submitted snapshot: cooldown
// gate, catalog load, validation of all three sections in submission order
// with short-circuit on the first violation, sanitization, then one atomic
// multi-object write replacing the three section documents and bumping the
// player root document. Nothing is persisted unless every section is accepted.
//
// Two concurrent submissions from the same player that both clear the
// cooldown race to last-write-wins; there is no per-player write lock.
func (s *NakamaInventorySystem) Update(ctx context.Context, logger runtime.Logger, nk runtime.NakamaModule, userID string, req *InventoryUpdateRequest) (*InventoryUpdateAck, error) {
	if userID == "" {
		return nil, ErrNoSessionUser
	}
	if req == nil {
		req = &InventoryUpdateRequest{}
	}

	if !s.limiter.CheckAndRecord(userID) {
		return nil, ErrSubmitCooldown
	}

	templates, err := s.templates.Catalog(ctx, logger, nk)
	if err != nil {
		return nil, err
	}

	if verr := validateGrid(req.Stash, templates, s.config.Stash, s.config.MaxNestingDepth, "stash"); verr != nil {
		return nil, runtime.NewError(verr.Error(), INVALID_ARGUMENT_ERROR_CODE)
	}
	if verr := validateGrid(req.Expedition, templates, s.config.Expedition, s.config.MaxNestingDepth, "expedition"); verr != nil {
		return nil, runtime.NewError(verr.Error(), INVALID_ARGUMENT_ERROR_CODE)
	}
	if verr := validateEquipment(req.Equipment, templates, s.config.MaxNestingDepth); verr != nil {
		return nil, runtime.NewError(verr.Error(), INVALID_ARGUMENT_ERROR_CODE)
	}

	stash := sanitizeItems(req.Stash)
	expedition := sanitizeItems(req.Expedition)
	equipment := sanitizeItems(req.Equipment)

	counts := InventoryItemCounts{
		Stash:      len(stash),
		Expedition: len(expedition),
		Equipment:  len(equipment),
	}

	profile, err := readPlayerProfile(ctx, logger, nk, userID)
	if err != nil {
		return nil, err
	}
	profile.UpdateCount++
	profile.UpdatedAtSec = s.now().Unix()
	profile.ItemCounts = counts

	writes := make([]*runtime.StorageWrite, 0, 4)
	for _, section := range []struct {
		collection string
		items      []*InventoryItem
	}{
		{stashStorageCollection, stash},
		{expeditionStorageCollection, expedition},
		{equipmentStorageCollection, equipment},
	} {
		value, err := json.Marshal(&inventorySection{Items: section.items})
		if err != nil {
			logger.Error("Error marshaling %s section: %v", section.collection, err)
			return nil, ErrPayloadEncode
		}
		writes = append(writes, &runtime.StorageWrite{
			Collection:      section.collection,
			Key:             inventoryStorageKey,
			UserID:          userID,
			Value:           string(value),
			PermissionRead:  1,
			PermissionWrite: 0,
		})
	}

	profileWrite, err := playerProfileWrite(userID, profile)
	if err != nil {
		return nil, err
	}
	writes = append(writes, profileWrite)

	// A single StorageWrite batch commits transactionally: all four documents
	// replace together or not at all.
	if _, err := nk.StorageWrite(ctx, writes); err != nil {
		logger.Error("Error committing inventory snapshot: %v", err)
		return nil, ErrInternal
	}

	return &InventoryUpdateAck{
		Success:    true,
		ItemCounts: counts,
	}, nil
}

// Get returns the persisted snapshot of all three inventory sections, with
// empty sections for players who have never committed.
func (s *NakamaInventorySystem) Get(ctx context.Context, logger runtime.Logger, nk runtime.NakamaModule, userID string) (*InventorySnapshot, error) {
	if userID == "" {
		return nil, ErrNoSessionUser
	}

	reads := []*runtime.StorageRead{
		{Collection: stashStorageCollection, Key: inventoryStorageKey, UserID: userID},
		{Collection: expeditionStorageCollection, Key: inventoryStorageKey, UserID: userID},
		{Collection: equipmentStorageCollection, Key: inventoryStorageKey, UserID: userID},
	}
	objects, err := nk.StorageRead(ctx, reads)
	if err != nil {
		logger.Error("Error reading inventory snapshot: %v", err)
		return nil, ErrInternal
	}

	snapshot := &InventorySnapshot{
		Stash:      []*InventoryItem{},
		Expedition: []*InventoryItem{},
		Equipment:  []*InventoryItem{},
	}
	for _, object := range objects {
		section := &inventorySection{}
		if err := json.Unmarshal([]byte(object.Value), section); err != nil {
			logger.Error("Error unmarshaling %s section: %v", object.Collection, err)
			return nil, ErrInternal
		}
		switch object.Collection {
		case stashStorageCollection:
			snapshot.Stash = section.Items
		case expeditionStorageCollection:
			snapshot.Expedition = section.Items
		case equipmentStorageCollection:
			snapshot.Equipment = section.Items
		}
	}

	return snapshot, nil
}
