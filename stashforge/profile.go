package stashforge

import (
	"context"
	"encoding/json"

	"github.com/heroiclabs/nakama-common/runtime"
)

const (
	playerStorageCollection = "player"
	playerStorageKey        = "state"
)

// PlayerProfile is the player root document. The inventory commit and the raid
// ledger both fold derived aggregates into it as part of their atomic writes.
type PlayerProfile struct {
	UpdateCount  int64               `json:"update_count"`
	UpdatedAtSec int64               `json:"updated_at_sec,omitempty"`
	ItemCounts   InventoryItemCounts `json:"item_counts"`
	Raids        int64               `json:"raids,omitempty"`
	Extractions  int64               `json:"extractions,omitempty"`
	Deaths       int64               `json:"deaths,omitempty"`
	DisplayName  string              `json:"display_name,omitempty"`
	SteamId      string              `json:"steam_id,omitempty"`
}

// readPlayerProfile loads the player root document, returning a zero profile
// for players who have never been written.
func readPlayerProfile(ctx context.Context, logger runtime.Logger, nk runtime.NakamaModule, userID string) (*PlayerProfile, error) {
	objects, err := nk.StorageRead(ctx, []*runtime.StorageRead{
		{
			Collection: playerStorageCollection,
			Key:        playerStorageKey,
			UserID:     userID,
		},
	})
	if err != nil {
		logger.Error("Error reading player profile from storage: %v", err)
		return nil, ErrInternal
	}

	profile := &PlayerProfile{}
	if len(objects) == 0 {
		return profile, nil
	}
	if err := json.Unmarshal([]byte(objects[0].Value), profile); err != nil {
		logger.Error("Error unmarshaling player profile: %v", err)
		return nil, ErrInternal
	}
	return profile, nil
}

// playerProfileWrite builds the storage write for the player root document so
// callers can batch it with their own writes in one atomic StorageWrite call.
func playerProfileWrite(userID string, profile *PlayerProfile) (*runtime.StorageWrite, error) {
	value, err := json.Marshal(profile)
	if err != nil {
		return nil, ErrPayloadEncode
	}
	return &runtime.StorageWrite{
		Collection:      playerStorageCollection,
		Key:             playerStorageKey,
		UserID:          userID,
		Value:           string(value),
		PermissionRead:  1,
		PermissionWrite: 0,
	}, nil
}

// The ProfileSystem exposes the player root document and links Steam identity
// details into it.
type ProfileSystem interface {
	System

	// Get returns the player root document.
	Get(ctx context.Context, logger runtime.Logger, nk runtime.NakamaModule, userID string) (*PlayerProfile, error)

	// SyncSteam copies the Steam-linked identity from the Nakama account into
	// the player root document.
	SyncSteam(ctx context.Context, logger runtime.Logger, nk runtime.NakamaModule, userID string) (*PlayerProfile, error)
}

// NakamaProfileSystem implements the ProfileSystem interface using Nakama as the backend.
type NakamaProfileSystem struct{}

func NewNakamaProfileSystem() *NakamaProfileSystem {
	return &NakamaProfileSystem{}
}

func (s *NakamaProfileSystem) GetType() SystemType {
	return SystemTypeProfile
}

func (s *NakamaProfileSystem) GetConfig() any {
	return nil
}

func (s *NakamaProfileSystem) Get(ctx context.Context, logger runtime.Logger, nk runtime.NakamaModule, userID string) (*PlayerProfile, error) {
	return readPlayerProfile(ctx, logger, nk, userID)
}

func (s *NakamaProfileSystem) SyncSteam(ctx context.Context, logger runtime.Logger, nk runtime.NakamaModule, userID string) (*PlayerProfile, error) {
	account, err := nk.AccountGetId(ctx, userID)
	if err != nil {
		logger.Error("Error fetching account for user %s: %v", userID, err)
		return nil, ErrInternal
	}
	if account.User == nil || account.User.SteamId == "" {
		return nil, runtime.NewError("no steam identity linked", FAILED_PRECONDITION_ERROR_CODE)
	}

	profile, err := readPlayerProfile(ctx, logger, nk, userID)
	if err != nil {
		return nil, err
	}
	profile.SteamId = account.User.SteamId
	if account.User.DisplayName != "" {
		profile.DisplayName = account.User.DisplayName
	} else {
		profile.DisplayName = account.User.Username
	}

	write, err := playerProfileWrite(userID, profile)
	if err != nil {
		return nil, err
	}
	if _, err := nk.StorageWrite(ctx, []*runtime.StorageWrite{write}); err != nil {
		logger.Error("Error writing player profile: %v", err)
		return nil, ErrInternal
	}

	return profile, nil
}
