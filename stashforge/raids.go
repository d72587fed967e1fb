package stashforge

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/heroiclabs/nakama-common/runtime"
)

const raidLedgerStorageCollection = "raid_ledger"

// RaidOutcome is the terminal state of one expedition.
type RaidOutcome string

const (
	RaidOutcomeExtracted RaidOutcome = "extracted"
	RaidOutcomeDied      RaidOutcome = "died"
	RaidOutcomeMissing   RaidOutcome = "missing"
)

// RaidResultRequest reports the outcome of one finished raid.
type RaidResultRequest struct {
	Outcome     RaidOutcome `json:"outcome"`
	Map         string      `json:"map,omitempty"`
	DurationSec int64       `json:"duration_sec,omitempty"`
	LootValue   int64       `json:"loot_value,omitempty"`
}

// RaidLedgerEntry is one immutable raid outcome record.
type RaidLedgerEntry struct {
	Id            string      `json:"id"`
	Outcome       RaidOutcome `json:"outcome"`
	Map           string      `json:"map,omitempty"`
	DurationSec   int64       `json:"duration_sec,omitempty"`
	LootValue     int64       `json:"loot_value,omitempty"`
	RecordedAtSec int64       `json:"recorded_at_sec"`
}

// RaidsConfig is the data definition for the RaidsSystem type.
type RaidsConfig struct {
	HistoryPageSize int `json:"history_page_size,omitempty"`
}

func (c *RaidsConfig) applyDefaults() {
	if c.HistoryPageSize <= 0 {
		c.HistoryPageSize = 20
	}
}

// The RaidsSystem records raid outcomes and keeps per-player aggregates in the
// player root document.
type RaidsSystem interface {
	System

	// RecordResult appends a ledger entry for a finished raid and updates the
	// player's raid aggregates in the same atomic write.
	RecordResult(ctx context.Context, logger runtime.Logger, nk runtime.NakamaModule, userID string, req *RaidResultRequest) (*RaidLedgerEntry, error)

	// History returns the player's most recent ledger entries.
	History(ctx context.Context, logger runtime.Logger, nk runtime.NakamaModule, userID string) ([]*RaidLedgerEntry, error)
}

// NakamaRaidsSystem implements the RaidsSystem interface using Nakama as the backend.
type NakamaRaidsSystem struct {
	config *RaidsConfig
	now    func() time.Time
}

func NewNakamaRaidsSystem(config *RaidsConfig) *NakamaRaidsSystem {
	if config == nil {
		config = &RaidsConfig{}
	}
	config.applyDefaults()
	return &NakamaRaidsSystem{
		config: config,
		now:    time.Now,
	}
}

func (s *NakamaRaidsSystem) GetType() SystemType {
	return SystemTypeRaids
}

func (s *NakamaRaidsSystem) GetConfig() any {
	return s.config
}

func (s *NakamaRaidsSystem) RecordResult(ctx context.Context, logger runtime.Logger, nk runtime.NakamaModule, userID string, req *RaidResultRequest) (*RaidLedgerEntry, error) {
	if userID == "" {
		return nil, ErrNoSessionUser
	}
	if req == nil {
		return nil, ErrBadInput
	}

	switch req.Outcome {
	case RaidOutcomeExtracted, RaidOutcomeDied, RaidOutcomeMissing:
	default:
		return nil, runtime.NewError("unknown raid outcome", INVALID_ARGUMENT_ERROR_CODE)
	}

	profile, err := readPlayerProfile(ctx, logger, nk, userID)
	if err != nil {
		return nil, err
	}
	profile.Raids++
	switch req.Outcome {
	case RaidOutcomeExtracted:
		profile.Extractions++
	case RaidOutcomeDied:
		profile.Deaths++
	}

	entry := &RaidLedgerEntry{
		Id:            uuid.New().String(),
		Outcome:       req.Outcome,
		Map:           req.Map,
		DurationSec:   req.DurationSec,
		LootValue:     req.LootValue,
		RecordedAtSec: s.now().Unix(),
	}
	entryValue, err := json.Marshal(entry)
	if err != nil {
		return nil, ErrPayloadEncode
	}

	profileWrite, err := playerProfileWrite(userID, profile)
	if err != nil {
		return nil, err
	}

	writes := []*runtime.StorageWrite{
		{
			Collection:      raidLedgerStorageCollection,
			Key:             entry.Id,
			UserID:          userID,
			Value:           string(entryValue),
			PermissionRead:  1,
			PermissionWrite: 0,
		},
		profileWrite,
	}
	if _, err := nk.StorageWrite(ctx, writes); err != nil {
		logger.Error("Error writing raid ledger entry: %v", err)
		return nil, ErrInternal
	}

	return entry, nil
}

func (s *NakamaRaidsSystem) History(ctx context.Context, logger runtime.Logger, nk runtime.NakamaModule, userID string) ([]*RaidLedgerEntry, error) {
	if userID == "" {
		return nil, ErrNoSessionUser
	}

	objects, _, err := nk.StorageList(ctx, "", userID, raidLedgerStorageCollection, s.config.HistoryPageSize, "")
	if err != nil {
		logger.Error("Error listing raid ledger: %v", err)
		return nil, ErrInternal
	}

	entries := make([]*RaidLedgerEntry, 0, len(objects))
	for _, object := range objects {
		entry := &RaidLedgerEntry{}
		if err := json.Unmarshal([]byte(object.Value), entry); err != nil {
			logger.Error("Error unmarshaling raid ledger entry %s: %v", object.Key, err)
			return nil, ErrInternal
		}
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].RecordedAtSec > entries[j].RecordedAtSec
	})

	return entries, nil
}
