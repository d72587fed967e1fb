package stashforge

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/heroiclabs/nakama-common/runtime"
)

const marketStorageCollection = "market"

// MarketListing is one player-created sell offer.
type MarketListing struct {
	Id           string `json:"id"`
	Template     string `json:"template"`
	Count        int64  `json:"count"`
	Price        int64  `json:"price"`
	SellerId     string `json:"seller_id"`
	CreatedAtSec int64  `json:"created_at_sec"`
}

// MarketCreateRequest creates a new listing for the session user.
type MarketCreateRequest struct {
	Template string `json:"template"`
	Count    int64  `json:"count"`
	Price    int64  `json:"price"`
}

// MarketConfig is the data definition for the MarketSystem type.
type MarketConfig struct {
	MaxActiveListings int `json:"max_active_listings,omitempty"`
}

func (c *MarketConfig) applyDefaults() {
	if c.MaxActiveListings <= 0 {
		c.MaxActiveListings = 10
	}
}

// The MarketSystem manages player marketplace listings. Escrow and settlement
// are handled elsewhere; this is listing CRUD only.
type MarketSystem interface {
	System

	// CreateListing validates and persists a new listing for the user.
	CreateListing(ctx context.Context, logger runtime.Logger, nk runtime.NakamaModule, userID string, req *MarketCreateRequest) (*MarketListing, error)

	// ListListings returns the user's active listings, newest first.
	ListListings(ctx context.Context, logger runtime.Logger, nk runtime.NakamaModule, userID string) ([]*MarketListing, error)

	// CancelListing removes one of the user's listings.
	CancelListing(ctx context.Context, logger runtime.Logger, nk runtime.NakamaModule, userID, listingID string) error
}

// NakamaMarketSystem implements the MarketSystem interface using Nakama as the backend.
type NakamaMarketSystem struct {
	config    *MarketConfig
	templates *TemplateCache
	now       func() time.Time
}

func NewNakamaMarketSystem(config *MarketConfig, templates *TemplateCache) *NakamaMarketSystem {
	if config == nil {
		config = &MarketConfig{}
	}
	config.applyDefaults()
	return &NakamaMarketSystem{
		config:    config,
		templates: templates,
		now:       time.Now,
	}
}

func (s *NakamaMarketSystem) GetType() SystemType {
	return SystemTypeMarket
}

func (s *NakamaMarketSystem) GetConfig() any {
	return s.config
}

func (s *NakamaMarketSystem) CreateListing(ctx context.Context, logger runtime.Logger, nk runtime.NakamaModule, userID string, req *MarketCreateRequest) (*MarketListing, error) {
	if userID == "" {
		return nil, ErrNoSessionUser
	}
	if req == nil {
		return nil, ErrBadInput
	}
	if !templateKeyPattern.MatchString(req.Template) {
		return nil, runtime.NewError("malformed template key", INVALID_ARGUMENT_ERROR_CODE)
	}
	if req.Count < 1 {
		return nil, runtime.NewError("listing count must be at least 1", INVALID_ARGUMENT_ERROR_CODE)
	}
	if req.Price <= 0 {
		return nil, runtime.NewError("listing price must be positive", INVALID_ARGUMENT_ERROR_CODE)
	}
	if _, err := s.templates.Lookup(ctx, logger, nk, req.Template); err != nil {
		return nil, err
	}

	existing, err := s.ListListings(ctx, logger, nk, userID)
	if err != nil {
		return nil, err
	}
	if len(existing) >= s.config.MaxActiveListings {
		return nil, runtime.NewError("too many active listings", RESOURCE_EXHAUSTED_ERROR_CODE)
	}

	listing := &MarketListing{
		Id:           uuid.New().String(),
		Template:     req.Template,
		Count:        req.Count,
		Price:        req.Price,
		SellerId:     userID,
		CreatedAtSec: s.now().Unix(),
	}
	value, err := json.Marshal(listing)
	if err != nil {
		return nil, ErrPayloadEncode
	}

	writes := []*runtime.StorageWrite{
		{
			Collection:      marketStorageCollection,
			Key:             listing.Id,
			UserID:          userID,
			Value:           string(value),
			PermissionRead:  2, // Listings are publicly readable.
			PermissionWrite: 0,
		},
	}
	if _, err := nk.StorageWrite(ctx, writes); err != nil {
		logger.Error("Error writing market listing: %v", err)
		return nil, ErrInternal
	}

	return listing, nil
}

func (s *NakamaMarketSystem) ListListings(ctx context.Context, logger runtime.Logger, nk runtime.NakamaModule, userID string) ([]*MarketListing, error) {
	if userID == "" {
		return nil, ErrNoSessionUser
	}

	objects, _, err := nk.StorageList(ctx, "", userID, marketStorageCollection, s.config.MaxActiveListings, "")
	if err != nil {
		logger.Error("Error listing market listings: %v", err)
		return nil, ErrInternal
	}

	listings := make([]*MarketListing, 0, len(objects))
	for _, object := range objects {
		listing := &MarketListing{}
		if err := json.Unmarshal([]byte(object.Value), listing); err != nil {
			logger.Error("Error unmarshaling market listing %s: %v", object.Key, err)
			return nil, ErrInternal
		}
		listings = append(listings, listing)
	}
	sort.Slice(listings, func(i, j int) bool {
		return listings[i].CreatedAtSec > listings[j].CreatedAtSec
	})

	return listings, nil
}

func (s *NakamaMarketSystem) CancelListing(ctx context.Context, logger runtime.Logger, nk runtime.NakamaModule, userID, listingID string) error {
	if userID == "" {
		return ErrNoSessionUser
	}
	if listingID == "" {
		return ErrBadInput
	}

	objects, err := nk.StorageRead(ctx, []*runtime.StorageRead{
		{Collection: marketStorageCollection, Key: listingID, UserID: userID},
	})
	if err != nil {
		logger.Error("Error reading market listing %s: %v", listingID, err)
		return ErrInternal
	}
	if len(objects) == 0 {
		return ErrListingNotFound
	}

	deletes := []*runtime.StorageDelete{
		{Collection: marketStorageCollection, Key: listingID, UserID: userID},
	}
	if err := nk.StorageDelete(ctx, deletes); err != nil {
		logger.Error("Error deleting market listing %s: %v", listingID, err)
		return ErrInternal
	}

	return nil
}
