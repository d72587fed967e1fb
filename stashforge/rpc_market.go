package stashforge

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/heroiclabs/nakama-common/runtime"
)

func rpcMarketCreate(p *stashforgeImpl) rpcFn {
	return func(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
		marketSystem := p.GetMarketSystem()
		if marketSystem == nil {
			return "", ErrSystemNotAvailable
		}

		userID, err := sessionUserID(ctx)
		if err != nil {
			return "", err
		}

		request := &MarketCreateRequest{}
		if err := json.Unmarshal([]byte(payload), request); err != nil {
			logger.Error("Failed to unmarshal MarketCreateRequest: %v", err)
			return "", ErrPayloadInvalid
		}

		listing, err := marketSystem.CreateListing(ctx, logger, nk, userID, request)
		if err != nil {
			logger.Error("Error creating market listing for user %s: %v", userID, err)
			return "", err
		}

		responseData, err := json.Marshal(listing)
		if err != nil {
			logger.Error("Failed to marshal response: %v", err)
			return "", ErrPayloadEncode
		}

		return string(responseData), nil
	}
}

func rpcMarketList(p *stashforgeImpl) rpcFn {
	return func(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
		marketSystem := p.GetMarketSystem()
		if marketSystem == nil {
			return "", ErrSystemNotAvailable
		}

		userID, err := sessionUserID(ctx)
		if err != nil {
			return "", err
		}

		listings, err := marketSystem.ListListings(ctx, logger, nk, userID)
		if err != nil {
			logger.Error("Error listing market listings for user %s: %v", userID, err)
			return "", err
		}

		response := struct {
			Listings []*MarketListing `json:"listings"`
		}{
			Listings: listings,
		}

		responseData, err := json.Marshal(response)
		if err != nil {
			logger.Error("Failed to marshal response: %v", err)
			return "", ErrPayloadEncode
		}

		return string(responseData), nil
	}
}

func rpcMarketCancel(p *stashforgeImpl) rpcFn {
	return func(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
		marketSystem := p.GetMarketSystem()
		if marketSystem == nil {
			return "", ErrSystemNotAvailable
		}

		userID, err := sessionUserID(ctx)
		if err != nil {
			return "", err
		}

		var request struct {
			Id string `json:"id"`
		}
		if err := json.Unmarshal([]byte(payload), &request); err != nil {
			logger.Error("Failed to unmarshal MarketCancelRequest: %v", err)
			return "", ErrPayloadInvalid
		}

		if err := marketSystem.CancelListing(ctx, logger, nk, userID, request.Id); err != nil {
			logger.Error("Error canceling market listing for user %s: %v", userID, err)
			return "", err
		}

		response := struct {
			Success bool `json:"success"`
		}{
			Success: true,
		}

		responseData, err := json.Marshal(response)
		if err != nil {
			logger.Error("Failed to marshal response: %v", err)
			return "", ErrPayloadEncode
		}

		return string(responseData), nil
	}
}
