package stashforge

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/heroiclabs/nakama-common/runtime"
)

func rpcProfileGet(p *stashforgeImpl) rpcFn {
	return func(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
		profileSystem := p.GetProfileSystem()
		if profileSystem == nil {
			return "", ErrSystemNotAvailable
		}

		userID, err := sessionUserID(ctx)
		if err != nil {
			return "", err
		}

		profile, err := profileSystem.Get(ctx, logger, nk, userID)
		if err != nil {
			logger.Error("Error reading profile for user %s: %v", userID, err)
			return "", err
		}

		responseData, err := json.Marshal(profile)
		if err != nil {
			logger.Error("Failed to marshal response: %v", err)
			return "", ErrPayloadEncode
		}

		return string(responseData), nil
	}
}

func rpcProfileSyncSteam(p *stashforgeImpl) rpcFn {
	return func(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
		profileSystem := p.GetProfileSystem()
		if profileSystem == nil {
			return "", ErrSystemNotAvailable
		}

		userID, err := sessionUserID(ctx)
		if err != nil {
			return "", err
		}

		profile, err := profileSystem.SyncSteam(ctx, logger, nk, userID)
		if err != nil {
			logger.Error("Error syncing steam profile for user %s: %v", userID, err)
			return "", err
		}

		responseData, err := json.Marshal(profile)
		if err != nil {
			logger.Error("Failed to marshal response: %v", err)
			return "", ErrPayloadEncode
		}

		return string(responseData), nil
	}
}
