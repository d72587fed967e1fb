package stashforge

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/heroiclabs/nakama-common/runtime"
)

func rpcInventoryUpdate(p *stashforgeImpl) rpcFn {
	return func(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
		inventorySystem := p.GetInventorySystem()
		if inventorySystem == nil {
			return "", ErrSystemNotAvailable
		}

		userID, err := sessionUserID(ctx)
		if err != nil {
			return "", err
		}

		request := &InventoryUpdateRequest{}
		if payload != "" {
			if err := json.Unmarshal([]byte(payload), request); err != nil {
				logger.Error("Failed to unmarshal InventoryUpdateRequest: %v", err)
				return "", ErrPayloadInvalid
			}
		}

		ack, err := inventorySystem.Update(ctx, logger, nk, userID, request)
		if err != nil {
			logger.Error("Error updating inventory for user %s: %v", userID, err)
			return "", err
		}

		responseData, err := json.Marshal(ack)
		if err != nil {
			logger.Error("Failed to marshal response: %v", err)
			return "", ErrPayloadEncode
		}

		return string(responseData), nil
	}
}

func rpcInventoryGet(p *stashforgeImpl) rpcFn {
	return func(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
		inventorySystem := p.GetInventorySystem()
		if inventorySystem == nil {
			return "", ErrSystemNotAvailable
		}

		userID, err := sessionUserID(ctx)
		if err != nil {
			return "", err
		}

		snapshot, err := inventorySystem.Get(ctx, logger, nk, userID)
		if err != nil {
			logger.Error("Error reading inventory for user %s: %v", userID, err)
			return "", err
		}

		responseData, err := json.Marshal(snapshot)
		if err != nil {
			logger.Error("Failed to marshal response: %v", err)
			return "", ErrPayloadEncode
		}

		return string(responseData), nil
	}
}
