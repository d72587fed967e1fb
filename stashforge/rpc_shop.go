package stashforge

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/heroiclabs/nakama-common/runtime"
)

func rpcShopGet(p *stashforgeImpl) rpcFn {
	return func(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
		shopSystem := p.GetShopSystem()
		if shopSystem == nil {
			return "", ErrSystemNotAvailable
		}

		userID, err := sessionUserID(ctx)
		if err != nil {
			return "", err
		}

		roll, err := shopSystem.Roll(ctx, logger, nk, userID)
		if err != nil {
			logger.Error("Error rolling shop for user %s: %v", userID, err)
			return "", err
		}

		responseData, err := json.Marshal(roll)
		if err != nil {
			logger.Error("Failed to marshal response: %v", err)
			return "", ErrPayloadEncode
		}

		return string(responseData), nil
	}
}
