package stashforge

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/heroiclabs/nakama-common/runtime"
)

func rpcRaidResult(p *stashforgeImpl) rpcFn {
	return func(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
		raidsSystem := p.GetRaidsSystem()
		if raidsSystem == nil {
			return "", ErrSystemNotAvailable
		}

		userID, err := sessionUserID(ctx)
		if err != nil {
			return "", err
		}

		request := &RaidResultRequest{}
		if err := json.Unmarshal([]byte(payload), request); err != nil {
			logger.Error("Failed to unmarshal RaidResultRequest: %v", err)
			return "", ErrPayloadInvalid
		}

		entry, err := raidsSystem.RecordResult(ctx, logger, nk, userID, request)
		if err != nil {
			logger.Error("Error recording raid result for user %s: %v", userID, err)
			return "", err
		}

		responseData, err := json.Marshal(entry)
		if err != nil {
			logger.Error("Failed to marshal response: %v", err)
			return "", ErrPayloadEncode
		}

		return string(responseData), nil
	}
}

func rpcRaidHistory(p *stashforgeImpl) rpcFn {
	return func(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
		raidsSystem := p.GetRaidsSystem()
		if raidsSystem == nil {
			return "", ErrSystemNotAvailable
		}

		userID, err := sessionUserID(ctx)
		if err != nil {
			return "", err
		}

		entries, err := raidsSystem.History(ctx, logger, nk, userID)
		if err != nil {
			logger.Error("Error listing raid history for user %s: %v", userID, err)
			return "", err
		}

		response := struct {
			Entries []*RaidLedgerEntry `json:"entries"`
		}{
			Entries: entries,
		}

		responseData, err := json.Marshal(response)
		if err != nil {
			logger.Error("Failed to marshal response: %v", err)
			return "", ErrPayloadEncode
		}

		return string(responseData), nil
	}
}
