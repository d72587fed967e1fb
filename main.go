package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"time"

	"github.com/heroiclabs/nakama-common/runtime"

	"stashforge/stashforge"
)

const configFile = "stashforge.json"

// noinspection GoUnusedExportedFunction
func InitModule(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, initializer runtime.Initializer) error {
	initStart := time.Now()

	logger.Info("Loading Stashforge Nakama plugin...")

	config := &stashforge.Config{}
	if f, err := nk.ReadFile(configFile); err != nil {
		logger.Info("No %s found, using default configuration", configFile)
	} else {
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			logger.Error("Failed to read %s: %v", configFile, err)
			return err
		}
		if err := json.Unmarshal(data, config); err != nil {
			logger.Error("Failed to parse %s: %v", configFile, err)
			return err
		}
	}

	if _, err := stashforge.Init(ctx, logger, nk, initializer, config); err != nil {
		logger.Error("Failed to initialize Stashforge systems: %v", err)
		return err
	}

	logger.Info("Stashforge plugin loaded in '%d' msec.", time.Now().Sub(initStart).Milliseconds())
	return nil
}

// main is never called; Nakama loads this module via InitModule. It exists
// only so the package links when built without -buildmode=plugin.
func main() {}
