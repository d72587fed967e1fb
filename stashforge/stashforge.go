package stashforge

import (
	"context"
	"database/sql"

	"github.com/heroiclabs/nakama-common/runtime"
)

// RPC identifiers registered with the Nakama runtime.
const (
	RpcIdInventoryUpdate  = "inventory_update"
	RpcIdInventoryGet     = "inventory_get"
	RpcIdProfileGet       = "profile_get"
	RpcIdProfileSyncSteam = "profile_sync_steam"
	RpcIdRaidResult       = "raid_result"
	RpcIdRaidHistory      = "raid_history"
	RpcIdMarketCreate     = "market_create"
	RpcIdMarketList       = "market_list"
	RpcIdMarketCancel     = "market_cancel"
	RpcIdShopGet          = "shop_get"
)

// Stashforge provides a type which combines all gameplay systems.
type Stashforge interface {
	GetInventorySystem() InventorySystem
	GetProfileSystem() ProfileSystem
	GetRaidsSystem() RaidsSystem
	GetMarketSystem() MarketSystem
	GetShopSystem() ShopSystem
}

// Config aggregates the per-system configurations. Missing sections use
// defaults.
type Config struct {
	Inventory *InventoryConfig `json:"inventory,omitempty"`
	Raids     *RaidsConfig     `json:"raids,omitempty"`
	Market    *MarketConfig    `json:"market,omitempty"`
	Shop      *ShopConfig      `json:"shop,omitempty"`
}

// stashforgeImpl implements the Stashforge interface.
type stashforgeImpl struct {
	inventory InventorySystem
	profile   ProfileSystem
	raids     RaidsSystem
	market    MarketSystem
	shop      ShopSystem
}

// Init constructs the gameplay systems with the configuration provided and
// registers their RPCs with the Nakama runtime.
func Init(ctx context.Context, logger runtime.Logger, nk runtime.NakamaModule, initializer runtime.Initializer, config *Config) (Stashforge, error) {
	if config == nil {
		config = &Config{}
	}

	inventory := NewNakamaInventorySystem(config.Inventory)
	shop, err := NewNakamaShopSystem(config.Shop, inventory.Templates())
	if err != nil {
		logger.Error("Failed to initialize shop system: %v", err)
		return nil, err
	}

	p := &stashforgeImpl{
		inventory: inventory,
		profile:   NewNakamaProfileSystem(),
		raids:     NewNakamaRaidsSystem(config.Raids),
		market:    NewNakamaMarketSystem(config.Market, inventory.Templates()),
		shop:      shop,
	}

	if err := p.registerRpcs(initializer); err != nil {
		return nil, err
	}

	logger.Info("Stashforge systems initialized")
	return p, nil
}

type rpcFn func(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error)

func (p *stashforgeImpl) registerRpcs(initializer runtime.Initializer) error {
	rpcs := []struct {
		id string
		fn rpcFn
	}{
		{RpcIdInventoryUpdate, rpcInventoryUpdate(p)},
		{RpcIdInventoryGet, rpcInventoryGet(p)},
		{RpcIdProfileGet, rpcProfileGet(p)},
		{RpcIdProfileSyncSteam, rpcProfileSyncSteam(p)},
		{RpcIdRaidResult, rpcRaidResult(p)},
		{RpcIdRaidHistory, rpcRaidHistory(p)},
		{RpcIdMarketCreate, rpcMarketCreate(p)},
		{RpcIdMarketList, rpcMarketList(p)},
		{RpcIdMarketCancel, rpcMarketCancel(p)},
		{RpcIdShopGet, rpcShopGet(p)},
	}
	for _, rpc := range rpcs {
		if err := initializer.RegisterRpc(rpc.id, rpc.fn); err != nil {
			return err
		}
	}
	return nil
}

func (p *stashforgeImpl) GetInventorySystem() InventorySystem {
	return p.inventory
}

func (p *stashforgeImpl) GetProfileSystem() ProfileSystem {
	return p.profile
}

func (p *stashforgeImpl) GetRaidsSystem() RaidsSystem {
	return p.raids
}

func (p *stashforgeImpl) GetMarketSystem() MarketSystem {
	return p.market
}

func (p *stashforgeImpl) GetShopSystem() ShopSystem {
	return p.shop
}

// sessionUserID extracts the authenticated user ID from the RPC context.
func sessionUserID(ctx context.Context) (string, error) {
	userID, ok := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)
	if !ok || userID == "" {
		return "", ErrNoSessionUser
	}
	return userID, nil
}
