package stashforge

import (
	"context"
	"encoding/json"
	"regexp"
	"sync/atomic"
	"time"

	"github.com/heroiclabs/nakama-common/runtime"
)

const (
	templateStorageCollection = "item_templates"
	templateStorageKey        = "catalog"

	// templateCacheTtl is how long a loaded catalog snapshot is served before
	// the next caller triggers a synchronous reload.
	templateCacheTtl = 60 * time.Second
)

// templateKeyPattern matches the namespaced template keys items refer to,
// e.g. "weapon:sword".
var templateKeyPattern = regexp.MustCompile(`^[a-z0-9_]+:[a-z0-9_]+$`)

// ItemTemplate is the immutable catalog definition of an item kind.
type ItemTemplate struct {
	Name            string `json:"name"`
	Width           int32  `json:"width"`
	Height          int32  `json:"height"`
	MaxStack        int64  `json:"max_stack"`
	Stackable       bool   `json:"stackable"`
	Container       bool   `json:"container"`
	ContainerWidth  int32  `json:"container_width,omitempty"`
	ContainerHeight int32  `json:"container_height,omitempty"`
	SlotCode        int32  `json:"slot_code,omitempty"`
	SellPrice       int64  `json:"sell_price,omitempty"`
}

// EquipSlotNone marks a template that cannot be worn.
const EquipSlotNone = "none"

// equipSlotNames maps a template's numeric slot code to its canonical slot name.
var equipSlotNames = map[int32]string{
	0: EquipSlotNone,
	1: "head",
	2: "chest",
	3: "legs",
	4: "feet",
	5: "main_hand",
	6: "off_hand",
	7: "belt",
	8: "back",
}

// canonicalEquipSlots is the fixed set of slot names equipment may occupy.
var canonicalEquipSlots = map[string]bool{
	"head":      true,
	"chest":     true,
	"legs":      true,
	"feet":      true,
	"main_hand": true,
	"off_hand":  true,
	"belt":      true,
	"back":      true,
}

// EquipSlotName returns the canonical slot name for the template's slot code,
// or EquipSlotNone when the code is unset or unrecognized.
func (t *ItemTemplate) EquipSlotName() string {
	if name, ok := equipSlotNames[t.SlotCode]; ok {
		return name
	}
	return EquipSlotNone
}

// A TemplateSource provides the full item template catalog.
type TemplateSource interface {
	ListAll(ctx context.Context, logger runtime.Logger, nk runtime.NakamaModule) (map[string]*ItemTemplate, error)
}

// StaticTemplateSource serves a catalog embedded in the system configuration.
type StaticTemplateSource struct {
	Templates map[string]*ItemTemplate
}

func (s *StaticTemplateSource) ListAll(ctx context.Context, logger runtime.Logger, nk runtime.NakamaModule) (map[string]*ItemTemplate, error) {
	return s.Templates, nil
}

// StorageTemplateSource reads the catalog from a system-owned storage object,
// so the catalog can be updated without redeploying the plugin.
type StorageTemplateSource struct{}

func (s *StorageTemplateSource) ListAll(ctx context.Context, logger runtime.Logger, nk runtime.NakamaModule) (map[string]*ItemTemplate, error) {
	objects, err := nk.StorageRead(ctx, []*runtime.StorageRead{
		{
			Collection: templateStorageCollection,
			Key:        templateStorageKey,
		},
	})
	if err != nil {
		logger.Error("Error reading item template catalog from storage: %v", err)
		return nil, err
	}

	templates := make(map[string]*ItemTemplate)
	if len(objects) == 0 {
		logger.Warn("Item template catalog object not found, serving an empty catalog")
		return templates, nil
	}

	if err := json.Unmarshal([]byte(objects[0].Value), &templates); err != nil {
		logger.Error("Error unmarshaling item template catalog: %v", err)
		return nil, err
	}

	return templates, nil
}

type templateSnapshot struct {
	templates map[string]*ItemTemplate
	loadedAt  time.Time
}

// TemplateCache is a read-through cache over a TemplateSource with bounded
// staleness. A snapshot within the freshness window is served as-is; an empty
// or expired cache triggers a synchronous reload. Concurrent callers that
// observe an expired snapshot may each reload; the reload is idempotent and
// the snapshot swap is atomic, so no reload lock is held.
type TemplateCache struct {
	source   TemplateSource
	ttl      time.Duration
	now      func() time.Time
	snapshot atomic.Pointer[templateSnapshot]
}

// NewTemplateCache creates a template cache over the given source. A zero or
// negative ttl falls back to the default freshness window.
func NewTemplateCache(source TemplateSource, ttl time.Duration) *TemplateCache {
	if ttl <= 0 {
		ttl = templateCacheTtl
	}
	return &TemplateCache{
		source: source,
		ttl:    ttl,
		now:    time.Now,
	}
}

// Catalog returns the current template catalog, reloading it from the source
// when the cached snapshot is missing or expired. A load failure propagates to
// the caller; the previous snapshot is left in place rather than being
// replaced with an empty catalog.
func (c *TemplateCache) Catalog(ctx context.Context, logger runtime.Logger, nk runtime.NakamaModule) (map[string]*ItemTemplate, error) {
	if snap := c.snapshot.Load(); snap != nil && c.now().Sub(snap.loadedAt) < c.ttl {
		return snap.templates, nil
	}

	templates, err := c.source.ListAll(ctx, logger, nk)
	if err != nil {
		return nil, ErrTemplatesUnavailable
	}

	c.snapshot.Store(&templateSnapshot{
		templates: templates,
		loadedAt:  c.now(),
	})
	return templates, nil
}

// Lookup resolves a single template key through the cache.
func (c *TemplateCache) Lookup(ctx context.Context, logger runtime.Logger, nk runtime.NakamaModule, key string) (*ItemTemplate, error) {
	templates, err := c.Catalog(ctx, logger, nk)
	if err != nil {
		return nil, err
	}
	template, ok := templates[key]
	if !ok {
		return nil, ErrTemplateNotFound
	}
	return template, nil
}
