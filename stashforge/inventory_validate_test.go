package stashforge

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f64(v float64) *float64 { return &v }
func boolPtr(v bool) *bool   { return &v }

func gridItem(template string, x, y float64) *InventoryItemInput {
	return &InventoryItemInput{Template: template, Count: 1, X: f64(x), Y: f64(y)}
}

func stashGrid() GridConfig {
	return GridConfig{Width: 10, Height: 10, MaxItems: 100}
}

func TestValidateGrid_AcceptsConflictFreePlacement(t *testing.T) {
	items := []*InventoryItemInput{
		gridItem("weapon:sword", 0, 0),
		gridItem("ammo:rifle_round", 2, 0),
		gridItem("misc:trinket", 0, 1),
	}
	items[1].Count = 60

	err := validateGrid(items, testTemplates(), stashGrid(), 2, "stash")
	require.Nil(t, err)
}

func TestValidateGrid_OverflowsWidth(t *testing.T) {
	// A 2x1 sword at x=9 needs cells 9 and 10; the grid ends at 9.
	items := []*InventoryItemInput{gridItem("weapon:sword", 9, 0)}

	err := validateGrid(items, testTemplates(), stashGrid(), 2, "stash")
	require.NotNil(t, err)
	assert.Contains(t, err.Reason, "overflows grid width")
	assert.Equal(t, "stash[0]", err.Path)
}

func TestValidateGrid_RotationSwapsFootprint(t *testing.T) {
	// Rotated, the 2x1 sword occupies 1x2 and fits at x=9.
	rotated := gridItem("weapon:sword", 9, 0)
	rotated.Rotated = boolPtr(true)

	err := validateGrid([]*InventoryItemInput{rotated}, testTemplates(), stashGrid(), 2, "stash")
	require.Nil(t, err)

	// Rotated at y=9 it now overflows the height instead.
	low := gridItem("weapon:sword", 0, 9)
	low.Rotated = boolPtr(true)
	err = validateGrid([]*InventoryItemInput{low}, testTemplates(), stashGrid(), 2, "stash")
	require.NotNil(t, err)
	assert.Contains(t, err.Reason, "overflows grid height")
}

func TestValidateGrid_FirstClaimantWins(t *testing.T) {
	items := []*InventoryItemInput{
		gridItem("misc:trinket", 3, 3),
		gridItem("misc:trinket", 3, 3),
	}

	err := validateGrid(items, testTemplates(), stashGrid(), 2, "stash")
	require.NotNil(t, err)
	assert.Equal(t, "stash[1]", err.Path)
	assert.Contains(t, err.Reason, "overlaps at (3,3)")
}

func TestValidateGrid_TooManyItems(t *testing.T) {
	grid := GridConfig{Width: 4, Height: 4, MaxItems: 1}
	items := []*InventoryItemInput{
		gridItem("misc:trinket", 0, 0),
		gridItem("misc:trinket", 1, 0),
	}

	err := validateGrid(items, testTemplates(), grid, 2, "expedition")
	require.NotNil(t, err)
	assert.Contains(t, err.Reason, "too many items")
}

func TestValidateGrid_MissingPosition(t *testing.T) {
	items := []*InventoryItemInput{{Template: "misc:trinket", Count: 1}}

	err := validateGrid(items, testTemplates(), stashGrid(), 2, "stash")
	require.NotNil(t, err)
	assert.Contains(t, err.Reason, "missing position")
}

func TestValidateGrid_NegativeAndFractionalPositions(t *testing.T) {
	negative := gridItem("misc:trinket", -1, 0)
	err := validateGrid([]*InventoryItemInput{negative}, testTemplates(), stashGrid(), 2, "stash")
	require.NotNil(t, err)
	assert.Contains(t, err.Reason, "negative")

	fractional := gridItem("misc:trinket", 1.5, 0)
	err = validateGrid([]*InventoryItemInput{fractional}, testTemplates(), stashGrid(), 2, "stash")
	require.NotNil(t, err)
	assert.Contains(t, err.Reason, "integer cell coordinates")
}

func TestValidateGrid_PositionBeyondInt32Rejected(t *testing.T) {
	// Origins past int32 range would wrap during narrowing and dodge both
	// the width check and the cell claim loop.
	for _, pos := range []float64{2147483647, 1e12} {
		atX := gridItem("misc:trinket", pos, 0)
		err := validateGrid([]*InventoryItemInput{atX}, testTemplates(), stashGrid(), 2, "stash")
		require.NotNil(t, err, "x %v", pos)
		assert.Contains(t, err.Reason, "outside")

		atY := gridItem("misc:trinket", 0, pos)
		err = validateGrid([]*InventoryItemInput{atY}, testTemplates(), stashGrid(), 2, "stash")
		require.NotNil(t, err, "y %v", pos)
		assert.Contains(t, err.Reason, "outside")
	}
}

func TestValidateItem_TemplateKeyChecks(t *testing.T) {
	templates := testTemplates()

	err := validateItem(&InventoryItemInput{Count: 1}, templates, 0, 2, "stash[0]")
	require.NotNil(t, err)
	assert.Contains(t, err.Reason, "missing template key")

	err = validateItem(&InventoryItemInput{Template: "Sword!", Count: 1}, templates, 0, 2, "stash[0]")
	require.NotNil(t, err)
	assert.Contains(t, err.Reason, "malformed template key")

	err = validateItem(&InventoryItemInput{Template: "weapon:katana", Count: 1}, templates, 0, 2, "stash[0]")
	require.NotNil(t, err)
	assert.Contains(t, err.Reason, "unknown template")
}

func TestValidateItem_StackRules(t *testing.T) {
	templates := testTemplates()

	for _, count := range []float64{0, -1, 1.5} {
		err := validateItem(&InventoryItemInput{Template: "ammo:rifle_round", Count: count}, templates, 0, 2, "stash[0]")
		require.NotNil(t, err, "count %v", count)
		assert.Contains(t, err.Reason, "positive integer")
	}

	err := validateItem(&InventoryItemInput{Template: "ammo:rifle_round", Count: 61}, templates, 0, 2, "stash[0]")
	require.NotNil(t, err)
	assert.Contains(t, err.Reason, "exceeds max")

	err = validateItem(&InventoryItemInput{Template: "weapon:sword", Count: 2}, templates, 0, 2, "stash[0]")
	require.NotNil(t, err)
	assert.Contains(t, err.Reason, "not stackable")
}

func TestValidateItem_CountBeyondInt64Rejected(t *testing.T) {
	templates := testTemplates()

	// Counts past int64 range would wrap negative if narrowed before the
	// max-stack comparison. They must still fail the stack cap.
	for _, count := range []float64{1e19, math.MaxFloat64, float64(math.MaxInt64)} {
		err := validateItem(&InventoryItemInput{Template: "ammo:rifle_round", Count: count}, templates, 0, 2, "stash[0]")
		require.NotNil(t, err, "count %v", count)
		assert.Contains(t, err.Reason, "exceeds max")
	}
}

func TestValidateItem_ConditionRange(t *testing.T) {
	templates := testTemplates()

	ok := &InventoryItemInput{Template: "weapon:sword", Count: 1, Condition: f64(55.5)}
	require.Nil(t, validateItem(ok, templates, 0, 2, "stash[0]"))

	bad := &InventoryItemInput{Template: "weapon:sword", Count: 1, Condition: f64(100.1)}
	err := validateItem(bad, templates, 0, 2, "stash[0]")
	require.NotNil(t, err)
	assert.Contains(t, err.Reason, "out of range")

	// NaN compares false against every bound, so the range test must be
	// phrased to reject anything not provably inside it.
	nan := &InventoryItemInput{Template: "weapon:sword", Count: 1, Condition: f64(math.NaN())}
	err = validateItem(nan, templates, 0, 2, "stash[0]")
	require.NotNil(t, err)
	assert.Contains(t, err.Reason, "out of range")
}

func TestValidateItem_ContentsRequireContainer(t *testing.T) {
	templates := testTemplates()

	item := &InventoryItemInput{
		Template: "weapon:sword",
		Count:    1,
		Contents: []*InventoryItemInput{gridItem("misc:trinket", 0, 0)},
	}
	err := validateItem(item, templates, 0, 2, "stash[0]")
	require.NotNil(t, err)
	assert.Contains(t, err.Reason, "not a container")
}

func TestValidateItem_NestingDepth(t *testing.T) {
	templates := testTemplates()

	// Depth 2: backpack -> pouch -> trinket. Accepted.
	pouch := gridItem("gear:pouch", 0, 0)
	pouch.Contents = []*InventoryItemInput{gridItem("misc:trinket", 0, 0)}
	backpack := gridItem("gear:backpack", 0, 0)
	backpack.Contents = []*InventoryItemInput{pouch}
	require.Nil(t, validateItem(backpack, templates, 0, 2, "stash[0]"))

	// Depth 3: a pouch nested two containers down may not hold anything,
	// even though its contents would fit.
	inner := gridItem("gear:pouch", 1, 0)
	inner.Contents = []*InventoryItemInput{gridItem("misc:trinket", 0, 0)}
	middle := gridItem("gear:pouch", 0, 0)
	middle.Contents = []*InventoryItemInput{inner}
	backpack.Contents = []*InventoryItemInput{middle}
	err := validateItem(backpack, templates, 0, 2, "stash[0]")
	require.NotNil(t, err)
	assert.Contains(t, err.Reason, "nesting too deep")
	assert.Equal(t, "stash[0].contents[0].contents[0]", err.Path)
}

func TestValidateItem_ContainerInteriorBounds(t *testing.T) {
	templates := testTemplates()

	// The pouch interior is 2x2; the sword is 2x1 and fits only at (0,y).
	pouch := gridItem("gear:pouch", 0, 0)
	pouch.Contents = []*InventoryItemInput{gridItem("weapon:sword", 1, 0)}
	err := validateItem(pouch, templates, 0, 2, "stash[0]")
	require.NotNil(t, err)
	assert.Contains(t, err.Reason, "overflows grid width")

	pouch.Contents = []*InventoryItemInput{gridItem("weapon:sword", 0, 0)}
	require.Nil(t, validateItem(pouch, templates, 0, 2, "stash[0]"))
}

func TestValidateItem_ContainerInteriorOverlap(t *testing.T) {
	templates := testTemplates()

	backpack := gridItem("gear:backpack", 0, 0)
	backpack.Contents = []*InventoryItemInput{
		gridItem("misc:trinket", 1, 1),
		gridItem("misc:trinket", 1, 1),
	}
	err := validateItem(backpack, templates, 0, 2, "stash[0]")
	require.NotNil(t, err)
	assert.Contains(t, err.Reason, "overlaps at (1,1)")
	assert.Equal(t, "stash[0].contents[1]", err.Path)
}

func equipItem(template, slot string) *InventoryItemInput {
	return &InventoryItemInput{Template: template, Count: 1, Slot: slot}
}

func TestValidateEquipment_Accepts(t *testing.T) {
	items := []*InventoryItemInput{
		equipItem("armor:iron_chest", "chest"),
		equipItem("weapon:sword", "main_hand"),
		equipItem("gear:backpack", "back"),
	}
	require.Nil(t, validateEquipment(items, testTemplates(), 2))
}

func TestValidateEquipment_SlotChecks(t *testing.T) {
	templates := testTemplates()

	err := validateEquipment([]*InventoryItemInput{equipItem("weapon:sword", "")}, templates, 2)
	require.NotNil(t, err)
	assert.Contains(t, err.Reason, "missing equipment slot")

	err = validateEquipment([]*InventoryItemInput{equipItem("weapon:sword", "tail")}, templates, 2)
	require.NotNil(t, err)
	assert.Contains(t, err.Reason, "unknown equipment slot")
}

func TestValidateEquipment_DuplicateSlot(t *testing.T) {
	items := []*InventoryItemInput{
		equipItem("armor:iron_chest", "chest"),
		equipItem("armor:iron_chest", "chest"),
	}
	err := validateEquipment(items, testTemplates(), 2)
	require.NotNil(t, err)
	assert.Equal(t, "equipment[1]", err.Path)
	assert.Contains(t, err.Reason, "already occupied")
}

func TestValidateEquipment_WrongSlotNamesExpected(t *testing.T) {
	err := validateEquipment([]*InventoryItemInput{equipItem("armor:iron_chest", "legs")}, testTemplates(), 2)
	require.NotNil(t, err)
	assert.Contains(t, err.Reason, `belongs in slot "chest"`)
}

func TestValidateEquipment_NotEquippable(t *testing.T) {
	err := validateEquipment([]*InventoryItemInput{equipItem("misc:trinket", "head")}, testTemplates(), 2)
	require.NotNil(t, err)
	assert.Contains(t, err.Reason, "not equippable")
}

func TestValidateEquipment_EquippedContainerNesting(t *testing.T) {
	templates := testTemplates()

	// An equipped backpack follows the same nesting and interior rules as a
	// grid-resident one.
	backpack := equipItem("gear:backpack", "back")
	pouch := gridItem("gear:pouch", 0, 0)
	pouch.Contents = []*InventoryItemInput{gridItem("misc:trinket", 0, 0)}
	backpack.Contents = []*InventoryItemInput{pouch}
	require.Nil(t, validateEquipment([]*InventoryItemInput{backpack}, templates, 2))

	inner := gridItem("gear:pouch", 1, 0)
	inner.Contents = []*InventoryItemInput{gridItem("misc:trinket", 0, 0)}
	pouch.Contents = []*InventoryItemInput{inner}
	err := validateEquipment([]*InventoryItemInput{backpack}, templates, 2)
	require.NotNil(t, err)
	assert.Contains(t, err.Reason, "nesting too deep")
}
