package stashforge

import (
	"fmt"
	"math"
)

// A ValidationError describes the first constraint violated by a submitted
// snapshot, qualified with the path of the offending item. Validation is
// order-sensitive and short-circuits, so the same snapshot always produces
// the same error.
type ValidationError struct {
	Path   string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Path + ": " + e.Reason
}

func validationErrorf(path, format string, v ...any) *ValidationError {
	return &ValidationError{Path: path, Reason: fmt.Sprintf(format, v...)}
}

// validateItem checks a single item and its nested contents against the
// template catalog. depth counts container nesting levels: an item directly in
// a grid or slot is depth 0 and contents at maxDepth may not contain further
// items.
func validateItem(item *InventoryItemInput, templates map[string]*ItemTemplate, depth, maxDepth int, path string) *ValidationError {
	if item == nil {
		return validationErrorf(path, "item is missing")
	}
	if item.Template == "" {
		return validationErrorf(path, "missing template key")
	}
	if !templateKeyPattern.MatchString(item.Template) {
		return validationErrorf(path, "malformed template key %q", item.Template)
	}
	template, ok := templates[item.Template]
	if !ok {
		return validationErrorf(path, "unknown template %q", item.Template)
	}
	if item.Count <= 0 || item.Count != math.Trunc(item.Count) {
		return validationErrorf(path, "stack count must be a positive integer")
	}
	// Compare in float space: converting a count beyond int64 range first
	// would wrap negative and slip past the max-stack check.
	if item.Count > float64(template.MaxStack) || item.Count >= float64(math.MaxInt64) {
		return validationErrorf(path, "stack count %.0f exceeds max %d for %s", item.Count, template.MaxStack, item.Template)
	}
	count := int64(item.Count)
	if !template.Stackable && count != 1 {
		return validationErrorf(path, "%s is not stackable", item.Template)
	}
	if item.Condition != nil && !(*item.Condition >= 0 && *item.Condition <= conditionMax) {
		// The inverted comparison also rejects NaN.
		return validationErrorf(path, "condition %v out of range [0,%v]", *item.Condition, conditionMax)
	}

	if len(item.Contents) > 0 {
		if !template.Container {
			return validationErrorf(path, "%s is not a container", item.Template)
		}
		if depth >= maxDepth {
			return validationErrorf(path, "nesting too deep")
		}
		occupied := make(map[[2]int32]bool)
		for i, child := range item.Contents {
			childPath := fmt.Sprintf("%s.contents[%d]", path, i)
			if err := validateItem(child, templates, depth+1, maxDepth, childPath); err != nil {
				return err
			}
			if err := claimCells(child, templates[child.Template], template.ContainerWidth, template.ContainerHeight, occupied, childPath); err != nil {
				return err
			}
		}
	}

	return nil
}

// claimCells checks an item's declared placement against a rectangular cell
// space and marks its footprint as occupied. The first item to claim a cell
// wins; later claimants fail. Rotation swaps the effective footprint.
func claimCells(item *InventoryItemInput, template *ItemTemplate, width, height int32, occupied map[[2]int32]bool, path string) *ValidationError {
	if item.X == nil || item.Y == nil {
		return validationErrorf(path, "missing position")
	}
	if *item.X != math.Trunc(*item.X) || *item.Y != math.Trunc(*item.Y) {
		return validationErrorf(path, "position must be integer cell coordinates")
	}
	if *item.X < 0 || *item.Y < 0 {
		return validationErrorf(path, "position (%v,%v) is negative", *item.X, *item.Y)
	}
	// Bound in float space before narrowing: an origin beyond int32 range
	// would wrap during conversion and escape the width and height checks.
	if *item.X >= float64(width) || *item.Y >= float64(height) {
		return validationErrorf(path, "position (%v,%v) outside %dx%d grid", *item.X, *item.Y, width, height)
	}
	x, y := int32(*item.X), int32(*item.Y)

	w, h := template.Width, template.Height
	if item.Rotated != nil && *item.Rotated {
		w, h = h, w
	}
	if int64(x)+int64(w) > int64(width) {
		return validationErrorf(path, "overflows grid width: %d+%d > %d", x, w, width)
	}
	if int64(y)+int64(h) > int64(height) {
		return validationErrorf(path, "overflows grid height: %d+%d > %d", y, h, height)
	}

	for cy := y; cy < y+h; cy++ {
		for cx := x; cx < x+w; cx++ {
			cell := [2]int32{cx, cy}
			if occupied[cell] {
				return validationErrorf(path, "overlaps at (%d,%d)", cx, cy)
			}
			occupied[cell] = true
		}
	}
	return nil
}

// validateGrid checks a full section of grid-resident items in submission
// order. It only verifies that the client-declared placement is conflict-free;
// it never computes a placement itself.
func validateGrid(items []*InventoryItemInput, templates map[string]*ItemTemplate, grid GridConfig, maxDepth int, label string) *ValidationError {
	if len(items) > grid.MaxItems {
		return validationErrorf(label, "too many items: %d > %d", len(items), grid.MaxItems)
	}
	occupied := make(map[[2]int32]bool, len(items))
	for i, item := range items {
		path := fmt.Sprintf("%s[%d]", label, i)
		if err := validateItem(item, templates, 0, maxDepth, path); err != nil {
			return err
		}
		if err := claimCells(item, templates[item.Template], grid.Width, grid.Height, occupied, path); err != nil {
			return err
		}
	}
	return nil
}

// validateEquipment checks worn items against the fixed canonical slot set.
// Placement validity is slot identity only; equipment carries no grid
// coordinates.
func validateEquipment(items []*InventoryItemInput, templates map[string]*ItemTemplate, maxDepth int) *ValidationError {
	claimed := make(map[string]bool, len(items))
	for i, item := range items {
		path := fmt.Sprintf("equipment[%d]", i)
		if item == nil {
			return validationErrorf(path, "item is missing")
		}
		if item.Slot == "" {
			return validationErrorf(path, "missing equipment slot")
		}
		if !canonicalEquipSlots[item.Slot] {
			return validationErrorf(path, "unknown equipment slot %q", item.Slot)
		}
		if claimed[item.Slot] {
			return validationErrorf(path, "slot %q already occupied", item.Slot)
		}
		claimed[item.Slot] = true

		if err := validateItem(item, templates, 0, maxDepth, path); err != nil {
			return err
		}
		slot := templates[item.Template].EquipSlotName()
		if slot == EquipSlotNone {
			return validationErrorf(path, "%s is not equippable", item.Template)
		}
		if slot != item.Slot {
			return validationErrorf(path, "%s belongs in slot %q, not %q", item.Template, slot, item.Slot)
		}
	}
	return nil
}
