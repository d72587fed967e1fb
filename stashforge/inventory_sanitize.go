package stashforge

import (
	"math"
)

// conditionMax is the full-condition value. Items at full condition persist
// with no condition field at all; absence is the canonical encoding.
const conditionMax = 100.0

// sanitizeItem reduces an accepted item to its canonical persisted shape:
// integer-truncated count and position, rotation only when true, condition
// only when below full (rounded to one decimal place), and recursively
// sanitized contents with empty collections dropped. Only run after the item
// passed validation.
func sanitizeItem(item *InventoryItemInput) *InventoryItem {
	out := &InventoryItem{
		Template: item.Template,
		Count:    int64(item.Count),
	}
	if item.X != nil {
		x := int32(*item.X)
		out.X = &x
	}
	if item.Y != nil {
		y := int32(*item.Y)
		out.Y = &y
	}
	if item.Rotated != nil && *item.Rotated {
		out.Rotated = true
	}
	if item.Slot != "" {
		out.Slot = item.Slot
	}
	if item.Condition != nil {
		// Round before the full-condition test so a value that rounds up
		// to full is omitted rather than persisted as 100.
		condition := math.Round(*item.Condition*10) / 10
		if condition < conditionMax {
			out.Condition = &condition
		}
	}
	if len(item.Contents) > 0 {
		contents := make([]*InventoryItem, 0, len(item.Contents))
		for _, child := range item.Contents {
			contents = append(contents, sanitizeItem(child))
		}
		out.Contents = contents
	}
	return out
}

func sanitizeItems(items []*InventoryItemInput) []*InventoryItem {
	out := make([]*InventoryItem, 0, len(items))
	for _, item := range items {
		out = append(out, sanitizeItem(item))
	}
	return out
}
