package components

import (
	"strconv"

	"wgze/internal/staleness"
	"wgze/internal/store"
)

// DishListID is the element id swapped by dish mutations.
const DishListID = "dish-list"

// DishFeedbackID receives dish validation errors.
const DishFeedbackID = "dish-feedback"

// badgeLabel describes the day count. Future-dated meals read as today.
func badgeLabel(bucket staleness.Bucket, days int) string {
	switch {
	case bucket == staleness.BucketNever:
		return staleness.Describe(staleness.Never)
	case days < 0:
		return staleness.Describe(0)
	default:
		return staleness.Describe(days)
	}
}

func dishID(dish store.DishWithStaleness) string {
	return strconv.FormatUint(uint64(dish.ID), 10)
}

func dishPath(dish store.DishWithStaleness) string {
	return "/dishes/" + dishID(dish)
}

func deletePrompt(name string) string {
	return "Delete " + name + " and all of its meals?"
}
