package theme

import "wgze/internal/staleness"

// Swatch holds the styling primitives for one staleness bucket.
type Swatch struct {
	Bucket     staleness.Bucket
	Label      string
	BadgeClass string
	RowClass   string
}

// Option represents a legend entry exposed to the UI.
type Option struct {
	Value string
	Label string
}

// DefaultBucket is used for buckets the palette does not know.
const DefaultBucket = staleness.BucketNever

var catalogue = map[staleness.Bucket]Swatch{
	staleness.BucketNever: {
		Bucket:     staleness.BucketNever,
		Label:      "Never eaten",
		BadgeClass: "badge bg-slate-100 text-slate-700",
		RowClass:   "dish-row dish-never",
	},
	staleness.BucketToday: {
		Bucket:     staleness.BucketToday,
		Label:      "Today",
		BadgeClass: "badge bg-emerald-100 text-emerald-800",
		RowClass:   "dish-row dish-today",
	},
	staleness.BucketYesterday: {
		Bucket:     staleness.BucketYesterday,
		Label:      "Yesterday",
		BadgeClass: "badge bg-lime-100 text-lime-800",
		RowClass:   "dish-row dish-yesterday",
	},
	staleness.BucketRecent: {
		Bucket:     staleness.BucketRecent,
		Label:      "This week",
		BadgeClass: "badge bg-sky-100 text-sky-800",
		RowClass:   "dish-row dish-recent",
	},
	staleness.BucketAging: {
		Bucket:     staleness.BucketAging,
		Label:      "This month",
		BadgeClass: "badge bg-amber-100 text-amber-800",
		RowClass:   "dish-row dish-aging",
	},
	staleness.BucketStale: {
		Bucket:     staleness.BucketStale,
		Label:      "Over a month",
		BadgeClass: "badge bg-rose-100 text-rose-800",
		RowClass:   "dish-row dish-stale",
	},
}

var options = []Option{
	{Value: string(staleness.BucketToday), Label: "Today"},
	{Value: string(staleness.BucketYesterday), Label: "Yesterday"},
	{Value: string(staleness.BucketRecent), Label: "This week"},
	{Value: string(staleness.BucketAging), Label: "This month"},
	{Value: string(staleness.BucketStale), Label: "Over a month"},
	{Value: string(staleness.BucketNever), Label: "Never eaten"},
}

// Resolve returns the swatch registered for bucket.
func Resolve(bucket staleness.Bucket) Swatch {
	if value, ok := catalogue[bucket]; ok {
		return value
	}
	return catalogue[DefaultBucket]
}

// Options exposes the legend entries from freshest to never eaten.
func Options() []Option {
	return options
}
