// Package cell is the composition root for reactive single-value stores.
//
// A Store holds one value, the single source of truth for a resource such as the
// device location or a price entry. Readers take a Snapshot or Subscribe to a
// stream of committed values; writers submit transforms through Update.
//
// Guarantees:
//
//   - Updates are serialized per store and each transform sees the previous commit.
//   - A failed or panicking transform commits nothing.
//   - Subscribers observe commits in order, starting with the current value.
//   - A slow subscriber only receives the latest value and never blocks writers.
//
// File-backed stores keep one record per file (YAML or JSON) and can reload
// external edits of that file.
//
// Usage:
//
//	loc, err := cell.OpenLocation(ctx, "./data", cell.WithLogger(logger))
//
//	values, err := loc.Subscribe(ctx)
//	for v := range values {
//		fmt.Println(v.Latitude, v.Longitude)
//	}
//
//	_, err = loc.Update(ctx, func(l cell.LocationResource) (cell.LocationResource, error) {
//		return l.Moved(48.85, 2.35, time.Now()), nil
//	})
package cell
