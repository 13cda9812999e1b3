package pagination

const (
	// MaxLimit caps the page size regardless of what the caller asks for.
	MaxLimit = 100
	// DefaultLimit is the page size used when the caller does not pick one.
	DefaultLimit = 20
)

// Window is the half-open range [Start, End) of the ordered set that makes up
// a page.
type Window struct {
	Start int
	End   int
}

// Len returns the number of records in the window.
func (w Window) Len() int {
	return w.End - w.Start
}

// EffectiveLimit clamps a requested limit into [0, MaxLimit].
func EffectiveLimit(requested int) int {
	return min(max(requested, 0), MaxLimit)
}

// ComputeWindow resolves the page bounds for a cursor over total records.
// limit must already be clamped with EffectiveLimit.
//
// Without a cursor the window starts at 0. A forward cursor starts at its
// offset; a backward cursor ends at its offset and reaches back limit records.
func ComputeWindow(cursor *Cursor, limit, total int) Window {
	limit = max(limit, 0)
	total = max(total, 0)

	if cursor == nil {
		return Window{Start: 0, End: min(limit, total)}
	}

	offset := max(cursor.Offset, 0)
	switch cursor.Direction {
	case Backward:
		end := min(offset, total)
		start := min(max(0, offset-limit), end)
		return Window{Start: start, End: end}
	default:
		start := min(offset, total)
		end := total
		if limit < total-start {
			end = start + limit
		}
		return Window{Start: start, End: end}
	}
}
