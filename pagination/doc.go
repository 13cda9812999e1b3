// Package pagination implements cursor based paging over an ordered result set.
//
// A cursor is an offset plus a direction, serialized as JSON and encoded with
// URL-safe base64 so it can travel as a query parameter. Tokens that fail to
// decode are treated as "no cursor" and the caller gets the first page.
//
// Two strategies produce identical envelopes for identical inputs:
//
//   - PaginateSlice works on a fully materialized sequence.
//   - PaginateStore asks a PageFetcher for the total count and then fetches
//     only the window using offset and limit.
//
// Both compute the window with ComputeWindow:
//
//	no cursor:        [0, limit)
//	forward cursor:   [offset, offset+limit)
//	backward cursor:  [offset-limit, offset)
//
// clamped to [0, total). The limit is capped at MaxLimit.
package pagination
