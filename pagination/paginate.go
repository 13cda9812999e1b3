package pagination

import (
	"context"
	"log/slog"
)

// Request carries the caller's page request. Cursor is an encoded token; an
// empty or undecodable token means "start of set".
type Request struct {
	Limit  int    `json:"limit"`
	Cursor string `json:"cursor,omitempty"`
}

// DefaultRequest asks for the first page with DefaultLimit records.
func DefaultRequest() Request {
	return Request{Limit: DefaultLimit}
}

// Options tune how envelopes are reported.
type Options struct {
	// ReportRequestedLimit reports the caller's limit as page_size instead of
	// the clamped limit actually applied.
	ReportRequestedLimit bool
	Logger               *slog.Logger
}

func (o Options) pageSize(requested int) int {
	if o.ReportRequestedLimit {
		return requested
	}
	return EffectiveLimit(requested)
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

// PaginateSlice pages through a fully materialized, already ordered sequence.
func PaginateSlice[T any](items []T, req Request, opts Options) Envelope[T] {
	cursor := resolveCursor(req.Cursor, opts.logger())
	limit := EffectiveLimit(req.Limit)
	total := len(items)

	w := ComputeWindow(cursor, limit, total)

	page := make([]T, w.Len())
	copy(page, items[w.Start:w.End])

	return Build(page, w, total, opts.pageSize(req.Limit))
}

// PageFetcher is a store that can count the filtered set and fetch an ordered
// window of it.
type PageFetcher[T any] interface {
	Count(ctx context.Context) (int, error)
	FetchPage(ctx context.Context, offset, limit int) ([]T, error)
}

// FetcherFuncs adapts a pair of functions to PageFetcher.
type FetcherFuncs[T any] struct {
	CountFn func(ctx context.Context) (int, error)
	FetchFn func(ctx context.Context, offset, limit int) ([]T, error)
}

func (f FetcherFuncs[T]) Count(ctx context.Context) (int, error) {
	return f.CountFn(ctx)
}

func (f FetcherFuncs[T]) FetchPage(ctx context.Context, offset, limit int) ([]T, error) {
	return f.FetchFn(ctx, offset, limit)
}

// PaginateStore pages through a store by counting first and then fetching only
// the window. The window is computed exactly as PaginateSlice does, so both
// strategies agree on page boundaries. Store errors are returned unchanged.
func PaginateStore[T any](ctx context.Context, fetcher PageFetcher[T], req Request, opts Options) (Envelope[T], error) {
	cursor := resolveCursor(req.Cursor, opts.logger())
	limit := EffectiveLimit(req.Limit)

	total, err := fetcher.Count(ctx)
	if err != nil {
		return Envelope[T]{}, err
	}

	w := ComputeWindow(cursor, limit, total)

	var page []T
	if w.Len() > 0 {
		page, err = fetcher.FetchPage(ctx, w.Start, w.Len())
		if err != nil {
			return Envelope[T]{}, err
		}
	}

	// rows may have been deleted between count and fetch
	if len(page) > w.Len() {
		page = page[:w.Len()]
	} else if len(page) < w.Len() {
		w.End = w.Start + len(page)
	}

	return Build(page, w, total, opts.pageSize(req.Limit)), nil
}
