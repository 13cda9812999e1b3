package pagination

// Info is the pagination block of a list response.
type Info struct {
	HasNext        bool    `json:"has_next" msgpack:"has_next"`
	HasPrevious    bool    `json:"has_previous" msgpack:"has_previous"`
	NextCursor     *string `json:"next_cursor" msgpack:"next_cursor"`
	PreviousCursor *string `json:"previous_cursor" msgpack:"previous_cursor"`
	TotalCount     int     `json:"total_count" msgpack:"total_count"`
	PageSize       int     `json:"page_size" msgpack:"page_size"`
}

// Envelope is the response body of a paginated list.
type Envelope[T any] struct {
	Data       []T  `json:"data" msgpack:"data"`
	Pagination Info `json:"pagination" msgpack:"pagination"`
}

// Build assembles the envelope for a materialized window. data must hold the
// records of w in order.
func Build[T any](data []T, w Window, total, pageSize int) Envelope[T] {
	if data == nil {
		data = []T{}
	}

	info := Info{
		HasNext:     w.End < total,
		HasPrevious: w.Start > 0,
		TotalCount:  total,
		PageSize:    pageSize,
	}
	if info.HasNext {
		info.NextCursor = CursorString(&Cursor{Offset: w.End, Direction: Forward})
	}
	if info.HasPrevious {
		info.PreviousCursor = CursorString(&Cursor{Offset: w.Start, Direction: Backward})
	}

	return Envelope[T]{Data: data, Pagination: info}
}

// Next decodes the next cursor, or returns nil.
func (i Info) Next() *Cursor {
	if i.NextCursor == nil {
		return nil
	}
	return DecodeOrNil(*i.NextCursor)
}

// Previous decodes the previous cursor, or returns nil.
func (i Info) Previous() *Cursor {
	if i.PreviousCursor == nil {
		return nil
	}
	return DecodeOrNil(*i.PreviousCursor)
}
