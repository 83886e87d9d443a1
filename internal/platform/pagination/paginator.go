package pagination

// Page is one forward page of results.
type Page[T any] struct {
	Items []T
	// Next is the encoded cursor for the following page, empty on the last one.
	Next string
}

// Window trims items fetched with limit+1 to limit and sets Next when the
// extra item shows more remain.
func Window[T any](items []T, limit int, cursorType string, getID func(T) string) Page[T] {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if len(items) <= limit {
		return Page[T]{Items: items}
	}
	page := items[:limit]
	return Page[T]{
		Items: page,
		Next:  Cursor{Type: cursorType, Value: getID(page[len(page)-1])}.Encode(),
	}
}
