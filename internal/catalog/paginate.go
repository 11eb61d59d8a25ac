package catalog

// DefaultPageSize is the listing page size used when none is configured.
const DefaultPageSize = 20

// Page returns the pageNumber-th slice of items at the given page size,
// clipped to the available length. Pages beyond the last yield an empty
// slice. Page numbers below 1 are a caller bug and are rejected at the HTTP
// boundary before reaching here.
func Page[T any](items []T, pageSize, pageNumber int) []T {
	start := (pageNumber - 1) * pageSize
	if start >= len(items) {
		return []T{}
	}
	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

// TotalPages returns ceiling(itemCount / pageSize).
func TotalPages(itemCount, pageSize int) int {
	if itemCount == 0 {
		return 0
	}
	return (itemCount + pageSize - 1) / pageSize
}
