package utils

const (
	DefaultPageSize = 6
	MaxPageSize     = 50
)

// NormalizePagination clamps page/limit query values: page starts at 1,
// limit falls back to the default page size and is capped.
func NormalizePagination(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	return page, limit
}
