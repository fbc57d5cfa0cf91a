package pagination

const (
	// DefaultPageSize is the storefront grid size.
	DefaultPageSize = 12
	// MaxPageSize caps how many items a single page can request.
	MaxPageSize = 48
)

// Params holds page-number pagination inputs from controllers.
type Params struct {
	Page     int
	PageSize int
}

// NormalizePage clamps the requested page to at least 1.
func NormalizePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

// NormalizePageSize enforces the default and maximum page sizes.
func NormalizePageSize(size int) int {
	if size <= 0 {
		return DefaultPageSize
	}
	if size > MaxPageSize {
		return MaxPageSize
	}
	return size
}

// TotalPages returns ceil(total/size) for a normalized size.
func TotalPages(total, size int) int {
	if total <= 0 || size <= 0 {
		return 0
	}
	return (total + size - 1) / size
}

// Window returns the half-open [start, end) slice bounds for the page,
// clamped to the collection length.
func Window(page, size, total int) (int, int) {
	page = NormalizePage(page)
	size = NormalizePageSize(size)

	start := (page - 1) * size
	if start >= total {
		return total, total
	}
	end := start + size
	if end > total {
		end = total
	}
	return start, end
}
