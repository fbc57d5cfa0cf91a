package catalog

import (
	"sort"
	"strings"

	"github.com/medimart/medimart-backend/pkg/pagination"
)

// SortKey selects the ordering applied after filtering.
type SortKey string

const (
	SortNewest    SortKey = "newest"
	SortPriceLow  SortKey = "priceLow"
	SortPriceHigh SortKey = "priceHigh"
	SortPopular   SortKey = "popular"
	SortRating    SortKey = "rating"
)

// ParseSortKey maps a raw query value onto a supported sort, falling
// back to newest for anything unrecognized.
func ParseSortKey(raw string) SortKey {
	switch SortKey(raw) {
	case SortPriceLow, SortPriceHigh, SortPopular, SortRating:
		return SortKey(raw)
	default:
		return SortNewest
	}
}

// QuerySpec describes one catalog query. Zero values mean "no
// constraint" for every field except Sort, which defaults to newest.
type QuerySpec struct {
	Category string
	Search   string
	Brands   []string
	MaxPrice int
	Sort     SortKey
}

// QueryResult is one page of matches plus the counts needed to render
// pagination controls.
type QueryResult struct {
	Items      []ProductDTO
	TotalCount int
	TotalPages int
	Page       int
	PageSize   int
}

// Query runs the filter pipeline over the given products and returns
// the requested page. Filters apply in a fixed order: category, search,
// brands, max price. Sorting is stable so products that compare equal
// keep their input order.
func Query(products []ProductDTO, spec QuerySpec, page, pageSize int) QueryResult {
	matched := filterProducts(products, spec)
	sortProducts(matched, spec.Sort)

	page = pagination.NormalizePage(page)
	pageSize = pagination.NormalizePageSize(pageSize)
	start, end := pagination.Window(page, pageSize, len(matched))

	items := make([]ProductDTO, end-start)
	copy(items, matched[start:end])

	return QueryResult{
		Items:      items,
		TotalCount: len(matched),
		TotalPages: pagination.TotalPages(len(matched), pageSize),
		Page:       page,
		PageSize:   pageSize,
	}
}

func filterProducts(products []ProductDTO, spec QuerySpec) []ProductDTO {
	matched := make([]ProductDTO, 0, len(products))
	needle := strings.ToLower(strings.TrimSpace(spec.Search))
	brands := brandSet(spec.Brands)

	for _, p := range products {
		if spec.Category != "" && p.Category != spec.Category {
			continue
		}
		if needle != "" && !matchesSearch(p, needle) {
			continue
		}
		if len(brands) > 0 {
			if _, ok := brands[p.Brand]; !ok {
				continue
			}
		}
		if spec.MaxPrice > 0 && p.Price > spec.MaxPrice {
			continue
		}
		matched = append(matched, p)
	}
	return matched
}

func matchesSearch(p ProductDTO, needle string) bool {
	return strings.Contains(strings.ToLower(p.Name), needle) ||
		strings.Contains(strings.ToLower(p.Description), needle) ||
		strings.Contains(strings.ToLower(p.Brand), needle)
}

// Brand membership is exact: facets hand clients the canonical brand
// strings, so the filter round-trips them unchanged.
func brandSet(brands []string) map[string]struct{} {
	set := make(map[string]struct{}, len(brands))
	for _, b := range brands {
		b = strings.TrimSpace(b)
		if b != "" {
			set[b] = struct{}{}
		}
	}
	return set
}

func sortProducts(products []ProductDTO, key SortKey) {
	switch key {
	case SortPriceLow:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Price < products[j].Price
		})
	case SortPriceHigh:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Price > products[j].Price
		})
	case SortPopular:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Popularity > products[j].Popularity
		})
	case SortRating:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Rating > products[j].Rating
		})
	default:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].CreatedAt.After(products[j].CreatedAt)
		})
	}
}

// BrandFacet is one sidebar entry: a brand and how many products
// carry it.
type BrandFacet struct {
	Brand string `json:"brand"`
	Count int    `json:"count"`
}

// Facets summarizes the brands (with product counts, most products
// first) and per-category counts of a product set, for rendering
// filter sidebars.
type Facets struct {
	Brands     []BrandFacet   `json:"brands"`
	Categories map[string]int `json:"categories"`
}

// BuildFacets computes facets over the full (unfiltered) product set.
func BuildFacets(products []ProductDTO) Facets {
	categories := make(map[string]int)
	counts := make(map[string]int)
	order := make([]string, 0)

	for _, p := range products {
		categories[p.Category]++
		if p.Brand == "" {
			continue
		}
		if _, ok := counts[p.Brand]; !ok {
			order = append(order, p.Brand)
		}
		counts[p.Brand]++
	}

	brands := make([]BrandFacet, 0, len(order))
	for _, b := range order {
		brands = append(brands, BrandFacet{Brand: b, Count: counts[b]})
	}
	// most carried brand first, first-seen wins ties
	sort.SliceStable(brands, func(i, j int) bool {
		return brands[i].Count > brands[j].Count
	})

	return Facets{Brands: brands, Categories: categories}
}
