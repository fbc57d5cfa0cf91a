package catalog

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
)

func testProduct(name, category, brand string, price int, mutate func(*ProductDTO)) ProductDTO {
	p := ProductDTO{
		ID:           uuid.New(),
		Name:         name,
		Category:     category,
		Brand:        brand,
		Price:        price,
		CountInStock: 10,
		CreatedAt:    time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	if mutate != nil {
		mutate(&p)
	}
	return p
}

func TestQueryFiltersByCategory(t *testing.T) {
	t.Parallel()

	products := []ProductDTO{
		testProduct("Paracetamol", "Medicines", "Cipla", 30, nil),
		testProduct("Thermometer", "Devices", "Omron", 250, nil),
		testProduct("Ibuprofen", "Medicines", "Abbott", 45, nil),
	}

	result := Query(products, QuerySpec{Category: "Medicines"}, 1, 12)

	if result.TotalCount != 2 {
		t.Fatalf("expected 2 matches, got %d", result.TotalCount)
	}
	for _, item := range result.Items {
		if item.Category != "Medicines" {
			t.Fatalf("unexpected category %q in results", item.Category)
		}
	}
}

func TestQuerySearchMatchesNameDescriptionAndBrand(t *testing.T) {
	t.Parallel()

	products := []ProductDTO{
		testProduct("Digital Thermometer", "Devices", "Omron", 250, nil),
		testProduct("Cough Syrup", "Medicines", "Cipla", 90, func(p *ProductDTO) {
			p.Description = "fast relief thermometer-free formula"
		}),
		testProduct("Vitamin C", "Supplements", "Thermocare", 150, nil),
		testProduct("Bandage Roll", "First Aid", "Hansaplast", 40, nil),
	}

	result := Query(products, QuerySpec{Search: "THERMO"}, 1, 12)

	if result.TotalCount != 3 {
		t.Fatalf("expected 3 matches across name/description/brand, got %d", result.TotalCount)
	}
}

func TestQueryFiltersByBrandSetAndMaxPrice(t *testing.T) {
	t.Parallel()

	products := []ProductDTO{
		testProduct("A", "Medicines", "Cipla", 100, nil),
		testProduct("B", "Medicines", "Abbott", 400, nil),
		testProduct("C", "Medicines", "Cipla", 600, nil),
		testProduct("D", "Medicines", "Sun Pharma", 90, nil),
	}

	result := Query(products, QuerySpec{Brands: []string{"Cipla", "Abbott"}, MaxPrice: 500}, 1, 12)

	if result.TotalCount != 2 {
		t.Fatalf("expected 2 matches, got %d", result.TotalCount)
	}
	for _, item := range result.Items {
		if item.Price > 500 {
			t.Fatalf("price filter leaked product priced %d", item.Price)
		}
		if item.Brand == "Sun Pharma" {
			t.Fatalf("brand filter leaked %q", item.Brand)
		}
	}
}

func TestQueryCategoryAndBrandMatchExactly(t *testing.T) {
	t.Parallel()

	products := []ProductDTO{
		testProduct("A", "Medicines", "Cipla", 100, nil),
		testProduct("B", "Devices", "Omron", 250, nil),
	}

	if got := Query(products, QuerySpec{Category: "medicines"}, 1, 12).TotalCount; got != 0 {
		t.Fatalf("category filter must match exactly, got %d matches", got)
	}
	if got := Query(products, QuerySpec{Brands: []string{"cipla"}}, 1, 12).TotalCount; got != 0 {
		t.Fatalf("brand filter must match exactly, got %d matches", got)
	}
	if got := Query(products, QuerySpec{Category: "Medicines", Brands: []string{"Cipla"}}, 1, 12).TotalCount; got != 1 {
		t.Fatalf("exact filters should match, got %d", got)
	}
}

func TestQuerySortOrders(t *testing.T) {
	t.Parallel()

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	products := []ProductDTO{
		testProduct("A", "Medicines", "X", 300, func(p *ProductDTO) {
			p.Rating = 3.5
			p.Popularity = 10
			p.CreatedAt = base
		}),
		testProduct("B", "Medicines", "X", 100, func(p *ProductDTO) {
			p.Rating = 4.8
			p.Popularity = 50
			p.CreatedAt = base.Add(48 * time.Hour)
		}),
		testProduct("C", "Medicines", "X", 200, func(p *ProductDTO) {
			p.Rating = 4.1
			p.Popularity = 30
			p.CreatedAt = base.Add(24 * time.Hour)
		}),
	}

	cases := []struct {
		sort SortKey
		want []string
	}{
		{SortPriceLow, []string{"B", "C", "A"}},
		{SortPriceHigh, []string{"A", "C", "B"}},
		{SortPopular, []string{"B", "C", "A"}},
		{SortRating, []string{"B", "C", "A"}},
		{SortNewest, []string{"B", "C", "A"}},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(string(tc.sort), func(t *testing.T) {
			t.Parallel()

			result := Query(products, QuerySpec{Sort: tc.sort}, 1, 12)
			if len(result.Items) != len(tc.want) {
				t.Fatalf("expected %d items, got %d", len(tc.want), len(result.Items))
			}
			for i, name := range tc.want {
				if result.Items[i].Name != name {
					t.Fatalf("position %d: expected %q, got %q", i, name, result.Items[i].Name)
				}
			}
		})
	}
}

func TestQuerySortIsStable(t *testing.T) {
	t.Parallel()

	products := make([]ProductDTO, 0, 4)
	for i := 0; i < 4; i++ {
		products = append(products, testProduct(fmt.Sprintf("P%d", i), "Medicines", "X", 100, nil))
	}

	result := Query(products, QuerySpec{Sort: SortPriceLow}, 1, 12)

	for i := range result.Items {
		if result.Items[i].Name != fmt.Sprintf("P%d", i) {
			t.Fatalf("equal-priced products reordered: position %d got %q", i, result.Items[i].Name)
		}
	}
}

func TestQueryPaginatesMedicinesCatalog(t *testing.T) {
	t.Parallel()

	products := make([]ProductDTO, 0, 20)
	for i := 0; i < 15; i++ {
		products = append(products, testProduct(fmt.Sprintf("Med%d", i), "Medicines", "X", (i+1)*10, nil))
	}
	for i := 0; i < 5; i++ {
		products = append(products, testProduct(fmt.Sprintf("Dev%d", i), "Devices", "Y", 500, nil))
	}

	result := Query(products, QuerySpec{Category: "Medicines", Sort: SortPriceLow}, 1, 12)

	if len(result.Items) != 12 {
		t.Fatalf("expected full first page of 12, got %d", len(result.Items))
	}
	if result.TotalCount != 15 {
		t.Fatalf("expected 15 matches, got %d", result.TotalCount)
	}
	if result.TotalPages != 2 {
		t.Fatalf("expected 2 pages, got %d", result.TotalPages)
	}
	for i := 1; i < len(result.Items); i++ {
		if result.Items[i].Price < result.Items[i-1].Price {
			t.Fatalf("prices not ascending at position %d", i)
		}
	}

	second := Query(products, QuerySpec{Category: "Medicines", Sort: SortPriceLow}, 2, 12)
	if len(second.Items) != 3 {
		t.Fatalf("expected 3 items on last page, got %d", len(second.Items))
	}
}

func TestQueryPageBeyondRangeIsEmpty(t *testing.T) {
	t.Parallel()

	products := []ProductDTO{testProduct("A", "Medicines", "X", 100, nil)}

	result := Query(products, QuerySpec{}, 5, 12)

	if len(result.Items) != 0 {
		t.Fatalf("expected empty page, got %d items", len(result.Items))
	}
	if result.TotalCount != 1 || result.TotalPages != 1 {
		t.Fatalf("counts wrong: total=%d pages=%d", result.TotalCount, result.TotalPages)
	}
}

func TestParseSortKeyFallsBackToNewest(t *testing.T) {
	t.Parallel()

	if got := ParseSortKey("bogus"); got != SortNewest {
		t.Fatalf("expected fallback to newest, got %q", got)
	}
	if got := ParseSortKey("priceHigh"); got != SortPriceHigh {
		t.Fatalf("expected priceHigh, got %q", got)
	}
}

func TestBuildFacets(t *testing.T) {
	t.Parallel()

	products := []ProductDTO{
		testProduct("A", "Medicines", "Cipla", 100, nil),
		testProduct("B", "Medicines", "Cipla", 100, nil),
		testProduct("C", "Devices", "Omron", 100, nil),
		testProduct("D", "Devices", "", 100, nil),
		testProduct("E", "Medicines", "Cipla", 100, nil),
		testProduct("F", "Devices", "Omron", 100, nil),
		testProduct("G", "Nutrition", "HealthKart", 100, nil),
	}

	facets := BuildFacets(products)

	want := []BrandFacet{
		{Brand: "Cipla", Count: 3},
		{Brand: "Omron", Count: 2},
		{Brand: "HealthKart", Count: 1},
	}
	if len(facets.Brands) != len(want) {
		t.Fatalf("expected %d brands, got %v", len(want), facets.Brands)
	}
	for i, got := range facets.Brands {
		if got != want[i] {
			t.Fatalf("brand facet %d: expected %+v, got %+v", i, want[i], got)
		}
	}
	if facets.Categories["Medicines"] != 3 || facets.Categories["Devices"] != 3 || facets.Categories["Nutrition"] != 1 {
		t.Fatalf("unexpected category counts: %v", facets.Categories)
	}
}
