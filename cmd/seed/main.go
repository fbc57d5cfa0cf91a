package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/medimart/medimart-backend/internal/catalog"
	"github.com/medimart/medimart-backend/pkg/config"
	"github.com/medimart/medimart-backend/pkg/db"
	"github.com/medimart/medimart-backend/pkg/db/models"
	"github.com/medimart/medimart-backend/pkg/logger"
)

func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "seed"})

	_ = godotenv.Load()

	force := flag.Bool("force", false, "seed even when active products already exist")
	flag.Parse()

	cfg, err := config.Load()
	requireResource(ctx, logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "seed",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})
	ctx = logg.WithFields(context.Background(), map[string]any{"env": cfg.App.Env})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	requireResource(ctx, logg, "database", err)
	defer dbClient.Close()

	repo := catalog.NewRepository(dbClient.DB())

	existing, err := repo.CountActive(ctx)
	requireResource(ctx, logg, "product count", err)

	if existing > 0 && !*force {
		fmt.Printf("catalog already has %d active products, use -force to seed anyway\n", existing)
		return
	}

	created := 0
	for _, p := range seedProducts() {
		if _, err := repo.Create(ctx, &p); err != nil {
			logg.Error(ctx, fmt.Sprintf("seed product %q", p.Name), err)
			os.Exit(1)
		}
		created++
	}

	logg.Info(logg.WithField(ctx, "created", created), "catalog seeded")
	fmt.Printf("seeded %d products\n", created)
}

func seedProducts() []models.Product {
	return []models.Product{
		{
			Name:          "Paracetamol 500mg",
			Description:   "Effective pain relief and fever reducer.",
			Category:      "Medicines",
			Brand:         "Calpol",
			Image:         "https://via.placeholder.com/300",
			Price:         45,
			OriginalPrice: intPtr(60),
			CountInStock:  intPtr(25),
			Rating:        4.4,
			Popularity:    320,
		},
		{
			Name:          "Baby Lotion",
			Description:   "Gentle moisturizing lotion for baby skin.",
			Category:      "Baby Care",
			Brand:         "Himalaya",
			Image:         "https://via.placeholder.com/300",
			Price:         199,
			OriginalPrice: intPtr(249),
			CountInStock:  intPtr(12),
			Rating:        4.1,
			Popularity:    140,
		},
		{
			Name:          "Digital Thermometer",
			Description:   "Fast and accurate temperature measurement.",
			Category:      "Devices",
			Brand:         "Omron",
			Image:         "https://via.placeholder.com/300",
			Price:         299,
			OriginalPrice: intPtr(399),
			CountInStock:  intPtr(0),
			Rating:        4.6,
			Popularity:    95,
		},
		{
			Name:          "Vitamin C Tablets",
			Description:   "Boost immunity with daily vitamin C.",
			Category:      "Nutrition",
			Brand:         "HealthKart",
			Image:         "https://via.placeholder.com/300",
			Price:         499,
			OriginalPrice: intPtr(699),
			CountInStock:  intPtr(30),
			Rating:        4.2,
			Popularity:    210,
		},
		{
			Name:        "Cough Syrup 100ml",
			Description: "Soothing relief for dry and wet cough.",
			Category:    "Medicines",
			Brand:       "Benadryl",
			Image:       "https://via.placeholder.com/300",
			Price:       120,
			Rating:      3.9,
			Popularity:  180,
		},
		{
			Name:                 "Amoxicillin 250mg",
			Description:          "Broad spectrum antibiotic capsules.",
			Category:             "Medicines",
			Brand:                "Cipla",
			Image:                "https://via.placeholder.com/300",
			Price:                85,
			CountInStock:         intPtr(40),
			Rating:               4.0,
			Popularity:           60,
			PrescriptionRequired: true,
		},
		{
			Name:          "Blood Pressure Monitor",
			Description:   "Automatic upper arm blood pressure monitor.",
			Category:      "Devices",
			Brand:         "Omron",
			Image:         "https://via.placeholder.com/300",
			Price:         1899,
			OriginalPrice: intPtr(2499),
			CountInStock:  intPtr(8),
			Rating:        4.7,
			Popularity:    260,
		},
		{
			Name:         "Whey Protein 1kg",
			Description:  "High quality whey protein for daily nutrition.",
			Category:     "Nutrition",
			Brand:        "HealthKart",
			Image:        "https://via.placeholder.com/300",
			Price:        1499,
			CountInStock: intPtr(15),
			Rating:       4.3,
			Popularity:   310,
		},
		{
			Name:         "Baby Diapers Pack of 40",
			Description:  "Soft, breathable diapers with leak protection.",
			Category:     "Baby Care",
			Brand:        "Pampers",
			Image:        "https://via.placeholder.com/300",
			Price:        649,
			CountInStock: intPtr(22),
			Rating:       4.5,
			Popularity:   400,
		},
		{
			Name:         "Hand Sanitizer 500ml",
			Description:  "Alcohol based sanitizer, kills 99.9% of germs.",
			Category:     "Personal Care",
			Brand:        "Dettol",
			Image:        "https://via.placeholder.com/300",
			Price:        249,
			CountInStock: intPtr(50),
			Rating:       4.0,
			Popularity:   150,
		},
	}
}

func intPtr(v int) *int {
	return &v
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
