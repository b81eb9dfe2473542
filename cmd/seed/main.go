// Command seed loads products from a JSON file into the catalog.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"time"

	"storefront/config"
	"storefront/internal/models"
	"storefront/internal/redisclient"
	"storefront/internal/service"
	"storefront/internal/store"
	"storefront/internal/util"

	"go.uber.org/zap"
)

func main() {
	file := flag.String("file", "products.json", "JSON array of products to create")
	flag.Parse()

	cfg := config.Load()

	if err := util.InitLogger(cfg.Server.Env, "storefront-seed"); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer util.SyncLogger()
	logger := util.GetLogger()

	products, err := readProducts(*file)
	if err != nil {
		logger.Fatal("Failed to read products", zap.String("file", *file), zap.Error(err))
	}

	db, err := store.NewStore(cfg.Database.Driver, cfg.Database.URL)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if cfg.Database.AutoMigrate {
		if err := db.Migrate(ctx); err != nil {
			logger.Fatal("Failed to migrate database", zap.Error(err))
		}
	}

	redisClient, err := redisclient.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()

	catalog := service.NewCatalogService(db, redisClient, time.Duration(cfg.Shop.CatalogCacheTTLSeconds)*time.Second)

	for i := range products {
		if err := catalog.CreateProduct(ctx, &products[i]); err != nil {
			logger.Fatal("Failed to create product", zap.String("name", products[i].Name), zap.Error(err))
		}
	}

	if err := catalog.InvalidateCache(ctx); err != nil {
		logger.Warn("Failed to invalidate catalog cache", zap.Error(err))
	}

	logger.Info("Seeding finished", zap.Int("products", len(products)))
}

func readProducts(path string) ([]models.Product, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var products []models.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, err
	}
	return products, nil
}
