// Development utility: provisions the manager account from the environment
// and loads the product catalog. Safe to run repeatedly.
package main

import (
	"context"
	"errors"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"github.com/skladhub/warehousing-system/internal/core/domain"
	"github.com/skladhub/warehousing-system/internal/infrastructure/config"
	mongodb "github.com/skladhub/warehousing-system/internal/infrastructure/db/mongo"
)

var catalog = []*domain.Product{
	{Name: "Pallet rack slot", Description: "Single EUR-pallet slot, dry warehouse", PricePerUnit: 150},
	{Name: "Cold storage cell", Description: "Temperature-controlled cell, 2-8C", PricePerUnit: 320},
	{Name: "Bulk floor space", Description: "Open floor space per square metre", PricePerUnit: 90},
	{Name: "Hazmat locker", Description: "Certified locker for class 3/8 goods", PricePerUnit: 540},
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatalf("mongo connect: %v", err)
	}
	defer func() {
		_ = client.Disconnect(context.Background())
	}()

	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		log.Fatalf("ensure indexes: %v", err)
	}

	products := mongodb.NewProductRepository(db)
	for _, p := range catalog {
		if err := products.Upsert(ctx, p); err != nil {
			log.Fatalf("upsert product %q: %v", p.Name, err)
		}
	}
	log.Printf("catalog loaded: %d products", len(catalog))

	seedManager(ctx, mongodb.NewUserRepository(db))
}

func seedManager(ctx context.Context, users *mongodb.UserRepository) {
	username := os.Getenv("MANAGER_USERNAME")
	password := os.Getenv("MANAGER_PASSWORD")
	if username == "" || password == "" {
		log.Println("MANAGER_USERNAME/MANAGER_PASSWORD not set, skipping manager seed")
		return
	}

	if _, err := users.FindByUsername(ctx, username); err == nil {
		log.Println("manager account already exists, skipping")
		return
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		log.Fatalf("lookup manager: %v", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	if _, err := users.Create(ctx, &domain.User{
		Username:     username,
		PasswordHash: string(hash),
		Role:         domain.RoleManager,
		FirstName:    "Warehouse",
		LastName:     "Manager",
	}); err != nil {
		log.Fatalf("create manager: %v", err)
	}
	log.Println("manager account created")
}
