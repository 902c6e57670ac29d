package database

import (
	"log"
	"os"

	"github.com/sefazor/examstore-backend/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func NewDatabase() *gorm.DB {
	// Doğrudan DATABASE_URL'i kullan
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := RunMigrations(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	return db
}

func RunMigrations(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Package{},
		&models.Product{},
		&models.ProductPackage{},
		&models.Order{},
		&models.OrderItem{},
		&models.PromoCode{},
		&models.PromoRedemption{},
		&models.UserPackage{},
	)
}

// Boş katalogda örnek paket/product ekle (lokal geliştirme için).
func SeedCatalog(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Package{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	packages := []models.Package{
		{Name: "CPNS Fundamentals", Description: "Question bank for the national civil service exam", IsActive: true},
		{Name: "CPNS Advanced", Description: "Advanced drills with full answer keys", IsActive: true},
	}
	if err := db.Create(&packages).Error; err != nil {
		return err
	}

	single := models.Product{
		Name:       "CPNS Fundamentals - 30 days",
		Type:       models.ProductTypeSingle,
		Price:      50000,
		PackageID:  &packages[0].ID,
		AccessDays: 30,
		IsActive:   true,
	}
	if err := db.Create(&single).Error; err != nil {
		return err
	}

	bundle := models.Product{
		Name:          "CPNS Complete Bundle - 90 days",
		Type:          models.ProductTypeBundle,
		Price:         120000,
		AccessDays:    90,
		WithAnswerKey: true,
		IsActive:      true,
	}
	if err := db.Create(&bundle).Error; err != nil {
		return err
	}

	items := []models.ProductPackage{
		{ProductID: bundle.ID, PackageID: packages[0].ID, Qty: 1},
		{ProductID: bundle.ID, PackageID: packages[1].ID, Qty: 1},
	}
	return db.Create(&items).Error
}
