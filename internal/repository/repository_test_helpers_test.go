package repository

import (
	"fmt"
	"strings"
	"testing"

	"github.com/mercado-next/internal/constants"
	"github.com/mercado-next/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupRepositoryTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db failed: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := models.MigrateDB(db); err != nil {
		t.Fatalf("migrate models failed: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, email string, role constants.Role) *models.User {
	t.Helper()
	user := &models.User{
		Email:        email,
		PasswordHash: "hash",
		FullName:     "Test " + string(role),
		Role:         role,
		Status:       constants.UserStatusActive,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	return user
}

func createTestStore(t *testing.T, db *gorm.DB, ownerID uint, name string, verified bool) *models.Store {
	t.Helper()
	store := &models.Store{
		OwnerID:        ownerID,
		Name:           name,
		IsVerified:     verified,
		CommissionRate: models.NewMoneyFromDecimal(decimal.NewFromInt(10)),
	}
	if err := db.Create(store).Error; err != nil {
		t.Fatalf("create store failed: %v", err)
	}
	return store
}

func createTestProduct(t *testing.T, db *gorm.DB, storeID uint, name, price string, stock int) *models.Product {
	t.Helper()
	product := &models.Product{
		StoreID:  storeID,
		Name:     name,
		Price:    models.NewMoneyFromString(price),
		Category: "general",
		Images:   models.StringArray{"https://img.example/" + name + ".png"},
		Stock:    stock,
		IsActive: true,
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	return product
}
