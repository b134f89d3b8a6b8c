package service

import (
	"fmt"
	"strings"
	"testing"

	"github.com/mercado-next/internal/config"
	"github.com/mercado-next/internal/constants"
	"github.com/mercado-next/internal/models"
	"github.com/mercado-next/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

type serviceTestEnv struct {
	db          *gorm.DB
	cartRepo    *repository.GormCartRepository
	productRepo *repository.GormProductRepository
	storeRepo   *repository.GormStoreRepository
	reviewRepo  *repository.GormReviewRepository
	userRepo    *repository.GormUserRepository
	store       *models.Store
}

func newServiceTestEnv(t *testing.T) *serviceTestEnv {
	t.Helper()
	dsn := fmt.Sprintf("file:svc_%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
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
		t.Fatalf("migrate failed: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	env := &serviceTestEnv{
		db:          db,
		cartRepo:    repository.NewCartRepository(db),
		productRepo: repository.NewProductRepository(db),
		storeRepo:   repository.NewStoreRepository(db),
		reviewRepo:  repository.NewReviewRepository(db),
		userRepo:    repository.NewUserRepository(db),
	}
	seller := env.createUser(t, "seller@tienda.mx", constants.RoleSeller)
	env.store = &models.Store{OwnerID: seller.ID, Name: "Tienda Centro", IsVerified: true}
	if err := db.Create(env.store).Error; err != nil {
		t.Fatalf("create store failed: %v", err)
	}
	return env
}

func (e *serviceTestEnv) createUser(t *testing.T, email string, role constants.Role) *models.User {
	t.Helper()
	user := &models.User{
		Email:        email,
		PasswordHash: "x",
		FullName:     "Usuario " + string(role),
		Role:         role,
		Status:       constants.UserStatusActive,
	}
	if err := e.db.Create(user).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	return user
}

func (e *serviceTestEnv) createProduct(t *testing.T, name, price string, stock int) *models.Product {
	t.Helper()
	product := &models.Product{
		StoreID:  e.store.ID,
		Name:     name,
		Price:    models.NewMoneyFromString(price),
		Category: "hogar",
		Images:   models.StringArray{"https://img.example/" + name + ".jpg"},
		Stock:    stock,
		IsActive: true,
	}
	if err := e.db.Create(product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	return product
}

func (e *serviceTestEnv) cartService(policy string) *CartService {
	return NewCartService(e.cartRepo, e.productRepo, config.CartConfig{
		StockPolicy:     policy,
		LockTTLSeconds:  5,
		LockWaitSeconds: 5,
	})
}

func (e *serviceTestEnv) newCart(t *testing.T, svc *CartService, email string) *models.Cart {
	t.Helper()
	user := e.createUser(t, email, constants.RoleCustomer)
	cart, err := svc.GetOrCreateCart(t.Context(), user.ID)
	if err != nil {
		t.Fatalf("get or create cart failed: %v", err)
	}
	return cart
}
