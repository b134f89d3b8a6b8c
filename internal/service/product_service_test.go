package service

import (
	"context"
	"errors"
	"testing"

	"github.com/mercado-next/internal/constants"
	"github.com/mercado-next/internal/models"
)

func TestAverageRating(t *testing.T) {
	if got := AverageRating(nil); got != 0 {
		t.Fatalf("empty reviews want 0 got %v", got)
	}
	reviews := []models.Review{{Rating: 5}, {Rating: 4}, {Rating: 4}}
	if got := AverageRating(reviews); got != 4.3 {
		t.Fatalf("want 4.3 got %v", got)
	}
}

func TestProductDetailWithReviews(t *testing.T) {
	env := newServiceTestEnv(t)
	svc := NewProductService(env.productRepo, env.reviewRepo)
	product := env.createProduct(t, "mezcal", "650.00", 12)
	author := env.createUser(t, "critico@correo.mx", constants.RoleCustomer)
	for _, rating := range []int{5, 3} {
		if err := env.reviewRepo.Create(&models.Review{ProductID: product.ID, UserID: author.ID, Rating: rating, Comment: "bueno"}); err != nil {
			t.Fatalf("create review failed: %v", err)
		}
	}

	detail, err := svc.GetDetail(context.Background(), product.ID)
	if err != nil {
		t.Fatalf("get detail failed: %v", err)
	}
	if detail.ReviewCount != 2 || detail.AverageRating != 4 {
		t.Fatalf("unexpected rating summary %+v", detail)
	}
	if detail.Reviews[0].AuthorName != author.FullName {
		t.Fatalf("review should carry author name, got %+v", detail.Reviews[0])
	}
	if detail.Product.Store == nil || detail.Product.Store.Name != "Tienda Centro" {
		t.Fatalf("product detail should include store")
	}
}

func TestProductDetailHidesInactive(t *testing.T) {
	env := newServiceTestEnv(t)
	svc := NewProductService(env.productRepo, env.reviewRepo)
	product := env.createProduct(t, "oculto", "10.00", 1)
	product.IsActive = false
	if err := env.db.Save(product).Error; err != nil {
		t.Fatalf("deactivate failed: %v", err)
	}

	if _, err := svc.GetDetail(context.Background(), product.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("inactive detail want NotFound got %v", err)
	}
	if _, err := svc.GetProduct(context.Background(), 424242); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("missing product want ErrProductNotFound got %v", err)
	}
}

func TestProductListingAndCategories(t *testing.T) {
	env := newServiceTestEnv(t)
	svc := NewProductService(env.productRepo, env.reviewRepo)
	featured := env.createProduct(t, "Taza Talavera", "150.00", 3)
	featured.IsFeatured = true
	if err := env.db.Save(featured).Error; err != nil {
		t.Fatalf("mark featured failed: %v", err)
	}
	env.createProduct(t, "Plato Talavera", "90.00", 3)

	items, total, err := svc.ListPublic(ProductListQuery{Search: "talavera", Sort: "price_asc", PageSize: 500})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 2 || items[0].Name != "Plato Talavera" {
		t.Fatalf("unexpected listing total=%d items=%+v", total, items)
	}

	list, err := svc.ListFeatured(0)
	if err != nil {
		t.Fatalf("list featured failed: %v", err)
	}
	if len(list) != 1 || list[0].ID != featured.ID {
		t.Fatalf("unexpected featured %+v", list)
	}

	categories, err := svc.Categories(context.Background())
	if err != nil {
		t.Fatalf("categories failed: %v", err)
	}
	if len(categories) != 1 || categories[0] != "hogar" {
		t.Fatalf("unexpected categories %v", categories)
	}
}

func TestNormalizePagination(t *testing.T) {
	page, size := normalizePagination(0, 0)
	if page != 1 || size != defaultProductPageSize {
		t.Fatalf("defaults want 1/%d got %d/%d", defaultProductPageSize, page, size)
	}
	if _, size := normalizePagination(2, 1000); size != maxProductPageSize {
		t.Fatalf("page size should cap at %d got %d", maxProductPageSize, size)
	}
}

func TestRefreshCategoriesReadsDatabase(t *testing.T) {
	env := newServiceTestEnv(t)
	svc := NewProductService(env.productRepo, env.reviewRepo)

	empty, err := svc.RefreshCategories(context.Background())
	if err != nil {
		t.Fatalf("refresh categories failed: %v", err)
	}
	if empty == nil || len(empty) != 0 {
		t.Fatalf("empty catalog should yield empty slice, got %#v", empty)
	}

	env.createProduct(t, "jarro", "120.00", 3)
	categories, err := svc.Categories(context.Background())
	if err != nil {
		t.Fatalf("categories failed: %v", err)
	}
	if len(categories) != 1 || categories[0] != "hogar" {
		t.Fatalf("unexpected categories %v", categories)
	}
}
