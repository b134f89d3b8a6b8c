package service

import (
	"context"
	"strings"
	"time"

	"github.com/mercado-next/internal/cache"
	"github.com/mercado-next/internal/constants"
	"github.com/mercado-next/internal/logger"
	"github.com/mercado-next/internal/models"
	"github.com/mercado-next/internal/repository"

	"github.com/shopspring/decimal"
)

const (
	defaultProductPageSize = 20
	maxProductPageSize     = 100
)

// ProductService 商品业务服务
type ProductService struct {
	repo       repository.ProductRepository
	reviewRepo repository.ReviewRepository
}

// NewProductService 创建商品服务
func NewProductService(repo repository.ProductRepository, reviewRepo repository.ReviewRepository) *ProductService {
	return &ProductService{repo: repo, reviewRepo: reviewRepo}
}

// ProductListQuery 公开商品列表查询
type ProductListQuery struct {
	Category string
	Search   string
	Sort     string
	Page     int
	PageSize int
}

// ReviewView 评价视图
type ReviewView struct {
	ID         uint      `json:"id"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment"`
	AuthorName string    `json:"author_name"`
	CreatedAt  time.Time `json:"created_at"`
}

// ProductDetail 商品详情（含评价与平均分）
type ProductDetail struct {
	Product       *models.Product `json:"product"`
	Reviews       []ReviewView    `json:"reviews"`
	ReviewCount   int             `json:"review_count"`
	AverageRating float64         `json:"average_rating"`
}

// ListPublic 获取公开商品列表
func (s *ProductService) ListPublic(query ProductListQuery) ([]models.Product, int64, error) {
	page, pageSize := normalizePagination(query.Page, query.PageSize)
	filter := repository.ProductListFilter{
		Page:       page,
		PageSize:   pageSize,
		Category:   strings.TrimSpace(query.Category),
		Search:     strings.TrimSpace(query.Search),
		Sort:       normalizeProductSort(query.Sort),
		OnlyActive: true,
		WithStore:  true,
	}
	products, total, err := s.repo.List(filter)
	if err != nil {
		return nil, 0, wrapStorage("list products", err)
	}
	return products, total, nil
}

// ListFeatured 获取首页精选商品
func (s *ProductService) ListFeatured(limit int) ([]models.Product, error) {
	if limit <= 0 {
		limit = constants.FeaturedProductLimit
	}
	products, _, err := s.repo.List(repository.ProductListFilter{
		Page:       1,
		PageSize:   limit,
		OnlyActive: true,
		Featured:   true,
		WithStore:  true,
	})
	if err != nil {
		return nil, wrapStorage("list featured products", err)
	}
	return products, nil
}

// Categories 获取分类列表，Redis 启用时走缓存
func (s *ProductService) Categories(ctx context.Context) ([]string, error) {
	if cached, hit, err := cache.GetCategories(ctx); err != nil {
		logger.Warnw("product_categories_cache_get_failed", "error", err)
	} else if hit {
		return cached, nil
	}
	return s.RefreshCategories(ctx)
}

// RefreshCategories 从数据库重新读取分类并回写缓存（worker 定时调用）
func (s *ProductService) RefreshCategories(ctx context.Context) ([]string, error) {
	categories, err := s.repo.Categories()
	if err != nil {
		return nil, wrapStorage("list categories", err)
	}
	if categories == nil {
		categories = []string{}
	}
	if err := cache.SetCategories(ctx, categories); err != nil {
		logger.Warnw("product_categories_cache_set_failed", "error", err)
	}
	return categories, nil
}

// GetProduct 读取商品价格与库存，不存在返回 ErrProductNotFound
func (s *ProductService) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	if id == 0 {
		return nil, ErrProductNotFound
	}
	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, wrapStorage("get product", err)
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// GetDetail 获取公开商品详情，下架商品按不存在处理
func (s *ProductService) GetDetail(ctx context.Context, id uint) (*ProductDetail, error) {
	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if !product.IsActive {
		return nil, ErrProductNotFound
	}
	reviews, err := s.reviewRepo.ListByProduct(product.ID)
	if err != nil {
		return nil, wrapStorage("list reviews", err)
	}

	detail := &ProductDetail{
		Product:       product,
		Reviews:       make([]ReviewView, 0, len(reviews)),
		ReviewCount:   len(reviews),
		AverageRating: AverageRating(reviews),
	}
	for _, review := range reviews {
		view := ReviewView{
			ID:        review.ID,
			Rating:    review.Rating,
			Comment:   review.Comment,
			CreatedAt: review.CreatedAt,
		}
		if review.Author != nil {
			view.AuthorName = review.Author.FullName
		}
		detail.Reviews = append(detail.Reviews, view)
	}
	return detail, nil
}

// AverageRating 评分均值，保留 1 位小数；无评价时为 0
func AverageRating(reviews []models.Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	sum := int64(0)
	for _, review := range reviews {
		sum += int64(review.Rating)
	}
	avg := decimal.NewFromInt(sum).Div(decimal.NewFromInt(int64(len(reviews)))).Round(1)
	return avg.InexactFloat64()
}

func normalizeProductSort(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case constants.ProductSortPriceAsc:
		return constants.ProductSortPriceAsc
	case constants.ProductSortPriceDesc:
		return constants.ProductSortPriceDesc
	default:
		return constants.ProductSortNewest
	}
}

func normalizePagination(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = defaultProductPageSize
	}
	if pageSize > maxProductPageSize {
		pageSize = maxProductPageSize
	}
	return page, pageSize
}
