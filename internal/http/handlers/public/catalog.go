package public

import (
	"strconv"
	"strings"

	"github.com/mercado-next/internal/constants"
	"github.com/mercado-next/internal/http/response"
	"github.com/mercado-next/internal/service"

	"github.com/gin-gonic/gin"
)

// GetProducts 获取商品列表
func (h *Handler) GetProducts(c *gin.Context) {
	// 获取分页参数
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	products, total, err := h.ProductService.ListPublic(service.ProductListQuery{
		Category: strings.TrimSpace(c.Query("category")),
		Search:   strings.TrimSpace(c.Query("search")),
		Sort:     c.Query("sort"),
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		respondProductError(c, err)
		return
	}

	pagination := response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	}
	response.SuccessWithPage(c, products, pagination)
}

// GetFeaturedProducts 首页精选商品
func (h *Handler) GetFeaturedProducts(c *gin.Context) {
	products, err := h.ProductService.ListFeatured(constants.FeaturedProductLimit)
	if err != nil {
		respondProductError(c, err)
		return
	}
	response.Success(c, products)
}

// GetProductDetail 商品详情（含评价与平均分）
func (h *Handler) GetProductDetail(c *gin.Context) {
	productID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || productID == 0 {
		respondError(c, response.CodeBadRequest, "error.product_id_invalid", nil)
		return
	}
	detail, err := h.ProductService.GetDetail(c.Request.Context(), uint(productID))
	if err != nil {
		respondProductError(c, err)
		return
	}
	response.Success(c, detail)
}

// GetCategories 获取分类列表
func (h *Handler) GetCategories(c *gin.Context) {
	categories, err := h.ProductService.Categories(c.Request.Context())
	if err != nil {
		respondProductError(c, err)
		return
	}
	response.Success(c, categories)
}

// GetPopularStores 首页推荐店铺
func (h *Handler) GetPopularStores(c *gin.Context) {
	stores, err := h.StoreService.ListPopular(constants.PopularStoreLimit)
	if err != nil {
		respondProductError(c, err)
		return
	}
	response.Success(c, stores)
}
