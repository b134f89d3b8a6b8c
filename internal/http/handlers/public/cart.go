package public

import (
	"strconv"

	"github.com/mercado-next/internal/http/response"
	"github.com/mercado-next/internal/models"
	"github.com/mercado-next/internal/service"

	"github.com/gin-gonic/gin"
)

// AddCartItemRequest 加购请求
type AddCartItemRequest struct {
	ProductID    uint `json:"product_id" binding:"required"`
	Quantity     int  `json:"quantity"`
	RequireExact bool `json:"require_exact"`
}

// UpdateCartItemRequest 修改数量请求
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

// GetCart 获取购物车
func (h *Handler) GetCart(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	view, err := h.CartService.GetCartView(c.Request.Context(), uid)
	if err != nil {
		respondCartReadError(c, err)
		return
	}
	response.Success(c, view)
}

// AddCartItem 加入购物车，返回最新购物车视图
func (h *Handler) AddCartItem(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	// 未传数量时按 1 处理
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	ctx := c.Request.Context()
	cart, err := h.CartService.GetOrCreateCart(ctx, uid)
	if err != nil {
		respondCartMutationError(c, err)
		return
	}
	if _, err := h.CartService.AddItem(ctx, service.AddCartItemInput{
		CartID:       cart.ID,
		ProductID:    req.ProductID,
		Quantity:     req.Quantity,
		RequireExact: req.RequireExact,
	}); err != nil {
		respondCartMutationError(c, err)
		return
	}
	h.respondCartView(c, cart.ID)
}

// UpdateCartItem 修改购物车项数量
func (h *Handler) UpdateCartItem(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	itemID, ok := parseCartItemID(c)
	if !ok {
		return
	}
	var req UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	ctx := c.Request.Context()
	cartID, err := h.CartService.FindCartID(ctx, uid)
	if err != nil {
		respondCartMutationError(c, err)
		return
	}
	if _, err := h.CartService.UpdateQuantity(ctx, cartID, itemID, req.Quantity); err != nil {
		respondCartMutationError(c, err)
		return
	}
	h.respondCartView(c, cartID)
}

// DeleteCartItem 删除购物车项（重复删除同样成功）
func (h *Handler) DeleteCartItem(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	itemID, ok := parseCartItemID(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	cartID, err := h.CartService.FindCartID(ctx, uid)
	if err != nil {
		respondCartMutationError(c, err)
		return
	}
	if err := h.CartService.RemoveItem(ctx, cartID, itemID); err != nil {
		respondCartMutationError(c, err)
		return
	}
	h.respondCartView(c, cartID)
}

func (h *Handler) respondCartView(c *gin.Context, cartID uint) {
	if cartID == 0 {
		response.Success(c, service.CartView{Items: []service.CartLineView{}, Total: models.ZeroMoney()})
		return
	}
	view, err := h.CartService.GetCartViewByID(c.Request.Context(), cartID)
	if err != nil {
		respondCartReadError(c, err)
		return
	}
	response.Success(c, view)
}

func parseCartItemID(c *gin.Context) (uint, bool) {
	itemID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || itemID == 0 {
		respondError(c, response.CodeBadRequest, "error.cart_item_id_invalid", nil)
		return 0, false
	}
	return uint(itemID), true
}
