package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mercado-next/internal/config"
	"github.com/mercado-next/internal/constants"
	"github.com/mercado-next/internal/logger"
	"github.com/mercado-next/internal/models"
	"github.com/mercado-next/internal/repository"

	"gorm.io/gorm"
)

// AddCartItemInput 加购输入
type AddCartItemInput struct {
	CartID    uint
	ProductID uint
	Quantity  int
	// RequireExact 为 true 时即使配置为 clamp 也不截断，超出库存直接报错
	RequireExact bool
}

// CartLineView 购物车行视图
type CartLineView struct {
	ItemID    uint         `json:"item_id"`
	ProductID uint         `json:"product_id"`
	Name      string       `json:"name"`
	Image     string       `json:"image"`
	Category  string       `json:"category"`
	StoreID   uint         `json:"store_id"`
	StoreName string       `json:"store_name"`
	UnitPrice models.Money `json:"unit_price"`
	Quantity  int          `json:"quantity"`
	Stock     int          `json:"stock"`
	Available bool         `json:"available"`
	Subtotal  models.Money `json:"subtotal"`
}

// CartView 购物车视图
type CartView struct {
	CartID    uint           `json:"cart_id"`
	Items     []CartLineView `json:"items"`
	ItemCount int            `json:"item_count"`
	Total     models.Money   `json:"total"`
}

// CartService 购物车服务
type CartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	stockPolicy string
	locker      *keyedLocker
}

// NewCartService 创建购物车服务
func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository, cfg config.CartConfig) *CartService {
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		stockPolicy: cfg.NormalizedStockPolicy(),
		locker: newKeyedLocker(
			time.Duration(cfg.LockTTLSeconds)*time.Second,
			time.Duration(cfg.LockWaitSeconds)*time.Second,
		),
	}
}

// StockPolicy 当前生效的库存策略
func (s *CartService) StockPolicy() string {
	return s.stockPolicy
}

// GetOrCreateCart 获取用户购物车，不存在时创建
func (s *CartService) GetOrCreateCart(ctx context.Context, userID uint) (*models.Cart, error) {
	if userID == 0 {
		return nil, ErrCartNotFound
	}
	cart, err := s.cartRepo.GetByUser(userID)
	if err != nil {
		return nil, wrapStorage("get cart", err)
	}
	if cart != nil {
		return cart, nil
	}

	unlock, err := s.locker.Lock(ctx, userCartLockKey(userID))
	if err != nil {
		return nil, err
	}
	defer unlock()

	cart, err = s.cartRepo.CreateIfAbsent(userID)
	if err != nil {
		return nil, wrapStorage("create cart", err)
	}
	logger.Debugw("cart_ready", "user_id", userID, "cart_id", cart.ID)
	return cart, nil
}

// AddItem 加入购物车，同一商品合并为一行
func (s *CartService) AddItem(ctx context.Context, input AddCartItemInput) (*models.CartItem, error) {
	if input.Quantity < 1 {
		return nil, ErrInvalidQuantity
	}
	if input.CartID == 0 {
		return nil, ErrCartNotFound
	}
	if input.ProductID == 0 {
		return nil, ErrProductNotFound
	}

	unlock, err := s.locker.Lock(ctx, cartLockKey(input.CartID))
	if err != nil {
		return nil, err
	}
	defer unlock()

	var result *models.CartItem
	err = s.cartRepo.Transaction(func(tx *gorm.DB) error {
		cartRepo := s.cartRepo.WithTx(tx)
		cart, err := cartRepo.GetByID(input.CartID)
		if err != nil {
			return wrapStorage("get cart", err)
		}
		if cart == nil {
			return ErrCartNotFound
		}

		product, err := s.productRepo.WithTx(tx).GetByID(input.ProductID)
		if err != nil {
			return wrapStorage("get product", err)
		}
		if product == nil {
			return ErrProductNotFound
		}
		if !product.IsActive {
			return ErrProductNotAvailable
		}
		if product.Stock <= 0 {
			return ErrOutOfStock
		}

		existing, err := cartRepo.GetItemByProduct(cart.ID, product.ID)
		if err != nil {
			return wrapStorage("get cart item", err)
		}
		current := 0
		if existing != nil {
			current = existing.Quantity
		}
		quantity, err := s.resolveAddQuantity(current, input.Quantity, product.Stock, input.RequireExact)
		if err != nil {
			return err
		}

		if existing == nil {
			item := &models.CartItem{
				CartID:    cart.ID,
				ProductID: product.ID,
				Quantity:  quantity,
				UnitPrice: product.Price,
			}
			if err := cartRepo.CreateItem(item); err != nil {
				return wrapStorage("create cart item", err)
			}
			result = item
			return nil
		}

		if err := cartRepo.UpdateItemQuantity(existing.ID, quantity); err != nil {
			return wrapStorage("update cart item", err)
		}
		existing.Quantity = quantity
		result = existing
		return nil
	})
	if err != nil {
		return nil, normalizeCartError("add cart item", err)
	}

	logger.Infow("cart_item_added",
		"cart_id", input.CartID,
		"product_id", input.ProductID,
		"requested", input.Quantity,
		"quantity", result.Quantity,
	)
	return result, nil
}

// resolveAddQuantity 合并数量并按库存策略处理超限，新建与合并走同一规则
// 库存下调后 clamp 会把已有数量一并压到当前库存，保证写入后 quantity <= stock
func (s *CartService) resolveAddQuantity(current, requested, stock int, requireExact bool) (int, error) {
	desired := current + requested
	clamped := desired
	if clamped > stock {
		clamped = stock
	}
	if clamped != desired && (requireExact || s.stockPolicy != constants.CartStockPolicyClamp) {
		return 0, ErrStockExceeded
	}
	return clamped, nil
}

// UpdateQuantity 修改购物车项数量
func (s *CartService) UpdateQuantity(ctx context.Context, cartID, itemID uint, quantity int) (*models.CartItem, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}
	if cartID == 0 || itemID == 0 {
		return nil, ErrCartItemNotFound
	}

	unlock, err := s.locker.Lock(ctx, cartLockKey(cartID))
	if err != nil {
		return nil, err
	}
	defer unlock()

	var result *models.CartItem
	err = s.cartRepo.Transaction(func(tx *gorm.DB) error {
		cartRepo := s.cartRepo.WithTx(tx)
		item, err := cartRepo.GetItem(itemID)
		if err != nil {
			return wrapStorage("get cart item", err)
		}
		if item == nil || item.CartID != cartID {
			return ErrCartItemNotFound
		}
		product, err := s.productRepo.WithTx(tx).GetByID(item.ProductID)
		if err != nil {
			return wrapStorage("get product", err)
		}
		if product == nil {
			return ErrProductNotFound
		}
		if quantity > product.Stock {
			return ErrStockExceeded
		}
		if item.Quantity == quantity {
			result = item
			return nil
		}
		if err := cartRepo.UpdateItemQuantity(item.ID, quantity); err != nil {
			return wrapStorage("update cart item", err)
		}
		item.Quantity = quantity
		result = item
		return nil
	})
	if err != nil {
		return nil, normalizeCartError("update cart item", err)
	}

	logger.Infow("cart_item_quantity_updated", "cart_id", cartID, "item_id", itemID, "quantity", quantity)
	return result, nil
}

// RemoveItem 删除购物车项，不存在时视为成功
func (s *CartService) RemoveItem(ctx context.Context, cartID, itemID uint) error {
	if cartID == 0 || itemID == 0 {
		return nil
	}

	unlock, err := s.locker.Lock(ctx, cartLockKey(cartID))
	if err != nil {
		return err
	}
	defer unlock()

	var removed int64
	err = s.cartRepo.Transaction(func(tx *gorm.DB) error {
		cartRepo := s.cartRepo.WithTx(tx)
		item, err := cartRepo.GetItem(itemID)
		if err != nil {
			return wrapStorage("get cart item", err)
		}
		// 其他购物车的行按不存在处理，不做删除
		if item == nil || item.CartID != cartID {
			return nil
		}
		removed, err = cartRepo.DeleteItem(item.ID)
		if err != nil {
			return wrapStorage("delete cart item", err)
		}
		return nil
	})
	if err != nil {
		return normalizeCartError("remove cart item", err)
	}

	logger.Infow("cart_item_removed", "cart_id", cartID, "item_id", itemID, "removed", removed)
	return nil
}

// ComputeTotal 计算购物车合计（单价快照 × 数量）
func (s *CartService) ComputeTotal(ctx context.Context, cartID uint) (models.Money, error) {
	items, err := s.cartRepo.ListItems(cartID)
	if err != nil {
		return models.ZeroMoney(), wrapStorage("list cart items", err)
	}
	return sumCartItems(items), nil
}

// GetCartView 获取购物车视图；用户尚无购物车时返回空视图且不创建
func (s *CartService) GetCartView(ctx context.Context, userID uint) (*CartView, error) {
	cart, err := s.cartRepo.GetByUser(userID)
	if err != nil {
		return nil, wrapStorage("get cart", err)
	}
	if cart == nil {
		return &CartView{Items: []CartLineView{}, Total: models.ZeroMoney()}, nil
	}
	return s.buildCartView(cart.ID)
}

// FindCartID 查询用户购物车 ID，尚无购物车时返回 0
func (s *CartService) FindCartID(ctx context.Context, userID uint) (uint, error) {
	cart, err := s.cartRepo.GetByUser(userID)
	if err != nil {
		return 0, wrapStorage("get cart", err)
	}
	if cart == nil {
		return 0, nil
	}
	return cart.ID, nil
}

// GetCartViewByID 按购物车 ID 构建视图
func (s *CartService) GetCartViewByID(ctx context.Context, cartID uint) (*CartView, error) {
	return s.buildCartView(cartID)
}

func (s *CartService) buildCartView(cartID uint) (*CartView, error) {
	items, err := s.cartRepo.ListItems(cartID)
	if err != nil {
		return nil, wrapStorage("list cart items", err)
	}
	view := &CartView{
		CartID: cartID,
		Items:  make([]CartLineView, 0, len(items)),
		Total:  sumCartItems(items),
	}
	for _, item := range items {
		line := CartLineView{
			ItemID:    item.ID,
			ProductID: item.ProductID,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
			Subtotal:  item.Subtotal(),
		}
		if product := item.Product; product != nil {
			line.Name = product.Name
			line.Image = product.Images.First()
			line.Category = product.Category
			line.StoreID = product.StoreID
			line.Stock = product.Stock
			line.Available = product.IsActive && product.Stock > 0
			if product.Store != nil {
				line.StoreName = product.Store.Name
			}
		}
		view.ItemCount += item.Quantity
		view.Items = append(view.Items, line)
	}
	return view, nil
}

func sumCartItems(items []models.CartItem) models.Money {
	total := models.ZeroMoney()
	for _, item := range items {
		total = total.Add(item.Subtotal())
	}
	return total
}

func cartLockKey(cartID uint) string {
	return fmt.Sprintf("cart:%d", cartID)
}

func userCartLockKey(userID uint) string {
	return fmt.Sprintf("cart:user:%d", userID)
}

var cartDomainErrors = []error{
	ErrNotFound,
	ErrStorage,
	ErrProductNotAvailable,
	ErrOutOfStock,
	ErrStockExceeded,
	ErrInvalidQuantity,
	ErrCartBusy,
}

// normalizeCartError 领域错误原样返回，其余（如提交失败）包装为存储错误
func normalizeCartError(op string, err error) error {
	if err == nil {
		return nil
	}
	for _, target := range cartDomainErrors {
		if errors.Is(err, target) {
			return err
		}
	}
	return wrapStorage(op, err)
}
