package service

import (
	"errors"
	"fmt"
)

// 通用错误
var (
	ErrNotFound = errors.New("resource not found")
	ErrStorage  = errors.New("storage error")
)

// 购物车与商品错误
var (
	ErrProductNotFound     = fmt.Errorf("product not found: %w", ErrNotFound)
	ErrProductNotAvailable = errors.New("product not available")
	ErrCartNotFound        = fmt.Errorf("cart not found: %w", ErrNotFound)
	ErrCartItemNotFound    = fmt.Errorf("cart item not found: %w", ErrNotFound)
	ErrOutOfStock          = errors.New("product out of stock")
	ErrStockExceeded       = errors.New("requested quantity exceeds stock")
	ErrInvalidQuantity     = errors.New("quantity must be at least 1")
	ErrCartBusy            = errors.New("cart is busy")
)

// 认证与账号错误
var (
	ErrInvalidEmail       = errors.New("invalid email")
	ErrEmailExists        = errors.New("email already registered")
	ErrWeakPassword       = errors.New("password does not satisfy policy")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserDisabled       = errors.New("user disabled")
	ErrRoleInvalid        = errors.New("role not allowed")
	ErrStoreNameRequired  = errors.New("store name required for sellers")
	ErrTokenRevoked       = errors.New("token revoked")
)

// 店铺错误
var (
	ErrStoreNotFound = fmt.Errorf("store not found: %w", ErrNotFound)
	ErrNotSeller     = errors.New("user is not a seller")
)

// wrapStorage 将底层存储错误包装为 ErrStorage，保留原始原因
func wrapStorage(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrStorage) {
		return err
	}
	return fmt.Errorf("%s: %w: %w", op, ErrStorage, err)
}
