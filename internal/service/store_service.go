package service

import (
	"context"
	"strings"

	"github.com/mercado-next/internal/constants"
	"github.com/mercado-next/internal/logger"
	"github.com/mercado-next/internal/models"
	"github.com/mercado-next/internal/repository"
)

// StoreService 店铺服务
type StoreService struct {
	storeRepo repository.StoreRepository
	userRepo  repository.UserRepository
}

// NewStoreService 创建店铺服务
func NewStoreService(storeRepo repository.StoreRepository, userRepo repository.UserRepository) *StoreService {
	return &StoreService{storeRepo: storeRepo, userRepo: userRepo}
}

// ListPopular 首页推荐店铺（已认证）
func (s *StoreService) ListPopular(limit int) ([]models.Store, error) {
	if limit <= 0 {
		limit = constants.PopularStoreLimit
	}
	stores, err := s.storeRepo.ListVerified(limit)
	if err != nil {
		return nil, wrapStorage("list verified stores", err)
	}
	return stores, nil
}

// GetByOwner 获取卖家自己的店铺
func (s *StoreService) GetByOwner(ctx context.Context, ownerID uint) (*models.Store, error) {
	store, err := s.storeRepo.GetByOwner(ownerID)
	if err != nil {
		return nil, wrapStorage("get store", err)
	}
	if store == nil {
		return nil, ErrStoreNotFound
	}
	return store, nil
}

// ProvisionSellerStore 为卖家开通店铺，重复调用返回已有店铺
func (s *StoreService) ProvisionSellerStore(ctx context.Context, ownerID uint, name, description string) (*models.Store, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrStoreNameRequired
	}
	owner, err := s.userRepo.GetByID(ownerID)
	if err != nil {
		return nil, wrapStorage("get store owner", err)
	}
	if owner == nil {
		return nil, ErrNotFound
	}
	if owner.Role != constants.RoleSeller && owner.Role != constants.RoleAdmin {
		return nil, ErrNotSeller
	}

	store, err := s.storeRepo.CreateIfAbsent(&models.Store{
		OwnerID:        ownerID,
		Name:           name,
		Description:    strings.TrimSpace(description),
		CommissionRate: models.NewMoneyFromString("10"),
	})
	if err != nil {
		return nil, wrapStorage("create store", err)
	}
	logger.Infow("store_provisioned", "owner_id", ownerID, "store_id", store.ID)
	return store, nil
}
