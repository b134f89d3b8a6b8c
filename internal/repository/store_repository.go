package repository

import (
	"errors"

	"github.com/mercado-next/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StoreRepository 店铺数据访问接口
type StoreRepository interface {
	GetByID(id uint) (*models.Store, error)
	GetByOwner(ownerID uint) (*models.Store, error)
	Create(store *models.Store) error
	CreateIfAbsent(store *models.Store) (*models.Store, error)
	ListVerified(limit int) ([]models.Store, error)
}

// GormStoreRepository GORM 实现
type GormStoreRepository struct {
	db *gorm.DB
}

// NewStoreRepository 创建店铺仓库
func NewStoreRepository(db *gorm.DB) *GormStoreRepository {
	return &GormStoreRepository{db: db}
}

// GetByID 根据 ID 获取店铺
func (r *GormStoreRepository) GetByID(id uint) (*models.Store, error) {
	var store models.Store
	if err := r.db.First(&store, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &store, nil
}

// GetByOwner 获取卖家的店铺
func (r *GormStoreRepository) GetByOwner(ownerID uint) (*models.Store, error) {
	var store models.Store
	if err := r.db.Where("owner_id = ?", ownerID).First(&store).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &store, nil
}

// Create 创建店铺
func (r *GormStoreRepository) Create(store *models.Store) error {
	return r.db.Create(store).Error
}

// CreateIfAbsent 卖家尚无店铺时创建，已有则返回现有店铺
func (r *GormStoreRepository) CreateIfAbsent(store *models.Store) (*models.Store, error) {
	if store == nil {
		return nil, nil
	}
	if err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "owner_id"}},
		DoNothing: true,
	}).Create(store).Error; err != nil {
		return nil, err
	}
	existing, err := r.GetByOwner(store.OwnerID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return existing, nil
}

// ListVerified 获取已认证店铺
func (r *GormStoreRepository) ListVerified(limit int) ([]models.Store, error) {
	query := r.db.Where("is_verified = ?", true).Order("created_at ASC, id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	var stores []models.Store
	if err := query.Find(&stores).Error; err != nil {
		return nil, err
	}
	return stores, nil
}
