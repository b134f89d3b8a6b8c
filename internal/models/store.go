package models

import (
	"time"

	"gorm.io/gorm"
)

// Store 卖家店铺表
type Store struct {
	ID             uint           `gorm:"primarykey" json:"id"`                                          // 主键
	OwnerID        uint           `gorm:"not null;uniqueIndex" json:"owner_id"`                          // 店主（一个卖家一个店铺）
	Name           string         `gorm:"type:varchar(120);not null" json:"name"`                        // 店铺名称
	Description    string         `gorm:"type:text" json:"description"`                                  // 店铺描述
	LogoURL        string         `gorm:"type:varchar(500);default:''" json:"logo_url"`                  // Logo
	BannerURL      string         `gorm:"type:varchar(500);default:''" json:"banner_url"`                // 横幅
	IsVerified     bool           `gorm:"default:false;index" json:"is_verified"`                        // 是否认证
	CommissionRate Money          `gorm:"type:decimal(5,2);not null;default:10" json:"commission_rate"` // 平台佣金比例（%）
	CreatedAt      time.Time      `gorm:"index" json:"created_at"`                                       // 创建时间
	UpdatedAt      time.Time      `json:"updated_at"`                                                    // 更新时间
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`                                                // 软删除时间

	Owner *User `gorm:"foreignKey:OwnerID" json:"-"`
}

// TableName 指定表名
func (Store) TableName() string {
	return "stores"
}
