package models

import (
	"time"

	"gorm.io/gorm"
)

// Product 商品表
type Product struct {
	ID            uint           `gorm:"primarykey" json:"id"`                                    // 主键
	StoreID       uint           `gorm:"not null;index" json:"store_id"`                          // 所属店铺
	Name          string         `gorm:"type:varchar(200);not null;index" json:"name"`            // 名称
	Description   string         `gorm:"type:text" json:"description"`                            // 描述
	Price         Money          `gorm:"type:decimal(20,2);not null;default:0" json:"price"`      // 当前售价
	OriginalPrice *Money         `gorm:"type:decimal(20,2)" json:"original_price"`                // 划线价（可选）
	Category      string         `gorm:"type:varchar(60);not null;index" json:"category"`         // 分类
	Images        StringArray    `gorm:"type:json" json:"images"`                                 // 图片（有序）
	Stock         int            `gorm:"not null;default:0" json:"stock"`                         // 库存
	IsFeatured    bool           `gorm:"default:false;index" json:"is_featured"`                  // 是否精选
	IsActive      bool           `gorm:"default:true;index" json:"is_active"`                     // 是否上架
	CreatedAt     time.Time      `gorm:"index" json:"created_at"`                                 // 创建时间
	UpdatedAt     time.Time      `json:"updated_at"`                                              // 更新时间
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`                                          // 软删除时间

	Store *Store `gorm:"foreignKey:StoreID" json:"store,omitempty"` // 所属店铺
}

// TableName 指定表名
func (Product) TableName() string {
	return "products"
}
