package models

import "time"

// Review 商品评价
type Review struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	ProductID uint      `gorm:"not null;index" json:"product_id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Rating    int       `gorm:"not null" json:"rating"` // 1-5
	Comment   string    `gorm:"type:text" json:"comment"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`

	Author *User `gorm:"foreignKey:UserID" json:"author,omitempty"`
}

// TableName 指定表名
func (Review) TableName() string {
	return "reviews"
}
