package model

import "time"

// 1ユーザーにつきお気に入りは1つ。
type Favorite struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    string    `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// お気に入りのメンバー
// 集合なので(favorite_id, product_id)で一意。
type FavoriteProduct struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	FavoriteID int64     `gorm:"not null;index;uniqueIndex:idx_favorite_products_member" json:"favorite_id"`
	ProductID  string    `gorm:"type:uuid;not null;uniqueIndex:idx_favorite_products_member" json:"product_id"`
	CreatedAt  time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
