package model

import "time"

// 評価（平均と件数）
type Rating struct {
	Rate  float64 `json:"rate"`
	Count int64   `json:"count"`
}

// カタログの商品
type Product struct {
	ID          string    `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string    `gorm:"type:varchar(255);not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Price       float64   `gorm:"not null" json:"price"`
	Image       string    `gorm:"type:text" json:"image"`
	Category    string    `gorm:"type:varchar(100);not null;index" json:"category"`
	RatingRate  float64   `gorm:"not null;default:0" json:"-"`
	RatingCount int64     `gorm:"not null;default:0" json:"-"`
	CreatedAt   time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// ProductSnapshot はクライアントへ返す商品の形。
// カート/お気に入りのpopulated readもこの形に展開する。
type ProductSnapshot struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Price       float64 `json:"price"`
	Image       string  `json:"image"`
	Category    string  `json:"category"`
	Rating      Rating  `json:"rating"`
	Description string  `json:"description"`
}

// 読み取り時点の値でスナップショットを作る
func (p Product) Snapshot() ProductSnapshot {
	return ProductSnapshot{
		ID:          p.ID,
		Title:       p.Title,
		Price:       p.Price,
		Image:       p.Image,
		Category:    p.Category,
		Rating:      Rating{Rate: p.RatingRate, Count: p.RatingCount},
		Description: p.Description,
	}
}
