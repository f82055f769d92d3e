package domain

import (
	"time"

	"gorm.io/datatypes"
)

// CREATE TABLE public.products (
//     id          TEXT PRIMARY KEY,
//     name        TEXT NOT NULL,
//     description TEXT,
//     category    TEXT NOT NULL,
//     price       NUMERIC NOT NULL,
//     tags        JSONB,
//     attributes  JSONB,
//     image       TEXT,
//     created_at  TIMESTAMPTZ DEFAULT NOW()
// );

type Product struct {
	ID          string                      `gorm:"primaryKey" json:"id"`
	Name        string                      `gorm:"column:name;not null" json:"name"`
	Description string                      `gorm:"column:description;type:text" json:"description,omitempty"`
	Category    string                      `gorm:"column:category;not null" json:"category"`
	Price       float64                     `gorm:"column:price;type:numeric;not null" json:"price"`
	Tags        datatypes.JSONSlice[string] `gorm:"column:tags;type:jsonb" json:"tags,omitempty"`
	Attributes  datatypes.JSONMap           `gorm:"column:attributes;type:jsonb" json:"attributes,omitempty"`
	Image       string                      `gorm:"column:image;type:text" json:"image,omitempty"`
	CreatedAt   time.Time                   `gorm:"column:created_at" json:"-"`
}

func (Product) TableName() string {
	return "products"
}
