package domain

import (
	"time"

	"gorm.io/datatypes"
)

// Behavior event types accepted by the tracking endpoint.
const (
	EventView            = "view"
	EventSizeSelected    = "size_selected"
	EventColorSelected   = "color_selected"
	EventImageZoomed     = "image_zoomed"
	EventDescriptionRead = "description_read"
	EventReviewsRead     = "reviews_read"
	EventAddToCart       = "atc"
	EventRemoveFromCart  = "remove"
	EventCheckout        = "checkout"
	EventPurchase        = "purchase"
	EventRating          = "rating"
)

// BehaviorEvent is one append-only tracking record. The behavior service
// folds a user's events into a UserBehavior before scoring.
type BehaviorEvent struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    string    `gorm:"column:user_id;not null;index" json:"user_id"`
	ProductID string    `gorm:"column:product_id;not null" json:"product_id"`
	EventType string    `gorm:"column:event_type;not null" json:"event_type"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`

	// Value is event-type dependent: seconds for view, stars for rating.
	Value   float64           `gorm:"column:value;default:0" json:"value"`
	Context datatypes.JSONMap `gorm:"column:context;type:jsonb" json:"context"`
}

func (BehaviorEvent) TableName() string {
	return "behavior_events"
}
