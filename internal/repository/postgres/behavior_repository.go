package postgres

import (
	"context"
	"fmt"
	"smartMarket/domain"

	"gorm.io/gorm"
)

type BehaviorRepository struct {
	DB *gorm.DB
}

func NewBehaviorRepository(db *gorm.DB) *BehaviorRepository {
	return &BehaviorRepository{
		DB: db,
	}
}

func (r *BehaviorRepository) Append(ctx context.Context, event *domain.BehaviorEvent) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Create(event).Error; err != nil {
		return fmt.Errorf("failed to append behavior event: %w", err)
	}

	return nil
}

// FindByUser returns a user's events oldest first so replay produces the
// same interaction state the storefront accumulated.
func (r *BehaviorRepository) FindByUser(ctx context.Context, userID string) ([]domain.BehaviorEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var events []domain.BehaviorEvent
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find behavior events: %w", err)
	}

	return events, nil
}

func (r *BehaviorRepository) FindAll(ctx context.Context) ([]domain.BehaviorEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var events []domain.BehaviorEvent
	err := r.DB.WithContext(ctx).Order("created_at ASC").Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find behavior events: %w", err)
	}

	return events, nil
}

func (r *BehaviorRepository) DistinctUserIDs(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var userIDs []string
	err := r.DB.WithContext(ctx).
		Model(&domain.BehaviorEvent{}).
		Distinct("user_id").
		Order("user_id ASC").
		Pluck("user_id", &userIDs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list behavior users: %w", err)
	}

	return userIDs, nil
}
