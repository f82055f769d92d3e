package behavior

import (
	"context"
	"errors"
	"fmt"
	"smartMarket/domain"
	"smartMarket/pkg/logger"
	"smartMarket/pkg/metrics"
	"sort"

	"github.com/go-playground/validator/v10"
)

// EventRepository contract interface
type EventRepository interface {
	Append(ctx context.Context, event *domain.BehaviorEvent) error
	FindByUser(ctx context.Context, userID string) ([]domain.BehaviorEvent, error)
	FindAll(ctx context.Context) ([]domain.BehaviorEvent, error)
	DistinctUserIDs(ctx context.Context) ([]string, error)
}

// CacheInvalidator drops a user's cached recommendations after new events,
// so the next request re-scores against fresh behavior.
type CacheInvalidator interface {
	Invalidate(ctx context.Context, userID string) error
}

type behaviorService struct {
	eventRepo EventRepository
	validate  *validator.Validate
	cache     CacheInvalidator
}

func NewBehaviorService(eventRepo EventRepository, validate *validator.Validate, cache CacheInvalidator) *behaviorService {
	return &behaviorService{
		eventRepo: eventRepo,
		validate:  validate,
		cache:     cache,
	}
}

var validEventTypes = map[string]bool{
	domain.EventView:            true,
	domain.EventSizeSelected:    true,
	domain.EventColorSelected:   true,
	domain.EventImageZoomed:     true,
	domain.EventDescriptionRead: true,
	domain.EventReviewsRead:     true,
	domain.EventAddToCart:       true,
	domain.EventRemoveFromCart:  true,
	domain.EventCheckout:        true,
	domain.EventPurchase:        true,
	domain.EventRating:          true,
}

func (s *behaviorService) Track(ctx context.Context, event *domain.BehaviorEvent) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := s.validate.Var(event.UserID, "required"); err != nil {
		return errors.New("user id is required")
	}

	if err := s.validate.Var(event.ProductID, "required"); err != nil {
		return errors.New("product id is required")
	}

	if !validEventTypes[event.EventType] {
		return fmt.Errorf("unknown event type: %s", event.EventType)
	}

	if event.EventType == domain.EventRating && (event.Value < 1 || event.Value > 5) {
		return errors.New("rating value must be between 1 and 5")
	}

	if event.EventType == domain.EventView && event.Value < 0 {
		return errors.New("view duration cannot be negative")
	}

	if err := s.eventRepo.Append(ctx, event); err != nil {
		logger.Error("Failed to append behavior event", err)
		return err
	}

	metrics.BehaviorEventsIngested.WithLabelValues(event.EventType).Inc()

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, event.UserID); err != nil {
			logger.Warn("Failed to invalidate recommendation cache", "user_id", event.UserID, "error", err)
		}
	}

	return nil
}

func (s *behaviorService) BehaviorForUser(ctx context.Context, userID string) (domain.UserBehavior, error) {
	if err := ctx.Err(); err != nil {
		return domain.UserBehavior{}, fmt.Errorf("context error: %w", err)
	}

	events, err := s.eventRepo.FindByUser(ctx, userID)
	if err != nil {
		logger.Error("Failed to load behavior events", err)
		return domain.UserBehavior{}, err
	}

	return fold(userID, events), nil
}

func (s *behaviorService) AllBehaviors(ctx context.Context) ([]domain.UserBehavior, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	events, err := s.eventRepo.FindAll(ctx)
	if err != nil {
		logger.Error("Failed to load behavior events", err)
		return nil, err
	}

	byUser := map[string][]domain.BehaviorEvent{}
	for _, ev := range events {
		byUser[ev.UserID] = append(byUser[ev.UserID], ev)
	}

	userIDs := make([]string, 0, len(byUser))
	for id := range byUser {
		userIDs = append(userIDs, id)
	}
	sort.Strings(userIDs)

	behaviors := make([]domain.UserBehavior, 0, len(userIDs))
	for _, id := range userIDs {
		behaviors = append(behaviors, fold(id, byUser[id]))
	}

	return behaviors, nil
}

// fold replays an ordered event stream into the accumulated behavior state
// the scoring engine consumes. Events must be oldest first.
func fold(userID string, events []domain.BehaviorEvent) domain.UserBehavior {
	behavior := domain.UserBehavior{
		UserID:              userID,
		ViewedProducts:      []string{},
		PurchasedProducts:   []string{},
		CartItems:           []string{},
		ProductInteractions: map[string]*domain.ProductInteraction{},
	}

	viewed := map[string]bool{}
	purchased := map[string]bool{}
	inCart := map[string]bool{}

	interaction := func(productID string) *domain.ProductInteraction {
		if in, ok := behavior.ProductInteractions[productID]; ok {
			return in
		}
		in := &domain.ProductInteraction{ProductID: productID}
		behavior.ProductInteractions[productID] = in
		return in
	}

	for i := range events {
		ev := &events[i]
		in := interaction(ev.ProductID)
		eventMs := ev.CreatedAt.UnixMilli()
		in.Timestamp = eventMs

		switch ev.EventType {
		case domain.EventView:
			in.ViewDuration += ev.Value
			in.ViewCount++
			if !viewed[ev.ProductID] {
				viewed[ev.ProductID] = true
				behavior.ViewedProducts = append(behavior.ViewedProducts, ev.ProductID)
			}
		case domain.EventSizeSelected, domain.EventColorSelected, domain.EventImageZoomed,
			domain.EventDescriptionRead, domain.EventReviewsRead:
			if in.Interactions == nil {
				in.Interactions = &domain.InteractionFlags{}
			}
			switch ev.EventType {
			case domain.EventSizeSelected:
				in.Interactions.SizeSelected = true
			case domain.EventColorSelected:
				in.Interactions.ColorSelected = true
			case domain.EventImageZoomed:
				in.Interactions.ImageZoomed = true
			case domain.EventDescriptionRead:
				in.Interactions.DescriptionRead = true
			case domain.EventReviewsRead:
				in.Interactions.ReviewsRead = true
			}
		case domain.EventAddToCart:
			if in.CartActions == nil {
				in.CartActions = &domain.CartActions{}
			}
			in.CartActions.AddedToCart = eventMs
			in.CartActions.TimesAddedToCart++
			if !inCart[ev.ProductID] {
				inCart[ev.ProductID] = true
				behavior.CartItems = append(behavior.CartItems, ev.ProductID)
			}
		case domain.EventRemoveFromCart:
			if in.CartActions == nil {
				in.CartActions = &domain.CartActions{}
			}
			in.CartActions.RemovedFromCart = eventMs
			in.CartActions.TimesRemovedFromCart++
			if inCart[ev.ProductID] {
				inCart[ev.ProductID] = false
				behavior.CartItems = removeID(behavior.CartItems, ev.ProductID)
			}
		case domain.EventCheckout:
			if in.CheckoutActions == nil {
				in.CheckoutActions = &domain.CheckoutActions{}
			}
			in.CheckoutActions.ProceededToCheckout = true
		case domain.EventPurchase:
			if in.CheckoutActions == nil {
				in.CheckoutActions = &domain.CheckoutActions{}
			}
			in.CheckoutActions.CompletedPurchase = true
			in.CheckoutActions.PurchaseCount++
			in.CheckoutActions.LastPurchaseDate = eventMs
			if !purchased[ev.ProductID] {
				purchased[ev.ProductID] = true
				behavior.PurchasedProducts = append(behavior.PurchasedProducts, ev.ProductID)
			}
			if inCart[ev.ProductID] {
				inCart[ev.ProductID] = false
				behavior.CartItems = removeID(behavior.CartItems, ev.ProductID)
			}
		case domain.EventRating:
			in.Rating = ev.Value
			if behavior.Ratings == nil {
				behavior.Ratings = map[string]float64{}
			}
			behavior.Ratings[ev.ProductID] = ev.Value
		}

		applySessionContext(&behavior, ev.Context)
	}

	return behavior
}

// applySessionContext copies session-level fields the tracker attaches to
// events. Later events win, so the behavior reflects the latest session.
func applySessionContext(behavior *domain.UserBehavior, ctx map[string]interface{}) {
	if ctx == nil {
		return
	}

	if v, ok := ctx["deviceType"].(string); ok && v != "" {
		behavior.DeviceType = v
	}
	if v, ok := ctx["location"].(string); ok && v != "" {
		behavior.Location = v
	}
	if v, ok := ctx["timeOfDay"].(string); ok && v != "" {
		behavior.TimeOfDay = v
	}
	if v, ok := ctx["sessionDuration"].(float64); ok && v > 0 {
		behavior.SessionDuration = v
	}
}

func removeID(ids []string, id string) []string {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
