package behavior

import (
	"context"
	"reflect"
	"testing"
	"time"

	"smartMarket/domain"

	"github.com/go-playground/validator/v10"
	"gorm.io/datatypes"
)

type fakeEventRepo struct {
	events    []domain.BehaviorEvent
	appendErr error
}

func (f *fakeEventRepo) Append(ctx context.Context, event *domain.BehaviorEvent) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.events = append(f.events, *event)
	return nil
}

func (f *fakeEventRepo) FindByUser(ctx context.Context, userID string) ([]domain.BehaviorEvent, error) {
	var out []domain.BehaviorEvent
	for _, ev := range f.events {
		if ev.UserID == userID {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (f *fakeEventRepo) FindAll(ctx context.Context) ([]domain.BehaviorEvent, error) {
	return f.events, nil
}

func (f *fakeEventRepo) DistinctUserIDs(ctx context.Context) ([]string, error) {
	seen := map[string]bool{}
	var ids []string
	for _, ev := range f.events {
		if !seen[ev.UserID] {
			seen[ev.UserID] = true
			ids = append(ids, ev.UserID)
		}
	}
	return ids, nil
}

type fakeInvalidator struct {
	userIDs []string
}

func (f *fakeInvalidator) Invalidate(ctx context.Context, userID string) error {
	f.userIDs = append(f.userIDs, userID)
	return nil
}

var eventTime = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func event(userID, productID, eventType string, value float64) domain.BehaviorEvent {
	return domain.BehaviorEvent{
		UserID:    userID,
		ProductID: productID,
		EventType: eventType,
		Value:     value,
		CreatedAt: eventTime,
	}
}

func TestTrackValidation(t *testing.T) {
	repo := &fakeEventRepo{}
	service := NewBehaviorService(repo, validator.New(), nil)
	ctx := context.Background()

	cases := []struct {
		name  string
		event domain.BehaviorEvent
	}{
		{"missing user id", event("", "p1", domain.EventView, 30)},
		{"missing product id", event("u1", "", domain.EventView, 30)},
		{"unknown event type", event("u1", "p1", "teleport", 0)},
		{"rating too low", event("u1", "p1", domain.EventRating, 0)},
		{"rating too high", event("u1", "p1", domain.EventRating, 6)},
		{"negative view duration", event("u1", "p1", domain.EventView, -5)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ev := tc.event
			if err := service.Track(ctx, &ev); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}

	if len(repo.events) != 0 {
		t.Fatalf("invalid events must not be stored, got %d", len(repo.events))
	}
}

func TestTrackStoresEventAndInvalidatesCache(t *testing.T) {
	repo := &fakeEventRepo{}
	cache := &fakeInvalidator{}
	service := NewBehaviorService(repo, validator.New(), cache)

	ev := event("u1", "p1", domain.EventAddToCart, 0)
	if err := service.Track(context.Background(), &ev); err != nil {
		t.Fatalf("track: %v", err)
	}

	if len(repo.events) != 1 {
		t.Fatalf("expected 1 stored event, got %d", len(repo.events))
	}
	if !reflect.DeepEqual(cache.userIDs, []string{"u1"}) {
		t.Fatalf("cache invalidation: got %v", cache.userIDs)
	}
}

func TestBehaviorForUserReplaysEvents(t *testing.T) {
	repo := &fakeEventRepo{events: []domain.BehaviorEvent{
		event("u1", "p1", domain.EventView, 30),
		event("u1", "p1", domain.EventView, 15),
		event("u1", "p1", domain.EventSizeSelected, 0),
		event("u1", "p1", domain.EventAddToCart, 0),
		event("u1", "p2", domain.EventAddToCart, 0),
		event("u1", "p2", domain.EventRemoveFromCart, 0),
		event("u1", "p1", domain.EventCheckout, 0),
		event("u1", "p1", domain.EventPurchase, 0),
		event("u1", "p1", domain.EventRating, 4),
	}}
	service := NewBehaviorService(repo, validator.New(), nil)

	behavior, err := service.BehaviorForUser(context.Background(), "u1")
	if err != nil {
		t.Fatalf("behavior for user: %v", err)
	}

	if !reflect.DeepEqual(behavior.ViewedProducts, []string{"p1"}) {
		t.Fatalf("viewed: got %v", behavior.ViewedProducts)
	}
	if !reflect.DeepEqual(behavior.PurchasedProducts, []string{"p1"}) {
		t.Fatalf("purchased: got %v", behavior.PurchasedProducts)
	}
	// p1 bought, p2 removed: cart ends up empty
	if len(behavior.CartItems) != 0 {
		t.Fatalf("cart: got %v", behavior.CartItems)
	}
	if got := behavior.Ratings["p1"]; got != 4 {
		t.Fatalf("rating: got %v", got)
	}

	in := behavior.ProductInteractions["p1"]
	if in == nil {
		t.Fatal("p1 interaction missing")
	}
	if in.ViewDuration != 45 || in.ViewCount != 2 {
		t.Fatalf("views: got duration %v count %d", in.ViewDuration, in.ViewCount)
	}
	if in.Interactions == nil || !in.Interactions.SizeSelected {
		t.Fatalf("flags: got %+v", in.Interactions)
	}
	if in.CartActions == nil || in.CartActions.TimesAddedToCart != 1 {
		t.Fatalf("cart actions: got %+v", in.CartActions)
	}
	if in.CartActions.AddedToCart != eventTime.UnixMilli() {
		t.Fatalf("cart timestamp: got %d", in.CartActions.AddedToCart)
	}
	co := in.CheckoutActions
	if co == nil || !co.ProceededToCheckout || !co.CompletedPurchase || co.PurchaseCount != 1 {
		t.Fatalf("checkout actions: got %+v", co)
	}
	if in.Rating != 4 {
		t.Fatalf("interaction rating: got %v", in.Rating)
	}

	p2 := behavior.ProductInteractions["p2"]
	if p2 == nil || p2.CartActions.TimesRemovedFromCart != 1 {
		t.Fatalf("p2 removal: got %+v", p2)
	}
}

func TestBehaviorForUserRepeatedPurchaseDedups(t *testing.T) {
	repo := &fakeEventRepo{events: []domain.BehaviorEvent{
		event("u1", "p1", domain.EventPurchase, 0),
		event("u1", "p1", domain.EventPurchase, 0),
	}}
	service := NewBehaviorService(repo, validator.New(), nil)

	behavior, err := service.BehaviorForUser(context.Background(), "u1")
	if err != nil {
		t.Fatalf("behavior for user: %v", err)
	}

	if !reflect.DeepEqual(behavior.PurchasedProducts, []string{"p1"}) {
		t.Fatalf("purchased list must dedup, got %v", behavior.PurchasedProducts)
	}
	if got := behavior.ProductInteractions["p1"].CheckoutActions.PurchaseCount; got != 2 {
		t.Fatalf("purchase count: got %d", got)
	}
}

func TestBehaviorForUserSessionContext(t *testing.T) {
	first := event("u1", "p1", domain.EventView, 10)
	first.Context = datatypes.JSONMap{"deviceType": "desktop", "timeOfDay": "morning"}
	second := event("u1", "p2", domain.EventView, 10)
	second.Context = datatypes.JSONMap{"deviceType": "mobile", "sessionDuration": 320.0}

	repo := &fakeEventRepo{events: []domain.BehaviorEvent{first, second}}
	service := NewBehaviorService(repo, validator.New(), nil)

	behavior, err := service.BehaviorForUser(context.Background(), "u1")
	if err != nil {
		t.Fatalf("behavior for user: %v", err)
	}

	// later events win, untouched fields survive
	if behavior.DeviceType != "mobile" {
		t.Fatalf("device type: got %q", behavior.DeviceType)
	}
	if behavior.TimeOfDay != "morning" {
		t.Fatalf("time of day: got %q", behavior.TimeOfDay)
	}
	if behavior.SessionDuration != 320 {
		t.Fatalf("session duration: got %v", behavior.SessionDuration)
	}
}

func TestAllBehaviorsGroupsAndSortsUsers(t *testing.T) {
	repo := &fakeEventRepo{events: []domain.BehaviorEvent{
		event("zed", "p1", domain.EventView, 10),
		event("amy", "p2", domain.EventView, 20),
		event("zed", "p3", domain.EventView, 30),
	}}
	service := NewBehaviorService(repo, validator.New(), nil)

	behaviors, err := service.AllBehaviors(context.Background())
	if err != nil {
		t.Fatalf("all behaviors: %v", err)
	}

	if len(behaviors) != 2 {
		t.Fatalf("expected 2 users, got %d", len(behaviors))
	}
	if behaviors[0].UserID != "amy" || behaviors[1].UserID != "zed" {
		t.Fatalf("users must be sorted: %s, %s", behaviors[0].UserID, behaviors[1].UserID)
	}
	if !reflect.DeepEqual(behaviors[1].ViewedProducts, []string{"p1", "p3"}) {
		t.Fatalf("zed viewed: got %v", behaviors[1].ViewedProducts)
	}
}
