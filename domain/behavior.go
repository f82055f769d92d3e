package domain

// InteractionFlags are the boolean product-page signals a tracker can emit.
type InteractionFlags struct {
	SizeSelected    bool `json:"sizeSelected,omitempty"`
	ColorSelected   bool `json:"colorSelected,omitempty"`
	ImageZoomed     bool `json:"imageZoomed,omitempty"`
	DescriptionRead bool `json:"descriptionRead,omitempty"`
	ReviewsRead     bool `json:"reviewsRead,omitempty"`
}

// Count returns how many of the flags are set.
func (f *InteractionFlags) Count() int {
	if f == nil {
		return 0
	}
	n := 0
	for _, b := range []bool{f.SizeSelected, f.ColorSelected, f.ImageZoomed, f.DescriptionRead, f.ReviewsRead} {
		if b {
			n++
		}
	}
	return n
}

type CartActions struct {
	AddedToCart          int64 `json:"addedToCart,omitempty"`     // epoch ms
	RemovedFromCart      int64 `json:"removedFromCart,omitempty"` // epoch ms, negative signal
	TimesAddedToCart     int   `json:"timesAddedToCart,omitempty"`
	TimesRemovedFromCart int   `json:"timesRemovedFromCart,omitempty"`
}

type CheckoutActions struct {
	ProceededToCheckout bool  `json:"proceededToCheckout,omitempty"`
	CompletedPurchase   bool  `json:"completedPurchase,omitempty"`
	PurchaseCount       int   `json:"purchaseCount,omitempty"`
	LastPurchaseDate    int64 `json:"lastPurchaseDate,omitempty"` // epoch ms
}

// ProductInteraction is every signal one user produced against one product.
// All fields are optional; a zero/nil field means "no signal", not zero
// engagement.
type ProductInteraction struct {
	ProductID       string            `json:"productId"`
	ViewDuration    float64           `json:"viewDuration,omitempty"` // seconds
	ViewCount       int               `json:"viewCount,omitempty"`
	Interactions    *InteractionFlags `json:"interactions,omitempty"`
	CartActions     *CartActions      `json:"cartActions,omitempty"`
	CheckoutActions *CheckoutActions  `json:"checkoutActions,omitempty"`
	Rating          float64           `json:"rating,omitempty"`    // 1-5 stars, 0 = absent
	Timestamp       int64             `json:"timestamp,omitempty"` // epoch ms of last activity
}

// Clone returns a deep copy so merge logic never mutates caller-owned data.
func (pi *ProductInteraction) Clone() *ProductInteraction {
	if pi == nil {
		return nil
	}
	out := *pi
	if pi.Interactions != nil {
		fl := *pi.Interactions
		out.Interactions = &fl
	}
	if pi.CartActions != nil {
		ca := *pi.CartActions
		out.CartActions = &ca
	}
	if pi.CheckoutActions != nil {
		co := *pi.CheckoutActions
		out.CheckoutActions = &co
	}
	return &out
}

const (
	DeviceMobile  = "mobile"
	DeviceTablet  = "tablet"
	DeviceDesktop = "desktop"
)

const (
	TimeOfDayMorning   = "morning"
	TimeOfDayAfternoon = "afternoon"
	TimeOfDayEvening   = "evening"
	TimeOfDayNight     = "night"
)

// UserBehavior is one user's full behavioral history as the scoring engine
// consumes it. The three product-id lists plus Ratings are the legacy flat
// format; ProductInteractions is the structured format and wins on conflict
// (see the interaction map builder for the exact merge rules).
type UserBehavior struct {
	UserID            string   `json:"userId"`
	ViewedProducts    []string `json:"viewedProducts"`
	PurchasedProducts []string `json:"purchasedProducts"`
	CartItems         []string `json:"cartItems"`

	SearchQueries []string           `json:"searchQueries,omitempty"`
	Ratings       map[string]float64 `json:"ratings,omitempty"`

	ProductInteractions map[string]*ProductInteraction `json:"productInteractions,omitempty"`
	SessionDuration     float64                        `json:"sessionDuration,omitempty"` // seconds
	DeviceType          string                         `json:"deviceType,omitempty"`
	Location            string                         `json:"location,omitempty"`
	TimeOfDay           string                         `json:"timeOfDay,omitempty"`
}
