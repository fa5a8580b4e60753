package service

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
)

var _ port.CartStore = (*Cart)(nil)

type CartOpt func(*cartOpts) error

type cartOpts struct {
	storage    port.KVStorage
	mergeOnAdd bool
	notifier   port.CheckoutNotifier
	feedback   port.FeedbackEmitter
	now        func() time.Time
}

func CartStorageOpt(s port.KVStorage) CartOpt {
	return func(o *cartOpts) error {
		if s == nil {
			return errors.New("storage is nil")
		}
		o.storage = s
		return nil
	}
}

// CartMergeOnAddOpt sets the policy for adding a product that is already in
// the cart: increment the existing entry (true) or append a duplicate (false).
func CartMergeOnAddOpt(merge bool) CartOpt {
	return func(o *cartOpts) error {
		o.mergeOnAdd = merge
		return nil
	}
}

func CartCheckoutNotifierOpt(n port.CheckoutNotifier) CartOpt {
	return func(o *cartOpts) error {
		if n == nil {
			return errors.New("checkout notifier is nil")
		}
		o.notifier = n
		return nil
	}
}

func CartFeedbackEmitterOpt(e port.FeedbackEmitter) CartOpt {
	return func(o *cartOpts) error {
		if e == nil {
			return errors.New("feedback emitter is nil")
		}
		o.feedback = e
		return nil
	}
}

func CartClockOpt(now func() time.Time) CartOpt {
	return func(o *cartOpts) error {
		if now == nil {
			return errors.New("clock is nil")
		}
		o.now = now
		return nil
	}
}

// A Cart is the client cart store.
//
// Every mutation writes the whole cart to storage before it becomes visible
// in memory.
type Cart struct {
	mu         sync.Mutex
	items      []domain.CartItem
	storage    port.KVStorage
	mergeOnAdd bool
	notifier   port.CheckoutNotifier
	feedback   port.FeedbackEmitter
	now        func() time.Time
	gate       submitGate
}

// NewCart returns the cart restored from storage.
//
// Malformed stored content yields an empty cart.
func NewCart(ctx context.Context, opts ...CartOpt) (*Cart, error) {
	const op = "NewCart"

	options := cartOpts{
		notifier: LogCheckoutNotifier{},
		now:      time.Now,
	}
	for _, opt := range opts {
		if err := opt(&options); err != nil {
			return nil, opErr(err, op)
		}
	}
	if options.storage == nil {
		return nil, opErr(ErrTooFewOpts, op)
	}

	c := &Cart{
		storage:    options.storage,
		mergeOnAdd: options.mergeOnAdd,
		notifier:   options.notifier,
		feedback:   options.feedback,
		now:        options.now,
	}
	c.items = c.load(ctx)
	return c, nil
}

func (c *Cart) load(ctx context.Context) []domain.CartItem {
	const op = "Cart.load"
	log := slog.With("op", op)

	data, ok, err := c.storage.Get(ctx, port.KeyCart)
	if err != nil {
		log.Warn("failed to read cart, starting empty", "err", err)
		return []domain.CartItem{}
	}
	if !ok {
		return []domain.CartItem{}
	}

	items, dropped, err := decodeCart(data)
	if err != nil {
		log.Warn("malformed cart, starting empty", "err", err)
		return []domain.CartItem{}
	}
	if dropped != 0 {
		log.Warn("dropped invalid cart entries", "nDropped", dropped)
	}
	return items
}

func (c *Cart) Items() []domain.CartItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.items)
}

func (c *Cart) AddItem(
	ctx context.Context, p domain.Product,
) ([]domain.CartItem, error) {
	const op = "Cart.AddItem"

	if err := validateProduct(p); err != nil {
		return nil, opErr(err, op)
	}

	return c.mutate(ctx, op, func(items []domain.CartItem) ([]domain.CartItem, bool) {
		if c.mergeOnAdd {
			if i := slices.IndexFunc(items, byID(p.ID)); i != -1 {
				items[i].Quantity++
				return items, true
			}
		}
		return append(items, domain.NewCartItem(p)), true
	})
}

func (c *Cart) RemoveItem(ctx context.Context, id int) ([]domain.CartItem, error) {
	const op = "Cart.RemoveItem"

	return c.mutate(ctx, op, func(items []domain.CartItem) ([]domain.CartItem, bool) {
		n := len(items)
		items = slices.DeleteFunc(items, byID(id))
		return items, len(items) != n
	})
}

// ChangeQuantity adds delta to the quantity of every entry with id.
// Quantity never drops below [domain.MinQuantity].
func (c *Cart) ChangeQuantity(
	ctx context.Context, id, delta int,
) ([]domain.CartItem, error) {
	const op = "Cart.ChangeQuantity"

	return c.mutate(ctx, op, func(items []domain.CartItem) ([]domain.CartItem, bool) {
		return updateEach(items, id, func(v *domain.CartItem) {
			v.Quantity = domain.AddQuantity(v.Quantity, delta)
		})
	})
}

func (c *Cart) ToggleLike(ctx context.Context, id int) ([]domain.CartItem, error) {
	const op = "Cart.ToggleLike"

	items, err := c.mutate(ctx, op, func(items []domain.CartItem) ([]domain.CartItem, bool) {
		return updateEach(items, id, func(v *domain.CartItem) {
			v.Liked = !v.Liked
		})
	})
	if err != nil {
		return nil, err
	}
	c.emitFeedback(ctx, items, id)
	return items, nil
}

// SetRating sets the rating of every entry with id, clamped into
// [domain.MinRating, domain.MaxRating].
func (c *Cart) SetRating(
	ctx context.Context, id, value int,
) ([]domain.CartItem, error) {
	const op = "Cart.SetRating"

	rating := domain.ClampRating(value)
	items, err := c.mutate(ctx, op, func(items []domain.CartItem) ([]domain.CartItem, bool) {
		return updateEach(items, id, func(v *domain.CartItem) {
			v.Rating = rating
		})
	})
	if err != nil {
		return nil, err
	}
	c.emitFeedback(ctx, items, id)
	return items, nil
}

func (c *Cart) ComputeTotal() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return domain.CartTotal(c.items)
}

// Checkout signals the purchase of the current cart and clears it.
//
// The cart is left untouched when the notifier fails.
func (c *Cart) Checkout(ctx context.Context) (domain.Checkout, error) {
	const op = "Cart.Checkout"
	log := slog.With("op", op)

	release, ok := c.gate.enter()
	if !ok {
		return domain.Checkout{}, opErr(domain.ErrSubmitInProgress, op)
	}
	defer release()

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return domain.Checkout{}, opErr(err, op)
	}

	v := domain.Checkout{
		OrderID:   uuid.New(),
		Email:     c.email(ctx),
		Items:     slices.Clone(c.items),
		Total:     domain.CartTotal(c.items),
		CreatedAt: c.now(),
	}

	if err := c.notifier.NotifyCheckout(ctx, v); err != nil {
		return domain.Checkout{}, opErr(err, op)
	}

	empty := []domain.CartItem{}
	if err := c.persist(ctx, empty); err != nil {
		return domain.Checkout{}, opErr(err, op)
	}
	c.items = empty

	log.Info("checkout completed",
		"orderID", v.OrderID, "nItems", len(v.Items), "total", v.Total)
	return v, nil
}

func (c *Cart) mutate(
	ctx context.Context,
	op string,
	fn func([]domain.CartItem) ([]domain.CartItem, bool),
) ([]domain.CartItem, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, opErr(err, op)
	}

	next, changed := fn(slices.Clone(c.items))
	if !changed {
		return slices.Clone(c.items), nil
	}

	if err := c.persist(ctx, next); err != nil {
		return nil, opErr(err, op)
	}
	c.items = next
	return slices.Clone(next), nil
}

func (c *Cart) persist(ctx context.Context, items []domain.CartItem) error {
	data, err := encodeCart(items)
	if err != nil {
		return err
	}
	return c.storage.Set(ctx, port.KeyCart, data)
}

func (c *Cart) email(ctx context.Context) string {
	v, _, err := c.storage.Get(ctx, port.KeyEmail)
	if err != nil {
		return ""
	}
	return v
}

func (c *Cart) emitFeedback(ctx context.Context, items []domain.CartItem, id int) {
	const op = "Cart.emitFeedback"

	if c.feedback == nil {
		return
	}
	i := slices.IndexFunc(items, byID(id))
	if i == -1 {
		return
	}
	fb := domain.Feedback{
		ProductID: id,
		Liked:     items[i].Liked,
		Rating:    items[i].Rating,
	}
	if err := c.feedback.EmitFeedback(ctx, fb); err != nil {
		slog.Warn("failed to emit feedback", "op", op, "err", err)
	}
}

func updateEach(
	items []domain.CartItem, id int, fn func(*domain.CartItem),
) ([]domain.CartItem, bool) {
	var changed bool
	for i := range items {
		if items[i].ID != id {
			continue
		}
		before := items[i]
		fn(&items[i])
		if items[i] != before {
			changed = true
		}
	}
	return items, changed
}

func byID(id int) func(domain.CartItem) bool {
	return func(v domain.CartItem) bool { return v.ID == id }
}

// LogCheckoutNotifier signals checkouts to the log only.
type LogCheckoutNotifier struct{}

func (LogCheckoutNotifier) NotifyCheckout(_ context.Context, v domain.Checkout) error {
	slog.Info("paid successfully", "orderID", v.OrderID, "total", v.Total)
	return nil
}
