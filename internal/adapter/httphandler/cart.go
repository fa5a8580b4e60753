package httphandler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
)

// GET v1/cart (200 OK)
// POST v1/cart/items JSON product (200 OK, 400)
// DELETE v1/cart/items/{id} (200 OK)
// POST v1/cart/items/{id}/quantity JSON {"delta"} (200 OK, 400)
// POST v1/cart/items/{id}/like (200 OK)
// PUT v1/cart/items/{id}/rating JSON {"value"} (200 OK, 400)
// POST v1/cart/checkout (200 OK, 409, 502)

var errMissingField = errors.New("missing field")

type CartHandler struct {
	cart port.CartStore
}

func RegisterCart(mux *http.ServeMux, cart port.CartStore, guard port.RouteGuard) {
	h := CartHandler{cart}
	handle := func(pattern string, hf http.HandlerFunc) {
		mux.Handle(pattern, Guarded(guard, AllowJSON(hf)))
	}
	handle("GET /v1/cart", h.GetCart)
	handle("POST /v1/cart/items", h.AddItem)
	handle("DELETE /v1/cart/items/{id}", h.RemoveItem)
	handle("POST /v1/cart/items/{id}/quantity", h.ChangeQuantity)
	handle("POST /v1/cart/items/{id}/like", h.ToggleLike)
	handle("PUT /v1/cart/items/{id}/rating", h.SetRating)
	handle("POST /v1/cart/checkout", h.Checkout)
}

func (h CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	const op = "CartHandler.GetCart"
	log := slog.With("op", op)

	h.writeCart(w, log, h.cart.Items())
}

func (h CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	const op = "CartHandler.AddItem"
	log := slog.With("op", op)

	var p Product
	if err := decodeJSON(r, &p); err != nil {
		http.Error(w, "invalid JSON data", http.StatusBadRequest)
		log.Warn("failed to parse JSON", "err", err)
		return
	}

	items, err := h.cart.AddItem(r.Context(), p.toDomain())
	if err != nil {
		writeError(w, log, err)
		return
	}
	h.writeCart(w, log, items)
}

func (h CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	const op = "CartHandler.RemoveItem"
	log := slog.With("op", op)

	id, err := pathID(r)
	if err != nil {
		writeError(w, log, err)
		return
	}

	items, err := h.cart.RemoveItem(r.Context(), id)
	if err != nil {
		writeError(w, log, err)
		return
	}
	h.writeCart(w, log, items)
}

func (h CartHandler) ChangeQuantity(w http.ResponseWriter, r *http.Request) {
	const op = "CartHandler.ChangeQuantity"
	log := slog.With("op", op)

	id, err := pathID(r)
	if err != nil {
		writeError(w, log, err)
		return
	}

	var req QuantityRequest
	if err := requireField(decodeJSON(r, &req), req.Delta != nil); err != nil {
		http.Error(w, "invalid JSON data", http.StatusBadRequest)
		log.Warn("failed to parse JSON", "err", err)
		return
	}

	items, err := h.cart.ChangeQuantity(r.Context(), id, *req.Delta)
	if err != nil {
		writeError(w, log, err)
		return
	}
	h.writeCart(w, log, items)
}

func (h CartHandler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	const op = "CartHandler.ToggleLike"
	log := slog.With("op", op)

	id, err := pathID(r)
	if err != nil {
		writeError(w, log, err)
		return
	}

	items, err := h.cart.ToggleLike(r.Context(), id)
	if err != nil {
		writeError(w, log, err)
		return
	}
	h.writeCart(w, log, items)
}

func (h CartHandler) SetRating(w http.ResponseWriter, r *http.Request) {
	const op = "CartHandler.SetRating"
	log := slog.With("op", op)

	id, err := pathID(r)
	if err != nil {
		writeError(w, log, err)
		return
	}

	var req RatingRequest
	if err := requireField(decodeJSON(r, &req), req.Value != nil); err != nil {
		http.Error(w, "invalid JSON data", http.StatusBadRequest)
		log.Warn("failed to parse JSON", "err", err)
		return
	}

	items, err := h.cart.SetRating(r.Context(), id, *req.Value)
	if err != nil {
		writeError(w, log, err)
		return
	}
	h.writeCart(w, log, items)
}

func (h CartHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	const op = "CartHandler.Checkout"
	log := slog.With("op", op)

	v, err := h.cart.Checkout(r.Context())
	if err != nil {
		writeError(w, log, err)
		return
	}

	writeJSON(w, log, http.StatusOK, checkoutFromDomain(v))
	log.Info("checkout accepted", "orderID", v.OrderID)
}

func (h CartHandler) writeCart(
	w http.ResponseWriter, log *slog.Logger, items []domain.CartItem,
) {
	writeJSON(w, log, http.StatusOK, Cart{
		Items: cartItemsFromDomain(items),
		Total: domain.CartTotal(items),
	})
}

func requireField(decodeErr error, present bool) error {
	if decodeErr != nil {
		return decodeErr
	}
	if !present {
		return errMissingField
	}
	return nil
}
