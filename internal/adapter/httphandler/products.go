package httphandler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
)

// GET v1/products?page=1&size=10 (200 OK, 400, 502)
// GET v1/products/search?name=&category= (200 OK, 502)
// GET v1/products/{id} (200 OK, 400, 502)
// POST v1/products JSON product (201 Created, 400, 502)
// PUT v1/products/{id} JSON product (200 OK, 400, 502)
// DELETE v1/products/{id} (204 No content, 400, 502)

type ProductsHandler struct {
	catalog port.ProductCatalog
}

func RegisterProducts(
	mux *http.ServeMux, catalog port.ProductCatalog, guard port.RouteGuard,
) {
	h := ProductsHandler{catalog}
	handle := func(pattern string, hf http.HandlerFunc) {
		mux.Handle(pattern, Guarded(guard, AllowJSON(hf)))
	}
	handle("GET /v1/products", h.ListProducts)
	handle("GET /v1/products/search", h.SearchProducts)
	handle("GET /v1/products/{id}", h.GetProduct)
	handle("POST /v1/products", h.PostProduct)
	handle("PUT /v1/products/{id}", h.PutProduct)
	handle("DELETE /v1/products/{id}", h.DeleteProduct)
}

func (h ProductsHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	const op = "ProductsHandler.ListProducts"
	log := slog.With("op", op)

	page, err := queryInt(r, "page", 1)
	if err != nil {
		writeError(w, log, err)
		return
	}
	size, err := queryInt(r, "size", 0)
	if err != nil {
		writeError(w, log, err)
		return
	}

	v, err := h.catalog.ListProducts(r.Context(), page, size)
	if err != nil {
		writeError(w, log, err)
		return
	}

	writeJSON(w, log, http.StatusOK, ProductPage{
		Content:    productsFromDomain(v.Content),
		TotalPages: v.TotalPages,
		Number:     v.Number,
	})
}

func (h ProductsHandler) SearchProducts(w http.ResponseWriter, r *http.Request) {
	const op = "ProductsHandler.SearchProducts"
	log := slog.With("op", op)

	q := r.URL.Query()
	vs, err := h.catalog.SearchProducts(r.Context(), domain.ProductQuery{
		Name:     q.Get("name"),
		Category: q.Get("category"),
	})
	if err != nil {
		writeError(w, log, err)
		return
	}

	writeJSON(w, log, http.StatusOK, productsFromDomain(vs))
}

func (h ProductsHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	const op = "ProductsHandler.GetProduct"
	log := slog.With("op", op)

	id, err := pathID(r)
	if err != nil {
		writeError(w, log, err)
		return
	}

	v, err := h.catalog.GetProduct(r.Context(), id)
	if err != nil {
		writeError(w, log, err)
		return
	}

	writeJSON(w, log, http.StatusOK, productFromDomain(v))
}

func (h ProductsHandler) PostProduct(w http.ResponseWriter, r *http.Request) {
	const op = "ProductsHandler.PostProduct"
	log := slog.With("op", op)

	var p Product
	if err := decodeJSON(r, &p); err != nil {
		http.Error(w, "invalid JSON data", http.StatusBadRequest)
		log.Warn("failed to parse JSON", "err", err)
		return
	}

	v, err := h.catalog.CreateProduct(r.Context(), p.toDomain())
	if err != nil {
		writeError(w, log, err)
		return
	}

	writeJSON(w, log, http.StatusCreated, productFromDomain(v))
	log.Info("product created", "productID", v.ID)
}

func (h ProductsHandler) PutProduct(w http.ResponseWriter, r *http.Request) {
	const op = "ProductsHandler.PutProduct"
	log := slog.With("op", op)

	id, err := pathID(r)
	if err != nil {
		writeError(w, log, err)
		return
	}

	var p Product
	if err := decodeJSON(r, &p); err != nil {
		http.Error(w, "invalid JSON data", http.StatusBadRequest)
		log.Warn("failed to parse JSON", "err", err)
		return
	}
	p.ID = id

	v, err := h.catalog.UpdateProduct(r.Context(), p.toDomain())
	if err != nil {
		writeError(w, log, err)
		return
	}

	writeJSON(w, log, http.StatusOK, productFromDomain(v))
	log.Info("product updated", "productID", v.ID)
}

func (h ProductsHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	const op = "ProductsHandler.DeleteProduct"
	log := slog.With("op", op)

	id, err := pathID(r)
	if err != nil {
		writeError(w, log, err)
		return
	}

	if err := h.catalog.DeleteProduct(r.Context(), id); err != nil {
		writeError(w, log, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
	log.Info("product deleted", "productID", id)
}

func queryInt(r *http.Request, key string, fallback int) (int, error) {
	s := r.URL.Query().Get(key)
	if s == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, domain.ErrInvalidPage
	}
	return v, nil
}
