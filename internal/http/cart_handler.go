package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	ownerKey := chi.URLParam(r, "ownerKey")
	if ownerKey == "" {
		writeError(w, http.StatusBadRequest, "bad_request", "missing ownerKey")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	c, err := h.carts.Get(ctx, ownerKey)
	if err != nil {
		if !writeDomainError(w, err) {
			writeError(w, http.StatusInternalServerError, "internal", "failed to load cart")
		}
		return
	}

	writeJSON(w, http.StatusOK, c)
}

func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	ownerKey := chi.URLParam(r, "ownerKey")
	if ownerKey == "" {
		writeError(w, http.StatusBadRequest, "bad_request", "missing ownerKey")
		return
	}

	var body struct {
		VariantID string `json:"variantId"`
		Quantity  int    `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid json")
		return
	}
	if body.VariantID == "" {
		writeError(w, http.StatusBadRequest, "bad_request", "missing variantId")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	c, err := h.carts.AddItem(ctx, ownerKey, body.VariantID, body.Quantity)
	if err != nil {
		if !writeDomainError(w, err) {
			writeError(w, http.StatusInternalServerError, "internal", "failed to add item")
		}
		return
	}

	writeJSON(w, http.StatusOK, c)
}

func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	ownerKey := chi.URLParam(r, "ownerKey")
	itemID := chi.URLParam(r, "itemId")
	if ownerKey == "" || itemID == "" {
		writeError(w, http.StatusBadRequest, "bad_request", "missing path parameters")
		return
	}

	var body struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid json")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := h.carts.UpdateItem(ctx, itemID, body.Quantity); err != nil {
		if !writeDomainError(w, err) {
			writeError(w, http.StatusInternalServerError, "internal", "failed to update item")
		}
		return
	}

	c, err := h.carts.Get(ctx, ownerKey)
	if err != nil {
		if !writeDomainError(w, err) {
			writeError(w, http.StatusInternalServerError, "internal", "failed to load cart")
		}
		return
	}

	writeJSON(w, http.StatusOK, c)
}

func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "itemId")
	if itemID == "" {
		writeError(w, http.StatusBadRequest, "bad_request", "missing itemId")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := h.carts.RemoveItem(ctx, itemID); err != nil {
		if !writeDomainError(w, err) {
			writeError(w, http.StatusInternalServerError, "internal", "failed to remove item")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	ownerKey := chi.URLParam(r, "ownerKey")
	if ownerKey == "" {
		writeError(w, http.StatusBadRequest, "bad_request", "missing ownerKey")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := h.carts.Clear(ctx, ownerKey); err != nil {
		if !writeDomainError(w, err) {
			writeError(w, http.StatusInternalServerError, "internal", "failed to clear cart")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
