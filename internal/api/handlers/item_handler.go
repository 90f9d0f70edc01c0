package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/nicolasm28/interview-evaluation/internal/auth"
	"github.com/nicolasm28/interview-evaluation/internal/services"
)

// ItemHandler handles HTTP requests for todo items.
type ItemHandler struct {
	service services.ItemServiceProvider
}

// NewItemHandler creates a new ItemHandler.
func NewItemHandler(service services.ItemServiceProvider) *ItemHandler {
	return &ItemHandler{service: service}
}

// ItemPayload defines the structure for item create and update requests.
type ItemPayload struct {
	Title string  `json:"title"`
	Body  *string `json:"body"`
}

// GetAll handles the request to list every item.
func (h *ItemHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.GetAllItems(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to retrieve items")
		http.Error(w, "Failed to retrieve items", http.StatusInternalServerError)
		return
	}

	// An empty table answers 204, not an empty JSON list.
	if len(items) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(items)
}

// Get handles the request for a single item by its ID.
func (h *ItemHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid item ID", http.StatusBadRequest)
		return
	}

	item, err := h.service.GetItemByID(r.Context(), id)
	if err != nil {
		// Unknown IDs answer 204, not 404.
		if errors.Is(err, services.ErrItemNotFound) {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		log.Error().Err(err).Int64("item_id", id).Msg("Failed to retrieve item")
		http.Error(w, "Failed to retrieve item", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(item)
}

// Create handles the request to add a new item owned by the caller.
func (h *ItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload ItemPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if payload.Title == "" {
		http.Error(w, "title is required", http.StatusBadRequest)
		return
	}

	username, _ := auth.UsernameFromContext(r.Context())

	item, err := h.service.CreateItem(r.Context(), payload.Title, payload.Body, username)
	if err != nil {
		var conflict *services.ConflictError
		if errors.As(err, &conflict) {
			// Duplicate titles answer 200 with an error body, not 409.
			log.Warn().Str("title", payload.Title).Msg("Duplicate item title")
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]string{"error": conflict.Error()})
			return
		}
		log.Error().Err(err).Msg("Failed to create item")
		http.Error(w, "Failed to create item", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(item)
}

// Update handles the request to overwrite an item's title and body.
func (h *ItemHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid item ID", http.StatusBadRequest)
		return
	}

	var payload ItemPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if payload.Title == "" {
		http.Error(w, "title is required", http.StatusBadRequest)
		return
	}

	username, _ := auth.UsernameFromContext(r.Context())

	item, err := h.service.UpdateItem(r.Context(), id, payload.Title, payload.Body, username)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrItemNotFound):
			http.Error(w, "inexistant ID", http.StatusNotFound)
		case errors.Is(err, services.ErrForbidden):
			http.Error(w, "username does not match", http.StatusForbidden)
		default:
			log.Error().Err(err).Int64("item_id", id).Msg("Failed to update item")
			http.Error(w, "Failed to update item", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(item)
}

// Delete handles the request to remove an item.
func (h *ItemHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid item ID", http.StatusBadRequest)
		return
	}

	username, _ := auth.UsernameFromContext(r.Context())

	if err := h.service.DeleteItem(r.Context(), id, username); err != nil {
		switch {
		case errors.Is(err, services.ErrItemNotFound):
			http.Error(w, "inexistant ID", http.StatusNotFound)
		case errors.Is(err, services.ErrForbidden):
			http.Error(w, "username does not match", http.StatusForbidden)
		default:
			log.Error().Err(err).Int64("item_id", id).Msg("Failed to delete item")
			http.Error(w, "Failed to delete item", http.StatusInternalServerError)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
