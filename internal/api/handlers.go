package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/maltedev/zoom-price-scraper/internal/cache"
	"github.com/maltedev/zoom-price-scraper/internal/database"
	"github.com/maltedev/zoom-price-scraper/internal/fetch"
	"github.com/maltedev/zoom-price-scraper/internal/models"
)

const (
	msgProductNotFound = "Produto não encontrado"
	msgOffersNotFound  = "Comparações dos produtos não encontrados"

	pendingWarnThreshold     = 1000
	deadLetterErrorThreshold = 100
)

// Service is the scraping surface the handlers expose.
type Service interface {
	Search(ctx context.Context, term string) (*models.SearchResult, error)
	Details(ctx context.Context, id string) (models.ProductDetails, error)
	Offers(ctx context.Context, id string) ([]models.Offer, error)
}

type Pinger interface {
	Ping(ctx context.Context) error
}

type OutboxStatter interface {
	Stats(ctx context.Context) (database.OutboxStats, error)
}

// HealthDeps are the optional dependencies reported by /health.
type HealthDeps struct {
	Cache  Pinger
	Outbox OutboxStatter
}

type Handlers struct {
	service Service
	health  HealthDeps
	logger  *slog.Logger
}

func NewHandlers(service Service, health HealthDeps, logger *slog.Logger) *Handlers {
	return &Handlers{
		service: service,
		health:  health,
		logger:  logger.With("component", "api"),
	}
}

// Search handles GET /api/v1/search?term=...
func (h *Handlers) Search(w http.ResponseWriter, r *http.Request) {
	term := strings.TrimSpace(r.URL.Query().Get("term"))
	if term == "" {
		h.respondError(w, http.StatusBadRequest, "term is required")
		return
	}

	result, err := h.service.Search(r.Context(), term)
	if err != nil {
		h.respondFailure(w, "search failed", err, "term", term)
		return
	}

	h.respondJSON(w, http.StatusOK, result)
}

// GetProduct handles GET /api/v1/product/{id}
func (h *Handlers) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := h.productID(w, r)
	if !ok {
		return
	}

	details, err := h.service.Details(r.Context(), id)
	if err != nil {
		h.respondFailure(w, "details failed", err, "product_id", id)
		return
	}
	if details == nil {
		h.respondError(w, http.StatusNotFound, msgProductNotFound)
		return
	}

	h.respondJSON(w, http.StatusOK, details)
}

// GetProductStores handles GET /api/v1/product/{id}/stores
func (h *Handlers) GetProductStores(w http.ResponseWriter, r *http.Request) {
	id, ok := h.productID(w, r)
	if !ok {
		return
	}

	offers, err := h.service.Offers(r.Context(), id)
	if err != nil {
		h.respondFailure(w, "offers failed", err, "product_id", id)
		return
	}
	if len(offers) == 0 {
		h.respondError(w, http.StatusNotFound, msgOffersNotFound)
		return
	}

	h.respondJSON(w, http.StatusOK, offers)
}

// Health reports cache reachability and, when events are enabled, the outbox
// backlog.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	status := http.StatusOK
	health := map[string]any{"status": "ok"}

	if h.health.Cache != nil {
		if err := h.health.Cache.Ping(ctx); err != nil {
			h.logger.Error("cache health check failed", "error", err)
			health["status"] = "error"
			health["message"] = "cache unavailable"
			status = http.StatusServiceUnavailable
		}
	}

	if h.health.Outbox != nil && status == http.StatusOK {
		stats, err := h.health.Outbox.Stats(ctx)
		if err != nil {
			h.logger.Error("outbox health check failed", "error", err)
			health["status"] = "error"
			health["message"] = "outbox unavailable"
			status = http.StatusServiceUnavailable
		} else {
			health["outbox"] = stats
			if stats.Pending > pendingWarnThreshold {
				health["status"] = "warning"
				health["message"] = "High number of pending outbox events"
			}
			if stats.DeadLetter > deadLetterErrorThreshold {
				health["status"] = "error"
				health["message"] = "High number of dead letter events"
				status = http.StatusServiceUnavailable
			}
		}
	}

	h.respondJSON(w, status, health)
}

// productID reads and validates the {id} path parameter. Product ids on the
// site are numeric; the canonical form drops leading zeros so "007" resolves
// the same cache entry as "7".
func (h *Handlers) productID(w http.ResponseWriter, r *http.Request) (string, bool) {
	n, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "product id must be numeric")
		return "", false
	}
	return strconv.FormatUint(n, 10), true
}

func (h *Handlers) respondFailure(w http.ResponseWriter, msg string, err error, args ...any) {
	h.logger.Error(msg, append(args, "error", err)...)

	var fetchErr *fetch.FetchError
	switch {
	case errors.As(err, &fetchErr):
		h.respondError(w, http.StatusInternalServerError, "failed to reach source site")
	case errors.Is(err, cache.ErrStoreUnavailable):
		h.respondError(w, http.StatusInternalServerError, "resolver cache unavailable")
	default:
		h.respondError(w, http.StatusInternalServerError, "internal server error")
	}
}

func (h *Handlers) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

func (h *Handlers) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}
