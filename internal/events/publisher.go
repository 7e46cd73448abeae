package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/maltedev/zoom-price-scraper/internal/database"
	"github.com/maltedev/zoom-price-scraper/internal/models"
)

type EventType string

const (
	// EventTypeProductDiscovered is published the first time a search stores a
	// product's detail path.
	EventTypeProductDiscovered EventType = "PRODUCT_DISCOVERED"
)

const eventSource = "zoom-scraper"

type ProductDiscoveredPayload struct {
	EventID      string    `json:"event_id"`
	EventType    string    `json:"event_type"`
	Timestamp    time.Time `json:"timestamp"`
	ProductID    string    `json:"product_id"`
	Name         string    `json:"name"`
	DetailPath   string    `json:"detail_path"`
	Price        *Price    `json:"price,omitempty"`
	BestMerchant *string   `json:"best_merchant,omitempty"`
	ImageURL     *string   `json:"image_url,omitempty"`
	Source       string    `json:"source"`
}

type Price struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

// TxRunner runs fn inside a database transaction.
type TxRunner interface {
	Transaction(ctx context.Context, fn func(pgx.Tx) error) error
}

type OutboxWriter interface {
	InsertWithTx(ctx context.Context, tx pgx.Tx, event *database.OutboxEvent) error
}

// Publisher writes discovery events to the transactional outbox. The relay
// forwards them to Redis.
type Publisher struct {
	db     TxRunner
	outbox OutboxWriter
	logger *slog.Logger
}

func NewPublisher(db TxRunner, outbox OutboxWriter, logger *slog.Logger) *Publisher {
	return &Publisher{
		db:     db,
		outbox: outbox,
		logger: logger.With("component", "event_publisher"),
	}
}

// ProductDiscovered lets Publisher act as the search discovery listener.
func (p *Publisher) ProductDiscovered(ctx context.Context, product models.ProductSummary) error {
	return p.PublishProductDiscovered(ctx, NewProductDiscoveredPayload(product))
}

func NewProductDiscoveredPayload(product models.ProductSummary) *ProductDiscoveredPayload {
	payload := &ProductDiscoveredPayload{
		ProductID:    product.ID,
		Name:         product.Name,
		BestMerchant: product.Description,
		ImageURL:     product.ImageURL,
	}
	if product.DetailURL != nil {
		payload.DetailPath = *product.DetailURL
	}
	if product.Price != nil {
		payload.Price = &Price{Amount: *product.Price, Currency: "BRL"}
	}
	return payload
}

func (p *Publisher) PublishProductDiscovered(ctx context.Context, payload *ProductDiscoveredPayload) error {
	if payload.EventID == "" {
		payload.EventID = uuid.New().String()
	}
	if payload.EventType == "" {
		payload.EventType = string(EventTypeProductDiscovered)
	}
	if payload.Timestamp.IsZero() {
		payload.Timestamp = time.Now()
	}
	if payload.Source == "" {
		payload.Source = eventSource
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	outboxEvent := &database.OutboxEvent{
		AggregateType: "product",
		AggregateID:   payload.ProductID,
		EventType:     string(EventTypeProductDiscovered),
		Payload:       data,
		TargetStream:  database.DefaultTargetStream,
	}

	err = p.db.Transaction(ctx, func(tx pgx.Tx) error {
		return p.outbox.InsertWithTx(ctx, tx, outboxEvent)
	})
	if err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	p.logger.Debug("event published to outbox",
		"type", payload.EventType,
		"event_id", payload.EventID,
		"product_id", payload.ProductID,
		"outbox_id", outboxEvent.ID)

	return nil
}

var (
	_ TxRunner     = (*database.DB)(nil)
	_ OutboxWriter = (*database.OutboxRepository)(nil)
)
