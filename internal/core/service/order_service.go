package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/atelier/storefront/internal/api/metrics"
	"github.com/atelier/storefront/internal/core/domain"
	"github.com/atelier/storefront/internal/core/ports"
)

const maxOrderItems = 20

type OrderService struct {
	orders   ports.OrderRepository
	artworks ports.ArtworkRepository
	logger   zerolog.Logger
}

func NewOrderService(orders ports.OrderRepository, artworks ports.ArtworkRepository, logger zerolog.Logger) *OrderService {
	return &OrderService{orders: orders, artworks: artworks, logger: logger}
}

type reservation struct {
	artworkID string
	editionID string
	qty       int
}

// Place creates a pending order priced from the catalogue. Stock is reserved
// item by item; if any reservation fails the earlier ones are released.
func (s *OrderService) Place(ctx context.Context, userID string, in []ports.OrderItemInput) (*domain.Order, error) {
	if len(in) == 0 || len(in) > maxOrderItems {
		return nil, fmt.Errorf("%w: between 1 and %d items required", domain.ErrInvalidOrder, maxOrderItems)
	}

	order := &domain.Order{
		ID:     uuid.NewString(),
		Number: generateOrderNumber(),
		UserID: userID,
		Status: domain.OrderPending,
	}

	var reserved []reservation
	release := func() {
		for _, r := range reserved {
			s.release(ctx, r)
		}
	}

	for _, item := range in {
		line, res, err := s.reserveItem(ctx, item)
		if err != nil {
			release()
			return nil, err
		}
		reserved = append(reserved, res)

		if order.Currency == "" {
			order.Currency = line.currency
		} else if order.Currency != line.currency {
			release()
			return nil, fmt.Errorf("%w: items priced in different currencies", domain.ErrInvalidOrder)
		}
		order.Items = append(order.Items, line.item)
		order.Total += line.item.UnitPrice * int64(line.item.Quantity)
	}

	now := time.Now().UTC()
	order.CreatedAt = now
	order.UpdatedAt = now
	order.StatusHistory = []domain.StatusHistoryEntry{{Status: domain.OrderPending, Timestamp: now}}

	if err := s.orders.Create(ctx, order); err != nil {
		release()
		s.logger.Error().Err(err).Str("user_id", userID).Msg("failed to create order")
		return nil, err
	}

	metrics.OrdersPlacedTotal.WithLabelValues(order.Currency).Inc()
	s.logger.Info().Str("order", order.Number).Str("user_id", userID).Int64("total", order.Total).Msg("order placed")
	return order, nil
}

type pricedLine struct {
	item     domain.OrderItem
	currency string
}

func (s *OrderService) reserveItem(ctx context.Context, in ports.OrderItemInput) (pricedLine, reservation, error) {
	if in.Quantity <= 0 {
		return pricedLine{}, reservation{}, fmt.Errorf("%w: quantity must be positive", domain.ErrInvalidOrder)
	}

	a, err := s.artworks.FindBySlug(ctx, in.Slug)
	if err != nil {
		return pricedLine{}, reservation{}, err
	}
	if !a.Published {
		return pricedLine{}, reservation{}, domain.ErrArtworkNotFound
	}

	line := pricedLine{
		item:     domain.OrderItem{ArtworkID: a.ID, Title: a.Title, Quantity: in.Quantity},
		currency: a.Currency,
	}

	if in.EditionID == "" {
		if in.Quantity != 1 {
			return pricedLine{}, reservation{}, fmt.Errorf("%w: an original can only be bought once", domain.ErrInvalidOrder)
		}
		if !a.OriginalAvailable {
			return pricedLine{}, reservation{}, domain.ErrOriginalSold
		}
		if err := s.artworks.ReserveOriginal(ctx, a.ID); err != nil {
			return pricedLine{}, reservation{}, err
		}
		line.item.UnitPrice = a.Price
		return line, reservation{artworkID: a.ID, qty: 1}, nil
	}

	ed, ok := a.Edition(in.EditionID)
	if !ok {
		return pricedLine{}, reservation{}, domain.ErrEditionNotFound
	}
	if ed.Remaining() < in.Quantity {
		return pricedLine{}, reservation{}, domain.ErrEditionSoldOut
	}
	if err := s.artworks.ReserveEdition(ctx, a.ID, ed, in.Quantity); err != nil {
		return pricedLine{}, reservation{}, err
	}
	line.item.EditionID = ed.ID
	line.item.Title = a.Title + " (" + ed.Name + ")"
	line.item.UnitPrice = ed.Price
	return line, reservation{artworkID: a.ID, editionID: ed.ID, qty: in.Quantity}, nil
}

func (s *OrderService) release(ctx context.Context, r reservation) {
	var err error
	if r.editionID == "" {
		err = s.artworks.ReleaseOriginal(ctx, r.artworkID)
	} else {
		err = s.artworks.ReleaseEdition(ctx, r.artworkID, r.editionID, r.qty)
	}
	if err != nil {
		s.logger.Error().Err(err).Str("artwork_id", r.artworkID).Str("edition_id", r.editionID).Msg("failed to release stock")
	}
}

func (s *OrderService) List(ctx context.Context, in ports.ListOrdersInput) (*ports.Page[*domain.Order], error) {
	page, limit := ports.NormalizePage(in.Page, in.Limit)
	items, total, err := s.orders.List(ctx, ports.ListOrdersFilter{
		UserID: in.UserID,
		Status: strings.TrimSpace(in.Status),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return ports.NewPage(items, total, page, limit), nil
}

func (s *OrderService) Get(ctx context.Context, number, userID string) (*domain.Order, error) {
	return s.orders.FindByNumber(ctx, number, userID)
}

// UpdateStatus applies an admin status change. Cancelling or refunding puts
// the reserved stock back on sale.
func (s *OrderService) UpdateStatus(ctx context.Context, number, status, notes string) (*domain.Order, error) {
	next := domain.OrderStatus(strings.TrimSpace(status))

	order, err := s.orders.FindByNumber(ctx, number, "")
	if err != nil {
		return nil, err
	}
	if !order.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("update order: %w (from %s to %s)", domain.ErrInvalidTransition, order.Status, next)
	}

	if err := s.orders.UpdateStatus(ctx, number, order.Status, next, time.Now().UTC(), strings.TrimSpace(notes)); err != nil {
		return nil, fmt.Errorf("update order: %w", err)
	}
	metrics.OrderTransitionsTotal.WithLabelValues(string(order.Status), string(next)).Inc()

	if next.ReleasesStock() {
		for _, item := range order.Items {
			s.release(ctx, reservation{artworkID: item.ArtworkID, editionID: item.EditionID, qty: item.Quantity})
		}
	}

	s.logger.Info().Str("order", number).Str("from", string(order.Status)).Str("to", string(next)).Msg("order status changed")

	return s.orders.FindByNumber(ctx, number, "")
}

// generateOrderNumber returns an order number in the format ART-XXXXXXXX.
func generateOrderNumber() string {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		// fallback: use current nanoseconds
		return fmt.Sprintf("ART-%08X", time.Now().UnixNano()&0xFFFFFFFF)
	}
	return fmt.Sprintf("ART-%08X", b)
}
