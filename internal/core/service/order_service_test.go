package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atelier/storefront/internal/core/domain"
	"github.com/atelier/storefront/internal/core/ports"
)

func catalogue() *stubArtworkRepo {
	return newStubArtworkRepo(
		&domain.Artwork{
			ID: "a1", Slug: "harbour-at-dusk", Title: "Harbour at Dusk", Price: 120000, Currency: "EUR",
			OriginalAvailable: true, Published: true,
			Editions: []domain.Edition{
				{ID: "e1", Name: "A3 giclee", Price: 9000, EditionSize: 10, Sold: 8},
			},
		},
		&domain.Artwork{
			ID: "a2", Slug: "blue-hour", Title: "Blue Hour", Price: 80000, Currency: "EUR",
			OriginalAvailable: false, Published: true,
		},
		&domain.Artwork{
			ID: "a3", Slug: "draft", Title: "Draft", Price: 100, Currency: "EUR",
			OriginalAvailable: true, Published: false,
		},
		&domain.Artwork{
			ID: "a4", Slug: "dollar-sketch", Title: "Dollar Sketch", Price: 5000, Currency: "USD",
			OriginalAvailable: true, Published: true,
		},
	)
}

func TestOrderService_Place_PricesFromCatalogue(t *testing.T) {
	artworks := catalogue()
	orders := newStubOrderRepo()
	svc := NewOrderService(orders, artworks, zerolog.Nop())

	order, err := svc.Place(context.Background(), "cust-1", []ports.OrderItemInput{
		{Slug: "harbour-at-dusk", EditionID: "e1", Quantity: 2},
		{Slug: "harbour-at-dusk", Quantity: 1},
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(order.Number, "ART-"))
	assert.Equal(t, domain.OrderPending, order.Status)
	assert.Equal(t, "EUR", order.Currency)
	assert.EqualValues(t, 2*9000+120000, order.Total)
	require.Len(t, order.Items, 2)
	assert.Equal(t, "Harbour at Dusk (A3 giclee)", order.Items[0].Title)
	require.Len(t, order.StatusHistory, 1)

	a, _ := artworks.FindByID(context.Background(), "a1")
	assert.Equal(t, 10, a.Editions[0].Sold)
	assert.False(t, a.OriginalAvailable)

	_, err = orders.FindByNumber(context.Background(), order.Number, "cust-1")
	assert.NoError(t, err)
}

func TestOrderService_Place_Rejections(t *testing.T) {
	tests := []struct {
		name  string
		items []ports.OrderItemInput
		want  error
	}{
		{"empty", nil, domain.ErrInvalidOrder},
		{"zero quantity", []ports.OrderItemInput{{Slug: "harbour-at-dusk", EditionID: "e1", Quantity: 0}}, domain.ErrInvalidOrder},
		{"original twice", []ports.OrderItemInput{{Slug: "harbour-at-dusk", Quantity: 2}}, domain.ErrInvalidOrder},
		{"original sold", []ports.OrderItemInput{{Slug: "blue-hour", Quantity: 1}}, domain.ErrOriginalSold},
		{"unpublished", []ports.OrderItemInput{{Slug: "draft", Quantity: 1}}, domain.ErrArtworkNotFound},
		{"unknown slug", []ports.OrderItemInput{{Slug: "nope", Quantity: 1}}, domain.ErrArtworkNotFound},
		{"unknown edition", []ports.OrderItemInput{{Slug: "harbour-at-dusk", EditionID: "zz", Quantity: 1}}, domain.ErrEditionNotFound},
		{"edition sold out", []ports.OrderItemInput{{Slug: "harbour-at-dusk", EditionID: "e1", Quantity: 3}}, domain.ErrEditionSoldOut},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewOrderService(newStubOrderRepo(), catalogue(), zerolog.Nop())
			_, err := svc.Place(context.Background(), "cust-1", tt.items)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestOrderService_Place_RollsBackEarlierReservations(t *testing.T) {
	artworks := catalogue()
	svc := NewOrderService(newStubOrderRepo(), artworks, zerolog.Nop())

	_, err := svc.Place(context.Background(), "cust-1", []ports.OrderItemInput{
		{Slug: "harbour-at-dusk", EditionID: "e1", Quantity: 1},
		{Slug: "blue-hour", Quantity: 1},
	})
	require.ErrorIs(t, err, domain.ErrOriginalSold)

	assert.Equal(t, []string{"a1/e1"}, artworks.released)
	a, _ := artworks.FindByID(context.Background(), "a1")
	assert.Equal(t, 8, a.Editions[0].Sold)
}

func TestOrderService_Place_MixedCurrencies(t *testing.T) {
	artworks := catalogue()
	svc := NewOrderService(newStubOrderRepo(), artworks, zerolog.Nop())

	_, err := svc.Place(context.Background(), "cust-1", []ports.OrderItemInput{
		{Slug: "harbour-at-dusk", Quantity: 1},
		{Slug: "dollar-sketch", Quantity: 1},
	})
	require.ErrorIs(t, err, domain.ErrInvalidOrder)
	assert.ElementsMatch(t, []string{"a1", "a4"}, artworks.released)
}

func TestOrderService_Place_CreateFailureReleasesStock(t *testing.T) {
	artworks := catalogue()
	orders := newStubOrderRepo()
	orders.createErr = errors.New("mongo down")
	svc := NewOrderService(orders, artworks, zerolog.Nop())

	_, err := svc.Place(context.Background(), "cust-1", []ports.OrderItemInput{{Slug: "harbour-at-dusk", Quantity: 1}})
	require.Error(t, err)

	a, _ := artworks.FindByID(context.Background(), "a1")
	assert.True(t, a.OriginalAvailable)
}

func TestOrderService_UpdateStatus(t *testing.T) {
	artworks := catalogue()
	orders := newStubOrderRepo(&domain.Order{
		Number: "ART-00000001",
		UserID: "cust-1",
		Status: domain.OrderPending,
		Items:  []domain.OrderItem{{ArtworkID: "a1", EditionID: "e1", Quantity: 2}},
	})
	svc := NewOrderService(orders, artworks, zerolog.Nop())

	_, err := svc.UpdateStatus(context.Background(), "ART-00000001", "shipped", "")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	order, err := svc.UpdateStatus(context.Background(), "ART-00000001", "cancelled", "customer asked")
	require.NoError(t, err)
	assert.Equal(t, domain.OrderCancelled, order.Status)
	require.Len(t, order.StatusHistory, 1)
	assert.Equal(t, "customer asked", order.StatusHistory[0].Notes)

	a, _ := artworks.FindByID(context.Background(), "a1")
	assert.Equal(t, 6, a.Editions[0].Sold, "cancelling puts the prints back on sale")

	_, err = svc.UpdateStatus(context.Background(), "ART-00000001", "paid", "")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition, "cancelled is terminal")

	_, err = svc.UpdateStatus(context.Background(), "ART-404", "paid", "")
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}

func TestOrderService_Get_ScopedToOwner(t *testing.T) {
	orders := newStubOrderRepo(&domain.Order{Number: "ART-00000002", UserID: "cust-1", Status: domain.OrderPaid})
	svc := NewOrderService(orders, catalogue(), zerolog.Nop())

	_, err := svc.Get(context.Background(), "ART-00000002", "cust-2")
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)

	o, err := svc.Get(context.Background(), "ART-00000002", "cust-1")
	require.NoError(t, err)
	assert.Equal(t, domain.OrderPaid, o.Status)
}
