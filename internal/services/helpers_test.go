package service_test

import (
	"context"
	"errors"

	"github.com/stylehub/storefront/internal/kvstore"
	"github.com/stylehub/storefront/internal/models"
	repository "github.com/stylehub/storefront/internal/repositories"
	service "github.com/stylehub/storefront/internal/services"
)

// failingStore wraps a working store but refuses writes to the listed keys.
// Used to verify ordering guarantees across multi-key operations.
type failingStore struct {
	kvstore.Store
	failSetKeys map[string]bool
}

var errWriteRefused = errors.New("simulated write failure")

func newFailingStore(inner kvstore.Store, keys ...string) *failingStore {
	failing := make(map[string]bool, len(keys))
	for _, key := range keys {
		failing[key] = true
	}

	return &failingStore{Store: inner, failSetKeys: failing}
}

func (s *failingStore) Set(ctx context.Context, key string, value []byte) error {
	if s.failSetKeys[key] {
		return errWriteRefused
	}

	return s.Store.Set(ctx, key, value)
}

func newCartService(store kvstore.Store) service.CartService {
	return service.NewCartService(repository.NewCartRepo(store))
}

func mustAddItem(ctx context.Context, cart service.CartService, name, price string) *models.CartResponse {
	resp, err := cart.AddItem(ctx, &models.AddItemRequest{Name: name, Price: price})
	if err != nil {
		panic(err)
	}

	return resp
}

var testCheckoutConfig = service.CheckoutConfig{
	ShippingFee:  497,
	TaxRate:      0.18,
	DeliveryDays: 5,
}

// advanceToReview walks a fresh checkout session through the first three
// steps as a guest so tests can exercise review-step behavior directly.
func advanceToReview(ctx context.Context, checkout service.CheckoutService) (*models.CheckoutSession, error) {
	session, err := checkout.Start(ctx)
	if err != nil {
		return nil, err
	}

	if _, err := checkout.SubmitIdentity(ctx, session.ID, &models.GuestIdentityRequest{
		FirstName: "Asha",
		LastName:  "Verma",
		Email:     "asha@example.com",
		Phone:     "9876543210",
	}); err != nil {
		return nil, err
	}

	if _, err := checkout.SubmitShipping(ctx, session.ID, &models.Address{
		FirstName: "Asha",
		LastName:  "Verma",
		Address1:  "12 MG Road",
		City:      "Bengaluru",
		State:     "KA",
		Zip:       "560001",
		Country:   "India",
	}); err != nil {
		return nil, err
	}

	return checkout.SubmitPayment(ctx, session.ID, &models.PaymentRequest{
		Method:     models.PaymentMethodCredit,
		CardNumber: "4111 1111 1111 1111",
		Expiry:     "12/27",
		CVV:        "123",
		CardHolder: "Asha Verma",
	})
}
