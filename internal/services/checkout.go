package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stylehub/storefront/internal/currency"
	"github.com/stylehub/storefront/internal/errors"
	"github.com/stylehub/storefront/internal/metrics"
	"github.com/stylehub/storefront/internal/models"
	repository "github.com/stylehub/storefront/internal/repositories"
	"github.com/stylehub/storefront/pkg/sendgrid"
)

// CheckoutConfig carries the pricing knobs of the wizard: a flat shipping
// fee, the GST rate applied to the subtotal, and the promised delivery span.
type CheckoutConfig struct {
	ShippingFee  float64
	TaxRate      float64
	DeliveryDays int
}

// CheckoutService drives the four-step checkout wizard:
//
//	identity -> shipping -> payment -> review
//
// Sessions live in memory only. Each session freezes a snapshot of the cart
// when it starts; the cart itself is untouched until the order is placed.
// Every method returns an independent copy of the session, so callers can
// read it freely while other requests mutate the stored one.
type CheckoutService interface {
	Start(ctx context.Context) (*models.CheckoutSession, error)
	Session(ctx context.Context, sessionID string) (*models.CheckoutSession, error)
	SubmitIdentity(ctx context.Context, sessionID string, guest *models.GuestIdentityRequest) (*models.CheckoutSession, error)
	SubmitShipping(ctx context.Context, sessionID string, address *models.Address) (*models.CheckoutSession, error)
	SubmitPayment(ctx context.Context, sessionID string, req *models.PaymentRequest) (*models.CheckoutSession, error)
	Back(ctx context.Context, sessionID string) (*models.CheckoutSession, error)
	Summary(ctx context.Context, sessionID string) (*models.CheckoutSummary, error)
	PlaceOrder(ctx context.Context, sessionID string) (*models.OrderConfirmation, error)
	Cancel(ctx context.Context, sessionID string) error
}

type checkoutService struct {
	cart      CartService
	orderRepo repository.OrderRepository
	userRepo  repository.UserRepository
	email     sendgrid.EmailService
	cfg       CheckoutConfig

	mu       sync.Mutex
	sessions map[string]*models.CheckoutSession
}

func NewCheckoutService(cart CartService, orderRepo repository.OrderRepository, userRepo repository.UserRepository, email sendgrid.EmailService, cfg CheckoutConfig) CheckoutService {
	return &checkoutService{
		cart:      cart,
		orderRepo: orderRepo,
		userRepo:  userRepo,
		email:     email,
		cfg:       cfg,
		sessions:  make(map[string]*models.CheckoutSession),
	}
}

func (s *checkoutService) Start(ctx context.Context) (*models.CheckoutSession, error) {
	snapshot, err := s.cart.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	if len(snapshot) == 0 {
		return nil, errors.BadRequestError("Your cart is empty")
	}

	session := &models.CheckoutSession{
		ID:        uuid.NewString(),
		Step:      models.StepIdentity,
		Items:     snapshot,
		CreatedAt: time.Now(),
	}

	s.mu.Lock()
	s.sessions[session.ID] = session
	clone := session.Clone()
	s.mu.Unlock()

	return clone, nil
}

func (s *checkoutService) Session(_ context.Context, sessionID string) (*models.CheckoutSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	return session.Clone(), nil
}

// SubmitIdentity completes step 1. With guest == nil the logged-in account's
// identity is adopted; otherwise the guest contact fields are required.
func (s *checkoutService) SubmitIdentity(ctx context.Context, sessionID string, guest *models.GuestIdentityRequest) (*models.CheckoutSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	if err := requireStep(session, models.StepIdentity); err != nil {
		return nil, err
	}

	if guest == nil {
		account, err := s.userRepo.CurrentSession(ctx)
		if err != nil {
			return nil, errors.StorageError("Failed to load session").WithError(err)
		}

		if account == nil {
			return nil, errors.ValidationError("Log in or provide guest details to continue")
		}

		first, last, _ := strings.Cut(account.Name, " ")
		session.User = &models.Identity{FirstName: first, LastName: last, Email: account.Email}
	} else {
		if guest.FirstName == "" || guest.LastName == "" || guest.Email == "" || guest.Phone == "" {
			return nil, errors.ValidationError("Please fill all required fields")
		}

		session.User = &models.Identity{
			FirstName: guest.FirstName,
			LastName:  guest.LastName,
			Email:     guest.Email,
			Phone:     guest.Phone,
		}
	}

	session.Step = models.StepShipping

	return session.Clone(), nil
}

func (s *checkoutService) SubmitShipping(_ context.Context, sessionID string, address *models.Address) (*models.CheckoutSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	if err := requireStep(session, models.StepShipping); err != nil {
		return nil, err
	}

	if address.FirstName == "" || address.LastName == "" || address.Address1 == "" ||
		address.City == "" || address.State == "" || address.Zip == "" || address.Country == "" {
		return nil, errors.ValidationError("Please fill all required address fields")
	}

	addr := *address
	session.Shipping = &addr
	session.Step = models.StepPayment

	return session.Clone(), nil
}

// SubmitPayment validates step 3 and keeps only the card's last four digits
// and the holder name; number, expiry and CVV are never stored.
func (s *checkoutService) SubmitPayment(_ context.Context, sessionID string, req *models.PaymentRequest) (*models.CheckoutSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	if err := requireStep(session, models.StepPayment); err != nil {
		return nil, err
	}

	info := models.PaymentInfo{Method: req.Method}

	if req.Method == models.PaymentMethodCredit {
		digits := stripNonDigits(req.CardNumber)

		if len(digits) < 13 || req.Expiry == "" || req.CVV == "" || req.CardHolder == "" {
			return nil, errors.ValidationError("Please fill all card details")
		}

		info.CardLast4 = digits[len(digits)-4:]
		info.CardHolder = req.CardHolder
	}

	session.Payment = &info
	session.Step = models.StepReview

	return session.Clone(), nil
}

// Back moves one step towards identity without any guard and without
// discarding data entered for later steps.
func (s *checkoutService) Back(_ context.Context, sessionID string) (*models.CheckoutSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	if session.Step > models.StepIdentity {
		session.Step--
	}

	return session.Clone(), nil
}

func (s *checkoutService) Summary(_ context.Context, sessionID string) (*models.CheckoutSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	if session.Step != models.StepReview {
		return nil, errors.ValidationError("Summary is available on the review step")
	}

	// Built from a copy so the summary's address does not alias the stored
	// session once the lock is released.
	return s.buildSummary(session.Clone()), nil
}

// PlaceOrder commits the session: the order is appended to the history
// durably before the cart is cleared, so a failure can leave a stale cart but
// never a paid-for order that was dropped.
func (s *checkoutService) PlaceOrder(ctx context.Context, sessionID string) (*models.OrderConfirmation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	if session.Step != models.StepReview {
		return nil, errors.ValidationError("Order can only be placed from the review step")
	}

	summary := s.buildSummary(session)
	now := time.Now()

	items := make([]models.LineItem, len(session.Items))
	copy(items, session.Items)

	order := models.Order{
		ID:                newOrderNumber(),
		Items:             items,
		Total:             summary.Total,
		Date:              now,
		Status:            models.OrderStatusProcessing,
		ShippingAddress:   *session.Shipping,
		EstimatedDelivery: now.AddDate(0, 0, s.cfg.DeliveryDays),
	}

	orders, err := s.orderRepo.Load(ctx)
	if err != nil {
		return nil, errors.StorageError("Failed to load order history").WithError(err)
	}

	orders = append(orders, order)

	if err := s.orderRepo.Save(ctx, orders); err != nil {
		return nil, errors.StorageError("Failed to record order").WithError(err)
	}

	// The order is durable from here on: a failed cart clear leaves stale
	// items behind but must not fail the placement.
	if err := s.cart.Clear(ctx); err != nil {
		slog.Error("Order recorded but cart clear failed", slog.String("orderId", order.ID), slog.String("error", err.Error()))
	}

	delete(s.sessions, sessionID)
	metrics.OrdersPlaced.Inc()

	s.sendConfirmation(ctx, session, &order)

	return &models.OrderConfirmation{
		OrderNumber:       order.ID,
		Total:             order.Total,
		EstimatedDelivery: order.EstimatedDelivery,
	}, nil
}

// Cancel drops the session without committing anything. Cancelling an
// unknown or already-finished session is a no-op.
func (s *checkoutService) Cancel(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, sessionID)

	return nil
}

func (s *checkoutService) lookup(sessionID string) (*models.CheckoutSession, error) {
	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, errors.NotFoundError("Checkout session not found")
	}

	return session, nil
}

func requireStep(session *models.CheckoutSession, step models.CheckoutStep) error {
	if session.Step != step {
		return errors.ValidationError(fmt.Sprintf("Session is on the %s step", session.Step))
	}

	return nil
}

func (s *checkoutService) buildSummary(session *models.CheckoutSession) *models.CheckoutSummary {
	lines := make([]models.SummaryLine, 0, len(session.Items))

	var subtotal float64

	for _, item := range session.Items {
		price, err := currency.Parse(item.Price)
		if err != nil {
			slog.Warn("Skipping unparseable price in checkout", slog.String("item", item.Name))

			continue
		}

		amount := price * float64(item.Quantity)
		subtotal += amount

		lines = append(lines, models.SummaryLine{
			Name:     item.Name,
			Quantity: item.Quantity,
			Amount:   currency.Format(amount),
		})
	}

	tax := subtotal * s.cfg.TaxRate
	total := subtotal + s.cfg.ShippingFee + tax

	return &models.CheckoutSummary{
		Items:        lines,
		Subtotal:     currency.Format(subtotal),
		ShippingFee:  currency.Format(s.cfg.ShippingFee),
		Tax:          currency.Format(tax),
		Total:        currency.Format(total),
		Address:      session.Shipping,
		PaymentLabel: paymentLabel(session.Payment),
	}
}

func (s *checkoutService) sendConfirmation(ctx context.Context, session *models.CheckoutSession, order *models.Order) {
	if s.email == nil || session.User == nil || session.User.Email == "" {
		return
	}

	req := &models.EmailNotificationRequest{
		Recipient: session.User.Email,
		Subject:   fmt.Sprintf("Your StyleHub order %s", order.ID),
		Content: fmt.Sprintf("Thanks for your order!\n\nOrder number: %s\nTotal: %s\nEstimated delivery: %s\n",
			order.ID, order.Total, order.EstimatedDelivery.Format("Monday, 2 January 2006")),
	}

	if err := s.email.Send(ctx, req); err != nil {
		slog.Warn("Order confirmation email failed", slog.String("orderId", order.ID), slog.String("error", err.Error()))
	}
}

func paymentLabel(payment *models.PaymentInfo) string {
	if payment == nil {
		return ""
	}

	switch payment.Method {
	case models.PaymentMethodCredit:
		return "Credit Card ending in " + payment.CardLast4
	case models.PaymentMethodPayPal:
		return "PayPal"
	case models.PaymentMethodApple:
		return "Apple Pay"
	}

	return string(payment.Method)
}

// newOrderNumber keeps the original's human-readable "SH" prefix but derives
// the suffix from a UUID, so rapid successive orders cannot collide the way
// a time-based suffix could.
func newOrderNumber() string {
	return fmt.Sprintf("SH%08X", uuid.New().ID())
}

func stripNonDigits(s string) string {
	var b strings.Builder

	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}

	return b.String()
}
