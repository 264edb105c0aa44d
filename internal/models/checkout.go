package models

import "time"

type CheckoutStep int

const (
	StepIdentity CheckoutStep = iota + 1
	StepShipping
	StepPayment
	StepReview
)

func (s CheckoutStep) String() string {
	switch s {
	case StepIdentity:
		return "identity"
	case StepShipping:
		return "shipping"
	case StepPayment:
		return "payment"
	case StepReview:
		return "review"
	}

	return "unknown"
}

type PaymentMethod string

const (
	PaymentMethodCredit PaymentMethod = "credit"
	PaymentMethodPayPal PaymentMethod = "paypal"
	PaymentMethodApple  PaymentMethod = "apple"
)

// Identity is who is checking out: either a copy of the logged-in account or
// the guest contact fields.
type Identity struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
}

// PaymentInfo is what survives payment validation. The full card number and
// CVV are checked and dropped; only the last four digits and the holder name
// are retained.
type PaymentInfo struct {
	Method     PaymentMethod `json:"method"`
	CardLast4  string        `json:"card_last4,omitempty"`
	CardHolder string        `json:"card_holder,omitempty"`
}

// CheckoutSession is the transient state of one checkout wizard run. It lives
// in memory only; Items is a snapshot of the cart frozen when the session
// starts, so cart edits mid-checkout do not alter it.
type CheckoutSession struct {
	ID        string       `json:"id"`
	Step      CheckoutStep `json:"step"`
	User      *Identity    `json:"user,omitempty"`
	Shipping  *Address     `json:"shipping,omitempty"`
	Payment   *PaymentInfo `json:"payment,omitempty"`
	Items     []LineItem   `json:"items"`
	CreatedAt time.Time    `json:"created_at"`
}

// Clone returns an independent copy of the session. The checkout service
// hands copies to its callers, so the stored session is only ever touched
// under the service's lock.
func (s *CheckoutSession) Clone() *CheckoutSession {
	if s == nil {
		return nil
	}

	clone := *s
	clone.Items = append([]LineItem(nil), s.Items...)

	if s.User != nil {
		user := *s.User
		clone.User = &user
	}

	if s.Shipping != nil {
		shipping := *s.Shipping
		clone.Shipping = &shipping
	}

	if s.Payment != nil {
		payment := *s.Payment
		clone.Payment = &payment
	}

	return &clone
}

type GuestIdentityRequest struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone" validate:"required"`
}

// PaymentRequest carries the raw step-3 form. Card fields are validated and
// then discarded; see PaymentInfo.
type PaymentRequest struct {
	Method     PaymentMethod `json:"method" validate:"required,oneof=credit paypal apple"`
	CardNumber string        `json:"card_number,omitempty"`
	Expiry     string        `json:"expiry,omitempty"`
	CVV        string        `json:"cvv,omitempty"`
	CardHolder string        `json:"card_holder,omitempty"`
}

type SummaryLine struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Amount   string `json:"amount"`
}

// CheckoutSummary is computed when the session reaches the review step.
type CheckoutSummary struct {
	Items        []SummaryLine `json:"items"`
	Subtotal     string        `json:"subtotal"`
	ShippingFee  string        `json:"shipping_fee"`
	Tax          string        `json:"tax"`
	Total        string        `json:"total"`
	Address      *Address      `json:"address"`
	PaymentLabel string        `json:"payment_label"`
}

// OrderConfirmation is returned by a successful place-order call.
type OrderConfirmation struct {
	OrderNumber       string    `json:"order_number"`
	Total             string    `json:"total"`
	EstimatedDelivery time.Time `json:"estimated_delivery"`
}
