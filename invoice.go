package nodela

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/nodela/nodela-go/internal/api"
	"github.com/nodela/nodela-go/internal/apierrors"
	"github.com/nodela/nodela-go/internal/wire"
)

const invoicesPath = "v1/invoices"

// Expected-shape tags of invoice responses.
const (
	shapeInvoiceCreated      = "invoice.created"
	shapeInvoiceVerification = "invoice.verification"
)

// CustomerParams identifies the paying customer of a new invoice.
type CustomerParams struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// CreateInvoiceParams are the parameters of InvoiceService.Create.
type CreateInvoiceParams struct {
	// Amount is the price in Currency. It must be positive.
	Amount Decimal `json:"amount"`
	// Currency is a supported ISO 4217 code; see SupportedCurrencies. It is
	// upper-cased before sending.
	Currency    string          `json:"currency"`
	SuccessURL  string          `json:"success_url,omitempty"`
	CancelURL   string          `json:"cancel_url,omitempty"`
	WebhookURL  string          `json:"webhook_url,omitempty"`
	Reference   string          `json:"reference,omitempty"`
	Customer    *CustomerParams `json:"customer,omitempty"`
	Title       string          `json:"title,omitempty"`
	Description string          `json:"description,omitempty"`
}

// normalize validates p and returns the copy that is sent on the wire.
func (p CreateInvoiceParams) normalize() (CreateInvoiceParams, error) {
	if p.Amount.IsZero() {
		return p, apierrors.Validation(apierrors.OriginRequest, "amount is required")
	}
	if p.Amount.Sign() <= 0 {
		return p, apierrors.Validation(apierrors.OriginRequest, "amount must be positive, got %s", p.Amount)
	}

	currency := normalizeCurrency(p.Currency)
	if _, ok := currencySet[currency]; !ok {
		return p, apierrors.Validation(apierrors.OriginRequest,
			"unsupported currency %q, supported currencies: %s", p.Currency, strings.Join(supportedCurrencies, ", "))
	}
	p.Currency = currency

	if p.Customer != nil && strings.TrimSpace(p.Customer.Email) == "" {
		return p, apierrors.Validation(apierrors.OriginRequest, "customer email is required")
	}
	return p, nil
}

// Customer is the customer attached to an invoice or transaction.
type Customer struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`

	// Extra holds fields the server sent that this type does not declare.
	Extra map[string]json.RawMessage `json:"-"`
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *Customer) UnmarshalJSON(data []byte) error {
	type shape Customer
	var s shape
	extra, err := wire.Decode(data, &s)
	if err != nil {
		return err
	}
	*c = Customer(s)
	c.Extra = extra
	return nil
}

// MarshalJSON implements json.Marshaler.
func (c Customer) MarshalJSON() ([]byte, error) {
	type shape Customer
	return wire.Encode(shape(c), c.Extra)
}

// CreatedInvoice is the invoice returned by InvoiceService.Create.
type CreatedInvoice struct {
	ID               string    `json:"id"`
	InvoiceID        string    `json:"invoice_id"`
	OriginalAmount   Decimal   `json:"original_amount"`
	OriginalCurrency string    `json:"original_currency"`
	Amount           Decimal   `json:"amount"`
	Currency         string    `json:"currency"`
	ExchangeRate     *Decimal  `json:"exchange_rate,omitempty"`
	WebhookURL       string    `json:"webhook_url,omitempty"`
	Customer         *Customer `json:"customer,omitempty"`
	// CheckoutURL is the hosted page where the customer pays.
	CheckoutURL string `json:"checkout_url"`
	Status      string `json:"status,omitempty"`
	CreatedAt   string `json:"created_at"`

	// Extra holds fields the server sent that this type does not declare.
	Extra map[string]json.RawMessage `json:"-"`
}

// UnmarshalJSON implements json.Unmarshaler.
func (i *CreatedInvoice) UnmarshalJSON(data []byte) error {
	type shape CreatedInvoice
	var s shape
	extra, err := wire.Decode(data, &s)
	if err != nil {
		return err
	}
	*i = CreatedInvoice(s)
	i.Extra = extra
	return nil
}

// MarshalJSON implements json.Marshaler.
func (i CreatedInvoice) MarshalJSON() ([]byte, error) {
	type shape CreatedInvoice
	return wire.Encode(shape(i), i.Extra)
}

// Payment is the on-chain payment settling an invoice.
type Payment struct {
	ID              string   `json:"id"`
	Network         string   `json:"network"`
	Token           string   `json:"token"`
	Address         string   `json:"address"`
	Amount          Decimal  `json:"amount"`
	Status          string   `json:"status"`
	TxHash          []string `json:"tx_hash"`
	TransactionType string   `json:"transaction_type"`
	PayerEmail      string   `json:"payer_email"`
	CreatedAt       string   `json:"created_at"`

	// Extra holds fields the server sent that this type does not declare.
	Extra map[string]json.RawMessage `json:"-"`
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *Payment) UnmarshalJSON(data []byte) error {
	type shape Payment
	var s shape
	extra, err := wire.Decode(data, &s)
	if err != nil {
		return err
	}
	*p = Payment(s)
	p.Extra = extra
	return nil
}

// MarshalJSON implements json.Marshaler.
func (p Payment) MarshalJSON() ([]byte, error) {
	type shape Payment
	return wire.Encode(shape(p), p.Extra)
}

// InvoiceVerification is the payment state returned by InvoiceService.Verify.
type InvoiceVerification struct {
	ID               string    `json:"id"`
	InvoiceID        string    `json:"invoice_id"`
	Reference        string    `json:"reference,omitempty"`
	OriginalAmount   Decimal   `json:"original_amount"`
	OriginalCurrency string    `json:"original_currency"`
	Amount           Decimal   `json:"amount"`
	Currency         string    `json:"currency"`
	ExchangeRate     *Decimal  `json:"exchange_rate,omitempty"`
	Title            string    `json:"title,omitempty"`
	Description      string    `json:"description,omitempty"`
	Status           string    `json:"status"`
	Paid             bool      `json:"paid"`
	Customer         *Customer `json:"customer,omitempty"`
	CreatedAt        string    `json:"created_at"`
	// Payment is nil until a payment has been detected.
	Payment *Payment `json:"payment,omitempty"`

	// Extra holds fields the server sent that this type does not declare.
	Extra map[string]json.RawMessage `json:"-"`
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *InvoiceVerification) UnmarshalJSON(data []byte) error {
	type shape InvoiceVerification
	var s shape
	extra, err := wire.Decode(data, &s)
	if err != nil {
		return err
	}
	*v = InvoiceVerification(s)
	v.Extra = extra
	return nil
}

// MarshalJSON implements json.Marshaler.
func (v InvoiceVerification) MarshalJSON() ([]byte, error) {
	type shape InvoiceVerification
	return wire.Encode(shape(v), v.Extra)
}

// InvoiceService creates and verifies invoices.
type InvoiceService struct {
	client *api.Client
}

// Create creates an invoice and returns it with its checkout URL. Invalid
// parameters are rejected with a validation error before any request is sent.
func (s *InvoiceService) Create(ctx context.Context, params CreateInvoiceParams) (*CreatedInvoice, error) {
	body, err := params.normalize()
	if err != nil {
		return nil, err
	}

	var invoice CreatedInvoice
	if err := s.client.Do(ctx, api.Request{
		Method: http.MethodPost,
		Path:   invoicesPath,
		Body:   body,
		Shape:  shapeInvoiceCreated,
		Result: &invoice,
	}); err != nil {
		return nil, err
	}
	return &invoice, nil
}

// Verify returns the payment state of the invoice with the given ID.
func (s *InvoiceService) Verify(ctx context.Context, invoiceID string) (*InvoiceVerification, error) {
	invoiceID = strings.TrimSpace(invoiceID)
	if invoiceID == "" {
		return nil, apierrors.Validation(apierrors.OriginRequest, "invoice ID is required")
	}

	var verification InvoiceVerification
	if err := s.client.Do(ctx, api.Request{
		Method: http.MethodGet,
		Path:   invoicesPath + "/" + url.PathEscape(invoiceID) + "/verify",
		Shape:  shapeInvoiceVerification,
		Result: &verification,
	}); err != nil {
		return nil, err
	}
	return &verification, nil
}
