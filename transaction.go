package nodela

import (
	"context"
	"encoding/json"
	"iter"
	"net/http"
	"net/url"
	"strconv"

	"github.com/nodela/nodela-go/internal/api"
	"github.com/nodela/nodela-go/internal/apierrors"
	"github.com/nodela/nodela-go/internal/wire"
)

const (
	transactionsPath     = "v1/transactions"
	shapeTransactionList = "transaction.list"
)

// Transaction is a settled or pending invoice payment.
type Transaction struct {
	ID               string   `json:"id"`
	InvoiceID        string   `json:"invoice_id"`
	Reference        string   `json:"reference"`
	OriginalAmount   Decimal  `json:"original_amount"`
	OriginalCurrency string   `json:"original_currency"`
	Amount           Decimal  `json:"amount"`
	Currency         string   `json:"currency"`
	ExchangeRate     Decimal  `json:"exchange_rate"`
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	Status           string   `json:"status"`
	Paid             bool     `json:"paid"`
	Customer         Customer `json:"customer"`
	CreatedAt        string   `json:"created_at"`
	Payment          Payment  `json:"payment"`

	// Extra holds fields the server sent that this type does not declare.
	Extra map[string]json.RawMessage `json:"-"`
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Transaction) UnmarshalJSON(data []byte) error {
	type shape Transaction
	var s shape
	extra, err := wire.Decode(data, &s)
	if err != nil {
		return err
	}
	*t = Transaction(s)
	t.Extra = extra
	return nil
}

// MarshalJSON implements json.Marshaler.
func (t Transaction) MarshalJSON() ([]byte, error) {
	type shape Transaction
	return wire.Encode(shape(t), t.Extra)
}

// Pagination describes the position of a page in a listing.
type Pagination struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	Total      int  `json:"total"`
	TotalPages int  `json:"total_pages"`
	HasMore    bool `json:"has_more"`

	// Extra holds fields the server sent that this type does not declare.
	Extra map[string]json.RawMessage `json:"-"`
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *Pagination) UnmarshalJSON(data []byte) error {
	type shape Pagination
	var s shape
	extra, err := wire.Decode(data, &s)
	if err != nil {
		return err
	}
	*p = Pagination(s)
	p.Extra = extra
	return nil
}

// MarshalJSON implements json.Marshaler.
func (p Pagination) MarshalJSON() ([]byte, error) {
	type shape Pagination
	return wire.Encode(shape(p), p.Extra)
}

// TransactionList is one page of transactions.
type TransactionList struct {
	Transactions []Transaction `json:"transactions"`
	Pagination   Pagination    `json:"pagination"`

	// Extra holds fields the server sent that this type does not declare.
	Extra map[string]json.RawMessage `json:"-"`
}

// UnmarshalJSON implements json.Unmarshaler.
func (l *TransactionList) UnmarshalJSON(data []byte) error {
	type shape TransactionList
	var s shape
	extra, err := wire.Decode(data, &s)
	if err != nil {
		return err
	}
	*l = TransactionList(s)
	l.Extra = extra
	return nil
}

// MarshalJSON implements json.Marshaler.
func (l TransactionList) MarshalJSON() ([]byte, error) {
	type shape TransactionList
	return wire.Encode(shape(l), l.Extra)
}

// ListTransactionsParams selects a page of transactions. Zero values leave
// the choice to the server.
type ListTransactionsParams struct {
	Page  int
	Limit int
}

func (p *ListTransactionsParams) query() (url.Values, error) {
	if p == nil {
		return nil, nil
	}
	if p.Page < 0 {
		return nil, apierrors.Validation(apierrors.OriginRequest, "page must not be negative, got %d", p.Page)
	}
	if p.Limit < 0 {
		return nil, apierrors.Validation(apierrors.OriginRequest, "limit must not be negative, got %d", p.Limit)
	}

	q := url.Values{}
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}
	return q, nil
}

// TransactionService lists transactions.
type TransactionService struct {
	client *api.Client
}

// List returns one page of transactions. A nil params requests the first
// page with the server's default limit.
func (s *TransactionService) List(ctx context.Context, params *ListTransactionsParams) (*TransactionList, error) {
	q, err := params.query()
	if err != nil {
		return nil, err
	}

	var list TransactionList
	if err := s.client.Do(ctx, api.Request{
		Method: http.MethodGet,
		Path:   transactionsPath,
		Query:  q,
		Shape:  shapeTransactionList,
		Result: &list,
	}); err != nil {
		return nil, err
	}
	return &list, nil
}

// All iterates over every transaction, fetching pages of the given size on
// demand. A limit of zero uses the server default. Iteration stops after the
// first error, which is yielded with a zero Transaction.
func (s *TransactionService) All(ctx context.Context, limit int) iter.Seq2[Transaction, error] {
	return func(yield func(Transaction, error) bool) {
		for page := 1; ; page++ {
			list, err := s.List(ctx, &ListTransactionsParams{Page: page, Limit: limit})
			if err != nil {
				yield(Transaction{}, err)
				return
			}
			for _, tx := range list.Transactions {
				if !yield(tx, nil) {
					return
				}
			}
			if !list.Pagination.HasMore || len(list.Transactions) == 0 {
				return
			}
		}
	}
}
