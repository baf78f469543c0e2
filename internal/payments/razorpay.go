package payments

import (
	razorpay "github.com/razorpay/razorpay-go"
)

// Order is the gateway's order object as returned by the Razorpay API.
// The SDK hands back loosely-typed JSON maps; the accessor methods below
// pull out the few fields the handlers care about.
type Order map[string]interface{}

func (o Order) ID() string {
	id, _ := o["id"].(string)
	return id
}

// Status is one of "created", "attempted" or "paid".
func (o Order) Status() string {
	status, _ := o["status"].(string)
	return status
}

// Receipt is the reference we supplied at creation time. We always set
// it to the local transaction's receipt, which is how a verified order
// finds its way back to the row it should settle.
func (o Order) Receipt() string {
	receipt, _ := o["receipt"].(string)
	return receipt
}

// Gateway is the slice of the payment provider the handlers use.
// Handlers receive it by injection so tests can substitute a fake
// instead of calling out to Razorpay.
type Gateway interface {
	// CreateOrder opens a remote order for amountMinor (in minor
	// currency units, e.g. paise) tagged with our receipt reference.
	CreateOrder(amountMinor int64, currency, receipt string) (Order, error)

	// FetchOrder returns the current remote state of an order.
	FetchOrder(orderID string) (Order, error)
}

// Razorpay implements Gateway against the official SDK.
type Razorpay struct {
	client *razorpay.Client
}

func NewRazorpay(keyID, keySecret string) *Razorpay {
	return &Razorpay{client: razorpay.NewClient(keyID, keySecret)}
}

func (r *Razorpay) CreateOrder(amountMinor int64, currency, receipt string) (Order, error) {
	data := map[string]interface{}{
		"amount":   amountMinor,
		"currency": currency,
		"receipt":  receipt,
	}
	body, err := r.client.Order.Create(data, nil)
	if err != nil {
		return nil, err
	}
	return Order(body), nil
}

func (r *Razorpay) FetchOrder(orderID string) (Order, error) {
	body, err := r.client.Order.Fetch(orderID, nil, nil)
	if err != nil {
		return nil, err
	}
	return Order(body), nil
}
