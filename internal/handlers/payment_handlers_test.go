package handlers_test

import (
	"database/sql"
	"errors"
	"net/http"
	"regexp"
	"testing"

	"github.com/sagarvd04/imagify-golang/internal/payments"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

// fakeGateway stands in for Razorpay and records what the handler
// asked it to do.
type fakeGateway struct {
	createdAmount   int64
	createdCurrency string
	createdReceipt  string
	createErr       error

	fetchedOrderID string
	order          payments.Order
	fetchErr       error
}

func (f *fakeGateway) CreateOrder(amountMinor int64, currency, receipt string) (payments.Order, error) {
	f.createdAmount = amountMinor
	f.createdCurrency = currency
	f.createdReceipt = receipt
	if f.createErr != nil {
		return nil, f.createErr
	}
	return payments.Order{
		"id":       "order_test123",
		"status":   "created",
		"amount":   float64(amountMinor),
		"currency": currency,
		"receipt":  receipt,
	}, nil
}

func (f *fakeGateway) FetchOrder(orderID string) (payments.Order, error) {
	f.fetchedOrderID = orderID
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.order, nil
}

var (
	payUserQuery   = regexp.QuoteMeta("SELECT name FROM users WHERE id = ?")
	verifyTxnQuery = regexp.QuoteMeta("SELECT id, user_id, credits, paid FROM transactions WHERE receipt = ? FOR UPDATE")
	creditUserExec = regexp.QuoteMeta("UPDATE users SET credit_balance = credit_balance + ?, updated_at = ? WHERE id = ?")
	markPaidExec   = regexp.QuoteMeta("UPDATE transactions SET paid = true WHERE id = ?")
	verifyTxnCols  = []string{"id", "user_id", "credits", "paid"}
)

func TestGetPlans(t *testing.T) {
	router, _ := newTestApp(t, nil)

	status, payload := doJSON(t, router, http.MethodGet, "/api/user/plans", "", "")

	require.Equal(t, http.StatusOK, status)
	require.Equal(t, true, payload["success"])
	plans := payload["plans"].([]interface{})
	require.Len(t, plans, 3)
	first := plans[0].(map[string]interface{})
	require.Equal(t, "Basic", first["id"])
	require.Equal(t, float64(100), first["credits"])
}

func TestPayRazorpay(t *testing.T) {
	t.Run("records transaction and opens order", func(t *testing.T) {
		gateway := &fakeGateway{}
		router, mock := newTestApp(t, gateway)

		mock.ExpectQuery(payUserQuery).
			WithArgs(int64(3)).
			WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("Asha"))
		mock.ExpectExec("INSERT INTO transactions").
			WithArgs(int64(3), "Basic", int64(10), 100, sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(1, 1))

		status, payload := doJSON(t, router, http.MethodPost, "/api/user/pay-razor",
			bearerFor(t, 3), `{"planId":"Basic"}`)

		require.Equal(t, http.StatusOK, status)
		require.Equal(t, true, payload["success"])
		order := payload["order"].(map[string]interface{})
		require.Equal(t, "order_test123", order["id"])

		// Basic is 10 currency units -> 1000 minor units.
		require.Equal(t, int64(1000), gateway.createdAmount)
		require.Equal(t, "INR", gateway.createdCurrency)
		require.NotEmpty(t, gateway.createdReceipt)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown plan creates nothing", func(t *testing.T) {
		router, mock := newTestApp(t, &fakeGateway{})

		mock.ExpectQuery(payUserQuery).
			WithArgs(int64(3)).
			WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("Asha"))

		status, payload := doJSON(t, router, http.MethodPost, "/api/user/pay-razor",
			bearerFor(t, 3), `{"planId":"Gold"}`)

		require.Equal(t, http.StatusBadRequest, status)
		require.Equal(t, "Plan not found", payload["message"])
		// No INSERT was expected; any attempt would fail here.
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("404 when the token's user is gone", func(t *testing.T) {
		router, mock := newTestApp(t, &fakeGateway{})

		mock.ExpectQuery(payUserQuery).
			WithArgs(int64(3)).
			WillReturnError(sql.ErrNoRows)

		status, payload := doJSON(t, router, http.MethodPost, "/api/user/pay-razor",
			bearerFor(t, 3), `{"planId":"Basic"}`)

		require.Equal(t, http.StatusNotFound, status)
		require.Equal(t, "User not found", payload["message"])
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("gateway failure keeps the pending row", func(t *testing.T) {
		gateway := &fakeGateway{createErr: errors.New("razorpay is down")}
		router, mock := newTestApp(t, gateway)

		mock.ExpectQuery(payUserQuery).
			WithArgs(int64(3)).
			WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("Asha"))
		// The transaction is written BEFORE the gateway call and is
		// not rolled back when the call fails.
		mock.ExpectExec("INSERT INTO transactions").
			WithArgs(int64(3), "Basic", int64(10), 100, sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(1, 1))

		status, payload := doJSON(t, router, http.MethodPost, "/api/user/pay-razor",
			bearerFor(t, 3), `{"planId":"Basic"}`)

		require.Equal(t, http.StatusInternalServerError, status)
		require.Equal(t, "Payment initiation failed", payload["message"])
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("401 without a token", func(t *testing.T) {
		router, mock := newTestApp(t, &fakeGateway{})

		status, payload := doJSON(t, router, http.MethodPost, "/api/user/pay-razor", "", `{"planId":"Basic"}`)

		require.Equal(t, http.StatusUnauthorized, status)
		require.Equal(t, false, payload["success"])
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestVerifyRazorpay(t *testing.T) {
	paidOrder := payments.Order{
		"id":      "order_test123",
		"status":  "paid",
		"receipt": "rcpt-abc",
	}

	t.Run("credits the user exactly once and marks paid", func(t *testing.T) {
		gateway := &fakeGateway{order: paidOrder}
		router, mock := newTestApp(t, gateway)

		mock.ExpectBegin()
		mock.ExpectQuery(verifyTxnQuery).
			WithArgs("rcpt-abc").
			WillReturnRows(sqlmock.NewRows(verifyTxnCols).AddRow(7, 3, 100, false))
		mock.ExpectExec(creditUserExec).
			WithArgs(100, sqlmock.AnyArg(), int64(3)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(markPaidExec).
			WithArgs(int64(7)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		status, payload := doJSON(t, router, http.MethodPost, "/api/user/verify-razor",
			"", `{"razorpay_order_id":"order_test123"}`)

		require.Equal(t, http.StatusOK, status)
		require.Equal(t, true, payload["success"])
		require.Equal(t, "Credits Added", payload["message"])
		require.Equal(t, "order_test123", gateway.fetchedOrderID)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("second verification of a settled transaction does not credit again", func(t *testing.T) {
		gateway := &fakeGateway{order: paidOrder}
		router, mock := newTestApp(t, gateway)

		mock.ExpectBegin()
		mock.ExpectQuery(verifyTxnQuery).
			WithArgs("rcpt-abc").
			WillReturnRows(sqlmock.NewRows(verifyTxnCols).AddRow(7, 3, 100, true))
		mock.ExpectRollback()

		status, payload := doJSON(t, router, http.MethodPost, "/api/user/verify-razor",
			"", `{"razorpay_order_id":"order_test123"}`)

		require.Equal(t, http.StatusBadRequest, status)
		require.Equal(t, "Payment already processed or failed", payload["message"])
		// No UPDATE expectations were registered; the balance is untouched.
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown receipt fails verification", func(t *testing.T) {
		gateway := &fakeGateway{order: paidOrder}
		router, mock := newTestApp(t, gateway)

		mock.ExpectBegin()
		mock.ExpectQuery(verifyTxnQuery).
			WithArgs("rcpt-abc").
			WillReturnError(sql.ErrNoRows)
		mock.ExpectRollback()

		status, payload := doJSON(t, router, http.MethodPost, "/api/user/verify-razor",
			"", `{"razorpay_order_id":"order_test123"}`)

		require.Equal(t, http.StatusBadRequest, status)
		require.Equal(t, "Payment already processed or failed", payload["message"])
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("order not paid yet", func(t *testing.T) {
		gateway := &fakeGateway{order: payments.Order{
			"id":      "order_test123",
			"status":  "created",
			"receipt": "rcpt-abc",
		}}
		router, mock := newTestApp(t, gateway)

		status, payload := doJSON(t, router, http.MethodPost, "/api/user/verify-razor",
			"", `{"razorpay_order_id":"order_test123"}`)

		require.Equal(t, http.StatusBadRequest, status)
		require.Equal(t, "Payment verification failed", payload["message"])
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("gateway fetch failure", func(t *testing.T) {
		gateway := &fakeGateway{fetchErr: errors.New("timeout")}
		router, mock := newTestApp(t, gateway)

		status, payload := doJSON(t, router, http.MethodPost, "/api/user/verify-razor",
			"", `{"razorpay_order_id":"order_test123"}`)

		require.Equal(t, http.StatusInternalServerError, status)
		require.Equal(t, "Payment verification failed", payload["message"])
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing order id", func(t *testing.T) {
		router, mock := newTestApp(t, &fakeGateway{})

		status, payload := doJSON(t, router, http.MethodPost, "/api/user/verify-razor", "", `{}`)

		require.Equal(t, http.StatusBadRequest, status)
		require.Equal(t, "Missing details", payload["message"])
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("settled user row missing", func(t *testing.T) {
		gateway := &fakeGateway{order: paidOrder}
		router, mock := newTestApp(t, gateway)

		mock.ExpectBegin()
		mock.ExpectQuery(verifyTxnQuery).
			WithArgs("rcpt-abc").
			WillReturnRows(sqlmock.NewRows(verifyTxnCols).AddRow(7, 3, 100, false))
		mock.ExpectExec(creditUserExec).
			WithArgs(100, sqlmock.AnyArg(), int64(3)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		status, payload := doJSON(t, router, http.MethodPost, "/api/user/verify-razor",
			"", `{"razorpay_order_id":"order_test123"}`)

		require.Equal(t, http.StatusNotFound, status)
		require.Equal(t, "User not found", payload["message"])
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
