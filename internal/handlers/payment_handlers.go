package handlers

import (
	"database/sql"
	"log"
	"net/http"
	"time"

	"github.com/sagarvd04/imagify-golang/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// --- Plan Listing ---

// GetPlans is the handler for GET /api/user/plans.
func (h *Handlers) GetPlans(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true, "plans": models.Plans})
}

// --- Payment Initiation ---

type PayInput struct {
	PlanID string `json:"planId" binding:"required"`
}

// PayRazorpay is the handler for POST /api/user/pay-razor.
// It records a pending transaction first and only then opens the
// remote order, so a gateway failure leaves nothing but an unpaid row.
func (h *Handlers) PayRazorpay(c *gin.Context) {
	userID := c.MustGet("userID").(int64)

	// 1. --- Bind & Validate JSON ---
	var input PayInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Missing details"})
		return
	}

	// 2. --- Confirm the User Exists ---
	var name string
	err := h.DB.QueryRow("SELECT name FROM users WHERE id = ?", userID).Scan(&name)
	if err != nil {
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Database error"})
		return
	}

	// 3. --- Resolve the Plan ---
	plan, ok := models.PlanByID(input.PlanID)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Plan not found"})
		return
	}

	// 4. --- Persist the Pending Transaction ---
	// The receipt is what ties the Razorpay order back to this row
	// when the payment is verified later.
	receipt := uuid.NewString()
	query := `
		INSERT INTO transactions
		(user_id, plan, amount, credits, receipt, paid, created_at)
		VALUES
		(?, ?, ?, ?, ?, false, ?)`

	if _, err := h.DB.Exec(query, userID, plan.ID, plan.Amount, plan.Credits, receipt, time.Now()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to record transaction"})
		return
	}

	// 5. --- Open the Remote Order ---
	// Razorpay wants the amount in minor units (paise for INR).
	order, err := h.Gateway.CreateOrder(plan.Amount*100, h.Currency, receipt)
	if err != nil {
		// The pending row stays behind unpaid; no compensating delete.
		log.Printf("Razorpay order create failed for receipt %s: %v", receipt, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Payment initiation failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "order": order})
}

// --- Payment Verification ---

type VerifyInput struct {
	RazorpayOrderID string `json:"razorpay_order_id" binding:"required"`
}

// VerifyRazorpay is the handler for POST /api/user/verify-razor.
// Credits are granted exactly once per transaction: the paid flag is
// re-checked under a row lock, and the balance credit and the flag
// flip commit together or not at all.
func (h *Handlers) VerifyRazorpay(c *gin.Context) {
	// 1. --- Bind & Validate JSON ---
	var input VerifyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Missing details"})
		return
	}

	// 2. --- Fetch the Remote Order ---
	order, err := h.Gateway.FetchOrder(input.RazorpayOrderID)
	if err != nil {
		log.Printf("Razorpay order fetch failed for %s: %v", input.RazorpayOrderID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Payment verification failed"})
		return
	}
	if order.Status() != "paid" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Payment verification failed"})
		return
	}

	// 3. --- Settle Inside One Transaction ---
	tx, err := h.DB.Begin()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Database error"})
		return
	}
	defer tx.Rollback()

	// Lock the row so two concurrent verifications of the same order
	// serialize here and the second one sees paid=true.
	var txn models.Transaction
	err = tx.QueryRow(
		"SELECT id, user_id, credits, paid FROM transactions WHERE receipt = ? FOR UPDATE",
		order.Receipt(),
	).Scan(&txn.ID, &txn.UserID, &txn.Credits, &txn.Paid)
	if err != nil {
		if err == sql.ErrNoRows {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Payment already processed or failed"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Database error"})
		return
	}
	if txn.Paid {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Payment already processed or failed"})
		return
	}

	// 4. --- Credit the User ---
	result, err := tx.Exec(
		"UPDATE users SET credit_balance = credit_balance + ?, updated_at = ? WHERE id = ?",
		txn.Credits, time.Now(), txn.UserID,
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Database error"})
		return
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "User not found"})
		return
	}

	// 5. --- Flip the Paid Flag & Commit ---
	if _, err := tx.Exec("UPDATE transactions SET paid = true WHERE id = ?", txn.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Database error"})
		return
	}
	if err := tx.Commit(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Credits Added"})
}
