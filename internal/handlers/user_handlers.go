package handlers

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/sagarvd04/imagify-golang/internal/models"

	"github.com/gin-gonic/gin"
)

// --- User Registration ---

// RegisterInput is separate from models.User because we only accept
// these three fields from the client — never an id or a balance.
type RegisterInput struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// Register is the handler for POST /api/user/register.
func (h *Handlers) Register(c *gin.Context) {
	// 1. --- Bind & Validate JSON ---
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Missing details"})
		return
	}

	// 2. --- Reject Duplicate Emails ---
	var existingID int64
	err := h.DB.QueryRow("SELECT id FROM users WHERE email = ?", input.Email).Scan(&existingID)
	if err == nil {
		c.JSON(http.StatusConflict, gin.H{"success": false, "message": "User already exists!"})
		return
	}
	if err != sql.ErrNoRows {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Database error"})
		return
	}

	// 3. --- Hash the Password ---
	var password models.Password
	if err := password.Set(input.Password); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to hash password"})
		return
	}

	// 4. --- Save the User ---
	now := time.Now()
	query := `
		INSERT INTO users
		(name, email, password_hash, credit_balance, created_at, updated_at)
		VALUES
		(?, ?, ?, ?, ?, ?)`

	result, err := h.DB.Exec(query,
		input.Name,
		input.Email,
		password.Hash,
		models.DefaultCreditBalance,
		now,
		now,
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to register user"})
		return
	}

	id, err := result.LastInsertId()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to get new user ID"})
		return
	}

	// 5. --- Issue the Token ---
	token, err := h.Tokens.Generate(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"token":   token,
		"user":    gin.H{"name": input.Name},
	})
}

// --- User Login ---

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login is the handler for POST /api/user/login.
func (h *Handlers) Login(c *gin.Context) {
	// 1. --- Bind & Validate JSON ---
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Email and password are required"})
		return
	}

	// 2. --- Find User By Email ---
	var user models.User
	query := "SELECT id, name, password_hash FROM users WHERE email = ?"
	err := h.DB.QueryRow(query, input.Email).Scan(&user.ID, &user.Name, &user.PasswordHash)
	if err != nil {
		if err == sql.ErrNoRows {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "User does not exist!"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Database error"})
		return
	}

	// 3. --- Guard Against Malformed Records ---
	// A row with no hash can't be compared against; treat it as a
	// server-side integrity problem, not a bad credential.
	if user.PasswordHash == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "No password found for this user"})
		return
	}

	// 4. --- Check Password ---
	password := models.Password{Hash: user.PasswordHash}
	match, err := password.Matches(input.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to check password"})
		return
	}
	if !match {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid credentials"})
		return
	}

	// 5. --- Issue the Token ---
	token, err := h.Tokens.Generate(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"token":   token,
		"user":    gin.H{"name": user.Name},
	})
}

// --- Credit Balance ---

// Credits is the handler for GET /api/user/credits.
// The acting user comes from the validated bearer token, never from
// the request body.
func (h *Handlers) Credits(c *gin.Context) {
	userID := c.MustGet("userID").(int64)

	var user models.User
	query := "SELECT name, credit_balance FROM users WHERE id = ?"
	err := h.DB.QueryRow(query, userID).Scan(&user.Name, &user.CreditBalance)
	if err != nil {
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"credits": user.CreditBalance,
		"user":    gin.H{"name": user.Name},
	})
}
