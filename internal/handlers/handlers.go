package handlers

import (
	"database/sql"

	"github.com/sagarvd04/imagify-golang/internal/auth"
	"github.com/sagarvd04/imagify-golang/internal/payments"
)

// Handlers holds every dependency the HTTP handlers need.
// main() builds this once and injects it into the router, so there is
// no package-level state and tests can swap in fakes.
type Handlers struct {
	DB       *sql.DB
	Gateway  payments.Gateway
	Tokens   auth.Tokens
	Currency string
}
