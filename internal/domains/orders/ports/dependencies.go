package ports

import (
	"context"
	"encoding/json"
)

// UserCheck is the result of asking the users service whether a user exists.
type UserCheck int

const (
	// UserUnavailable means the users service could not be reached.
	UserUnavailable UserCheck = iota
	// UserMissing means the users service answered with a non-2xx status.
	UserMissing
	// UserFound means the users service returned the user.
	UserFound
)

func (c UserCheck) String() string {
	switch c {
	case UserFound:
		return "found"
	case UserMissing:
		return "missing"
	default:
		return "unavailable"
	}
}

// StockCheck is the tri-state result of comparing requested and available stock.
// StockUnknown is distinct from StockInsufficient: the first maps to 503, the
// second to 400.
type StockCheck int

const (
	StockUnknown StockCheck = iota
	StockInsufficient
	StockSufficient
)

func (c StockCheck) String() string {
	switch c {
	case StockSufficient:
		return "sufficient"
	case StockInsufficient:
		return "insufficient"
	default:
		return "unknown"
	}
}

// UserDirectory is the orders view of the users service.
type UserDirectory interface {
	CheckUser(ctx context.Context, userID string) UserCheck
	// FetchUser returns the raw user document, or false on any failure.
	FetchUser(ctx context.Context, userID string) (json.RawMessage, bool)
}

// StockLedger is the orders view of the inventory service.
type StockLedger interface {
	CheckStock(ctx context.Context, itemID string, quantity int) StockCheck
	// Reserve decrements stock; a non-nil error means the reservation was not applied.
	Reserve(ctx context.Context, itemID string, quantity int) error
}
