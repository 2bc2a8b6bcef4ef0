package application

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/Apurer/go-gin-microservices/internal/domains/orders/domain"
)

// FailureKind classifies a terminal orchestration failure.
type FailureKind string

const (
	KindValidation            FailureKind = "validation"
	KindBusinessRule          FailureKind = "business_rule"
	KindDependencyUnavailable FailureKind = "dependency_unavailable"
)

// Reasons reported to clients.
const (
	ReasonMissingFields        = "user_id and items are required"
	ReasonUsersUnavailable     = "Users service unavailable"
	ReasonUserNotFound         = "User not found"
	ReasonInventoryUnavailable = "Inventory service unavailable"
)

var (
	// ErrInvalidInput signals the request violated a domain invariant.
	ErrInvalidInput = errors.New("invalid order input")
)

// Failure is a typed terminal outcome of order creation.
type Failure struct {
	Kind   FailureKind
	Reason string
}

func (f *Failure) Error() string {
	return f.Reason
}

// HTTPStatus maps the failure kind to its response status.
func (f *Failure) HTTPStatus() int {
	switch f.Kind {
	case KindValidation, KindBusinessRule:
		return http.StatusBadRequest
	case KindDependencyUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// AsFailure unwraps err to a *Failure.
func AsFailure(err error) (*Failure, bool) {
	var failure *Failure
	if errors.As(err, &failure) {
		return failure, true
	}
	return nil, false
}

func validationFailure(reason string) *Failure {
	return &Failure{Kind: KindValidation, Reason: reason}
}

func businessRuleFailure(reason string) *Failure {
	return &Failure{Kind: KindBusinessRule, Reason: reason}
}

func unavailableFailure(reason string) *Failure {
	return &Failure{Kind: KindDependencyUnavailable, Reason: reason}
}

func insufficientStockFailure(itemID string) *Failure {
	return businessRuleFailure(fmt.Sprintf("Insufficient stock for %s", itemID))
}

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrMissingStatus) || errors.Is(err, domain.ErrInvalidStatus) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
