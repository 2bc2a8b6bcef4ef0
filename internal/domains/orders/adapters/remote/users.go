package remote

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/Apurer/go-gin-microservices/internal/domains/orders/ports"
	"github.com/Apurer/go-gin-microservices/internal/platform/serviceclient"
)

var _ ports.UserDirectory = (*UserDirectory)(nil)

// UserDirectory answers user questions by calling GET /users/{id}.
type UserDirectory struct {
	caller serviceclient.Caller
}

func NewUserDirectory(caller serviceclient.Caller) *UserDirectory {
	return &UserDirectory{caller: caller}
}

// CheckUser maps Success to UserFound, Rejected to UserMissing, and
// Unavailable to UserUnavailable.
func (d *UserDirectory) CheckUser(ctx context.Context, userID string) ports.UserCheck {
	outcome, ok := d.get(ctx, userID)
	if !ok {
		return ports.UserMissing
	}
	switch outcome.Kind {
	case serviceclient.KindSuccess:
		return ports.UserFound
	case serviceclient.KindRejected:
		return ports.UserMissing
	default:
		return ports.UserUnavailable
	}
}

// FetchUser returns the user document when the call succeeds with a JSON body.
func (d *UserDirectory) FetchUser(ctx context.Context, userID string) (json.RawMessage, bool) {
	outcome, ok := d.get(ctx, userID)
	if !ok || !outcome.IsSuccess() || !json.Valid(outcome.Body) {
		return nil, false
	}
	return json.RawMessage(outcome.Body), true
}

func (d *UserDirectory) get(ctx context.Context, userID string) (serviceclient.Outcome, bool) {
	path, err := resourcePath("/users", "id", userID)
	if err != nil {
		return serviceclient.Outcome{}, false
	}
	return d.caller.Call(ctx, serviceclient.Users, http.MethodGet, path, nil), true
}
