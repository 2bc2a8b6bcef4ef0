package serviceclient

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Kind tags the three possible results of a remote call.
type Kind int

const (
	// KindUnavailable means no response was received (refused, timeout, DNS).
	KindUnavailable Kind = iota
	// KindRejected means the service answered with a non-2xx status.
	KindRejected
	// KindSuccess means the service answered with a 2xx status.
	KindSuccess
)

func (k Kind) String() string {
	switch k {
	case KindSuccess:
		return "success"
	case KindRejected:
		return "rejected"
	default:
		return "unavailable"
	}
}

// Outcome is the classified result of a single remote call. Status and Body are
// set for Success and Rejected; Err is set for Unavailable.
type Outcome struct {
	Kind   Kind
	Status int
	Body   []byte
	Err    error
}

// Success builds a 2xx outcome.
func Success(status int, body []byte) Outcome {
	return Outcome{Kind: KindSuccess, Status: status, Body: body}
}

// Rejected builds a non-2xx outcome.
func Rejected(status int, body []byte) Outcome {
	return Outcome{Kind: KindRejected, Status: status, Body: body}
}

// Unavailable builds a transport-failure outcome.
func Unavailable(err error) Outcome {
	if err == nil {
		err = errors.New("service unavailable")
	}
	return Outcome{Kind: KindUnavailable, Err: err}
}

func (o Outcome) IsSuccess() bool     { return o.Kind == KindSuccess }
func (o Outcome) IsRejected() bool    { return o.Kind == KindRejected }
func (o Outcome) IsUnavailable() bool { return o.Kind == KindUnavailable }

// Decode unmarshals the response body of a Success or Rejected outcome.
func (o Outcome) Decode(v any) error {
	if o.Kind == KindUnavailable {
		return fmt.Errorf("decode unavailable outcome: %w", o.Err)
	}
	if len(o.Body) == 0 {
		return errors.New("decode outcome: empty body")
	}
	return json.Unmarshal(o.Body, v)
}
