package identityhub

import (
	"context"
	"fmt"
	"net"

	"github.com/pkg/errors"
)

var (
	ErrConnectionFailure = errors.New("identity hub connection failure")
	ErrUnauthorized      = errors.New("identity hub unauthorized")
	ErrServerError       = errors.New("identity hub server error")
	ErrTimeout           = errors.New("identity hub timeout")
)

// StatusError is returned for non-2xx responses other than 401/403
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: status %d", ErrServerError, e.Status)
	}

	return fmt.Sprintf("%s: status %d: %s", ErrServerError, e.Status, e.Body)
}

func (e *StatusError) Is(target error) bool {
	return target == ErrServerError
}

// classify maps transport errors onto the client's error classes. A
// cancelled or expired context is reported as a timeout.
func classify(ctx context.Context, err error) error {
	if ctx.Err() != nil || errors.Is(err, context.DeadlineExceeded) {
		return errors.Wrap(ErrTimeout, err.Error())
	}

	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return errors.Wrap(ErrTimeout, err.Error())
	}

	return errors.Wrap(ErrConnectionFailure, err.Error())
}
