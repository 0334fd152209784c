package appointment

import "github.com/psyline/psyline-api/internal/httperr"

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCanceled  Status = "canceled"
)

func InitialStatus() Status {
	return StatusPending
}

// ParseStatus validates a wire value.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusConfirmed, StatusCanceled:
		return Status(s), nil
	}
	return "", httperr.ErrBusiness("invalid_status")
}

// CanTransition enforces the appointment lifecycle. Canceled is terminal;
// a confirmed appointment can only be canceled.
func CanTransition(from, to Status) error {
	switch from {
	case StatusPending:
		if to == StatusConfirmed || to == StatusCanceled {
			return nil
		}
	case StatusConfirmed:
		if to == StatusCanceled {
			return nil
		}
	}
	return httperr.ErrBusiness("invalid_transition")
}
