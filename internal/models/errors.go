package models

import "errors"

// ErrorKind is the stable, machine-checkable code attached to every failed draw operation
type ErrorKind string

const (
	KindEventNotFound       ErrorKind = "EventNotFound"
	KindPrizeNotFound       ErrorKind = "PrizeNotFound"
	KindWinnerNotFound      ErrorKind = "WinnerNotFound"
	KindAttendeeNotFound    ErrorKind = "AttendeeNotFound"
	KindOutOfStock          ErrorKind = "OutOfStock"
	KindNoEligibleAttendees ErrorKind = "NoEligibleAttendees"
	KindAlreadyWon          ErrorKind = "AlreadyWon"
	KindInvalidArgument     ErrorKind = "InvalidArgument"
	KindPersistenceFailure  ErrorKind = "PersistenceFailure"
	KindUnauthorized        ErrorKind = "Unauthorized"
	KindInternal            ErrorKind = "Internal"
)

var (
	ErrEventNotFound       = errors.New("event not found")
	ErrPrizeNotFound       = errors.New("prize not found")
	ErrWinnerNotFound      = errors.New("winner not found")
	ErrAttendeeNotFound    = errors.New("attendee not found")
	ErrOutOfStock          = errors.New("prize out of stock")
	ErrNoEligibleAttendees = errors.New("no eligible attendees")
	ErrAlreadyWon          = errors.New("attendee already won")
	ErrInvalidArgument     = errors.New("invalid argument")
	ErrPersistence         = errors.New("persistence failure")

	// ErrStaleDraw is returned by SaveDraw when the event's draw state was
	// committed by another writer since it was loaded.
	ErrStaleDraw = errors.New("event draw state changed since it was loaded")

	ErrOperatorNotFound   = errors.New("operator not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

var kinds = []struct {
	err  error
	kind ErrorKind
}{
	{ErrEventNotFound, KindEventNotFound},
	{ErrPrizeNotFound, KindPrizeNotFound},
	{ErrWinnerNotFound, KindWinnerNotFound},
	{ErrAttendeeNotFound, KindAttendeeNotFound},
	{ErrOutOfStock, KindOutOfStock},
	{ErrNoEligibleAttendees, KindNoEligibleAttendees},
	{ErrAlreadyWon, KindAlreadyWon},
	{ErrInvalidArgument, KindInvalidArgument},
	{ErrPersistence, KindPersistenceFailure},
	{ErrOperatorNotFound, KindUnauthorized},
	{ErrInvalidCredentials, KindUnauthorized},
}

// KindOf maps an error onto its stable kind. Unknown errors are Internal.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return KindInternal
}

// IsRetryable reports whether the caller may safely retry the operation.
// Only persistence failures qualify: nothing was committed.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrPersistence)
}
