package errmsg

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/andymarkow/gamevault/internal/backoffice"
	"github.com/andymarkow/gamevault/internal/domain/catalog"
	"github.com/andymarkow/gamevault/internal/domain/chats"
	"github.com/andymarkow/gamevault/internal/domain/guard"
	"github.com/andymarkow/gamevault/internal/domain/ledger"
	"github.com/andymarkow/gamevault/internal/domain/orders"
	"github.com/andymarkow/gamevault/internal/domain/payments"
	"github.com/andymarkow/gamevault/internal/domain/tournaments"
	"github.com/andymarkow/gamevault/internal/domain/users"
	"github.com/andymarkow/gamevault/internal/domain/withdrawals"
	"github.com/andymarkow/gamevault/internal/portal"
	"github.com/andymarkow/gamevault/internal/storage"
	"github.com/andymarkow/gamevault/internal/wallet"
)

type HTTPError struct {
	Code    int
	Message error
}

func NewHTTPError(code int, message error) HTTPError {
	return HTTPError{Code: code, Message: message}
}

func (e *HTTPError) Error() string {
	return e.Message.Error()
}

var (
	ErrRequestPayloadEmpty = NewHTTPError(
		http.StatusBadRequest,
		errors.New("request payload is empty"),
	)

	ErrRequestPayloadInvalid = NewHTTPError(
		http.StatusBadRequest,
		errors.New("request payload is invalid"),
	)

	ErrRequestParamInvalid = NewHTTPError(
		http.StatusBadRequest,
		errors.New("request parameter is invalid"),
	)
)

var (
	ErrUserAlreadyExists = NewHTTPError(
		http.StatusConflict,
		errors.New("user already exists"),
	)

	ErrUserCredentialsInvalid = NewHTTPError(
		http.StatusUnauthorized,
		errors.New("user credentials invalid"),
	)

	ErrForbidden = NewHTTPError(
		http.StatusForbidden,
		errors.New("administrator role required"),
	)

	ErrUserBalanceNotEnough = NewHTTPError(
		http.StatusPaymentRequired,
		errors.New("user balance not enough funds"),
	)

	ErrAlreadyProcessed = NewHTTPError(
		http.StatusConflict,
		errors.New("already processed"),
	)
)

// conflicts are domain rule violations reported with their own message.
var conflicts = []error{
	guard.ErrInvalidTransition,
	catalog.ErrGameHasItems,
	catalog.ErrItemInactive,
	storage.ErrGameAlreadyExists,
	tournaments.ErrNotOpen,
	tournaments.ErrFull,
	tournaments.ErrAlreadyJoined,
	tournaments.ErrClaimSubmitted,
	tournaments.ErrDisputeNotPair,
	tournaments.ErrNoPrize,
	tournaments.ErrNotStarted,
	tournaments.ErrRoomWindowClosed,
	backoffice.ErrClaimNotDisputed,
}

var notFound = []error{
	storage.ErrUserNotFound,
	storage.ErrPaymentNotFound,
	storage.ErrWithdrawalNotFound,
	storage.ErrOrderNotFound,
	storage.ErrGameNotFound,
	storage.ErrItemNotFound,
	storage.ErrPaymentMethodNotFound,
	storage.ErrTournamentNotFound,
	storage.ErrParticipantNotFound,
	storage.ErrResultNotFound,
	storage.ErrChatNotFound,
	storage.ErrNotificationNotFound,
}

// invalid are input validation failures of the domain constructors.
var invalid = []error{
	wallet.ErrZeroAmount,
	backoffice.ErrAmountInvalid,
	backoffice.ErrUnknownAction,
	users.ErrUserLoginEmpty,
	users.ErrUserPasswdEmpty,
	users.ErrUserPasswdTooShort,
	payments.ErrCoinsAmountInvalid,
	payments.ErrPaymentAmountInvalid,
	payments.ErrPaymentMethodEmpty,
	withdrawals.ErrAmountTooSmall,
	withdrawals.ErrPaymentMethodEmpty,
	withdrawals.ErrAccountDetailsEmpty,
	orders.ErrQuantityInvalid,
	orders.ErrInGameIDEmpty,
	orders.ErrTotalOverflow,
	ledger.ErrAmountSign,
	catalog.ErrGameNameEmpty,
	catalog.ErrItemNameEmpty,
	catalog.ErrItemPrice,
	catalog.ErrGameIDInvalid,
	catalog.ErrMethodNameEmpty,
	catalog.ErrMethodTypeUnknown,
	tournaments.ErrTitleEmpty,
	tournaments.ErrEntryFeeNegative,
	tournaments.ErrPrizePoolNegative,
	tournaments.ErrMaxParticipants,
	tournaments.ErrRoomDetailsMissing,
	tournaments.ErrInGameNameEmpty,
	tournaments.ErrPositionInvalid,
	tournaments.ErrClaimInvalid,
	chats.ErrMessageEmpty,
	chats.ErrReplyEmpty,
}

// FromError maps a service error to the HTTP error returned to the client.
func FromError(err error) HTTPError {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return NewHTTPError(http.StatusUnprocessableEntity, verrs)
	}

	switch {
	case errors.Is(err, guard.ErrAlreadyProcessed):
		return ErrAlreadyProcessed
	case errors.Is(err, wallet.ErrInsufficientFunds):
		return ErrUserBalanceNotEnough
	case errors.Is(err, backoffice.ErrForbidden):
		return ErrForbidden
	case errors.Is(err, portal.ErrInvalidCredentials):
		return ErrUserCredentialsInvalid
	case errors.Is(err, storage.ErrUserAlreadyExists):
		return ErrUserAlreadyExists
	case errors.Is(err, tournaments.ErrNotParticipant):
		return NewHTTPError(http.StatusForbidden, tournaments.ErrNotParticipant)
	}

	if target := match(err, notFound); target != nil {
		return NewHTTPError(http.StatusNotFound, target)
	}

	if target := match(err, conflicts); target != nil {
		return NewHTTPError(http.StatusConflict, target)
	}

	if target := match(err, invalid); target != nil {
		return NewHTTPError(http.StatusUnprocessableEntity, target)
	}

	return NewHTTPError(http.StatusInternalServerError, errors.New("internal server error"))
}

func match(err error, targets []error) error {
	for _, target := range targets {
		if errors.Is(err, target) {
			return target
		}
	}

	return nil
}
