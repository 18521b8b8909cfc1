package failure

import (
	"errors"
	"net/http"
)

// Failure is an error that knows the HTTP status it maps to. Business rejections of a stay also carry
// a machine readable Reason.
type Failure struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Reason  string `json:"reason,omitempty"`
}

const ReasonCapacityExceeded = "capacity_exceeded"

var ForbiddenError = &Failure{Code: http.StatusForbidden, Message: "You don't have the required permissions"}

func (e *Failure) Error() string {
	return e.Message
}

func newFailure(code int, msg string) error {
	return &Failure{
		Code:    code,
		Message: msg,
	}
}

// BadRequest turns a decoding or validation error into a 400. A nil error stays nil.
func BadRequest(err error) error {
	if err == nil {
		return nil
	}

	return newFailure(http.StatusBadRequest, err.Error())
}

func BadRequestFromString(msg string) error {
	return newFailure(http.StatusBadRequest, msg)
}

func Unauthorized(msg string) error {
	return newFailure(http.StatusUnauthorized, msg)
}

func NotFound(msg string) error {
	return newFailure(http.StatusNotFound, msg)
}

// Conflict is a request that clashes with stored state, such as a duplicate code or an illegal
// status transition.
func Conflict(msg string) error {
	return newFailure(http.StatusConflict, msg)
}

// Ineligible rejects a stay that breaks a package or window rule.
func Ineligible(reason, msg string) error {
	return &Failure{
		Code:    http.StatusConflict,
		Message: msg,
		Reason:  reason,
	}
}

// CapacityExceeded rejects a stay whose window has no bookings left.
func CapacityExceeded(msg string) error {
	return Ineligible(ReasonCapacityExceeded, msg)
}

// GetCode returns the HTTP status of err, 500 when err is not a Failure.
func GetCode(err error) int {
	var fail *Failure
	if errors.As(err, &fail) {
		return fail.Code
	}

	return http.StatusInternalServerError
}

// GetReason returns the rejection reason of err, empty when none is set.
func GetReason(err error) string {
	var fail *Failure
	if errors.As(err, &fail) {
		return fail.Reason
	}

	return ""
}

// IsRejection reports whether err is an expected business rejection rather than a fault.
func IsRejection(err error) bool {
	return GetReason(err) != ""
}

func IsCapacityExceeded(err error) bool {
	return GetReason(err) == ReasonCapacityExceeded
}
