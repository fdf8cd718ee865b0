package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/dmitrymomot/linkauth/pkg/auth"
	"github.com/dmitrymomot/linkauth/pkg/logger"
	"github.com/dmitrymomot/linkauth/pkg/validator"
)

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string                     `json:"code"`
	Message string                     `json:"message"`
	Fields  validator.ValidationErrors `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

func statusFor(kind auth.Kind) int {
	switch kind {
	case auth.KindValidation, auth.KindNoUpdatesProvided:
		return http.StatusBadRequest
	case auth.KindRateLimited:
		return http.StatusTooManyRequests
	case auth.KindInvalidOrExpiredLink, auth.KindUnauthenticated, auth.KindInvalidSession:
		return http.StatusUnauthorized
	case auth.KindInactiveUser:
		return http.StatusForbidden
	case auth.KindStoreUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// writeError renders err. Errors that are not *auth.Error become a generic 500.
func writeError(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	var ae *auth.Error
	if !errors.As(err, &ae) {
		log.ErrorContext(r.Context(), "unhandled error", logger.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: errorDetail{
			Code:    "internal_error",
			Message: "internal server error",
		}})
		return
	}

	if ae.Kind == auth.KindRateLimited && ae.RetryAfter > 0 {
		w.Header().Set("Retry-After", retryAfterSeconds(ae.RetryAfter))
	}
	writeJSON(w, statusFor(ae.Kind), errorBody{Error: errorDetail{
		Code:    ae.Kind.String(),
		Message: ae.Error(),
		Fields:  ae.Fields,
	}})
}

// retryAfterSeconds rounds up to whole seconds, minimum 1.
func retryAfterSeconds(d time.Duration) string {
	secs := int64(math.Ceil(d.Seconds()))
	if secs < 1 {
		secs = 1
	}
	return strconv.FormatInt(secs, 10)
}
