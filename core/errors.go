package core

import (
	"net/http"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

const (
	ErrorBadInput                = "ERP_BAD_INPUT"
	ErrorNotFound                = "ERP_NOT_FOUND"
	ErrorUnauthorized            = "ERP_UNAUTHORIZED"
	ErrorTokenAcquisitionFailed  = "ERP_TOKEN_ACQUISITION_FAILED"
	ErrorPersistentAuthFailure   = "ERP_PERSISTENT_AUTH_FAILURE"
	ErrorRemoteFailure           = "ERP_REMOTE_FAILURE"
	ErrorDecodeFailed            = "ERP_DECODE_FAILED"
	ErrorInternal                = "ERP_INTERNAL_ERROR"
	ErrorDependencyNotConfigured = "ERP_DEPENDENCY_NOT_CONFIGURED"
)

// MapError keeps rich errors intact and classifies plain ones into a stable
// envelope.
func MapError(err error) *goerrors.Error {
	if err == nil {
		return nil
	}

	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		return ensureErrorEnvelope(richErr)
	}

	msg := strings.ToLower(strings.TrimSpace(err.Error()))
	switch {
	case strings.Contains(msg, "returned status"):
		return newError(err.Error(), goerrors.CategoryExternal, ErrorRemoteFailure)
	case strings.Contains(msg, "persistent authentication"):
		return newError(err.Error(), goerrors.CategoryAuth, ErrorPersistentAuthFailure)
	case strings.Contains(msg, "token endpoint"), strings.Contains(msg, "access token"):
		return newError(err.Error(), goerrors.CategoryAuth, ErrorTokenAcquisitionFailed)
	case strings.Contains(msg, "not found"):
		return newError(err.Error(), goerrors.CategoryNotFound, ErrorNotFound)
	case strings.Contains(msg, "decode"):
		return newError(err.Error(), goerrors.CategoryExternal, ErrorDecodeFailed)
	case strings.Contains(msg, "required"), strings.Contains(msg, "invalid"), strings.Contains(msg, "must "):
		return newError(err.Error(), goerrors.CategoryBadInput, ErrorBadInput)
	case strings.Contains(msg, "remote"):
		return newError(err.Error(), goerrors.CategoryExternal, ErrorRemoteFailure)
	}

	mapped := goerrors.MapToError(err, goerrors.DefaultErrorMappers())
	return ensureErrorEnvelope(mapped)
}

// BadInputError reports caller input that can never succeed remotely.
func BadInputError(message string, metadata map[string]any) error {
	err := goerrors.New(message, goerrors.CategoryBadInput).
		WithCode(http.StatusBadRequest).
		WithTextCode(ErrorBadInput)
	if len(metadata) > 0 {
		err.WithMetadata(metadata)
	}
	return err
}

// NotFoundError is reserved for composite operations that require a record
// to exist. Plain lookups report absence as nil or empty results.
func NotFoundError(message string, metadata map[string]any) error {
	err := goerrors.New(message, goerrors.CategoryNotFound).
		WithCode(http.StatusNotFound).
		WithTextCode(ErrorNotFound)
	if len(metadata) > 0 {
		err.WithMetadata(metadata)
	}
	return err
}

func DependencyError(message string) error {
	return goerrors.New(message, goerrors.CategoryInternal).
		WithCode(http.StatusInternalServerError).
		WithTextCode(ErrorDependencyNotConfigured)
}

func DecodeError(source error, message string, metadata map[string]any) error {
	if source == nil {
		return newError(message, goerrors.CategoryExternal, ErrorDecodeFailed)
	}
	err := goerrors.Wrap(source, goerrors.CategoryExternal, message).
		WithCode(http.StatusBadGateway).
		WithTextCode(ErrorDecodeFailed)
	if len(metadata) > 0 {
		err.WithMetadata(metadata)
	}
	return err
}

// HasTextCode reports whether err carries the given rich error text code.
func HasTextCode(err error, textCode string) bool {
	if err == nil {
		return false
	}
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) {
		return false
	}
	return richErr.TextCode == textCode
}

func newError(message string, category goerrors.Category, textCode string) *goerrors.Error {
	return ensureErrorEnvelope(
		goerrors.New(message, category).
			WithTextCode(textCode),
	)
}

func ensureErrorEnvelope(err *goerrors.Error) *goerrors.Error {
	if err == nil {
		return nil
	}
	if err.Code == 0 {
		err.Code = httpStatus(err.Category)
	}
	if strings.TrimSpace(err.TextCode) == "" {
		err.TextCode = defaultTextCode(err.Category)
	}
	if err.Category == goerrors.CategoryInternal && strings.TrimSpace(err.Message) == "" {
		err.Message = "An unexpected error occurred"
	}
	return err
}

func defaultTextCode(category goerrors.Category) string {
	switch category {
	case goerrors.CategoryBadInput, goerrors.CategoryValidation:
		return ErrorBadInput
	case goerrors.CategoryNotFound:
		return ErrorNotFound
	case goerrors.CategoryAuth, goerrors.CategoryAuthz:
		return ErrorUnauthorized
	case goerrors.CategoryExternal:
		return ErrorRemoteFailure
	default:
		return ErrorInternal
	}
}

func httpStatus(category goerrors.Category) int {
	switch category {
	case goerrors.CategoryBadInput, goerrors.CategoryValidation:
		return http.StatusBadRequest
	case goerrors.CategoryNotFound:
		return http.StatusNotFound
	case goerrors.CategoryAuth:
		return http.StatusUnauthorized
	case goerrors.CategoryAuthz:
		return http.StatusForbidden
	case goerrors.CategoryExternal:
		return http.StatusBadGateway
	case goerrors.CategoryRateLimit:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
