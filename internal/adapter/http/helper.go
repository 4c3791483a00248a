package http

import (
	"errors"
	"net/http"

	domainPolicy "approval-engine/internal/domain/policy"
	domainRequest "approval-engine/internal/domain/request"
	ucPolicy "approval-engine/internal/usecase/policy"
)

// statusFor maps domain errors to HTTP codes so a client can tell "you're
// late" (409) from "you're not allowed" (403).
func statusFor(err error) int {
	switch {
	case errors.Is(err, domainPolicy.ErrNotFound),
		errors.Is(err, domainRequest.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domainRequest.ErrRequestClosed),
		errors.Is(err, domainRequest.ErrAssignmentResolved),
		errors.Is(err, domainRequest.ErrAlreadyResponded),
		errors.Is(err, domainPolicy.ErrDuplicateCode),
		errors.Is(err, domainPolicy.ErrStructuralChange):
		return http.StatusConflict
	case errors.Is(err, domainRequest.ErrForbidden),
		errors.Is(err, domainRequest.ErrNotAssigned):
		return http.StatusForbidden
	case errors.Is(err, domainPolicy.ErrInactive),
		errors.Is(err, domainRequest.ErrCommentsRequired),
		errors.Is(err, domainRequest.ErrInvalidResponse),
		errors.Is(err, domainRequest.ErrDelegationDisabled),
		errors.Is(err, domainRequest.ErrRecallDisabled),
		errors.Is(err, domainRequest.ErrEmptyApprovers),
		errors.Is(err, domainRequest.ErrAmbiguousRole),
		errors.Is(err, ucPolicy.ErrInvalidConfig):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
