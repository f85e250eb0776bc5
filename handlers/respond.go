package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"roomm8/services/backend"
	"roomm8/services/booking"
	"roomm8/utils"
)

func statusForKind(kind booking.ErrorKind) int {
	switch kind {
	case booking.KindValidation:
		return http.StatusBadRequest
	case booking.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusBadGateway
	}
}

// respondError maps domain and transport errors onto a JSON error body.
func respondError(c *gin.Context, err error, fallback string) {
	var ce *booking.CheckoutError
	if errors.As(err, &ce) {
		idx := ce.Index
		status := statusForKind(ce.Kind)
		if errors.Is(err, backend.ErrBackendUnavailable) {
			status = http.StatusServiceUnavailable
		}
		utils.JSONErrorResponse(c, status, utils.ErrorResponse{
			Message: ce.Message,
			Kind:    string(ce.Kind),
			Index:   &idx,
		})
		return
	}

	if errors.Is(err, backend.ErrBackendUnavailable) {
		utils.JSONErrorResponse(c, http.StatusServiceUnavailable, utils.ErrorResponse{
			Message: backend.UnavailableMessage,
			Kind:    string(booking.KindBackend),
		})
		return
	}

	var be *booking.Error
	if errors.As(err, &be) {
		utils.JSONErrorResponse(c, statusForKind(be.Kind), utils.ErrorResponse{
			Message: be.Message,
			Kind:    string(be.Kind),
		})
		return
	}

	var apiErr *backend.APIError
	if errors.As(err, &apiErr) {
		status := apiErr.Status
		if status < 400 || status >= 500 {
			status = http.StatusBadGateway
		}
		kind := booking.KindBackend
		if apiErr.Conflict() {
			kind = booking.KindConflict
		}
		utils.JSONErrorResponse(c, status, utils.ErrorResponse{Message: apiErr.Message, Kind: string(kind)})
		return
	}

	getLogger(c).Error(fallback, zap.Error(err))
	utils.JSONError(c, http.StatusInternalServerError, fallback, err.Error())
}

func badRequest(c *gin.Context, message string, err error) {
	details := ""
	if err != nil {
		details = err.Error()
	}
	utils.JSONErrorResponse(c, http.StatusBadRequest, utils.ErrorResponse{
		Message: message,
		Details: details,
		Kind:    string(booking.KindValidation),
	})
}
