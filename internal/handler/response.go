package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"go-admin-panel/internal/model"
	"go-admin-panel/pkg/apierror"
)

func writeSuccess(w http.ResponseWriter, status int, data any, pagination *model.Pagination) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.APIResponse{
		Success:    true,
		Data:       data,
		Pagination: pagination,
	})
}

func writeError(w http.ResponseWriter, err error) {
	status, body := classify(err)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.APIResponse{
		Success: false,
		Error:   body,
	})
}

// classify maps an error to its HTTP status and client-facing body.
// Unclassified errors are logged here since their detail is not sent.
func classify(err error) (int, *model.APIError) {
	var (
		apiErr   *apierror.APIError
		dsErr    *model.DataSourceError
		validErr *model.ValidationError
		notFound *model.NotFoundError
	)

	switch {
	case errors.As(err, &apiErr):
		return apiErr.HTTPStatus, &model.APIError{Code: apiErr.Code, Message: apiErr.Message, Details: apiErr.Details}
	case errors.As(err, &validErr):
		return http.StatusBadRequest, &model.APIError{
			Code:    "VALIDATION_ERROR",
			Message: "Invalid input",
			Details: validErr.Error(),
			Fields:  validErr.Fields,
		}
	case errors.As(err, &notFound):
		return http.StatusNotFound, &model.APIError{Code: "NOT_FOUND", Message: "Record not found", Details: notFound.Error()}
	case errors.Is(err, model.ErrUnknownResource):
		return http.StatusNotFound, &model.APIError{Code: "UNKNOWN_RESOURCE", Message: "Unknown resource", Details: err.Error()}
	case errors.As(err, &dsErr):
		slog.Error("data source error", "op", dsErr.Op, "table", dsErr.Table, "error", dsErr.Err)
		return http.StatusInternalServerError, &model.APIError{Code: "DATA_SOURCE_ERROR", Message: "Data source error", Details: fmt.Sprint(dsErr.Err)}
	case errors.Is(err, model.ErrInvalidInput):
		return http.StatusBadRequest, &model.APIError{Code: "BAD_REQUEST", Message: "Invalid input", Details: err.Error()}
	}

	slog.Error("unhandled error", "error", err)
	return http.StatusInternalServerError, &model.APIError{Code: "INTERNAL_ERROR", Message: "Unexpected server error"}
}

// userMessage is the sentence shown inline in HTML responses.
func userMessage(body *model.APIError) string {
	if body.Code == "DATA_SOURCE_ERROR" && body.Details != "" {
		return "Could not load records: " + body.Details
	}
	if len(body.Fields) > 0 {
		return body.Message + ": " + body.Details
	}

	return body.Message
}
