package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	nethttpmiddleware "github.com/oapi-codegen/nethttp-middleware"

	"github.com/rezkam/newsdesk/internal/infrastructure/http/response"
)

// ValidationConfig holds configuration for the OpenAPI validation middleware.
type ValidationConfig struct {
	// MultiError collects all validation errors instead of stopping at the first.
	MultiError bool
}

// NewValidator creates OpenAPI request validation middleware.
// Invalid requests are answered with 400 and field details.
// Security requirements are not checked here; Auth runs first.
func NewValidator(spec *openapi3.T, config ValidationConfig) func(http.Handler) http.Handler {
	// Routes are mounted under /api without a host.
	spec.Servers = openapi3.Servers{{URL: "/api"}}

	opts := &nethttpmiddleware.Options{
		Options: openapi3filter.Options{
			MultiError: config.MultiError,
			AuthenticationFunc: func(context.Context, *openapi3filter.AuthenticationInput) error {
				return nil
			},
		},
		ErrorHandlerWithOpts:  validationErrorHandler,
		SilenceServersWarning: true,
	}

	return nethttpmiddleware.OapiRequestValidatorWithOptions(spec, opts)
}

func validationErrorHandler(ctx context.Context, err error, w http.ResponseWriter, r *http.Request, opts nethttpmiddleware.ErrorHandlerOpts) {
	details := parseValidationError(err)

	slog.WarnContext(ctx, "request validation failed",
		"path", r.URL.Path,
		"method", r.Method,
		"invalid_field_count", len(details),
		"error", err.Error())

	code, message := "VALIDATION_ERROR", "validation failed"
	if opts.StatusCode == http.StatusNotFound {
		code, message = "NOT_FOUND", "route not found"
	}

	response.JSON(w, opts.StatusCode, response.ErrorResponse{
		Error: response.ErrorDetail{Code: code, Message: message, Details: details},
	})
}

// parseValidationError turns kin-openapi errors into field details.
// The result is never nil.
func parseValidationError(err error) []response.ErrorField {
	if err == nil {
		return []response.ErrorField{}
	}

	var multi openapi3.MultiError
	if errors.As(err, &multi) {
		details := make([]response.ErrorField, 0, len(multi))
		for _, e := range multi {
			details = append(details, fieldFromError(e))
		}
		return details
	}
	return []response.ErrorField{fieldFromError(err)}
}

func fieldFromError(err error) response.ErrorField {
	var reqErr *openapi3filter.RequestError
	if errors.As(err, &reqErr) {
		switch {
		case reqErr.Parameter != nil:
			return response.ErrorField{Field: reqErr.Parameter.Name, Issue: issue(reqErr)}
		case reqErr.RequestBody != nil:
			field := "body"
			var schemaErr *openapi3.SchemaError
			if errors.As(reqErr.Err, &schemaErr) {
				if ptr := schemaErr.JSONPointer(); len(ptr) > 0 {
					field = strings.Join(ptr, ".")
				}
			}
			return response.ErrorField{Field: field, Issue: issue(reqErr)}
		}
	}

	var routeErr *routers.RouteError
	if errors.As(err, &routeErr) {
		return response.ErrorField{Field: "path", Issue: routeErr.Reason}
	}

	var schemaErr *openapi3.SchemaError
	if errors.As(err, &schemaErr) {
		return response.ErrorField{Field: strings.Join(schemaErr.JSONPointer(), "."), Issue: schemaErr.Reason}
	}

	return response.ErrorField{Field: "request", Issue: err.Error()}
}

func issue(reqErr *openapi3filter.RequestError) string {
	var schemaErr *openapi3.SchemaError
	if errors.As(reqErr.Err, &schemaErr) && schemaErr.Reason != "" {
		return schemaErr.Reason
	}
	if reqErr.Reason != "" {
		return reqErr.Reason
	}
	if reqErr.Err != nil {
		return reqErr.Err.Error()
	}
	return "invalid value"
}
