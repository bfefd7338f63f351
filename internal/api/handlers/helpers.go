package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"

	"field-workflow-service/internal/api/dto"
	"field-workflow-service/internal/errs"
	"field-workflow-service/internal/flow"
	"field-workflow-service/internal/platform/logger"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, r *http.Request, log *logger.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error(log.WithField(r.Context(), "path", r.URL.Path), "encode failed", err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, log *logger.Logger, status int, msg string) {
	writeJSON(w, r, log, status, dto.ErrorResponse{Error: msg})
}

// writeFlowError maps a structured core error onto its HTTP status and
// echoes the current state so clients can re-render without a second call.
func writeFlowError(w http.ResponseWriter, r *http.Request, log *logger.Logger, err error, state *flow.Snapshot) {
	te := errs.As(err)
	if te == nil {
		te = errs.Wrap(errs.CodeInternal, err, "unexpected error")
	}
	md := errs.MetadataFor(te.Code())

	res := dto.ErrorResponse{
		Error: md.PublicMessage,
		Code:  string(te.Code()),
		State: state,
	}
	if md.DetailsAllowed {
		res.Error = te.Message()
		res.Details = te.Details()
	}
	if md.HTTPStatus >= http.StatusInternalServerError {
		log.Error(r.Context(), "request failed", err)
	}
	writeJSON(w, r, log, md.HTTPStatus, res)
}

// decodeJSON reads exactly one JSON object into dst and applies the request
// validation tags. It writes the error response itself and reports whether
// the handler may continue. Field errors echo the state returned by state.
func decodeJSON(w http.ResponseWriter, r *http.Request, log *logger.Logger, dst any, state func() *flow.Snapshot) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		var typeErr *json.UnmarshalTypeError
		switch {
		case errors.As(err, &tooLarge):
			writeError(w, r, log, http.StatusRequestEntityTooLarge, "request body too large")
		case errors.As(err, &typeErr) && typeErr.Field != "":
			fields := map[string]string{typeErr.Field: typeMessage(typeErr.Type)}
			writeFlowError(w, r, log, errs.Validation(fields), state())
		default:
			writeError(w, r, log, http.StatusBadRequest, "invalid JSON body")
		}
		return false
	}

	// Ensure there's only one JSON object in the body.
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, log, http.StatusBadRequest, "request body must contain a single JSON object")
		return false
	}

	if fields := dto.Validate(dst); fields != nil {
		writeFlowError(w, r, log, errs.Validation(fields), state())
		return false
	}
	return true
}

// decodeOptionalJSON treats an empty body as the zero request.
func decodeOptionalJSON(w http.ResponseWriter, r *http.Request, log *logger.Logger, dst any, state func() *flow.Snapshot) bool {
	if r.ContentLength == 0 {
		return true
	}
	return decodeJSON(w, r, log, dst, state)
}

func typeMessage(t reflect.Type) string {
	if t == nil {
		return "has the wrong type"
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "must be a whole number"
	case reflect.Float32, reflect.Float64:
		return "must be a number"
	case reflect.String:
		return "must be a string"
	case reflect.Bool:
		return "must be true or false"
	}
	return "has the wrong type"
}
