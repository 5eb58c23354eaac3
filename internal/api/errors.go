package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/2beens/periodize/internal/errs"
	"github.com/2beens/periodize/pkg"

	log "github.com/sirupsen/logrus"
)

var (
	ErrInvalidBody  = errs.New(errs.KindValidation, "invalid_body", "invalid request body")
	ErrInvalidQuery = errs.New(errs.KindValidation, "invalid_query", "invalid query parameter")
	ErrInvalidDate  = errs.New(errs.KindValidation, "invalid_date", "date must be RFC 3339 or YYYY-MM-DD")
)

type errorBody struct {
	Kind    string `json:"kind"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
	Entity  string `json:"entity,omitempty"`
	ID      string `json:"id,omitempty"`
	Field   string `json:"field,omitempty"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

func statusOf(kind errs.Kind) int {
	switch kind {
	case errs.KindValidation:
		return http.StatusBadRequest
	case errs.KindNotFound:
		return http.StatusNotFound
	case errs.KindConflict:
		return http.StatusConflict
	case errs.KindState:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// writeError maps domain errors to their status. Anything else is logged and
// reported as an opaque internal error.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	e, ok := errs.As(err)
	if !ok {
		log.Errorf("%s %s: %s", r.Method, r.URL.Path, err)
		pkg.WriteJSON(w, http.StatusInternalServerError, errorResponse{
			Error: errorBody{Kind: "internal", Message: "internal error"},
		})
		return
	}

	log.Debugf("%s %s: %s", r.Method, r.URL.Path, err)
	msg := e.Msg
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %s", e.Msg, e.Cause)
	}
	pkg.WriteJSON(w, statusOf(e.Kind), errorResponse{
		Error: errorBody{
			Kind:    e.Kind.String(),
			Code:    e.Code,
			Message: msg,
			Entity:  e.Entity,
			ID:      e.ID,
			Field:   e.Field,
		},
	})
}

func decodeJSON(r *http.Request, v any) error {
	if r.Body == nil {
		return ErrInvalidBody.Wrap(errors.New("empty body"))
	}
	dec := json.NewDecoder(io.LimitReader(r.Body, 1<<20))
	if err := dec.Decode(v); err != nil {
		return ErrInvalidBody.Wrap(err)
	}
	return nil
}

// parseDate accepts a full RFC 3339 timestamp or a plain date.
func parseDate(field, s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, ErrInvalidDate.WithField(field)
	}
	return t, nil
}
