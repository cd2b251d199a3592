package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel/trace"

	"github.com/openfroyo/crudapi/pkg/telemetry"
)

// titleBody is the wire shape of create and update bodies. Title is a pointer
// so that a missing or null title can be told apart from an empty one.
type titleBody struct {
	Title *string `json:"title" validate:"required"`
}

// titleInput is the title after trimming.
type titleInput struct {
	Title string `validate:"required"`
}

// pathID parses the {id} path segment. The id is also attached to the span.
func pathID(r *http.Request) (int64, error) {
	raw := r.PathValue("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, NewMalformedError(detailInvalidID, fmt.Errorf("parse id %q: %w", raw, err))
	}
	trace.SpanFromContext(r.Context()).SetAttributes(telemetry.AttrRecordID.Int64(id))
	return id, nil
}

// maxBodyBytes caps create and update bodies.
const maxBodyBytes = 1 << 20

// decodeTitle reads the request body and returns the trimmed title.
// Schema problems yield 422; a blank title yields 400.
func (s *Server) decodeTitle(w http.ResponseWriter, r *http.Request) (string, error) {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))

	var body titleBody
	if err := dec.Decode(&body); err != nil {
		return "", NewMalformedError(decodeDetail(err), err)
	}
	// The body must hold exactly one JSON value.
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return "", NewMalformedError(decodeDetail(err), err)
		}
		return "", NewMalformedError("Malformed JSON body", fmt.Errorf("trailing data after JSON body: %v", err))
	}
	if err := s.validate.Struct(body); err != nil {
		return "", NewMalformedError("Field required: title", err)
	}

	in := titleInput{Title: strings.TrimSpace(*body.Title)}
	if err := s.validate.Struct(in); err != nil {
		return "", NewValidationError(detailTitleRequired)
	}
	return in.Title, nil
}

func decodeDetail(err error) string {
	var typeErr *json.UnmarshalTypeError
	var maxErr *http.MaxBytesError
	switch {
	case errors.As(err, &maxErr):
		return "Request body too large"
	case errors.Is(err, io.EOF):
		return "Request body is required"
	case errors.As(err, &typeErr):
		if typeErr.Field == "" {
			return "Request body must be a JSON object"
		}
		return fmt.Sprintf("Field %s must be a %s", typeErr.Field, typeErr.Type)
	default:
		return "Malformed JSON body"
	}
}
