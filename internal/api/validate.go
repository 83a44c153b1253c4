package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

const todoSchemaURL = "todo-request.schema.json"

// todoSchema only checks presence and types. Unknown keys, including "id",
// are allowed and ignored. A null description or completed decodes to the
// zero value.
const todoSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["title"],
  "properties": {
    "title":       {"type": "string", "minLength": 1},
    "description": {"type": ["string", "null"]},
    "completed":   {"type": ["boolean", "null"]}
  }
}`

var todoRequestSchema = jsonschema.MustCompileString(todoSchemaURL, todoSchema)

// BodyError is a client error in a request body.
type BodyError struct {
	Msg     string
	Details []string
}

func (e *BodyError) Error() string {
	if len(e.Details) == 0 {
		return e.Msg
	}
	return e.Msg + ": " + strings.Join(e.Details, "; ")
}

// decodeTodoRequest reads a single JSON object from r, validates it, and
// decodes it into a TodoRequest. Every failure is a *BodyError.
func decodeTodoRequest(r io.Reader) (TodoRequest, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return TodoRequest{}, &BodyError{Msg: fmt.Sprintf("body larger than %d bytes", tooLarge.Limit)}
		}
		return TodoRequest{}, &BodyError{Msg: "unreadable body: " + err.Error()}
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return TodoRequest{}, &BodyError{Msg: "empty body"}
	}

	var doc any
	dec := json.NewDecoder(bytes.NewReader(body))
	if err := dec.Decode(&doc); err != nil {
		return TodoRequest{}, &BodyError{Msg: "invalid JSON: " + err.Error()}
	}
	if _, err := dec.Token(); err != io.EOF {
		return TodoRequest{}, &BodyError{Msg: "invalid JSON: trailing data after object"}
	}

	if err := todoRequestSchema.Validate(doc); err != nil {
		return TodoRequest{}, &BodyError{Msg: "invalid todo", Details: schemaDetails(err)}
	}

	var req TodoRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return TodoRequest{}, &BodyError{Msg: "invalid JSON: " + err.Error()}
	}
	return req, nil
}

// schemaDetails flattens a validation error into "path: message" lines.
func schemaDetails(err error) []string {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return []string{err.Error()}
	}
	var out []string
	collectSchemaDetails(ve, &out)
	return out
}

func collectSchemaDetails(ve *jsonschema.ValidationError, out *[]string) {
	if len(ve.Causes) == 0 {
		*out = append(*out, fmt.Sprintf("%s: %s", pointerToPath(ve.InstanceLocation), ve.Message))
		return
	}
	for _, cause := range ve.Causes {
		collectSchemaDetails(cause, out)
	}
}

func pointerToPath(ptr string) string {
	ptr = strings.TrimPrefix(ptr, "#")
	ptr = strings.TrimPrefix(ptr, "/")
	if ptr == "" {
		return "(body)"
	}
	return strings.ReplaceAll(ptr, "/", ".")
}
