package api

import (
	"time"

	"github.com/idilsaglam/todo-service/internal/model"
)

// Version is reported by the health endpoints.
const Version = "1.0.0"

// HealthMessage is the fixed body of the health endpoints.
const HealthMessage = "Todo Service is running - Version " + Version

// TodoRequest is the body of POST and PUT. Any "id" in the body is ignored.
type TodoRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
}

// Item converts the request into a model item with no id.
func (r TodoRequest) Item() model.TodoItem {
	return model.TodoItem{
		Title:       r.Title,
		Description: r.Description,
		Completed:   r.Completed,
	}
}

// APIError is the standard 400 payload.
type APIError struct {
	Error     string   `json:"error"`
	Details   []string `json:"details,omitempty"`
	Timestamp string   `json:"timestamp"` // RFC3339
}

// TimeNow abstracts time for tests; overridden in tests.
var TimeNow = func() time.Time { return time.Now() }

func newAPIError(msg string, details ...string) APIError {
	return APIError{
		Error:     msg,
		Details:   details,
		Timestamp: TimeNow().UTC().Format(time.RFC3339),
	}
}
