package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/idilsaglam/todo-service/internal/model"
	"github.com/idilsaglam/todo-service/internal/store/memstore"
)

// handleHealth is the liveness endpoint. It never touches the store.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(HealthMessage))
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	items := s.store.List()
	if items == nil {
		items = []model.TodoItem{}
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	item, err := s.store.Get(id)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// handleCreate returns the POST handler for base so Location points back
// under the prefix the client used.
func (s *Server) handleCreate(base string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, ok := s.readTodo(w, r)
		if !ok {
			return
		}
		item := s.store.Create(req.Item())
		w.Header().Set("Location", base+"/"+strconv.FormatInt(item.ID, 10))
		writeJSON(w, http.StatusCreated, item)
	}
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	req, ok := s.readTodo(w, r)
	if !ok {
		return
	}
	item, err := s.store.Update(id, req.Item())
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if !s.store.Delete(id) {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// readTodo decodes and validates the request body, answering 400 itself
// when the body is unusable.
func (s *Server) readTodo(w http.ResponseWriter, r *http.Request) (TodoRequest, bool) {
	body := http.MaxBytesReader(w, r.Body, s.opts.MaxBodyBytes)
	req, err := decodeTodoRequest(body)
	if err != nil {
		var be *BodyError
		if errors.As(err, &be) {
			writeJSON(w, http.StatusBadRequest, newAPIError(be.Msg, be.Details...))
		} else {
			writeJSON(w, http.StatusBadRequest, newAPIError(err.Error()))
		}
		return TodoRequest{}, false
	}
	return req, true
}

// writeStoreError maps store errors to status codes. Not found has no body.
func (s *Server) writeStoreError(w http.ResponseWriter, err error) {
	if errors.Is(err, memstore.ErrNotFound) {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	s.logger.Error("store failure", "err", err)
	writeJSON(w, http.StatusInternalServerError, newAPIError("internal error"))
}

// pathID parses the {id} wildcard, answering 400 when it is not an integer.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := r.PathValue("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, newAPIError("invalid id: "+strconv.Quote(raw)))
		return 0, false
	}
	return id, true
}
