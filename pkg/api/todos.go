package api

import (
	"errors"
	"net/http"

	"github.com/openfroyo/crudapi/pkg/stores"
)

type todoListResponse struct {
	Todos []*stores.Todo `json:"todos"`
}

// todoError maps a store error from a todo operation.
func todoError(err error) error {
	if errors.Is(err, stores.ErrNotFound) {
		return NewNotFoundError("Todo")
	}
	return NewInternalError(err)
}

func (s *Server) handleListTodos(w http.ResponseWriter, r *http.Request) error {
	todos, err := s.store.ListTodos(r.Context())
	if err != nil {
		return todoError(err)
	}
	if todos == nil {
		todos = []*stores.Todo{}
	}
	writeJSON(w, http.StatusOK, todoListResponse{Todos: todos})
	return nil
}

func (s *Server) handleCreateTodo(w http.ResponseWriter, r *http.Request) error {
	title, err := s.decodeTitle(w, r)
	if err != nil {
		return err
	}
	if _, err := s.store.CreateTodo(r.Context(), title); err != nil {
		return todoError(err)
	}
	writeMessage(w, http.StatusCreated, "created")
	return nil
}

func (s *Server) handleUpdateTodo(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r)
	if err != nil {
		return err
	}
	title, err := s.decodeTitle(w, r)
	if err != nil {
		return err
	}
	if err := s.store.UpdateTodoTitle(r.Context(), id, title); err != nil {
		return todoError(err)
	}
	writeMessage(w, http.StatusOK, "updated")
	return nil
}

func (s *Server) handleToggleTodo(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r)
	if err != nil {
		return err
	}
	if err := s.store.ToggleTodo(r.Context(), id); err != nil {
		return todoError(err)
	}
	writeMessage(w, http.StatusOK, "toggled")
	return nil
}

func (s *Server) handleDeleteTodo(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r)
	if err != nil {
		return err
	}
	if err := s.store.DeleteTodo(r.Context(), id); err != nil {
		return todoError(err)
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}
