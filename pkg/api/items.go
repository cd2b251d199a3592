package api

import (
	"errors"
	"net/http"

	"github.com/openfroyo/crudapi/pkg/stores"
)

type itemListResponse struct {
	Items []*stores.Item `json:"items"`
}

type itemCreatedResponse struct {
	Message string       `json:"message"`
	Item    *stores.Item `json:"item"`
}

// itemError maps a store error from an item operation.
func itemError(err error) error {
	if errors.Is(err, stores.ErrNotFound) {
		return NewNotFoundError("Item")
	}
	return NewInternalError(err)
}

func (s *Server) handleListItems(w http.ResponseWriter, r *http.Request) error {
	items, err := s.store.ListItems(r.Context())
	if err != nil {
		return itemError(err)
	}
	if items == nil {
		items = []*stores.Item{}
	}
	writeJSON(w, http.StatusOK, itemListResponse{Items: items})
	return nil
}

func (s *Server) handleGetItem(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r)
	if err != nil {
		return err
	}
	item, err := s.store.GetItem(r.Context(), id)
	if err != nil {
		return itemError(err)
	}
	writeJSON(w, http.StatusOK, item)
	return nil
}

func (s *Server) handleCreateItem(w http.ResponseWriter, r *http.Request) error {
	title, err := s.decodeTitle(w, r)
	if err != nil {
		return err
	}
	item, err := s.store.CreateItem(r.Context(), title)
	if err != nil {
		return itemError(err)
	}
	writeJSON(w, http.StatusCreated, itemCreatedResponse{Message: "created", Item: item})
	return nil
}

func (s *Server) handleUpdateItem(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r)
	if err != nil {
		return err
	}
	title, err := s.decodeTitle(w, r)
	if err != nil {
		return err
	}
	item, err := s.store.UpdateItem(r.Context(), id, title)
	if err != nil {
		return itemError(err)
	}
	writeJSON(w, http.StatusOK, item)
	return nil
}

func (s *Server) handleDeleteItem(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r)
	if err != nil {
		return err
	}
	if err := s.store.DeleteItem(r.Context(), id); err != nil {
		return itemError(err)
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}
