package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"quicknotes/internal/domain"
	"quicknotes/internal/service"
	"quicknotes/pkg/response"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
)

type NoteHandler struct {
	service  *service.NoteService
	validate *validator.Validate
}

func NewNoteHandler(service *service.NoteService) *NoteHandler {
	return &NoteHandler{
		service:  service,
		validate: validator.New(),
	}
}

func (h *NoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request payload")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	note, err := h.service.Create(r.Context(), req.Content)
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			response.BadRequest(w, "Note content is empty")
			return
		}
		log.Printf("failed to create note: %v", err)
		response.InternalError(w, "Failed to create note")
		return
	}

	response.Created(w, note)
}

func (h *NoteHandler) List(w http.ResponseWriter, r *http.Request) {
	notes, err := h.service.List(r.Context())
	if err != nil {
		log.Printf("failed to list notes: %v", err)
		response.InternalError(w, "Failed to list notes")
		return
	}

	if notes == nil {
		notes = []*domain.Note{}
	}

	response.Success(w, notes)
}

func (h *NoteHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := noteID(w, r)
	if !ok {
		return
	}

	var req domain.UpdateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request payload")
		return
	}

	result, err := h.service.Update(r.Context(), id, req.Content)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			response.NotFound(w, "Note not found")
			return
		}
		log.Printf("failed to update note %d: %v", id, err)
		response.InternalError(w, "Failed to update note")
		return
	}

	if result.Outcome == service.OutcomeDeleted {
		response.Success(w, map[string]bool{"deleted": true})
		return
	}

	response.Success(w, result.Note)
}

func (h *NoteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := noteID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			response.NotFound(w, "Note not found")
			return
		}
		log.Printf("failed to delete note %d: %v", id, err)
		response.InternalError(w, "Failed to delete note")
		return
	}

	response.Success(w, map[string]bool{"deleted": true})
}

func noteID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid note ID")
		return 0, false
	}
	return id, true
}
