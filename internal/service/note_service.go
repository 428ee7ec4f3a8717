package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"quicknotes/internal/domain"
	"quicknotes/internal/repository"
)

// UpdateOutcome tags what an Update actually did: replacing a note's content
// with nothing carries delete semantics instead of storing an empty note.
type UpdateOutcome int

const (
	OutcomeUpdated UpdateOutcome = iota
	OutcomeDeleted
)

type UpdateResult struct {
	Outcome UpdateOutcome
	Note    *domain.Note // set only for OutcomeUpdated
}

// NoteEventSink receives change notifications after a mutation is durable.
type NoteEventSink interface {
	NoteCreated(note *domain.Note)
	NoteUpdated(note *domain.Note)
	NoteDeleted(id int64)
}

type NoteService struct {
	repo   repository.NoteRepository
	events NoteEventSink
}

// NewNoteService builds the service. events may be nil.
func NewNoteService(repo repository.NoteRepository, events NoteEventSink) *NoteService {
	return &NoteService{
		repo:   repo,
		events: events,
	}
}

func (s *NoteService) List(ctx context.Context) ([]*domain.Note, error) {
	notes, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return notes, nil
}

func (s *NoteService) Create(ctx context.Context, content string) (*domain.Note, error) {
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: note content is empty", ErrInvalidInput)
	}

	note := &domain.Note{
		Content:   content,
		CreatedAt: time.Now(),
		IsEdited:  false,
	}

	if err := s.repo.Create(ctx, note); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	if s.events != nil {
		s.events.NoteCreated(note)
	}

	return note, nil
}

// Update replaces the note's content and marks it edited. IsEdited never
// reverts and CreatedAt is left untouched. Empty or whitespace-only content
// deletes the note instead; the result's Outcome says which happened.
func (s *NoteService) Update(ctx context.Context, id int64, content string) (*UpdateResult, error) {
	if strings.TrimSpace(content) == "" {
		if err := s.Delete(ctx, id); err != nil {
			return nil, err
		}
		return &UpdateResult{Outcome: OutcomeDeleted}, nil
	}

	note, err := s.repo.FindByID(ctx, id)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil, ErrNotFound
	case err != nil:
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	note.Content = content
	note.IsEdited = true

	if err := s.repo.Update(ctx, note); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	if s.events != nil {
		s.events.NoteUpdated(note)
	}

	return &UpdateResult{Outcome: OutcomeUpdated, Note: note}, nil
}

func (s *NoteService) Delete(ctx context.Context, id int64) error {
	switch err := s.repo.Delete(ctx, id); {
	case err == nil:
	case errors.Is(err, repository.ErrNotFound):
		return ErrNotFound
	default:
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	if s.events != nil {
		s.events.NoteDeleted(id)
	}

	return nil
}
