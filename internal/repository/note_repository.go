package repository

import (
	"context"
	"fmt"
	"net/http"

	"quicknotes/internal/domain"

	"github.com/go-kivik/kivik/v4"
)

type NoteRepository interface {
	// Create persists the note and fills in its store-assigned ID.
	Create(ctx context.Context, note *domain.Note) error
	FindByID(ctx context.Context, id int64) (*domain.Note, error)
	// List returns all notes in creation order.
	List(ctx context.Context) ([]*domain.Note, error)
	Update(ctx context.Context, note *domain.Note) error
	Delete(ctx context.Context, id int64) error
}

type noteRepository struct {
	client *kivik.Client
	dbName string
}

func NewNoteRepository(client *kivik.Client, dbName string) NoteRepository {
	return &noteRepository{
		client: client,
		dbName: dbName,
	}
}

const (
	counterDocID = "counter:note"
	allocRetries = 5
)

func noteDocID(id int64) string {
	// zero-padded so lexicographic document order is creation order
	return fmt.Sprintf("note:%012d", id)
}

// nextID advances the counter document with a compare-and-swap Put. A 409
// means another writer took the slot first; re-read and try the next one.
func (r *noteRepository) nextID(ctx context.Context) (int64, error) {
	db := r.client.DB(r.dbName)

	for attempt := 0; attempt < allocRetries; attempt++ {
		counter := map[string]interface{}{}
		row := db.Get(ctx, counterDocID)
		if err := row.ScanDoc(&counter); err != nil && kivik.HTTPStatus(err) != http.StatusNotFound {
			return 0, fmt.Errorf("failed to read note counter: %w", err)
		}

		var next int64 = 1
		if v, ok := counter["value"].(float64); ok {
			next = int64(v) + 1
		}
		counter["value"] = next

		_, err := db.Put(ctx, counterDocID, counter)
		if err == nil {
			return next, nil
		}
		if kivik.HTTPStatus(err) != http.StatusConflict {
			return 0, fmt.Errorf("failed to advance note counter: %w", err)
		}
	}

	return 0, fmt.Errorf("note counter contention: gave up after %d attempts", allocRetries)
}

func (r *noteRepository) Create(ctx context.Context, note *domain.Note) error {
	id, err := r.nextID(ctx)
	if err != nil {
		return err
	}
	note.ID = id

	db := r.client.DB(r.dbName)
	if _, err := db.Put(ctx, noteDocID(note.ID), note); err != nil {
		return fmt.Errorf("failed to create note: %w", err)
	}

	return nil
}

func (r *noteRepository) FindByID(ctx context.Context, id int64) (*domain.Note, error) {
	db := r.client.DB(r.dbName)

	row := db.Get(ctx, noteDocID(id))

	var note domain.Note
	if err := row.ScanDoc(&note); err != nil {
		if kivik.HTTPStatus(err) == http.StatusNotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find note: %w", err)
	}

	return &note, nil
}

func (r *noteRepository) List(ctx context.Context) ([]*domain.Note, error) {
	db := r.client.DB(r.dbName)

	rows := db.AllDocs(ctx, kivik.Params(map[string]interface{}{
		"include_docs": true,
		"startkey":     "note:",
		"endkey":       "note:\ufff0",
	}))
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	defer rows.Close()

	var notes []*domain.Note
	for rows.Next() {
		var note domain.Note
		if err := rows.ScanDoc(&note); err != nil {
			continue
		}
		notes = append(notes, &note)
	}

	return notes, nil
}

func (r *noteRepository) Update(ctx context.Context, note *domain.Note) error {
	db := r.client.DB(r.dbName)
	docID := noteDocID(note.ID)

	var existing map[string]interface{}
	row := db.Get(ctx, docID)
	if err := row.ScanDoc(&existing); err != nil {
		if kivik.HTTPStatus(err) == http.StatusNotFound {
			return ErrNotFound
		}
		return fmt.Errorf("failed to fetch note for update: %w", err)
	}

	existing["content"] = note.Content
	existing["is_edited"] = note.IsEdited

	if _, err := db.Put(ctx, docID, existing); err != nil {
		return fmt.Errorf("failed to update note: %w", err)
	}

	return nil
}

func (r *noteRepository) Delete(ctx context.Context, id int64) error {
	db := r.client.DB(r.dbName)
	docID := noteDocID(id)

	var existing map[string]interface{}
	row := db.Get(ctx, docID)
	if err := row.ScanDoc(&existing); err != nil {
		if kivik.HTTPStatus(err) == http.StatusNotFound {
			return ErrNotFound
		}
		return fmt.Errorf("failed to fetch note for delete: %w", err)
	}

	rev, _ := existing["_rev"].(string)
	if _, err := db.Delete(ctx, docID, rev); err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}

	return nil
}
