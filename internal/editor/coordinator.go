package editor

import (
	"context"
	"fmt"
	"strings"

	"quicknotes/internal/domain"
	"quicknotes/internal/service"
)

// NoteAPI is the server surface the coordinator mutates through. pkg/client
// implements it over HTTP; tests substitute a fake.
type NoteAPI interface {
	List(ctx context.Context) ([]*domain.Note, error)
	Create(ctx context.Context, content string) (*domain.Note, error)
	Update(ctx context.Context, id int64, content string) (*service.UpdateResult, error)
	Delete(ctx context.Context, id int64) error
}

// editing is the single Editing slot: the note under edit and its draft
// text. Holding both in one nullable value means a second note can never be
// in edit mode at the same time.
type editing struct {
	noteID int64
	draft  string
}

// Coordinator owns the visible note list and its edit state. It is meant
// for a single interactive session; it is not safe for concurrent use.
// Every list mutation is applied only after the server has acknowledged the
// corresponding call; there is no speculative apply-then-rollback.
type Coordinator struct {
	api      NoteAPI
	notes    []*domain.Note
	composer string
	editing  *editing
}

func New(api NoteAPI) *Coordinator {
	return &Coordinator{api: api}
}

// Load replaces the visible list with the server's, in server order.
func (c *Coordinator) Load(ctx context.Context) error {
	notes, err := c.api.List(ctx)
	if err != nil {
		return err
	}
	c.notes = notes
	return nil
}

// Notes returns the list in display order.
func (c *Coordinator) Notes() []*domain.Note {
	return c.notes
}

func (c *Coordinator) Composer() string {
	return c.composer
}

func (c *Coordinator) SetComposer(text string) {
	c.composer = text
}

// SubmitComposer creates a note from the composer buffer. Empty submissions
// are no-ops. On success the entry appended to the list is the note the
// server returned, not the local text, and the buffer clears.
func (c *Coordinator) SubmitComposer(ctx context.Context) error {
	if strings.TrimSpace(c.composer) == "" {
		return nil
	}

	note, err := c.api.Create(ctx, c.composer)
	if err != nil {
		return err
	}

	c.notes = append(c.notes, note)
	c.composer = ""
	return nil
}

// EditingID returns the id of the note currently in edit mode, if any.
func (c *Coordinator) EditingID() (int64, bool) {
	if c.editing == nil {
		return 0, false
	}
	return c.editing.noteID, true
}

func (c *Coordinator) Draft() string {
	if c.editing == nil {
		return ""
	}
	return c.editing.draft
}

func (c *Coordinator) SetDraft(text string) {
	if c.editing != nil {
		c.editing.draft = text
	}
}

// BeginEdit moves note id into edit mode, committing whichever note was
// being edited before so the single-editor invariant holds. The draft
// starts as the note's current content.
func (c *Coordinator) BeginEdit(ctx context.Context, id int64) error {
	if c.editing != nil {
		if c.editing.noteID == id {
			return nil
		}
		if err := c.Commit(ctx); err != nil {
			return err
		}
	}

	note := c.find(id)
	if note == nil {
		return fmt.Errorf("note %d is not in the list", id)
	}

	c.editing = &editing{noteID: id, draft: note.Content}
	return nil
}

// Commit ends the current edit. An empty draft deletes the note; anything
// else is sent as an update and the list entry is replaced with the note
// the server returns. On failure the edit stays open and the list is left
// as it was.
func (c *Coordinator) Commit(ctx context.Context) error {
	if c.editing == nil {
		return nil
	}

	result, err := c.api.Update(ctx, c.editing.noteID, c.editing.draft)
	if err != nil {
		return err
	}

	switch result.Outcome {
	case service.OutcomeDeleted:
		c.remove(c.editing.noteID)
	case service.OutcomeUpdated:
		c.replace(result.Note)
	}

	c.editing = nil
	return nil
}

// ClickOutside is the loss-of-focus gesture; it commits exactly like the
// explicit commit gesture.
func (c *Coordinator) ClickOutside(ctx context.Context) error {
	return c.Commit(ctx)
}

// Delete removes a note. On failure the list and any in-progress edit are
// left unchanged and the error is returned for the caller to surface.
func (c *Coordinator) Delete(ctx context.Context, id int64) error {
	if err := c.api.Delete(ctx, id); err != nil {
		return err
	}

	if c.editing != nil && c.editing.noteID == id {
		// deleting the note under edit abandons its draft
		c.editing = nil
	}

	c.remove(id)
	return nil
}

func (c *Coordinator) find(id int64) *domain.Note {
	for _, n := range c.notes {
		if n.ID == id {
			return n
		}
	}
	return nil
}

func (c *Coordinator) replace(note *domain.Note) {
	for i, n := range c.notes {
		if n.ID == note.ID {
			c.notes[i] = note
			return
		}
	}
}

func (c *Coordinator) remove(id int64) {
	for i, n := range c.notes {
		if n.ID == id {
			c.notes = append(c.notes[:i], c.notes[i+1:]...)
			return
		}
	}
}
