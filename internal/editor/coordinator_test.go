package editor

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"quicknotes/internal/domain"
	"quicknotes/internal/service"
)

// fakeNoteAPI mimics the server's delete-on-empty-update semantics in memory.
type fakeNoteAPI struct {
	byID     map[int64]*domain.Note
	order    []int64
	nextID   int64
	failWith error
	updates  int
	deletes  int
}

func newFakeNoteAPI(contents ...string) *fakeNoteAPI {
	api := &fakeNoteAPI{byID: make(map[int64]*domain.Note)}
	for _, content := range contents {
		api.nextID++
		note := &domain.Note{ID: api.nextID, Content: content, CreatedAt: time.Now()}
		api.byID[note.ID] = note
		api.order = append(api.order, note.ID)
	}
	return api
}

func (f *fakeNoteAPI) List(ctx context.Context) ([]*domain.Note, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	notes := make([]*domain.Note, 0, len(f.order))
	for _, id := range f.order {
		copied := *f.byID[id]
		notes = append(notes, &copied)
	}
	return notes, nil
}

func (f *fakeNoteAPI) Create(ctx context.Context, content string) (*domain.Note, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	f.nextID++
	note := &domain.Note{ID: f.nextID, Content: content, CreatedAt: time.Now()}
	f.byID[note.ID] = note
	f.order = append(f.order, note.ID)
	copied := *note
	return &copied, nil
}

func (f *fakeNoteAPI) Update(ctx context.Context, id int64, content string) (*service.UpdateResult, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	f.updates++
	if strings.TrimSpace(content) == "" {
		if err := f.Delete(ctx, id); err != nil {
			return nil, err
		}
		return &service.UpdateResult{Outcome: service.OutcomeDeleted}, nil
	}
	note, ok := f.byID[id]
	if !ok {
		return nil, service.ErrNotFound
	}
	note.Content = content
	note.IsEdited = true
	copied := *note
	return &service.UpdateResult{Outcome: service.OutcomeUpdated, Note: &copied}, nil
}

func (f *fakeNoteAPI) Delete(ctx context.Context, id int64) error {
	if f.failWith != nil {
		return f.failWith
	}
	f.deletes++
	if _, ok := f.byID[id]; !ok {
		return service.ErrNotFound
	}
	delete(f.byID, id)
	for i, ordered := range f.order {
		if ordered == id {
			f.order = append(f.order[:i], f.order[i+1:]...)
			break
		}
	}
	return nil
}

func loaded(t *testing.T, api *fakeNoteAPI) *Coordinator {
	t.Helper()
	coord := New(api)
	if err := coord.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return coord
}

func contents(coord *Coordinator) []string {
	var out []string
	for _, n := range coord.Notes() {
		out = append(out, n.Content)
	}
	return out
}

func TestSubmitComposer(t *testing.T) {
	coord := loaded(t, newFakeNoteAPI("existing"))
	ctx := context.Background()

	coord.SetComposer("fresh note")
	if err := coord.SubmitComposer(ctx); err != nil {
		t.Fatalf("SubmitComposer() error = %v", err)
	}

	got := contents(coord)
	if len(got) != 2 || got[1] != "fresh note" {
		t.Errorf("notes = %v, want existing + fresh note appended", got)
	}
	if coord.Composer() != "" {
		t.Errorf("composer = %q, want cleared after submit", coord.Composer())
	}

	appended := coord.Notes()[1]
	if appended.ID == 0 {
		t.Error("appended note lacks the server-assigned id")
	}
}

func TestSubmitComposerEmptyIsNoOp(t *testing.T) {
	api := newFakeNoteAPI("existing")
	coord := loaded(t, api)
	ctx := context.Background()

	for _, text := range []string{"", "   ", "\t\n"} {
		coord.SetComposer(text)
		if err := coord.SubmitComposer(ctx); err != nil {
			t.Fatalf("SubmitComposer(%q) error = %v", text, err)
		}
	}

	if len(coord.Notes()) != 1 {
		t.Errorf("notes = %v, blank submissions must not create notes", contents(coord))
	}
	if api.nextID != 1 {
		t.Error("blank submission reached the server")
	}
}

func TestSubmitComposerFailureKeepsBuffer(t *testing.T) {
	api := newFakeNoteAPI()
	coord := loaded(t, api)
	api.failWith = errors.New("server down")

	coord.SetComposer("unsaved")
	if err := coord.SubmitComposer(context.Background()); err == nil {
		t.Fatal("SubmitComposer() expected error")
	}
	if coord.Composer() != "unsaved" {
		t.Errorf("composer = %q, failed submit must not clear the buffer", coord.Composer())
	}
	if len(coord.Notes()) != 0 {
		t.Error("failed submit mutated the list")
	}
}

func TestBeginEditSeedsDraft(t *testing.T) {
	coord := loaded(t, newFakeNoteAPI("first", "second"))
	ctx := context.Background()

	if err := coord.BeginEdit(ctx, 2); err != nil {
		t.Fatalf("BeginEdit() error = %v", err)
	}

	if id, ok := coord.EditingID(); !ok || id != 2 {
		t.Errorf("EditingID() = %d, %v; want 2, true", id, ok)
	}
	if coord.Draft() != "second" {
		t.Errorf("Draft() = %q, want the note's current content", coord.Draft())
	}
}

func TestBeginEditUnknownNote(t *testing.T) {
	coord := loaded(t, newFakeNoteAPI("only"))

	if err := coord.BeginEdit(context.Background(), 99); err == nil {
		t.Fatal("BeginEdit() on unknown id expected error")
	}
	if _, ok := coord.EditingID(); ok {
		t.Error("failed BeginEdit left a note in edit mode")
	}
}

func TestBeginEditSecondNoteCommitsFirst(t *testing.T) {
	api := newFakeNoteAPI("first", "second")
	coord := loaded(t, api)
	ctx := context.Background()

	if err := coord.BeginEdit(ctx, 1); err != nil {
		t.Fatalf("BeginEdit(1) error = %v", err)
	}
	coord.SetDraft("first, revised")

	if err := coord.BeginEdit(ctx, 2); err != nil {
		t.Fatalf("BeginEdit(2) error = %v", err)
	}

	// only one note may ever be in edit mode, and it is the second one
	if id, ok := coord.EditingID(); !ok || id != 2 {
		t.Errorf("EditingID() = %d, %v; want 2, true", id, ok)
	}

	// the first note's draft was committed on the way
	got := contents(coord)
	if got[0] != "first, revised" {
		t.Errorf("notes = %v, want the pending draft committed before switching", got)
	}
	if api.updates != 1 {
		t.Errorf("server updates = %d, want 1", api.updates)
	}
}

func TestBeginEditSameNoteIsNoOp(t *testing.T) {
	api := newFakeNoteAPI("only")
	coord := loaded(t, api)
	ctx := context.Background()

	if err := coord.BeginEdit(ctx, 1); err != nil {
		t.Fatalf("BeginEdit() error = %v", err)
	}
	coord.SetDraft("in progress")

	if err := coord.BeginEdit(ctx, 1); err != nil {
		t.Fatalf("BeginEdit() repeat error = %v", err)
	}
	if coord.Draft() != "in progress" {
		t.Errorf("Draft() = %q, repeat BeginEdit must not reset the draft", coord.Draft())
	}
	if api.updates != 0 {
		t.Error("repeat BeginEdit committed the draft")
	}
}

func TestCommitReplacesWithServerNote(t *testing.T) {
	coord := loaded(t, newFakeNoteAPI("original"))
	ctx := context.Background()

	if err := coord.BeginEdit(ctx, 1); err != nil {
		t.Fatalf("BeginEdit() error = %v", err)
	}
	coord.SetDraft("revised")
	if err := coord.Commit(ctx); err != nil {
		t.Fatalf("Commit() error = %v", err)
	}

	if _, ok := coord.EditingID(); ok {
		t.Error("Commit() left the note in edit mode")
	}

	note := coord.Notes()[0]
	if note.Content != "revised" {
		t.Errorf("content = %q, want %q", note.Content, "revised")
	}
	if !note.IsEdited {
		t.Error("list entry not replaced with the server's edited note")
	}
}

func TestCommitEmptyDraftDeletes(t *testing.T) {
	coord := loaded(t, newFakeNoteAPI("first", "doomed", "third"))
	ctx := context.Background()

	if err := coord.BeginEdit(ctx, 2); err != nil {
		t.Fatalf("BeginEdit() error = %v", err)
	}
	coord.SetDraft("   ")
	if err := coord.Commit(ctx); err != nil {
		t.Fatalf("Commit() error = %v", err)
	}

	got := contents(coord)
	if len(got) != 2 || got[0] != "first" || got[1] != "third" {
		t.Errorf("notes = %v, want the emptied note removed", got)
	}
	if _, ok := coord.EditingID(); ok {
		t.Error("Commit() left the deleted note in edit mode")
	}
}

func TestCommitNothingEditingIsNoOp(t *testing.T) {
	api := newFakeNoteAPI("only")
	coord := loaded(t, api)

	if err := coord.Commit(context.Background()); err != nil {
		t.Fatalf("Commit() error = %v", err)
	}
	if api.updates != 0 {
		t.Error("Commit() with nothing editing reached the server")
	}
}

func TestCommitFailureKeepsEditOpen(t *testing.T) {
	api := newFakeNoteAPI("original")
	coord := loaded(t, api)
	ctx := context.Background()

	if err := coord.BeginEdit(ctx, 1); err != nil {
		t.Fatalf("BeginEdit() error = %v", err)
	}
	coord.SetDraft("revised")
	api.failWith = errors.New("server down")

	if err := coord.Commit(ctx); err == nil {
		t.Fatal("Commit() expected error")
	}

	if id, ok := coord.EditingID(); !ok || id != 1 {
		t.Error("failed Commit() must leave the edit open")
	}
	if coord.Draft() != "revised" {
		t.Errorf("Draft() = %q, failed commit must keep the draft", coord.Draft())
	}
	if contents(coord)[0] != "original" {
		t.Error("failed Commit() mutated the list")
	}
}

func TestClickOutsideCommits(t *testing.T) {
	coord := loaded(t, newFakeNoteAPI("original"))
	ctx := context.Background()

	if err := coord.BeginEdit(ctx, 1); err != nil {
		t.Fatalf("BeginEdit() error = %v", err)
	}
	coord.SetDraft("revised by blur")
	if err := coord.ClickOutside(ctx); err != nil {
		t.Fatalf("ClickOutside() error = %v", err)
	}

	if contents(coord)[0] != "revised by blur" {
		t.Errorf("notes = %v, want the blur gesture to commit", contents(coord))
	}
	if _, ok := coord.EditingID(); ok {
		t.Error("ClickOutside() left the note in edit mode")
	}
}

func TestDelete(t *testing.T) {
	coord := loaded(t, newFakeNoteAPI("first", "second"))

	if err := coord.Delete(context.Background(), 1); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	got := contents(coord)
	if len(got) != 1 || got[0] != "second" {
		t.Errorf("notes = %v, want only second", got)
	}
}

func TestDeleteFailureKeepsList(t *testing.T) {
	api := newFakeNoteAPI("kept")
	coord := loaded(t, api)
	api.failWith = errors.New("server down")

	if err := coord.Delete(context.Background(), 1); err == nil {
		t.Fatal("Delete() expected error")
	}
	if len(coord.Notes()) != 1 {
		t.Error("failed Delete() removed the note locally")
	}
}

func TestDeleteFailureKeepsEditOpen(t *testing.T) {
	api := newFakeNoteAPI("editing this")
	coord := loaded(t, api)
	ctx := context.Background()

	if err := coord.BeginEdit(ctx, 1); err != nil {
		t.Fatalf("BeginEdit() error = %v", err)
	}
	coord.SetDraft("half-typed")
	api.failWith = errors.New("server down")

	if err := coord.Delete(ctx, 1); err == nil {
		t.Fatal("Delete() expected error")
	}

	if id, ok := coord.EditingID(); !ok || id != 1 {
		t.Error("failed Delete() must leave the edit open")
	}
	if coord.Draft() != "half-typed" {
		t.Errorf("Draft() = %q, failed delete must keep the draft", coord.Draft())
	}
	if len(coord.Notes()) != 1 {
		t.Error("failed Delete() removed the note locally")
	}
}

func TestDeleteNoteUnderEditAbandonsDraft(t *testing.T) {
	api := newFakeNoteAPI("editing this")
	coord := loaded(t, api)
	ctx := context.Background()

	if err := coord.BeginEdit(ctx, 1); err != nil {
		t.Fatalf("BeginEdit() error = %v", err)
	}
	coord.SetDraft("never committed")

	if err := coord.Delete(ctx, 1); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	if _, ok := coord.EditingID(); ok {
		t.Error("Delete() left the removed note in edit mode")
	}
	if api.updates != 0 {
		t.Error("deleting the note under edit must abandon its draft, not commit it")
	}
	if len(coord.Notes()) != 0 {
		t.Errorf("notes = %v, want empty", contents(coord))
	}
}

func TestLoadReplacesList(t *testing.T) {
	api := newFakeNoteAPI("one", "two")
	coord := loaded(t, api)
	ctx := context.Background()

	if _, err := api.Create(ctx, "three"); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := coord.Load(ctx); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	got := contents(coord)
	if len(got) != 3 || got[2] != "three" {
		t.Errorf("notes = %v, want server order with three appended", got)
	}
}
