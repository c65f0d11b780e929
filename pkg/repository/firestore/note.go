package firestore

import (
	"time"

	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/papyrus-lab/papyrus/pkg/domain/model"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// noteDoc is the Firestore document representation of model.Note.
// Embedding is stored as firestore.Vector32 so that FindNearest vector
// search works against the same field.
type noteDoc struct {
	ID         model.NoteID       `firestore:"ID"`
	Title      string             `firestore:"Title"`
	Content    string             `firestore:"Content"`
	Tags       []string           `firestore:"Tags"`
	Summary    string             `firestore:"Summary"`
	Embedding  firestore.Vector32 `firestore:"Embedding,omitempty"`
	OwnerID    string             `firestore:"OwnerID"`
	SharedWith []string           `firestore:"SharedWith"`
	CreatedAt  time.Time          `firestore:"CreatedAt"`
	UpdatedAt  time.Time          `firestore:"UpdatedAt"`
	Versions   []versionDoc       `firestore:"Versions"`
}

type versionDoc struct {
	Title     string    `firestore:"Title"`
	Content   string    `firestore:"Content"`
	Timestamp time.Time `firestore:"Timestamp"`
}

func toNoteDoc(n *model.Note) *noteDoc {
	doc := &noteDoc{
		ID:        n.ID,
		Title:     n.Title,
		Content:   n.Content,
		Tags:      n.Tags,
		Summary:   n.Summary,
		OwnerID:   string(n.OwnerID),
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}
	if len(n.Embedding) > 0 {
		doc.Embedding = firestore.Vector32(n.Embedding)
	}
	for _, uid := range n.SharedWith {
		doc.SharedWith = append(doc.SharedWith, string(uid))
	}
	for _, v := range n.Versions {
		doc.Versions = append(doc.Versions, versionDoc{
			Title:     v.Title,
			Content:   v.Content,
			Timestamp: v.Timestamp,
		})
	}
	return doc
}

func fromNoteDoc(d *noteDoc) *model.Note {
	n := &model.Note{
		ID:        d.ID,
		Title:     d.Title,
		Content:   d.Content,
		Tags:      d.Tags,
		Summary:   d.Summary,
		OwnerID:   model.UserID(d.OwnerID),
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
	if len(d.Embedding) > 0 {
		n.Embedding = []float32(d.Embedding)
	}
	for _, uid := range d.SharedWith {
		n.SharedWith = append(n.SharedWith, model.UserID(uid))
	}
	for _, v := range d.Versions {
		n.Versions = append(n.Versions, model.Version{
			Title:     v.Title,
			Content:   v.Content,
			Timestamp: v.Timestamp,
		})
	}
	return n
}

func docToNote(doc *firestore.DocumentSnapshot) (*model.Note, error) {
	var d noteDoc
	if err := doc.DataTo(&d); err != nil {
		return nil, err
	}
	return fromNoteDoc(&d), nil
}

type noteRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newNoteRepository(client *firestore.Client) *noteRepository {
	return &noteRepository{
		client: client,
	}
}

func (r *noteRepository) notesCollection() *firestore.CollectionRef {
	return r.client.Collection(r.collectionPrefix + "notes")
}

func (r *noteRepository) Put(ctx context.Context, note *model.Note) (*model.Note, error) {
	if err := note.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid note")
	}

	docRef := r.notesCollection().Doc(string(note.ID))
	if _, err := docRef.Set(ctx, toNoteDoc(note)); err != nil {
		return nil, goerr.Wrap(err, "failed to put note", goerr.V("id", note.ID))
	}

	return note, nil
}

func (r *noteRepository) Get(ctx context.Context, id model.NoteID) (*model.Note, error) {
	doc, err := r.notesCollection().Doc(string(id)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "note not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get note", goerr.V("id", id))
	}

	n, err := docToNote(doc)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal note", goerr.V("id", id))
	}

	return n, nil
}

func (r *noteRepository) ListByOwner(ctx context.Context, ownerID model.UserID) ([]*model.Note, error) {
	iter := r.notesCollection().
		Where("OwnerID", "==", string(ownerID)).
		OrderBy("UpdatedAt", firestore.Desc).
		Documents(ctx)
	defer iter.Stop()

	notes := make([]*model.Note, 0)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate notes", goerr.V("ownerID", ownerID))
		}

		n, err := docToNote(doc)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal note")
		}

		notes = append(notes, n)
	}

	return notes, nil
}

func (r *noteRepository) Delete(ctx context.Context, id model.NoteID) error {
	docRef := r.notesCollection().Doc(string(id))

	// Delete on a missing doc is a silent no-op in Firestore, so check
	// existence first to keep NotFound semantics aligned with the
	// memory repository.
	if _, err := docRef.Get(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(ErrNotFound, "note not found", goerr.V("id", id))
		}
		return goerr.Wrap(err, "failed to get note before delete", goerr.V("id", id))
	}

	if _, err := docRef.Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete note", goerr.V("id", id))
	}
	return nil
}
