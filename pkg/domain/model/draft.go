package model

import "time"

// DraftKeyNew is the sentinel draft key for a note that has not been
// saved yet and therefore has no ID of its own.
const DraftKeyNew DraftKey = "new"

// DraftKey addresses a draft: either the ID of an existing note or the
// DraftKeyNew sentinel.
type DraftKey string

// DraftKeyFor returns the draft key for a note ID, or DraftKeyNew when
// the ID is empty.
func DraftKeyFor(id NoteID) DraftKey {
	if id == "" {
		return DraftKeyNew
	}
	return DraftKey(id)
}

// Draft is an ephemeral local-only snapshot of in-progress edits. It
// exists only to survive a client restart before the first successful
// save and is deleted once the real note is persisted.
type Draft struct {
	Key     DraftKey
	OwnerID UserID
	Title   string
	Content string
	Tags    []string
	SavedAt time.Time
}

// Clone returns a deep copy of the draft
func (d *Draft) Clone() *Draft {
	copied := *d
	if d.Tags != nil {
		copied.Tags = make([]string, len(d.Tags))
		copy(copied.Tags, d.Tags)
	}
	return &copied
}
