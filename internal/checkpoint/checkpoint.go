package checkpoint

import (
	"time"
)

// Checkpoint is the durable resumption marker for one source stream.
// The paginated API source uses LastPage/NextPage (nil NextPage means the
// stream is exhausted); the file source uses LastLine (last fully processed
// line, 0 means start of file).
type Checkpoint struct {
	LastPage  int       `json:"last_page,omitempty"`
	NextPage  *string   `json:"next_page,omitempty"`
	LastLine  int64     `json:"last_line,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Store persists per-source resumption state. A checkpoint is only saved
// after the batch it covers has been durably persisted.
type Store interface {
	// Load returns the checkpoint for sourceKey, with present=false when no
	// checkpoint has ever been saved (the stream starts from the beginning).
	Load(sourceKey string) (cp Checkpoint, present bool, err error)
	Save(sourceKey string, cp Checkpoint) error
}
