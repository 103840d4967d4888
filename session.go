package navigator

import (
	"context"
	"time"
)

// Session holds the state of one pipeline run across CLI invocations.
type Session struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	Registry       Registry       `json:"registry"`
	Documents      []*Document    `json:"documents"`
	Models         ModelConfig    `json:"models"`
	PromptTemplate PromptTemplate `json:"promptTemplate"`
	IndexPath      string         `json:"indexPath"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}

// NewSession returns a session with default models and prompt.
func NewSession(name string) *Session {
	return &Session{
		Name:           name,
		Models:         DefaultModelConfig(),
		PromptTemplate: DefaultPromptTemplate,
	}
}

// Validate returns an error if the session contains invalid fields.
func (s *Session) Validate() error {
	if s.Name == "" {
		return Errorf(EINVALID, "session name required")
	}
	if err := s.Registry.Validate(); err != nil {
		return err
	}
	if err := s.Models.Validate(); err != nil {
		return err
	}
	return s.PromptTemplate.Validate()
}

// SessionService represents a service for managing sessions.
type SessionService interface {
	// CreateSession creates a new session.
	// Returns ECONFLICT if a session with the same name exists.
	CreateSession(ctx context.Context, session *Session) error

	// FindSessionByID retrieves a session by ID, including its registry
	// and documents.
	// Returns ENOTFOUND if session does not exist.
	FindSessionByID(ctx context.Context, id string) (*Session, error)

	// FindSessions retrieves sessions matching the filter. Registry and
	// documents are not loaded.
	FindSessions(ctx context.Context, filter SessionFilter) ([]*Session, error)

	// UpdateSession applies the update and returns the updated session.
	// Returns ENOTFOUND if session does not exist.
	UpdateSession(ctx context.Context, id string, upd SessionUpdate) (*Session, error)

	// DeleteSession permanently removes a session with its registry and documents.
	// Returns ENOTFOUND if session does not exist.
	DeleteSession(ctx context.Context, id string) error
}

// SessionFilter represents a filter for FindSessions.
type SessionFilter struct {
	ID   *string `json:"id"`
	Name *string `json:"name"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// SessionUpdate represents fields that can be updated on a session.
// Registry and Documents replace the stored rows wholesale.
type SessionUpdate struct {
	Name           *string         `json:"name"`
	Registry       *Registry       `json:"registry"`
	Documents      *[]*Document    `json:"documents"`
	Models         *ModelConfig    `json:"models"`
	PromptTemplate *PromptTemplate `json:"promptTemplate"`
	IndexPath      *string         `json:"indexPath"`
}
