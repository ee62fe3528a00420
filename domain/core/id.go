package core

import (
	"github.com/google/uuid"
)

// ID represents a domain identifier
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return ID(id.String())
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty
func (id ID) IsEmpty() bool {
	return id == ""
}

// PredictionID identifies a single prediction in logs and responses.
type PredictionID ID

func (id PredictionID) String() string { return ID(id).String() }

// NewPredictionID returns a fresh prediction identifier.
func NewPredictionID() PredictionID {
	return PredictionID(NewID())
}
