// internal/app/events/events.go

// Package events turns MongoDB change streams into workflow calls. Each
// watched collection maps document mutations onto the stateless handlers
// in internal/app/workflow; delivery is at-least-once, so every handler
// must be (and is) idempotent.
package events

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
)

// change is the decoded shape of one change-stream event. Before-images
// are only present when the collection has pre-images enabled; handlers
// must tolerate their absence.
type change struct {
	ID                       bson.Raw `bson:"_id"` // resume token
	OperationType            string   `bson:"operationType"`
	FullDocument             bson.Raw `bson:"fullDocument"`
	FullDocumentBeforeChange bson.Raw `bson:"fullDocumentBeforeChange"`
}

const (
	opInsert  = "insert"
	opUpdate  = "update"
	opReplace = "replace"
	opDelete  = "delete"
)

// decode unmarshals a raw change-stream document into a model value.
// A missing raw document yields nil.
func decode[T any](raw bson.Raw) (*T, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var v T
	if err := bson.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("decode change document: %w", err)
	}
	return &v, nil
}
