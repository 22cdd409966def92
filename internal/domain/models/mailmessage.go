// internal/domain/models/mailmessage.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MailBody is the subject/text/html payload of an outbound email.
type MailBody struct {
	Subject string `bson:"subject"`
	Text    string `bson:"text"`
	HTML    string `bson:"html"`
}

// MailMessage is one outbound-email job appended to the mail collection.
// This service only ever writes these; an external mail dispatcher
// consumes the collection and performs delivery.
type MailMessage struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	To        string             `bson:"to"`
	Message   MailBody           `bson:"message"`
	CreatedAt time.Time          `bson:"created_at"`
}
