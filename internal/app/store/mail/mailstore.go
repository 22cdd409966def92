// internal/app/store/mail/mailstore.go
package mailstore

import (
	"context"
	"fmt"
	"time"

	"github.com/budgetbuddy/server/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
)

// Store appends outbound-email jobs to the mail collection. This service
// never reads the collection back; an external mail dispatcher consumes
// it and owns delivery, retries, and bounce handling.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("mail")}
}

// Enqueue writes one mail job with a generated key.
func (s *Store) Enqueue(ctx context.Context, msg models.MailMessage) error {
	if msg.To == "" {
		return fmt.Errorf("enqueue mail: empty recipient")
	}
	msg.CreatedAt = time.Now().UTC()
	if _, err := s.c.InsertOne(ctx, msg); err != nil {
		return fmt.Errorf("enqueue mail: %w", err)
	}
	return nil
}
