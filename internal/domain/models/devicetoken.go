// internal/domain/models/devicetoken.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DeviceToken is one installed app instance able to receive pushes.
// Token values are opaque FCM registration tokens; a user may have any
// number of them (one per device/reinstall) and may have none at all.
type DeviceToken struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UID       string             `bson:"uid"`
	Token     string             `bson:"token"`
	Platform  string             `bson:"platform,omitempty"` // "android" | "ios"
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at,omitempty"`
}
