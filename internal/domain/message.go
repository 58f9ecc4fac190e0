package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Message is one entry in the coach/client conversation thread.
type Message struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SenderID   primitive.ObjectID `bson:"senderId" json:"senderId"`
	ReceiverID primitive.ObjectID `bson:"receiverId" json:"receiverId"`
	Body       string             `bson:"body" json:"body"`
	ReadAt     *time.Time         `bson:"readAt,omitempty" json:"readAt,omitempty"`
	SentAt     time.Time          `bson:"sentAt" json:"sentAt"`
}
