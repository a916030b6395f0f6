package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification 审核结果通知。投递是尽力而为的，
// 审核流程不因通知写入失败而失败。
type Notification struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ReceiverID string             `bson:"receiver_id" json:"receiverId"`
	Message    string             `bson:"message" json:"message"`
	IsRead     bool               `bson:"is_read" json:"isRead"`
	CreatedAt  time.Time          `bson:"created_at" json:"createdAt"`
}
