package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ActivityAction string

const (
	ActionTaskCreated   ActivityAction = "task_created"
	ActionTaskUpdated   ActivityAction = "task_updated"
	ActionStatusChanged ActivityAction = "status_changed"
	ActionTaskDeleted   ActivityAction = "task_deleted"
)

// Activity is an append-only audit record written alongside task mutations.
// It is advisory: writes are best-effort and never transactional with the
// mutation they describe.
type Activity struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	User        primitive.ObjectID `bson:"user" json:"user"`
	Action      ActivityAction     `bson:"action" json:"action"`
	TargetType  string             `bson:"targetType" json:"targetType"`
	TargetID    primitive.ObjectID `bson:"targetId" json:"targetId"`
	ProjectName string             `bson:"projectName" json:"projectName"`
	Description string             `bson:"description" json:"description"`
	Metadata    map[string]any     `bson:"metadata,omitempty" json:"metadata,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"created_at"`
}
