package services

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Sahitha-chunduri/projectflow/internal/models"
	"github.com/Sahitha-chunduri/projectflow/internal/repository"
)

// ActivityRecorder writes audit records as a best-effort side effect of task
// mutations. Writes happen on their own goroutine with their own deadline and
// failures are logged, never returned: the activity log is advisory and is not
// guaranteed consistent with the primary data.
type ActivityRecorder struct {
	repo    repository.ActivityRepository
	log     *logrus.Logger
	timeout time.Duration
	wg      sync.WaitGroup
}

// NewActivityRecorder creates a new ActivityRecorder.
func NewActivityRecorder(repo repository.ActivityRepository, log *logrus.Logger) *ActivityRecorder {
	return &ActivityRecorder{
		repo:    repo,
		log:     log,
		timeout: 5 * time.Second,
	}
}

// Record fires an activity write without blocking the caller.
func (r *ActivityRecorder) Record(userID primitive.ObjectID, action models.ActivityAction, targetType string, targetID primitive.ObjectID, projectName, description string, metadata map[string]any) {
	activity := &models.Activity{
		User:        userID,
		Action:      action,
		TargetType:  targetType,
		TargetID:    targetID,
		ProjectName: projectName,
		Description: description,
		Metadata:    metadata,
		CreatedAt:   time.Now(),
	}

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		defer cancel()

		if err := r.repo.Create(ctx, activity); err != nil {
			r.log.WithFields(logrus.Fields{
				"action":  action,
				"target":  targetID.Hex(),
				"project": projectName,
			}).WithError(err).Warn("activity write failed")
		}
	}()
}

// Wait blocks until all in-flight activity writes have finished. Used on
// shutdown and in tests.
func (r *ActivityRecorder) Wait() {
	r.wg.Wait()
}
