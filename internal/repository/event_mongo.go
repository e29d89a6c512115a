package repository

import (
	"context"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ahmednasr/code-analyzer/server/internal/logging"
	"github.com/ahmednasr/code-analyzer/server/internal/models"
)

// EventRepository provides Mongo-backed storage for request events.
type EventRepository struct {
	col *mongo.Collection
	log *logrus.Entry
}

// NewEventRepository returns an EventRepository that operates on the "analysis_events" collection.
func NewEventRepository(db *mongo.Database) *EventRepository {
	return &EventRepository{
		col: db.Collection("analysis_events"),
		log: logging.Component("event-log"),
	}
}

// Insert stores a single event.
func (r *EventRepository) Insert(ctx context.Context, e models.AnalysisEvent) error {
	if _, err := r.col.InsertOne(ctx, e); err != nil {
		r.log.WithError(err).WithField("id", e.ID).Error("Error inserting event")
		return err
	}
	r.log.WithFields(logrus.Fields{"id": e.ID, "kind": e.Kind}).Debug("Event stored")
	return nil
}

