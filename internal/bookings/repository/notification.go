package repository

import (
	"context"
	"fmt"
	"time"

	"domus/pkg/config"
	"domus/pkg/model"

	"go.mongodb.org/mongo-driver/mongo"
)

const (
	NotificationsCollectionName = "Notifications"
)

// NotificationRepository records outbound user notifications. Writes are
// fire-and-forget from the service's point of view; nothing reads them back.
type NotificationRepository interface {
	Insert(ctx context.Context, n *model.OutboundNotification) error
}

type mongoNotificationRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoNotificationRepository(cfg *config.Config) NotificationRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoNotificationRepository{
		cfg:        cfg,
		collection: db.Collection(NotificationsCollectionName),
	}
}

func (r *mongoNotificationRepository) Insert(ctx context.Context, n *model.OutboundNotification) error {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	n.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	if _, err := r.collection.InsertOne(ctx, n); err != nil {
		return fmt.Errorf("failed to insert notification record: %w", err)
	}
	return nil
}
