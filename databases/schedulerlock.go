package databases

// go generate: mockery --name SchedulerLockDatabase

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/linesmerrill/party-cms-api/models"
)

const schedulerLockName = "schedulerlocks"

// SchedulerLockDatabase hands out expiring leases on named background jobs
type SchedulerLockDatabase interface {
	TryAcquireLock(ctx context.Context, job, owner string, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, job, owner string) error
}

type schedulerLockDatabase struct {
	db DatabaseHelper
}

// NewSchedulerLockDatabase initializes a new instance of scheduler lock database with the provided db connection
func NewSchedulerLockDatabase(db DatabaseHelper) SchedulerLockDatabase {
	return &schedulerLockDatabase{
		db: db,
	}
}

// TryAcquireLock takes the lease when it is free, expired, or already held by owner. A
// duplicate key error means another owner holds a live lease.
func (s *schedulerLockDatabase) TryAcquireLock(ctx context.Context, job, owner string, ttl time.Duration) (bool, error) {
	now := time.Now()
	filter := bson.M{
		"_id": job,
		"$or": bson.A{
			bson.M{"expiresAt": bson.M{"$lt": primitive.NewDateTimeFromTime(now)}},
			bson.M{"owner": owner},
		},
	}
	update := bson.M{"$set": bson.M{
		"owner":     owner,
		"expiresAt": primitive.NewDateTimeFromTime(now.Add(ttl)),
	}}
	upsert := true
	after := options.After

	lock := &models.SchedulerLock{}
	err := s.db.Collection(schedulerLockName).FindOneAndUpdate(ctx, filter, update,
		&options.FindOneAndUpdateOptions{Upsert: &upsert, ReturnDocument: &after}).Decode(&lock)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return false, nil
		}
		return false, errors.Wrapf(err, "failed to acquire lock %s", job)
	}
	return lock.Owner == owner, nil
}

func (s *schedulerLockDatabase) ReleaseLock(ctx context.Context, job, owner string) error {
	return s.db.Collection(schedulerLockName).DeleteOne(ctx, bson.M{"_id": job, "owner": owner})
}
