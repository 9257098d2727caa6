package databases

// go generate: mockery --name UploadDatabase

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/linesmerrill/party-cms-api/models"
)

const uploadName = "uploads"

// UploadDatabase contains the methods to use with the upload ledger
type UploadDatabase interface {
	InsertOne(ctx context.Context, upload models.Upload) error
	MarkAttached(ctx context.Context, urls []string, caseID string) error
	FindOrphans(ctx context.Context, olderThan time.Time, limit int64) ([]models.Upload, error)
	DeleteOne(ctx context.Context, id primitive.ObjectID) error
}

type uploadDatabase struct {
	db DatabaseHelper
}

// NewUploadDatabase initializes a new instance of upload database with the provided db connection
func NewUploadDatabase(db DatabaseHelper) UploadDatabase {
	return &uploadDatabase{
		db: db,
	}
}

func (u *uploadDatabase) InsertOne(ctx context.Context, upload models.Upload) error {
	if upload.ID.IsZero() {
		upload.ID = primitive.NewObjectID()
	}
	_, err := u.db.Collection(uploadName).InsertOne(ctx, upload)
	return errors.Wrap(err, "failed to record upload")
}

func (u *uploadDatabase) MarkAttached(ctx context.Context, urls []string, caseID string) error {
	if len(urls) == 0 {
		return nil
	}
	_, err := u.db.Collection(uploadName).UpdateMany(ctx,
		bson.M{"url": bson.M{"$in": urls}},
		bson.M{"$set": bson.M{"attached": true, "caseId": caseID}},
	)
	return errors.Wrap(err, "failed to mark uploads attached")
}

func (u *uploadDatabase) FindOrphans(ctx context.Context, olderThan time.Time, limit int64) ([]models.Upload, error) {
	var uploads []models.Upload
	curr, err := u.db.Collection(uploadName).Find(ctx, bson.M{
		"attached":  false,
		"createdAt": bson.M{"$lt": primitive.NewDateTimeFromTime(olderThan)},
	}, &options.FindOptions{
		Limit: &limit,
		Sort:  bson.M{"createdAt": 1},
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to find orphan uploads")
	}
	if err = curr.All(ctx, &uploads); err != nil {
		return nil, errors.Wrap(err, "failed to decode orphan uploads")
	}
	return uploads, nil
}

func (u *uploadDatabase) DeleteOne(ctx context.Context, id primitive.ObjectID) error {
	return u.db.Collection(uploadName).DeleteOne(ctx, bson.M{"_id": id})
}
