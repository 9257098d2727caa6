package databases

// go generate: mockery --name CaseDatabase

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/linesmerrill/party-cms-api/models"
)

const (
	caseName  = "disciplinarycases"
	caseField = "disciplinaryCase"

	// DefaultCaseLimit is the page size used when a listing does not set one
	DefaultCaseLimit = 10
	// MaxCaseLimit caps the page size of a listing
	MaxCaseLimit = 100
)

var (
	// ErrNotFound is returned when no case matches the given id
	ErrNotFound = errors.New("disciplinary case not found")
	// ErrDuplicateCaseNumber is returned when an insert collides on the unique case number index
	ErrDuplicateCaseNumber = errors.New("case number already exists")
)

// CaseDatabase contains the methods to use with the disciplinary case database
type CaseDatabase interface {
	InsertOne(ctx context.Context, c models.DisciplinaryCase) (*models.DisciplinaryCase, error)
	FindByID(ctx context.Context, id string) (*models.DisciplinaryCase, error)
	Find(ctx context.Context, filter models.CaseFilter) ([]models.DisciplinaryCase, error)
	CountDocuments(ctx context.Context, filter models.CaseFilter) (int64, error)
	UpdateFields(ctx context.Context, id string, update models.CaseUpdate, now time.Time) (*models.DisciplinaryCase, error)
	AppendNote(ctx context.Context, id, separator, text string, now time.Time) (*models.DisciplinaryCase, error)
	AppendImages(ctx context.Context, id string, urls []string, now time.Time) (*models.DisciplinaryCase, error)
	IsReferenced(ctx context.Context, url string) (bool, error)
	EnsureIndexes(ctx context.Context) error
}

type caseDatabase struct {
	db DatabaseHelper
}

// NewCaseDatabase initializes a new instance of disciplinary case database with the provided db connection
func NewCaseDatabase(db DatabaseHelper) CaseDatabase {
	return &caseDatabase{
		db: db,
	}
}

func (c *caseDatabase) InsertOne(ctx context.Context, dc models.DisciplinaryCase) (*models.DisciplinaryCase, error) {
	if dc.ID.IsZero() {
		dc.ID = primitive.NewObjectID()
	}
	_, err := c.db.Collection(caseName).InsertOne(ctx, dc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicateCaseNumber
		}
		return nil, errors.Wrap(err, "failed to insert disciplinary case")
	}
	return &dc, nil
}

func (c *caseDatabase) FindByID(ctx context.Context, id string) (*models.DisciplinaryCase, error) {
	oID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	dc := &models.DisciplinaryCase{}
	err = c.db.Collection(caseName).FindOne(ctx, bson.M{"_id": oID}).Decode(&dc)
	if err != nil {
		return nil, notFoundOr(err, "failed to find disciplinary case")
	}
	return dc, nil
}

func (c *caseDatabase) Find(ctx context.Context, filter models.CaseFilter) ([]models.DisciplinaryCase, error) {
	opts := newMongoPaginate(filter.Limit, filter.Page).getPaginatedOpts()
	opts.SetSort(bson.M{"_id": -1})

	var cases []models.DisciplinaryCase
	curr, err := c.db.Collection(caseName).Find(ctx, caseFilterQuery(filter), opts)
	if err != nil {
		return nil, errors.Wrap(err, "failed to find disciplinary cases")
	}
	err = curr.All(ctx, &cases)
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode disciplinary cases")
	}
	if cases == nil {
		cases = []models.DisciplinaryCase{}
	}
	return cases, nil
}

func (c *caseDatabase) CountDocuments(ctx context.Context, filter models.CaseFilter) (int64, error) {
	return c.db.Collection(caseName).CountDocuments(ctx, caseFilterQuery(filter))
}

// UpdateFields sets the non-nil fields of update. A note on the update turns the write into
// a pipeline so the fields and the appended note land together.
func (c *caseDatabase) UpdateFields(ctx context.Context, id string, update models.CaseUpdate, now time.Time) (*models.DisciplinaryCase, error) {
	set := caseUpdateSet(update)
	if update.Note != nil {
		return c.findOneAndUpdate(ctx, id, noteAppendPipeline(update.Note.Separator, update.Note.Text, now, set))
	}
	set[caseField+".updatedAt"] = primitive.NewDateTimeFromTime(now)
	return c.findOneAndUpdate(ctx, id, bson.M{"$set": set})
}

// AppendNote concatenates text onto the stored notes in a single server-side update, so
// concurrent appends never overwrite each other. Empty notes are replaced by text alone.
func (c *caseDatabase) AppendNote(ctx context.Context, id, separator, text string, now time.Time) (*models.DisciplinaryCase, error) {
	return c.findOneAndUpdate(ctx, id, noteAppendPipeline(separator, text, now, nil))
}

func (c *caseDatabase) AppendImages(ctx context.Context, id string, urls []string, now time.Time) (*models.DisciplinaryCase, error) {
	update := bson.M{
		"$push": bson.M{caseField + ".imageUrls": bson.M{"$each": urls}},
		"$set":  bson.M{caseField + ".updatedAt": primitive.NewDateTimeFromTime(now)},
	}
	return c.findOneAndUpdate(ctx, id, update)
}

// IsReferenced reports whether any case holds url as its photo, an image or an evidence item
func (c *caseDatabase) IsReferenced(ctx context.Context, url string) (bool, error) {
	query := bson.M{"$or": bson.A{
		bson.M{caseField + ".photoRef": url},
		bson.M{caseField + ".imageUrls": url},
		bson.M{caseField + ".evidenceUrls": url},
	}}
	n, err := c.db.Collection(caseName).CountDocuments(ctx, query, options.Count().SetLimit(1))
	if err != nil {
		return false, errors.Wrap(err, "failed to look up upload references")
	}
	return n > 0, nil
}

func (c *caseDatabase) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: caseField + ".caseNumber", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("caseNumber_unique"),
		},
		{
			Keys:    bson.D{{Key: caseField + ".visibility", Value: 1}, {Key: caseField + ".status", Value: 1}},
			Options: options.Index().SetName("visibility_status"),
		},
	}
	for _, m := range indexes {
		if _, err := c.db.Collection(caseName).CreateIndex(ctx, m); err != nil {
			return errors.Wrap(err, "failed to create disciplinary case index")
		}
	}
	return nil
}

func (c *caseDatabase) findOneAndUpdate(ctx context.Context, id string, update interface{}) (*models.DisciplinaryCase, error) {
	oID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	after := options.After
	dc := &models.DisciplinaryCase{}
	err = c.db.Collection(caseName).FindOneAndUpdate(ctx, bson.M{"_id": oID}, update,
		&options.FindOneAndUpdateOptions{ReturnDocument: &after}).Decode(&dc)
	if err != nil {
		return nil, notFoundOr(err, "failed to update disciplinary case")
	}
	return dc, nil
}

func notFoundOr(err error, message string) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return errors.Wrap(err, message)
}

func caseFilterQuery(f models.CaseFilter) bson.M {
	query := bson.M{}
	if f.Status != "" {
		query[caseField+".status"] = f.Status
	}
	if f.Category != "" {
		query[caseField+".category"] = f.Category
	}
	if f.Visibility != "" {
		query[caseField+".visibility"] = f.Visibility
	}
	if search := strings.TrimSpace(f.Search); search != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(search), Options: "i"}
		query["$or"] = bson.A{
			bson.M{caseField + ".caseNumber": pattern},
			bson.M{caseField + ".subjectName": pattern},
		}
	}
	return query
}

func caseUpdateSet(u models.CaseUpdate) bson.M {
	set := bson.M{}
	if u.Status != nil {
		set[caseField+".status"] = *u.Status
	}
	if u.ReviewAuthority != nil {
		set[caseField+".reviewAuthority"] = *u.ReviewAuthority
	}
	if u.ReviewStartDate != nil {
		set[caseField+".reviewStartDate"] = *u.ReviewStartDate
	}
	if u.ActionOutcome != nil {
		set[caseField+".actionOutcome"] = *u.ActionOutcome
	}
	if u.DecisionRationale != nil {
		set[caseField+".decisionRationale"] = *u.DecisionRationale
	}
	if u.DecisionAuthority != nil {
		set[caseField+".decisionAuthority"] = *u.DecisionAuthority
	}
	if u.DecisionDate != nil {
		set[caseField+".decisionDate"] = *u.DecisionDate
	}
	if u.EffectiveFrom != nil {
		set[caseField+".effectiveFrom"] = *u.EffectiveFrom
	}
	if u.EffectiveTo != nil {
		set[caseField+".effectiveTo"] = *u.EffectiveTo
	}
	if u.Visibility != nil {
		set[caseField+".visibility"] = *u.Visibility
	}
	return set
}

// noteAppendPipeline builds an update pipeline that appends to internalNotes and sets fields
// alongside. The new text and field values are wrapped in $literal so user content starting
// with "$" is never read as a field path.
func noteAppendPipeline(separator, text string, now time.Time, fields bson.M) []bson.M {
	notes := "$" + caseField + ".internalNotes"
	set := bson.M{
		caseField + ".internalNotes": bson.M{"$cond": bson.A{
			bson.M{"$gt": bson.A{bson.M{"$strLenCP": bson.M{"$ifNull": bson.A{notes, ""}}}, 0}},
			bson.M{"$concat": bson.A{notes, bson.M{"$literal": separator + text}}},
			bson.M{"$literal": text},
		}},
		caseField + ".updatedAt": primitive.NewDateTimeFromTime(now),
	}
	for k, v := range fields {
		set[k] = bson.M{"$literal": v}
	}
	return []bson.M{{"$set": set}}
}
