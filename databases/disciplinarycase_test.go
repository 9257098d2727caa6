package databases_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/linesmerrill/party-cms-api/config"
	"github.com/linesmerrill/party-cms-api/databases"
	"github.com/linesmerrill/party-cms-api/databases/mocks"
	"github.com/linesmerrill/party-cms-api/models"
)

func TestNewCaseDatabase(t *testing.T) {
	_ = os.Setenv("DB_URI", "mongodb://127.0.0.1:27017")
	_ = os.Setenv("DB_NAME", "test")
	conf := config.New()

	dbClient, err := databases.NewClient(conf)
	assert.NoError(t, err)

	db := databases.NewDatabase(conf, dbClient)

	caseDB := databases.NewCaseDatabase(db)

	assert.NotEmpty(t, caseDB)
}

func TestCaseDatabase_FindByID(t *testing.T) {
	var dbHelper databases.DatabaseHelper
	var collectionHelper databases.CollectionHelper
	var srHelperErr databases.SingleResultHelper
	var srHelperMissing databases.SingleResultHelper
	var srHelperCorrect databases.SingleResultHelper

	dbHelper = &mocks.DatabaseHelper{}
	collectionHelper = &mocks.CollectionHelper{}
	srHelperErr = &mocks.SingleResultHelper{}
	srHelperMissing = &mocks.SingleResultHelper{}
	srHelperCorrect = &mocks.SingleResultHelper{}

	errID := primitive.NewObjectID()
	missingID := primitive.NewObjectID()
	okID := primitive.NewObjectID()

	srHelperErr.(*mocks.SingleResultHelper).
		On("Decode", mock.Anything).
		Return(errors.New("mocked-error"))

	srHelperMissing.(*mocks.SingleResultHelper).
		On("Decode", mock.Anything).
		Return(mongo.ErrNoDocuments)

	srHelperCorrect.(*mocks.SingleResultHelper).
		On("Decode", mock.Anything).
		Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(**models.DisciplinaryCase)
		(*arg).ID = okID
		(*arg).Details.CaseNumber = "DC-202401-1234"
	})

	collectionHelper.(*mocks.CollectionHelper).
		On("FindOne", context.Background(), bson.M{"_id": errID}).
		Return(srHelperErr)
	collectionHelper.(*mocks.CollectionHelper).
		On("FindOne", context.Background(), bson.M{"_id": missingID}).
		Return(srHelperMissing)
	collectionHelper.(*mocks.CollectionHelper).
		On("FindOne", context.Background(), bson.M{"_id": okID}).
		Return(srHelperCorrect)

	dbHelper.(*mocks.DatabaseHelper).
		On("Collection", "disciplinarycases").Return(collectionHelper)

	caseDba := databases.NewCaseDatabase(dbHelper)

	dc, err := caseDba.FindByID(context.Background(), errID.Hex())
	assert.Nil(t, dc)
	assert.EqualError(t, err, "failed to find disciplinary case: mocked-error")

	dc, err = caseDba.FindByID(context.Background(), missingID.Hex())
	assert.Nil(t, dc)
	assert.Equal(t, databases.ErrNotFound, err)

	dc, err = caseDba.FindByID(context.Background(), "not-an-object-id")
	assert.Nil(t, dc)
	assert.Equal(t, databases.ErrNotFound, err)

	dc, err = caseDba.FindByID(context.Background(), okID.Hex())
	assert.NoError(t, err)
	assert.Equal(t, okID, dc.ID)
	assert.Equal(t, "DC-202401-1234", dc.Details.CaseNumber)
}

func TestCaseDatabase_InsertOne(t *testing.T) {
	dbHelper := &mocks.DatabaseHelper{}
	collectionHelper := &mocks.CollectionHelper{}
	insertResult := &mocks.InsertOneResultHelper{}

	dup := mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000, Message: "E11000 duplicate key error"}}}

	collectionHelper.
		On("InsertOne", context.Background(), mock.MatchedBy(func(c models.DisciplinaryCase) bool {
			return c.Details.CaseNumber == "DC-202401-1000"
		})).
		Return(nil, dup)
	collectionHelper.
		On("InsertOne", context.Background(), mock.MatchedBy(func(c models.DisciplinaryCase) bool {
			return c.Details.CaseNumber == "DC-202401-2000"
		})).
		Return(nil, errors.New("mocked-error"))
	collectionHelper.
		On("InsertOne", context.Background(), mock.MatchedBy(func(c models.DisciplinaryCase) bool {
			return c.Details.CaseNumber == "DC-202401-3000"
		})).
		Return(insertResult, nil)

	dbHelper.On("Collection", "disciplinarycases").Return(collectionHelper)

	caseDba := databases.NewCaseDatabase(dbHelper)

	_, err := caseDba.InsertOne(context.Background(), models.DisciplinaryCase{Details: models.DisciplinaryCaseDetails{CaseNumber: "DC-202401-1000"}})
	assert.Equal(t, databases.ErrDuplicateCaseNumber, err)

	_, err = caseDba.InsertOne(context.Background(), models.DisciplinaryCase{Details: models.DisciplinaryCaseDetails{CaseNumber: "DC-202401-2000"}})
	assert.EqualError(t, err, "failed to insert disciplinary case: mocked-error")

	dc, err := caseDba.InsertOne(context.Background(), models.DisciplinaryCase{Details: models.DisciplinaryCaseDetails{CaseNumber: "DC-202401-3000"}})
	require.NoError(t, err)
	assert.False(t, dc.ID.IsZero())
	assert.Equal(t, "DC-202401-3000", dc.Details.CaseNumber)
}

func TestCaseDatabase_Find(t *testing.T) {
	dbHelper := &mocks.DatabaseHelper{}
	collectionHelper := &mocks.CollectionHelper{}
	cursorHelper := &mocks.CursorHelper{}

	cursorHelper.
		On("All", context.Background(), mock.Anything).
		Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(1).(*[]models.DisciplinaryCase)
		*arg = []models.DisciplinaryCase{{Details: models.DisciplinaryCaseDetails{SubjectName: "A. Leader"}}}
	})

	expectedQuery := bson.M{
		"disciplinaryCase.visibility": models.VisibilityPublic,
		"$or": bson.A{
			bson.M{"disciplinaryCase.caseNumber": primitive.Regex{Pattern: `a\.leader`, Options: "i"}},
			bson.M{"disciplinaryCase.subjectName": primitive.Regex{Pattern: `a\.leader`, Options: "i"}},
		},
	}
	collectionHelper.
		On("Find", context.Background(), expectedQuery, mock.MatchedBy(func(opts *options.FindOptions) bool {
			return *opts.Limit == 100 && *opts.Skip == 200
		})).
		Return(cursorHelper, nil)

	dbHelper.On("Collection", "disciplinarycases").Return(collectionHelper)

	caseDba := databases.NewCaseDatabase(dbHelper)

	cases, err := caseDba.Find(context.Background(), models.CaseFilter{
		Visibility: models.VisibilityPublic,
		Search:     " a.leader ",
		Page:       2,
		Limit:      500,
	})
	require.NoError(t, err)
	assert.Len(t, cases, 1)
	assert.Equal(t, "A. Leader", cases[0].Details.SubjectName)
}

func TestCaseDatabase_FindEmpty(t *testing.T) {
	dbHelper := &mocks.DatabaseHelper{}
	collectionHelper := &mocks.CollectionHelper{}
	cursorHelper := &mocks.CursorHelper{}

	cursorHelper.On("All", context.Background(), mock.Anything).Return(nil)
	collectionHelper.
		On("Find", context.Background(), bson.M{}, mock.MatchedBy(func(opts *options.FindOptions) bool {
			return *opts.Limit == databases.DefaultCaseLimit && *opts.Skip == 0
		})).
		Return(cursorHelper, nil)
	dbHelper.On("Collection", "disciplinarycases").Return(collectionHelper)

	cases, err := databases.NewCaseDatabase(dbHelper).Find(context.Background(), models.CaseFilter{Page: -3})
	require.NoError(t, err)
	assert.NotNil(t, cases)
	assert.Empty(t, cases)
}

func TestCaseDatabase_UpdateFields(t *testing.T) {
	dbHelper := &mocks.DatabaseHelper{}
	collectionHelper := &mocks.CollectionHelper{}
	srHelper := &mocks.SingleResultHelper{}

	id := primitive.NewObjectID()
	now := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	status := models.StatusClosed
	authority := "committee"

	srHelper.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(**models.DisciplinaryCase)
		(*arg).ID = id
		(*arg).Details.Status = status
	})

	expectedUpdate := bson.M{"$set": bson.M{
		"disciplinaryCase.status":          status,
		"disciplinaryCase.reviewAuthority": authority,
		"disciplinaryCase.updatedAt":       primitive.NewDateTimeFromTime(now),
	}}
	collectionHelper.
		On("FindOneAndUpdate", context.Background(), bson.M{"_id": id}, expectedUpdate, mock.Anything).
		Return(srHelper)
	dbHelper.On("Collection", "disciplinarycases").Return(collectionHelper)

	dc, err := databases.NewCaseDatabase(dbHelper).UpdateFields(context.Background(), id.Hex(),
		models.CaseUpdate{Status: &status, ReviewAuthority: &authority}, now)
	require.NoError(t, err)
	assert.Equal(t, models.StatusClosed, dc.Details.Status)
}

func TestCaseDatabase_UpdateFieldsNotFound(t *testing.T) {
	dbHelper := &mocks.DatabaseHelper{}
	collectionHelper := &mocks.CollectionHelper{}
	srHelper := &mocks.SingleResultHelper{}

	srHelper.On("Decode", mock.Anything).Return(mongo.ErrNoDocuments)
	collectionHelper.
		On("FindOneAndUpdate", context.Background(), mock.Anything, mock.Anything, mock.Anything).
		Return(srHelper)
	dbHelper.On("Collection", "disciplinarycases").Return(collectionHelper)

	status := models.StatusClosed
	_, err := databases.NewCaseDatabase(dbHelper).UpdateFields(context.Background(),
		primitive.NewObjectID().Hex(), models.CaseUpdate{Status: &status}, time.Now())
	assert.Equal(t, databases.ErrNotFound, err)
}

func TestCaseDatabase_UpdateFieldsWithNote(t *testing.T) {
	dbHelper := &mocks.DatabaseHelper{}
	collectionHelper := &mocks.CollectionHelper{}
	srHelper := &mocks.SingleResultHelper{}

	id := primitive.NewObjectID()
	now := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	status := models.StatusClosed
	authority := "$committee"

	srHelper.On("Decode", mock.Anything).Return(nil)

	var captured interface{}
	collectionHelper.
		On("FindOneAndUpdate", context.Background(), bson.M{"_id": id}, mock.Anything, mock.Anything).
		Return(srHelper).Once().Run(func(args mock.Arguments) {
		captured = args.Get(2)
	})
	dbHelper.On("Collection", "disciplinarycases").Return(collectionHelper)

	_, err := databases.NewCaseDatabase(dbHelper).UpdateFields(context.Background(), id.Hex(), models.CaseUpdate{
		Status:          &status,
		ReviewAuthority: &authority,
		Note:            &models.NoteAppend{Separator: "\n--\n", Text: "closing"},
	}, now)
	require.NoError(t, err)
	collectionHelper.AssertNumberOfCalls(t, "FindOneAndUpdate", 1)

	pipeline, ok := captured.([]bson.M)
	require.True(t, ok, "an update carrying a note must be a single pipeline")
	require.Len(t, pipeline, 1)

	set := pipeline[0]["$set"].(bson.M)
	assert.Equal(t, bson.M{"$literal": status}, set["disciplinaryCase.status"])
	assert.Equal(t, bson.M{"$literal": "$committee"}, set["disciplinaryCase.reviewAuthority"])
	assert.Equal(t, primitive.NewDateTimeFromTime(now), set["disciplinaryCase.updatedAt"])

	cond := set["disciplinaryCase.internalNotes"].(bson.M)["$cond"].(bson.A)
	assert.Equal(t, bson.M{"$concat": bson.A{"$disciplinaryCase.internalNotes", bson.M{"$literal": "\n--\nclosing"}}}, cond[1])
}

func TestCaseDatabase_AppendNote(t *testing.T) {
	dbHelper := &mocks.DatabaseHelper{}
	collectionHelper := &mocks.CollectionHelper{}
	srHelper := &mocks.SingleResultHelper{}

	id := primitive.NewObjectID()
	now := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)

	srHelper.On("Decode", mock.Anything).Return(nil)

	var captured interface{}
	collectionHelper.
		On("FindOneAndUpdate", context.Background(), bson.M{"_id": id}, mock.Anything, mock.Anything).
		Return(srHelper).Run(func(args mock.Arguments) {
		captured = args.Get(2)
	})
	dbHelper.On("Collection", "disciplinarycases").Return(collectionHelper)

	_, err := databases.NewCaseDatabase(dbHelper).AppendNote(context.Background(), id.Hex(), "\n--\n", "$danger", now)
	require.NoError(t, err)

	pipeline, ok := captured.([]bson.M)
	require.True(t, ok, "note append must be an update pipeline")
	require.Len(t, pipeline, 1)

	set := pipeline[0]["$set"].(bson.M)
	assert.Equal(t, primitive.NewDateTimeFromTime(now), set["disciplinaryCase.updatedAt"])

	cond := set["disciplinaryCase.internalNotes"].(bson.M)["$cond"].(bson.A)
	require.Len(t, cond, 3)
	assert.Equal(t, bson.M{"$concat": bson.A{"$disciplinaryCase.internalNotes", bson.M{"$literal": "\n--\n$danger"}}}, cond[1])
	assert.Equal(t, bson.M{"$literal": "$danger"}, cond[2])
}

func TestCaseDatabase_AppendImages(t *testing.T) {
	dbHelper := &mocks.DatabaseHelper{}
	collectionHelper := &mocks.CollectionHelper{}
	srHelper := &mocks.SingleResultHelper{}

	id := primitive.NewObjectID()
	now := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	urls := []string{"https://cdn/a.png", "https://cdn/b.png"}

	srHelper.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(**models.DisciplinaryCase)
		(*arg).Details.ImageURLs = append([]string{"https://cdn/0.png"}, urls...)
	})
	expectedUpdate := bson.M{
		"$push": bson.M{"disciplinaryCase.imageUrls": bson.M{"$each": urls}},
		"$set":  bson.M{"disciplinaryCase.updatedAt": primitive.NewDateTimeFromTime(now)},
	}
	collectionHelper.
		On("FindOneAndUpdate", context.Background(), bson.M{"_id": id}, expectedUpdate, mock.Anything).
		Return(srHelper)
	dbHelper.On("Collection", "disciplinarycases").Return(collectionHelper)

	dc, err := databases.NewCaseDatabase(dbHelper).AppendImages(context.Background(), id.Hex(), urls, now)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://cdn/0.png", "https://cdn/a.png", "https://cdn/b.png"}, dc.Details.ImageURLs)
}

func TestCaseDatabase_EnsureIndexes(t *testing.T) {
	dbHelper := &mocks.DatabaseHelper{}
	collectionHelper := &mocks.CollectionHelper{}

	collectionHelper.On("CreateIndex", context.Background(), mock.Anything).Return("idx", nil).Twice()
	dbHelper.On("Collection", "disciplinarycases").Return(collectionHelper)

	err := databases.NewCaseDatabase(dbHelper).EnsureIndexes(context.Background())
	assert.NoError(t, err)
	collectionHelper.AssertNumberOfCalls(t, "CreateIndex", 2)
}

func TestCaseDatabase_EnsureIndexesError(t *testing.T) {
	dbHelper := &mocks.DatabaseHelper{}
	collectionHelper := &mocks.CollectionHelper{}

	collectionHelper.On("CreateIndex", context.Background(), mock.Anything).Return("", errors.New("mocked-error"))
	dbHelper.On("Collection", "disciplinarycases").Return(collectionHelper)

	err := databases.NewCaseDatabase(dbHelper).EnsureIndexes(context.Background())
	assert.EqualError(t, err, "failed to create disciplinary case index: mocked-error")
}

func TestCaseDatabase_IsReferenced(t *testing.T) {
	dbHelper := &mocks.DatabaseHelper{}
	collectionHelper := &mocks.CollectionHelper{}

	url := "https://cdn/a.png"
	expected := bson.M{"$or": bson.A{
		bson.M{"disciplinaryCase.photoRef": url},
		bson.M{"disciplinaryCase.imageUrls": url},
		bson.M{"disciplinaryCase.evidenceUrls": url},
	}}
	collectionHelper.On("CountDocuments", context.Background(), expected, mock.Anything).Return(int64(1), nil)
	collectionHelper.On("CountDocuments", context.Background(), mock.Anything, mock.Anything).Return(int64(0), nil)
	dbHelper.On("Collection", "disciplinarycases").Return(collectionHelper)

	caseDB := databases.NewCaseDatabase(dbHelper)

	referenced, err := caseDB.IsReferenced(context.Background(), url)
	require.NoError(t, err)
	assert.True(t, referenced)

	referenced, err = caseDB.IsReferenced(context.Background(), "https://cdn/orphan.png")
	require.NoError(t, err)
	assert.False(t, referenced)
}

func TestCaseDatabase_IsReferencedError(t *testing.T) {
	dbHelper := &mocks.DatabaseHelper{}
	collectionHelper := &mocks.CollectionHelper{}

	collectionHelper.On("CountDocuments", context.Background(), mock.Anything, mock.Anything).Return(int64(0), errors.New("mocked-error"))
	dbHelper.On("Collection", "disciplinarycases").Return(collectionHelper)

	_, err := databases.NewCaseDatabase(dbHelper).IsReferenced(context.Background(), "https://cdn/a.png")
	assert.EqualError(t, err, "failed to look up upload references: mocked-error")
}
