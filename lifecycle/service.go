// Package lifecycle implements the disciplinary case workflow: opening a case, moving it
// through review, recording the decision and controlling who can read it.
package lifecycle

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/linesmerrill/party-cms-api/databases"
	"github.com/linesmerrill/party-cms-api/evidence"
	"github.com/linesmerrill/party-cms-api/metrics"
	"github.com/linesmerrill/party-cms-api/models"
	"github.com/linesmerrill/party-cms-api/policy"
)

// maxCreateAttempts bounds how many case numbers are tried when one collides
const maxCreateAttempts = 3

// notifyTimeout bounds a single decision notification
const notifyTimeout = 15 * time.Second

// Ingestor resolves raw evidence strings to stored references
type Ingestor interface {
	Validate(raw []string, field evidence.Field) error
	Ingest(ctx context.Context, raw []string, field evidence.Field) ([]string, error)
	IngestNew(ctx context.Context, raw []string, field evidence.Field) ([]string, error)
}

// UploadLedger marks uploaded blobs as owned by a case
type UploadLedger interface {
	MarkAttached(ctx context.Context, urls []string, caseID string) error
}

// CaseNumberGenerator hands out human readable case numbers
type CaseNumberGenerator interface {
	Generate() string
}

// DecisionNotifier is told about every recorded decision
type DecisionNotifier interface {
	DecisionRecorded(ctx context.Context, c models.DisciplinaryCase) error
}

// TransitionRule decides whether a case may move from one status to another. A non-nil
// error rejects the transition as a validation failure.
type TransitionRule func(from, to models.CaseStatus) error

// AllowAllTransitions is the default rule
func AllowAllTransitions(_, _ models.CaseStatus) error {
	return nil
}

// Limits are the per item payload ceilings in bytes
type Limits struct {
	MaxImageBytes    int
	MaxDocumentBytes int
}

// Dependencies wires a CaseService
type Dependencies struct {
	Cases    databases.CaseDatabase
	Uploads  UploadLedger
	Ingestor Ingestor
	Numbers  CaseNumberGenerator
	Notifier DecisionNotifier
	Rule     TransitionRule
	Limits   Limits
	Metrics  *metrics.Metrics
	Logger   *zap.SugaredLogger
	Now      func() time.Time
}

// CaseService runs every disciplinary case operation on behalf of an actor
type CaseService struct {
	cases     databases.CaseDatabase
	uploads   UploadLedger
	ingestor  Ingestor
	numbers   CaseNumberGenerator
	notifier  DecisionNotifier
	rule      TransitionRule
	limits    Limits
	metrics   *metrics.Metrics
	logger    *zap.SugaredLogger
	now       func() time.Time
	validator *inputValidator

	pending sync.WaitGroup
}

// NewCaseService builds a CaseService. Rule, Logger and Now default to allowing every
// transition, a no-op logger and time.Now.
func NewCaseService(d Dependencies) *CaseService {
	s := &CaseService{
		cases:     d.Cases,
		uploads:   d.Uploads,
		ingestor:  d.Ingestor,
		numbers:   d.Numbers,
		notifier:  d.Notifier,
		rule:      d.Rule,
		limits:    d.Limits,
		metrics:   d.Metrics,
		logger:    d.Logger,
		now:       d.Now,
		validator: newInputValidator(),
	}
	if s.rule == nil {
		s.rule = AllowAllTransitions
	}
	if s.logger == nil {
		s.logger = zap.NewNop().Sugar()
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// Wait blocks until every pending decision notification has finished
func (s *CaseService) Wait() {
	s.pending.Wait()
}

// CreateCase opens a new case under review. Photo, image and evidence payloads are uploaded
// before the case is written.
func (s *CaseService) CreateCase(ctx context.Context, in CreateCaseInput, actor policy.Actor) (dc *models.DisciplinaryCase, err error) {
	defer s.observe("create_case", &err)

	if err = s.authorize(actor, policy.CreateCase); err != nil {
		return nil, err
	}
	in.normalize()
	if err = s.validator.check(in); err != nil {
		return nil, err
	}

	photoField := evidence.Field{Folder: evidence.PhotoFolder, MaxBytes: s.limits.MaxImageBytes}
	imageField := evidence.Field{Folder: evidence.ImageFolder, MaxBytes: s.limits.MaxImageBytes}
	documentField := evidence.Field{Folder: evidence.DocumentFolder, MaxBytes: s.limits.MaxDocumentBytes}

	var photo []string
	if in.Photo != "" {
		photo = []string{in.Photo}
	}
	for _, f := range []struct {
		raw   []string
		field evidence.Field
	}{{photo, photoField}, {in.Images, imageField}, {in.Evidence, documentField}} {
		if err = s.ingestor.Validate(f.raw, f.field); err != nil {
			return nil, ingestError(err)
		}
	}

	photoURLs, err := s.ingestor.Ingest(ctx, photo, photoField)
	if err != nil {
		return nil, ingestError(err)
	}
	imageURLs, err := s.ingestor.Ingest(ctx, in.Images, imageField)
	if err != nil {
		return nil, ingestError(err)
	}
	evidenceURLs, err := s.ingestor.Ingest(ctx, in.Evidence, documentField)
	if err != nil {
		return nil, ingestError(err)
	}

	now := primitive.NewDateTimeFromTime(s.now())
	visibility := in.Visibility
	if visibility == "" {
		visibility = models.DefaultVisibility
	}
	details := models.DisciplinaryCaseDetails{
		SubjectName:     in.SubjectName,
		Position:        in.Position,
		Constituency:    in.Constituency,
		District:        in.District,
		Category:        in.Category,
		Description:     in.Description,
		Source:          in.Source,
		InitiationDate:  now,
		InitiatedBy:     actor.ID,
		ReviewAuthority: in.ReviewAuthority,
		Status:          models.DefaultCaseStatus,
		Visibility:      visibility,
		EvidenceURLs:    nonNil(evidenceURLs),
		ImageURLs:       nonNil(imageURLs),
		SourceLinks:     nonNil(in.SourceLinks),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if len(photoURLs) > 0 {
		details.PhotoRef = photoURLs[0]
	}

	for attempt := 1; ; attempt++ {
		details.CaseNumber = s.numbers.Generate()
		dc, err = s.cases.InsertOne(ctx, models.DisciplinaryCase{Details: details})
		if err == nil {
			break
		}
		if !errors.Is(err, databases.ErrDuplicateCaseNumber) || attempt == maxCreateAttempts {
			return nil, s.internal("failed to create disciplinary case", err)
		}
		s.logger.Warnw("case number collision, retrying", "caseNumber", details.CaseNumber, "attempt", attempt)
	}

	attached := append(append(append([]string{}, photoURLs...), imageURLs...), evidenceURLs...)
	s.markAttached(ctx, attached, dc.ID.Hex())

	s.logger.Infow("disciplinary case created",
		"caseId", dc.ID.Hex(),
		"caseNumber", dc.Details.CaseNumber,
		"initiatedBy", actor.ID,
	)
	return present(dc, actor), nil
}

// GetCase returns one case. Cases the actor may not read are Forbidden rather than NotFound.
func (s *CaseService) GetCase(ctx context.Context, id string, actor policy.Actor) (dc *models.DisciplinaryCase, err error) {
	defer s.observe("get_case", &err)

	dc, err = s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.Allow(actor.Role, policy.GetCase, dc.Details.Visibility) {
		return nil, forbidden("not allowed to view this disciplinary case")
	}
	return present(dc, actor), nil
}

// ListCases returns a page of cases, newest first. Non-privileged actors only ever see
// public cases whatever visibility they filter on.
func (s *CaseService) ListCases(ctx context.Context, filter models.CaseFilter, actor policy.Actor) (list *models.CaseList, err error) {
	defer s.observe("list_cases", &err)

	if err = s.authorize(actor, policy.ListCases); err != nil {
		return nil, err
	}
	if filter.Status != "" && !filter.Status.IsValid() {
		return nil, validationError("unknown status filter " + string(filter.Status))
	}
	if filter.Category != "" && !filter.Category.IsValid() {
		return nil, validationError("unknown category filter " + string(filter.Category))
	}
	// Only privileged actors choose a visibility, everyone else is scoped before it is looked at.
	if actor.Role.IsPrivileged() && filter.Visibility != "" && !filter.Visibility.IsValid() {
		return nil, validationError("unknown visibility filter " + string(filter.Visibility))
	}
	filter.Visibility = policy.ScopeVisibility(actor.Role, filter.Visibility)
	filter.Page, filter.Limit = pageBounds(filter.Page, filter.Limit)

	cases, err := s.cases.Find(ctx, filter)
	if err != nil {
		return nil, s.internal("failed to list disciplinary cases", err)
	}
	total, err := s.cases.CountDocuments(ctx, filter)
	if err != nil {
		return nil, s.internal("failed to count disciplinary cases", err)
	}

	data := make([]models.DisciplinaryCase, 0, len(cases))
	for i := range cases {
		data = append(data, *present(&cases[i], actor))
	}
	return &models.CaseList{
		Data:       data,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalCount: total,
		TotalPages: int((total + int64(filter.Limit) - 1) / int64(filter.Limit)),
	}, nil
}

// TransitionStatus moves a case to a new status, optionally recording review metadata and
// appending notes
func (s *CaseService) TransitionStatus(ctx context.Context, id string, in TransitionInput, actor policy.Actor) (dc *models.DisciplinaryCase, err error) {
	defer s.observe("transition_status", &err)

	if err = s.authorize(actor, policy.TransitionStatus); err != nil {
		return nil, err
	}
	if err = s.validator.check(in); err != nil {
		return nil, err
	}
	current, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if rerr := s.rule(current.Details.Status, in.Status); rerr != nil {
		return nil, &Error{Kind: KindValidation, Message: "status transition rejected", Err: rerr}
	}

	update := models.CaseUpdate{Status: &in.Status}
	if in.ReviewAuthority != nil {
		update.ReviewAuthority = in.ReviewAuthority
	}
	if in.ReviewStartDate != nil {
		d := primitive.NewDateTimeFromTime(*in.ReviewStartDate)
		update.ReviewStartDate = &d
	}
	now := s.now()
	if notes := strings.TrimSpace(in.Notes); notes != "" {
		update.Note = &models.NoteAppend{Separator: noteSeparator(now), Text: notes}
	}
	dc, err = s.cases.UpdateFields(ctx, id, update, now)
	if err != nil {
		return nil, s.repositoryError(id, "failed to update case status", err)
	}

	s.logger.Infow("disciplinary case status changed",
		"caseId", id,
		"from", current.Details.Status,
		"to", in.Status,
		"actor", actor.ID,
	)
	return present(dc, actor), nil
}

// RecordDecision stores the outcome of a review and moves the case to ACTION_TAKEN
func (s *CaseService) RecordDecision(ctx context.Context, id string, in DecisionInput, actor policy.Actor) (dc *models.DisciplinaryCase, err error) {
	defer s.observe("record_decision", &err)

	if err = s.authorize(actor, policy.RecordDecision); err != nil {
		return nil, err
	}
	in.normalize()
	if err = s.validator.check(in); err != nil {
		return nil, err
	}
	if in.EffectiveFrom != nil && in.EffectiveTo != nil && in.EffectiveTo.Before(*in.EffectiveFrom) {
		return nil, validationError("effectiveTo must not be before effectiveFrom")
	}

	status := models.StatusActionTaken
	decisionDate := primitive.NewDateTimeFromTime(s.now())
	update := models.CaseUpdate{
		Status:            &status,
		ActionOutcome:     &in.Outcome,
		DecisionRationale: &in.Rationale,
		DecisionAuthority: &actor.ID,
		DecisionDate:      &decisionDate,
	}
	if in.EffectiveFrom != nil {
		d := primitive.NewDateTimeFromTime(*in.EffectiveFrom)
		update.EffectiveFrom = &d
	}
	if in.EffectiveTo != nil {
		d := primitive.NewDateTimeFromTime(*in.EffectiveTo)
		update.EffectiveTo = &d
	}

	dc, err = s.cases.UpdateFields(ctx, id, update, s.now())
	if err != nil {
		return nil, s.repositoryError(id, "failed to record decision", err)
	}

	s.logger.Infow("disciplinary decision recorded",
		"caseId", id,
		"caseNumber", dc.Details.CaseNumber,
		"outcome", in.Outcome,
		"actor", actor.ID,
	)
	s.notify(*dc)
	return present(dc, actor), nil
}

// ChangeVisibility sets who may read a case. Any visibility may follow any other.
func (s *CaseService) ChangeVisibility(ctx context.Context, id string, in VisibilityInput, actor policy.Actor) (dc *models.DisciplinaryCase, err error) {
	defer s.observe("change_visibility", &err)

	if err = s.authorize(actor, policy.ChangeVisibility); err != nil {
		return nil, err
	}
	if err = s.validator.check(in); err != nil {
		return nil, err
	}

	dc, err = s.cases.UpdateFields(ctx, id, models.CaseUpdate{Visibility: &in.Visibility}, s.now())
	if err != nil {
		return nil, s.repositoryError(id, "failed to change visibility", err)
	}
	return present(dc, actor), nil
}

// AppendNote adds a timestamped entry to the internal notes
func (s *CaseService) AppendNote(ctx context.Context, id string, in NoteInput, actor policy.Actor) (dc *models.DisciplinaryCase, err error) {
	defer s.observe("append_note", &err)

	if err = s.authorize(actor, policy.AppendNote); err != nil {
		return nil, err
	}
	in.normalize()
	if err = s.validator.check(in); err != nil {
		return nil, err
	}

	now := s.now()
	dc, err = s.cases.AppendNote(ctx, id, noteSeparator(now), in.Text, now)
	if err != nil {
		return nil, s.repositoryError(id, "failed to append note", err)
	}
	return present(dc, actor), nil
}

// AppendImages uploads new image payloads and appends their URLs. References in the input
// are ignored. When nothing new was uploaded the case is returned unchanged.
func (s *CaseService) AppendImages(ctx context.Context, id string, in ImagesInput, actor policy.Actor) (dc *models.DisciplinaryCase, err error) {
	defer s.observe("append_images", &err)

	if err = s.authorize(actor, policy.AppendImages); err != nil {
		return nil, err
	}
	field := evidence.Field{Folder: evidence.ImageFolder, MaxBytes: s.limits.MaxImageBytes}
	if err = s.ingestor.Validate(in.Images, field); err != nil {
		return nil, ingestError(err)
	}
	current, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	urls, err := s.ingestor.IngestNew(ctx, in.Images, field)
	if err != nil {
		return nil, ingestError(err)
	}
	if len(urls) == 0 {
		return present(current, actor), nil
	}

	dc, err = s.cases.AppendImages(ctx, id, urls, s.now())
	if err != nil {
		return nil, s.repositoryError(id, "failed to append images", err)
	}
	s.markAttached(ctx, urls, id)
	return present(dc, actor), nil
}

func (s *CaseService) authorize(actor policy.Actor, action policy.Action) error {
	if !policy.Allow(actor.Role, action, "") {
		return forbidden(fmt.Sprintf("role %s may not perform %s", actor.Role, action))
	}
	return nil
}

func (s *CaseService) load(ctx context.Context, id string) (*models.DisciplinaryCase, error) {
	dc, err := s.cases.FindByID(ctx, id)
	if err != nil {
		return nil, s.repositoryError(id, "failed to load disciplinary case", err)
	}
	return dc, nil
}

func (s *CaseService) repositoryError(id, message string, err error) error {
	if errors.Is(err, databases.ErrNotFound) {
		return notFound(id)
	}
	return s.internal(message, err)
}

func (s *CaseService) internal(message string, err error) error {
	s.logger.Errorw(message, "error", err)
	return internal(message, err)
}

func (s *CaseService) markAttached(ctx context.Context, urls []string, caseID string) {
	if s.uploads == nil || len(urls) == 0 {
		return
	}
	if err := s.uploads.MarkAttached(ctx, urls, caseID); err != nil {
		s.logger.Errorw("failed to mark uploads attached", "caseId", caseID, "error", err)
	}
}

func (s *CaseService) notify(dc models.DisciplinaryCase) {
	if s.notifier == nil {
		return
	}
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()
		if err := s.notifier.DecisionRecorded(ctx, dc); err != nil {
			s.logger.Errorw("failed to send decision notification",
				"caseId", dc.ID.Hex(),
				"caseNumber", dc.Details.CaseNumber,
				"error", err,
			)
		}
	}()
}

func (s *CaseService) observe(operation string, err *error) {
	result := "ok"
	if *err != nil {
		result = string(KindOf(*err))
	}
	s.metrics.ObserveOperation(operation, result)
}

// ingestError maps evidence failures to lifecycle kinds
func ingestError(err error) error {
	switch {
	case errors.Is(err, evidence.ErrPayloadTooLarge), errors.Is(err, evidence.ErrUndecodable):
		return &Error{Kind: KindValidation, Message: "invalid evidence payload", Err: err}
	case errors.Is(err, evidence.ErrUploadTimeout):
		return &Error{Kind: KindUploadTimeout, Message: "evidence upload timed out", Err: err}
	case errors.Is(err, evidence.ErrUploadFailed):
		return &Error{Kind: KindUploadFailure, Message: "evidence upload failed", Err: err}
	}
	return internal("failed to process evidence", err)
}

// present returns the view of dc the actor is allowed to see
func present(dc *models.DisciplinaryCase, actor policy.Actor) *models.DisciplinaryCase {
	out := *dc
	out.Details.EvidenceURLs = nonNil(dc.Details.EvidenceURLs)
	out.Details.ImageURLs = nonNil(dc.Details.ImageURLs)
	out.Details.SourceLinks = nonNil(dc.Details.SourceLinks)
	if !actor.Role.IsPrivileged() {
		out.Details.InternalNotes = ""
	}
	return &out
}

func noteSeparator(now time.Time) string {
	return "\n\n--- " + now.UTC().Format(time.RFC3339) + " ---\n"
}

func pageBounds(page, limit int) (int, int) {
	if page < 0 {
		page = 0
	}
	if limit <= 0 {
		limit = databases.DefaultCaseLimit
	}
	if limit > databases.MaxCaseLimit {
		limit = databases.MaxCaseLimit
	}
	return page, limit
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
