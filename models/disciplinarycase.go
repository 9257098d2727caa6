package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// DisciplinaryCase holds the structure for the disciplinarycases collection in mongo
type DisciplinaryCase struct {
	ID      primitive.ObjectID      `json:"_id" bson:"_id"`
	Details DisciplinaryCaseDetails `json:"disciplinaryCase" bson:"disciplinaryCase"`
	Version int32                   `json:"__v" bson:"__v"`
}

// DisciplinaryCaseDetails holds the structure for the inner disciplinary case details
type DisciplinaryCaseDetails struct {
	CaseNumber string `json:"caseNumber" bson:"caseNumber"`

	// Subject
	SubjectName  string `json:"subjectName" bson:"subjectName"`
	Position     string `json:"position" bson:"position"`
	PhotoRef     string `json:"photoRef,omitempty" bson:"photoRef,omitempty"`
	Constituency string `json:"constituency,omitempty" bson:"constituency,omitempty"`
	District     string `json:"district,omitempty" bson:"district,omitempty"`

	// Issue
	Category    CaseCategory `json:"category" bson:"category"`
	Description string       `json:"description" bson:"description"`
	Source      CaseSource   `json:"source" bson:"source"`

	// Timeline
	InitiationDate  primitive.DateTime  `json:"initiationDate" bson:"initiationDate"`
	ReviewStartDate *primitive.DateTime `json:"reviewStartDate,omitempty" bson:"reviewStartDate,omitempty"`
	DecisionDate    *primitive.DateTime `json:"decisionDate,omitempty" bson:"decisionDate,omitempty"`
	EffectiveFrom   *primitive.DateTime `json:"effectiveFrom,omitempty" bson:"effectiveFrom,omitempty"`
	EffectiveTo     *primitive.DateTime `json:"effectiveTo,omitempty" bson:"effectiveTo,omitempty"`

	// Authority
	InitiatedBy       string `json:"initiatedBy" bson:"initiatedBy"`
	ReviewAuthority   string `json:"reviewAuthority,omitempty" bson:"reviewAuthority,omitempty"`
	DecisionAuthority string `json:"decisionAuthority,omitempty" bson:"decisionAuthority,omitempty"`

	// Outcome
	Status        CaseStatus    `json:"status" bson:"status"`
	ActionOutcome ActionOutcome `json:"actionOutcome,omitempty" bson:"actionOutcome,omitempty"`

	Visibility Visibility `json:"visibility" bson:"visibility"`

	// Evidence, always resolved references
	EvidenceURLs []string `json:"evidenceUrls" bson:"evidenceUrls"`
	ImageURLs    []string `json:"imageUrls" bson:"imageUrls"`
	SourceLinks  []string `json:"sourceLinks" bson:"sourceLinks"`

	// Narrative
	InternalNotes     string `json:"internalNotes,omitempty" bson:"internalNotes,omitempty"`
	DecisionRationale string `json:"decisionRationale,omitempty" bson:"decisionRationale,omitempty"`

	CreatedAt primitive.DateTime `json:"createdAt" bson:"createdAt"`
	UpdatedAt primitive.DateTime `json:"updatedAt" bson:"updatedAt"`
}

// CaseFilter narrows a disciplinary case listing. Zero values are ignored.
type CaseFilter struct {
	Status     CaseStatus
	Category   CaseCategory
	Visibility Visibility
	Search     string
	Page       int
	Limit      int
}

// CaseUpdate is a partial write of the mutable case fields. Nil fields are left untouched.
// The case number, initiator and initiation date are immutable after creation and have no
// counterpart here.
type CaseUpdate struct {
	Status            *CaseStatus
	ReviewAuthority   *string
	ReviewStartDate   *primitive.DateTime
	ActionOutcome     *ActionOutcome
	DecisionRationale *string
	DecisionAuthority *string
	DecisionDate      *primitive.DateTime
	EffectiveFrom     *primitive.DateTime
	EffectiveTo       *primitive.DateTime
	Visibility        *Visibility
	// Note is appended to the internal notes in the same write
	Note *NoteAppend
}

// NoteAppend is text added to the end of the internal notes, preceded by Separator when
// notes already exist
type NoteAppend struct {
	Separator string
	Text      string
}

// CaseList is a page of disciplinary cases
type CaseList struct {
	Data       []DisciplinaryCase `json:"data"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
	TotalCount int64              `json:"totalCount"`
	TotalPages int                `json:"totalPages"`
}
