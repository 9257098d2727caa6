package models

// CaseStatus is the review state of a disciplinary case
type CaseStatus string

// CaseStatus values
const (
	StatusUnderReview           CaseStatus = "UNDER_REVIEW"
	StatusClarificationRequired CaseStatus = "CLARIFICATION_REQUIRED"
	StatusReviewCompleted       CaseStatus = "REVIEW_COMPLETED"
	StatusActionTaken           CaseStatus = "ACTION_TAKEN"
	StatusClosed                CaseStatus = "CLOSED"
	StatusArchived              CaseStatus = "ARCHIVED"
)

// DefaultCaseStatus is the status every new case starts in
const DefaultCaseStatus = StatusUnderReview

// IsValid reports whether s is a known status
func (s CaseStatus) IsValid() bool {
	switch s {
	case StatusUnderReview, StatusClarificationRequired, StatusReviewCompleted,
		StatusActionTaken, StatusClosed, StatusArchived:
		return true
	}
	return false
}

// CaseCategory classifies the issue a case was opened for
type CaseCategory string

// CaseCategory values
const (
	CategoryMisconduct           CaseCategory = "MISCONDUCT"
	CategoryCorruption           CaseCategory = "CORRUPTION"
	CategoryAntiPartyActivity    CaseCategory = "ANTI_PARTY_ACTIVITY"
	CategoryIndiscipline         CaseCategory = "INDISCIPLINE"
	CategoryCriminalCharges      CaseCategory = "CRIMINAL_CHARGES"
	CategorySocialMediaViolation CaseCategory = "SOCIAL_MEDIA_VIOLATION"
	CategoryOther                CaseCategory = "OTHER"
)

// IsValid reports whether c is a known category
func (c CaseCategory) IsValid() bool {
	switch c {
	case CategoryMisconduct, CategoryCorruption, CategoryAntiPartyActivity, CategoryIndiscipline,
		CategoryCriminalCharges, CategorySocialMediaViolation, CategoryOther:
		return true
	}
	return false
}

// CaseSource records where the complaint came from
type CaseSource string

// CaseSource values
const (
	SourceInternalComplaint         CaseSource = "INTERNAL_COMPLAINT"
	SourceExternalComplaint         CaseSource = "EXTERNAL_COMPLAINT"
	SourceMediaReport               CaseSource = "MEDIA_REPORT"
	SourceOrganizationalObservation CaseSource = "ORGANIZATIONAL_OBSERVATION"
	SourceLegalNotice               CaseSource = "LEGAL_NOTICE"
)

// IsValid reports whether s is a known source
func (s CaseSource) IsValid() bool {
	switch s {
	case SourceInternalComplaint, SourceExternalComplaint, SourceMediaReport,
		SourceOrganizationalObservation, SourceLegalNotice:
		return true
	}
	return false
}

// ActionOutcome is the ruling recorded with a decision
type ActionOutcome string

// ActionOutcome values
const (
	OutcomeNoAction            ActionOutcome = "NO_ACTION"
	OutcomeWarning             ActionOutcome = "WARNING"
	OutcomeTemporarySuspension ActionOutcome = "TEMPORARY_SUSPENSION"
	OutcomePermanentSuspension ActionOutcome = "PERMANENT_SUSPENSION"
	OutcomePositionRevoked     ActionOutcome = "POSITION_REVOKED"
	OutcomeMembershipRevoked   ActionOutcome = "MEMBERSHIP_REVOKED"
)

// IsValid reports whether o is a known outcome
func (o ActionOutcome) IsValid() bool {
	switch o {
	case OutcomeNoAction, OutcomeWarning, OutcomeTemporarySuspension,
		OutcomePermanentSuspension, OutcomePositionRevoked, OutcomeMembershipRevoked:
		return true
	}
	return false
}

// Visibility is the read tier of a case
type Visibility string

// Visibility values
const (
	VisibilityInternalOnly Visibility = "INTERNAL_ONLY"
	VisibilityPublic       Visibility = "PUBLIC"
	VisibilityRestricted   Visibility = "RESTRICTED"
)

// DefaultVisibility is applied when a case is created without one
const DefaultVisibility = VisibilityInternalOnly

// IsValid reports whether v is a known visibility
func (v Visibility) IsValid() bool {
	switch v {
	case VisibilityInternalOnly, VisibilityPublic, VisibilityRestricted:
		return true
	}
	return false
}
