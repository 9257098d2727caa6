package lifecycle

import (
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/pkg/errors"

	"github.com/linesmerrill/party-cms-api/models"
)

// CreateCaseInput is the payload of a new case. Photo, Images and Evidence hold raw evidence
// strings, either references or inline payloads.
type CreateCaseInput struct {
	SubjectName     string              `json:"subjectName" validate:"required,max=200"`
	Position        string              `json:"position" validate:"required,max=200"`
	Photo           string              `json:"photo,omitempty"`
	Constituency    string              `json:"constituency,omitempty"`
	District        string              `json:"district,omitempty"`
	Category        models.CaseCategory `json:"category" validate:"required,enum"`
	Description     string              `json:"description" validate:"required"`
	Source          models.CaseSource   `json:"source" validate:"required,enum"`
	Visibility      models.Visibility   `json:"visibility,omitempty" validate:"omitempty,enum"`
	ReviewAuthority string              `json:"reviewAuthority,omitempty"`
	Images          []string            `json:"images,omitempty"`
	Evidence        []string            `json:"evidence,omitempty"`
	SourceLinks     []string            `json:"sourceLinks,omitempty" validate:"dive,url"`
}

// TransitionInput moves a case to a new status
type TransitionInput struct {
	Status          models.CaseStatus `json:"status" validate:"required,enum"`
	Notes           string            `json:"notes,omitempty"`
	ReviewAuthority *string           `json:"reviewAuthority,omitempty"`
	ReviewStartDate *time.Time        `json:"reviewStartDate,omitempty"`
}

// DecisionInput records the outcome of a review
type DecisionInput struct {
	Outcome       models.ActionOutcome `json:"actionOutcome" validate:"required,enum"`
	Rationale     string               `json:"decisionRationale" validate:"required"`
	EffectiveFrom *time.Time           `json:"effectiveFrom,omitempty"`
	EffectiveTo   *time.Time           `json:"effectiveTo,omitempty"`
}

// VisibilityInput changes who may read a case
type VisibilityInput struct {
	Visibility models.Visibility `json:"visibility" validate:"required,enum"`
}

// NoteInput appends to the internal notes
type NoteInput struct {
	Text string `json:"text" validate:"required"`
}

// ImagesInput appends images to a case
type ImagesInput struct {
	Images []string `json:"images"`
}

type enum interface {
	IsValid() bool
}

// inputValidator wraps a validator with english messages keyed by json field names
type inputValidator struct {
	validate   *validator.Validate
	translator ut.Translator
}

func newInputValidator() *inputValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("enum", func(fl validator.FieldLevel) bool {
		e, ok := fl.Field().Interface().(enum)
		return ok && e.IsValid()
	})

	english := en.New()
	translator, _ := ut.New(english, english).GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(v, translator)
	_ = v.RegisterTranslation("enum", translator, func(ut ut.Translator) error {
		return ut.Add("enum", "{0} has an unknown value", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T("enum", fe.Field())
		return t
	})

	return &inputValidator{validate: v, translator: translator}
}

// check validates s and returns a Validation error listing every failed field
func (iv *inputValidator) check(s interface{}) error {
	err := iv.validate.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return validationError(err.Error())
	}
	details := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		details = append(details, fe.Translate(iv.translator))
	}
	return validationError("invalid input: "+strings.Join(details, "; "), details...)
}

func (in *CreateCaseInput) normalize() {
	in.SubjectName = strings.TrimSpace(in.SubjectName)
	in.Position = strings.TrimSpace(in.Position)
	in.Constituency = strings.TrimSpace(in.Constituency)
	in.District = strings.TrimSpace(in.District)
	in.Description = strings.TrimSpace(in.Description)
	in.ReviewAuthority = strings.TrimSpace(in.ReviewAuthority)
	for i, l := range in.SourceLinks {
		in.SourceLinks[i] = strings.TrimSpace(l)
	}
}

func (in *DecisionInput) normalize() {
	in.Rationale = strings.TrimSpace(in.Rationale)
}

func (in *NoteInput) normalize() {
	in.Text = strings.TrimSpace(in.Text)
}
