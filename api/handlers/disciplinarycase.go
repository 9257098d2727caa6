package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/linesmerrill/party-cms-api/api"
	"github.com/linesmerrill/party-cms-api/config"
	"github.com/linesmerrill/party-cms-api/lifecycle"
	"github.com/linesmerrill/party-cms-api/models"
)

// maxBodyBytes bounds a request body. Inline evidence makes case payloads large.
const maxBodyBytes = 64 << 20

// DisciplinaryCase exposes the case lifecycle over HTTP
type DisciplinaryCase struct {
	Service *lifecycle.CaseService
}

// ListCasesHandler returns a page of cases the caller may see
func (d DisciplinaryCase) ListCasesHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := models.CaseFilter{
		Status:     models.CaseStatus(q.Get("status")),
		Category:   models.CaseCategory(q.Get("category")),
		Visibility: models.Visibility(q.Get("visibility")),
		Search:     q.Get("search"),
	}
	var err error
	if filter.Page, err = intParam(q.Get("page"), 0); err != nil {
		config.ErrorStatus("invalid page", http.StatusBadRequest, w, err)
		return
	}
	if filter.Limit, err = intParam(q.Get("limit"), 0); err != nil {
		config.ErrorStatus("invalid limit", http.StatusBadRequest, w, err)
		return
	}

	list, err := d.Service.ListCases(r.Context(), filter, api.ActorFrom(r.Context()))
	if err != nil {
		writeCaseError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, list)
}

// CaseByIDHandler returns a single case
func (d DisciplinaryCase) CaseByIDHandler(w http.ResponseWriter, r *http.Request) {
	dc, err := d.Service.GetCase(r.Context(), mux.Vars(r)["case_id"], api.ActorFrom(r.Context()))
	if err != nil {
		writeCaseError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, dc)
}

// CreateCaseHandler opens a new case
func (d DisciplinaryCase) CreateCaseHandler(w http.ResponseWriter, r *http.Request) {
	var in lifecycle.CreateCaseInput
	if !decodeBody(w, r, &in) {
		return
	}
	dc, err := d.Service.CreateCase(r.Context(), in, api.ActorFrom(r.Context()))
	if err != nil {
		writeCaseError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusCreated, dc)
}

// UpdateStatusHandler moves a case to a new status
func (d DisciplinaryCase) UpdateStatusHandler(w http.ResponseWriter, r *http.Request) {
	var in lifecycle.TransitionInput
	if !decodeBody(w, r, &in) {
		return
	}
	dc, err := d.Service.TransitionStatus(r.Context(), mux.Vars(r)["case_id"], in, api.ActorFrom(r.Context()))
	if err != nil {
		writeCaseError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, dc)
}

// RecordDecisionHandler records the outcome of a review
func (d DisciplinaryCase) RecordDecisionHandler(w http.ResponseWriter, r *http.Request) {
	var in lifecycle.DecisionInput
	if !decodeBody(w, r, &in) {
		return
	}
	dc, err := d.Service.RecordDecision(r.Context(), mux.Vars(r)["case_id"], in, api.ActorFrom(r.Context()))
	if err != nil {
		writeCaseError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, dc)
}

// UpdateVisibilityHandler changes who may read a case
func (d DisciplinaryCase) UpdateVisibilityHandler(w http.ResponseWriter, r *http.Request) {
	var in lifecycle.VisibilityInput
	if !decodeBody(w, r, &in) {
		return
	}
	dc, err := d.Service.ChangeVisibility(r.Context(), mux.Vars(r)["case_id"], in, api.ActorFrom(r.Context()))
	if err != nil {
		writeCaseError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, dc)
}

// AddNoteHandler appends to the internal notes
func (d DisciplinaryCase) AddNoteHandler(w http.ResponseWriter, r *http.Request) {
	var in lifecycle.NoteInput
	if !decodeBody(w, r, &in) {
		return
	}
	dc, err := d.Service.AppendNote(r.Context(), mux.Vars(r)["case_id"], in, api.ActorFrom(r.Context()))
	if err != nil {
		writeCaseError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, dc)
}

// AddImagesHandler uploads and appends images
func (d DisciplinaryCase) AddImagesHandler(w http.ResponseWriter, r *http.Request) {
	var in lifecycle.ImagesInput
	if !decodeBody(w, r, &in) {
		return
	}
	dc, err := d.Service.AppendImages(r.Context(), mux.Vars(r)["case_id"], in, api.ActorFrom(r.Context()))
	if err != nil {
		writeCaseError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, dc)
}

func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		config.ErrorStatus("failed to decode request", http.StatusBadRequest, w, err)
		return false
	}
	return true
}

func intParam(s string, fallback int) (int, error) {
	if s == "" {
		return fallback, nil
	}
	return strconv.Atoi(s)
}

var kindStatus = map[lifecycle.Kind]int{
	lifecycle.KindValidation:    http.StatusBadRequest,
	lifecycle.KindNotFound:      http.StatusNotFound,
	lifecycle.KindForbidden:     http.StatusForbidden,
	lifecycle.KindUploadFailure: http.StatusBadGateway,
	lifecycle.KindUploadTimeout: http.StatusGatewayTimeout,
	lifecycle.KindInternal:      http.StatusInternalServerError,
}

// writeCaseError maps a lifecycle error to its status code. Internal causes are logged but
// not echoed to the client.
func writeCaseError(w http.ResponseWriter, err error) {
	kind := lifecycle.KindOf(err)
	status, ok := kindStatus[kind]
	if !ok {
		status = http.StatusInternalServerError
	}

	message := "internal error"
	var cause error = errors.New(string(kind))
	var lerr *lifecycle.Error
	if errors.As(err, &lerr) {
		message = lerr.Message
		if lerr.Err != nil && kind != lifecycle.KindInternal {
			cause = lerr.Err
		}
	}
	config.ErrorStatus(message, status, w, cause)
}
