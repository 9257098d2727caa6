// Package docs Party CMS API.
//
// Documentation of the Party CMS disciplinary case API.
//
//     Schemes: https
//     BasePath: /
//     Version: 1.0.0
//     Host: https://party-cms-api.herokuapp.com
//
//     Consumes:
//     - application/json
//
//     Produces:
//     - application/json
//
//     Security:
//     - bearer
//
//    SecurityDefinitions:
//    bearer:
//      type: apiKey
//      name: Authorization
//      in: header
//
// swagger:meta
package docs

import (
	"github.com/linesmerrill/party-cms-api/lifecycle"
	"github.com/linesmerrill/party-cms-api/models"
)

// swagger:route GET /health health healthEndpointID
// Lists the healthchex of the web service api.
// responses:
//   200: healthResponse

// Shows the current health of the api. true means it is alive, false means it is not.
// swagger:response healthResponse
type healthResponseWrapper struct {
	// in:body
	Body models.HealthCheckResponse
}

// swagger:route GET /api/v1/disciplinary-cases disciplinaryCases listCases
// Lists disciplinary cases, newest first. Callers below ADMIN only see public cases.
// responses:
//   200: caseListResponse
//   400: errorResponse

// A page of disciplinary cases
// swagger:response caseListResponse
type caseListResponseWrapper struct {
	// in:body
	Body models.CaseList
}

// swagger:parameters listCases
type listCasesParams struct {
	// in:query
	Status string `json:"status"`
	// in:query
	Category string `json:"category"`
	// in:query
	Visibility string `json:"visibility"`
	// in:query
	Search string `json:"search"`
	// in:query
	Page int `json:"page"`
	// in:query
	Limit int `json:"limit"`
}

// swagger:route GET /api/v1/disciplinary-cases/{case_id} disciplinaryCases caseByID
// Gets a single disciplinary case by ID.
// responses:
//   200: caseResponse
//   403: errorResponse
//   404: errorResponse

// swagger:route PUT /api/v1/disciplinary-cases/{case_id}/status disciplinaryCases updateStatus
// Moves a case to a new status. ADMIN and above.
// responses:
//   200: caseResponse

// swagger:route PUT /api/v1/disciplinary-cases/{case_id}/decision disciplinaryCases recordDecision
// Records the decision and sets the status to ACTION_TAKEN. ADMIN and above.
// responses:
//   200: caseResponse

// swagger:route PUT /api/v1/disciplinary-cases/{case_id}/visibility disciplinaryCases updateVisibility
// Changes who may read a case. SUPER_ADMIN only.
// responses:
//   200: caseResponse

// swagger:route POST /api/v1/disciplinary-cases/{case_id}/notes disciplinaryCases addNote
// Appends a timestamped internal note. ADMIN and above.
// responses:
//   200: caseResponse

// swagger:route POST /api/v1/disciplinary-cases/{case_id}/images disciplinaryCases addImages
// Uploads inline images and appends them. ADMIN and above.
// responses:
//   200: caseResponse
//   502: errorResponse
//   504: errorResponse

// A single disciplinary case
// swagger:response caseResponse
type caseResponseWrapper struct {
	// in:body
	Body models.DisciplinaryCase
}

// swagger:route POST /api/v1/disciplinary-cases disciplinaryCases createCase
// Opens a new case under review. ADMIN and above.
// responses:
//   201: caseResponse
//   400: errorResponse
//   403: errorResponse

// swagger:parameters createCase
type createCaseParams struct {
	// in:body
	Body lifecycle.CreateCaseInput
}

// An error with its cause
// swagger:response errorResponse
type errorResponseWrapper struct {
	// in:body
	Body struct {
		Response string `json:"response"`
	}
}
