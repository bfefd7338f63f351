package dto

import "field-workflow-service/internal/flow"

type ErrorResponse struct {
	Error   string         `json:"error"`
	Code    string         `json:"code,omitempty"`
	Details any            `json:"details,omitempty"`
	State   *flow.Snapshot `json:"state,omitempty"`
}
