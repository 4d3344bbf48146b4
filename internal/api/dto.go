package api

import (
	"github.com/UnknownOlympus/nivaran/internal/locator"
)

// errorResponse is the body of every failed request.
type errorResponse struct {
	Error string `json:"error"`
}

type createFormResponse struct {
	ID string `json:"id"`
}

// formStateResponse is the state of a form session together with the notices
// emitted since the previous response.
type formStateResponse struct {
	ID string `json:"id"`
	locator.Snapshot
	Notices []locator.Notice `json:"notices"`
}

type inputRequest struct {
	Text string `json:"text" validate:"max=500"`
}

type pointerRequest struct {
	Target string `json:"target" validate:"required,oneof=input overlay outside"`
}

type selectRequest struct {
	Suggestion string `json:"suggestion" validate:"required,max=500"`
}

// detectRequest carries the outcome of the client's geolocation request:
// either a fix or the reason it failed.
type detectRequest struct {
	Latitude  *float64 `json:"latitude"  validate:"omitempty,min=-90,max=90"`
	Longitude *float64 `json:"longitude" validate:"omitempty,min=-180,max=180"`
	Error     string   `json:"error"     validate:"omitempty,oneof=denied timeout unavailable unsupported"`
}
