package handlers

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/Jojie16/SafeZone/internal/media"
	"github.com/Jojie16/SafeZone/internal/services"
	xhttp "github.com/Jojie16/SafeZone/pkg/http"
)

// envelope is the wire contract shared by every endpoint: a success flag,
// a timestamp, and either a data payload or an error description.
type envelope struct {
	Success   bool   `json:"success"`
	Timestamp string `json:"timestamp"`
	Data      any    `json:"data,omitempty"`
	Error     string `json:"error,omitempty"`
}

const timestampLayout = "2006-01-02 15:04:05"

func writeSuccess(ctx *xhttp.RequestCtx, status int, data any) {
	writeEnvelope(ctx, status, envelope{
		Success:   true,
		Timestamp: time.Now().Format(timestampLayout),
		Data:      data,
	})
}

func writeFailure(ctx *xhttp.RequestCtx, status int, msg string) {
	writeEnvelope(ctx, status, envelope{
		Success:   false,
		Timestamp: time.Now().Format(timestampLayout),
		Error:     msg,
	})
}

func writeEnvelope(ctx *xhttp.RequestCtx, status int, env envelope) {
	b, _ := json.Marshal(env)
	ctx.Response.Header.Set("Content-Type", "application/json; charset=utf-8")
	ctx.Response.SetStatusCode(status)
	ctx.Response.SetBodyRaw(b)
}

// writeError maps service failures onto the envelope. Store internals are
// never leaked; anything unexpected becomes an opaque server error.
func writeError(ctx *xhttp.RequestCtx, err error) {
	switch {
	case errors.Is(err, services.ErrValidation):
		writeFailure(ctx, xhttp.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrNotFound):
		writeFailure(ctx, xhttp.StatusNotFound, "Incident not found")
	case errors.Is(err, services.ErrAlreadyClosed):
		writeFailure(ctx, xhttp.StatusConflict, "Incident is already closed")
	case errors.Is(err, media.ErrRejected):
		writeFailure(ctx, xhttp.StatusBadRequest, "File upload failed")
	default:
		writeFailure(ctx, xhttp.StatusInternalServerError, "Server error occurred")
	}
}

func readJSON(ctx *xhttp.RequestCtx, dst any) error {
	body := ctx.PostBody()
	return json.Unmarshal(body, dst)
}
