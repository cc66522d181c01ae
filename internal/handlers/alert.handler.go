package handlers

import (
	"context"

	"github.com/Jojie16/SafeZone/internal/model"
	xhttp "github.com/Jojie16/SafeZone/pkg/http"
	"github.com/fasthttp/router"
)

type AlertService interface {
	Trigger(ctx context.Context, p model.AlertTriggerRequest) (*model.Incident, error)
	ListActive(ctx context.Context) ([]*model.ActiveAlert, error)
	Resolve(ctx context.Context, incidentID int64) error
}

type AlertHandler struct {
	svc AlertService
}

func RegisterAlertRoutes(e *router.Group, h *AlertHandler) {
	e.POST("/alerts", h.TriggerAlert)
	e.GET("/alerts", h.ListActiveAlerts)
	e.POST("/alerts/resolve", h.ResolveIncident)
}

func NewAlertHandler(alertService AlertService) *AlertHandler {
	return &AlertHandler{
		svc: alertService,
	}
}

type triggerAlertRequest struct {
	FullName       string  `json:"full_name"`
	PhoneNumber    string  `json:"phone_number"`
	GpsLat         float64 `json:"gps_lat"`
	GpsLng         float64 `json:"gps_lng"`
	GpsAccuracy    float64 `json:"gps_accuracy"`
	LocationMethod string  `json:"location_method"`
}

type triggerAlertResponse struct {
	IncidentID int64          `json:"incident_id"`
	Message    string         `json:"message"`
	Location   locationEchoed `json:"location"`
}

type locationEchoed struct {
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
	Accuracy float64 `json:"accuracy"`
}

type resolveIncidentRequest struct {
	IncidentID int64 `json:"incident_id"`
}

type listAlertsResponse struct {
	Alerts []*model.ActiveAlert `json:"alerts"`
}

/* --------------------------------- Routes ----------------------------------- */

func (h *AlertHandler) TriggerAlert(ctx *xhttp.RequestCtx) {
	var req triggerAlertRequest
	if err := readJSON(ctx, &req); err != nil {
		writeFailure(ctx, xhttp.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	p := model.AlertTriggerRequest{
		FullName:       req.FullName,
		PhoneNumber:    req.PhoneNumber,
		GpsLat:         req.GpsLat,
		GpsLng:         req.GpsLng,
		GpsAccuracy:    req.GpsAccuracy,
		LocationMethod: req.LocationMethod,
	}
	incident, err := h.svc.Trigger(ctx, p)
	if err != nil {
		writeError(ctx, err)
		return
	}

	writeSuccess(ctx, xhttp.StatusCreated, triggerAlertResponse{
		IncidentID: incident.ID,
		Message:    "Emergency alert created successfully",
		Location: locationEchoed{
			Lat:      incident.GpsLat,
			Lng:      incident.GpsLng,
			Accuracy: incident.GpsAccuracy,
		},
	})
}

func (h *AlertHandler) ListActiveAlerts(ctx *xhttp.RequestCtx) {
	alerts, err := h.svc.ListActive(ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	if alerts == nil {
		alerts = []*model.ActiveAlert{}
	}
	writeSuccess(ctx, xhttp.StatusOK, listAlertsResponse{Alerts: alerts})
}

func (h *AlertHandler) ResolveIncident(ctx *xhttp.RequestCtx) {
	var req resolveIncidentRequest
	if err := readJSON(ctx, &req); err != nil {
		writeFailure(ctx, xhttp.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	if err := h.svc.Resolve(ctx, req.IncidentID); err != nil {
		writeError(ctx, err)
		return
	}

	writeSuccess(ctx, xhttp.StatusOK, map[string]any{
		"message":     "Emergency solved successfully",
		"incident_id": req.IncidentID,
	})
}
