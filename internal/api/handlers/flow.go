package handlers

import (
	"context"
	"net/http"

	"field-workflow-service/internal/api/dto"
	"field-workflow-service/internal/domain"
	"field-workflow-service/internal/errs"
	"field-workflow-service/internal/flow"
	"field-workflow-service/internal/platform/logger"
	"field-workflow-service/internal/ports"

	"github.com/go-chi/chi/v5"
)

// FlowHandler exposes the flow controller intents. Every successful intent
// answers with the resulting snapshot.
type FlowHandler struct {
	Flow      *flow.Controller
	Positions ports.SharedPositionReader
	Log       *logger.Logger
}

func (h *FlowHandler) respond(w http.ResponseWriter, r *http.Request, status int, snap flow.Snapshot, err error) {
	if err != nil {
		writeFlowError(w, r, h.Log, err, &snap)
		return
	}
	writeJSON(w, r, h.Log, status, snap)
}

// current is the state echoed with request-level field errors.
func (h *FlowHandler) current() *flow.Snapshot {
	snap := h.Flow.State()
	return &snap
}

func (h *FlowHandler) State(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, h.Log, http.StatusOK, h.Flow.State())
}

func (h *FlowHandler) OnboardingStep(w http.ResponseWriter, r *http.Request) {
	var req dto.OnboardingStepRequest
	if !decodeOptionalJSON(w, r, h.Log, &req, h.current) {
		return
	}
	step := flow.Screen(chi.URLParam(r, "step"))
	snap, err := h.Flow.CompleteOnboardingStep(r.Context(), step, req.Granted)
	h.respond(w, r, http.StatusOK, snap, err)
}

func (h *FlowHandler) RecordPermission(w http.ResponseWriter, r *http.Request) {
	var req dto.PermissionRequest
	if !decodeJSON(w, r, h.Log, &req, h.current) {
		return
	}
	kind, err := domain.ParsePermissionKind(req.Kind)
	if err != nil {
		writeFlowError(w, r, h.Log, errs.Validation(map[string]string{"kind": err.Error()}), nil)
		return
	}
	snap, err := h.Flow.RecordPermission(r.Context(), kind, req.Granted)
	h.respond(w, r, http.StatusOK, snap, err)
}

func (h *FlowHandler) SelectCustomer(w http.ResponseWriter, r *http.Request) {
	snap, err := h.Flow.SelectCustomer(r.Context(), chi.URLParam(r, "customerID"))
	h.respond(w, r, http.StatusOK, snap, err)
}

func (h *FlowHandler) BeginOrder(w http.ResponseWriter, r *http.Request) {
	var req dto.BeginOrderRequest
	if !decodeOptionalJSON(w, r, h.Log, &req, h.current) {
		return
	}
	snap, err := h.Flow.BeginNewOrder(r.Context(), req.CustomerID)
	h.respond(w, r, http.StatusOK, snap, err)
}

func (h *FlowHandler) SubmitOrder(w http.ResponseWriter, r *http.Request) {
	var req dto.OrderRequest
	if !decodeJSON(w, r, h.Log, &req, h.current) {
		return
	}
	snap, err := h.Flow.SubmitOrder(r.Context(), req.Draft())
	h.respond(w, r, http.StatusCreated, snap, err)
}

func (h *FlowHandler) CompleteConfirmation(w http.ResponseWriter, r *http.Request) {
	h.intent(w, r, h.Flow.CompleteOrderConfirmation)
}

func (h *FlowHandler) OpenStartRoute(w http.ResponseWriter, r *http.Request) {
	h.intent(w, r, h.Flow.OpenStartRoute)
}

func (h *FlowHandler) StartRoute(w http.ResponseWriter, r *http.Request) {
	var req dto.StartRouteRequest
	if !decodeJSON(w, r, h.Log, &req, h.current) {
		return
	}
	snap, err := h.Flow.StartRoute(r.Context(), flow.StartRouteInput{
		StartOdometer: req.StartOdometer,
		StartPhoto:    domain.PhotoRef(req.StartPhoto),
		ShareLocation: req.ShareLocation,
		Position:      req.Position.Coordinates(),
	})
	h.respond(w, r, http.StatusCreated, snap, err)
}

func (h *FlowHandler) RecordPosition(w http.ResponseWriter, r *http.Request) {
	var req dto.PositionRequest
	if !decodeJSON(w, r, h.Log, &req, h.current) {
		return
	}
	snap, err := h.Flow.RecordPosition(r.Context(), *req.Coordinates())
	h.respond(w, r, http.StatusOK, snap, err)
}

func (h *FlowHandler) MarkVisited(w http.ResponseWriter, r *http.Request) {
	snap, err := h.Flow.MarkVisited(r.Context(), chi.URLParam(r, "customerID"))
	h.respond(w, r, http.StatusOK, snap, err)
}

func (h *FlowHandler) SkipVisit(w http.ResponseWriter, r *http.Request) {
	snap, err := h.Flow.SkipVisit(r.Context(), chi.URLParam(r, "customerID"))
	h.respond(w, r, http.StatusOK, snap, err)
}

func (h *FlowHandler) RequestEndRoute(w http.ResponseWriter, r *http.Request) {
	h.intent(w, r, h.Flow.RequestEndRoute)
}

func (h *FlowHandler) EndRoute(w http.ResponseWriter, r *http.Request) {
	var req dto.EndRouteRequest
	if !decodeJSON(w, r, h.Log, &req, h.current) {
		return
	}
	snap, err := h.Flow.SubmitEndRoute(r.Context(), req.EndOdometer, domain.PhotoRef(req.EndPhoto))
	h.respond(w, r, http.StatusOK, snap, err)
}

func (h *FlowHandler) FinishRoute(w http.ResponseWriter, r *http.Request) {
	h.intent(w, r, h.Flow.FinishRoute)
}

func (h *FlowHandler) Back(w http.ResponseWriter, r *http.Request) {
	h.intent(w, r, h.Flow.Back)
}

// intent runs a body-less intent.
func (h *FlowHandler) intent(w http.ResponseWriter, r *http.Request, fn func(context.Context) (flow.Snapshot, error)) {
	snap, err := fn(r.Context())
	h.respond(w, r, http.StatusOK, snap, err)
}

// SharedPosition returns the last sample published for the active route.
func (h *FlowHandler) SharedPosition(w http.ResponseWriter, r *http.Request) {
	if h.Positions == nil {
		writeFlowError(w, r, h.Log, errs.New(errs.CodeCapability, "location sharing is not configured"), nil)
		return
	}
	snap := h.Flow.State()
	route := snap.ActiveRoute
	if route == nil || !route.ShareLocation {
		writeFlowError(w, r, h.Log, errs.New(errs.CodeNotFound, "no route is sharing its location"), &snap)
		return
	}
	sp, ok, err := h.Positions.LatestPosition(r.Context(), route.ID)
	if err != nil {
		writeFlowError(w, r, h.Log, errs.Wrap(errs.CodeInternal, err, "read shared position"), nil)
		return
	}
	if !ok {
		writeFlowError(w, r, h.Log, errs.Newf(errs.CodeNotFound, "route %s has not shared a position yet", route.ID), nil)
		return
	}
	writeJSON(w, r, h.Log, http.StatusOK, sp)
}
