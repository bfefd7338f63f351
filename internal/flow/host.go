package flow

import (
	"context"
	"fmt"

	"field-workflow-service/internal/domain"
	"field-workflow-service/internal/errs"
	"field-workflow-service/internal/platform/logger"
	"field-workflow-service/internal/ports"
	"field-workflow-service/internal/services"
)

// Host drives the controller with the device capabilities: it prompts for
// permissions, captures photos and feeds location updates. Any capability may
// be nil; the flow then degrades the same way it does on a refusal.
type Host struct {
	ctrl     *Controller
	prompt   ports.PermissionPrompt
	camera   ports.PhotoCapture
	location ports.LocationProvider
	log      *logger.Logger
}

func NewHost(
	ctrl *Controller,
	prompt ports.PermissionPrompt,
	camera ports.PhotoCapture,
	location ports.LocationProvider,
	log *logger.Logger,
) *Host {
	if log == nil {
		log = logger.Nop()
	}
	return &Host{ctrl: ctrl, prompt: prompt, camera: camera, location: location, log: log}
}

func (h *Host) Controller() *Controller { return h.ctrl }

// RunOnboarding walks the onboarding screens from wherever the flow is,
// asking for each permission in turn. A prompt that fails counts as declined.
func (h *Host) RunOnboarding(ctx context.Context) (Snapshot, error) {
	snap := h.ctrl.State()
	for {
		step := snap.Screen
		if _, ok := onboardingNext[step]; !ok {
			return snap, nil
		}

		granted := false
		switch step {
		case ScreenNotificationPermission:
			granted = h.ask(ctx, domain.PermissionNotifications)
		case ScreenLocationPermission:
			granted = h.ask(ctx, domain.PermissionLocation)
		}

		var err error
		snap, err = h.ctrl.CompleteOnboardingStep(ctx, step, granted)
		if err != nil {
			return snap, err
		}
	}
}

func (h *Host) ask(ctx context.Context, kind domain.PermissionKind) bool {
	if h.prompt == nil {
		return false
	}
	granted, err := h.prompt.RequestPermission(ctx, kind)
	if err != nil {
		h.log.Warn(h.log.WithField(ctx, "permission", string(kind)), "permission prompt failed: "+err.Error())
		return false
	}
	return granted
}

// CapturePhoto takes a photo and records the camera permission from the
// outcome.
func (h *Host) CapturePhoto(ctx context.Context) (domain.PhotoRef, error) {
	if h.camera == nil {
		_, _ = h.ctrl.RecordPermission(ctx, domain.PermissionCamera, false)
		return "", errs.New(errs.CodeCapability, "no camera available")
	}
	ref, err := h.camera.Capture(ctx)
	if err == nil && ref.IsZero() {
		err = fmt.Errorf("capture photo: empty reference")
	}
	_, _ = h.ctrl.RecordPermission(ctx, domain.PermissionCamera, err == nil)
	if err != nil {
		return "", errs.Wrap(errs.CodeCapability, err, "photo capture failed")
	}
	return ref, nil
}

// StartRoute captures the start odometer photo, reads the current position
// when it can, and starts the route.
func (h *Host) StartRoute(ctx context.Context, startOdometer int, shareLocation bool) (Snapshot, error) {
	photo, err := h.CapturePhoto(ctx)
	if err != nil {
		return h.ctrl.State(), err
	}
	return h.ctrl.StartRoute(ctx, StartRouteInput{
		StartOdometer: startOdometer,
		StartPhoto:    photo,
		ShareLocation: shareLocation,
		Position:      h.currentPosition(ctx),
	})
}

func (h *Host) currentPosition(ctx context.Context) *domain.Coordinates {
	if h.location == nil {
		return nil
	}
	pos, err := h.location.GetCurrentPosition(ctx)
	if err != nil {
		h.log.Warn(ctx, "current position unavailable: "+err.Error())
		return nil
	}
	return &pos
}

// EndRoute captures the end odometer photo and submits the end reading.
func (h *Host) EndRoute(ctx context.Context, endOdometer int) (Snapshot, error) {
	photo, err := h.CapturePhoto(ctx)
	if err != nil {
		return h.ctrl.State(), err
	}
	return h.ctrl.SubmitEndRoute(ctx, endOdometer, photo)
}

// SubmitOrder captures a proof-of-payment photo first when the payment
// method needs one and the draft has none.
func (h *Host) SubmitOrder(ctx context.Context, draft domain.OrderDraft) (Snapshot, error) {
	if services.RequiresProofPhoto(draft.PaymentMethod) && draft.ProofPhoto.IsZero() {
		photo, err := h.CapturePhoto(ctx)
		if err != nil {
			return h.ctrl.State(), err
		}
		draft.ProofPhoto = photo
	}
	return h.ctrl.SubmitOrder(ctx, draft)
}

// TrackRoute feeds watched positions to the controller in arrival order until
// the stream closes or ctx is done. Samples that arrive while no route is
// active are dropped.
func (h *Host) TrackRoute(ctx context.Context) error {
	if h.location == nil {
		return errs.New(errs.CodeCapability, "no location provider available")
	}
	positions, err := h.location.WatchPosition(ctx)
	if err != nil {
		return errs.Wrap(errs.CodeCapability, err, "watch position failed")
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case pos, ok := <-positions:
			if !ok {
				return nil
			}
			if _, err := h.ctrl.RecordPosition(ctx, pos); err != nil {
				switch errs.CodeOf(err) {
				case errs.CodeState, errs.CodeValidation:
					h.log.Debug(ctx, "position dropped: "+err.Error())
				default:
					return err
				}
			}
		}
	}
}
