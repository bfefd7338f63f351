package flow

import (
	"context"
	"errors"
	"testing"

	"field-workflow-service/internal/adapters/device"
	"field-workflow-service/internal/domain"
	"field-workflow-service/internal/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingPrompt struct{}

func (failingPrompt) RequestPermission(context.Context, domain.PermissionKind) (bool, error) {
	return false, errors.New("prompt unavailable")
}

func TestHostRunOnboarding(t *testing.T) {
	c, _ := newTestController(t)
	prompt := device.NewStaticPermissionPrompt(map[domain.PermissionKind]bool{
		domain.PermissionNotifications: true,
		domain.PermissionLocation:      false,
	})
	h := NewHost(c, prompt, nil, nil, nil)

	snap, err := h.RunOnboarding(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ScreenMainApp, snap.Screen)
	assert.Equal(t, domain.Permissions{Notifications: true}, snap.Permissions)

	snap, err = h.RunOnboarding(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ScreenMainApp, snap.Screen)
}

func TestHostRunOnboardingPromptFailureCountsAsDeclined(t *testing.T) {
	c, _ := newTestController(t)
	h := NewHost(c, failingPrompt{}, nil, nil, nil)

	snap, err := h.RunOnboarding(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ScreenMainApp, snap.Screen)
	assert.Equal(t, domain.Permissions{}, snap.Permissions)
}

func TestHostCapturePhotoRecordsCamera(t *testing.T) {
	c, _ := onMainApp(t)
	cam := device.NewMockCamera()
	h := NewHost(c, nil, cam, nil, nil)

	ref, err := h.CapturePhoto(context.Background())
	require.NoError(t, err)
	assert.False(t, ref.IsZero())
	assert.True(t, c.State().Permissions.Camera)

	cam.Err = errors.New("camera denied")
	_, err = h.CapturePhoto(context.Background())
	requireCode(t, err, errs.CodeCapability)
	assert.False(t, c.State().Permissions.Camera)
}

func TestHostRouteWithoutCameraCannotStart(t *testing.T) {
	c, _ := onMainApp(t)
	_, err := c.OpenStartRoute(context.Background())
	require.NoError(t, err)
	h := NewHost(c, nil, nil, nil, nil)

	snap, err := h.StartRoute(context.Background(), 12345, false)
	requireCode(t, err, errs.CodeCapability)
	assert.Equal(t, ScreenStartRoute, snap.Screen)
	assert.Nil(t, snap.ActiveRoute)
}

func TestHostRouteLifecycle(t *testing.T) {
	ctx := context.Background()
	c, _ := onMainApp(t)
	samples := []domain.Coordinates{northOf(origin, 6.0), northOf(origin, 12.4)}
	start := origin
	h := NewHost(c, nil, device.NewMockCamera(), device.NewReplayLocationProvider(&start, samples, 0), nil)

	_, err := c.OpenStartRoute(ctx)
	require.NoError(t, err)
	snap, err := h.StartRoute(ctx, 12345, false)
	require.NoError(t, err)
	assert.Equal(t, []domain.Coordinates{origin}, snap.ActiveRoute.Path)
	assert.False(t, snap.ActiveRoute.StartOdometerPhoto.IsZero())

	require.NoError(t, h.TrackRoute(ctx))
	assert.InDelta(t, 12.4, c.State().ActiveRoute.GPSDistance, 1e-6)

	_, err = c.RequestEndRoute(ctx)
	require.NoError(t, err)
	snap, err = h.EndRoute(ctx, 12358)
	require.NoError(t, err)
	assert.Equal(t, ScreenRouteSummary, snap.Screen)
	assert.Equal(t, "minor", string(snap.RouteProgress.Summary.Severity))
}

func TestHostTrackRouteDropsSamplesOffRoute(t *testing.T) {
	c, _ := onMainApp(t)
	h := NewHost(c, nil, nil, device.NewReplayLocationProvider(nil, []domain.Coordinates{origin}, 0), nil)

	require.NoError(t, h.TrackRoute(context.Background()))
	assert.Equal(t, ScreenMainApp, c.State().Screen)
}

func TestHostStartRouteWithoutPosition(t *testing.T) {
	ctx := context.Background()
	c, _ := onMainApp(t)
	h := NewHost(c, nil, device.NewMockCamera(), device.NewReplayLocationProvider(nil, nil, 0), nil)

	_, err := c.OpenStartRoute(ctx)
	require.NoError(t, err)
	snap, err := h.StartRoute(ctx, 50, true)
	require.NoError(t, err)
	assert.Empty(t, snap.ActiveRoute.Path)
	assert.Nil(t, snap.ActiveRoute.CurrentPosition)
}

func TestHostSubmitOrderCapturesProofPhoto(t *testing.T) {
	ctx := context.Background()
	c, _ := onMainApp(t)
	cam := device.NewMockCamera()
	h := NewHost(c, nil, cam, nil, nil)

	_, err := c.BeginNewOrder(ctx, "")
	require.NoError(t, err)
	draft := validDraft()
	draft.PaymentMethod = domain.PaymentCash

	snap, err := h.SubmitOrder(ctx, draft)
	require.NoError(t, err)
	require.Len(t, cam.Captured(), 1)
	assert.Equal(t, cam.Captured()[0], snap.Confirmation.Order.ProofPhoto)
}
