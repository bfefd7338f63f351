package device

import (
	"context"
	"errors"
	"time"

	"field-workflow-service/internal/domain"
)

var ErrNoPosition = errors.New("no position available")

// ReplayLocationProvider plays back a fixed list of positions. The current
// position is Start, or the first sample when Start is nil.
type ReplayLocationProvider struct {
	start    *domain.Coordinates
	samples  []domain.Coordinates
	interval time.Duration
}

func NewReplayLocationProvider(start *domain.Coordinates, samples []domain.Coordinates, interval time.Duration) *ReplayLocationProvider {
	return &ReplayLocationProvider{
		start:    start,
		samples:  append([]domain.Coordinates(nil), samples...),
		interval: interval,
	}
}

func (p *ReplayLocationProvider) GetCurrentPosition(ctx context.Context) (domain.Coordinates, error) {
	if err := ctx.Err(); err != nil {
		return domain.Coordinates{}, err
	}
	if p.start != nil {
		return *p.start, nil
	}
	if len(p.samples) > 0 {
		return p.samples[0], nil
	}
	return domain.Coordinates{}, ErrNoPosition
}

// WatchPosition emits the samples in order, waiting interval between them,
// then closes the channel.
func (p *ReplayLocationProvider) WatchPosition(ctx context.Context) (<-chan domain.Coordinates, error) {
	out := make(chan domain.Coordinates)
	go func() {
		defer close(out)
		for i, pos := range p.samples {
			if i > 0 && p.interval > 0 {
				select {
				case <-ctx.Done():
					return
				case <-time.After(p.interval):
				}
			}
			select {
			case <-ctx.Done():
				return
			case out <- pos:
			}
		}
	}()
	return out, nil
}
