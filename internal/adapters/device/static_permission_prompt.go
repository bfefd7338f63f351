package device

import (
	"context"

	"field-workflow-service/internal/domain"
)

// StaticPermissionPrompt answers every prompt from a fixed table. Kinds not
// in the table are declined.
type StaticPermissionPrompt struct {
	answers map[domain.PermissionKind]bool
}

func NewStaticPermissionPrompt(answers map[domain.PermissionKind]bool) *StaticPermissionPrompt {
	m := make(map[domain.PermissionKind]bool, len(answers))
	for k, v := range answers {
		m[k] = v
	}
	return &StaticPermissionPrompt{answers: m}
}

func (p *StaticPermissionPrompt) RequestPermission(ctx context.Context, kind domain.PermissionKind) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return p.answers[kind], nil
}
