package ports

import (
	"context"

	"field-workflow-service/internal/domain"
)

// Port: asks the agent for an OS permission. A refusal is a normal outcome,
// not an error; errors mean the prompt itself could not be shown.
type PermissionPrompt interface {
	RequestPermission(ctx context.Context, kind domain.PermissionKind) (bool, error)
}
