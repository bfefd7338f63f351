package domain

import "fmt"

type PermissionKind string

const (
	PermissionNotifications PermissionKind = "notifications"
	PermissionLocation      PermissionKind = "location"
	PermissionCamera        PermissionKind = "camera"
)

func ParsePermissionKind(value string) (PermissionKind, error) {
	switch k := PermissionKind(value); k {
	case PermissionNotifications, PermissionLocation, PermissionCamera:
		return k, nil
	}
	return "", fmt.Errorf("invalid permission kind %q", value)
}

// Permissions records what the agent granted. A refusal is recorded as false
// and never blocks the flow.
type Permissions struct {
	Notifications bool `json:"notifications"`
	Location      bool `json:"location"`
	Camera        bool `json:"camera"`
}

func (p *Permissions) Set(kind PermissionKind, granted bool) {
	switch kind {
	case PermissionNotifications:
		p.Notifications = granted
	case PermissionLocation:
		p.Location = granted
	case PermissionCamera:
		p.Camera = granted
	}
}
