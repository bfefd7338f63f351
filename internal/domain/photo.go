package domain

import "strings"

// PhotoRef is an opaque reference to an image captured by the host device.
// The core never inspects its contents.
type PhotoRef string

func (p PhotoRef) IsZero() bool { return strings.TrimSpace(string(p)) == "" }
