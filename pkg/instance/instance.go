package instance

import "github.com/guideway/guideway-backend/pkg/env"

// GetID returns the identifier of this process instance for log correlation.
func GetID() string {
	return env.Get("GUIDEWAY_INSTANCE_ID", "local")
}
