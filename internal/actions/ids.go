package actions

import (
	"strings"

	"github.com/google/uuid"
)

// mediaIDOrNew keeps a client-supplied media id and mints a UUID otherwise.
func mediaIDOrNew(id string) string {
	if s := strings.TrimSpace(id); s != "" {
		return s
	}
	return uuid.NewString()
}
