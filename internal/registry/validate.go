package registry

import (
	"context"
	"fmt"
	"strings"

	"github.com/specialistvlad/devicefarm/internal/ctxlog"
)

// Validate checks that every Action has a registered handler.
func (r *Registry) Validate(ctx context.Context) error {
	var missing []string
	for _, a := range Actions() {
		if _, ok := r.binders[a]; !ok {
			missing = append(missing, a.String())
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("registry validation failed: no handler for: %s", strings.Join(missing, ", "))
	}
	ctxlog.FromContext(ctx).Debug("Registry validated.", "actions", len(r.binders))
	return nil
}
