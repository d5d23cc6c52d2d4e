//go:build !gcloud

package logging

import (
	"context"
	"log/slog"
)

// gcpTraceAttrs is a no-op outside GCP; local logs correlate via
// request_id instead.
func gcpTraceAttrs(_ context.Context, _ string) []slog.Attr {
	return nil
}
