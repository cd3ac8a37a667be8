package stage

import (
	"context"

	"trackscribe/internal/catalog"
)

// Handler describes the contract the pipeline needs from each stage.
type Handler interface {
	Execute(context.Context, *catalog.Track) error
	HealthCheck(context.Context) Health
}
