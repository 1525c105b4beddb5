package pivot

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/skillsenselab/pivotkit/entity"
	"github.com/skillsenselab/pivotkit/errors"
	"github.com/skillsenselab/pivotkit/logger"
	"github.com/skillsenselab/pivotkit/observability"
)

// RunPivot executes a registered pivot against an entity using the current
// query window. Each run gets a uuid, a tracing span, metrics, and a
// structured log line.
func (env *Environment) RunPivot(ctx context.Context, entityType, containerName, name string, e entity.Entity) (any, error) {
	p, found := env.registry.Lookup(entityType, containerName, name)
	if !found {
		return nil, errors.PivotNotFound(entityType, containerName, name)
	}

	runID := uuid.NewString()
	ctx, span := observability.StartSpan(ctx, observability.SpanPivotRun)
	defer span.End()
	observability.SetSpanAttribute(ctx, observability.AttrEntityType, entityType)
	observability.SetSpanAttribute(ctx, observability.AttrContainer, containerName)
	observability.SetSpanAttribute(ctx, observability.AttrPivotName, name)
	observability.SetSpanAttribute(ctx, observability.AttrRunID, runID)

	// Read the window at run time, never from a registration snapshot.
	ts := env.window.Timespan()

	env.metrics.RecordPivotStart(ctx)
	start := time.Now()
	result, err := p.Run(ctx, e, ts)
	elapsed := time.Since(start)

	status := "ok"
	if err != nil {
		status = "error"
		observability.SetSpanError(ctx, err)
		env.metrics.RecordError(ctx, string(errors.CodeOf(err)), "pivot")
	}
	env.metrics.RecordPivotEnd(ctx, entityType, containerName, name, status, elapsed)

	fields := map[string]interface{}{
		logger.FieldEntity:    entityType,
		logger.FieldContainer: containerName,
		logger.FieldPivot:     name,
		logger.FieldRunID:     runID,
		logger.FieldDuration:  elapsed.String(),
		logger.FieldStatus:    status,
	}
	if err != nil {
		fields[logger.FieldError] = err.Error()
		env.log.Warn("Pivot run failed", fields)
		return nil, err
	}
	env.log.Info("Pivot run completed", fields)
	return result, nil
}
