package aggregates

import (
	"context"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"gorm.io/gorm"

	"github.com/Goutham-Eda/Carlo/internal/data/repos"
	domainagg "github.com/Goutham-Eda/Carlo/internal/domain/aggregates"
	"github.com/Goutham-Eda/Carlo/internal/observability"
	"github.com/Goutham-Eda/Carlo/internal/pkg/dbctx"
	"github.com/Goutham-Eda/Carlo/internal/pkg/logger"
)

type BaseDeps struct {
	DB       *gorm.DB
	Log      *logger.Logger
	Runner   TxRunner
	Hooks    Hooks
	CASGuard CASGuard
	Policy   domainagg.Policy
	// Audit receives one row per successful write. Nil disables auditing.
	Audit repos.AuditLogRepo
}

func (d BaseDeps) withDefaults() BaseDeps {
	if d.Runner == nil {
		d.Runner = NewGormTxRunner(d.DB)
	}
	if d.Hooks == nil {
		d.Hooks = noopHooks{}
	}
	if d.CASGuard.db == nil {
		d.CASGuard = NewCASGuard(d.DB)
	}
	if d.Log == nil {
		d.Log = logger.Nop()
	}
	if d.Policy.AuditOnUserDelete == "" {
		d.Policy.AuditOnUserDelete = domainagg.AuditNullify
	}
	return d
}

// executeWrite runs fn in one transaction under a span named op and reports
// the outcome to hooks. The returned error is always a *domainagg.Error.
func executeWrite(ctx context.Context, deps BaseDeps, op string, fn func(dbc dbctx.Context) error) error {
	deps = deps.withDefaults()
	if op = strings.TrimSpace(op); op == "" {
		op = "aggregate.write"
	}
	began := time.Now()

	ctx, span := observability.Tracer().Start(ctx, op)
	defer span.End()

	err := MapError(op, deps.Runner.InTx(ctx, fn))
	outcome := outcomeOf(err)
	span.SetAttributes(attribute.String("aggregate.status", outcome))
	defer func() { deps.Hooks.ObserveOperation(op, outcome, time.Since(began)) }()
	if err == nil {
		return nil
	}

	span.RecordError(err)
	span.SetStatus(codes.Error, outcome)
	switch domainagg.CodeOf(err) {
	case domainagg.CodeConflict:
		deps.Hooks.IncConflict(op)
	case domainagg.CodeRetryable:
		deps.Hooks.IncRetry(op)
	case domainagg.CodeInternal:
		deps.Log.Error("aggregate write failed", "op", op, "error", err)
		return err
	}
	if e, ok := err.(*domainagg.Error); ok && !e.UserFacing() {
		deps.Log.Warn("aggregate write rejected by caller bug", "op", op, "code", outcome, "error", err)
		return err
	}
	deps.Log.Debug("aggregate write rejected", "op", op, "code", outcome, "error", err)
	return err
}

func outcomeOf(err error) string {
	if err == nil {
		return "success"
	}
	return string(domainagg.CodeOf(MapError("aggregate.status", err)))
}
