// Package reqctx carries request-scoped values through context.Context:
// request metadata, verified token claims and the caller's clinic staff scope.
//
// Middleware sets them in order RequestID, AuthRequired, ClinicHeader:
//
//	ctx = reqctx.WithRequestMeta(ctx, meta)
//	ctx = reqctx.WithClaims(ctx, claims)
//	ctx = reqctx.WithStaff(ctx, reqctx.Staff{ClinicID: cid, UserID: uid, Role: "DOCTOR"})
//
// Services read them back without touching fiber, for example to tag logs:
//
//	slog.Warn("control: appointment skipped", append(reqctx.LogAttrs(ctx), "error", err)...)
//
// Staff is only present on clinic-scoped routes.
package reqctx
