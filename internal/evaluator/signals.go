package evaluator

import (
	"github.com/arockenbauer/MeowLang/internal/diagnostics"
	"github.com/arockenbauer/MeowLang/pkg/token"
)

// RuntimeError wraps a catalog diagnostic raised during evaluation.
// It satisfies the error interface via Diagnostic.Error, so it can
// travel through ordinary Go error returns.
type RuntimeError struct {
	*diagnostics.Diagnostic
}

func newError(code diagnostics.Code, pos token.Position, args ...any) *RuntimeError {
	return &RuntimeError{diagnostics.Newf(code, pos, args...)}
}

// breakSignal and continueSignal are sentinel errors used to unwind
// the Go call stack up to the innermost loop, matching the teacher's
// pattern of using a distinguishable error type for non-error control
// flow (see its Return-value propagation in core_evaluator.go) rather
// than channels or panics. Each carries the position of the
// originating statement so a leaked signal can still be reported with
// a useful location.
type breakSignal struct{ Pos token.Position }

func (breakSignal) Error() string { return "arrete outside loop body" }

type continueSignal struct{ Pos token.Position }

func (continueSignal) Error() string { return "continue outside loop body" }

// returnSignal carries a function's result value back to the call
// site that installed the frame.
type returnSignal struct {
	Value Value
	Pos   token.Position
}

func (returnSignal) Error() string { return "retour outside function body" }

// asControlSignal converts a break/continue/return signal that leaked
// past its enclosing construct into the catalog error spec.md §7
// reserves for that case. Returns ok=false for any other error so
// callers can propagate it unchanged.
func asControlSignal(err error) (*RuntimeError, bool) {
	switch sig := err.(type) {
	case breakSignal:
		return newError(diagnostics.ErrBreakOutsideLoop, sig.Pos), true
	case continueSignal:
		return newError(diagnostics.ErrContinueOutsideLoop, sig.Pos), true
	case returnSignal:
		return newError(diagnostics.ErrReturnOutsideFunc, sig.Pos), true
	default:
		return nil, false
	}
}
