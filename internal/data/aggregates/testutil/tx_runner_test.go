package testutil

import (
	"context"
	"errors"
	"testing"

	"github.com/Goutham-Eda/Carlo/internal/pkg/dbctx"
)

func TestInjectedTxRunner_CommitsOnSuccess(t *testing.T) {
	r := &InjectedTxRunner{}
	called := false
	err := r.InTx(context.Background(), func(_ dbctx.Context) error {
		called = true
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !called {
		t.Fatalf("expected callback to run")
	}
	if r.BeginCalls != 1 || r.CommitCalls != 1 || r.RollbackCalls != 0 {
		t.Fatalf("unexpected counters begin=%d commit=%d rollback=%d", r.BeginCalls, r.CommitCalls, r.RollbackCalls)
	}
}

func TestInjectedTxRunner_FailCommitTriggersRollback(t *testing.T) {
	commitErr := errors.New("commit failed")
	r := &InjectedTxRunner{FailCommit: commitErr}
	err := r.InTx(context.Background(), func(_ dbctx.Context) error {
		return nil
	})
	if !errors.Is(err, commitErr) {
		t.Fatalf("expected commit err, got %v", err)
	}
	if r.CommitCalls != 0 || r.RollbackCalls != 1 {
		t.Fatalf("unexpected counters commit=%d rollback=%d", r.CommitCalls, r.RollbackCalls)
	}
}

func TestInjectedTxRunner_DelegatesToInner(t *testing.T) {
	inner := &InjectedTxRunner{}
	r := &InjectedTxRunner{Inner: inner}
	if err := r.InTx(context.Background(), func(_ dbctx.Context) error { return nil }); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if inner.BeginCalls != 1 || inner.CommitCalls != 1 {
		t.Fatalf("expected inner runner to run the body, begin=%d commit=%d", inner.BeginCalls, inner.CommitCalls)
	}
}

func TestHooksRecorder_CapturesSignals(t *testing.T) {
	h := &HooksRecorder{}
	h.ObserveOperation("Contracts.Document.Upload", "success", 0)
	h.ObserveOperation("Contracts.Document.Upload", "precondition_failed", 0)
	h.IncConflict("Contracts.Document.Complete")
	h.IncStatusTransition("uploaded", "processing")

	if got := h.LastStatus("Contracts.Document.Upload"); got != "precondition_failed" {
		t.Fatalf("LastStatus: got %q", got)
	}
	if len(h.Conflicts) != 1 || len(h.Transitions) != 1 || h.Transitions[0] != "uploaded->processing" {
		t.Fatalf("unexpected signals: %+v %+v", h.Conflicts, h.Transitions)
	}
}
