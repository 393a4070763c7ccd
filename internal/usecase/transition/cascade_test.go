package transition

import (
	"context"
	"errors"
	"testing"

	"remedia/internal/domain/lifecycle"
	"remedia/internal/ports"
)

func TestCascadeNoTasksReturnsNil(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	capa := seedCapa(t, f, "t-acme", lifecycle.CapaInProgress)

	updated, err := f.svc.CheckAndCascadeCapaClose(ctx, "t-acme", capa.CapaID, "system")
	if err != nil {
		t.Fatalf("CheckAndCascadeCapaClose() error = %v", err)
	}
	if updated != nil {
		t.Fatalf("result = %+v, want nil", updated)
	}

	reloaded, err := f.records.GetCapa(ctx, "t-acme", capa.CapaID)
	if err != nil {
		t.Fatalf("reload capa: %v", err)
	}
	if reloaded.Status != lifecycle.CapaInProgress {
		t.Fatalf("status = %s, want unchanged", reloaded.Status)
	}
	if rows := capaHistory(t, f, "t-acme", capa.CapaID); len(rows) != 0 {
		t.Fatalf("history rows = %d, want 0", len(rows))
	}
}

func TestCascadePartialCompletionReturnsNil(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	capa := seedCapa(t, f, "t-acme", lifecycle.CapaInProgress)
	seedTask(t, f, "t-acme", capa.CapaID, lifecycle.TaskCompleted)
	seedTask(t, f, "t-acme", capa.CapaID, lifecycle.TaskInProgress)

	updated, err := f.svc.CheckAndCascadeCapaClose(ctx, "t-acme", capa.CapaID, "system")
	if err != nil {
		t.Fatalf("CheckAndCascadeCapaClose() error = %v", err)
	}
	if updated != nil {
		t.Fatalf("result = %+v, want nil", updated)
	}
	if rows := capaHistory(t, f, "t-acme", capa.CapaID); len(rows) != 0 {
		t.Fatalf("history rows = %d, want 0", len(rows))
	}
}

func TestCascadeAlreadyClosedReturnsNil(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	capa := seedCapa(t, f, "t-acme", lifecycle.CapaClosed)
	seedTask(t, f, "t-acme", capa.CapaID, lifecycle.TaskCompleted)
	seedTask(t, f, "t-acme", capa.CapaID, lifecycle.TaskCancelled)

	updated, err := f.svc.CheckAndCascadeCapaClose(ctx, "t-acme", capa.CapaID, "system")
	if err != nil {
		t.Fatalf("CheckAndCascadeCapaClose() error = %v", err)
	}
	if updated != nil {
		t.Fatalf("result = %+v, want nil", updated)
	}
	if rows := capaHistory(t, f, "t-acme", capa.CapaID); len(rows) != 0 {
		t.Fatalf("history rows = %d, want 0 (no duplicate close)", len(rows))
	}
}

func TestCascadeClosesCapaWhenAllTasksTerminal(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	capa := seedCapa(t, f, "t-acme", lifecycle.CapaInProgress)
	seedTask(t, f, "t-acme", capa.CapaID, lifecycle.TaskCompleted)
	seedTask(t, f, "t-acme", capa.CapaID, lifecycle.TaskCancelled)

	updated, err := f.svc.CheckAndCascadeCapaClose(ctx, "t-acme", capa.CapaID, "scheduler")
	if err != nil {
		t.Fatalf("CheckAndCascadeCapaClose() error = %v", err)
	}
	if updated == nil {
		t.Fatal("result = nil, want closed capa")
	}
	if updated.Status != lifecycle.CapaClosed {
		t.Fatalf("status = %s, want %s", updated.Status, lifecycle.CapaClosed)
	}

	rows := capaHistory(t, f, "t-acme", capa.CapaID)
	if len(rows) != 1 {
		t.Fatalf("history rows = %d, want 1", len(rows))
	}
	if rows[0].PreviousStatus == nil || *rows[0].PreviousStatus != string(lifecycle.CapaInProgress) {
		t.Fatalf("previous status = %v", rows[0].PreviousStatus)
	}
	if rows[0].NewStatus != string(lifecycle.CapaClosed) {
		t.Fatalf("new status = %s", rows[0].NewStatus)
	}
	if rows[0].ChangeReason == nil || *rows[0].ChangeReason != AutoCloseReason {
		t.Fatalf("change reason = %v, want %q", rows[0].ChangeReason, AutoCloseReason)
	}
	if rows[0].Source != ports.SourceSystem {
		t.Fatalf("source = %s, want %s", rows[0].Source, ports.SourceSystem)
	}
	if rows[0].ChangedByUserID != "scheduler" {
		t.Fatalf("changed by = %s", rows[0].ChangedByUserID)
	}
}

func TestCascadeIsIdempotent(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	capa := seedCapa(t, f, "t-acme", lifecycle.CapaVerified)
	seedTask(t, f, "t-acme", capa.CapaID, lifecycle.TaskCompleted)

	first, err := f.svc.CheckAndCascadeCapaClose(ctx, "t-acme", capa.CapaID, "scheduler")
	if err != nil {
		t.Fatalf("first cascade: %v", err)
	}
	if first == nil || first.Status != lifecycle.CapaClosed {
		t.Fatalf("first cascade result = %+v", first)
	}

	second, err := f.svc.CheckAndCascadeCapaClose(ctx, "t-acme", capa.CapaID, "scheduler")
	if err != nil {
		t.Fatalf("second cascade: %v", err)
	}
	if second != nil {
		t.Fatalf("second cascade = %+v, want nil", second)
	}
	if rows := capaHistory(t, f, "t-acme", capa.CapaID); len(rows) != 1 {
		t.Fatalf("history rows = %d, want 1", len(rows))
	}
}

func TestCascadeMissingCapaSurfacesNotFound(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	// Orphan task rows: the parent capa was never created.
	seedTask(t, f, "t-acme", "capa-orphan", lifecycle.TaskCompleted)

	_, err := f.svc.CheckAndCascadeCapaClose(ctx, "t-acme", "capa-orphan", "system")
	if !errors.Is(err, ports.ErrCapaNotFound) {
		t.Fatalf("error = %v, want ErrCapaNotFound", err)
	}
}
