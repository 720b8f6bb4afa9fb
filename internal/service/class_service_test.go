package service

import (
	"context"
	"testing"

	"github.com/stemsi/siakad-backend/internal/apperror"
	"github.com/stemsi/siakad-backend/internal/model"
)

func TestCreateClassPinnedToActiveSession(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	active := f.seedSession(f.instID, "2025/2026", true, false)

	class, err := f.classSvc.Create(ctx, f.instID, &model.CreateClassRequest{Name: "X-A"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if class.SessionID != active.ID {
		t.Fatalf("class pinned to session %d, want active session %d", class.SessionID, active.ID)
	}
	if class.Status != model.ClassStatusActive {
		t.Fatalf("default status = %q, want %q", class.Status, model.ClassStatusActive)
	}
}

func TestCreateClassRequiresActiveSession(t *testing.T) {
	f := newFixture()
	f.seedSession(f.instID, "2024/2025", false, false)

	_, err := f.classSvc.Create(context.Background(), f.instID, &model.CreateClassRequest{Name: "X-A"})
	assertAppError(t, err, apperror.KindNotFound, "NO_ACTIVE_SESSION")
}

func TestCreateClassDuplicateNameWithinSession(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	active := f.seedSession(f.instID, "2025/2026", true, false)
	f.seedClass(f.instID, active.ID, "X-A", false)

	_, err := f.classSvc.Create(ctx, f.instID, &model.CreateClassRequest{Name: "X-A"})
	assertAppError(t, err, apperror.KindConflict, "DUPLICATE_CLASS_NAME")
}

func TestCreateClassNameReusableAcrossSessions(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	old := f.seedSession(f.instID, "2024/2025", false, false)
	f.seedClass(f.instID, old.ID, "X-A", false)
	f.seedSession(f.instID, "2025/2026", true, false)

	if _, err := f.classSvc.Create(ctx, f.instID, &model.CreateClassRequest{Name: "X-A"}); err != nil {
		t.Fatalf("same name in a different session must be accepted: %v", err)
	}
}

func TestUpdateClassOutsideActiveSession(t *testing.T) {
	f := newFixture()
	old := f.seedSession(f.instID, "2024/2025", false, false)
	oldClass := f.seedClass(f.instID, old.ID, "X-A", false)
	f.seedSession(f.instID, "2025/2026", true, false)

	_, err := f.classSvc.Update(context.Background(), oldClass.ID, f.instID, &model.CreateClassRequest{Name: "X-B"})
	assertAppError(t, err, apperror.KindInvalidState, "CLASS_NOT_IN_ACTIVE_SESSION")
}

func TestFreezeClassBlocksNothingButMutations(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	active := f.seedSession(f.instID, "2025/2026", true, false)
	class := f.seedClass(f.instID, active.ID, "X-A", false)

	frozen, err := f.classSvc.SetFrozen(ctx, class.ID, f.instID, true)
	if err != nil {
		t.Fatalf("freeze: %v", err)
	}
	if !frozen.Frozen {
		t.Fatal("class not marked frozen")
	}

	// The frozen class stays readable and listable.
	if _, err := f.classSvc.Get(ctx, class.ID, f.instID); err != nil {
		t.Fatalf("frozen class must stay readable: %v", err)
	}

	thawed, err := f.classSvc.SetFrozen(ctx, class.ID, f.instID, false)
	if err != nil {
		t.Fatalf("unfreeze: %v", err)
	}
	if thawed.Frozen {
		t.Fatal("class still frozen after unfreeze")
	}
}

func TestFreezeClassOutsideActiveSession(t *testing.T) {
	f := newFixture()
	old := f.seedSession(f.instID, "2024/2025", false, false)
	oldClass := f.seedClass(f.instID, old.ID, "X-A", false)
	f.seedSession(f.instID, "2025/2026", true, false)

	_, err := f.classSvc.SetFrozen(context.Background(), oldClass.ID, f.instID, true)
	assertAppError(t, err, apperror.KindInvalidState, "CLASS_NOT_IN_ACTIVE_SESSION")
}

func TestDeleteFrozenClass(t *testing.T) {
	f := newFixture()
	active := f.seedSession(f.instID, "2025/2026", true, false)
	frozen := f.seedClass(f.instID, active.ID, "X-A", true)

	err := f.classSvc.Delete(context.Background(), frozen.ID, f.instID)
	assertAppError(t, err, apperror.KindInvalidState, "CLASS_FROZEN")
}

func TestDeleteClassWithStudents(t *testing.T) {
	f := newFixture()
	active := f.seedSession(f.instID, "2025/2026", true, false)
	class := f.seedClass(f.instID, active.ID, "X-A", false)
	f.seedStudent(f.instID, active.ID, class.ID, "10001", "Budi Santoso")

	err := f.classSvc.Delete(context.Background(), class.ID, f.instID)
	assertAppError(t, err, apperror.KindConflict, "DEPENDENCY_EXISTS")
}

func TestDeleteEmptyClass(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	active := f.seedSession(f.instID, "2025/2026", true, false)
	class := f.seedClass(f.instID, active.ID, "X-A", false)

	if err := f.classSvc.Delete(ctx, class.ID, f.instID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	_, err := f.classSvc.Get(ctx, class.ID, f.instID)
	assertAppError(t, err, apperror.KindNotFound, "NOT_FOUND")
}

func TestListClassesHistoricalSessionStaysReadable(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	archived := f.seedSession(f.instID, "2023/2024", false, true)
	f.seedClass(f.instID, archived.ID, "X-A", false)
	f.seedClass(f.instID, archived.ID, "X-B", false)
	active := f.seedSession(f.instID, "2025/2026", true, false)
	f.seedClass(f.instID, active.ID, "XI-A", false)

	// sessionID 0 resolves to the active session.
	current, err := f.classSvc.List(ctx, f.instID, 0)
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	if len(current) != 1 || current[0].Name != "XI-A" {
		t.Fatalf("active-session list = %+v, want only XI-A", current)
	}

	historical, err := f.classSvc.List(ctx, f.instID, archived.ID)
	if err != nil {
		t.Fatalf("list archived: %v", err)
	}
	if len(historical) != 2 {
		t.Fatalf("expected 2 archived-session classes, got %d", len(historical))
	}
}

func TestListClassesUnknownSession(t *testing.T) {
	f := newFixture()
	f.seedSession(f.instID, "2025/2026", true, false)

	_, err := f.classSvc.List(context.Background(), f.instID, 9999)
	assertAppError(t, err, apperror.KindNotFound, "NOT_FOUND")
}

func TestClassMutationsFrozenInstitution(t *testing.T) {
	f := newFixture()
	active := f.seedSession(f.instID, "2025/2026", true, false)
	class := f.seedClass(f.instID, active.ID, "X-A", false)
	f.freezeInstitution(f.instID)

	_, err := f.classSvc.Create(context.Background(), f.instID, &model.CreateClassRequest{Name: "X-B"})
	assertAppError(t, err, apperror.KindInvalidState, "INSTITUTION_FROZEN")

	_, err = f.classSvc.SetFrozen(context.Background(), class.ID, f.instID, true)
	assertAppError(t, err, apperror.KindInvalidState, "INSTITUTION_FROZEN")
}
