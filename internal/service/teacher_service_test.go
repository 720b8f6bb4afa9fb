package service

import (
	"context"
	"testing"

	"github.com/stemsi/siakad-backend/internal/apperror"
	"github.com/stemsi/siakad-backend/internal/model"
)

func teacherRequest(name, email string, classID *int) *model.CreateTeacherRequest {
	return &model.CreateTeacherRequest{
		Name:     name,
		Email:    email,
		Password: "rahasia123",
		ClassID:  classID,
	}
}

func teacherUpdateFrom(t *model.Teacher) *model.UpdateTeacherRequest {
	return &model.UpdateTeacherRequest{
		Name:    t.Name,
		Email:   t.Email,
		Phone:   t.Phone,
		Status:  t.Status,
		ClassID: t.ClassID,
	}
}

func TestCreateTeacherWithClass(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	active := f.seedSession(f.instID, "2025/2026", true, false)
	class := f.seedClass(f.instID, active.ID, "X-A", false)

	teacher, err := f.teacherSvc.Create(ctx, f.instID, teacherRequest("Ibu Sari", "sari@demo.sch.id", &class.ID))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if teacher.ClassID == nil || *teacher.ClassID != class.ID {
		t.Fatalf("teacher not assigned to class %d: %+v", class.ID, teacher.ClassID)
	}
	if teacher.PasswordHash == "" || teacher.PasswordHash == "rahasia123" {
		t.Fatal("password must be stored hashed")
	}
}

func TestCreateTeacherUnassignedSkipsAssignmentChecks(t *testing.T) {
	f := newFixture()
	// No active session at all; an unassigned teacher is still legal.
	if _, err := f.teacherSvc.Create(context.Background(), f.instID, teacherRequest("Pak Joko", "joko@demo.sch.id", nil)); err != nil {
		t.Fatalf("unassigned create must not need an active session: %v", err)
	}
}

func TestCreateTeacherClassOccupied(t *testing.T) {
	f := newFixture()
	active := f.seedSession(f.instID, "2025/2026", true, false)
	class := f.seedClass(f.instID, active.ID, "X-A", false)
	f.seedTeacher(f.instID, &class.ID, "Ibu Sari", "sari@demo.sch.id")

	_, err := f.teacherSvc.Create(context.Background(), f.instID, teacherRequest("Pak Joko", "joko@demo.sch.id", &class.ID))
	assertAppError(t, err, apperror.KindConflict, "CLASS_ALREADY_ASSIGNED")
}

func TestCreateTeacherEmailAlreadyHoldsClass(t *testing.T) {
	f := newFixture()
	active := f.seedSession(f.instID, "2025/2026", true, false)
	classA := f.seedClass(f.instID, active.ID, "X-A", false)
	classB := f.seedClass(f.instID, active.ID, "X-B", false)
	f.seedTeacher(f.instID, &classA.ID, "Ibu Sari", "sari@demo.sch.id")

	_, err := f.teacherSvc.Create(context.Background(), f.instID, teacherRequest("Ibu Sari", "sari@demo.sch.id", &classB.ID))
	assertAppError(t, err, apperror.KindConflict, "TEACHER_ALREADY_ASSIGNED")
}

func TestCreateTeacherEmailFreeWhenOldAssignmentIsHistorical(t *testing.T) {
	f := newFixture()
	old := f.seedSession(f.instID, "2024/2025", false, false)
	oldClass := f.seedClass(f.instID, old.ID, "X-A", false)
	f.seedTeacher(f.instID, &oldClass.ID, "Ibu Sari", "sari@demo.sch.id")

	active := f.seedSession(f.instID, "2025/2026", true, false)
	class := f.seedClass(f.instID, active.ID, "X-A", false)

	if _, err := f.teacherSvc.Create(context.Background(), f.instID, teacherRequest("Ibu Sari", "sari@demo.sch.id", &class.ID)); err != nil {
		t.Fatalf("assignment in a past session must not block: %v", err)
	}
}

func TestCreateTeacherFrozenClass(t *testing.T) {
	f := newFixture()
	active := f.seedSession(f.instID, "2025/2026", true, false)
	frozen := f.seedClass(f.instID, active.ID, "X-A", true)

	_, err := f.teacherSvc.Create(context.Background(), f.instID, teacherRequest("Ibu Sari", "sari@demo.sch.id", &frozen.ID))
	assertAppError(t, err, apperror.KindInvalidState, "CLASS_FROZEN")
}

func TestCreateTeacherClassOutsideActiveSession(t *testing.T) {
	f := newFixture()
	f.seedSession(f.instID, "2025/2026", true, false)
	old := f.seedSession(f.instID, "2024/2025", false, false)
	oldClass := f.seedClass(f.instID, old.ID, "X-A", false)

	_, err := f.teacherSvc.Create(context.Background(), f.instID, teacherRequest("Ibu Sari", "sari@demo.sch.id", &oldClass.ID))
	assertAppError(t, err, apperror.KindInvalidState, "CLASS_NOT_IN_ACTIVE_SESSION")
}

func TestUpdateTeacherMoveBetweenClasses(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	active := f.seedSession(f.instID, "2025/2026", true, false)
	classA := f.seedClass(f.instID, active.ID, "X-A", false)
	classB := f.seedClass(f.instID, active.ID, "X-B", false)
	teacher := f.seedTeacher(f.instID, &classA.ID, "Ibu Sari", "sari@demo.sch.id")

	req := teacherUpdateFrom(teacher)
	req.ClassID = &classB.ID
	updated, err := f.teacherSvc.Update(ctx, teacher.ID, f.instID, req)
	if err != nil {
		t.Fatalf("moving between classes must pass the self-exclusion: %v", err)
	}
	if updated.ClassID == nil || *updated.ClassID != classB.ID {
		t.Fatalf("teacher not moved to class %d", classB.ID)
	}

	// Class A is free again for someone else.
	if _, err := f.teacherSvc.Create(ctx, f.instID, teacherRequest("Pak Joko", "joko@demo.sch.id", &classA.ID)); err != nil {
		t.Fatalf("vacated class must be assignable: %v", err)
	}
}

func TestUpdateTeacherVacateAssignment(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	active := f.seedSession(f.instID, "2025/2026", true, false)
	class := f.seedClass(f.instID, active.ID, "X-A", false)
	teacher := f.seedTeacher(f.instID, &class.ID, "Ibu Sari", "sari@demo.sch.id")

	req := teacherUpdateFrom(teacher)
	req.ClassID = nil
	updated, err := f.teacherSvc.Update(ctx, teacher.ID, f.instID, req)
	if err != nil {
		t.Fatalf("vacate: %v", err)
	}
	if updated.ClassID != nil {
		t.Fatal("assignment not vacated")
	}
}

func TestUpdateTeacherVacateFrozenClassBlocked(t *testing.T) {
	f := newFixture()
	active := f.seedSession(f.instID, "2025/2026", true, false)
	frozen := f.seedClass(f.instID, active.ID, "X-A", true)
	teacher := f.seedTeacher(f.instID, &frozen.ID, "Ibu Sari", "sari@demo.sch.id")

	req := teacherUpdateFrom(teacher)
	req.ClassID = nil
	_, err := f.teacherSvc.Update(context.Background(), teacher.ID, f.instID, req)
	assertAppError(t, err, apperror.KindInvalidState, "CLASS_FROZEN")
}

func TestUpdateTeacherProfileOnlyKeepsAssignment(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	active := f.seedSession(f.instID, "2025/2026", true, false)
	frozen := f.seedClass(f.instID, active.ID, "X-A", true)
	teacher := f.seedTeacher(f.instID, &frozen.ID, "Ibu Sari", "sari@demo.sch.id")

	// Same class id means no reassignment; the frozen class must not block a
	// plain profile edit.
	req := teacherUpdateFrom(teacher)
	req.Phone = "081234567890"
	updated, err := f.teacherSvc.Update(ctx, teacher.ID, f.instID, req)
	if err != nil {
		t.Fatalf("profile update: %v", err)
	}
	if updated.ClassID == nil || *updated.ClassID != frozen.ID {
		t.Fatal("assignment must survive a profile-only update")
	}
	if updated.Phone != "081234567890" {
		t.Fatalf("phone not updated: %q", updated.Phone)
	}
}

func TestUpdateTeacherEmailToAssignedIdentityBlocked(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	active := f.seedSession(f.instID, "2025/2026", true, false)
	classA := f.seedClass(f.instID, active.ID, "X-A", false)
	classB := f.seedClass(f.instID, active.ID, "X-B", false)
	f.seedTeacher(f.instID, &classA.ID, "Ibu Sari", "sari@demo.sch.id")
	joko := f.seedTeacher(f.instID, &classB.ID, "Pak Joko", "joko@demo.sch.id")

	// Class unchanged, email moved onto an identity that already holds X-A.
	// Letting this through would leave one identity on two classes of the
	// active session.
	req := teacherUpdateFrom(joko)
	req.Email = "sari@demo.sch.id"
	_, err := f.teacherSvc.Update(ctx, joko.ID, f.instID, req)
	assertAppError(t, err, apperror.KindConflict, "TEACHER_ALREADY_ASSIGNED")

	got, err := f.teacherSvc.Get(ctx, joko.ID, f.instID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Email != "joko@demo.sch.id" {
		t.Fatalf("email must stay untouched after the rejected update: %q", got.Email)
	}
}

func TestUpdateTeacherEmailChangeOnHistoricalAssignment(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	old := f.seedSession(f.instID, "2024/2025", false, false)
	oldClass := f.seedClass(f.instID, old.ID, "X-A", false)
	joko := f.seedTeacher(f.instID, &oldClass.ID, "Pak Joko", "joko@demo.sch.id")

	active := f.seedSession(f.instID, "2025/2026", true, false)
	classA := f.seedClass(f.instID, active.ID, "X-A", false)
	f.seedTeacher(f.instID, &classA.ID, "Ibu Sari", "sari@demo.sch.id")

	// The kept class belongs to a historical session, so within the active
	// session the shared identity still holds a single class.
	req := teacherUpdateFrom(joko)
	req.Email = "sari@demo.sch.id"
	if _, err := f.teacherSvc.Update(ctx, joko.ID, f.instID, req); err != nil {
		t.Fatalf("email change on a historical assignment: %v", err)
	}
}

func TestUpdateTeacherTargetOccupied(t *testing.T) {
	f := newFixture()
	active := f.seedSession(f.instID, "2025/2026", true, false)
	classA := f.seedClass(f.instID, active.ID, "X-A", false)
	classB := f.seedClass(f.instID, active.ID, "X-B", false)
	teacher := f.seedTeacher(f.instID, &classA.ID, "Ibu Sari", "sari@demo.sch.id")
	f.seedTeacher(f.instID, &classB.ID, "Pak Joko", "joko@demo.sch.id")

	req := teacherUpdateFrom(teacher)
	req.ClassID = &classB.ID
	_, err := f.teacherSvc.Update(context.Background(), teacher.ID, f.instID, req)
	assertAppError(t, err, apperror.KindConflict, "CLASS_ALREADY_ASSIGNED")
}

func TestTeacherCrossTenantIsNotFound(t *testing.T) {
	f := newFixture()
	other := f.seedInstitution("SMA Lain", false)
	foreign := f.seedTeacher(other, nil, "Ibu Sari", "sari@demo.sch.id")

	_, err := f.teacherSvc.Get(context.Background(), foreign.ID, f.instID)
	assertAppError(t, err, apperror.KindNotFound, "NOT_FOUND")
}

func TestListTeachersPagination(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		f.seedTeacher(f.instID, nil, "Guru", string(rune('a'+i))+"@demo.sch.id")
	}

	teachers, pagination, err := f.teacherSvc.List(ctx, f.instID, 2, 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(teachers) != 2 {
		t.Fatalf("page 2 size = %d, want 2", len(teachers))
	}
	if pagination.TotalItems != 5 || pagination.TotalPages != 3 {
		t.Fatalf("pagination = %+v, want 5 items over 3 pages", pagination)
	}
}
