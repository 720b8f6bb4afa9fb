package main

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/siakad-backend/internal/config"
	"github.com/stemsi/siakad-backend/internal/database"
	"github.com/stemsi/siakad-backend/internal/logger"
	"github.com/stemsi/siakad-backend/internal/model"
	"github.com/stemsi/siakad-backend/internal/repository"
	"github.com/stemsi/siakad-backend/internal/service"
)

var studentNames = []string{
	"Budi Santoso", "Siti Aminah", "Andi Pratama", "Rina Wati", "Joko Susilo",
	"Ayu Lestari", "Dodi Kusuma", "Eka Putri", "Fahri Hamzah", "Gita Savitri",
	"Hendra Gunawan", "Ika Sari", "Jamal Mirdad", "Kiki Fatmala", "Lukman Hakim",
	"Maya Septiana", "Nanda Pratama", "Oki Setiana", "Putri Dian", "Qori Maharani",
}

var teacherNames = []string{
	"Agus Salim", "Dewi Anggraini", "Rudi Hartono", "Sri Mulyani", "Bambang Wijaya",
}

// Seeds a demo institution with two academic sessions, classes, students
// and homeroom teachers. Intended for local development only.
func main() {
	cfg := config.Load()
	log := logger.Setup("siakad-seed-demo", cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	atomic := repository.NewAtomicRunner(pool, cfg.DBTxFallback)
	institutionRepo := repository.NewInstitutionRepository(pool)
	sessionRepo := repository.NewSessionRepository(pool, atomic)
	classRepo := repository.NewClassRepository(pool)
	studentRepo := repository.NewStudentRepository(pool)
	teacherRepo := repository.NewTeacherRepository(pool, atomic)

	guard := service.NewGuard(institutionRepo, sessionRepo, classRepo)
	institutionService := service.NewInstitutionService(institutionRepo)
	sessionService := service.NewSessionService(sessionRepo, guard)
	classService := service.NewClassService(classRepo, sessionRepo, guard)
	studentService := service.NewStudentService(studentRepo, sessionRepo, guard)
	teacherService := service.NewTeacherService(teacherRepo, guard, cfg.BcryptCost)

	fmt.Println("=== Seeding Demo Data ===")

	inst, err := institutionService.Create(ctx, &model.CreateInstitutionRequest{Name: "SMA Demo Nusantara"})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create institution")
	}
	fmt.Printf("Created institution '%s' (ID %d)\n", inst.Name, inst.ID)

	// Two sessions: a closed previous year and the active current year.
	// Each is activated while its data is seeded because record services
	// only write into the active session.
	prev, err := sessionService.Create(ctx, inst.ID,
		"2024/2025",
		time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC),
		true,
	)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create previous session")
	}

	seedSessionData(ctx, log, classService, studentService, teacherService, inst.ID, []string{"X-A", "X-B"}, 0)

	if _, err := sessionService.Deactivate(ctx, prev.ID, inst.ID); err != nil {
		log.Fatal().Err(err).Msg("Failed to deactivate previous session")
	}

	cur, err := sessionService.Create(ctx, inst.ID,
		"2025/2026",
		time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC),
		true,
	)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create current session")
	}
	fmt.Printf("Sessions: %s (closed), %s (active)\n", prev.Name, cur.Name)

	seedSessionData(ctx, log, classService, studentService, teacherService, inst.ID, []string{"X-A", "X-B", "XI-A"}, 100)

	fmt.Println("Done.")
}

// seedSessionData fills the currently active session with classes, students
// and homeroom teachers. nisOffset keeps NIS values distinct per session.
func seedSessionData(
	ctx context.Context,
	log zerolog.Logger,
	classService *service.ClassService,
	studentService *service.StudentService,
	teacherService *service.TeacherService,
	institutionID int,
	classNames []string,
	nisOffset int,
) {
	classes := make([]*model.Class, 0, len(classNames))
	for _, name := range classNames {
		class, err := classService.Create(ctx, institutionID, &model.CreateClassRequest{Name: name})
		if err != nil {
			log.Fatal().Err(err).Str("class", name).Msg("Failed to create class")
		}
		classes = append(classes, class)
	}

	for i, name := range studentNames {
		class := classes[i%len(classes)]
		req := &model.CreateStudentRequest{
			NIS:      fmt.Sprintf("%05d", nisOffset+i+1),
			Name:     name,
			Gender:   model.GenderMale,
			Religion: model.ReligionIslam,
			ClassID:  class.ID,
		}
		if i%2 != 0 {
			req.Gender = model.GenderFemale
		}
		if _, err := studentService.Create(ctx, institutionID, req); err != nil {
			log.Fatal().Err(err).Str("student", name).Msg("Failed to create student")
		}
	}

	for i, class := range classes {
		name := teacherNames[i%len(teacherNames)]
		classID := class.ID
		req := &model.CreateTeacherRequest{
			Name:     name,
			Email:    fmt.Sprintf("guru%d.s%d@demo.sch.id", i+1, nisOffset),
			Password: "rahasia123",
			ClassID:  &classID,
		}
		if _, err := teacherService.Create(ctx, institutionID, req); err != nil {
			log.Fatal().Err(err).Str("teacher", name).Msg("Failed to create teacher")
		}
	}

	fmt.Printf("Seeded %d classes, %d students, %d teachers\n", len(classes), len(studentNames), len(classes))
}
