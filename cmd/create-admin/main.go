package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"

	"github.com/stemsi/siakad-backend/internal/config"
	"github.com/stemsi/siakad-backend/internal/database"
	"github.com/stemsi/siakad-backend/internal/logger"
	"github.com/stemsi/siakad-backend/internal/model"
	"github.com/stemsi/siakad-backend/internal/repository"
	"github.com/stemsi/siakad-backend/internal/service"
	"golang.org/x/term"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup("siakad-create-admin", cfg.LogLevel, cfg.LogFormat)

	ctx := context.Background()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Initialize Services ───────────────────────────────────────────
	adminRepo := repository.NewAdminRepository(pool)
	institutionRepo := repository.NewInstitutionRepository(pool)
	authService := service.NewAuthService(cfg, nil)
	adminService := service.NewAdminService(adminRepo, authService)
	institutionService := service.NewInstitutionService(institutionRepo)

	// ─── CLI Input ─────────────────────────────────────────────────────
	reader := bufio.NewReader(os.Stdin)

	fmt.Println("=== Create New Admin User ===")

	// Institution
	fmt.Print("Enter Institution ID (empty to create a new one): ")
	instIDStr, _ := reader.ReadString('\n')
	instIDStr = strings.TrimSpace(instIDStr)

	var institutionID int
	if instIDStr == "" {
		fmt.Print("Enter new Institution Name: ")
		instName, _ := reader.ReadString('\n')
		instName = strings.TrimSpace(instName)
		if instName == "" {
			fmt.Println("Error: Institution name is required")
			return
		}
		inst, err := institutionService.Create(ctx, &model.CreateInstitutionRequest{Name: instName})
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create institution")
		}
		institutionID = inst.ID
		fmt.Printf("Created institution '%s' with ID: %d\n", inst.Name, inst.ID)
	} else {
		id, err := strconv.Atoi(instIDStr)
		if err != nil {
			fmt.Println("Error: Institution ID must be a number")
			return
		}
		if _, err := institutionService.Get(ctx, id); err != nil {
			log.Fatal().Err(err).Msg("Institution not found")
		}
		institutionID = id
	}

	// Name
	fmt.Print("Enter Name: ")
	name, _ := reader.ReadString('\n')
	name = strings.TrimSpace(name)
	if name == "" {
		fmt.Println("Error: Name is required")
		return
	}

	// Email
	fmt.Print("Enter Email: ")
	email, _ := reader.ReadString('\n')
	email = strings.TrimSpace(email)
	if email == "" {
		fmt.Println("Error: Email is required")
		return
	}

	// Password
	fmt.Print("Enter Password: ")
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		fmt.Println("\nError reading password")
		return
	}
	password := string(bytePassword)
	fmt.Println() // Newline after password input
	if len(password) < 6 {
		fmt.Println("Error: Password must be at least 6 characters")
		return
	}

	// ─── Create Admin ──────────────────────────────────────────────────
	admin, err := adminService.Create(ctx, &model.CreateAdminRequest{
		InstitutionID: institutionID,
		Name:          name,
		Email:         email,
		Password:      password,
		Permissions:   []string{model.PermissionSuperAdmin},
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create admin")
	}

	fmt.Printf("\nSuccess! Admin '%s' (%s) created with ID: %d\n", admin.Name, admin.Email, admin.ID)
}
