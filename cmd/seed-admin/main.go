package main

import (
	"context"
	"errors"
	"log"
	"os"
	"time"

	"algoclub/internal/common"
	"algoclub/internal/common/security"
	"algoclub/internal/domain/model"
	"algoclub/internal/domain/repository"
	"algoclub/internal/platform/config"
	"algoclub/internal/platform/database"

	"github.com/google/uuid"
)

// Seeds the head-admin account from the environment. Safe to run more than
// once; an existing account with the same email is left untouched.
func main() {
	config.Load()

	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	handle := os.Getenv("ADMIN_CF_HANDLE")
	name := os.Getenv("ADMIN_NAME")
	if name == "" {
		name = "Head Admin"
	}
	if email == "" || password == "" || handle == "" {
		log.Fatal("ADMIN_EMAIL, ADMIN_PASSWORD and ADMIN_CF_HANDLE must be set")
	}

	database.Connect()
	defer database.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	memberRepo := repository.NewPgMemberRepository(database.DB)

	existing, err := memberRepo.FindByEmail(ctx, email)
	if err == nil {
		log.Printf("Admin account %s already exists (id=%s), nothing to do", email, existing.ID)
		return
	}
	if !errors.Is(err, common.ErrNotFound) {
		log.Fatalf("Could not check for existing admin: %v", err)
	}

	hashedPassword, err := security.HashPassword(password)
	if err != nil {
		log.Fatalf("Could not hash password: %v", err)
	}

	admin := &model.Member{
		ID:             uuid.NewString(),
		Name:           name,
		Email:          email,
		HashedPassword: hashedPassword,
		CFHandle:       handle,
		Role:           model.RoleHeadAdmin,
		Status:         model.StatusApproved,
	}
	if err := memberRepo.Create(ctx, admin); err != nil {
		log.Fatalf("Could not create admin account: %v", err)
	}

	log.Printf("Head admin %s created (id=%s)", email, admin.ID)
}
