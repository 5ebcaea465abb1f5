package app

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"el_node_inventory/db"
	"el_node_inventory/models"
)

// BootstrapFirstAdmin seeds an admin account when the user table is
// empty, so a fresh deployment can be logged into. The password comes
// from BOOTSTRAP_ADMIN_PASS or is generated and printed once.
func BootstrapFirstAdmin(ctx context.Context, cfg Config, repo *db.Repo) {
	n, err := repo.CountUsers(ctx)
	if err != nil {
		log.Printf("bootstrap: counting users failed: %v", err)
		return
	}
	if n > 0 {
		return
	}

	password := cfg.BootstrapAdminPass
	generated := password == ""
	if generated {
		buf := make([]byte, 12)
		rand.Read(buf)
		password = hex.EncodeToString(buf)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("bootstrap: hashing password failed: %v", err)
		return
	}

	u := &models.User{
		ID:           uuid.NewString(),
		Username:     cfg.BootstrapAdminUser,
		PasswordHash: hash,
		Role:         models.RoleAdmin,
	}
	if err := repo.CreateUser(ctx, u); err != nil {
		log.Printf("bootstrap: creating admin failed: %v", err)
		return
	}

	log.Printf("[BOOTSTRAP] No users found, created admin %q", u.Username)
	if generated {
		log.Printf("[BOOTSTRAP] One-time admin password: %s", password)
	}
}
