package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/term"

	"github.com/edifyminds/edify-backend/internal/config"
	"github.com/edifyminds/edify-backend/internal/database"
	"github.com/edifyminds/edify-backend/internal/logger"
	"github.com/edifyminds/edify-backend/internal/repository"
	"github.com/edifyminds/edify-backend/internal/service"
)

func main() {
	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx := context.Background()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	userRepo := repository.NewUserRepository(pool)

	fmt.Println("=== Reset User Password ===")

	reader := bufio.NewReader(os.Stdin)
	email := prompt(reader, "Enter Email")
	if email == "" {
		fmt.Println("Error: Email is required")
		return
	}

	user, err := userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			fmt.Printf("Error: no account with email %s\n", email)
			return
		}
		log.Fatal().Err(err).Msg("Failed to look up user")
	}
	fmt.Printf("Found %s account '%s' (ID: %d)\n", user.Role, user.Name, user.ID)

	password, err := promptPassword("Enter New Password")
	if err != nil {
		fmt.Println("\nError reading password")
		return
	}
	if len(password) < 6 {
		fmt.Println("Error: Password must be at least 6 characters")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cfg.BcryptCost)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to hash password")
	}

	if err := userRepo.UpdatePassword(ctx, user.ID, string(hashed)); err != nil {
		log.Fatal().Err(err).Msg("Failed to update password")
	}

	// Revoke outstanding tokens so the old credential cannot keep a live
	// session around. Redis being down only skips the revocation.
	if rdb, err := database.NewRedisClient(ctx, cfg, log); err != nil {
		log.Warn().Err(err).Msg("Redis unavailable, existing tokens were not revoked")
	} else {
		defer rdb.Close()
		authService := service.NewAuthService(cfg, rdb)
		if err := authService.RevokeUser(ctx, user.ID); err != nil {
			log.Warn().Err(err).Msg("Failed to revoke existing tokens")
		}
	}

	fmt.Printf("\nSuccess! Password updated for %s\n", user.Email)
}

// prompt reads one trimmed line of input.
func prompt(reader *bufio.Reader, label string) string {
	fmt.Print(label + ": ")
	line, _ := reader.ReadString('\n')
	return strings.TrimSpace(line)
}

// promptPassword reads a password without echoing it to the terminal.
func promptPassword(label string) (string, error) {
	fmt.Print(label + ": ")
	b, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", err
	}
	return string(b), nil
}
