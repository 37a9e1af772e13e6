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
	"golang.org/x/term"

	"github.com/edifyminds/edify-backend/internal/config"
	"github.com/edifyminds/edify-backend/internal/database"
	"github.com/edifyminds/edify-backend/internal/logger"
	"github.com/edifyminds/edify-backend/internal/repository"
	"github.com/edifyminds/edify-backend/internal/service"
)

// Dev stand-in for the identity system: verifies an account's password
// and prints a signed bearer token for it.
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
	authService := service.NewAuthService(cfg, nil)

	fmt.Println("=== Mint Bearer Token ===")

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

	password, err := promptPassword("Enter Password")
	if err != nil {
		fmt.Println("\nError reading password")
		return
	}
	if err := authService.CheckPassword(user.PasswordHash, password); err != nil {
		fmt.Println("Error: Invalid password")
		return
	}

	token, err := authService.GenerateToken(user.ID, user.Role)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to sign token")
	}

	if cfg.DefaultSecret() {
		fmt.Println("Note: signed with the built-in development secret")
	}
	fmt.Printf("\n%s token for %s (ID: %d), valid %s:\n\n%s\n",
		user.Role, user.Email, user.ID, cfg.JWTExpiry, token)
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
