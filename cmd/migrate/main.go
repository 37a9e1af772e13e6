package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/edifyminds/edify-backend/internal/config"
)

func main() {
	var migrationDir string
	flag.StringVar(&migrationDir, "path", "migrations", "Path to migration files")
	flag.Parse()

	args := flag.Args()
	if len(args) < 1 {
		printUsage()
		return
	}

	// create only touches the filesystem, no database needed.
	if args[0] == "create" {
		if len(args) < 2 {
			log.Fatal("create requires a migration name")
		}
		createPair(migrationDir, args[1])
		return
	}

	cfg := config.Load()
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	m, err := migrate.New("file://"+migrationDir, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Migration failed to initialize: %v", err)
	}

	switch args[0] {
	case "up":
		applySteps(m, stepArg(args), false)
	case "down":
		applySteps(m, stepArg(args), true)
	case "version":
		v, dirty, err := m.Version()
		if err != nil {
			log.Fatalf("Read version: %v", err)
		}
		state := "clean"
		if dirty {
			state = "dirty"
		}
		fmt.Printf("Schema version %d (%s)\n", v, state)
	case "force":
		if len(args) < 2 {
			log.Fatal("force needs a version number")
		}
		v, err := strconv.Atoi(args[1])
		if err != nil {
			log.Fatalf("Bad version %q: %v", args[1], err)
		}
		if err := m.Force(v); err != nil {
			log.Fatalf("Force: %v", err)
		}
		fmt.Printf("Schema version forced to %d\n", v)
	default:
		printUsage()
	}
}

// stepArg returns the optional step count argument, 0 meaning all.
func stepArg(args []string) int {
	if len(args) < 2 {
		return 0
	}
	n, err := strconv.Atoi(args[1])
	if err != nil || n < 1 {
		log.Fatalf("Invalid step count: %s", args[1])
	}
	return n
}

// applySteps migrates n steps in the given direction, or all the way
// when n is 0.
func applySteps(m *migrate.Migrate, n int, down bool) {
	var err error
	var label string
	switch {
	case n == 0 && down:
		label = "down"
		err = m.Down()
	case n == 0:
		label = "up"
		err = m.Up()
	case down:
		label = fmt.Sprintf("down %d", n)
		err = m.Steps(-n)
	default:
		label = fmt.Sprintf("up %d", n)
		err = m.Steps(n)
	}
	if err != nil && err != migrate.ErrNoChange {
		log.Fatalf("Migrate %s failed: %v", label, err)
	}
	fmt.Printf("Migrated %s successfully\n", label)
}

// createPair writes an empty up/down migration pair with the next
// sequence number.
func createPair(dir, name string) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		log.Fatalf("Read %s: %v", dir, err)
	}

	seq := 0
	for _, e := range entries {
		var n int
		if _, err := fmt.Sscanf(e.Name(), "%d_", &n); err == nil && n > seq {
			seq = n
		}
	}

	base := fmt.Sprintf("%06d_%s", seq+1, name)
	for _, suffix := range []string{".up.sql", ".down.sql"} {
		path := filepath.Join(dir, base+suffix)
		if err := os.WriteFile(path, nil, 0o644); err != nil {
			log.Fatalf("Write %s: %v", path, err)
		}
		fmt.Println("Created", path)
	}
}

func printUsage() {
	fmt.Println("Usage: migrate [flags] <command>")
	fmt.Println("Commands: up [n], down [n], version, force <version>, create <name>")
	fmt.Println("Flags:")
	flag.PrintDefaults()
}
