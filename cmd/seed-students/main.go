package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/edifyminds/edify-backend/internal/config"
	"github.com/edifyminds/edify-backend/internal/database"
	"github.com/edifyminds/edify-backend/internal/logger"
	"github.com/edifyminds/edify-backend/internal/model"
	"github.com/edifyminds/edify-backend/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

const seedTeacherEmail = "seed.teacher@edify.local"

func main() {
	var (
		className string
		count     int
		password  string
	)
	flag.StringVar(&className, "class", "Seed Class", "Name of the class to seed students into")
	flag.IntVar(&count, "count", 20, "Number of students to create")
	flag.StringVar(&password, "password", "edify123", "Password for every seeded account")
	flag.Parse()

	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	userRepo := repository.NewUserRepository(pool)
	classRepo := repository.NewClassRepository(pool)
	enrollRepo := repository.NewEnrollmentRepository(pool)

	fmt.Printf("=== Seeding %d Students into %q ===\n", count, className)

	// One hash for every seeded account; hashing per student would make a
	// large seed painfully slow.
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cfg.BcryptCost)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to hash seed password")
	}

	// Find or create the seed teacher who owns the class.
	var teacherID int
	teacher, err := userRepo.GetByEmail(ctx, seedTeacherEmail)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			log.Fatal().Err(err).Msg("Failed to check seed teacher")
		}
		fmt.Println("Seed teacher not found. Creating it...")
		newTeacher := &model.User{
			Name:         "Seed Teacher",
			Email:        seedTeacherEmail,
			PasswordHash: string(hashed),
			Role:         model.RoleTeacher,
		}
		if err := userRepo.Create(ctx, newTeacher); err != nil {
			log.Fatal().Err(err).Msg("Failed to create seed teacher")
		}
		teacherID = newTeacher.ID
		fmt.Printf("Created seed teacher with ID: %d\n", teacherID)
	} else {
		teacherID = teacher.ID
		fmt.Printf("Found existing seed teacher with ID: %d\n", teacherID)
	}

	// Find or create the target class.
	var classID int

	// Fast way to find the class
	err = pool.QueryRow(ctx,
		"SELECT id FROM classes WHERE name = $1 AND teacher_id = $2",
		className, teacherID,
	).Scan(&classID)

	if err != nil {
		if err == pgx.ErrNoRows {
			fmt.Printf("Class %q not found. Creating it...\n", className)
			newClass := &model.Class{
				Name:         className,
				Description:  "Seeded class for local development",
				GradeLevel:   "10",
				DaysOfWeek:   []string{"Mon", "Wed"},
				ScheduleTime: "08:00",
				StartDate:    time.Now().Format("2006-01-02"),
				TeacherID:    teacherID,
			}
			if err := classRepo.Create(ctx, newClass); err != nil {
				log.Fatal().Err(err).Msg("Failed to create class")
			}
			classID = newClass.ID
			fmt.Printf("Created class with ID: %d\n", classID)
		} else {
			log.Fatal().Err(err).Msg("Failed to check existing class")
		}
	} else {
		fmt.Printf("Found existing class with ID: %d\n", classID)
	}

	names := []string{
		"Alice Johnson", "Ben Carter", "Chloe Nguyen", "Daniel Reyes", "Emma Schmidt",
		"Felix Okafor", "Grace Lin", "Hugo Martins", "Isla Thompson", "Jonas Weber",
		"Kira Petrova", "Liam O'Connor", "Mei Tanaka", "Noah Fischer", "Olivia Santos",
		"Pablo Herrera", "Quinn Murphy", "Rosa Moreno", "Samuel Adeyemi", "Tara Singh",
		"Umar Farouk", "Vera Kovacs", "Wendy Zhao", "Xavier Dubois", "Yara Haddad",
		"Zane Miller", "Amara Diallo", "Bruno Costa", "Celine Laurent", "Dmitri Volkov",
		"Elena Rossi", "Finn Larsen", "Gabriela Ortiz", "Henrik Nilsson", "Ines Lopez",
		"Jack Williams", "Katya Ivanova", "Leo Park", "Mona Hassan", "Nils Andersen",
	}

	successCount := 0
	for i := 0; i < count; i++ {
		student := &model.User{
			Name:         fmt.Sprintf("%s %02d", names[i%len(names)], i+1),
			Email:        fmt.Sprintf("student%03d@edify.local", i+1),
			PasswordHash: string(hashed),
			Role:         model.RoleStudent,
		}

		if err := userRepo.Create(ctx, student); err != nil {
			if errors.Is(err, repository.ErrDuplicateEmail) {
				fmt.Printf("Skipping %s: already exists\n", student.Email)
				continue
			}
			fmt.Printf("Error creating student %s: %v\n", student.Email, err)
			continue
		}

		enrollment := &model.Enrollment{StudentID: student.ID, ClassID: classID}
		if err := enrollRepo.Create(ctx, enrollment); err != nil && !errors.Is(err, repository.ErrDuplicateEnrollment) {
			fmt.Printf("Error enrolling student %s: %v\n", student.Email, err)
			continue
		}

		successCount++
		if (i+1)%10 == 0 {
			fmt.Printf("Created %d students...\n", i+1)
		}
	}

	fmt.Printf("\nSeed completed! Successfully added %d/%d students.\n", successCount, count)
}
