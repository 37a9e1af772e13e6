package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/edifyminds/edify-backend/internal/config"
	"github.com/edifyminds/edify-backend/internal/model"
	"github.com/edifyminds/edify-backend/internal/parser"
	"github.com/edifyminds/edify-backend/internal/repository"
)

// Domain errors.
var (
	ErrNotTestOwner  = errors.New("not the author of this test")
	ErrNotClassOwner = errors.New("not the teacher of this class")
	ErrNotEnrolled   = errors.New("student is not enrolled in this class")
)

// TestService handles test authoring, delivery and Redis caching.
// Redacted payloads and answer keys are cached on create so delivery
// and grading avoid PostgreSQL on the hot path.
type TestService struct {
	testRepo   *repository.TestRepository
	classRepo  *repository.ClassRepository
	enrollRepo *repository.EnrollmentRepository
	rdb        *redis.Client
	log        zerolog.Logger
}

// NewTestService creates a new TestService.
func NewTestService(
	testRepo *repository.TestRepository,
	classRepo *repository.ClassRepository,
	enrollRepo *repository.EnrollmentRepository,
	rdb *redis.Client,
	log zerolog.Logger,
) *TestService {
	return &TestService{
		testRepo:   testRepo,
		classRepo:  classRepo,
		enrollRepo: enrollRepo,
		rdb:        rdb,
		log:        log.With().Str("component", "test_service").Logger(),
	}
}

// Create parses the authoring text and stores a new test for a class
// the teacher owns. Returns parser.ErrNoQuestions when the text yields
// nothing valid.
func (s *TestService) Create(ctx context.Context, teacherID int, req *model.CreateTestRequest) (*model.Test, error) {
	class, err := s.classRepo.GetByID(ctx, req.ClassID)
	if err != nil {
		return nil, fmt.Errorf("get class: %w", err)
	}
	if class.TeacherID != teacherID {
		return nil, ErrNotClassOwner
	}

	questions, err := parser.Parse(req.QuestionsText)
	if err != nil {
		return nil, err
	}

	test := &model.Test{
		ClassID:         req.ClassID,
		Title:           req.Title,
		Description:     req.Description,
		DurationMinutes: req.DurationMinutes,
		Questions:       questions,
		QuestionCount:   len(questions),
		CreatedBy:       teacherID,
	}
	if err := s.testRepo.Create(ctx, test); err != nil {
		return nil, fmt.Errorf("create test: %w", err)
	}

	// Delivery and grading fall back to PostgreSQL on a cache miss, so
	// a failed warm only costs latency.
	if err := s.WarmTestCache(ctx, test); err != nil {
		s.log.Warn().Err(err).Str("test_id", test.ID.String()).Msg("Failed to warm cache on create")
	}

	s.log.Info().
		Str("test_id", test.ID.String()).
		Int("questions", len(questions)).
		Msg("Test created")
	return test, nil
}

// GetForOwner retrieves the full test, correct answers included, for
// its author or an admin.
func (s *TestService) GetForOwner(ctx context.Context, testID uuid.UUID, callerID int, isAdmin bool) (*model.Test, error) {
	test, err := s.testRepo.GetByID(ctx, testID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && test.CreatedBy != callerID {
		return nil, ErrNotTestOwner
	}
	return test, nil
}

// GetPayloadForStudent retrieves the redacted payload for an enrolled
// student.
func (s *TestService) GetPayloadForStudent(ctx context.Context, testID uuid.UUID, studentID int) (*model.TestPayload, error) {
	payload, err := s.GetPayload(ctx, testID)
	if err != nil {
		return nil, err
	}

	enrolled, err := s.enrollRepo.Exists(ctx, studentID, payload.ClassID)
	if err != nil {
		return nil, fmt.Errorf("check enrollment: %w", err)
	}
	if !enrolled {
		return nil, ErrNotEnrolled
	}
	return payload, nil
}

// GetPayload retrieves the redacted payload from Redis, falling back to
// PostgreSQL and re-warming the cache on a miss.
func (s *TestService) GetPayload(ctx context.Context, testID uuid.UUID) (*model.TestPayload, error) {
	key := config.CacheKey.TestPayloadKey(testID.String())
	data, err := s.rdb.Get(ctx, key).Bytes()
	if err == nil {
		var payload model.TestPayload
		if err := json.Unmarshal(data, &payload); err == nil {
			return &payload, nil
		}
		s.log.Warn().Str("test_id", testID.String()).Msg("Corrupt payload cache, reloading")
	} else if !errors.Is(err, redis.Nil) {
		s.log.Warn().Err(err).Msg("Redis unavailable, falling back to database")
	}

	test, err := s.testRepo.GetByID(ctx, testID)
	if err != nil {
		return nil, err
	}
	if err := s.WarmTestCache(ctx, test); err != nil {
		s.log.Warn().Err(err).Str("test_id", testID.String()).Msg("Failed to re-warm cache")
	}
	return test.Payload(), nil
}

// ListByClass retrieves test summaries for a class the caller can see:
// its teacher, an enrolled student, or an admin.
func (s *TestService) ListByClass(ctx context.Context, classID int, claims *Claims) ([]model.TestSummary, error) {
	class, err := s.classRepo.GetByID(ctx, classID)
	if err != nil {
		return nil, fmt.Errorf("get class: %w", err)
	}

	switch claims.Role {
	case model.RoleAdmin:
	case model.RoleTeacher:
		if class.TeacherID != claims.UserID {
			return nil, ErrNotClassOwner
		}
	default:
		enrolled, err := s.enrollRepo.Exists(ctx, claims.UserID, classID)
		if err != nil {
			return nil, fmt.Errorf("check enrollment: %w", err)
		}
		if !enrolled {
			return nil, ErrNotEnrolled
		}
	}

	return s.testRepo.ListByClass(ctx, classID)
}

// Delete removes a test and purges its Redis keys. Only the author or
// an admin may delete; submissions cascade.
func (s *TestService) Delete(ctx context.Context, testID uuid.UUID, callerID int, isAdmin bool) error {
	test, err := s.testRepo.GetByID(ctx, testID)
	if err != nil {
		return err
	}
	if !isAdmin && test.CreatedBy != callerID {
		return ErrNotTestOwner
	}

	if err := s.testRepo.Delete(ctx, testID); err != nil {
		return fmt.Errorf("delete test: %w", err)
	}

	if err := s.rdb.Del(ctx,
		config.CacheKey.TestPayloadKey(testID.String()),
		config.CacheKey.TestAnswerKey(testID.String()),
	).Err(); err != nil {
		s.log.Warn().Err(err).Str("test_id", testID.String()).Msg("Failed to purge cache")
	}

	s.log.Info().Str("test_id", testID.String()).Msg("Test deleted")
	return nil
}

// WarmTestCache loads a test's payload and answer key into Redis.
func (s *TestService) WarmTestCache(ctx context.Context, test *model.Test) error {
	payloadJSON, err := json.Marshal(test.Payload())
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	answerKey := make(map[string]interface{}, len(test.Questions))
	for i, letter := range test.AnswerKey() {
		answerKey[strconv.Itoa(i)] = letter
	}

	// Cache both atomically via pipeline.
	pipe := s.rdb.Pipeline()
	pipe.Set(ctx, config.CacheKey.TestPayloadKey(test.ID.String()), payloadJSON, 0)
	pipe.Del(ctx, config.CacheKey.TestAnswerKey(test.ID.String()))
	pipe.HSet(ctx, config.CacheKey.TestAnswerKey(test.ID.String()), answerKey)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("cache to redis: %w", err)
	}

	s.log.Debug().
		Str("test_id", test.ID.String()).
		Int("questions", len(test.Questions)).
		Msg("Cache warmed")
	return nil
}

// PrewarmAllCaches loads every test into Redis on application startup.
// This prevents lazy-loading races when a class sits down to a test at
// the same moment.
func (s *TestService) PrewarmAllCaches(ctx context.Context) error {
	tests, err := s.testRepo.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("list tests: %w", err)
	}

	if len(tests) == 0 {
		s.log.Info().Msg("No tests to prewarm")
		return nil
	}

	s.log.Info().Int("count", len(tests)).Msg("Prewarming test caches...")

	warmed := 0
	for i := range tests {
		if err := s.WarmTestCache(ctx, &tests[i]); err != nil {
			s.log.Warn().
				Err(err).
				Str("test_id", tests[i].ID.String()).
				Msg("Failed to warm test, skipping")
			continue
		}
		warmed++
	}

	s.log.Info().
		Int("warmed", warmed).
		Int("total", len(tests)).
		Msg("Prewarming complete")
	return nil
}

// GetAnswerKey retrieves the answer key from Redis for instant grading,
// rebuilding it from PostgreSQL on a miss.
func (s *TestService) GetAnswerKey(ctx context.Context, testID uuid.UUID) (map[int]string, error) {
	key := config.CacheKey.TestAnswerKey(testID.String())
	result, err := s.rdb.HGetAll(ctx, key).Result()
	if err != nil {
		s.log.Warn().Err(err).Msg("Redis unavailable, falling back to database")
		result = nil
	}

	if len(result) == 0 {
		test, err := s.testRepo.GetByID(ctx, testID)
		if err != nil {
			return nil, err
		}
		if err := s.WarmTestCache(ctx, test); err != nil {
			s.log.Warn().Err(err).Str("test_id", testID.String()).Msg("Failed to re-warm cache")
		}
		return test.AnswerKey(), nil
	}

	answerKey := make(map[int]string, len(result))
	for field, letter := range result {
		idx, err := strconv.Atoi(field)
		if err != nil {
			return nil, fmt.Errorf("corrupt answer key field %q", field)
		}
		answerKey[idx] = letter
	}
	return answerKey, nil
}
