package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"github.com/edifyminds/edify-backend/internal/config"
	"github.com/edifyminds/edify-backend/internal/model"
	"github.com/edifyminds/edify-backend/internal/repository"
)

const (
	// ExportPollTimeout is how long BLPop blocks per iteration.
	ExportPollTimeout = 1 * time.Second

	// jobStatusTTL keeps finished job records readable for a day.
	jobStatusTTL = 24 * time.Hour
)

// ExportWorker consumes export_jobs_queue and renders submission
// spreadsheets to disk.
type ExportWorker struct {
	testRepo       *repository.TestRepository
	classRepo      *repository.ClassRepository
	submissionRepo *repository.SubmissionRepository
	rdb            *redis.Client
	exportDir      string
	log            zerolog.Logger
	done           chan struct{}
}

// NewExportWorker creates a new ExportWorker.
func NewExportWorker(
	testRepo *repository.TestRepository,
	classRepo *repository.ClassRepository,
	submissionRepo *repository.SubmissionRepository,
	rdb *redis.Client,
	exportDir string,
	log zerolog.Logger,
) *ExportWorker {
	return &ExportWorker{
		testRepo:       testRepo,
		classRepo:      classRepo,
		submissionRepo: submissionRepo,
		rdb:            rdb,
		exportDir:      exportDir,
		log:            log.With().Str("component", "export_worker").Logger(),
		done:           make(chan struct{}),
	}
}

// Start begins the infinite worker loop. Call in a goroutine.
func (w *ExportWorker) Start(ctx context.Context) {
	defer close(w.done)
	w.log.Info().Msg("Worker started")

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Worker stopping...")
			// Drain remaining jobs before exit.
			w.drain(context.Background())
			w.log.Info().Msg("Worker stopped")
			return
		default:
			w.processNext(ctx)
		}
	}
}

// Done is closed after the loop has exited and the final drain finished.
func (w *ExportWorker) Done() <-chan struct{} {
	return w.done
}

func (w *ExportWorker) processNext(ctx context.Context) {
	// BLPop blocks until a job is available or timeout (1 second).
	result, err := w.rdb.BLPop(ctx, ExportPollTimeout, config.WorkerKey.ExportJobsQueue).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) && ctx.Err() == nil {
			w.log.Error().Err(err).Msg("BLPop error")
		}
		return
	}

	if len(result) < 2 {
		return
	}

	if w.handleRaw(ctx, result[1]) {
		// Back off before picking the retried job up again.
		time.Sleep(5 * time.Second)
	}
}

// handleRaw runs one job from its queued JSON form. It reports whether
// the job was requeued for retry.
func (w *ExportWorker) handleRaw(ctx context.Context, raw string) bool {
	var job model.ExportJob
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		w.log.Error().Err(err).Msg("Unmarshal error, dropping job")
		return false
	}

	w.setStatus(ctx, &job, model.ExportStatusRunning, "", "")

	url, err := w.buildSpreadsheet(ctx, &job)
	if err != nil {
		// A vanished test is permanent; everything else gets retried.
		if errors.Is(err, pgx.ErrNoRows) {
			w.log.Warn().Str("job_id", job.ID.String()).Msg("Test gone, failing job")
			w.setStatus(ctx, &job, model.ExportStatusFailed, "", "test no longer exists")
			return false
		}

		w.log.Error().Err(err).
			Str("job_id", job.ID.String()).
			Msg("Export error, requeueing")
		w.setStatus(ctx, &job, model.ExportStatusQueued, "", "")
		w.rdb.RPush(ctx, config.WorkerKey.ExportJobsQueue, raw)
		return true
	}

	w.setStatus(ctx, &job, model.ExportStatusDone, url, "")
	w.log.Info().
		Str("job_id", job.ID.String()).
		Str("url", url).
		Msg("Export finished")
	return false
}

// buildSpreadsheet renders the submission sheet for a job's test and
// returns the download URL.
func (w *ExportWorker) buildSpreadsheet(ctx context.Context, job *model.ExportJob) (string, error) {
	test, err := w.testRepo.GetByID(ctx, job.TestID)
	if err != nil {
		return "", err
	}

	class, err := w.classRepo.GetByID(ctx, test.ClassID)
	if err != nil {
		return "", err
	}

	submissions, err := w.submissionRepo.ListByTest(ctx, job.TestID)
	if err != nil {
		return "", fmt.Errorf("list submissions: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Submissions"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return "", fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)

	headers := []string{
		"Student Name", "Student Email", "Class", "Score", "Total Questions", "Percentage", "Submitted At",
	}
	for i, header := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
	}

	for rowIndex, sub := range submissions {
		var percent float64
		if sub.TotalQuestions > 0 {
			percent = float64(sub.Score) / float64(sub.TotalQuestions) * 100
		}

		row := []interface{}{
			sub.StudentName,
			sub.StudentEmail,
			class.Name,
			sub.Score,
			sub.TotalQuestions,
			percent,
			sub.SubmittedAt.Format("2006-01-02 15:04:05"),
		}
		for colIndex, value := range row {
			cell := fmt.Sprintf("%c%d", 'A'+colIndex, rowIndex+2)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	if err := os.MkdirAll(w.exportDir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}

	filename := job.ID.String() + ".xlsx"
	if err := f.SaveAs(filepath.Join(w.exportDir, filename)); err != nil {
		return "", fmt.Errorf("save spreadsheet: %w", err)
	}

	return "/exports/" + filename, nil
}

// setStatus writes the job's current state to its Redis status key.
func (w *ExportWorker) setStatus(ctx context.Context, job *model.ExportJob, status model.ExportStatus, url, errMsg string) {
	job.Status = status
	job.URL = url
	job.Error = errMsg
	job.UpdatedAt = time.Now()

	raw, err := json.Marshal(job)
	if err != nil {
		w.log.Error().Err(err).Msg("Marshal job status error")
		return
	}

	key := config.CacheKey.ExportJobKey(job.ID.String())
	if err := w.rdb.Set(ctx, key, raw, jobStatusTTL).Err(); err != nil {
		w.log.Error().Err(err).Str("job_id", job.ID.String()).Msg("Failed to write job status")
	}
}

// drain processes all remaining queued jobs before shutdown.
func (w *ExportWorker) drain(ctx context.Context) {
	drained := 0
	for {
		raw, err := w.rdb.LPop(ctx, config.WorkerKey.ExportJobsQueue).Result()
		if err != nil {
			break
		}

		if w.handleRaw(ctx, raw) {
			// A requeued job stays for the next boot.
			break
		}
		drained++
	}

	if drained > 0 {
		w.log.Info().Int("count", drained).Msg("Drained remaining jobs")
	}
}
