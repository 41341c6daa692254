package chalan

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/pkg/apperr"
	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/pkg/log_messages"
	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/pkg/logger"
	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/pkg/store/models"
	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/pkg/utils/worker"
)

type BulkGenerateRequest struct {
	Students []StudentRef `json:"students" validate:"required,min=1,dive"`
	GenerationOptions
}

type BulkFailure struct {
	StudentID string `json:"studentId"`
	Error     string `json:"error"`
}

type BulkGenerationResult struct {
	SuccessCount            int           `json:"successCount"`
	ErrorCount              int           `json:"errorCount"`
	ChalanIDs               []string      `json:"chalanIds"`
	Failures                []BulkFailure `json:"failures"`
	ClassesWithoutFeeConfig []string      `json:"classesWithoutFeeConfig"`
}

type bulkOutcome struct {
	chalan *models.FeeChalan
	err    error
}

// GenerateBulk raises one chalan per listed student on a bounded worker pool. Students listed
// more than once are handled by a single task, one chalan after another. A failure for one
// student never rolls back chalans already written for others.
func (s *Service) GenerateBulk(ctx context.Context, req BulkGenerateRequest) (*BulkGenerationResult, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, apperr.FromValidator(err)
	}

	logger.CtxInfo(ctx, log_messages.BulkGenerationStarted, slog.Int("students", len(req.Students)))

	outcomes := make([]bulkOutcome, len(req.Students))
	groups := groupByStudent(req.Students)

	pool := worker.NewWorkerPool(s.bulkCfg.WorkerCount, s.bulkCfg.BufferSize)
	var wg sync.WaitGroup
	for _, indexes := range groups {
		wg.Add(1)
		pool.Submit(func() {
			defer wg.Done()
			for _, i := range indexes {
				chalan, err := s.generate(ctx, req.Students[i], req.GenerationOptions)
				outcomes[i] = bulkOutcome{chalan: chalan, err: err}
			}
		})
	}
	wg.Wait()
	pool.Close()

	result := summarize(req, outcomes)
	for _, failure := range result.Failures {
		logger.CtxWarn(ctx, log_messages.BulkGenerationStudentFailed,
			slog.String("studentId", failure.StudentID), slog.String("error", failure.Error))
	}
	if len(result.ClassesWithoutFeeConfig) > 0 {
		logger.CtxInfo(ctx, log_messages.ClassesWithoutFeeConfig,
			slog.Any("classIds", result.ClassesWithoutFeeConfig))
	}
	logger.CtxInfo(ctx, log_messages.BulkGenerationCompleted,
		slog.Int("successCount", result.SuccessCount),
		slog.Int("errorCount", result.ErrorCount),
	)
	return result, nil
}

// groupByStudent keeps first-seen order of students and of duplicates within a student.
func groupByStudent(students []StudentRef) [][]int {
	position := make(map[string]int, len(students))
	groups := make([][]int, 0, len(students))
	for i, student := range students {
		if g, ok := position[student.StudentID]; ok {
			groups[g] = append(groups[g], i)
			continue
		}
		position[student.StudentID] = len(groups)
		groups = append(groups, []int{i})
	}
	return groups
}

func summarize(req BulkGenerateRequest, outcomes []bulkOutcome) *BulkGenerationResult {
	result := &BulkGenerationResult{
		ChalanIDs:               []string{},
		Failures:                []BulkFailure{},
		ClassesWithoutFeeConfig: []string{},
	}
	missing := map[string]struct{}{}

	for i, outcome := range outcomes {
		if outcome.err != nil {
			result.ErrorCount++
			result.Failures = append(result.Failures, BulkFailure{
				StudentID: req.Students[i].StudentID,
				Error:     outcome.err.Error(),
			})
			continue
		}
		result.SuccessCount++
		result.ChalanIDs = append(result.ChalanIDs, outcome.chalan.ID.Hex())
		if req.FeeSource != models.FeeSourceStandard && outcome.chalan.FeeSource != models.FeeSourceClass {
			missing[outcome.chalan.ClassID] = struct{}{}
		}
	}

	for classID := range missing {
		result.ClassesWithoutFeeConfig = append(result.ClassesWithoutFeeConfig, classID)
	}
	sort.Strings(result.ClassesWithoutFeeConfig)
	return result
}
