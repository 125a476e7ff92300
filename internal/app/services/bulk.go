package services

import (
	"context"
	"fmt"

	"github.com/yigit/campusfeedback/internal/app/models/dto"
	"github.com/yigit/campusfeedback/internal/pkg/apperrors"
	"github.com/yigit/campusfeedback/internal/pkg/logger"
	"github.com/yigit/campusfeedback/internal/pkg/validation"
)

// runBulk validates and upserts items one at a time. A failing item is
// recorded and the rest still run.
func runBulk[T any](
	ctx context.Context,
	entity string,
	items []T,
	key func(i int, item T) string,
	upsert func(ctx context.Context, item T) (bool, error),
	recorder BulkRecorder,
) *dto.BulkResult {
	result := dto.NewBulkResult()
	for i, item := range items {
		k := key(i, item)
		if err := validation.Struct(item); err != nil {
			result.Fail(k, err)
			continue
		}
		created, err := upsert(ctx, item)
		if err != nil {
			result.Fail(k, err)
			continue
		}
		result.Succeeded(k, created)
	}

	if recorder != nil {
		recorder.BulkItems(entity, len(result.Success), len(result.Failed))
	}
	logger.Info().Str("entity", entity).Int("success", len(result.Success)).Int("failed", len(result.Failed)).
		Msg("Bulk upload processed")
	return result
}

// rowKey falls back to the row position when the natural key is empty.
func rowKey(i int, natural string) string {
	if natural != "" {
		return natural
	}
	return fmt.Sprintf("row %d", i+1)
}

func boolOr(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}

func validationErrorf(format string, args ...interface{}) error {
	return apperrors.NewValidationError(fmt.Sprintf(format, args...))
}
