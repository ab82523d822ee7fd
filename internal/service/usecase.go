package service

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	apperrors "taskflow/internal/errors"
	"taskflow/internal/metrics"
)

var tracer = otel.Tracer("taskflow/internal/service")

// useCase names one operation and the error it degrades to on unexpected failures.
type useCase struct {
	op      string
	code    string
	message string
}

var (
	ucCreateUser = useCase{"user.create", apperrors.CodeUserCreateFailed, "An unexpected error occurred during user registration"}
	ucUpdateUser = useCase{"user.update", apperrors.CodeUserUpdateFailed, "An unexpected error occurred during user update"}
	ucDeleteUser = useCase{"user.delete", apperrors.CodeUserDeleteFailed, "An unexpected error occurred during user delete"}
	ucFindUser   = useCase{"user.find", apperrors.CodeUserSearchFailed, "Failed to search for user"}

	ucCreateTask = useCase{"task.create", apperrors.CodeTaskCreateFailed, "An unexpected error occurred during task creation"}
	ucUpdateTask = useCase{"task.update", apperrors.CodeTaskUpdateFailed, "An unexpected error occurred during task update"}
	ucDeleteTask = useCase{"task.delete", apperrors.CodeTaskDeleteFailed, "An unexpected error occurred during task delete"}
	ucFindTask   = useCase{"task.find", apperrors.CodeTaskFindFailed, "An unexpected error occurred during task find"}
)

// guardUseCase runs fn inside a span. AppErrors pass through unchanged; any other
// error is logged with its cause and replaced by a generic internal error.
func guardUseCase[T any](ctx context.Context, logger *slog.Logger, uc useCase, fn func(ctx context.Context) (T, error)) (T, error) {
	ctx, span := tracer.Start(ctx, uc.op,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attribute.String("usecase.op", uc.op)))
	defer span.End()

	out, err := fn(ctx)
	if err == nil {
		metrics.RecordUseCase(uc.op, "")
		return out, nil
	}

	var zero T
	if appErr, ok := apperrors.As(err); ok {
		span.SetAttributes(attribute.String("error.code", appErr.Code))
		if appErr.Kind == apperrors.KindInternal {
			span.RecordError(err)
			span.SetStatus(codes.Error, appErr.Code)
			logger.ErrorContext(ctx, "use-case failed", "op", uc.op, "code", appErr.Code, "error", appErr.Unwrap())
		}
		metrics.RecordUseCase(uc.op, appErr.Code)
		return zero, appErr
	}

	span.RecordError(err)
	span.SetStatus(codes.Error, uc.code)
	span.SetAttributes(attribute.String("error.code", uc.code))
	logger.ErrorContext(ctx, "use-case failed", "op", uc.op, "code", uc.code, "error", err)
	metrics.RecordUseCase(uc.op, uc.code)
	return zero, apperrors.Internal(uc.code, uc.message).WithCause(err)
}
