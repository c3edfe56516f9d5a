package service

import (
	"context"
	"fmt"
)

// retryOnConflict вызывает fn до attempts раз подряд, пока fn возвращает ошибку, для которой isConflict
// вернул true. Любая другая ошибка возвращается сразу. Если все попытки закончились конфликтом, возвращается
// ошибка exhausted, обернутая вместе с последним конфликтом.
func retryOnConflict[T any](
	ctx context.Context,
	attempts int,
	isConflict func(error) bool,
	exhausted error,
	fn func(ctx context.Context, attempt int) (T, error),
) (T, error) {
	var zero T
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return zero, ctxErr //nolint:wrapcheck
		}
		res, err := fn(ctx, attempt)
		if err == nil {
			return res, nil
		}
		if !isConflict(err) {
			return zero, err
		}
		lastErr = err
	}
	return zero, fmt.Errorf("%w after %d attempts: %w", exhausted, attempts, lastErr)
}
