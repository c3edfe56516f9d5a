package pgrepo

import (
	"context"
	"errors"
	"fmt"

	"github.com/fsdevblog/learn2code/internal/domain"
	"github.com/fsdevblog/learn2code/pkg/uow"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	uniqueViolationCode = "23505"
)

// convertErr преобразует ошибку к стандартному виду для слоя репозитория.
// Добавляет форматированное сообщение контекста, тип бизнес-ошибки и оригинальное сообщение.
// Особенности:
//   - Для ошибок отсутствия данных (pgx.ErrNoRows) возвращает ErrRecordNotFound из domain.
//   - Для нарушения уникального индекса (uniqueViolationCode) возвращает *domain.DuplicateKeyError с именем индекса,
//     который удовлетворяет errors.Is(err, domain.ErrDuplicateKey).
//   - Все остальные ошибки возвращаются как ErrUnknown с оригинальным сообщением.
func convertErr(err error, format string, formatArgs ...any) error {
	if err == nil {
		return nil
	}

	msg := fmt.Sprintf(format, formatArgs...)

	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("[repository/%s] %w", msg, domain.ErrRecordNotFound)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && isUniqueViolationErr(pgErr) {
		return fmt.Errorf("[repository/%s] %w: %s", msg, domain.NewDuplicateKeyError(pgErr.ConstraintName), err.Error())
	}

	return fmt.Errorf("[repository/%s] %w: %s", msg, domain.ErrUnknown, err.Error())
}

func isUniqueViolationErr(err *pgconn.PgError) bool {
	return err.Code == uniqueViolationCode
}

// inSavepoint выполняет fn внутри вложенной транзакции (savepoint). Нарушение ограничения внутри fn
// откатывает только savepoint, и внешняя транзакция остается пригодной для дальнейших запросов.
func inSavepoint(ctx context.Context, db uow.DBTX, fn func(tx pgx.Tx) error) (err error) {
	sp, beginErr := db.Begin(ctx)
	if beginErr != nil {
		return beginErr //nolint:wrapcheck
	}
	defer func() {
		if rollbackErr := sp.Rollback(ctx); rollbackErr != nil && !errors.Is(rollbackErr, pgx.ErrTxClosed) {
			err = errors.Join(err, rollbackErr)
		}
	}()

	if fnErr := fn(sp); fnErr != nil {
		return fnErr
	}
	return sp.Commit(ctx) //nolint:wrapcheck
}
