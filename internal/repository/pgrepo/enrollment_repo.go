package pgrepo

import (
	"context"

	"github.com/fsdevblog/learn2code/internal/domain"
	"github.com/fsdevblog/learn2code/internal/repository/repoargs"
	"github.com/fsdevblog/learn2code/pkg/uow"
	"github.com/jackc/pgx/v5"
)

type EnrollmentRepository struct {
	db uow.DBTX
}

func NewEnrollmentRepository(db uow.DBTX) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

// Exists проверяет наличие зачисления по ключу. Условие повторяет предикат соответствующего
// уникального индекса: без ученика ищется запись с student_id IS NULL.
func (e *EnrollmentRepository) Exists(ctx context.Context, key domain.EnrollmentKey) (bool, error) {
	var exists bool
	var err error
	if key.StudentScoped() {
		err = e.db.QueryRow(ctx,
			`SELECT EXISTS(SELECT 1 FROM user_courses WHERE user_id = $1 AND course_id = $2 AND student_id = $3)`,
			key.UserID, key.CourseID, *key.StudentID,
		).Scan(&exists)
	} else {
		err = e.db.QueryRow(ctx,
			`SELECT EXISTS(SELECT 1 FROM user_courses WHERE user_id = $1 AND course_id = $2 AND student_id IS NULL)`,
			key.UserID, key.CourseID,
		).Scan(&exists)
	}
	if err != nil {
		return false, convertErr(err, "checking enrollment of user %d to course %d", key.UserID, key.CourseID)
	}
	return exists, nil
}

// Create создает зачисление в savepoint'е. Нарушение уникального индекса возвращается как
// *domain.DuplicateKeyError, а внешняя транзакция при этом не прерывается.
func (e *EnrollmentRepository) Create(ctx context.Context, args repoargs.CreateEnrollment) (*domain.UserCourse, error) {
	var enrollment domain.UserCourse
	err := inSavepoint(ctx, e.db, func(tx pgx.Tx) error {
		return tx.QueryRow(ctx,
			`INSERT INTO user_courses (user_id, course_id, student_id, payment_id)
			VALUES ($1, $2, $3, $4)
			RETURNING id, purchased_at, user_id, course_id, student_id, payment_id`,
			args.UserID, args.CourseID, args.StudentID, args.PaymentID,
		).Scan(
			&enrollment.ID,
			&enrollment.PurchasedAt,
			&enrollment.UserID,
			&enrollment.CourseID,
			&enrollment.StudentID,
			&enrollment.PaymentID,
		)
	})
	if err != nil {
		return nil, convertErr(err, "enrolling user %d to course %d", args.UserID, args.CourseID)
	}
	return &enrollment, nil
}

// CountByStudentIDs возвращает количество зачислений для каждого ученика. Ученики без зачислений в мапу
// не попадают.
func (e *EnrollmentRepository) CountByStudentIDs(ctx context.Context, studentIDs []int64) (map[int64]int64, error) {
	counts := make(map[int64]int64, len(studentIDs))
	if len(studentIDs) == 0 {
		return counts, nil
	}
	rows, err := e.db.Query(ctx,
		`SELECT student_id, count(*) FROM user_courses WHERE student_id = ANY($1) GROUP BY student_id`,
		studentIDs,
	)
	if err != nil {
		return nil, convertErr(err, "counting enrollments by students")
	}
	defer rows.Close()

	for rows.Next() {
		var studentID, count int64
		if scanErr := rows.Scan(&studentID, &count); scanErr != nil {
			return nil, convertErr(scanErr, "scanning enrollments count")
		}
		counts[studentID] = count
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, convertErr(rowsErr, "counting enrollments by students")
	}
	return counts, nil
}
