package pgrepo

import (
	"context"

	"github.com/fsdevblog/learn2code/internal/domain"
	"github.com/fsdevblog/learn2code/pkg/uow"
	"github.com/jackc/pgx/v5"
)

const courseColumns = `c.id, c.title, c.description, c.price, c.image_url, c.is_active`

type CourseRepository struct {
	db uow.DBTX
}

func NewCourseRepository(db uow.DBTX) *CourseRepository {
	return &CourseRepository{db: db}
}

func (c *CourseRepository) FindByID(ctx context.Context, id int64) (*domain.Course, error) {
	row := c.db.QueryRow(ctx, `SELECT `+courseColumns+` FROM courses c WHERE c.id = $1`, id)
	course, err := scanCourse(row)
	if err != nil {
		return nil, convertErr(err, "finding course by id %d", id)
	}
	return course, nil
}

// GetActive возвращает витрину: активные курсы по порядку id.
func (c *CourseRepository) GetActive(ctx context.Context) ([]domain.Course, error) {
	rows, err := c.db.Query(ctx, `SELECT `+courseColumns+` FROM courses c WHERE c.is_active ORDER BY c.id`)
	if err != nil {
		return nil, convertErr(err, "getting active courses")
	}
	return collectCourses(rows, "collecting active courses")
}

// GetEnrolled возвращает курсы, на которые зачислен юзер. Если studentID не nil, только курсы этого ученика.
func (c *CourseRepository) GetEnrolled(ctx context.Context, userID int64, studentID *int64) ([]domain.Course, error) {
	query := `SELECT ` + courseColumns + `
		FROM user_courses uc
		JOIN courses c ON c.id = uc.course_id
		WHERE uc.user_id = $1 AND ($2::bigint IS NULL OR uc.student_id = $2)
		ORDER BY uc.purchased_at DESC, uc.id DESC`

	rows, err := c.db.Query(ctx, query, userID, studentID)
	if err != nil {
		return nil, convertErr(err, "getting enrolled courses of user %d", userID)
	}
	return collectCourses(rows, "collecting enrolled courses")
}

func collectCourses(rows pgx.Rows, msg string) ([]domain.Course, error) {
	courses, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Course, error) {
		course, scanErr := scanCourse(row)
		if scanErr != nil {
			return domain.Course{}, scanErr
		}
		return *course, nil
	})
	if err != nil {
		return nil, convertErr(err, "%s", msg)
	}
	return courses, nil
}

func scanCourse(row pgx.Row) (*domain.Course, error) {
	var course domain.Course
	var description, imageURL *string
	if err := row.Scan(
		&course.ID,
		&course.Title,
		&description,
		&course.Price,
		&imageURL,
		&course.IsActive,
	); err != nil {
		return nil, err //nolint:wrapcheck
	}
	course.Description = derefString(description)
	course.ImageURL = derefString(imageURL)
	return &course, nil
}
