package pgrepo

import (
	"context"

	"github.com/fsdevblog/learn2code/internal/domain"
	"github.com/fsdevblog/learn2code/internal/repository/repoargs"
	"github.com/fsdevblog/learn2code/pkg/uow"
	"github.com/jackc/pgx/v5"
)

const studentColumns = `id, created_at, parent_user_id, name, age, avatar_url`

type StudentRepository struct {
	db uow.DBTX
}

func NewStudentRepository(db uow.DBTX) *StudentRepository {
	return &StudentRepository{db: db}
}

func (s *StudentRepository) Create(ctx context.Context, student repoargs.CreateStudent) (*domain.StudentProfile, error) {
	row := s.db.QueryRow(ctx,
		`INSERT INTO student_profiles (parent_user_id, name, age, avatar_url)
		VALUES ($1, $2, $3, $4)
		RETURNING `+studentColumns,
		student.ParentUserID, student.Name, student.Age, nullString(student.AvatarURL),
	)
	profile, err := scanStudent(row)
	if err != nil {
		return nil, convertErr(err, "creating student profile for parent %d", student.ParentUserID)
	}
	return profile, nil
}

func (s *StudentRepository) FindByID(ctx context.Context, id int64) (*domain.StudentProfile, error) {
	row := s.db.QueryRow(ctx, `SELECT `+studentColumns+` FROM student_profiles WHERE id = $1`, id)
	profile, err := scanStudent(row)
	if err != nil {
		return nil, convertErr(err, "finding student profile by id %d", id)
	}
	return profile, nil
}

// GetByParentID возвращает профили учеников родителя, отсортированные по дате создания по убыванию.
func (s *StudentRepository) GetByParentID(ctx context.Context, parentID int64) ([]domain.StudentProfile, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+studentColumns+` FROM student_profiles WHERE parent_user_id = $1 ORDER BY created_at DESC, id DESC`,
		parentID,
	)
	if err != nil {
		return nil, convertErr(err, "getting student profiles by parent %d", parentID)
	}
	profiles, collectErr := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.StudentProfile, error) {
		profile, scanErr := scanStudent(row)
		if scanErr != nil {
			return domain.StudentProfile{}, scanErr
		}
		return *profile, nil
	})
	if collectErr != nil {
		return nil, convertErr(collectErr, "collecting student profiles of parent %d", parentID)
	}
	return profiles, nil
}

func scanStudent(row pgx.Row) (*domain.StudentProfile, error) {
	var profile domain.StudentProfile
	var avatarURL *string
	if err := row.Scan(
		&profile.ID,
		&profile.CreatedAt,
		&profile.ParentUserID,
		&profile.Name,
		&profile.Age,
		&avatarURL,
	); err != nil {
		return nil, err //nolint:wrapcheck
	}
	profile.AvatarURL = derefString(avatarURL)
	return &profile, nil
}
