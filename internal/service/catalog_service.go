package service

import (
	"context"
	"fmt"

	"github.com/fsdevblog/learn2code/internal/domain"
	"github.com/fsdevblog/learn2code/internal/repository/repoargs"
	"github.com/fsdevblog/learn2code/pkg/uow"
)

type CatalogService struct {
	courseRepo  CourseRepository
	studentRepo StudentRepository
}

func NewCatalogService(u uow.UOW) (*CatalogService, error) {
	courseRepo, courseRepoErr := uow.GetRepositoryAs[CourseRepository](u, uow.RepositoryName(repoargs.CourseRepoName))
	if courseRepoErr != nil {
		return nil, courseRepoErr //nolint:wrapcheck
	}
	studentRepo, studentRepoErr := uow.GetRepositoryAs[StudentRepository](
		u,
		uow.RepositoryName(repoargs.StudentRepoName),
	)
	if studentRepoErr != nil {
		return nil, studentRepoErr //nolint:wrapcheck
	}
	return &CatalogService{
		courseRepo:  courseRepo,
		studentRepo: studentRepo,
	}, nil
}

func (s *CatalogService) ActiveCourses(ctx context.Context) ([]domain.Course, error) {
	courses, err := s.courseRepo.GetActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("active courses: %w", err)
	}
	return courses, nil
}

// UserCourses курсы, на которые зачислен юзер. Если передан studentID - только курсы этого ученика,
// при этом ученик должен принадлежать юзеру (иначе domain.ErrInvalidStudent).
func (s *CatalogService) UserCourses(ctx context.Context, userID int64, studentID *int64) ([]domain.Course, error) {
	if _, err := resolveStudent(ctx, s.studentRepo, userID, studentID); err != nil {
		return nil, fmt.Errorf("user courses: %w", err)
	}
	courses, err := s.courseRepo.GetEnrolled(ctx, userID, studentID)
	if err != nil {
		return nil, fmt.Errorf("user courses: %w", err)
	}
	return courses, nil
}
