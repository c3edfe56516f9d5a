package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/fsdevblog/learn2code/internal/domain"
	"github.com/fsdevblog/learn2code/internal/repository/repoargs"
	"github.com/fsdevblog/learn2code/pkg/uow"
)

type StudentService struct {
	uow            uow.UOW
	studentRepo    StudentRepository
	enrollmentRepo EnrollmentRepository
}

func NewStudentService(u uow.UOW) (*StudentService, error) {
	studentRepo, studentRepoErr := uow.GetRepositoryAs[StudentRepository](
		u,
		uow.RepositoryName(repoargs.StudentRepoName),
	)
	if studentRepoErr != nil {
		return nil, studentRepoErr //nolint:wrapcheck
	}
	enrollmentRepo, enrollmentRepoErr := uow.GetRepositoryAs[EnrollmentRepository](
		u,
		uow.RepositoryName(repoargs.EnrollmentRepoName),
	)
	if enrollmentRepoErr != nil {
		return nil, enrollmentRepoErr //nolint:wrapcheck
	}
	return &StudentService{
		uow:            u,
		studentRepo:    studentRepo,
		enrollmentRepo: enrollmentRepo,
	}, nil
}

type CreateStudentArgs struct {
	ParentID  int64
	Name      string
	Age       *int32
	AvatarURL string
}

// Create добавляет ученика родителю args.ParentID. Родитель должен существовать, иначе domain.ErrInvalidUser.
func (s *StudentService) Create(ctx context.Context, args CreateStudentArgs) (*domain.StudentProfile, error) {
	var student *domain.StudentProfile
	txErr := s.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		userRepo, userRepoErr := uow.GetAs[UserRepository](tx, uow.RepositoryName(repoargs.UserRepoName))
		if userRepoErr != nil {
			return userRepoErr //nolint:wrapcheck
		}
		studentRepo, studentRepoErr := uow.GetAs[StudentRepository](tx, uow.RepositoryName(repoargs.StudentRepoName))
		if studentRepoErr != nil {
			return studentRepoErr //nolint:wrapcheck
		}

		parent, parentErr := resolveUser(c, userRepo, args.ParentID)
		if parentErr != nil {
			return parentErr
		}

		var createErr error
		student, createErr = studentRepo.Create(c, repoargs.CreateStudent{
			ParentUserID: parent.ID,
			Name:         strings.TrimSpace(args.Name),
			Age:          args.Age,
			AvatarURL:    strings.TrimSpace(args.AvatarURL),
		})
		return createErr //nolint:wrapcheck
	})
	if txErr != nil {
		return nil, fmt.Errorf("create student: %w", txErr)
	}
	return student, nil
}

func (s *StudentService) GetByParent(ctx context.Context, parentID int64) ([]domain.StudentProfile, error) {
	students, err := s.studentRepo.GetByParentID(ctx, parentID)
	if err != nil {
		return nil, fmt.Errorf("get students by parent: %w", err)
	}
	return students, nil
}

// GetByParentWithStats ученики родителя с количеством курсов, на которые зачислен каждый.
func (s *StudentService) GetByParentWithStats(ctx context.Context, parentID int64) ([]domain.StudentWithStats, error) {
	students, err := s.GetByParent(ctx, parentID)
	if err != nil {
		return nil, err
	}
	if len(students) == 0 {
		return []domain.StudentWithStats{}, nil
	}

	ids := make([]int64, len(students))
	for i, student := range students {
		ids[i] = student.ID
	}
	counts, countErr := s.enrollmentRepo.CountByStudentIDs(ctx, ids)
	if countErr != nil {
		return nil, fmt.Errorf("count student courses: %w", countErr)
	}

	result := make([]domain.StudentWithStats, len(students))
	for i, student := range students {
		result[i] = domain.StudentWithStats{
			StudentProfile:  student,
			CoursesEnrolled: counts[student.ID],
		}
	}
	return result, nil
}
