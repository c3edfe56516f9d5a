package repoargs

type RepositoryName string

const (
	UserRepoName       RepositoryName = "user"
	StudentRepoName    RepositoryName = "student_profile"
	CourseRepoName     RepositoryName = "course"
	PaymentRepoName    RepositoryName = "payment"
	EnrollmentRepoName RepositoryName = "user_course"
)
