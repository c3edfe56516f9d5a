package domain

// Имена уникальных индексов из миграций. Используются для распознавания конфликтов вставки.
const (
	UserCourseUniqueIndex        = "user_courses_user_course_uidx"
	UserCourseStudentUniqueIndex = "user_courses_user_course_student_uidx"
	PaymentReceiptUniqueIndex    = "payments_receipt_number_key"
	PaymentProviderTxnIndex      = "payments_user_provider_txn_uidx"
	UserEmailUniqueIndex         = "users_email_key"
)

// EnrollmentKey ключ уникальности зачисления. Без ученика зачисление уникально по паре (user, course),
// с учеником - по тройке (user, course, student). Оба инварианта выводятся только из этого ключа.
type EnrollmentKey struct {
	UserID    int64
	CourseID  int64
	StudentID *int64
}

func NewEnrollmentKey(userID, courseID int64, studentID *int64) EnrollmentKey {
	return EnrollmentKey{
		UserID:    userID,
		CourseID:  courseID,
		StudentID: studentID,
	}
}

// StudentScoped сообщает, относится ли зачисление к конкретному ученику.
func (k EnrollmentKey) StudentScoped() bool {
	return k.StudentID != nil
}

// UniqueIndex возвращает имя уникального индекса, который защищает данный ключ.
func (k EnrollmentKey) UniqueIndex() string {
	if k.StudentScoped() {
		return UserCourseStudentUniqueIndex
	}
	return UserCourseUniqueIndex
}
