package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/fsdevblog/learn2code/internal/domain"
	"github.com/fsdevblog/learn2code/internal/service"
	"github.com/gin-gonic/gin"
)

type StudentsHandler struct {
	studentSvs StudentServicer
}

func NewStudentsHandler(studentSvs StudentServicer) *StudentsHandler {
	return &StudentsHandler{
		studentSvs: studentSvs,
	}
}

type StudentResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Age       *int32    `json:"age"`
	AvatarURL string    `json:"avatarUrl,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type StudentSummaryResponse struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	Age             *int32 `json:"age"`
	AvatarURL       string `json:"avatarUrl,omitempty"`
	CoursesEnrolled int64  `json:"coursesEnrolled"`
}

func newStudentResponse(student domain.StudentProfile) StudentResponse {
	return StudentResponse{
		ID:        student.ID,
		Name:      student.Name,
		Age:       student.Age,
		AvatarURL: student.AvatarURL,
		CreatedAt: student.CreatedAt,
	}
}

// Index GET RouteGroup + StudentsRoute.
func (h *StudentsHandler) Index(c *gin.Context) {
	currentUserID := getUserIDFromContext(c)

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	students, err := h.studentSvs.GetByParent(reqCtx, currentUserID)
	if err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		return
	}

	response := make([]StudentResponse, len(students))
	for i, student := range students {
		response[i] = newStudentResponse(student)
	}
	c.JSON(http.StatusOK, response)
}

// WithStats GET RouteGroup + StudentsWithStatsRoute.
func (h *StudentsHandler) WithStats(c *gin.Context) {
	currentUserID := getUserIDFromContext(c)

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	students, err := h.studentSvs.GetByParentWithStats(reqCtx, currentUserID)
	if err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		return
	}

	response := make([]StudentSummaryResponse, len(students))
	for i, student := range students {
		response[i] = StudentSummaryResponse{
			ID:              student.ID,
			Name:            student.Name,
			Age:             student.Age,
			AvatarURL:       student.AvatarURL,
			CoursesEnrolled: student.CoursesEnrolled,
		}
	}
	c.JSON(http.StatusOK, response)
}

type CreateStudentParams struct {
	Name      string `binding:"required,max_bytes=255"       json:"name"`
	Age       *int32 `binding:"omitempty,gte=1,lte=120"      json:"age"`
	AvatarURL string `binding:"omitempty,url,max_bytes=1024" json:"avatarUrl"`
}

// Create POST RouteGroup + StudentsRoute.
func (h *StudentsHandler) Create(c *gin.Context) {
	currentUserID := getUserIDFromContext(c)

	var params CreateStudentParams
	if bindErr := c.ShouldBindJSON(&params); bindErr != nil {
		abortWithBindError(c, bindErr)
		return
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	student, err := h.studentSvs.Create(reqCtx, service.CreateStudentArgs{
		ParentID:  currentUserID,
		Name:      params.Name,
		Age:       params.Age,
		AvatarURL: params.AvatarURL,
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidUser) {
			_ = c.AbortWithError(http.StatusBadRequest, domain.ErrInvalidUser).SetType(gin.ErrorTypePublic)
			return
		}
		_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		return
	}
	c.JSON(http.StatusCreated, newStudentResponse(*student))
}
