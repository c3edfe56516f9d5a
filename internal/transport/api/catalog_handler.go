package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/fsdevblog/learn2code/internal/domain"
	"github.com/gin-gonic/gin"
)

var errInvalidStudentID = errors.New("invalid studentId")

type CatalogHandler struct {
	catalogSvs CatalogServicer
}

func NewCatalogHandler(catalogSvs CatalogServicer) *CatalogHandler {
	return &CatalogHandler{
		catalogSvs: catalogSvs,
	}
}

type CourseResponse struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	ImageURL    string  `json:"imageUrl,omitempty"`
}

func newCoursesResponse(courses []domain.Course) []CourseResponse {
	response := make([]CourseResponse, len(courses))
	for i, course := range courses {
		response[i] = CourseResponse{
			ID:          course.ID,
			Title:       course.Title,
			Description: course.Description,
			Price:       course.Price.InexactFloat64(),
			ImageURL:    course.ImageURL,
		}
	}
	return response
}

// Index GET RouteGroup + CoursesRoute. Публичный каталог активных курсов.
func (h *CatalogHandler) Index(c *gin.Context) {
	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	courses, err := h.catalogSvs.ActiveCourses(reqCtx)
	if err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		return
	}
	c.JSON(http.StatusOK, newCoursesResponse(courses))
}

// MyCourses GET RouteGroup + MyCoursesRoute. Курсы текущего юзера, с ?studentId= - курсы его ученика.
func (h *CatalogHandler) MyCourses(c *gin.Context) {
	currentUserID := getUserIDFromContext(c)

	studentID, parseErr := parseOptionalID(c.Query("studentId"))
	if parseErr != nil {
		_ = c.AbortWithError(http.StatusBadRequest, errInvalidStudentID).SetType(gin.ErrorTypePublic)
		return
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	courses, err := h.catalogSvs.UserCourses(reqCtx, currentUserID, studentID)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidStudent) {
			_ = c.AbortWithError(http.StatusBadRequest, domain.ErrInvalidStudent).SetType(gin.ErrorTypePublic)
			return
		}
		_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		return
	}
	c.JSON(http.StatusOK, newCoursesResponse(courses))
}
