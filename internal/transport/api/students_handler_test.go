package api

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/fsdevblog/learn2code/internal/domain"
	"github.com/fsdevblog/learn2code/internal/service"
	"github.com/fsdevblog/learn2code/internal/transport/api/testutils"
	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/suite"
)

type StudentsHandlerTestSuite struct {
	suite.Suite
	router *gin.Engine
	mocks  *routerMocks
	token  string
}

func TestStudentsHandlerSuite(t *testing.T) {
	suite.Run(t, new(StudentsHandlerTestSuite))
}

func (s *StudentsHandlerTestSuite) SetupTest() {
	s.router, s.mocks = newTestRouter(s.T())
	s.token = newTestToken(s.T(), 1)
}

func (s *StudentsHandlerTestSuite) TestCreate() {
	s.mocks.studentService.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, args service.CreateStudentArgs) (*domain.StudentProfile, error) {
			s.Equal(int64(1), args.ParentID)
			s.Equal("Kid", args.Name)
			s.Require().NotNil(args.Age)
			s.Equal(int32(9), *args.Age)
			return &domain.StudentProfile{ID: 4, ParentUserID: 1, Name: args.Name, Age: args.Age}, nil
		})

	res, err := testutils.MakeRequest(testutils.RequestArgs{
		Router: s.router,
		Method: http.MethodPost,
		URL:    RouteGroup + StudentsRoute,
		Body:   bytes.NewBufferString(`{"name":"Kid","age":9}`),
	}, testutils.WithJSON(), testutils.WithBearer(s.token))
	s.Require().NoError(err)
	s.Equal(http.StatusCreated, res.StatusCode)

	var body StudentResponse
	s.Require().NoError(testutils.DecodeJSON(res, &body))
	s.Equal(int64(4), body.ID)
	s.Equal("Kid", body.Name)
}

func (s *StudentsHandlerTestSuite) TestCreateValidation() {
	s.mocks.studentService.EXPECT().Create(gomock.Any(), gomock.Any()).Times(0)

	cases := []struct {
		name      string
		payload   string
		wantField string
		wantTag   string
	}{
		{
			name:      "empty name",
			payload:   `{"name":""}`,
			wantField: "Name",
			wantTag:   "required",
		},
		{
			name:      "name over bytes limit",
			payload:   `{"name":"` + testutils.OverBytesString(255) + `"}`,
			wantField: "Name",
			wantTag:   "max_bytes",
		},
		{
			name:      "age out of range",
			payload:   `{"name":"Kid","age":0}`,
			wantField: "Age",
			wantTag:   "gte",
		},
		{
			name:      "invalid avatar",
			payload:   `{"name":"Kid","avatarUrl":"not a url"}`,
			wantField: "AvatarURL",
			wantTag:   "url",
		},
	}
	for _, t := range cases {
		s.Run(t.name, func() {
			res, err := testutils.MakeRequest(testutils.RequestArgs{
				Router: s.router,
				Method: http.MethodPost,
				URL:    RouteGroup + StudentsRoute,
				Body:   bytes.NewBufferString(t.payload),
			}, testutils.WithJSON(), testutils.WithBearer(s.token))
			s.Require().NoError(err)
			s.Equal(http.StatusUnprocessableEntity, res.StatusCode)

			var body struct {
				Error  string            `json:"error"`
				Fields map[string]string `json:"fields"`
			}
			s.Require().NoError(testutils.DecodeJSON(res, &body))
			s.Equal("validation failed", body.Error)
			s.Equal(t.wantTag, body.Fields[t.wantField])
		})
	}
}

func (s *StudentsHandlerTestSuite) TestCreateInvalidUser() {
	s.mocks.studentService.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		Return(nil, fmt.Errorf("create student: %w", domain.ErrInvalidUser))

	res, err := testutils.MakeRequest(testutils.RequestArgs{
		Router: s.router,
		Method: http.MethodPost,
		URL:    RouteGroup + StudentsRoute,
		Body:   bytes.NewBufferString(`{"name":"Kid"}`),
	}, testutils.WithJSON(), testutils.WithBearer(s.token))
	s.Require().NoError(err)
	s.Equal(http.StatusBadRequest, res.StatusCode)

	var body map[string]string
	s.Require().NoError(testutils.DecodeJSON(res, &body))
	s.Equal(domain.ErrInvalidUser.Error(), body["error"])
}

func (s *StudentsHandlerTestSuite) TestWithStats() {
	s.mocks.studentService.EXPECT().GetByParentWithStats(gomock.Any(), int64(1)).Return([]domain.StudentWithStats{
		{StudentProfile: domain.StudentProfile{ID: 4, Name: "Kid"}, CoursesEnrolled: 2},
	}, nil)

	res, err := testutils.MakeRequest(testutils.RequestArgs{
		Router: s.router,
		Method: http.MethodGet,
		URL:    RouteGroup + StudentsWithStatsRoute,
	}, testutils.WithBearer(s.token))
	s.Require().NoError(err)
	s.Equal(http.StatusOK, res.StatusCode)

	var body []StudentSummaryResponse
	s.Require().NoError(testutils.DecodeJSON(res, &body))
	s.Require().Len(body, 1)
	s.Equal(int64(2), body[0].CoursesEnrolled)
}

func (s *StudentsHandlerTestSuite) TestIndexEmpty() {
	s.mocks.studentService.EXPECT().GetByParent(gomock.Any(), int64(1)).Return(nil, nil)

	res, err := testutils.MakeRequest(testutils.RequestArgs{
		Router: s.router,
		Method: http.MethodGet,
		URL:    RouteGroup + StudentsRoute,
	}, testutils.WithBearer(s.token))
	s.Require().NoError(err)
	s.Equal(http.StatusOK, res.StatusCode)

	var body []StudentResponse
	s.Require().NoError(testutils.DecodeJSON(res, &body))
	s.NotNil(body)
	s.Empty(body)
}
