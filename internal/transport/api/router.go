package api

import (
	"fmt"
	"time"

	"github.com/fsdevblog/learn2code/internal/transport/api/middlewares"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const (
	DefaultServiceTimeout = 3 * time.Second
	corsMaxAge            = 12 * time.Hour
)

const (
	RouteGroup             = "/api"
	RegisterRoute          = "/auth/register"
	LoginRoute             = "/auth/login"
	CoursesRoute           = "/courses"
	MyCoursesRoute         = "/me/courses"
	StudentsRoute          = "/parents/me/students"
	StudentsWithStatsRoute = "/parents/me/students/with-stats"
	CheckoutRoute          = "/payments/checkout"
	PaymentsRoute          = "/payments"
	PaymentRoute           = "/payments/:id"
)

type RouterArgs struct {
	Logger             *logrus.Logger
	UserService        UserServicer
	CatalogService     CatalogServicer
	StudentService     StudentServicer
	PaymentService     PaymentServicer
	CheckoutService    CheckoutServicer
	JWTSecretKey       []byte
	CORSAllowedOrigins []string
}

func New(args RouterArgs) (*gin.Engine, error) {
	if err := registerValidators(); err != nil {
		return nil, fmt.Errorf("new router: %w", err)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	if args.Logger != nil {
		r.Use(middlewares.Logger(args.Logger))
	}
	if len(args.CORSAllowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:  args.CORSAllowedOrigins,
			AllowMethods:  []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", middlewares.RequestIDHeader},
			ExposeHeaders: []string{"Location", "Authorization", middlewares.RequestIDHeader},
			MaxAge:        corsMaxAge,
		}))
	}
	r.Use(middlewares.Errors())

	authHandler := NewAuthHandler(args.UserService)
	catalogHandler := NewCatalogHandler(args.CatalogService)
	studentsHandler := NewStudentsHandler(args.StudentService)
	paymentsHandler := NewPaymentsHandler(args.PaymentService, args.CheckoutService)

	api := r.Group(RouteGroup)

	api.POST(RegisterRoute, middlewares.NonAuthRequired(args.JWTSecretKey), authHandler.Register)
	api.POST(LoginRoute, middlewares.NonAuthRequired(args.JWTSecretKey), authHandler.Login)
	api.GET(CoursesRoute, catalogHandler.Index)

	api.Use(middlewares.AuthRequired(args.JWTSecretKey))
	// ниже все роуты группы требуют авторизованного пользователя.
	api.GET(MyCoursesRoute, catalogHandler.MyCourses)

	api.GET(StudentsRoute, studentsHandler.Index)
	api.POST(StudentsRoute, studentsHandler.Create)
	api.GET(StudentsWithStatsRoute, studentsHandler.WithStats)

	api.POST(CheckoutRoute, paymentsHandler.Checkout)
	api.GET(PaymentsRoute, paymentsHandler.Index)
	api.GET(PaymentRoute, paymentsHandler.Show)
	return r, nil
}
