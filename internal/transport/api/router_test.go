package api

import (
	"io"
	"testing"
	"time"

	"github.com/fsdevblog/learn2code/internal/logger"
	"github.com/fsdevblog/learn2code/internal/service/tokens"
	"github.com/fsdevblog/learn2code/internal/transport/api/mocks"
	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "super secret key"

type routerMocks struct {
	userService     *mocks.MockUserServicer
	catalogService  *mocks.MockCatalogServicer
	studentService  *mocks.MockStudentServicer
	paymentService  *mocks.MockPaymentServicer
	checkoutService *mocks.MockCheckoutServicer
}

// newTestRouter роутер со всеми сервисами-моками.
func newTestRouter(t *testing.T) (*gin.Engine, *routerMocks) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mockCtrl := gomock.NewController(t)
	m := &routerMocks{
		userService:     mocks.NewMockUserServicer(mockCtrl),
		catalogService:  mocks.NewMockCatalogServicer(mockCtrl),
		studentService:  mocks.NewMockStudentServicer(mockCtrl),
		paymentService:  mocks.NewMockPaymentServicer(mockCtrl),
		checkoutService: mocks.NewMockCheckoutServicer(mockCtrl),
	}

	router, err := New(RouterArgs{
		Logger:             logger.New(io.Discard, ""),
		UserService:        m.userService,
		CatalogService:     m.catalogService,
		StudentService:     m.studentService,
		PaymentService:     m.paymentService,
		CheckoutService:    m.checkoutService,
		JWTSecretKey:       []byte(testJWTSecret),
		CORSAllowedOrigins: []string{"http://localhost:3000"},
	})
	require.NoError(t, err)
	return router, m
}

func newTestToken(t *testing.T, userID int64) string {
	t.Helper()
	token, err := tokens.GenerateUserJWT(userID, "PARENT", time.Hour, []byte(testJWTSecret))
	require.NoError(t, err)
	return token
}
