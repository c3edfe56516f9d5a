package service

import (
	"fmt"

	"github.com/fsdevblog/learn2code/pkg/uow"
	"github.com/sirupsen/logrus"
)

type AppServices struct {
	UserService     *UserService
	CatalogService  *CatalogService
	StudentService  *StudentService
	PaymentService  *PaymentService
	CheckoutService *CheckoutService
}

type FactoryArgs struct {
	UOW       uow.UOW
	JWTSecret []byte
	Hasher    PasswordHasher
	Receipts  ReceiptGenerator
	Logger    *logrus.Logger
}

func Factory(args FactoryArgs) (*AppServices, error) {
	userService, userServiceErr := NewUserService(args.UOW, args.JWTSecret, args.Hasher)
	if userServiceErr != nil {
		return nil, fmt.Errorf("service factory: %s", userServiceErr.Error())
	}

	catalogService, catalogServiceErr := NewCatalogService(args.UOW)
	if catalogServiceErr != nil {
		return nil, fmt.Errorf("service factory: %s", catalogServiceErr.Error())
	}

	studentService, studentServiceErr := NewStudentService(args.UOW)
	if studentServiceErr != nil {
		return nil, fmt.Errorf("service factory: %s", studentServiceErr.Error())
	}

	paymentService, paymentServiceErr := NewPaymentService(args.UOW)
	if paymentServiceErr != nil {
		return nil, fmt.Errorf("service factory: %s", paymentServiceErr.Error())
	}

	return &AppServices{
		UserService:     userService,
		CatalogService:  catalogService,
		StudentService:  studentService,
		PaymentService:  paymentService,
		CheckoutService: NewCheckoutService(args.UOW, args.Receipts, args.Logger),
	}, nil
}
