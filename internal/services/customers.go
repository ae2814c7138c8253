package services

import (
	"context"
	"strings"

	"github.com/diewo77/orderdesk/internal/models"
	"github.com/diewo77/orderdesk/internal/repository"
	"github.com/diewo77/orderdesk/validation"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// CustomerInput is the data needed to register a customer.
type CustomerInput struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"omitempty,email"`
	Phone   string `json:"phone" validate:"required"`
	Address string `json:"address" validate:"required"`
	Pincode string `json:"pincode"`
}

type CustomerService struct {
	repo        *repository.Repository
	log         logrus.FieldLogger
	phoneRegion string
}

// NewCustomerService validates phone numbers against region (e.g. "IN").
func NewCustomerService(repo *repository.Repository, log logrus.FieldLogger, phoneRegion string) *CustomerService {
	return &CustomerService{repo: repo, log: log, phoneRegion: phoneRegion}
}

func (s *CustomerService) List(ctx context.Context) ([]models.Customer, error) {
	snap, err := s.repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Customers, nil
}

func (s *CustomerService) Create(ctx context.Context, in CustomerInput) (*models.Customer, error) {
	v := validation.Violations{}
	validation.Struct(in, v)
	validation.Phone("phone", in.Phone, s.phoneRegion, v)
	if err := invalid(v); err != nil {
		return nil, err
	}

	c := models.Customer{
		ID:      uuid.NewString(),
		Name:    strings.TrimSpace(in.Name),
		Email:   strings.TrimSpace(in.Email),
		Phone:   strings.TrimSpace(in.Phone),
		Address: strings.TrimSpace(in.Address),
		Pincode: strings.TrimSpace(in.Pincode),
	}
	err := s.repo.Update(ctx, func(snap *repository.Snapshot) error {
		if _, exists := models.FindCustomer(snap.Customers, "", c.Name); exists {
			return fieldError("name", "duplicate")
		}
		snap.Customers = append(snap.Customers, c)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"customer": c.ID, "name": c.Name}).Info("customer created")
	return &c, nil
}
