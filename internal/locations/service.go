package locations

import (
	"context"
	"errors"
	"fmt"

	"github.com/angelmondragon/delivery-scheduler-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/delivery-scheduler-backend/pkg/errors"
	"gorm.io/gorm"
)

type locationsRepository interface {
	List(ctx context.Context, activeOnly bool) ([]models.Location, error)
	FindByID(ctx context.Context, id int64) (*models.Location, error)
	Create(ctx context.Context, loc *models.Location) error
	Update(ctx context.Context, loc *models.Location) error
	Delete(ctx context.Context, id int64) error
}

// LocationInput captures the writable fields for create and update.
type LocationInput struct {
	Name     string                 `json:"name" validate:"required"`
	Address  models.LocationAddress `json:"address"`
	IsActive *bool                  `json:"isActive"`
}

// Service exposes collection-point operations.
type Service interface {
	List(ctx context.Context, activeOnly bool) ([]models.Location, error)
	Get(ctx context.Context, id int64) (*models.Location, error)
	Create(ctx context.Context, input LocationInput) (*models.Location, error)
	Update(ctx context.Context, id int64, input LocationInput) (*models.Location, error)
	Delete(ctx context.Context, id int64) error
}

type service struct {
	repo locationsRepository
}

// NewService builds a location service.
func NewService(repo locationsRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("locations repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context, activeOnly bool) ([]models.Location, error) {
	out, err := s.repo.List(ctx, activeOnly)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list locations")
	}
	return out, nil
}

func (s *service) Get(ctx context.Context, id int64) (*models.Location, error) {
	loc, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "location not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load location")
	}
	return loc, nil
}

func (s *service) Create(ctx context.Context, input LocationInput) (*models.Location, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	loc := &models.Location{
		Name:     input.Name,
		Address:  input.Address,
		IsActive: true,
	}
	if input.IsActive != nil {
		loc.IsActive = *input.IsActive
	}
	if loc.Address.Country == "" {
		loc.Address.Country = "Singapore"
	}
	if err := s.repo.Create(ctx, loc); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create location")
	}
	return loc, nil
}

func (s *service) Update(ctx context.Context, id int64, input LocationInput) (*models.Location, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	loc, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	loc.Name = input.Name
	loc.Address = input.Address
	if input.IsActive != nil {
		loc.IsActive = *input.IsActive
	}
	if loc.Address.Country == "" {
		loc.Address.Country = "Singapore"
	}
	if err := s.repo.Update(ctx, loc); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update location")
	}
	return loc, nil
}

func (s *service) Delete(ctx context.Context, id int64) error {
	err := s.repo.Delete(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "location not found")
	}
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete location")
	}
	return nil
}

func validateInput(input LocationInput) error {
	if input.Name == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if input.Address.Address1 == "" || input.Address.City == "" || input.Address.Zip == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "address needs address1, city and zip")
	}
	return nil
}
