package services

import (
	"context"
	"fmt"

	"clinic-backend/internal/models"
	"clinic-backend/internal/repositories"
)

type PatientService struct {
	Repo *repositories.PatientRepository
}

func NewPatientService(repo *repositories.PatientRepository) *PatientService {
	return &PatientService{Repo: repo}
}

func (s *PatientService) CreatePatient(ctx context.Context, tenantID int, req *models.CreatePatientRequest) (*models.Patient, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if req.Phone == "" {
		return nil, fmt.Errorf("%w: phone is required", ErrValidation)
	}

	patient := &models.Patient{
		TenantID: tenantID,
		Name:     req.Name,
		Phone:    req.Phone,
		Email:    req.Email,
		Address:  req.Address,
	}
	if err := s.Repo.Create(ctx, patient); err != nil {
		return nil, err
	}
	return patient, nil
}

func (s *PatientService) GetPatient(ctx context.Context, tenantID, id int) (*models.Patient, error) {
	return s.Repo.Get(ctx, tenantID, id)
}

func (s *PatientService) ListPatients(ctx context.Context, tenantID int) ([]*models.Patient, error) {
	return s.Repo.List(ctx, tenantID)
}

func (s *PatientService) SearchByPhone(ctx context.Context, tenantID int, phone string) ([]*models.Patient, error) {
	return s.Repo.SearchByPhone(ctx, tenantID, phone)
}

func (s *PatientService) UpdatePatient(ctx context.Context, tenantID, id int, req *models.UpdatePatientRequest) (*models.Patient, error) {
	return s.Repo.Update(ctx, tenantID, id, req)
}
