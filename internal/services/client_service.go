package services

import (
	"context"

	"prodeskBack/internal/models"
	"prodeskBack/internal/repositories"
)

type ClientService struct {
	ClientRepo *repositories.ClientRepository
}

func (s *ClientService) CreateClient(ctx context.Context, client models.Client) (models.Client, error) {
	if client.Name == "" {
		return models.Client{}, models.ValidationError("name", "is required")
	}
	if client.Email == "" {
		return models.Client{}, models.ValidationError("email", "is required")
	}
	if client.Currency == "" {
		client.Currency = ReportingCurrency
	}
	return s.ClientRepo.CreateClient(ctx, client)
}

func (s *ClientService) GetClientByID(ctx context.Context, id int) (models.Client, error) {
	return s.ClientRepo.GetClientByID(ctx, id)
}

func (s *ClientService) GetAllClients(ctx context.Context) ([]models.Client, error) {
	return s.ClientRepo.GetAllClients(ctx)
}

func (s *ClientService) UpdateClient(ctx context.Context, client models.Client) error {
	return s.ClientRepo.UpdateClient(ctx, client)
}

func (s *ClientService) DeleteClient(ctx context.Context, id int) error {
	return s.ClientRepo.DeleteClient(ctx, id)
}
