package services

import (
	"context"

	"prodeskBack/internal/models"
	"prodeskBack/internal/repositories"
)

type ProjectService struct {
	ProjectRepo *repositories.ProjectRepository
}

func (s *ProjectService) CreateProject(ctx context.Context, project models.Project) (models.Project, error) {
	if project.ClientID == 0 {
		return models.Project{}, models.ValidationError("client_id", "is required")
	}
	if project.Name == "" {
		return models.Project{}, models.ValidationError("name", "is required")
	}
	if project.Status == "" {
		project.Status = "active"
	}
	return s.ProjectRepo.CreateProject(ctx, project)
}

func (s *ProjectService) GetProjectByID(ctx context.Context, id int) (models.Project, error) {
	return s.ProjectRepo.GetProjectByID(ctx, id)
}

func (s *ProjectService) GetProjectsByClient(ctx context.Context, clientID int) ([]models.Project, error) {
	return s.ProjectRepo.GetProjectsByClient(ctx, clientID)
}

func (s *ProjectService) GetAllProjects(ctx context.Context) ([]models.Project, error) {
	return s.ProjectRepo.GetAllProjects(ctx)
}

func (s *ProjectService) UpdateProject(ctx context.Context, project models.Project) error {
	return s.ProjectRepo.UpdateProject(ctx, project)
}

func (s *ProjectService) DeleteProject(ctx context.Context, id int) error {
	return s.ProjectRepo.DeleteProject(ctx, id)
}
