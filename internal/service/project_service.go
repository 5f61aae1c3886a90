package service

import (
	"context"
	"fmt"

	"project-tracker/internal/dto"
	"project-tracker/internal/repository"
)

// ProjectService exposes the signed-in user's projects.
type ProjectService interface {
	ListProjects(ctx context.Context, ownerID string) (*dto.ProjectListResponse, error)
}

type projectServiceImpl struct {
	projects repository.ProjectRepository
}

// NewProjectService creates a new instance of ProjectService.
func NewProjectService(projects repository.ProjectRepository) ProjectService {
	return &projectServiceImpl{projects: projects}
}

func (s *projectServiceImpl) ListProjects(ctx context.Context, ownerID string) (*dto.ProjectListResponse, error) {
	rows, err := s.projects.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects from repository: %w", err)
	}

	resp := &dto.ProjectListResponse{
		Projects: make([]dto.ProjectResponse, 0, len(rows)),
		Total:    len(rows),
	}
	for _, p := range rows {
		resp.Projects = append(resp.Projects, dto.ProjectResponse{
			ID:         p.ID,
			Acronym:    p.Acronym,
			Title:      p.Title,
			Workstream: p.Workstream,
			CreatedAt:  p.CreatedAt,
		})
	}
	return resp, nil
}
