package services

import (
	"context"

	"prodeskBack/internal/models"
	"prodeskBack/internal/repositories"
)

type TicketService struct {
	TicketRepo *repositories.TicketRepository
}

func (s *TicketService) CreateTicket(ctx context.Context, ticket models.Ticket) (models.Ticket, error) {
	if ticket.ProjectID == 0 {
		return models.Ticket{}, models.ValidationError("project_id", "is required")
	}
	if ticket.Title == "" {
		return models.Ticket{}, models.ValidationError("title", "is required")
	}
	if ticket.Status == "" {
		ticket.Status = "open"
	}
	return s.TicketRepo.CreateTicket(ctx, ticket)
}

func (s *TicketService) GetTicketByID(ctx context.Context, id int) (models.Ticket, error) {
	return s.TicketRepo.GetTicketByID(ctx, id)
}

func (s *TicketService) GetTicketsByProject(ctx context.Context, projectID int) ([]models.Ticket, error) {
	return s.TicketRepo.GetTicketsByProject(ctx, projectID)
}

func (s *TicketService) UpdateTicket(ctx context.Context, ticket models.Ticket) error {
	return s.TicketRepo.UpdateTicket(ctx, ticket)
}

func (s *TicketService) RequestRevision(ctx context.Context, id int) error {
	return s.TicketRepo.BumpRevision(ctx, id)
}

func (s *TicketService) DeleteTicket(ctx context.Context, id int) error {
	return s.TicketRepo.DeleteTicket(ctx, id)
}

func (s *TicketService) CreateComment(ctx context.Context, comment models.TicketComment) (models.TicketComment, error) {
	if comment.Body == "" {
		return models.TicketComment{}, models.ValidationError("body", "is required")
	}
	return s.TicketRepo.CreateComment(ctx, comment)
}

func (s *TicketService) GetCommentsByTicket(ctx context.Context, ticketID int) ([]models.TicketComment, error) {
	return s.TicketRepo.GetCommentsByTicket(ctx, ticketID)
}

func (s *TicketService) DeleteComment(ctx context.Context, id int) error {
	return s.TicketRepo.DeleteComment(ctx, id)
}
