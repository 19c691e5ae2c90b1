package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"prodeskBack/internal/models"
	"prodeskBack/internal/services"
	"prodeskBack/utils"
)

type TicketHandler struct {
	Service *services.TicketService
}

func (h *TicketHandler) CreateTicket(w http.ResponseWriter, r *http.Request) {
	var ticket models.Ticket
	if err := json.NewDecoder(r.Body).Decode(&ticket); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	created, err := h.Service.CreateTicket(r.Context(), ticket)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrValidation):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case isForeignKeyConstraintError(err):
			http.Error(w, "Referenced project or assignee does not exist", http.StatusBadRequest)
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(created)
}

func (h *TicketHandler) GetTicketByID(w http.ResponseWriter, r *http.Request) {
	idStr := getParam(r, "id")
	if idStr == "" {
		http.Error(w, "Missing ticket ID", http.StatusBadRequest)
		return
	}

	id, err := strconv.Atoi(idStr)
	if err != nil {
		http.Error(w, "Invalid ticket ID", http.StatusBadRequest)
		return
	}

	ticket, err := h.Service.GetTicketByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, models.ErrTicketNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ticket)
}

func (h *TicketHandler) GetTicketsByProject(w http.ResponseWriter, r *http.Request) {
	projectStr := getParam(r, "project_id")
	if projectStr == "" {
		http.Error(w, "Missing project ID", http.StatusBadRequest)
		return
	}

	projectID, err := strconv.Atoi(projectStr)
	if err != nil {
		http.Error(w, "Invalid project ID", http.StatusBadRequest)
		return
	}

	tickets, err := h.Service.GetTicketsByProject(r.Context(), projectID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(tickets)
}

func (h *TicketHandler) UpdateTicket(w http.ResponseWriter, r *http.Request) {
	idStr := getParam(r, "id")
	if idStr == "" {
		http.Error(w, "Missing ticket ID", http.StatusBadRequest)
		return
	}

	id, err := strconv.Atoi(idStr)
	if err != nil {
		http.Error(w, "Invalid ticket ID", http.StatusBadRequest)
		return
	}

	var ticket models.Ticket
	if err := json.NewDecoder(r.Body).Decode(&ticket); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	ticket.ID = id

	if err := h.Service.UpdateTicket(r.Context(), ticket); err != nil {
		if errors.Is(err, models.ErrTicketNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Ticket updated"})
}

// RequestRevision sends a ticket back for rework and bumps its revision
// counter.
func (h *TicketHandler) RequestRevision(w http.ResponseWriter, r *http.Request) {
	idStr := getParam(r, "id")
	if idStr == "" {
		http.Error(w, "Missing ticket ID", http.StatusBadRequest)
		return
	}

	id, err := strconv.Atoi(idStr)
	if err != nil {
		http.Error(w, "Invalid ticket ID", http.StatusBadRequest)
		return
	}

	if err := h.Service.RequestRevision(r.Context(), id); err != nil {
		if errors.Is(err, models.ErrTicketNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Revision requested"})
}

func (h *TicketHandler) DeleteTicket(w http.ResponseWriter, r *http.Request) {
	idStr := getParam(r, "id")
	if idStr == "" {
		http.Error(w, "Missing ticket ID", http.StatusBadRequest)
		return
	}

	id, err := strconv.Atoi(idStr)
	if err != nil {
		http.Error(w, "Invalid ticket ID", http.StatusBadRequest)
		return
	}

	if err := h.Service.DeleteTicket(r.Context(), id); err != nil {
		if errors.Is(err, models.ErrTicketNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// UploadAttachment accepts a multipart form with a single "file" field,
// pushes it to object storage and saves the public URL on the ticket.
func (h *TicketHandler) UploadAttachment(w http.ResponseWriter, r *http.Request) {
	idStr := getParam(r, "id")
	if idStr == "" {
		http.Error(w, "Missing ticket ID", http.StatusBadRequest)
		return
	}

	id, err := strconv.Atoi(idStr)
	if err != nil {
		http.Error(w, "Invalid ticket ID", http.StatusBadRequest)
		return
	}

	if err := r.ParseMultipartForm(32 << 20); err != nil { // 32MB
		http.Error(w, "Invalid multipart form", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "Missing file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, "Failed to read file", http.StatusInternalServerError)
		return
	}

	ticket, err := h.Service.GetTicketByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, models.ErrTicketNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	ext := filepath.Ext(header.Filename)
	fileName := fmt.Sprintf("ticket_%d_%d%s", id, time.Now().UnixNano(), ext)
	url, err := utils.UploadAttachment(data, fileName, "tickets", header.Header.Get("Content-Type"))
	if err != nil {
		http.Error(w, "Failed to store attachment", http.StatusInternalServerError)
		return
	}

	ticket.Attachment = url
	if err := h.Service.UpdateTicket(r.Context(), ticket); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"attachment": url})
}

func (h *TicketHandler) CreateComment(w http.ResponseWriter, r *http.Request) {
	idStr := getParam(r, "id")
	if idStr == "" {
		http.Error(w, "Missing ticket ID", http.StatusBadRequest)
		return
	}

	ticketID, err := strconv.Atoi(idStr)
	if err != nil {
		http.Error(w, "Invalid ticket ID", http.StatusBadRequest)
		return
	}

	var comment models.TicketComment
	if err := json.NewDecoder(r.Body).Decode(&comment); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	comment.TicketID = ticketID

	created, err := h.Service.CreateComment(r.Context(), comment)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrValidation):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case isForeignKeyConstraintError(err):
			http.Error(w, "Referenced ticket or user does not exist", http.StatusBadRequest)
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(created)
}

func (h *TicketHandler) GetCommentsByTicket(w http.ResponseWriter, r *http.Request) {
	idStr := getParam(r, "id")
	if idStr == "" {
		http.Error(w, "Missing ticket ID", http.StatusBadRequest)
		return
	}

	ticketID, err := strconv.Atoi(idStr)
	if err != nil {
		http.Error(w, "Invalid ticket ID", http.StatusBadRequest)
		return
	}

	comments, err := h.Service.GetCommentsByTicket(r.Context(), ticketID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(comments)
}

func (h *TicketHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	idStr := getParam(r, "comment_id")
	if idStr == "" {
		http.Error(w, "Missing comment ID", http.StatusBadRequest)
		return
	}

	id, err := strconv.Atoi(idStr)
	if err != nil {
		http.Error(w, "Invalid comment ID", http.StatusBadRequest)
		return
	}

	if err := h.Service.DeleteComment(r.Context(), id); err != nil {
		if errors.Is(err, models.ErrCommentNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
