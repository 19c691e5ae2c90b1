package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"prodeskBack/internal/models"
	"prodeskBack/internal/services"
)

type ProjectHandler struct {
	Service *services.ProjectService
}

func (h *ProjectHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var project models.Project
	if err := json.NewDecoder(r.Body).Decode(&project); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	created, err := h.Service.CreateProject(r.Context(), project)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrValidation):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case isForeignKeyConstraintError(err):
			http.Error(w, "Referenced client does not exist", http.StatusBadRequest)
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(created)
}

func (h *ProjectHandler) GetProjectByID(w http.ResponseWriter, r *http.Request) {
	idStr := getParam(r, "id")
	if idStr == "" {
		http.Error(w, "Missing project ID", http.StatusBadRequest)
		return
	}

	id, err := strconv.Atoi(idStr)
	if err != nil {
		http.Error(w, "Invalid project ID", http.StatusBadRequest)
		return
	}

	project, err := h.Service.GetProjectByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, models.ErrProjectNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(project)
}

func (h *ProjectHandler) GetProjects(w http.ResponseWriter, r *http.Request) {
	clientStr := r.URL.Query().Get("client_id")

	var (
		projects []models.Project
		err      error
	)
	if clientStr != "" {
		clientID, convErr := strconv.Atoi(clientStr)
		if convErr != nil {
			http.Error(w, "Invalid client ID", http.StatusBadRequest)
			return
		}
		projects, err = h.Service.GetProjectsByClient(r.Context(), clientID)
	} else {
		projects, err = h.Service.GetAllProjects(r.Context())
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(projects)
}

func (h *ProjectHandler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	idStr := getParam(r, "id")
	if idStr == "" {
		http.Error(w, "Missing project ID", http.StatusBadRequest)
		return
	}

	id, err := strconv.Atoi(idStr)
	if err != nil {
		http.Error(w, "Invalid project ID", http.StatusBadRequest)
		return
	}

	var project models.Project
	if err := json.NewDecoder(r.Body).Decode(&project); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	project.ID = id

	if err := h.Service.UpdateProject(r.Context(), project); err != nil {
		if errors.Is(err, models.ErrProjectNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Project updated"})
}

func (h *ProjectHandler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	idStr := getParam(r, "id")
	if idStr == "" {
		http.Error(w, "Missing project ID", http.StatusBadRequest)
		return
	}

	id, err := strconv.Atoi(idStr)
	if err != nil {
		http.Error(w, "Invalid project ID", http.StatusBadRequest)
		return
	}

	if err := h.Service.DeleteProject(r.Context(), id); err != nil {
		if errors.Is(err, models.ErrProjectNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		if isForeignKeyConstraintError(err) {
			http.Error(w, "Project still has tickets or invoices", http.StatusConflict)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
