package server

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	slogctx "github.com/veqryn/slog-context"

	"github.com/avencore/devops-agent/internal/devops"
)

type projectHandler struct {
	service *devops.Service
}

func (h *projectHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	skip, limit, ok := pagination(r)
	if !ok {
		newBadRequest(ctx, w, "invalid pagination parameters")
		return
	}

	list, err := h.service.ListProjects(ctx, skip, limit)
	if err != nil {
		slogctx.Error(ctx, "Failed to list projects", "error", err)
		writeError(ctx, w, err)

		return
	}

	writeJSON(ctx, w, http.StatusOK, list)
}

func (h *projectHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var create devops.ProjectCreate
	if err := decodeBody(r, &create); err != nil {
		newBadRequest(ctx, w, "invalid request body")
		return
	}

	project, err := h.service.CreateProject(ctx, create)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, http.StatusCreated, project)
}

func (h *projectHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	project, err := h.service.GetProject(ctx, mux.Vars(r)["project_id"])
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, http.StatusOK, project)
}

func (h *projectHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var update devops.ProjectUpdate
	if err := decodeBody(r, &update); err != nil {
		newBadRequest(ctx, w, "invalid request body")
		return
	}

	project, err := h.service.UpdateProject(ctx, mux.Vars(r)["project_id"], update)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, http.StatusOK, project)
}

func (h *projectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.service.DeleteProject(ctx, mux.Vars(r)["project_id"]); err != nil {
		writeError(ctx, w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

const (
	defaultLimit = 100
	maxLimit     = 1000
)

func pagination(r *http.Request) (skip, limit int, ok bool) {
	skip, ok = queryInt(r, "skip", 0)
	if !ok || skip < 0 {
		return 0, 0, false
	}

	limit, ok = queryInt(r, "limit", defaultLimit)
	if !ok || limit < 1 || limit > maxLimit {
		return 0, 0, false
	}

	return skip, limit, true
}

func queryInt(r *http.Request, name string, fallback int) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, true
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}

	return value, true
}
