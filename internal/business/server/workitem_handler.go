package server

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	slogctx "github.com/veqryn/slog-context"

	"github.com/avencore/devops-agent/internal/devops"
)

type workItemHandler struct {
	service *devops.Service
}

func (h *workItemHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	skip, limit, ok := pagination(r)
	if !ok {
		newBadRequest(ctx, w, "invalid pagination parameters")
		return
	}

	filter := devops.WorkItemFilter{
		WorkItemType: r.URL.Query().Get("work_item_type"),
		State:        r.URL.Query().Get("state"),
		Skip:         skip,
		Limit:        limit,
	}

	list, err := h.service.ListWorkItems(ctx, mux.Vars(r)["project_id"], filter)
	if err != nil {
		slogctx.Error(ctx, "Failed to list work items", "error", err)
		writeError(ctx, w, err)

		return
	}

	writeJSON(ctx, w, http.StatusOK, list)
}

func (h *workItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var create devops.WorkItemCreate
	if err := decodeBody(r, &create); err != nil {
		newBadRequest(ctx, w, "invalid request body")
		return
	}

	item, err := h.service.CreateWorkItem(ctx, mux.Vars(r)["project_id"], create)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, http.StatusCreated, item)
}

func (h *workItemHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := workItemID(r)
	if !ok {
		newBadRequest(ctx, w, "invalid work item id")
		return
	}

	item, err := h.service.GetWorkItem(ctx, id)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, http.StatusOK, item)
}

func (h *workItemHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := workItemID(r)
	if !ok {
		newBadRequest(ctx, w, "invalid work item id")
		return
	}

	var update devops.WorkItemUpdate
	if err := decodeBody(r, &update); err != nil {
		newBadRequest(ctx, w, "invalid request body")
		return
	}

	item, err := h.service.UpdateWorkItem(ctx, id, update)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, http.StatusOK, item)
}

func (h *workItemHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := workItemID(r)
	if !ok {
		newBadRequest(ctx, w, "invalid work item id")
		return
	}

	if err := h.service.DeleteWorkItem(ctx, id); err != nil {
		writeError(ctx, w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func workItemID(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(mux.Vars(r)["work_item_id"])
	if err != nil {
		return 0, false
	}

	return id, true
}
