package server

import (
	"net/http"

	"github.com/gorilla/mux"
	slogctx "github.com/veqryn/slog-context"

	"github.com/avencore/devops-agent/internal/chat"
	"github.com/avencore/devops-agent/internal/serviceerr"
)

type chatHandler struct {
	service *chat.Service
}

func (h *chatHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	identity, ok := IdentityFromContext(ctx)
	if !ok {
		writeError(ctx, w, serviceerr.ErrUnauthorized)
		return
	}

	var request chat.Request
	if err := decodeBody(r, &request); err != nil {
		newBadRequest(ctx, w, "invalid request body")
		return
	}

	response, err := h.service.SendMessage(ctx, identity, request)
	if err != nil {
		slogctx.Error(ctx, "Failed to process a chat message", "error", err)
		writeError(ctx, w, err)

		return
	}

	writeJSON(ctx, w, http.StatusOK, response)
}

func (h *chatHandler) ListConversations(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	identity, ok := IdentityFromContext(ctx)
	if !ok {
		writeError(ctx, w, serviceerr.ErrUnauthorized)
		return
	}

	conversations, err := h.service.Conversations(ctx, identity)
	if err != nil {
		slogctx.Error(ctx, "Failed to list conversations", "error", err)
		writeError(ctx, w, err)

		return
	}

	writeJSON(ctx, w, http.StatusOK, conversations)
}

func (h *chatHandler) GetConversation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	identity, ok := IdentityFromContext(ctx)
	if !ok {
		writeError(ctx, w, serviceerr.ErrUnauthorized)
		return
	}

	conversation, err := h.service.Conversation(ctx, identity, mux.Vars(r)["conversation_id"])
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, http.StatusOK, conversation)
}
