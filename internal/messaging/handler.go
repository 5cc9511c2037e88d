package messaging

import (
	"encoding/json"
	"net/http"

	"github.com/campussrc/src-portal/internal/auth"
	"github.com/campussrc/src-portal/internal/transport"
)

type ServiceAPI interface {
	PrepareBroadcast(userID int64, userPermissions []string, dto BroadcastDTO) (*BroadcastResponse, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

func (h *Handler) CreateBroadcast(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto BroadcastDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("CreateBroadcast: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.Service.PrepareBroadcast(user.ID, user.Permissions, dto)
	if err != nil {
		h.Logger.Error("CreateBroadcast: service error", "error", err, "user_id", user.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, result)
}
