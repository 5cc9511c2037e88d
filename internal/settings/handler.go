package settings

import (
	"encoding/json"
	"net/http"

	"github.com/campussrc/src-portal/internal/auth"
	"github.com/campussrc/src-portal/internal/transport"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	GetAll() ([]*Setting, error)
	GetByKey(key string) (*Setting, error)
	Update(userID int64, userPermissions []string, key string, dto UpdateSettingDTO) (*Setting, error)
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

func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	all, err := h.Service.GetAll()
	if err != nil {
		h.Logger.Error("GetSettings: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, all)
}

func (h *Handler) GetSetting(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	if key == "" {
		h.WriteError(w, http.StatusBadRequest, "setting key is required")
		return
	}

	setting, err := h.Service.GetByKey(key)
	if err != nil {
		h.Logger.Error("GetSetting: service error", "error", err, "key", key)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, setting)
}

func (h *Handler) UpdateSetting(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	key := chi.URLParam(r, "key")
	if key == "" {
		h.WriteError(w, http.StatusBadRequest, "setting key is required")
		return
	}

	var dto UpdateSettingDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("UpdateSetting: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	setting, err := h.Service.Update(user.ID, user.Permissions, key, dto)
	if err != nil {
		h.Logger.Error("UpdateSetting: service error", "error", err, "key", key)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, setting)
}
