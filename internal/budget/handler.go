package budget

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/campussrc/src-portal/internal/auth"
	"github.com/campussrc/src-portal/internal/transport"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	Overview(userID int64, userPermissions []string) (*OverviewResponse, error)
	AddCategory(userID int64, userPermissions []string, dto CreateCategoryDTO) (*MutationResponse, error)
	EditCategory(userID int64, userPermissions []string, categoryID int64, dto UpdateCategoryDTO) (*MutationResponse, error)
	DeleteCategory(userID int64, userPermissions []string, categoryID int64) (*BudgetResponse, error)
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

func (h *Handler) GetOverview(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	overview, err := h.Service.Overview(user.ID, user.Permissions)
	if err != nil {
		h.Logger.Error("GetOverview: service error", "error", err, "user_id", user.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, overview)
}

func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto CreateCategoryDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("CreateCategory: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.Service.AddCategory(user.ID, user.Permissions, dto)
	if err != nil {
		h.Logger.Error("CreateCategory: service error", "error", err, "user_id", user.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, result)
}

func (h *Handler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	categoryID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid category ID")
		return
	}

	var dto UpdateCategoryDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("UpdateCategory: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.Service.EditCategory(user.ID, user.Permissions, categoryID, dto)
	if err != nil {
		h.Logger.Error("UpdateCategory: service error", "error", err, "category_id", categoryID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	categoryID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid category ID")
		return
	}

	result, err := h.Service.DeleteCategory(user.ID, user.Permissions, categoryID)
	if err != nil {
		h.Logger.Error("DeleteCategory: service error", "error", err, "category_id", categoryID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, result)
}
