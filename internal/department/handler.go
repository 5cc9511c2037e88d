package department

import (
	"net/http"
	"strconv"

	"github.com/campussrc/src-portal/internal/transport"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	GetAll() ([]*Department, error)
	GetByID(id int64) (*Department, error)
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

func (h *Handler) GetDepartments(w http.ResponseWriter, r *http.Request) {
	departments, err := h.Service.GetAll()
	if err != nil {
		h.Logger.Error("GetDepartments: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, departments)
}

func (h *Handler) GetDepartment(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid department ID")
		return
	}

	dept, err := h.Service.GetByID(id)
	if err != nil {
		h.Logger.Error("GetDepartment: service error", "error", err, "department_id", id)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, dept)
}
