package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/xavierca1/calldesk/internal/entity"
	"github.com/xavierca1/calldesk/internal/usecase"
)

type ScriptHandler struct {
	Desk    *usecase.Desk
	Scripts *usecase.CallScriptUseCase
}

func NewScriptHandler(desk *usecase.Desk, scripts *usecase.CallScriptUseCase) *ScriptHandler {
	return &ScriptHandler{Desk: desk, Scripts: scripts}
}

type ScriptResponse struct {
	LeadID string `json:"lead_id"`
	Script string `json:"script"`
}

// Generate (GET /leads/{id}/script). The lead is read under the desk lock;
// the generator call runs outside it so lead actions are never held up.
func (h *ScriptHandler) Generate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var (
		lead   entity.Lead
		caller string
	)
	err := h.Desk.Do(r.Context(), func(e *usecase.LeadEngine) error {
		l, err := e.Lead(id)
		if err != nil {
			return err
		}
		lead = l
		caller = usecase.CallerIdentity(e.Session().User)
		return nil
	})
	if err != nil {
		writeError(w, err)
		return
	}

	script := h.Scripts.Execute(r.Context(), lead, caller)
	writeJSON(w, http.StatusOK, ScriptResponse{LeadID: lead.ID, Script: script})
}
