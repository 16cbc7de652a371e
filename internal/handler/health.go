package handler

import (
	"net/http"

	"github.com/mlorentedev/promptune/internal/optimizer"
)

type healthResponse struct {
	Status       string   `json:"status"`
	Backend      string   `json:"backend"`
	Model        string   `json:"model"`
	Reachable    bool     `json:"reachable"`
	ModelPresent bool     `json:"model_present"`
	Models       []string `json:"models,omitempty"`
	Reason       string   `json:"reason,omitempty"`
}

// Health reports backend readiness. It always answers 200; the status field
// is "degraded" when the backend is down or the model is missing.
func Health(opt *optimizer.Optimizer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}

		st := opt.CheckReady(r.Context())
		resp := healthResponse{
			Status:       "ok",
			Backend:      opt.Backend().Name(),
			Model:        st.Model,
			Reachable:    st.Reachable,
			ModelPresent: st.ModelPresent,
			Models:       st.Models,
		}
		if !st.Ready() {
			resp.Status = "degraded"
			resp.Reason = unavailableReason(st)
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

func unavailableReason(st optimizer.Status) string {
	switch {
	case !st.Reachable && st.Err != nil:
		_, msg := classify(st.Err)
		return msg
	case !st.ModelPresent:
		return "model " + st.Model + " not installed"
	default:
		return "unavailable"
	}
}
