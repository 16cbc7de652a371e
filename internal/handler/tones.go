package handler

import (
	"net/http"

	"github.com/mlorentedev/promptune/internal/tone"
)

type tonesResponse struct {
	FreeForm bool         `json:"free_form"`
	Tones    []tone.Entry `json:"tones"`
}

// Tones lists the recognized tones. With free-form tones enabled the list is
// a set of suggestions and any tone text is accepted.
func Tones(reg tone.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, free := reg.(tone.FreeForm)
		writeJSON(w, http.StatusOK, tonesResponse{
			FreeForm: free,
			Tones:    tone.Entries(reg),
		})
	}
}
