package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"caltrack-baseline/internal/api/models"
	"caltrack-baseline/internal/model"
)

// FormsHandler describes the closed candidate-form set.
type FormsHandler struct{}

func NewFormsHandler() *FormsHandler { return &FormsHandler{} }

var formDescriptions = map[model.ModelForm]string{
	model.FormInterceptOnly: "Flat baseline: usage is modeled as a constant, independent of weather.",
	model.FormCDDOnly:       "Cooling-only: usage responds to cooling degree-days above a swept balance point.",
	model.FormHDDOnly:       "Heating-only: usage responds to heating degree-days below a swept balance point.",
	model.FormCDDHDD:        "Combined: cooling and heating degree-day terms with independent balance points.",
}

// List handles GET /api/v1/baseline/forms.
func (h *FormsHandler) List(c *gin.Context) {
	resp := models.FormsResponse{}
	for _, f := range model.AllForms() {
		resp.Forms = append(resp.Forms, models.FormInfo{
			Name:        string(f),
			Terms:       f.Terms(),
			Complexity:  f.Complexity(),
			Description: formDescriptions[f],
		})
	}
	c.JSON(http.StatusOK, resp)
}
