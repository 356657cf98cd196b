package handler

import (
	"context"
	"net/http"

	"github.com/alcoholemia/alcoholemia/internal/api/models"
	"github.com/alcoholemia/alcoholemia/internal/api/response"
	"github.com/alcoholemia/alcoholemia/internal/bac"
	"github.com/alcoholemia/alcoholemia/internal/sanction"
)

// EditionResolver reports the sanction edition used when a request names none.
type EditionResolver interface {
	ResolveEdition(ctx context.Context, requested sanction.Edition) (sanction.Edition, error)
}

// MetadataHandler handles metadata endpoints.
type MetadataHandler struct {
	catalog  *bac.Catalog
	editions EditionResolver
}

// NewMetadataHandler creates a new MetadataHandler.
func NewMetadataHandler(catalog *bac.Catalog, editions EditionResolver) *MetadataHandler {
	return &MetadataHandler{
		catalog:  catalog,
		editions: editions,
	}
}

// ListDrinks handles GET /v1/metadata/drinks - the drink catalog.
func (h *MetadataHandler) ListDrinks(w http.ResponseWriter, r *http.Request) {
	drinks := h.catalog.Drinks()
	items := make([]models.Drink, 0, len(drinks))
	for _, d := range drinks {
		items = append(items, models.Drink{
			Key:          d.Key,
			Label:        d.Label,
			VolumeML:     d.VolumeML,
			ABVPercent:   d.ABVPercent,
			EthanolGrams: d.EthanolGrams(1),
		})
	}
	response.JSON(w, r, http.StatusOK, models.DrinkCatalog{
		Items:       items,
		MaxQuantity: bac.MaxQuantity,
	})
}

// GetEnums handles GET /v1/metadata/enums - get enum values used by the API.
func (h *MetadataHandler) GetEnums(w http.ResponseWriter, r *http.Request) {
	enums := models.Enums{
		FragmentKinds: []string{
			string(sanction.KindCriminal),
			string(sanction.KindAdministrative),
			string(sanction.KindRecidivism),
			string(sanction.KindConsultation),
		},
	}
	for _, s := range bac.Sexes() {
		enums.Sexes = append(enums.Sexes, string(s))
	}
	for _, c := range bac.DriverCategories() {
		enums.DriverCategories = append(enums.DriverCategories, models.DriverCategoryInfo{
			Value: string(c),
			LegalLimit: models.LegalLimit{
				BloodGPerL:   c.LegalLimit(),
				BreathMgPerL: c.LegalLimitBreath(),
			},
		})
	}
	for _, e := range sanction.Editions() {
		enums.Editions = append(enums.Editions, string(e))
	}
	for _, l := range bac.AdvisoryLevels() {
		enums.AdvisoryLevels = append(enums.AdvisoryLevels, string(l))
	}

	edition, err := h.editions.ResolveEdition(r.Context(), "")
	if err != nil {
		response.InternalError(w, r, "failed to resolve sanction edition")
		return
	}
	enums.DefaultEdition = string(edition)

	response.JSON(w, r, http.StatusOK, enums)
}
