package api

import (
	"leadboard/models"
	"leadboard/utils"

	"github.com/gofiber/fiber/v2"
)

// I18nHandler handles i18n-related requests
type I18nHandler struct{}

var clientMessageIDs = []string{
	"error_404",
	"error_500",
	"error_unauthorized",
	"error_rate_limited",
	"error_campaign_not_found",
	"error_lead_not_found",
	"campaign_updated",
	"campaign_deleted",
	"lead_status_updated",
}

// GetTranslations returns the messages and status labels a client renders
func (h *I18nHandler) GetTranslations(c *fiber.Ctx) error {
	lang := c.Params("lang")
	if !utils.IsSupportedLanguage(lang) {
		lang = "en"
	}

	localizer := utils.GetLocalizer(lang)

	translations := make(map[string]string, len(clientMessageIDs)+len(models.LeadStatuses))
	for _, id := range clientMessageIDs {
		translations[id] = utils.T(localizer, id)
	}
	for _, st := range models.LeadStatuses {
		translations[st.MessageID()] = utils.T(localizer, st.MessageID())
	}

	return c.JSON(translations)
}
