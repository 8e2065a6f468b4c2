package api

import (
	"leadboard/config"
	"leadboard/models"
	"leadboard/pipeline"
	"leadboard/utils"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// pipelineConfig reads q, status, campaign, sort and order from the query
// string. Status filters are accepted by code or label and normalized to the
// label the pipeline matches on. Sort keys and orders must be valid.
func pipelineConfig(c *fiber.Ctx, parseStatus func(string) (string, error)) (pipeline.Config, error) {
	cfg := pipeline.Config{
		SearchQuery:    c.Query("q"),
		CampaignFilter: strings.TrimSpace(c.Query("campaign")),
	}

	// An unknown status is kept as given: it matches nothing, so the result is
	// empty rather than an error.
	if status := strings.TrimSpace(c.Query("status")); status != "" && !strings.EqualFold(status, pipeline.ShowAll) {
		cfg.StatusFilter = status
		if label, err := parseStatus(status); err == nil {
			cfg.StatusFilter = label
		}
	}

	key, err := pipeline.ParseSortKey(c.Query("sort"))
	if err != nil {
		return cfg, utils.NewAppError(fiber.StatusBadRequest, err.Error(), err)
	}
	order, err := pipeline.ParseSortOrder(c.Query("order"))
	if err != nil {
		return cfg, utils.NewAppError(fiber.StatusBadRequest, err.Error(), err)
	}
	cfg.SortKey = key
	cfg.SortOrder = order
	return cfg, nil
}

func leadStatusLabel(s string) (string, error) {
	st, err := models.ParseLeadStatus(s)
	if err != nil {
		return "", err
	}
	return st.Label(), nil
}

func campaignStatusLabel(s string) (string, error) {
	st, err := models.ParseCampaignStatus(s)
	if err != nil {
		return "", err
	}
	return st.Label(), nil
}

// pageParams reads page and limit, clamping limit to the configured maximum
func pageParams(c *fiber.Ctx, cfg config.PaginationConfig) (int, int, error) {
	page, err := intQuery(c, "page", 1)
	if err != nil || page < 1 {
		return 0, 0, utils.BadRequestError("Invalid page", err)
	}
	limit, err := intQuery(c, "limit", cfg.DefaultLimit)
	if err != nil || limit < 1 {
		return 0, 0, utils.BadRequestError("Invalid limit", err)
	}
	if cfg.MaxLimit > 0 && limit > cfg.MaxLimit {
		limit = cfg.MaxLimit
	}
	return page, limit, nil
}

func intQuery(c *fiber.Ctx, key string, def int) (int, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}
