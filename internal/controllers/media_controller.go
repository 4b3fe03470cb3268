package controllers

import (
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/zaqqye/signage_backend/internal/database"
	"github.com/zaqqye/signage_backend/internal/models"
)

type MediaController struct {
	Store database.Store
}

func (mc *MediaController) ListMedia(c *gin.Context) {
	// Pagination/sort/filter: limit, page, all, sort_by, sort_dir, type, q
	all := strings.EqualFold(c.Query("all"), "true") || c.Query("all") == "1"
	limit := 20
	page := 1
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	if v := c.Query("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			page = n
		}
	}

	sortBy := strings.ToLower(c.DefaultQuery("sort_by", "date"))
	sortDir := strings.ToUpper(c.DefaultQuery("sort_dir", "DESC"))
	if sortDir != "ASC" && sortDir != "DESC" {
		sortDir = "DESC"
	}
	keys := map[string]func(models.MediaItem) string{
		"name": func(m models.MediaItem) string { return strings.ToLower(m.Name) },
		"type": func(m models.MediaItem) string { return strings.ToLower(m.Type) },
		"date": func(m models.MediaItem) string { return m.Date },
	}
	key, ok := keys[sortBy]
	if !ok {
		sortBy = "date"
		key = keys[sortBy]
	}

	kind := strings.ToLower(c.DefaultQuery("type", "all"))
	qText := strings.TrimSpace(c.Query("q"))

	content, err := database.LoadContent(c.Request.Context(), mc.Store)
	if err != nil {
		serverError(c, "media", "failed to read media", err)
		return
	}

	needle := strings.ToLower(qText)
	items := make([]models.MediaItem, 0, len(content.MediaItems))
	for _, m := range content.MediaItems {
		if kind != "all" && string(m.Kind()) != kind {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(m.Name), needle) {
			continue
		}
		items = append(items, m)
	}
	sort.SliceStable(items, func(i, j int) bool {
		if sortDir == "ASC" {
			return key(items[i]) < key(items[j])
		}
		return key(items[i]) > key(items[j])
	})

	total := len(items)
	if !all {
		start := (page - 1) * limit
		if start > total {
			start = total
		}
		end := start + limit
		if end > total {
			end = total
		}
		items = items[start:end]
	}

	meta := gin.H{"total": total, "all": all, "type": kind}
	if !all {
		meta["limit"] = limit
		meta["page"] = page
		meta["sort_by"] = sortBy
		meta["sort_dir"] = sortDir
	}
	if qText != "" {
		meta["q"] = qText
	}

	c.JSON(http.StatusOK, gin.H{"data": items, "meta": meta})
}
