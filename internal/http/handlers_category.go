package http

import (
	"net/http"
	"strings"

	"budget/internal/core"
)

type createCategoryRequest struct {
	Name   string  `json:"name"`
	Type   string  `json:"type"`
	Budget float64 `json:"budget"`
	Icon   string  `json:"icon"`
	Color  string  `json:"color"`
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.requestContext(r)
	defer cancel()

	typeFilter := core.EntryType(strings.TrimSpace(r.URL.Query().Get("type")))

	categories, err := s.categories.ListCategories(ctx, typeFilter)
	if err != nil {
		s.writeDomainError(ctx, w, "list_categories", err)
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.requestContext(r)
	defer cancel()

	var req createCategoryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, KindValidation, "Invalid request body")
		return
	}

	c := core.Category{
		Name:   strings.TrimSpace(req.Name),
		Type:   core.EntryType(req.Type),
		Budget: req.Budget,
		Icon:   strings.TrimSpace(req.Icon),
		Color:  strings.TrimSpace(req.Color),
	}
	if c.Icon == "" {
		c.Icon = core.DefaultCategoryIcon
	}
	if c.Color == "" {
		c.Color = core.DefaultCategoryColor
	}
	if err := c.Validate(); err != nil {
		s.writeDomainError(ctx, w, "create_category", err)
		return
	}

	created, err := s.categories.CreateCategory(ctx, c)
	if err != nil {
		s.writeDomainError(ctx, w, "create_category", err)
		return
	}

	s.logger.InfoContext(ctx, "Category created",
		"category", created.Name,
		"type", created.Type,
		"budget", created.Budget)

	writeJSON(w, http.StatusOK, created)
}
