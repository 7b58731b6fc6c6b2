package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"itemtrack/internal/service"
)

type createItemRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type updateItemRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

func (h *Handler) createItem(c *gin.Context) {
	ident, ok := identityFromContext(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": msgNoToken})
		return
	}

	var in createItemRequest
	if ok := h.bindJSONOrBadRequest(c, &in); !ok {
		return
	}

	item, err := h.services.Items.Create(c.Request.Context(), ident, service.CreateItemInput{
		Title:       in.Title,
		Description: in.Description,
	})
	if err != nil {
		h.respondServiceError(c, "item_create", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"item": item})
}

// @Summary      List items
// @Description  Page through items. Non-admins only ever see their own; admins see everything unless mine=true.
// @Tags         items
// @Produce      json
// @Param        page   query  int     false  "Page number (1-based)"
// @Param        limit  query  int     false  "Page size, capped at 100"
// @Param        q      query  string  false  "Case-insensitive title substring"
// @Param        mine   query  bool    false  "Restrict to the caller's items"
// @Success      200    {object}  map[string]interface{}  "items, pagination"
// @Failure      401    {object}  map[string]string
// @Failure      500    {object}  map[string]string
// @Router       /api/items [get]
func (h *Handler) listItems(c *gin.Context) {
	ident, ok := identityFromContext(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": msgNoToken})
		return
	}

	items, pagination, err := h.services.Items.List(c.Request.Context(), ident, service.ListItemsInput{
		Page:  queryInt(c, "page", 1),
		Limit: queryInt(c, "limit", 0),
		Query: c.Query("q"),
		Mine:  c.Query("mine") == "true",
	})
	if err != nil {
		h.respondServiceError(c, "item_list", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"items":      items,
		"pagination": pagination,
	})
}

func (h *Handler) getItem(c *gin.Context) {
	ident, ok := identityFromContext(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": msgNoToken})
		return
	}

	item, err := h.services.Items.GetByID(c.Request.Context(), ident, c.Param("id"))
	if err != nil {
		h.respondServiceError(c, "item_get", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"item": item})
}

func (h *Handler) updateItem(c *gin.Context) {
	ident, ok := identityFromContext(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": msgNoToken})
		return
	}

	var in updateItemRequest
	if ok := h.bindJSONOrBadRequest(c, &in); !ok {
		return
	}

	item, err := h.services.Items.Update(c.Request.Context(), ident, c.Param("id"), service.UpdateItemInput{
		Title:       in.Title,
		Description: in.Description,
	})
	if err != nil {
		h.respondServiceError(c, "item_update", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"item": item})
}

func (h *Handler) deleteItem(c *gin.Context) {
	ident, ok := identityFromContext(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": msgNoToken})
		return
	}

	if err := h.services.Items.Delete(c.Request.Context(), ident, c.Param("id")); err != nil {
		h.respondServiceError(c, "item_delete", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Deleted"})
}

// queryInt parses an integer query parameter, falling back on absence or junk.
func queryInt(c *gin.Context, name string, fallback int) int {
	s := c.Query(name)
	if s == "" {
		return fallback
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return v
}
