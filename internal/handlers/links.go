package handlers

import (
	"net/http"

	"linkden/internal/middleware"
	"linkden/internal/models"
	"linkden/internal/services"
	"linkden/internal/utils"

	"github.com/gin-gonic/gin"
)

type LinkHandler struct {
	ranker *services.Ranker
}

func NewLinkHandler(ranker *services.Ranker) *LinkHandler {
	return &LinkHandler{ranker: ranker}
}

type createLinkRequest struct {
	Title       string `json:"title" binding:"required"`
	URL         string `json:"url"`
	Description string `json:"description"`
}

type linkResponse struct {
	models.Link
	DescriptionHTML string `json:"description_html,omitempty"`
}

func toLinkResponse(link models.Link) linkResponse {
	resp := linkResponse{Link: link}
	if link.Description != "" {
		resp.DescriptionHTML = utils.RenderMarkdown(link.Description)
	}
	return resp
}

// Create handles POST /links.
func (h *LinkHandler) Create(c *gin.Context) {
	var req createLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	user := middleware.CurrentUser(c)
	link, err := services.SubmitLink(user.ID, req.Title, req.URL, req.Description)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, toLinkResponse(*link))
}

// List handles GET /links?mode=hot|top|new&period=day|week|month&page=N.
func (h *LinkHandler) List(c *gin.Context) {
	page := utils.StringToInt(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}

	mode := services.Mode(c.DefaultQuery("mode", string(services.ModeHot)))

	var (
		links []models.Link
		err   error
	)
	switch mode {
	case services.ModeHot:
		links, err = h.ranker.ListHot(page)
	case services.ModeTop:
		links, err = h.ranker.ListTop(services.Period(c.Query("period")), page)
	case services.ModeNew:
		links, err = h.ranker.ListNew(page)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown listing mode"})
		return
	}
	if err != nil {
		c.Error(err)
		return
	}

	resp := make([]linkResponse, 0, len(links))
	for _, link := range links {
		resp = append(resp, toLinkResponse(link))
	}
	c.JSON(http.StatusOK, gin.H{"links": resp, "page": page})
}

// Detail handles GET /links/:id — the link plus its threaded comments.
func (h *LinkHandler) Detail(c *gin.Context) {
	id := utils.StringToUint(c.Param("id"))

	link, err := services.LookupLink(id)
	if err != nil {
		c.Error(err)
		return
	}

	thread, err := services.Thread(id)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"link":     toLinkResponse(*link),
		"comments": thread,
	})
}
