package handlers

import (
	"net/http"

	"linkden/internal/middleware"
	"linkden/internal/models"
	"linkden/internal/services"
	"linkden/internal/utils"

	"github.com/gin-gonic/gin"
)

type VoteHandler struct{}

func NewVoteHandler() *VoteHandler {
	return &VoteHandler{}
}

type castVoteRequest struct {
	Value int `json:"value"`
}

// Cast handles POST /votes/:type/:id with body {"value": -1|0|1}.
func (h *VoteHandler) Cast(c *gin.Context) {
	var req castVoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	user := middleware.CurrentUser(c)
	votableType := models.VotableType(c.Param("type"))
	votableID := utils.StringToUint(c.Param("id"))

	delta, err := services.CastVote(user.ID, votableType, votableID, req.Value)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"applied_delta": delta})
}
