package handlers

import (
	"net/http"

	"linkden/internal/middleware"
	"linkden/internal/models"
	"linkden/internal/services"
	"linkden/internal/utils"

	"github.com/gin-gonic/gin"
)

type CommentHandler struct{}

func NewCommentHandler() *CommentHandler {
	return &CommentHandler{}
}

type createCommentRequest struct {
	ParentID *uint  `json:"parent_id"`
	Content  string `json:"content" binding:"required"`
}

type commentResponse struct {
	models.Comment
	ContentHTML string `json:"content_html"`
}

func toCommentResponses(comments []models.Comment) []commentResponse {
	resp := make([]commentResponse, 0, len(comments))
	for _, comment := range comments {
		resp = append(resp, commentResponse{
			Comment:     comment,
			ContentHTML: utils.RenderMarkdown(comment.Content),
		})
	}
	return resp
}

// Create handles POST /links/:id/comments.
func (h *CommentHandler) Create(c *gin.Context) {
	var req createCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	user := middleware.CurrentUser(c)
	linkID := utils.StringToUint(c.Param("id"))

	comment, err := services.PostComment(user.ID, linkID, req.ParentID, req.Content)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, commentResponse{
		Comment:     *comment,
		ContentHTML: utils.RenderMarkdown(comment.Content),
	})
}

// Roots handles GET /links/:id/comments.
func (h *CommentHandler) Roots(c *gin.Context) {
	linkID := utils.StringToUint(c.Param("id"))

	comments, err := services.RootComments(linkID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"comments": toCommentResponses(comments)})
}

// Children handles GET /comments/:id/children.
func (h *CommentHandler) Children(c *gin.Context) {
	commentID := utils.StringToUint(c.Param("id"))

	comments, err := services.Children(commentID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"comments": toCommentResponses(comments)})
}
