package handlers

import (
	"net/http"

	"linkden/internal/services"
	"linkden/internal/utils"

	"github.com/gin-gonic/gin"
)

type UserHandler struct{}

func NewUserHandler() *UserHandler {
	return &UserHandler{}
}

// Karma handles GET /users/:id/karma — the current balance plus a page of
// the delta ledger behind it.
func (h *UserHandler) Karma(c *gin.Context) {
	userID := utils.StringToUint(c.Param("id"))

	page := utils.StringToInt(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}

	user, err := services.LookupUser(userID)
	if err != nil {
		c.Error(err)
		return
	}

	entries, err := services.Karma().Entries(userID, page, 30)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"karma": user.Karma, "entries": entries})
}

// Reconcile handles POST /users/:id/karma/reconcile — the offline audit
// that resums vote values over the user's content and repairs drift.
func (h *UserHandler) Reconcile(c *gin.Context) {
	userID := utils.StringToUint(c.Param("id"))

	karma, corrected, err := services.Karma().Reconcile(userID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"karma": karma, "corrected": corrected})
}
