package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/snooker-app/models"
	"github.com/yeremiapane/snooker-app/utils"
)

// GetAllItems -> the quick-add items sold at the counter
func GetAllItems(c *gin.Context) {
	utils.RespondJSON(c, http.StatusOK, "List of items", models.DefaultCatalog)
}
