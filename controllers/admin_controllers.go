package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/snooker-app/models"
	"github.com/yeremiapane/snooker-app/services"
	"github.com/yeremiapane/snooker-app/utils"
)

type AdminController struct {
	Registry *services.SessionRegistry
	Ledger   *services.LedgerStore
}

func NewAdminController(registry *services.SessionRegistry, ledger *services.LedgerStore) *AdminController {
	return &AdminController{Registry: registry, Ledger: ledger}
}

type TableStats struct {
	Idle   int `json:"idle"`
	Active int `json:"active"`
	Ended  int `json:"ended"`
}

type DashboardStats struct {
	models.LedgerSummary
	TotalRevenueText string     `json:"totalRevenueText"`
	UnpaidAmountText string     `json:"unpaidAmountText"`
	TableStats       TableStats `json:"tableStats"`
}

// GetDashboardStats -> ledger totals plus the live state of the tables
func (ac *AdminController) GetDashboardStats(c *gin.Context) {
	summary, err := ac.Ledger.Summary(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	stats := DashboardStats{
		LedgerSummary:    summary,
		TotalRevenueText: utils.FormatRupees(summary.TotalRevenue),
		UnpaidAmountText: utils.FormatRupees(summary.UnpaidAmount),
	}
	for _, session := range ac.Registry.List() {
		switch session.Status {
		case models.SessionIdle:
			stats.TableStats.Idle++
		case models.SessionActive:
			stats.TableStats.Active++
		case models.SessionEnded:
			stats.TableStats.Ended++
		}
	}

	utils.RespondJSON(c, http.StatusOK, "Dashboard stats", stats)
}
