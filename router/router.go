package router

import (
	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/snooker-app/controllers"
	"github.com/yeremiapane/snooker-app/kds"
	"github.com/yeremiapane/snooker-app/middlewares"
	"github.com/yeremiapane/snooker-app/services"
)

type Options struct {
	Registry *services.SessionRegistry
	Ledger   *services.LedgerStore
	Billing  *services.BillingAssembler
	Hub      *kds.Hub

	CORSOrigin     string
	RateLimitRPS   float64
	RateLimitBurst int
}

func SetupRouter(opts Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares(opts.CORSOrigin))
	r.Use(middlewares.LoggerMiddleware())
	if opts.RateLimitRPS > 0 && opts.RateLimitBurst > 0 {
		r.Use(middlewares.NewRateLimiter(opts.RateLimitRPS, opts.RateLimitBurst).RateLimit())
	}

	tableCtrl := controllers.NewTableController(opts.Registry, opts.Billing)
	billCtrl := controllers.NewBillController(opts.Ledger, opts.Billing, opts.Hub)
	adminCtrl := controllers.NewAdminController(opts.Registry, opts.Ledger)
	kdsCtrl := controllers.NewKDSController(opts.Hub)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	r.GET("/items", controllers.GetAllItems)

	// TABLES
	tables := r.Group("/tables")
	{
		tables.GET("", tableCtrl.GetAllTables)
		tables.GET("/:table_number", tableCtrl.GetTable)
		tables.POST("/:table_number/start", tableCtrl.StartSession)
		tables.POST("/:table_number/stop", tableCtrl.StopSession)
		tables.POST("/:table_number/reset", tableCtrl.ResetTable)
		tables.POST("/:table_number/items", tableCtrl.AddItem)
		tables.GET("/:table_number/bill", tableCtrl.PreviewBill)
		tables.POST("/:table_number/bill", billCtrl.CreateBill)
	}

	// BILLS
	bills := r.Group("/bills")
	{
		bills.GET("", billCtrl.GetAllBills)
		bills.DELETE("", billCtrl.ClearBills)
		bills.GET("/:bill_id", billCtrl.GetBillByID)
		bills.PATCH("/:bill_id/payment", billCtrl.UpdatePaymentStatus)
		bills.DELETE("/:bill_id", billCtrl.DeleteBill)
	}

	r.GET("/dashboard/stats", adminCtrl.GetDashboardStats)

	// table displays
	r.GET("/ws", kdsCtrl.KDSHandler)

	return r
}
