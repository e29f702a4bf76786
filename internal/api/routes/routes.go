// server/internal/api/routes/routes.go
package routes

import (
	"warehouse-transfer-api-server/config"
	"warehouse-transfer-api-server/internal/api/handlers"
	"warehouse-transfer-api-server/internal/api/middleware"
	"warehouse-transfer-api-server/internal/gateway"
	"warehouse-transfer-api-server/internal/notify"
	"warehouse-transfer-api-server/internal/socket"
	"warehouse-transfer-api-server/internal/transfer"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// SetupRouter nhận vào các thành phần phụ thuộc và thiết lập các route
func SetupRouter(
	cfg config.Config,
	gw *gateway.Client,
	draftStore *transfer.Store,
	wsHub *socket.Hub,
	listener *notify.Listener,
) *gin.Engine {
	router := gin.Default()
	router.Use(gin.Recovery())

	if len(cfg.CORS.AllowOrigins) > 0 {
		corsConfig := cors.DefaultConfig()
		corsConfig.AllowOrigins = cfg.CORS.AllowOrigins
		corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
		router.Use(cors.New(corsConfig))
	}

	// Khởi tạo các handlers
	sessionHandler := &handlers.SessionHandler{Cfg: cfg}
	exportHandler := &handlers.ExportHandler{Gateway: gw}
	warehouseHandler := &handlers.WarehouseHandler{Gateway: gw}
	transferHandler := &handlers.TransferHandler{Gateway: gw}
	draftHandler := &handlers.DraftHandler{Gateway: gw, Store: draftStore}
	webSocketHandler := &handlers.WebSocketHandler{Hub: wsHub, Listener: listener}

	apiV1 := router.Group("/api/v1")
	{
		// Route cho WebSocket (token qua query param)
		apiV1.GET("/ws", webSocketHandler.ServeWs)

		// === CÁC ROUTE KHÔNG YÊU CẦU XÁC THỰC ===
		session := apiV1.Group("/session")
		{
			session.POST("/login", sessionHandler.CreateSession)
		}

		// === CÁC ROUTE YÊU CẦU XÁC THỰC (PROTECTED) ===
		businessRoutes := apiV1.Group("/")
		businessRoutes.Use(middleware.Authenticate())
		businessRoutes.Use(middleware.Authorize("admin", "staff"))
		{
			// Màn hình duyệt yêu cầu xuất kho
			businessRoutes.GET("/export-requests", exportHandler.GetExportRequests)

			// Dữ liệu tham chiếu
			businessRoutes.GET("/warehouses", warehouseHandler.GetWarehouses)
			businessRoutes.GET("/products", warehouseHandler.GetProducts)

			// Lịch sử chuyển kho
			transfers := businessRoutes.Group("/transfers")
			{
				transfers.GET("/by-source", transferHandler.GetTransfersBySource)
				transfers.GET("/by-destination", transferHandler.GetTransfersByDestination)
				transfers.POST("/auto-create", transferHandler.AutoCreateTransfer)
			}

			// Chỉ admin được duyệt phiếu
			adminTransfers := businessRoutes.Group("/transfers")
			adminTransfers.Use(middleware.Authorize("admin"))
			{
				adminTransfers.POST("/approve", transferHandler.ApproveTransfer)
			}

			// Soạn phiếu chuyển kho
			drafts := businessRoutes.Group("/transfer-drafts")
			{
				drafts.POST("/", draftHandler.CreateDraft)
				drafts.GET("/:id", draftHandler.GetDraft)
				drafts.PUT("/:id", draftHandler.UpdateDraft)
				drafts.DELETE("/:id", draftHandler.DiscardDraft)
				drafts.POST("/:id/select-request", draftHandler.SelectRequest)
				drafts.POST("/:id/products", draftHandler.AddProduct)
				drafts.DELETE("/:id/products/:index", draftHandler.RemoveProduct)
				drafts.POST("/:id/products/:index/toggle", draftHandler.ToggleProduct)
				drafts.PUT("/:id/products/:index/quantity", draftHandler.SetQuantity)
				drafts.POST("/:id/submit", draftHandler.SubmitDraft)
			}
		}
	}

	return router
}
