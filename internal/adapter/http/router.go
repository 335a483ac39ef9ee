package http

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aquavi/delivery-api/internal/adapter/http/middleware"
	"github.com/aquavi/delivery-api/internal/logging"
)

type Handlers struct {
	Orders        *OrderHandler
	Subscriptions *SubscriptionHandler
	Catalog       *CatalogHandler
	Content       *ContentHandler
	Settings      *SettingsHandler
	Token         *TokenHandler
}

func NewRouter(h Handlers, authz *middleware.Authz) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.MetricsMiddleware())

	l := logging.New("http")
	r.Use(middleware.Logging(l))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})
	// Prometheus endpoint (scraped by Prometheus)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.POST("/v1/token", h.Token.IssueToken)

	// public storefront
	v1 := r.Group("/v1")
	{
		v1.GET("/products", h.Catalog.ListActive)
		v1.GET("/testimonials", h.Content.ListActiveTestimonials)
		v1.POST("/orders", h.Orders.CreateOrder)
		v1.POST("/subscriptions", h.Subscriptions.CreateSubscription)
		v1.POST("/messages", h.Content.CreateMessage)
	}

	// admin console
	admin := r.Group("/v1/admin")
	{
		admin.GET("/orders", authz.Require("orders.read"), h.Orders.ListOrders)
		admin.GET("/orders/export.csv", authz.Require("orders.read"), h.Orders.ExportCSV)
		admin.GET("/orders/:id", authz.Require("orders.read"), h.Orders.GetOrder)
		admin.PATCH("/orders/:id/status", authz.Require("orders.write"), h.Orders.UpdateStatus)
		admin.DELETE("/orders/:id", authz.Require("orders.write"), h.Orders.DeleteOrder)

		admin.GET("/subscriptions", authz.Require("orders.read"), h.Subscriptions.ListSubscriptions)
		admin.POST("/subscriptions/:id/pause", authz.Require("subs.write"), h.Subscriptions.Pause)
		admin.POST("/subscriptions/:id/resume", authz.Require("subs.write"), h.Subscriptions.Resume)
		admin.POST("/subscriptions/:id/cancel", authz.Require("subs.write"), h.Subscriptions.Cancel)

		admin.GET("/products", authz.Require("catalog.write"), h.Catalog.ListAll)
		admin.POST("/products", authz.Require("catalog.write"), h.Catalog.Create)
		admin.PUT("/products/:id", authz.Require("catalog.write"), h.Catalog.Update)
		admin.PATCH("/products/:id/active", authz.Require("catalog.write"), h.Catalog.SetActive)
		admin.DELETE("/products/:id", authz.Require("catalog.write"), h.Catalog.Delete)

		admin.GET("/testimonials", authz.Require("content.write"), h.Content.ListAllTestimonials)
		admin.POST("/testimonials", authz.Require("content.write"), h.Content.CreateTestimonial)
		admin.PUT("/testimonials/:id", authz.Require("content.write"), h.Content.UpdateTestimonial)
		admin.PATCH("/testimonials/:id/active", authz.Require("content.write"), h.Content.SetTestimonialActive)
		admin.DELETE("/testimonials/:id", authz.Require("content.write"), h.Content.DeleteTestimonial)

		admin.GET("/messages", authz.Require("content.write"), h.Content.ListMessages)
		admin.PATCH("/messages/:id/status", authz.Require("content.write"), h.Content.UpdateMessageStatus)

		admin.GET("/settings", authz.Require("settings.write"), h.Settings.Get)
		admin.PUT("/settings", authz.Require("settings.write"), h.Settings.Update)
	}

	return r
}
