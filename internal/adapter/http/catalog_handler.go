package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	domain "github.com/aquavi/delivery-api/internal/entity"
	"github.com/aquavi/delivery-api/internal/usecase"
)

type CatalogHandler struct {
	products usecase.ProductRepo
}

func NewCatalogHandler(products usecase.ProductRepo) *CatalogHandler {
	return &CatalogHandler{products: products}
}

// ListActive serves the public storefront: active products, cheapest first.
func (h *CatalogHandler) ListActive(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	products, err := h.products.ListActive(ctx)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": productViews(products)})
}

func (h *CatalogHandler) ListAll(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	products, err := h.products.ListAll(ctx)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": productViews(products)})
}

type productReq struct {
	Name      string          `json:"name" binding:"required"`
	SizeLabel string          `json:"sizeLabel" binding:"required"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Stock     int             `json:"stock"`
	Active    *bool           `json:"active"`
}

func (r productReq) check() error {
	if r.UnitPrice.IsNegative() {
		return &usecase.ValidationError{Field: "unitPrice", Msg: "must not be negative"}
	}
	if r.Stock < 0 {
		return &usecase.ValidationError{Field: "stock", Msg: "must not be negative"}
	}
	return nil
}

func (h *CatalogHandler) Create(c *gin.Context) {
	var req productReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}
	if err := req.check(); err != nil {
		writeError(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	active := true
	if req.Active != nil {
		active = *req.Active
	}
	p := &domain.Product{
		ID:        uuid.NewString(),
		Name:      req.Name,
		SizeLabel: req.SizeLabel,
		UnitPrice: req.UnitPrice,
		Stock:     req.Stock,
		Active:    active,
	}
	if err := h.products.Create(ctx, p); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, productView(*p))
}

func (h *CatalogHandler) Update(c *gin.Context) {
	var req productReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}
	if err := req.check(); err != nil {
		writeError(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	p, err := h.products.GetByID(ctx, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	p.Name = req.Name
	p.SizeLabel = req.SizeLabel
	p.UnitPrice = req.UnitPrice
	p.Stock = req.Stock
	if req.Active != nil {
		p.Active = *req.Active
	}
	if err := h.products.Update(ctx, p); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, productView(*p))
}

type setActiveReq struct {
	Active *bool `json:"active" binding:"required"`
}

func (h *CatalogHandler) SetActive(c *gin.Context) {
	var req setActiveReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	if err := h.products.SetActive(ctx, c.Param("id"), *req.Active); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CatalogHandler) Delete(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	if err := h.products.Delete(ctx, c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func productViews(products []domain.Product) []gin.H {
	out := make([]gin.H, 0, len(products))
	for _, p := range products {
		out = append(out, productView(p))
	}
	return out
}

func productView(p domain.Product) gin.H {
	return gin.H{
		"id":        p.ID,
		"name":      p.Name,
		"sizeLabel": p.SizeLabel,
		"unitPrice": p.UnitPrice,
		"stock":     p.Stock,
		"active":    p.Active,
	}
}
