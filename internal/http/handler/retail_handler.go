package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/Pingaksh2K24/siksha-sanchalanam-backend/internal/retail"
)

// RetailHandler serves the catalog passthrough endpoints.
type RetailHandler struct {
	Store *retail.Store
}

// NewRetailHandler creates the handler set.
func NewRetailHandler(store *retail.Store) *RetailHandler {
	return &RetailHandler{Store: store}
}

func (h *RetailHandler) ListProducts(c *gin.Context) {
	docs, err := h.Store.ListProducts(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, docs)
}

func (h *RetailHandler) CreateProduct(c *gin.Context) {
	var doc bson.M
	if err := c.ShouldBindJSON(&doc); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": "Invalid request body."})
		return
	}

	created, err := h.Store.CreateProduct(c.Request.Context(), doc)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *RetailHandler) ListOrders(c *gin.Context) {
	docs, err := h.Store.ListOrders(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, docs)
}

func (h *RetailHandler) ListCustomers(c *gin.Context) {
	docs, err := h.Store.ListCustomers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, docs)
}

func (h *RetailHandler) ListSuppliers(c *gin.Context) {
	docs, err := h.Store.ListSuppliers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, docs)
}

func (h *RetailHandler) GetSupplier(c *gin.Context) {
	doc, err := h.Store.GetSupplier(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

func (h *RetailHandler) UpdateSupplier(c *gin.Context) {
	var fields bson.M
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": "Invalid request body."})
		return
	}

	doc, err := h.Store.UpdateSupplier(c.Request.Context(), c.Param("id"), fields)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

func (h *RetailHandler) ListSettings(c *gin.Context) {
	docs, err := h.Store.ListSettings(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, docs)
}

func (h *RetailHandler) UpdateSetting(c *gin.Context) {
	var fields bson.M
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": "Invalid request body."})
		return
	}

	doc, err := h.Store.UpdateSetting(c.Request.Context(), c.Param("userId"), fields)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}
