package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"el_node_inventory/allocator"
	"el_node_inventory/app"
	"el_node_inventory/db"
	"el_node_inventory/models"
)

type InventoryController struct {
	*Srv
	Alloc *allocator.Allocator
}

func NewInventoryController(s *Srv, alloc *allocator.Allocator) *InventoryController {
	return &InventoryController{Srv: s, Alloc: alloc}
}

// GET /api/inventory?q=&status=&productId=&categoryId=&destinationId=&year=&page=&size=
func (ic *InventoryController) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))
	year, _ := strconv.Atoi(c.Query("year"))

	res, err := ic.Repo.ListItems(c.Request.Context(), db.ItemsQuery{
		Q:             c.Query("q"),
		Status:        models.ItemStatus(c.Query("status")),
		ProductID:     c.Query("productId"),
		CategoryID:    c.Query("categoryId"),
		DestinationID: c.Query("destinationId"),
		Year:          year,
		Page:          page,
		Size:          size,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, res)
}

// POST /api/inventory (admin): registers one physical unit and mints
// its asset tag.
func (ic *InventoryController) Create(c *gin.Context) {
	var in struct {
		ProductID      string  `json:"productId" binding:"required"`
		CategoryID     string  `json:"categoryId" binding:"required"`
		DestinationID  *string `json:"destinationId"`
		Status         string  `json:"status"`
		YearOfPurchase int     `json:"yearOfPurchase" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}

	item, err := ic.Repo.RegisterItem(c.Request.Context(), ic.Alloc, db.RegisterItemInput{
		ProductID:      in.ProductID,
		CategoryID:     in.CategoryID,
		DestinationID:  in.DestinationID,
		Status:         models.ItemStatus(in.Status),
		YearOfPurchase: in.YearOfPurchase,
	})
	switch {
	case errors.Is(err, allocator.ErrCategoryNotFound):
		c.JSON(http.StatusNotFound, app.H{"error": "category not found"})
		return
	case errors.Is(err, allocator.ErrProductNotFound):
		c.JSON(http.StatusNotFound, app.H{"error": "product not found"})
		return
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, app.H{"error": "destination not found"})
		return
	case errors.Is(err, db.ErrProductCategoryMismatch),
		errors.Is(err, db.ErrInvalidStatus),
		errors.Is(err, allocator.ErrInvalidYear),
		errors.Is(err, allocator.ErrInvalidShortCode):
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	case errors.Is(err, allocator.ErrSequenceExhausted):
		c.JSON(http.StatusConflict, app.H{"error": err.Error()})
		return
	case errors.Is(err, allocator.ErrRetriesExhausted):
		c.JSON(http.StatusServiceUnavailable, app.H{"error": "could not allocate a unique code, please retry"})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	ic.audit(c, models.AuditCreate, "inventory_item", item.ID, item.UniqueCode.String())
	c.JSON(http.StatusCreated, item)
}

// PUT /api/inventory/:id (admin): status change and/or move. The asset
// tag itself never changes.
func (ic *InventoryController) Update(c *gin.Context) {
	var in struct {
		Status        string  `json:"status"`
		DestinationID *string `json:"destinationId"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}

	item, err := ic.Repo.UpdateItem(c.Request.Context(), c.Param("id"), db.UpdateItemInput{
		Status:        models.ItemStatus(in.Status),
		DestinationID: in.DestinationID,
	})
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, app.H{"error": "not found"})
		return
	case errors.Is(err, db.ErrInvalidStatus):
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	action := models.AuditUpdate
	if in.DestinationID != nil {
		action = models.AuditMove
	}
	ic.audit(c, action, "inventory_item", item.ID, item.UniqueCode.String())
	c.JSON(http.StatusOK, item)
}

// DELETE /api/inventory/:id (admin): decommissions the unit. The code
// stays reserved forever.
func (ic *InventoryController) Delete(c *gin.Context) {
	id := c.Param("id")
	item, err := ic.Repo.FindItemByID(c.Request.Context(), id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, app.H{"error": "item not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	if err := ic.Repo.DeleteItem(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	ic.audit(c, models.AuditDelete, "inventory_item", id, item.UniqueCode.String())
	c.JSON(http.StatusOK, app.H{"ok": true})
}

// GET /api/inventory/codes?productCode=TAB lists the live asset tags
// carrying a product segment, matched by parsing rather than substring.
func (ic *InventoryController) CodesForProduct(c *gin.Context) {
	raw := c.Query("productCode")
	code, err := normalizeShortCode(raw, allocator.ProductCode)
	if err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	codes, err := ic.Repo.CodesForProduct(c.Request.Context(), code)
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"productCode": code, "codes": codes})
}

// GET /api/stats
func (ic *InventoryController) Stats(c *gin.Context) {
	stats, err := ic.Repo.ItemStatusStats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, stats)
}
