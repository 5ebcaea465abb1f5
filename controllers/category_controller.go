package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"el_node_inventory/allocator"
	"el_node_inventory/app"
	"el_node_inventory/db"
	"el_node_inventory/models"
)

type CategoryController struct{ *Srv }

func NewCategoryController(s *Srv) *CategoryController { return &CategoryController{Srv: s} }

type categoryRequest struct {
	Name string `json:"name" binding:"required"`
	Code string `json:"code" binding:"required"`
}

// normalizeShortCode uppercases form input before the strict check, the
// same leniency the original entry forms applied.
func normalizeShortCode(code string, kind allocator.ShortCodeKind) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if err := allocator.ValidateShortCode(code, kind); err != nil {
		return "", err
	}
	return code, nil
}

// GET /api/categories
func (cc *CategoryController) List(c *gin.Context) {
	cats, err := cc.Repo.ListCategories(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"categories": cats})
}

// POST /api/categories (admin)
func (cc *CategoryController) Create(c *gin.Context) {
	var in categoryRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	code, err := normalizeShortCode(in.Code, allocator.CategoryCode)
	if err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}

	cat, err := cc.Repo.CreateCategory(c.Request.Context(), in.Name, code)
	if errors.Is(err, db.ErrShortCodeTaken) {
		c.JSON(http.StatusConflict, app.H{"error": "category code already exists"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	cc.audit(c, models.AuditCreate, "category", cat.ID, cat.ShortCode)
	c.JSON(http.StatusCreated, cat)
}

// PUT /api/categories/:id (admin)
func (cc *CategoryController) Update(c *gin.Context) {
	var in categoryRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	code, err := normalizeShortCode(in.Code, allocator.CategoryCode)
	if err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}

	cat, err := cc.Repo.UpdateCategory(c.Request.Context(), c.Param("id"), in.Name, code)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, app.H{"error": "category not found"})
		return
	case errors.Is(err, db.ErrShortCodeLocked):
		c.JSON(http.StatusConflict, app.H{"error": err.Error()})
		return
	case errors.Is(err, db.ErrShortCodeTaken):
		c.JSON(http.StatusConflict, app.H{"error": "category code already exists"})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	cc.audit(c, models.AuditUpdate, "category", cat.ID, cat.ShortCode)
	c.JSON(http.StatusOK, cat)
}

// DELETE /api/categories/:id (admin)
func (cc *CategoryController) Delete(c *gin.Context) {
	id := c.Param("id")
	err := cc.Repo.DeleteCategory(c.Request.Context(), id)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, app.H{"error": "category not found"})
		return
	case errors.Is(err, db.ErrCategoryInUse):
		c.JSON(http.StatusConflict, app.H{"error": "cannot delete category, products or items still reference it"})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	cc.audit(c, models.AuditDelete, "category", id, "")
	c.JSON(http.StatusOK, app.H{"ok": true})
}
