package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"el_node_inventory/app"
	"el_node_inventory/db"
	"el_node_inventory/models"
)

type DestinationController struct{ *Srv }

func NewDestinationController(s *Srv) *DestinationController {
	return &DestinationController{Srv: s}
}

type destinationRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// GET /api/destinations
func (dc *DestinationController) List(c *gin.Context) {
	dests, err := dc.Repo.ListDestinations(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"destinations": dests})
}

// POST /api/destinations (admin)
func (dc *DestinationController) Create(c *gin.Context) {
	var in destinationRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	d, err := dc.Repo.CreateDestination(c.Request.Context(), in.Name, in.Description)
	if errors.Is(err, db.ErrDestinationNameTaken) {
		c.JSON(http.StatusConflict, app.H{"error": "destination name already exists"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	dc.audit(c, models.AuditCreate, "destination", d.ID, d.Name)
	c.JSON(http.StatusCreated, d)
}

// PUT /api/destinations/:id (admin)
func (dc *DestinationController) Update(c *gin.Context) {
	var in destinationRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	d, err := dc.Repo.UpdateDestination(c.Request.Context(), c.Param("id"), in.Name, in.Description)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, app.H{"error": "destination not found"})
		return
	case errors.Is(err, db.ErrDestinationNameTaken):
		c.JSON(http.StatusConflict, app.H{"error": "destination name already exists"})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	dc.audit(c, models.AuditUpdate, "destination", d.ID, d.Name)
	c.JSON(http.StatusOK, d)
}

// DELETE /api/destinations/:id (admin)
func (dc *DestinationController) Delete(c *gin.Context) {
	id := c.Param("id")
	err := dc.Repo.DeleteDestination(c.Request.Context(), id)
	var inUse *db.DestinationInUseError
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, app.H{"error": "destination not found"})
		return
	case errors.As(err, &inUse):
		c.JSON(http.StatusConflict, app.H{"error": inUse.Error()})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	dc.audit(c, models.AuditDelete, "destination", id, "")
	c.JSON(http.StatusOK, app.H{"ok": true})
}

// GET /api/destinations/stats
func (dc *DestinationController) Stats(c *gin.Context) {
	stats, err := dc.Repo.DestinationItemStats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"destinations": stats})
}
