package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"el_node_inventory/app"
	"el_node_inventory/db"
)

type AuditController struct{ *Srv }

func NewAuditController(s *Srv) *AuditController { return &AuditController{Srv: s} }

// GET /api/audit?entityType=&page=&size= (admin)
func (ac *AuditController) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))

	res, err := ac.Repo.ListAuditLogs(c.Request.Context(), db.AuditQuery{
		EntityType: c.Query("entityType"),
		Page:       page,
		Size:       size,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, res)
}
