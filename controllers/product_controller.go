package controllers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"el_node_inventory/allocator"
	"el_node_inventory/app"
	"el_node_inventory/db"
	"el_node_inventory/models"
)

type ProductController struct{ *Srv }

func NewProductController(s *Srv) *ProductController { return &ProductController{Srv: s} }

// maxImageBytes caps uploaded product images.
const maxImageBytes = 5 << 20

// readImageForm pulls the optional image file out of a multipart form.
// Returns (nil, "", nil) when no file was sent.
func readImageForm(c *gin.Context) ([]byte, string, error) {
	fh, err := c.FormFile("image")
	if err != nil {
		return nil, "", nil
	}
	if fh.Size > maxImageBytes {
		return nil, "", errors.New("image too large")
	}
	f, err := fh.Open()
	if err != nil {
		return nil, "", err
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, maxImageBytes+1))
	if err != nil {
		return nil, "", err
	}
	if len(data) > maxImageBytes {
		return nil, "", errors.New("image too large")
	}
	return data, fh.Header.Get("Content-Type"), nil
}

// GET /api/products?categoryId=
func (pc *ProductController) List(c *gin.Context) {
	products, err := pc.Repo.ListProducts(c.Request.Context(), c.Query("categoryId"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"products": products})
}

// POST /api/products (admin, multipart form)
func (pc *ProductController) Create(c *gin.Context) {
	name := c.PostForm("name")
	rawCode := c.PostForm("code")
	categoryID := c.PostForm("categoryId")
	if name == "" || rawCode == "" || categoryID == "" {
		c.JSON(http.StatusBadRequest, app.H{"error": "name, code and categoryId are required"})
		return
	}
	code, err := normalizeShortCode(rawCode, allocator.ProductCode)
	if err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	image, mime, err := readImageForm(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}

	p := &models.Product{
		Name:        name,
		ShortCode:   code,
		CategoryID:  categoryID,
		Description: c.PostForm("description"),
		Image:       image,
		ImageMime:   mime,
	}
	err = pc.Repo.CreateProduct(c.Request.Context(), p)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, app.H{"error": "category not found"})
		return
	case errors.Is(err, db.ErrShortCodeTaken):
		c.JSON(http.StatusConflict, app.H{"error": "product code already exists in this category"})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	pc.audit(c, models.AuditCreate, "product", p.ID, p.ShortCode)
	c.JSON(http.StatusCreated, p)
}

// PUT /api/products/:id (admin, multipart form)
func (pc *ProductController) Update(c *gin.Context) {
	name := c.PostForm("name")
	rawCode := c.PostForm("code")
	if name == "" || rawCode == "" {
		c.JSON(http.StatusBadRequest, app.H{"error": "name and code are required"})
		return
	}
	code, err := normalizeShortCode(rawCode, allocator.ProductCode)
	if err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	image, mime, err := readImageForm(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}

	p, err := pc.Repo.UpdateProduct(c.Request.Context(), c.Param("id"), db.UpdateProductInput{
		Name:        name,
		ShortCode:   code,
		Description: c.PostForm("description"),
		Image:       image,
		ImageMime:   mime,
	})
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, app.H{"error": "product not found"})
		return
	case errors.Is(err, db.ErrShortCodeLocked):
		c.JSON(http.StatusConflict, app.H{"error": err.Error()})
		return
	case errors.Is(err, db.ErrShortCodeTaken):
		c.JSON(http.StatusConflict, app.H{"error": "product code already exists in this category"})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	pc.audit(c, models.AuditUpdate, "product", p.ID, p.ShortCode)
	c.JSON(http.StatusOK, p)
}

// DELETE /api/products/:id (admin)
func (pc *ProductController) Delete(c *gin.Context) {
	id := c.Param("id")
	err := pc.Repo.DeleteProduct(c.Request.Context(), id)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, app.H{"error": "product not found"})
		return
	case errors.Is(err, db.ErrProductInUse):
		c.JSON(http.StatusConflict, app.H{"error": "cannot delete product, inventory items still reference it"})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	pc.audit(c, models.AuditDelete, "product", id, "")
	c.JSON(http.StatusOK, app.H{"ok": true})
}

// GET /api/products/:id/image
func (pc *ProductController) Image(c *gin.Context) {
	p, err := pc.Repo.FindProductByID(c.Request.Context(), c.Param("id"))
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && len(p.Image) == 0) {
		c.JSON(http.StatusNotFound, app.H{"error": "no image"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	mime := p.ImageMime
	if mime == "" {
		mime = "application/octet-stream"
	}
	c.Data(http.StatusOK, mime, p.Image)
}
