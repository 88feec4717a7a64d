package controllers

import (
	"errors"
	"io"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/lumapanel/lumapanel/app/models"
	"github.com/lumapanel/lumapanel/app/repository"
	"github.com/lumapanel/lumapanel/internal/pkg/storage"
	"github.com/lumapanel/lumapanel/internal/pkg/usercontext"
)

const maxProductImageBytes = 5 * 1024 * 1024

type productPatternInput struct {
	Name     string `json:"name"`
	Code     string `json:"code"`
	ImageURL string `json:"image_url"`
}

type productColorInput struct {
	Name     string `json:"name"`
	HexCode  string `json:"hex_code"`
	ImageURL string `json:"image_url"`
}

type createProductRequest struct {
	Name     string                `json:"name"`
	Type     string                `json:"type"`
	Patterns []productPatternInput `json:"patterns"`
	Colors   []productColorInput   `json:"colors"`
}

// HandleCreateProduct creates a product catalog for the authenticated user.
// The type is fixed at creation time and constrains which entry kinds the
// catalog accepts.
func HandleCreateProduct(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	var req createProductRequest
	if err := c.BodyParser(&req); err != nil {
		return errBadRequest(c, "Invalid request body")
	}

	product := &models.Product{
		UserID: userCtx.UserID,
		Name:   req.Name,
		Type:   req.Type,
	}
	if err := product.Validate(); err != nil {
		return errBadRequest(c, err.Error())
	}

	patterns, colors, err := buildProductEntries(product.Type, req.Patterns, req.Colors)
	if err != nil {
		return errBadRequest(c, err.Error())
	}
	product.Patterns = patterns
	product.Colors = colors

	repo := repository.GetGlobalFactory().GetProductRepository()
	if err := repo.Create(product); err != nil {
		return errInternal(c, "Failed to create product")
	}

	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleListMyProducts lists the authenticated user's product catalogs.
func HandleListMyProducts(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	offset, limit := parsePagination(c)

	repo := repository.GetGlobalFactory().GetProductRepository()
	products, err := repo.GetByUserID(userCtx.UserID, offset, limit)
	if err != nil {
		return errInternal(c, "Failed to load products")
	}
	total, err := repo.CountByUserID(userCtx.UserID)
	if err != nil {
		return errInternal(c, "Failed to count products")
	}

	return c.JSON(fiber.Map{"products": products, "total": total})
}

// HandleGetProduct returns one product by its public UUID. Owner or admin
// only.
func HandleGetProduct(c *fiber.Ctx) error {
	product, err := loadOwnedProduct(c)
	if err != nil {
		return err
	}
	return c.JSON(product)
}

type updateProductRequest struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// HandleUpdateProduct renames a product. The type is immutable after
// creation; attempts to change it are rejected.
func HandleUpdateProduct(c *fiber.Ctx) error {
	product, err := loadOwnedProduct(c)
	if err != nil {
		return err
	}

	var req updateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return errBadRequest(c, "Invalid request body")
	}

	if req.Type != "" && req.Type != product.Type {
		return errBadRequest(c, "Product type cannot be changed")
	}
	if req.Name != "" {
		product.Name = req.Name
	}

	if err := product.Validate(); err != nil {
		return errBadRequest(c, err.Error())
	}

	repo := repository.GetGlobalFactory().GetProductRepository()
	if err := repo.Update(product); err != nil {
		return errInternal(c, "Failed to update product")
	}

	return c.JSON(product)
}

type replaceEntriesRequest struct {
	Patterns []productPatternInput `json:"patterns"`
	Colors   []productColorInput   `json:"colors"`
}

// HandleReplaceProductEntries replaces the product's pattern and color
// lists wholesale. Order in the request becomes the stored sort order.
func HandleReplaceProductEntries(c *fiber.Ctx) error {
	product, err := loadOwnedProduct(c)
	if err != nil {
		return err
	}

	var req replaceEntriesRequest
	if err := c.BodyParser(&req); err != nil {
		return errBadRequest(c, "Invalid request body")
	}

	patterns, colors, err := buildProductEntries(product.Type, req.Patterns, req.Colors)
	if err != nil {
		return errBadRequest(c, err.Error())
	}

	repo := repository.GetGlobalFactory().GetProductRepository()
	if product.Type != models.ProductTypeColor {
		if err := repo.ReplacePatterns(product.ID, patterns); err != nil {
			return errInternal(c, "Failed to replace patterns")
		}
	}
	if product.Type != models.ProductTypePattern {
		if err := repo.ReplaceColors(product.ID, colors); err != nil {
			return errInternal(c, "Failed to replace colors")
		}
	}

	updated, err := repo.GetByID(product.ID)
	if err != nil {
		return errInternal(c, "Failed to reload product")
	}
	return c.JSON(updated)
}

// HandleDeleteProduct deletes a product catalog with its entries.
func HandleDeleteProduct(c *fiber.Ctx) error {
	product, err := loadOwnedProduct(c)
	if err != nil {
		return err
	}

	repo := repository.GetGlobalFactory().GetProductRepository()
	if err := repo.Delete(product.ID); err != nil {
		return errInternal(c, "Failed to delete product")
	}

	return c.JSON(fiber.Map{"message": "Product deleted"})
}

// HandleUploadProductImage uploads an entry image to object storage and
// returns its public URL. The URL is meant to be set on a pattern or color
// entry in a follow-up replace call.
func HandleUploadProductImage(c *fiber.Ctx) error {
	if _, err := loadOwnedProduct(c); err != nil {
		return err
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return errBadRequest(c, "Missing image file")
	}
	if fileHeader.Size > maxProductImageBytes {
		return errBadRequest(c, "Image exceeds 5 MB")
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return errBadRequest(c, "Only image uploads are allowed")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return errInternal(c, "Failed to read upload")
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return errInternal(c, "Failed to read upload")
	}

	uploader, err := storage.NewUploader(storage.ConfigFromEnv())
	if err != nil {
		log.Printf("object storage not configured: %v", err)
		return errInternal(c, "Object storage unavailable")
	}

	url, err := uploader.Upload(c.Context(), data, contentType)
	if err != nil {
		log.Printf("image upload failed: %v", err)
		return errInternal(c, "Upload failed")
	}

	return c.JSON(fiber.Map{"image_url": url})
}

func loadOwnedProduct(c *fiber.Ctx) (*models.Product, error) {
	id := c.Params("uuid")
	if id == "" {
		return nil, errBadRequest(c, "Missing product uuid")
	}

	repo := repository.GetGlobalFactory().GetProductRepository()
	product, err := repo.GetByUUID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errNotFound(c, "Product not found")
		}
		return nil, errInternal(c, "Failed to load product")
	}

	userCtx := usercontext.GetUserContext(c)
	if product.UserID != userCtx.UserID && !userCtx.IsAdmin {
		return nil, errForbidden(c, "Not your product")
	}

	return product, nil
}

// buildProductEntries validates entry kinds against the catalog type and
// assigns sort order from request order.
func buildProductEntries(productType string, patternInputs []productPatternInput, colorInputs []productColorInput) ([]models.ProductPattern, []models.ProductColor, error) {
	if productType == models.ProductTypePattern && len(colorInputs) > 0 {
		return nil, nil, errors.New("a pattern catalog cannot hold colors")
	}
	if productType == models.ProductTypeColor && len(patternInputs) > 0 {
		return nil, nil, errors.New("a color catalog cannot hold patterns")
	}

	patterns := make([]models.ProductPattern, 0, len(patternInputs))
	for i, in := range patternInputs {
		p := models.ProductPattern{Name: in.Name, Code: in.Code, ImageURL: in.ImageURL, SortOrder: i}
		if p.Name == "" || p.Code == "" {
			return nil, nil, errors.New("pattern entries need a name and a code")
		}
		patterns = append(patterns, p)
	}

	colors := make([]models.ProductColor, 0, len(colorInputs))
	for i, in := range colorInputs {
		col := models.ProductColor{Name: in.Name, HexCode: in.HexCode, ImageURL: in.ImageURL, SortOrder: i}
		if col.Name == "" || col.HexCode == "" {
			return nil, nil, errors.New("color entries need a name and a hex code")
		}
		colors = append(colors, col)
	}

	return patterns, colors, nil
}
