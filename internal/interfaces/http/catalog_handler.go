package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/pos-ledger/internal/application/catalog"
	"github.com/jhoicas/pos-ledger/internal/application/dto"
)

// CatalogHandler productos y variantes (protegido).
type CatalogHandler struct {
	uc *catalog.UseCase
}

// NewCatalogHandler construye el handler.
func NewCatalogHandler(uc *catalog.UseCase) *CatalogHandler {
	return &CatalogHandler{uc: uc}
}

// CreateProduct godoc
// @Summary      Crear producto
// @Description  selling_price = max(0, regular_price - discount) si no se envía. opening_stock entra como ajuste en el libro.
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreateProductRequest  true  "Producto"
// @Success      201   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/products [post]
func (h *CatalogHandler) CreateProduct(c *fiber.Ctx) error {
	shopID, userID, ok := tenant(c)
	if !ok {
		return unauthorized(c)
	}
	var in dto.CreateProductRequest
	if e := bindBody(c, &in); e != nil {
		return badRequest(c, e)
	}
	out, err := h.uc.CreateProduct(c.Context(), shopID, userID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListProducts godoc
// @Summary      Listar productos de la tienda
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        limit   query     int  false  "máx. 200"
// @Param        offset  query     int  false  "desplazamiento"
// @Success      200     {object}  dto.ProductListResponse
// @Router       /api/products [get]
func (h *CatalogHandler) ListProducts(c *fiber.Ctx) error {
	shopID, _, ok := tenant(c)
	if !ok {
		return unauthorized(c)
	}
	var page dto.PageRequest
	if e := bindQuery(c, &page); e != nil {
		return badRequest(c, e)
	}
	out, err := h.uc.ListProducts(c.Context(), shopID, page)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// LookupProduct godoc
// @Summary      Buscar producto por código o código de barras
// @Description  Primero por código exacto, luego por código de barras sin distinguir mayúsculas.
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        code  query     string  true  "código o código de barras"
// @Success      200   {object}  dto.ProductResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/products/lookup [get]
func (h *CatalogHandler) LookupProduct(c *fiber.Ctx) error {
	shopID, _, ok := tenant(c)
	if !ok {
		return unauthorized(c)
	}
	var q dto.ProductLookupQuery
	if e := bindQuery(c, &q); e != nil {
		return badRequest(c, e)
	}
	out, err := h.uc.LookupProduct(c.Context(), shopID, q.Code)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetProduct devuelve el producto con sus variantes.
func (h *CatalogHandler) GetProduct(c *fiber.Ctx) error {
	shopID, _, ok := tenant(c)
	if !ok {
		return unauthorized(c)
	}
	out, err := h.uc.GetProduct(c.Context(), shopID, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// CreateVariant godoc
// @Summary      Agregar variante a un producto con has_variants
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      string                    true  "ID del producto"
// @Param        body  body      dto.CreateVariantRequest  true  "Variante"
// @Success      201   {object}  dto.VariantResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/products/{id}/variants [post]
func (h *CatalogHandler) CreateVariant(c *fiber.Ctx) error {
	shopID, userID, ok := tenant(c)
	if !ok {
		return unauthorized(c)
	}
	var in dto.CreateVariantRequest
	if e := bindBody(c, &in); e != nil {
		return badRequest(c, e)
	}
	out, err := h.uc.CreateVariant(c.Context(), shopID, userID, c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

func (h *CatalogHandler) CreateCategory(c *fiber.Ctx) error {
	shopID, _, ok := tenant(c)
	if !ok {
		return unauthorized(c)
	}
	var in dto.CreateCategoryRequest
	if e := bindBody(c, &in); e != nil {
		return badRequest(c, e)
	}
	out, err := h.uc.CreateCategory(c.Context(), shopID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

func (h *CatalogHandler) ListCategories(c *fiber.Ctx) error {
	shopID, _, ok := tenant(c)
	if !ok {
		return unauthorized(c)
	}
	list, err := h.uc.ListCategories(c.Context(), shopID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"categories": list})
}
