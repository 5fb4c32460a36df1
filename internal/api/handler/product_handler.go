package handler

import (
	"errors"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/liqued/storefront-api/internal/core/domain"
	"github.com/liqued/storefront-api/internal/core/ports"
)

type ProductHandler struct {
	service ports.ProductService
}

func NewProductHandler(service ports.ProductService) *ProductHandler {
	return &ProductHandler{service: service}
}

// productRequest carries create and update fields. Nil means "not sent".
type productRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	CategoryID  *int64   `json:"category_id"`
	Stock       *int     `json:"stock"`
}

type listProductsQuery struct {
	CategoryID int64  `query:"category_id" validate:"gte=0"`
	Search     string `query:"search"`
}

type stockRequest struct {
	Quantity int `json:"quantity" validate:"required"`
}

type productsResponse struct {
	Products []domain.Product `json:"products"`
}

type productResponse struct {
	Product *domain.Product `json:"product"`
}

type createProductResponse struct {
	Message   string `json:"message"`
	ProductID int64  `json:"productId"`
}

// List returns products, optionally filtered.
//
// @Summary      List products
// @Tags         products
// @Produce      json
// @Param        category_id  query     int     false  "Category filter"
// @Param        search       query     string  false  "Name/description search"
// @Success      200          {object}  productsResponse
// @Router       /api/products [get]
func (h *ProductHandler) List(c echo.Context) error {
	var q listProductsQuery
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &q); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid query parameters")
	}
	if err := c.Validate(&q); err != nil {
		return err
	}

	products, err := h.service.List(c.Request().Context(), domain.ProductFilter{CategoryID: q.CategoryID, Search: q.Search})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, productsResponse{Products: products})
}

// Get returns one product.
//
// @Summary      Get product
// @Tags         products
// @Produce      json
// @Param        id   path      int  true  "Product ID"
// @Success      200  {object}  productResponse
// @Failure      404  {object}  errorBody
// @Router       /api/products/{id} [get]
func (h *ProductHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	p, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, productResponse{Product: p})
}

// Create adds a product from a JSON or multipart body with an optional "image" file.
//
// @Summary      Create product
// @Tags         products
// @Accept       json,mpfd
// @Produce      json
// @Security     BearerAuth
// @Param        body   body      productRequest  false  "Product (JSON)"
// @Param        image  formData  file            false  "Product image"
// @Success      201    {object}  createProductResponse
// @Failure      400    {object}  errorBody
// @Failure      403    {object}  errorBody
// @Router       /api/products [post]
func (h *ProductHandler) Create(c echo.Context) error {
	req, image, closeImage, err := readProductRequest(c)
	if err != nil {
		return err
	}
	defer closeImage()

	in := ports.ProductInput{Description: req.Description, Image: image}
	if req.Name != nil {
		in.Name = *req.Name
	}
	if req.Price != nil {
		in.Price = *req.Price
	}
	if req.CategoryID != nil {
		in.CategoryID = *req.CategoryID
	}
	if req.Stock != nil {
		in.Stock = *req.Stock
	}

	id, err := h.service.Create(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, createProductResponse{Message: "Product created successfully", ProductID: id})
}

// Update changes the provided fields and optionally replaces the image.
//
// @Summary      Update product
// @Tags         products
// @Accept       json,mpfd
// @Produce      json
// @Security     BearerAuth
// @Param        id     path      int             true   "Product ID"
// @Param        body   body      productRequest  false  "Fields to change (JSON)"
// @Param        image  formData  file            false  "New product image"
// @Success      200    {object}  messageResponse
// @Failure      400    {object}  errorBody
// @Failure      404    {object}  errorBody
// @Router       /api/products/{id} [put]
func (h *ProductHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	req, image, closeImage, err := readProductRequest(c)
	if err != nil {
		return err
	}
	defer closeImage()

	patch := ports.ProductPatch{
		Update: domain.ProductUpdate{
			Name:        req.Name,
			Description: req.Description,
			Price:       req.Price,
			CategoryID:  req.CategoryID,
			Stock:       req.Stock,
		},
		Image: image,
	}
	if err := h.service.Update(c.Request().Context(), id, patch); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Product updated successfully"})
}

// AdjustStock adds a signed quantity to the product's stock.
//
// @Summary      Adjust stock
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int           true  "Product ID"
// @Param        body  body      stockRequest  true  "Signed quantity"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  errorBody
// @Failure      404   {object}  errorBody
// @Router       /api/products/{id}/stock [patch]
func (h *ProductHandler) AdjustStock(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req stockRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.service.AdjustStock(c.Request().Context(), id, req.Quantity); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Stock updated successfully"})
}

// Delete removes a product.
//
// @Summary      Delete product
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Product ID"
// @Success      200  {object}  messageResponse
// @Failure      404  {object}  errorBody
// @Router       /api/products/{id} [delete]
func (h *ProductHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Product deleted successfully"})
}

// readProductRequest decodes either a multipart/urlencoded form or a JSON
// body. The returned close func is always safe to call.
func readProductRequest(c echo.Context) (productRequest, *ports.ImageUpload, func(), error) {
	noop := func() {}
	ctype := c.Request().Header.Get(echo.HeaderContentType)

	if !strings.HasPrefix(ctype, echo.MIMEMultipartForm) && !strings.HasPrefix(ctype, echo.MIMEApplicationForm) {
		var req productRequest
		if err := bindJSON(c, &req); err != nil {
			return req, nil, noop, err
		}
		return req, nil, noop, nil
	}

	form, err := c.FormParams()
	if err != nil {
		return productRequest{}, nil, noop, echo.NewHTTPError(http.StatusBadRequest, "invalid form data")
	}
	req, err := productFromForm(form)
	if err != nil {
		return req, nil, noop, err
	}

	if !strings.HasPrefix(ctype, echo.MIMEMultipartForm) {
		return req, nil, noop, nil
	}
	fh, err := c.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return req, nil, noop, nil
	}
	if err != nil {
		return req, nil, noop, echo.NewHTTPError(http.StatusBadRequest, "invalid image upload")
	}
	return openUpload(req, fh)
}

func openUpload(req productRequest, fh *multipart.FileHeader) (productRequest, *ports.ImageUpload, func(), error) {
	f, err := fh.Open()
	if err != nil {
		return req, nil, func() {}, echo.NewHTTPError(http.StatusBadRequest, "invalid image upload")
	}
	img := &ports.ImageUpload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get(echo.HeaderContentType),
		Body:        f,
	}
	return req, img, func() { _ = f.Close() }, nil
}

// productFromForm maps form fields; absent or blank fields stay nil.
func productFromForm(form url.Values) (productRequest, error) {
	var req productRequest
	field := func(name string) (string, bool) {
		if _, ok := form[name]; !ok {
			return "", false
		}
		v := strings.TrimSpace(form.Get(name))
		return v, v != ""
	}

	if v, ok := field("name"); ok {
		req.Name = &v
	}
	if _, sent := form["description"]; sent {
		v := form.Get("description")
		req.Description = &v
	}
	if v, ok := field("price"); ok {
		price, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return req, domain.NewValidationError("price must be a number")
		}
		req.Price = &price
	}
	if v, ok := field("category_id"); ok {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return req, domain.NewValidationError("category_id must be an integer")
		}
		req.CategoryID = &id
	}
	if v, ok := field("stock"); ok {
		stock, err := strconv.Atoi(v)
		if err != nil {
			return req, domain.NewValidationError("stock must be an integer")
		}
		req.Stock = &stock
	}
	return req, nil
}
