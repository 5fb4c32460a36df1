package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/liqued/storefront-api/internal/core/domain"
	"github.com/liqued/storefront-api/internal/core/ports"
)

// DatabaseHandler exposes the admin schema tools.
type DatabaseHandler struct {
	service ports.DatabaseService
}

func NewDatabaseHandler(service ports.DatabaseService) *DatabaseHandler {
	return &DatabaseHandler{service: service}
}

type tablesResponse struct {
	Success bool     `json:"success,omitempty"`
	Message string   `json:"message,omitempty"`
	Tables  []string `json:"tables"`
}

type structureResponse struct {
	Table   string          `json:"table"`
	Columns []domain.Column `json:"columns"`
}

type tableDataQuery struct {
	Limit int `query:"limit" validate:"gte=0"`
}

type tableDataResponse struct {
	Table string           `json:"table"`
	Data  []map[string]any `json:"data"`
	Count int              `json:"count"`
}

// Status reports connectivity and row counts.
//
// @Summary      Database status
// @Tags         database
// @Produce      json
// @Success      200  {object}  ports.DatabaseStatus
// @Failure      500  {object}  errorBody
// @Router       /api/database/status [get]
func (h *DatabaseHandler) Status(c echo.Context) error {
	st, err := h.service.Status(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, st)
}

// Init applies pending migrations.
//
// @Summary      Initialise schema
// @Tags         database
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  tablesResponse
// @Router       /api/database/init [post]
func (h *DatabaseHandler) Init(c echo.Context) error {
	tables, err := h.service.Init(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tablesResponse{
		Success: true,
		Message: "Database tables initialized successfully",
		Tables:  tables,
	})
}

// Tables lists the known tables that exist.
//
// @Summary      List tables
// @Tags         database
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  tablesResponse
// @Router       /api/database/tables [get]
func (h *DatabaseHandler) Tables(c echo.Context) error {
	tables, err := h.service.Tables(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tablesResponse{Tables: tables})
}

// Structure describes the columns of a known table.
//
// @Summary      Table structure
// @Tags         database
// @Produce      json
// @Security     BearerAuth
// @Param        tableName  path      string  true  "Table name"
// @Success      200        {object}  structureResponse
// @Failure      404        {object}  errorBody
// @Router       /api/database/tables/{tableName} [get]
func (h *DatabaseHandler) Structure(c echo.Context) error {
	table := c.Param("tableName")
	columns, err := h.service.Structure(c.Request().Context(), table)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, structureResponse{Table: table, Columns: columns})
}

// Data returns rows of a known table.
//
// @Summary      Table data
// @Tags         database
// @Produce      json
// @Security     BearerAuth
// @Param        tableName  path      string  true   "Table name"
// @Param        limit      query     int     false  "Row limit (default 100, max 1000)"
// @Success      200        {object}  tableDataResponse
// @Failure      404        {object}  errorBody
// @Router       /api/database/tables/{tableName}/data [get]
func (h *DatabaseHandler) Data(c echo.Context) error {
	var q tableDataQuery
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &q); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "limit must be an integer")
	}
	if err := c.Validate(&q); err != nil {
		return err
	}

	table := c.Param("tableName")
	rows, err := h.service.Data(c.Request().Context(), table, q.Limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tableDataResponse{Table: table, Data: rows, Count: len(rows)})
}

// Seed inserts the sample catalog.
//
// @Summary      Seed sample data
// @Tags         database
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  messageResponse
// @Router       /api/database/seed [post]
func (h *DatabaseHandler) Seed(c echo.Context) error {
	if err := h.service.Seed(c.Request().Context()); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Success: true, Message: "Sample data seeded successfully"})
}

// Reset drops every application table.
//
// @Summary      Reset database
// @Tags         database
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  messageResponse
// @Router       /api/database/reset [delete]
func (h *DatabaseHandler) Reset(c echo.Context) error {
	if err := h.service.Reset(c.Request().Context()); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Success: true, Message: "Database reset successfully"})
}
