package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/liqued/storefront-api/internal/core/domain"
	"github.com/liqued/storefront-api/internal/core/ports"
)

type ContactHandler struct {
	service ports.ContactService
}

func NewContactHandler(service ports.ContactService) *ContactHandler {
	return &ContactHandler{service: service}
}

type contactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

type submitContactResponse struct {
	Message   string `json:"message"`
	MessageID int64  `json:"messageId"`
}

type contactListResponse struct {
	Messages []domain.ContactMessage `json:"messages"`
}

type contactResponse struct {
	Message *domain.ContactMessage `json:"message"`
}

// Submit stores a message from the public contact form.
//
// @Summary      Submit contact form
// @Tags         contact
// @Accept       json
// @Produce      json
// @Param        body  body      contactRequest  true  "Message"
// @Success      201   {object}  submitContactResponse
// @Failure      400   {object}  errorBody
// @Router       /api/contact/submit [post]
func (h *ContactHandler) Submit(c echo.Context) error {
	var req contactRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	id, err := h.service.Submit(c.Request().Context(), ports.ContactInput{
		Name:    req.Name,
		Email:   req.Email,
		Subject: req.Subject,
		Message: req.Message,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, submitContactResponse{Message: "Contact message sent successfully", MessageID: id})
}

// List returns all messages, newest first.
//
// @Summary      List contact messages
// @Tags         contact
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  contactListResponse
// @Router       /api/contact [get]
func (h *ContactHandler) List(c echo.Context) error {
	msgs, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, contactListResponse{Messages: msgs})
}

// Get returns one message.
//
// @Summary      Get contact message
// @Tags         contact
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Message ID"
// @Success      200  {object}  contactResponse
// @Failure      404  {object}  errorBody
// @Router       /api/contact/{id} [get]
func (h *ContactHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	msg, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, contactResponse{Message: msg})
}

// MarkRead flags a message as read.
//
// @Summary      Mark message read
// @Tags         contact
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Message ID"
// @Success      200  {object}  messageResponse
// @Failure      404  {object}  errorBody
// @Router       /api/contact/{id}/read [put]
func (h *ContactHandler) MarkRead(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.MarkRead(c.Request().Context(), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Message marked as read"})
}

// Delete removes a message.
//
// @Summary      Delete contact message
// @Tags         contact
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Message ID"
// @Success      200  {object}  messageResponse
// @Failure      404  {object}  errorBody
// @Router       /api/contact/{id} [delete]
func (h *ContactHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Message deleted successfully"})
}
