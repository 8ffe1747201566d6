package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"registro/internal/services"
)

// RecordHandler handles HTTP requests for records.
type RecordHandler struct {
	service *services.RecordService
}

// NewRecordHandler creates a new RecordHandler.
func NewRecordHandler(service *services.RecordService) *RecordHandler {
	return &RecordHandler{
		service: service,
	}
}

// RegisterRoutes registers the record routes with the Fiber app. The search
// route is registered before the :id routes so "search" is never captured as
// a record id.
func (h *RecordHandler) RegisterRoutes(router fiber.Router) {
	recordRoutes := router.Group("/records")
	recordRoutes.Post("/", h.HandleCreate)
	recordRoutes.Get("/", h.HandleList)
	recordRoutes.Get("/search", h.HandleSearch)
	recordRoutes.Get("/:id", h.HandleGet)
	recordRoutes.Put("/:id", h.HandleUpdate)
	recordRoutes.Delete("/:id", h.HandleDelete)
}

// createRecordRequest is the request body for record creation.
type createRecordRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
}

// updateRecordRequest is the request body for a partial update. Pointer
// fields distinguish absent fields from fields set to an empty string.
type updateRecordRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Phone    *string `json:"phone"`
	Password *string `json:"password"`
}

// HandleCreate creates a new record.
func (h *RecordHandler) HandleCreate(c *fiber.Ctx) error {
	var req createRecordRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing create request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	record, err := h.service.Create(services.CreateRecordInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
	})
	if err != nil {
		return h.respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "record created successfully",
		"id":      record.ID,
		"name":    record.Name,
		"email":   record.Email,
	})
}

// HandleList returns one page of active records.
func (h *RecordHandler) HandleList(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	perPage := c.QueryInt("per_page", 10)

	result, err := h.service.List(page, perPage)
	if err != nil {
		return h.respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"records":  result.Records,
		"total":    result.Total,
		"page":     result.Page,
		"per_page": result.PerPage,
		"pages":    result.Pages,
	})
}

// HandleGet returns a single active record by id.
func (h *RecordHandler) HandleGet(c *fiber.Ctx) error {
	id, err := h.recordID(c)
	if err != nil {
		return h.respondError(c, err)
	}

	record, err := h.service.Get(id)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(record)
}

// HandleUpdate applies a partial update to an active record.
func (h *RecordHandler) HandleUpdate(c *fiber.Ctx) error {
	id, err := h.recordID(c)
	if err != nil {
		return h.respondError(c, err)
	}

	var req updateRecordRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing update request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	record, err := h.service.Update(id, services.UpdateRecordInput{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
	})
	if err != nil {
		return h.respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "record updated successfully",
		"record":  record,
	})
}

// HandleDelete soft-deletes an active record.
func (h *RecordHandler) HandleDelete(c *fiber.Ctx) error {
	id, err := h.recordID(c)
	if err != nil {
		return h.respondError(c, err)
	}

	if err := h.service.Delete(id); err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "record deleted successfully",
	})
}

// HandleSearch returns active records matching the q query parameter.
func (h *RecordHandler) HandleSearch(c *fiber.Ctx) error {
	records, err := h.service.Search(c.Query("q"))
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"records": records,
		"total":   len(records),
	})
}

// recordID parses the :id path parameter. A non-numeric or non-positive id
// maps to not-found, matching an id that cannot exist.
func (h *RecordHandler) recordID(c *fiber.Ctx) (uint, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return 0, services.ErrRecordNotFound
	}
	return uint(id), nil
}

// respondError maps service errors onto the HTTP error contract: validation
// failures are 400, email conflicts 409, missing records 404, anything else
// a 500 carrying the underlying cause.
func (h *RecordHandler) respondError(c *fiber.Ctx, err error) error {
	var vErr *services.ValidationError
	switch {
	case errors.As(err, &vErr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": vErr.Message,
		})
	case errors.Is(err, services.ErrEmailTaken):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": services.ErrEmailTaken.Error(),
		})
	case errors.Is(err, services.ErrRecordNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": services.ErrRecordNotFound.Error(),
		})
	}

	log.Printf("Internal error handling %s %s: %v", c.Method(), c.Path(), err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": "internal error",
		"error":   err.Error(),
	})
}
