package handler

import (
	"net/http"

	"leadhub/internal/apierror"
	"leadhub/internal/dto"
	"leadhub/internal/service"
	"leadhub/internal/validation"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type BuyersHandler struct{ svc service.BuyerService }

func NewBuyersHandler(svc service.BuyerService) *BuyersHandler {
	return &BuyersHandler{svc: svc}
}

// Create godoc
// @Summary      Capture a new buyer lead
// @Tags         buyers
// @Security     BearerAuth
// @Param        body body validation.BuyerInput true "Candidate buyer fields"
// @Success      201 {object} dto.BuyerResponse
// @Failure      422 {object} apierror.ValidationError
// @Router       /v1/buyers [post]
func (h *BuyersHandler) Create(c *gin.Context) {
	owner, ok := actorID(c)
	if !ok {
		return
	}
	var in validation.BuyerInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid JSON: "+err.Error()))
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), owner, in)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// List godoc
// @Summary      List buyer leads with filters and pagination
// @Tags         buyers
// @Security     BearerAuth
// @Param        q            query string false "Search name / phone / email"
// @Param        city         query string false "City filter"
// @Param        propertyType query string false "Property type filter"
// @Param        status       query string false "Status filter"
// @Param        timeline     query string false "Timeline filter"
// @Success      200 {object} dto.BuyerListResponse
// @Router       /v1/buyers [get]
func (h *BuyersHandler) List(c *gin.Context) {
	var filter dto.BuyerFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Get godoc
// @Summary      Fetch one buyer with its 5 most recent history entries
// @Tags         buyers
// @Security     BearerAuth
// @Param        id path string true "Buyer UUID"
// @Success      200 {object} dto.BuyerWithHistoryResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/buyers/{id} [get]
func (h *BuyersHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid buyer id"))
		return
	}
	resp, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Update godoc
// @Summary      Update a buyer with optimistic concurrency
// @Description  The request must echo the updatedAt the caller last observed;
// @Description  a stale value is rejected with 409 and the record is unchanged.
// @Tags         buyers
// @Security     BearerAuth
// @Param        id   path string                true "Buyer UUID"
// @Param        body body dto.UpdateBuyerRequest true "Full buyer payload + observed updatedAt"
// @Success      200 {object} dto.BuyerWithHistoryResponse
// @Failure      409 {object} apierror.APIError
// @Failure      422 {object} apierror.ValidationError
// @Router       /v1/buyers/{id} [put]
func (h *BuyersHandler) Update(c *gin.Context) {
	actor, ok := actorID(c)
	if !ok {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid buyer id"))
		return
	}
	var req dto.UpdateBuyerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid JSON: "+err.Error()))
		return
	}
	if req.UpdatedAt.IsZero() {
		c.JSON(http.StatusBadRequest, apierror.New("updatedAt is required"))
		return
	}
	resp, err := h.svc.Update(c.Request.Context(), id, actor, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// LeadSheet godoc
// @Summary  Download a printable PDF summary for one buyer
// @Tags     buyers
// @Produce  application/pdf
// @Security BearerAuth
// @Param    id path string true "Buyer UUID"
// @Router   /v1/buyers/{id}/pdf [get]
func (h *BuyersHandler) LeadSheet(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid buyer id"))
		return
	}
	path, err := h.svc.LeadSheet(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.FileAttachment(path, "lead_"+id.String()+".pdf")
}
