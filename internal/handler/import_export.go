package handler

import (
	"io"
	"net/http"

	"leadhub/internal/apierror"
	"leadhub/internal/dto"
	"leadhub/internal/service"

	"github.com/gin-gonic/gin"
)

type ImportExportHandler struct{ svc service.ImportExportService }

func NewImportExportHandler(svc service.ImportExportService) *ImportExportHandler {
	return &ImportExportHandler{svc: svc}
}

// Import godoc
// @Summary      Bulk import buyer leads from CSV
// @Description  Validates every row before writing anything; a single bad row
// @Description  rejects the whole file with per-row errors.
// @Tags         buyers
// @Accept       mpfd
// @Produce      json
// @Security     BearerAuth
// @Param        file formData file true "CSV file, at most 200 data rows"
// @Success      201 {object} dto.ImportResponse
// @Failure      400 {object} apierror.ImportError
// @Router       /v1/buyers/import [post]
func (h *ImportExportHandler) Import(c *gin.Context) {
	actor, ok := actorID(c)
	if !ok {
		return
	}

	var src io.Reader
	if file, err := c.FormFile("file"); err == nil {
		f, err := file.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("Could not read uploaded file"))
			return
		}
		defer f.Close()
		src = f
	} else {
		// Raw CSV body, for curl-style clients.
		src = c.Request.Body
	}

	inserted, err := h.svc.ImportCSV(c.Request.Context(), actor, src)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ImportResponse{Inserted: inserted})
}

// Export godoc
// @Summary  Export the filtered buyer list as CSV
// @Tags     buyers
// @Produce  text/csv
// @Security BearerAuth
// @Router   /v1/buyers/export [get]
func (h *ImportExportHandler) Export(c *gin.Context) {
	var filter dto.BuyerFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}

	data, err := h.svc.ExportCSV(c.Request.Context(), filter)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="buyers.csv"`)
	c.Data(http.StatusOK, "text/csv", data)
}
