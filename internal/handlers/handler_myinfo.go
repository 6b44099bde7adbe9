package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	portssvc "github.com/SscSPs/homeos_backend/internal/core/ports/services"
	"github.com/SscSPs/homeos_backend/internal/dto"
	"github.com/gin-gonic/gin"
)

// maxRecordsBody caps the size of a personal records payload.
const maxRecordsBody = 1 << 20

type myInfoHandler struct {
	recordService portssvc.RecordSvcFacade
}

func registerMyInfoRoutes(rg *gin.RouterGroup, recordService portssvc.RecordSvcFacade) {
	h := &myInfoHandler{recordService: recordService}

	info := rg.Group("/myinfo")
	{
		info.GET("/records", h.getRecords)
		info.POST("/records", h.saveRecords)
	}
}

// getRecords godoc
// @Summary Get my records
// @Description Returns the stored JSON value, or an empty object.
// @Tags myinfo
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /myinfo/records [get]
func (h *myInfoHandler) getRecords(c *gin.Context) {
	identity, ok := mustIdentity(c)
	if !ok {
		return
	}

	records, err := h.recordService.GetRecords(c.Request.Context(), identity)
	if err != nil {
		respondError(c, err, "Failed to get records")
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", records)
}

// saveRecords godoc
// @Summary Replace my records
// @Tags myinfo
// @Accept json
// @Produce json
// @Param records body object true "Any JSON value"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /myinfo/records [post]
func (h *myInfoHandler) saveRecords(c *gin.Context) {
	identity, ok := mustIdentity(c)
	if !ok {
		return
	}

	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxRecordsBody+1))
	if err != nil {
		respondBadRequest(c, "Failed to read request body")
		return
	}
	if len(body) > maxRecordsBody {
		c.JSON(http.StatusRequestEntityTooLarge, dto.ErrorResponse{Success: false, Error: "Records too large"})
		return
	}

	if err := h.recordService.SetRecords(c.Request.Context(), identity, json.RawMessage(body)); err != nil {
		respondError(c, err, "Failed to save records")
		return
	}
	c.JSON(http.StatusOK, dto.SuccessResponse{Success: true})
}
