package handlers

import (
	"errors"
	"io"
	"net/http"

	portssvc "github.com/SscSPs/homeos_backend/internal/core/ports/services"
	"github.com/SscSPs/homeos_backend/internal/dto"
	"github.com/gin-gonic/gin"
)

type myWorkHandler struct {
	shiftService portssvc.ShiftSvcFacade
}

func registerMyWorkRoutes(rg *gin.RouterGroup, shiftService portssvc.ShiftSvcFacade) {
	h := &myWorkHandler{shiftService: shiftService}

	work := rg.Group("/mywork")
	{
		work.POST("/start-shift", h.startShift)
		work.POST("/stop-shift", h.stopShift)
		work.GET("/shifts", h.listShifts)
		work.GET("/running", h.runningShift)
	}
}

// startShift godoc
// @Summary Start a shift
// @Tags mywork
// @Produce json
// @Success 200 {object} dto.SuccessResponse
// @Failure 409 {object} dto.ErrorResponse "Shift already started"
// @Security BearerAuth
// @Router /mywork/start-shift [post]
func (h *myWorkHandler) startShift(c *gin.Context) {
	identity, ok := mustIdentity(c)
	if !ok {
		return
	}

	if _, err := h.shiftService.StartShift(c.Request.Context(), identity); err != nil {
		respondError(c, err, "Failed to start shift")
		return
	}
	c.JSON(http.StatusOK, dto.SuccessResponse{Success: true})
}

// stopShift godoc
// @Summary Stop the running shift
// @Tags mywork
// @Accept json
// @Produce json
// @Param shift body dto.StopShiftRequest false "Worked minutes and pay"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "No active shift"
// @Security BearerAuth
// @Router /mywork/stop-shift [post]
func (h *myWorkHandler) stopShift(c *gin.Context) {
	identity, ok := mustIdentity(c)
	if !ok {
		return
	}

	var req dto.StopShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		respondBadRequest(c, "Invalid request format: "+err.Error())
		return
	}

	if _, err := h.shiftService.StopShift(c.Request.Context(), identity, req.Minutes, req.Pay); err != nil {
		respondError(c, err, "Failed to stop shift")
		return
	}
	c.JSON(http.StatusOK, dto.SuccessResponse{Success: true})
}

// listShifts godoc
// @Summary List my shifts
// @Tags mywork
// @Produce json
// @Success 200 {array} domain.ShiftRecord
// @Security BearerAuth
// @Router /mywork/shifts [get]
func (h *myWorkHandler) listShifts(c *gin.Context) {
	identity, ok := mustIdentity(c)
	if !ok {
		return
	}

	shifts, err := h.shiftService.ListShifts(c.Request.Context(), identity)
	if err != nil {
		respondError(c, err, "Failed to list shifts")
		return
	}
	c.JSON(http.StatusOK, shifts)
}

// runningShift godoc
// @Summary Get my running shift
// @Description Returns null when no shift is open.
// @Tags mywork
// @Produce json
// @Success 200 {object} domain.RunningShift
// @Security BearerAuth
// @Router /mywork/running [get]
func (h *myWorkHandler) runningShift(c *gin.Context) {
	identity, ok := mustIdentity(c)
	if !ok {
		return
	}

	running, err := h.shiftService.GetRunningShift(c.Request.Context(), identity)
	if err != nil {
		respondError(c, err, "Failed to get running shift")
		return
	}
	c.JSON(http.StatusOK, running)
}
