// Package wellnesshandler exposes manual wellness check triggers.
package wellnesshandler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"companion-server/internal/domain/wellness"
	"companion-server/internal/interfaces/httpserver/responses"
	"companion-server/internal/utils/platformerrors"
)

type WellnessHandler struct {
	wellness *wellness.Service
}

func NewWellnessHandler(wellnessService *wellness.Service) *WellnessHandler {
	return &WellnessHandler{wellness: wellnessService}
}

// SendOne handles POST /v1/wellness/send/:id.
func (h *WellnessHandler) SendOne(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()

	id, err := strconv.ParseUint(reqCtx.Param("id"), 10, 32)
	if err != nil {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeValidation,
			"invalid recipient id", "f1e8c5a2-9d3b-4746-80f1-6b4d2a8e5c97")
		return
	}

	if err := h.wellness.DispatchOne(ctx, uint(id)); err != nil {
		responses.HandleError(reqCtx, err, "failed to send wellness check")
		return
	}
	reqCtx.JSON(http.StatusOK, gin.H{"status": "sent"})
}

// SendAll handles POST /v1/wellness/dispatch. The period defaults to the
// current time of day.
func (h *WellnessHandler) SendAll(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()

	period := wellness.Period(reqCtx.Query("period"))
	switch period {
	case wellness.PeriodMorning, wellness.PeriodAfternoon, wellness.PeriodEvening:
	case "":
		period = wellness.CurrentPeriod(time.Now())
	default:
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeValidation,
			"period must be morning, afternoon or evening", "3b9f6d1e-4c7a-4852-a0b3-8e2c5f9d1764")
		return
	}

	sent, err := h.wellness.DispatchAll(ctx, period, "manual")
	if err != nil {
		responses.HandleError(reqCtx, err, "failed to dispatch wellness checks")
		return
	}
	reqCtx.JSON(http.StatusOK, gin.H{"period": period, "sent": sent})
}
