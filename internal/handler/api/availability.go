package api

import (
	"errors"
	"net/http"
	"strconv"

	"tablebook/internal/domain/booking"
	reqdto "tablebook/internal/handler/dto/request"
	resdto "tablebook/internal/handler/dto/response"
	"tablebook/internal/handler/httperr"
	"tablebook/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AvailabilityHandler struct {
	q queries.AvailabilityQueries
}

func NewAvailabilityHandler(q queries.AvailabilityQueries) *AvailabilityHandler {
	return &AvailabilityHandler{q: q}
}

// @Summary Branch availability
// @Description List bookable tables of a branch for a requested slot
// @Tags availability
// @Produce json
// @Param id path string true "Branch ID"
// @Param date query string true "Date (YYYY-MM-DD)"
// @Param start query string true "Slot start (HH:MM, branch-local)"
// @Param end query string true "Slot end (HH:MM, branch-local)"
// @Param party_size query int true "Party size"
// @Param theme query string false "Table theme filter"
// @Success 200 {object} resdto.AvailabilityResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /branches/{id}/availability [get]
func (h *AvailabilityHandler) GetBranchAvailability(c *gin.Context) {
	branchID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid branch ID format", nil)
		return
	}

	req, err := parseAvailabilityQuery(c, branchID)
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, err.Error(), nil)
		return
	}

	view, err := h.q.FindAvailableTables(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, queries.ErrBranchNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Branch not found", nil)
		case errors.Is(err, booking.ErrInvalidTimeOfDay), errors.Is(err, booking.ErrInvalidSlot):
			httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Invalid slot", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}
	c.JSON(http.StatusOK, resdto.FromAvailabilityView(view))
}

func parseAvailabilityQuery(c *gin.Context, branchID uuid.UUID) (queries.AvailabilityRequest, error) {
	date, err := reqdto.ParseDate(c.Query("date"))
	if err != nil {
		return queries.AvailabilityRequest{}, err
	}
	startMin, err := reqdto.ParseClock(c.Query("start"))
	if err != nil {
		return queries.AvailabilityRequest{}, err
	}
	endMin, err := reqdto.ParseClock(c.Query("end"))
	if err != nil {
		return queries.AvailabilityRequest{}, err
	}
	partySize, err := strconv.Atoi(c.Query("party_size"))
	if err != nil {
		return queries.AvailabilityRequest{}, errors.New("invalid party_size: expected a positive integer")
	}

	req := queries.AvailabilityRequest{
		BranchID:  branchID,
		Date:      date,
		StartMin:  startMin,
		EndMin:    endMin,
		PartySize: partySize,
	}
	if theme := c.Query("theme"); theme != "" {
		req.Theme = &theme
	}
	return req, nil
}
