package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"parkingsoft/internal/domain"
	"parkingsoft/internal/domain/models"
	"parkingsoft/internal/repositories"

	"github.com/gin-gonic/gin"
)

// GET /api/parking/spaces
func GetParkingSpaces(c *gin.Context) {
	repo := repositories.SpaceRepository{}
	spaces, err := repo.List()
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, spaces)
}

type spacePayload struct {
	Number     string  `json:"number"`
	Floor      string  `json:"floor"`
	Type       string  `json:"type"`
	HourlyRate float64 `json:"hourlyRate"`
}

// POST /api/parking/spaces (admin)
func CreateParkingSpace(c *gin.Context) {
	var payload spacePayload
	if !BindJSONOrError(c, &payload) {
		return
	}

	number := strings.TrimSpace(payload.Number)
	floor := strings.TrimSpace(payload.Floor)
	if number == "" || floor == "" {
		RespondDomainError(c, domain.ValidationError{Field: "number/floor", Msg: "are required"})
		return
	}
	if payload.HourlyRate < 0 {
		RespondDomainError(c, domain.ValidationError{Field: "hourlyRate", Msg: "cannot be negative"})
		return
	}
	spaceType, err := domain.ParseSpaceType(payload.Type)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	space := models.ParkingSpace{
		Number:     number,
		Floor:      floor,
		Type:       spaceType,
		Status:     domain.SpaceAvailable,
		HourlyRate: payload.HourlyRate,
	}
	repo := repositories.SpaceRepository{}
	if err := repo.Create(&space); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, space)
}

type spaceUpdatePayload struct {
	Type       *string  `json:"type"`
	Status     *string  `json:"status"`
	HourlyRate *float64 `json:"hourlyRate"`
}

// PUT /api/parking/spaces/:id (admin)
// Maintenance-level edits only. The occupancy fields belong to
// entry/exit; a space cannot be forced into or out of occupied here.
func UpdateParkingSpace(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		RespondError(c, http.StatusBadRequest, "invalid space id", err)
		return
	}

	var payload spaceUpdatePayload
	if !BindJSONOrError(c, &payload) {
		return
	}

	repo := repositories.SpaceRepository{}
	space, err := repo.GetByID(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	if space.Status == domain.SpaceOccupied {
		RespondDomainError(c, domain.ConflictError{Resource: "parking space", Msg: "space is occupied"})
		return
	}

	if payload.Type != nil {
		if space.Type, err = domain.ParseSpaceType(*payload.Type); err != nil {
			RespondDomainError(c, err)
			return
		}
	}
	if payload.Status != nil {
		status, err := domain.ParseSpaceStatus(*payload.Status)
		if err != nil {
			RespondDomainError(c, err)
			return
		}
		if status == domain.SpaceOccupied {
			RespondDomainError(c, domain.ValidationError{Field: "status", Msg: "occupied is set by vehicle entry only"})
			return
		}
		space.Status = status
	}
	if payload.HourlyRate != nil {
		if *payload.HourlyRate < 0 {
			RespondDomainError(c, domain.ValidationError{Field: "hourlyRate", Msg: "cannot be negative"})
			return
		}
		space.HourlyRate = *payload.HourlyRate
	}

	updated, err := repo.UpdateSettings(space.ID, space.Type, space.Status, space.HourlyRate)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	if !updated {
		// the space got occupied between read and write
		RespondDomainError(c, domain.ConflictError{Resource: "parking space", Msg: "space is occupied"})
		return
	}
	c.JSON(http.StatusOK, space)
}
