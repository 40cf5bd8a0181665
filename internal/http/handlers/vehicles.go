package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"parkingsoft/internal/domain"
	"parkingsoft/internal/domain/models"
	"parkingsoft/internal/http/middleware"
	"parkingsoft/internal/repositories"

	"github.com/gin-gonic/gin"
)

func isAdmin(c *gin.Context) bool {
	return strings.EqualFold(middleware.GetUserRole(c), domain.RoleAdmin)
}

func ownsVehicle(c *gin.Context, v models.Vehicle) bool {
	if isAdmin(c) {
		return true
	}
	return v.OwnerID != nil && *v.OwnerID == middleware.GetUserID(c)
}

// GET /api/vehicles
// Admins see the whole registry; standard users only their own.
func GetVehicles(c *gin.Context) {
	repo := repositories.VehicleRepository{}

	var owner *int64
	if !isAdmin(c) {
		id := middleware.GetUserID(c)
		owner = &id
	}

	vehicles, err := repo.List(owner)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, vehicles)
}

// GET /api/vehicles/:id
func GetVehicleByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		RespondError(c, http.StatusBadRequest, "invalid vehicle id", err)
		return
	}

	repo := repositories.VehicleRepository{}
	vehicle, err := repo.GetByID(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	if !ownsVehicle(c, vehicle) {
		RespondError(c, http.StatusForbidden, "not authorized to view this vehicle", nil)
		return
	}
	c.JSON(http.StatusOK, vehicle)
}

type vehiclePayload struct {
	LicensePlate string `json:"licensePlate"`
	Type         string `json:"type"`
	Brand        string `json:"brand"`
	Model        string `json:"model"`
	Color        string `json:"color"`
}

// POST /api/vehicles
func CreateVehicle(c *gin.Context) {
	var payload vehiclePayload
	if !BindJSONOrError(c, &payload) {
		return
	}

	plate := domain.NormalizePlate(payload.LicensePlate)
	if plate == "" {
		RespondDomainError(c, domain.ValidationError{Field: "licensePlate", Msg: "is required"})
		return
	}
	vehicleType, err := domain.ParseVehicleType(payload.Type)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	ownerID := middleware.GetUserID(c)
	vehicle := models.Vehicle{
		LicensePlate: plate,
		Type:         vehicleType,
		Brand:        strings.TrimSpace(payload.Brand),
		Model:        strings.TrimSpace(payload.Model),
		Color:        strings.TrimSpace(payload.Color),
		OwnerID:      &ownerID,
	}

	repo := repositories.VehicleRepository{}
	if err := repo.Create(&vehicle); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, vehicle)
}

// PUT /api/vehicles/:id
func UpdateVehicle(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		RespondError(c, http.StatusBadRequest, "invalid vehicle id", err)
		return
	}

	var payload vehiclePayload
	if !BindJSONOrError(c, &payload) {
		return
	}

	repo := repositories.VehicleRepository{}
	vehicle, err := repo.GetByID(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	if !ownsVehicle(c, vehicle) {
		RespondError(c, http.StatusForbidden, "not authorized to update this vehicle", nil)
		return
	}

	if plate := domain.NormalizePlate(payload.LicensePlate); plate != "" {
		vehicle.LicensePlate = plate
	}
	if payload.Type != "" {
		if vehicle.Type, err = domain.ParseVehicleType(payload.Type); err != nil {
			RespondDomainError(c, err)
			return
		}
	}
	if v := strings.TrimSpace(payload.Brand); v != "" {
		vehicle.Brand = v
	}
	if v := strings.TrimSpace(payload.Model); v != "" {
		vehicle.Model = v
	}
	if v := strings.TrimSpace(payload.Color); v != "" {
		vehicle.Color = v
	}

	if err := repo.Update(vehicle); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, vehicle)
}

// DELETE /api/vehicles/:id
// A vehicle with parking history stays; the repository reports it as
// Conflict via the FK restriction.
func DeleteVehicle(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		RespondError(c, http.StatusBadRequest, "invalid vehicle id", err)
		return
	}

	repo := repositories.VehicleRepository{}
	vehicle, err := repo.GetByID(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	if !ownsVehicle(c, vehicle) {
		RespondError(c, http.StatusForbidden, "not authorized to delete this vehicle", nil)
		return
	}

	if err := repo.Delete(id); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "vehicle deleted"})
}

// GET /api/vehicles/search/:licensePlate
func SearchVehicleByPlate(c *gin.Context) {
	fragment := domain.NormalizePlate(c.Param("licensePlate"))
	if fragment == "" {
		RespondDomainError(c, domain.ValidationError{Field: "licensePlate", Msg: "is required"})
		return
	}

	repo := repositories.VehicleRepository{}
	vehicles, err := repo.SearchByPlate(fragment)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, vehicles)
}
