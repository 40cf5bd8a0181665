package handlers

import (
	"net/http"

	"parkingsoft/internal/http/middleware"
	"parkingsoft/internal/repositories"
	"parkingsoft/internal/services"

	"github.com/gin-gonic/gin"
)

func parkingService(c *gin.Context) services.ParkingService {
	return services.ParkingService{
		SpaceRepo:   repositories.SpaceRepository{},
		VehicleRepo: repositories.VehicleRepository{},
		RecordRepo:  repositories.RecordRepository{},
		RequestID:   middleware.GetRequestID(c),
	}
}

type entryRequest struct {
	ParkingSpaceID int64  `json:"parkingSpaceId"`
	LicensePlate   string `json:"licensePlate"`
	VehicleType    string `json:"vehicleType"`
	Brand          string `json:"brand"`
	Model          string `json:"model"`
	Color          string `json:"color"`
}

// POST /api/parking/entry
func RegisterVehicleEntry(c *gin.Context) {
	var req entryRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	svc := parkingService(c)
	result, err := svc.StartSession(services.EntryInput{
		SpaceID:      req.ParkingSpaceID,
		LicensePlate: req.LicensePlate,
		VehicleType:  req.VehicleType,
		Brand:        req.Brand,
		Model:        req.Model,
		Color:        req.Color,
	})
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":       "entry registered successfully",
		"parkingRecord": result.Record,
		"vehicle":       result.Vehicle,
		"parkingSpace":  result.Space,
	})
}

type exitRequest struct {
	ParkingRecordID int64  `json:"parkingRecordId"`
	PaymentMethod   string `json:"paymentMethod"`
}

// POST /api/parking/exit
func RegisterVehicleExit(c *gin.Context) {
	var req exitRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	svc := parkingService(c)
	record, err := svc.EndSession(req.ParkingRecordID, req.PaymentMethod)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":       "exit registered successfully",
		"parkingRecord": record,
	})
}
