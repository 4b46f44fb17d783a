package domain

import (
	"strings"
	"time"
)

type VehicleStatus string

const (
	VehicleActive      VehicleStatus = "Ativo"
	VehicleInactive    VehicleStatus = "Inativo"
	VehicleMaintenance VehicleStatus = "Manutenção"
)

// ValidVehicleStatus reports whether s is an accepted fleet status.
func ValidVehicleStatus(s VehicleStatus) bool {
	switch s {
	case VehicleActive, VehicleInactive, VehicleMaintenance:
		return true
	}
	return false
}

// NormalizePlate uppercases and trims a license plate. Plates are compared
// normalized everywhere, so every write path goes through here.
func NormalizePlate(plate string) string {
	return strings.ToUpper(strings.TrimSpace(plate))
}

// Vehicle is one crane truck in the fleet, identified by its plate.
type Vehicle struct {
	ID        int32         `json:"id"`
	Plate     string        `json:"plate"`
	Model     string        `json:"model"`
	Year      *int32        `json:"year,omitempty"`
	Status    VehicleStatus `json:"status"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

type VehicleRepository interface {
	Create(vehicle *Vehicle) (*Vehicle, error)
	GetByID(id int32) (*Vehicle, error)
	GetByPlate(plate string) (*Vehicle, error)
	GetAll() ([]*Vehicle, error)
	Update(vehicle *Vehicle) (*Vehicle, error)
	// Delete removes the vehicle along with its service records and
	// expenses (ON DELETE CASCADE on plate).
	Delete(id int32) error
}
