package user

import (
	"time"

	"github.com/google/uuid"
)

// Role is the closed set of principal roles in the platform.
type Role string

const (
	RoleMSME      Role = "msme"
	RoleDriver    Role = "driver"
	RoleWarehouse Role = "warehouse"
)

func (r Role) Valid() bool {
	switch r {
	case RoleMSME, RoleDriver, RoleWarehouse:
		return true
	}
	return false
}

// Principal identifies an authenticated caller. Services trust it as input;
// credential verification happens at the transport layer.
type Principal struct {
	ID   uuid.UUID
	Role Role
}

type Address struct {
	Street  string `json:"street,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	Pincode string `json:"pincode,omitempty"`
	Country string `json:"country,omitempty"`
}

type MSMEDetails struct {
	CompanyName     string `json:"companyName,omitempty"`
	BusinessType    string `json:"businessType,omitempty"`
	GSTNumber       string `json:"gstNumber,omitempty"`
	IndustryType    string `json:"industryType,omitempty"`
	EstablishedYear int    `json:"establishedYear,omitempty"`
}

type DriverDetails struct {
	LicenseNumber   string  `json:"licenseNumber,omitempty"`
	VehicleType     string  `json:"vehicleType,omitempty"`
	VehicleNumber   string  `json:"vehicleNumber,omitempty"`
	ExperienceYears int     `json:"experienceYears,omitempty"`
	Rating          float64 `json:"rating"`
	TotalDeliveries int     `json:"totalDeliveries"`
}

type WarehouseDetails struct {
	WarehouseName  string     `json:"warehouseName,omitempty"`
	Capacity       int        `json:"capacity,omitempty"`
	Coordinates    [2]float64 `json:"coordinates"`
	OperatingHours struct {
		Start string `json:"start,omitempty"`
		End   string `json:"end,omitempty"`
	} `json:"operatingHours"`
	Facilities []string `json:"facilities,omitempty"`
}

type User struct {
	ID           uuid.UUID
	Name         string
	Email        string
	Phone        string
	PasswordHash string
	Role         Role
	Language     string
	IsActive     bool
	IsVerified   bool
	Address      Address

	MSMEDetails      *MSMEDetails
	DriverDetails    *DriverDetails
	WarehouseDetails *WarehouseDetails

	LastLogin *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}
