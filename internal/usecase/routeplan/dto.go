package routeplan

import (
	"time"

	"msme-logistics/pkg/geo"
)

type OptimizeRequest struct {
	Source        string  `json:"source" validate:"required"`
	Destination   string  `json:"destination" validate:"required"`
	CargoType     string  `json:"cargoType" validate:"omitempty,cargo_type"`
	CargoWeight   float64 `json:"cargoWeight" validate:"omitempty,min=0"`
	VehicleType   string  `json:"vehicleType" validate:"required,vehicle_type"`
	AvoidTolls    bool    `json:"avoidTolls"`
	AvoidHighways bool    `json:"avoidHighways"`
	EcoFriendly   bool    `json:"ecoFriendly"`
}

type OptimizedRoute struct {
	OptimizedPath    []geo.Point `json:"optimizedPath"`
	Distance         string      `json:"distance"`
	EstimatedTime    string      `json:"estimatedTime"`
	FuelEstimate     string      `json:"fuelEstimate"`
	FuelCost         string      `json:"fuelCost"`
	TollCost         string      `json:"tollCost"`
	TotalCost        string      `json:"totalCost"`
	CarbonFootprint  string      `json:"carbonFootprint"`
	TrafficCondition string      `json:"trafficCondition"`
	AvoidanceZones   []Zone      `json:"avoidanceZones"`
}

type AlternativesRequest struct {
	Source      string `json:"source" validate:"required"`
	Destination string `json:"destination" validate:"required"`
	VehicleType string `json:"vehicleType" validate:"omitempty,vehicle_type"`
}

type AlternativeRoute struct {
	Name        string `json:"name"`
	Distance    string `json:"distance"`
	Time        string `json:"time"`
	Fuel        string `json:"fuel"`
	Cost        string `json:"cost"`
	Description string `json:"description"`
}

type TrafficIncident struct {
	Type     string `json:"type"`
	Location string `json:"location"`
	Severity string `json:"severity"`
	Delay    string `json:"delay"`
}

type TrafficSnapshot struct {
	CurrentCondition string            `json:"currentCondition"`
	CongestionLevel  float64           `json:"congestionLevel"`
	AverageSpeed     int               `json:"averageSpeed"`
	Incidents        []TrafficIncident `json:"incidents"`
	RoadClosures     []string          `json:"roadClosures"`
	PeakHours        PeakHours         `json:"peakHours"`
}

type PeakHours struct {
	Morning string `json:"morning"`
	Evening string `json:"evening"`
}

type Zone struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Type        string    `json:"type"`
	Location    string    `json:"location"`
	Reason      string    `json:"reason"`
	Coordinates geo.Point `json:"coordinates"`
	Severity    string    `json:"severity"`
	ActiveHours string    `json:"activeHours"`
}

type CostRequest struct {
	Distance    float64 `json:"distance" validate:"required,min=0"`
	VehicleType string  `json:"vehicleType" validate:"required,vehicle_type"`
	CargoWeight float64 `json:"cargoWeight" validate:"omitempty,min=0"`
	FuelPrice   float64 `json:"fuelPrice" validate:"omitempty,min=0"`
	TollRoads   bool    `json:"tollRoads"`
	TimeOfDay   string  `json:"timeOfDay" validate:"omitempty,oneof=day night"`
}

type CostEstimate struct {
	FuelCost  int           `json:"fuelCost"`
	TollCost  int           `json:"tollCost"`
	TotalCost int           `json:"totalCost"`
	Breakdown CostBreakdown `json:"breakdown"`
}

type CostBreakdown struct {
	BaseCost       int     `json:"baseCost"`
	TimeMultiplier float64 `json:"timeMultiplier"`
	FinalCost      int     `json:"finalCost"`
}

type ETARequest struct {
	Source               string     `json:"source" validate:"required"`
	Destination          string     `json:"destination" validate:"required"`
	VehicleType          string     `json:"vehicleType" validate:"required,vehicle_type"`
	DepartureTime        *time.Time `json:"departureTime"`
	TrafficConsideration *bool      `json:"trafficConsideration"`
}

type ETAPrediction struct {
	DepartureTime time.Time `json:"departureTime"`
	ArrivalTime   time.Time `json:"arrivalTime"`
	Duration      string    `json:"duration"`
	Distance      string    `json:"distance"`
	AverageSpeed  string    `json:"averageSpeed"`
	TrafficImpact string    `json:"trafficImpact"`
}
