package routeplan

import (
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"msme-logistics/pkg/geo"
)

// Planning estimates are deterministic stand-ins for a real routing
// provider. Speeds, fuel rates and the geocode table are fixed; the public
// shapes stay stable so a mapping integration can replace the internals.

var vehicleSpeedsKmh = map[string]float64{
	"2-wheeler": 40,
	"tempo":     35,
	"truck":     30,
}

// Fuel burn per km, before cargo weight correction.
var fuelRatesPerKm = map[string]float64{
	"2-wheeler": 0.03,
	"tempo":     0.08,
	"truck":     0.15,
}

const (
	kgCO2PerLitre  = 2.3
	tollPerKm      = 2.0
	nightRateBoost = 1.2
)

// defaultGeocodes covers the Delhi industrial areas the platform launched
// with. Unknown addresses fall back to the city centre.
var defaultGeocodes = map[string]geo.Point{
	"Okhla Phase 1":            {77.2500, 28.5355},
	"Okhla Phase 2":            {77.2600, 28.5455},
	"Bawana Industrial Area":   {77.1025, 28.7041},
	"Mayapuri Industrial Area": {77.1025, 28.6139},
	"Wazirpur Industrial Area": {77.1625, 28.7041},
}

var fallbackCoordinates = geo.Point{77.2090, 28.6139}

type Service struct {
	geocodes  map[string]geo.Point
	fuelPrice float64
	logger    *zap.Logger
	now       func() time.Time
}

func NewService(geocodes map[string]geo.Point, fuelPrice float64, logger *zap.Logger) *Service {
	if geocodes == nil {
		geocodes = defaultGeocodes
	}
	if fuelPrice <= 0 {
		fuelPrice = 100
	}
	return &Service{
		geocodes:  geocodes,
		fuelPrice: fuelPrice,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *Service) geocode(address string) geo.Point {
	if point, ok := s.geocodes[address]; ok {
		return point
	}
	return fallbackCoordinates
}

// Optimize produces a full route estimate between two known addresses.
func (s *Service) Optimize(req *OptimizeRequest) *OptimizedRoute {
	source := s.geocode(req.Source)
	dest := s.geocode(req.Destination)

	distance := geo.DistanceKm(source, dest)
	duration := distance / vehicleSpeedsKmh[req.VehicleType] * 60
	fuel := fuelConsumption(distance, req.VehicleType, req.CargoWeight)
	cost := s.cost(distance, req.VehicleType, req.CargoWeight, !req.AvoidTolls, "day")

	return &OptimizedRoute{
		OptimizedPath:    interpolatePath(source, dest, 3),
		Distance:         fmt.Sprintf("%.1f km", distance),
		EstimatedTime:    formatDuration(duration),
		FuelEstimate:     fmt.Sprintf("%.1f L", fuel),
		FuelCost:         fmt.Sprintf("₹%d", cost.FuelCost),
		TollCost:         fmt.Sprintf("₹%d", cost.TollCost),
		TotalCost:        fmt.Sprintf("₹%d", cost.TotalCost),
		CarbonFootprint:  fmt.Sprintf("%.1f kg CO2", fuel*kgCO2PerLitre),
		TrafficCondition: "moderate",
		AvoidanceZones:   s.zonesAround(source, []string{"pollution", "congestion"}),
	}
}

// Alternatives returns the fixed three-route catalogue.
func (s *Service) Alternatives(req *AlternativesRequest) []AlternativeRoute {
	return []AlternativeRoute{
		{
			Name:        "Fastest Route",
			Distance:    "38.2 km",
			Time:        "1h 15m",
			Fuel:        "3.8 L",
			Cost:        "₹420",
			Description: "Shortest time via highways",
		},
		{
			Name:        "Eco-Friendly Route",
			Distance:    "45.8 km",
			Time:        "1h 35m",
			Fuel:        "3.9 L",
			Cost:        "₹310",
			Description: "Lower emissions, avoids pollution zones",
		},
		{
			Name:        "Toll-Free Route",
			Distance:    "48.3 km",
			Time:        "1h 45m",
			Fuel:        "4.8 L",
			Cost:        "₹280",
			Description: "No toll roads, budget-friendly",
		},
	}
}

// Traffic returns the canned snapshot for any position.
func (s *Service) Traffic(lat, lng float64) *TrafficSnapshot {
	return &TrafficSnapshot{
		CurrentCondition: "moderate",
		CongestionLevel:  0.6,
		AverageSpeed:     35,
		Incidents: []TrafficIncident{
			{
				Type:     "accident",
				Location: "Ring Road Junction",
				Severity: "medium",
				Delay:    "15 minutes",
			},
		},
		RoadClosures: []string{},
		PeakHours: PeakHours{
			Morning: "8:00-10:00",
			Evening: "17:00-20:00",
		},
	}
}

// AvoidanceZones returns the mock zones offset from the queried position.
func (s *Service) AvoidanceZones(lat, lng float64, types []string) []Zone {
	if len(types) == 0 {
		types = []string{"pollution", "congestion", "construction"}
	}
	return s.zonesAround(geo.Point{lng, lat}, types)
}

func (s *Service) zonesAround(center geo.Point, types []string) []Zone {
	zones := make([]Zone, 0, 2)
	for _, zoneType := range types {
		switch zoneType {
		case "pollution":
			zones = append(zones, Zone{
				ID:          "pollution_1",
				Name:        "High Pollution Zone",
				Type:        "pollution",
				Location:    "Industrial Area Gate",
				Reason:      "High air pollution levels",
				Coordinates: geo.Point{center[0] + 0.01, center[1] + 0.01},
				Severity:    "high",
				ActiveHours: "24/7",
			})
		case "congestion":
			zones = append(zones, Zone{
				ID:          "congestion_1",
				Name:        "Heavy Traffic Zone",
				Type:        "congestion",
				Location:    "Ring Road Junction",
				Reason:      "Peak hour congestion",
				Coordinates: geo.Point{center[0] - 0.01, center[1] - 0.01},
				Severity:    "medium",
				ActiveHours: "8:00-10:00, 17:00-20:00",
			})
		}
	}
	return zones
}

// Cost estimates the trip cost from distance and vehicle parameters.
func (s *Service) Cost(req *CostRequest) *CostEstimate {
	fuelPrice := req.FuelPrice
	if fuelPrice <= 0 {
		fuelPrice = s.fuelPrice
	}
	timeOfDay := req.TimeOfDay
	if timeOfDay == "" {
		timeOfDay = "day"
	}
	return s.costWithPrice(req.Distance, req.VehicleType, req.CargoWeight, req.TollRoads, timeOfDay, fuelPrice)
}

func (s *Service) cost(distance float64, vehicleType string, cargoWeight float64, tollRoads bool, timeOfDay string) *CostEstimate {
	return s.costWithPrice(distance, vehicleType, cargoWeight, tollRoads, timeOfDay, s.fuelPrice)
}

func (s *Service) costWithPrice(distance float64, vehicleType string, cargoWeight float64, tollRoads bool, timeOfDay string, fuelPrice float64) *CostEstimate {
	fuelConsumed := distance * fuelRatesPerKm[vehicleType] * (1 + cargoWeight/1000)
	fuelCost := fuelConsumed * fuelPrice

	tollCost := 0.0
	if tollRoads {
		tollCost = distance * tollPerKm
	}

	timeMultiplier := 1.0
	if timeOfDay == "night" {
		timeMultiplier = nightRateBoost
	}
	totalCost := (fuelCost + tollCost) * timeMultiplier

	return &CostEstimate{
		FuelCost:  int(math.Round(fuelCost)),
		TollCost:  int(math.Round(tollCost)),
		TotalCost: int(math.Round(totalCost)),
		Breakdown: CostBreakdown{
			BaseCost:       int(math.Round(fuelCost + tollCost)),
			TimeMultiplier: timeMultiplier,
			FinalCost:      int(math.Round(totalCost)),
		},
	}
}

// ETA predicts arrival from vehicle speed, slowed 30% inside peak hours when
// traffic is considered.
func (s *Service) ETA(req *ETARequest) *ETAPrediction {
	source := s.geocode(req.Source)
	dest := s.geocode(req.Destination)
	distance := geo.DistanceKm(source, dest)

	departure := s.now()
	if req.DepartureTime != nil {
		departure = *req.DepartureTime
	}
	considerTraffic := true
	if req.TrafficConsideration != nil {
		considerTraffic = *req.TrafficConsideration
	}

	speed := vehicleSpeedsKmh[req.VehicleType]
	trafficImpact := "not considered"
	if considerTraffic {
		trafficImpact = "considered"
		hour := departure.Hour()
		if (hour >= 8 && hour <= 10) || (hour >= 17 && hour <= 20) {
			speed *= 0.7
		}
	}

	durationHours := distance / speed
	arrival := departure.Add(time.Duration(durationHours * float64(time.Hour)))

	return &ETAPrediction{
		DepartureTime: departure,
		ArrivalTime:   arrival,
		Duration:      formatDuration(durationHours * 60),
		Distance:      fmt.Sprintf("%.1f km", distance),
		AverageSpeed:  fmt.Sprintf("%.1f km/h", speed),
		TrafficImpact: trafficImpact,
	}
}

func fuelConsumption(distance float64, vehicleType string, cargoWeight float64) float64 {
	weightFactor := 1 + (cargoWeight/1000)*0.1
	return distance * fuelRatesPerKm[vehicleType] * weightFactor
}

// interpolatePath draws evenly spaced waypoints on the straight line between
// the endpoints.
func interpolatePath(source, dest geo.Point, steps int) []geo.Point {
	path := []geo.Point{source}
	for i := 1; i < steps; i++ {
		ratio := float64(i) / float64(steps)
		path = append(path, geo.Point{
			source[0] + (dest[0]-source[0])*ratio,
			source[1] + (dest[1]-source[1])*ratio,
		})
	}
	return append(path, dest)
}

func formatDuration(minutes float64) string {
	hours := int(minutes) / 60
	mins := int(math.Round(math.Mod(minutes, 60)))
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, mins)
	}
	return fmt.Sprintf("%dm", mins)
}
