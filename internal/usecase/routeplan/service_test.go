package routeplan

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestService() *Service {
	return NewService(nil, 100, zap.NewNop())
}

func TestOptimizeKnownAddresses(t *testing.T) {
	service := newTestService()

	route := service.Optimize(&OptimizeRequest{
		Source:      "Mayapuri Industrial Area",
		Destination: "Bawana Industrial Area",
		VehicleType: "tempo",
		CargoWeight: 500,
	})

	require.Len(t, route.OptimizedPath, 4)
	require.Equal(t, "moderate", route.TrafficCondition)
	require.NotEmpty(t, route.Distance)
	require.NotEmpty(t, route.EstimatedTime)
	require.Len(t, route.AvoidanceZones, 2)

	// path endpoints are the geocoded source and destination
	require.Equal(t, defaultGeocodes["Mayapuri Industrial Area"], route.OptimizedPath[0])
	require.Equal(t, defaultGeocodes["Bawana Industrial Area"], route.OptimizedPath[3])
}

func TestOptimizeUnknownAddressFallsBack(t *testing.T) {
	service := newTestService()

	route := service.Optimize(&OptimizeRequest{
		Source:      "Nowhere Lane",
		Destination: "Nowhere Lane",
		VehicleType: "truck",
	})

	require.Equal(t, fallbackCoordinates, route.OptimizedPath[0])
	require.Equal(t, "0.0 km", route.Distance)
}

func TestAlternativesCatalogue(t *testing.T) {
	service := newTestService()

	alternatives := service.Alternatives(&AlternativesRequest{
		Source:      "Okhla Phase 1",
		Destination: "Okhla Phase 2",
	})

	require.Len(t, alternatives, 3)
	require.Equal(t, "Fastest Route", alternatives[0].Name)
	require.Equal(t, "Toll-Free Route", alternatives[2].Name)
}

func TestCostEstimate(t *testing.T) {
	service := newTestService()

	// 100 km by truck, no cargo: 100 * 0.15 = 15 L at ₹100 = ₹1500
	estimate := service.Cost(&CostRequest{
		Distance:    100,
		VehicleType: "truck",
	})
	require.Equal(t, 1500, estimate.FuelCost)
	require.Equal(t, 0, estimate.TollCost)
	require.Equal(t, 1500, estimate.TotalCost)

	// tolls add ₹2 per km, night runs cost 20% more
	estimate = service.Cost(&CostRequest{
		Distance:    100,
		VehicleType: "truck",
		TollRoads:   true,
		TimeOfDay:   "night",
	})
	require.Equal(t, 200, estimate.TollCost)
	require.Equal(t, 2040, estimate.TotalCost)
	require.InDelta(t, 1.2, estimate.Breakdown.TimeMultiplier, 1e-9)

	// cargo weight scales fuel burn linearly per tonne
	estimate = service.Cost(&CostRequest{
		Distance:    100,
		VehicleType: "truck",
		CargoWeight: 1000,
	})
	require.Equal(t, 3000, estimate.FuelCost)
}

func TestETAPeakHourSlowdown(t *testing.T) {
	service := newTestService()

	offPeak := time.Date(2026, 8, 28, 13, 0, 0, 0, time.UTC)
	eta := service.ETA(&ETARequest{
		Source:        "Mayapuri Industrial Area",
		Destination:   "Bawana Industrial Area",
		VehicleType:   "tempo",
		DepartureTime: &offPeak,
	})
	require.Equal(t, "35.0 km/h", eta.AverageSpeed)
	require.Equal(t, "considered", eta.TrafficImpact)
	require.True(t, eta.ArrivalTime.After(eta.DepartureTime))

	peak := time.Date(2026, 8, 28, 9, 0, 0, 0, time.UTC)
	eta = service.ETA(&ETARequest{
		Source:        "Mayapuri Industrial Area",
		Destination:   "Bawana Industrial Area",
		VehicleType:   "tempo",
		DepartureTime: &peak,
	})
	require.Equal(t, "24.5 km/h", eta.AverageSpeed)

	noTraffic := false
	eta = service.ETA(&ETARequest{
		Source:               "Mayapuri Industrial Area",
		Destination:          "Bawana Industrial Area",
		VehicleType:          "tempo",
		DepartureTime:        &peak,
		TrafficConsideration: &noTraffic,
	})
	require.Equal(t, "35.0 km/h", eta.AverageSpeed)
	require.Equal(t, "not considered", eta.TrafficImpact)
}

func TestAvoidanceZoneTypes(t *testing.T) {
	service := newTestService()

	zones := service.AvoidanceZones(28.6139, 77.2090, []string{"pollution"})
	require.Len(t, zones, 1)
	require.Equal(t, "pollution", zones[0].Type)

	zones = service.AvoidanceZones(28.6139, 77.2090, nil)
	require.Len(t, zones, 2)
}
