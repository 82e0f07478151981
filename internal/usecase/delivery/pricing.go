package delivery

import (
	"math"

	domDelivery "msme-logistics/internal/domain/delivery"
)

// Per-vehicle base rates in INR. Fixed business constants, not tunables.
var vehicleBaseRates = map[domDelivery.VehicleType]float64{
	domDelivery.VehicleTwoWheeler: 50,
	domDelivery.VehicleTempo:      100,
	domDelivery.VehicleTruck:      200,
}

// BaseFare prices a delivery: the vehicle's base rate scaled by 10% per
// started 10 kg of cargo weight.
func BaseFare(vehicleType domDelivery.VehicleType, weightKg float64) float64 {
	weightMultiplier := math.Ceil(weightKg/10) * 0.1
	return vehicleBaseRates[vehicleType] * (1 + weightMultiplier)
}
