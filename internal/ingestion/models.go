package ingestion

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"msme-logistics/pkg/geo"
)

// LocationMessage is the JSON payload drivers publish on
// drivers/<driverID>/location. The driver identity comes from the topic,
// never from the payload, so a compromised app cannot spoof another driver.
type LocationMessage struct {
	Latitude  float64    `json:"latitude"`
	Longitude float64    `json:"longitude"`
	SpeedKmh  *float64   `json:"speedKmh,omitempty"`
	Accuracy  *float64   `json:"accuracy,omitempty"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
}

// Validate rejects pings that cannot be a real GPS fix.
func (m *LocationMessage) Validate() error {
	if m.Latitude < -90 || m.Latitude > 90 {
		return fmt.Errorf("latitude out of range: %f", m.Latitude)
	}
	if m.Longitude < -180 || m.Longitude > 180 {
		return fmt.Errorf("longitude out of range: %f", m.Longitude)
	}
	if m.Latitude == 0 && m.Longitude == 0 {
		return fmt.Errorf("null island coordinates rejected")
	}
	if m.Accuracy != nil && *m.Accuracy < 0 {
		return fmt.Errorf("negative accuracy: %f", *m.Accuracy)
	}
	return nil
}

// Point converts the message to the [longitude, latitude] convention used
// throughout the delivery tracking data.
func (m *LocationMessage) Point() geo.Point {
	return geo.Point{m.Longitude, m.Latitude}
}

// DriverPing is a validated location fix attributed to a driver.
type DriverPing struct {
	DriverID   uuid.UUID
	Location   geo.Point
	ReceivedAt time.Time
}

// DriverIDFromTopic extracts the driver identifier from a topic of the form
// drivers/<uuid>/location.
func DriverIDFromTopic(topic string) (uuid.UUID, error) {
	parts := strings.Split(topic, "/")
	if len(parts) != 3 || parts[0] != "drivers" || parts[2] != "location" {
		return uuid.Nil, fmt.Errorf("unexpected topic shape: %s", topic)
	}
	id, err := uuid.Parse(parts[1])
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid driver id in topic %s: %w", topic, err)
	}
	return id, nil
}
