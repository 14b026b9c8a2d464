package sensor

import "time"

// TimestampFormat is the layout used for every timestamp emitted by the server.
// It is ISO-8601 local time with microsecond precision and a UTC offset.
const TimestampFormat = "2006-01-02T15:04:05.000000-07:00"

// Stream and snapshot defaults. These are fixture constants, not protocol
// invariants; the server exposes them through configuration.
const (
	// DefaultStreamLength is the number of readings emitted per stream session.
	DefaultStreamLength = 120

	// DefaultStreamInterval is the pause between two readings.
	DefaultStreamInterval = time.Second

	// DefaultDeviceID is reported in snapshots.
	DefaultDeviceID = "test-device-001"

	// StatusActive is the only device status the fixture reports.
	StatusActive = "active"

	// IngestStatusSuccess is the status of an accepted ingest.
	IngestStatusSuccess = "success"
)

// DefaultLocation is the fixed position reported in snapshots.
var DefaultLocation = Location{Lat: 40.7128, Lng: -74.0060}

// Value ranges of a stream reading, expressed as base + uniform(min, max).
const (
	temperatureBase = 20.0
	temperatureMin  = -5.0
	temperatureMax  = 15.0

	humidityBase = 50.0
	humidityMin  = -10.0
	humidityMax  = 30.0

	pressureBase = 1013.25
	pressureMin  = -50.0
	pressureMax  = 50.0

	batteryFull     = 100.0
	batteryDrainPct = 0.5

	signalMin = -80
	signalMax = -30
)

// Value ranges of a snapshot.
const (
	snapshotTemperatureMin = 15.0
	snapshotTemperatureMax = 35.0
	snapshotHumidityMin    = 30.0
	snapshotHumidityMax    = 80.0
	snapshotPressureMin    = 980.0
	snapshotPressureMax    = 1040.0
)

// SensorReading is one record of a stream session.
type SensorReading struct {
	Timestamp      string  `json:"timestamp"`
	Counter        int     `json:"counter"`
	Temperature    float64 `json:"temperature"`
	Humidity       float64 `json:"humidity"`
	Pressure       float64 `json:"pressure"`
	Battery        float64 `json:"battery"`
	SignalStrength int     `json:"signal_strength"`
}

// Location is a WGS84 coordinate pair.
type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Sensors groups the environmental values of a snapshot.
type Sensors struct {
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
	Pressure    float64 `json:"pressure"`
}

// SensorSnapshot is the single-shot device state returned by GET /data.
type SensorSnapshot struct {
	Timestamp string   `json:"timestamp"`
	DeviceID  string   `json:"device_id"`
	Location  Location `json:"location"`
	Sensors   Sensors  `json:"sensors"`
	Status    string   `json:"status"`
}

// IngestResponse wraps client-submitted JSON. Received is echoed unchanged.
type IngestResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Received  any    `json:"received"`
}
