package sensor

import (
	"math"
	"math/rand/v2"
	"sync"
	"time"
)

// Generator produces random readings and snapshots.
type Generator struct {
	mu  sync.Mutex
	rng *rand.Rand
	now func() time.Time
}

// NewGenerator creates a Generator seeded from the runtime's random source.
func NewGenerator() *Generator {
	return NewSeededGenerator(rand.Uint64(), rand.Uint64())
}

// NewSeededGenerator creates a deterministic Generator. Useful in tests.
func NewSeededGenerator(seed1, seed2 uint64) *Generator {
	return &Generator{
		rng: rand.New(rand.NewPCG(seed1, seed2)),
		now: time.Now,
	}
}

// SetClock replaces the time source. It must be called before the Generator
// is shared between goroutines.
func (g *Generator) SetClock(now func() time.Time) {
	if now != nil {
		g.now = now
	}
}

// Now returns the current time formatted with TimestampFormat.
func (g *Generator) Now() string {
	return g.now().Format(TimestampFormat)
}

// Reading builds the reading with the given counter value.
func (g *Generator) Reading(counter int) SensorReading {
	g.mu.Lock()
	temperature := temperatureBase + g.uniform(temperatureMin, temperatureMax)
	humidity := humidityBase + g.uniform(humidityMin, humidityMax)
	pressure := pressureBase + g.uniform(pressureMin, pressureMax)
	signal := signalMin + g.rng.IntN(signalMax-signalMin+1)
	g.mu.Unlock()

	return SensorReading{
		Timestamp:      g.Now(),
		Counter:        counter,
		Temperature:    Round(temperature, 2),
		Humidity:       Round(humidity, 2),
		Pressure:       Round(pressure, 2),
		Battery:        Battery(counter),
		SignalStrength: signal,
	}
}

// Snapshot builds a device snapshot for deviceID.
func (g *Generator) Snapshot(deviceID string) SensorSnapshot {
	if deviceID == "" {
		deviceID = DefaultDeviceID
	}

	g.mu.Lock()
	sensors := Sensors{
		Temperature: Round(g.uniform(snapshotTemperatureMin, snapshotTemperatureMax), 2),
		Humidity:    Round(g.uniform(snapshotHumidityMin, snapshotHumidityMax), 2),
		Pressure:    Round(g.uniform(snapshotPressureMin, snapshotPressureMax), 2),
	}
	g.mu.Unlock()

	return SensorSnapshot{
		Timestamp: g.Now(),
		DeviceID:  deviceID,
		Location:  DefaultLocation,
		Sensors:   sensors,
		Status:    StatusActive,
	}
}

// Ingest wraps an already parsed client payload.
func (g *Generator) Ingest(received any) IngestResponse {
	return IngestResponse{
		Status:    IngestStatusSuccess,
		Timestamp: g.Now(),
		Received:  received,
	}
}

// uniform draws from [lo, hi). Caller holds g.mu.
func (g *Generator) uniform(lo, hi float64) float64 {
	return lo + (hi-lo)*g.rng.Float64()
}

// Battery returns the battery level reported with the given counter.
// It drains linearly by half a percent per reading and is not clamped.
func Battery(counter int) float64 {
	return Round(batteryFull-float64(counter)*batteryDrainPct, 1)
}

// Round rounds v to the given number of decimal places.
func Round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
