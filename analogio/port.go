package analogio

// Port is the seam between this package's entities and an actual DAQ
// channel. A front-end binary implements it over a real device (Comedi,
// NI-DAQmx, ...); tests implement it with an in-memory double. Read/Write
// report raw converted physical units (volts, typically) — the
// conversionFactor and ground-reference handling described in §6 are
// applied by the entities in this package, not by Port implementations.
type Port interface {
	// Read samples the channel once.
	Read() (float64, error)
	// Write drives the channel to v.
	Write(v float64) error
	// Close releases the channel. Called once, from Terminate.
	Close() error
}
