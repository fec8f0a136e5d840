// Package analogio provides entity wrappers around a physical (or
// simulated) data-acquisition channel, behind a small Port interface a
// front-end binary or test double implements — this package never talks to
// a DAQ driver directly.
//
// Grounded on original_source/src/analog_io.h's AnalogInput/AnalogOutput/
// AnalogIO classes, which wrap Comedi's calibrated soft-cal input/output
// objects. Comedi is a Linux kernel DAQ driver interface with no Go
// binding in this retrieval pack (and cgo-binding one from scratch would be
// inventing a dependency, which SPEC_FULL.md's grounding rule forbids) — so
// the original's ComediAnalogInputSoftCal/ComediAnalogOutputSoftCal members
// become the Port seam instead: §6 documents the CLI/env surface
// (COMEDI_DEVICE, AI_SUBDEVICE, ...) a separate front-end uses to construct
// a concrete Port, and this package's entities only know how to read/write
// one.
package analogio
