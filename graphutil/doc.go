// Package graphutil implements the small "special entities" described in
// §4.2: Converter (runtime reparameterisation), Delay (a fixed-length
// sample delay line), Trigger/PeriodicTrigger (event emitters), EventCounter
// (threshold-triggered re-emission), and SpikeRateEstimator (the sliding
// spike-frequency estimator recovered from original_source/'s
// probability_estimator.h, per SPEC_FULL.md's supplemented features).
package graphutil
