// Package stim implements the stimulus compiler (§4.4): it parses a stim
// file's whitespace-separated rows into a []Row, then compiles those rows
// into a contiguous []float64 sample array plus the original descriptor as
// an entity.Metadata matrix, ready for waveform.New and the recorder.
//
// Grounded on original_source/stimgen/{generate_trial,waveforms,rando}.c and
// original_source/common/stimulus.{h,cpp} (the Stimulus wrapper that calls
// generate_trial). Kind formulas are ported one-for-one from waveforms.c;
// row parsing is ported from file_parsing.c's readmatrix.
//
// Seed source decision (§9 Open Question, SPEC_FULL.md §3): each row draws
// from exactly one rng.Source, seeded from Row.Seed when Row.FixSeed is set,
// or from rng.NewHighEntropySource otherwise. The seed actually drawn is
// always written back into the row's metadata column (§4.4 "the seed in use
// is saved in metadata so that a recording is reproducible") — we do not
// additionally draw from any package-level generator.
package stim
