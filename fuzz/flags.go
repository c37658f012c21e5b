package fuzz

import "flag"

// Command-line flags, mirroring the reference library's -rapidx.* knobs
// under the new -fuzzcore.* namespace. A caller that wants flag-driven
// configuration builds its Config from DefaultConfig() instead of a
// literal struct.
var (
	flagSeed      = flag.Int64("fuzzcore.seed", 0, "run seed (0 derives one from the current time)")
	flagTrials    = flag.Int("fuzzcore.trials", DefaultTrials, "number of trials per run")
	flagBloomBits = flag.Int("fuzzcore.bloombits", DefaultBloomBits, "Bloom filter size in bits (0 disables dedup)")
	flagFork      = flag.Bool("fuzzcore.fork", false, "run each trial's property call in an isolated worker process")
)

// DefaultConfig returns a Config seeded from the -fuzzcore.* flags, a
// caller's remaining fields (Name, Prop*, TypeInfo, Hooks, ...) still need
// to be filled in before Run.
func DefaultConfig() Config {
	return Config{
		Seed:      uint64(*flagSeed),
		Trials:    *flagTrials,
		BloomBits: *flagBloomBits,
		Fork:      ForkConfig{Enable: *flagFork},
	}
}
