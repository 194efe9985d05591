package ingest

// Config controls batching and the graceful-stop ceilings. Ceilings are
// run limits supplied by configuration, not business rules; reaching one
// finalizes the run, it does not fail it.
type Config struct {
	// BatchSize is the number of mapped records buffered before a flush.
	BatchSize int
	// MaxLines caps lines scanned per file-import run. 0 means no ceiling.
	MaxLines int64
	// MaxProducts caps useful records persisted per file-import run.
	// 0 means no ceiling.
	MaxProducts int
	// MaxPages caps pages fetched per API sync run. 0 means no ceiling.
	MaxPages int
	// FilePath is the Open Food Facts JSONL dump location.
	FilePath string
	// ProgressEvery controls the streaming progress log interval, in lines.
	ProgressEvery int64
}

func DefaultConfig() Config {
	return Config{
		BatchSize:     100,
		MaxLines:      1_000_000,
		MaxProducts:   50_000,
		ProgressEvery: 10_000,
	}
}

func (c Config) withDefaults() Config {
	defaults := DefaultConfig()
	if c.BatchSize <= 0 {
		c.BatchSize = defaults.BatchSize
	}
	if c.ProgressEvery <= 0 {
		c.ProgressEvery = defaults.ProgressEvery
	}
	return c
}
