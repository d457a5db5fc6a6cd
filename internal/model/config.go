package model

// Config holds the monitoring rules for one run. It is parsed from the
// rules file by the adapter layer and immutable for the run's duration;
// the scan pipeline never reads YAML itself.
type Config struct {
	Include           []string
	Exclude           []string
	Algorithm         Algorithm
	MetadataSensitive bool
	MaxFileSize       int64
	LogLevel          string
	VerboseConsole    bool
}
