package domain

import "time"

// SyncStats holds statistics from a catalog sync
type SyncStats struct {
	PlotsAdded   int
	PlotsSkipped int // Already registered
	FilesScanned int
	Duration     time.Duration
}

// ScanResult lists the plot files found under a directory
type ScanResult struct {
	Files        []string // Slash-separated, relative to the scanned dir, lexical order
	FilesScanned int      // Every regular file visited, plot or not
}
