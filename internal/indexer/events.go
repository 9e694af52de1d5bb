package indexer

import "time"

// IndexBuiltEventType is the event-type header of IndexBuiltEvent messages.
const IndexBuiltEventType = "index.built"

// IndexBuiltEvent announces a freshly persisted snapshot. Searchers load the
// snapshot from Path and install it.
type IndexBuiltEvent struct {
	Version   int64     `json:"version"`
	Path      string    `json:"path"`
	Documents int       `json:"documents"`
	Terms     int       `json:"terms"`
	BuiltAt   time.Time `json:"built_at"`
}
