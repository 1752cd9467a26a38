package fetch

// Event describes byte-level progress of a single locator fetch.
type Event struct {
	Locator    string
	BytesTotal int64 // Content-Length; -1 if unknown.
	BytesDone  int64
	Done       bool // Body fully read.
}
