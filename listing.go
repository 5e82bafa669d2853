package lawharvest

import "context"

// ListingEntry is a candidate document found on a listing source.
type ListingEntry struct {
	// URL is the document link. Table rows without a link leave it empty.
	URL string
	// Page is the listing page the entry was read from.
	Page  string
	Title string
	// Published is the raw date the listing gave for the entry, if any.
	Published string
	// Meta holds the secondary listing column (legislation tables only).
	Meta string
}

// ListingStrategy discovers candidate document URLs from one kind of source.
type ListingStrategy interface {
	// Name identifies the strategy in logs.
	Name() string

	// Discover returns at most limit entries in listing order.
	Discover(ctx context.Context, limit int) ([]ListingEntry, error)
}

// URLFrontier manages a breadth-first queue of listing pages with deduplication.
type URLFrontier interface {
	// Push queues a URL. Returns false if the URL has already been seen.
	Push(url string) bool

	// Pop returns the oldest queued URL.
	// Returns false if the frontier is empty.
	Pop() (string, bool)

	// Len returns the number of URLs in the queue.
	Len() int

	// Seen returns true if the URL has been visited or queued.
	Seen(url string) bool
}
