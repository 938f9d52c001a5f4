package collector

import "webcollect/internal/set"

type frontierEntry struct {
	url   string
	depth int
}

// frontier is the FIFO queue of addresses awaiting a fetch.
type frontier struct {
	entries []frontierEntry
	queued  *set.Set[string]
}

func newFrontier() *frontier {
	return &frontier{
		queued: set.New[string](),
	}
}

func (f *frontier) push(entry frontierEntry) {
	f.entries = append(f.entries, entry)
	f.queued.Add(entry.url)
}

func (f *frontier) pop() (frontierEntry, bool) {
	if len(f.entries) == 0 {
		return frontierEntry{}, false
	}

	entry := f.entries[0]
	f.entries[0] = frontierEntry{}
	f.entries = f.entries[1:]
	f.queued.Remove(entry.url)

	return entry, true
}

func (f *frontier) contains(url string) bool {
	return f.queued.Has(url)
}

func (f *frontier) len() int {
	return len(f.entries)
}
