package roomview

// DefaultPageSize is the page the server hands back for a history fetch;
// fewer results mean there is no older history.
const DefaultPageSize = 50

// paginator tracks the load-older-history state machine for one mount:
// idle, fetching, or exhausted. Not safe for concurrent use on its own,
// the controller serializes access.
type paginator struct {
	pageSize int
	end      bool
	loading  bool
}

func newPaginator(pageSize int) *paginator {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	return &paginator{pageSize: pageSize}
}

// tryBegin moves idle to fetching. It refuses while a fetch is in flight
// or once the history is exhausted.
func (p *paginator) tryBegin() bool {
	if p.loading || p.end {
		return false
	}

	p.loading = true

	return true
}

// finish settles a successful fetch. A short page marks the history
// exhausted for the rest of this mount.
func (p *paginator) finish(resultCount int) {
	p.loading = false
	if resultCount < p.pageSize {
		p.end = true
	}
}

// fail settles a failed fetch; the user may retry by scrolling again.
func (p *paginator) fail() {
	p.loading = false
}
