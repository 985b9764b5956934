package roomview

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaginatorFullPageStaysIdle(t *testing.T) {
	p := newPaginator(50)

	assert.True(t, p.tryBegin())
	p.finish(50)

	assert.False(t, p.end)
	assert.False(t, p.loading)
	assert.True(t, p.tryBegin())
}

func TestPaginatorShortPageExhausts(t *testing.T) {
	p := newPaginator(50)

	assert.True(t, p.tryBegin())
	p.finish(12)

	assert.True(t, p.end)
	// exhausted is terminal for this mount
	assert.False(t, p.tryBegin())
	assert.False(t, p.tryBegin())
}

func TestPaginatorInFlightGuard(t *testing.T) {
	p := newPaginator(50)

	assert.True(t, p.tryBegin())
	assert.False(t, p.tryBegin())

	p.fail()

	// a failure resets to idle so the user can retry
	assert.False(t, p.end)
	assert.True(t, p.tryBegin())
}

func TestPaginatorPageSizeDefault(t *testing.T) {
	p := newPaginator(0)
	assert.Equal(t, DefaultPageSize, p.pageSize)

	p = newPaginator(25)

	assert.True(t, p.tryBegin())
	p.finish(25)
	assert.False(t, p.end)

	assert.True(t, p.tryBegin())
	p.finish(24)
	assert.True(t, p.end)
}
