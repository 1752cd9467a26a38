package progress

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type eventA struct{ n int }
type eventB struct{ s string }

func TestNewTrackerDropsOtherTypes(t *testing.T) {
	var got []int
	tr := NewTracker(func(e eventA) { got = append(got, e.n) })

	tr.OnEvent(eventA{1})
	tr.OnEvent(eventB{"x"})
	tr.OnEvent(eventA{2})

	assert.Equal(t, []int{1, 2}, got)
}

func TestMulti(t *testing.T) {
	var as []int
	var bs []string
	tr := Multi(
		NewTracker(func(e eventA) { as = append(as, e.n) }),
		nil,
		NewTracker(func(e eventB) { bs = append(bs, e.s) }),
	)

	tr.OnEvent(eventA{7})
	tr.OnEvent(eventB{"y"})

	assert.Equal(t, []int{7}, as)
	assert.Equal(t, []string{"y"}, bs)
}

func TestOrNop(t *testing.T) {
	assert.NotNil(t, OrNop(nil))
	assert.NotPanics(t, func() { OrNop(nil).OnEvent(eventA{}) })
}
