package sensor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterEmpty(t *testing.T) {
	f := NewFilter(5)
	_, err := f.Average()
	require.ErrorIs(t, err, ErrNoData)
	assert.Equal(t, 0, f.Len())
}

func TestFilterAverage(t *testing.T) {
	f := NewFilter(5)
	f.Add(100)
	f.Add(200)
	f.Add(300)

	avg, err := f.Average()
	require.NoError(t, err)
	assert.InDelta(t, 200, avg, 1e-9)
	assert.Equal(t, 3, f.Len())
}

func TestFilterEvictsOldestFirst(t *testing.T) {
	f := NewFilter(3)
	for _, v := range []float64{10, 20, 30} {
		f.Add(v)
	}
	require.Equal(t, 3, f.Len())

	// Pushing a fourth sample must drop the 10, not grow the window
	f.Add(40)
	assert.Equal(t, 3, f.Len())

	avg, err := f.Average()
	require.NoError(t, err)
	assert.InDelta(t, 30, avg, 1e-9) // (20+30+40)/3
}

func TestFilterWindowStaysBounded(t *testing.T) {
	f := NewFilter(DefaultWindow)
	for i := 0; i < DefaultWindow+5; i++ {
		f.Add(float64(i))
	}
	assert.Equal(t, DefaultWindow, f.Len())

	// Only the last DefaultWindow samples (5..24) survive
	avg, err := f.Average()
	require.NoError(t, err)
	assert.InDelta(t, 14.5, avg, 1e-9)
}

func TestFilterCapacityFallback(t *testing.T) {
	f := NewFilter(0)
	for i := 0; i < DefaultWindow+1; i++ {
		f.Add(1)
	}
	assert.Equal(t, DefaultWindow, f.Len())
}
