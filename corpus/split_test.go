package corpus

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func speakerRows(speaker string, n int) []Record {
	out := make([]Record, n)
	for i := range out {
		out[i] = Record{ClientID: speaker, Path: fmt.Sprintf("%s_%03d.mp3", speaker, i), Sentence: "s"}
	}
	return out
}

func paths(recs ...[]Record) map[string]int {
	m := map[string]int{}
	for _, rs := range recs {
		for _, r := range rs {
			m[r.Path]++
		}
	}
	return m
}

func TestCounts(t *testing.T) {
	cases := []struct {
		n                 int
		dev, test         float64
		wTrain, wDev, wTe int
	}{
		{10, 0.2, 0.2, 6, 2, 2},
		{1, 0.5, 0.5, -1, 1, 1},
		{3, 0.1, 0.1, 1, 1, 1},
		{7, 0.15, 0.15, 3, 2, 2},
		{100, 0.05, 0.1, 85, 5, 10},
	}
	for _, c := range cases {
		train, dev, test := Counts(c.n, c.dev, c.test)
		assert.Equal(t, c.wTrain, train, "train n=%d", c.n)
		assert.Equal(t, c.wDev, dev, "dev n=%d", c.n)
		assert.Equal(t, c.wTe, test, "test n=%d", c.n)
	}
}

func TestSplit_TenRecords(t *testing.T) {
	rows := speakerRows("a", 10)
	part, err := Split(rand.New(rand.NewSource(1)), rows, 0.2, 0.2)
	require.NoError(t, err)

	assert.Len(t, part.Train, 6)
	assert.Len(t, part.Dev, 2)
	assert.Len(t, part.Test, 2)

	seen := paths(part.Train, part.Dev, part.Test)
	assert.Len(t, seen, 10)
	for _, r := range rows {
		assert.Equal(t, 1, seen[r.Path], r.Path)
	}
}

func TestSplit_PartitionProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for n := 3; n <= 60; n++ {
		for _, pct := range [][2]float64{{0.1, 0.1}, {0.2, 0.1}, {0.05, 0.3}, {0.3, 0.3}} {
			dev, test := pct[0], pct[1]
			rows := speakerRows("s", n)
			part, err := Split(rng, rows, dev, test)
			_, wDev, wTest := Counts(n, dev, test)
			if n-wDev-wTest <= 0 {
				require.ErrorIs(t, err, ErrUngroupable, "n=%d pct=%v", n, pct)
				continue
			}
			require.NoError(t, err, "n=%d pct=%v", n, pct)

			assert.Equal(t, int(math.Ceil(dev*float64(n))), len(part.Dev))
			assert.Equal(t, int(math.Ceil(test*float64(n))), len(part.Test))
			assert.NotEmpty(t, part.Train)

			seen := paths(part.Train, part.Dev, part.Test)
			assert.Len(t, seen, n, "n=%d pct=%v", n, pct)
			for p, c := range seen {
				assert.Equal(t, 1, c, "duplicated %s", p)
			}
		}
	}
}

func TestSplit_KeepsInputOrder(t *testing.T) {
	rows := speakerRows("a", 20)
	pos := map[string]int{}
	for i, r := range rows {
		pos[r.Path] = i
	}
	part, err := Split(rand.New(rand.NewSource(7)), rows, 0.25, 0.25)
	require.NoError(t, err)
	for _, sub := range [][]Record{part.Train, part.Dev, part.Test} {
		for i := 1; i < len(sub); i++ {
			assert.Less(t, pos[sub[i-1].Path], pos[sub[i].Path])
		}
	}
}

func TestSplit_Ungroupable(t *testing.T) {
	_, err := Split(rand.New(rand.NewSource(1)), speakerRows("a", 1), 0.5, 0.5)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUngroupable))

	var ue *UngroupableError
	require.True(t, errors.As(err, &ue))
	assert.Equal(t, 1, ue.Size)
	assert.Equal(t, -1, ue.Train)
	assert.Equal(t, 1, ue.Dev)
	assert.Equal(t, 1, ue.Test)
	assert.Contains(t, err.Error(), "all counts must be positive")
}

func TestSplit_SameSeedSamePartition(t *testing.T) {
	rows := speakerRows("a", 50)
	a, err := Split(rand.New(rand.NewSource(99)), rows, 0.1, 0.2)
	require.NoError(t, err)
	b, err := Split(rand.New(rand.NewSource(99)), rows, 0.1, 0.2)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}
