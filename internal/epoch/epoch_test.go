package epoch

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCivilFromUnix(t *testing.T) {
	cases := []struct {
		name  string
		ts    int64
		year  int64
		month int
		day   int
	}{
		{"unix epoch", 0, 1970, 1, 1},
		{"last second of epoch day", 86399, 1970, 1, 1},
		{"first second of next day", 86400, 1970, 1, 2},
		{"leap day 2024", 1709164800, 2024, 2, 29},
		{"regular date", 1735689600, 2025, 1, 1},
		{"end of century non-leap", 4102444800, 2100, 1, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			y, m, d := CivilFromUnix(tc.ts)
			assert.Equal(t, tc.year, y)
			assert.Equal(t, tc.month, m)
			assert.Equal(t, tc.day, d)
		})
	}
}

func TestCivilFromUnixMatchesStdlib(t *testing.T) {
	// Sweep a few years around boundaries the arithmetic must get right.
	starts := []time.Time{
		time.Date(1999, 12, 25, 0, 0, 0, 0, time.UTC),
		time.Date(2023, 2, 20, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 2, 20, 0, 0, 0, 0, time.UTC),
	}
	for _, start := range starts {
		for i := 0; i < 30; i++ {
			ts := start.AddDate(0, 0, i)
			y, m, d := CivilFromUnix(ts.Unix())
			require.Equal(t, int64(ts.Year()), y, "year for %s", ts)
			require.Equal(t, int(ts.Month()), m, "month for %s", ts)
			require.Equal(t, ts.Day(), d, "day for %s", ts)
		}
	}
}

func TestTagFormat(t *testing.T) {
	assert.Equal(t, "MINTGATE-DAY-1970-01-01", Tag("MINTGATE", 0))
	assert.Equal(t, "MINTGATE-DAY-2024-02-29", Tag("MINTGATE", 1709164800))
}

func TestTagHashStableWithinDay(t *testing.T) {
	midnight := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC).Unix()

	first := TagHash("MINTGATE", midnight)
	noon := TagHash("MINTGATE", midnight+12*3600)
	lastSecond := TagHash("MINTGATE", midnight+86399)
	nextDay := TagHash("MINTGATE", midnight+86400)

	assert.Equal(t, first, noon)
	assert.Equal(t, first, lastSecond)
	assert.NotEqual(t, first, nextDay)
}

func TestTagHashDependsOnPrefix(t *testing.T) {
	assert.NotEqual(t, TagHash("A", 0), TagHash("B", 0))
}
