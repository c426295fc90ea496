// Package epoch derives the per-day discriminator that binds membership proofs
// to a UTC calendar day. It is purely arithmetic: no time.Location lookups, no
// allocation beyond the rendered tag, and identical output for every timestamp
// within the same UTC day.
package epoch

import (
	"fmt"

	"mintgate/pkg/domain"
)

const secondsPerDay = 86400

// CivilFromUnix converts seconds since the Unix epoch to a proleptic-Gregorian
// calendar date. Branch-minimal days-from-civil inverse: era = 400-year cycle,
// doe = day of era, yoe = year of era, doy = day of year, mp = shifted month
// (March-based so the leap day lands at the end of the cycle).
func CivilFromUnix(ts int64) (year int64, month, day int) {
	z := ts/secondsPerDay + 719468
	era := z / 146097
	if z < 0 && z%146097 != 0 {
		era--
	}
	doe := z - era*146097
	yoe := (doe - doe/1460 + doe/36524 - doe/146096) / 365
	y := yoe + era*400
	doy := doe - (365*yoe + yoe/4 - yoe/100)
	mp := (5*doy + 2) / 153
	d := int(doy-(153*mp+2)/5) + 1
	m := int(mp)
	if mp < 10 {
		m += 3
	} else {
		m -= 9
	}
	if m <= 2 {
		y++
	}
	return y, m, d
}

// Tag renders the fixed-width day tag "<PREFIX>-DAY-YYYY-MM-DD".
func Tag(prefix string, ts int64) string {
	y, m, d := CivilFromUnix(ts)
	return fmt.Sprintf("%s-DAY-%04d-%02d-%02d", prefix, y, m, d)
}

// TagHash returns the keccak digest of the day tag, the value handed to the
// proof verifier as the external nullifier. Always succeeds for non-negative
// timestamps; changes only at UTC midnight boundaries.
func TagHash(prefix string, ts int64) domain.Hash {
	return domain.Keccak256([]byte(Tag(prefix, ts)))
}
