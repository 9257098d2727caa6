// Package casenumber generates the human readable identifiers printed on disciplinary cases.
package casenumber

import (
	"fmt"
	"math/rand"
	"time"
)

// Prefix is prepended to every generated case number
const Prefix = "DC"

const (
	minSuffix = 1000
	maxSuffix = 9999
)

// Generator builds case numbers of the form DC-YYYYMM-RRRR from a clock and a random
// source. It does not check the numbers against storage; the unique index does that.
type Generator struct {
	now  func() time.Time
	intn func(n int) int
}

// New returns a Generator using the given clock and random source. Nil arguments fall back
// to time.Now and the global math/rand source.
func New(now func() time.Time, intn func(n int) int) *Generator {
	if now == nil {
		now = time.Now
	}
	if intn == nil {
		intn = rand.Intn
	}
	return &Generator{now: now, intn: intn}
}

// Generate returns a new case number for the current month
func (g *Generator) Generate() string {
	t := g.now().UTC()
	suffix := minSuffix + g.intn(maxSuffix-minSuffix+1)
	return fmt.Sprintf("%s-%04d%02d-%04d", Prefix, t.Year(), int(t.Month()), suffix)
}
