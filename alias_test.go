// Copyright (c) 2024, The GoKi Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vtrace

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

// checkTableInvariants verifies the structural invariants that hold
// for any alias table: Q in [0,1], valid alias indices, pdfs summing
// to 1, and AliasPdf consistent with the aliased entry's Pdf.
func checkTableInvariants(t *testing.T, table []ImptSamp) {
	t.Helper()
	var pdfSum float32
	for i, e := range table {
		assert.GreaterOrEqual(t, e.Q, float32(0), "entry %d", i)
		assert.LessOrEqual(t, e.Q, float32(1), "entry %d", i)
		assert.GreaterOrEqual(t, e.Alias, int32(0), "entry %d", i)
		assert.Less(t, int(e.Alias), len(table), "entry %d", i)
		assert.Equal(t, table[e.Alias].Pdf, e.AliasPdf, "entry %d", i)
		pdfSum += e.Pdf
	}
	assert.InDelta(t, 1.0, pdfSum, 1e-4)
}

func TestAliasTableBasic(t *testing.T) {
	table := BuildAliasTable([]float32{1, 1, 2})
	assert.Equal(t, 3, len(table))
	checkTableInvariants(t, table)
	assert.InDelta(t, 0.25, table[0].Pdf, 1e-6)
	assert.InDelta(t, 0.25, table[1].Pdf, 1e-6)
	assert.InDelta(t, 0.5, table[2].Pdf, 1e-6)
}

func TestAliasTableSingle(t *testing.T) {
	table := BuildAliasTable([]float32{5})
	assert.Equal(t, 1, len(table))
	assert.Equal(t, int32(0), table[0].Alias)
	assert.Equal(t, float32(1), table[0].Q)
	assert.Equal(t, float32(1), table[0].Pdf)
}

func TestAliasTableEmpty(t *testing.T) {
	table := BuildAliasTable(nil)
	assert.Equal(t, 0, len(table))
	assert.Equal(t, -1, SampleTable(table, 0.5, 0.5))
}

func TestAliasTableUniform(t *testing.T) {
	table := BuildAliasTable([]float32{2, 2, 2, 2})
	checkTableInvariants(t, table)
	for i, e := range table {
		assert.Equal(t, int32(i), e.Alias)
		assert.Equal(t, float32(1), e.Q)
		assert.InDelta(t, 0.25, e.Pdf, 1e-6)
	}
}

// all-zero weights fall back to a uniform distribution rather than
// producing NaNs
func TestAliasTableZeroWeights(t *testing.T) {
	table := BuildAliasTable([]float32{0, 0, 0})
	checkTableInvariants(t, table)
	for _, e := range table {
		assert.InDelta(t, 1.0/3.0, e.Pdf, 1e-6)
	}
}

// negative weights are clamped to zero before normalization
func TestAliasTableNegativeWeights(t *testing.T) {
	table := BuildAliasTable([]float32{-1, 1, 1})
	checkTableInvariants(t, table)
	assert.Equal(t, float32(0), table[0].Pdf)
	assert.InDelta(t, 0.5, table[1].Pdf, 1e-6)
}

// TestAliasTableSampling draws a large number of samples and checks
// the empirical frequencies against the target distribution.
func TestAliasTableSampling(t *testing.T) {
	weights := []float32{1, 1, 2, 4, 8}
	table := BuildAliasTable(weights)
	checkTableInvariants(t, table)

	rnd := rand.New(rand.NewSource(42))
	n := 1000000
	counts := make([]int, len(weights))
	for i := 0; i < n; i++ {
		idx := SampleTable(table, rnd.Float32(), rnd.Float32())
		counts[idx]++
	}
	var total float32
	for _, w := range weights {
		total += w
	}
	for i, w := range weights {
		want := float64(w / total)
		got := float64(counts[i]) / float64(n)
		assert.InDelta(t, want, got, 0.002, "light %d", i)
	}
}

// a heavily skewed distribution still samples correctly
func TestAliasTableSkewed(t *testing.T) {
	weights := []float32{0.001, 100}
	table := BuildAliasTable(weights)
	checkTableInvariants(t, table)

	rnd := rand.New(rand.NewSource(7))
	n := 200000
	c0 := 0
	for i := 0; i < n; i++ {
		if SampleTable(table, rnd.Float32(), rnd.Float32()) == 0 {
			c0++
		}
	}
	want := float64(0.001 / 100.001)
	assert.InDelta(t, want, float64(c0)/float64(n), 0.001)
}

func TestTrigSampProb(t *testing.T) {
	assert.Equal(t, float32(0), TrigSampProb(5, 0))
	assert.Equal(t, float32(0), TrigSampProb(0, 0))
	assert.Equal(t, float32(1), TrigSampProb(0, 5))
	assert.InDelta(t, 0.5, TrigSampProb(3, 3), 1e-6)
	assert.InDelta(t, 0.75, TrigSampProb(1, 3), 1e-6)
}
