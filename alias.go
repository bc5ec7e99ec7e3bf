// Copyright (c) 2024, The GoKi Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vtrace

import (
	"github.com/chewxy/math32"
)

// BuildAliasTable builds an alias-method table over given weights,
// enabling O(1) sampling of the discrete distribution proportional
// to them.  Each entry i is selected with probability
// weights[i] / sum(weights); the Pdf and AliasPdf fields record the
// selection probabilities of the entry and its alias.
//
// Non-positive total weight yields a uniform table, so a scene of
// zero-power lights still samples without bias.
func BuildAliasTable(weights []float32) []ImptSamp {
	n := len(weights)
	table := make([]ImptSamp, n)
	if n == 0 {
		return table
	}
	var total float32
	for _, w := range weights {
		total += math32.Max(w, 0)
	}
	if total <= 0 {
		q := 1.0 / float32(n)
		for i := range table {
			table[i] = ImptSamp{Alias: int32(i), Q: 1, Pdf: q, AliasPdf: q}
		}
		return table
	}

	// scale each weight so the mean is 1: entries at or below the
	// mean donate excess probability from entries above it
	scaled := make([]float32, n)
	for i, w := range weights {
		w = math32.Max(w, 0)
		scaled[i] = w * float32(n) / total
		table[i] = ImptSamp{Alias: int32(i), Q: 1, Pdf: w / total}
	}

	small := make([]int, 0, n)
	large := make([]int, 0, n)
	for i := n - 1; i >= 0; i-- {
		if scaled[i] <= 1 {
			small = append(small, i)
		} else {
			large = append(large, i)
		}
	}
	for len(small) > 0 && len(large) > 0 {
		s := small[len(small)-1]
		small = small[:len(small)-1]
		l := large[len(large)-1]
		large = large[:len(large)-1]

		table[s].Q = scaled[s]
		table[s].Alias = int32(l)
		scaled[l] -= 1 - scaled[s]
		if scaled[l] <= 1 {
			small = append(small, l)
		} else {
			large = append(large, l)
		}
	}
	// leftovers are within rounding of 1: select themselves always
	for _, i := range small {
		table[i].Q = 1
		table[i].Alias = int32(i)
	}
	for _, i := range large {
		table[i].Q = 1
		table[i].Alias = int32(i)
	}
	for i := range table {
		table[i].AliasPdf = table[table[i].Alias].Pdf
	}
	return table
}

// SampleTable draws one index from given alias table using two
// uniform [0,1) variates: u selects the entry, v accepts it or takes
// its alias.  Returns -1 for an empty table.
func SampleTable(table []ImptSamp, u, v float32) int {
	n := len(table)
	if n == 0 {
		return -1
	}
	i := int(u * float32(n))
	if i >= n {
		i = n - 1
	}
	if v < table[i].Q {
		return i
	}
	return int(table[i].Alias)
}

// TrigSampProb returns the probability of sampling the triangle
// light set given the summed sampling power of each light class.
// All-punctual scenes return 0 and all-triangle scenes return 1.
func TrigSampProb(puncPower, trigPower float32) float32 {
	if trigPower <= 0 {
		return 0
	}
	if puncPower <= 0 {
		return 1
	}
	return math32.Min(trigPower/(trigPower+puncPower), 1)
}
