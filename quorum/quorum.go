// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package quorum computes the vote thresholds a shard's guarantor groups
// require, and tallies whether a candidate has reached them.
package quorum

import "math"

// Ceil returns ⌈n/2⌉, the rule used for both the validity and availability
// quorum thresholds.
func Ceil(n int) int {
	return int(math.Ceil(float64(n) / 2))
}
