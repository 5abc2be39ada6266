package coupon

import (
	"context"
)

// CodeSet is the set of redeemable codes of one coupon-gated discount.
type CodeSet interface {
	// Contains reports whether code is redeemable. Matching is case-sensitive.
	Contains(code string) bool

	// Size returns the number of distinct codes.
	Size() int
}

// Loader reads a gzipped code file, one code per line.
type Loader interface {
	Load(ctx context.Context, path string) (CodeSet, error)
}
