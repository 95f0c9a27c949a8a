package repository

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/cespare/xxhash/v2"

	"credit-risk/domain"
)

const keyPrefix = "credit-risk:score:"

// ProbabilityCache memoises model output per feature vector.
type ProbabilityCache interface {
	Get(ctx context.Context, key string) (float32, bool)
	Set(ctx context.Context, key string, probability float32) error
}

// FeatureKey digests the model version and the exact feature bits. The key
// cannot be reversed into the borrower's attributes.
func FeatureKey(modelVersion string, features domain.FeatureVector) string {
	h := xxhash.New()
	_, _ = h.WriteString(modelVersion)

	var buf [8]byte
	for _, v := range features.Values() {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
		_, _ = h.Write(buf[:])
	}
	return fmt.Sprintf("%s%016x", keyPrefix, h.Sum64())
}
