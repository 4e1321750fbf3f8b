package tsparse

import "github.com/cespare/xxhash/v2"

func xxhashSum(content []byte) uint64 {
	return xxhash.Sum64(content)
}
