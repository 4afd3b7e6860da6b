package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/DjordjeVuckovic/blas-bench/internal/apperr"
	"github.com/DjordjeVuckovic/blas-bench/internal/domain"
)

// ParseSize parses a level 1 size "N".
func ParseSize(s string) (int, error) {
	dims, err := parseDims(s, 1)
	if err != nil {
		return 0, err
	}
	return dims[0], nil
}

// ParseSizePair parses a level 2 size "M,N".
func ParseSizePair(s string) (domain.Size2, error) {
	dims, err := parseDims(s, 2)
	if err != nil {
		return domain.Size2{}, err
	}
	return domain.Size2{M: dims[0], N: dims[1]}, nil
}

// ParseSizeTriple parses a level 3 size "M,N,K".
func ParseSizeTriple(s string) (domain.Size3, error) {
	dims, err := parseDims(s, 3)
	if err != nil {
		return domain.Size3{}, err
	}
	return domain.Size3{M: dims[0], N: dims[1], K: dims[2]}, nil
}

func parseDims(s string, want int) ([]int, error) {
	parts := strings.Split(s, ",")
	if len(parts) != want {
		return nil, apperr.NewValidationf("invalid size format %q: expected %d comma-separated values", s, want)
	}

	dims := make([]int, 0, want)
	for _, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, apperr.NewValidationWrap(fmt.Sprintf("invalid size value %q", p), err)
		}
		if v <= 0 {
			return nil, apperr.NewValidationf("size must be positive, got %d", v)
		}
		dims = append(dims, v)
	}
	return dims, nil
}
