package filter

import (
	"math"

	lru "github.com/hashicorp/golang-lru/v2"
)

// GaussianKernel generates a normalized 1D Gaussian kernel with standard
// deviation sigma. The kernel spans 2*ceil(3*sigma)+1 taps, covering 99.7%
// of the distribution. For sigma <= 0 it returns the identity kernel [1].
func GaussianKernel(sigma float64) []float32 {
	if sigma <= 0 {
		return []float32{1}
	}

	half := int(math.Ceil(sigma * 3))
	kernel := make([]float32, half*2+1)
	twoSigmaSq := 2 * sigma * sigma
	sum := 0.0

	for i := range kernel {
		x := float64(i - half)
		v := math.Exp(-(x * x) / twoSigmaSq)
		kernel[i] = float32(v)
		sum += v
	}

	inv := float32(1 / sum)
	for i := range kernel {
		kernel[i] *= inv
	}
	return kernel
}

// kernelCacheSize bounds the number of distinct radii kept. Interactive
// sessions use a handful of radii per resolution.
const kernelCacheSize = 64

var kernelCache, _ = lru.New[int, []float32](kernelCacheSize)

// CachedGaussianKernel returns a shared kernel for sigma quantized to 0.01.
// The returned slice must not be modified.
func CachedGaussianKernel(sigma float64) []float32 {
	key := int(math.Round(sigma * 100))
	if k, ok := kernelCache.Get(key); ok {
		return k
	}
	k := GaussianKernel(float64(key) / 100)
	kernelCache.Add(key, k)
	return k
}
