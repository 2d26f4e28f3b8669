package cluster

import (
	"fmt"
	"math"
	"math/rand"
)

type Options struct {
	K        int
	MaxIter  int
	Restarts int
	Seed     int64
}

type Result struct {
	Labels    []int
	Centroids [][]float64
}

// KMeans runs Lloyd's algorithm with several seeded restarts and keeps the
// assignment with the lowest within-cluster sum of squares. Label integers
// carry no meaning across runs; callers must characterize clusters by their
// centroids, never by raw label identity.
func KMeans(samples [][]float64, opts Options) (Result, error) {
	if opts.K <= 0 {
		return Result{}, fmt.Errorf("k must be positive")
	}
	if len(samples) < opts.K {
		return Result{}, fmt.Errorf("%d samples for k=%d", len(samples), opts.K)
	}
	if opts.MaxIter <= 0 {
		opts.MaxIter = 100
	}
	if opts.Restarts <= 0 {
		opts.Restarts = 10
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	best := Result{}
	bestInertia := math.Inf(1)

	for r := 0; r < opts.Restarts; r++ {
		labels, centroids, inertia := run(samples, opts.K, opts.MaxIter, rng)
		if inertia < bestInertia {
			bestInertia = inertia
			best = Result{Labels: labels, Centroids: centroids}
		}
	}
	return best, nil
}

func run(samples [][]float64, k, maxIter int, rng *rand.Rand) ([]int, [][]float64, float64) {
	dims := len(samples[0])

	// initial centroids: k distinct sample indices
	perm := rng.Perm(len(samples))
	centroids := make([][]float64, k)
	for c := 0; c < k; c++ {
		centroids[c] = append([]float64(nil), samples[perm[c]]...)
	}

	labels := make([]int, len(samples))
	for iter := 0; iter < maxIter; iter++ {
		changed := false
		for i, row := range samples {
			nearest := nearestCentroid(row, centroids)
			if labels[i] != nearest {
				labels[i] = nearest
				changed = true
			}
		}

		counts := make([]int, k)
		next := make([][]float64, k)
		for c := range next {
			next[c] = make([]float64, dims)
		}
		for i, row := range samples {
			counts[labels[i]]++
			for j, v := range row {
				next[labels[i]][j] += v
			}
		}
		for c := 0; c < k; c++ {
			if counts[c] == 0 {
				// re-seed an emptied cluster from a random sample
				next[c] = append([]float64(nil), samples[rng.Intn(len(samples))]...)
				continue
			}
			for j := range next[c] {
				next[c][j] /= float64(counts[c])
			}
		}
		centroids = next

		if !changed && iter > 0 {
			break
		}
	}

	var inertia float64
	for i, row := range samples {
		inertia += squaredDistance(row, centroids[labels[i]])
	}
	return labels, centroids, inertia
}

func nearestCentroid(row []float64, centroids [][]float64) int {
	best := 0
	bestDist := math.Inf(1)
	for c, centroid := range centroids {
		if d := squaredDistance(row, centroid); d < bestDist {
			bestDist = d
			best = c
		}
	}
	return best
}

func squaredDistance(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}
