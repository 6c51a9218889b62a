package model

import (
	"fmt"
	"math"

	"github.com/beaconx/disaster-predict/internal/domain"
)

// KMeans holds trained cluster centroids and assigns points to the nearest
// one. Centroids live in the autoencoder's latent space.
type KMeans struct {
	Centroids [][]float64 `json:"centroids"`
}

// Validate checks that at least one centroid exists and all share a dimension.
func (k KMeans) Validate() error {
	if len(k.Centroids) == 0 {
		return fmt.Errorf("kmeans has no centroids")
	}
	dim := len(k.Centroids[0])
	if dim == 0 {
		return fmt.Errorf("kmeans centroid 0 is empty")
	}
	for i, c := range k.Centroids {
		if len(c) != dim {
			return fmt.Errorf("centroid %d has dimension %d, expected %d", i, len(c), dim)
		}
	}
	return nil
}

// Dim returns the centroid dimension.
func (k KMeans) Dim() int {
	if len(k.Centroids) == 0 {
		return 0
	}
	return len(k.Centroids[0])
}

// Assign returns the index of the nearest centroid and the Euclidean distance
// to it.
func (k KMeans) Assign(point []float64) (domain.ClusterAssignment, error) {
	if len(point) != k.Dim() {
		return domain.ClusterAssignment{}, fmt.Errorf("kmeans expects dimension %d, got %d", k.Dim(), len(point))
	}

	best, bestDist := 0, math.Inf(1)
	for i, c := range k.Centroids {
		var sumSq float64
		for j := range c {
			d := point[j] - c[j]
			sumSq += d * d
		}
		if sumSq < bestDist {
			best, bestDist = i, sumSq
		}
	}
	return domain.ClusterAssignment{Cluster: best, Distance: math.Sqrt(bestDist)}, nil
}
