package signal

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/pv-tools/signal-atlas/pkg/models/domain"
)

const (
	// MinChangePointLen is the shortest series a change-point method will
	// accept; anything shorter yields an empty result, not an error.
	MinChangePointLen = 6

	MethodCUSUM  = "cusum"
	MethodZScore = "zscore"
	MethodPELT   = "pelt"
	MethodAll    = "all"

	defaultCUSUMThreshold = 2.0
	defaultZScoreWindow   = 3
	zScoreCutoff          = 2.5
	stdFloor              = 1.0
)

type ChangePointOptions struct {
	Method    string  // cusum, zscore, pelt or all (default)
	Threshold float64 // CUSUM threshold multiplier, default 2.0
	Window    int     // z-score baseline window, default 3
}

type changePointMethod func(series []float64, opts ChangePointOptions) ([]int, error)

var changePointMethods = map[string]changePointMethod{
	MethodCUSUM:  cusumChangePoints,
	MethodZScore: zscoreChangePoints,
	MethodPELT:   peltChangePoints,
}

// DetectChangePoints runs the enabled methods over a monthly count series
// and returns the union of flagged indices. A method that fails lands in
// Skipped with its reason; it never blocks the other methods.
func DetectChangePoints(series []float64, opts ChangePointOptions) domain.ChangePointResult {
	result := domain.ChangePointResult{
		Indices:  []int{},
		ByMethod: map[string][]int{},
	}
	if len(series) < MinChangePointLen {
		return result
	}

	if opts.Method == "" {
		opts.Method = MethodAll
	}
	if opts.Threshold <= 0 {
		opts.Threshold = defaultCUSUMThreshold
	}
	if opts.Window <= 0 {
		opts.Window = defaultZScoreWindow
	}

	methods := []string{opts.Method}
	if opts.Method == MethodAll {
		methods = []string{MethodCUSUM, MethodZScore, MethodPELT}
	}

	union := map[int]struct{}{}
	for _, name := range methods {
		method, ok := changePointMethods[name]
		if !ok {
			result.Skipped = append(result.Skipped, domain.SkippedMethod{
				Method: name,
				Reason: fmt.Sprintf("unknown method %q", name),
			})
			continue
		}
		indices, err := method(series, opts)
		if err != nil {
			result.Skipped = append(result.Skipped, domain.SkippedMethod{Method: name, Reason: err.Error()})
			continue
		}
		sort.Ints(indices)
		result.ByMethod[name] = indices
		for _, i := range indices {
			union[i] = struct{}{}
		}
	}

	for i := range union {
		result.Indices = append(result.Indices, i)
	}
	sort.Ints(result.Indices)
	return result
}

// cusumChangePoints flags indices where the cumulative deviation from the
// first-half baseline drifts beyond threshold * std * sqrt(n).
func cusumChangePoints(series []float64, opts ChangePointOptions) ([]int, error) {
	n := len(series)
	baseline := stat.Mean(series[:n/2], nil)
	std := stat.StdDev(series, nil)
	if math.IsNaN(std) {
		return nil, fmt.Errorf("series standard deviation is undefined")
	}

	limit := opts.Threshold * std * math.Sqrt(float64(n))

	var indices []int
	cumsum := 0.0
	for i, v := range series {
		cumsum += v - baseline
		if i > 2 && math.Abs(cumsum) > limit {
			indices = append(indices, i)
		}
	}
	return indices, nil
}

// zscoreChangePoints compares every point after the baseline window to the
// window's mean and (floored) standard deviation.
func zscoreChangePoints(series []float64, opts ChangePointOptions) ([]int, error) {
	if opts.Window >= len(series) {
		return nil, fmt.Errorf("baseline window %d covers the whole series", opts.Window)
	}

	baseline := series[:opts.Window]
	mean := stat.Mean(baseline, nil)
	std := stat.StdDev(baseline, nil)
	if math.IsNaN(std) || std < stdFloor {
		std = stdFloor
	}

	var indices []int
	for i := opts.Window; i < len(series); i++ {
		if math.Abs(series[i]-mean)/std > zScoreCutoff {
			indices = append(indices, i)
		}
	}
	return indices, nil
}

// peltChangePoints segments the series by the PELT algorithm with a
// least-squares segment cost and a variance-scaled log penalty. Returned
// indices are segment starts.
func peltChangePoints(series []float64, _ ChangePointOptions) ([]int, error) {
	n := len(series)
	variance := stat.Variance(series, nil)
	if math.IsNaN(variance) {
		return nil, fmt.Errorf("series variance is undefined")
	}
	if variance == 0 {
		return nil, nil
	}
	penalty := 2 * variance * math.Log(float64(n))

	// Prefix sums for O(1) segment cost: cost(a,b) = sum(y^2) - (sum(y))^2/len.
	sum := make([]float64, n+1)
	sumSq := make([]float64, n+1)
	for i, v := range series {
		sum[i+1] = sum[i] + v
		sumSq[i+1] = sumSq[i] + v*v
	}
	segCost := func(a, b int) float64 {
		length := float64(b - a)
		s := sum[b] - sum[a]
		return sumSq[b] - sumSq[a] - s*s/length
	}

	best := make([]float64, n+1)
	prev := make([]int, n+1)
	best[0] = -penalty
	candidates := []int{0}

	for t := 1; t <= n; t++ {
		best[t] = math.Inf(1)
		for _, tau := range candidates {
			c := best[tau] + segCost(tau, t) + penalty
			if c < best[t] {
				best[t] = c
				prev[t] = tau
			}
		}
		kept := candidates[:0]
		for _, tau := range candidates {
			if best[tau]+segCost(tau, t) <= best[t] {
				kept = append(kept, tau)
			}
		}
		candidates = append(kept, t)
	}

	var indices []int
	for t := n; prev[t] > 0; t = prev[t] {
		indices = append(indices, prev[t])
	}
	sort.Ints(indices)
	return indices, nil
}
