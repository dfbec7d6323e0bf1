package improvement

import (
	"math"

	"github.com/GoSim-25-26J-441/flash-optimizer/pkg/logger"
	"github.com/GoSim-25-26J-441/flash-optimizer/pkg/models"
	"github.com/GoSim-25-26J-441/flash-optimizer/pkg/utils"
)

// ResolveBounds intersects the safety envelope with the observed range of
// each tunable parameter, widened outward to whole units:
//
//	lo = max(envelope.Min, floor(observed min))
//	hi = min(envelope.Max, ceil(observed max))
//
// A parameter whose column is missing uses the envelope as its observed
// range. When lo >= hi the envelope is used instead; such parameters are
// returned in fallbacks so the widening stays visible.
func ResolveBounds(table *models.Table, envelope map[string]models.Interval) (bounds models.ParameterBounds, fallbacks []string, err error) {
	bounds = make(models.ParameterBounds, len(models.TunableParameters))
	for _, p := range models.TunableParameters {
		env, ok := envelope[p.Name]
		if !ok {
			return nil, nil, &InvalidBoundsError{Parameter: p.Name, Reason: "no safety envelope"}
		}
		if !(env.Min < env.Max) {
			return nil, nil, &InvalidBoundsError{Parameter: p.Name, Reason: "safety envelope is empty or inverted"}
		}

		observedMin, observedMax := env.Min, env.Max
		if table != nil && table.HasColumn(p.Name) {
			if lo, hi, ok := utils.MinMax(table.NumericColumn(p.Name)); ok {
				observedMin, observedMax = lo, hi
			}
		}

		lo := math.Max(env.Min, math.Floor(observedMin))
		hi := math.Min(env.Max, math.Ceil(observedMax))
		if lo >= hi {
			logger.Warn("search interval collapsed, falling back to safety envelope",
				"parameter", p.Name,
				"observed_min", observedMin,
				"observed_max", observedMax,
				"envelope_min", env.Min,
				"envelope_max", env.Max)
			lo, hi = env.Min, env.Max
			fallbacks = append(fallbacks, p.Name)
		}
		bounds[p.Name] = models.Interval{Min: lo, Max: hi}
	}
	return bounds, fallbacks, nil
}
