package report

import (
	"fmt"
	"strings"

	"github.com/GoSim-25-26J-441/flash-optimizer/pkg/models"
)

// Summary renders the human-readable recommendation.
func Summary(doc *Document) string {
	var b strings.Builder
	b.WriteString("# DOE flash optimization: recommended settings\n")

	rec := doc.Recommendation
	if rec != nil {
		for _, p := range models.TunableParameters {
			fmt.Fprintf(&b, "- %s: %.3f\n", p.Name, rec.Point[p.Name])
		}
		b.WriteString("\n")
		fmt.Fprintf(&b, "Predicted flash: %.2f µm\n", rec.Prediction.Flash)
		fmt.Fprintf(&b, "Weld-line strength (predicted): %.2f MPa (floor %.2f)\n",
			rec.Prediction.Weld, rec.Constraints.WeldMin)
		fmt.Fprintf(&b, "Max injection pressure (predicted): %.0f bar (ceiling %.0f)\n",
			rec.Prediction.Pressure, rec.Constraints.PinjMax)
		if !rec.Feasible {
			b.WriteString("WARNING: no grid point satisfies both constraints; the least-penalized point is shown.\n")
		}
	}
	if len(doc.BoundsFallback) > 0 {
		fmt.Fprintf(&b, "NOTE: search bounds fell back to the safety envelope for %s.\n",
			strings.Join(doc.BoundsFallback, ", "))
	}

	if m := doc.Model; m != nil {
		b.WriteString("\nModel fit:\n")
		fmt.Fprintf(&b, "- Flash R²: %.3f, MAE: %.2f µm, n=%d\n", m.R2Flash, m.MAEFlash, m.NSamples)
	}
	return strings.TrimSuffix(b.String(), "\n")
}
