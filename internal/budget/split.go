package budget

import "math"

// bufferPct is the share of the per-person budget held back as a safety
// margin before splitting across stops.
const bufferPct = 0.1

// frontLoadWeights favor earlier stops so the tour opens with its anchor
// meal. Plans with more than three stops split the remainder evenly.
var frontLoadWeights = []float64{0.5, 0.3, 0.2}

// Split is the per-person allocation across the planned stops.
type Split struct {
	PerStop        []float64 `json:"per_stop"`
	PerPersonTotal float64   `json:"per_person_total"`
	BufferPct      float64   `json:"buffer_pct"`
}

// SplitLocal computes the allocation deterministically. A non-positive stop
// count is treated as a single stop.
func SplitLocal(total float64, stops int) Split {
	if stops < 1 {
		stops = 1
	}
	usable := total * (1 - bufferPct)

	weights := make([]float64, stops)
	if stops <= len(frontLoadWeights) {
		sum := 0.0
		for i := 0; i < stops; i++ {
			sum += frontLoadWeights[i]
		}
		for i := 0; i < stops; i++ {
			weights[i] = frontLoadWeights[i] / sum
		}
	} else {
		for i := range weights {
			weights[i] = 1 / float64(stops)
		}
	}

	perStop := make([]float64, stops)
	for i, w := range weights {
		perStop[i] = round2(usable * w)
	}
	return Split{
		PerStop:        perStop,
		PerPersonTotal: round2(usable),
		BufferPct:      bufferPct,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
