package profiler

type QualityMetrics struct {
	TotalRows      int
	NullPercentage float64
	DistinctRatio  float64
}

// CalculateQuality summarizes missing and distinct values over the whole
// report. Both ratios are 0 for a table without cells.
func (r *Report) CalculateQuality() QualityMetrics {
	metrics := QualityMetrics{
		TotalRows: r.Rows,
	}

	cells := r.Rows * len(r.Columns)
	if cells == 0 {
		return metrics
	}

	totalNulls := 0
	totalDistinct := 0
	for _, c := range r.Columns {
		totalNulls += c.NullCount
		totalDistinct += c.UniqueCount
	}

	metrics.NullPercentage = float64(totalNulls) / float64(cells)
	metrics.DistinctRatio = float64(totalDistinct) / float64(cells)

	return metrics
}
