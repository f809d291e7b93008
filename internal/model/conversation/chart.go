package conversation

// ChartData mirrors the chart payload returned by the backend's
// chart-data endpoint. Either section may be absent.
type ChartData struct {
	PieChart *PieChart `json:"pie_chart,omitempty"`
	BarChart *BarChart `json:"bar_chart,omitempty"`
}

// PieChart holds one labelled series.
type PieChart struct {
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}

// BarChart holds one or more labelled datasets sharing an axis.
type BarChart struct {
	Labels   []string     `json:"labels"`
	Datasets []BarDataset `json:"datasets"`
}

// BarDataset is a single series within a bar chart.
type BarDataset struct {
	Label           string    `json:"label"`
	Data            []float64 `json:"data"`
	BackgroundColor string    `json:"backgroundColor,omitempty"`
}

// Empty reports whether the payload carries no chart at all.
func (c *ChartData) Empty() bool {
	return c == nil || (c.PieChart == nil && c.BarChart == nil)
}
