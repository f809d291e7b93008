// Package trigger decides from the raw user utterance whether auxiliary
// chart data should be fetched for a turn.
package trigger

import "regexp"

// The predicates require the verb "show" plus a chart phrase, each as a
// whole word, in any order. Phrase variants cover the separator styles users
// actually type ("pie chart", "pie-chart", "piechart", "bar graph",
// "bargraph", ...). Matching is case-insensitive and purely lexical.
var (
	showRe = regexp.MustCompile(`(?i)\bshow\b`)
	pieRe  = regexp.MustCompile(`(?i)\bpie[\s-]?chart\b`)
	barRe  = regexp.MustCompile(`(?i)\bbar[\s-]*(?:chart|graph)\b`)
)

// MatchesPieChartRequest reports whether text asks to show a pie chart.
func MatchesPieChartRequest(text string) bool {
	return showRe.MatchString(text) && pieRe.MatchString(text)
}

// MatchesBarChartRequest reports whether text asks to show a bar chart or
// bar graph.
func MatchesBarChartRequest(text string) bool {
	return showRe.MatchString(text) && barRe.MatchString(text)
}

// MatchesChartRequest reports whether either chart predicate matches.
func MatchesChartRequest(text string) bool {
	return MatchesPieChartRequest(text) || MatchesBarChartRequest(text)
}
