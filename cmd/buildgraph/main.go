package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"image/color"
	"os"
	"sort"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// TestCaseResult mirrors the simulator's export schema.
type TestCaseResult struct {
	TestCase            int     `json:"test_case"`
	Capacity            int     `json:"capacity"`
	NumProducers        int     `json:"num_producers"`
	NumConsumers        int     `json:"num_consumers"`
	NumMessages         int64   `json:"num_messages"`
	NumMessagesConsumed int64   `json:"num_messages_consumed"`
	Throughput          float64 `json:"throughput_msgs_sec"`
}

// FullReport represents one simulator session.
type FullReport struct {
	SessionTime string           `json:"session_time"`
	TestCases   []TestCaseResult `json:"test_cases"`
}

// caseStats holds min, median, and max throughput for one test case number.
type caseStats struct {
	testCase float64
	min      float64
	median   float64
	max      float64
}

// statsPoints implements XYer and YErrorer so we can plot lines + error bars.
type statsPoints []caseStats

func (s statsPoints) Len() int                { return len(s) }
func (s statsPoints) XY(i int) (x, y float64) { return s[i].testCase, s[i].median }
func (s statsPoints) YError(i int) (low, high float64) {
	return s[i].median - s[i].min, s[i].max - s[i].median
}

func main() {
	jsonFile := flag.String("jsonfile", "sim-results.json", "Path to JSON file containing simulator sessions")
	output := flag.String("out", "throughput_graph.png", "Output graph image filename")
	flag.Parse()

	data, err := os.ReadFile(*jsonFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading JSON file: %v\n", err)
		os.Exit(1)
	}

	var sessions []FullReport
	if err := json.Unmarshal(data, &sessions); err != nil {
		fmt.Fprintf(os.Stderr, "Error unmarshalling JSON: %v\n", err)
		os.Exit(1)
	}

	// Group throughput samples by test case number across all sessions.
	samples := make(map[int][]float64)
	for _, session := range sessions {
		for _, tc := range session.TestCases {
			samples[tc.TestCase] = append(samples[tc.TestCase], tc.Throughput)
		}
	}
	if len(samples) == 0 {
		fmt.Fprintln(os.Stderr, "No test case results found in JSON.")
		os.Exit(1)
	}

	stats := buildStats(samples)

	p := plot.New()
	p.Title.Text = "Throughput (min / median / max) per Test Case"
	p.X.Label.Text = "Test Case"
	p.Y.Label.Text = "Throughput (msgs/sec)"

	// Dark theme.
	p.BackgroundColor = color.RGBA{R: 30, G: 30, B: 30, A: 255}
	white := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	p.Title.TextStyle.Color = white
	p.X.Label.TextStyle.Color = white
	p.Y.Label.TextStyle.Color = white
	p.X.Color = white
	p.Y.Color = white
	p.X.Tick.Label.Color = white
	p.Y.Tick.Label.Color = white

	p.Add(plotter.NewGrid())

	sp := statsPoints(stats)

	line, err := plotter.NewLine(sp)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating line: %v\n", err)
		os.Exit(1)
	}
	line.Color = color.RGBA{R: 120, G: 180, B: 255, A: 255}

	points, err := plotter.NewScatter(sp)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating scatter: %v\n", err)
		os.Exit(1)
	}
	points.GlyphStyle.Radius = vg.Points(4)
	points.Color = line.Color
	points.Shape = draw.CircleGlyph{}

	yErrBars, err := plotter.NewYErrorBars(sp)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating error bars: %v\n", err)
		os.Exit(1)
	}
	yErrBars.Color = line.Color

	p.Add(line, points, yErrBars)

	if err := p.Save(10*vg.Inch, 6*vg.Inch, *output); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving plot: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Graph saved to %s\n", *output)
}

// buildStats computes min, median, and max throughput per test case,
// sorted by test case number.
func buildStats(samples map[int][]float64) []caseStats {
	var out []caseStats
	for num, vals := range samples {
		if len(vals) == 0 {
			continue
		}
		sort.Float64s(vals)
		out = append(out, caseStats{
			testCase: float64(num),
			min:      vals[0],
			median:   median(vals),
			max:      vals[len(vals)-1],
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].testCase < out[j].testCase })
	return out
}

func median(sorted []float64) float64 {
	n := len(sorted)
	mid := n / 2
	if n%2 == 1 {
		return sorted[mid]
	}
	return 0.5 * (sorted[mid-1] + sorted[mid])
}
