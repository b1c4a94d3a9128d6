package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"runtime"
	"sort"
	"strconv"
	"time"

	"github.com/queuelab/prodconsim/internal/simulation"
	"github.com/queuelab/prodconsim/pkg/config"
	"github.com/schollz/progressbar/v3"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

const usageText = `Simulator
Usage: simulator [flags] <PATH_TO_CONFIG_FILE> <MAX_TEST_CASE_DURATION>

Each configuration line holds five comma-separated integers:
  capacity, producer_sleep_bound, consumer_sleep_bound, producer_count, consumer_count`

// TestCaseResult holds the outcome of one test case run.
type TestCaseResult struct {
	TestCase            int     `json:"test_case"`
	Capacity            int     `json:"capacity"`
	ProducerSleepBound  int     `json:"producer_sleep_bound_s"`
	ConsumerSleepBound  int     `json:"consumer_sleep_bound_s"`
	NumProducers        int     `json:"num_producers"`
	NumConsumers        int     `json:"num_consumers"`
	NumMessages         int64   `json:"num_messages"`          // produced count
	NumMessagesConsumed int64   `json:"num_messages_consumed"` // consumed count
	FinalOccupancy      int     `json:"final_occupancy"`
	TestDuration        string  `json:"test_duration"`       // e.g. "10s"
	ActualElapsed       string  `json:"actual_elapsed"`      // measured time
	Throughput          float64 `json:"throughput_msgs_sec"` // based on consumed count
	Timestamp           int64   `json:"timestamp"`
	GoVersion           string  `json:"go_version"`
}

// SystemInfo holds system information.
type SystemInfo struct {
	NumCPU      int     `json:"num_cpu"`
	CPUModel    string  `json:"cpu_model,omitempty"`
	CPUSpeedMHz float64 `json:"cpu_speed_mhz,omitempty"`
	GOARCH      string  `json:"go_arch"`
	TotalMemory uint64  `json:"total_memory_bytes,omitempty"`
}

// FullReport represents one complete simulator session.
type FullReport struct {
	SessionTime string           `json:"session_time"`
	SystemInfo  SystemInfo       `json:"system_info"`
	TestCases   []TestCaseResult `json:"test_cases"`
}

func main() {
	jsonExport := flag.Bool("json", false, "Append session results as JSON to the results file")
	jsonFile := flag.String("jsonfile", "sim-results.json", "Path to the JSON results file")
	markdownTable := flag.Bool("markdown-table", false, "Output markdown table from the results file and exit")
	progressFlag := flag.Bool("progress", false, "Display a progress bar across test cases")
	flag.Parse()

	if *markdownTable {
		outputMarkdownTable(*jsonFile)
		return
	}

	args := flag.Args()
	if len(args) < 2 {
		fmt.Fprintf(os.Stderr, "Incorrect number of arguments.\n\n%s\n", usageText)
		os.Exit(1)
	}

	cases, err := config.Load(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "The provided <PATH_TO_CONFIG_FILE> could not be read: %v\n\n%s\n", err, usageText)
		os.Exit(1)
	}

	// Permissive like the rest of the config surface: a non-numeric
	// duration parses as 0 and the workers are terminated immediately.
	maxSeconds, _ := strconv.Atoi(args[1])
	duration := time.Duration(maxSeconds) * time.Second

	var bar *progressbar.ProgressBar
	if *progressFlag {
		bar = progressbar.NewOptions(len(cases),
			progressbar.OptionSetDescription("test cases"),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionShowCount(),
			progressbar.OptionSetWidth(20),
		)
	}

	results := runAll(cases, duration, bar)

	if bar != nil {
		fmt.Fprintln(os.Stderr)
	}

	if *jsonExport {
		if err := appendSession(*jsonFile, FullReport{
			SessionTime: time.Now().Format(time.RFC3339),
			SystemInfo:  gatherSystemInfo(),
			TestCases:   results,
		}); err != nil {
			fmt.Fprintln(os.Stderr, "Error writing JSON file:", err)
			os.Exit(1)
		}
		fmt.Printf("\nWrote results to %s\n", *jsonFile)
	}
}

// runAll executes every test case sequentially and collects the per-case
// results. Invalid test cases are logged and skipped; the run continues.
func runAll(cases []config.TestCase, duration time.Duration, bar *progressbar.ProgressBar) []TestCaseResult {
	var results []TestCaseResult
	for i, tc := range cases {
		num := i + 1
		fmt.Printf("Test Case %d\n", num)
		fmt.Printf("\tbufferSize = %d, producer_sleep_duration = %d, consumer_sleep_duration = %d, num_producers = %d, num_consumers = %d\n",
			tc.Capacity, int(tc.ProducerSleepBound.Seconds()), int(tc.ConsumerSleepBound.Seconds()),
			tc.NumProducers, tc.NumConsumers)

		runner := simulation.NewRunner(tc, os.Stdout)
		res, err := runner.Run(duration)
		if err != nil {
			fmt.Fprintf(os.Stderr, "skipping test case %d: %v\n", num, err)
			continue
		}

		fmt.Printf("\tproduced=%d, consumed=%d, throughput=%.0f msg/s, took=%v\n\n",
			res.Produced, res.Consumed, res.Throughput(), res.Elapsed)

		results = append(results, TestCaseResult{
			TestCase:            num,
			Capacity:            tc.Capacity,
			ProducerSleepBound:  int(tc.ProducerSleepBound.Seconds()),
			ConsumerSleepBound:  int(tc.ConsumerSleepBound.Seconds()),
			NumProducers:        tc.NumProducers,
			NumConsumers:        tc.NumConsumers,
			NumMessages:         res.Produced,
			NumMessagesConsumed: res.Consumed,
			FinalOccupancy:      res.FinalOccupancy,
			TestDuration:        duration.String(),
			ActualElapsed:       res.Elapsed.String(),
			Throughput:          res.Throughput(),
			Timestamp:           time.Now().Unix(),
			GoVersion:           runtime.Version(),
		})

		if bar != nil {
			bar.Add(1)
		}
	}
	return results
}

// appendSession appends report to the sessions already stored in filename.
func appendSession(filename string, report FullReport) error {
	var previous []FullReport
	if _, err := os.Stat(filename); err == nil {
		data, err := os.ReadFile(filename)
		if err == nil && len(data) > 0 {
			json.Unmarshal(data, &previous)
		}
	}
	updated := append(previous, report)
	data, err := json.MarshalIndent(updated, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filename, data, 0644)
}

// outputMarkdownTable loads the JSON results file and prints a Markdown
// summary of the last session.
func outputMarkdownTable(jsonFile string) {
	data, err := os.ReadFile(jsonFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading JSON file %q: %v\n", jsonFile, err)
		os.Exit(1)
	}
	var sessions []FullReport
	if err := json.Unmarshal(data, &sessions); err != nil {
		fmt.Fprintf(os.Stderr, "Error unmarshalling JSON: %v\n", err)
		os.Exit(1)
	}
	if len(sessions) == 0 {
		fmt.Fprintln(os.Stderr, "No sessions found in JSON.")
		os.Exit(1)
	}
	fmt.Print(renderMarkdownTable(sessions[len(sessions)-1]))
}

// renderMarkdownTable formats one session as a Markdown table, test cases
// sorted by throughput descending.
func renderMarkdownTable(session FullReport) string {
	rows := make([]TestCaseResult, len(session.TestCases))
	copy(rows, session.TestCases)
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].Throughput > rows[j].Throughput
	})

	out := "## Last Session Summary\n\n"
	out += "| Test Case | Capacity | Producers | Consumers | Produced | Consumed | Throughput (msgs/sec) |\n"
	out += "|-----------|----------|-----------|-----------|----------|----------|-----------------------|\n"
	for _, r := range rows {
		out += fmt.Sprintf("| %9d | %8d | %9d | %9d | %8d | %8d | %21.0f |\n",
			r.TestCase, r.Capacity, r.NumProducers, r.NumConsumers,
			r.NumMessages, r.NumMessagesConsumed, r.Throughput)
	}
	return out
}

// gatherSystemInfo collects basic CPU and memory details.
func gatherSystemInfo() SystemInfo {
	info := SystemInfo{
		NumCPU: runtime.NumCPU(),
		GOARCH: runtime.GOARCH,
	}
	if infos, err := cpu.Info(); err == nil && len(infos) > 0 {
		info.CPUModel = infos[0].ModelName
		info.CPUSpeedMHz = infos[0].Mhz
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		info.TotalMemory = vm.Total
	}
	return info
}
