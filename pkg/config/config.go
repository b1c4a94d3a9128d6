// Package config reads simulator test cases from a configuration source.
// This lives in pkg so other programs can consume the test-case format
// without pulling in the simulation harness.
package config

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// TestCase is one configuration line: the buffer capacity, the upper sleep
// bounds for producers and consumers, and how many of each to spawn.
// A TestCase is immutable after parsing and drives exactly one run.
type TestCase struct {
	Capacity           int
	ProducerSleepBound time.Duration
	ConsumerSleepBound time.Duration
	NumProducers       int
	NumConsumers       int
}

// Load reads one test case per line from the file at path.
func Load(path string) ([]TestCase, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config %q: %w", path, err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads test cases from r, one per line, each holding five
// comma-separated integers: capacity, producer sleep bound (seconds),
// consumer sleep bound (seconds), producer count, consumer count.
// Blank lines are skipped. Missing or non-numeric fields parse as zero;
// validation of the resulting values is left to the runner.
func Parse(r io.Reader) ([]TestCase, error) {
	var cases []TestCase
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		fields := strings.Split(line, ",")
		cases = append(cases, TestCase{
			Capacity:           field(fields, 0),
			ProducerSleepBound: time.Duration(field(fields, 1)) * time.Second,
			ConsumerSleepBound: time.Duration(field(fields, 2)) * time.Second,
			NumProducers:       field(fields, 3),
			NumConsumers:       field(fields, 4),
		})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return cases, nil
}

// field parses fields[i], yielding 0 for missing or non-numeric values.
func field(fields []string, i int) int {
	if i >= len(fields) {
		return 0
	}
	n, _ := strconv.Atoi(strings.TrimSpace(fields[i]))
	return n
}
