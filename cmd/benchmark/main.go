package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
	"unicode/utf8"
)

type toneEntry struct {
	Tone string `json:"tone"`
}

type tonesResponse struct {
	Tones []toneEntry `json:"tones"`
}

type optimizeRequest struct {
	Prompt string `json:"prompt"`
	Tone   string `json:"tone"`
}

type optimizeResponse struct {
	OptimizedPrompt string `json:"optimized_prompt"`
	Model           string `json:"model"`
	ElapsedMs       int64  `json:"elapsed_ms"`
}

type result struct {
	Sample    string `json:"sample"`
	Tone      string `json:"tone"`
	Chars     int    `json:"chars"`
	Model     string `json:"model,omitempty"`
	Run       int    `json:"run"`
	ElapsedMs int64  `json:"elapsed_ms"`
	WallMs    int64  `json:"wall_ms"`
	OutChars  int    `json:"out_chars"`
	Output    string `json:"output,omitempty"`
	Error     string `json:"error,omitempty"`
}

func main() {
	url := flag.String("url", "http://localhost:5000", "API base URL")
	runs := flag.Int("runs", 1, "Number of runs per sample and tone")
	toneList := flag.String("tones", "", "Comma-separated tones (default: all from /api/tones)")
	quality := flag.Bool("quality", false, "Print input and output for each request instead of a timing table")
	jsonOut := flag.String("json", "", "Write results to JSON file (e.g. results.json)")
	rateLimit := flag.Int("rate", 10, "Requests per minute to stay under the server's rate_limit (0 disables pacing; raise with PROMPTUNE_RATE_LIMIT on the server)")
	flag.Parse()

	baseURL := strings.TrimRight(*url, "/")
	client := &http.Client{Timeout: 180 * time.Second}

	// /api/tones counts against the same per-IP budget as /optimize.
	wait := interval(*rateLimit)
	var last time.Time

	tones := splitList(*toneList)
	if len(tones) == 0 {
		var err error
		last = time.Now()
		tones, err = discoverTones(client, baseURL)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error discovering tones: %v\n", err)
			os.Exit(1)
		}
	}

	fmt.Printf("Benchmarking %s with tones %s (%d runs each)\n", baseURL, strings.Join(tones, ", "), *runs)

	var results []result
	var failures int
	for _, sample := range Samples {
		for _, t := range tones {
			for run := 1; run <= *runs; run++ {
				if d := wait - time.Since(last); d > 0 {
					time.Sleep(d)
				}
				last = time.Now()
				r := benchmark(client, baseURL, sample, t, run)
				results = append(results, r)
				if r.Error != "" {
					failures++
				}
				report(r, sample, *quality)
			}
		}
	}

	if !*quality {
		fmt.Println()
		printTable(results)
	}

	if *jsonOut != "" {
		if err := writeJSON(*jsonOut, results, baseURL); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing JSON: %v\n", err)
		} else {
			fmt.Printf("\nResults written to %s\n", *jsonOut)
		}
	}

	if failures > 0 {
		os.Exit(1)
	}
}

// interval is the gap between requests that keeps a client within perMinute
// requests per minute. Zero or negative disables pacing.
func interval(perMinute int) time.Duration {
	if perMinute <= 0 {
		return 0
	}
	return time.Minute / time.Duration(perMinute)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func discoverTones(client *http.Client, baseURL string) ([]string, error) {
	resp, err := client.Get(baseURL + "/api/tones")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("tones endpoint returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var tr tonesResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return nil, err
	}
	if len(tr.Tones) == 0 {
		return nil, fmt.Errorf("no tones available")
	}

	names := make([]string, len(tr.Tones))
	for i, e := range tr.Tones {
		names[i] = e.Tone
	}
	return names, nil
}

func benchmark(client *http.Client, baseURL string, sample Sample, tone string, run int) result {
	r := result{Sample: sample.Name, Tone: tone, Chars: utf8.RuneCountInString(sample.Prompt), Run: run}

	payload, _ := json.Marshal(optimizeRequest{Prompt: sample.Prompt, Tone: tone})

	start := time.Now()
	resp, err := client.Post(baseURL+"/optimize", "application/json", strings.NewReader(string(payload)))
	r.WallMs = time.Since(start).Milliseconds()
	if err != nil {
		r.Error = err.Error()
		return r
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		r.Error = fmt.Sprintf("HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
		return r
	}

	var or optimizeResponse
	if err := json.NewDecoder(resp.Body).Decode(&or); err != nil {
		r.Error = err.Error()
		return r
	}

	r.Model = or.Model
	r.ElapsedMs = or.ElapsedMs
	r.Output = or.OptimizedPrompt
	r.OutChars = utf8.RuneCountInString(or.OptimizedPrompt)
	if r.OutChars == 0 {
		r.Error = "empty optimized prompt"
	}
	return r
}

func report(r result, sample Sample, quality bool) {
	if !quality {
		if r.Error != "" {
			fmt.Printf("  %s/%s run %d: FAILED (%s)\n", r.Sample, r.Tone, r.Run, r.Error)
		} else {
			fmt.Printf("  %s/%s run %d: %dms\n", r.Sample, r.Tone, r.Run, r.ElapsedMs)
		}
		return
	}

	fmt.Printf("\n--- %s / %s ---\n", r.Sample, r.Tone)
	fmt.Printf("IN:  %s\n", sample.Prompt)
	if r.Error != "" {
		fmt.Printf("ERR: %s\n", r.Error)
		return
	}
	fmt.Printf("OUT: %s\n", r.Output)
	fmt.Printf("     [%dms, %d->%d chars]\n", r.ElapsedMs, r.Chars, r.OutChars)
}

func printTable(results []result) {
	fmt.Println("| Sample | Tone | Chars | Run | Elapsed (ms) | Wall (ms) | Out Chars |")
	fmt.Println("|--------|------|-------|-----|--------------|-----------|-----------|")
	for _, r := range results {
		if r.Error != "" {
			fmt.Printf("| %-6s | %-12s | %5d | %d | %12s | %9s | %9s |\n", r.Sample, r.Tone, r.Chars, r.Run, "FAIL", "-", "-")
			continue
		}
		fmt.Printf("| %-6s | %-12s | %5d | %d | %12d | %9d | %9d |\n",
			r.Sample, r.Tone, r.Chars, r.Run, r.ElapsedMs, r.WallMs, r.OutChars)
	}
}

type jsonReport struct {
	Timestamp string   `json:"timestamp"`
	URL       string   `json:"url"`
	Results   []result `json:"results"`
}

func writeJSON(path string, results []result, baseURL string) error {
	report := jsonReport{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		URL:       baseURL,
		Results:   results,
	}
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
