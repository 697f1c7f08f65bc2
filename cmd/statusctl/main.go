package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"text/tabwriter"
	"time"

	"github.com/adousti/vigil/internal/domain"
)

func main() {
	api := os.Getenv("API_BASE")
	if api == "" {
		api = "http://localhost:8080"
	}

	req, err := http.NewRequest(http.MethodGet, api+"/api/status", nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, "bad API_BASE:", err)
		os.Exit(1)
	}
	if key := os.Getenv("API_KEY"); key != "" {
		req.Header.Set("X-API-Key", key)
	}

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		fmt.Fprintln(os.Stderr, "request failed:", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusServiceUnavailable {
		fmt.Println("no snapshot yet (first cycle not finished)")
		return
	}
	if resp.StatusCode != http.StatusOK {
		fmt.Fprintf(os.Stderr, "unexpected status %d from %s\n", resp.StatusCode, api)
		os.Exit(1)
	}

	var rep domain.StatusReport
	if err := json.NewDecoder(resp.Body).Decode(&rep); err != nil {
		fmt.Fprintln(os.Stderr, "decode failed:", err)
		os.Exit(1)
	}

	overall := "DEGRADED"
	if rep.OverallHealth {
		overall = "OK"
	}
	fmt.Printf("%s  %d/%d healthy  (checked %s)\n\n",
		overall, rep.HealthyServices, rep.TotalServices, rep.Timestamp.Format(time.RFC3339))

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TARGET\tSTATE\tHTTP\tTIME\tFAILS\tERROR")
	for _, r := range rep.Results {
		state := "down"
		if r.Healthy {
			state = "up"
		}
		httpTxt := "-"
		if r.StatusCode != 0 {
			httpTxt = fmt.Sprintf("%d", r.StatusCode)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%.0fms\t%d\t%s\n",
			r.TargetName, state, httpTxt, r.ResponseTimeMS, rep.FailureCounts[r.TargetName], r.Error)
	}
	w.Flush()
}
