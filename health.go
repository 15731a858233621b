package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// HealthStatus is the /health payload of a running instance.
type HealthStatus struct {
	Status    string `json:"status"`
	Overall   string `json:"overall"`
	State     string `json:"state"`
	Timestamp string `json:"timestamp"`
}

// healthTimeout bounds the whole health request.
const healthTimeout = 2 * time.Second

// fetchHealth queries the /health endpoint served at addr.
func fetchHealth(client *http.Client, addr string) (*HealthStatus, error) {
	resp, err := client.Get("http://" + addr + "/health")
	if err != nil {
		return nil, fmt.Errorf("query health: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("query health: unexpected status %s", resp.Status)
	}

	var status HealthStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, fmt.Errorf("decode health: %w", err)
	}
	return &status, nil
}

// checkHealth reports whether the instance serving addr is healthy: it
// answers and its monitor is still running. Returns exit code 0 for
// healthy, 1 for unhealthy or unreachable.
func checkHealth(stdout, stderr io.Writer, addr string, jsonOutput bool) int {
	client := &http.Client{Timeout: healthTimeout}

	status, err := fetchHealth(client, addr)
	if err != nil {
		if jsonOutput {
			data, _ := json.Marshal(map[string]string{"status": "unreachable", "error": err.Error()})
			fmt.Fprintln(stdout, string(data))
		} else {
			fmt.Fprintf(stderr, "sysmon not reachable at %s: %v\n", addr, err)
		}
		return 1
	}

	healthy := status.Status == "healthy" && status.State == "running"

	if jsonOutput {
		data, _ := json.MarshalIndent(status, "", "  ")
		fmt.Fprintln(stdout, string(data))
	} else if healthy {
		fmt.Fprintf(stdout, "sysmon healthy (overall %s)\n", status.Overall)
	} else {
		fmt.Fprintf(stderr, "sysmon unhealthy (status %s, state %s)\n", status.Status, status.State)
	}

	if !healthy {
		return 1
	}
	return 0
}
