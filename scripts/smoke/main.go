// Command smoke probes a running student-service and teacher-service pair
// and reports any endpoint that does not answer with its expected status.
// Intended for post-deploy checks; exits non-zero when a critical probe fails.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

type probe struct {
	Service  string `json:"service"` // "students" or "teachers"
	Method   string `json:"method"`
	Path     string `json:"path"`
	Expect   int    `json:"expect"`
	Critical bool   `json:"critical"`
}

type config struct {
	Probes []probe `json:"probes"`
}

type result struct {
	Probe    probe
	Status   int
	Match    bool
	Duration time.Duration
	Error    error
}

func main() {
	var (
		studentBase string
		teacherBase string
		probesPath  string
		timeout     time.Duration
	)

	flag.StringVar(&studentBase, "student-base", "http://localhost:8080", "student-service base URL")
	flag.StringVar(&teacherBase, "teacher-base", "http://localhost:8081", "teacher-service base URL")
	flag.StringVar(&probesPath, "probes", filepath.Join("scripts", "smoke", "probes.json"), "Path to JSON probes file")
	flag.DurationVar(&timeout, "timeout", 5*time.Second, "HTTP client timeout")
	flag.Parse()

	probes, err := loadProbes(probesPath)
	if err != nil {
		log.Fatalf("failed to load probes: %v", err)
	}

	client := &http.Client{Timeout: timeout}
	var (
		results  []result
		breaking int
		warnings int
	)

	for _, p := range probes {
		base := studentBase
		if p.Service == "teachers" {
			base = teacherBase
		}
		res := runProbe(client, base, p)
		if res.Error != nil || !res.Match {
			if p.Critical {
				breaking++
			} else {
				warnings++
			}
		}
		results = append(results, res)
	}

	printReport(results)

	fmt.Printf("Failed critical probes: %d, warnings: %d\n", breaking, warnings)
	if breaking > 0 {
		os.Exit(1)
	}
}

func loadProbes(path string) ([]probe, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	if len(cfg.Probes) == 0 {
		return nil, fmt.Errorf("no probes defined in %s", path)
	}
	return cfg.Probes, nil
}

func runProbe(client *http.Client, base string, p probe) result {
	res := result{Probe: p}

	method := strings.ToUpper(strings.TrimSpace(p.Method))
	if method == "" {
		method = http.MethodGet
	}
	path := p.Path
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	url := strings.TrimRight(base, "/") + path

	req, err := http.NewRequest(method, url, nil)
	if err != nil {
		res.Error = err
		return res
	}
	start := time.Now()
	resp, err := client.Do(req)
	res.Duration = time.Since(start)
	if err != nil {
		res.Error = err
		return res
	}
	defer resp.Body.Close()

	res.Status = resp.StatusCode
	expect := p.Expect
	if expect == 0 {
		expect = http.StatusOK
	}
	res.Match = res.Status == expect
	return res
}

func printReport(results []result) {
	for _, r := range results {
		state := "OK"
		detail := fmt.Sprintf("status=%d in %s", r.Status, r.Duration.Round(time.Millisecond))
		if r.Error != nil {
			state = "ERROR"
			detail = r.Error.Error()
		} else if !r.Match {
			state = "DIFF"
		}
		fmt.Printf("[%-5s] %-8s %-6s %-45s %s\n", state, r.Probe.Service, r.Probe.Method, r.Probe.Path, detail)
	}
}
