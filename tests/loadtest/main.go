package main

import (
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

const (
	baseURL      = "http://127.0.0.1:18090"
	numWorkers   = 50
	testDuration = 10 * time.Second
)

// idRange is a window of upstream ids for one lookup endpoint. Ids inside a
// window are dense enough that most lookups hit.
type idRange struct {
	endpoint string
	kind     string
	from, to int
}

var lookups = []idRange{
	{"/character", "character", 10000002, 10000110},
	{"/weapon", "weapon", 11101, 15515},
	{"/material", "material", 100001, 104400},
	{"/artifact", "artifact", 71000, 95000},
	{"/affix", "affix", 501001, 501244},
	{"/property", "property", 10001, 50990},
	{"/set", "set", 15001, 15040},
	{"/skill", "skill_type", 10010, 10900},
}

var httpClient = &http.Client{
	Timeout: 5 * time.Second,
	Transport: &http.Transport{
		MaxIdleConns:        200,
		MaxIdleConnsPerHost: 200,
		IdleConnTimeout:     30 * time.Second,
		DialContext: (&net.Dialer{
			Timeout:   2 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
	},
}

type result struct {
	endpoint string
	status   int
	latency  time.Duration
	err      bool
}

type stats struct {
	count     int64
	errors    int64
	latencies []time.Duration
}

func main() {
	fmt.Println("=== AGD Load Test ===")
	fmt.Printf("Workers: %d | Duration: %s\n\n", numWorkers, testDuration)

	// Wait for a snapshot; the first sync downloads every table
	fmt.Print("Waiting for data... ")
	for i := 0; ; i++ {
		if hasData() {
			break
		}
		if i == 600 {
			fmt.Println("FAILED: no snapshot after 10 minutes")
			return
		}
		time.Sleep(time.Second)
	}
	fmt.Println("OK")

	fmt.Println("\n--- Phase 1: Lookups ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		return doLookup(rng)
	})

	// Cache is warm now; repeat on the first page of known ids
	known := make([][]uint32, len(lookups))
	for i, r := range lookups {
		ids, err := knownIDs(r.kind)
		if err != nil || len(ids) == 0 {
			fmt.Printf("FAILED: listing %s ids: %v\n", r.kind, err)
			return
		}
		known[i] = ids
	}

	fmt.Println("\n--- Phase 2: Hot ids (cache hits) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		i := rng.Intn(len(lookups))
		id := known[i][rng.Intn(len(known[i]))]
		return doGet("GET "+lookups[i].endpoint+" (hot)", fmt.Sprintf("%s%s?id=%d", baseURL, lookups[i].endpoint, id))
	})

	fmt.Println("\n--- Phase 3: Lookups with sync checks (1% POST /sync) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		if rng.Float64() < 0.01 {
			return doSync()
		}
		return doLookup(rng)
	})
}

func hasData() bool {
	resp, err := httpClient.Get(baseURL + "/revision")
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	var body struct {
		HasData bool `json:"has_data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return false
	}
	return body.HasData
}

func knownIDs(kind string) ([]uint32, error) {
	resp, err := httpClient.Get(baseURL + "/ids?kind=" + kind + "&limit=20")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}
	var body struct {
		IDs []uint32 `json:"ids"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, err
	}
	return body.IDs, nil
}

func runPhase(duration time.Duration, workFn func(rng *rand.Rand) result) {
	results := make(chan result, 10000)
	var wg sync.WaitGroup
	var totalOps atomic.Int64
	stop := make(chan struct{})

	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			for {
				select {
				case <-stop:
					return
				default:
					r := workFn(rng)
					totalOps.Add(1)
					results <- r
				}
			}
		}(rand.Int63() + int64(i))
	}

	allResults := make(map[string]*stats)
	done := make(chan struct{})
	go func() {
		for r := range results {
			s, ok := allResults[r.endpoint]
			if !ok {
				s = &stats{}
				allResults[r.endpoint] = s
			}
			s.count++
			if r.err {
				s.errors++
			}
			s.latencies = append(s.latencies, r.latency)
		}
		close(done)
	}()

	time.Sleep(duration)
	close(stop)
	wg.Wait()
	close(results)
	<-done

	printResults(allResults, duration)
}

func printResults(allResults map[string]*stats, duration time.Duration) {
	var totalOps int64
	var totalErrors int64

	endpoints := make([]string, 0, len(allResults))
	for ep := range allResults {
		endpoints = append(endpoints, ep)
	}
	sort.Strings(endpoints)

	fmt.Printf("\n  %-22s %8s %6s %10s %10s %10s %10s\n",
		"Endpoint", "Reqs", "Errs", "Avg", "P50", "P95", "P99")
	fmt.Println("  " + repeat("-", 88))

	for _, ep := range endpoints {
		s := allResults[ep]
		totalOps += s.count
		totalErrors += s.errors

		sort.Slice(s.latencies, func(i, j int) bool {
			return s.latencies[i] < s.latencies[j]
		})

		avg := avgDuration(s.latencies)
		p50 := percentile(s.latencies, 0.50)
		p95 := percentile(s.latencies, 0.95)
		p99 := percentile(s.latencies, 0.99)

		fmt.Printf("  %-22s %8d %6d %10s %10s %10s %10s\n",
			ep, s.count, s.errors, fmtDur(avg), fmtDur(p50), fmtDur(p95), fmtDur(p99))
	}

	rps := float64(totalOps) / duration.Seconds()
	fmt.Println("  " + repeat("-", 88))
	fmt.Printf("  Total: %d reqs | Errors: %d (%.1f%%) | RPS: %.0f\n",
		totalOps, totalErrors, float64(totalErrors)/float64(totalOps)*100, rps)
}

func doLookup(rng *rand.Rand) result {
	r := lookups[rng.Intn(len(lookups))]
	id := r.from + rng.Intn(r.to-r.from+1)
	return doGet("GET "+r.endpoint, fmt.Sprintf("%s%s?id=%d", baseURL, r.endpoint, id))
}

// doGet counts 404 as a valid answer: id windows are not fully populated.
func doGet(endpoint, url string) result {
	start := time.Now()
	resp, err := httpClient.Get(url)
	lat := time.Since(start)
	if err != nil {
		return result{endpoint, 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{endpoint, resp.StatusCode, lat, resp.StatusCode != 200 && resp.StatusCode != 404}
}

func doSync() result {
	start := time.Now()
	resp, err := httpClient.Post(baseURL+"/sync", "application/json", nil)
	lat := time.Since(start)
	if err != nil {
		return result{"POST /sync", 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{"POST /sync", resp.StatusCode, lat, resp.StatusCode != 200}
}

func avgDuration(d []time.Duration) time.Duration {
	if len(d) == 0 {
		return 0
	}
	var sum time.Duration
	for _, v := range d {
		sum += v
	}
	return sum / time.Duration(len(d))
}

func percentile(d []time.Duration, p float64) time.Duration {
	if len(d) == 0 {
		return 0
	}
	idx := int(float64(len(d)) * p)
	if idx >= len(d) {
		idx = len(d) - 1
	}
	return d[idx]
}

func fmtDur(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dus", d.Microseconds())
	}
	return fmt.Sprintf("%.1fms", float64(d.Microseconds())/1000.0)
}

func repeat(s string, n int) string {
	out := ""
	for i := 0; i < n; i++ {
		out += s
	}
	return out
}
