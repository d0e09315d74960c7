package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"sort"
	"strings"
	"sync"
	"time"
)

// -------------------- 统计 --------------------

type APITestStats struct {
	TotalRequests      int
	SuccessfulRequests int
	FailedRequests     int
	latencies          []time.Duration
	mu                 sync.Mutex
}

func (s *APITestStats) Add(success bool, latency time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.TotalRequests++
	if !success {
		s.FailedRequests++
		return
	}
	s.SuccessfulRequests++
	s.latencies = append(s.latencies, latency)
}

// Summary 返回平均、P95、最大、最小延迟
func (s *APITestStats) Summary() (avg, p95, slowest, fastest time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.latencies) == 0 {
		return
	}
	sorted := append([]time.Duration(nil), s.latencies...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	var sum time.Duration
	for _, l := range sorted {
		sum += l
	}
	avg = sum / time.Duration(len(sorted))
	p95 = sorted[(len(sorted)*95)/100]
	return avg, p95, sorted[len(sorted)-1], sorted[0]
}

// -------------------- HTTP 并发压测 --------------------

// login 登录并把 token cookie 保存到 client 的 cookie jar
func login(client *http.Client, base, username, password string) error {
	form := url.Values{"username": {username}, "password": {password}}
	resp, err := client.PostForm(base+"/login/", form)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	u, _ := url.Parse(base)
	for _, c := range client.Jar.Cookies(u) {
		if c.Name == "access_token" {
			return nil
		}
	}
	return errors.New("login failed: no access_token cookie returned")
}

func hit(client *http.Client, target string, stats *APITestStats) {
	start := time.Now()
	resp, err := client.Get(target)
	lat := time.Since(start)
	if err != nil {
		stats.Add(false, lat)
		return
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	stats.Add(resp.StatusCode == http.StatusOK, lat)
}

func runHTTPBench(client *http.Client, base string, endpoints []string, concurrency, perGoroutine int) {
	fmt.Println("\n=== HTTP并发测试开始 ===")
	fmt.Printf("目标: %s 并发: %d 每协程请求: %d\n", base, concurrency, perGoroutine)

	stats := make(map[string]*APITestStats, len(endpoints))
	for _, ep := range endpoints {
		stats[ep] = &APITestStats{}
	}

	var wg sync.WaitGroup
	start := time.Now()
	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < perGoroutine; j++ {
				ep := endpoints[(id+j)%len(endpoints)]
				hit(client, base+ep, stats[ep])
			}
		}(i)
	}
	wg.Wait()
	took := time.Since(start)

	fmt.Println("\n=== HTTP测试结果 ===")
	fmt.Printf("耗时: %v\n", took)
	var total, ok int
	for _, ep := range endpoints {
		s := stats[ep]
		avg, p95, slowest, fastest := s.Summary()
		fmt.Printf("%-20s 总请求: %d 成功: %d 失败: %d 平均: %v P95: %v 最大: %v 最小: %v\n",
			ep, s.TotalRequests, s.SuccessfulRequests, s.FailedRequests, avg, p95, slowest, fastest)
		total += s.TotalRequests
		ok += s.SuccessfulRequests
	}
	if took > 0 {
		fmt.Printf("QPS: %.2f\n", float64(ok)/took.Seconds())
	}
	if total > 0 {
		fmt.Printf("成功率: %.2f%%\n", float64(ok)/float64(total)*100)
	}
}

// -------------------- 入口 --------------------

func main() {
	base := flag.String("base", "http://localhost:8080", "server base URL")
	concurrency := flag.Int("c", 5, "concurrent workers")
	perGoroutine := flag.Int("n", 10, "requests per worker")
	username := flag.String("username", "", "login as this user for authenticated endpoints")
	password := flag.String("password", "", "password for -username")
	tweetID := flag.Int("tweet", 1, "tweet id used for the detail endpoint")
	flag.Parse()

	jar, _ := cookiejar.New(nil)
	client := &http.Client{
		Timeout: 8 * time.Second,
		Jar:     jar,
		// 未登录时不跟随跳转，直接记为失败
		CheckRedirect: func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse },
	}

	endpoints := []string{"/health"}
	if *username != "" {
		if err := login(client, strings.TrimRight(*base, "/"), *username, *password); err != nil {
			fmt.Println("登录失败:", err)
			os.Exit(1)
		}
		endpoints = append(endpoints, "/home/", fmt.Sprintf("/tweets/%d/", *tweetID))
	}

	fmt.Println("=== SNS 系统并发测试 ===")
	fmt.Printf("开始时间: %s\n", time.Now().Format("2006-01-02 15:04:05"))

	runHTTPBench(client, strings.TrimRight(*base, "/"), endpoints, *concurrency, *perGoroutine)

	fmt.Println("\n=== 测试完成 ===")
}
