package main

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"strconv"
	"time"

	"dive-server/src/api"
	"dive-server/src/client"
	"dive-server/src/store"
)

var seedNames = []string{"Mina", "Jun", "Hana", "Seo", "Ari", "Dong", "Yuna", "Tae", "Bora", "Jin"}

func randomSubmission(rng *rand.Rand) store.Submission {
	return store.Submission{
		Name:      seedNames[rng.Intn(len(seedNames))],
		Phone:     fmt.Sprintf("010-%04d-%04d", rng.Intn(10000), rng.Intn(10000)),
		Depth:     store.RoundDepth(1 + rng.Float64()*120),
		Character: []string{"shortfin", "longfin"}[rng.Intn(2)],
	}
}

// seed_scores [count] [base-url] posts random scores through the retry queue
// and then reads them back through the admin listing.
func main() {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	count := 10
	if len(os.Args) > 1 {
		if n, err := strconv.Atoi(os.Args[1]); err == nil && n > 0 {
			count = n
		}
	}
	base := "http://localhost:8080"
	if len(os.Args) > 2 {
		base = os.Args[2]
	}

	q, err := client.NewQueue(&client.MemoryStorage{}, client.NewHTTP(base))
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	for i := 0; i < count; i++ {
		if err := q.Enqueue(context.Background(), randomSubmission(rng)); err != nil {
			fmt.Fprintf(os.Stderr, "warn: score %d pending: %v\n", i+1, err)
		}
	}
	fmt.Printf("Seeded %d scores, %d pending.\n", count-q.Len(), q.Len())

	// Read back with an admin token signed from the server's env.
	cfg := api.LoadConfig()
	token, err := api.GenerateToken(cfg.JWTSecret, cfg.JWTIssuer, "seed", api.RoleAdmin, time.Hour)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warn: could not generate admin token: %v\n", err)
		return
	}
	req, err := http.NewRequest(http.MethodGet, base+"/api/v1/admin/scores?page=1&page_size=5", nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warn: building request failed: %v\n", err)
		return
	}
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := (&http.Client{Timeout: 10 * time.Second}).Do(req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warn: API request failed: %v\n", err)
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		fmt.Fprintf(os.Stderr, "warn: admin list returned status %s\n", resp.Status)
		return
	}
	var page struct {
		TotalItems int64         `json:"total_items"`
		Items      []store.Score `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		fmt.Fprintf(os.Stderr, "warn: decoding admin list: %v\n", err)
		return
	}
	fmt.Printf("Server now holds %d scores; newest:\n", page.TotalItems)
	for _, s := range page.Items {
		fmt.Printf("  %-20s %8.2f m  %s\n", s.Name, s.Depth, s.Character)
	}
}
