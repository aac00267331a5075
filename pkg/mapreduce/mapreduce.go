// Package mapreduce counts words across many texts in parallel.
package mapreduce

import (
	"context"
	"sync"

	"github.com/dtnitsch/essay-obscurity/pkg/analytics"
)

// Map generates a word frequency map for a single document.
func Map(text string) map[string]int {
	counts := make(map[string]int)
	for _, tok := range analytics.Tokenize(text) {
		counts[tok]++
	}
	return counts
}

// Reduce aggregates a slice of word frequency maps into a single map.
func Reduce(intermediate []map[string]int) map[string]int {
	finalResults := make(map[string]int)

	for _, counts := range intermediate {
		for word, count := range counts {
			finalResults[word] += count
		}
	}

	return finalResults
}

// Count maps every text on up to workers goroutines and reduces the results.
// It stops handing out texts once ctx is done and returns ctx.Err().
func Count(ctx context.Context, texts []string, workers int) (map[string]int, error) {
	if workers < 1 {
		workers = 1
	}
	if workers > len(texts) && len(texts) > 0 {
		workers = len(texts)
	}

	jobs := make(chan string)
	results := make(chan map[string]int, len(texts))
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for text := range jobs {
				results <- Map(text)
			}
		}()
	}

	var err error
feed:
	for _, text := range texts {
		if err = ctx.Err(); err != nil {
			break
		}
		select {
		case <-ctx.Done():
			err = ctx.Err()
			break feed
		case jobs <- text:
		}
	}
	close(jobs)
	wg.Wait()
	close(results)

	if err != nil {
		return nil, err
	}
	intermediate := make([]map[string]int, 0, len(texts))
	for counts := range results {
		intermediate = append(intermediate, counts)
	}
	return Reduce(intermediate), nil
}
