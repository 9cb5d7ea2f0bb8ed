package fetcher

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/gocolly/colly"
	"github.com/sethvargo/go-retry"
)

type FetcherInterface interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Fetcher downloads the raw dataset from a URL, retrying transient failures
// with exponential backoff.
type Fetcher struct {
	maxRetries uint64
	baseDelay  time.Duration
}

func NewFetcher() FetcherInterface {
	return &Fetcher{
		maxRetries: 3,
		baseDelay:  2 * time.Second,
	}
}

func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	var payload []byte

	backoff := retry.WithMaxRetries(f.maxRetries, retry.NewExponential(f.baseDelay))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		c := colly.NewCollector()
		var body []byte

		c.OnRequest(func(r *colly.Request) {
			log.Println("Fetching:", r.URL)
		})

		c.OnResponse(func(r *colly.Response) {
			log.Println("Response received:", r.StatusCode)
			body = r.Body
		})

		if err := c.Visit(url); err != nil {
			return retry.RetryableError(fmt.Errorf("failed to fetch %s: %v", url, err))
		}

		if len(body) == 0 {
			return retry.RetryableError(fmt.Errorf("empty response from %s", url))
		}

		payload = body
		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to fetch dataset from %s: %v", url, err)
	}

	log.Printf("Fetched %d bytes from %s", len(payload), url)
	return payload, nil
}
