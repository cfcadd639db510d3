package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/stasstaf/shopcart/pkg/httpclient"
	"github.com/stasstaf/shopcart/pkg/logger"
)

// loadgen drives a running shopcart instance with a simulated shopping
// session: create an item, create a cart, add the item a few times, and
// occasionally poke the API with an unknown item id to exercise the error
// path.
func main() {
	baseURL := flag.String("base-url", "http://localhost:8000", "shopcart base URL")
	rounds := flag.Int("rounds", 1000, "number of shopping rounds")
	interval := flag.Duration("interval", 500*time.Millisecond, "pause between rounds")
	flag.Parse()

	log := logger.New("shopcart-loadgen", "info")

	client := newAPIClient(*baseURL, log)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	for round := 0; round < *rounds; round++ {
		if ctx.Err() != nil {
			log.Info("interrupted", slog.Int("rounds_done", round))
			return
		}

		if err := shoppingRound(ctx, client, log); err != nil {
			log.Error("shopping round failed",
				slog.Int("round", round),
				slog.String("error", err.Error()),
			)
			if ctx.Err() != nil {
				return
			}
		}

		select {
		case <-time.After(*interval):
		case <-ctx.Done():
			log.Info("interrupted", slog.Int("rounds_done", round+1))
			return
		}
	}

	log.Info("load generation complete", slog.Int("rounds", *rounds))
}

func shoppingRound(ctx context.Context, client *apiClient, log *slog.Logger) error {
	name := gofakeit.ProductName()
	price := math.Round(gofakeit.Price(5, 50)*100) / 100

	itemID, err := client.createItem(ctx, name, price)
	if err != nil {
		return fmt.Errorf("create item: %w", err)
	}

	cartID, err := client.createCart(ctx)
	if err != nil {
		return fmt.Errorf("create cart: %w", err)
	}

	adds := gofakeit.Number(1, 5)
	for i := 0; i < adds; i++ {
		if _, err := client.addItem(ctx, cartID, itemID); err != nil {
			return fmt.Errorf("add item: %w", err)
		}
	}

	// Every fifth round or so, request a nonexistent item to confirm the
	// API rejects it.
	if gofakeit.Number(1, 100) <= 20 {
		fakeItemID := int64(gofakeit.Number(1000, 9999))
		status, err := client.addItem(ctx, cartID, fakeItemID)
		if err != nil {
			return fmt.Errorf("add unknown item: %w", err)
		}
		log.Info("unknown item rejected",
			slog.Int64("item_id", fakeItemID),
			slog.Int("status", status),
		)
	}

	log.Info("shopping round done",
		slog.Int64("item_id", itemID),
		slog.Int64("cart_id", cartID),
		slog.Int("adds", adds),
	)

	return nil
}

// apiClient is a thin shopcart API client over the retrying, breaker-guarded
// HTTP client.
type apiClient struct {
	base string
	http *httpclient.BreakerClient
}

func newAPIClient(base string, log *slog.Logger) *apiClient {
	cfg := httpclient.DefaultConfig()
	cfg.Timeout = 10 * time.Second
	inner := httpclient.New(cfg)

	breaker := httpclient.NewBreakerClient(inner, httpclient.DefaultCircuitBreakerConfig("shopcart"), log)

	return &apiClient{base: base, http: breaker}
}

type idResponse struct {
	ID int64 `json:"id"`
}

func (c *apiClient) createItem(ctx context.Context, name string, price float64) (int64, error) {
	body, err := json.Marshal(map[string]any{"name": name, "price": price})
	if err != nil {
		return 0, err
	}

	resp, err := c.post(ctx, c.base+"/item", bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return 0, fmt.Errorf("unexpected status %s", resp.Status)
	}

	var out idResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, err
	}
	return out.ID, nil
}

func (c *apiClient) createCart(ctx context.Context) (int64, error) {
	resp, err := c.post(ctx, c.base+"/cart", nil)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return 0, fmt.Errorf("unexpected status %s", resp.Status)
	}

	var out idResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, err
	}
	return out.ID, nil
}

// addItem returns the response status code; a 404 for an unknown item is a
// valid outcome for the error-path probe, not an error.
func (c *apiClient) addItem(ctx context.Context, cartID, itemID int64) (int, error) {
	url := fmt.Sprintf("%s/cart/%d/add/%d", c.base, cartID, itemID)

	resp, err := c.post(ctx, url, nil)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	return resp.StatusCode, nil
}

func (c *apiClient) post(ctx context.Context, url string, body *bytes.Reader) (*http.Response, error) {
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	} else {
		req, err = http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
	}
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	return c.http.Do(ctx, req)
}
