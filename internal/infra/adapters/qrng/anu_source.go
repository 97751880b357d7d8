package qrng

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/tidwall/gjson"

	"quantum-oracle-bot/internal/domain"
	"quantum-oracle-bot/internal/domain/ports/adapter"
)

// DefaultBaseURL is the ANU quantum random number endpoint.
const DefaultBaseURL = "https://qrng.anu.edu.au/API/jsonI.php"

// maxBody bounds a response; 1024 uint16 values fit comfortably.
const maxBody = 1 << 20

var _ adapter.RandomSource = (*ANUSource)(nil)

// ANUSource fetches uint16 batches from the ANU QRNG JSON API.
type ANUSource struct {
	base   string
	client *http.Client
}

func NewANUSource(baseURL string, timeout time.Duration) *ANUSource {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &ANUSource{base: baseURL, client: &http.Client{Timeout: timeout}}
}

func (s *ANUSource) Fetch(ctx context.Context, n int) ([]uint16, error) {
	if n <= 0 {
		return nil, fmt.Errorf("qrng: batch size %d: %w", n, domain.ErrInvalidArgument)
	}
	q := url.Values{}
	q.Set("length", strconv.Itoa(n))
	q.Set("type", "uint16")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.base+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("qrng: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("qrng: %v: %w", err, domain.ErrSourceUnavailable)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("qrng: http %d: %w", resp.StatusCode, domain.ErrSourceUnavailable)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("qrng: read body: %v: %w", err, domain.ErrSourceUnavailable)
	}
	return parseBatch(body)
}

// parseBatch accepts {"success": true, "data": [..]} with every value in 0..65535.
func parseBatch(body []byte) ([]uint16, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("qrng: malformed json: %w", domain.ErrSourceUnavailable)
	}
	doc := gjson.ParseBytes(body)
	if !doc.Get("success").Bool() {
		return nil, fmt.Errorf("qrng: success=false: %w", domain.ErrSourceUnavailable)
	}
	data := doc.Get("data")
	if !data.IsArray() {
		return nil, fmt.Errorf("qrng: data is not an array: %w", domain.ErrSourceUnavailable)
	}
	items := data.Array()
	out := make([]uint16, 0, len(items))
	for i, v := range items {
		if v.Type != gjson.Number {
			return nil, fmt.Errorf("qrng: data[%d] is not a number: %w", i, domain.ErrSourceUnavailable)
		}
		f := v.Float()
		if f < 0 || f > 65535 || f != float64(int64(f)) {
			return nil, fmt.Errorf("qrng: data[%d]=%v out of range: %w", i, f, domain.ErrSourceUnavailable)
		}
		out = append(out, uint16(f))
	}
	return out, nil
}
