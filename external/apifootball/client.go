package apifootball

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/fanbet/internal/domain/competition"
	"github.com/riskibarqy/fanbet/internal/platform/cache"
	"github.com/riskibarqy/fanbet/internal/platform/logging"
	"github.com/riskibarqy/fanbet/internal/platform/resilience"
	"github.com/riskibarqy/fanbet/internal/usecase"
	"github.com/valyala/bytebufferpool"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	defaultBaseURL  = "https://v3.football.api-sports.io"
	defaultAPIHost  = "v3.football.api-sports.io"
	defaultTimeout  = 20 * time.Second
	defaultCacheTTL = 10 * time.Minute
	maxResponseSize = 6 << 20

	headerAPIKey  = "x-rapidapi-key"
	headerAPIHost = "x-rapidapi-host"
)

var errProviderTransient = crerr.New("api-football transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	APIKey         string
	APIHost        string
	Timeout        time.Duration
	MaxRetries     int
	CacheTTL       time.Duration
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client talks to API-Football v3. It implements usecase.SportsDataClient.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	apiHost    string
	maxRetries int
	logger     *logging.Logger
	breaker    *resilience.CircuitBreaker
	flight     resilience.SingleFlight[[]byte]
	standings  *cache.Store[[]competition.StandingRow]
	players    *cache.Store[[]competition.Player]
	backoff    func(attempt int) time.Duration
}

var _ usecase.SportsDataClient = (*Client)(nil)

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = timeout
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	apiHost := strings.TrimSpace(cfg.APIHost)
	if apiHost == "" {
		apiHost = defaultAPIHost
	}
	cacheTTL := cfg.CacheTTL
	if cacheTTL <= 0 {
		cacheTTL = defaultCacheTTL
	}

	breaker := resilience.NewCircuitBreaker(cfg.CircuitBreaker)
	breaker.OnStateChange(func(from, to resilience.CircuitState) {
		logger.Warn("api-football circuit breaker state changed", "from", from, "to", to)
	})

	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		apiKey:     strings.TrimSpace(cfg.APIKey),
		apiHost:    apiHost,
		maxRetries: max(cfg.MaxRetries, 0),
		logger:     logger,
		breaker:    breaker,
		standings:  cache.NewStore[[]competition.StandingRow](cacheTTL),
		players:    cache.NewStore[[]competition.Player](cacheTTL),
		backoff:    linearBackoff,
	}
}

// envelope is the shape every API-Football endpoint answers with.
type envelope[T any] struct {
	Get      string `json:"get"`
	Errors   any    `json:"errors"`
	Results  int    `json:"results"`
	Paging   paging `json:"paging"`
	Response T      `json:"response"`
}

type paging struct {
	Current int `json:"current"`
	Total   int `json:"total"`
}

// doJSON fetches path and decodes the envelope into target. Errors reported inside a 200
// response are returned as *usecase.DataProviderError.
func (c *Client) doJSON(ctx context.Context, path string, query url.Values, target any) error {
	if err := c.breaker.Allow(); err != nil {
		c.logger.WarnContext(ctx, "api-football circuit breaker rejected request", "path", path, "state", c.breaker.State())
		return fmt.Errorf("%w: sports data provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
	}

	fullURL := c.baseURL + path
	if encoded := query.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	raw, err, _ := c.flight.Do(fullURL, func() ([]byte, error) {
		body, reqErr := c.executeRequest(ctx, path, fullURL)
		if reqErr != nil && crerr.Is(reqErr, errProviderTransient) {
			c.breaker.RecordFailure()
		} else {
			c.breaker.RecordSuccess()
		}
		return body, reqErr
	})
	if err != nil {
		return err
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return &usecase.DataProviderError{
			Endpoint:   path,
			StatusCode: http.StatusOK,
			Payload:    "decode: " + err.Error() + " body=" + abbreviateBody(raw),
		}
	}
	if carrier, ok := target.(errorCarrier); ok {
		if payload, hasErrors := carrier.providerErrors(); hasErrors {
			return &usecase.DataProviderError{Endpoint: path, StatusCode: http.StatusOK, Payload: payload}
		}
	}
	return nil
}

type errorCarrier interface {
	providerErrors() (string, bool)
}

func (e *envelope[T]) providerErrors() (string, bool) {
	switch v := e.Errors.(type) {
	case nil:
		return "", false
	case []any:
		if len(v) == 0 {
			return "", false
		}
	case map[string]any:
		if len(v) == 0 {
			return "", false
		}
	case string:
		if strings.TrimSpace(v) == "" {
			return "", false
		}
	}
	payload, err := sonic.MarshalString(e.Errors)
	if err != nil {
		payload = fmt.Sprintf("%v", e.Errors)
	}
	return payload, true
}

func (c *Client) executeRequest(ctx context.Context, path, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		raw, err := c.roundTrip(ctx, path, fullURL)
		if err == nil {
			return raw, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		lastErr = err
		if !crerr.Is(err, errProviderTransient) || attempt == c.maxRetries {
			break
		}

		timer := time.NewTimer(c.backoff(attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	c.logger.WarnContext(ctx, "api-football request failed", "path", path, "error", lastErr)
	return nil, lastErr
}

func (c *Client) roundTrip(ctx context.Context, path, fullURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, crerr.Wrap(err, "build request")
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set(headerAPIKey, c.apiKey)
	req.Header.Set(headerAPIHost, c.apiHost)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, crerr.Mark(&usecase.DataProviderError{
			Endpoint: path,
			Payload:  sanitizeSensitiveText(err.Error(), c.apiKey),
		}, errProviderTransient)
	}
	defer resp.Body.Close()

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	if _, err := buf.ReadFrom(io.LimitReader(resp.Body, maxResponseSize)); err != nil {
		return nil, crerr.Mark(&usecase.DataProviderError{
			Endpoint:   path,
			StatusCode: resp.StatusCode,
			Payload:    "read body: " + err.Error(),
		}, errProviderTransient)
	}
	raw := append([]byte(nil), buf.B...)

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return raw, nil
	}

	providerErr := &usecase.DataProviderError{Endpoint: path, StatusCode: resp.StatusCode, Payload: abbreviateBody(raw)}
	if isRetryableStatus(resp.StatusCode) {
		return nil, crerr.Mark(providerErr, errProviderTransient)
	}
	return nil, providerErr
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func linearBackoff(attempt int) time.Duration {
	return time.Duration(attempt+1) * time.Second
}

func sanitizeSensitiveText(value, apiKey string) string {
	value = strings.TrimSpace(value)
	if apiKey != "" {
		value = strings.ReplaceAll(value, apiKey, "REDACTED")
	}
	return value
}

const maxErrorBodyLength = 240

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= maxErrorBodyLength {
		return text
	}
	cut := maxErrorBodyLength
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut] + "..."
}
