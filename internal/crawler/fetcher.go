package crawler

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"linkradar/internal/common"
	"linkradar/internal/config"
	"linkradar/internal/models"

	"github.com/rs/zerolog"
	"golang.org/x/net/html/charset"
)

// Fetcher performs single HTTP GET attempts. It never retries: one call, one
// deterministic outcome. Transport failures are folded into the outcome, not
// returned as errors, so a bad URL can never abort the run.
type Fetcher struct {
	client      *http.Client
	auth        *config.BasicAuthConfig
	userAgent   string
	maxBodySize int64
	timeout     time.Duration
	logger      zerolog.Logger
}

// NewFetcher creates a fetcher from the run's scan configuration.
func NewFetcher(cfg *config.ScanConfig, logger zerolog.Logger) *Fetcher {
	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: cfg.Concurrency,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
		DialContext: (&net.Dialer{
			Timeout:   cfg.RequestTimeout(),
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: cfg.InsecureSkipVerify,
		},
	}

	client := &http.Client{
		Transport: transport,
	}

	// Zero follows no redirects at all; either way the last 3xx is surfaced
	// as the outcome instead of failing the fetch, so a response with a
	// status code still classifies.
	maxRedirects := cfg.MaxRedirects
	client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		if len(via) > maxRedirects {
			return http.ErrUseLastResponse
		}
		return nil
	}

	return &Fetcher{
		client:      client,
		auth:        cfg.Auth,
		userAgent:   cfg.UserAgent,
		maxBodySize: cfg.MaxBodySize(),
		timeout:     cfg.RequestTimeout(),
		logger:      logger.With().Str("module", "Fetcher").Logger(),
	}
}

// Fetch issues one GET against url. The per-request timeout is applied here
// via context, independent of any run-level deadline, so a stopping run still
// lets in-flight fetches finish within their own budget.
func (f *Fetcher) Fetch(ctx context.Context, url string) models.FetchOutcome {
	outcome := models.FetchOutcome{URL: url}
	startTime := time.Now()

	reqCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
	if err != nil {
		outcome.ErrorKind = models.FetchErrorOther
		outcome.ErrorMessage = err.Error()
		outcome.Duration = time.Since(startTime)
		return outcome
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "*/*")
	if f.auth != nil {
		req.SetBasicAuth(f.auth.Username, f.auth.Password)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		outcome.ErrorKind, outcome.ErrorMessage = classifyFetchError(err)
		outcome.Duration = time.Since(startTime)
		f.logger.Debug().Str("url", url).Str("error_kind", string(outcome.ErrorKind)).Msg("Fetch failed at transport level")
		return outcome
	}
	defer resp.Body.Close()

	outcome.StatusCode = resp.StatusCode
	outcome.ContentType = resp.Header.Get("Content-Type")

	if isHTMLContentType(outcome.ContentType) && resp.StatusCode >= 200 && resp.StatusCode < 300 {
		body, readErr := f.readBody(resp.Body, outcome.ContentType)
		if readErr != nil {
			f.logger.Warn().Err(readErr).Str("url", url).Msg("Failed to read HTML body, skipping link extraction")
		} else {
			outcome.Body = body
		}
	} else {
		// Drain a bounded amount so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 32*1024))
	}

	outcome.Duration = time.Since(startTime)
	return outcome
}

// readBody reads the response body, decoding legacy charsets to UTF-8 and
// enforcing the configured size cap.
func (f *Fetcher) readBody(body io.Reader, contentType string) ([]byte, error) {
	if f.maxBodySize > 0 {
		body = io.LimitReader(body, f.maxBodySize)
	}

	decoded, err := charset.NewReader(body, contentType)
	if err != nil {
		return nil, common.WrapError(err, "failed to build charset decoder")
	}

	data, err := io.ReadAll(decoded)
	if err != nil {
		return nil, common.WrapError(err, "failed to read response body")
	}
	return data, nil
}

// isHTMLContentType reports whether a Content-Type header denotes an HTML document.
func isHTMLContentType(contentType string) bool {
	ct := strings.ToLower(contentType)
	return strings.Contains(ct, "text/html") || strings.Contains(ct, "application/xhtml+xml")
}

// classifyFetchError maps a transport error to its outcome kind and message.
func classifyFetchError(err error) (models.FetchErrorKind, string) {
	var certVerifyErr *tls.CertificateVerificationError
	var recordErr tls.RecordHeaderError
	var unknownAuthErr x509.UnknownAuthorityError
	var hostnameErr x509.HostnameError
	if errors.As(err, &certVerifyErr) || errors.As(err, &recordErr) ||
		errors.As(err, &unknownAuthErr) || errors.As(err, &hostnameErr) {
		return models.FetchErrorTLS, err.Error()
	}

	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return models.FetchErrorTimeout, err.Error()
	}

	var dnsErr *net.DNSError
	var opErr *net.OpError
	if errors.As(err, &dnsErr) || errors.As(err, &opErr) {
		return models.FetchErrorConnectionFailed, err.Error()
	}

	return models.FetchErrorOther, err.Error()
}
