package provider

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hive-corporation/loboguara-connector/internal/core/domain"
)

const (
	defaultTimeout = 60 * time.Second
	maxErrorBody   = 4096
)

type LoboGuaraConfig struct {
	CertificatesURL string
	TokenURL        string
	Username        string
	Password        string
}

type LoboGuaraProvider struct {
	client *http.Client
	cfg    LoboGuaraConfig
}

// NewHTTPClient returns a client for the monitoring service. verifyTLS=false
// disables certificate verification for self-signed deployments.
func NewHTTPClient(verifyTLS bool) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSClientConfig = &tls.Config{
		InsecureSkipVerify: !verifyTLS, //nolint:gosec // user-configured
	}
	return &http.Client{
		Transport: transport,
		Timeout:   defaultTimeout,
	}
}

func NewLoboGuaraProvider(client *http.Client, cfg LoboGuaraConfig) *LoboGuaraProvider {
	if client == nil {
		client = http.DefaultClient
	}
	return &LoboGuaraProvider{
		client: client,
		cfg:    cfg,
	}
}

func (p *LoboGuaraProvider) Name() string {
	return "lobo-guara"
}

type tokenResponse struct {
	Token string `json:"token"`
}

type certificatesResponse struct {
	Certificates []domain.Certificate `json:"monitored_certificate_domains"`
}

// Token requests a new bearer token using HTTP Basic credentials.
func (p *LoboGuaraProvider) Token(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.TokenURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create token request: %w", err)
	}
	req.SetBasicAuth(p.cfg.Username, p.cfg.Password)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to request token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &domain.AuthenticationError{StatusCode: resp.StatusCode, Body: readBody(resp.Body)}
	}

	var data tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return "", fmt.Errorf("failed to decode token json: %w", err)
	}
	if data.Token == "" {
		return "", &domain.AuthenticationError{StatusCode: resp.StatusCode, Body: "response has no token"}
	}

	return data.Token, nil
}

// FetchCertificates authenticates and downloads the monitored certificate list.
// A new token is requested on every call.
func (p *LoboGuaraProvider) FetchCertificates(ctx context.Context) ([]domain.Certificate, error) {
	token, err := p.Token(ctx)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.cfg.CertificatesURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch certificates: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &domain.FetchError{StatusCode: resp.StatusCode, Body: readBody(resp.Body)}
	}

	var data certificatesResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode certificates json: %w", err)
	}
	if data.Certificates == nil {
		return []domain.Certificate{}, nil
	}

	return data.Certificates, nil
}

func readBody(r io.Reader) string {
	b, err := io.ReadAll(io.LimitReader(r, maxErrorBody))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(b))
}
