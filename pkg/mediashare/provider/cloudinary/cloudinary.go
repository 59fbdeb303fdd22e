// Package cloudinary implements the transformation provider boundary against
// the Cloudinary upload HTTP API. The provider is treated as an opaque
// capability: bytes go up in one signed multipart round trip, a stable
// public identifier comes back, and derived variants are served lazily from
// URLs computed by the transform package.
package cloudinary

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/skypixel/mediashare/pkg/mediashare"
	"github.com/skypixel/mediashare/pkg/mediashare/transform"
)

const (
	defaultUploadBaseURL   = "https://api.cloudinary.com"
	defaultDeliveryBaseURL = "https://res.cloudinary.com"
)

// Config options for the Cloudinary provider.
type Config struct {
	CloudName string // provider account name
	APIKey    string // upload API key
	APISecret string // upload API secret, used for request signing

	// UploadBaseURL and DeliveryBaseURL override the provider endpoints,
	// mainly for tests against an httptest server.
	UploadBaseURL   string
	DeliveryBaseURL string

	// HTTPClient defaults to http.DefaultClient; transport and provider
	// defaults govern timeouts, none are configured here.
	HTTPClient *http.Client

	// Now overrides the timestamp source for signing. Defaults to time.Now.
	Now func() time.Time
}

// Provider is a Cloudinary-backed implementation of mediashare.Provider.
type Provider struct {
	config Config
	client *http.Client
	urls   *transform.URLBuilder
	now    func() time.Time
}

// New creates a Cloudinary provider from the given config. Credentials are
// not validated here; Configured reports whether the set is complete.
func New(config Config) *Provider {
	if config.UploadBaseURL == "" {
		config.UploadBaseURL = defaultUploadBaseURL
	}
	if config.DeliveryBaseURL == "" {
		config.DeliveryBaseURL = defaultDeliveryBaseURL
	}
	client := config.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	now := config.Now
	if now == nil {
		now = time.Now
	}
	return &Provider{
		config: config,
		client: client,
		urls:   transform.NewURLBuilder(config.DeliveryBaseURL, config.CloudName),
		now:    now,
	}
}

// Configured reports whether the three-credential set is complete.
func (p *Provider) Configured() bool {
	return p.config.CloudName != "" && p.config.APIKey != "" && p.config.APISecret != ""
}

// URLs returns the delivery URL deriver for this account.
func (p *Provider) URLs() *transform.URLBuilder {
	return p.urls
}

// uploadResponse is the wire shape of a successful upload acknowledgment.
type uploadResponse struct {
	PublicID     string  `json:"public_id"`
	Bytes        int64   `json:"bytes"`
	Duration     float64 `json:"duration"`
	Format       string  `json:"format"`
	ResourceType string  `json:"resource_type"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Upload ships the payload to the provider's upload endpoint in a single
// signed multipart request and returns the issued identifier with the
// provider-reported statistics.
func (p *Provider) Upload(ctx context.Context, reader io.Reader, opts mediashare.UploadOptions) (*mediashare.UploadResult, error) {
	endpoint := fmt.Sprintf("%s/v1_1/%s/%s/upload",
		strings.TrimSuffix(p.config.UploadBaseURL, "/"), p.config.CloudName, resourceType(opts.Kind))

	params := map[string]string{
		"timestamp": strconv.FormatInt(p.now().Unix(), 10),
	}
	if opts.Folder != "" {
		params["folder"] = opts.Folder
	}
	if opts.Transformation != "" {
		params["transformation"] = opts.Transformation
	}

	body := &bytes.Buffer{}
	form := multipart.NewWriter(body)
	for name, value := range params {
		if err := form.WriteField(name, value); err != nil {
			return nil, &mediashare.ProviderError{Endpoint: endpoint, Err: err}
		}
	}
	if err := form.WriteField("api_key", p.config.APIKey); err != nil {
		return nil, &mediashare.ProviderError{Endpoint: endpoint, Err: err}
	}
	if err := form.WriteField("signature", sign(params, p.config.APISecret)); err != nil {
		return nil, &mediashare.ProviderError{Endpoint: endpoint, Err: err}
	}
	part, err := form.CreateFormFile("file", "file")
	if err != nil {
		return nil, &mediashare.ProviderError{Endpoint: endpoint, Err: err}
	}
	if _, err := io.Copy(part, reader); err != nil {
		return nil, &mediashare.ProviderError{Endpoint: endpoint, Err: err}
	}
	if err := form.Close(); err != nil {
		return nil, &mediashare.ProviderError{Endpoint: endpoint, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return nil, &mediashare.ProviderError{Endpoint: endpoint, Err: err}
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, &mediashare.ProviderError{Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var er errorResponse
		msg := "upload rejected"
		if err := json.NewDecoder(resp.Body).Decode(&er); err == nil && er.Error.Message != "" {
			msg = er.Error.Message
		}
		return nil, &mediashare.ProviderError{
			Endpoint: endpoint,
			Status:   resp.StatusCode,
			Err:      fmt.Errorf("%s", msg),
		}
	}

	var out uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, &mediashare.ProviderError{Endpoint: endpoint, Err: fmt.Errorf("decode response: %w", err)}
	}
	if out.PublicID == "" {
		return nil, &mediashare.ProviderError{Endpoint: endpoint, Err: fmt.Errorf("response carried no public_id")}
	}

	return &mediashare.UploadResult{
		PublicID:     out.PublicID,
		Bytes:        out.Bytes,
		Duration:     out.Duration,
		Format:       out.Format,
		ResourceType: out.ResourceType,
	}, nil
}

// sign computes the upload signature: the SHA-1 hex digest of the sorted
// signable parameters concatenated with the API secret. The file, api_key
// and signature fields are excluded by contract.
func sign(params map[string]string, secret string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+params[k])
	}

	sum := sha1.Sum([]byte(strings.Join(pairs, "&") + secret))
	return hex.EncodeToString(sum[:])
}

func resourceType(kind mediashare.AssetKind) string {
	if kind == mediashare.AssetKindVideo {
		return "video"
	}
	return "image"
}
