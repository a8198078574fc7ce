package cloudinary

import (
	"bytes"
	"context"
	"crypto/sha1" //nolint:gosec // request signing algorithm mandated by the upload API
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/utafrali/catalog/internal/storage"
	"github.com/utafrali/catalog/pkg/httpclient"
)

// DefaultAPIBase is the upload API root.
const DefaultAPIBase = "https://api.cloudinary.com"

// Config holds the account credentials.
type Config struct {
	CloudName string
	APIKey    string
	APISecret string
	// APIBase overrides DefaultAPIBase.
	APIBase string
}

// ParseURL reads credentials from a cloudinary://<key>:<secret>@<cloud> URL.
func ParseURL(raw string) (Config, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return Config{}, fmt.Errorf("parse cloudinary url: %w", err)
	}
	if u.Scheme != "cloudinary" {
		return Config{}, fmt.Errorf("parse cloudinary url: unexpected scheme %q", u.Scheme)
	}
	secret, _ := u.User.Password()
	cfg := Config{CloudName: u.Host, APIKey: u.User.Username(), APISecret: secret}
	if cfg.CloudName == "" || cfg.APIKey == "" || cfg.APISecret == "" {
		return Config{}, fmt.Errorf("parse cloudinary url: cloud name, key and secret are required")
	}
	return cfg, nil
}

type uploadResponse struct {
	SecureURL string `json:"secure_url"`
	PublicID  string `json:"public_id"`
}

// Client uploads images through the signed upload API. Uploads are not
// retried.
type Client struct {
	cfg  Config
	http *httpclient.Client
	now  func() time.Time
}

// New creates a Client. A nil httpClient selects one without retries.
func New(cfg Config, httpClient *httpclient.Client) *Client {
	if cfg.APIBase == "" {
		cfg.APIBase = DefaultAPIBase
	}
	if httpClient == nil {
		hc := httpclient.DefaultConfig()
		hc.MaxRetries = 0
		hc.Timeout = 2 * time.Minute
		httpClient = httpclient.New(hc)
	}
	return &Client{cfg: cfg, http: httpClient, now: time.Now}
}

// Upload sends the file at localPath into folder and returns the secure URL
// assigned to it.
func (c *Client) Upload(ctx context.Context, localPath, folder string) (*storage.UploadResult, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", localPath, err)
	}
	defer f.Close()

	params := map[string]string{
		"timestamp": strconv.FormatInt(c.now().Unix(), 10),
	}
	if folder != "" {
		params["folder"] = folder
	}

	body, contentType, err := c.buildForm(f, filepath.Base(localPath), params)
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/v1_1/%s/image/upload", strings.TrimRight(c.cfg.APIBase, "/"), url.PathEscape(c.cfg.CloudName))
	resp, err := c.http.Post(ctx, endpoint, contentType, body)
	if err != nil {
		return nil, fmt.Errorf("upload %s: %w", localPath, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("upload %s: %w", localPath, httpclient.ParseResponseError(resp, "cloudinary"))
	}
	defer resp.Body.Close()

	var out uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode upload response: %w", err)
	}
	if out.SecureURL == "" {
		return nil, fmt.Errorf("upload %s: response carried no secure_url", localPath)
	}
	return &storage.UploadResult{SecureURL: out.SecureURL, PublicID: out.PublicID}, nil
}

func (c *Client) buildForm(file io.Reader, filename string, params map[string]string) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := map[string]string{
		"api_key":   c.cfg.APIKey,
		"signature": Sign(params, c.cfg.APISecret),
	}
	for k, v := range params {
		fields[k] = v
	}
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return nil, "", fmt.Errorf("write form field %s: %w", k, err)
		}
	}

	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return nil, "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, "", fmt.Errorf("copy %s: %w", filename, err)
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close form: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}

// Sign computes the request signature: the hex SHA-1 of the sorted
// key=value pairs joined by '&' followed by the API secret.
func Sign(params map[string]string, secret string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+params[k])
	}

	sum := sha1.Sum([]byte(strings.Join(pairs, "&") + secret)) //nolint:gosec
	return hex.EncodeToString(sum[:])
}
