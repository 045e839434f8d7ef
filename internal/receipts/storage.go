package receipts

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"codeberg.org/olkkari/server/internal/config"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// implements ObjectStore on an S3-compatible bucket
type S3Store struct {
	client     *s3.Client
	bucket     string
	publicBase string
}

// creates an S3 store from storage config. path-style addressing is used
// so S3-compatible endpoints work.
func NewS3Store(cfg config.StorageConfig) *S3Store {
	client := s3.New(s3.Options{
		Region:       cfg.Region,
		BaseEndpoint: aws.String(cfg.Endpoint),
		Credentials:  credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretKey, ""),
		UsePathStyle: true,
	})

	return &S3Store{
		client:     client,
		bucket:     cfg.Bucket,
		publicBase: strings.TrimRight(cfg.PublicBaseURL, "/"),
	}
}

func (s *S3Store) Put(ctx context.Context, key string, body []byte, contentType string) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(body))),
		CacheControl:  aws.String("max-age=3600"),
	})
	if err != nil {
		return fmt.Errorf("failed to put object %s: %w", key, err)
	}

	return nil
}

func (s *S3Store) PublicURL(key string) string {
	return s.publicBase + "/" + s.bucket + "/" + key
}

// implements ObjectStore and ImageFetcher in memory
type MemoryStore struct {
	mu      sync.RWMutex
	base    string
	objects map[string]memoryObject
	// returned by Put when set
	PutErr error
}

type memoryObject struct {
	body        []byte
	contentType string
}

// creates an in-memory store whose public urls start with base
func NewMemoryStore(base string) *MemoryStore {
	return &MemoryStore{
		base:    strings.TrimRight(base, "/"),
		objects: make(map[string]memoryObject),
	}
}

func (m *MemoryStore) Put(_ context.Context, key string, body []byte, contentType string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.PutErr != nil {
		return m.PutErr
	}

	m.objects[key] = memoryObject{body: append([]byte(nil), body...), contentType: contentType}
	return nil
}

func (m *MemoryStore) PublicURL(key string) string {
	return m.base + "/" + key
}

func (m *MemoryStore) Fetch(_ context.Context, url string) ([]byte, string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	key := strings.TrimPrefix(url, m.base+"/")

	obj, ok := m.objects[key]
	if !ok {
		return nil, "", fmt.Errorf("object %s not found", key)
	}

	return obj.body, obj.contentType, nil
}

// number of stored objects
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.objects)
}

// implements ImageFetcher over HTTP
type HTTPFetcher struct {
	client   *http.Client
	maxBytes int64
}

// creates a fetcher with a bounded timeout and body size
func NewHTTPFetcher(timeout time.Duration) *HTTPFetcher {
	return &HTTPFetcher{
		client:   &http.Client{Timeout: timeout},
		maxBytes: DefaultMaxImageBytes,
	}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, url string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("failed to fetch image: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("failed to fetch image: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return nil, "", fmt.Errorf("failed to read image: %w", err)
	}

	if int64(len(body)) > f.maxBytes {
		return nil, "", fmt.Errorf("image exceeds %d bytes", f.maxBytes)
	}

	return body, resp.Header.Get("Content-Type"), nil
}
