package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	cfg "github.com/dafibh/tally/tally-backend/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeS3 records requests and answers like a minimal path-style S3 endpoint
type fakeS3 struct {
	mu           sync.Mutex
	bucketExists bool
	requests     []string
	bodies       map[string]string
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, r.Method+" "+r.URL.Path)

	switch {
	case r.Method == http.MethodHead && !f.bucketExists:
		w.WriteHeader(http.StatusNotFound)
	case r.Method == http.MethodPut && strings.Count(strings.Trim(r.URL.Path, "/"), "/") == 0:
		f.bucketExists = true
		w.WriteHeader(http.StatusOK)
	case r.Method == http.MethodPut:
		f.bodies[r.URL.Path] = string(body)
		w.WriteHeader(http.StatusOK)
	default:
		w.WriteHeader(http.StatusOK)
	}
}

func (f *fakeS3) Requests() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.requests...)
}

func newTestStore(t *testing.T, fake *fakeS3) *S3ReportStore {
	t.Helper()
	t.Setenv("AWS_CONFIG_FILE", "/dev/null")
	t.Setenv("AWS_SHARED_CREDENTIALS_FILE", "/dev/null")

	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)

	store, err := NewS3ReportStore(context.Background(), cfg.S3Config{
		Region:          "us-east-1",
		Bucket:          "tally-reports",
		AccessKeyID:     "test",
		SecretAccessKey: "secret",
		Endpoint:        server.URL,
	})
	require.NoError(t, err)
	return store
}

func TestNewS3ReportStore_ExistingBucket(t *testing.T) {
	fake := &fakeS3{bucketExists: true, bodies: map[string]string{}}
	newTestStore(t, fake)

	assert.Equal(t, []string{"HEAD /tally-reports"}, fake.Requests())
}

func TestNewS3ReportStore_CreatesMissingBucket(t *testing.T) {
	fake := &fakeS3{bodies: map[string]string{}}
	newTestStore(t, fake)

	assert.Equal(t, []string{"HEAD /tally-reports", "PUT /tally-reports"}, fake.Requests())
}

func TestS3ReportStore_Upload(t *testing.T) {
	fake := &fakeS3{bucketExists: true, bodies: map[string]string{}}
	store := newTestStore(t, fake)

	err := store.Upload(context.Background(), "reports/balances/balances.csv", []byte("a,b\n"), "text/csv")
	require.NoError(t, err)

	assert.Contains(t, fake.Requests(), "PUT /tally-reports/reports/balances/balances.csv")
}

func TestS3ReportStore_PresignURL(t *testing.T) {
	fake := &fakeS3{bucketExists: true, bodies: map[string]string{}}
	store := newTestStore(t, fake)

	url, err := store.PresignURL(context.Background(), "reports/balances/balances.csv", 15*time.Minute)
	require.NoError(t, err)

	assert.Contains(t, url, "/tally-reports/reports/balances/balances.csv")
	assert.Contains(t, url, "X-Amz-Expires=900")
	assert.Contains(t, url, "X-Amz-Signature=")
}
