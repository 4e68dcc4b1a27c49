package storage

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeS3 answers the handful of calls the store makes.
type fakeS3 struct {
	mu      sync.Mutex
	buckets map[string]bool
	objects map[string][]byte
	types   map[string]string
}

func newFakeS3(buckets ...string) *fakeS3 {
	f := &fakeS3{buckets: map[string]bool{}, objects: map[string][]byte{}, types: map[string]string{}}
	for _, b := range buckets {
		f.buckets[b] = true
	}
	return f
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	parts := strings.SplitN(strings.TrimPrefix(r.URL.Path, "/"), "/", 2)
	bucket := parts[0]
	switch {
	case len(parts) == 1 || parts[1] == "":
		switch r.Method {
		case http.MethodHead:
			if !f.buckets[bucket] {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			w.WriteHeader(http.StatusOK)
		case http.MethodPut:
			f.buckets[bucket] = true
			w.WriteHeader(http.StatusOK)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	case r.Method == http.MethodPut:
		body, _ := io.ReadAll(r.Body)
		if strings.HasPrefix(r.Header.Get("X-Amz-Content-Sha256"), "STREAMING-") {
			body = decodeChunked(body)
		}
		f.objects[bucket+"/"+parts[1]] = body
		f.types[bucket+"/"+parts[1]] = r.Header.Get("Content-Type")
		w.Header().Set("ETag", `"d41d8cd98f00b204e9800998ecf8427e"`)
		w.WriteHeader(http.StatusOK)
	default:
		w.WriteHeader(http.StatusNotImplemented)
	}
}

// decodeChunked strips the aws-chunked framing used for uploads over plain HTTP.
func decodeChunked(b []byte) []byte {
	var out []byte
	for len(b) > 0 {
		line, rest, ok := bytes.Cut(b, []byte("\r\n"))
		if !ok {
			break
		}
		sizeHex, _, _ := bytes.Cut(line, []byte(";"))
		n, err := strconv.ParseInt(string(sizeHex), 16, 64)
		if err != nil || n == 0 || int(n) > len(rest) {
			break
		}
		out = append(out, rest[:n]...)
		b = bytes.TrimPrefix(rest[n:], []byte("\r\n"))
	}
	return out
}

func newStore(t *testing.T, fake *fakeS3, bucket string) *Store {
	t.Helper()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)
	u, err := url.Parse(srv.URL)
	require.NoError(t, err)

	s, err := New(context.Background(), u.Host, "us-east-1", bucket, "access", "secret", false)
	require.NoError(t, err)
	return s
}

func TestNew_CreatesMissingBucket(t *testing.T) {
	fake := newFakeS3()
	newStore(t, fake, "reports")

	assert.True(t, fake.buckets["reports"])
}

func TestPut(t *testing.T) {
	fake := newFakeS3("reports")
	s := newStore(t, fake, "reports").WithExpiry(time.Hour)

	before := time.Now()
	link, expires, err := s.Put(context.Background(), "reports/2025/03/01/abc.pdf", []byte("%PDF-1.3"), "application/pdf")
	require.NoError(t, err)

	assert.Equal(t, []byte("%PDF-1.3"), fake.objects["reports/reports/2025/03/01/abc.pdf"])
	assert.Equal(t, "application/pdf", fake.types["reports/reports/2025/03/01/abc.pdf"])

	u, err := url.Parse(link)
	require.NoError(t, err)
	assert.Equal(t, "/reports/reports/2025/03/01/abc.pdf", u.Path)
	assert.NotEmpty(t, u.Query().Get("X-Amz-Signature"))
	assert.Equal(t, "3600", u.Query().Get("X-Amz-Expires"))
	assert.Contains(t, u.Query().Get("response-content-disposition"), `filename="abc.pdf"`)
	assert.WithinDuration(t, before.Add(time.Hour), expires, 5*time.Second)
}

func TestPing(t *testing.T) {
	fake := newFakeS3("reports")
	s := newStore(t, fake, "reports")
	require.NoError(t, s.Ping(context.Background()))

	fake.mu.Lock()
	delete(fake.buckets, "reports")
	fake.mu.Unlock()
	assert.Error(t, s.Ping(context.Background()))
}
