package httpclient

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultHTTPClient(t *testing.T) {
	client := NewDefaultHTTPClient(5 * time.Second)
	assert.Equal(t, 5*time.Second, client.Timeout)
	assert.Nil(t, client.Transport)
}

func TestNewHTTPClientWithUserAgent(t *testing.T) {
	var got []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = append(got, r.Header.Get("User-Agent"))
	}))
	defer srv.Close()

	client := NewHTTPClientWithUserAgent(time.Second, "parkguide/test")

	resp, err := client.Get(srv.URL)
	require.NoError(t, err)
	resp.Body.Close()

	req, err := http.NewRequest(http.MethodGet, srv.URL, nil)
	require.NoError(t, err)
	req.Header.Set("User-Agent", "explicit")
	resp, err = client.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, []string{"parkguide/test", "explicit"}, got)
	assert.Equal(t, "explicit", req.Header.Get("User-Agent"))
}

func TestNewHTTPClientWithUserAgent_Empty(t *testing.T) {
	client := NewHTTPClientWithUserAgent(time.Second, "")
	assert.Nil(t, client.Transport)
}
