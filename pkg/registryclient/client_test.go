package registryclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tankpkg/tank/pkg/errors"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return New(server.URL, "test-token", server.Client()), server
}

func TestListVersions_Success(t *testing.T) {
	t.Parallel()
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/skills/pdf-reader/versions", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		assert.Contains(t, r.Header.Get("User-Agent"), "tank-cli/")
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]VersionSummary{{Version: "1.0.0", AuditStatus: "completed"}})
	})

	versions, err := client.ListVersions(context.Background(), "pdf-reader")
	require.NoError(t, err)
	require.Len(t, versions, 1)
	assert.Equal(t, "1.0.0", versions[0].Version)
}

func TestListVersions_URLEncodesScopedName(t *testing.T) {
	t.Parallel()
	var gotPath string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]VersionSummary{})
	})

	_, err := client.ListVersions(context.Background(), "@acme/pdf-reader")
	require.NoError(t, err)
	assert.Equal(t, "/api/v1/skills/%40acme%2Fpdf-reader/versions", gotPath)
}

func TestGetVersion_NotFound(t *testing.T) {
	t.Parallel()
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := client.GetVersion(context.Background(), "pdf-reader", "9.9.9")
	require.Error(t, err)
	assert.True(t, errors.IsRegistryNotFound(err))
}

func TestGetVersion_Unauthorized(t *testing.T) {
	t.Parallel()
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := client.GetVersion(context.Background(), "pdf-reader", "1.0.0")
	require.Error(t, err)
	assert.True(t, errors.IsRegistryUnauthorized(err))
}

func TestGetVersion_Forbidden(t *testing.T) {
	t.Parallel()
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	_, err := client.GetVersion(context.Background(), "pdf-reader", "1.0.0")
	require.Error(t, err)
	assert.True(t, errors.IsRegistryForbidden(err))
}

func TestSearch_Success(t *testing.T) {
	t.Parallel()
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/skills/search", r.URL.Path)
		assert.Equal(t, "pdf", r.URL.Query().Get("q"))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(SearchResponse{Results: []SearchResult{{Name: "pdf-reader"}}})
	})

	result, err := client.Search(context.Background(), "pdf")
	require.NoError(t, err)
	require.Len(t, result.Results, 1)
	assert.Equal(t, "pdf-reader", result.Results[0].Name)
}

func TestInfo_ServerError(t *testing.T) {
	t.Parallel()
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.Info(context.Background(), "pdf-reader")
	require.Error(t, err)
	assert.True(t, errors.IsRegistryServer(err))
}

func TestPublishInit_Conflict(t *testing.T) {
	t.Parallel()
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/skills", r.URL.Path)
		w.WriteHeader(http.StatusConflict)
	})

	_, err := client.PublishInit(context.Background(), []byte(`{"name":"pdf-reader"}`))
	require.Error(t, err)
	assert.True(t, errors.IsRegistryConflict(err))
}

func TestPublishInit_Success(t *testing.T) {
	t.Parallel()
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(PublishInitResponse{UploadURL: "https://upload.example.com/x", SkillID: "sk_1", VersionID: "v_1"})
	})

	resp, err := client.PublishInit(context.Background(), []byte(`{"name":"pdf-reader"}`))
	require.NoError(t, err)
	assert.Equal(t, "sk_1", resp.SkillID)
}

func TestPublishConfirm_RetriesTransientServerError(t *testing.T) {
	t.Parallel()
	attempts := 0
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(PublishConfirmResponse{Version: "1.0.0", AuditStatus: "pending"})
	})

	resp, err := client.PublishConfirm(context.Background(), PublishConfirmRequest{VersionID: "v_1", Integrity: "sha512-x"})
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", resp.Version)
	assert.Equal(t, 3, attempts)
}

func TestPublishConfirm_DoesNotRetryConflict(t *testing.T) {
	t.Parallel()
	attempts := 0
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusConflict)
	})

	_, err := client.PublishConfirm(context.Background(), PublishConfirmRequest{VersionID: "v_1"})
	require.Error(t, err)
	assert.True(t, errors.IsRegistryConflict(err))
	assert.Equal(t, 1, attempts)
}
