package client

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"bitwill.backend/internal/domain/entities"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_LoginAndAuthHeader(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case APIBasePath + "/auth/login":
			_ = json.NewEncoder(w).Encode(map[string]string{
				"access_token":  "access-123",
				"refresh_token": "refresh-456",
			})
		case APIBasePath + "/wills/template":
			gotAuth = r.Header.Get("Authorization")
			_ = json.NewEncoder(w).Encode(entities.TemplateWill())
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	tokens, err := c.Login(context.Background(), "a@b.com", "password-1")
	require.NoError(t, err)
	assert.Equal(t, "access-123", tokens.AccessToken)

	c.SetToken(tokens.AccessToken)
	will, err := c.Template(context.Background())
	require.NoError(t, err)
	assert.Equal(t, entities.DefaultWillTitle, will.Title)
	assert.Equal(t, "Bearer access-123", gotAuth)
}

func TestClient_CreateWill(t *testing.T) {
	id := uuid.New()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, APIBasePath+"/wills", r.URL.Path)

		var input entities.WillInput
		require.NoError(t, json.NewDecoder(r.Body).Decode(&input))
		assert.Equal(t, "Alice Nakamoto", input.PersonalInfo.FullName)

		will := entities.TemplateWill()
		will.ID = id
		will.PersonalInfo = input.PersonalInfo
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(will)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	draft := entities.TemplateWill()
	draft.PersonalInfo.FullName = "Alice Nakamoto"

	created, err := c.CreateWill(context.Background(), draft)
	require.NoError(t, err)
	assert.Equal(t, id, created.ID)
}

func TestClient_UpdateWill_UsesIDPath(t *testing.T) {
	id := uuid.New()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		require.Equal(t, APIBasePath+"/wills/"+id.String(), r.URL.Path)
		will := entities.TemplateWill()
		will.ID = id
		_ = json.NewEncoder(w).Encode(will)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	draft := entities.TemplateWill()
	draft.ID = id
	_, err := c.UpdateWill(context.Background(), draft)
	require.NoError(t, err)
}

func TestClient_GenerateDocument(t *testing.T) {
	id := uuid.New()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, APIBasePath+"/wills/"+id.String()+"/generate", r.URL.Path)
		_ = json.NewEncoder(w).Encode(entities.GenerateResult{
			WillID:        id,
			DocumentPath:  "documents/will.html",
			DownloadToken: "tok",
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	result, err := c.GenerateDocument(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "documents/will.html", result.DocumentPath)
	assert.Equal(t, "tok", result.DownloadToken)
}

func TestClient_DownloadDocument_TokenQuery(t *testing.T) {
	id := uuid.New()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "signed-token", r.URL.Query().Get("token"))
		_, _ = w.Write([]byte("<html>doc</html>"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	var buf bytes.Buffer
	require.NoError(t, c.DownloadDocument(context.Background(), id, "signed-token", &buf))
	assert.Equal(t, "<html>doc</html>", buf.String())
}

func TestClient_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"message": "active subscription required",
			"error":   "active subscription required",
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.CreateWill(context.Background(), entities.TemplateWill())
	require.Error(t, err)

	apiErr, ok := err.(*APIError)
	require.True(t, ok)
	assert.Equal(t, http.StatusForbidden, apiErr.Status)
	assert.Contains(t, apiErr.Message, "subscription")
}

func TestClient_APIError_NonJSONBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.Template(context.Background())
	require.Error(t, err)

	apiErr, ok := err.(*APIError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
}

func TestClient_ListWills(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "10", r.URL.Query().Get("limit"))
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"wills": []map[string]interface{}{
				{"id": uuid.New(), "title": "My Bitcoin Will"},
			},
			"pagination": map[string]interface{}{"page": 2, "limit": 10, "total_count": 11, "total_pages": 2},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	list, err := c.ListWills(context.Background(), 2, 10)
	require.NoError(t, err)
	require.Len(t, list.Wills, 1)
	assert.Equal(t, int64(11), list.Pagination.TotalCount)
}
