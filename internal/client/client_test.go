package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evcraddock/prospect-tracker/internal/db"
	"github.com/evcraddock/prospect-tracker/internal/prospect"
	"github.com/evcraddock/prospect-tracker/internal/web"
)

func writeJSON(t *testing.T, w http.ResponseWriter, code int, v interface{}) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Errorf("encode: %v", err)
	}
}

func TestListProspectsQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/prospects", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "won", q.Get("status"))
		assert.Equal(t, "Austin, TX", q.Get("location"))
		assert.Equal(t, "business_name", q.Get("sort_by"))
		assert.Empty(t, q.Get("business_type"))
		writeJSON(t, w, http.StatusOK, []*prospect.Prospect{{ID: 1, BusinessName: "Joe's"}})
	}))
	defer srv.Close()

	c := New(srv.URL)
	props, err := c.ListProspects(context.Background(), prospect.ListOptions{
		Status:   prospect.StatusWon,
		Location: "Austin, TX",
		SortBy:   "business_name",
	})
	require.NoError(t, err)
	require.Len(t, props, 1)
	assert.Equal(t, "Joe's", props[0].BusinessName)
}

func TestUpdateProspectSendsOnlySuppliedFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/api/prospects/3", r.URL.Path)
		body, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		assert.JSONEq(t, `{"email":null,"status":"called"}`, string(body))
		writeJSON(t, w, http.StatusOK, prospect.Prospect{ID: 3, Status: prospect.StatusCalled})
	}))
	defer srv.Close()

	called := prospect.StatusCalled
	p, err := New(srv.URL).UpdateProspect(context.Background(), 3, prospect.Patch{
		Status: &called,
		Email:  prospect.Null[string](),
	})
	require.NoError(t, err)
	assert.Equal(t, prospect.StatusCalled, p.Status)
}

func TestErrorResponses(t *testing.T) {
	tests := []struct {
		name     string
		code     int
		body     string
		wantMsg  string
		notFound bool
	}{
		{"json error", http.StatusNotFound, `{"error":"prospect not found"}`, "prospect not found", true},
		{"validation", http.StatusBadRequest, `{"error":"note is required"}`, "note is required", false},
		{"plain text", http.StatusBadGateway, "upstream down", "server error: Bad Gateway", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.code)
				_, _ = io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			_, err := New(srv.URL).GetProspect(context.Background(), 1)
			require.Error(t, err)
			assert.Equal(t, tt.wantMsg, err.Error())
			assert.Equal(t, tt.notFound, IsNotFound(err))

			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.code, apiErr.StatusCode)
		})
	}
}

func TestConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	err := New(url).Health(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "request failed")
}

// TestAgainstServer drives the real API end to end.
func TestAgainstServer(t *testing.T) {
	d, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })

	srv := httptest.NewServer(web.NewServer(prospect.NewStore(d)))
	defer srv.Close()

	ctx := context.Background()
	c := New(srv.URL + "/")

	require.NoError(t, c.Health(ctx))

	created, err := c.CreateProspect(ctx, prospect.NewProspect{
		BusinessName:       "Sweet Rolls",
		BusinessType:       "Bakery",
		Location:           "Waco, TX",
		CurrentWebPresence: "Facebook only",
	})
	require.NoError(t, err)

	got, err := c.GetProspect(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Sweet Rolls", got.BusinessName)

	next := "2030-02-01"
	contacted, err := c.LogContact(ctx, created.ID, "spoke to owner", &next)
	require.NoError(t, err)
	require.NotNil(t, contacted.NextFollowup)
	assert.Equal(t, next, *contacted.NextFollowup)

	won := prospect.StatusWon
	_, err = c.UpdateProspect(ctx, created.ID, prospect.Patch{Status: &won})
	require.NoError(t, err)

	entries, err := c.ActivityLog(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, prospect.ActionStatusChanged, entries[0].Action)

	st, err := c.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, prospect.Stats{Total: 1, Won: 1}, *st)

	opts, err := c.FilterOptions(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Bakery"}, opts.BusinessTypes)

	require.NoError(t, c.DeleteProspect(ctx, created.ID))
	err = c.DeleteProspect(ctx, created.ID)
	assert.True(t, IsNotFound(err))

	props, err := c.ListProspects(ctx, prospect.ListOptions{})
	require.NoError(t, err)
	assert.Empty(t, props)
}
