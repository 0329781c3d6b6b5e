package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unifyhub/unifyhub/internal/model"
	"github.com/unifyhub/unifyhub/internal/store/mock"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(NewRouter(mock.New(0)))
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url string, body interface{}, out interface{}) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func TestServiceLifecycle(t *testing.T) {
	srv := newTestServer(t)

	var created model.Service
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/services", map[string]interface{}{
		"name": "Gmail", "type": "email",
	}, &created)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.Equal(t, model.StatusDisconnected, created.Status)
	require.NotEmpty(t, resp.Header.Get("X-Request-Id"))

	var synced model.Service
	resp = doJSON(t, http.MethodPost, fmt.Sprintf("%s/api/services/%d/sync", srv.URL, created.ID), nil, &synced)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, model.StatusConnected, synced.Status)
	assert.NotNil(t, synced.LastSync)

	var listed struct {
		Services []model.Service `json:"services"`
		Count    int             `json:"count"`
	}
	resp = doJSON(t, http.MethodGet, srv.URL+"/api/services", nil, &listed)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, listed.Count)

	resp = doJSON(t, http.MethodDelete, fmt.Sprintf("%s/api/services/%d", srv.URL, created.ID), nil, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestServiceValidation(t *testing.T) {
	srv := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/services", map[string]interface{}{"type": "email"}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doJSON(t, http.MethodPost, srv.URL+"/api/services", map[string]interface{}{"name": "x", "type": "carrier-pigeon"}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/services/12345", nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServiceConfigEndpoints(t *testing.T) {
	srv := newTestServer(t)

	var created model.Service
	doJSON(t, http.MethodPost, srv.URL+"/api/services", map[string]interface{}{
		"name": "Slack", "type": "messaging", "config": map[string]interface{}{"channels": []string{"#eng"}},
	}, &created)

	var updated model.Service
	resp := doJSON(t, http.MethodPatch, fmt.Sprintf("%s/api/services/%d/config", srv.URL, created.ID),
		map[string]interface{}{"keywords": []string{"urgent"}}, &updated)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, updated.Config, "channels")
	assert.Contains(t, updated.Config, "keywords")

	var cfg map[string]interface{}
	resp = doJSON(t, http.MethodGet, fmt.Sprintf("%s/api/services/%d/config", srv.URL, created.ID), nil, &cfg)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, cfg, 2)
}

func TestItemFilters(t *testing.T) {
	srv := newTestServer(t)

	var svc model.Service
	doJSON(t, http.MethodPost, srv.URL+"/api/services", map[string]interface{}{"name": "Gmail", "type": "email"}, &svc)

	doJSON(t, http.MethodPost, srv.URL+"/api/items", map[string]interface{}{
		"title": "an email", "type": "email", "serviceId": svc.ID,
	}, nil)
	doJSON(t, http.MethodPost, srv.URL+"/api/items", map[string]interface{}{
		"title": "a message", "type": "message",
	}, nil)

	var byType struct {
		Items []model.UnifiedItem `json:"items"`
		Count int                 `json:"count"`
	}
	resp := doJSON(t, http.MethodGet, srv.URL+"/api/items?type=email", nil, &byType)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, 1, byType.Count)
	assert.Equal(t, "an email", byType.Items[0].Title)

	var bySvc struct {
		Count int `json:"count"`
	}
	resp = doJSON(t, http.MethodGet, fmt.Sprintf("%s/api/items?serviceId=%d", srv.URL, svc.ID), nil, &bySvc)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, bySvc.Count)

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/items?serviceId=bogus", nil, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestEventConflictsEndpoint(t *testing.T) {
	srv := newTestServer(t)

	start := time.Date(2024, 4, 2, 14, 0, 0, 0, time.UTC)
	var ev model.CalendarEvent
	doJSON(t, http.MethodPost, srv.URL+"/api/events", map[string]interface{}{
		"title": "Sync", "start": start, "end": start.Add(time.Hour),
	}, &ev)

	var res struct {
		Count        int  `json:"count"`
		HasConflicts bool `json:"hasConflicts"`
	}
	url := fmt.Sprintf("%s/api/events/conflicts?start=%s&end=%s", srv.URL,
		start.Add(30*time.Minute).Format(time.RFC3339), start.Add(2*time.Hour).Format(time.RFC3339))
	resp := doJSON(t, http.MethodGet, url, nil, &res)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, res.HasConflicts)
	assert.Equal(t, 1, res.Count)

	// Abutting window: no conflict under the half-open predicate.
	url = fmt.Sprintf("%s/api/events/conflicts?start=%s&end=%s", srv.URL,
		start.Add(time.Hour).Format(time.RFC3339), start.Add(2*time.Hour).Format(time.RFC3339))
	resp = doJSON(t, http.MethodGet, url, nil, &res)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.False(t, res.HasConflicts)

	// The event itself can be excluded.
	url = fmt.Sprintf("%s/api/events/conflicts?start=%s&end=%s&excludeId=%d", srv.URL,
		start.Format(time.RFC3339), start.Add(time.Hour).Format(time.RFC3339), ev.ID)
	resp = doJSON(t, http.MethodGet, url, nil, &res)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.False(t, res.HasConflicts)
}

func TestProjectLinking(t *testing.T) {
	srv := newTestServer(t)

	var p model.Project
	doJSON(t, http.MethodPost, srv.URL+"/api/projects", map[string]interface{}{"name": "Launch"}, &p)

	var linked model.Project
	resp := doJSON(t, http.MethodPut, fmt.Sprintf("%s/api/projects/%d/items/7", srv.URL, p.ID), nil, &linked)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, model.LinkedItems{7}, linked.LinkedItems)

	// Linking twice is a no-op.
	resp = doJSON(t, http.MethodPut, fmt.Sprintf("%s/api/projects/%d/items/7", srv.URL, p.ID), nil, &linked)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, model.LinkedItems{7}, linked.LinkedItems)

	resp = doJSON(t, http.MethodDelete, fmt.Sprintf("%s/api/projects/%d/items/7", srv.URL, p.ID), nil, &linked)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Empty(t, linked.LinkedItems)
}

func TestProjectTimelineEndpoint(t *testing.T) {
	srv := newTestServer(t)

	var p model.Project
	doJSON(t, http.MethodPost, srv.URL+"/api/projects", map[string]interface{}{"name": "Launch"}, &p)

	ts := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	doJSON(t, http.MethodPost, srv.URL+"/api/items", map[string]interface{}{
		"title": "linked", "timestamp": ts, "projectId": p.ID,
	}, nil)
	doJSON(t, http.MethodPost, srv.URL+"/api/items", map[string]interface{}{
		"title": "stray", "timestamp": ts,
	}, nil)

	var res struct {
		Entries []model.TimelineEntry `json:"entries"`
		Count   int                   `json:"count"`
	}
	resp := doJSON(t, http.MethodGet, fmt.Sprintf("%s/api/projects/%d/timeline", srv.URL, p.ID), nil, &res)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, 1, res.Count)
	assert.Equal(t, "linked", res.Entries[0].Title)
	assert.Equal(t, "task", res.Entries[0].Type)
	assert.Equal(t, "Launch", res.Entries[0].ProjectName)

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/projects/9999/timeline", nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRuleEndpoints(t *testing.T) {
	srv := newTestServer(t)

	var r model.Rule
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/rules", map[string]interface{}{
		"name":    "Flag urgent",
		"enabled": true,
		"actions": []map[string]interface{}{{"type": "send_notification"}},
	}, &r)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var toggled model.Rule
	resp = doJSON(t, http.MethodPost, fmt.Sprintf("%s/api/rules/%d/toggle", srv.URL, r.ID), nil, &toggled)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.False(t, toggled.Enabled)

	var tested model.RuleTestResult
	resp = doJSON(t, http.MethodPost, fmt.Sprintf("%s/api/rules/%d/test", srv.URL, r.ID), nil, &tested)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, tested.Success)
	assert.GreaterOrEqual(t, tested.Matches, 1)
	assert.LessOrEqual(t, tested.Matches, 5)

	resp = doJSON(t, http.MethodPost, srv.URL+"/api/rules", map[string]interface{}{
		"name":    "bad action",
		"actions": []map[string]interface{}{{"type": "summon_dragon"}},
	}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestTimelineEndpoints(t *testing.T) {
	srv := newTestServer(t)

	ts := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	var it model.UnifiedItem
	doJSON(t, http.MethodPost, srv.URL+"/api/items", map[string]interface{}{
		"title": "note", "timestamp": ts,
	}, &it)

	var all struct {
		Count int `json:"count"`
	}
	resp := doJSON(t, http.MethodGet, srv.URL+"/api/timeline", nil, &all)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, all.Count)

	var entry model.TimelineEntry
	resp = doJSON(t, http.MethodGet, fmt.Sprintf("%s/api/timeline/%d", srv.URL, it.ID), nil, &entry)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "note", entry.Title)

	// Absent id is a 404 with a structured body, not a server error.
	resp = doJSON(t, http.MethodGet, srv.URL+"/api/timeline/987654", nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	var stats model.TimelineStats
	resp = doJSON(t, http.MethodGet, srv.URL+"/api/timeline/stats", nil, &stats)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, stats.Total)
	assert.Equal(t, 1, stats.ByType["task"])
	assert.Equal(t, 1, stats.ByService["Unknown"])
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Contains(t, body, "status")
}
