package controllers

import (
	"agd/internal/models"
	"agd/internal/services"
	"agd/internal/snapshot"
	"agd/internal/source"
	"agd/internal/structures"
	"agd/internal/testutil"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type harness struct {
	src    *source.FixtureSource
	svc    *services.GameDataService
	cache  *testutil.MockCache
	logger *testutil.MockLogger
	ac     *ApiController
}

func newHarness(t *testing.T, synced bool) *harness {
	t.Helper()
	h := &harness{
		src:    source.NewFixtureSource(testutil.FixtureRevision, testutil.GameTables()),
		cache:  testutil.NewMockCache(),
		logger: &testutil.MockLogger{},
	}
	metrics := testutil.NewMockMetrics()
	h.svc = services.NewGameDataService(h.src, h.logger, metrics)
	fm := snapshot.NewFileManager(&structures.Config{}, &testutil.MockCompressor{}, h.logger)
	conf := &structures.Config{Sync: structures.SyncConfig{Interval: time.Hour}}
	scheduler := snapshot.NewScheduler(conf, h.logger, h.svc, fm, metrics)
	h.ac = NewApiController(h.logger, h.svc, scheduler, h.cache)

	if synced {
		_, err := h.svc.Update(context.Background())
		require.NoError(t, err)
	}
	return h
}

func get(handler http.HandlerFunc, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rr := httptest.NewRecorder()
	handler(rr, req)
	return rr
}

func decode(t *testing.T, rr *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return body
}

func TestLookups_ReturnJSON(t *testing.T) {
	h := newHarness(t, true)

	cases := []struct {
		name    string
		handler http.HandlerFunc
		target  string
		want    string
	}{
		{"character", h.ac.GetCharacter, "/character?id=10000021", `{"id":10000021,"name":"Amber"}`},
		{"material", h.ac.GetMaterial, "/material?id=104001", `{"id":104001,"name":"Mystic Enhancement Ore"}`},
		{"set", h.ac.GetSet, "/set?id=15001", `{"id":15001,"name":"Gladiator's Finale"}`},
		{"weapon", h.ac.GetWeapon, "/weapon?id=15501", `{"id":15501,"name":"Skyward Harp","rarity":5}`},
		{"artifact", h.ac.GetArtifact, "/artifact?id=81104",
			`{"id":81104,"set":"Wanderer's Troupe","slot":"Goblet","slot_good":"goblet","rarity":5}`},
		{"property", h.ac.GetProperty, "/property?id=10002",
			`{"id":10002,"property":"AttackPercent","property_good":"atk_"}`},
		{"affix", h.ac.GetAffix, "/affix?id=501021",
			`{"id":501021,"property":"Hp","property_good":"hp","value":239}`},
		{"skill", h.ac.GetSkillType, "/skill?id=10013", `{"id":10013,"skill_type":"Burst"}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rr := get(tc.handler, tc.target)
			assert.Equal(t, http.StatusOK, rr.Code)
			assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
			assert.JSONEq(t, tc.want, rr.Body.String())
		})
	}
}

func TestLookup_BadID(t *testing.T) {
	h := newHarness(t, true)

	for _, target := range []string{"/character", "/character?id=", "/character?id=abc", "/character?id=-1", "/character?id=4294967296"} {
		rr := get(h.ac.GetCharacter, target)
		assert.Equal(t, http.StatusBadRequest, rr.Code, target)
	}
}

func TestLookup_NotFound(t *testing.T) {
	h := newHarness(t, true)

	rr := get(h.ac.GetWeapon, "/weapon?id=19999")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "weapon 19999 not found", decode(t, rr)["error"])
	assert.Empty(t, h.cache.Data)
}

func TestLookup_NoDataYet(t *testing.T) {
	h := newHarness(t, false)

	rr := get(h.ac.GetCharacter, "/character?id=10000021")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestLookup_CachedPerRevision(t *testing.T) {
	h := newHarness(t, true)

	rr := get(h.ac.GetCharacter, "/character?id=10000021")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, h.cache.Data, testutil.CacheKey(testutil.FixtureRevision, models.MapCharacter, 10000021))

	// a poisoned entry proves the second request is served from cache
	h.cache.Set(testutil.FixtureRevision, models.MapCharacter, 10000021, []byte(`{"id":10000021,"name":"cached"}`))
	rr = get(h.ac.GetCharacter, "/character?id=10000021")
	assert.JSONEq(t, `{"id":10000021,"name":"cached"}`, rr.Body.String())

	renamed := testutil.WithTable(testutil.GameTables(), models.TextMapPath, `{"200": "Amber (Outrider)"}`)
	h.src.SetRevision("next", renamed)
	_, err := h.svc.Update(context.Background())
	require.NoError(t, err)

	rr = get(h.ac.GetCharacter, "/character?id=10000021")
	assert.JSONEq(t, `{"id":10000021,"name":"Amber (Outrider)"}`, rr.Body.String())
	assert.Contains(t, h.cache.Data, testutil.CacheKey("next", models.MapCharacter, 10000021))
}

func TestGetRevision(t *testing.T) {
	h := newHarness(t, false)

	rr := get(h.ac.GetRevision, "/revision")
	assert.JSONEq(t, `{"revision":"","has_data":false,"counts":{}}`, rr.Body.String())

	_, err := h.svc.Update(context.Background())
	require.NoError(t, err)

	body := decode(t, get(h.ac.GetRevision, "/revision"))
	assert.Equal(t, testutil.FixtureRevision, body["revision"])
	assert.Equal(t, true, body["has_data"])
	assert.Equal(t, float64(5), body["counts"].(map[string]interface{})[models.MapArtifact])
}

func TestSync_Updates(t *testing.T) {
	h := newHarness(t, false)

	req := httptest.NewRequest(http.MethodPost, "/sync", strings.NewReader(""))
	rr := httptest.NewRecorder()
	h.ac.Sync(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"updated":true,"revision":"`+testutil.FixtureRevision+`"}`, rr.Body.String())

	rr = httptest.NewRecorder()
	h.ac.Sync(rr, httptest.NewRequest(http.MethodPost, "/sync", nil))
	assert.JSONEq(t, `{"updated":false,"revision":"`+testutil.FixtureRevision+`"}`, rr.Body.String())
}

func TestSync_UpstreamFailure(t *testing.T) {
	h := newHarness(t, false)
	h.src.FailOn(models.AvatarPath, errors.New("connection refused"))

	rr := httptest.NewRecorder()
	h.ac.Sync(rr, httptest.NewRequest(http.MethodPost, "/sync", nil))

	assert.Equal(t, http.StatusBadGateway, rr.Code)
	assert.Contains(t, decode(t, rr)["error"], "connection refused")
	assert.False(t, h.svc.HasData())
	assert.True(t, h.logger.HasLog("error", "Sync requested"))
}

func TestSync_DecodeFailure(t *testing.T) {
	h := newHarness(t, false)
	h.src.SetRevision("broken", testutil.WithTable(testutil.GameTables(), models.WeaponPath, `{}`))

	rr := httptest.NewRecorder()
	h.ac.Sync(rr, httptest.NewRequest(http.MethodPost, "/sync", nil))
	assert.Equal(t, http.StatusBadGateway, rr.Code)
}

func TestListIDs_Pages(t *testing.T) {
	h := newHarness(t, true)

	rr := get(h.ac.ListIDs, "/ids?kind=artifact&limit=2")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"kind":"artifact","revision":"`+testutil.FixtureRevision+`","total":5,"ids":[81101,81102],"next":81103}`, rr.Body.String())

	rr = get(h.ac.ListIDs, "/ids?kind=artifact&from=81103&limit=10")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"kind":"artifact","revision":"`+testutil.FixtureRevision+`","total":5,"ids":[81103,81104,81105]}`, rr.Body.String())

	rr = get(h.ac.ListIDs, "/ids?kind=weapon&from=20000")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, []interface{}{}, decode(t, rr)["ids"])
}

func TestListIDs_BadRequests(t *testing.T) {
	h := newHarness(t, true)

	for _, target := range []string{"/ids", "/ids?kind=dragon", "/ids?kind=weapon&from=x",
		"/ids?kind=weapon&limit=0", "/ids?kind=weapon&limit=1001"} {
		rr := get(h.ac.ListIDs, target)
		assert.Equal(t, http.StatusBadRequest, rr.Code, target)
	}
}

func TestListIDs_NoDataYet(t *testing.T) {
	h := newHarness(t, false)

	rr := get(h.ac.ListIDs, "/ids?kind=weapon")
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}

// syncingService installs a new revision right after a handler loads the
// current snapshot, the way a concurrent sync would.
type syncingService struct {
	*services.GameDataService
	afterLoad func()
}

func (s *syncingService) Current() *models.Snapshot {
	snap := s.GameDataService.Current()
	if f := s.afterLoad; f != nil {
		s.afterLoad = nil
		f()
	}
	return snap
}

func TestLookup_SyncDuringRequestCachesUnderLoadedRevision(t *testing.T) {
	h := newHarness(t, true)

	renamed := testutil.WithTable(testutil.GameTables(), models.TextMapPath, `{"200": "Amber (Outrider)"}`)
	svc := &syncingService{GameDataService: h.svc, afterLoad: func() {
		h.src.SetRevision("next", renamed)
		_, err := h.svc.Update(context.Background())
		require.NoError(t, err)
	}}
	ac := NewApiController(h.logger, svc, nil, h.cache)

	rr := get(ac.GetCharacter, "/character?id=10000021")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"id":10000021,"name":"Amber"}`, rr.Body.String())

	assert.Equal(t, "next", h.svc.Revision())
	assert.JSONEq(t, `{"id":10000021,"name":"Amber"}`,
		string(h.cache.Data[testutil.CacheKey(testutil.FixtureRevision, models.MapCharacter, 10000021)]))
	assert.NotContains(t, h.cache.Data, testutil.CacheKey("next", models.MapCharacter, 10000021))

	rr = get(h.ac.GetCharacter, "/character?id=10000021")
	assert.JSONEq(t, `{"id":10000021,"name":"Amber (Outrider)"}`, rr.Body.String())
}
