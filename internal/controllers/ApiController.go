package controllers

import (
	"agd/internal/models"
	"agd/internal/providers"
	"agd/internal/services"
	"agd/internal/snapshot/interfaces"
	"agd/internal/source"
	"errors"
	"net/http"
	"strconv"

	json "github.com/goccy/go-json"
)

type ApiController struct {
	logger    providers.Logger
	service   services.GameDataServiceInterface
	scheduler interfaces.SchedulerInterface
	cache     providers.CacheProviderInterface
}

func NewApiController(logger providers.Logger, service services.GameDataServiceInterface, scheduler interfaces.SchedulerInterface, cache providers.CacheProviderInterface) *ApiController {
	return &ApiController{
		logger:    logger,
		service:   service,
		scheduler: scheduler,
		cache:     cache,
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

type nameResponse struct {
	ID   uint32 `json:"id"`
	Name string `json:"name"`
}

type weaponResponse struct {
	ID     uint32 `json:"id"`
	Name   string `json:"name"`
	Rarity uint32 `json:"rarity"`
}

type artifactResponse struct {
	ID       uint32              `json:"id"`
	Set      string              `json:"set"`
	Slot     models.ArtifactSlot `json:"slot"`
	SlotGood string              `json:"slot_good"`
	Rarity   uint32              `json:"rarity"`
}

type propertyResponse struct {
	ID           uint32          `json:"id"`
	Property     models.Property `json:"property"`
	PropertyGood string          `json:"property_good"`
}

type affixResponse struct {
	ID           uint32          `json:"id"`
	Property     models.Property `json:"property"`
	PropertyGood string          `json:"property_good"`
	Value        float64         `json:"value"`
}

type skillResponse struct {
	ID        uint32           `json:"id"`
	SkillType models.SkillType `json:"skill_type"`
}

type revisionResponse struct {
	Revision string         `json:"revision"`
	HasData  bool           `json:"has_data"`
	Counts   map[string]int `json:"counts"`
}

type idsResponse struct {
	Kind     string   `json:"kind"`
	Revision string   `json:"revision"`
	Total    int      `json:"total"`
	IDs      []uint32 `json:"ids"`
	Next     *uint32  `json:"next,omitempty"`
}

type syncResponse struct {
	Updated  bool   `json:"updated"`
	Revision string `json:"revision"`
}

func writeJSON(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func writeValue(w http.ResponseWriter, status int, v any) {
	gson, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, status, gson)
}

func parseID(r *http.Request) (uint32, bool) {
	id, err := strconv.ParseUint(r.URL.Query().Get("id"), 10, 32)
	if err != nil {
		return 0, false
	}
	return uint32(id), true
}

// lookupHandler serves one entity kind. Rendered bodies are cached per
// revision, so installing a snapshot makes older entries unreachable.
func lookupHandler[V any](ac *ApiController, kind string, get func(*models.Snapshot, uint32) (V, error), render func(uint32, V) any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(r)
		if !ok {
			writeValue(w, http.StatusBadRequest, errorResponse{Error: "id must be an unsigned 32-bit integer"})
			return
		}

		// revision and value must come from the same snapshot
		snap := ac.service.Current()
		revision := ""
		if snap != nil {
			revision = snap.GitHash
		}
		if data, ok := ac.cache.Get(revision, kind, id); ok {
			writeJSON(w, http.StatusOK, data)
			return
		}

		v, err := get(snap, id)
		if errors.Is(err, services.ErrNotFound) {
			writeValue(w, http.StatusNotFound, errorResponse{Error: err.Error()})
			return
		}
		if err != nil {
			ac.logger.Errorf(providers.TypeGet, "Lookup %s %d failed: %s", kind, id, err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		gson, err := json.Marshal(render(id, v))
		if err != nil {
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		ac.cache.Set(revision, kind, id, gson)
		writeJSON(w, http.StatusOK, gson)
	}
}

func renderName(id uint32, name string) any {
	return nameResponse{ID: id, Name: name}
}

func (ac *ApiController) GetCharacter(w http.ResponseWriter, r *http.Request) {
	lookupHandler(ac, models.MapCharacter, services.CharacterFrom, renderName)(w, r)
}

func (ac *ApiController) GetMaterial(w http.ResponseWriter, r *http.Request) {
	lookupHandler(ac, models.MapMaterial, services.MaterialFrom, renderName)(w, r)
}

func (ac *ApiController) GetSet(w http.ResponseWriter, r *http.Request) {
	lookupHandler(ac, models.MapSet, services.SetFrom, renderName)(w, r)
}

func (ac *ApiController) GetWeapon(w http.ResponseWriter, r *http.Request) {
	lookupHandler(ac, models.MapWeapon, services.WeaponFrom, func(id uint32, v models.Weapon) any {
		return weaponResponse{ID: id, Name: v.Name, Rarity: v.Rarity}
	})(w, r)
}

func (ac *ApiController) GetArtifact(w http.ResponseWriter, r *http.Request) {
	lookupHandler(ac, models.MapArtifact, services.ArtifactFrom, func(id uint32, v models.Artifact) any {
		return artifactResponse{ID: id, Set: v.Set, Slot: v.Slot, SlotGood: v.Slot.GoodName(), Rarity: v.Rarity}
	})(w, r)
}

func (ac *ApiController) GetAffix(w http.ResponseWriter, r *http.Request) {
	lookupHandler(ac, models.MapAffix, services.AffixFrom, func(id uint32, v models.Affix) any {
		return affixResponse{ID: id, Property: v.Property, PropertyGood: v.Property.GoodName(), Value: v.Value}
	})(w, r)
}

func (ac *ApiController) GetProperty(w http.ResponseWriter, r *http.Request) {
	lookupHandler(ac, models.MapProperty, services.PropertyFrom, func(id uint32, v models.Property) any {
		return propertyResponse{ID: id, Property: v, PropertyGood: v.GoodName()}
	})(w, r)
}

func (ac *ApiController) GetSkillType(w http.ResponseWriter, r *http.Request) {
	lookupHandler(ac, models.MapSkillType, services.SkillTypeFrom, func(id uint32, v models.SkillType) any {
		return skillResponse{ID: id, SkillType: v}
	})(w, r)
}

func (ac *ApiController) GetRevision(w http.ResponseWriter, r *http.Request) {
	counts := ac.service.Stats()
	if counts == nil {
		counts = map[string]int{}
	}
	writeValue(w, http.StatusOK, revisionResponse{
		Revision: ac.service.Revision(),
		HasData:  ac.service.HasData(),
		Counts:   counts,
	})
}

const (
	defaultIDsLimit = 100
	maxIDsLimit     = 1000
)

// ListIDs pages through the ids of one map: /ids?kind=weapon&from=0&limit=100.
func (ac *ApiController) ListIDs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	kind := q.Get("kind")

	var from uint64
	if v := q.Get("from"); v != "" {
		var err error
		if from, err = strconv.ParseUint(v, 10, 32); err != nil {
			writeValue(w, http.StatusBadRequest, errorResponse{Error: "from must be an unsigned 32-bit integer"})
			return
		}
	}
	limit := defaultIDsLimit
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > maxIDsLimit {
			writeValue(w, http.StatusBadRequest, errorResponse{Error: "limit must be between 1 and " + strconv.Itoa(maxIDsLimit)})
			return
		}
		limit = n
	}

	page, err := ac.service.IDs(kind, uint32(from), limit)
	switch {
	case errors.Is(err, services.ErrUnknownKind):
		writeValue(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	case errors.Is(err, services.ErrNoData):
		writeValue(w, http.StatusServiceUnavailable, errorResponse{Error: err.Error()})
		return
	case err != nil:
		ac.logger.Errorf(providers.TypeGet, "Listing %s ids failed: %s", kind, err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	ids := page.IDs
	resp := idsResponse{Kind: kind, Revision: page.Revision, Total: page.Total, IDs: ids}
	if resp.IDs == nil {
		resp.IDs = []uint32{}
	}
	if n := len(ids); n == limit && ids[n-1] != ^uint32(0) {
		next := ids[n-1] + 1
		resp.Next = &next
	}
	writeValue(w, http.StatusOK, resp)
}

// Sync runs one synchronization in the request.
func (ac *ApiController) Sync(w http.ResponseWriter, r *http.Request) {
	before := ac.service.Revision()
	if err := ac.scheduler.SyncNow(r.Context()); err != nil {
		ac.logger.Errorf(providers.TypePost, "Sync requested by %s failed: %s", r.RemoteAddr, err)

		status := http.StatusInternalServerError
		var transportErr *source.TransportError
		var decodeErr *source.DecodeError
		if errors.As(err, &transportErr) || errors.As(err, &decodeErr) {
			status = http.StatusBadGateway
		}
		writeValue(w, status, errorResponse{Error: err.Error()})
		return
	}

	after := ac.service.Revision()
	writeValue(w, http.StatusOK, syncResponse{Updated: after != before, Revision: after})
}
