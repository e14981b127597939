package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/fairlance-backend/internal/app"
	"github.com/ignatzorin/fairlance-backend/internal/config"
	"github.com/ignatzorin/fairlance-backend/internal/domain/entity"
	"github.com/ignatzorin/fairlance-backend/internal/domain/valueobject"
	"github.com/ignatzorin/fairlance-backend/internal/infrastructure/cache"
	"github.com/ignatzorin/fairlance-backend/internal/infrastructure/memory"
	"github.com/ignatzorin/fairlance-backend/internal/logger"
	"github.com/ignatzorin/fairlance-backend/internal/service"
	"github.com/ignatzorin/fairlance-backend/internal/storage"
	"github.com/ignatzorin/fairlance-backend/internal/ws"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type testAPI struct {
	t      *testing.T
	router *gin.Engine
	store  *memory.Store
	cfg    *config.Config
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger.SetOutput(io.Discard)

	cfg := &config.Config{
		Env:              "test",
		DBDriver:         config.DriverMemory,
		JWTSecret:        "test-access-secret",
		RefreshSecret:    "test-refresh-secret",
		AccessTokenTTL:   time.Minute,
		RefreshTokenTTL:  time.Hour,
		MatchCacheTTL:    time.Minute,
		MediaStoragePath: t.TempDir(),
		MaxUploadSizeMB:  1,
		AllowedOrigins:   []string{"*"},
		RateLimitLimit:   1000,
		RateLimitPeriod:  time.Minute,
	}

	files, err := storage.NewAttachmentStorage(cfg.MediaStoragePath, cfg.MaxUploadSizeMB)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	hub := ws.NewHub()
	go hub.Run(ctx)

	matchCache := cache.NewMemoryCache(0)
	t.Cleanup(func() { _ = matchCache.Close() })

	store := memory.NewStore()
	router := app.NewRouter(app.Deps{
		Config: cfg,
		Store:  store,
		Cache:  matchCache,
		Hub:    hub,
		Files:  files,
	})

	return &testAPI{t: t, router: router, store: store, cfg: cfg}
}

func (a *testAPI) do(method, path, token string, body any) (*httptest.ResponseRecorder, envelope) {
	a.t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	var env envelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w, env
}

type account struct {
	ID    uuid.UUID
	Token string
}

func (a *testAPI) register(name, email, role string) account {
	a.t.Helper()
	w, env := a.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"name":     name,
		"email":    email,
		"password": "Password123",
		"role":     role,
	})
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())

	var data struct {
		User struct {
			ID uuid.UUID `json:"id"`
		} `json:"user"`
		Tokens struct {
			AccessToken string `json:"access_token"`
		} `json:"tokens"`
	}
	require.NoError(a.t, json.Unmarshal(env.Data, &data))
	return account{ID: data.User.ID, Token: data.Tokens.AccessToken}
}

// admin создаётся напрямую: регистрация администраторов через API закрыта.
func (a *testAPI) admin() account {
	a.t.Helper()
	user, err := entity.NewUser("Админ", "admin@example.com", "hash", valueobject.RoleAdmin)
	require.NoError(a.t, err)
	require.NoError(a.t, a.store.Users().Create(context.Background(), user))

	tokens := service.NewTokenManager(a.cfg.JWTSecret, a.cfg.RefreshSecret, a.cfg.AccessTokenTTL, a.cfg.RefreshTokenTTL)
	pair, _, _, err := tokens.GeneratePair(user)
	require.NoError(a.t, err)
	return account{ID: user.ID, Token: pair.AccessToken}
}

func (a *testAPI) createProject(client account, fairness map[string]bool, skills ...uuid.UUID) uuid.UUID {
	a.t.Helper()
	if skills == nil {
		skills = []uuid.UUID{}
	}
	w, env := a.do(http.MethodPost, "/api/projects", client.Token, map[string]any{
		"title":             "Интернет-магазин",
		"description":       "Нужен магазин на Go с оплатой и каталогом",
		"required_skills":   skills,
		"budget":            map[string]any{"min": 1000, "max": 2000, "currency": "USD"},
		"fairness_settings": fairness,
	})
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())
	return dataID(a.t, env)
}

func (a *testAPI) submitProposal(freelancer account, projectID uuid.UUID) uuid.UUID {
	a.t.Helper()
	w, env := a.do(http.MethodPost, "/api/projects/"+projectID.String()+"/proposals", freelancer.Token, map[string]any{
		"cover_letter":    "Сделаю быстро и аккуратно, опыт есть",
		"proposed_budget": 1500,
		"timeframe":       map[string]any{"duration": 2, "unit": "weeks"},
	})
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())
	return dataID(a.t, env)
}

func dataID(t *testing.T, env envelope) uuid.UUID {
	t.Helper()
	var data struct {
		ID uuid.UUID `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	return data.ID
}

func escrowStatus(t *testing.T, env envelope) string {
	t.Helper()
	var data struct {
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	return data.Status
}

func TestEscrowLifecycle(t *testing.T) {
	api := newTestAPI(t)
	client := api.register("Клиент", "client@example.com", "client")
	freelancer := api.register("Фрилансер", "dev@example.com", "freelancer")
	projectID := api.createProject(client, nil)

	w, env := api.do(http.MethodPost, "/api/escrow", client.Token, map[string]any{
		"project_id":  projectID,
		"amount":      1500,
		"currency":    "usd",
		"description": "Оплата первого этапа",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	escrowID := dataID(t, env)

	var created struct {
		Amount struct {
			Minor int64 `json:"amount_minor"`
		} `json:"amount"`
		PlatformFee struct {
			Minor int64 `json:"amount_minor"`
		} `json:"platform_fee"`
		FreelancerAmount struct {
			Minor int64 `json:"amount_minor"`
		} `json:"freelancer_amount"`
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, "pending", created.Status)
	assert.Equal(t, int64(150000), created.Amount.Minor)
	assert.Equal(t, int64(15000), created.PlatformFee.Minor)
	assert.Equal(t, int64(135000), created.FreelancerAmount.Minor)

	base := "/api/escrow/" + escrowID.String()

	w, env = api.do(http.MethodPost, base+"/fund", client.Token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "funded", escrowStatus(t, env))

	w, env = api.do(http.MethodPost, base+"/release", client.Token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)

	proposalID := api.submitProposal(freelancer, projectID)
	w, _ = api.do(http.MethodPost, "/api/proposals/"+proposalID.String()+"/accept", client.Token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w, env = api.do(http.MethodPost, base+"/release", client.Token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "released", escrowStatus(t, env))

	w, env = api.do(http.MethodGet, base, freelancer.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var view struct {
		ProjectTitle   string `json:"project_title"`
		ClientName     string `json:"client_name"`
		FreelancerName string `json:"freelancer_name"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &view))
	assert.Equal(t, "Интернет-магазин", view.ProjectTitle)
	assert.Equal(t, "Клиент", view.ClientName)
	assert.Equal(t, "Фрилансер", view.FreelancerName)

	w, env = api.do(http.MethodGet, "/api/notifications", freelancer.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var notes []struct {
		Type string `json:"type"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &notes))
	types := make([]string, 0, len(notes))
	for _, n := range notes {
		types = append(types, n.Type)
	}
	assert.Contains(t, types, "payment_released")
	assert.Contains(t, types, "proposal_accepted")

	w, env = api.do(http.MethodGet, "/api/escrow", freelancer.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []json.RawMessage
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Len(t, list, 1)
}

func TestEscrowErrors(t *testing.T) {
	api := newTestAPI(t)
	client := api.register("Клиент", "client@example.com", "client")
	freelancer := api.register("Фрилансер", "dev@example.com", "freelancer")
	projectID := api.createProject(client, nil)

	w, env := api.do(http.MethodPost, "/api/escrow", freelancer.Token, map[string]any{
		"project_id": projectID,
		"amount":     100,
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "FORBIDDEN", env.Error.Code)

	w, env = api.do(http.MethodPost, "/api/escrow", client.Token, map[string]any{
		"project_id": projectID,
		"amount":     100,
		"currency":   "XXZ",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)

	w, env = api.do(http.MethodPost, "/api/escrow", client.Token, map[string]any{
		"project_id": projectID,
		"amount":     100,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	base := "/api/escrow/" + dataID(t, env).String()

	w, env = api.do(http.MethodPost, "/api/escrow", client.Token, map[string]any{
		"project_id": projectID,
		"amount":     200,
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "INVALID_STATE", env.Error.Code)

	w, env = api.do(http.MethodPost, base+"/release", client.Token, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "INVALID_STATE", env.Error.Code)

	w, _ = api.do(http.MethodPost, base+"/fund", freelancer.Token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = api.do(http.MethodGet, base, freelancer.Token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, env = api.do(http.MethodGet, "/api/escrow/"+uuid.NewString(), client.Token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)

	w, _ = api.do(http.MethodGet, "/api/escrow/not-a-uuid", client.Token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = api.do(http.MethodGet, "/api/escrow", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestEscrowDisputeAndRefund(t *testing.T) {
	api := newTestAPI(t)
	client := api.register("Клиент", "client@example.com", "client")
	freelancer := api.register("Фрилансер", "dev@example.com", "freelancer")
	admin := api.admin()
	projectID := api.createProject(client, nil)

	w, env := api.do(http.MethodPost, "/api/escrow", client.Token, map[string]any{
		"project_id":    projectID,
		"freelancer_id": freelancer.ID,
		"amount":        300,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	base := "/api/escrow/" + dataID(t, env).String()

	w, _ = api.do(http.MethodPost, base+"/fund", client.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = api.do(http.MethodPost, base+"/dispute", freelancer.Token, map[string]string{"reason": ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env = api.do(http.MethodPost, base+"/dispute", freelancer.Token, map[string]string{"reason": "Клиент не выходит на связь"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "disputed", escrowStatus(t, env))

	w, _ = api.do(http.MethodPost, "/api/admin"+base[len("/api"):]+"/refund", client.Token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, env = api.do(http.MethodPost, "/api/admin"+base[len("/api"):]+"/refund", admin.Token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "refunded", escrowStatus(t, env))

	w, env = api.do(http.MethodGet, "/api/notifications/unread-count", client.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var unread struct {
		Unread int `json:"unread"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &unread))
	// payment_disputed, payment_refunded
	assert.Equal(t, 2, unread.Unread)

	w, _ = api.do(http.MethodPost, "/api/notifications/read-all", client.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	_, env = api.do(http.MethodGet, "/api/notifications/unread-count", client.Token, nil)
	require.NoError(t, json.Unmarshal(env.Data, &unread))
	assert.Equal(t, 0, unread.Unread)
}

func TestProposalsBlindReview(t *testing.T) {
	api := newTestAPI(t)
	client := api.register("Клиент", "client@example.com", "client")
	first := api.register("Первый", "first@example.com", "freelancer")
	second := api.register("Второй", "second@example.com", "freelancer")
	projectID := api.createProject(client, map[string]bool{"blind_proposal_review": true})

	firstProposal := api.submitProposal(first, projectID)
	secondProposal := api.submitProposal(second, projectID)

	w, env := api.do(http.MethodPost, "/api/projects/"+projectID.String()+"/proposals", first.Token, map[string]any{
		"cover_letter":    "Повторный отклик на тот же проект",
		"proposed_budget": 1200,
		"timeframe":       map[string]any{"duration": 1, "unit": "weeks"},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)

	w, env = api.do(http.MethodGet, "/api/projects/"+projectID.String()+"/proposals", client.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var views []map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &views))
	require.Len(t, views, 2)
	for _, v := range views {
		assert.NotContains(t, v, "freelancer_id")
		assert.NotContains(t, v, "freelancer_name")
		assert.Equal(t, true, v["blind"])
		assert.Equal(t, true, v["is_newcomer"])
	}

	w, _ = api.do(http.MethodGet, "/api/projects/"+projectID.String()+"/proposals", first.Token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, env = api.do(http.MethodGet, "/api/proposals/"+firstProposal.String(), client.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var single map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &single))
	assert.NotContains(t, single, "freelancer_id")
	assert.NotContains(t, single, "freelancer_name")
	assert.Equal(t, true, single["blind"])

	w, env = api.do(http.MethodGet, "/api/proposals/"+firstProposal.String(), first.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(env.Data, &single))
	assert.Equal(t, first.ID.String(), single["freelancer_id"])

	w, env = api.do(http.MethodGet, "/api/projects", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var open []struct {
		ID            uuid.UUID `json:"id"`
		ClientName    string    `json:"client_name"`
		ProposalCount *int      `json:"proposal_count"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &open))
	require.Len(t, open, 1)
	assert.Equal(t, projectID, open[0].ID)
	assert.Equal(t, "Клиент", open[0].ClientName)
	require.NotNil(t, open[0].ProposalCount)
	assert.Equal(t, 2, *open[0].ProposalCount)

	w, _ = api.do(http.MethodPost, "/api/proposals/"+firstProposal.String()+"/accept", client.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, env = api.do(http.MethodGet, "/api/proposals/mine", second.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var mine []struct {
		ID            uuid.UUID `json:"id"`
		Status        string    `json:"status"`
		ProjectTitle  string    `json:"project_title"`
		ProjectStatus string    `json:"project_status"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &mine))
	require.Len(t, mine, 1)
	assert.Equal(t, secondProposal, mine[0].ID)
	assert.Equal(t, "rejected", mine[0].Status)
	assert.Equal(t, "Интернет-магазин", mine[0].ProjectTitle)
	assert.Equal(t, "in_progress", mine[0].ProjectStatus)

	w, env = api.do(http.MethodGet, "/api/projects/mine", first.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var hired []struct {
		ID         uuid.UUID `json:"id"`
		ClientName string    `json:"client_name"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &hired))
	require.Len(t, hired, 1)
	assert.Equal(t, projectID, hired[0].ID)
	assert.Equal(t, "Клиент", hired[0].ClientName)

	w, env = api.do(http.MethodGet, "/api/projects/mine", second.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(env.Data, &hired))
	assert.Empty(t, hired)

	w, env = api.do(http.MethodPost, "/api/proposals/"+secondProposal.String()+"/withdraw", second.Token, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "INVALID_STATE", env.Error.Code)

	w, env = api.do(http.MethodPost, "/api/projects/"+projectID.String()+"/complete", first.Token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var completed struct {
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &completed))
	assert.Equal(t, "completed", completed.Status)
}

func TestMatchingEndpoints(t *testing.T) {
	api := newTestAPI(t)
	ctx := context.Background()

	goLang, err := entity.NewSkill("Go", "backend", "")
	require.NoError(t, err)
	postgres, err := entity.NewSkill("PostgreSQL", "backend", "")
	require.NoError(t, err)
	require.NoError(t, api.store.Catalog().CreateSkill(ctx, goLang))
	require.NoError(t, api.store.Catalog().CreateSkill(ctx, postgres))

	client := api.register("Клиент", "client@example.com", "client")
	strong := api.register("Сильный", "strong@example.com", "freelancer")
	weak := api.register("Слабый", "weak@example.com", "freelancer")

	w, _ := api.do(http.MethodPut, "/api/me/profile", strong.Token, map[string]any{
		"skills":           []uuid.UUID{goLang.ID, postgres.ID},
		"experience_level": "expert",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w, _ = api.do(http.MethodPut, "/api/me/profile", weak.Token, map[string]any{
		"skills": []uuid.UUID{goLang.ID},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w, _ = api.do(http.MethodPut, "/api/me/profile", weak.Token, map[string]any{
		"skills": []uuid.UUID{uuid.New()},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	projectID := api.createProject(client, nil, goLang.ID, postgres.ID)

	w, env := api.do(http.MethodGet, "/api/matching/projects/"+projectID.String()+"/freelancers", client.Token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var ranked []struct {
		ID        uuid.UUID `json:"id"`
		Score     float64   `json:"score"`
		Breakdown struct {
			SkillMatch float64 `json:"skill_match_percentage"`
		} `json:"breakdown"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &ranked))
	require.Len(t, ranked, 2)
	assert.Equal(t, strong.ID, ranked[0].ID)
	assert.InDelta(t, 100, ranked[0].Breakdown.SkillMatch, 0.001)
	assert.Greater(t, ranked[0].Score, ranked[1].Score)

	w, env = api.do(http.MethodGet, "/api/matching/recommendations", strong.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(env.Data, &ranked))
	require.Len(t, ranked, 1)
	assert.Equal(t, projectID, ranked[0].ID)

	w, env = api.do(http.MethodGet, "/api/matching/freelancers/"+strong.ID.String()+"/similar", client.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(env.Data, &ranked))
	require.Len(t, ranked, 1)
	assert.Equal(t, weak.ID, ranked[0].ID)

	w, _ = api.do(http.MethodGet, "/api/matching/projects/"+uuid.NewString()+"/freelancers", client.Token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProjectAttachmentUpload(t *testing.T) {
	api := newTestAPI(t)
	client := api.register("Клиент", "client@example.com", "client")
	other := api.register("Другой", "other@example.com", "client")
	projectID := api.createProject(client, nil)

	upload := func(token string, content []byte) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		part, err := mw.CreateFormFile("file", "brief.png")
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
		require.NoError(t, mw.Close())

		req := httptest.NewRequest(http.MethodPost, "/api/projects/"+projectID.String()+"/attachments", &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		api.router.ServeHTTP(w, req)
		return w
	}

	png := append([]byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}, make([]byte, 64)...)

	w := upload(client.Token, png)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	var stored struct {
		MimeType string `json:"mime_type"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &stored))
	assert.Equal(t, "image/png", stored.MimeType)

	assert.Equal(t, http.StatusForbidden, upload(other.Token, png).Code)
	assert.Equal(t, http.StatusBadRequest, upload(client.Token, []byte("just text")).Code)

	_, env = api.do(http.MethodGet, "/api/projects/"+projectID.String(), "", nil)
	var project struct {
		Attachments []string `json:"attachments"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &project))
	assert.Len(t, project.Attachments, 1)
}

func TestAuthEndpoints(t *testing.T) {
	api := newTestAPI(t)
	api.register("Анна", "anna@example.com", "freelancer")

	w, env := api.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"name": "Анна", "email": "anna@example.com", "password": "Password123", "role": "freelancer",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "CONFLICT", env.Error.Code)

	w, _ = api.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"name": "Босс", "email": "boss@example.com", "password": "Password123", "role": "admin",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = api.do(http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "anna@example.com", "password": "wrong-Password1",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, env = api.do(http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "anna@example.com", "password": "Password123",
	})
	require.Equal(t, http.StatusOK, w.Code)
	var login struct {
		Tokens struct {
			AccessToken  string `json:"access_token"`
			RefreshToken string `json:"refresh_token"`
		} `json:"tokens"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &login))

	w, _ = api.do(http.MethodPost, "/api/auth/refresh", "", map[string]string{"refresh_token": login.Tokens.RefreshToken})
	assert.Equal(t, http.StatusOK, w.Code)

	w, env = api.do(http.MethodGet, "/api/me", login.Tokens.AccessToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var me struct {
		IsNewcomer bool `json:"is_newcomer"`
		User       struct {
			Email string `json:"email"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &me))
	assert.True(t, me.IsNewcomer)
	assert.Equal(t, "anna@example.com", me.User.Email)

	w, _ = api.do(http.MethodGet, "/api/me", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHealthAndCatalog(t *testing.T) {
	api := newTestAPI(t)

	category, err := entity.NewCategory("Разработка", "Сайты и сервисы", "code", "#000000")
	require.NoError(t, err)
	require.NoError(t, api.store.Catalog().CreateCategory(context.Background(), category))

	w, _ := api.do(http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var health struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
	assert.Equal(t, "healthy", health.Status)
	assert.Equal(t, "in-memory", health.Checks["database"])

	w, env := api.do(http.MethodGet, "/api/catalog/categories", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var categories []struct {
		Name string `json:"name"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &categories))
	require.Len(t, categories, 1)
	assert.Equal(t, "Разработка", categories[0].Name)

	req := httptest.NewRequest(http.MethodOptions, "/api/projects", nil)
	req.Header.Set("Origin", "https://app.example")
	rec := httptest.NewRecorder()
	api.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://app.example", rec.Header().Get("Access-Control-Allow-Origin"))
}
