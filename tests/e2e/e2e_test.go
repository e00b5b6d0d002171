//go:build integration

package e2e

// e2e_test.go
// End-to-end integration tests using real Postgres + Redis via testcontainers.
// Run with: go test -tags integration ./tests/e2e/... -v
//
// Scenarios:
//   - Full lead lifecycle: login → create → read with history → update → stale update rejected
//   - Validation errors surface field-scoped with 422
//   - CSV import is all-or-nothing with 1-based row numbers, export round-trips
//   - Stats summary reflects imported leads

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"leadhub/internal/config"
	"leadhub/internal/infra"
	"leadhub/internal/router"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
	"golang.org/x/crypto/bcrypt"
)

// ── Helpers ──────────────────────────────────────────────────────────────────

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func do(t *testing.T, srv *httptest.Server, method, path string, body *bytes.Buffer, token string) *http.Response {
	t.Helper()
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequest(method, srv.URL+path, body)
	} else {
		req, err = http.NewRequest(method, srv.URL+path, nil)
	}
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func doCSV(t *testing.T, srv *httptest.Server, path, csvData, token string) *http.Response {
	t.Helper()
	req, err := http.NewRequest("POST", srv.URL+path, strings.NewReader(csvData))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "text/csv")
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

// ── Test Suite Setup ─────────────────────────────────────────────────────────

type testEnv struct {
	server *httptest.Server
	token  string // admin JWT
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	// Start Postgres container
	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcPostgres.WithDatabase("leadhub_test"),
		tcPostgres.WithUsername("leadhub"),
		tcPostgres.WithPassword("leadhub"),
		tcPostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	pgURL, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	// Start Redis container
	rdC, err := tcRedis.RunContainer(ctx,
		testcontainers.WithImage("redis:7-alpine"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(ctx) })

	rdURL, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)

	cfg := &config.Config{
		Port:               8000,
		Env:                "test",
		JWTSecret:          "test-secret-key",
		JWTExpirationHours: 8,
		JWTRefreshHours:    24,
		DatabaseURL:        pgURL,
		RedisURL:           rdURL,
		WorkerPoolSize:     1,
		PDFStoragePath:     t.TempDir(),
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	require.NoError(t, err)

	rdb, err := infra.NewRedis(cfg.RedisURL)
	require.NoError(t, err)

	// Seed the admin agent
	hash, err := bcrypt.GenerateFromPassword([]byte("leadhub2026"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, db.Exec(`INSERT INTO agents (username, full_name, password_hash, role, active)
		VALUES ('admin@e2e.test', 'Admin E2E', ?, 'admin', true)
		ON CONFLICT DO NOTHING`, string(hash)).Error)

	r := router.New(cfg, db, rdb)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	loginResp := do(t, srv, "POST", "/v1/auth/login",
		jsonBody(t, map[string]string{"username": "admin@e2e.test", "password": "leadhub2026"}),
		"",
	)
	require.Equal(t, http.StatusOK, loginResp.StatusCode)
	var loginBody struct {
		AccessToken string `json:"access_token"`
	}
	decodeJSON(t, loginResp, &loginBody)
	require.NotEmpty(t, loginBody.AccessToken)

	return &testEnv{server: srv, token: loginBody.AccessToken}
}

// ── Tests ────────────────────────────────────────────────────────────────────

func TestE2E_LeadLifecycle(t *testing.T) {
	env := setupTestEnv(t)

	// 1. Create lead
	createResp := do(t, env.server, "POST", "/v1/buyers",
		jsonBody(t, map[string]any{
			"fullName":     "Jane Doe",
			"phone":        "9876543210",
			"city":         "Mohali",
			"propertyType": "Apartment",
			"bhk":          "Two",
			"purpose":      "Buy",
			"budgetMin":    3000000,
			"budgetMax":    5000000,
			"timeline":     "ZeroToThree",
			"source":       "Website",
			"tags":         []string{"hot"},
		}),
		env.token,
	)
	require.Equal(t, http.StatusCreated, createResp.StatusCode)
	var created struct {
		ID        string    `json:"id"`
		Status    string    `json:"status"`
		UpdatedAt time.Time `json:"updatedAt"`
	}
	decodeJSON(t, createResp, &created)
	assert.Equal(t, "New", created.Status)

	// 2. Read back with history — creation entry present
	getResp := do(t, env.server, "GET", "/v1/buyers/"+created.ID, nil, env.token)
	require.Equal(t, http.StatusOK, getResp.StatusCode)
	var got struct {
		Buyer struct {
			FullName  string    `json:"fullName"`
			UpdatedAt time.Time `json:"updatedAt"`
		} `json:"buyer"`
		History []struct {
			Diff json.RawMessage `json:"diff"`
		} `json:"history"`
	}
	decodeJSON(t, getResp, &got)
	assert.Equal(t, "Jane Doe", got.Buyer.FullName)
	require.Len(t, got.History, 1)
	assert.Contains(t, string(got.History[0].Diff), "created")

	// 3. Update with the observed token
	update := map[string]any{
		"fullName":     "Jane Smith",
		"phone":        "9876543210",
		"city":         "Mohali",
		"propertyType": "Apartment",
		"bhk":          "Two",
		"purpose":      "Buy",
		"timeline":     "ZeroToThree",
		"source":       "Website",
		"status":       "Contacted",
		"updatedAt":    got.Buyer.UpdatedAt,
	}
	updResp := do(t, env.server, "PUT", "/v1/buyers/"+created.ID, jsonBody(t, update), env.token)
	require.Equal(t, http.StatusOK, updResp.StatusCode)
	var updated struct {
		Buyer struct {
			FullName  string    `json:"fullName"`
			Status    string    `json:"status"`
			UpdatedAt time.Time `json:"updatedAt"`
		} `json:"buyer"`
		History []struct{} `json:"history"`
	}
	decodeJSON(t, updResp, &updated)
	assert.Equal(t, "Jane Smith", updated.Buyer.FullName)
	assert.Equal(t, "Contacted", updated.Buyer.Status)
	assert.Len(t, updated.History, 2)

	// 4. Replay the same update with the now-stale token → 409, record untouched
	staleResp := do(t, env.server, "PUT", "/v1/buyers/"+created.ID, jsonBody(t, update), env.token)
	require.Equal(t, http.StatusConflict, staleResp.StatusCode)
	var conflict struct {
		Detail string `json:"detail"`
	}
	decodeJSON(t, staleResp, &conflict)
	assert.Contains(t, conflict.Detail, "refresh")

	afterResp := do(t, env.server, "GET", "/v1/buyers/"+created.ID, nil, env.token)
	require.Equal(t, http.StatusOK, afterResp.StatusCode)
	var after struct {
		Buyer struct {
			UpdatedAt time.Time `json:"updatedAt"`
		} `json:"buyer"`
		History []struct{} `json:"history"`
	}
	decodeJSON(t, afterResp, &after)
	assert.True(t, after.Buyer.UpdatedAt.Equal(updated.Buyer.UpdatedAt))
	assert.Len(t, after.History, 2)
}

func TestE2E_ValidationErrors(t *testing.T) {
	env := setupTestEnv(t)

	resp := do(t, env.server, "POST", "/v1/buyers",
		jsonBody(t, map[string]any{
			"fullName":     "John Doe",
			"phone":        "1234567890",
			"city":         "Chandigarh",
			"propertyType": "Apartment", // bhk missing
			"purpose":      "Buy",
			"budgetMin":    5000000,
			"budgetMax":    4000000, // below min
			"timeline":     "ZeroToThree",
			"source":       "Website",
		}),
		env.token,
	)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	var body struct {
		Detail string              `json:"detail"`
		Fields map[string][]string `json:"fields"`
	}
	decodeJSON(t, resp, &body)
	assert.Contains(t, body.Fields, "bhk")
	assert.Contains(t, body.Fields, "budgetMax")
	assert.Len(t, body.Fields, 2)
}

func TestE2E_ImportExportRoundTrip(t *testing.T) {
	env := setupTestEnv(t)

	header := "fullName,email,phone,city,propertyType,bhk,purpose,budgetMin,budgetMax,timeline,source,notes,tags,status"

	// A bad batch is rejected whole, with file line numbers.
	bad := strings.Join([]string{
		header,
		"Good Lead,,9876543210,Mohali,Plot,,Buy,,,Exploring,Website,,,",
		"Bad Lead,,12,Mohali,Plot,,Buy,,,Exploring,Website,,,",
	}, "\n")
	badResp := doCSV(t, env.server, "/v1/buyers/import", bad, env.token)
	require.Equal(t, http.StatusBadRequest, badResp.StatusCode)
	var badBody struct {
		Errors []struct {
			Row     int    `json:"row"`
			Message string `json:"message"`
		} `json:"errors"`
	}
	decodeJSON(t, badResp, &badBody)
	require.Len(t, badBody.Errors, 1)
	assert.Equal(t, 3, badBody.Errors[0].Row)

	listResp := do(t, env.server, "GET", "/v1/buyers", nil, env.token)
	require.Equal(t, http.StatusOK, listResp.StatusCode)
	var list struct {
		Total int64 `json:"total"`
	}
	decodeJSON(t, listResp, &list)
	assert.Equal(t, int64(0), list.Total, "rejected batch must commit nothing")

	// A clean batch lands fully.
	good := strings.Join([]string{
		header,
		"Raj Kumar,raj@example.com,9876501234,Zirakpur,Villa,Three,Buy,8000000,9000000,ThreeToSix,Referral,gated society,\"nri,urgent\",Qualified",
		"Priya Singh,,9876505678,Panchkula,Plot,,Rent,,,Exploring,Walk_in,,,",
	}, "\n")
	goodResp := doCSV(t, env.server, "/v1/buyers/import", good, env.token)
	require.Equal(t, http.StatusCreated, goodResp.StatusCode)
	var imported struct {
		Inserted int `json:"inserted"`
	}
	decodeJSON(t, goodResp, &imported)
	assert.Equal(t, 2, imported.Inserted)

	// Export returns the same leads as CSV.
	expResp := do(t, env.server, "GET", "/v1/buyers/export", nil, env.token)
	require.Equal(t, http.StatusOK, expResp.StatusCode)
	assert.Contains(t, expResp.Header.Get("Content-Type"), "text/csv")
	var buf bytes.Buffer
	_, err := buf.ReadFrom(expResp.Body)
	require.NoError(t, err)
	expResp.Body.Close()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, header, strings.TrimSpace(lines[0]))
	assert.Contains(t, buf.String(), "Raj Kumar")
	assert.Contains(t, buf.String(), "\"nri,urgent\"")
}

func TestE2E_StatsSummary(t *testing.T) {
	env := setupTestEnv(t)

	header := "fullName,email,phone,city,propertyType,bhk,purpose,budgetMin,budgetMax,timeline,source,notes,tags,status"
	seed := strings.Join([]string{
		header,
		"Lead One,,9876500001,Mohali,Plot,,Buy,2000000,4000000,Exploring,Website,,,",
		"Lead Two,,9876500002,Mohali,Plot,,Buy,4000000,,Exploring,Website,,,Qualified",
	}, "\n")
	seedResp := doCSV(t, env.server, "/v1/buyers/import", seed, env.token)
	require.Equal(t, http.StatusCreated, seedResp.StatusCode)

	resp := do(t, env.server, "GET", "/v1/stats/summary", nil, env.token)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var stats struct {
		Total        int64            `json:"total"`
		ByStatus     map[string]int64 `json:"byStatus"`
		ByCity       map[string]int64 `json:"byCity"`
		AvgBudgetMin string           `json:"avgBudgetMin"`
		AvgBudgetMax string           `json:"avgBudgetMax"`
	}
	decodeJSON(t, resp, &stats)

	assert.Equal(t, int64(2), stats.Total)
	assert.Equal(t, int64(2), stats.ByCity["Mohali"])
	assert.Equal(t, int64(1), stats.ByStatus["New"])
	assert.Equal(t, int64(1), stats.ByStatus["Qualified"])
	assert.Equal(t, "3000000.00", stats.AvgBudgetMin)
	assert.Equal(t, "4000000.00", stats.AvgBudgetMax)
}

func TestE2E_AuthRequired(t *testing.T) {
	env := setupTestEnv(t)

	resp := do(t, env.server, "GET", "/v1/buyers", nil, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = do(t, env.server, "GET", "/health", nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
