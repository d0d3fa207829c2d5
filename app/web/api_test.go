package web

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/jobtrack/app/service"
	"github.com/umputun/jobtrack/app/service/mocks"
	"github.com/umputun/jobtrack/app/store"
)

func TestServer_handleHealth(t *testing.T) {
	_, h := newTestServer(t, Config{})
	rec := do(t, h, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())
}

func TestServer_handleCreate(t *testing.T) {
	_, h := newTestServer(t, Config{})

	t.Run("required fields only", func(t *testing.T) {
		rec := do(t, h, http.MethodPost, "/applications", `{"company":"Acme","role_title":"Engineer"}`)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.JSONEq(t, `{"id":1,"company":"Acme","role_title":"Engineer","city":null,"work_mode":"Hybrid",
			"status":"Applied","date_applied":null,"last_follow_up":null,"next_action_date":null,"job_link":null,
			"contact_name":null,"contact_email":null,"notes":null}`, rec.Body.String())
	})

	t.Run("all fields, id ignored, empty date is null", func(t *testing.T) {
		rec := do(t, h, http.MethodPost, "/applications", `{"id":42,"company":"Globex","role_title":"Manager",
			"city":"Austin","work_mode":"Remote","status":"Interview","date_applied":"2024-03-05","last_follow_up":"",
			"next_action_date":"2024-04-01","job_link":"https://globex.example.com/jobs/1","contact_name":"Hank",
			"contact_email":"hank@globex.example.com","notes":""}`)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		app := decode[map[string]any](t, rec)
		assert.InDelta(t, 2, app["id"], 0)
		assert.Equal(t, "Remote", app["work_mode"])
		assert.Equal(t, "Interview", app["status"])
		assert.Equal(t, "2024-03-05", app["date_applied"])
		assert.Nil(t, app["last_follow_up"])
		assert.Equal(t, "2024-04-01", app["next_action_date"])
		assert.Equal(t, "", app["notes"], "explicit empty text is kept")
	})

	tests := []struct {
		name   string
		body   string
		status int
		field  string
	}{
		{"missing company", `{"role_title":"Engineer"}`, http.StatusUnprocessableEntity, "company"},
		{"blank role title", `{"company":"Acme","role_title":"  "}`, http.StatusUnprocessableEntity, "role_title"},
		{"bad date", `{"company":"Acme","role_title":"Engineer","date_applied":"not-a-date"}`,
			http.StatusUnprocessableEntity, "date_applied"},
		{"unknown status", `{"company":"Acme","role_title":"Engineer","status":"Ghosted"}`,
			http.StatusUnprocessableEntity, "status"},
		{"unknown work mode", `{"company":"Acme","role_title":"Engineer","work_mode":"remote"}`,
			http.StatusUnprocessableEntity, "work_mode"},
		{"malformed json", `{"company":`, http.StatusBadRequest, ""},
		{"wrong type", `{"company":123,"role_title":"Engineer"}`, http.StatusBadRequest, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/applications", tt.body)
			assert.Equal(t, tt.status, rec.Code)
			resp := decode[map[string]any](t, rec)
			assert.NotEmpty(t, resp["error"])
			if tt.field != "" {
				assert.Equal(t, tt.field, resp["field"])
			}
		})
	}

	t.Run("failed requests leave no records", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/applications", "")
		assert.Len(t, decode[[]store.Application](t, rec), 2)
	})
}

func TestServer_handleList(t *testing.T) {
	_, h := newTestServer(t, Config{})

	rec := do(t, h, http.MethodGet, "/applications", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]\n", rec.Body.String(), "empty list is an array, not null")

	for _, body := range []string{
		`{"company":"Acme","role_title":"Engineer","city":"Austin"}`,
		`{"company":"Globex","role_title":"Manager","city":"Austin","status":"Interview"}`,
		`{"company":"Initech","role_title":"Analyst","city":"Boston","status":"Interview"}`,
	} {
		require.Equal(t, http.StatusOK, do(t, h, http.MethodPost, "/applications", body).Code)
	}

	companies := func(rec *httptest.ResponseRecorder) (res []string) {
		require.Equal(t, http.StatusOK, rec.Code)
		for _, a := range decode[[]store.Application](t, rec) {
			res = append(res, a.Company)
		}
		return res
	}

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"all newest first", "", []string{"Initech", "Globex", "Acme"}},
		{"by city", "?city=Austin", []string{"Globex", "Acme"}},
		{"by q case-insensitive", "?q=acme", []string{"Acme"}},
		{"by q with spaces", "?q=%20%20ACME%20", []string{"Acme"}},
		{"by status", "?status=Interview", []string{"Initech", "Globex"}},
		{"by status and city", "?status=Interview&city=Austin", []string{"Globex"}},
		{"q matches city", "?q=bos", []string{"Initech"}},
		{"no match", "?q=umbrella", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, companies(do(t, h, http.MethodGet, "/applications"+tt.query, "")))
		})
	}
}

func TestServer_handleUpdate(t *testing.T) {
	_, h := newTestServer(t, Config{})

	rec := do(t, h, http.MethodPost, "/applications",
		`{"company":"Acme","role_title":"Engineer","status":"Screen","city":"Austin","next_action_date":"2024-05-01"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	t.Run("null status keeps value, null date clears it", func(t *testing.T) {
		rec := do(t, h, http.MethodPut, "/applications/1", `{"status":null,"next_action_date":null}`)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		app := decode[map[string]any](t, rec)
		assert.Equal(t, "Screen", app["status"])
		assert.Nil(t, app["next_action_date"])
		assert.Equal(t, "Austin", app["city"])
	})

	t.Run("only sent fields change", func(t *testing.T) {
		rec := do(t, h, http.MethodPut, "/applications/1", `{"status":"Offer","notes":"call back","id":99}`)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		app := decode[store.Application](t, rec)
		assert.Equal(t, int64(1), app.ID)
		assert.Equal(t, "Offer", app.Status.String())
		require.NotNil(t, app.Notes)
		assert.Equal(t, "call back", *app.Notes)
		assert.Equal(t, "Acme", app.Company)
	})

	t.Run("empty patch returns record unchanged", func(t *testing.T) {
		rec := do(t, h, http.MethodPut, "/applications/1", `{}`)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "Offer", decode[store.Application](t, rec).Status.String())
	})

	tests := []struct {
		name   string
		path   string
		body   string
		status int
	}{
		{"missing id", "/applications/777", `{"status":"Offer"}`, http.StatusNotFound},
		{"non-integer id", "/applications/abc", `{"status":"Offer"}`, http.StatusBadRequest},
		{"bad date", "/applications/1", `{"date_applied":"2024-13-45"}`, http.StatusUnprocessableEntity},
		{"empty company", "/applications/1", `{"company":""}`, http.StatusUnprocessableEntity},
		{"validation checked before existence", "/applications/777", `{"status":"Ghosted"}`,
			http.StatusUnprocessableEntity},
		{"malformed json", "/applications/1", `[`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPut, tt.path, tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
		})
	}

	t.Run("not found body", func(t *testing.T) {
		rec := do(t, h, http.MethodPut, "/applications/777", `{}`)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.JSONEq(t, `{"error":"application not found"}`, rec.Body.String())
	})
}

func TestServer_handleDelete(t *testing.T) {
	_, h := newTestServer(t, Config{})
	require.Equal(t, http.StatusOK, do(t, h, http.MethodPost, "/applications", `{"company":"Acme","role_title":"Engineer"}`).Code)

	rec := do(t, h, http.MethodDelete, "/applications/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"deleted":true,"id":1}`, rec.Body.String())

	rec = do(t, h, http.MethodDelete, "/applications/1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"application not found"}`, rec.Body.String())

	rec = do(t, h, http.MethodDelete, "/applications/1.5", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodGet, "/applications", "")
	assert.Equal(t, "[]\n", rec.Body.String())
}

func TestServer_handleGet(t *testing.T) {
	_, h := newTestServer(t, Config{})
	rec := do(t, h, http.MethodPost, "/applications", `{"company":"Acme","role_title":"Engineer","city":"Austin"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(t, h, http.MethodGet, "/applications/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "no-cache, no-store, no-transform, must-revalidate, private, max-age=0", rec.Header().Get("Cache-Control"))
	app := decode[map[string]any](t, rec)
	assert.InDelta(t, 1, app["id"], 0)
	assert.Equal(t, "Acme", app["company"])
	assert.Equal(t, "Austin", app["city"])
	assert.Equal(t, "Applied", app["status"])

	rec = do(t, h, http.MethodGet, "/applications/2", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"application not found"}`, rec.Body.String())

	rec = do(t, h, http.MethodGet, "/applications/abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_handleSchema(t *testing.T) {
	_, h := newTestServer(t, Config{})
	rec := do(t, h, http.MethodGet, "/schema/application", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var schema struct {
		Type       string                    `json:"type"`
		Required   []string                  `json:"required"`
		Properties map[string]map[string]any `json:"properties"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &schema))
	assert.Equal(t, "object", schema.Type)
	assert.ElementsMatch(t, []string{"company", "role_title"}, schema.Required)
	assert.Len(t, schema.Properties, 13)
	assert.Equal(t, []any{"Applied", "Screen", "Interview", "Offer", "Rejected"}, schema.Properties["status"]["enum"])
	assert.Equal(t, []any{"Remote", "Hybrid", "Onsite"}, schema.Properties["work_mode"]["enum"])
}

func TestServer_StorageErrors(t *testing.T) {
	failure := errors.New("disk I/O error")
	st := &mocks.StoreMock{
		ListFunc: func(context.Context, store.Filter) ([]store.Application, error) { return nil, failure },
		GetFunc: func(context.Context, int64) (store.Application, error) {
			return store.Application{}, failure
		},
		CreateFunc: func(context.Context, store.Application) (store.Application, error) {
			return store.Application{}, failure
		},
		UpdateFunc: func(context.Context, int64, func(app *store.Application) error) (store.Application, error) {
			return store.Application{}, failure
		},
		DeleteFunc: func(context.Context, int64) error { return failure },
	}
	srv, err := New(Config{Applications: service.New(st)})
	require.NoError(t, err)
	h := srv.handler()

	tests := []struct {
		method, path, body string
	}{
		{http.MethodGet, "/applications", ""},
		{http.MethodGet, "/applications/1", ""},
		{http.MethodPost, "/applications", `{"company":"Acme","role_title":"Engineer"}`},
		{http.MethodPut, "/applications/1", `{"status":"Offer"}`},
		{http.MethodDelete, "/applications/1", ""},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := do(t, h, tt.method, tt.path, tt.body)
			assert.Equal(t, http.StatusInternalServerError, rec.Code)
			assert.JSONEq(t, `{"error":"internal error"}`, rec.Body.String(), "storage details are not leaked")
		})
	}
	assert.Len(t, st.ListCalls(), 1)
	assert.Len(t, st.GetCalls(), 1)
	assert.Len(t, st.CreateCalls(), 1)
	assert.Len(t, st.UpdateCalls(), 1)
	assert.Len(t, st.DeleteCalls(), 1)
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader = http.NoBody
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var res T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res), rec.Body.String())
	return res
}
