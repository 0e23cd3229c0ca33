package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usmanzafar/portfolio/internal/config"
	"github.com/usmanzafar/portfolio/internal/portfolio"
	"github.com/usmanzafar/portfolio/internal/resume"
	"github.com/usmanzafar/portfolio/internal/store"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type testServer struct {
	app     *app
	handler http.Handler
	public  string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	public := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(public, "sweresume.pdf"), []byte("%PDF-swe"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(public, "aimlresume.pdf"), []byte("%PDF-aiml"), 0o644))

	cfg, err := config.LoadFrom(map[string]string{
		"PORTFOLIO_DB":         ":memory:",
		"PORTFOLIO_PUBLIC_DIR": public,
		"ADMIN_USERNAME":       "usman",
		"ADMIN_PASSWORD":       "s3cret",
	})
	require.NoError(t, err)

	profile, err := portfolio.Default()
	require.NoError(t, err)

	st, err := store.Open(cfg.DBPath)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	a := newApp(cfg, profile, st, resume.NewRegistry(cfg.SessionIdle))
	return &testServer{app: a, handler: a.router(), public: public}
}

func (s *testServer) do(t *testing.T, method, target string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func cookieNamed(t *testing.T, rec *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("response has no %s cookie", name)
	return nil
}

func TestIndex_RendersAllSections(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	for _, want := range []string{
		"Usman Zafar",
		`id="about"`, `id="experience"`, `id="projects"`, `id="skills"`, `id="education"`, `id="contact"`,
		"PaperPilot",
		"ZakatFlow",
		"Jupyter Notebook",
		"National University of Computer and Emerging Sciences",
		"mailto:usmanzafar2003@gmail.com",
		`hx-get="/resume/modal"`,
		"window.scrollY > 50",
	} {
		assert.Contains(t, body, want)
	}
	assert.Contains(t, body, "transition-all duration-300 bg-transparent")
}

func TestResume_OpenSelectAutoClose(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/resume/modal", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), ResumeModalTitle)
	assert.Contains(t, rec.Body.String(), `href="/resume/download/swe"`)
	assert.Contains(t, rec.Body.String(), `href="/resume/download/aiml"`)

	session := cookieNamed(t, rec, sessionCookie)
	sel, ok := s.app.sessions.Lookup(session.Value)
	require.True(t, ok)
	require.True(t, sel.IsOpen())

	closed := make(chan time.Time, 4)
	t.Cleanup(sel.Subscribe(func(open bool) {
		if !open {
			closed <- time.Now()
		}
	}))

	start := time.Now()
	rec = s.do(t, http.MethodGet, "/resume/download/swe", nil, session)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "SWE_Resume_Usman_Zafar.pdf")
	assert.Equal(t, "%PDF-swe", rec.Body.String())
	assert.True(t, sel.IsOpen(), "chooser closed before the delay")

	select {
	case at := <-closed:
		assert.GreaterOrEqual(t, at.Sub(start), resume.AutoCloseDelay)
	case <-time.After(5 * time.Second):
		t.Fatal("chooser never closed")
	}
	select {
	case <-closed:
		t.Fatal("close observed twice")
	case <-time.After(100 * time.Millisecond):
	}

	rec = s.do(t, http.MethodGet, "/resume/modal/status", nil, session)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestResume_StatusWhileOpen(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/resume/modal/status", nil)
	assert.Empty(t, rec.Body.String())

	rec = s.do(t, http.MethodGet, "/resume/modal", nil)
	session := cookieNamed(t, rec, sessionCookie)

	rec = s.do(t, http.MethodGet, "/resume/modal/status", nil, session)
	assert.Contains(t, rec.Body.String(), ResumeModalTitle)
}

func TestResume_CloseIsIdempotent(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/resume/modal", nil)
	session := cookieNamed(t, rec, sessionCookie)
	sel, ok := s.app.sessions.Lookup(session.Value)
	require.True(t, ok)

	for i := 0; i < 2; i++ {
		rec = s.do(t, http.MethodPost, "/resume/modal/close", nil, session)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Body.String())
		assert.False(t, sel.IsOpen())
	}
}

func TestResume_OpenTwiceKeepsOneSession(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/resume/modal", nil)
	session := cookieNamed(t, rec, sessionCookie)
	rec = s.do(t, http.MethodGet, "/resume/modal", nil, session)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, 1, s.app.sessions.Len())
	sel, _ := s.app.sessions.Lookup(session.Value)
	assert.True(t, sel.IsOpen())
}

func TestResume_UnknownOption(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/resume/download/pm", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Zero(t, s.app.sessions.Len())
}

func TestResume_MissingAssetStillCloses(t *testing.T) {
	s := newTestServer(t)
	require.NoError(t, os.Remove(filepath.Join(s.public, "aimlresume.pdf")))

	rec := s.do(t, http.MethodGet, "/resume/modal", nil)
	session := cookieNamed(t, rec, sessionCookie)
	sel, _ := s.app.sessions.Lookup(session.Value)

	rec = s.do(t, http.MethodGet, "/resume/download/aiml", nil, session)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	assert.Eventually(t, func() bool { return !sel.IsOpen() }, 3*time.Second, 20*time.Millisecond)
}

func TestResume_RawAssets(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/aimlresume.pdf", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "%PDF-aiml", rec.Body.String())
}

func TestTracking_VisitsAndDownloads(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("DNT", "1")
	s.handler.ServeHTTP(httptest.NewRecorder(), req)

	s.do(t, http.MethodGet, "/", nil)
	s.do(t, http.MethodGet, "/privacy", nil)
	s.do(t, http.MethodGet, "/resume/download/swe", nil)

	assert.Eventually(t, func() bool {
		stats, err := s.app.store.Stats(ctx, time.Now())
		return err == nil && stats.TotalVisitors == 1 && stats.TotalDownloads == 1
	}, 3*time.Second, 20*time.Millisecond)

	downloads, err := s.app.store.RecentDownloads(ctx, 10)
	require.NoError(t, err)
	require.Len(t, downloads, 1)
	assert.Equal(t, "swe", downloads[0].Variant)
	assert.Equal(t, "SWE_Resume_Usman_Zafar.pdf", downloads[0].FileName)
	assert.Len(t, downloads[0].HashedIP, 16)
}

func TestTracked(t *testing.T) {
	assert.True(t, tracked("/"))
	assert.False(t, tracked("/static/app.css"))
	assert.False(t, tracked("/admin/dashboard"))
	assert.False(t, tracked("/resume/modal"))
	assert.False(t, tracked("/sweresume.pdf"))
}

func TestHashIP_StableAndSalted(t *testing.T) {
	a := newTracker(nil, "salt-a", false)
	b := newTracker(nil, "salt-b", false)

	assert.Equal(t, a.hashIP("10.0.0.1"), a.hashIP("10.0.0.1"))
	assert.NotEqual(t, a.hashIP("10.0.0.1"), a.hashIP("10.0.0.2"))
	assert.NotEqual(t, a.hashIP("10.0.0.1"), b.hashIP("10.0.0.1"))
	assert.Len(t, a.hashIP("10.0.0.1"), 16)
}

func TestAdmin_RequiresLogin(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/admin/dashboard", nil)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/admin/login", rec.Header().Get("Location"))

	rec = s.do(t, http.MethodPost, "/admin/login", url.Values{"username": {"usman"}, "password": {"wrong"}})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid credentials")
}

func TestAdmin_LoginDashboardAndStats(t *testing.T) {
	s := newTestServer(t)
	require.NoError(t, s.app.store.RecordDownload(context.Background(), store.Download{
		Variant: "aiml", FileName: "AIML_Resume_Usman_Zafar.pdf", HashedIP: "abcd",
	}))

	rec := s.do(t, http.MethodPost, "/admin/login", url.Values{"username": {"usman"}, "password": {"s3cret"}})
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/admin/dashboard", rec.Header().Get("Location"))
	token := cookieNamed(t, rec, adminCookie)

	rec = s.do(t, http.MethodGet, "/admin/dashboard", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "AIML_Resume_Usman_Zafar.pdf")

	rec = s.do(t, http.MethodGet, "/admin/api/stats", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	var stats store.Stats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.EqualValues(t, 1, stats.TotalDownloads)

	rec = s.do(t, http.MethodGet, "/admin/export/stats", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "portfolio-stats.json")

	rec = s.do(t, http.MethodGet, "/admin/logout", nil, token)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "", cookieNamed(t, rec, adminCookie).Value)
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
