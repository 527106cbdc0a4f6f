package server

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/goliatone/go-lawnquote/internal/metrics"
	lqsessions "github.com/goliatone/go-lawnquote/internal/sessions"
	"github.com/goliatone/go-lawnquote/pkg/quote"
	"github.com/goliatone/go-lawnquote/pkg/render"
	"github.com/goliatone/go-lawnquote/pkg/testsupport"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	goleak.VerifyTestMain(m, goleak.IgnoreAnyFunction(testsupport.ExpirableCleanupFunction))
}

type fixture struct {
	server    *Server
	manager   *lqsessions.Manager
	scheduler *testsupport.ManualScheduler
}

func newFixture(t *testing.T, cfg Config, options ...Option) *fixture {
	t.Helper()
	scheduler := &testsupport.ManualScheduler{}
	reg := prometheus.NewRegistry()
	mt := metrics.MustNewMetrics(reg)
	manager := lqsessions.New(lqsessions.Config{Max: 8},
		lqsessions.WithPreviewStore(testsupport.NewPreviewStore()),
		lqsessions.WithIDGenerator(testsupport.SequentialIDs("s")),
		lqsessions.WithMetrics(mt),
		lqsessions.WithSessionOptions(quote.WithScheduler(scheduler)),
	)
	t.Cleanup(manager.CloseAll)

	if cfg.SessionSecret == "" {
		cfg.SessionSecret = "test-secret-0123456789"
	}
	options = append([]Option{WithMetrics(mt, reg)}, options...)
	srv, err := New(cfg, manager, options...)
	require.NoError(t, err)
	return &fixture{server: srv, manager: manager, scheduler: scheduler}
}

// browser replays cookies between requests.
type browser struct {
	t       *testing.T
	handler http.Handler
	cookies map[string]*http.Cookie
}

func (f *fixture) browser(t *testing.T) *browser {
	return &browser{t: t, handler: f.server.Handler(), cookies: map[string]*http.Cookie{}}
}

func (b *browser) do(req *http.Request) *httptest.ResponseRecorder {
	b.t.Helper()
	for _, cookie := range b.cookies {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	b.handler.ServeHTTP(rec, req)
	for _, cookie := range rec.Result().Cookies() {
		b.cookies[cookie.Name] = cookie
	}
	return rec
}

func (b *browser) get(path string) *httptest.ResponseRecorder {
	return b.do(httptest.NewRequest(http.MethodGet, path, nil))
}

type upload struct {
	name string
	data string
}

func (b *browser) postMultipart(path string, fields map[string]string, files ...upload) *httptest.ResponseRecorder {
	b.t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for key, value := range fields {
		require.NoError(b.t, writer.WriteField(key, value))
	}
	for _, file := range files {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", `form-data; name="photos"; filename="`+file.name+`"`)
		header.Set("Content-Type", "image/jpeg")
		part, err := writer.CreatePart(header)
		require.NoError(b.t, err)
		_, err = io.WriteString(part, file.data)
		require.NoError(b.t, err)
	}
	require.NoError(b.t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return b.do(req)
}

func TestHealthz(t *testing.T) {
	f := newFixture(t, Config{})
	rec := f.browser(t).get("/healthz")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestIndexCreatesSession(t *testing.T) {
	f := newFixture(t, Config{})
	b := f.browser(t)

	rec := b.get("/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "Lawncare Quote")
	assert.Contains(t, b.cookies, CookieName)
	assert.Equal(t, 1, f.manager.Len())

	b.get("/")
	assert.Equal(t, 1, f.manager.Len(), "cookie should resolve the same session")
}

func TestSelectPhotosAndPreviews(t *testing.T) {
	f := newFixture(t, Config{})
	b := f.browser(t)

	rec := b.postMultipart("/photos", nil, upload{"front.jpg", "front-bytes"}, upload{"side.png", "side-bytes"})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	page := b.get("/").Body.String()
	assert.Contains(t, page, `<img src="/previews/p1"`)
	assert.Contains(t, page, "Rejected &quot;side.png&quot;.")

	img := b.get("/previews/p1")
	require.Equal(t, http.StatusOK, img.Code)
	assert.Equal(t, "front-bytes", img.Body.String())
	assert.Equal(t, "image/jpeg", img.Header().Get("Content-Type"))

	b.postMultipart("/photos", nil, upload{"BACK.jpg", "back-bytes"})
	assert.Equal(t, http.StatusNotFound, b.get("/previews/p1").Code)
	assert.Equal(t, http.StatusOK, b.get("/previews/p2").Code)

	b.postMultipart("/photos", nil)
	page = b.get("/").Body.String()
	assert.NotContains(t, page, "/previews/")
	assert.Equal(t, http.StatusNotFound, b.get("/previews/p2").Code)
}

func TestSubmitValidationErrors(t *testing.T) {
	f := newFixture(t, Config{})
	b := f.browser(t)

	rec := b.postMultipart("/submit", map[string]string{"length": "5", "area": ""})
	require.Equal(t, http.StatusSeeOther, rec.Code)

	page := b.get("/").Body.String()
	assert.NotContains(t, page, "Please enter the length of your lawn.")
	assert.Contains(t, page, "Please select which yard(s) you want mowed.")
	assert.Contains(t, page, "Upload at least one photo named with &quot;front&quot; or &quot;back&quot;.")
	assert.Contains(t, page, `value="5"`)
	assert.Empty(t, f.scheduler.Timers())
}

func TestSubmitFlow(t *testing.T) {
	f := newFixture(t, Config{})
	b := f.browser(t)

	b.postMultipart("/photos", map[string]string{"length": "20", "area": "front"}, upload{"front-yard.jpg", "x"})
	rec := b.postMultipart("/submit", map[string]string{"length": "20", "area": "front"})
	require.Equal(t, http.StatusSeeOther, rec.Code)

	pending := b.get("/").Body.String()
	assert.Contains(t, pending, `<meta http-equiv="refresh" content="1">`)
	assert.Contains(t, pending, "disabled>Submitting...</button>")

	again := b.postMultipart("/submit", map[string]string{"length": "20", "area": "front"})
	assert.Equal(t, http.StatusSeeOther, again.Code, "re-entry is ignored")
	require.Len(t, f.scheduler.Timers(), 1)

	require.Equal(t, 1, f.scheduler.Fire())
	done := b.get("/").Body.String()
	assert.Contains(t, done, "Thank You!")
	assert.Contains(t, done, "Your lawncare quote request has been received!")
	assert.NotContains(t, done, "<form")

	late := b.postMultipart("/photos", nil, upload{"back.jpg", "y"})
	assert.Equal(t, http.StatusSeeOther, late.Code)
	assert.Contains(t, b.get("/").Body.String(), "Thank You!")
}

func TestSubmitAppliesPostedFiles(t *testing.T) {
	f := newFixture(t, Config{})
	b := f.browser(t)

	b.postMultipart("/submit", map[string]string{"length": "3", "area": "both"}, upload{"back.png", "z"})

	page := b.get("/").Body.String()
	assert.Contains(t, page, "Submitting...")
	assert.Len(t, f.scheduler.Timers(), 1)
}

func TestCloseSession(t *testing.T) {
	f := newFixture(t, Config{})
	b := f.browser(t)

	b.postMultipart("/photos", nil, upload{"front.jpg", "a"})
	require.Equal(t, http.StatusOK, b.get("/previews/p1").Code)

	rec := b.do(httptest.NewRequest(http.MethodPost, "/session/close", nil))
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, http.StatusNotFound, b.get("/previews/p1").Code)

	page := b.get("/").Body.String()
	assert.NotContains(t, page, "/previews/p1")
	assert.Equal(t, 1, f.manager.Len())
	_, ok := f.manager.Get("s1")
	assert.False(t, ok)
	_, ok = f.manager.Get("s2")
	assert.True(t, ok)
}

func TestTextFormat(t *testing.T) {
	f := newFixture(t, Config{})
	b := f.browser(t)

	rec := b.get("/?format=text")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/plain")
	assert.Contains(t, rec.Body.String(), "[ Get Quote ]")

	assert.Equal(t, http.StatusNotFound, b.get("/?format=xml").Code)
}

func TestUploadLimit(t *testing.T) {
	f := newFixture(t, Config{MaxUploadBytes: 64})
	b := f.browser(t)

	rec := b.postMultipart("/photos", nil, upload{"front.jpg", strings.Repeat("x", 1024)})
	assert.GreaterOrEqual(t, rec.Code, http.StatusBadRequest)
	assert.Equal(t, 0, f.manager.Store().Len())
}

func TestNoticeIsSanitized(t *testing.T) {
	f := newFixture(t, Config{}, WithNotice(`<b>Call 555</b><script>x()</script>`))
	page := f.browser(t).get("/").Body.String()

	assert.Contains(t, page, "<b>Call 555</b>")
	assert.NotContains(t, page, "x()")
}

func TestThemeIsApplied(t *testing.T) {
	theme := &render.ThemeConfig{Theme: "meadow", CSSVars: map[string]string{"--surface": "#f0fff0"}}
	f := newFixture(t, Config{}, WithTheme(theme))
	page := f.browser(t).get("/").Body.String()

	assert.Contains(t, page, `data-theme="meadow"`)
	assert.Contains(t, page, "--surface: #f0fff0;")
}

func TestMetricsEndpoint(t *testing.T) {
	f := newFixture(t, Config{})
	b := f.browser(t)
	b.postMultipart("/photos", nil, upload{"front.jpg", "a"}, upload{"nope.jpg", "b"})

	rec := b.get("/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `lawnquote_photos_total{result="accepted"} 1`)
	assert.Contains(t, body, `lawnquote_photos_total{result="rejected"} 1`)
	assert.Contains(t, body, "lawnquote_sessions_active 1")
}

func TestCORS(t *testing.T) {
	f := newFixture(t, Config{CORSOrigins: []string{"https://example.com"}})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Origin", "https://example.com")
	rec := f.browser(t).do(req)
	assert.Equal(t, "https://example.com", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestNewValidation(t *testing.T) {
	_, err := New(Config{SessionSecret: "x"}, nil)
	assert.Error(t, err)

	manager := lqsessions.New(lqsessions.Config{})
	t.Cleanup(manager.CloseAll)
	_, err = New(Config{}, manager)
	assert.Error(t, err)

	_, err = New(Config{SessionSecret: "secret", CORSOrigins: []string{"not a url"}}, manager)
	assert.Error(t, err)
}
