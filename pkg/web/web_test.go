package web

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/brotli"
	"github.com/richard-senior/spiro/internal/logger"
	"github.com/richard-senior/spiro/pkg/spiro"
	"github.com/richard-senior/spiro/pkg/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedRand struct{ v uint32 }

func (f fixedRand) Uint32N(n uint32) uint32 { return f.v % n }

var testOpts = spiro.DrawOptions{Width: 400, Height: 400, Margin: 0.05, Background: "#1b1b1b"}

func newTestServer() (*Server, *spiro.Session) {
	return newTestServerWith(spiro.Params{A: 5, B: 7, C: 3, Color: spiro.LightRed, Width: 1, ParamMax: 20})
}

func newTestServerWith(p spiro.Params) (*Server, *spiro.Session) {
	s := spiro.NewSessionWith(p, store.NewMemoryStore(), spiro.AppKey, fixedRand{v: 10})
	return NewServer(s, testOpts), s
}

// formValues reads every control of the params form as a browser would submit it
func formValues(t *testing.T, page io.Reader) url.Values {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(page)
	require.NoError(t, err)
	form := url.Values{}
	doc.Find("#params input").Each(func(_ int, sel *goquery.Selection) {
		name, _ := sel.Attr("name")
		value, _ := sel.Attr("value")
		form.Set(name, value)
	})
	return form
}

func postForm(path string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

type failingWriter struct {
	header http.Header
}

func (f *failingWriter) Header() http.Header       { return f.header }
func (f *failingWriter) WriteHeader(int)           {}
func (f *failingWriter) Write([]byte) (int, error) { return 0, errors.New("connection reset") }

func do(t *testing.T, h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestPageShowsCurrentParams(t *testing.T) {
	srv, _ := newTestServer()
	rec := do(t, srv, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")

	doc, err := goquery.NewDocumentFromReader(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, 1, doc.Find("#application svg").Length())
	assert.Equal(t, 1, doc.Find("#application path#curve").Length())

	value := func(name string) string {
		v, _ := doc.Find(`#params input[name="` + name + `"]`).Attr("value")
		return v
	}
	assert.Equal(t, "5", value("a"))
	assert.Equal(t, "7", value("b"))
	assert.Equal(t, "3", value("c"))
	assert.Equal(t, "20", value("param_max"))
	assert.Equal(t, "1", value("width"))
	assert.Equal(t, "#ff8080", value("color"))

	max, _ := doc.Find(`#params input[name="a"]`).Attr("max")
	assert.Equal(t, "20", max)
}

func TestUnknownPathIsNotFound(t *testing.T) {
	srv, _ := newTestServer()
	rec := do(t, srv, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCurveSVG(t *testing.T) {
	srv, _ := newTestServer()
	rec := do(t, srv, httptest.NewRequest(http.MethodGet, "/curve.svg", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/svg+xml", rec.Header().Get("Content-Type"))
	body := rec.Body.String()
	assert.Contains(t, body, "<svg")
	assert.Contains(t, body, `id="curve"`)
	assert.Contains(t, body, "stroke:#ff8080")
}

func TestPostParams(t *testing.T) {
	srv, session := newTestServer()
	form := url.Values{"a": {"9"}, "c": {"99"}, "width": {"2.5"}, "color": {"#0000ff"}}
	req := httptest.NewRequest(http.MethodPost, "/params", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rec := do(t, srv, req)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	p := session.Params()
	assert.Equal(t, uint32(9), p.A)
	assert.Equal(t, uint32(7), p.B)
	assert.Equal(t, uint32(20), p.C)
	assert.Equal(t, float32(2.5), p.Width)
	assert.Equal(t, spiro.Color{R: 0, G: 0, B: 255, A: 255}, p.Color)
}

func TestPostParamsRejectsGarbage(t *testing.T) {
	srv, session := newTestServer()
	before := session.Params()
	form := url.Values{"a": {"nine"}}
	req := httptest.NewRequest(http.MethodPost, "/params", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rec := do(t, srv, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, before, session.Params())
}

func TestShuffleAnswersJSON(t *testing.T) {
	srv, session := newTestServer()
	req := httptest.NewRequest(http.MethodPost, "/shuffle", nil)
	req.Header.Set("Accept", "application/json")

	rec := do(t, srv, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var got spiro.Params
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	// fixedRand draws 10 from [0, 19) so every value lands on 11
	assert.Equal(t, uint32(11), got.A)
	assert.Equal(t, uint32(11), got.B)
	assert.Equal(t, uint32(11), got.C)
	assert.Equal(t, got, session.Params())
}

func TestGetParams(t *testing.T) {
	srv, _ := newTestServer()
	rec := do(t, srv, httptest.NewRequest(http.MethodGet, "/params", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"a":5,"b":7,"c":3,"color":[255,128,128,255],"width":1,"param_max":20}`, rec.Body.String())
}

func TestBrotliResponse(t *testing.T) {
	srv, _ := newTestServer()
	req := httptest.NewRequest(http.MethodGet, "/curve.svg", nil)
	req.Header.Set("Accept-Encoding", "gzip, deflate, br")

	rec := do(t, srv, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "br", rec.Header().Get("Content-Encoding"))
	assert.Equal(t, "Accept-Encoding", rec.Header().Get("Vary"))

	body, err := io.ReadAll(brotli.NewReader(rec.Body))
	require.NoError(t, err)
	assert.Contains(t, string(body), `id="curve"`)
}

func TestGzipResponse(t *testing.T) {
	srv, _ := newTestServer()
	req := httptest.NewRequest(http.MethodGet, "/params", nil)
	req.Header.Set("Accept-Encoding", "gzip")

	rec := do(t, srv, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "gzip", rec.Header().Get("Content-Encoding"))

	zr, err := gzip.NewReader(rec.Body)
	require.NoError(t, err)
	body, err := io.ReadAll(zr)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"param_max":20`)
}

func TestNegotiateEncoding(t *testing.T) {
	assert.Equal(t, "br", negotiateEncoding("gzip, br"))
	assert.Equal(t, "gzip", negotiateEncoding("gzip, br;q=0"))
	assert.Equal(t, "gzip", negotiateEncoding("GZIP"))
	assert.Equal(t, "", negotiateEncoding("deflate"))
	assert.Equal(t, "", negotiateEncoding(""))
}

func TestParseEdit(t *testing.T) {
	form := url.Values{"b": {"4"}, "param_max": {"30"}, "width": {""}}
	e, err := ParseEdit(form.Get)
	require.NoError(t, err)
	require.NotNil(t, e.B)
	require.NotNil(t, e.ParamMax)
	assert.Equal(t, 4, *e.B)
	assert.Equal(t, 30, *e.ParamMax)
	assert.Nil(t, e.A)
	assert.Nil(t, e.Width)
	assert.Nil(t, e.Color)

	_, err = ParseEdit(url.Values{"width": {"thick"}}.Get)
	assert.Error(t, err)
	_, err = ParseEdit(url.Values{"color": {"red"}}.Get)
	assert.Error(t, err)
}

func TestPanelMarkdown(t *testing.T) {
	p := spiro.Params{A: 5, B: 7, C: 3, Color: spiro.LightRed, Width: 1.5, ParamMax: 20}
	assert.Contains(t, PanelHTML(p), "<li><strong>A</strong>: 5</li>")

	md, err := PanelMarkdown(p)
	require.NoError(t, err)
	assert.Contains(t, md, "**A**: 5")
	assert.Contains(t, md, "**thickness**: 1.5")
	assert.Contains(t, md, "**samples**: 31415")
	assert.NotContains(t, md, "<li>")
}

func TestResubmittedFormKeepsTranslucentColor(t *testing.T) {
	translucent := spiro.Color{R: 10, G: 20, B: 30, A: 100}
	srv, session := newTestServerWith(spiro.Params{A: 5, B: 7, C: 3, Color: translucent, Width: 1.5, ParamMax: 20})
	before := session.Params()

	page := do(t, srv, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, page.Code)
	form := formValues(t, page.Body)
	assert.Equal(t, "#0a141e", form.Get("color"))
	assert.Equal(t, "100", form.Get("alpha"))

	// any control change resubmits the whole form
	rec := do(t, srv, postForm("/params", form))
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, before, session.Params())

	form.Set("a", "9")
	do(t, srv, postForm("/params", form))
	p := session.Params()
	assert.Equal(t, uint32(9), p.A)
	assert.Equal(t, translucent, p.Color)
}

func TestParseEditAlpha(t *testing.T) {
	e, err := ParseEdit(url.Values{"color": {"#0000ff"}, "alpha": {"128"}}.Get)
	require.NoError(t, err)
	require.NotNil(t, e.Color)
	assert.Equal(t, spiro.Color{R: 0, G: 0, B: 255, A: 128}, *e.Color)

	e, err = ParseEdit(url.Values{"alpha": {"128"}}.Get)
	require.NoError(t, err)
	assert.True(t, e.Empty())

	_, err = ParseEdit(url.Values{"color": {"#0000ff"}, "alpha": {"300"}}.Get)
	assert.Error(t, err)
}

func TestWriteFailuresAreLogged(t *testing.T) {
	var buf bytes.Buffer
	logger.SetWriter(&buf)
	logger.SetLevel(logger.DEBUG)
	defer func() {
		logger.SetLevel(logger.INFO)
		logger.SetWriter(io.Discard)
	}()

	srv, _ := newTestServer()
	srv.ServeHTTP(&failingWriter{header: http.Header{}}, httptest.NewRequest(http.MethodGet, "/curve.svg", nil))
	srv.ServeHTTP(&failingWriter{header: http.Header{}}, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Contains(t, buf.String(), "Failed to write curve: connection reset")
	assert.Contains(t, buf.String(), "Failed to write page: connection reset")
}
