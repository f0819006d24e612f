package handler_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/user/movieapi/internal/config"
	"github.com/user/movieapi/internal/handler"
	"github.com/user/movieapi/internal/middleware"
	"github.com/user/movieapi/internal/repository"
	"github.com/user/movieapi/internal/router"
	"github.com/user/movieapi/internal/service"
)

const duneBody = `{"title":"Dune","director":"D. Villeneuve","release_year":2021,"genre":"Sci-Fi","rating":8.5,"duration_minutes":155,"language":"English"}`

const duneJSON = `{"id":1,"title":"Dune","director":"D. Villeneuve","release_year":2021,"genre":"Sci-Fi","rating":8.5,"duration_minutes":155,"language":"English"}`

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig() *config.Config {
	return &config.Config{
		IDStrategy:   "max",
		PDFCacheSize: 8,
		PDFCacheTTL:  time.Minute,
	}
}

func newServer(t *testing.T, cfg *config.Config, store repository.MovieStore) *gin.Engine {
	t.Helper()
	movies := service.NewMovieService(store, service.ParseIDStrategy(cfg.IDStrategy))
	pdf := service.NewPDFRenderer(cfg.PDFCacheSize, cfg.PDFCacheTTL)
	return router.New(handler.NewHandler(movies, pdf, cfg))
}

func request(r http.Handler, method, path, body string, header ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func expect(t *testing.T, w *httptest.ResponseRecorder, code int, body string) {
	t.Helper()
	if w.Code != code {
		t.Fatalf("status = %d, want %d (body %s)", w.Code, code, w.Body.String())
	}
	if body != "" && w.Body.String() != body {
		t.Fatalf("body = %s, want %s", w.Body.String(), body)
	}
}

func TestDuneScenario(t *testing.T) {
	store, err := repository.NewJSONFileStore(filepath.Join(t.TempDir(), "movies.json"))
	if err != nil {
		t.Fatal(err)
	}
	r := newServer(t, testConfig(), store)

	expect(t, request(r, http.MethodPost, "/movies", duneBody), http.StatusCreated, duneJSON)
	expect(t, request(r, http.MethodGet, "/movies/1", ""), http.StatusOK, duneJSON)
	expect(t, request(r, http.MethodGet, "/movies", ""), http.StatusOK, "["+duneJSON+"]")
	expect(t, request(r, http.MethodDelete, "/movies/1", ""), http.StatusOK, duneJSON)
	expect(t, request(r, http.MethodGet, "/movies/1", ""), http.StatusNotFound, `{"message":"movie not found"}`)
}

func TestListEmpty(t *testing.T) {
	r := newServer(t, testConfig(), repository.NewMemoryStore())
	expect(t, request(r, http.MethodGet, "/movies", ""), http.StatusOK, `[]`)
}

func TestCreateRejectsInvalidBodies(t *testing.T) {
	nextYear := strconv.Itoa(time.Now().Year() + 1)

	cases := []struct {
		name, from, to, message string
	}{
		{"empty title", `"title":"Dune"`, `"title":""`, `"title" is not allowed to be empty`},
		{"short director", `"director":"D. Villeneuve"`, `"director":"DV"`, `"director" length must be at least 3 characters long`},
		{"year 1887", `"release_year":2021`, `"release_year":1887`, `"release_year" must be greater than or equal to 1888`},
		{"next year", `"release_year":2021`, `"release_year":` + nextYear, `"release_year" must be less than or equal to ` + strconv.Itoa(time.Now().Year())},
		{"rating 10.1", `"rating":8.5`, `"rating":10.1`, `"rating" must be less than or equal to 10`},
		{"zero duration", `"duration_minutes":155`, `"duration_minutes":0`, `"duration_minutes" must be greater than or equal to 1`},
		{"one char language", `"language":"English"`, `"language":"E"`, `"language" length must be at least 2 characters long`},
		{"missing genre", `"genre":"Sci-Fi",`, ``, `"genre" is required`},
		{"unknown field", `"title":"Dune"`, `"title":"Dune","poster":"x.jpg"`, `"poster" is not allowed`},
		{"wrong type", `"duration_minutes":155`, `"duration_minutes":"155"`, `"duration_minutes" must be an integer`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := repository.NewMemoryStore()
			r := newServer(t, testConfig(), store)

			body := strings.Replace(duneBody, tc.from, tc.to, 1)
			expect(t, request(r, http.MethodPost, "/movies", body), http.StatusBadRequest, `{"message":`+strconv.Quote(tc.message)+`}`)
			if store.Saves() != 0 {
				t.Fatal("invalid body must not be persisted")
			}
		})
	}
}

func TestCreateRejectsEmptyBody(t *testing.T) {
	r := newServer(t, testConfig(), repository.NewMemoryStore())
	w := request(r, http.MethodPost, "/movies", "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestUpdateValidatesBeforeLookup(t *testing.T) {
	r := newServer(t, testConfig(), repository.NewMemoryStore())

	invalid := strings.Replace(duneBody, `"rating":8.5`, `"rating":11`, 1)
	expect(t, request(r, http.MethodPut, "/movies/99", invalid), http.StatusBadRequest, `{"message":"\"rating\" must be less than or equal to 10"}`)
	expect(t, request(r, http.MethodPut, "/movies/99", duneBody), http.StatusNotFound, `{"message":"movie not found"}`)
}

func TestUpdateKeepsIDAndIsIdempotent(t *testing.T) {
	store := repository.NewMemoryStore()
	r := newServer(t, testConfig(), store)
	expect(t, request(r, http.MethodPost, "/movies", duneBody), http.StatusCreated, "")

	body := strings.Replace(duneBody, `{`, `{"id":42,`, 1)
	body = strings.Replace(body, `"rating":8.5`, `"rating":9`, 1)
	want := strings.Replace(duneJSON, `"rating":8.5`, `"rating":9`, 1)

	expect(t, request(r, http.MethodPut, "/movies/1", body), http.StatusOK, want)
	expect(t, request(r, http.MethodPut, "/movies/1", body), http.StatusOK, want)
	expect(t, request(r, http.MethodGet, "/movies/1", ""), http.StatusOK, want)
	expect(t, request(r, http.MethodGet, "/movies/42", ""), http.StatusNotFound, "")
}

func TestNonNumericIDIsNotFound(t *testing.T) {
	r := newServer(t, testConfig(), repository.NewMemoryStore())

	for _, method := range []string{http.MethodGet, http.MethodDelete} {
		expect(t, request(r, method, "/movies/abc", ""), http.StatusNotFound, `{"message":"movie not found"}`)
	}
	expect(t, request(r, http.MethodGet, "/movies/abc/pdf", ""), http.StatusNotFound, `{"message":"movie not found"}`)
}

func TestExportPDF(t *testing.T) {
	r := newServer(t, testConfig(), repository.NewMemoryStore())
	expect(t, request(r, http.MethodPost, "/movies", duneBody), http.StatusCreated, "")

	w := request(r, http.MethodGet, "/movies/1/pdf", "", "Accept-Encoding", "gzip")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Fatalf("content-type = %q", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); cd != "attachment; filename=movie_1.pdf" {
		t.Fatalf("content-disposition = %q", cd)
	}
	if w.Header().Get("Content-Encoding") != "" {
		t.Fatal("pdf must not be gzip encoded")
	}

	doc := w.Body.Bytes()
	last := -1
	for _, line := range []string{
		`(Movie ID: 1)`,
		`(Title: Dune)`,
		`(Director: D. Villeneuve)`,
		`(Release year: 2021)`,
		`(Genre: Sci-Fi)`,
		`(Rating: 8.5)`,
		`(Duration \(minutes\): 155)`,
		`(Language: English)`,
	} {
		idx := bytes.Index(doc, []byte(line))
		if idx < 0 || idx < last {
			t.Fatalf("line %s missing or out of order", line)
		}
		last = idx
	}
}

func TestExportPDFNotFound(t *testing.T) {
	r := newServer(t, testConfig(), repository.NewMemoryStore())
	expect(t, request(r, http.MethodGet, "/movies/7/pdf", ""), http.StatusNotFound, `{"message":"movie not found"}`)
}

func TestStorageFailureIsServerError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "movies.json")
	store, err := repository.NewJSONFileStore(path)
	if err != nil {
		t.Fatal(err)
	}
	r := newServer(t, testConfig(), store)

	if err := os.WriteFile(path, []byte("corrupt"), 0644); err != nil {
		t.Fatal(err)
	}
	expect(t, request(r, http.MethodGet, "/movies", ""), http.StatusInternalServerError, `{"message":"internal server error"}`)
	expect(t, request(r, http.MethodPost, "/movies", duneBody), http.StatusInternalServerError, "")
}

func TestWriteRoutesRequireTokenWhenSecretSet(t *testing.T) {
	cfg := testConfig()
	cfg.AppSecret = "s3cret"
	r := newServer(t, cfg, repository.NewMemoryStore())

	expect(t, request(r, http.MethodPost, "/movies", duneBody), http.StatusUnauthorized, "")
	expect(t, request(r, http.MethodGet, "/movies", ""), http.StatusOK, `[]`)

	token, err := middleware.GenerateToken("tester", "editor", cfg.AppSecret, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	expect(t, request(r, http.MethodPost, "/movies", duneBody, "Authorization", "Bearer "+token), http.StatusCreated, duneJSON)
	expect(t, request(r, http.MethodDelete, "/movies/1", "", "Authorization", "Bearer "+token), http.StatusOK, duneJSON)
}

func TestHealth(t *testing.T) {
	r := newServer(t, testConfig(), repository.NewMemoryStore())
	expect(t, request(r, http.MethodGet, "/health", ""), http.StatusOK, `{"status":"ok"}`)
}
