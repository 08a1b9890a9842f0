package cli

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/vdash/internal/config"
	"github.com/rileyhilliard/vdash/internal/logger"
	"github.com/rileyhilliard/vdash/internal/source"
)

// apiServer is an in-process stand-in for the visit counter API.
type apiServer struct {
	*httptest.Server

	mu       sync.Mutex
	bodies   map[string]string
	statuses map[string]int
	posts    map[string]int
	mockBody map[string]interface{}
}

func newAPIServer(t *testing.T) *apiServer {
	t.Helper()
	s := &apiServer{
		bodies: map[string]string{
			"/counter": `{"total_visits": 1234, "today_visits": 10}`,
			"/trends":  `[{"pageId":"2024-05-01","visits":4},{"pageId":"2024-05-02","visits":8},{"pageId":"2024-05-03","visits":10}]`,
		},
		statuses: map[string]int{},
		posts:    map[string]int{},
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	t.Cleanup(s.Close)
	return s
}

func (s *apiServer) handle(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r.Method == http.MethodPost {
		s.posts[r.URL.Path]++
		if r.URL.Path == "/mock" {
			data, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(data, &s.mockBody)
			if status := s.statuses["/mock"]; status != 0 {
				w.WriteHeader(status)
				return
			}
			_, _ = io.WriteString(w, `{"message":"ok","date":"2024-05-01","visits":25,"total_visits":1259}`)
			return
		}
	}

	if status := s.statuses[r.URL.Path]; status != 0 {
		w.WriteHeader(status)
		_, _ = io.WriteString(w, `{"error":"boom"}`)
		return
	}
	_, _ = io.WriteString(w, s.bodies[r.URL.Path])
}

func (s *apiServer) setStatus(path string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statuses[path] = status
}

func (s *apiServer) setBody(path, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bodies[path] = body
}

func (s *apiServer) lastMockBody() map[string]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mockBody
}

func (s *apiServer) postCount(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.posts[path]
}

func (s *apiServer) endpoints() source.Endpoints {
	return source.Endpoints{
		source.Counter: s.URL + "/counter",
		source.Trends:  s.URL + "/trends",
		source.Mock:    s.URL + "/mock",
	}
}

func (s *apiServer) client() *source.HTTPClient {
	return source.NewHTTPClient(s.endpoints(), source.WithLogger(logger.Noop()))
}

// writeTestConfig writes a config pointing at s and selects it with
// --config for the duration of the test.
func (s *apiServer) writeTestConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), config.ConfigFileName)
	content := "endpoints:\n" +
		"  counter: " + s.URL + "/counter\n" +
		"  trends: " + s.URL + "/trends\n" +
		"  mock: " + s.URL + "/mock\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	setFlag(t, &configFlag, path)
	return path
}

// setFlag sets a package-level flag variable and restores it afterwards.
func setFlag[T any](t *testing.T, flag *T, value T) {
	t.Helper()
	old := *flag
	*flag = value
	t.Cleanup(func() { *flag = old })
}
