package clients

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elgranjm3000/previewInventario/internal/upstreamtest"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestUpstreamClientDo(t *testing.T) {
	testCases := []struct {
		name      string
		method    string
		path      string
		body      []byte
		authorize bool
		setup     func(s *upstreamtest.Server)
		wantAuth  string
		checkErr  func(t *testing.T, err error)
		checkBody func(t *testing.T, raw json.RawMessage)
	}{
		{
			name:   "Read call carries no credential",
			method: http.MethodGet,
			path:   "/categorias",
			setup: func(s *upstreamtest.Server) {
				s.Seed("categorias", map[string]any{"nombre": "Hogar"})
			},
			wantAuth: "",
			checkBody: func(t *testing.T, raw json.RawMessage) {
				assert.JSONEq(t, `[{"id":1,"nombre":"Hogar"}]`, string(raw))
			},
		},
		{
			name:      "Mutating call carries bearer credential",
			method:    http.MethodPost,
			path:      "/categorias",
			body:      []byte(`{"nombre":"Oficina"}`),
			authorize: true,
			wantAuth:  "Bearer tok-123",
			checkBody: func(t *testing.T, raw json.RawMessage) {
				assert.JSONEq(t, `{"id":1,"nombre":"Oficina"}`, string(raw))
			},
		},
		{
			name:   "Non-2xx becomes UpstreamError",
			method: http.MethodGet,
			path:   "/productos/99",
			checkErr: func(t *testing.T, err error) {
				var upErr *UpstreamError
				require.True(t, errors.As(err, &upErr))
				assert.Equal(t, http.StatusNotFound, upErr.StatusCode)
				assert.Equal(t, "/productos/99", upErr.Path)
			},
		},
		{
			name:   "Body that is not JSON",
			method: http.MethodGet,
			path:   "/productos",
			setup: func(s *upstreamtest.Server) {
				s.Respond(http.MethodGet, "/productos", http.StatusOK, "<html>oops</html>")
			},
			checkErr: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrInvalidJSON)
			},
		},
		{
			name:      "Empty body on delete",
			method:    http.MethodDelete,
			path:      "/productos/1",
			authorize: true,
			wantAuth:  "Bearer tok-123",
			setup: func(s *upstreamtest.Server) {
				s.Seed("productos", map[string]any{"nombre": "Mesa"})
			},
			checkBody: func(t *testing.T, raw json.RawMessage) {
				assert.Nil(t, raw)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			upstream := upstreamtest.New(t)
			if tc.setup != nil {
				tc.setup(upstream)
			}
			client := NewUpstreamHTTPClient(upstream.URL+"/", "tok-123", 0, quietLogger())

			// Act
			raw, err := client.Do(context.Background(), tc.method, tc.path, tc.body, tc.authorize)

			// Assert
			if tc.checkErr != nil {
				require.Error(t, err)
				tc.checkErr(t, err)
			} else {
				require.NoError(t, err)
				tc.checkBody(t, raw)
			}

			reqs := upstream.Requests()
			require.Len(t, reqs, 1, "exactly one outbound call")
			assert.Equal(t, tc.method, reqs[0].Method)
			assert.Equal(t, tc.path, reqs[0].Path)
			if tc.checkErr == nil {
				assert.Equal(t, tc.wantAuth, reqs[0].Authorization)
			}
		})
	}
}

func TestUpstreamClientUnreachable(t *testing.T) {
	client := NewUpstreamHTTPClient("http://127.0.0.1:1", "", 0, quietLogger())

	_, err := client.Do(context.Background(), http.MethodGet, "/categorias", nil, false)
	assert.Error(t, err)

	assert.Error(t, client.Ping(context.Background()))
}

func TestUpstreamClientPing(t *testing.T) {
	upstream := upstreamtest.New(t)
	upstream.FailWith(http.StatusInternalServerError)
	client := NewUpstreamHTTPClient(upstream.URL, "", 0, quietLogger())

	assert.NoError(t, client.Ping(context.Background()), "any HTTP answer means reachable")
}
