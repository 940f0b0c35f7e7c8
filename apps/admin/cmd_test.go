package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type apiCall struct {
	method string
	path   string
	auth   string
	body   map[string]interface{}
}

func setup(t *testing.T) (*commandLine, *[]apiCall) {
	t.Helper()

	calls := new([]apiCall)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		call := apiCall{method: r.Method, path: r.URL.Path, auth: r.Header.Get("Authorization")}
		_ = json.NewDecoder(r.Body).Decode(&call.body)
		*calls = append(*calls, call)

		switch r.URL.Path {
		case "/v1/users/login":
			if call.body["password"] == "Secret123" {
				_ = json.NewEncoder(w).Encode(map[string]string{"token": "test-token"})
				return
			}
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "authentication failed"})
		case "/v1/users":
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(map[string]string{"id": "user-1", "email": call.body["email"].(string)})
		default:
			_ = json.NewEncoder(w).Encode(map[string]interface{}{})
		}
	}))
	t.Cleanup(srv.Close)

	cli := &commandLine{
		client: &apiClient{
			baseURL: srv.URL,
			token:   "admin-token",
			http:    &http.Client{Timeout: time.Second},
		},
	}
	return cli, calls
}

type cliTest struct {
	name       string
	args       []string // without program name
	pwd        string
	wantErr    error
	wantErrStr string
}

func Test_commandLine_run(t *testing.T) {
	tests := []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "login: no email", args: []string{"login"}, wantErr: errHelp},
		{name: "login: no password", args: []string{"login", "-email", "root@test.local"}, wantErr: errHelp},
		{name: "login", args: []string{"login", "-email", "root@test.local"}, pwd: "Secret123"},
		{name: "login: bad credentials", args: []string{"login", "-email", "root@test.local"}, pwd: "nope",
			wantErrStr: `POST /v1/users/login: 400 Bad Request: {"error":"authentication failed"}`},
		{name: "adduser: no email", args: []string{"adduser", "-name", "Root"}, wantErr: errHelp},
		{name: "adduser: no name", args: []string{"adduser", "-email", "x@test.local"}, wantErr: errHelp},
		{name: "adduser: no password", args: []string{"adduser", "-email", "x@test.local", "-name", "X"}, wantErr: errHelp},
		{name: "adduser", args: []string{"adduser", "-email", "x@test.local", "-name", "X"}, pwd: "Secret123"},
		{name: "deactivate: no id", args: []string{"deactivate"}, wantErr: errHelp},
		{name: "deactivate", args: []string{"deactivate", "-id", "user-1"}},
		{name: "activate", args: []string{"activate", "-id", "user-1"}},
	}
	for _, tt := range tests {
		cli, _ := setup(t)
		readPasswordFunc = func(fd int) ([]byte, error) { return []byte(tt.pwd), nil }

		t.Run(tt.name, func(t *testing.T) {
			err := cli.run(append([]string{"admin"}, tt.args...))
			switch {
			case tt.wantErr != nil:
				assert.Equal(t, tt.wantErr, err)
			case tt.wantErrStr != "":
				if assert.Error(t, err) {
					assert.Equal(t, tt.wantErrStr, err.Error())
				}
			default:
				assert.NoError(t, err)
			}
		})
	}
}

func Test_commandLine_addUser_request(t *testing.T) {
	cli, calls := setup(t)
	readPasswordFunc = func(fd int) ([]byte, error) { return []byte("Secret123"), nil }

	err := cli.run([]string{"admin", "adduser", "-email", "Root@Test.Local", "-name", "Root"})
	assert.NoError(t, err)

	if assert.Len(t, *calls, 1) {
		call := (*calls)[0]
		assert.Equal(t, http.MethodPost, call.method)
		assert.Equal(t, "/v1/users", call.path)
		assert.Equal(t, "Bearer admin-token", call.auth)
		assert.Equal(t, "root@test.local", call.body["email"]) // cleaned
		assert.Equal(t, "admin", call.body["role"])            // default role
		assert.Equal(t, "Secret123", call.body["password_confirm"])
	}
}

func Test_commandLine_setActive_request(t *testing.T) {
	cli, calls := setup(t)

	err := cli.run([]string{"admin", "deactivate", "-id", "user-1"})
	assert.NoError(t, err)

	if assert.Len(t, *calls, 1) {
		call := (*calls)[0]
		assert.Equal(t, http.MethodPut, call.method)
		assert.Equal(t, "/v1/users/user-1", call.path)
		assert.Equal(t, false, call.body["is_active"])
	}
}
