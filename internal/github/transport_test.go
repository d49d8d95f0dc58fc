// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package github

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sirseerhq/github-export/internal/logger"
)

func TestNewHTTPClient_AddsBearerToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer abc123", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	resp, err := NewHTTPClient("abc123", false).Get(server.URL)
	require.NoError(t, err)
	resp.Body.Close()
}

func TestNewHTTPClient_TraceLogsWithoutCredentials(t *testing.T) {
	var buf bytes.Buffer
	logger.Init(true)
	logger.SetOutput(&buf)
	t.Cleanup(func() { logger.Init(false) })

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	defer server.Close()

	resp, err := NewHTTPClient("abc123", true).Get(server.URL + "/repos/o/r")
	require.NoError(t, err)
	resp.Body.Close()

	out := buf.String()
	assert.Contains(t, out, "--> GET "+server.URL+"/repos/o/r")
	assert.Contains(t, out, "<-- 418")
	assert.False(t, strings.Contains(out, "abc123"), "token leaked into logs")
}

func TestSetVersion(t *testing.T) {
	t.Cleanup(func() { SetVersion("dev") })

	SetVersion("1.2.3")
	assert.Equal(t, "github-export/1.2.3", userAgent)

	client, err := NewRESTClient(http.DefaultClient, "")
	require.NoError(t, err)
	assert.Equal(t, "github-export/1.2.3", client.gh.UserAgent)
}
