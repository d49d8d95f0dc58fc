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
	"net/http"
	"time"

	"github.com/motemen/go-loghttp"
	"golang.org/x/oauth2"

	"github.com/sirseerhq/github-export/internal/logger"
)

// Version is reported in the User-Agent header. Set by the CLI at startup.
var Version = "dev"

var userAgent = "github-export/" + Version

// SetVersion updates the version reported to GitHub.
func SetVersion(v string) {
	Version = v
	userAgent = "github-export/" + v
}

// NewHTTPClient returns an HTTP client that authenticates every request
// with token. With trace set, each request and response is logged at debug
// level. There is no overall timeout; callers bound requests with their
// context.
func NewHTTPClient(token string, trace bool) *http.Client {
	return &http.Client{
		Transport: &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}),
			Base:   newBaseTransport(trace),
		},
	}
}

// newBaseTransport builds the unauthenticated transport shared by the REST,
// GraphQL and authorization clients.
func newBaseTransport(trace bool) http.RoundTripper {
	var rt http.RoundTripper = &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
		ForceAttemptHTTP2:   true,
	}
	if trace {
		rt = newTracingTransport(rt)
	}
	return rt
}

// newTracingTransport logs request lines and response status codes. Headers
// are never logged so credentials stay out of the output.
func newTracingTransport(base http.RoundTripper) http.RoundTripper {
	return &loghttp.Transport{
		Transport: base,
		LogRequest: func(req *http.Request) {
			logger.Debug("--> %s %s", req.Method, req.URL.Redacted())
		},
		LogResponse: func(resp *http.Response) {
			logger.Debug("<-- %d %s", resp.StatusCode, resp.Request.URL.Redacted())
		},
	}
}
