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
	"context"
	"errors"
	"fmt"
	"net/http"

	gh "github.com/google/go-github/v80/github"

	exporterrors "github.com/sirseerhq/github-export/internal/errors"
	"github.com/sirseerhq/github-export/internal/giterror"
)

// AuthorizationClient creates personal access tokens with basic
// authentication through the authorizations endpoint.
type AuthorizationClient struct {
	endpoint  string
	transport http.RoundTripper
	inspector giterror.Inspector
}

// NewAuthorizationClient returns a client for endpoint. With trace set,
// requests are logged the same way as the REST client's.
func NewAuthorizationClient(endpoint string, trace bool) *AuthorizationClient {
	return &AuthorizationClient{
		endpoint:  endpoint,
		transport: newBaseTransport(trace),
		inspector: giterror.NewInspector(),
	}
}

// CreateAuthorization requests a new token for login. A non-empty otp is
// sent in the X-GitHub-OTP header. Rejected credentials, a missing
// two-factor code and an existing token with the same note are returned
// wrapping ErrBadCredentials, ErrOTPRequired and ErrTokenExists.
func (a *AuthorizationClient) CreateAuthorization(ctx context.Context, login, password, otp string, body AuthorizationRequest) (*Authorization, error) {
	tp := &gh.BasicAuthTransport{
		Username:  login,
		Password:  password,
		OTP:       otp,
		Transport: a.transport,
	}
	client := gh.NewClient(tp.Client())
	client.UserAgent = userAgent
	if a.endpoint != "" {
		baseURL, err := parseEndpoint(a.endpoint)
		if err != nil {
			return nil, err
		}
		client.BaseURL = baseURL
	}

	req, err := client.NewRequest(http.MethodPost, "authorizations", body)
	if err != nil {
		return nil, err
	}

	var auth Authorization
	if _, err := client.Do(ctx, req, &auth); err != nil {
		return nil, a.mapError(err)
	}
	if auth.Token == "" {
		return nil, errors.New("create authorization: response contained no token")
	}
	return &auth, nil
}

func (a *AuthorizationClient) mapError(err error) error {
	switch {
	case a.inspector.IsOTPRequired(err):
		return fmt.Errorf("%w: %w", exporterrors.ErrOTPRequired, err)
	case a.inspector.IsAlreadyExists(err):
		return fmt.Errorf("%w: %w", exporterrors.ErrTokenExists, err)
	case a.inspector.IsAuthError(err):
		return fmt.Errorf("%w: %w", exporterrors.ErrBadCredentials, err)
	}
	return giterror.Classify(a.inspector, fmt.Errorf("create authorization: %w", err))
}
