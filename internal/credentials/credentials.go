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

package credentials

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	exporterrors "github.com/sirseerhq/github-export/internal/errors"
	"github.com/sirseerhq/github-export/internal/github"
	"github.com/sirseerhq/github-export/internal/logger"
)

const (
	// TokenNote identifies tokens created by this tool on the account's
	// token list.
	TokenNote = "Github Export"

	loginLabel    = "login: "
	passwordLabel = "password: "
	otpLabel      = "two factor token(Optional): "
)

// TokenScopes are the scopes requested for a new token.
var TokenScopes = []string{"repo", "user"}

// Authorizer creates access tokens from account credentials.
type Authorizer interface {
	CreateAuthorization(ctx context.Context, login, password, otp string, body github.AuthorizationRequest) (*github.Authorization, error)
}

// NewTokenRequest returns the body sent when creating a token.
func NewTokenRequest() github.AuthorizationRequest {
	scopes := make([]string, len(TokenScopes))
	copy(scopes, TokenScopes)
	return github.AuthorizationRequest{Scopes: scopes, Note: TokenNote}
}

// Resolve returns the first non-blank candidate token. With none, it
// prompts for credentials and creates a token through auth.
func Resolve(ctx context.Context, p *Prompter, auth Authorizer, candidates ...string) (string, error) {
	for _, c := range candidates {
		if token := strings.TrimSpace(c); token != "" {
			return token, nil
		}
	}
	return Acquire(ctx, p, auth)
}

// Acquire prompts for login, password and an optional two-factor code and
// creates a new token. Authorization failures are returned wrapping
// ErrBadCredentials, ErrOTPRequired or ErrTokenExists.
func Acquire(ctx context.Context, p *Prompter, auth Authorizer) (string, error) {
	login, err := p.Ask(loginLabel)
	if err != nil {
		return "", err
	}
	if login == "" {
		return "", fmt.Errorf("%w: login is required", exporterrors.ErrBadCredentials)
	}

	password, err := p.AskSecret(passwordLabel)
	if err != nil {
		return "", err
	}

	// The code is optional, so closed input here just means none.
	otp, err := p.Ask(otpLabel)
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}

	logger.Debug("creating access token for %s", login)
	a, err := auth.CreateAuthorization(ctx, login, password, otp, NewTokenRequest())
	if err != nil {
		return "", err
	}
	return a.Token, nil
}
