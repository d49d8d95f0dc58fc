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

// Package errors defines the sentinel errors shared across github-export.
// Callers wrap them with fmt.Errorf("...: %w") and test with errors.Is.
package errors

import "errors"

var (
	// ErrBadCredentials indicates the login or password was rejected
	// while creating an access token.
	ErrBadCredentials = errors.New("bad credentials")

	// ErrOTPRequired indicates the account has two-factor authentication
	// enabled and no one-time password was supplied.
	ErrOTPRequired = errors.New("two-factor authentication code required")

	// ErrTokenExists indicates an access token with the same note already
	// exists for the account.
	ErrTokenExists = errors.New("access token already exists")

	// ErrInvalidToken indicates the supplied access token was rejected.
	ErrInvalidToken = errors.New("invalid github token")

	// ErrRepoNotFound indicates the specified repository does not exist or is not accessible.
	ErrRepoNotFound = errors.New("repository not found")

	// ErrNetworkFailure indicates a network connection problem.
	ErrNetworkFailure = errors.New("network connection failed")

	// ErrRateLimit indicates GitHub API rate limit has been exceeded.
	ErrRateLimit = errors.New("github rate limit exceeded")
)

// IsAuthError reports whether err is one of the credential errors that
// terminate the process during token acquisition or use.
func IsAuthError(err error) bool {
	return errors.Is(err, ErrBadCredentials) ||
		errors.Is(err, ErrOTPRequired) ||
		errors.Is(err, ErrTokenExists) ||
		errors.Is(err, ErrInvalidToken)
}
