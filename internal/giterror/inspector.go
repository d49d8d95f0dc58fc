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

package giterror

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	gh "github.com/google/go-github/v80/github"

	exporterrors "github.com/sirseerhq/github-export/internal/errors"
)

// Inspector provides methods to classify errors from the GitHub API.
type Inspector interface {
	// IsAuthError returns true if the error represents an authentication or authorization failure.
	IsAuthError(err error) bool

	// IsOTPRequired returns true if the server asked for a two-factor code.
	IsOTPRequired(err error) bool

	// IsAlreadyExists returns true if the request conflicted with an existing resource.
	IsAlreadyExists(err error) bool

	// IsNotFoundError returns true if the error represents a resource not found error.
	IsNotFoundError(err error) bool

	// IsRateLimitError returns true if the error represents a rate limit error.
	IsRateLimitError(err error) bool

	// IsNetworkError returns true if the error represents a network connectivity error.
	IsNetworkError(err error) bool
}

// GitHubErrorInspector implements the Inspector interface for GitHub API errors.
type GitHubErrorInspector struct{}

// NewInspector creates a new GitHubErrorInspector.
func NewInspector() Inspector {
	return &GitHubErrorInspector{}
}

// IsAuthError checks if the error is an authentication or authorization error.
func (i *GitHubErrorInspector) IsAuthError(err error) bool {
	if err == nil {
		return false
	}
	var tfaErr *gh.TwoFactorAuthError
	if errors.As(err, &tfaErr) {
		return true
	}
	if code := statusCode(err); code != 0 {
		return code == http.StatusUnauthorized
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "401") ||
		strings.Contains(errStr, "unauthorized") ||
		strings.Contains(errStr, "bad credentials") ||
		strings.Contains(errStr, "requires authentication")
}

// IsOTPRequired checks for the 401 response GitHub sends when the
// X-GitHub-OTP header is required but missing or wrong.
func (i *GitHubErrorInspector) IsOTPRequired(err error) bool {
	if err == nil {
		return false
	}
	var tfaErr *gh.TwoFactorAuthError
	return errors.As(err, &tfaErr)
}

// IsAlreadyExists checks for a 422 validation failure whose error code is
// already_exists.
func (i *GitHubErrorInspector) IsAlreadyExists(err error) bool {
	var ghErr *gh.ErrorResponse
	if !errors.As(err, &ghErr) {
		return false
	}
	for _, e := range ghErr.Errors {
		if e.Code == "already_exists" {
			return true
		}
	}
	return strings.Contains(strings.ToLower(ghErr.Message), "already exists")
}

// IsNotFoundError checks if the error is a not found error.
func (i *GitHubErrorInspector) IsNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	if code := statusCode(err); code != 0 {
		return code == http.StatusNotFound
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "404") ||
		strings.Contains(errStr, "not found") ||
		strings.Contains(errStr, "could not resolve to a repository")
}

// IsRateLimitError checks if the error is a rate limit error.
func (i *GitHubErrorInspector) IsRateLimitError(err error) bool {
	if err == nil {
		return false
	}
	var rateErr *gh.RateLimitError
	if errors.As(err, &rateErr) {
		return true
	}
	var abuseErr *gh.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		return true
	}
	if code := statusCode(err); code != 0 {
		return code == http.StatusTooManyRequests
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "rate limit") ||
		strings.Contains(errStr, "429")
}

// IsNetworkError checks if the error is a network connectivity error.
func (i *GitHubErrorInspector) IsNetworkError(err error) bool {
	if err == nil {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	if statusCode(err) != 0 {
		return false
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no such host") ||
		strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "temporary failure") ||
		strings.Contains(errStr, "dial tcp") ||
		strings.Contains(errStr, "tls handshake") ||
		strings.Contains(errStr, "network is unreachable")
}

// Classify wraps err with the sentinel from internal/errors that matches
// its kind. Errors that match nothing are returned unchanged. Order
// matters: a two-factor challenge is also a 401.
func Classify(inspector Inspector, err error) error {
	switch {
	case err == nil:
		return nil
	case inspector.IsOTPRequired(err):
		return fmt.Errorf("%w: %w", exporterrors.ErrOTPRequired, err)
	case inspector.IsAlreadyExists(err):
		return fmt.Errorf("%w: %w", exporterrors.ErrTokenExists, err)
	case inspector.IsRateLimitError(err):
		return fmt.Errorf("%w: %w", exporterrors.ErrRateLimit, err)
	case inspector.IsAuthError(err):
		return fmt.Errorf("%w: %w", exporterrors.ErrInvalidToken, err)
	case inspector.IsNotFoundError(err):
		return fmt.Errorf("%w: %w", exporterrors.ErrRepoNotFound, err)
	case inspector.IsNetworkError(err):
		return fmt.Errorf("%w: %w", exporterrors.ErrNetworkFailure, err)
	}
	return err
}

// statusCode extracts the HTTP status from a go-github ErrorResponse, or
// returns 0 when err carries no response.
func statusCode(err error) int {
	var ghErr *gh.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		return ghErr.Response.StatusCode
	}
	return 0
}
