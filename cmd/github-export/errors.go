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

package main

import (
	"errors"
	"fmt"

	exporterrors "github.com/sirseerhq/github-export/internal/errors"
)

// errorMessage returns the text printed for a failed command.
// Authentication failures get a message that says what to do next.
func errorMessage(err error) string {
	switch {
	case errors.Is(err, exporterrors.ErrOTPRequired):
		return "Error: two-factor authentication is enabled for this account. Run again and enter the code at the \"two factor token\" prompt."
	case errors.Is(err, exporterrors.ErrTokenExists):
		return "Error: an access token named \"Github Export\" already exists. Delete it in your GitHub token settings or pass --access-token."
	case errors.Is(err, exporterrors.ErrBadCredentials):
		return "Error: bad credentials. Check your login and password."
	case errors.Is(err, exporterrors.ErrInvalidToken):
		return "Error: GitHub rejected the access token. Check --access-token or the token environment variable."
	default:
		return fmt.Sprintf("Error: %v", err)
	}
}

// mapErrorToExitCode maps a command error to the process exit code.
// Every failure exits with 1.
func mapErrorToExitCode(err error) int {
	if err == nil {
		return 0
	}
	return 1
}
