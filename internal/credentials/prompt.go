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
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"golang.org/x/term"
)

// exit terminates the process after an interrupt during a masked prompt.
var exit = os.Exit

// Prompter reads answers from an input stream, writing labels to out.
// When the input is a terminal, secrets are read with echo disabled.
type Prompter struct {
	reader *bufio.Reader
	out    io.Writer
	fd     int
	tty    bool
}

// NewPrompter returns a Prompter over in. Masked input is used only when
// in is an *os.File attached to a terminal.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	p := &Prompter{reader: bufio.NewReader(in), out: out, fd: -1}
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		p.fd = int(f.Fd())
		p.tty = true
	}
	return p
}

// Ask writes label and returns the trimmed line that follows. End of input
// after a partial line returns that line.
func (p *Prompter) Ask(label string) (string, error) {
	fmt.Fprint(p.out, label)
	line, err := p.reader.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("read %s: %w", strings.TrimSpace(strings.TrimSuffix(label, ": ")), err)
	}
	return strings.TrimSpace(line), nil
}

// AskSecret is Ask with echo disabled on a terminal.
func (p *Prompter) AskSecret(label string) (string, error) {
	if !p.tty {
		return p.Ask(label)
	}

	fmt.Fprint(p.out, label)
	secret, err := p.readMasked()
	fmt.Fprintln(p.out)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimSpace(string(secret)), nil
}

// readMasked reads one line without echo. The terminal state is restored
// on return and on SIGINT or SIGTERM, after which the process exits.
func (p *Prompter) readMasked() ([]byte, error) {
	state, err := term.GetState(p.fd)
	if err != nil {
		return nil, err
	}

	sigs := make(chan os.Signal, 1)
	done := make(chan struct{})
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	defer func() {
		signal.Stop(sigs)
		close(done)
	}()

	go func() {
		select {
		case <-sigs:
			_ = term.Restore(p.fd, state)
			fmt.Fprintln(p.out)
			exit(1)
		case <-done:
		}
	}()

	return term.ReadPassword(p.fd)
}
