package transcribe

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// DefaultEspeakBinary is looked up in PATH when no binary is configured.
const DefaultEspeakBinary = "espeak"

// Espeak runs the eSpeak synthesizer in phoneme-mnemonic mode (-x) without
// producing audio (-q).
type Espeak struct {
	Binary string
	Voice  string
}

// NewEspeak returns an eSpeak adapter for voice.
func NewEspeak(binary, voice string) *Espeak {
	if strings.TrimSpace(binary) == "" {
		binary = DefaultEspeakBinary
	}
	return &Espeak{Binary: binary, Voice: voice}
}

// Args returns the command line arguments passed to the binary.
func (e *Espeak) Args() []string {
	args := []string{"-x", "-q"}
	if e.Voice != "" {
		args = append(args, "-v", e.Voice)
	}
	return append(args, "--stdin")
}

// Transcribe feeds text on stdin and returns the raw phoneme stream.
func (e *Espeak) Transcribe(ctx context.Context, key, text string) (string, error) {
	path, err := exec.LookPath(e.Binary)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrToolUnavailable, e.Binary, err)
	}
	cmd := exec.CommandContext(ctx, path, e.Args()...)
	cmd.Stdin = strings.NewReader(text)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", fmt.Errorf("failed to transcribe %q: %w: %s", key, err, strings.TrimSpace(stderr.String()))
		}
		return "", fmt.Errorf("%w: %v", ErrToolUnavailable, err)
	}
	out := stdout.String()
	if strings.TrimSpace(out) == "" {
		return "", fmt.Errorf("%w for %q", ErrEmptyTranscription, key)
	}
	return out, nil
}
