package llm

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"

	"dory-ai/internal/vault"
)

// ExecRunner generates answers by invoking a local CLI binary with the
// flattened prompt on stdin. The binary is expected to print the answer on
// stdout and exit zero.
type ExecRunner struct {
	Bin  string
	Args []string
	Dir  string
}

// NewExecRunner creates a runner for a local binary. dir sets the working
// directory for the child process; empty means inherit.
func NewExecRunner(bin string, args []string, dir string) *ExecRunner {
	return &ExecRunner{Bin: bin, Args: args, Dir: dir}
}

// Generate implements Generator.
func (r *ExecRunner) Generate(ctx context.Context, systemPrompt string, conversation []Turn, snippets []vault.Snippet) (string, error) {
	prompt := FlattenPrompt(systemPrompt, conversation, snippets)

	args := append([]string{"exec"}, r.Args...)
	cmd := exec.CommandContext(ctx, r.Bin, args...)
	cmd.Dir = r.Dir
	cmd.Stdin = strings.NewReader(prompt)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	switch {
	case err == nil:
		return strings.TrimSpace(stdout.String()), nil
	case ctx.Err() != nil:
		return "", failure(FailureTimeout, "binary timed out: %w", ctx.Err())
	case errors.Is(err, exec.ErrNotFound):
		return "", failure(FailureUnavailable, "binary not found: %w", err)
	default:
		detail := strings.TrimSpace(stderr.String())
		if detail == "" {
			detail = strings.TrimSpace(stdout.String())
		}
		return "", failure(FailureProcess, "binary failed: %v: %s", err, detail)
	}
}
