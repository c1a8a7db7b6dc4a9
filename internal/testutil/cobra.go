package testutil

import (
	"bytes"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

// Execute runs c with args. The result holds what was written to os.Stdout,
// where the JSON logger writes, followed by the command's own output.
func Execute(t *testing.T, c *cobra.Command, args ...string) (string, error) {
	t.Helper()

	var cmdOut bytes.Buffer
	c.SetOut(&cmdOut)
	defer c.SetOut(nil)
	c.SetArgs(args)

	var err error
	stdout := CaptureStdout(t, func() { err = c.Execute() })
	return strings.TrimSpace(stdout + cmdOut.String()), err
}

// CaptureStdout returns everything fn writes to os.Stdout.
func CaptureStdout(t *testing.T, fn func()) string {
	t.Helper()

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	old := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = old }()

	done := make(chan string)
	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		done <- buf.String()
	}()

	fn()
	_ = w.Close()
	return <-done
}
