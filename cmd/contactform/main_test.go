package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-contactform/pkg/renderers/tui"
)

func execute(t *testing.T, a *app, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(a)
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	err := cmd.Execute()
	return out.String(), err
}

func TestCheck_Valid(t *testing.T) {
	out, err := execute(t, &app{}, "check", "--name", "Al", "--email", "al@x.io", "--message", "Hello, this works!")
	require.NoError(t, err)

	var report map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, map[string]any{"result": map[string]any{"isValid": true, "message": nil}}, report)
}

func TestCheck_InvalidExitsWithStatusOne(t *testing.T) {
	out, err := execute(t, &app{}, "check", "--email", "nope")

	var exit exitError
	require.True(t, errors.As(err, &exit))
	assert.Equal(t, 1, exit.code)

	var report checkReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.False(t, report.Result.Valid)
	assert.Equal(t, "Please enter your name.", report.Result.Message)
	assert.Equal(t, []string{"Please enter a valid email address."}, report.Errors["email"])
}

func TestCheck_RespectsConfiguredLengths(t *testing.T) {
	t.Setenv("CONTACTFORM_FORM_NAME_MIN_LENGTH", "4")
	_, err := execute(t, &app{}, "check", "--name", "Ada", "--email", "ada@x.io", "--message", "Hello, this works!")
	assert.Error(t, err)
}

func TestRoot_RejectsBadConfig(t *testing.T) {
	_, err := execute(t, &app{}, "--config", "does-not-exist.yaml", "check")
	assert.ErrorContains(t, err, "config: read")
}

type scriptedDriver struct {
	answers []string
}

func (d *scriptedDriver) next() string {
	answer := d.answers[0]
	d.answers = d.answers[1:]
	return answer
}

func (d *scriptedDriver) Input(context.Context, tui.InputConfig) (string, error) {
	return d.next(), nil
}

func (d *scriptedDriver) TextArea(context.Context, tui.TextAreaConfig) (string, error) {
	return d.next(), nil
}

func (d *scriptedDriver) Confirm(context.Context, tui.ConfirmConfig) (bool, error) {
	return true, nil
}

func (d *scriptedDriver) Info(context.Context, string) error { return nil }

func TestPrompt_PrettyOutcome(t *testing.T) {
	t.Setenv("CONTACTFORM_FORM_SUBMIT_DELAY", "1ms")
	a := &app{promptDriver: &scriptedDriver{answers: []string{"Al", "al@x.io", "Hello, this works!"}}}

	out, err := execute(t, a, "prompt", "--format", "pretty", "--no-color", "--quiet")
	require.NoError(t, err)
	assert.Contains(t, out, "Status:  sent")
	assert.Contains(t, out, "Notice:  Thank you for reaching out!")
}

func TestPrompt_RejectsUnknownFormat(t *testing.T) {
	_, err := execute(t, &app{promptDriver: &scriptedDriver{}}, "prompt", "--format", "xml")
	assert.ErrorContains(t, err, `unknown format "xml"`)
}

func TestServe_ServesUntilCancelled(t *testing.T) {
	a := &app{}
	require.NoError(t, a.setup())
	a.cfg.Form.SubmitDelay = 0

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.serve(ctx, ln) }()

	client := &http.Client{
		Timeout:       5 * time.Second,
		CheckRedirect: func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse },
	}
	base := "http://" + ln.Addr().String()

	res, err := client.Get(base + "/contact")
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)

	res, err = client.Get(base + "/")
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusFound, res.StatusCode)
	assert.Equal(t, "/contact", res.Header.Get("Location"))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not shut down")
	}
}
