package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-contactform/internal/config"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.LoadWithEnvFile("", "")
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
	assert.Equal(t, 2*time.Second, cfg.Form.SubmitDelay)
}

func TestLoad_YAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "contactform.yaml", `
server:
  addr: ":9090"
  base_path: /site
form:
  submit_delay: 500ms
  success_text: Thanks!
theme:
  variant: Dark
log:
  level: DEBUG
`)

	cfg, err := config.LoadWithEnvFile(path, "")
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "/site", cfg.Server.BasePath)
	assert.Equal(t, 500*time.Millisecond, cfg.Form.SubmitDelay)
	assert.Equal(t, "Thanks!", cfg.Form.SuccessText)
	assert.Equal(t, "dark", cfg.Theme.Variant)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 10, cfg.Form.MessageMinLength, "unset keys keep their defaults")
}

func TestLoad_EnvOverridesYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "contactform.yaml", "server:\n  addr: \":9090\"\nform:\n  submit_delay: 500ms\n")

	t.Setenv("CONTACTFORM_SERVER_ADDR", ":7070")
	t.Setenv("CONTACTFORM_FORM_SUBMIT_DELAY", "1s")

	cfg, err := config.LoadWithEnvFile(path, "")
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.Server.Addr)
	assert.Equal(t, time.Second, cfg.Form.SubmitDelay)
}

func TestLoad_DotEnvFile(t *testing.T) {
	dir := t.TempDir()
	envFile := writeFile(t, dir, ".env", "CONTACTFORM_FORM_HONEYPOT=homepage\nCONTACTFORM_LOG_LEVEL=warn\n")
	t.Setenv("CONTACTFORM_LOG_LEVEL", "error")
	t.Setenv("CONTACTFORM_FORM_HONEYPOT", "")
	require.NoError(t, os.Unsetenv("CONTACTFORM_FORM_HONEYPOT"))

	cfg, err := config.LoadWithEnvFile("", envFile)
	require.NoError(t, err)
	assert.Equal(t, "homepage", cfg.Form.Honeypot)
	assert.Equal(t, "error", cfg.Log.Level, "real environment wins over .env")
}

func TestLoad_MissingEnvFileIsIgnored(t *testing.T) {
	_, err := config.LoadWithEnvFile("", filepath.Join(t.TempDir(), ".env"))
	assert.NoError(t, err)
}

func TestLoad_Errors(t *testing.T) {
	_, err := config.LoadWithEnvFile(filepath.Join(t.TempDir(), "missing.yaml"), "")
	assert.ErrorContains(t, err, "config: read")

	path := writeFile(t, t.TempDir(), "bad.yaml", "server: [")
	_, err = config.LoadWithEnvFile(path, "")
	assert.ErrorContains(t, err, "config: parse")

	t.Setenv("CONTACTFORM_FORM_SUBMIT_DELAY", "soon")
	_, err = config.LoadWithEnvFile("", "")
	assert.ErrorContains(t, err, "config: parse env")
}

func TestValidate(t *testing.T) {
	cfg := config.Default()
	cfg.Theme.Variant = "sepia"
	cfg.Form.NameMinLength = 0

	err := config.Validate(cfg)
	require.Error(t, err)

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Namespace())
	}
	assert.ElementsMatch(t, []string{"Config.Form.NameMinLength", "Config.Theme.Variant"}, fields)
}

func TestValidate_RejectsZeroSubmitDelay(t *testing.T) {
	cfg := config.Default()
	cfg.Form.SubmitDelay = 0

	err := config.Validate(cfg)
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	require.Len(t, verrs, 1)
	assert.Equal(t, "Config.Form.SubmitDelay", verrs[0].Namespace())
	assert.Equal(t, "gt", verrs[0].Tag())

	t.Setenv("CONTACTFORM_FORM_SUBMIT_DELAY", "0s")
	_, err = config.LoadWithEnvFile("", "")
	assert.ErrorContains(t, err, "config: invalid")
}
