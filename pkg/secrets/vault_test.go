package secrets

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyVaultSecrets_KV2(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/secret/data/carelink", r.URL.Path)
		assert.Equal(t, "tok", r.Header.Get("X-Vault-Token"))
		_, _ = w.Write([]byte(`{"data":{"data":{"CARELINK_TEST_DB_PASSWORD":"s3cret","CARELINK_TEST_SMTP_PORT":587,"CARELINK_TEST_KEEP":"vault"}}}`))
	}))
	defer srv.Close()

	t.Setenv("CARELINK_TEST_DB_PASSWORD", "")
	t.Setenv("CARELINK_TEST_SMTP_PORT", "")
	t.Setenv("CARELINK_TEST_KEEP", "local")

	result, err := ApplyVaultSecrets(context.Background(), VaultConfig{
		Addr:      srv.URL,
		Token:     "tok",
		Mount:     "secret",
		Path:      "carelink",
		KVVersion: 2,
	})
	require.NoError(t, err)

	assert.Equal(t, 2, result.Loaded)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, "s3cret", os.Getenv("CARELINK_TEST_DB_PASSWORD"))
	assert.Equal(t, "587", os.Getenv("CARELINK_TEST_SMTP_PORT"))
	assert.Equal(t, "local", os.Getenv("CARELINK_TEST_KEEP"))
}

func TestApplyVaultSecrets_Errors(t *testing.T) {
	_, err := ApplyVaultSecrets(context.Background(), VaultConfig{Addr: "http://vault"})
	assert.ErrorContains(t, err, "incomplete")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "permission denied", http.StatusForbidden)
	}))
	defer srv.Close()

	_, err = ApplyVaultSecrets(context.Background(), VaultConfig{Addr: srv.URL, Token: "t", Mount: "secret", Path: "p", KVVersion: 1})
	assert.ErrorContains(t, err, "403")
}

func TestSecretURL(t *testing.T) {
	url, err := secretURL("http://vault:8200/", "/secret/", "/app", 1)
	require.NoError(t, err)
	assert.Equal(t, "http://vault:8200/v1/secret/app", url)

	url, err = secretURL("http://vault:8200", "kv", "app", 2)
	require.NoError(t, err)
	assert.Equal(t, "http://vault:8200/v1/kv/data/app", url)
}
