package tlsutil

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"math/big"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateDevBundle(t *testing.T) {
	b, err := GenerateDevBundle(t.TempDir(), "localhost", "127.0.0.1")
	require.NoError(t, err)

	for _, path := range []string{b.CAFile, b.ServerCertFile, b.ServerKeyFile, b.ClientCertFile, b.ClientKeyFile} {
		info, err := os.Stat(path)
		require.NoError(t, err, "missing %s", path)
		assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	}

	pool, err := loadPool(b.CAFile)
	require.NoError(t, err)

	server, err := loadKeyPair(b.ServerCertFile, b.ServerKeyFile)
	require.NoError(t, err)
	require.NotNil(t, server.Leaf)
	assert.Equal(t, []string{"localhost"}, server.Leaf.DNSNames)
	require.Len(t, server.Leaf.IPAddresses, 1)
	assert.Equal(t, "127.0.0.1", server.Leaf.IPAddresses[0].String())

	_, err = server.Leaf.Verify(x509.VerifyOptions{
		Roots:     pool,
		DNSName:   "localhost",
		KeyUsages: []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
	})
	assert.NoError(t, err)

	client, err := loadKeyPair(b.ClientCertFile, b.ClientKeyFile)
	require.NoError(t, err)
	_, err = client.Leaf.Verify(x509.VerifyOptions{
		Roots:     pool,
		KeyUsages: []x509.ExtKeyUsage{x509.ExtKeyUsageClientAuth},
	})
	assert.NoError(t, err)
}

func TestCredentials(t *testing.T) {
	b, err := GenerateDevBundle(t.TempDir(), "127.0.0.1")
	require.NoError(t, err)

	serverCreds, err := ServerCredentials(b.ServerCertFile, b.ServerKeyFile, b.CAFile)
	require.NoError(t, err)
	assert.Equal(t, "tls", serverCreds.Info().SecurityProtocol)

	clientCreds, err := ClientCredentials(b.CAFile, b.ClientCertFile, b.ClientKeyFile)
	require.NoError(t, err)
	assert.Equal(t, "tls", clientCreds.Info().SecurityProtocol)

	_, err = ClientCredentials("", "", "")
	assert.NoError(t, err)
}

func TestServerCredentialsMissingFiles(t *testing.T) {
	_, err := ServerCredentials("/nonexistent/server.pem", "/nonexistent/server-key.pem", "")
	assert.ErrorContains(t, err, "tlsutil: load key pair")
}

func TestLoadPoolRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ca.pem")
	require.NoError(t, os.WriteFile(path, []byte("not a certificate"), 0o600))

	_, err := ClientCredentials(path, "", "")
	assert.ErrorContains(t, err, "no CA certificate found")
}

func TestLoadKeyPairRejectsExpired(t *testing.T) {
	dir := t.TempDir()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	tmpl := &x509.Certificate{
		SerialNumber: big.NewInt(7),
		Subject:      pkix.Name{CommonName: "expired"},
		NotBefore:    time.Now().AddDate(-2, 0, 0),
		NotAfter:     time.Now().AddDate(-1, 0, 0),
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	require.NoError(t, err)
	keyDER, err := x509.MarshalPKCS8PrivateKey(key)
	require.NoError(t, err)

	certFile, keyFile := filepath.Join(dir, "c.pem"), filepath.Join(dir, "k.pem")
	require.NoError(t, writePEM(certFile, "CERTIFICATE", der))
	require.NoError(t, writePEM(keyFile, "PRIVATE KEY", keyDER))

	_, err = loadKeyPair(certFile, keyFile)
	assert.ErrorContains(t, err, "is valid from")
}
