package redis

import (
	"bytes"
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/pkg/config"

	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func selfSignedPEM(t *testing.T) (certPEM, keyPEM []byte) {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	template := x509.Certificate{
		SerialNumber:          big.NewInt(7),
		Subject:               pkix.Name{Organization: []string{"School Portal"}},
		NotBefore:             time.Now(),
		NotAfter:              time.Now().Add(time.Hour),
		KeyUsage:              x509.KeyUsageDigitalSignature | x509.KeyUsageCertSign,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageClientAuth},
		BasicConstraintsValid: true,
		IsCA:                  true,
	}
	der, err := x509.CreateCertificate(rand.Reader, &template, &template, &key.PublicKey, key)
	require.NoError(t, err)
	keyDER, err := x509.MarshalECPrivateKey(key)
	require.NoError(t, err)

	var certBuf, keyBuf bytes.Buffer
	require.NoError(t, pem.Encode(&certBuf, &pem.Block{Type: "CERTIFICATE", Bytes: der}))
	require.NoError(t, pem.Encode(&keyBuf, &pem.Block{Type: "EC PRIVATE KEY", Bytes: keyDER}))
	return certBuf.Bytes(), keyBuf.Bytes()
}

func TestBuildTLSConfig(t *testing.T) {
	ctx := context.Background()

	t.Run("empty content gives a bare TLS config", func(t *testing.T) {
		tlsConfig, err := buildTLSConfig(ctx, "")
		require.NoError(t, err)
		assert.Nil(t, tlsConfig.RootCAs)
		assert.Empty(t, tlsConfig.Certificates)
	})

	t.Run("CA certificate only", func(t *testing.T) {
		cert, _ := selfSignedPEM(t)
		tlsConfig, err := buildTLSConfig(ctx, string(cert))
		require.NoError(t, err)
		assert.NotNil(t, tlsConfig.RootCAs)
		assert.Empty(t, tlsConfig.Certificates)
	})

	t.Run("client key pair", func(t *testing.T) {
		cert, key := selfSignedPEM(t)
		tlsConfig, err := buildTLSConfig(ctx, string(cert)+"\n"+string(key))
		require.NoError(t, err)
		assert.Len(t, tlsConfig.Certificates, 1)
	})

	t.Run("garbage content", func(t *testing.T) {
		_, err := buildTLSConfig(ctx, "not a pem")
		assert.ErrorIs(t, err, errInvalidPEM)
	})
}

func TestConnectToRedis(t *testing.T) {
	ctx := context.Background()

	t.Run("connects without TLS", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		mock.ExpectPing().SetVal("PONG")

		client, err := ConnectToRedis(ctx, config.RedisConfig{Addr: "localhost:6379", ConnectTimeout: time.Second},
			func(opt *redis.Options) *redis.Client {
				assert.Nil(t, opt.TLSConfig)
				assert.Equal(t, time.Second, opt.DialTimeout)
				return db
			})
		require.NoError(t, err)
		assert.Same(t, db, client.Client)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ping failure is returned", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		pingErr := errors.New("redis is down")
		mock.ExpectPing().SetErr(pingErr)

		_, err := ConnectToRedis(ctx, config.RedisConfig{Addr: "localhost:6379"},
			func(*redis.Options) *redis.Client { return db })
		assert.Equal(t, pingErr, err)
	})

	t.Run("connects with TLS", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		mock.ExpectPing().SetVal("PONG")
		cert, _ := selfSignedPEM(t)

		_, err := ConnectToRedis(ctx, config.RedisConfig{EnableTLS: true, CertContent: string(cert)},
			func(opt *redis.Options) *redis.Client {
				require.NotNil(t, opt.TLSConfig)
				assert.NotNil(t, opt.TLSConfig.RootCAs)
				return db
			})
		require.NoError(t, err)
	})

	t.Run("bad TLS content fails before dialing", func(t *testing.T) {
		_, err := ConnectToRedis(ctx, config.RedisConfig{EnableTLS: true, CertContent: "invalid"}, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to build TLS config")
	})
}

func TestDisconnect(t *testing.T) {
	db, _ := redismock.NewClientMock()
	assert.NoError(t, Disconnect(db))
}
