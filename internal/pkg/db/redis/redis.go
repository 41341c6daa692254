package redis

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"log/slog"

	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/pkg/config"
	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/pkg/logger"

	"github.com/redis/go-redis/v9"
)

// RedisClientConstructor lets tests hand in a redismock client.
type RedisClientConstructor func(opt *redis.Options) *redis.Client

type RedisClient struct {
	Client *redis.Client
}

var errInvalidPEM = errors.New("cert_content holds neither a CA certificate nor a client key pair")

func ConnectToRedis(
	ctx context.Context,
	cfg config.RedisConfig,
	newClientFunc RedisClientConstructor,
) (*RedisClient, error) {

	logger.CtxInfo(ctx, "Connecting to Redis",
		slog.String("addr", cfg.Addr),
		slog.Int("db", cfg.DB),
		slog.Bool("enable_tls", cfg.EnableTLS),
	)

	opts, err := newOptions(ctx, cfg)
	if err != nil {
		logger.CtxError(ctx, "Failed to build Redis options", err)
		return nil, err
	}

	if newClientFunc == nil {
		newClientFunc = redis.NewClient
	}
	client := newClientFunc(opts)

	pingCtx := ctx
	if cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		pingCtx, cancel = context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()
	}
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.CtxError(ctx, "Redis ping failed", err)
		return nil, err
	}

	logger.CtxInfo(ctx, "Successfully connected to Redis", slog.String("addr", cfg.Addr))
	return &RedisClient{Client: client}, nil
}

func newOptions(ctx context.Context, cfg config.RedisConfig) (*redis.Options, error) {
	opts := &redis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: cfg.ConnectTimeout,
	}
	if !cfg.EnableTLS {
		return opts, nil
	}
	tlsConfig, err := buildTLSConfig(ctx, cfg.CertContent)
	if err != nil {
		return nil, fmt.Errorf("failed to build TLS config: %w", err)
	}
	opts.TLSConfig = tlsConfig
	return opts, nil
}

// buildTLSConfig accepts PEM content carrying a CA bundle, a client cert+key pair, or both.
func buildTLSConfig(ctx context.Context, pemContent string) (*tls.Config, error) {
	tlsConfig := &tls.Config{MinVersion: tls.VersionTLS12}
	if pemContent == "" {
		return tlsConfig, nil
	}

	raw := []byte(pemContent)
	loaded := false

	if pair, err := tls.X509KeyPair(raw, raw); err == nil {
		tlsConfig.Certificates = []tls.Certificate{pair}
		logger.CtxDebug(ctx, "Loaded Redis client certificate")
		loaded = true
	}

	pool := x509.NewCertPool()
	if pool.AppendCertsFromPEM(raw) {
		tlsConfig.RootCAs = pool
		logger.CtxDebug(ctx, "Loaded Redis CA certificates")
		loaded = true
	}

	if !loaded {
		return nil, errInvalidPEM
	}
	return tlsConfig, nil
}

func Disconnect(client *redis.Client) error {
	return client.Close()
}
