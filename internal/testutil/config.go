package testutil

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/limitedgamerz39-afk/friendflix/internal/server"
	platformconfig "github.com/limitedgamerz39-afk/friendflix/internal/platform/config"
)

// Auth bundles a generated key pair with a config that trusts it.
type Auth struct {
	Config     *platformconfig.Config
	PublicKey  string
	PrivateKey string
}

// NewAuth builds a test config around a fresh ECDSA key pair. Extra entries override
// the defaults passed to LoadFromMap.
func NewAuth(t *testing.T, extra map[string]string) Auth {
	t.Helper()
	pub, priv := GenerateECDSAKeyPairPEM(t)

	env := map[string]string{
		"JWT_PUBLIC_KEY": pub,
		"CACHE_ENABLED":  "false",
	}
	for k, v := range extra {
		env[k] = v
	}
	cfg, err := platformconfig.LoadFromMap(env)
	require.NoError(t, err)

	return Auth{Config: cfg, PublicKey: pub, PrivateKey: priv}
}

// Token signs a JWT for the given user with the pair's private key.
func (a Auth) Token(t *testing.T, userCtxUID string) string {
	t.Helper()
	token, err := GenerateTestJWT(a.PrivateKey, CreateTestUserContext(userCtxUID))
	require.NoError(t, err)
	return token
}

// NewApp returns a fiber app built the same way the server builds its own.
func NewApp(cfg *platformconfig.Config) *fiber.App {
	return server.New(cfg.Server)
}
