package env

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Host    string        `env:"ENVTEST_HOST" default:"localhost"`
	Port    int           `env:"ENVTEST_PORT" default:"8080"`
	Enabled bool          `env:"ENVTEST_ENABLED" default:"true"`
	Timeout time.Duration `env:"ENVTEST_TIMEOUT" default:"5s"`
	Kinds   []string      `env:"ENVTEST_KINDS"`
	NoDef   string        `env:"ENVTEST_NO_DEF"`
}

func TestLoad(t *testing.T) {
	t.Setenv("ENVTEST_HOST", "example.com")
	t.Setenv("ENVTEST_PORT", "9090")
	t.Setenv("ENVTEST_ENABLED", "false")
	t.Setenv("ENVTEST_TIMEOUT", "1m30s")
	t.Setenv("ENVTEST_KINDS", "articles, features,,")
	t.Setenv("ENVTEST_NO_DEF", "foo")

	var cfg testConfig
	require.NoError(t, Load(&cfg))

	assert.Equal(t, "example.com", cfg.Host)
	assert.Equal(t, 9090, cfg.Port)
	assert.False(t, cfg.Enabled)
	assert.Equal(t, 90*time.Second, cfg.Timeout)
	assert.Equal(t, []string{"articles", "features"}, cfg.Kinds)
	assert.Equal(t, "foo", cfg.NoDef)
}

func TestLoad_Defaults(t *testing.T) {
	var cfg testConfig
	require.NoError(t, Load(&cfg))

	assert.Equal(t, "localhost", cfg.Host)
	assert.Equal(t, 8080, cfg.Port)
	assert.True(t, cfg.Enabled)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Nil(t, cfg.Kinds)
	assert.Empty(t, cfg.NoDef)
}

func TestLoad_PrepopulatedFieldsKept(t *testing.T) {
	cfg := testConfig{NoDef: "from-flag"}
	require.NoError(t, Load(&cfg))
	assert.Equal(t, "from-flag", cfg.NoDef)
}

func TestLoad_EmptyStringRespected(t *testing.T) {
	t.Setenv("ENVTEST_HOST", "")

	var cfg testConfig
	require.NoError(t, Load(&cfg))

	assert.Equal(t, "", cfg.Host)
	assert.Equal(t, 8080, cfg.Port)
}

func TestLoad_InvalidValue(t *testing.T) {
	t.Setenv("ENVTEST_PORT", "eighty")

	var cfg testConfig
	err := Load(&cfg)

	var invalid ErrInvalidValue
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "ENVTEST_PORT", invalid.EnvVar)
	assert.Equal(t, "Port", invalid.Field)
}

func TestLoad_NotStructPointer(t *testing.T) {
	var cfg testConfig
	err := Load(cfg)
	var notPtr ErrNotStructPointer
	assert.ErrorAs(t, err, &notPtr)
}

type validatedInner struct {
	Name string `env:"ENVTEST_INNER_NAME"`
}

var errNameRequired = errors.New("name required")

func (v *validatedInner) Validate() error {
	if v.Name == "" {
		return errNameRequired
	}
	return nil
}

func TestLoad_NestedValidator(t *testing.T) {
	type outer struct {
		Inner validatedInner
	}

	var cfg outer
	assert.ErrorIs(t, Load(&cfg), errNameRequired)

	t.Setenv("ENVTEST_INNER_NAME", "ok")
	require.NoError(t, Load(&cfg))
	assert.Equal(t, "ok", cfg.Inner.Name)
}

func TestLoad_UnsupportedSlice(t *testing.T) {
	type bad struct {
		Ports []int `env:"ENVTEST_PORTS" default:"1,2"`
	}
	var cfg bad
	var unsupported ErrUnsupportedType
	assert.ErrorAs(t, Load(&cfg), &unsupported)
}

type rootValidated struct {
	Name string `env:"ENVTEST_ROOT_NAME"`
}

func (r *rootValidated) Validate() error {
	if r.Name == "" {
		return errNameRequired
	}
	return nil
}

func TestParse_SkipsRootValidation(t *testing.T) {
	var cfg rootValidated
	require.NoError(t, Parse(&cfg))
	assert.ErrorIs(t, Load(&cfg), errNameRequired)
}
