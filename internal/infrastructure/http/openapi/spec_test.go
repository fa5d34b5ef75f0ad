package openapi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSwagger(t *testing.T) {
	spec, err := GetSwagger()
	require.NoError(t, err)

	list := spec.Paths.Find("/v1/{kind}")
	require.NotNil(t, list)
	require.NotNil(t, list.Get)
	require.NotNil(t, list.Post)

	for _, name := range []string{ParamPage, ParamLimit, ParamQuery, ParamCategory, ParamStatus} {
		assert.NotNil(t, list.Get.Parameters.GetByInAndName("query", name), name)
	}

	item := spec.Paths.Find("/v1/{kind}/{id}")
	require.NotNil(t, item)
	assert.NotNil(t, item.Get)
	assert.NotNil(t, item.Patch)
	assert.NotNil(t, item.Delete)
}

func TestGetSwagger_ReturnsIndependentCopies(t *testing.T) {
	a, err := GetSwagger()
	require.NoError(t, err)
	b, err := GetSwagger()
	require.NoError(t, err)

	a.Servers = nil
	assert.NotEmpty(t, b.Servers)
}
