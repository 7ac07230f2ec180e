package xmlidx_test

import (
	"testing"

	"github.com/fwojciec/xmlidx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validIndex(name string) xmlidx.IndexConfig {
	return xmlidx.IndexConfig{
		Name:  name,
		Key:   "@id",
		Value: "/reflection/apis/api",
		Cache: 10,
		Data:  []xmlidx.DataConfig{{Base: "data", Files: "*.xml"}},
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	t.Run("accepts unique names", func(t *testing.T) {
		t.Parallel()

		c := xmlidx.Config{Indexes: []xmlidx.IndexConfig{validIndex("reflection"), validIndex("comments")}}
		assert.NoError(t, c.Validate())
	})

	t.Run("rejects duplicate names ignoring case", func(t *testing.T) {
		t.Parallel()

		c := xmlidx.Config{Indexes: []xmlidx.IndexConfig{validIndex("reflection"), validIndex("Reflection")}}
		err := c.Validate()
		require.Error(t, err)
		assert.Equal(t, xmlidx.EINVALID, xmlidx.ErrorCode(err))
		assert.Contains(t, xmlidx.ErrorMessage(err), "duplicate")
	})
}

func TestIndexConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		modify func(c *xmlidx.IndexConfig)
		msg    string
	}{
		{"missing name", func(c *xmlidx.IndexConfig) { c.Name = "" }, "unique name"},
		{"missing value rule", func(c *xmlidx.IndexConfig) { c.Value = "" }, "value rule"},
		{"missing key rule", func(c *xmlidx.IndexConfig) { c.Key = "" }, "key rule"},
		{"non-positive cache", func(c *xmlidx.IndexConfig) { c.Cache = -1 }, "cache size"},
		{"missing files pattern", func(c *xmlidx.IndexConfig) { c.Data[0].Files = "" }, "files pattern"},
		{"system and transient", func(c *xmlidx.IndexConfig) {
			c.Data[0].System = true
			c.Data[0].Transient = true
		}, "both system and transient"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := validIndex("idx")
			tt.modify(&c)

			err := c.Validate()
			require.Error(t, err)
			assert.Equal(t, xmlidx.EINVALID, xmlidx.ErrorCode(err))
			assert.Contains(t, xmlidx.ErrorMessage(err), tt.msg)
		})
	}
}

func TestConfig_SetDefaults(t *testing.T) {
	t.Parallel()

	c := xmlidx.Config{Indexes: []xmlidx.IndexConfig{{Name: "a"}}}
	c.SetDefaults()

	assert.Equal(t, xmlidx.DefaultJobs, c.Jobs)
	assert.Equal(t, xmlidx.DefaultCacheSize, c.Indexes[0].Cache)
	assert.Equal(t, xmlidx.DefaultEngine, c.Indexes[0].Engine)
}

func TestExpandEnv(t *testing.T) {
	t.Setenv("XMLIDX_TEST_ROOT", "/opt/data")

	assert.Equal(t, "/opt/data/Reflection", xmlidx.ExpandEnv("%XMLIDX_TEST_ROOT%/Reflection"))
	assert.Equal(t, "/opt/data/Reflection", xmlidx.ExpandEnv("$XMLIDX_TEST_ROOT/Reflection"))
	assert.Equal(t, "/opt/data/Reflection", xmlidx.ExpandEnv("${XMLIDX_TEST_ROOT}/Reflection"))
	assert.Equal(t, "%XMLIDX_TEST_UNSET%/x", xmlidx.ExpandEnv("%XMLIDX_TEST_UNSET%/x"))
}
