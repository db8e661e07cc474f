package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslations(t *testing.T) {
	t.Cleanup(func() { _ = Load(DefaultLocale) })

	assert.Equal(t, "You already liked that video, you can't like it twice.", T("already_liked"))
	assert.Equal(t, "no_such_code", T("no_such_code"))
	_, ok := Lookup("no_such_code")
	assert.False(t, ok)

	require.NoError(t, Load("tr"))
	assert.NotEqual(t, "already_liked", T("already_liked"))

	assert.Error(t, Load("xx"))
}
