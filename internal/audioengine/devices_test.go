package audioengine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wboxxx/magicstomp-autotune/internal/apperr"
)

func TestListDevices_RejectsUnknownBackend(t *testing.T) {
	_, err := ListDevices("carrier-pigeon")
	require.Error(t, err)
	kind, ok := apperr.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, apperr.KindConfigureFailed, kind)
}

func TestSelectDeviceByName_PropagatesBackendError(t *testing.T) {
	_, err := SelectDeviceByName("carrier-pigeon", "scarlett")
	require.Error(t, err)
	kind, ok := apperr.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, apperr.KindConfigureFailed, kind)
}
