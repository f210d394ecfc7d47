package mcp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServer(t *testing.T) {
	t.Run("nil validator returns error", func(t *testing.T) {
		ports := &Ports{}
		server, err := NewServer(ports)
		require.Error(t, err)
		assert.Nil(t, server)
		assert.ErrorIs(t, err, ErrMissingValidator)
	})

	t.Run("validator only creates server", func(t *testing.T) {
		ports := &Ports{
			Validator: &mockValidator{},
		}
		server, err := NewServer(ports)
		require.NoError(t, err)
		assert.NotNil(t, server)
	})

	t.Run("all ports creates server", func(t *testing.T) {
		ports := &Ports{
			Validator: &mockValidator{},
			Compiler:  &mockCompiler{},
			Repair:    &mockRepair{},
			History:   &mockHistory{},
		}
		server, err := NewServer(ports)
		require.NoError(t, err)
		assert.NotNil(t, server)
	})
}

func TestPorts_Validate(t *testing.T) {
	t.Run("nil validator returns error", func(t *testing.T) {
		ports := &Ports{Compiler: &mockCompiler{}}
		err := ports.Validate()
		assert.ErrorIs(t, err, ErrMissingValidator)
	})

	t.Run("validator only is valid", func(t *testing.T) {
		ports := &Ports{Validator: &mockValidator{}}
		assert.NoError(t, ports.Validate())
	})
}

func TestServer_Serve_StopsWithContext(t *testing.T) {
	server, err := NewServer(&Ports{Validator: &mockValidator{}})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.NoError(t, server.Serve(ctx, "127.0.0.1:0"))
}

func TestServer_Handler(t *testing.T) {
	server, err := NewServer(&Ports{Validator: &mockValidator{}})
	require.NoError(t, err)

	assert.NotNil(t, server.Handler())
}
