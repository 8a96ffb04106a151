package main

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommonOptions_ApplyToContext(t *testing.T) {
	t.Parallel()

	t.Run("with timeout", func(t *testing.T) {
		t.Parallel()
		opts := CommonOptions{Timeout: 100 * time.Millisecond}
		ctx, cancel := opts.ApplyToContext(context.Background())
		defer cancel()

		deadline, ok := ctx.Deadline()
		assert.True(t, ok)
		assert.WithinDuration(t, time.Now().Add(100*time.Millisecond), deadline, 10*time.Millisecond)
	})

	t.Run("no timeout", func(t *testing.T) {
		t.Parallel()
		opts := CommonOptions{Timeout: 0}
		ctx, cancel := opts.ApplyToContext(context.Background())
		defer cancel()

		_, ok := ctx.Deadline()
		assert.False(t, ok)
	})
}

func TestCommonOptions_ValidateFlags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		opts    CommonOptions
		wantErr bool
		errMsg  string
	}{
		{
			name:    "table",
			opts:    CommonOptions{Format: "table"},
			wantErr: false,
		},
		{
			name:    "json",
			opts:    CommonOptions{Format: "json"},
			wantErr: false,
		},
		{
			name:    "invalid format",
			opts:    CommonOptions{Format: "junit"},
			wantErr: true,
			errMsg:  "invalid format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.opts.ValidateFlags()
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCommonOptions_FormatterOptions(t *testing.T) {
	t.Parallel()

	opts := CommonOptions{Explain: true, Compact: true}
	fo := opts.FormatterOptions("devices")

	assert.Equal(t, "devices", fo.View)
	assert.True(t, fo.Explain)
	assert.False(t, fo.Indent)
}

func TestDefaultCommonOptions(t *testing.T) {
	t.Parallel()

	opts := DefaultCommonOptions()
	assert.Equal(t, "table", opts.Format)
	assert.Equal(t, 2*time.Minute, opts.Timeout)
	assert.NoError(t, opts.ValidateFlags())
}
