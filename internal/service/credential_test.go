package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/siliconvoice/voice-upload/internal/service"
)

func TestCheckCredential(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"", service.HintMissingCredential},
		{"short", service.HintShortCredential},
		{"   sk-1234   ", service.HintShortCredential},
		{"0123456789", ""},
		{"sk-abcdefghijklmnopqrstuvwxyz", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, service.CheckCredential(tt.key), "key %q", tt.key)
	}
}
