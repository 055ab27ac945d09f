package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePassword(t *testing.T) {
	service := &AuthService{BlackList: map[string]bool{"Password1!": true}}

	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"valid password", "Sigurna1!", false},
		{"too short", "Ab1!", true},
		{"no uppercase", "sigurna1!", true},
		{"no digit", "Sigurnaa!", true},
		{"no special character", "Sigurna12", true},
		{"blacklisted", "Password1!", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := service.ValidatePassword(tt.password)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
