package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/limitedgamerz39-afk/friendflix/profile/models"
)

func str(s string) *string { return &s }

func TestValidateSocialName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "alice", false},
		{"with separators", "alice.b_c-d", false},
		{"too short", "ab", true},
		{"too long", strings.Repeat("a", 51), true},
		{"space", "ali ce", true},
		{"leading special", "_alice", true},
		{"trailing special", "alice.", true},
		{"consecutive special", "al..ice", true},
		{"empty", "   ", true},
		{"illegal char", "al!ce", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSocialName(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateUpdateProfileRequest(t *testing.T) {
	assert.Error(t, ValidateUpdateProfileRequest(nil))
	assert.Error(t, ValidateUpdateProfileRequest(&models.UpdateProfileRequest{}))

	assert.NoError(t, ValidateUpdateProfileRequest(&models.UpdateProfileRequest{
		FullName:   str("Alice Doe"),
		SocialName: str("alice"),
		Avatar:     str("https://cdn.example.com/a.jpg"),
		Banner:     str(""),
		TagLine:    str("hello"),
	}))

	assert.Error(t, ValidateUpdateProfileRequest(&models.UpdateProfileRequest{FullName: str("  ")}))
	assert.Error(t, ValidateUpdateProfileRequest(&models.UpdateProfileRequest{Avatar: str("not a url")}))
	assert.Error(t, ValidateUpdateProfileRequest(&models.UpdateProfileRequest{TagLine: str(strings.Repeat("x", 501))}))
	assert.NoError(t, ValidateUpdateProfileRequest(&models.UpdateProfileRequest{TagLine: str(strings.Repeat("x", 500))}))
}
