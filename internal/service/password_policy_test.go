package service

import (
	"errors"
	"strings"
	"testing"

	"github.com/mercado-next/internal/config"
)

func TestValidatePassword(t *testing.T) {
	policy := config.PasswordPolicyConfig{
		MinLength:      8,
		RequireUpper:   true,
		RequireLower:   true,
		RequireNumber:  true,
		RequireSpecial: true,
	}
	cases := []struct {
		password string
		key      string
	}{
		{password: "Ab1!", key: "error.password_min_length"},
		{password: "abcdef1!", key: "error.password_require_upper"},
		{password: "ABCDEF1!", key: "error.password_require_lower"},
		{password: "Abcdefg!", key: "error.password_require_number"},
		{password: "Abcdefg1", key: "error.password_require_special"},
		{password: strings.Repeat("Aa1!", 19), key: "error.password_max_length"},
		{password: "Abcdef1!", key: ""},
	}
	for _, tc := range cases {
		err := validatePassword(policy, tc.password)
		if tc.key == "" {
			if err != nil {
				t.Fatalf("password %q should pass, got %v", tc.password, err)
			}
			continue
		}
		if !errors.Is(err, ErrWeakPassword) {
			t.Fatalf("password %q want ErrWeakPassword got %v", tc.password, err)
		}
		var policyErr passwordPolicyError
		if !errors.As(err, &policyErr) || policyErr.Key() != tc.key {
			t.Fatalf("password %q want key %s got %v", tc.password, tc.key, err)
		}
	}
}
