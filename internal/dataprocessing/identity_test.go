package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"attendcli/pkg/contracts/domain"
)

func TestResolveIdentity(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    domain.DriverKey
		wantErr bool
	}{
		{
			name: "parenthesized numeric suffix",
			raw:  "Shaylor, Matthew C (210013)",
			want: domain.DriverKey{EmployeeID: "210013", DisplayName: "Shaylor, Matthew C"},
		},
		{
			name: "leading numeric token",
			raw:  "210013 - Shaylor, Matthew C",
			want: domain.DriverKey{EmployeeID: "210013", DisplayName: "Shaylor, Matthew C"},
		},
		{
			name: "plain display name without id",
			raw:  "Matthew Shaylor",
			want: domain.DriverKey{DisplayName: "Matthew Shaylor"},
		},
		{
			name: "internal whitespace is collapsed",
			raw:  "  Ammar   Elhamad   (210003) ",
			want: domain.DriverKey{EmployeeID: "210003", DisplayName: "Ammar Elhamad"},
		},
		{
			name: "hyphenated name without spaced delimiter stays a display name",
			raw:  "Smith-Jones, Anna",
			want: domain.DriverKey{DisplayName: "Smith-Jones, Anna"},
		},
		{
			name:    "empty input",
			raw:     "",
			wantErr: true,
		},
		{
			name:    "whitespace only",
			raw:     "   ",
			wantErr: true,
		},
		{
			name:    "digits only carry no name",
			raw:     "210013",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveIdentity(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				var unresolvable *UnresolvableIdentityError
				assert.ErrorAs(t, err, &unresolvable)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveIdentityBothSpellingsAgree(t *testing.T) {
	suffix, err := ResolveIdentity("Ammar Elhamad (210003)")
	require.NoError(t, err)

	prefix, err := ResolveIdentity("210003 - Ammar Elhamad")
	require.NoError(t, err)

	assert.Equal(t, suffix, prefix)
	assert.True(t, suffix.Equal(prefix))
}

func TestResolveIdentityIdempotent(t *testing.T) {
	first, err := ResolveIdentity("Shaylor, Matthew C (210013)")
	require.NoError(t, err)

	second, err := ResolveIdentity(first.String())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
