package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"already clean", "Shaylor, Matthew C", "Shaylor, Matthew C"},
		{"surrounding whitespace", "  Ammar Elhamad  ", "Ammar Elhamad"},
		{"internal runs collapse", "Ammar   Elhamad", "Ammar Elhamad"},
		{"tabs and newlines", "Ammar\tElhamad\n", "Ammar Elhamad"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeName(tt.in))
		})
	}
}

func TestDriverKeyEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b DriverKey
		want bool
	}{
		{
			name: "same employee id different names",
			a:    DriverKey{EmployeeID: "210013", DisplayName: "Shaylor, Matthew C"},
			b:    DriverKey{EmployeeID: "210013", DisplayName: "Matthew Shaylor"},
			want: true,
		},
		{
			name: "different employee ids",
			a:    DriverKey{EmployeeID: "210013", DisplayName: "Shaylor, Matthew C"},
			b:    DriverKey{EmployeeID: "210003", DisplayName: "Shaylor, Matthew C"},
			want: false,
		},
		{
			name: "name only matches case insensitively",
			a:    DriverKey{DisplayName: "ammar elhamad"},
			b:    DriverKey{DisplayName: "Ammar Elhamad"},
			want: true,
		},
		{
			name: "name only with extra whitespace",
			a:    DriverKey{DisplayName: "Ammar  Elhamad"},
			b:    DriverKey{DisplayName: "Ammar Elhamad"},
			want: true,
		},
		{
			name: "one side missing id falls back to names",
			a:    DriverKey{EmployeeID: "210003", DisplayName: "Ammar Elhamad"},
			b:    DriverKey{DisplayName: "Ammar Elhamad"},
			want: true,
		},
		{
			name: "different names",
			a:    DriverKey{DisplayName: "Ammar Elhamad"},
			b:    DriverKey{DisplayName: "Matthew Shaylor"},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Equal(tt.b))
			assert.Equal(t, tt.want, tt.b.Equal(tt.a))
		})
	}
}

func TestDriverKeyString(t *testing.T) {
	withID := DriverKey{EmployeeID: "210013", DisplayName: "Shaylor, Matthew C"}
	assert.Equal(t, "210013 - Shaylor, Matthew C", withID.String())

	nameOnly := DriverKey{DisplayName: "Ammar Elhamad"}
	assert.Equal(t, "Ammar Elhamad", nameOnly.String())
}
