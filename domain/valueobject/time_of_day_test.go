package valueobject

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeOfDay(t *testing.T) {
	t.Run("valid times", func(t *testing.T) {
		tests := []struct {
			input  string
			hour   int
			minute int
		}{
			{"14:30", 14, 30},
			{"2:30", 2, 30},
			{"00:00", 0, 0},
			{"23:59", 23, 59},
			{"09:05", 9, 5},
		}

		for _, tt := range tests {
			t.Run(tt.input, func(t *testing.T) {
				tod, err := ParseTimeOfDay(tt.input)
				require.NoError(t, err)
				assert.Equal(t, tt.hour, tod.Hour())
				assert.Equal(t, tt.minute, tod.Minute())
			})
		}
	})

	t.Run("invalid times", func(t *testing.T) {
		tests := []string{
			"25:00",
			"24:00",
			"2:5",
			"14:60",
			"14:30:00",
			"2 PM",
			"2:30 PM",
			"",
			"14.30",
			" 14:30",
			"14:30 ",
			"-1:30",
			"abc",
		}

		for _, input := range tests {
			t.Run(input, func(t *testing.T) {
				_, err := ParseTimeOfDay(input)
				assert.Error(t, err)
			})
		}
	})
}

func TestIsValidTimeFormat(t *testing.T) {
	tests := []struct {
		input string
		valid bool
	}{
		{"14:30", true},
		{"25:00", false},
		{"2:5", false},
		{"00:00", true},
		{"23:59", true},
		{"2:30", true},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.valid, IsValidTimeFormat(tt.input))
		})
	}
}

func TestNewTimeOfDay(t *testing.T) {
	t.Run("valid components", func(t *testing.T) {
		tod, err := NewTimeOfDay(14, 30)
		require.NoError(t, err)
		assert.Equal(t, 14, tod.Hour())
		assert.Equal(t, 30, tod.Minute())
	})

	t.Run("hour out of range", func(t *testing.T) {
		_, err := NewTimeOfDay(24, 0)
		assert.Error(t, err)

		_, err = NewTimeOfDay(-1, 0)
		assert.Error(t, err)
	})

	t.Run("minute out of range", func(t *testing.T) {
		_, err := NewTimeOfDay(12, 60)
		assert.Error(t, err)

		_, err = NewTimeOfDay(12, -1)
		assert.Error(t, err)
	})
}

func TestTimeOfDayString(t *testing.T) {
	tests := []struct {
		hour     int
		minute   int
		expected string
	}{
		{14, 30, "14:30"},
		{2, 5, "02:05"},
		{0, 0, "00:00"},
		{23, 59, "23:59"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			tod, err := NewTimeOfDay(tt.hour, tt.minute)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, tod.String())
		})
	}
}

func TestTimeOfDayEquals(t *testing.T) {
	a, _ := NewTimeOfDay(14, 30)
	b, _ := NewTimeOfDay(14, 30)
	c, _ := NewTimeOfDay(14, 31)

	assert.True(t, a.Equals(b))
	assert.False(t, a.Equals(c))
}
