package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToThaiDateCode(t *testing.T) {
	d := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "25670615", ToThaiDateCode(d))

	// single-digit month and day must be zero padded
	d = time.Date(2025, 1, 3, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "25680103", ToThaiDateCode(d))
}

func TestThaiDateCodeOrNil(t *testing.T) {
	assert.Nil(t, ThaiDateCodeOrNil(nil))

	d := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)
	code := ThaiDateCodeOrNil(&d)
	require.NotNil(t, code)
	assert.Equal(t, "25671231", *code)
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-06-15")
	require.NoError(t, err)
	assert.Equal(t, 2024, d.Year())
	assert.Equal(t, time.June, d.Month())
	assert.Equal(t, 15, d.Day())

	_, err = ParseDate("15/06/2024")
	assert.Error(t, err)

	_, err = ParseDate("")
	assert.Error(t, err)
}

func TestTodayStringIsBangkokDate(t *testing.T) {
	want := time.Now().In(bangkok).Format(DateLayout)
	assert.Equal(t, want, TodayString())
}
