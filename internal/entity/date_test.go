package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		in      string
		want    Date
		wantErr bool
	}{
		{in: "2023-08-21", want: Date{Day: 21, Month: 8, Year: 2023}},
		{in: " 2023-08-15 ", want: Date{Day: 15, Month: 8, Year: 2023}},
		{in: "2023-08-21T10:30:00Z", want: Date{Day: 21, Month: 8, Year: 2023}},
		{in: "2023-08-21T10:30:00+02:00", want: Date{Day: 21, Month: 8, Year: 2023}},
		{in: "2023-08-21T10:30:00", want: Date{Day: 21, Month: 8, Year: 2023}},
		{in: "21/08/2023", wantErr: true},
		{in: "2023-02-30", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDate(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDate_Compare(t *testing.T) {
	a := Date{Day: 21, Month: 8, Year: 2023}
	b := Date{Day: 15, Month: 8, Year: 2023}
	c := Date{Day: 1, Month: 1, Year: 2024}

	assert.Equal(t, 1, a.Compare(b))
	assert.Equal(t, -1, b.Compare(a))
	assert.Equal(t, 0, a.Compare(a))
	assert.True(t, a.Before(c))
	assert.True(t, Date{Day: 31, Month: 12, Year: 2023}.Before(c))
	assert.False(t, a.Before(a))
}

func TestDate_ListRoundTrip(t *testing.T) {
	d := Date{Day: 21, Month: 8, Year: 2023}
	assert.Equal(t, []uint16{21, 8, 2023}, d.List())

	got, err := FromList(d.List())
	require.NoError(t, err)
	assert.Equal(t, d, got)

	_, err = FromList([]uint16{1, 2})
	assert.Error(t, err)
}

func TestDate_String(t *testing.T) {
	assert.Equal(t, "2023-08-05", Date{Day: 5, Month: 8, Year: 2023}.String())
}

func TestDaysSince2020(t *testing.T) {
	tests := []struct {
		date    Date
		want    int
		wantErr bool
	}{
		{date: Date{Day: 1, Month: 1, Year: 2020}, want: 0},
		{date: Date{Day: 2, Month: 1, Year: 2020}, want: 1},
		{date: Date{Day: 1, Month: 1, Year: 2021}, want: 366},
		{date: Date{Day: 21, Month: 8, Year: 2023}, want: 1328},
		{date: Date{Day: 31, Month: 12, Year: 2019}, want: -1},
		{date: Date{Day: 30, Month: 2, Year: 2023}, wantErr: true},
		{date: Date{Day: 1, Month: 13, Year: 2023}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.date.String(), func(t *testing.T) {
			got, err := DaysSince2020(tt.date)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDateOf(t *testing.T) {
	ts := time.Date(2024, time.February, 29, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, Date{Day: 29, Month: 2, Year: 2024}, DateOf(ts))
}
