package gazetteer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	cases := []struct{ in, want string }{
		{"Boston", "boston"},
		{"  Boston  ", "boston"},
		{"NEW YORK", "new york"},
		{"", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Normalize(tc.in))
	}
}

func TestRead_BasicDataset(t *testing.T) {
	csv := strings.Join([]string{
		"name,latitude,longitude,country",
		"Boston,42.36,-71.06,US",
		"Nairobi,-1.29,36.82,KE",
		"Seoul,37.57,126.98,KR",
	}, "\n")

	ix, err := Read(strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, 3, ix.Len())

	rec, ok := ix.Lookup("boston")
	require.True(t, ok)
	assert.Equal(t, "Boston", rec.Name)
	assert.InDelta(t, 42.36, rec.Latitude, 1e-9)
	assert.InDelta(t, -71.06, rec.Longitude, 1e-9)

	rec, ok = ix.LookupCanonical("Nairobi")
	require.True(t, ok)
	assert.InDelta(t, 36.82, rec.Longitude, 1e-9)

	_, ok = ix.Lookup("Boston") // keys are normalized, raw form misses
	assert.False(t, ok)
}

func TestRead_HeaderColumnOrderIrrelevant(t *testing.T) {
	csv := "longitude,name,latitude\n-71.06,Boston,42.36\n"
	ix, err := Read(strings.NewReader(csv))
	require.NoError(t, err)

	rec, ok := ix.Lookup("boston")
	require.True(t, ok)
	assert.InDelta(t, 42.36, rec.Latitude, 1e-9)
}

func TestRead_MissingColumnsFails(t *testing.T) {
	_, err := Read(strings.NewReader("name,lat,lng\nBoston,1,2\n"))
	assert.Error(t, err)
}

func TestRead_SkipsUnparseableRows(t *testing.T) {
	csv := strings.Join([]string{
		"name,latitude,longitude",
		"Boston,42.36,-71.06",
		"Broken,not-a-number,0",
		"Seoul,37.57,126.98",
	}, "\n")

	ix, err := Read(strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, 2, ix.Len())
}

func TestNew_DuplicateKeysLastWinsKeepsPosition(t *testing.T) {
	ix := New([]Record{
		{Name: "Boston", Latitude: 1},
		{Name: "Seoul", Latitude: 2},
		{Name: " boston ", Latitude: 3}, // same key after normalization
	})

	assert.Equal(t, []string{"boston", "seoul"}, ix.Keys())
	rec, ok := ix.Lookup("boston")
	require.True(t, ok)
	assert.InDelta(t, 3.0, rec.Latitude, 1e-9, "last-loaded record wins")
}

func TestLoad_MissingFileIsError(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.csv"))
	assert.Error(t, err)
}

func TestLoad_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cities.csv")
	require.NoError(t, os.WriteFile(path, []byte("name,latitude,longitude\nBoston,42.36,-71.06\n"), 0o644))

	ix, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1, ix.Len())
}
