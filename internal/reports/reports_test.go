package reports

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestKeyString(t *testing.T) {
	require.Equal(t, "2018-06-ny", Key{Year: 2018, Month: 6, Region: "ny"}.String())
	require.True(t, Key{Year: 2018, Month: 6, Region: Summary}.IsSummary())
}

func TestCalendarPathFor(t *testing.T) {
	cal := Calendar{Root: "txt"}
	path := cal.PathFor(Key{Year: 2018, Month: 6, Region: "ny"})
	require.Equal(t, filepath.Join("txt", "2018", "06", "2018-06-ny.txt"), path)
}

func TestCalendarEnumerate(t *testing.T) {
	cal := Calendar{
		Root:      t.TempDir(),
		StartYear: 2000,
		EndYear:   2001,
		Months:    []int{1, 3},
		Regions:   []string{"ny", Summary},
	}

	expected := []Key{
		{Year: 2000, Month: 1, Region: "ny"},
		{Year: 2000, Month: 1, Region: Summary},
		{Year: 2000, Month: 3, Region: "ny"},
		{Year: 2000, Month: 3, Region: Summary},
		{Year: 2001, Month: 1, Region: "ny"},
		{Year: 2001, Month: 1, Region: Summary},
		{Year: 2001, Month: 3, Region: "ny"},
		{Year: 2001, Month: 3, Region: Summary},
	}
	diff := cmp.Diff(expected, cal.Enumerate(false))
	if diff != "" {
		t.Fatalf("unexpected keys (-want +got):\n%s", diff)
	}

	require.Len(t, cal.Enumerate(true), 0)

	existing := Key{Year: 2001, Month: 3, Region: "ny"}
	path := cal.PathFor(existing)
	err := os.MkdirAll(filepath.Dir(path), 0755)
	if err != nil {
		t.Fatal(err)
	}
	err = os.WriteFile(path, []byte("text"), 0644)
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, []Key{existing}, cal.Enumerate(true))
}

func TestCalendarDefaults(t *testing.T) {
	cal := Calendar{Root: t.TempDir(), StartYear: 1999, EndYear: 1999}
	keys := cal.Enumerate(false)
	require.Len(t, keys, 12*len(Regions))
	require.Equal(t, Key{Year: 1999, Month: 1, Region: "at"}, keys[0])
	require.Equal(t, Key{Year: 1999, Month: 12, Region: Summary}, keys[len(keys)-1])
}

func TestParseRegion(t *testing.T) {
	region, err := ParseRegion("NY")
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, "ny", region.Code)

	region, err = ParseRegion("Kansas City")
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, "kc", region.Code)

	_, err = ParseRegion("Bostn")
	require.ErrorContains(t, err, `did you mean "Boston"`)

	_, err = ParseRegion("qq")
	require.Error(t, err)
}

func TestParseRegionList(t *testing.T) {
	codes, err := ParseRegionList("ny, su,,Chicago")
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, []string{"ny", "su", "ch"}, codes)
}
