package reports

import (
	"fmt"
	"path/filepath"
	"strings"

	"beigebook/lib/fsutil"
	"beigebook/lib/textutil"
)

// Summary is the reserved region code of the whole-network summary report.
const Summary = "su"

type Region struct {
	Code string
	Name string
}

// Regions lists every reporting district followed by the national summary,
// in the order keys are enumerated.
var Regions = []Region{
	{Code: "at", Name: "Atlanta"},
	{Code: "bo", Name: "Boston"},
	{Code: "ch", Name: "Chicago"},
	{Code: "cl", Name: "Cleveland"},
	{Code: "da", Name: "Dallas"},
	{Code: "kc", Name: "Kansas City"},
	{Code: "mi", Name: "Minneapolis"},
	{Code: "ny", Name: "New York"},
	{Code: "ph", Name: "Philadelphia"},
	{Code: "ri", Name: "Richmond"},
	{Code: "sf", Name: "San Francisco"},
	{Code: "sl", Name: "St. Louis"},
	{Code: Summary, Name: "National Summary"},
}

func RegionCodes() []string {
	codes := make([]string, len(Regions))
	for i, r := range Regions {
		codes[i] = r.Code
	}
	return codes
}

// ParseRegion accepts a region code or district name.
func ParseRegion(s string) (Region, error) {
	normalized := textutil.NormalizeName(s)
	names := make([]string, 0, len(Regions))
	for _, r := range Regions {
		if normalized == r.Code || normalized == textutil.NormalizeName(r.Name) {
			return r, nil
		}
		names = append(names, r.Name)
	}

	suggestion := textutil.Suggest(s, names, 0.8)
	if suggestion != "" {
		return Region{}, fmt.Errorf("unknown region %q, did you mean %q?", s, suggestion)
	}
	return Region{}, fmt.Errorf("unknown region %q", s)
}

// Key identifies one report.
type Key struct {
	Year   int
	Month  int
	Region string
}

func (k Key) String() string {
	return fmt.Sprintf("%04d-%02d-%s", k.Year, k.Month, k.Region)
}

func (k Key) IsSummary() bool {
	return k.Region == Summary
}

// Source produces the keys to process and maps a key to the file its text
// is stored in.
type Source interface {
	Enumerate(skip bool) []Key
	PathFor(key Key) string
}

// Calendar enumerates every (year, month, region) combination in a year range.
type Calendar struct {
	Root      string
	StartYear int
	EndYear   int
	// Months defaults to every month of the year.
	Months []int
	// Regions defaults to every code in Regions.
	Regions []string
}

var allMonths = []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}

// Enumerate yields keys ordered by year, month, then region. When skip is
// true, keys whose file does not exist yet are left out.
func (c Calendar) Enumerate(skip bool) []Key {
	months := c.Months
	if len(months) == 0 {
		months = allMonths
	}
	regions := c.Regions
	if len(regions) == 0 {
		regions = RegionCodes()
	}

	var keys []Key
	for year := c.StartYear; year <= c.EndYear; year++ {
		for _, month := range months {
			for _, region := range regions {
				key := Key{Year: year, Month: month, Region: region}
				if skip && !fsutil.Exists(c.PathFor(key)) {
					continue
				}
				keys = append(keys, key)
			}
		}
	}
	return keys
}

// PathFor returns <root>/<yyyy>/<mm>/<yyyy>-<mm>-<region>.txt
func (c Calendar) PathFor(key Key) string {
	return filepath.Join(
		c.Root,
		fmt.Sprintf("%04d", key.Year),
		fmt.Sprintf("%02d", key.Month),
		key.String()+".txt",
	)
}

// ParseRegionList parses a comma separated list of regions into codes.
func ParseRegionList(list string) ([]string, error) {
	var codes []string
	for _, part := range strings.Split(list, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		region, err := ParseRegion(part)
		if err != nil {
			return nil, err
		}
		codes = append(codes, region.Code)
	}
	return codes, nil
}
