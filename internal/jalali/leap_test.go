package jalali

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

// leapYears1200to1500 is the reference table of Persian leap years the
// calendar must reproduce.
var leapYears1200to1500 = []int{
	1201, 1205, 1210, 1214, 1218, 1222, 1226, 1230, 1234, 1238,
	1243, 1247, 1251, 1255, 1259, 1263, 1267, 1271, 1276, 1280,
	1284, 1288, 1292, 1296, 1300, 1304, 1309, 1313, 1317, 1321,
	1325, 1329, 1333, 1337, 1342, 1346, 1350, 1354, 1358, 1362,
	1366, 1370, 1375, 1379, 1383, 1387, 1391, 1395, 1399, 1403,
	1408, 1412, 1416, 1420, 1424, 1428, 1432, 1436, 1441, 1445,
	1449, 1453, 1457, 1461, 1465, 1469, 1474, 1478, 1482, 1486,
	1490, 1494, 1498,
}

func TestIsLeapYearReferenceTable(t *testing.T) {
	var got []int
	for y := 1200; y <= 1500; y++ {
		if IsLeapYear(y) {
			got = append(got, y)
		}
	}
	if diff := cmp.Diff(leapYears1200to1500, got); diff != "" {
		t.Errorf("leap years 1200..1500 (-want +got):\n%s", diff)
	}
}

func TestIsLeapYearAcrossRange(t *testing.T) {
	tests := []struct {
		year int
		want bool
	}{
		{1, true},
		{2, false},
		{5, true},
		{33, false},
		{34, true},
		{1403, true},
		{1404, false},
		{1408, true},
		{9999, false},
		{9997, false},
		{9983, true},
	}
	for _, test := range tests {
		if got := IsLeapYear(test.year); got != test.want {
			t.Errorf("IsLeapYear(%d) = %t; want %t", test.year, got, test.want)
		}
	}
}

func TestLeapYearsPerCycle(t *testing.T) {
	for start := MinYear; start+cycleYears-1 <= MaxYear; start += cycleYears {
		n := 0
		for y := start; y < start+cycleYears; y++ {
			if IsLeapYear(y) {
				n++
			}
		}
		if n != 8 {
			t.Fatalf("cycle starting at %d has %d leap years; want 8", start, n)
		}
	}
}

func TestDaysInMonth(t *testing.T) {
	for _, year := range []int{1, 1402, 1403, 1404, 9999} {
		for month := 1; month <= 12; month++ {
			want := 30
			switch {
			case month <= 6:
				want = 31
			case month == 12 && !IsLeapYear(year):
				want = 29
			}
			if got := DaysInMonth(year, month); got != want {
				t.Errorf("DaysInMonth(%d, %d) = %d; want %d", year, month, got, want)
			}
		}
	}
	for _, month := range []int{-1, 0, 13} {
		if got := DaysInMonth(1403, month); got != 0 {
			t.Errorf("DaysInMonth(1403, %d) = %d; want 0", month, got)
		}
	}
	if got := DaysInMonth(1403, 12); got != 30 {
		t.Errorf("DaysInMonth(1403, 12) = %d; want 30", got)
	}
}

func TestDaysBeforeYearMatchesYearLengths(t *testing.T) {
	var total int64
	for y := MinYear; y <= MaxYear; y++ {
		if got := daysBeforeYear(y); got != total {
			t.Fatalf("daysBeforeYear(%d) = %d; want %d", y, got, total)
		}
		total += int64(DaysInYear(y))
	}
}
