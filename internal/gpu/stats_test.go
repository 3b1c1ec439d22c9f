package gpu

import (
	"math"
	"testing"
)

func intp(v int) *int { return &v }

func floatp(v float64) *float64 { return &v }

func TestSummarize(t *testing.T) {
	recs := []Record{
		{Name: "GeForce RTX 4090", Brand: "NVIDIA", ReleaseYear: intp(2022), LaunchPrice: floatp(1599)},
		{Name: "GeForce RTX 3080", Brand: "NVIDIA", ReleaseYear: intp(2020), LaunchPrice: floatp(699)},
		{Name: "Radeon RX 7900 XTX", Brand: "AMD", ReleaseYear: intp(2022), LaunchPrice: floatp(999)},
		// pre-2001 year and missing price must not skew the aggregates
		{Name: "Radeon 7000", Brand: "AMD", ReleaseYear: intp(2000)},
	}

	o := Summarize(recs)
	if o.TotalGPUs != 4 {
		t.Fatalf("total: got %d", o.TotalGPUs)
	}
	if o.BrandCount != 2 {
		t.Fatalf("brand count: got %d", o.BrandCount)
	}
	if o.YearRange != "2020-2022" {
		t.Fatalf("year range: got %q", o.YearRange)
	}
	if want := 1099; o.AvgPrice != want {
		t.Fatalf("avg price: got %d want %d", o.AvgPrice, want)
	}
}

func TestSummarize_Empty(t *testing.T) {
	o := Summarize(nil)
	if o.TotalGPUs != 0 || o.BrandCount != 0 || o.AvgPrice != 0 {
		t.Fatalf("unexpected overview: %+v", o)
	}
	if o.YearRange != "-" {
		t.Fatalf("year range for no data: got %q", o.YearRange)
	}
}

func TestChartSeries_NormalizesUnits(t *testing.T) {
	recs := []Record{
		{
			Brand: "NVIDIA", Name: "GeForce RTX 4090",
			ReleaseYear: intp(2022), LaunchPrice: floatp(1000),
			FP32:       "82.58 TFLOPS",
			MemorySize: "24 GB",
			PixelRate:  "443.5 GPixel/s",
		},
		{
			Brand: "NVIDIA", Name: "GeForce GT 1030",
			ReleaseYear: intp(2022), LaunchPrice: floatp(1000),
			FP32:       "1127 GFLOPS",
			MemorySize: "2048 MB",
			PixelRate:  "N/A",
		},
	}

	points := ChartSeries(recs, "nvidia")
	if len(points) != 1 {
		t.Fatalf("expected one year bucket, got %d", len(points))
	}
	p := points[0]
	if p.Year != 2022 || p.GPUCount != 2 || p.AvgPrice != 1000 {
		t.Fatalf("unexpected bucket: %+v", p)
	}

	// TFLOPS scaled x1000 before averaging with GFLOPS
	wantFP32 := (82.58*1000 + 1127) / 2
	if math.Abs(p.AvgFP32-wantFP32) > 0.01 {
		t.Fatalf("fp32: got %f want %f", p.AvgFP32, wantFP32)
	}
	// GB scaled x1024 before averaging with MB
	wantMem := (24*1024 + 2048) / 2.0
	if math.Abs(p.AvgMemorySize-wantMem) > 0.01 {
		t.Fatalf("memory: got %f want %f", p.AvgMemorySize, wantMem)
	}
	// the N/A pixel rate must not count toward the average
	if math.Abs(p.AvgPixelRate-443.5) > 0.01 {
		t.Fatalf("pixel rate: got %f", p.AvgPixelRate)
	}
	if math.Abs(p.FP32PerDollar-wantFP32/1000) > 0.01 {
		t.Fatalf("fp32 per dollar: got %f", p.FP32PerDollar)
	}
}

func TestChartSeries_FiltersAndSorts(t *testing.T) {
	recs := []Record{
		{Brand: "NVIDIA", Name: "A", ReleaseYear: intp(2022), LaunchPrice: floatp(500)},
		{Brand: "NVIDIA", Name: "B", ReleaseYear: intp(2019), LaunchPrice: floatp(300)},
		{Brand: "AMD", Name: "C", ReleaseYear: intp(2022), LaunchPrice: floatp(400)},
		{Brand: "NVIDIA", Name: "D", ReleaseYear: intp(2021)},              // no price
		{Brand: "NVIDIA", Name: "E", LaunchPrice: floatp(100)},            // no year
		{Brand: "NVIDIA", Name: "F", ReleaseYear: intp(1999), LaunchPrice: floatp(100)},
	}

	points := ChartSeries(recs, "nvidia")
	if len(points) != 2 {
		t.Fatalf("expected 2 year buckets, got %d", len(points))
	}
	if points[0].Year != 2019 || points[1].Year != 2022 {
		t.Fatalf("expected ascending years, got %d then %d", points[0].Year, points[1].Year)
	}
	for _, p := range points {
		if p.GPUCount != 1 {
			t.Fatalf("year %d: expected only priced in-brand rows, got %d", p.Year, p.GPUCount)
		}
	}
}

func TestLeadingNumber(t *testing.T) {
	cases := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"118.7 GTexel/s", 118.7, true},
		{"24 GB", 24, true},
		// digit-bearing suffixes fold in; two dotted numbers reject
		{"24 GB GDDR6X", 246, true},
		{"1.5 GHz v2.1", 0, false},
		{"N/A", 0, false},
		{"", 0, false},
		{"unknown", 0, false},
	}
	for _, c := range cases {
		got, ok := leadingNumber(c.in)
		if ok != c.ok || got != c.want {
			t.Fatalf("leadingNumber(%q) = %f,%v want %f,%v", c.in, got, ok, c.want, c.ok)
		}
	}
}
