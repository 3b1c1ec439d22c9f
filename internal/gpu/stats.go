package gpu

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Overview is the aggregate summary served by /api/stats.
type Overview struct {
	TotalGPUs  int    `json:"totalGPUs"`
	BrandCount int    `json:"brandCount"`
	YearRange  string `json:"yearRange"`
	AvgPrice   int    `json:"avgPrice"`
}

// YearPoint is one chart sample: per-year averages plus performance-per-dollar
// ratios for a single brand.
type YearPoint struct {
	Year             int     `json:"year"`
	AvgPrice         int     `json:"avgPrice"`
	GPUCount         int     `json:"gpuCount"`
	PixelPerDollar   float64 `json:"pixelPerDollar"`
	TexturePerDollar float64 `json:"texturePerDollar"`
	FP32PerDollar    float64 `json:"fp32PerDollar"`
	MemoryPerDollar  float64 `json:"memoryPerDollar"`
	AvgPixelRate     float64 `json:"avgPixelRate"`
	AvgTextureRate   float64 `json:"avgTextureRate"`
	AvgFP32          float64 `json:"avgFP32"`
	AvgMemorySize    float64 `json:"avgMemorySize"`
}

// Summarize computes the overview stats. Brand count uses the first word of
// the model name; years before 2001 and non-positive prices are ignored.
func Summarize(recs []Record) Overview {
	brands := make(map[string]struct{})
	for _, r := range recs {
		if r.Name != "" {
			brands[strings.Fields(r.Name)[0]] = struct{}{}
		}
	}

	minYear, maxYear := 0, 0
	for _, r := range recs {
		if r.ReleaseYear == nil || *r.ReleaseYear <= 2000 {
			continue
		}
		y := *r.ReleaseYear
		if minYear == 0 || y < minYear {
			minYear = y
		}
		if y > maxYear {
			maxYear = y
		}
	}
	yearRange := "-"
	if minYear > 0 {
		yearRange = fmt.Sprintf("%d-%d", minYear, maxYear)
	}

	var priceSum float64
	priceCount := 0
	for _, r := range recs {
		if r.LaunchPrice != nil && *r.LaunchPrice > 0 {
			priceSum += *r.LaunchPrice
			priceCount++
		}
	}
	avgPrice := 0
	if priceCount > 0 {
		avgPrice = int(math.Round(priceSum / float64(priceCount)))
	}

	return Overview{
		TotalGPUs:  len(recs),
		BrandCount: len(brands),
		YearRange:  yearRange,
		AvgPrice:   avgPrice,
	}
}

// ChartSeries buckets one brand's records by release year and averages price
// and performance. FP32 is normalized to GFLOPS (TFLOPS x1000) and memory to
// MB (GB x1024) so mixed-unit rows average correctly.
func ChartSeries(recs []Record, brand string) []YearPoint {
	brand = strings.ToLower(brand)

	type bucket struct {
		gpus     []Record
		priceSum float64
	}
	years := make(map[int]*bucket)

	for _, r := range recs {
		if r.LaunchPrice == nil || *r.LaunchPrice <= 0 {
			continue
		}
		if r.ReleaseYear == nil || *r.ReleaseYear <= 2000 {
			continue
		}
		if !strings.Contains(strings.ToLower(r.Brand), brand) {
			continue
		}
		b := years[*r.ReleaseYear]
		if b == nil {
			b = &bucket{}
			years[*r.ReleaseYear] = b
		}
		b.gpus = append(b.gpus, r)
		b.priceSum += *r.LaunchPrice
	}

	points := make([]YearPoint, 0, len(years))
	for year, b := range years {
		avgPrice := b.priceSum / float64(len(b.gpus))

		var pixelSum, textureSum, fp32Sum, memSum float64
		var pixelN, textureN, fp32N, memN int
		for _, g := range b.gpus {
			if v, ok := leadingNumber(g.PixelRate); ok {
				pixelSum += v
				pixelN++
			}
			if v, ok := leadingNumber(g.TextureRate); ok {
				textureSum += v
				textureN++
			}
			if v, ok := leadingNumber(g.FP32); ok {
				if strings.Contains(strings.ToLower(g.FP32), "tflops") {
					v *= 1000
				}
				fp32Sum += v
				fp32N++
			}
			if v, ok := leadingNumber(g.MemorySize); ok {
				if strings.Contains(strings.ToLower(g.MemorySize), "gb") {
					v *= 1024
				}
				memSum += v
				memN++
			}
		}

		p := YearPoint{
			Year:     year,
			AvgPrice: int(math.Round(avgPrice)),
			GPUCount: len(b.gpus),
		}
		if pixelN > 0 {
			p.AvgPixelRate = pixelSum / float64(pixelN)
			p.PixelPerDollar = p.AvgPixelRate / avgPrice
		}
		if textureN > 0 {
			p.AvgTextureRate = textureSum / float64(textureN)
			p.TexturePerDollar = p.AvgTextureRate / avgPrice
		}
		if fp32N > 0 {
			p.AvgFP32 = fp32Sum / float64(fp32N)
			p.FP32PerDollar = p.AvgFP32 / avgPrice
		}
		if memN > 0 {
			p.AvgMemorySize = memSum / float64(memN)
			p.MemoryPerDollar = p.AvgMemorySize / avgPrice
		}
		points = append(points, p)
	}

	sort.Slice(points, func(i, j int) bool { return points[i].Year < points[j].Year })
	return points
}

// leadingNumber extracts the numeric part of a unit-carrying value such as
// "118.7 GTexel/s". Digits are collected from the whole string, so a unit
// suffix with digits of its own ("24 GB GDDR6X" -> 246) folds in, and a value
// holding two dotted numbers fails to parse. The source columns each carry a
// single value, so both cases stay theoretical; keep the behavior as is.
// "N/A" and empty values report false.
func leadingNumber(s string) (float64, bool) {
	if s == "" || s == "N/A" {
		return 0, false
	}
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	v, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
