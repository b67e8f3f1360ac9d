package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"pixel-retouch/pkg/geometry"
)

var nowFunc = time.Now

// parseStrokes parses "x,y x,y;x,y ..." into strokes of points.
func parseStrokes(s string) ([][]geometry.PointInt, error) {
	var strokes [][]geometry.PointInt
	for _, part := range strings.Split(s, ";") {
		fields := strings.Fields(part)
		if len(fields) == 0 {
			continue
		}
		stroke := make([]geometry.PointInt, 0, len(fields))
		for _, f := range fields {
			nums, err := parseInts(f, 2)
			if err != nil {
				return nil, fmt.Errorf("invalid stroke point %q: %w", f, err)
			}
			stroke = append(stroke, geometry.PointInt{X: nums[0], Y: nums[1]})
		}
		strokes = append(strokes, stroke)
	}
	return strokes, nil
}

// parseRect parses "x,y,w,h".
func parseRect(s string) (geometry.RectInt, error) {
	nums, err := parseInts(s, 4)
	if err != nil {
		return geometry.RectInt{}, fmt.Errorf("invalid rectangle %q: %w", s, err)
	}
	if nums[2] <= 0 || nums[3] <= 0 {
		return geometry.RectInt{}, fmt.Errorf("invalid rectangle %q: size must be positive", s)
	}
	return geometry.RectInt{X: nums[0], Y: nums[1], Width: nums[2], Height: nums[3]}, nil
}

func parseInts(s string, n int) ([]int, error) {
	parts := strings.Split(s, ",")
	if len(parts) != n {
		return nil, fmt.Errorf("want %d comma-separated numbers, got %d", n, len(parts))
	}
	nums := make([]int, n)
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, err
		}
		nums[i] = v
	}
	return nums, nil
}

func splitLanguages(s string) []string {
	var langs []string
	for _, l := range strings.Split(s, "+") {
		if l = strings.TrimSpace(l); l != "" {
			langs = append(langs, l)
		}
	}
	return langs
}

// rectList is a repeatable -rect flag.
type rectList []geometry.RectInt

func (r *rectList) String() string {
	parts := make([]string, len(*r))
	for i, rect := range *r {
		parts[i] = fmt.Sprintf("%d,%d,%d,%d", rect.X, rect.Y, rect.Width, rect.Height)
	}
	return strings.Join(parts, " ")
}

func (r *rectList) Set(s string) error {
	rect, err := parseRect(s)
	if err != nil {
		return err
	}
	*r = append(*r, rect)
	return nil
}
