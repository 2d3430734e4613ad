package geo

import (
	"errors"
	"fmt"
)

var ErrUnavailable = errors.New("location unavailable")

type Fix struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func (f Fix) String() string {
	return fmt.Sprintf("%.6f, %.6f", f.Lat, f.Lng)
}

// Resolve turns an optional GPS fix into the stored location string.
func Resolve(fix *Fix) (string, error) {
	if fix == nil {
		return "", ErrUnavailable
	}
	if fix.Lat < -90 || fix.Lat > 90 || fix.Lng < -180 || fix.Lng > 180 {
		return "", ErrUnavailable
	}
	return fix.String(), nil
}
