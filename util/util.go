package util

import (
	"math"
	"os"
)

//TimeFormat stores a correctly formatted timestamp
const TimeFormat string = "2006-01-02-T15:04:05-0700"

// Exists returns true if file or directory exists
func Exists(path string) bool {
	_, err := os.Stat(path)
	if err == nil {
		return true
	}
	if os.IsNotExist(err) {
		return false
	}
	return true
}

//Min returns the smaller of two integers
func Min(a int, b int) int {
	if a < b {
		return a
	}
	return b
}

//Max returns the larger of two integers
func Max(a int, b int) int {
	if a > b {
		return a
	}
	return b
}

//MaxFloat returns the larger of two floats
func MaxFloat(a float64, b float64) float64 {
	return math.Max(a, b)
}

//IntInSlice returns true if the int is an element of the array
func IntInSlice(value int, list []int) bool {
	for _, entry := range list {
		if entry == value {
			return true
		}
	}
	return false
}
