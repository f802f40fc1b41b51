package main

import (
	"reflect"
	"strings"
	"testing"

	"github.com/rcj-soccer/robocup/pkg/filter"
)

func TestReadReadings(t *testing.T) {
	values, err := readReadings(strings.NewReader("# ultrasonic, cm\n20\n\n 23 \n500\n"))
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(values, []float64{20, 23, 500}) {
		t.Errorf("readings = %v", values)
	}

	if _, err := readReadings(strings.NewReader("20\nfar\n")); err == nil || !strings.Contains(err.Error(), "line 2") {
		t.Errorf("expected a line 2 parse error, got %v", err)
	}
}

func TestApplyFilter(t *testing.T) {
	out := applyFilter(filter.NewDefault(), []float64{20, 23, 500})
	if !reflect.DeepEqual(out, []float64{20, 21, 21}) {
		t.Errorf("filtered = %v", out)
	}
}
