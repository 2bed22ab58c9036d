package svg

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestResolvePlacementsEdgeTouch(t *testing.T) {
	pages := []Page{{Number: 1, X: 0, Y: 0, W: 100, H: 100}}

	tests := []struct {
		name       string
		obj        *Object
		intersects bool
	}{
		{
			name:       "fully inside",
			obj:        &Object{ID: "in", X: 10, Y: 10, W: 20, H: 20},
			intersects: true,
		},
		{
			name:       "touching right edge",
			obj:        &Object{ID: "edge", X: 100, Y: 10, W: 20, H: 20},
			intersects: true,
		},
		{
			name:       "touching corner",
			obj:        &Object{ID: "corner", X: 100, Y: 100, W: 20, H: 20},
			intersects: true,
		},
		{
			name:       "just past right edge",
			obj:        &Object{ID: "out", X: 100.5, Y: 10, W: 20, H: 20},
			intersects: false,
		},
		{
			name:       "above the page",
			obj:        &Object{ID: "above", X: 10, Y: 0, W: 20, H: 20},
			intersects: true,
		},
		{
			name:       "ends exactly at left edge",
			obj:        &Object{ID: "left", X: -20, Y: 10, W: 20, H: 20},
			intersects: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			objects := map[string]*Object{tt.obj.ID: tt.obj}
			ResolvePlacements(pages, objects)
			if tt.intersects {
				assert.Len(t, tt.obj.Locations, 1)
			} else {
				assert.Empty(t, tt.obj.Locations)
			}
		})
	}
}

func TestResolvePlacementsSpanningObject(t *testing.T) {
	pages := []Page{
		{Number: 1, X: 0, Y: 0, W: 100, H: 100},
		{Number: 2, X: 100, Y: 0, W: 100, H: 100},
	}
	obj := &Object{ID: "wide", X: 90, Y: 40, W: 20, H: 10}

	ResolvePlacements(pages, map[string]*Object{"wide": obj})

	want := []PageLocation{
		{Page: 1, X: 90, Y: 40},
		{Page: 2, X: -10, Y: 40},
	}
	if diff := cmp.Diff(want, obj.Locations); diff != "" {
		t.Errorf("locations mismatch (-want +got):\n%s", diff)
	}
}

func TestResolvePlacementsOffsetPage(t *testing.T) {
	pages := []Page{{Number: 1, X: 50, Y: 25, W: 100, H: 100}}
	obj := &Object{ID: "o", X: 60, Y: 30, W: 5, H: 5}

	ResolvePlacements(pages, map[string]*Object{"o": obj})

	want := []PageLocation{{Page: 1, X: 10, Y: 5}}
	if diff := cmp.Diff(want, obj.Locations); diff != "" {
		t.Errorf("locations mismatch (-want +got):\n%s", diff)
	}
}

func TestResolvePlacementsOutsideEveryPage(t *testing.T) {
	pages := []Page{{Number: 1, X: 0, Y: 0, W: 100, H: 100}}
	obj := &Object{ID: "off", X: 500, Y: 500, W: 10, H: 10}

	ResolvePlacements(pages, map[string]*Object{"off": obj})

	assert.Empty(t, obj.Locations)
}

func TestResolvePlacementsResetsStaleLocations(t *testing.T) {
	pages := []Page{{Number: 1, X: 0, Y: 0, W: 100, H: 100}}
	obj := &Object{ID: "o", X: 10, Y: 10, W: 5, H: 5,
		Locations: []PageLocation{{Page: 9, X: 1, Y: 1}}}

	ResolvePlacements(pages, map[string]*Object{"o": obj})

	want := []PageLocation{{Page: 1, X: 10, Y: 10}}
	if diff := cmp.Diff(want, obj.Locations); diff != "" {
		t.Errorf("locations mismatch (-want +got):\n%s", diff)
	}
}
