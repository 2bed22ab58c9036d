package svg

// ResolvePlacements computes, for every object, the pages it intersects
// and its position relative to each of them. An object spanning several
// pages gets one PageLocation per page; an object outside every page
// gets none.
func ResolvePlacements(pages []Page, objects map[string]*Object) {
	for _, obj := range objects {
		obj.Locations = nil
		for _, page := range pages {
			if !intersects(page, obj) {
				continue
			}
			obj.Locations = append(obj.Locations, PageLocation{
				Page: page.Number,
				X:    obj.X - page.X,
				Y:    obj.Y - page.Y,
			})
		}
	}
}

// intersects reports whether the object's box and the page share at
// least a point. The comparison is over closed intervals: an object
// touching a page only on an edge or a corner still intersects it.
func intersects(page Page, obj *Object) bool {
	if obj.X > page.X+page.W || obj.X+obj.W < page.X {
		return false
	}
	if obj.Y > page.Y+page.H || obj.Y+obj.H < page.Y {
		return false
	}
	return true
}
