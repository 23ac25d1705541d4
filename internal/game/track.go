package game

// Segment is one stretch of track: a grid of Lanes x Cells.
type Segment struct {
	Lanes int `json:"lanes"`
	Cells int `json:"cells"`
}

// Track is the read-only race topology. It must not be mutated after the
// room referencing it has been created.
type Track struct {
	Name     string    `json:"name"`
	Segments []Segment `json:"segments"`
}

// Position is the three-level coordinate of a participant on the track.
type Position struct {
	Segment int `json:"segment"`
	Lane    int `json:"lane"`
	Cell    int `json:"cell"`
}

func (t *Track) finalSegment() int {
	return len(t.Segments) - 1
}

// atFinish reports whether pos sits on the last cell of the last segment.
func (t *Track) atFinish(pos Position) bool {
	last := t.finalSegment()
	return pos.Segment == last && pos.Cell == t.Segments[last].Cells-1
}

// remapLane maps a lane index proportionally between segments with
// differing lane counts: floor((lane+0.5)/from*to), clamped to bounds.
func remapLane(fromLanes, toLanes, lane int) int {
	mapped := int((float64(lane) + 0.5) / float64(fromLanes) * float64(toLanes))
	if mapped < 0 {
		mapped = 0
	}
	if mapped >= toLanes {
		mapped = toLanes - 1
	}
	return mapped
}

var trackLibrary = []*Track{
	{
		Name: "scrapyard-loop",
		Segments: []Segment{
			{Lanes: 3, Cells: 10},
			{Lanes: 2, Cells: 8},
			{Lanes: 3, Cells: 12},
			{Lanes: 4, Cells: 6},
		},
	},
	{
		Name: "rust-belt-sprint",
		Segments: []Segment{
			{Lanes: 4, Cells: 14},
			{Lanes: 2, Cells: 10},
			{Lanes: 3, Cells: 8},
		},
	},
	{
		Name: "junkyard-oval",
		Segments: []Segment{
			{Lanes: 3, Cells: 20},
			{Lanes: 3, Cells: 20},
		},
	},
}

// DefaultTrack is used when room settings name no track.
func DefaultTrack() *Track {
	return trackLibrary[0]
}

func TrackByName(name string) (*Track, bool) {
	for _, t := range trackLibrary {
		if t.Name == name {
			return t, true
		}
	}
	return nil, false
}

func TrackNames() []string {
	names := make([]string, 0, len(trackLibrary))
	for _, t := range trackLibrary {
		names = append(names, t.Name)
	}
	return names
}
