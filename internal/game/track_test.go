package game

import "testing"

func TestRemapLane(t *testing.T) {
	tests := []struct {
		from, to, lane, want int
	}{
		{3, 3, 1, 1},
		{3, 2, 0, 0},
		{3, 2, 1, 1},
		{3, 2, 2, 1},
		{2, 4, 0, 1},
		{2, 4, 1, 3},
		{4, 2, 3, 1},
		{1, 3, 0, 1},
		{3, 1, 2, 0},
	}
	for _, tt := range tests {
		if got := remapLane(tt.from, tt.to, tt.lane); got != tt.want {
			t.Errorf("remapLane(%d, %d, %d) = %d, want %d", tt.from, tt.to, tt.lane, got, tt.want)
		}
	}
}

func TestAtFinish(t *testing.T) {
	track := &Track{Name: "t", Segments: []Segment{{Lanes: 2, Cells: 3}, {Lanes: 2, Cells: 4}}}
	if track.atFinish(Position{Segment: 0, Cell: 2}) {
		t.Fatal("last cell of a non-final segment must not be the finish")
	}
	if track.atFinish(Position{Segment: 1, Cell: 2}) {
		t.Fatal("mid-cell of the final segment must not be the finish")
	}
	if !track.atFinish(Position{Segment: 1, Cell: 3}) {
		t.Fatal("last cell of the final segment must be the finish")
	}
}

func TestTrackLibrary(t *testing.T) {
	if _, ok := TrackByName("scrapyard-loop"); !ok {
		t.Fatal("default track missing from library")
	}
	if _, ok := TrackByName("nope"); ok {
		t.Fatal("unknown track name resolved")
	}
	if got := len(TrackNames()); got != 3 {
		t.Fatalf("TrackNames() len = %d, want 3", got)
	}
}
