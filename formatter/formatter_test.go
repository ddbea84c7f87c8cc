package formatter

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/paulmach/orb"

	"github.com/theoremus-urban-solutions/marey/diagram"
)

func sampleDiagram() *diagram.Diagram {
	return &diagram.Diagram{
		GridIntervals: []float64{10},
		Ladder: []diagram.LadderStation{
			{ID: "A", DrawHeight: 0, Tracks: []float64{0}},
			{ID: "B", DrawHeight: 10, Tracks: []float64{10}},
		},
		Width:      2,
		HourWidths: []float64{1, 1},
		Trains: []diagram.TrainPath{
			{ID: "IC 1", Tag: 7, Color: 7, Lines: []orb.LineString{{{0, 0}, {1, 10}}}},
			{ID: "RE 2", Tag: 9, Color: 9, Lines: []orb.LineString{{{1, 0}, {2, 10}}}},
		},
		Collisions: &diagram.Collisions{XMin: -1, XMax: 2, YMin: -1, YMax: 11},
	}
}

func TestBuildJSON_Groups(t *testing.T) {
	rb := NewResponseBuilder()

	tests := []struct {
		name      string
		group     string
		wantLines bool
		wantBoxes bool
	}{
		{name: "geometry", group: GroupGeometry, wantLines: true, wantBoxes: true},
		{name: "default is geometry", group: "", wantLines: true, wantBoxes: true},
		{name: "summary", group: GroupSummary, wantLines: false, wantBoxes: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := rb.BuildJSON(sampleDiagram(), tt.group)
			if err != nil {
				t.Fatalf("BuildJSON failed: %v", err)
			}

			var doc map[string]any
			if err := json.Unmarshal(b, &doc); err != nil {
				t.Fatalf("invalid JSON: %v", err)
			}
			trains := doc["trains"].([]any)
			_, hasLines := trains[0].(map[string]any)["lines"]
			if hasLines != tt.wantLines {
				t.Errorf("lines present = %v, want %v", hasLines, tt.wantLines)
			}
			if _, hasBoxes := doc["graph_collisions"]; hasBoxes != tt.wantBoxes {
				t.Errorf("graph_collisions present = %v, want %v", hasBoxes, tt.wantBoxes)
			}
			if _, ok := doc["ladder"]; !ok {
				t.Error("ladder should be in every group")
			}
		})
	}

	if _, err := rb.BuildJSON(sampleDiagram(), "everything"); err == nil {
		t.Error("unknown group should fail")
	}
}

func TestBuildCBOR(t *testing.T) {
	rb := NewResponseBuilder()
	b, err := rb.BuildCBOR(sampleDiagram())
	if err != nil {
		t.Fatalf("BuildCBOR failed: %v", err)
	}

	var doc map[string]any
	if err := cbor.Unmarshal(b, &doc); err != nil {
		t.Fatalf("invalid CBOR: %v", err)
	}
	for _, key := range []string{"grid_intervals", "ladder", "trains", "graph_collisions"} {
		if _, ok := doc[key]; !ok {
			t.Errorf("missing key %s", key)
		}
	}
	if _, ok := doc["intervals"]; ok {
		t.Error("empty heatmap should be omitted")
	}

	again, _ := rb.BuildCBOR(sampleDiagram())
	if string(again) != string(b) {
		t.Error("encoding should be deterministic")
	}
}

func TestBuild_Formats(t *testing.T) {
	rb := NewResponseBuilder()

	_, ct, err := rb.Build(sampleDiagram(), "", "")
	if err != nil || ct != "application/cbor" {
		t.Errorf("default format: %s, %v", ct, err)
	}
	b, ct, err := rb.Build(sampleDiagram(), "json", GroupSummary)
	if err != nil || ct != "application/json" || !strings.HasPrefix(string(b), "{") {
		t.Errorf("json format: %s, %v", ct, err)
	}
	if _, _, err := rb.Build(sampleDiagram(), "xml", ""); err == nil {
		t.Error("xml is not supported")
	}
}

func TestFilterTrains(t *testing.T) {
	d := sampleDiagram()

	tests := []struct {
		name      string
		ref       string
		want      []string
		keepBoxes bool
	}{
		{name: "no filter", ref: "", want: []string{"IC 1", "RE 2"}, keepBoxes: true},
		{name: "case insensitive", ref: " re ", want: []string{"RE 2"}, keepBoxes: false},
		{name: "no match", ref: "ICE", want: nil, keepBoxes: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterTrains(d, tt.ref)
			var ids []string
			for _, tr := range got.Trains {
				ids = append(ids, string(tr.ID))
			}
			if strings.Join(ids, ",") != strings.Join(tt.want, ",") {
				t.Errorf("expected %v, got %v", tt.want, ids)
			}
			if (got.Collisions != nil) != tt.keepBoxes {
				t.Errorf("collisions kept = %v", got.Collisions != nil)
			}
		})
	}

	if len(d.Trains) != 2 {
		t.Error("filter must not modify its input")
	}
}
