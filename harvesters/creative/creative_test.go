package creative

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"universal-harvester/harvesters"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestScreenplayHarvestWrappedDocument(t *testing.T) {
	path := writeFile(t, "screenplay.json", `{"scenes":[
		{"scene_number":1,"duration_seconds":8.5,"screenplay_text":"Neon skyline.","mood":"dreamy"},
		{"scene_number":2,"duration_seconds":6.0,"screenplay_text":"Close on the singer.","mood":"dreamy"},
		{"scene_number":3,"duration_seconds":12.5,"screenplay_text":"Crowd shot.","mood":"euphoric"}
	]}`)

	h := NewScreenplayHarvester(path)
	if h.Source() != harvesters.SourceScreenplay {
		t.Fatalf("Source() = %q", h.Source())
	}

	payload, err := h.Harvest(context.Background())
	if err != nil {
		t.Fatalf("Harvest returned error: %v", err)
	}
	if payload["scene_count"] != 3 {
		t.Fatalf("scene_count = %v", payload["scene_count"])
	}
	if payload["total_duration_seconds"] != 27.0 {
		t.Fatalf("total_duration_seconds = %v", payload["total_duration_seconds"])
	}
	moods := payload["moods"].(map[string]int)
	if moods["dreamy"] != 2 || moods["euphoric"] != 1 {
		t.Fatalf("moods = %v", moods)
	}
	if payload["first_scene"] != 1 || payload["last_scene"] != 3 {
		t.Fatalf("scene bounds = %v..%v", payload["first_scene"], payload["last_scene"])
	}
}

func TestScreenplayHarvestBareArray(t *testing.T) {
	path := writeFile(t, "screenplay.json",
		`[{"scene_number":1,"duration_seconds":4,"screenplay_text":"x","mood":"calm"}]`)

	payload, err := NewScreenplayHarvester(path).Harvest(context.Background())
	if err != nil {
		t.Fatalf("Harvest returned error: %v", err)
	}
	if payload["scene_count"] != 1 {
		t.Fatalf("scene_count = %v", payload["scene_count"])
	}
}

func TestScreenplayHarvestMissingFile(t *testing.T) {
	h := NewScreenplayHarvester(filepath.Join(t.TempDir(), "absent.json"))
	if _, err := h.Harvest(context.Background()); err == nil {
		t.Fatal("expected error for missing screenplay")
	}
}

func TestScreenplayHarvestNoScenes(t *testing.T) {
	path := writeFile(t, "screenplay.json", `{"scenes":[]}`)
	if _, err := NewScreenplayHarvester(path).Harvest(context.Background()); err == nil {
		t.Fatal("expected error for empty screenplay")
	}
}

func TestCreatorHarvest(t *testing.T) {
	path := writeFile(t, "song_concepts.json", `{"song_concepts":[
		{"title":"Midnight Circuit","genre":"synthwave","mood":"dreamy"},
		{"title":"Glass Tide","genre":"synthwave","mood":"melancholy"},
		{"title":"Static Bloom","genre":"hyperpop","mood":"euphoric"}
	]}`)

	h := NewCreatorHarvester(path)
	if h.Source() != harvesters.SourceCreator {
		t.Fatalf("Source() = %q", h.Source())
	}

	payload, err := h.Harvest(context.Background())
	if err != nil {
		t.Fatalf("Harvest returned error: %v", err)
	}
	if payload["concept_count"] != 3 {
		t.Fatalf("concept_count = %v", payload["concept_count"])
	}
	titles := payload["titles"].([]string)
	if len(titles) != 3 || titles[0] != "Midnight Circuit" {
		t.Fatalf("titles = %v", titles)
	}
	genres := payload["genres"].(map[string]int)
	if genres["synthwave"] != 2 {
		t.Fatalf("genres = %v", genres)
	}
}

func TestCreatorHarvestNoConcepts(t *testing.T) {
	path := writeFile(t, "song_concepts.json", `{"song_concepts":[]}`)
	if _, err := NewCreatorHarvester(path).Harvest(context.Background()); err == nil {
		t.Fatal("expected error for empty song_concepts")
	}
}

func TestCreatorHarvestMalformed(t *testing.T) {
	path := writeFile(t, "song_concepts.json", `not json`)
	if _, err := NewCreatorHarvester(path).Harvest(context.Background()); err == nil {
		t.Fatal("expected error for malformed document")
	}
}
