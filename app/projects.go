// ABOUTME: Project normalisation applied on every project create and update
// ABOUTME: Guarantees a leading project-level subproject and a palette colour
package app

import (
	"github.com/harperreed/fomo/models"
)

// Palette is the rotation of colours given to new projects.
var Palette = []string{"#0D47A1", "#1976D2", "#3F51B5", "#607D8B", "#FF8F00", "#7B1FA2"}

// PickColor returns the palette colour for the index-th project.
func PickColor(index int) string {
	if index < 0 {
		index = -index
	}
	return Palette[index%len(Palette)]
}

// ProjectLevelID is the id of a project's project-level subproject.
func ProjectLevelID(projectID string) string {
	return "project-level-" + projectID
}

// EnsureProjectLevel returns a copy of project whose first subproject is the
// project-level bucket. An existing bucket keeps its id, tasks, collapsed
// state, description, and owners; its title and colour follow the project.
func EnsureProjectLevel(project models.Record) models.Record {
	out := project.Clone()
	text := stringField(out, "text")
	color, hasColor := out["color"]

	subs := append([]interface{}(nil), toList(out["subprojects"])...)
	var first map[string]interface{}
	if len(subs) > 0 {
		first = toMap(subs[0])
	}

	if first == nil || !boolField(first, "isProjectLevel") {
		bucket := map[string]interface{}{
			"id":             ProjectLevelID(out.ID()),
			"text":           text + " Tasks",
			"tasks":          []interface{}{},
			"collapsed":      true,
			"isProjectLevel": true,
		}
		if hasColor {
			bucket["color"] = color
		}
		subs = append([]interface{}{bucket}, subs...)
	} else {
		bucket := cloneMap(first)
		if stringField(bucket, "id") == "" {
			bucket["id"] = ProjectLevelID(out.ID())
		}
		bucket["text"] = text + " Tasks"
		if bucket["tasks"] == nil {
			bucket["tasks"] = []interface{}{}
		}
		if _, ok := bucket["collapsed"]; !ok {
			bucket["collapsed"] = true
		}
		if hasColor {
			bucket["color"] = color
		} else {
			delete(bucket, "color")
		}
		bucket["isProjectLevel"] = true
		subs[0] = bucket
	}

	out["subprojects"] = subs
	return out
}
