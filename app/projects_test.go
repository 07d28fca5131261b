package app

import (
	"testing"

	"github.com/harperreed/fomo/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureProjectLevelPrependsBucket(t *testing.T) {
	project := models.Record{
		"id":    "p1",
		"text":  "Garden",
		"color": "#3F51B5",
		"subprojects": []interface{}{
			map[string]interface{}{"id": "sp1", "text": "Beds", "tasks": []interface{}{}},
		},
	}

	out := EnsureProjectLevel(project)
	subs := toList(out["subprojects"])
	require.Len(t, subs, 2)

	bucket := toMap(subs[0])
	assert.Equal(t, "project-level-p1", bucket["id"])
	assert.Equal(t, "Garden Tasks", bucket["text"])
	assert.Equal(t, true, bucket["isProjectLevel"])
	assert.Equal(t, true, bucket["collapsed"])
	assert.Equal(t, "#3F51B5", bucket["color"])
	assert.Equal(t, "sp1", toMap(subs[1])["id"])

	assert.Len(t, toList(project["subprojects"]), 1, "input is not modified")
}

func TestEnsureProjectLevelIdempotent(t *testing.T) {
	once := EnsureProjectLevel(models.Record{"id": "p1", "text": "A"})
	twice := EnsureProjectLevel(once)
	assert.Equal(t, once, twice)
	_, hasColor := toMap(toList(twice["subprojects"])[0])["color"]
	assert.False(t, hasColor)
}

func TestEnsureProjectLevelKeepsExistingBucketState(t *testing.T) {
	project := models.Record{
		"id":   "p1",
		"text": "Renamed",
		"subprojects": []interface{}{map[string]interface{}{
			"id":             "custom",
			"text":           "Old Tasks",
			"tasks":          []interface{}{map[string]interface{}{"id": "t1"}},
			"collapsed":      false,
			"isProjectLevel": true,
			"description":    "notes",
		}},
	}

	bucket := toMap(toList(EnsureProjectLevel(project)["subprojects"])[0])
	assert.Equal(t, "custom", bucket["id"])
	assert.Equal(t, "Renamed Tasks", bucket["text"])
	assert.Equal(t, false, bucket["collapsed"])
	assert.Equal(t, "notes", bucket["description"])
	assert.Len(t, toList(bucket["tasks"]), 1)
}

func TestPickColorWraps(t *testing.T) {
	assert.Equal(t, "#0D47A1", PickColor(0))
	assert.Equal(t, "#7B1FA2", PickColor(5))
	assert.Equal(t, "#0D47A1", PickColor(6))
}
