// ABOUTME: Person fan-out rules applied across every task that names a person
// ABOUTME: Tasks reference people by name, so deletes and renames rewrite task people lists
package app

import (
	"github.com/harperreed/fomo/models"
)

// taskRewrite rewrites one task people list and reports whether it changed.
type taskRewrite func(people []interface{}) ([]interface{}, bool)

// rewriteTasks applies fn to every task in the dataset, top-level tasks and
// the tasks inside project subprojects alike.
func rewriteTasks(ds *models.Dataset, fn taskRewrite) bool {
	changed := false

	for i, task := range ds.Tasks {
		if next, ok := rewriteTask(task, fn); ok {
			ds.Tasks[i] = next
			changed = true
		}
	}

	for i, project := range ds.Projects {
		subs := append([]interface{}(nil), toList(project["subprojects"])...)
		projectChanged := false
		for j, s := range subs {
			sub := toMap(s)
			if sub == nil {
				continue
			}
			tasks := append([]interface{}(nil), toList(sub["tasks"])...)
			subChanged := false
			for k, t := range tasks {
				task := toMap(t)
				if task == nil {
					continue
				}
				if next, ok := rewriteTask(task, fn); ok {
					tasks[k] = map[string]interface{}(next)
					subChanged = true
				}
			}
			if subChanged {
				sub = cloneMap(sub)
				sub["tasks"] = tasks
				subs[j] = sub
				projectChanged = true
			}
		}
		if projectChanged {
			ds.Projects[i] = project.Merge(models.Record{"subprojects": subs})
			changed = true
		}
	}
	return changed
}

func rewriteTask(task models.Record, fn taskRewrite) (models.Record, bool) {
	people := toList(task["people"])
	if len(people) == 0 {
		return task, false
	}
	next, ok := fn(people)
	if !ok {
		return task, false
	}
	return task.Merge(models.Record{"people": next}), true
}

// removePersonNamed drops every entry for name.
func removePersonNamed(name string) taskRewrite {
	return func(people []interface{}) ([]interface{}, bool) {
		kept := make([]interface{}, 0, len(people))
		for _, p := range people {
			if stringField(toMap(p), "name") == name {
				continue
			}
			kept = append(kept, p)
		}
		return kept, len(kept) != len(people)
	}
}

// renamePerson rewrites entries for oldName to newName.
func renamePerson(oldName, newName string) taskRewrite {
	return func(people []interface{}) ([]interface{}, bool) {
		out := make([]interface{}, len(people))
		changed := false
		for i, p := range people {
			entry := toMap(p)
			if entry != nil && stringField(entry, "name") == oldName {
				entry = cloneMap(entry)
				entry["name"] = newName
				out[i] = entry
				changed = true
				continue
			}
			out[i] = p
		}
		return out, changed
	}
}

// propagateMethod moves per-task overrides for name from the person's old
// default to the new one. Overrides that already differ from the old default
// were set deliberately on that task and are left alone.
func propagateMethod(name, method string, oldDefault, newDefault bool) taskRewrite {
	return func(people []interface{}) ([]interface{}, bool) {
		if oldDefault == newDefault {
			return people, false
		}
		out := make([]interface{}, len(people))
		changed := false
		for i, p := range people {
			entry := toMap(p)
			if entry == nil || stringField(entry, "name") != name {
				out[i] = p
				continue
			}
			methods := toMap(entry["methods"])
			if methods == nil {
				methods = map[string]interface{}{}
			}
			if boolField(methods, method) != oldDefault {
				out[i] = p
				continue
			}
			methods = cloneMap(methods)
			methods[method] = newDefault
			entry = cloneMap(entry)
			entry["methods"] = methods
			out[i] = entry
			changed = true
		}
		return out, changed
	}
}
