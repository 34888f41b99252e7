package service

import (
	"sort"

	"welfare-cms/internal/content/domain/model"
)

// homeSections are the Home sub-objects merged with their defaults key by key.
var homeSections = []string{"hero", "aboutSummary", "cta"}

// MergeFields returns a copy of dst with src merged in. Where both sides hold
// an object the merge recurses, anything else in src replaces the value in dst.
// This is the merge-write rule: lists are replaced, never concatenated. An empty
// object in src clears the stored one, matching the paths FlattenFields emits.
func MergeFields(dst, src model.Fields) model.Fields {
	out := model.CloneFields(dst)
	if out == nil {
		out = make(model.Fields, len(src))
	}
	for k, v := range src {
		srcMap, srcIsMap := v.(map[string]interface{})
		dstMap, dstIsMap := out[k].(map[string]interface{})
		if srcIsMap && dstIsMap && len(srcMap) > 0 {
			out[k] = MergeFields(dstMap, srcMap)
			continue
		}
		out[k] = model.CloneValue(v)
	}
	return out
}

// ShallowMerge overlays the top-level keys of stored onto defaults.
func ShallowMerge(defaults, stored model.Fields) model.Fields {
	out := model.CloneFields(defaults)
	if out == nil {
		out = make(model.Fields, len(stored))
	}
	for k, v := range stored {
		out[k] = model.CloneValue(v)
	}
	return out
}

// ResolveDocument combines a stored document with the domain defaults according
// to the domain read policy. found is false when nothing has been stored yet.
func ResolveDocument(domain model.Domain, stored model.Fields, found bool) model.Fields {
	defaults := model.Defaults(domain)
	if !found || stored == nil {
		return defaults
	}

	switch domain.ReadPolicy() {
	case model.ReadNestedMerge:
		return resolveHome(defaults, stored)
	case model.ReadShallowMerge:
		return ShallowMerge(defaults, stored)
	default:
		return normaliseLists(model.CloneFields(stored), defaults)
	}
}

func resolveHome(defaults, stored model.Fields) model.Fields {
	out := ShallowMerge(defaults, stored)
	for _, section := range homeSections {
		base, _ := defaults[section].(map[string]interface{})
		if override, ok := stored[section].(map[string]interface{}); ok {
			out[section] = ShallowMerge(base, override)
		} else {
			out[section] = model.CloneFields(base)
		}
	}

	hero := out["hero"].(map[string]interface{})
	if bg, _ := hero["backgroundImage"].(string); bg == "" {
		hero["backgroundImage"] = defaults["hero"].(map[string]interface{})["backgroundImage"]
	}
	if ids, ok := out["featuredMemberIds"].([]interface{}); !ok || ids == nil {
		out["featuredMemberIds"] = []interface{}{}
	}
	return out
}

// normaliseLists turns null values of list-typed default keys into empty lists,
// without adding keys the stored document does not have.
func normaliseLists(stored, defaults model.Fields) model.Fields {
	for k, v := range defaults {
		if _, isList := v.([]interface{}); !isList {
			continue
		}
		if cur, present := stored[k]; present && cur == nil {
			stored[k] = []interface{}{}
		}
	}
	return stored
}

// FlattenFields converts nested objects into dotted paths so a partial update
// touches only the leaves that were submitted. Empty objects are kept as values.
func FlattenFields(fields model.Fields) map[string]interface{} {
	out := make(map[string]interface{})
	flattenInto(out, "", fields)
	return out
}

func flattenInto(out map[string]interface{}, prefix string, fields model.Fields) {
	for k, v := range fields {
		path := k
		if prefix != "" {
			path = prefix + "." + k
		}
		if nested, ok := v.(map[string]interface{}); ok && len(nested) > 0 {
			flattenInto(out, path, nested)
			continue
		}
		out[path] = v
	}
}

// FieldPaths returns the sorted dotted paths of a document's leaves.
func FieldPaths(fields model.Fields) []string {
	flat := FlattenFields(fields)
	paths := make([]string, 0, len(flat))
	for p := range flat {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}
