// Package variables provides path-based resolution over an execution
// context: dotted-path get/set/delete, {{path}} template interpolation, and
// context merging. Which paths are legal is not validated here; that lives
// in the condition schema catalog so the resolver stays generic.
package variables

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/voxline/voxline/pkg/models"
)

var placeholderPattern = regexp.MustCompile(`\{\{\s*([^{}]+?)\s*\}\}`)

// Get walks the dotted path over the context and returns the value, or nil
// at the first missing segment.
func Get(path string, ectx *models.ExecutionContext) any {
	if path == "" || ectx == nil {
		return nil
	}

	var current any = ectx.Root()

	for _, segment := range strings.Split(path, ".") {
		node, ok := current.(map[string]any)
		if !ok {
			return nil
		}

		value, ok := node[segment]
		if !ok || value == nil {
			return nil
		}

		current = value
	}

	return current
}

// Set walks the path, creating intermediate maps for all but the final
// segment, then assigns. No schema validation is applied.
func Set(path string, value any, ectx *models.ExecutionContext) {
	if path == "" || ectx == nil {
		return
	}

	segments := strings.Split(path, ".")
	root := ectx.Root()

	// Writes under an unmodeled top-level segment land in Extra so they
	// survive Root() being reassembled.
	if _, ok := root[segments[0]]; !ok {
		if len(segments) == 1 {
			ectx.Extra[segments[0]] = value

			return
		}

		child := make(map[string]any)
		ectx.Extra[segments[0]] = child
		root[segments[0]] = child
	}

	current := root

	for _, segment := range segments[:len(segments)-1] {
		next, ok := current[segment].(map[string]any)
		if !ok {
			next = make(map[string]any)
			current[segment] = next
		}

		current = next
	}

	current[segments[len(segments)-1]] = value
}

// Delete removes the value at path. No-op when any intermediate segment is
// absent.
func Delete(path string, ectx *models.ExecutionContext) {
	if path == "" || ectx == nil {
		return
	}

	segments := strings.Split(path, ".")
	current := ectx.Root()

	for _, segment := range segments[:len(segments)-1] {
		next, ok := current[segment].(map[string]any)
		if !ok {
			return
		}

		current = next
	}

	delete(current, segments[len(segments)-1])
}

// Exists reports whether path resolves to a non-nil value.
func Exists(path string, ectx *models.ExecutionContext) bool {
	return Get(path, ectx) != nil
}

// Resolve replaces every {{path}} occurrence in the template with the
// string form of the resolved value. Unresolved paths are left as the
// literal {{path}} text so missing-variable bugs stay visible.
func Resolve(template string, ectx *models.ExecutionContext) string {
	return placeholderPattern.ReplaceAllStringFunc(template, func(match string) string {
		path := strings.TrimSpace(strings.Trim(match, "{}"))

		value := Get(path, ectx)
		if value == nil {
			return match
		}

		return Stringify(value)
	})
}

// ResolveObject applies Resolve to every string leaf of an arbitrarily
// nested structure, returning a new structure. Non-string leaves pass
// through unchanged.
func ResolveObject(value any, ectx *models.ExecutionContext) any {
	switch v := value.(type) {
	case string:
		return Resolve(v, ectx)
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, child := range v {
			out[key] = ResolveObject(child, ectx)
		}

		return out
	case []any:
		out := make([]any, len(v))
		for i, child := range v {
			out[i] = ResolveObject(child, ectx)
		}

		return out
	default:
		return value
	}
}

// Merge folds a patch into the context without discarding prior state:
// customer/conversation/call merge shallowly, the variable namespaces
// merge deeply.
func Merge(ectx *models.ExecutionContext, patch models.ContextPatch) {
	shallowMerge(ectx.Customer, patch.Customer)
	shallowMerge(ectx.Conversation, patch.Conversation)
	shallowMerge(ectx.Call, patch.Call)

	deepMerge(ectx.Variables.Workflow, patch.Variables.Workflow)
	deepMerge(ectx.Variables.Conversation, patch.Variables.Conversation)
	deepMerge(ectx.Variables.Global, patch.Variables.Global)
}

// Stringify renders a resolved value for interpolation. Strings pass
// through; composite values render as JSON.
func Stringify(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case map[string]any, []any:
		encoded, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}

		return string(encoded)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func shallowMerge(dst, src map[string]any) {
	if dst == nil {
		return
	}

	for key, value := range src {
		dst[key] = value
	}
}

func deepMerge(dst, src map[string]any) {
	if dst == nil {
		return
	}

	for key, value := range src {
		srcChild, srcIsMap := value.(map[string]any)

		dstChild, dstIsMap := dst[key].(map[string]any)
		if srcIsMap && dstIsMap {
			deepMerge(dstChild, srcChild)

			continue
		}

		dst[key] = value
	}
}
