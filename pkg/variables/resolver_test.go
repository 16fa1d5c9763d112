package variables

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voxline/voxline/pkg/models"
)

func testContext() *models.ExecutionContext {
	ectx := models.NewExecutionContext("exec-1", "wf-1", "tenant-1", models.TriggerInfo{
		Type: models.TriggerIncomingMessage,
		Payload: map[string]any{
			"text": "hi there",
			"from": "+15550001111",
		},
	})
	ectx.Customer["name"] = "Ada"
	ectx.Customer["email"] = "ada@example.com"

	return ectx
}

func TestGet_WalksDottedPaths(t *testing.T) {
	ectx := testContext()

	assert.Equal(t, "Ada", Get("customer.name", ectx))
	assert.Equal(t, "hi there", Get("trigger.payload.text", ectx))
	assert.Equal(t, models.TriggerIncomingMessage, Get("trigger.type", ectx))
}

func TestGet_MissingSegmentReturnsNil(t *testing.T) {
	ectx := testContext()

	assert.Nil(t, Get("customer.address.city", ectx))
	assert.Nil(t, Get("nothing", ectx))
	assert.Nil(t, Get("", ectx))
	assert.Nil(t, Get("customer.name", nil))
}

func TestGet_DoesNotTraverseNonMaps(t *testing.T) {
	ectx := testContext()

	// customer.name is a string; going deeper must yield nil, not panic.
	assert.Nil(t, Get("customer.name.first", ectx))
}

func TestSet_CreatesIntermediateMaps(t *testing.T) {
	ectx := testContext()

	Set("variables.workflow.lead.score", 42, ectx)

	assert.Equal(t, 42, Get("variables.workflow.lead.score", ectx))
	assert.Equal(t, 42, ectx.Variables.Workflow["lead"].(map[string]any)["score"])
}

func TestSet_UnknownTopLevelLandsInExtra(t *testing.T) {
	ectx := testContext()

	Set("meeting.start", "2026-09-01T10:00:00Z", ectx)

	assert.Equal(t, "2026-09-01T10:00:00Z", Get("meeting.start", ectx))
	require.Contains(t, ectx.Extra, "meeting")
}

func TestDelete_RemovesLeaf(t *testing.T) {
	ectx := testContext()

	Set("variables.workflow.temp", "x", ectx)
	require.True(t, Exists("variables.workflow.temp", ectx))

	Delete("variables.workflow.temp", ectx)
	assert.False(t, Exists("variables.workflow.temp", ectx))

	// Deleting through a missing branch is a no-op.
	Delete("variables.workflow.a.b.c", ectx)
}

func TestResolve_InterpolatesPlaceholders(t *testing.T) {
	ectx := testContext()

	assert.Equal(t, "Hello Ada", Resolve("Hello {{customer.name}}", ectx))
	assert.Equal(t, "Hello Ada", Resolve("Hello {{ customer.name }}", ectx))
	assert.Equal(t, "Ada <ada@example.com>", Resolve("{{customer.name}} <{{customer.email}}>", ectx))
}

func TestResolve_UnresolvedPathStaysLiteral(t *testing.T) {
	ectx := testContext()

	assert.Equal(t, "Hello {{customer.nickname}}", Resolve("Hello {{customer.nickname}}", ectx))
	assert.Equal(t, "no placeholders", Resolve("no placeholders", ectx))
}

func TestResolve_StringifiesNonStrings(t *testing.T) {
	ectx := testContext()
	ectx.Variables.Workflow["count"] = float64(3)
	ectx.Variables.Workflow["tags"] = []any{"a", "b"}

	assert.Equal(t, "3 items", Resolve("{{variables.workflow.count}} items", ectx))
	assert.Equal(t, `["a","b"]`, Resolve("{{variables.workflow.tags}}", ectx))
}

func TestResolveObject_WalksNestedStructures(t *testing.T) {
	ectx := testContext()

	resolved := ResolveObject(map[string]any{
		"message": "Hi {{customer.name}}",
		"nested": map[string]any{
			"to": "{{customer.email}}",
		},
		"list":  []any{"{{customer.name}}", 7},
		"count": 7,
	}, ectx)

	out, ok := resolved.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Hi Ada", out["message"])
	assert.Equal(t, "ada@example.com", out["nested"].(map[string]any)["to"])
	assert.Equal(t, "Ada", out["list"].([]any)[0])
	assert.Equal(t, 7, out["list"].([]any)[1])
	assert.Equal(t, 7, out["count"])
}

func TestMerge_ShallowAndDeep(t *testing.T) {
	ectx := testContext()
	ectx.Variables.Workflow["crm"] = map[string]any{"contactId": "c-1", "stage": "new"}

	Merge(ectx, models.ContextPatch{
		Customer: map[string]any{"name": "Grace", "phone": "+15550002222"},
		Variables: models.VariableSet{
			Workflow: map[string]any{
				"crm": map[string]any{"stage": "qualified"},
			},
		},
	})

	// Shallow: replaced key wins, untouched keys survive.
	assert.Equal(t, "Grace", ectx.Customer["name"])
	assert.Equal(t, "ada@example.com", ectx.Customer["email"])

	// Deep: sibling keys under the same map survive.
	crm := ectx.Variables.Workflow["crm"].(map[string]any)
	assert.Equal(t, "qualified", crm["stage"])
	assert.Equal(t, "c-1", crm["contactId"])
}

func TestStringify(t *testing.T) {
	assert.Equal(t, "plain", Stringify("plain"))
	assert.Equal(t, "12.5", Stringify(12.5))
	assert.Equal(t, "true", Stringify(true))
	assert.Equal(t, `{"a":1}`, Stringify(map[string]any{"a": 1}))
}
