package render

import (
	"strings"
	"testing"

	"growthbot/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func human(id, text string) models.Message {
	return models.Message{ID: id, Role: models.RoleHuman, Content: models.TextValue(text)}
}

func ai(id, text string, calls ...models.ToolCall) models.Message {
	return models.Message{ID: id, Role: models.RoleAI, Content: models.TextValue(text), ToolCalls: calls}
}

func tool(id, content string) models.Message {
	return models.Message{ID: id, Role: models.RoleTool, Name: "lookup", ToolCallID: "call-" + id, Content: models.TextValue(content)}
}

func ids(msgs []models.Message) []string {
	out := make([]string, len(msgs))
	for i, m := range msgs {
		out[i] = m.ID
	}
	return out
}

func TestFilterHidesToolAndBlankWithoutReordering(t *testing.T) {
	msgs := []models.Message{
		human("h1", "hi"),
		ai("a1", "  ", models.ToolCall{Name: "lookup"}),
		tool("t1", "[1]"),
		ai("a2", "answer"),
		human("h2", "\n"),
		human("h3", "thanks"),
	}
	before := ids(msgs)

	assert.Equal(t, []string{"h1", "a2", "h3"}, ids(Filter(msgs, true)))
	assert.Equal(t, before, ids(Filter(msgs, false)))
	assert.Equal(t, before, ids(msgs))
}

func TestRespondingIndicator(t *testing.T) {
	msgs := []models.Message{human("h1", "hi")}
	assert.True(t, Build(msgs, Options{Loading: true}).Responding)
	assert.False(t, Build(msgs, Options{Loading: false}).Responding)

	msgs = append(msgs, ai("a1", "Hel"))
	assert.False(t, Build(msgs, Options{Loading: true}).Responding)

	assert.False(t, Build(nil, Options{Loading: true}).Responding)
}

func TestRespondingUsesFilteredList(t *testing.T) {
	msgs := []models.Message{human("h1", "hi"), ai("a1", "", models.ToolCall{Name: "lookup"})}
	assert.True(t, Build(msgs, Options{Loading: true, HideToolCalls: true}).Responding)
	assert.False(t, Build(msgs, Options{Loading: true}).Responding)
}

func TestBuildItems(t *testing.T) {
	call := models.ToolCall{ID: "c1", Name: "lookup"}
	msgs := []models.Message{human("h1", "hi"), ai("a1", "**bold**", call), tool("t1", "ok")}

	tree := Build(msgs, Options{})
	require.Len(t, tree.Items, 3)
	assert.Equal(t, KindHuman, tree.Items[0].Kind)
	assert.Equal(t, "hi", tree.Items[0].Text)
	assert.Equal(t, KindAI, tree.Items[1].Kind)
	assert.Equal(t, "**bold**", tree.Items[1].Text)
	require.Len(t, tree.Items[1].ToolCalls, 1)
	assert.True(t, tree.Items[1].ToolCalls[0].Empty)
	assert.Equal(t, KindToolResult, tree.Items[2].Kind)
	require.NotNil(t, tree.Items[2].Result)
	assert.Equal(t, "lookup", tree.Items[2].Result.Name)

	hidden := Build(msgs, Options{HideToolCalls: true})
	require.Len(t, hidden.Items, 2)
	assert.Empty(t, hidden.Items[1].ToolCalls)
}

func TestToolCallRows(t *testing.T) {
	msg, ok := models.ParseMessage(gjson.Parse(`{"type":"ai","id":"a","content":"","tool_calls":[{"name":"search","id":"c1","args":{"q":"growth","opts":{"limit":2},"tags":["a"],"n":3}}]}`))
	require.True(t, ok)

	views := ToolCalls(msg.ToolCalls)
	require.Len(t, views, 1)
	v := views[0]
	assert.Equal(t, "search", v.Name)
	assert.Equal(t, "c1", v.ID)
	assert.False(t, v.Empty)
	require.Len(t, v.Rows, 4)
	assert.Equal(t, Row{Key: "q", Value: "growth"}, v.Rows[0])
	assert.Equal(t, Row{Key: "opts", Value: "{\n  \"limit\": 2\n}", Structured: true}, v.Rows[1])
	assert.Equal(t, "tags", v.Rows[2].Key)
	assert.True(t, v.Rows[2].Structured)
	assert.Contains(t, v.Rows[2].Value, `"a"`)
	assert.Equal(t, Row{Key: "n", Value: "3"}, v.Rows[3])
}

func TestToolResultLongArray(t *testing.T) {
	m := tool("t1", "[1,2,3,4,5,6]")

	collapsed := ToolResult(m, false)
	assert.True(t, collapsed.Structured)
	assert.True(t, collapsed.Toggle)
	assert.Equal(t, 6, collapsed.Total)
	require.Len(t, collapsed.Rows, 5)
	assert.Equal(t, Row{Key: "4", Value: "5"}, collapsed.Rows[4])

	expanded := ToolResult(m, true)
	assert.True(t, expanded.Toggle)
	require.Len(t, expanded.Rows, 6)
	assert.Equal(t, Row{Key: "5", Value: "6"}, expanded.Rows[5])
}

func TestToolResultShortArrayHasNoToggle(t *testing.T) {
	v := ToolResult(tool("t1", "[1,2,3,4,5]"), false)
	assert.False(t, v.Toggle)
	assert.Len(t, v.Rows, 5)
}

func TestToolResultObjectShowsAllRows(t *testing.T) {
	v := ToolResult(tool("t1", `{"a":1,"b":2,"c":3,"d":4,"e":5,"f":6,"g":{"h":true}}`), false)
	assert.True(t, v.Structured)
	assert.False(t, v.Toggle)
	require.Len(t, v.Rows, 7)
	assert.Equal(t, "g", v.Rows[6].Key)
	assert.True(t, v.Rows[6].Structured)
}

func TestToolResultLongText(t *testing.T) {
	long := strings.Repeat("a", 600)

	collapsed := ToolResult(tool("t1", long), false)
	assert.False(t, collapsed.Structured)
	assert.True(t, collapsed.Toggle)
	assert.Equal(t, strings.Repeat("a", 500)+"...", collapsed.Text)

	expanded := ToolResult(tool("t1", long), true)
	assert.Equal(t, long, expanded.Text)
	assert.True(t, expanded.Toggle)
}

func TestToolResultManyLines(t *testing.T) {
	v := ToolResult(tool("t1", "1\n2\n3\n4\n5\n6"), false)
	assert.True(t, v.Toggle)
	assert.Equal(t, "1\n2\n3\n4\n...", v.Text)

	short := ToolResult(tool("t1", "1\n2\n3\n4"), false)
	assert.False(t, short.Toggle)
	assert.Equal(t, "1\n2\n3\n4", short.Text)
}

func TestToolResultMalformedJSONIsText(t *testing.T) {
	v := ToolResult(tool("t1", `{"broken":`), false)
	assert.False(t, v.Structured)
	assert.Equal(t, `{"broken":`, v.Text)

	num := ToolResult(tool("t1", "42"), false)
	assert.False(t, num.Structured)
	assert.Equal(t, "42", num.Text)
}

func TestBuildUsesExpandedState(t *testing.T) {
	msgs := []models.Message{tool("t1", "[1,2,3,4,5,6]"), tool("t2", "[1,2,3,4,5,6,7]")}

	tree := Build(msgs, Options{Expanded: map[string]bool{"t2": true}})
	assert.Len(t, tree.Items[0].Result.Rows, 5)
	assert.Len(t, tree.Items[1].Result.Rows, 7)

	id, ok := NextCollapsed(tree)
	require.True(t, ok)
	assert.Equal(t, "t1", id)

	all := Build(msgs, Options{Expanded: map[string]bool{"t1": true, "t2": true}})
	_, ok = NextCollapsed(all)
	assert.False(t, ok)

	_, ok = NextCollapsed(Build([]models.Message{human("h", "x")}, Options{}))
	assert.False(t, ok)
}

func TestToolResultWithoutNameUsesDefault(t *testing.T) {
	m := tool("t1", "done")
	m.Name = ""
	assert.Equal(t, DefaultToolName, ToolResult(m, false).Name)

	m.Name = "lookup"
	assert.Equal(t, "lookup", ToolResult(m, false).Name)
}
