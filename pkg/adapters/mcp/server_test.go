package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/aretw0/moore/pkg/domain"
	"github.com/aretw0/moore/pkg/registry"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleProcess(t *testing.T) {
	s := NewServer()
	ctx := context.Background()

	res, err := s.handleProcess(ctx, mcp.CallToolRequest{}, ProcessArgs{Input: "11001", IncludeInitial: true})
	require.NoError(t, err)
	assert.Equal(t, "reference", res.Table)
	assert.Equal(t, domain.StateA, res.Start)
	assert.Equal(t, []domain.Output{"A", "B", "B", "B", "A", "B"}, res.Outputs)
	assert.Equal(t, domain.StateB, res.Final)
	assert.Len(t, res.Transitions, 5)

	res, err = s.handleProcess(ctx, mcp.CallToolRequest{}, ProcessArgs{Start: "E", Input: "1"})
	require.NoError(t, err)
	assert.Equal(t, []domain.Output{"C"}, res.Outputs)
	assert.Equal(t, domain.StateE, res.Final)
}

func TestHandleProcess_Errors(t *testing.T) {
	s := NewServer()
	ctx := context.Background()

	_, err := s.handleProcess(ctx, mcp.CallToolRequest{}, ProcessArgs{Input: "012"})
	assert.ErrorIs(t, err, domain.ErrInvalidSymbol)

	_, err = s.handleProcess(ctx, mcp.CallToolRequest{}, ProcessArgs{Start: "Z", Input: "0"})
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	_, err = s.handleProcess(ctx, mcp.CallToolRequest{}, ProcessArgs{Table: "ghost", Input: "0"})
	assert.ErrorIs(t, err, registry.ErrTableNotFound)
}

func TestHandleStep(t *testing.T) {
	s := NewServer()
	ctx := context.Background()

	tr, err := s.handleStep(ctx, mcp.CallToolRequest{}, StepArgs{State: "Da", Symbol: "1"})
	require.NoError(t, err)
	assert.Equal(t, domain.Transition{From: "Da", Symbol: domain.One, To: "Cb", Output: "C"}, tr)

	_, err = s.handleStep(ctx, mcp.CallToolRequest{}, StepArgs{State: "A", Symbol: "2"})
	assert.ErrorIs(t, err, domain.ErrInvalidSymbol)

	_, err = s.handleStep(ctx, mcp.CallToolRequest{}, StepArgs{State: "A", Symbol: ""})
	assert.ErrorIs(t, err, domain.ErrInvalidSymbol)

	_, err = s.handleStep(ctx, mcp.CallToolRequest{}, StepArgs{State: "Q", Symbol: "0"})
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestHandleGetTable_CustomTable(t *testing.T) {
	toggle := domain.MustTable("toggle",
		domain.Row{ID: "off", Output: "0", Next: [domain.NumSymbols]domain.StateID{"off", "on"}},
		domain.Row{ID: "on", Output: "1", Next: [domain.NumSymbols]domain.StateID{"on", "off"}},
	)
	s := NewServer(WithRegistry(registry.NewRegistry(toggle)))

	res, err := s.handleGetTable(context.Background(), mcp.CallToolRequest{}, TableArgs{Table: "toggle"})
	require.NoError(t, err)
	assert.Equal(t, "toggle", res.Name)
	assert.Equal(t, domain.StateID("off"), res.Start)
	assert.Len(t, res.States, 2)
}

func TestReadTableResource(t *testing.T) {
	s := NewServer()

	contents, err := s.readTable(context.Background(), mcp.ReadResourceRequest{})
	require.NoError(t, err)
	require.Len(t, contents, 1)

	text, ok := contents[0].(mcp.TextResourceContents)
	require.True(t, ok)
	assert.Equal(t, TableURI, text.URI)

	var table TableResult
	require.NoError(t, json.Unmarshal([]byte(text.Text), &table))
	assert.Equal(t, "reference", table.Name)
	assert.Equal(t, domain.Reference().Rows(), table.States)
}

func TestHandleGetGraph(t *testing.T) {
	s := NewServer()

	res, err := s.handleGetGraph(context.Background(), mcp.CallToolRequest{})
	require.NoError(t, err)
	require.False(t, res.IsError)
	require.NotEmpty(t, res.Content)

	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	assert.Contains(t, text.Text, `s_A(("A / A"))`)
}
