package adapter

import (
	"context"
	"errors"
	"testing"

	"github.com/Cyclone1070/mentat/internal/tool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echoRequest struct {
	Text  string `mapstructure:"text"`
	Times int    `mapstructure:"times"`
}

func (r *echoRequest) Validate() error {
	if r.Text == "" {
		return errors.New("text is required")
	}
	return nil
}

type echoResponse struct {
	Out string `json:"out"`
}

func echo(_ context.Context, req echoRequest) (*echoResponse, error) {
	out := ""
	for i := 0; i < max(req.Times, 1); i++ {
		out += req.Text
	}
	return &echoResponse{Out: out}, nil
}

func newEcho() *BaseAdapter[echoRequest, *echoResponse] {
	return NewBaseAdapter("echo", "Repeat text", &tool.Schema{Type: tool.TypeObject}, echo)
}

func TestBaseAdapter_Execute(t *testing.T) {
	a := newEcho()

	out, err := a.Execute(context.Background(), map[string]any{"text": "ab", "times": float64(3)})

	require.NoError(t, err)
	assert.JSONEq(t, `{"out":"ababab"}`, out)
	assert.Equal(t, "echo", a.Name())
	assert.Equal(t, "Repeat text", a.Description())
	assert.Equal(t, "echo", a.Declaration().Name)
}

func TestBaseAdapter_RejectsUnknownArguments(t *testing.T) {
	_, err := newEcho().Execute(context.Background(), map[string]any{"text": "a", "txet": "b"})

	var argErr *ArgumentError
	require.ErrorAs(t, err, &argErr)
	assert.Equal(t, "echo", argErr.Tool)
}

func TestBaseAdapter_RejectsWrongTypes(t *testing.T) {
	_, err := newEcho().Execute(context.Background(), map[string]any{"text": []any{"a"}})

	var argErr *ArgumentError
	assert.ErrorAs(t, err, &argErr)
}

func TestBaseAdapter_RunsValidation(t *testing.T) {
	_, err := newEcho().Execute(context.Background(), map[string]any{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "echo validation failed")
}

func TestBaseAdapter_PropagatesExecutorError(t *testing.T) {
	boom := errors.New("boom")
	a := NewBaseAdapter("fail", "", nil, func(context.Context, echoRequest) (*echoResponse, error) {
		return nil, boom
	})

	_, err := a.Execute(context.Background(), map[string]any{"text": "x"})

	assert.ErrorIs(t, err, boom)
}

func TestRegistry(t *testing.T) {
	r := NewRegistry(newEcho(), NewBaseAdapter("alpha", "", nil, echo))

	assert.Equal(t, []string{"alpha", "echo"}, r.Names())
	decls := r.Declarations()
	require.Len(t, decls, 2)
	assert.Equal(t, "alpha", decls[0].Name)

	out, err := r.Execute(context.Background(), "echo", map[string]any{"text": "z"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"out":"z"}`, out)

	_, err = r.Execute(context.Background(), "missing", nil)
	assert.ErrorIs(t, err, ErrUnknownTool)

	_, ok := r.Get("echo")
	assert.True(t, ok)
}
