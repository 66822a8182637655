package router

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type countingExtractor struct {
	calls *int
	fail  bool
}

func (e countingExtractor) Extract(req Request, _ any) (string, error) {
	*e.calls++
	if e.fail {
		return "", Reject(StatusFromStringError, errors.New("refused"))
	}
	return req.Text()
}

func TestHandle0(t *testing.T) {
	h := Handle0(func(context.Context) error { return nil })
	assert.Equal(t, Response{Status: StatusNoContent}, h.Invoke(context.Background(), NewRequest(FrameText, nil), nil))
}

func TestHandle_Arity(t *testing.T) {
	req := NewRequest(FrameText, []byte("test_data"))
	ctx := context.Background()

	h1 := Handle1(String(), func(_ context.Context, a string) string {
		return "Processed: " + a
	})
	assert.Equal(t, OK("Processed: test_data"), h1.Invoke(ctx, req, nil))

	h2 := Handle2(String(), String(), func(_ context.Context, a, b string) string {
		return "Processed: " + a + " and " + b
	})
	assert.Equal(t, OK("Processed: test_data and test_data"), h2.Invoke(ctx, req, nil))

	h3 := Handle3(String(), Bytes(), Raw(), func(_ context.Context, a string, b []byte, r Request) string {
		return strings.Join([]string{a, string(b), r.Kind().String()}, "|")
	})
	assert.Equal(t, OK("test_data|test_data|text"), h3.Invoke(ctx, req, nil))

	h4 := Handle4(String(), String(), String(), State[int](), func(_ context.Context, a, b, c string, n int) Responder {
		return Optional(a+b+c, n == 42)
	})
	assert.Equal(t, OK("test_datatest_datatest_data"), h4.Invoke(ctx, req, 42))
	assert.Equal(t, Error(StatusNotFound, "Not Found"), h4.Invoke(ctx, req, 7))
}

func TestHandle_ShortCircuit(t *testing.T) {
	var first, second, third int
	called := false

	h := Handle3(
		countingExtractor{calls: &first},
		countingExtractor{calls: &second, fail: true},
		countingExtractor{calls: &third},
		func(context.Context, string, string, string) string {
			called = true
			return "unreachable"
		},
	)

	res := h.Invoke(context.Background(), NewRequest(FrameText, []byte("x")), nil)
	assert.Equal(t, StatusFromStringError, res.Status)
	assert.Equal(t, 1, first)
	assert.Equal(t, 1, second)
	assert.Equal(t, 0, third)
	assert.False(t, called)
}

func TestHandle_ReceivesContext(t *testing.T) {
	type key struct{}
	ctx := context.WithValue(context.Background(), key{}, "conn-1")

	h := Handle0(func(ctx context.Context) string {
		v, _ := ctx.Value(key{}).(string)
		return v
	})
	assert.Equal(t, OK("conn-1"), h.Invoke(ctx, NewRequest(FrameText, nil), nil))
}
