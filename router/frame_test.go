package router

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify_DataFrames(t *testing.T) {
	for _, kind := range []FrameKind{FrameText, FrameBinary, FramePing, FramePong} {
		t.Run(kind.String(), func(t *testing.T) {
			req := Classify(Frame{Kind: kind, Data: []byte("payload")})
			assert.Equal(t, kind, req.Kind())
			assert.Equal(t, []byte("payload"), req.Bytes())
		})
	}
}

func TestClassify_CloseRoundTrip(t *testing.T) {
	req := Classify(Frame{Kind: FrameClose, Close: &ClosePayload{Reason: "bye", Code: 1001}})
	require.Equal(t, FrameClose, req.Kind())

	body, err := req.Text()
	require.NoError(t, err)
	assert.Equal(t, `{"reason":"bye","code":1001}`, body)

	payload, err := CloseReason().Extract(req, nil)
	require.NoError(t, err)
	require.NotNil(t, payload)
	assert.Equal(t, ClosePayload{Reason: "bye", Code: 1001}, *payload)
}

func TestClassify_CloseWithoutPayload(t *testing.T) {
	req := Classify(Frame{Kind: FrameClose})
	assert.True(t, req.IsEmpty())

	payload, err := CloseReason().Extract(req, nil)
	require.NoError(t, err)
	assert.Nil(t, payload)
}

func TestRequest_FrameInverse(t *testing.T) {
	f, err := NewRequest(FrameText, []byte("hi")).Frame()
	require.NoError(t, err)
	assert.Equal(t, TextFrame("hi"), f)

	f, err = NewRequest(FrameClose, []byte(`{"reason":"done","code":1000}`)).Frame()
	require.NoError(t, err)
	assert.Equal(t, &ClosePayload{Reason: "done", Code: 1000}, f.Close)

	f, err = NewRequest(FramePing, []byte{1, 2}).Frame()
	require.NoError(t, err)
	assert.Equal(t, Frame{Kind: FramePing, Data: []byte{1, 2}}, f)
}

func TestRequest_FrameRejectsBadInput(t *testing.T) {
	_, err := NewRequest(FrameText, []byte{0xff, 0xfe}).Frame()
	assert.ErrorIs(t, err, ErrInvalidUTF8)

	_, err = NewRequest(FrameClose, []byte("not json")).Frame()
	var rej *Rejection
	require.ErrorAs(t, err, &rej)
	assert.Equal(t, StatusJSONError, rej.Status)
}

func TestNewRequest_CopiesBody(t *testing.T) {
	body := []byte("abc")
	req := NewRequest(FrameBinary, body)
	body[0] = 'x'
	assert.Equal(t, []byte("abc"), req.Bytes())

	out := req.Bytes()
	out[0] = 'y'
	assert.Equal(t, []byte("abc"), req.Bytes())
}
