package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"testing"

	"github.com/Jojie16/SafeZone/internal/media"
	"github.com/Jojie16/SafeZone/internal/model"
	"github.com/Jojie16/SafeZone/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
)

type MockChatService struct {
	mock.Mock
}

func (m *MockChatService) Append(ctx context.Context, p model.ChatMessageRequest) (*model.Message, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Message), args.Error(1)
}

func (m *MockChatService) GetChat(ctx context.Context, incidentID int64) ([]*model.Message, error) {
	args := m.Called(ctx, incidentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Message), args.Error(1)
}

type MockMediaIntake struct {
	mock.Mock
}

func (m *MockMediaIntake) Accept(fh *multipart.FileHeader) (string, error) {
	args := m.Called(fh)
	return args.String(0), args.Error(1)
}

func newFormCtx(uri string, fields map[string]string) *fasthttp.RequestCtx {
	ctx := new(fasthttp.RequestCtx)
	ctx.Request.Header.SetMethod("POST")
	ctx.Request.SetRequestURI(uri)
	ctx.Request.Header.SetContentType("application/x-www-form-urlencoded")
	for k, v := range fields {
		ctx.Request.PostArgs().Set(k, v)
	}
	ctx.Request.SetBodyString(ctx.Request.PostArgs().String())
	return ctx
}

func newMultipartCtx(t *testing.T, uri string, fields map[string]string, fileField, filename string, content []byte) *fasthttp.RequestCtx {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if fileField != "" {
		part, err := w.CreateFormFile(fileField, filename)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	ctx := new(fasthttp.RequestCtx)
	ctx.Request.Header.SetMethod("POST")
	ctx.Request.SetRequestURI(uri)
	ctx.Request.Header.SetContentType(w.FormDataContentType())
	ctx.Request.SetBody(buf.Bytes())
	return ctx
}

func TestChatHandler_GetChat(t *testing.T) {
	t.Run("returns the transcript", func(t *testing.T) {
		svc := new(MockChatService)
		h := NewChatHandler(svc, new(MockMediaIntake))

		svc.On("GetChat", mock.Anything, int64(42)).Return([]*model.Message{
			{ID: 1, IncidentID: 42, Sender: model.SenderUser, MessageText: "help"},
			{ID: 2, IncidentID: 42, Sender: model.SenderDispatcher, MessageText: "on the way"},
		}, nil)

		ctx := newJSONCtx("GET", "/api/v1/alerts/chat?incident_id=42", nil)
		h.GetChat(ctx)

		assert.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
		env := decodeEnvelope(t, ctx)
		require.True(t, env.Success)

		data, err := json.Marshal(env.Data)
		require.NoError(t, err)
		var resp chatResponse
		require.NoError(t, json.Unmarshal(data, &resp))
		require.Len(t, resp.Messages, 2)
		assert.Equal(t, "help", resp.Messages[0].MessageText)
	})

	t.Run("missing or malformed incident id", func(t *testing.T) {
		h := NewChatHandler(new(MockChatService), new(MockMediaIntake))

		for _, uri := range []string{
			"/api/v1/alerts/chat",
			"/api/v1/alerts/chat?incident_id=abc",
			"/api/v1/alerts/chat?incident_id=0",
			"/api/v1/alerts/chat?incident_id=-3",
		} {
			ctx := newJSONCtx("GET", uri, nil)
			h.GetChat(ctx)
			assert.Equal(t, fasthttp.StatusBadRequest, ctx.Response.StatusCode(), "uri %q", uri)
			assert.Equal(t, "Valid incident ID required", decodeEnvelope(t, ctx).Error)
		}
	})

	t.Run("unknown incident", func(t *testing.T) {
		svc := new(MockChatService)
		h := NewChatHandler(svc, new(MockMediaIntake))

		svc.On("GetChat", mock.Anything, int64(99)).Return(nil, services.ErrNotFound)

		ctx := newJSONCtx("GET", "/api/v1/alerts/chat?incident_id=99", nil)
		h.GetChat(ctx)

		assert.Equal(t, fasthttp.StatusNotFound, ctx.Response.StatusCode())
	})

	t.Run("empty transcript stays a JSON array", func(t *testing.T) {
		svc := new(MockChatService)
		h := NewChatHandler(svc, new(MockMediaIntake))

		svc.On("GetChat", mock.Anything, int64(42)).Return([]*model.Message(nil), nil)

		ctx := newJSONCtx("GET", "/api/v1/alerts/chat?incident_id=42", nil)
		h.GetChat(ctx)

		assert.Contains(t, string(ctx.Response.Body()), `"messages":[]`)
	})
}

func TestChatHandler_SendMessage(t *testing.T) {
	t.Run("text message", func(t *testing.T) {
		svc := new(MockChatService)
		h := NewChatHandler(svc, new(MockMediaIntake))

		svc.On("Append", mock.Anything, model.ChatMessageRequest{
			IncidentID:  42,
			Sender:      model.SenderDispatcher,
			MessageText: "on the way",
		}).Return(&model.Message{ID: 5, IncidentID: 42}, nil)

		ctx := newFormCtx("/api/v1/alerts/chat", map[string]string{
			"incident_id":  "42",
			"sender":       "dispatcher",
			"message_text": "on the way",
		})
		h.SendMessage(ctx)

		assert.Equal(t, fasthttp.StatusCreated, ctx.Response.StatusCode())
		assert.Contains(t, string(ctx.Response.Body()), "Message sent successfully")
		svc.AssertExpectations(t)
	})

	t.Run("message with media attachment", func(t *testing.T) {
		svc := new(MockChatService)
		intake := new(MockMediaIntake)
		h := NewChatHandler(svc, intake)

		intake.On("Accept", mock.Anything).Return("uploads/abc.jpg", nil)
		svc.On("Append", mock.Anything, model.ChatMessageRequest{
			IncidentID: 42,
			Sender:     model.SenderUser,
			MediaPath:  "uploads/abc.jpg",
		}).Return(&model.Message{ID: 6, IncidentID: 42, MediaPath: "uploads/abc.jpg"}, nil)

		ctx := newMultipartCtx(t, "/api/v1/alerts/chat", map[string]string{
			"incident_id": "42",
			"sender":      "user",
		}, "media", "photo.jpg", []byte("fake jpeg"))
		h.SendMessage(ctx)

		assert.Equal(t, fasthttp.StatusCreated, ctx.Response.StatusCode())
		intake.AssertExpectations(t)
		svc.AssertExpectations(t)
	})

	t.Run("rejected media never reaches the chat service", func(t *testing.T) {
		svc := new(MockChatService)
		intake := new(MockMediaIntake)
		h := NewChatHandler(svc, intake)

		intake.On("Accept", mock.Anything).Return("", media.ErrRejected)

		ctx := newMultipartCtx(t, "/api/v1/alerts/chat", map[string]string{
			"incident_id": "42",
			"sender":      "user",
		}, "media", "payload.exe", []byte("MZ"))
		h.SendMessage(ctx)

		assert.Equal(t, fasthttp.StatusBadRequest, ctx.Response.StatusCode())
		assert.Equal(t, "File upload failed", decodeEnvelope(t, ctx).Error)
		svc.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
	})

	t.Run("bad incident id", func(t *testing.T) {
		h := NewChatHandler(new(MockChatService), new(MockMediaIntake))

		ctx := newFormCtx("/api/v1/alerts/chat", map[string]string{
			"incident_id":  "zero",
			"sender":       "user",
			"message_text": "hi",
		})
		h.SendMessage(ctx)

		assert.Equal(t, fasthttp.StatusBadRequest, ctx.Response.StatusCode())
		assert.Equal(t, "Valid incident ID required", decodeEnvelope(t, ctx).Error)
	})

	t.Run("bad sender", func(t *testing.T) {
		h := NewChatHandler(new(MockChatService), new(MockMediaIntake))

		ctx := newFormCtx("/api/v1/alerts/chat", map[string]string{
			"incident_id":  "42",
			"sender":       "operator",
			"message_text": "hi",
		})
		h.SendMessage(ctx)

		assert.Equal(t, fasthttp.StatusBadRequest, ctx.Response.StatusCode())
		assert.Equal(t, "Valid sender required (user or dispatcher)", decodeEnvelope(t, ctx).Error)
	})
}
