package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/chatlead/agent-console/internal/model"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(Options{BaseURL: srv.URL, Token: "opaque-token"})
}

func TestListConversationsSendsFilterQuery(t *testing.T) {
	var gotQuery map[string]string
	var gotAuth, gotCorrelation string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/conversations", r.URL.Path)
		gotQuery = map[string]string{
			"search":   r.URL.Query().Get("search"),
			"takeover": r.URL.Query().Get("takeover"),
			"unread":   r.URL.Query().Get("unread"),
			"tags":     r.URL.Query().Get("tags"),
		}
		gotAuth = r.Header.Get("Authorization")
		gotCorrelation = r.Header.Get("X-Correlation-ID")
		_ = json.NewEncoder(w).Encode(model.ListConversationsResponse{
			Conversations: []model.Conversation{{Phone: "15550001"}},
		})
	})

	conversations, err := client.ListConversations(context.Background(), model.ConversationFilter{
		Search: "ana",
		Unread: model.UnreadYes,
		Tags:   "vip",
	})
	require.NoError(t, err)

	require.Len(t, conversations, 1)
	require.Equal(t, "ana", gotQuery["search"])
	require.Equal(t, "all", gotQuery["takeover"], "empty filter defaults to all")
	require.Equal(t, "yes", gotQuery["unread"])
	require.Equal(t, "vip", gotQuery["tags"])
	require.Equal(t, "Bearer opaque-token", gotAuth)
	require.NotEmpty(t, gotCorrelation)
}

func TestListMessagesEscapesPhone(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/conversations/+15550001/messages", r.URL.Path)
		_ = json.NewEncoder(w).Encode(model.ListMessagesResponse{
			Messages: []model.Message{{ID: 1, Type: model.TypeText, Text: "hola"}},
		})
	})

	messages, err := client.ListMessages(context.Background(), "+15550001")
	require.NoError(t, err)
	require.Len(t, messages, 1)
}

func TestAPIErrorParsesDetail(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"detail": "phone is required"}`))
	})

	err := client.MarkRead(context.Background(), "15550001")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
	require.Equal(t, "phone is required", apiErr.Message)
	require.Contains(t, apiErr.Error(), "422")
}

func TestAPIErrorFallsBackToRawBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream timeout"))
	})

	err := client.MarkRead(context.Background(), "15550001")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, "upstream timeout", apiErr.Message)
}

func TestUploadMediaMultipartFields(t *testing.T) {
	var gotKind, gotFileName, gotMime string
	var gotBody []byte
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/media/upload", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))

		gotKind = r.FormValue("kind")
		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		gotFileName = header.Filename
		gotMime = header.Header.Get("Content-Type")
		gotBody, err = io.ReadAll(file)
		require.NoError(t, err)

		_ = json.NewEncoder(w).Encode(model.MediaUpload{
			OK:       true,
			MediaID:  "media-9",
			MimeType: gotMime,
			FileName: gotFileName,
			Kind:     gotKind,
		})
	})

	upload, err := client.UploadMedia(context.Background(), UploadRequest{
		Kind:     "audio",
		FileName: "voice-note.ogg",
		MimeType: "audio/ogg",
		Reader:   strings.NewReader("opus-bytes"),
	})
	require.NoError(t, err)

	require.Equal(t, "audio", gotKind)
	require.Equal(t, "voice-note.ogg", gotFileName)
	require.Equal(t, "audio/ogg", gotMime)
	require.Equal(t, "opus-bytes", string(gotBody))
	require.Equal(t, "media-9", upload.MediaID)
}

func TestMediaProxyURL(t *testing.T) {
	client := New(Options{BaseURL: "https://backend.example/"})
	require.Equal(t, "https://backend.example/api/media/proxy/media%2F9", client.MediaProxyURL("media/9"))
}

func TestFetchMediaStreamsBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/media/proxy/media-9", r.URL.Path)
		_, _ = w.Write([]byte("jpeg-bytes"))
	})

	body, err := client.FetchMedia(context.Background(), "media-9")
	require.NoError(t, err)
	defer body.Close()

	raw, err := io.ReadAll(body)
	require.NoError(t, err)
	require.Equal(t, "jpeg-bytes", string(raw))
}

func TestUploadedMediaRoundTripsThroughProxy(t *testing.T) {
	stored := map[string][]byte{}
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/api/media/upload":
			require.NoError(t, r.ParseMultipartForm(1<<20))
			file, header, err := r.FormFile("file")
			require.NoError(t, err)
			defer file.Close()
			raw, err := io.ReadAll(file)
			require.NoError(t, err)
			stored["media-41"] = raw
			_ = json.NewEncoder(w).Encode(model.MediaUpload{
				OK:       true,
				MediaID:  "media-41",
				MimeType: header.Header.Get("Content-Type"),
				FileName: header.Filename,
				Kind:     r.FormValue("kind"),
			})
		case strings.HasPrefix(r.URL.Path, "/api/media/proxy/"):
			raw, ok := stored[strings.TrimPrefix(r.URL.Path, "/api/media/proxy/")]
			require.True(t, ok)
			_, _ = w.Write(raw)
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	})

	content := "%PDF-1.7 price list body"
	upload, err := client.UploadMedia(context.Background(), UploadRequest{
		Kind:     "document",
		FileName: "price-list.pdf",
		MimeType: "application/pdf",
		Reader:   strings.NewReader(content),
	})
	require.NoError(t, err)

	body, err := client.FetchMedia(context.Background(), upload.MediaID)
	require.NoError(t, err)
	defer body.Close()

	raw, err := io.ReadAll(body)
	require.NoError(t, err)
	require.Equal(t, content, string(raw))
}

func TestSendMessageSerializesNullFields(t *testing.T) {
	var payload map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/messages/ingest", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok": true}`))
	})

	caption := ""
	err := client.SendMessage(context.Background(), model.OutboundMessage{
		Phone:        "15550001",
		Direction:    model.DirectionOut,
		Type:         model.TypeImage,
		MediaCaption: &caption,
	})
	require.NoError(t, err)

	require.Equal(t, "", payload["media_caption"], "empty caption is a string, not null")
	require.Contains(t, payload, "media_id")
	require.Nil(t, payload["media_id"], "unset media fields serialize as null")
}

func TestSearchProductsClampsPaging(t *testing.T) {
	var gotPage, gotPerPage string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/wc/products", r.URL.Path)
		gotPage = r.URL.Query().Get("page")
		gotPerPage = r.URL.Query().Get("per_page")
		_ = json.NewEncoder(w).Encode(model.ProductsResponse{})
	})

	_, err := client.SearchProducts(context.Background(), "roses", 0, 500)
	require.NoError(t, err)
	require.Equal(t, "1", gotPage)
	require.Equal(t, "12", gotPerPage)
}

func TestListKnowledgeFilesDecodesBareArray(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/ai/knowledge/files", r.URL.Path)
		require.Equal(t, "yes", r.URL.Query().Get("active"))
		require.Equal(t, "200", r.URL.Query().Get("limit"))
		_, _ = w.Write([]byte(`[{"id": "kb-1", "file_name": "faq.pdf", "is_active": true}]`))
	})

	files, err := client.ListKnowledgeFiles(context.Background(), model.KnowledgeActive, 0)
	require.NoError(t, err)
	require.Len(t, files, 1)
	require.Equal(t, "faq.pdf", files[0].FileName)
}

func TestUpdateAISettingsRoundTrips(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		require.Equal(t, "/api/ai/settings", r.URL.Path)

		var settings model.AISettings
		require.NoError(t, json.NewDecoder(r.Body).Decode(&settings))
		settings.ID = 1
		_ = json.NewEncoder(w).Encode(settings)
	})

	saved, err := client.UpdateAISettings(context.Background(), model.AISettings{Provider: "groq", MaxTokens: 512})
	require.NoError(t, err)
	require.Equal(t, 1, saved.ID)
	require.Equal(t, "groq", saved.Provider)
}

func TestListModelsCatalog(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/ai/models", r.URL.Path)
		_, _ = w.Write([]byte(`{"providers": {"groq": ["llama-3.3-70b"]}, "defaults": {"provider": "groq"}}`))
	})

	catalog, err := client.ListModels(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"llama-3.3-70b"}, catalog.Providers["groq"])
	require.Equal(t, "groq", catalog.Defaults["provider"])
}

func TestHealthProbe(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/health", r.URL.Path)
		_ = json.NewEncoder(w).Encode(model.HealthResponse{OK: true, Build: "2026.08.1"})
	})

	health, err := client.Health(context.Background())
	require.NoError(t, err)
	require.True(t, health.OK)
	require.Equal(t, "2026.08.1", health.Build)
}

func TestClientTimeoutApplies(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(50 * time.Millisecond)
		_, _ = w.Write([]byte(`{"ok": true}`))
	})
	client.http.Timeout = 5 * time.Millisecond

	_, err := client.Health(context.Background())
	require.Error(t, err)
}
