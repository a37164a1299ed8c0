package stylist_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"angella-backend/internal/openai"
	"angella-backend/internal/stylist"
	"angella-backend/internal/submission"
)

type capturingServer struct {
	server *httptest.Server

	systemText string
	userText   string
	imageURL   string
	editCalls  int
}

func newCapturingServer(t *testing.T) *capturingServer {
	t.Helper()
	s := &capturingServer{}
	s.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/responses":
			var req struct {
				Input []struct {
					Role    string `json:"role"`
					Content []struct {
						Type     string `json:"type"`
						Text     string `json:"text"`
						ImageURL string `json:"image_url"`
					} `json:"content"`
				} `json:"input"`
			}
			json.NewDecoder(r.Body).Decode(&req)
			for _, item := range req.Input {
				for _, part := range item.Content {
					switch {
					case item.Role == "system" && part.Type == "input_text":
						s.systemText = part.Text
					case item.Role == "user" && part.Type == "input_text":
						s.userText = part.Text
					case item.Role == "user" && part.Type == "input_image":
						s.imageURL = part.ImageURL
					}
				}
			}
			w.Write([]byte(`{"output":[{"content":[{"type":"output_text","text":"보고서"}]}]}`))
		case "/images/edits":
			s.editCalls++
			w.Write([]byte(`{"data":[{"b64_json":"Z3JpZA=="}]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(s.server.Close)
	return s
}

func newOrchestrator(s *capturingServer) *stylist.Orchestrator {
	return stylist.NewOrchestrator(openai.NewClient(s.server.URL, "key", "model", "image-model"))
}

func photo() string {
	return submission.PhotoDataURI("image/png", []byte("png-bytes"))
}

func TestAnalyze_UserTextFullFlow(t *testing.T) {
	srv := newCapturingServer(t)
	orch := newOrchestrator(srv)

	_, err := orch.Analyze(context.Background(), submission.Submission{
		Photo:           photo(),
		HeightCm:        167.5,
		WeightKg:        58,
		Style:           "casual",
		ColorPreference: "warm",
		Occasions:       []string{"daily", "date"},
	})

	assert.NoError(t, err)
	assert.Equal(t, "키 167.5cm, 몸무게 58kg\n선호 스타일: casual\n선호 컬러: warm\n주요 상황: 일상, 데이트", srv.userText)
	assert.Contains(t, srv.systemText, "퍼스널 스타일리스트")
	assert.Equal(t, photo(), srv.imageURL)
}

func TestAnalyze_UserTextDefaultsOccasions(t *testing.T) {
	srv := newCapturingServer(t)
	orch := newOrchestrator(srv)

	// Preferences present (color only) puts this in the full flow; with no
	// occasions picked, the daily default applies at analysis time.
	_, err := orch.Analyze(context.Background(), submission.Submission{
		Photo:           photo(),
		HeightCm:        170,
		WeightKg:        65,
		ColorPreference: "cool",
	})

	assert.NoError(t, err)
	assert.Equal(t, "키 170cm, 몸무게 65kg\n선호 컬러: cool\n주요 상황: 일상", srv.userText)
}

func TestAnalyze_UserTextMinimalFlow(t *testing.T) {
	srv := newCapturingServer(t)
	orch := newOrchestrator(srv)

	_, err := orch.Analyze(context.Background(), submission.Submission{
		Photo:    photo(),
		HeightCm: 180,
		WeightKg: 75,
	})

	assert.NoError(t, err)
	assert.Equal(t, "키 180cm, 몸무게 75kg", srv.userText)
	assert.Equal(t, 0, srv.editCalls)
}

func TestAnalyze_UnparseablePhotoSkipsImageStage(t *testing.T) {
	srv := newCapturingServer(t)
	orch := newOrchestrator(srv)

	// The full flow wants a hairstyle image, but the photo is not a data
	// URI the image stage can decode. That reduces to "no image", never an
	// error: the report still comes back.
	result, err := orch.Analyze(context.Background(), submission.Submission{
		Photo: "https://example.com/photo.png",
		Style: "formal",
	})

	assert.NoError(t, err)
	assert.Equal(t, "보고서", result.Report)
	assert.Empty(t, result.HairstyleImage)
	assert.Equal(t, 0, srv.editCalls)
}

func TestAnalyze_ValidationBeforeUpstream(t *testing.T) {
	// Point at a dead address: validation failures must never reach it.
	orch := stylist.NewOrchestrator(openai.NewClient("http://127.0.0.1:1", "key", "model", "image-model"))

	var validationErr *stylist.ValidationError

	_, err := orch.Analyze(context.Background(), submission.Submission{Style: "minimal"})
	assert.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "사진 정보가 필요합니다.", validationErr.Message)

	_, err = orch.Analyze(context.Background(), submission.Submission{})
	assert.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "사진, 키, 몸무게 정보가 필요합니다.", validationErr.Message)

	_, err = orch.Analyze(context.Background(), submission.Submission{Photo: photo(), HeightCm: 170})
	assert.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "사진, 키, 몸무게 정보가 필요합니다.", validationErr.Message)
}
