package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"angella-backend/internal/handlers"
	"angella-backend/internal/models"
	"angella-backend/internal/openai"
	"angella-backend/internal/stylist"
	"angella-backend/internal/submission"
)

// fakeOpenAI stands in for the OpenAI API and counts calls per endpoint so
// tests can assert which stages actually ran.
type fakeOpenAI struct {
	server *httptest.Server

	responsesCalls  int64
	imageEditsCalls int64

	responsesStatus int
	responsesBody   string
	imageStatus     int
	imageBody       string

	lastUserText string
}

func newFakeOpenAI(t *testing.T) *fakeOpenAI {
	t.Helper()
	f := &fakeOpenAI{
		responsesStatus: http.StatusOK,
		responsesBody:   `{"output":[{"content":[{"type":"output_text","text":"맞춤형 스타일 보고서"}]}]}`,
		imageStatus:     http.StatusOK,
		imageBody:       `{"data":[{"b64_json":"Z3JpZA=="}]}`,
	}
	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/responses":
			atomic.AddInt64(&f.responsesCalls, 1)
			var req struct {
				Input []struct {
					Role    string `json:"role"`
					Content []struct {
						Type string `json:"type"`
						Text string `json:"text"`
					} `json:"content"`
				} `json:"input"`
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err == nil {
				for _, item := range req.Input {
					if item.Role != "user" {
						continue
					}
					for _, part := range item.Content {
						if part.Type == "input_text" {
							f.lastUserText = part.Text
						}
					}
				}
			}
			w.WriteHeader(f.responsesStatus)
			w.Write([]byte(f.responsesBody))
		case "/images/edits":
			atomic.AddInt64(&f.imageEditsCalls, 1)
			w.WriteHeader(f.imageStatus)
			w.Write([]byte(f.imageBody))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(f.server.Close)
	return f
}

func newAnalyzeRouter(f *fakeOpenAI) *gin.Engine {
	gin.SetMode(gin.TestMode)
	ai := openai.NewClient(f.server.URL, "test-key", "test-model", "test-image-model")
	handler := handlers.NewAnalyzeHandler(stylist.NewOrchestrator(ai))

	router := gin.New()
	router.POST("/api/analyze", handler.Analyze)
	return router
}

func postAnalyze(router *gin.Engine, req models.AnalyzeRequest) *httptest.ResponseRecorder {
	body, _ := json.Marshal(req)
	httpReq, _ := http.NewRequest("POST", "/api/analyze", bytes.NewBuffer(body))
	httpReq.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httpReq)
	return w
}

func testPhoto() string {
	return submission.PhotoDataURI("image/png", []byte("fake-png-bytes"))
}

func TestAnalyze_FullFlow(t *testing.T) {
	fake := newFakeOpenAI(t)
	router := newAnalyzeRouter(fake)

	w := postAnalyze(router, models.AnalyzeRequest{
		Photo:           testPhoto(),
		HeightCm:        170,
		WeightKg:        65,
		Style:           "minimal",
		ColorPreference: "neutral",
		Occasions:       []string{"office", "date"},
	})

	assert.Equal(t, http.StatusOK, w.Code)

	var resp models.AnalyzeResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "맞춤형 스타일 보고서", resp.Report)
	assert.Equal(t, "data:image/png;base64,Z3JpZA==", resp.HairstyleImage)

	assert.Equal(t, int64(1), fake.responsesCalls)
	assert.Equal(t, int64(1), fake.imageEditsCalls)
	assert.Contains(t, fake.lastUserText, "키 170cm, 몸무게 65kg")
	assert.Contains(t, fake.lastUserText, "선호 스타일: minimal")
	assert.Contains(t, fake.lastUserText, "선호 컬러: neutral")
	assert.Contains(t, fake.lastUserText, "주요 상황: 오피스, 데이트")
}

func TestAnalyze_MinimalFlow_SkipsImageStage(t *testing.T) {
	fake := newFakeOpenAI(t)
	router := newAnalyzeRouter(fake)

	w := postAnalyze(router, models.AnalyzeRequest{
		Photo:    testPhoto(),
		HeightCm: 180,
		WeightKg: 75,
	})

	assert.Equal(t, http.StatusOK, w.Code)

	var resp models.AnalyzeResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "맞춤형 스타일 보고서", resp.Report)
	assert.Empty(t, resp.HairstyleImage)

	assert.Equal(t, int64(1), fake.responsesCalls)
	assert.Equal(t, int64(0), fake.imageEditsCalls)
}

func TestAnalyze_MissingPhoto_FullFlow(t *testing.T) {
	fake := newFakeOpenAI(t)
	router := newAnalyzeRouter(fake)

	w := postAnalyze(router, models.AnalyzeRequest{
		Style: "casual",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "사진 정보가 필요합니다.")
	assert.Equal(t, int64(0), fake.responsesCalls)
	assert.Equal(t, int64(0), fake.imageEditsCalls)
}

func TestAnalyze_MissingMetrics_MinimalFlow(t *testing.T) {
	fake := newFakeOpenAI(t)
	router := newAnalyzeRouter(fake)

	w := postAnalyze(router, models.AnalyzeRequest{
		Photo:    testPhoto(),
		HeightCm: 170,
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "사진, 키, 몸무게 정보가 필요합니다.")
	assert.Equal(t, int64(0), fake.responsesCalls)
}

func TestAnalyze_ReportStageFails(t *testing.T) {
	fake := newFakeOpenAI(t)
	fake.responsesStatus = http.StatusBadGateway
	fake.responsesBody = `{"error":{"message":"upstream exploded"}}`
	router := newAnalyzeRouter(fake)

	w := postAnalyze(router, models.AnalyzeRequest{
		Photo:    testPhoto(),
		HeightCm: 170,
		WeightKg: 65,
		Style:    "formal",
	})

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var resp models.ErrorResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "AI 분석 중 오류가 발생했습니다.", resp.Error)
	assert.Contains(t, resp.Details, "upstream exploded")

	// The image stage never runs when the report stage fails.
	assert.Equal(t, int64(0), fake.imageEditsCalls)
}

func TestAnalyze_ImageStageFailureIsSoft(t *testing.T) {
	fake := newFakeOpenAI(t)
	fake.imageStatus = http.StatusInternalServerError
	fake.imageBody = `{"error":{"message":"image model down"}}`
	router := newAnalyzeRouter(fake)

	w := postAnalyze(router, models.AnalyzeRequest{
		Photo:     testPhoto(),
		HeightCm:  160,
		WeightKg:  50,
		Occasions: []string{"party"},
	})

	assert.Equal(t, http.StatusOK, w.Code)

	var resp models.AnalyzeResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "맞춤형 스타일 보고서", resp.Report)
	assert.Empty(t, resp.HairstyleImage)

	assert.Equal(t, int64(1), fake.responsesCalls)
	assert.Equal(t, int64(1), fake.imageEditsCalls)
}

func TestAnalyze_EmptyModelOutputUsesPlaceholder(t *testing.T) {
	fake := newFakeOpenAI(t)
	fake.responsesBody = `{"output":[{"content":[{"type":"reasoning","text":""}]}]}`
	router := newAnalyzeRouter(fake)

	w := postAnalyze(router, models.AnalyzeRequest{
		Photo:    testPhoto(),
		HeightCm: 170,
		WeightKg: 65,
	})

	assert.Equal(t, http.StatusOK, w.Code)

	var resp models.AnalyzeResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "보고서를 생성할 수 없습니다.", resp.Report)
}

func TestAnalyze_MalformedBody(t *testing.T) {
	fake := newFakeOpenAI(t)
	router := newAnalyzeRouter(fake)

	httpReq, _ := http.NewRequest("POST", "/api/analyze", bytes.NewBufferString("{not json"))
	httpReq.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httpReq)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "서버 오류가 발생했습니다.")
	assert.Equal(t, int64(0), fake.responsesCalls)
}
