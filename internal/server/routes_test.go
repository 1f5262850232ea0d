package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/dlandlab/voicetrack/config"
	adminctrl "github.com/dlandlab/voicetrack/internal/controller/admin"
	userctrl "github.com/dlandlab/voicetrack/internal/controller/user"
	"github.com/dlandlab/voicetrack/internal/dto"
	"github.com/dlandlab/voicetrack/internal/model"
	"github.com/dlandlab/voicetrack/internal/repository"
	"github.com/dlandlab/voicetrack/internal/service"
	"github.com/dlandlab/voicetrack/internal/storage"
	"github.com/dlandlab/voicetrack/internal/testutil"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testSecret = "route-secret"

type testServer struct {
	engine *gin.Engine
	db     *gorm.DB
}

func setupTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Server:  config.Server{Port: "8080", GinMode: gin.TestMode, PublicBaseURL: "http://localhost:8080", MaxUploadBytes: 1 << 20},
		Storage: config.Storage{Driver: "local", LocalPath: t.TempDir(), SignedURLTTL: time.Hour},
		Auth:    config.Auth{JWTSecret: testSecret},
	}
	db := testutil.OpenDB(t)
	store, err := storage.NewLocalStore(cfg.Storage.LocalPath, cfg.Server.PublicBaseURL, cfg.Auth.JWTSecret, cfg.Storage.SignedURLTTL)
	require.NoError(t, err)

	participantRepo := repository.NewParticipantRepository(db)
	questionRepo := repository.NewQuestionRepository(db)
	recordingRepo := repository.NewRecordingRepository(db)
	assessmentRepo := repository.NewAssessmentRepository(db)

	tracker := service.NewProgressTracker(assessmentRepo)
	calculator := service.NewCompletionCalculator(recordingRepo, questionRepo)
	assessments := service.NewAssessmentService(tracker, calculator, assessmentRepo, participantRepo)
	participants := service.NewParticipantService(participantRepo, assessmentRepo, recordingRepo)
	questions := service.NewQuestionService(questionRepo, store)
	recordings := service.NewRecordingService(cfg, recordingRepo, questionRepo, participantRepo, tracker, store)
	analyzer, err := service.NewRecordingAnalyzer(cfg, recordingRepo, questionRepo, recordings, store)
	require.NoError(t, err)

	engine := NewGinEngine(cfg)
	RegisterRoutes(engine, cfg, Controllers{
		Assessments:      userctrl.NewAssessmentController(tracker, assessments),
		Recordings:       userctrl.NewRecordingController(recordings, assessments),
		Questions:        userctrl.NewQuestionController(questions),
		Participants:     userctrl.NewParticipantController(participants),
		Files:            userctrl.NewFileController(store),
		AdminAssessments: adminctrl.NewAssessmentController(assessments),
		AdminRecordings:  adminctrl.NewRecordingController(recordings, analyzer),
		AdminQuestions:   adminctrl.NewQuestionController(questions),
		AdminParticipant: adminctrl.NewParticipantController(participants),
	})
	return &testServer{engine: engine, db: db}
}

func (s *testServer) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) upload(t *testing.T, fields map[string]string, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if contentType != "" {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="recording"; filename="answer.wav"`)
		h.Set("Content-Type", contentType)
		part, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write([]byte("RIFF0000WAVE"))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/recordings", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)
	return rec
}

func adminToken(t *testing.T) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"userId": "admin", "exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	s := setupTestServer(t)
	for _, path := range []string{"/", "/api/health"} {
		rec := s.do(t, http.MethodGet, path, nil, "")
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}

func TestStatusOfUnknownParticipant(t *testing.T) {
	s := setupTestServer(t)
	rec := s.do(t, http.MethodGet, "/api/assessments/status/P9?language=chinese&testIndex=2", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode[dto.AssessmentDTO](t, rec)
	assert.Equal(t, "not_started", body.Status)
	assert.Equal(t, "chinese", body.Language)
	assert.Equal(t, 2, body.TestIndex)
	assert.Equal(t, 0, body.LastQuestionIndex)
}

func TestRecordingUploadFlow(t *testing.T) {
	s := setupTestServer(t)
	questions := testutil.CreateQuestions(t, s.db, "english", 10)

	rec := s.upload(t, map[string]string{
		"participantId": "P1",
		"questionId":    fmt.Sprint(questions[4].ID),
		"duration":      "2100",
	}, "audio/wav")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[dto.RecordingUploadResponse](t, rec)
	assert.True(t, created.Success)
	assert.Equal(t, "english", created.Recording.Language)

	rec = s.do(t, http.MethodGet, "/api/recordings/stats/P1", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	stats := decode[dto.AssessmentStatsDTO](t, rec)
	assert.EqualValues(t, 1, stats.TotalRecordings)
	assert.EqualValues(t, 10, stats.TotalQuestions)
	assert.Equal(t, 10, stats.CompletionPercentage)
	assert.Equal(t, "in_progress", stats.Status)
	assert.Equal(t, 4, stats.LastQuestionIndex)

	rec = s.do(t, http.MethodGet, "/api/recordings/participant/P1", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[[]dto.RecordingDTO](t, rec)
	require.Len(t, list, 1)

	// the signed audio url is servable
	u := strings.TrimPrefix(list[0].AudioURL, "http://localhost:8080")
	rec = s.do(t, http.MethodGet, u, nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "RIFF0000WAVE", rec.Body.String())

	rec = s.do(t, http.MethodGet, strings.Split(u, "?")[0]+"?token=forged", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRecordingAudioURLForEscapedParticipantID(t *testing.T) {
	s := setupTestServer(t)
	questions := testutil.CreateQuestions(t, s.db, "english", 3)

	rec := s.upload(t, map[string]string{
		"participantId": "P 1",
		"questionId":    fmt.Sprint(questions[0].ID),
	}, "audio/wav")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodGet, "/api/recordings/participant/P%201", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[[]dto.RecordingDTO](t, rec)
	require.Len(t, list, 1)

	u := strings.TrimPrefix(list[0].AudioURL, "http://localhost:8080")
	rec = s.do(t, http.MethodGet, u, nil, "")
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "RIFF0000WAVE", rec.Body.String())
}

func TestRecordingUploadErrors(t *testing.T) {
	s := setupTestServer(t)
	questions := testutil.CreateQuestions(t, s.db, "english", 1)
	qid := fmt.Sprint(questions[0].ID)

	rec := s.upload(t, map[string]string{"participantId": "P1", "questionId": qid}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.upload(t, map[string]string{"participantId": "P1", "questionId": qid}, "text/plain")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.upload(t, map[string]string{"questionId": qid}, "audio/wav")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.upload(t, map[string]string{"participantId": "P1", "questionId": "999"}, "audio/wav")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "question not found", decode[dto.ErrorResponse](t, rec).Message)
}

func TestUpdateStatusEndpoint(t *testing.T) {
	s := setupTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/assessments/status", map[string]any{
		"participantId": "P1", "status": "completed", "lastQuestionIndex": 7,
	}, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode[dto.AssessmentDTO](t, rec)
	assert.Equal(t, "completed", body.Status)
	assert.Equal(t, 7, body.LastQuestionIndex)
	assert.NotNil(t, body.CompletedAt)

	rec = s.do(t, http.MethodPost, "/api/assessments/status", map[string]any{
		"participantId": "P1", "status": "in_progress",
	}, "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/assessments/status", map[string]any{
		"participantId": "P1", "status": "paused",
	}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdminRoutesRequireAuth(t *testing.T) {
	s := setupTestServer(t)
	token := adminToken(t)

	for _, r := range []struct{ method, path string }{
		{http.MethodGet, "/api/participants"},
		{http.MethodGet, "/api/assessments"},
		{http.MethodPost, "/api/questions"},
		{http.MethodDelete, "/api/questions/1"},
		{http.MethodDelete, "/api/recordings/00000000-0000-0000-0000-000000000000"},
	} {
		rec := s.do(t, r.method, r.path, nil, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", r.method, r.path)
	}

	rec := s.do(t, http.MethodGet, "/api/participants", nil, token)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = s.do(t, http.MethodGet, "/api/assessments", nil, token)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAdminQuestionLifecycle(t *testing.T) {
	s := setupTestServer(t)
	token := adminToken(t)

	rec := s.do(t, http.MethodPost, "/api/questions", map[string]any{
		"language": "english", "sequenceId": 1, "audioType": "test", "displayNumber": 1, "text": "Question 1",
	}, token)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	q := decode[dto.QuestionDTO](t, rec)

	rec = s.do(t, http.MethodPost, "/api/questions", map[string]any{
		"language": "english", "sequenceId": 1, "audioType": "test", "text": "again",
	}, token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/questions?language=english&audioType=test", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]dto.QuestionDTO](t, rec), 1)

	rec = s.do(t, http.MethodDelete, fmt.Sprintf("/api/questions/%d", q.ID), nil, token)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = s.do(t, http.MethodGet, fmt.Sprintf("/api/questions/%d", q.ID), nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/questions/abc", nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestParticipantEndpoints(t *testing.T) {
	s := setupTestServer(t)
	token := adminToken(t)

	rec := s.do(t, http.MethodGet, "/api/participants/P1", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = s.do(t, http.MethodGet, "/api/assessments/participant/P1", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	require.NoError(t, s.db.Create(&model.Participant{ParticipantID: "P1"}).Error)

	rec = s.do(t, http.MethodPut, "/api/participants/P1", map[string]any{"age": 40, "notes": "left-handed"}, token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	p := decode[dto.ParticipantDTO](t, rec)
	require.NotNil(t, p.Age)
	assert.Equal(t, 40, *p.Age)

	rec = s.do(t, http.MethodGet, "/api/participants/P1", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	detail := decode[dto.ParticipantDetailDTO](t, rec)
	assert.Equal(t, "not_started", detail.Assessment.Status)
	assert.Equal(t, "left-handed", detail.Notes)
}

func TestAnalyzeWithoutGeminiKey(t *testing.T) {
	s := setupTestServer(t)
	questions := testutil.CreateQuestions(t, s.db, "english", 1)
	rec := s.upload(t, map[string]string{"participantId": "P1", "questionId": fmt.Sprint(questions[0].ID)}, "audio/wav")
	require.Equal(t, http.StatusCreated, rec.Code)
	id := decode[dto.RecordingUploadResponse](t, rec).Recording.ID

	rec = s.do(t, http.MethodPost, "/api/recordings/"+id+"/analyze", nil, adminToken(t))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPut, "/api/recordings/"+id+"/analysis", map[string]any{
		"transcription": "hello", "analysisResults": map[string]int{"fluency": 4},
	}, adminToken(t))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "hello", *decode[dto.RecordingDTO](t, rec).Transcription)

	rec = s.do(t, http.MethodDelete, "/api/recordings/"+id, nil, adminToken(t))
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = s.do(t, http.MethodGet, "/api/recordings/"+id, nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
