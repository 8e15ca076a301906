package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"secret-santa-backend/internal/models"
	"secret-santa-backend/internal/services"
)

func setupRouter(t *testing.T) *gin.Engine {
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.Room{}, &models.Participant{}, &models.Pairing{}))

	roomService := services.NewRoomService(db)
	roomHandler := NewRoomHandler(roomService)
	playHandler := NewPlayHandler(roomService)

	r := gin.New()
	api := r.Group("/api/v1")
	rooms := api.Group("/rooms")
	rooms.POST("", roomHandler.CreateRoom)
	rooms.GET("/:id", roomHandler.GetRoom)
	rooms.POST("/:id/lock", roomHandler.LockRoom)
	rooms.POST("/:id/pairings", roomHandler.GeneratePairing)
	rooms.GET("/:id/pairings", roomHandler.GetAllPairings)
	rooms.POST("/:id/reveal", roomHandler.RevealRoom)
	play := api.Group("/play")
	play.POST("/join", playHandler.Join)
	play.GET("/my-pairing", playHandler.GetMyPairing)
	play.PUT("/profile", playHandler.UpdateProfile)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type roomEnvelope struct {
	Room        models.Room        `json:"room"`
	Participant models.Participant `json:"participant"`
}

func createTestRoom(t *testing.T, r *gin.Engine, hostName string) roomEnvelope {
	w := doJSON(t, r, "POST", "/api/v1/rooms", gin.H{
		"host_name":  hostName,
		"budget_min": 300,
		"budget_max": 500,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var env roomEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestCreateRoomEndpoint(t *testing.T) {
	r := setupRouter(t)

	env := createTestRoom(t, r, "Alice")
	assert.Len(t, env.Room.Code, 6)
	assert.Equal(t, models.RoomStageOpen, env.Room.Stage)
	assert.True(t, env.Participant.IsHost)
}

func TestCreateRoomEndpoint_InvalidBudget(t *testing.T) {
	r := setupRouter(t)

	w := doJSON(t, r, "POST", "/api/v1/rooms", gin.H{
		"host_name":  "Alice",
		"budget_min": 500,
		"budget_max": 300,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestJoinEndpoint(t *testing.T) {
	r := setupRouter(t)
	env := createTestRoom(t, r, "Alice")

	w := doJSON(t, r, "POST", "/api/v1/play/join", gin.H{
		"code": env.Room.Code,
		"name": "Bob",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var joined roomEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &joined))
	assert.Equal(t, env.Room.ID, joined.Room.ID)
	assert.False(t, joined.Participant.IsHost)

	// Rejoining with the same name returns the same participant.
	w = doJSON(t, r, "POST", "/api/v1/play/join", gin.H{
		"code": env.Room.Code,
		"name": "bob",
	})
	require.Equal(t, http.StatusOK, w.Code)
	var rejoined roomEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rejoined))
	assert.Equal(t, joined.Participant.ID, rejoined.Participant.ID)
}

func TestJoinEndpoint_UnknownCode(t *testing.T) {
	r := setupRouter(t)

	w := doJSON(t, r, "POST", "/api/v1/play/join", gin.H{
		"code": "NOPE99",
		"name": "Bob",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestJoinEndpoint_LockedRoom(t *testing.T) {
	r := setupRouter(t)
	env := createTestRoom(t, r, "Alice")

	w := doJSON(t, r, "POST", fmt.Sprintf("/api/v1/rooms/%s/lock", env.Room.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, "POST", "/api/v1/play/join", gin.H{
		"code": env.Room.Code,
		"name": "Bob",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestUpdateProfileEndpoint(t *testing.T) {
	r := setupRouter(t)
	env := createTestRoom(t, r, "Alice")

	w := doJSON(t, r, "PUT", "/api/v1/play/profile", gin.H{
		"participant_id": env.Participant.ID,
		"color":          "red",
		"occasion":       "office party",
		"feeling":        "cozy",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var updated models.Participant
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.True(t, updated.IsReady)
}

func TestPairingEndpoints(t *testing.T) {
	r := setupRouter(t)
	env := createTestRoom(t, r, "Alice")

	for _, name := range []string{"Bob", "Carol"} {
		w := doJSON(t, r, "POST", "/api/v1/play/join", gin.H{
			"code": env.Room.Code,
			"name": name,
		})
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := doJSON(t, r, "POST", fmt.Sprintf("/api/v1/rooms/%s/pairings", env.Room.ID), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, r, "GET",
		fmt.Sprintf("/api/v1/play/my-pairing?room_id=%s&participant_id=%s", env.Room.ID, env.Participant.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var mine struct {
		Receiver *models.Participant `json:"receiver"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &mine))
	require.NotNil(t, mine.Receiver)
	assert.NotEqual(t, env.Participant.ID, mine.Receiver.ID)

	w = doJSON(t, r, "POST", fmt.Sprintf("/api/v1/rooms/%s/reveal", env.Room.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, "GET", fmt.Sprintf("/api/v1/rooms/%s/pairings", env.Room.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var pairs []services.PairingPair
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &pairs))
	assert.Len(t, pairs, 3)
}

func TestGeneratePairingEndpoint_TooFewParticipants(t *testing.T) {
	r := setupRouter(t)
	env := createTestRoom(t, r, "Alice")

	w := doJSON(t, r, "POST", fmt.Sprintf("/api/v1/rooms/%s/pairings", env.Room.ID), nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}
