package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardroomlabs/holdem/internal/game"
	"github.com/cardroomlabs/holdem/internal/randutil"
)

func startTestServer(t *testing.T) (*Server, string) {
	t.Helper()
	logger := log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
	table := game.NewTable(game.Config{
		SmallBlind:    10,
		BigBlind:      20,
		StartingChips: 1000,
	}, randutil.New(42), logger)

	s := NewServer("", table, nil, logger)
	go s.run()
	t.Cleanup(func() { _ = s.Stop() })

	ts := httptest.NewServer(http.HandlerFunc(s.handleWebSocket))
	t.Cleanup(ts.Close)

	return s, "ws" + strings.TrimPrefix(ts.URL, "http")
}

func dialTestServer(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func sendMessage(t *testing.T, conn *websocket.Conn, messageType MessageType, data interface{}) {
	t.Helper()
	msg, err := NewMessage(messageType, data)
	require.NoError(t, err)
	require.NoError(t, conn.WriteJSON(msg))
}

// waitForMessage reads until a message of the wanted type arrives, skipping
// interleaved state broadcasts.
func waitForMessage(t *testing.T, conn *websocket.Conn, want MessageType) *Message {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
		var msg Message
		require.NoError(t, conn.ReadJSON(&msg))
		if msg.Type == want {
			return &msg
		}
	}
	t.Fatalf("no %s message before deadline", want)
	return nil
}

func joinAs(t *testing.T, conn *websocket.Conn, name string) string {
	t.Helper()
	sendMessage(t, conn, MessageTypeJoin, JoinData{Name: name})
	msg := waitForMessage(t, conn, MessageTypeWelcome)

	var welcome WelcomeData
	require.NoError(t, json.Unmarshal(msg.Data, &welcome))
	require.NotEmpty(t, welcome.PlayerID)
	return welcome.PlayerID
}

func TestServerJoinAndWelcome(t *testing.T) {
	s, url := startTestServer(t)
	conn := dialTestServer(t, url)

	// The initial state push arrives before any join.
	msg := waitForMessage(t, conn, MessageTypeState)
	var view StateView
	require.NoError(t, json.Unmarshal(msg.Data, &view))
	assert.Equal(t, "waiting", view.Phase)
	assert.Empty(t, view.Players)

	playerID := joinAs(t, conn, "alice")

	msg = waitForMessage(t, conn, MessageTypeState)
	require.NoError(t, json.Unmarshal(msg.Data, &view))
	require.Len(t, view.Players, 1)
	assert.Equal(t, playerID, view.Players[0].ID)
	assert.Equal(t, s.table.ID(), view.TableID)
}

func TestServerRejectsDoubleJoin(t *testing.T) {
	_, url := startTestServer(t)
	conn := dialTestServer(t, url)

	joinAs(t, conn, "alice")
	sendMessage(t, conn, MessageTypeJoin, JoinData{Name: "alice2"})

	msg := waitForMessage(t, conn, MessageTypeError)
	var errData ErrorData
	require.NoError(t, json.Unmarshal(msg.Data, &errData))
	assert.Equal(t, "already_seated", errData.Code)
}

func TestServerPlaysHandOverWebsocket(t *testing.T) {
	s, url := startTestServer(t)
	alice := dialTestServer(t, url)
	bob := dialTestServer(t, url)

	aliceID := joinAs(t, alice, "alice")
	bobID := joinAs(t, bob, "bob")

	sendMessage(t, alice, MessageTypeStartHand, nil)

	// Wait until both clients see the hand underway.
	var view StateView
	msg := waitForMessage(t, bob, MessageTypeState)
	require.NoError(t, json.Unmarshal(msg.Data, &view))
	for view.Phase != "preflop" {
		msg = waitForMessage(t, bob, MessageTypeState)
		require.NoError(t, json.Unmarshal(msg.Data, &view))
	}
	assert.Equal(t, 30, view.Pot+totalBets(view))

	// Each viewer sees only their own hole cards.
	for _, pv := range view.Players {
		if pv.ID == bobID {
			assert.Len(t, pv.HoleCards, 2)
		} else {
			assert.Empty(t, pv.HoleCards)
		}
	}

	// The first actor folds, ending the hand in the other player's favor.
	actorID, ok := s.table.CurrentTurn()
	require.True(t, ok)
	actorConn := alice
	if actorID == bobID {
		actorConn = bob
	}
	sendMessage(t, actorConn, MessageTypeAction, ActionData{Action: "fold"})

	msg = waitForMessage(t, alice, MessageTypeState)
	require.NoError(t, json.Unmarshal(msg.Data, &view))
	for view.Phase != "showdown" {
		msg = waitForMessage(t, alice, MessageTypeState)
		require.NoError(t, json.Unmarshal(msg.Data, &view))
	}
	require.Len(t, view.Winners, 1)
	assert.NotEqual(t, actorID, view.Winners[0])
	assert.Contains(t, []string{aliceID, bobID}, view.Winners[0])
}

func TestServerRejectsOutOfTurnAction(t *testing.T) {
	s, url := startTestServer(t)
	alice := dialTestServer(t, url)
	bob := dialTestServer(t, url)

	joinAs(t, alice, "alice")
	bobID := joinAs(t, bob, "bob")

	sendMessage(t, alice, MessageTypeStartHand, nil)

	// Wait until the hand is underway before querying the turn.
	var view StateView
	msg := waitForMessage(t, alice, MessageTypeState)
	require.NoError(t, json.Unmarshal(msg.Data, &view))
	for view.Phase != "preflop" {
		msg = waitForMessage(t, alice, MessageTypeState)
		require.NoError(t, json.Unmarshal(msg.Data, &view))
	}

	actorID, ok := s.table.CurrentTurn()
	require.True(t, ok)

	idleConn := alice
	if actorID != bobID {
		idleConn = bob
	}
	sendMessage(t, idleConn, MessageTypeAction, ActionData{Action: "call"})

	msg = waitForMessage(t, idleConn, MessageTypeError)
	var errData ErrorData
	require.NoError(t, json.Unmarshal(msg.Data, &errData))
	assert.Equal(t, "action_rejected", errData.Code)
}

func TestServerActionFromSpectatorRejected(t *testing.T) {
	_, url := startTestServer(t)
	conn := dialTestServer(t, url)

	sendMessage(t, conn, MessageTypeAction, ActionData{Action: "check"})

	msg := waitForMessage(t, conn, MessageTypeError)
	var errData ErrorData
	require.NoError(t, json.Unmarshal(msg.Data, &errData))
	assert.Equal(t, "not_seated", errData.Code)
}

func totalBets(view StateView) int {
	total := 0
	for _, pv := range view.Players {
		total += pv.CurrentBet
	}
	return total
}
