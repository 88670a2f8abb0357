// Package sse pushes dashboard updates to viewers over Server-Sent Events.
package sse

import "time"

// EventType represents the type of SSE Event.
type EventType string

const (
	// EventConnected is the first event on every stream.
	EventConnected EventType = "connected"
	// EventHeartbeat represents a connection keepalive event.
	EventHeartbeat EventType = "heartbeat"

	// EventTweenFrame carries one animation frame of a display.
	EventTweenFrame EventType = "tween.frame"
	// EventSelectionChanged is sent when a session's leaderboard cursor moves.
	EventSelectionChanged EventType = "selection.changed"
	// EventSnapshotRefreshed is broadcast after a new snapshot is loaded.
	EventSnapshotRefreshed EventType = "snapshot.refreshed"
	// EventLoading carries the loading indicator frame while a fetch is in flight.
	EventLoading EventType = "loading"
	// EventPageChanged is sent when a session navigates.
	EventPageChanged EventType = "page.changed"
)

// Event represents an SSE event to be sent to clients.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
	Type      EventType `json:"type"`

	// SessionID restricts delivery to clients of one dashboard session.
	// Empty means broadcast to everyone.
	SessionID string `json:"-"`
}

// HeartbeatEventData is the data payload for heartbeat events.
type HeartbeatEventData struct {
	ServerTime time.Time `json:"server_time"`
}

// TweenFrameEventData is one frame of an animated display.
type TweenFrameEventData struct {
	Display string  `json:"display"`
	Value   float64 `json:"value"`
	Text    string  `json:"text"`
	Done    bool    `json:"done"`
}

// SelectionChangedEventData describes the new leaderboard cursor.
type SelectionChangedEventData struct {
	GameID      int64 `json:"game_id"`
	BucketIndex int   `json:"bucket_index"`
	RankIndex   int   `json:"rank_index"`
}

// SnapshotRefreshedEventData announces a new snapshot.
type SnapshotRefreshedEventData struct {
	Version   string    `json:"version"`
	Buckets   int       `json:"buckets"`
	FetchedAt time.Time `json:"fetched_at"`
}

// LoadingEventData is a loading indicator frame. Done marks the final event
// of a loading sequence.
type LoadingEventData struct {
	Frame int  `json:"frame"`
	Done  bool `json:"done"`
}

// PageChangedEventData names the page a session moved to.
type PageChangedEventData struct {
	Page string `json:"page"`
}

// NewHeartbeatEvent creates a heartbeat event.
func NewHeartbeatEvent() Event {
	now := time.Now()
	return Event{
		Type:      EventHeartbeat,
		Data:      HeartbeatEventData{ServerTime: now},
		Timestamp: now,
	}
}

// NewTweenFrameEvent creates a frame event for one session.
func NewTweenFrameEvent(sessionID string, data TweenFrameEventData) Event {
	return Event{
		Type:      EventTweenFrame,
		Data:      data,
		Timestamp: time.Now(),
		SessionID: sessionID,
	}
}

// NewSelectionChangedEvent creates a selection event for one session.
func NewSelectionChangedEvent(sessionID string, data SelectionChangedEventData) Event {
	return Event{
		Type:      EventSelectionChanged,
		Data:      data,
		Timestamp: time.Now(),
		SessionID: sessionID,
	}
}

// NewSnapshotRefreshedEvent creates a broadcast refresh event.
func NewSnapshotRefreshedEvent(version string, buckets int, fetchedAt time.Time) Event {
	return Event{
		Type:      EventSnapshotRefreshed,
		Data:      SnapshotRefreshedEventData{Version: version, Buckets: buckets, FetchedAt: fetchedAt},
		Timestamp: time.Now(),
	}
}

// NewLoadingEvent creates a loading frame event. An empty sessionID broadcasts.
func NewLoadingEvent(sessionID string, frame int, done bool) Event {
	return Event{
		Type:      EventLoading,
		Data:      LoadingEventData{Frame: frame, Done: done},
		Timestamp: time.Now(),
		SessionID: sessionID,
	}
}

// NewPageChangedEvent creates a navigation event for one session.
func NewPageChangedEvent(sessionID, page string) Event {
	return Event{
		Type:      EventPageChanged,
		Data:      PageChangedEventData{Page: page},
		Timestamp: time.Now(),
		SessionID: sessionID,
	}
}
