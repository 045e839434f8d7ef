package websocket

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// message types pushed to connected hosts
const (
	// is sent to a connecting host with the feed state
	TypeFeedState = "feed_state"

	// is sent when a member books a table
	TypeBookingCreated = "booking_created"

	// is sent when a host approves a membership application
	TypeMemberApproved = "member_approved"

	// is sent when a receipt has been read into structured data
	TypeReceiptExtracted = "receipt_extracted"

	// is sent when an error occurs
	TypeError = "error"

	// is sent by clients to keep the connection alive
	TypePing = "ping"

	// is sent by server in response to ping
	TypePong = "pong"

	// is sent by server before shutdown
	TypeServerShutdown = "server_shutdown"
)

// client connection constants
const (
	// time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// hosts only send pings
	maxMessageSize = 4 * 1024

	sendBufferSize = 64
)

const maxConnectionsPerUser = 5

var (
	ErrConnectionClosed   = errors.New("connection closed")
	ErrTooManyConnections = errors.New("maximum connections per user exceeded")
)

// websocket message with typed payload
type Message struct {
	Type      string          `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Sequence  uint64          `json:"seq,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

type FeedStatePayload struct {
	ConnectedHosts int `json:"connected_hosts"`
}

type BookingCreatedPayload struct {
	BookingID    string `json:"booking_id"`
	CustomerName string `json:"customer_name"`
	Guests       int    `json:"guests"`
	Date         string `json:"date"`
	Time         string `json:"time"`
}

type MemberApprovedPayload struct {
	UserID     string `json:"user_id"`
	FullName   string `json:"full_name,omitempty"`
	ApprovedBy string `json:"approved_by"`
}

type ReceiptExtractedPayload struct {
	BookingID string  `json:"booking_id"`
	Vendor    string  `json:"vendor"`
	Total     float64 `json:"total"`
	Currency  string  `json:"currency"`
}

type ServerShutdownPayload struct {
	Reason string `json:"reason"`
}

// one connected host
type Client struct {
	ID     string
	UserID string

	conn *websocket.Conn
	hub  *Hub

	// buffered channel of outbound messages
	send chan []byte

	mu     sync.RWMutex
	closed bool
}

// fans events out to every connected host
type Hub struct {
	clients map[string]*Client

	Register   chan *Client
	Unregister chan *Client

	// events to push to all clients
	Broadcast chan *Message

	mu sync.RWMutex

	running  bool
	shutdown chan struct{}
	stopOnce sync.Once
	done     chan struct{}

	userConnections map[string]int
	sequence        uint64
}
