package wshub

// Inbound message types.
const (
	TypeLeave          = "leave"
	TypeSelectQuestion = "selectQuestion"
	TypeBuzz           = "buzz"
	TypeAwardPoints    = "awardPoints"
)

// Outbound message types.
const (
	TypeRoomSnapshot      = "roomSnapshot"
	TypeParticipantJoined = "participantJoined"
	TypeParticipantLeft   = "participantLeft"
	TypeQuestionChanged   = "questionChanged"
	TypeBuzzRegistered    = "buzzRegistered"
	TypeBuzzRejected      = "buzzRejected"
	TypeScoreUpdated      = "scoreUpdated"
	TypeError             = "error"
)

// ClientMessage is the JSON structure received from clients.
type ClientMessage struct {
	Type       string `json:"type"`
	QuestionID int64  `json:"questionId,omitempty"`
	Generation int64  `json:"generation,omitempty"`
	UserID     string `json:"userId,omitempty"` // awardPoints target
	Points     int    `json:"points,omitempty"`
}

// ServerMessage is the JSON structure sent to clients.
type ServerMessage struct {
	Type         string        `json:"type"`
	RoomCode     string        `json:"roomCode"`
	UserID       string        `json:"userId,omitempty"`
	DisplayName  string        `json:"displayName,omitempty"`
	QuestionID   int64         `json:"questionId,omitempty"`
	Generation   int64         `json:"generation,omitempty"`
	Sequence     int           `json:"sequence,omitempty"`
	Reason       string        `json:"reason,omitempty"`
	Points       int           `json:"points,omitempty"`
	TotalScore   int           `json:"totalScore,omitempty"`
	Participants []Participant `json:"participants,omitempty"`
}

// Participant is a room member as reported in snapshots.
type Participant struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
	IsHost      bool   `json:"isHost"`
	TotalScore  int    `json:"totalScore"`
}
