// Package chat holds the generated protobuf messages and gRPC stubs of the
// chatbot.ChatService API, plus small helpers shared by server and clients.
package chat

//go:generate protoc --go_out=. --go_opt=paths=source_relative --go-grpc_out=. --go-grpc_opt=paths=source_relative chatbot.proto

import (
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
)

// Sender tags carried in ChatMessage.Sender.
const (
	SenderUser   = "user"
	SenderAI     = "ai"
	SenderSystem = "system"
)

// IsAnnouncement reports whether the message announces a newly created session.
func (x *ChatMessage) IsAnnouncement() bool {
	return x.GetSender() == SenderSystem && x.GetSessionId() != ""
}

var (
	jsonMarshal   = protojson.MarshalOptions{UseProtoNames: true}
	jsonUnmarshal = protojson.UnmarshalOptions{DiscardUnknown: true}
)

// MarshalJSON encodes m with the proto field names (message_id, session_id)
// used by the WebSocket gateway.
func MarshalJSON(m proto.Message) ([]byte, error) {
	return jsonMarshal.Marshal(m)
}

// UnmarshalJSON decodes data into m, accepting proto or lowerCamel names.
func UnmarshalJSON(data []byte, m proto.Message) error {
	return jsonUnmarshal.Unmarshal(data, m)
}
