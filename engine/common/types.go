package common

import "fmt"

// PlayerID is the caller-supplied identifier of one player connection request.
// Duplicated IDs are permitted and tracked independently.
type PlayerID string

// ServerID is the stable identifier of a game server in the pool, assigned at
// construction and never reused
type ServerID string

// ServerIDForIndex returns the ServerID of the server at pool index i (0-based)
func ServerIDForIndex(i int) ServerID {
	return ServerID(fmt.Sprintf("Game_Server_%d", i+1))
}
