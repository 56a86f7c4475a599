package common

// PlayerList is an append-only list of players (slice)
type PlayerList []PlayerID

// Append adds the player to the end of PlayerList
func (pl *PlayerList) Append(player PlayerID) {
	*pl = append(*pl, player)
}

// Find gets the index of player in PlayerList, returns -1 if not found
func (pl *PlayerList) Find(player PlayerID) int {
	for idx, elem := range *pl {
		if elem == player {
			return idx
		}
	}
	return -1
}

// Copy returns a copy of PlayerList that the caller owns
func (pl PlayerList) Copy() PlayerList {
	cp := make(PlayerList, len(pl))
	copy(cp, pl)
	return cp
}
