package codec

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMalformedState is returned when persisted state cannot be decoded.
var ErrMalformedState = errors.New("tracker: malformed persisted state")

// Tally is one user's leaderboard entry.
type Tally struct {
	Items uint64 `json:"items"`
	Data  uint64 `json:"data"`
}

// EncodeLeaderboard marshals the leaderboard keyed by username.
func EncodeLeaderboard(board map[string]Tally) ([]byte, error) {
	if board == nil {
		board = map[string]Tally{}
	}
	return json.Marshal(board)
}

// DecodeLeaderboard parses a leaderboard snapshot. Empty input yields an
// empty board; anything unparsable wraps ErrMalformedState.
func DecodeLeaderboard(data []byte) (map[string]Tally, error) {
	board := map[string]Tally{}
	if len(data) == 0 {
		return board, nil
	}
	if err := json.Unmarshal(data, &board); err != nil {
		return nil, fmt.Errorf("%w: leaderboard: %v", ErrMalformedState, err)
	}
	if board == nil {
		return nil, fmt.Errorf("%w: leaderboard: not a JSON object", ErrMalformedState)
	}
	for user := range board {
		if user == "" {
			return nil, fmt.Errorf("%w: leaderboard: empty username", ErrMalformedState)
		}
	}
	return board, nil
}
