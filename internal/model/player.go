package model

// ClientPlayer is the seat information sent to clients. TimeLeft is in
// tenths of a second, 0 when the game has no clock.
type ClientPlayer struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Color    Color  `json:"color"`
	TimeLeft int    `json:"timeLeft"`
}

func (p ClientPlayer) IsSeated() bool {
	return p.ID != ""
}
