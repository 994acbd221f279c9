package bracket

type Participant struct {
	ID     int     `db:"id" json:"id"`
	Name   string  `db:"name" json:"name"`
	Avatar *string `db:"avatar" json:"avatar,omitempty"`
}
