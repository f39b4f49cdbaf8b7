package storer

import "time"

type Record struct {
	Id        string
	OwnerId   string
	Text      string
	Metadata  map[string]any
	Vector    []float32
	CreatedAt time.Time
}

type Match struct {
	Record   Record
	Distance float64
}
