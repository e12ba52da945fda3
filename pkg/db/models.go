package db

import "time"

// Word is one persisted row of the vocabulary list.
type Word struct {
	ID           int64     `json:"id"`
	Word         string    `json:"word"`
	Definition   string    `json:"definition"`
	PartOfSpeech string    `json:"partOfSpeech"`
	AudioRef     string    `json:"audioRef"`
	AddedAt      time.Time `json:"addedAt"`
	ReviewCount  int       `json:"reviewCount"`
}
