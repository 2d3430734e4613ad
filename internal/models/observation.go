package models

import "time"

const LocationUnavailable = "GPS coordinates unavailable"

type Observation struct {
	ID       string    `json:"id"`
	TreeID   string    `json:"treeId"`
	UserID   string    `json:"userId"`
	UserName string    `json:"userName"`
	Date     time.Time `json:"date"`
	Health   Health    `json:"health"`
	Notes    string    `json:"notes"`
	Photos   []string  `json:"photos"`
	Location string    `json:"location"`
	Synced   bool      `json:"synced"`
}
