package repository

import (
	"time"

	"foresttrack/internal/models"
)

func SeedTrees() []models.Tree {
	return []models.Tree{
		{ID: 1, Lat: 45.5231, Lng: -122.6765, Species: "Douglas Fir", Health: models.HealthHealthy, LastInspection: "2025-10-10"},
		{ID: 2, Lat: 45.5251, Lng: -122.6785, Species: "Western Red Cedar", Health: models.HealthAtRisk, LastInspection: "2025-10-08"},
		{ID: 3, Lat: 45.5271, Lng: -122.6805, Species: "Sitka Spruce", Health: models.HealthHealthy, LastInspection: "2025-10-12"},
		{ID: 4, Lat: 45.5291, Lng: -122.6825, Species: "Hemlock", Health: models.HealthCritical, LastInspection: "2025-10-05"},
		{ID: 5, Lat: 45.5311, Lng: -122.6845, Species: "Noble Fir", Health: models.HealthHealthy, LastInspection: "2025-10-14"},
		{ID: 6, Lat: 45.5331, Lng: -122.6865, Species: "Douglas Fir", Health: models.HealthAtRisk, LastInspection: "2025-10-09"},
	}
}

func SeedChatGroups() []models.ChatGroup {
	return []models.ChatGroup{
		{ID: "1", Name: "General Discussion", Members: 12, LastMessage: "Hey team, how are the inspections going?"},
		{ID: "2", Name: "Field Team Alpha", Members: 5, LastMessage: "Found some diseased trees in sector 3"},
		{ID: "3", Name: "Data Analysis", Members: 8, LastMessage: "The latest reports are ready for review"},
		{ID: "4", Name: "Urgent Alerts", Members: 15, LastMessage: "Critical tree #87 needs immediate attention"},
	}
}

func SeedChatMessages(now time.Time) []models.ChatMessage {
	now = now.UTC()
	return []models.ChatMessage{
		{ID: "1", UserID: "user1", UserName: "Sarah Johnson", Text: "Hey team, how are the inspections going?", Timestamp: now.Add(-60 * time.Minute), GroupID: "1"},
		{ID: "2", UserID: "user2", UserName: "Mike Chen", Text: "Going well! Covered sector 2 this morning.", Timestamp: now.Add(-50 * time.Minute), GroupID: "1"},
		{ID: "3", UserID: "user3", UserName: "Emma Davis", Text: "Found some diseased trees in sector 3. Taking photos now.", Timestamp: now.Add(-30 * time.Minute), GroupID: "2"},
	}
}
